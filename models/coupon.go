package models

import "time"

// CouponKind represents the type of discount a coupon provides.
type CouponKind string

const (
	CouponKindPercentage CouponKind = "percentage"
	CouponKindFixed      CouponKind = "fixed"
	CouponKindShipping   CouponKind = "shipping"
)

// Coupon is a promotional coupon as returned by the coupon endpoints.
// Codes are normalized to upper case before any comparison or request.
type Coupon struct {
	Code        string     `json:"code"`
	Kind        CouponKind `json:"kind"`
	Value       float64    `json:"value"`                 // discount amount or percentage
	MinOrder    float64    `json:"minOrder"`              // minimum order total to apply
	MaxDiscount float64    `json:"maxDiscount,omitempty"` // cap for percentage coupons; 0 = uncapped
	ExpiresAt   time.Time  `json:"expiresAt"`
	Active      bool       `json:"active"`
	UsageLimit  int        `json:"usageLimit,omitempty"` // 0 = unlimited
	UsedCount   int        `json:"usedCount"`
}

// ValidateCouponRequest is the payload for POST /api/coupons/validate.
type ValidateCouponRequest struct {
	Code       string  `json:"code"`
	OrderTotal float64 `json:"orderTotal"`
}

// ValidateCouponResponse is the server's verdict on a coupon code.
type ValidateCouponResponse struct {
	Valid   bool    `json:"valid"`
	Coupon  *Coupon `json:"coupon,omitempty"`
	Message string  `json:"message,omitempty"`
}

// AvailableCouponsResponse is the body of GET /api/coupons/available.
type AvailableCouponsResponse struct {
	Coupons []Coupon `json:"coupons"`
}
