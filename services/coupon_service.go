package services

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront-client/apperrors"
	"storefront-client/models"
)

// Default user-facing messages when the server gives no explanation.
const (
	msgEmptyCouponCode   = "Vui lòng nhập mã giảm giá"
	msgCouponNotAccepted = "Mã giảm giá không tồn tại hoặc đã hết hạn"
)

// CouponAPI is the slice of the storefront API the coupon engine needs.
type CouponAPI interface {
	ValidateCoupon(ctx context.Context, code string, orderTotal float64) (*models.ValidateCouponResponse, error)
	AvailableCoupons(ctx context.Context) ([]models.Coupon, error)
}

// CouponService holds at most one applied coupon for a checkout session.
// Unlike the cart and auth engines it is not process-wide: construct one
// per checkout and drop it when the session ends.
type CouponService struct {
	mu         sync.Mutex
	sessionID  uuid.UUID
	applied    *models.Coupon
	validating bool

	api    CouponAPI
	logger *zap.Logger
}

// NewCouponService creates an engine for a fresh checkout session.
func NewCouponService(api CouponAPI, logger *zap.Logger) *CouponService {
	return &CouponService{
		sessionID: uuid.New(),
		api:       api,
		logger:    logger,
	}
}

// SessionID identifies the checkout session this engine belongs to.
func (s *CouponService) SessionID() uuid.UUID {
	return s.sessionID
}

// Validate checks code against the server for the given order total and,
// when accepted, stores and returns the coupon. Rejections come back as a
// ValidationError carrying the server's explanation (or a default);
// network failures come back as the client's TransportError. No retry.
//
// While the call is outstanding IsValidating reports true so the caller
// can disable duplicate submissions; overlapping calls are not rejected
// here and the last response to resolve wins.
func (s *CouponService) Validate(ctx context.Context, code string, orderTotal float64) (*models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperrors.NewValidation(msgEmptyCouponCode)
	}

	s.setValidating(true)
	defer s.setValidating(false)

	resp, err := s.api.ValidateCoupon(ctx, code, orderTotal)
	if err != nil {
		return nil, err
	}

	if !resp.Valid || resp.Coupon == nil {
		message := resp.Message
		if message == "" {
			message = msgCouponNotAccepted
		}
		return nil, apperrors.NewValidation(message)
	}

	coupon := *resp.Coupon
	s.mu.Lock()
	s.applied = &coupon
	s.mu.Unlock()

	s.logger.Info("coupon applied",
		zap.String("session", s.sessionID.String()),
		zap.String("code", coupon.Code),
		zap.String("kind", string(coupon.Kind)),
	)

	applied := coupon
	return &applied, nil
}

// Remove clears the applied coupon unconditionally.
func (s *CouponService) Remove() {
	s.mu.Lock()
	s.applied = nil
	s.mu.Unlock()
}

// Applied returns a copy of the applied coupon, or nil.
func (s *CouponService) Applied() *models.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applied == nil {
		return nil
	}
	coupon := *s.applied
	return &coupon
}

// IsValidating reports whether a validation call is outstanding.
func (s *CouponService) IsValidating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validating
}

func (s *CouponService) setValidating(v bool) {
	s.mu.Lock()
	s.validating = v
	s.mu.Unlock()
}

// Discount returns the monetary discount of the applied coupon for the
// given order total; 0 when no coupon is applied.
func (s *CouponService) Discount(orderTotal float64) float64 {
	return DiscountFor(orderTotal, s.Applied())
}

// DiscountFor computes the monetary discount of coupon against orderTotal.
// Percentage coupons are capped at MaxDiscount when set; every discount is
// capped at the order total and never negative. Shipping coupons waive the
// shipping fee elsewhere and contribute 0 here.
func DiscountFor(orderTotal float64, coupon *models.Coupon) float64 {
	if coupon == nil {
		return 0
	}

	var discount float64
	switch coupon.Kind {
	case models.CouponKindPercentage:
		discount = orderTotal * coupon.Value / 100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
	case models.CouponKindFixed:
		discount = coupon.Value
	case models.CouponKindShipping:
		discount = 0
	}

	if discount > orderTotal {
		discount = orderTotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// Available lists the coupons currently offered by the server.
func (s *CouponService) Available(ctx context.Context) ([]models.Coupon, error) {
	return s.api.AvailableCoupons(ctx)
}
