package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"storefront-client/apperrors"
	"storefront-client/models"
)

// APIClient talks to the storefront HTTP API.
type APIClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewAPIClient creates a client rooted at baseURL. Timeout bounds every
// request; cancellation beyond that belongs to the caller's context.
func NewAPIClient(baseURL string, timeout time.Duration, logger *zap.Logger) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Login authenticates against POST /api/auth/login. A non-2xx response is
// returned as an AuthenticationError carrying the server's message.
func (c *APIClient) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	body := models.LoginRequest{Email: email, Password: password}

	resp, err := c.postJSON(ctx, "/api/auth/login", body)
	if err != nil {
		return nil, apperrors.NewTransport("login", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apperrors.AuthenticationError{
			StatusCode: resp.StatusCode,
			Message:    decodeMessage(resp.Body, "Đăng nhập thất bại"),
		}
	}

	var out models.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.NewTransport("login", err)
	}
	return &out, nil
}

// Register creates an account via POST /api/auth/register. Same response
// contract as Login, surfaced as a RegistrationError on failure.
func (c *APIClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	resp, err := c.postJSON(ctx, "/api/auth/register", req)
	if err != nil {
		return nil, apperrors.NewTransport("register", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apperrors.RegistrationError{
			StatusCode: resp.StatusCode,
			Message:    decodeMessage(resp.Body, "Đăng ký thất bại"),
		}
	}

	var out models.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.NewTransport("register", err)
	}
	return &out, nil
}

// ValidateCoupon asks POST /api/coupons/validate for a verdict on code
// against orderTotal. The verdict body is returned as-is even when the
// coupon is rejected; only transport-level problems produce an error.
func (c *APIClient) ValidateCoupon(ctx context.Context, code string, orderTotal float64) (*models.ValidateCouponResponse, error) {
	body := models.ValidateCouponRequest{Code: code, OrderTotal: orderTotal}

	resp, err := c.postJSON(ctx, "/api/coupons/validate", body)
	if err != nil {
		return nil, apperrors.NewTransport("validate coupon", err)
	}
	defer resp.Body.Close()

	var out models.ValidateCouponResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.NewTransport("validate coupon", err)
	}
	return &out, nil
}

// AvailableCoupons lists currently offered coupons from
// GET /api/coupons/available.
func (c *APIClient) AvailableCoupons(ctx context.Context) ([]models.Coupon, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/coupons/available", nil)
	if err != nil {
		return nil, apperrors.NewTransport("available coupons", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.NewTransport("available coupons", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewTransport("available coupons",
			&statusError{StatusCode: resp.StatusCode})
	}

	var out models.AvailableCouponsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.NewTransport("available coupons", err)
	}
	return out.Coupons, nil
}

func (c *APIClient) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("storefront API unreachable", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// decodeMessage extracts {message} from an error body, falling back when
// the body is empty or unparseable.
func decodeMessage(r io.Reader, fallback string) string {
	var apiErr models.APIError
	if err := json.NewDecoder(r).Decode(&apiErr); err != nil || apiErr.Message == "" {
		return fallback
	}
	return apiErr.Message
}

type statusError struct {
	StatusCode int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}
