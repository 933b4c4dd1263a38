package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"storefront-client/models"
	"storefront-client/store"
)

// AuthAPI is the slice of the storefront API the auth engine needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
}

// AuthService owns the current user and session token. Credentials are
// persisted after login/register and restored on construction; corrupt or
// expired stored state is discarded and the engine starts unauthenticated.
//
// Overlapping Login calls are not serialized: the last response to arrive
// wins. Callers are expected to disable the submit control while a request
// is outstanding.
type AuthService struct {
	mu    sync.RWMutex
	user  *models.AuthUser
	token string

	api    AuthAPI
	store  store.Store
	logger *zap.Logger
}

// NewAuthService restores persisted credentials and returns the engine.
func NewAuthService(api AuthAPI, st store.Store, logger *zap.Logger) *AuthService {
	s := &AuthService{
		api:    api,
		store:  st,
		logger: logger,
	}
	s.restore()
	return s
}

func (s *AuthService) restore() {
	ctx := context.Background()

	tokenData, err := s.store.Get(ctx, store.KeyAuthToken)
	if err != nil || len(tokenData) == 0 {
		return
	}
	token := string(tokenData)

	userData, err := s.store.Get(ctx, store.KeyUserData)
	if err != nil || len(userData) == 0 {
		return
	}

	var user models.AuthUser
	if err := json.Unmarshal(userData, &user); err != nil {
		s.logger.Warn("discarding corrupt persisted user", zap.Error(err))
		s.clearPersisted()
		return
	}

	if tokenExpired(token) {
		s.logger.Info("stored session token expired, login required")
		s.clearPersisted()
		return
	}

	s.user = &user
	s.token = token
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// Tokens that do not parse as JWTs are treated as opaque and kept.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	// a missing exp claim passes; only a present-and-past exp is expired
	return !claims.VerifyExpiresAt(time.Now().Unix(), false)
}

// Login authenticates against the external endpoint and stores the
// returned user and token. The failure message comes from the server.
// Never retries.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthUser, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.setSession(resp.User, resp.Token)
	s.logger.Info("logged in", zap.String("email", resp.User.Email), zap.String("role", resp.User.Role))

	user := resp.User
	return &user, nil
}

// Register creates an account and, like Login, stores the returned session.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthUser, error) {
	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	s.setSession(resp.User, resp.Token)
	s.logger.Info("registered", zap.String("email", resp.User.Email))

	user := resp.User
	return &user, nil
}

func (s *AuthService) setSession(user models.AuthUser, token string) {
	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()

	ctx := context.Background()
	if err := s.store.Set(ctx, store.KeyAuthToken, []byte(token)); err != nil {
		s.logger.Warn("failed to persist token", zap.Error(err))
	}
	userData, err := json.Marshal(user)
	if err != nil {
		s.logger.Warn("failed to encode user", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, store.KeyUserData, userData); err != nil {
		s.logger.Warn("failed to persist user", zap.Error(err))
	}
}

// Logout clears the in-memory session and the persisted credentials.
// Always succeeds.
func (s *AuthService) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	s.clearPersisted()
}

func (s *AuthService) clearPersisted() {
	ctx := context.Background()
	if err := s.store.Delete(ctx, store.KeyAuthToken); err != nil {
		s.logger.Warn("failed to clear persisted token", zap.Error(err))
	}
	if err := s.store.Delete(ctx, store.KeyUserData); err != nil {
		s.logger.Warn("failed to clear persisted user", zap.Error(err))
	}
}

// Token returns the current bearer token, or "" when unauthenticated.
func (s *AuthService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user, or nil when unauthenticated.
func (s *AuthService) User() *models.AuthUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// IsAuthenticated reports whether both a user and a token are present.
func (s *AuthService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// HasRole reports whether the current user holds the given role.
// Always false when unauthenticated.
func (s *AuthService) HasRole(role string) bool {
	return s.HasAnyRole(role)
}

// HasAnyRole reports whether the current user's role is one of roles.
func (s *AuthService) HasAnyRole(roles ...string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.token == "" {
		return false
	}
	for _, role := range roles {
		if s.user.Role == role {
			return true
		}
	}
	return false
}
