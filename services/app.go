package services

import (
	"go.uber.org/zap"

	"storefront-client/clients"
	"storefront-client/config"
	"storefront-client/store"
)

// App is the storefront client context: one store, one API client and one
// instance of each process-wide engine, constructed at startup and handed
// to the presentation layer explicitly instead of living behind globals.
type App struct {
	Cart *CartService
	Auth *AuthService

	api    *clients.APIClient
	store  store.Store
	logger *zap.Logger
}

// NewApp opens the configured store and wires the engines.
func NewApp(cfg config.Config, logger *zap.Logger) (*App, error) {
	st, err := store.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	api := clients.NewAPIClient(cfg.APIBaseURL, cfg.HTTPTimeout, logger)

	return &App{
		Cart:   NewCartService(st, logger),
		Auth:   NewAuthService(api, st, logger),
		api:    api,
		store:  st,
		logger: logger,
	}, nil
}

// NewCheckout returns a coupon engine scoped to a fresh checkout session.
func (a *App) NewCheckout() *CouponService {
	return NewCouponService(a.api, a.logger)
}

// Reset clears the cart and the session. Teardown hook for tests and for
// the "start over" action on shared kiosks.
func (a *App) Reset() {
	a.Cart.Clear()
	a.Auth.Logout()
}

// Close releases the underlying store.
func (a *App) Close() error {
	return a.store.Close()
}
