// Package storefront assembles the client-side stores over one API client.
package storefront

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"furnisure/auth"
	"furnisure/cart"
	"furnisure/catalog"
	"furnisure/client"
	"furnisure/config"
	"furnisure/dashboard"
	models "furnisure/model"
	"furnisure/orders"
)

var (
	_ catalog.API        = (*client.Client)(nil)
	_ orders.API         = (*client.Client)(nil)
	_ orders.CheckoutAPI = (*client.Client)(nil)
	_ auth.ProfileAPI    = (*client.Client)(nil)
	_ dashboard.API      = (*client.Client)(nil)
)

type Storefront struct {
	API      *client.Client
	Cart     *cart.Cart
	Catalog  *catalog.Store
	Orders   *orders.Store
	Checkout *orders.Checkout
	Auth     *auth.Authorizer
	Admin    *dashboard.Store
}

// New wires every store to a client for cfg.APIBaseURL. widget may be nil when
// the hosted payment script is unavailable; gateway checkouts then fail.
func New(cfg config.StorefrontConfig, tokens client.TokenSource, widget orders.Widget, opts ...client.Option) (*Storefront, error) {
	if cfg.APIBaseURL == "" {
		return nil, errors.New("storefront: api base url is required")
	}
	api := client.New(cfg.APIBaseURL, tokens, opts...)
	c := cart.New()
	products := catalog.NewStore(api)
	if cfg.DevMode {
		zap.S().Warn("storefront dev mode, failed gateway payments are not submitted")
	}
	return &Storefront{
		API:      api,
		Cart:     c,
		Catalog:  products,
		Orders:   orders.NewStore(api),
		Checkout: orders.NewCheckout(api, c, widget, cfg.DevMode),
		Auth:     auth.NewAuthorizer(api),
		Admin:    dashboard.NewStore(api, products.Invalidate),
	}, nil
}

// PlaceOrder fills the customer fields from the signed-in profile and runs
// checkout with the current cart.
func (s *Storefront) PlaceOrder(ctx context.Context, form orders.DeliveryForm, method models.PaymentMethod) (models.Order, error) {
	id, err := s.Auth.Identity(ctx)
	if err != nil {
		return models.Order{}, err
	}
	return s.Checkout.PlaceOrder(ctx, id, form, method)
}

// MyOrders lists the signed-in customer's own orders.
func (s *Storefront) MyOrders(ctx context.Context) ([]models.Order, error) {
	return s.API.ProfileOrders(ctx)
}
