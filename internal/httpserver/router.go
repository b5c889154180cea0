package httpserver

import (
	"context"
	"errors"

	"fuel-storefront/internal/domain"
	"fuel-storefront/internal/pricing"
	cartsvc "fuel-storefront/internal/service/cart"
	categorysvc "fuel-storefront/internal/service/category"
	"fuel-storefront/internal/service/checkout"
	customersvc "fuel-storefront/internal/service/customer"
	"fuel-storefront/internal/service/session"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type customerService interface {
	Signup(ctx context.Context, in customersvc.SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*domain.Customer, string, error)
	Logout(ctx context.Context, token string) error
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
	Profile(ctx context.Context, customerID string) (*domain.Customer, error)
	UpdateProfile(ctx context.Context, customerID string, in customersvc.ProfileInput) (*domain.Customer, error)
	AccessTTLSeconds() int
}

type productService interface {
	ListActive(ctx context.Context, category *domain.Category) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type categoryService interface {
	List() []categorysvc.Info
	Resolve(label string) *domain.Category
}

type cartService interface {
	Quote(ctx context.Context, in cartsvc.EntryInput) (*cartsvc.Quote, error)
	Entry(ctx context.Context, productID, mode string) (pricing.Mode, string, error)
	Add(ctx context.Context, owner cartsvc.LedgerOwner, in cartsvc.EntryInput) (*cartsvc.Quote, cartsvc.View, error)
	Remove(owner cartsvc.LedgerOwner, productID string) cartsvc.View
	Clear(owner cartsvc.LedgerOwner) cartsvc.View
	Get(owner cartsvc.LedgerOwner) cartsvc.View
}

type checkoutService interface {
	PlaceOrder(ctx context.Context, customerID string, cart checkout.Cart, in checkout.Input) (*domain.Order, error)
	DeliveryFee(subtotal decimal.Decimal) decimal.Decimal
}

type orderService interface {
	History(ctx context.Context, customerID string) ([]domain.Order, error)
}

// Deps are the services the router dispatches to.
type Deps struct {
	CustomerSvc customerService
	ProductSvc  productService
	CategorySvc categoryService
	CartSvc     cartService
	CheckoutSvc checkoutService
	OrderSvc    orderService
	Sessions    *session.Registry

	Currency           string
	CORSAllowedOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.CustomerSvc == nil:
		return errors.New("httpserver: customer service required")
	case d.ProductSvc == nil:
		return errors.New("httpserver: product service required")
	case d.CategorySvc == nil:
		return errors.New("httpserver: category service required")
	case d.CartSvc == nil:
		return errors.New("httpserver: cart service required")
	case d.CheckoutSvc == nil:
		return errors.New("httpserver: checkout service required")
	case d.OrderSvc == nil:
		return errors.New("httpserver: order service required")
	case d.Sessions == nil:
		return errors.New("httpserver: session registry required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Currency == "" {
		deps.Currency = "PHP"
	}
	h := &handlers{deps: deps, logger: logger.Named("http")}

	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery(), corsMiddleware(deps.CORSAllowedOrigins))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	auth := router.Group("/auth")
	auth.POST("/signup", h.signup)
	auth.POST("/token", h.token)
	auth.POST("/logout", h.requireSession(), h.logout)

	router.GET("/categories", h.listCategories)
	router.GET("/products", h.listProducts)
	router.GET("/products/:id", h.getProduct)
	router.GET("/products/:id/entry", h.entryDefaults)

	authed := router.Group("/", h.requireSession())
	authed.GET("/cart", h.getCart)
	authed.POST("/cart/quote", h.quote)
	authed.POST("/cart/items", h.addItem)
	authed.DELETE("/cart/items/:productId", h.removeItem)
	authed.DELETE("/cart", h.clearCart)
	authed.POST("/checkout", h.checkout)
	authed.GET("/orders", h.listOrders)
	authed.GET("/me", h.me)
	authed.PUT("/me", h.updateMe)

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}
