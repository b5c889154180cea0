package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fuel-storefront/internal/domain"
	"fuel-storefront/internal/pricing"
	cartsvc "fuel-storefront/internal/service/cart"
	categorysvc "fuel-storefront/internal/service/category"
	"fuel-storefront/internal/service/checkout"
	customersvc "fuel-storefront/internal/service/customer"
	"fuel-storefront/internal/service/session"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCustomerSvc struct {
	customer  *domain.Customer
	signErr   error
	loginErr  error
	updateErr error
	loggedOut []string
}

func (s *stubCustomerSvc) Signup(_ context.Context, in customersvc.SignupInput) (*domain.Customer, error) {
	if s.signErr != nil {
		return nil, s.signErr
	}
	return &domain.Customer{ID: "cust-new", Email: in.Email, FullName: in.FullName, Phone: in.Phone, Role: domain.RoleCustomer}, nil
}

func (s *stubCustomerSvc) Login(_ context.Context, _, _ string) (*domain.Customer, string, error) {
	if s.loginErr != nil {
		return nil, "", s.loginErr
	}
	return s.customer, "tok-1", nil
}

func (s *stubCustomerSvc) Logout(_ context.Context, token string) error {
	s.loggedOut = append(s.loggedOut, token)
	return nil
}

func (s *stubCustomerSvc) LookupByToken(_ context.Context, token string) (*domain.Customer, error) {
	if s.customer == nil || token == "bad" {
		return nil, customersvc.ErrInvalidToken
	}
	return s.customer, nil
}

func (s *stubCustomerSvc) Profile(context.Context, string) (*domain.Customer, error) {
	return s.customer, nil
}

func (s *stubCustomerSvc) UpdateProfile(_ context.Context, _ string, in customersvc.ProfileInput) (*domain.Customer, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	c := *s.customer
	c.FullName, c.Phone, c.Address = in.FullName, in.Phone, in.Address
	return &c, nil
}

func (s *stubCustomerSvc) AccessTTLSeconds() int { return 3600 }

type stubProductSvc struct {
	products map[string]domain.Product
	err      error
}

func (s *stubProductSvc) ListActive(_ context.Context, category *domain.Category) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.Product
	for _, id := range []string{"diesel", "oil"} {
		p := s.products[id]
		if category == nil || p.Category == *category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProductSvc) Get(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

type stubSubmitter struct {
	err error
}

func (s *stubSubmitter) Submit(_ context.Context, d domain.OrderDraft) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, domain.OrderItem{ProductID: it.ProductID, ProductName: it.Name, Unit: it.Unit, Quantity: it.Quantity, PriceAtOrder: it.UnitPrice, LineTotal: it.LineTotal})
	}
	return &domain.Order{ID: "ord-1", Status: domain.OrderStatusPending, Subtotal: d.Subtotal, DeliveryFee: d.DeliveryFee, TotalAmount: d.TotalAmount, DeliveryAddress: d.DeliveryAddress, PaymentMethod: d.PaymentMethod, Items: items}, nil
}

type stubOrderSvc struct {
	orders []domain.Order
}

func (s *stubOrderSvc) History(context.Context, string) ([]domain.Order, error) {
	return s.orders, nil
}

type testEnv struct {
	router    *gin.Engine
	customers *stubCustomerSvc
	submitter *stubSubmitter
	sessions  *session.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	zero := 0
	products := &stubProductSvc{products: map[string]domain.Product{
		"diesel": {ID: "diesel", Name: "Diesel", Category: domain.CategoryFuel, Unit: "Liter", CurrentPrice: decimal.RequireFromString("60"), IsActive: true},
		"oil":    {ID: "oil", Name: "10W-40", Category: domain.CategoryMotorOil, Unit: "Bottle", CurrentPrice: decimal.RequireFromString("250"), IsActive: true},
		"gone":   {ID: "gone", Name: "Gone", Category: domain.CategoryEngineOil, Unit: "Pail", CurrentPrice: decimal.RequireFromString("900"), IsActive: true, StockQuantity: &zero},
	}}
	env := &testEnv{
		customers: &stubCustomerSvc{customer: &domain.Customer{ID: "cust-1", Email: "me@example.com", FullName: "Juan", Role: domain.RoleCustomer}},
		submitter: &stubSubmitter{},
		sessions:  session.NewRegistry(nil),
	}
	router, err := buildRouter(zap.NewNop(), nil, Deps{
		CustomerSvc: env.customers,
		ProductSvc:  products,
		CategorySvc: categorysvc.New(),
		CartSvc:     cartsvc.New(products, pricing.Calculator{}),
		CheckoutSvc: checkout.New(env.submitter, checkout.FeePolicy{Fee: decimal.RequireFromString("50"), FreeThreshold: decimal.RequireFromString("1000")}),
		OrderSvc:    &stubOrderSvc{orders: []domain.Order{{ID: "ord-9", Status: domain.OrderStatusPending}}},
		Sessions:    env.sessions,
	})
	require.NoError(t, err)
	env.router = router
	return env
}

func (e *testEnv) do(method, path, body string, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestBuildRouterRequiresDeps(t *testing.T) {
	_, err := buildRouter(zap.NewNop(), nil, Deps{})
	assert.Error(t, err)
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, env.do(http.MethodGet, "/readyz", "", "").Code)
}

func TestCartRequiresBearer(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/cart", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/cart", "", "bad").Code)
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/cart/items", `{"productId":"diesel","input":"300","mode":"amount"}`, "tok-1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/cart/items", `{"productId":"diesel","input":"2"}`, "tok-1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "7", items[0].(map[string]any)["quantity"])
	assert.Equal(t, "420.00", body["total"])
	assert.Equal(t, "50.00", body["deliveryFee"])
	assert.Equal(t, "470.00", body["grandTotal"])

	rec = env.do(http.MethodPost, "/cart/items", `{"productId":"oil","input":"1"}`, "tok-1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodDelete, "/cart/items/diesel", "", "tok-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "250.00", decodeBody(t, rec)["total"])

	rec = env.do(http.MethodDelete, "/cart", "", "tok-1")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "0.00", body["total"])
	assert.Equal(t, "0.00", body["deliveryFee"])
}

func TestAddItemRejectsInvalidEntry(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/cart/items", `{"productId":"diesel","input":"abc"}`, "tok-1")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), pricing.ReasonNotNumeric)

	rec = env.do(http.MethodPost, "/cart/items", `{"productId":"gone","input":"1"}`, "tok-1")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodPost, "/cart/items", `{"productId":"nope","input":"1"}`, "tok-1")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodPost, "/cart/items", `{"productId":"diesel","input":"1","mode":"gallons"}`, "tok-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/cart", "", "tok-1")
	assert.Equal(t, float64(0), decodeBody(t, rec)["itemCount"])
}

func TestQuoteDoesNotTouchCart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/cart/quote", `{"productId":"diesel","input":"100","mode":"amount"}`, "tok-1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "1.667", body["quantity"])
	assert.Equal(t, "100.00", body["lineTotal"])
	assert.Equal(t, "amount", body["mode"])

	rec = env.do(http.MethodPost, "/cart/quote", `{"productId":"oil","input":"2","mode":"amount"}`, "tok-1")
	body = decodeBody(t, rec)
	assert.Equal(t, "quantity", body["mode"])
	assert.Equal(t, "500.00", body["lineTotal"])

	rec = env.do(http.MethodGet, "/cart", "", "tok-1")
	assert.Equal(t, float64(0), decodeBody(t, rec)["itemCount"])
}

func TestCatalogRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/products?category=fuel", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])

	rec = env.do(http.MethodGet, "/products/diesel", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	product := decodeBody(t, rec)["product"].(map[string]any)
	assert.Equal(t, "60.00", product["price"])
	assert.Equal(t, "volume", product["measure"])

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/products/nope", "", "").Code)

	rec = env.do(http.MethodGet, "/products/diesel/entry?mode=amount", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "amount", body["mode"])
	assert.Equal(t, "100", body["input"])

	rec = env.do(http.MethodGet, "/categories", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["categories"], 4)
}

func TestCheckoutStatusCodes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/checkout", `{"address":"x"}`, "tok-1")
	assert.Equal(t, http.StatusConflict, rec.Code, "empty cart")

	env.do(http.MethodPost, "/cart/items", `{"productId":"oil","input":"2"}`, "tok-1")

	rec = env.do(http.MethodPost, "/checkout", `{"address":"  "}`, "tok-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/checkout", `{"address":"x","paymentMethod":"card"}`, "tok-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env.submitter.err = errors.New("backend down")
	rec = env.do(http.MethodPost, "/checkout", `{"address":"x"}`, "tok-1")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, env.do(http.MethodGet, "/cart", "", "tok-1"))["itemCount"])

	env.submitter.err = nil
	rec = env.do(http.MethodPost, "/checkout", `{"address":"12 Rizal St","paymentMethod":"cod"}`, "tok-1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decodeBody(t, rec)["order"].(map[string]any)
	assert.Equal(t, "550.00", order["totalAmount"])
	assert.Equal(t, "Cash on Delivery", order["paymentMethod"])
	assert.Equal(t, float64(0), decodeBody(t, env.do(http.MethodGet, "/cart", "", "tok-1"))["itemCount"])

	rec = env.do(http.MethodGet, "/orders", "", "tok-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["orders"], 1)
}

func TestAddItemRequiresProductID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/cart/items", `{"input":"1"}`, "tok-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBlankProductIDIsBadRequest(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/cart/items", `{"productId":"   ","input":"1"}`, "tok-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/cart/quote", `{"productId":"   ","input":"1"}`, "tok-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestQuoteEchoesPricedInput(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/cart/quote", `{"productId":"diesel","input":"12a"}`, "tok-1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "12a", body["input"])
	assert.Equal(t, "12", body["suggestedInput"])
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, pricing.ReasonNotNumeric, body["reason"])
}

func TestDeadTokenClosesSession(t *testing.T) {
	env := newTestEnv(t)
	s := env.sessions.Open("bad", "cust-1")
	s.Do(func(l *cartsvc.Ledger) {
		l.AddItem(domain.Product{ID: "oil", Name: "10W-40", Category: domain.CategoryMotorOil, Unit: "Bottle", CurrentPrice: decimal.RequireFromString("250")}, decimal.NewFromInt(1), decimal.RequireFromString("250"))
	})

	rec := env.do(http.MethodGet, "/cart", "", "bad")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, ok := env.sessions.Get("bad")
	assert.False(t, ok)
	s.Do(func(l *cartsvc.Ledger) { assert.Equal(t, 0, l.Len()) })
}
