package httpserver

import (
	"errors"
	"net/http"
	"time"

	"fuel-storefront/internal/domain"
	"fuel-storefront/internal/pricing"
	cartsvc "fuel-storefront/internal/service/cart"
	"fuel-storefront/internal/service/checkout"
	customersvc "fuel-storefront/internal/service/customer"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// quantity keeps at most three fraction digits for display.
func quantity(d decimal.Decimal) string {
	return d.Round(3).String()
}

type productResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Category            string    `json:"category"`
	Measure             string    `json:"measure"`
	SupportsAmountEntry bool      `json:"supportsAmountEntry"`
	Unit                string    `json:"unit"`
	Description         string    `json:"description,omitempty"`
	ImageURL            string    `json:"imageUrl,omitempty"`
	Price               string    `json:"price"`
	InStock             bool      `json:"inStock"`
	StockQuantity       *int      `json:"stockQuantity,omitempty"`
	IsActive            bool      `json:"isActive"`
	CreatedAt           time.Time `json:"createdAt"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Category:            p.Category.String(),
		Measure:             p.Category.Measure().String(),
		SupportsAmountEntry: p.Category.SupportsAmountEntry(),
		Unit:                p.Unit,
		Description:         p.Description,
		ImageURL:            p.ImageURL,
		Price:               money(p.CurrentPrice),
		InStock:             p.InStock(),
		StockQuantity:       p.StockQuantity,
		IsActive:            p.IsActive,
		CreatedAt:           p.CreatedAt,
	}
}

type lineItemResponse struct {
	ProductID string    `json:"productId"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Unit      string    `json:"unit"`
	UnitPrice string    `json:"unitPrice"`
	Quantity  string    `json:"quantity"`
	LineTotal string    `json:"lineTotal"`
	AddedAt   time.Time `json:"addedAt"`
}

type cartResponse struct {
	Items       []lineItemResponse `json:"items"`
	ItemCount   int                `json:"itemCount"`
	Total       string             `json:"total"`
	DeliveryFee string             `json:"deliveryFee"`
	GrandTotal  string             `json:"grandTotal"`
	Currency    string             `json:"currency"`
}

func toCartResponse(view cartsvc.View, fee decimal.Decimal, currency string) cartResponse {
	items := make([]lineItemResponse, 0, len(view.Items))
	for _, it := range view.Items {
		items = append(items, lineItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Category:  it.Category.String(),
			Unit:      it.Unit,
			UnitPrice: money(it.UnitPrice),
			Quantity:  quantity(it.Quantity),
			LineTotal: money(it.LineTotal),
			AddedAt:   it.AddedAt,
		})
	}
	if len(items) == 0 {
		fee = decimal.Zero
	}
	return cartResponse{
		Items:       items,
		ItemCount:   len(items),
		Total:       money(view.Total),
		DeliveryFee: money(fee),
		GrandTotal:  money(view.Total.Add(fee)),
		Currency:    currency,
	}
}

type quoteResponse struct {
	ProductID string `json:"productId"`
	Mode      string `json:"mode"`
	Input     string `json:"input"`
	Suggested string `json:"suggestedInput"`
	Valid     bool   `json:"valid"`
	Quantity  string `json:"quantity,omitempty"`
	LineTotal string `json:"lineTotal,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Unit      string `json:"unit"`
}

func toQuoteResponse(q *cartsvc.Quote) quoteResponse {
	out := quoteResponse{
		ProductID: q.Product.ID,
		Mode:      q.Mode.String(),
		Input:     q.Input,
		Suggested: q.Suggested,
		Valid:     q.Result.Valid,
		Reason:    q.Result.Reason,
		Unit:      q.Product.Unit,
	}
	if q.Result.Valid {
		out.Quantity = quantity(q.Result.Quantity)
		out.LineTotal = money(q.Result.LineTotal)
	}
	return out
}

type orderItemResponse struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	Unit         string `json:"unit"`
	Quantity     string `json:"quantity"`
	PriceAtOrder string `json:"priceAtOrder"`
	LineTotal    string `json:"lineTotal"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	Subtotal        string              `json:"subtotal"`
	DeliveryFee     string              `json:"deliveryFee"`
	TotalAmount     string              `json:"totalAmount"`
	DeliveryAddress string              `json:"deliveryAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	Instructions    string              `json:"instructions,omitempty"`
	Items           []orderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"createdAt"`
}

func toOrderResponse(o domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			Unit:         it.Unit,
			Quantity:     quantity(it.Quantity),
			PriceAtOrder: money(it.PriceAtOrder),
			LineTotal:    money(it.LineTotal),
		})
	}
	return orderResponse{
		ID:              o.ID,
		Status:          o.Status,
		Subtotal:        money(o.Subtotal),
		DeliveryFee:     money(o.DeliveryFee),
		TotalAmount:     money(o.TotalAmount),
		DeliveryAddress: o.DeliveryAddress,
		PaymentMethod:   string(o.PaymentMethod),
		Instructions:    o.Instructions,
		Items:           items,
		CreatedAt:       o.CreatedAt,
	}
}

type profileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toProfileResponse(c domain.Customer) profileResponse {
	return profileResponse{
		ID:        c.ID,
		Email:     c.Email,
		FullName:  c.FullName,
		Phone:     c.Phone,
		Address:   c.Address,
		Role:      c.Role,
		CreatedAt: c.CreatedAt,
	}
}

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// fail maps service errors onto status codes.
func (h *handlers) fail(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, customersvc.ErrValidation),
		errors.Is(err, cartsvc.ErrProductRequired),
		errors.Is(err, pricing.ErrUnknownMode),
		errors.Is(err, checkout.ErrAddressRequired),
		errors.Is(err, checkout.ErrInvalidPaymentMethod):
		status = http.StatusBadRequest
	case errors.Is(err, customersvc.ErrInvalidCredentials), errors.Is(err, customersvc.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, cartsvc.ErrInvalidEntry):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, cartsvc.ErrProductUnavailable),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrSubmissionInProgress):
		status = http.StatusConflict
	case errors.Is(err, checkout.ErrSubmissionFailed):
		status = http.StatusBadGateway
	default:
		h.logger.Error("unhandled error", zap.String("route", c.FullPath()), zap.Error(err))
		abortError(c, http.StatusInternalServerError, "internal error")
		return
	}
	abortError(c, status, err.Error())
}
