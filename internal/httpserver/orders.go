package httpserver

import (
	"net/http"

	"fuel-storefront/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

func (h *handlers) checkout(c *gin.Context) {
	var req checkout.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	customer := currentCustomer(c)
	order, err := h.deps.CheckoutSvc.PlaceOrder(c.Request.Context(), customer.ID, currentSession(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": toOrderResponse(*order)})
}

func (h *handlers) listOrders(c *gin.Context) {
	orders, err := h.deps.OrderSvc.History(c.Request.Context(), currentCustomer(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}
