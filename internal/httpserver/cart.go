package httpserver

import (
	"net/http"

	cartsvc "fuel-storefront/internal/service/cart"
	"github.com/gin-gonic/gin"
)

func (h *handlers) respondCart(c *gin.Context, status int, view cartsvc.View) {
	fee := h.deps.CheckoutSvc.DeliveryFee(view.Total)
	c.JSON(status, toCartResponse(view, fee, h.deps.Currency))
}

func (h *handlers) getCart(c *gin.Context) {
	h.respondCart(c, http.StatusOK, h.deps.CartSvc.Get(currentSession(c)))
}

func (h *handlers) quote(c *gin.Context) {
	var req cartsvc.EntryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	q, err := h.deps.CartSvc.Quote(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(q))
}

func (h *handlers) addItem(c *gin.Context) {
	var req cartsvc.EntryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	_, view, err := h.deps.CartSvc.Add(c.Request.Context(), currentSession(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondCart(c, http.StatusOK, view)
}

func (h *handlers) removeItem(c *gin.Context) {
	h.respondCart(c, http.StatusOK, h.deps.CartSvc.Remove(currentSession(c), c.Param("productId")))
}

func (h *handlers) clearCart(c *gin.Context) {
	h.respondCart(c, http.StatusOK, h.deps.CartSvc.Clear(currentSession(c)))
}
