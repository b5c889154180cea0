package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.deps.CategorySvc.List()})
}

func (h *handlers) listProducts(c *gin.Context) {
	category := h.deps.CategorySvc.Resolve(c.Query("category"))
	products, err := h.deps.ProductSvc.ListActive(c.Request.Context(), category)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out, "count": len(out), "currency": h.deps.Currency})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.ProductSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": toProductResponse(*p)})
}

// entryDefaults reports the mode a product accepts and the input the field resets to.
func (h *handlers) entryDefaults(c *gin.Context) {
	mode, input, err := h.deps.CartSvc.Entry(c.Request.Context(), c.Param("id"), c.Query("mode"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": c.Param("id"), "mode": mode.String(), "input": input})
}
