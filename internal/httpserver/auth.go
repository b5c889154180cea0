package httpserver

import (
	"net/http"

	customersvc "fuel-storefront/internal/service/customer"
	"github.com/gin-gonic/gin"
)

type tokenRequest struct {
	Email    string `json:"email" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	Customer    profileResponse `json:"customer"`
}

func (h *handlers) signup(c *gin.Context) {
	var req customersvc.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	customer, err := h.deps.CustomerSvc.Signup(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"customer": toProfileResponse(*customer)})
}

// token logs a customer in and opens an empty cart for the new token.
func (h *handlers) token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBind(&req); err != nil {
		abortError(c, http.StatusBadRequest, "email and password required")
		return
	}
	customer, access, err := h.deps.CustomerSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.deps.Sessions.Open(access, customer.ID)
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   h.deps.CustomerSvc.AccessTTLSeconds(),
		Customer:    toProfileResponse(*customer),
	})
}

// logout revokes the token and discards its cart.
func (h *handlers) logout(c *gin.Context) {
	token := c.GetString(ctxToken)
	if err := h.deps.CustomerSvc.Logout(c.Request.Context(), token); err != nil {
		h.fail(c, err)
		return
	}
	h.deps.Sessions.Close(token)
	c.Status(http.StatusNoContent)
}

func (h *handlers) me(c *gin.Context) {
	customer, err := h.deps.CustomerSvc.Profile(c.Request.Context(), currentCustomer(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": toProfileResponse(*customer)})
}

func (h *handlers) updateMe(c *gin.Context) {
	var req customersvc.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	customer, err := h.deps.CustomerSvc.UpdateProfile(c.Request.Context(), currentCustomer(c).ID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": toProfileResponse(*customer)})
}
