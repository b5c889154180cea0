package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"fuel-storefront/internal/domain"
	customersvc "fuel-storefront/internal/service/customer"
	"fuel-storefront/internal/service/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ctxCustomer = "customer"
	ctxSession  = "session"
	ctxToken    = "token"
)

// requestLogger writes one structured line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request completed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// requireSession resolves the bearer token to a customer and their cart session.
// A valid token without a live session (after a restart) gets a fresh empty cart;
// an expired or revoked one loses its cart.
func (h *handlers) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abortError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		customer, err := h.deps.CustomerSvc.LookupByToken(c.Request.Context(), token)
		if errors.Is(err, customersvc.ErrInvalidToken) {
			h.deps.Sessions.Close(token)
			abortError(c, http.StatusUnauthorized, "invalid token")
			return
		}
		if err != nil {
			h.fail(c, err)
			return
		}
		c.Set(ctxToken, token)
		c.Set(ctxCustomer, customer)
		c.Set(ctxSession, h.deps.Sessions.Resume(token, customer.ID))
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func currentCustomer(c *gin.Context) *domain.Customer {
	return c.MustGet(ctxCustomer).(*domain.Customer)
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(ctxSession).(*session.Session)
}
