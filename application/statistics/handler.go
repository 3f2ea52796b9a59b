package statistics

import (
	"fmt"
	"strconv"

	"boleteria/common"
	"boleteria/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler
func NewHandler(service *Service) *Handler {
	return &Handler{svc: service}
}

// RegisterRoutes registers the handler routes
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	stats := api.Group("/statistics")
	{
		stats.GET("", h.Dashboard)
		stats.GET("/status", h.ByStatus)
		stats.GET("/class", h.ByClass)
		stats.GET("/top-buyers", h.TopBuyers)
		stats.GET("/sellers", h.Sellers)
		stats.GET("/payment-methods", h.PaymentMethods)
	}
}

// Dashboard handles GET /api/statistics: returns every statistic in one payload
func (h *Handler) Dashboard(c *gin.Context) {
	send := middleware.Send(c)

	dashboard, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		middleware.SendError(send, err, "Failed to compute statistics")
		return
	}
	send(middleware.Response{Data: dashboard})
}

// ByStatus handles GET /api/statistics/status: returns ticket counts and revenue per status
func (h *Handler) ByStatus(c *gin.Context) {
	send := middleware.Send(c)
	ctx := c.Request.Context()

	counts, err := h.svc.CountByStatus(ctx)
	if err != nil {
		middleware.SendError(send, err, "Failed to compute statistics")
		return
	}
	revenue, err := h.svc.RevenueByStatus(ctx)
	if err != nil {
		middleware.SendError(send, err, "Failed to compute statistics")
		return
	}
	send(middleware.Response{Data: gin.H{"counts": counts, "revenue": revenue}})
}

// ByClass handles GET /api/statistics/class: returns sold ticket counts and revenue per class
func (h *Handler) ByClass(c *gin.Context) {
	send := middleware.Send(c)
	ctx := c.Request.Context()

	counts, err := h.svc.CountByClass(ctx)
	if err != nil {
		middleware.SendError(send, err, "Failed to compute statistics")
		return
	}
	revenue, err := h.svc.RevenueByClass(ctx)
	if err != nil {
		middleware.SendError(send, err, "Failed to compute statistics")
		return
	}
	send(middleware.Response{Data: gin.H{"counts": counts, "revenue": revenue}})
}

// TopBuyers handles GET /api/statistics/top-buyers: ranks buyers by ticket count
func (h *Handler) TopBuyers(c *gin.Context) {
	send := middleware.Send(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			middleware.SendError(send, fmt.Errorf("%w: invalid limit '%s'", common.ErrInvalidArgument, raw), "")
			return
		}
		limit = parsed
	}
	buyers, err := h.svc.TopBuyers(c.Request.Context(), limit)
	if err != nil {
		middleware.SendError(send, err, "Failed to compute statistics")
		return
	}
	send(middleware.Response{Data: buyers})
}

// Sellers handles GET /api/statistics/sellers: returns sold count and revenue per seller
func (h *Handler) Sellers(c *gin.Context) {
	send := middleware.Send(c)

	sellers, err := h.svc.Sellers(c.Request.Context())
	if err != nil {
		middleware.SendError(send, err, "Failed to compute statistics")
		return
	}
	send(middleware.Response{Data: sellers})
}

// PaymentMethods handles GET /api/statistics/payment-methods: returns the share of tickets per payment method
func (h *Handler) PaymentMethods(c *gin.Context) {
	send := middleware.Send(c)

	shares, err := h.svc.PaymentMethods(c.Request.Context())
	if err != nil {
		middleware.SendError(send, err, "Failed to compute statistics")
		return
	}
	send(middleware.Response{Data: shares})
}
