package health

import (
	"net/http"

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
	health := api.Group("/health")
	{
		health.GET("", h.HealthCheck)
		health.GET("/stream", h.HealthCheckStream)
	}
}

// HealthCheck handles GET /health: reports dependency reachability
func (h *Handler) HealthCheck(c *gin.Context) {
	send := middleware.Send(c)

	response, err := h.svc.CheckHealth(c.Request.Context())
	if err != nil {
		send(middleware.Response{
			Code:    http.StatusServiceUnavailable,
			Message: "Health check failed",
			Data:    response,
			Error:   err,
		})
		return
	}

	send(middleware.Response{
		Code:    http.StatusOK,
		Message: "Health check completed",
		Data:    response,
	})
}

// HealthCheckStream handles GET /health/stream: reports dependency reachability as a streamed array
func (h *Handler) HealthCheckStream(c *gin.Context) {
	sendStream := middleware.SendStream(c)

	sendStream(middleware.StreamResponse{
		TotalCount: 1,
		ChunkChan:  h.svc.CheckHealthStream(c.Request.Context()),
	})
}
