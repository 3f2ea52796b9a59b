package events

import (
	"fmt"
	"net/http"
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
	events := api.Group("/events")
	{
		events.GET("", h.List)
		events.GET("/search", h.Search)
		events.GET("/:id", h.Get)
		events.POST("", h.Create)
		events.PUT("/:id", h.Update)
		events.DELETE("/:id", h.Delete)
	}
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id '%s'", common.ErrInvalidArgument, c.Param("id"))
	}
	return uint(id), nil
}

// List handles GET /api/events: lists all events
func (h *Handler) List(c *gin.Context) {
	send := middleware.Send(c)

	events, err := h.svc.List(c.Request.Context())
	if err != nil {
		middleware.SendError(send, err, "Failed to list events")
		return
	}
	send(middleware.Response{Data: events})
}

// Search handles GET /api/events/search: searches events by name
func (h *Handler) Search(c *gin.Context) {
	send := middleware.Send(c)

	events, err := h.svc.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		middleware.SendError(send, err, "Failed to search events")
		return
	}
	send(middleware.Response{Data: events})
}

// Get handles GET /api/events/:id: returns one event
func (h *Handler) Get(c *gin.Context) {
	send := middleware.Send(c)

	id, err := parseID(c)
	if err != nil {
		middleware.SendError(send, err, "")
		return
	}
	event, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		middleware.SendError(send, err, "Failed to get event")
		return
	}
	send(middleware.Response{Data: event})
}

// Create handles POST /api/events: creates an event
func (h *Handler) Create(c *gin.Context) {
	send := middleware.Send(c)

	var input EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		send(middleware.Response{Code: http.StatusBadRequest, Message: "Invalid JSON payload", Error: err})
		return
	}
	event, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		middleware.SendError(send, err, "Failed to create event")
		return
	}
	send(middleware.Response{Code: http.StatusCreated, Message: "Event created", Data: event})
}

// Update handles PUT /api/events/:id: replaces the fields of an event
func (h *Handler) Update(c *gin.Context) {
	send := middleware.Send(c)

	id, err := parseID(c)
	if err != nil {
		middleware.SendError(send, err, "")
		return
	}
	var input EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		send(middleware.Response{Code: http.StatusBadRequest, Message: "Invalid JSON payload", Error: err})
		return
	}
	event, err := h.svc.Update(c.Request.Context(), id, input)
	if err != nil {
		middleware.SendError(send, err, "Failed to update event")
		return
	}
	send(middleware.Response{Message: "Event updated", Data: event})
}

// Delete handles DELETE /api/events/:id: deletes an event
func (h *Handler) Delete(c *gin.Context) {
	send := middleware.Send(c)

	id, err := parseID(c)
	if err != nil {
		middleware.SendError(send, err, "")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		middleware.SendError(send, err, "Failed to delete event")
		return
	}
	send(middleware.Response{Message: "Event deleted"})
}
