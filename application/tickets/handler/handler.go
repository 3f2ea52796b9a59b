package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"boleteria/application/tickets/domain"
	"boleteria/common"
	"boleteria/middleware"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for tickets
type Handler struct {
	svc domain.Service
}

// NewHandler creates a new Handler
func NewHandler(service domain.Service) *Handler {
	return &Handler{svc: service}
}

// RegisterRoutes mounts the ticket routes on an authenticated group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	tickets := api.Group("/tickets")
	{
		tickets.GET("", h.ListAll)
		tickets.POST("", h.Create)
		tickets.GET("/paginated", h.ListPage)
		tickets.GET("/filter", h.Filter)
		tickets.GET("/filter-seller", h.FilterBySeller)
		tickets.GET("/sellers", h.Sellers)
		tickets.GET("/export", h.Export)
		tickets.GET("/status", h.ListByStatus)
		tickets.GET("/event/:eventId", h.ListByEvent)
		tickets.GET("/seller/:sellerId", h.ListBySeller)
		tickets.GET("/:id", h.Get)
		tickets.PUT("/:id", h.Update)
		tickets.DELETE("/:id", h.Delete)
		tickets.PATCH("/:id/use", h.MarkUsed)
		tickets.POST("/:id/send", h.Send)
	}
}

func parseID(c *gin.Context, param string) (uint, error) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid %s '%s'", common.ErrInvalidArgument, param, raw)
	}
	return uint(id), nil
}

// sellerID credits the sale to the authenticated caller.
func sellerID(c *gin.Context) *uint {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return nil
	}
	id := principal.UserID
	return &id
}

// Create handles POST /api/tickets: issues a batch of tickets credited to the caller
func (h *Handler) Create(c *gin.Context) {
	send := middleware.Send(c)

	var req domain.CreateTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(middleware.Response{Code: http.StatusBadRequest, Message: "Invalid JSON payload", Error: err})
		return
	}
	req.Ticket.SellerID = sellerID(c)

	tickets, err := h.svc.CreateTickets(c.Request.Context(), req.Ticket, req.Quantity)
	if err != nil {
		middleware.SendError(send, err, "Failed to create tickets")
		return
	}
	send(middleware.Response{Code: http.StatusCreated, Message: "Tickets created", Data: tickets})
}

// Update handles PUT /api/tickets/:id: replaces the fields of a ticket
func (h *Handler) Update(c *gin.Context) {
	send := middleware.Send(c)

	id, err := parseID(c, "id")
	if err != nil {
		middleware.SendError(send, err, "")
		return
	}
	var values domain.TicketInput
	if err := c.ShouldBindJSON(&values); err != nil {
		send(middleware.Response{Code: http.StatusBadRequest, Message: "Invalid JSON payload", Error: err})
		return
	}
	values.SellerID = sellerID(c)

	ticket, err := h.svc.Update(c.Request.Context(), id, values)
	if err != nil {
		middleware.SendError(send, err, "Failed to update ticket")
		return
	}
	send(middleware.Response{Message: "Ticket updated", Data: ticket})
}

// MarkUsed handles PATCH /api/tickets/:id/use: redeems a sold ticket
func (h *Handler) MarkUsed(c *gin.Context) {
	send := middleware.Send(c)

	id, err := parseID(c, "id")
	if err != nil {
		middleware.SendError(send, err, "")
		return
	}
	ticket, err := h.svc.MarkUsed(c.Request.Context(), id)
	if err != nil {
		middleware.SendError(send, err, "Failed to use ticket")
		return
	}
	send(middleware.Response{Message: "Ticket used", Data: ticket})
}

// Delete handles DELETE /api/tickets/:id: deletes a ticket
func (h *Handler) Delete(c *gin.Context) {
	send := middleware.Send(c)

	id, err := parseID(c, "id")
	if err != nil {
		middleware.SendError(send, err, "")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		middleware.SendError(send, err, "Failed to delete ticket")
		return
	}
	send(middleware.Response{Message: "Ticket deleted"})
}

// Get handles GET /api/tickets/:id: returns one ticket
func (h *Handler) Get(c *gin.Context) {
	send := middleware.Send(c)

	id, err := parseID(c, "id")
	if err != nil {
		middleware.SendError(send, err, "")
		return
	}
	ticket, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		middleware.SendError(send, err, "Failed to get ticket")
		return
	}
	send(middleware.Response{Data: ticket})
}

// ListAll handles GET /api/tickets: lists every ticket
func (h *Handler) ListAll(c *gin.Context) {
	send := middleware.Send(c)

	tickets, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		middleware.SendError(send, err, "Failed to list tickets")
		return
	}
	send(middleware.Response{Data: tickets})
}

// ListByEvent handles GET /api/tickets/event/:eventId: lists the tickets of an event
func (h *Handler) ListByEvent(c *gin.Context) {
	send := middleware.Send(c)

	eventID, err := parseID(c, "eventId")
	if err != nil {
		middleware.SendError(send, err, "")
		return
	}
	tickets, err := h.svc.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		middleware.SendError(send, err, "Failed to list tickets")
		return
	}
	send(middleware.Response{Data: tickets})
}

// ListBySeller handles GET /api/tickets/seller/:sellerId: lists the tickets sold by a seller
func (h *Handler) ListBySeller(c *gin.Context) {
	send := middleware.Send(c)

	sellerID, err := parseID(c, "sellerId")
	if err != nil {
		middleware.SendError(send, err, "")
		return
	}
	tickets, err := h.svc.ListBySeller(c.Request.Context(), sellerID)
	if err != nil {
		middleware.SendError(send, err, "Failed to list tickets")
		return
	}
	send(middleware.Response{Data: tickets})
}

// ListByStatus handles GET /api/tickets/status: lists tickets in a status
func (h *Handler) ListByStatus(c *gin.Context) {
	send := middleware.Send(c)

	tickets, err := h.svc.ListByStatus(c.Request.Context(), c.Query("status"))
	if err != nil {
		middleware.SendError(send, err, "Failed to list tickets")
		return
	}
	send(middleware.Response{Data: tickets})
}

// ListPage handles GET /api/tickets/paginated: returns one page of tickets
func (h *Handler) ListPage(c *gin.Context) {
	send := middleware.Send(c)

	var req domain.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		send(middleware.Response{Code: http.StatusBadRequest, Message: "Invalid query", Error: err})
		return
	}
	page, err := h.svc.ListPage(c.Request.Context(), req)
	if err != nil {
		middleware.SendError(send, err, "Failed to list tickets")
		return
	}
	send(middleware.Response{Data: page})
}

// Filter handles GET /api/tickets/filter: pages tickets matching a buyer field
func (h *Handler) Filter(c *gin.Context) {
	h.filter(c, h.svc.Filter)
}

// FilterBySeller handles GET /api/tickets/filter-seller: pages tickets of a seller matching a buyer field
func (h *Handler) FilterBySeller(c *gin.Context) {
	h.filter(c, h.svc.FilterBySeller)
}

func (h *Handler) filter(c *gin.Context, search func(context.Context, domain.FilterQuery) (domain.Page[common.Ticket], error)) {
	send := middleware.Send(c)

	var query domain.FilterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		send(middleware.Response{Code: http.StatusBadRequest, Message: "Invalid query", Error: err})
		return
	}
	page, err := search(c.Request.Context(), query)
	if err != nil {
		middleware.SendError(send, err, "Failed to filter tickets")
		return
	}
	send(middleware.Response{Data: page})
}

// Sellers handles GET /api/tickets/sellers: lists sellers with sold tickets
func (h *Handler) Sellers(c *gin.Context) {
	send := middleware.Send(c)

	sellers, err := h.svc.Sellers(c.Request.Context())
	if err != nil {
		middleware.SendError(send, err, "Failed to list sellers")
		return
	}
	send(middleware.Response{Data: sellers})
}

// Send handles POST /api/tickets/:id/send: emails the ticket PDF to its buyer
func (h *Handler) Send(c *gin.Context) {
	send := middleware.Send(c)

	id, err := parseID(c, "id")
	if err != nil {
		middleware.SendError(send, err, "")
		return
	}
	result, err := h.svc.Send(c.Request.Context(), id)
	if err != nil {
		middleware.SendError(send, err, "Failed to send ticket")
		return
	}
	send(middleware.Response{Message: "Correo enviado con éxito.", Data: result})
}

// Export streams all tickets as a JSON array.
func (h *Handler) Export(c *gin.Context) {
	sendStream := middleware.SendStream(c)
	sendStream(h.svc.Export(c.Request.Context()))
}
