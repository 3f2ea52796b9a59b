package users

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

// RegisterRoutes expects api to already require the admin role.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		users.GET("", h.List)
		users.GET("/:id", h.Get)
		users.POST("", h.Create)
		users.PUT("/:id", h.Update)
		users.DELETE("/:id", h.Delete)
	}
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id '%s'", common.ErrInvalidArgument, c.Param("id"))
	}
	return uint(id), nil
}

// List handles GET /api/users: lists all users
func (h *Handler) List(c *gin.Context) {
	send := middleware.Send(c)

	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		middleware.SendError(send, err, "Failed to list users")
		return
	}
	send(middleware.Response{Data: users})
}

// Get handles GET /api/users/:id: returns one user
func (h *Handler) Get(c *gin.Context) {
	send := middleware.Send(c)

	id, err := parseID(c)
	if err != nil {
		middleware.SendError(send, err, "")
		return
	}
	user, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		middleware.SendError(send, err, "Failed to get user")
		return
	}
	send(middleware.Response{Data: user})
}

// Create handles POST /api/users: creates a user
func (h *Handler) Create(c *gin.Context) {
	send := middleware.Send(c)

	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		send(middleware.Response{Code: http.StatusBadRequest, Message: "Invalid JSON payload", Error: err})
		return
	}
	user, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		middleware.SendError(send, err, "Failed to create user")
		return
	}
	send(middleware.Response{Code: http.StatusCreated, Message: "User created", Data: user})
}

// Update handles PUT /api/users/:id: updates a user
func (h *Handler) Update(c *gin.Context) {
	send := middleware.Send(c)

	id, err := parseID(c)
	if err != nil {
		middleware.SendError(send, err, "")
		return
	}
	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		send(middleware.Response{Code: http.StatusBadRequest, Message: "Invalid JSON payload", Error: err})
		return
	}
	user, err := h.svc.Update(c.Request.Context(), id, input)
	if err != nil {
		middleware.SendError(send, err, "Failed to update user")
		return
	}
	send(middleware.Response{Message: "User updated", Data: user})
}

// Delete handles DELETE /api/users/:id: deletes a user
func (h *Handler) Delete(c *gin.Context) {
	send := middleware.Send(c)

	id, err := parseID(c)
	if err != nil {
		middleware.SendError(send, err, "")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		middleware.SendError(send, err, "Failed to delete user")
		return
	}
	send(middleware.Response{Message: "User deleted"})
}
