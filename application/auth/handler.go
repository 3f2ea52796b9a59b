package auth

import (
	"net/http"

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

// RegisterRoutes mounts login on public and the session routes on
// protected, which must already authenticate.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/auth/login", h.Login)

	session := protected.Group("/auth")
	{
		session.GET("/me", h.Me)
		session.POST("/logout", h.Logout)
	}
}

// Login handles POST /api/auth/login: exchanges email and password for a token
func (h *Handler) Login(c *gin.Context) {
	send := middleware.Send(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(middleware.Response{Code: http.StatusBadRequest, Message: "Invalid JSON payload", Error: err})
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		middleware.SendError(send, err, "Login failed")
		return
	}
	send(middleware.Response{Message: "Login successful", Data: resp})
}

// Me handles GET /api/auth/me: returns the authenticated principal
func (h *Handler) Me(c *gin.Context) {
	send := middleware.Send(c)

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		middleware.SendError(send, common.ErrUnauthenticated, "")
		return
	}
	send(middleware.Response{Data: principal})
}

// Logout handles POST /api/auth/logout: revokes the presented token
func (h *Handler) Logout(c *gin.Context) {
	send := middleware.Send(c)

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		middleware.SendError(send, common.ErrUnauthenticated, "")
		return
	}
	if err := h.svc.Logout(c.Request.Context(), principal); err != nil {
		middleware.SendError(send, err, "Logout failed")
		return
	}
	send(middleware.Response{Message: "Logged out"})
}
