package cmd

import (
	"boleteria/application/auth"
	"boleteria/application/events"
	"boleteria/application/health"
	"boleteria/application/statistics"
	tickethandler "boleteria/application/tickets/handler"
	"boleteria/application/users"
	"boleteria/common"
	"boleteria/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter builds the gin engine with every route and middleware
func SetupRouter(a *App) *gin.Engine {
	if a.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestInit())
	r.Use(middleware.ResponseInit(a.Log))
	r.Use(middleware.Logger(a.Log))
	r.Use(middleware.CORS(a.Config.CORSAllowedOrigins))
	if a.Config.EnableMetrics {
		r.Use(middleware.Metrics())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	var redisPinger health.Pinger
	if a.Redis != nil {
		redisPinger = health.NewRedisPinger(a.Redis)
	}
	health.NewHandler(health.NewService(health.NewRepository(a.DB), redisPinger)).
		RegisterRoutes(r.Group(""))

	userRepo := users.NewRepository(a.DB)
	authHandler := auth.NewHandler(auth.NewService(userRepo, a.Hasher, a.Tokens, a.Revoker, a.Log))

	api := r.Group("/api")
	protected := api.Group("", middleware.Authenticate(a.Tokens, a.Revoker))
	authHandler.RegisterRoutes(api, protected)

	staff := protected.Group("", middleware.RequireRoles(common.RoleAdmin, common.RoleUser))
	tickethandler.NewHandler(a.Tickets()).RegisterRoutes(staff)
	events.NewHandler(a.Events()).RegisterRoutes(staff)
	statistics.NewHandler(a.Statistics()).RegisterRoutes(staff)

	admin := protected.Group("", middleware.RequireRoles(common.RoleAdmin))
	users.NewHandler(a.Users()).RegisterRoutes(admin)

	return r
}
