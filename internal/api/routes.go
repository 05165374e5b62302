package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"caribbeanhomehub/server/internal/auth"
)

// SetupRoutes wires every endpoint onto the router. The admin group sits
// behind the role-gating middleware; the login route stays outside it so
// authentication itself is always reachable.
func SetupRoutes(router *gin.Engine, handler *Handler, authService *auth.Service) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS", "PATCH", "PUT"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Idempotency-Key"},
		AllowCredentials: false,
	}))
	router.Use(MetricsMiddleware())

	router.GET("/health", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/properties", auth.Identify(authService), handler.GetAllProperties)
		api.GET("/properties/:id", auth.Identify(authService), handler.GetProperty)
		api.POST("/properties", handler.CreateProperty)
		api.POST("/rental-listings", handler.CreateRentalListing)
		api.POST("/payments/process", handler.ProcessPayment)

		api.POST("/admin/login", handler.AdminLogin)

		admin := api.Group("/admin", auth.RequireAdmin(authService))
		{
			admin.GET("/listings", handler.GetAdminListings)
			admin.POST("/listings/:id/approve", handler.ApproveListing)
			admin.POST("/listings/:id/reject", handler.RejectListing)
		}
	}
}
