package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/medicore/hospital-portal/internal/auth"
	"github.com/medicore/hospital-portal/internal/middleware"
)

// RouterConfig tunes the shared middleware chain.
type RouterConfig struct {
	Mode              string
	RequestsPerSecond float64
	Burst             int
}

// NewRouter builds the portal's HTTP surface: a public site API, an
// authenticated profile area, and an admin area gated on the admin role.
func NewRouter(h *Handler, authMW *auth.Middleware, logger *zap.Logger, cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.AuditContextMiddleware())
	router.Use(middleware.CORS())
	if cfg.RequestsPerSecond > 0 {
		router.Use(middleware.RateLimitMiddleware(rate.Limit(cfg.RequestsPerSecond), cfg.Burst))
	}

	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.POST("/auth/login", h.Login)

		api.GET("/doctors", h.ListDoctors)
		api.GET("/doctors/:id", h.GetDoctor)
		api.GET("/services", h.ListServices)
		api.GET("/departments", h.ListDepartments)
		api.GET("/appointments/slots", h.ListSlots)
		api.POST("/appointments", h.BookAppointment)

		authed := api.Group("")
		authed.Use(authMW.RequireRoles())
		{
			authed.GET("/auth/profile", h.Profile)
			authed.POST("/auth/logout", h.Logout)
		}

		admin := api.Group("/admin")
		admin.Use(authMW.RequireRoles(auth.RoleAdmin))
		{
			admin.GET("/doctors", h.ListDoctors)
			admin.GET("/doctors/:id", h.GetDoctor)
			admin.POST("/doctors", h.CreateDoctor)
			admin.PUT("/doctors/:id", h.UpdateDoctor)
			admin.DELETE("/doctors/:id", h.DeleteDoctor)

			admin.GET("/services", h.ListAllServices)
			admin.GET("/services/:id", h.GetService)
			admin.POST("/services", h.CreateService)
			admin.PUT("/services/:id", h.UpdateService)
			admin.DELETE("/services/:id", h.DeleteService)

			admin.GET("/patients", h.ListPatients)
			admin.GET("/patients/:id", h.GetPatient)
			admin.POST("/patients", h.CreatePatient)
			admin.PUT("/patients/:id", h.UpdatePatient)
			admin.DELETE("/patients/:id", h.DeletePatient)

			admin.GET("/appointments", h.ListAppointments)
			admin.PATCH("/appointments/:id/confirm", h.ConfirmAppointment)
			admin.PATCH("/appointments/:id/cancel", h.CancelAppointment)
			admin.PATCH("/appointments/:id/complete", h.CompleteAppointment)
			admin.PATCH("/appointments/:id/reopen", h.ReopenAppointment)

			admin.GET("/stats", h.Stats)
			admin.POST("/uploads", h.UploadImage)
			admin.GET("/audit/logs", h.AuditLogs)
			admin.POST("/users", h.CreateUser)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return router
}
