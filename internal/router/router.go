package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"devasthan/internal/domain"
	"devasthan/internal/handler"
	"devasthan/internal/middleware"
	"devasthan/internal/service"
)

// Handlers bundles everything Setup needs to wire routes.
type Handlers struct {
	Auth     *handler.AuthHandler
	Org      *handler.OrgHandler
	Range    *handler.RangeHandler
	Donation *handler.DonationHandler
	Donor    *handler.DonorHandler
	Export   *handler.ExportHandler
	Health   *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, corsOrigins []string, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks and metrics
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Receipt ranges. Lifecycle mutations are admin-only; reading is open
	// to any operator.
	ranges := protected.Group("/ranges")
	ranges.GET("", h.Range.List)
	ranges.GET("/year/:year", h.Range.ListByYear)
	ranges.GET("/:id", h.Range.GetByID)
	ranges.POST("", middleware.RequireRole(domain.RoleAdmin), h.Range.Create)
	ranges.POST("/:id/activate", middleware.RequireRole(domain.RoleAdmin), h.Range.Activate)
	ranges.POST("/:id/lock", middleware.RequireRole(domain.RoleAdmin), h.Range.Lock)
	ranges.POST("/:id/unlock", middleware.RequireRole(domain.RoleAdmin), h.Range.Unlock)
	ranges.POST("/:id/archive", middleware.RequireRole(domain.RoleAdmin), h.Range.Archive)

	// Donations
	donations := protected.Group("/donations")
	donations.POST("", h.Donation.Create)
	donations.GET("", h.Donation.List)
	donations.GET("/date/:date", h.Donation.ListByDate)
	donations.GET("/:receiptNo", h.Donation.GetByReceiptNo)

	// Donors
	donors := protected.Group("/donors")
	donors.GET("", h.Donor.List)
	donors.POST("/resolve", h.Donor.Resolve)
	donors.GET("/:id", h.Donor.Get)
	donors.GET("/:id/statement", h.Donor.Statement)

	// Exports
	exports := protected.Group("/exports")
	exports.GET("/donations", h.Export.Download)
	exports.POST("/donations", h.Export.Store)

	// Org + operator management
	org := protected.Group("/org")
	org.GET("", h.Org.GetCurrent)
	org.PUT("", middleware.RequireRole(domain.RoleAdmin), h.Org.UpdateCurrent)
	org.POST("/users", middleware.RequireRole(domain.RoleAdmin), h.Org.CreateUser)
	org.GET("/users", middleware.RequireRole(domain.RoleAdmin), h.Org.ListUsers)
	org.PUT("/users/:id", middleware.RequireRole(domain.RoleAdmin), h.Org.UpdateUser)

	return r
}
