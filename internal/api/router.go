package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"printer-repair-backend/config"
	"printer-repair-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	// Catalog GETs change rarely; give them a short-lived response cache.
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/dashboard", h.GetDashboard)

		api.GET("/bookings", h.GetBookings)
		api.POST("/bookings", h.CreateBooking)
		api.PATCH("/bookings/:id/status", h.UpdateBookingStatus)
		api.PATCH("/bookings/:id/technician", h.AssignTechnician)

		api.GET("/technicians", h.GetTechnicians)
		api.POST("/technicians", h.CreateTechnician)
		api.PUT("/technicians/:id", h.UpdateTechnician)
		api.DELETE("/technicians/:id", h.DeleteTechnician)

		api.GET("/brands", caching, h.GetBrands)
		api.POST("/brands", h.CreateBrand)
		api.PUT("/brands/:id", h.UpdateBrand)
		api.DELETE("/brands/:id", h.DeleteBrand)
		api.POST("/brands/:id/models", h.CreateModel)
		api.DELETE("/models/:id", h.DeleteModel)

		api.GET("/categories", caching, h.GetCategories)
		api.POST("/categories", h.CreateCategory)
		api.PUT("/categories/:id", h.UpdateCategory)
		api.DELETE("/categories/:id", h.DeleteCategory)
		api.POST("/categories/:id/problems", h.CreateProblem)
		api.DELETE("/problems/:id", h.DeleteProblem)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
