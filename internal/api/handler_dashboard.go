package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboard returns the full reconciled snapshot: all collections plus
// derived stats and the notification feed.
func (h *Handler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Snapshot())
}

// GetBookings returns the current booking snapshot, newest first.
func (h *Handler) GetBookings(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Snapshot().Bookings)
}

// GetTechnicians returns the current technician snapshot.
func (h *Handler) GetTechnicians(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Snapshot().Technicians)
}

// GetBrands returns the brand catalog with models nested under their owners.
func (h *Handler) GetBrands(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Snapshot().Brands)
}

// GetCategories returns the problem catalog grouped by category.
func (h *Handler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Snapshot().Categories)
}
