package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"printer-repair-backend/internal/changefeed"
	"printer-repair-backend/internal/model"
	"printer-repair-backend/internal/store"
)

type technicianRequest struct {
	Name           string   `json:"name" binding:"required"`
	Phone          string   `json:"phone"`
	Email          string   `json:"email"`
	Experience     int      `json:"experience"`
	Rating         float64  `json:"rating"`
	Specialization []string `json:"specialization"`
	Schedule       string   `json:"schedule"`
	IsAvailable    *bool    `json:"is_available"`
	IsActive       *bool    `json:"is_active"`
}

func (r *technicianRequest) validate() string {
	if r.Experience < 0 {
		return "Pengalaman tidak boleh negatif"
	}
	if r.Rating < 0 || r.Rating > 5 {
		return "Rating harus di antara 0 dan 5"
	}
	return ""
}

func (r *technicianRequest) apply(t *model.Technician) {
	t.Name = r.Name
	t.Phone = r.Phone
	t.Email = r.Email
	t.Experience = r.Experience
	t.Rating = r.Rating
	t.Specialization = r.Specialization
	t.Schedule = r.Schedule
	t.IsAvailable = r.IsAvailable == nil || *r.IsAvailable
	t.IsActive = r.IsActive == nil || *r.IsActive
}

// CreateTechnician adds a technician to the catalog.
func (h *Handler) CreateTechnician(c *gin.Context) {
	var req technicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var technician model.Technician
	req.apply(&technician)
	if err := h.store.CreateTechnician(c.Request.Context(), &technician); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menambahkan teknisi"})
		return
	}

	h.publishChange(c.Request.Context(), changefeed.TableTechnicians, changefeed.OpInsert, technician)
	c.JSON(http.StatusCreated, technician)
}

// UpdateTechnician replaces a technician's editable fields.
func (h *Handler) UpdateTechnician(c *gin.Context) {
	var req technicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	technician := model.Technician{ID: c.Param("id")}
	req.apply(&technician)
	if err := h.store.UpdateTechnician(c.Request.Context(), &technician); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Teknisi tidak ditemukan"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memperbarui teknisi"})
		}
		return
	}

	h.publishChange(c.Request.Context(), changefeed.TableTechnicians, changefeed.OpUpdate, technician)
	c.JSON(http.StatusOK, technician)
}

// DeleteTechnician removes a technician permanently. Hard delete, no
// tombstone.
func (h *Handler) DeleteTechnician(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteTechnician(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Teknisi tidak ditemukan"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghapus teknisi"})
		}
		return
	}

	h.publishChange(c.Request.Context(), changefeed.TableTechnicians, changefeed.OpDelete, gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Teknisi berhasil dihapus"})
}
