package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"printer-repair-backend/internal/changefeed"
	"printer-repair-backend/internal/model"
	"printer-repair-backend/internal/store"
)

type createBookingRequest struct {
	CustomerName       string `json:"customer_name" binding:"required"`
	CustomerPhone      string `json:"customer_phone"`
	PrinterBrand       string `json:"printer_brand"`
	PrinterModel       string `json:"printer_model"`
	ProblemCategory    string `json:"problem_category"`
	ProblemDescription string `json:"problem_description"`
	ServiceType        string `json:"service_type"`
	ServiceDate        string `json:"service_date"`
	ServiceTime        string `json:"service_time"`
}

// CreateBooking handles the booking intake flow.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking := model.Booking{
		CustomerName:       req.CustomerName,
		CustomerPhone:      req.CustomerPhone,
		PrinterBrand:       req.PrinterBrand,
		PrinterModel:       req.PrinterModel,
		ProblemCategory:    req.ProblemCategory,
		ProblemDescription: req.ProblemDescription,
		ServiceType:        req.ServiceType,
		ServiceDate:        req.ServiceDate,
		ServiceTime:        req.ServiceTime,
		Status:             model.StatusPending,
	}
	if err := h.store.CreateBooking(c.Request.Context(), &booking); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membuat booking"})
		return
	}

	h.publishChange(c.Request.Context(), changefeed.TableBookings, changefeed.OpInsert, booking)
	c.JSON(http.StatusCreated, booking)
}

// statusText mirrors the confirmation wording shown to staff.
var statusText = map[model.BookingStatus]string{
	model.StatusConfirmed:  "dikonfirmasi",
	model.StatusCancelled:  "dibatalkan",
	model.StatusInProgress: "sedang dikerjakan",
	model.StatusCompleted:  "selesai",
}

type updateStatusRequest struct {
	Status model.BookingStatus `json:"status" binding:"required"`
}

// UpdateBookingStatus sets a booking's status. Any status may be set from any
// status; there is no transition state machine.
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status booking tidak dikenal"})
		return
	}

	id := c.Param("id")
	if err := h.store.UpdateBookingStatus(c.Request.Context(), id, req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking tidak ditemukan"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengubah status booking"})
		}
		return
	}

	h.publishChange(c.Request.Context(), changefeed.TableBookings, changefeed.OpUpdate, gin.H{"id": id, "status": req.Status})

	text, ok := statusText[req.Status]
	if !ok {
		text = string(req.Status)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status booking berhasil " + text})
}

type assignTechnicianRequest struct {
	Technician string `json:"technician" binding:"required"`
}

// AssignTechnician attaches a technician to a booking by name.
func (h *Handler) AssignTechnician(c *gin.Context) {
	var req assignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	if err := h.store.AssignTechnician(c.Request.Context(), id, req.Technician); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking tidak ditemukan"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menugaskan teknisi"})
		}
		return
	}

	h.publishChange(c.Request.Context(), changefeed.TableBookings, changefeed.OpUpdate, gin.H{"id": id, "technician": req.Technician})
	c.JSON(http.StatusOK, gin.H{"message": "Teknisi berhasil ditugaskan"})
}
