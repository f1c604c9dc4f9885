package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"printer-repair-backend/internal/changefeed"
	"printer-repair-backend/internal/model"
	"printer-repair-backend/internal/store"
)

type brandRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateBrand adds a printer brand.
func (h *Handler) CreateBrand(c *gin.Context) {
	var req brandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	brand, err := h.store.CreatePrinterBrand(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menambahkan merek printer"})
		return
	}

	h.publishChange(c.Request.Context(), changefeed.TableBrands, changefeed.OpInsert, brand)
	c.JSON(http.StatusCreated, brand)
}

// UpdateBrand renames a printer brand.
func (h *Handler) UpdateBrand(c *gin.Context) {
	var req brandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	if err := h.store.UpdatePrinterBrand(c.Request.Context(), id, req.Name); err != nil {
		h.catalogError(c, err, "Merek printer tidak ditemukan", "Gagal memperbarui merek printer")
		return
	}

	h.publishChange(c.Request.Context(), changefeed.TableBrands, changefeed.OpUpdate, gin.H{"id": id, "name": req.Name})
	c.JSON(http.StatusOK, gin.H{"message": "Merek printer berhasil diperbarui"})
}

// DeleteBrand removes a brand and every model it owns.
func (h *Handler) DeleteBrand(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeletePrinterBrand(c.Request.Context(), id); err != nil {
		h.catalogError(c, err, "Merek printer tidak ditemukan", "Gagal menghapus merek printer")
		return
	}

	h.publishChange(c.Request.Context(), changefeed.TableBrands, changefeed.OpDelete, gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Merek printer berhasil dihapus"})
}

type modelRequest struct {
	Name string            `json:"name" binding:"required"`
	Type model.PrinterType `json:"type" binding:"required"`
}

// CreateModel adds a model under its owning brand.
func (h *Handler) CreateModel(c *gin.Context) {
	var req modelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidPrinterType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipe printer tidak dikenal"})
		return
	}

	printerModel, err := h.store.CreatePrinterModel(c.Request.Context(), c.Param("id"), req.Name, req.Type)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menambahkan model printer"})
		return
	}

	h.publishChange(c.Request.Context(), changefeed.TableModels, changefeed.OpInsert, printerModel)
	c.JSON(http.StatusCreated, printerModel)
}

// DeleteModel removes one model by id, leaving its brand and sibling models
// untouched.
func (h *Handler) DeleteModel(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeletePrinterModel(c.Request.Context(), id); err != nil {
		h.catalogError(c, err, "Model printer tidak ditemukan", "Gagal menghapus model printer")
		return
	}

	h.publishChange(c.Request.Context(), changefeed.TableModels, changefeed.OpDelete, gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Model printer berhasil dihapus"})
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
	Icon string `json:"icon"`
}

// CreateCategory adds a problem category.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.store.CreateProblemCategory(c.Request.Context(), req.Name, req.Icon)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menambahkan kategori masalah"})
		return
	}

	h.publishChange(c.Request.Context(), changefeed.TableCategories, changefeed.OpInsert, category)
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory renames a category and/or changes its icon.
func (h *Handler) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	if err := h.store.UpdateProblemCategory(c.Request.Context(), id, req.Name, req.Icon); err != nil {
		h.catalogError(c, err, "Kategori masalah tidak ditemukan", "Gagal memperbarui kategori masalah")
		return
	}

	h.publishChange(c.Request.Context(), changefeed.TableCategories, changefeed.OpUpdate, gin.H{"id": id, "name": req.Name, "icon": req.Icon})
	c.JSON(http.StatusOK, gin.H{"message": "Kategori masalah berhasil diperbarui"})
}

// DeleteCategory removes a category and every problem it owns.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteProblemCategory(c.Request.Context(), id); err != nil {
		h.catalogError(c, err, "Kategori masalah tidak ditemukan", "Gagal menghapus kategori masalah")
		return
	}

	h.publishChange(c.Request.Context(), changefeed.TableCategories, changefeed.OpDelete, gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Kategori masalah berhasil dihapus"})
}

type problemRequest struct {
	Name          string                `json:"name" binding:"required"`
	Description   string                `json:"description"`
	Severity      model.ProblemSeverity `json:"severity" binding:"required"`
	EstimatedTime string                `json:"estimated_time"`
	EstimatedCost string                `json:"estimated_cost"`
}

// CreateProblem adds a problem under its owning category.
func (h *Handler) CreateProblem(c *gin.Context) {
	var req problemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidSeverity(req.Severity) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tingkat keparahan tidak dikenal"})
		return
	}

	problem := model.Problem{
		CategoryID:    c.Param("id"),
		Name:          req.Name,
		Description:   req.Description,
		Severity:      req.Severity,
		EstimatedTime: req.EstimatedTime,
		EstimatedCost: req.EstimatedCost,
	}
	if err := h.store.CreateProblem(c.Request.Context(), &problem); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menambahkan masalah"})
		return
	}

	h.publishChange(c.Request.Context(), changefeed.TableProblems, changefeed.OpInsert, problem)
	c.JSON(http.StatusCreated, problem)
}

// DeleteProblem removes one problem by id.
func (h *Handler) DeleteProblem(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteProblem(c.Request.Context(), id); err != nil {
		h.catalogError(c, err, "Masalah tidak ditemukan", "Gagal menghapus masalah")
		return
	}

	h.publishChange(c.Request.Context(), changefeed.TableProblems, changefeed.OpDelete, gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"message": "Masalah berhasil dihapus"})
}

func (h *Handler) catalogError(c *gin.Context, err error, notFoundMsg, failMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
}
