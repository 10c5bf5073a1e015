package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/directory-service/internal/metrics"
	"github.com/tesseract-hub/directory-service/internal/middleware"
	"github.com/tesseract-hub/directory-service/internal/models"
	"github.com/tesseract-hub/directory-service/internal/services"
)

// LeadHandlers handles HTTP requests for the lead funnel
type LeadHandlers struct {
	service *services.LeadService
	metrics *metrics.Metrics
	logger  *logrus.Logger
}

// NewLeadHandlers creates a new lead handlers instance
func NewLeadHandlers(service *services.LeadService, m *metrics.Metrics, logger *logrus.Logger) *LeadHandlers {
	return &LeadHandlers{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// CaptureLead records a new inquiry against a business
// POST /api/v1/businesses/:id/leads
func (h *LeadHandlers) CaptureLead(c *gin.Context) {
	businessID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid business ID"})
		return
	}

	var lead models.Lead
	if err := c.ShouldBindJSON(&lead); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	lead.BusinessID = businessID

	if err := h.service.Capture(c.Request.Context(), &lead); err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
			return
		}
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead", "details": err.Error()})
			return
		}
		h.logger.WithError(err).WithField("business_id", businessID).Error("Failed to capture lead")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to capture lead"})
		return
	}

	if h.metrics != nil {
		h.metrics.LeadsCaptured.Inc()
	}

	c.JSON(http.StatusCreated, lead)
}

// ListLeads lists leads for a business with optional status and priority
// filters
// GET /api/v1/businesses/:id/leads
func (h *LeadHandlers) ListLeads(c *gin.Context) {
	businessID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid business ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := &models.LeadFilter{
		BusinessID: &businessID,
		Status:     models.LeadStatus(c.Query("status")),
		Priority:   models.LeadPriority(c.Query("priority")),
		Limit:      limit,
		Offset:     offset,
	}

	callerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	leads, total, err := h.service.List(c.Request.Context(), callerID, isStaff(c), filter)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Leads are visible to the business owner only"})
			return
		}
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
			return
		}
		h.logger.WithError(err).WithField("business_id", businessID).Error("Failed to list leads")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list leads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leads":  leads,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// UpdateLeadStatus writes a lead's funnel status
// PATCH /api/v1/leads/:id/status
func (h *LeadHandlers) UpdateLeadStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead ID"})
		return
	}

	var body struct {
		Status models.LeadStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	callerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	lead, err := h.service.UpdateStatus(c.Request.Context(), callerID, isStaff(c), id, body.Status)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Leads are managed by the business owner only"})
			return
		}
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return
		}
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead status", "details": err.Error()})
			return
		}
		h.logger.WithError(err).WithField("lead_id", id).Error("Failed to update lead status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lead status"})
		return
	}

	c.JSON(http.StatusOK, lead)
}

// UpdateLeadPriority writes a lead's priority
// PATCH /api/v1/leads/:id/priority
func (h *LeadHandlers) UpdateLeadPriority(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead ID"})
		return
	}

	var body struct {
		Priority models.LeadPriority `json:"priority" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	callerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	lead, err := h.service.UpdatePriority(c.Request.Context(), callerID, isStaff(c), id, body.Priority)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Leads are managed by the business owner only"})
			return
		}
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return
		}
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead priority", "details": err.Error()})
			return
		}
		h.logger.WithError(err).WithField("lead_id", id).Error("Failed to update lead priority")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lead priority"})
		return
	}

	c.JSON(http.StatusOK, lead)
}

// GetLeadStats returns per-status lead counts for a business
// GET /api/v1/businesses/:id/leads/stats
func (h *LeadHandlers) GetLeadStats(c *gin.Context) {
	businessID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid business ID"})
		return
	}

	callerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), callerID, isStaff(c), businessID)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Lead stats are visible to the business owner only"})
			return
		}
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
			return
		}
		h.logger.WithError(err).WithField("business_id", businessID).Error("Failed to get lead stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get lead stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
