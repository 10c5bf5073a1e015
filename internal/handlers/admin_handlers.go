package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/directory-service/internal/middleware"
	"github.com/tesseract-hub/directory-service/internal/models"
	"github.com/tesseract-hub/directory-service/internal/services"
)

// AdminHandlers handles HTTP requests for moderation surfaces. All routes
// are mounted behind the staff-role middleware.
type AdminHandlers struct {
	moderation *services.ModerationService
	directory  *services.DirectoryService
	reviews    *services.ReviewService
	logger     *logrus.Logger
}

// NewAdminHandlers creates a new admin handlers instance
func NewAdminHandlers(moderation *services.ModerationService, directory *services.DirectoryService, reviews *services.ReviewService, logger *logrus.Logger) *AdminHandlers {
	return &AdminHandlers{
		moderation: moderation,
		directory:  directory,
		reviews:    reviews,
		logger:     logger,
	}
}

// SearchAllBusinesses runs an admin search across any status
// GET /api/v1/admin/businesses
func (h *AdminHandlers) SearchAllBusinesses(c *gin.Context) {
	filter := parseSearchFilter(c)
	if status := c.Query("status"); status != "" {
		filter.Status = models.BusinessStatus(status)
	} else {
		filter.Status = models.StatusAny
	}

	result, err := h.directory.Search(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search parameters", "details": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Failed to search businesses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search businesses"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateBusinessStatus transitions a business to a new lifecycle status
// PATCH /api/v1/admin/businesses/:id/status
func (h *AdminHandlers) UpdateBusinessStatus(c *gin.Context) {
	businessID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid business ID"})
		return
	}

	adminID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}

	var body struct {
		Status models.BusinessStatus `json:"status" binding:"required"`
		Notes  string                `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	business, err := h.moderation.UpdateBusinessStatus(c.Request.Context(), adminID, businessID, body.Status, body.Notes)
	if err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
			return
		}
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status", "details": err.Error()})
			return
		}
		h.logger.WithError(err).WithField("business_id", businessID).Error("Failed to update business status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update business status"})
		return
	}

	c.JSON(http.StatusOK, business)
}

// SetReviewVisibility hides or unhides a review
// PATCH /api/v1/admin/reviews/:id/visibility
func (h *AdminHandlers) SetReviewVisibility(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	adminID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}

	var body struct {
		Hidden *bool `json:"hidden" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	review, err := h.moderation.SetReviewVisibility(c.Request.Context(), adminID, reviewID, *body.Hidden)
	if err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		h.logger.WithError(err).WithField("review_id", reviewID).Error("Failed to set review visibility")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set review visibility"})
		return
	}

	c.JSON(http.StatusOK, review)
}

// ListBusinessReviews lists reviews for a business including hidden ones
// GET /api/v1/admin/businesses/:id/reviews
func (h *AdminHandlers) ListBusinessReviews(c *gin.Context) {
	businessID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid business ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	reviews, total, err := h.reviews.ListForBusiness(c.Request.Context(), businessID, true, limit, offset)
	if err != nil {
		h.logger.WithError(err).WithField("business_id", businessID).Error("Failed to list reviews")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// SubmitReport records a new abuse report. Mounted outside the staff
// group since any user may report.
// POST /api/v1/reports
func (h *AdminHandlers) SubmitReport(c *gin.Context) {
	var report models.AbuseReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if report.TargetType != models.TargetBusiness && report.TargetType != models.TargetReview {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Target type must be BUSINESS or REVIEW"})
		return
	}
	if reporterID, ok := middleware.UserID(c); ok {
		report.ReporterID = &reporterID
	}

	if err := h.moderation.SubmitReport(c.Request.Context(), &report); err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report", "details": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Failed to submit report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit report"})
		return
	}

	c.JSON(http.StatusCreated, report)
}

// ListReports lists abuse reports, optionally filtered by status
// GET /api/v1/admin/reports
func (h *AdminHandlers) ListReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	status := models.ReportStatus(c.Query("status"))

	reports, total, err := h.moderation.ListReports(c.Request.Context(), status, limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list reports")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// ResolveReport marks a report resolved or dismissed
// PATCH /api/v1/admin/reports/:id
func (h *AdminHandlers) ResolveReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	adminID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}

	var body struct {
		Status models.ReportStatus `json:"status" binding:"required"`
		Notes  string              `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	report, err := h.moderation.ResolveReport(c.Request.Context(), adminID, reportID, body.Status, body.Notes)
	if err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report status", "details": err.Error()})
			return
		}
		h.logger.WithError(err).WithField("report_id", reportID).Error("Failed to resolve report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListActionLogs browses the moderation audit trail
// GET /api/v1/admin/action-logs
func (h *AdminHandlers) ListActionLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := &models.ActionLogFilter{
		Action:     c.Query("action"),
		TargetType: c.Query("target_type"),
		Limit:      limit,
		Offset:     offset,
	}

	if adminIDStr := c.Query("admin_id"); adminIDStr != "" {
		if adminID, err := uuid.Parse(adminIDStr); err == nil {
			filter.AdminID = &adminID
		}
	}
	if targetIDStr := c.Query("target_id"); targetIDStr != "" {
		if targetID, err := uuid.Parse(targetIDStr); err == nil {
			filter.TargetID = &targetID
		}
	}
	if fromDateStr := c.Query("from_date"); fromDateStr != "" {
		if fromDate, err := time.Parse(time.RFC3339, fromDateStr); err == nil {
			filter.FromDate = &fromDate
		}
	}
	if toDateStr := c.Query("to_date"); toDateStr != "" {
		if toDate, err := time.Parse(time.RFC3339, toDateStr); err == nil {
			filter.ToDate = &toDate
		}
	}

	logs, total, err := h.moderation.ListActionLogs(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list action logs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list action logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":   logs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
