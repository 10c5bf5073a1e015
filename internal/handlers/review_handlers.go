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

// ReviewHandlers handles HTTP requests for reviews
type ReviewHandlers struct {
	service *services.ReviewService
	metrics *metrics.Metrics
	logger  *logrus.Logger
}

// NewReviewHandlers creates a new review handlers instance
func NewReviewHandlers(service *services.ReviewService, m *metrics.Metrics, logger *logrus.Logger) *ReviewHandlers {
	return &ReviewHandlers{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// SubmitReview creates a new review against a business
// POST /api/v1/businesses/:id/reviews
func (h *ReviewHandlers) SubmitReview(c *gin.Context) {
	businessID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid business ID"})
		return
	}

	var review models.Review
	if err := c.ShouldBindJSON(&review); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	review.BusinessID = businessID
	authorID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}
	review.AuthorID = authorID

	if err := h.service.Submit(c.Request.Context(), &review); err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
			return
		}
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review", "details": err.Error()})
			return
		}
		h.logger.WithError(err).WithField("business_id", businessID).Error("Failed to submit review")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit review"})
		return
	}

	if h.metrics != nil {
		h.metrics.ReviewsSubmitted.Inc()
	}

	c.JSON(http.StatusCreated, review)
}

// ListReviews lists visible reviews for a business
// GET /api/v1/businesses/:id/reviews
func (h *ReviewHandlers) ListReviews(c *gin.Context) {
	businessID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid business ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	reviews, total, err := h.service.ListForBusiness(c.Request.Context(), businessID, false, limit, offset)
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
