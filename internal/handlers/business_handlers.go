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

// BusinessHandlers handles HTTP requests for directory search and
// owner-facing listing management
type BusinessHandlers struct {
	directory *services.DirectoryService
	business  *services.BusinessService
	metrics   *metrics.Metrics
	logger    *logrus.Logger
}

// NewBusinessHandlers creates a new business handlers instance
func NewBusinessHandlers(directory *services.DirectoryService, business *services.BusinessService, m *metrics.Metrics, logger *logrus.Logger) *BusinessHandlers {
	return &BusinessHandlers{
		directory: directory,
		business:  business,
		metrics:   m,
		logger:    logger,
	}
}

// SearchBusinesses runs a public directory search
// GET /api/v1/businesses
func (h *BusinessHandlers) SearchBusinesses(c *gin.Context) {
	filter := parseSearchFilter(c)

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

	if h.metrics != nil {
		h.metrics.SearchesTotal.WithLabelValues(string(filter.SortBy)).Inc()
	}

	c.JSON(http.StatusOK, result)
}

// GetBusiness retrieves a single business by slug
// GET /api/v1/businesses/:slug
func (h *BusinessHandlers) GetBusiness(c *gin.Context) {
	slug := c.Param("slug")

	result, err := h.directory.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
			return
		}
		h.logger.WithError(err).WithField("slug", slug).Error("Failed to get business")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get business"})
		return
	}

	// Non-active listings are only visible to their owner and staff
	if !result.IsActive() && !canSeeListing(c, result.OwnerID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// RegisterBusiness creates a new listing for the calling owner
// POST /api/v1/businesses
func (h *BusinessHandlers) RegisterBusiness(c *gin.Context) {
	var business models.Business
	if err := c.ShouldBindJSON(&business); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ownerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}
	business.OwnerID = ownerID

	if err := h.business.Register(c.Request.Context(), &business); err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid business", "details": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Failed to register business")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register business"})
		return
	}

	c.JSON(http.StatusCreated, business)
}

// UpdateBusiness applies owner edits to a listing
// PUT /api/v1/businesses/:id
func (h *BusinessHandlers) UpdateBusiness(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid business ID"})
		return
	}

	ownerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}

	var business models.Business
	if err := c.ShouldBindJSON(&business); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	business.ID = id

	updated, err := h.business.Update(c.Request.Context(), ownerID, &business)
	if err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
			return
		}
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed", "details": err.Error()})
			return
		}
		h.logger.WithError(err).WithField("business_id", id).Error("Failed to update business")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update business"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ListOwnListings lists the calling owner's businesses in any status
// GET /api/v1/businesses/mine
func (h *BusinessHandlers) ListOwnListings(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}

	filter := parseSearchFilter(c)
	filter.OwnerID = &ownerID
	if status := c.Query("status"); status != "" {
		filter.Status = models.BusinessStatus(status)
	} else {
		// Owners see all of their listings regardless of status, so a
		// sentinel bypasses the public ACTIVE default.
		filter.Status = models.StatusAny
	}

	result, err := h.directory.Search(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).WithField("owner_id", ownerID).Error("Failed to list own businesses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list businesses"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDirectoryStats returns directory-wide counters
// GET /api/v1/stats
func (h *BusinessHandlers) GetDirectoryStats(c *gin.Context) {
	stats, err := h.directory.Stats(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get directory stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get directory stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// parseSearchFilter extracts the common search parameters from the query
// string
func parseSearchFilter(c *gin.Context) *models.BusinessFilter {
	filter := &models.BusinessFilter{
		Query:    c.Query("q"),
		Location: c.Query("location"),
		SortBy:   models.SortKey(c.DefaultQuery("sort", string(models.SortRelevance))),
	}

	if categoryIDStr := c.Query("categoryId"); categoryIDStr != "" {
		if categoryID, err := uuid.Parse(categoryIDStr); err == nil {
			filter.CategoryID = &categoryID
		}
	}
	if plan := c.Query("plan"); plan != "" {
		filter.Plan = models.PlanTier(plan)
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	return filter
}

// canSeeListing reports whether the caller may view a non-active listing
func canSeeListing(c *gin.Context, ownerID uuid.UUID) bool {
	if userID, ok := middleware.UserID(c); ok && userID == ownerID {
		return true
	}
	return isStaff(c)
}

// isStaff reports whether the forwarded role is a staff role
func isStaff(c *gin.Context) bool {
	if roleValue, exists := c.Get("user_role"); exists {
		if role, ok := roleValue.(models.UserRole); ok && role.IsStaff() {
			return true
		}
	}
	return false
}
