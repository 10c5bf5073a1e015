package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/directory-service/internal/services"
)

// CategoryHandlers handles HTTP requests for categories
type CategoryHandlers struct {
	service *services.CategoryService
	logger  *logrus.Logger
}

// NewCategoryHandlers creates a new category handlers instance
func NewCategoryHandlers(service *services.CategoryService, logger *logrus.Logger) *CategoryHandlers {
	return &CategoryHandlers{
		service: service,
		logger:  logger,
	}
}

// ListCategories lists all categories with active-business counts
// GET /api/v1/categories
func (h *CategoryHandlers) ListCategories(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list categories")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"total":      len(categories),
	})
}

// GetCategory retrieves a single category by slug
// GET /api/v1/categories/:slug
func (h *CategoryHandlers) GetCategory(c *gin.Context) {
	slug := c.Param("slug")

	category, err := h.service.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		h.logger.WithError(err).WithField("slug", slug).Error("Failed to get category")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get category"})
		return
	}

	c.JSON(http.StatusOK, category)
}
