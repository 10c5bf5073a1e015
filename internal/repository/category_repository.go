package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tesseract-hub/directory-service/internal/models"
)

// CategoryRepository handles database operations for categories
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create persists a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetBySlug retrieves a category by its URL slug
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListWithCounts retrieves all categories ordered by sort order then name,
// each annotated with its count of active businesses. The count is a
// database-side aggregate.
func (r *CategoryRepository) ListWithCounts(ctx context.Context) ([]models.CategoryWithCount, error) {
	var categories []models.CategoryWithCount

	err := r.db.WithContext(ctx).Model(&models.Category{}).
		Select("categories.*, COUNT(businesses.id) AS active_business_count").
		Joins("LEFT JOIN businesses ON businesses.category_id = categories.id AND businesses.status = ?", models.StatusActive).
		Group("categories.id").
		Order("categories.sort_order ASC, categories.name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// Count returns the total number of categories
func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error
	return count, err
}
