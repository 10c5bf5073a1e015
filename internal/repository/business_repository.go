package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tesseract-hub/directory-service/internal/models"
)

// OrderMode selects the SQL-level ordering for directory listings
type OrderMode int

const (
	// OrderFallback orders by plan tier descending then creation time
	// descending. This is the relevance order and the fetch order used
	// before any in-memory rating sort.
	OrderFallback OrderMode = iota
	// OrderNewest orders by creation time descending
	OrderNewest
	// OrderAvgRating orders by the aggregated visible-review average,
	// computed database-side before limiting
	OrderAvgRating
	// OrderReviewCount orders by the visible-review count, computed
	// database-side before limiting
	OrderReviewCount
)

// BusinessRepository handles database operations for business listings
type BusinessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new business repository
func NewBusinessRepository(db *gorm.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

// Create persists a new business
func (r *BusinessRepository) Create(ctx context.Context, business *models.Business) error {
	return r.db.WithContext(ctx).Create(business).Error
}

// Update persists changes to an existing business
func (r *BusinessRepository) Update(ctx context.Context, business *models.Business) error {
	return r.db.WithContext(ctx).Save(business).Error
}

// GetByID retrieves a business by ID with its category
func (r *BusinessRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	var business models.Business
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&business, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

// GetBySlug retrieves a business by its URL slug with its category
func (r *BusinessRepository) GetBySlug(ctx context.Context, slug string) (*models.Business, error) {
	var business models.Business
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&business, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

// UpdateStatus sets the lifecycle status of a business. Any status may be
// written; transition validation is intentionally absent.
func (r *BusinessRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BusinessStatus) error {
	return r.db.WithContext(ctx).Model(&models.Business{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// List retrieves businesses with filtering, ordering and pagination.
// Returns the page rows plus the total matching count.
func (r *BusinessRepository) List(ctx context.Context, filter *models.BusinessFilter, mode OrderMode) ([]models.Business, int64, error) {
	var businesses []models.Business
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Business{})
	query = r.applyFilters(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.applyOrder(query, mode)

	limit := filter.Limit
	if limit <= 0 {
		limit = 12
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	if err := query.Preload("Category").Limit(limit).Offset(offset).Find(&businesses).Error; err != nil {
		return nil, 0, err
	}

	return businesses, total, nil
}

// applyFilters applies filter criteria to the query. All provided filters
// combine with logical AND.
func (r *BusinessRepository) applyFilters(query *gorm.DB, filter *models.BusinessFilter) *gorm.DB {
	if filter == nil {
		return query
	}

	if filter.Status != "" && filter.Status != models.StatusAny {
		query = query.Where("businesses.status = ?", filter.Status)
	}

	if filter.CategoryID != nil {
		query = query.Where("businesses.category_id = ?", *filter.CategoryID)
	}

	if filter.OwnerID != nil {
		query = query.Where("businesses.owner_id = ?", *filter.OwnerID)
	}

	if filter.Plan != "" {
		query = query.Where("businesses.plan = ?", filter.Plan)
	}

	// Free-text search over name, description, services and tags (OR)
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where(
			"businesses.name ILIKE ? OR businesses.description ILIKE ? OR array_to_string(businesses.services, ' ') ILIKE ? OR array_to_string(businesses.tags, ' ') ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	// Location matches city, state or country (OR)
	if filter.Location != "" {
		pattern := "%" + filter.Location + "%"
		query = query.Where(
			"businesses.city ILIKE ? OR businesses.state ILIKE ? OR businesses.country ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	return query
}

// applyOrder applies the SQL ordering for the given mode. The aggregate
// modes join a per-business rollup of visible reviews so the order is
// correct across the whole result set, not just the fetched page.
func (r *BusinessRepository) applyOrder(query *gorm.DB, mode OrderMode) *gorm.DB {
	switch mode {
	case OrderNewest:
		return query.Order("businesses.created_at DESC")
	case OrderAvgRating:
		return query.
			Joins("LEFT JOIN (SELECT business_id, AVG(rating) AS avg_rating, COUNT(*) AS review_count FROM reviews WHERE hidden = false GROUP BY business_id) review_stats ON review_stats.business_id = businesses.id").
			Order("COALESCE(review_stats.avg_rating, 0) DESC, businesses.plan_rank DESC, businesses.created_at DESC")
	case OrderReviewCount:
		return query.
			Joins("LEFT JOIN (SELECT business_id, AVG(rating) AS avg_rating, COUNT(*) AS review_count FROM reviews WHERE hidden = false GROUP BY business_id) review_stats ON review_stats.business_id = businesses.id").
			Order("COALESCE(review_stats.review_count, 0) DESC, businesses.plan_rank DESC, businesses.created_at DESC")
	default:
		return query.Order("businesses.plan_rank DESC, businesses.created_at DESC")
	}
}

// CountByStatus returns the number of businesses per lifecycle status
func (r *BusinessRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var counts []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Business{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&counts).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(counts))
	for _, c := range counts {
		result[c.Status] = c.Count
	}
	return result, nil
}

// SlugExists reports whether a business slug is already taken
func (r *BusinessRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Business{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}
