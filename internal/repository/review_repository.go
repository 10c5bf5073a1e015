package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tesseract-hub/directory-service/internal/models"
)

// ReviewRepository handles database operations for reviews
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create persists a new review
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// GetByID retrieves a review by ID
func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// SetHidden toggles the visibility flag of a review
func (r *ReviewRepository) SetHidden(ctx context.Context, id uuid.UUID, hidden bool) error {
	return r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", id).
		Update("hidden", hidden).Error
}

// ListByBusiness retrieves reviews for a business, newest first.
// Hidden reviews are excluded unless includeHidden is set (moderation views).
func (r *ReviewRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, includeHidden bool, limit, offset int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("business_id = ?", businessID)
	if !includeHidden {
		query = query.Where("hidden = false")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// RatingsByBusiness fetches the visible-review ratings for a batch of
// businesses in one query, keyed by business ID. Businesses with no
// visible reviews are absent from the map.
func (r *ReviewRepository) RatingsByBusiness(ctx context.Context, businessIDs []uuid.UUID) (map[uuid.UUID][]int, error) {
	result := make(map[uuid.UUID][]int)
	if len(businessIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		BusinessID uuid.UUID
		Rating     int
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("business_id, rating").
		Where("business_id IN ? AND hidden = false", businessIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.BusinessID] = append(result[row.BusinessID], row.Rating)
	}
	return result, nil
}

// CountVisible returns the number of visible reviews across the directory
func (r *ReviewRepository) CountVisible(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("hidden = false").
		Count(&count).Error
	return count, err
}
