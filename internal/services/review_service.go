package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/directory-service/internal/cache"
	"github.com/tesseract-hub/directory-service/internal/models"
	"github.com/tesseract-hub/directory-service/internal/repository"
)

// ReviewService handles review submission and listing
type ReviewService struct {
	reviews    repository.ReviewRepositoryInterface
	businesses repository.BusinessRepositoryInterface
	cache      *cache.DirectoryCache
	logger     *logrus.Logger
}

// NewReviewService creates a new review service. The cache may be nil.
func NewReviewService(reviews repository.ReviewRepositoryInterface, businesses repository.BusinessRepositoryInterface, directoryCache *cache.DirectoryCache, logger *logrus.Logger) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		businesses: businesses,
		cache:      directoryCache,
		logger:     logger,
	}
}

// Submit validates and persists a new review against a business
func (s *ReviewService) Submit(ctx context.Context, review *models.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	if _, err := s.businesses.GetByID(ctx, review.BusinessID); err != nil {
		if IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to look up business: %w", err)
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		s.logger.WithError(err).WithField("business_id", review.BusinessID).Error("Failed to create review")
		return fmt.Errorf("failed to create review: %w", err)
	}

	if s.cache != nil {
		s.cache.InvalidateStats(ctx)
	}

	return nil
}

// ListForBusiness returns a page of reviews for a business. Hidden
// reviews are included only for moderation callers.
func (s *ReviewService) ListForBusiness(ctx context.Context, businessID uuid.UUID, includeHidden bool, limit, offset int) ([]models.Review, int64, error) {
	reviews, total, err := s.reviews.ListByBusiness(ctx, businessID, includeHidden, limit, offset)
	if err != nil {
		s.logger.WithError(err).WithField("business_id", businessID).Error("Failed to list reviews")
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}
