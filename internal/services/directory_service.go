package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/directory-service/internal/cache"
	"github.com/tesseract-hub/directory-service/internal/models"
	"github.com/tesseract-hub/directory-service/internal/repository"
)

// DirectoryService is the shared query service behind both the HTTP
// surface and the stdio tool dispatcher: it translates filter/sort
// parameters into repository queries and enriches the rows with derived
// ratings and pagination metadata.
type DirectoryService struct {
	businesses repository.BusinessRepositoryInterface
	reviews    repository.ReviewRepositoryInterface
	categories repository.CategoryRepositoryInterface
	cache      *cache.DirectoryCache
	logger     *logrus.Logger

	defaultPageSize int
	maxPageSize     int
	// accurateRatingSort switches rating/reviews sorts to database-side
	// aggregate ordering. When false (the default), those sorts re-order
	// only the already-limited page fetched under the fallback order, so
	// the globally best-rated business can be missing from page 1. That
	// matches the original system's behavior and is covered by tests.
	accurateRatingSort bool
}

// DirectoryConfig holds tuning for the directory service
type DirectoryConfig struct {
	DefaultPageSize    int
	MaxPageSize        int
	AccurateRatingSort bool
}

// NewDirectoryService creates a new directory service. The cache may be
// nil, in which case stats are computed on every call.
func NewDirectoryService(
	businesses repository.BusinessRepositoryInterface,
	reviews repository.ReviewRepositoryInterface,
	categories repository.CategoryRepositoryInterface,
	directoryCache *cache.DirectoryCache,
	cfg DirectoryConfig,
	logger *logrus.Logger,
) *DirectoryService {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 12
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	return &DirectoryService{
		businesses:         businesses,
		reviews:            reviews,
		categories:         categories,
		cache:              directoryCache,
		logger:             logger,
		defaultPageSize:    cfg.DefaultPageSize,
		maxPageSize:        cfg.MaxPageSize,
		accurateRatingSort: cfg.AccurateRatingSort,
	}
}

// Search runs a directory search. Public callers leave filter.Status
// empty, which restricts results to ACTIVE businesses; admin callers may
// set an explicit status.
func (s *DirectoryService) Search(ctx context.Context, filter *models.BusinessFilter) (*models.SearchResult, error) {
	if filter == nil {
		filter = &models.BusinessFilter{}
	}
	if filter.Status == "" {
		filter.Status = models.StatusActive
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = s.defaultPageSize
	}
	if filter.Limit > s.maxPageSize {
		filter.Limit = s.maxPageSize
	}
	if filter.SortBy == "" {
		filter.SortBy = models.SortRelevance
	}
	if !filter.SortBy.IsValid() {
		return nil, fmt.Errorf("%w: unknown sort key %q", ErrInvalidInput, filter.SortBy)
	}

	mode := s.orderMode(filter.SortBy)
	rows, total, err := s.businesses.List(ctx, filter, mode)
	if err != nil {
		s.logger.WithError(err).Error("Failed to search businesses")
		return nil, fmt.Errorf("failed to search businesses: %w", err)
	}

	results, err := s.attachRatings(ctx, rows)
	if err != nil {
		return nil, err
	}

	// In-memory re-sort of the already-limited page when the database
	// order could not express the derived sort key.
	if !s.accurateRatingSort {
		switch filter.SortBy {
		case models.SortRating:
			sort.SliceStable(results, func(i, j int) bool {
				return results[i].Rating > results[j].Rating
			})
		case models.SortReviews:
			sort.SliceStable(results, func(i, j int) bool {
				return results[i].ReviewCount > results[j].ReviewCount
			})
		}
	}

	pages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	return &models.SearchResult{
		Businesses: results,
		Total:      total,
		Page:       filter.Page,
		Pages:      pages,
		HasNext:    int64(filter.Page*filter.Limit) < total,
		HasPrev:    filter.Page > 1,
	}, nil
}

// orderMode maps a sort key to the SQL ordering used for the fetch
func (s *DirectoryService) orderMode(key models.SortKey) repository.OrderMode {
	switch key {
	case models.SortNewest:
		return repository.OrderNewest
	case models.SortRating:
		if s.accurateRatingSort {
			return repository.OrderAvgRating
		}
		return repository.OrderFallback
	case models.SortReviews:
		if s.accurateRatingSort {
			return repository.OrderReviewCount
		}
		return repository.OrderFallback
	default:
		return repository.OrderFallback
	}
}

// GetBySlug retrieves a single business by slug with its derived rating
func (s *DirectoryService) GetBySlug(ctx context.Context, slug string) (*models.BusinessResult, error) {
	business, err := s.businesses.GetBySlug(ctx, slug)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		s.logger.WithError(err).WithField("slug", slug).Error("Failed to get business")
		return nil, fmt.Errorf("failed to get business: %w", err)
	}
	return s.enrichOne(ctx, business)
}

// GetByID retrieves a single business by ID with its derived rating
func (s *DirectoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.BusinessResult, error) {
	business, err := s.businesses.GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		s.logger.WithError(err).WithField("id", id).Error("Failed to get business")
		return nil, fmt.Errorf("failed to get business: %w", err)
	}
	return s.enrichOne(ctx, business)
}

// Stats returns directory-wide counts for dashboards and tooling.
// Cached; writes that change the counts invalidate through
// InvalidateStats.
func (s *DirectoryService) Stats(ctx context.Context) (map[string]interface{}, error) {
	if s.cache != nil {
		if stats, err := s.cache.GetStats(ctx); err == nil {
			return stats, nil
		}
	}

	stats, err := s.computeStats(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetStats(ctx, stats)
	}
	return stats, nil
}

// InvalidateStats drops the cached directory stats. Called by the write
// paths that change business, review or category counts.
func (s *DirectoryService) InvalidateStats(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateStats(ctx)
	}
}

func (s *DirectoryService) computeStats(ctx context.Context) (map[string]interface{}, error) {
	byStatus, err := s.businesses.CountByStatus(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to count businesses")
		return nil, fmt.Errorf("failed to count businesses: %w", err)
	}

	reviewCount, err := s.reviews.CountVisible(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to count reviews")
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	categoryCount, err := s.categories.Count(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to count categories")
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	return map[string]interface{}{
		"totalBusinesses":    total,
		"businessesByStatus": byStatus,
		"visibleReviews":     reviewCount,
		"categories":         categoryCount,
	}, nil
}

// attachRatings loads visible-review ratings for the page in one query
// and computes the derived rating per business
func (s *DirectoryService) attachRatings(ctx context.Context, rows []models.Business) ([]models.BusinessResult, error) {
	ids := make([]uuid.UUID, len(rows))
	for i, b := range rows {
		ids[i] = b.ID
	}

	ratings, err := s.reviews.RatingsByBusiness(ctx, ids)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load review ratings")
		return nil, fmt.Errorf("failed to load review ratings: %w", err)
	}

	results := make([]models.BusinessResult, len(rows))
	for i, b := range rows {
		rating, count := DeriveRating(ratings[b.ID])
		results[i] = models.BusinessResult{
			Business:    b,
			Rating:      rating,
			ReviewCount: count,
		}
	}
	return results, nil
}

func (s *DirectoryService) enrichOne(ctx context.Context, business *models.Business) (*models.BusinessResult, error) {
	ratings, err := s.reviews.RatingsByBusiness(ctx, []uuid.UUID{business.ID})
	if err != nil {
		s.logger.WithError(err).WithField("id", business.ID).Error("Failed to load review ratings")
		return nil, fmt.Errorf("failed to load review ratings: %w", err)
	}
	rating, count := DeriveRating(ratings[business.ID])
	return &models.BusinessResult{
		Business:    *business,
		Rating:      rating,
		ReviewCount: count,
	}, nil
}

// DeriveRating computes the derived rating for a set of review ratings:
// the arithmetic mean rounded to one decimal place, 0 when there are no
// reviews.
func DeriveRating(ratings []int) (float64, int) {
	n := len(ratings)
	if n == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(n)
	return math.Round(mean*10) / 10, n
}
