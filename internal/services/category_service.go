package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/directory-service/internal/cache"
	"github.com/tesseract-hub/directory-service/internal/models"
	"github.com/tesseract-hub/directory-service/internal/repository"
)

// CategoryService handles category listing with cached active-business
// counts
type CategoryService struct {
	repo   repository.CategoryRepositoryInterface
	cache  *cache.DirectoryCache
	logger *logrus.Logger
}

// NewCategoryService creates a new category service. The cache may be nil.
func NewCategoryService(repo repository.CategoryRepositoryInterface, directoryCache *cache.DirectoryCache, logger *logrus.Logger) *CategoryService {
	return &CategoryService{
		repo:   repo,
		cache:  directoryCache,
		logger: logger,
	}
}

// List returns all categories ordered by sort order then name, each
// annotated with its active-business count
func (s *CategoryService) List(ctx context.Context) ([]models.CategoryWithCount, error) {
	if s.cache != nil {
		if categories, err := s.cache.GetCategories(ctx); err == nil {
			return categories, nil
		}
	}

	categories, err := s.repo.ListWithCounts(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if s.cache != nil {
		s.cache.SetCategories(ctx, categories)
	}
	return categories, nil
}

// GetBySlug retrieves a category by slug
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		s.logger.WithError(err).WithField("slug", slug).Error("Failed to get category")
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// Invalidate drops the cached listing. Called after any business status
// transition, since the per-category counts depend on active status.
func (s *CategoryService) Invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateCategories(ctx)
	}
}
