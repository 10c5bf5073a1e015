package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/directory-service/internal/cache"
	"github.com/tesseract-hub/directory-service/internal/models"
	natsClient "github.com/tesseract-hub/directory-service/internal/nats"
	"github.com/tesseract-hub/directory-service/internal/repository"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// BusinessService handles owner-facing registration and edits
type BusinessService struct {
	businesses repository.BusinessRepositoryInterface
	categories repository.CategoryRepositoryInterface
	publisher  *natsClient.Publisher
	cache      *cache.DirectoryCache
	logger     *logrus.Logger
}

// NewBusinessService creates a new business service. Publisher and cache
// may be nil.
func NewBusinessService(
	businesses repository.BusinessRepositoryInterface,
	categories repository.CategoryRepositoryInterface,
	publisher *natsClient.Publisher,
	directoryCache *cache.DirectoryCache,
	logger *logrus.Logger,
) *BusinessService {
	return &BusinessService{
		businesses: businesses,
		categories: categories,
		publisher:  publisher,
		cache:      directoryCache,
		logger:     logger,
	}
}

// Register creates a new business listing in the PENDING state. The slug
// is derived from the name and made unique with a numeric suffix.
func (s *BusinessService) Register(ctx context.Context, business *models.Business) error {
	if business.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if business.Plan != "" && !business.Plan.IsValid() {
		return fmt.Errorf("%w: unknown plan tier %q", ErrInvalidInput, business.Plan)
	}

	if _, err := s.categories.GetByID(ctx, business.CategoryID); err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("%w: category does not exist", ErrInvalidInput)
		}
		return fmt.Errorf("failed to look up category: %w", err)
	}

	slug, err := s.uniqueSlug(ctx, business.Name)
	if err != nil {
		return err
	}
	business.Slug = slug
	business.Status = models.StatusPending

	if err := s.businesses.Create(ctx, business); err != nil {
		s.logger.WithError(err).WithField("name", business.Name).Error("Failed to create business")
		return fmt.Errorf("failed to create business: %w", err)
	}

	if s.cache != nil {
		s.cache.InvalidateStats(ctx)
	}

	if s.publisher != nil {
		go func() {
			if err := s.publisher.Publish(context.Background(), natsClient.SubjectBusinessCreated, business); err != nil {
				s.logger.WithError(err).Warn("Failed to publish business created event")
			}
		}()
	}

	return nil
}

// Update persists owner edits to a listing. Status and plan are managed
// elsewhere and are not writable here.
func (s *BusinessService) Update(ctx context.Context, ownerID uuid.UUID, updated *models.Business) (*models.Business, error) {
	current, err := s.businesses.GetByID(ctx, updated.ID)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get business: %w", err)
	}

	if current.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: business is not owned by this user", ErrInvalidInput)
	}

	current.Name = updated.Name
	current.Description = updated.Description
	current.Email = updated.Email
	current.Phone = updated.Phone
	current.Website = updated.Website
	current.Address = updated.Address
	current.City = updated.City
	current.State = updated.State
	current.Country = updated.Country
	current.PostalCode = updated.PostalCode
	current.Latitude = updated.Latitude
	current.Longitude = updated.Longitude
	current.Services = updated.Services
	current.Tags = updated.Tags
	current.WorkingHours = updated.WorkingHours

	if err := s.businesses.Update(ctx, current); err != nil {
		s.logger.WithError(err).WithField("business_id", current.ID).Error("Failed to update business")
		return nil, fmt.Errorf("failed to update business: %w", err)
	}
	return current, nil
}

// Slugify converts a display name into a URL slug
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// uniqueSlug derives a slug from the name, appending a counter when taken
func (s *BusinessService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		return "", fmt.Errorf("%w: name yields an empty slug", ErrInvalidInput)
	}

	slug := base
	for i := 2; ; i++ {
		taken, err := s.businesses.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
