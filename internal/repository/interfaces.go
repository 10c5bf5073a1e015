package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tesseract-hub/directory-service/internal/models"
)

// BusinessRepositoryInterface defines the contract for business storage
type BusinessRepositoryInterface interface {
	Create(ctx context.Context, business *models.Business) error
	Update(ctx context.Context, business *models.Business) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
	GetBySlug(ctx context.Context, slug string) (*models.Business, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.BusinessStatus) error
	List(ctx context.Context, filter *models.BusinessFilter, mode OrderMode) ([]models.Business, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// ReviewRepositoryInterface defines the contract for review storage
type ReviewRepositoryInterface interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	SetHidden(ctx context.Context, id uuid.UUID, hidden bool) error
	ListByBusiness(ctx context.Context, businessID uuid.UUID, includeHidden bool, limit, offset int) ([]models.Review, int64, error)
	RatingsByBusiness(ctx context.Context, businessIDs []uuid.UUID) (map[uuid.UUID][]int, error)
	CountVisible(ctx context.Context) (int64, error)
}

// CategoryRepositoryInterface defines the contract for category storage
type CategoryRepositoryInterface interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListWithCounts(ctx context.Context) ([]models.CategoryWithCount, error)
	Count(ctx context.Context) (int64, error)
}

// LeadRepositoryInterface defines the contract for lead storage
type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	Update(ctx context.Context, lead *models.Lead) error
	List(ctx context.Context, filter *models.LeadFilter) ([]models.Lead, int64, error)
	StatsByBusiness(ctx context.Context, businessID uuid.UUID) (*models.LeadStats, error)
}

// ModerationRepositoryInterface defines the contract for moderation storage
type ModerationRepositoryInterface interface {
	CreateActionLog(ctx context.Context, log *models.AdminActionLog) error
	ListActionLogs(ctx context.Context, filter *models.ActionLogFilter) ([]models.AdminActionLog, int64, error)
	DeleteActionLogsBefore(ctx context.Context, cutoff time.Time, batchSize int) (int64, error)
	CreateReport(ctx context.Context, report *models.AbuseReport) error
	GetReportByID(ctx context.Context, id uuid.UUID) (*models.AbuseReport, error)
	UpdateReport(ctx context.Context, report *models.AbuseReport) error
	ListReports(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.AbuseReport, int64, error)
	DeleteResolvedReportsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// UserRepositoryInterface defines the contract for user storage
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
