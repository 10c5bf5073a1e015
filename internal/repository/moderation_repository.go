package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tesseract-hub/directory-service/internal/models"
)

// ModerationRepository handles database operations for the moderation
// audit trail and abuse reports
type ModerationRepository struct {
	db *gorm.DB
}

// NewModerationRepository creates a new moderation repository
func NewModerationRepository(db *gorm.DB) *ModerationRepository {
	return &ModerationRepository{db: db}
}

// CreateActionLog appends a moderation action to the audit trail
func (r *ModerationRepository) CreateActionLog(ctx context.Context, log *models.AdminActionLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ListActionLogs retrieves audit-trail entries with filtering and
// pagination, newest first
func (r *ModerationRepository) ListActionLogs(ctx context.Context, filter *models.ActionLogFilter) ([]models.AdminActionLog, int64, error) {
	var logs []models.AdminActionLog
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AdminActionLog{})

	if filter != nil {
		if filter.AdminID != nil {
			query = query.Where("admin_id = ?", *filter.AdminID)
		}
		if filter.Action != "" {
			query = query.Where("action = ?", filter.Action)
		}
		if filter.TargetType != "" {
			query = query.Where("target_type = ?", filter.TargetType)
		}
		if filter.TargetID != nil {
			query = query.Where("target_id = ?", *filter.TargetID)
		}
		if filter.FromDate != nil {
			query = query.Where("created_at >= ?", *filter.FromDate)
		}
		if filter.ToDate != nil {
			query = query.Where("created_at <= ?", *filter.ToDate)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter != nil {
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			query = query.Offset(filter.Offset)
		}
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// DeleteActionLogsBefore deletes audit-trail entries older than the cutoff
// in batches, returning the number of rows removed
func (r *ModerationRepository) DeleteActionLogsBefore(ctx context.Context, cutoff time.Time, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	var deleted int64
	for {
		result := r.db.WithContext(ctx).
			Where("id IN (?)", r.db.Model(&models.AdminActionLog{}).
				Select("id").
				Where("created_at < ?", cutoff).
				Limit(batchSize)).
			Delete(&models.AdminActionLog{})
		if result.Error != nil {
			return deleted, result.Error
		}
		deleted += result.RowsAffected
		if result.RowsAffected < int64(batchSize) {
			break
		}
	}
	return deleted, nil
}

// CreateReport persists a new abuse report
func (r *ModerationRepository) CreateReport(ctx context.Context, report *models.AbuseReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// GetReportByID retrieves an abuse report by ID
func (r *ModerationRepository) GetReportByID(ctx context.Context, id uuid.UUID) (*models.AbuseReport, error) {
	var report models.AbuseReport
	err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// UpdateReport persists changes to an abuse report
func (r *ModerationRepository) UpdateReport(ctx context.Context, report *models.AbuseReport) error {
	return r.db.WithContext(ctx).Save(report).Error
}

// ListReports retrieves abuse reports, optionally filtered by status,
// newest first
func (r *ModerationRepository) ListReports(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.AbuseReport, int64, error) {
	var reports []models.AbuseReport
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AbuseReport{})
	if status != "" {
		query = query.Where("status = ?", status)
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

	if err := query.Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// DeleteResolvedReportsBefore deletes resolved and dismissed reports older
// than the cutoff, returning the number of rows removed
func (r *ModerationRepository) DeleteResolvedReportsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?", []models.ReportStatus{models.ReportResolved, models.ReportDismissed}, cutoff).
		Delete(&models.AbuseReport{})
	return result.RowsAffected, result.Error
}
