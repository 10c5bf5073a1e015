package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/directory-service/internal/cache"
	"github.com/tesseract-hub/directory-service/internal/models"
	natsClient "github.com/tesseract-hub/directory-service/internal/nats"
	"github.com/tesseract-hub/directory-service/internal/repository"
)

// ModerationService handles admin status transitions, review visibility
// toggles and abuse reports. Transitions are intentionally permissive:
// any status may be set to any other, matching the original system. Every
// transition is appended to the admin action log.
type ModerationService struct {
	businesses    repository.BusinessRepositoryInterface
	reviews       repository.ReviewRepositoryInterface
	moderation    repository.ModerationRepositoryInterface
	users         repository.UserRepositoryInterface
	notifications *NotificationService
	categories    *CategoryService
	cache         *cache.DirectoryCache
	publisher     *natsClient.Publisher
	logger        *logrus.Logger
}

// NewModerationService creates a new moderation service
func NewModerationService(
	businesses repository.BusinessRepositoryInterface,
	reviews repository.ReviewRepositoryInterface,
	moderation repository.ModerationRepositoryInterface,
	users repository.UserRepositoryInterface,
	notifications *NotificationService,
	categories *CategoryService,
	directoryCache *cache.DirectoryCache,
	publisher *natsClient.Publisher,
	logger *logrus.Logger,
) *ModerationService {
	return &ModerationService{
		businesses:    businesses,
		reviews:       reviews,
		moderation:    moderation,
		users:         users,
		notifications: notifications,
		categories:    categories,
		cache:         directoryCache,
		publisher:     publisher,
		logger:        logger,
	}
}

// UpdateBusinessStatus transitions a business to the given status, logs
// the action, and notifies the owner when the business leaves ACTIVE.
func (s *ModerationService) UpdateBusinessStatus(ctx context.Context, adminID, businessID uuid.UUID, newStatus models.BusinessStatus, notes string) (*models.Business, error) {
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: unknown business status %q", ErrInvalidInput, newStatus)
	}

	business, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get business: %w", err)
	}

	oldStatus := business.Status
	if err := s.businesses.UpdateStatus(ctx, businessID, newStatus); err != nil {
		s.logger.WithError(err).WithField("business_id", businessID).Error("Failed to update business status")
		return nil, fmt.Errorf("failed to update business status: %w", err)
	}
	business.Status = newStatus

	s.appendActionLog(ctx, &models.AdminActionLog{
		AdminID:    adminID,
		Action:     "BUSINESS_STATUS_CHANGE",
		TargetType: "BUSINESS",
		TargetID:   businessID,
		FromStatus: string(oldStatus),
		ToStatus:   string(newStatus),
		Notes:      notes,
	})

	// Category counts and status breakdowns depend on the status
	if s.categories != nil {
		s.categories.Invalidate(ctx)
	}
	if s.cache != nil {
		s.cache.InvalidateStats(ctx)
	}

	if s.publisher != nil {
		go func() {
			if err := s.publisher.Publish(context.Background(), natsClient.SubjectBusinessStatusChanged, map[string]interface{}{
				"businessId": businessID,
				"fromStatus": oldStatus,
				"toStatus":   newStatus,
			}); err != nil {
				s.logger.WithError(err).Warn("Failed to publish status change event")
			}
		}()
	}

	// Leaving the active state notifies the owner
	if oldStatus == models.StatusActive && newStatus != models.StatusActive {
		s.notifyOwner(ctx, business, newStatus)
	}

	return business, nil
}

// SetReviewVisibility toggles the hidden flag on a review and logs the
// moderation action
func (s *ModerationService) SetReviewVisibility(ctx context.Context, adminID, reviewID uuid.UUID, hidden bool) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	if err := s.reviews.SetHidden(ctx, reviewID, hidden); err != nil {
		s.logger.WithError(err).WithField("review_id", reviewID).Error("Failed to set review visibility")
		return nil, fmt.Errorf("failed to set review visibility: %w", err)
	}

	fromStatus, toStatus := "VISIBLE", "VISIBLE"
	if review.Hidden {
		fromStatus = "HIDDEN"
	}
	if hidden {
		toStatus = "HIDDEN"
	}
	review.Hidden = hidden

	s.appendActionLog(ctx, &models.AdminActionLog{
		AdminID:    adminID,
		Action:     "REVIEW_VISIBILITY_CHANGE",
		TargetType: "REVIEW",
		TargetID:   reviewID,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
	})

	// Visible review counts feed the directory stats
	if s.cache != nil {
		s.cache.InvalidateStats(ctx)
	}

	if s.publisher != nil {
		go func() {
			if err := s.publisher.Publish(context.Background(), natsClient.SubjectReviewModerated, map[string]interface{}{
				"reviewId": reviewID,
				"hidden":   hidden,
			}); err != nil {
				s.logger.WithError(err).Warn("Failed to publish review moderation event")
			}
		}()
	}

	return review, nil
}

// SubmitReport records a new abuse report
func (s *ModerationService) SubmitReport(ctx context.Context, report *models.AbuseReport) error {
	if report.Reason == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	report.Status = models.ReportPending

	if err := s.moderation.CreateReport(ctx, report); err != nil {
		s.logger.WithError(err).Error("Failed to create abuse report")
		return fmt.Errorf("failed to create abuse report: %w", err)
	}

	if s.publisher != nil {
		go func() {
			if err := s.publisher.Publish(context.Background(), natsClient.SubjectReportCreated, report); err != nil {
				s.logger.WithError(err).Warn("Failed to publish report event")
			}
		}()
	}
	return nil
}

// ListReports returns a page of abuse reports, optionally filtered by status
func (s *ModerationService) ListReports(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.AbuseReport, int64, error) {
	reports, total, err := s.moderation.ListReports(ctx, status, limit, offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list abuse reports")
		return nil, 0, fmt.Errorf("failed to list abuse reports: %w", err)
	}
	return reports, total, nil
}

// ResolveReport marks a report resolved or dismissed and logs the action
func (s *ModerationService) ResolveReport(ctx context.Context, adminID, reportID uuid.UUID, status models.ReportStatus, notes string) (*models.AbuseReport, error) {
	if status != models.ReportResolved && status != models.ReportDismissed {
		return nil, fmt.Errorf("%w: report can only be resolved or dismissed", ErrInvalidInput)
	}

	report, err := s.moderation.GetReportByID(ctx, reportID)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get abuse report: %w", err)
	}

	now := time.Now()
	report.Status = status
	report.ResolvedAt = &now
	if err := s.moderation.UpdateReport(ctx, report); err != nil {
		s.logger.WithError(err).WithField("report_id", reportID).Error("Failed to update abuse report")
		return nil, fmt.Errorf("failed to update abuse report: %w", err)
	}

	s.appendActionLog(ctx, &models.AdminActionLog{
		AdminID:    adminID,
		Action:     "REPORT_" + string(status),
		TargetType: string(report.TargetType),
		TargetID:   report.TargetID,
		Notes:      notes,
	})

	return report, nil
}

// ListActionLogs returns a page of the moderation audit trail
func (s *ModerationService) ListActionLogs(ctx context.Context, filter *models.ActionLogFilter) ([]models.AdminActionLog, int64, error) {
	logs, total, err := s.moderation.ListActionLogs(ctx, filter)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list action logs")
		return nil, 0, fmt.Errorf("failed to list action logs: %w", err)
	}
	return logs, total, nil
}

// appendActionLog writes the audit entry; failures are logged but never
// abort the moderation action itself
func (s *ModerationService) appendActionLog(ctx context.Context, entry *models.AdminActionLog) {
	if err := s.moderation.CreateActionLog(ctx, entry); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"action":    entry.Action,
			"target_id": entry.TargetID,
		}).Error("Failed to append admin action log")
	}
}

// notifyOwner emails the business owner about a status change; failures
// are logged, not propagated
func (s *ModerationService) notifyOwner(ctx context.Context, business *models.Business, newStatus models.BusinessStatus) {
	if s.notifications == nil {
		return
	}

	owner, err := s.users.GetByID(ctx, business.OwnerID)
	if err != nil {
		s.logger.WithError(err).WithField("owner_id", business.OwnerID).Warn("Failed to look up owner for notification")
		return
	}

	if err := s.notifications.NotifyStatusChange(ctx, owner.Email, owner.Name, business.Name, string(newStatus)); err != nil {
		s.logger.WithError(err).WithField("owner_id", business.OwnerID).Warn("Failed to notify owner of status change")
	}
}
