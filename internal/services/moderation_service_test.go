package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesseract-hub/directory-service/internal/models"
)

// fakeModerationRepo records action logs and reports in memory
type fakeModerationRepo struct {
	actionLogs []models.AdminActionLog
	reports    []models.AbuseReport
}

func (f *fakeModerationRepo) CreateActionLog(ctx context.Context, log *models.AdminActionLog) error {
	f.actionLogs = append(f.actionLogs, *log)
	return nil
}

func (f *fakeModerationRepo) ListActionLogs(ctx context.Context, filter *models.ActionLogFilter) ([]models.AdminActionLog, int64, error) {
	return f.actionLogs, int64(len(f.actionLogs)), nil
}

func (f *fakeModerationRepo) DeleteActionLogsBefore(ctx context.Context, cutoff time.Time, batchSize int) (int64, error) {
	var kept []models.AdminActionLog
	var deleted int64
	for _, l := range f.actionLogs {
		if l.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, l)
	}
	f.actionLogs = kept
	return deleted, nil
}

func (f *fakeModerationRepo) CreateReport(ctx context.Context, report *models.AbuseReport) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	f.reports = append(f.reports, *report)
	return nil
}

func (f *fakeModerationRepo) GetReportByID(ctx context.Context, id uuid.UUID) (*models.AbuseReport, error) {
	for i := range f.reports {
		if f.reports[i].ID == id {
			r := f.reports[i]
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeModerationRepo) UpdateReport(ctx context.Context, report *models.AbuseReport) error {
	for i := range f.reports {
		if f.reports[i].ID == report.ID {
			f.reports[i] = *report
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeModerationRepo) ListReports(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.AbuseReport, int64, error) {
	var matched []models.AbuseReport
	for _, r := range f.reports {
		if status != "" && r.Status != status {
			continue
		}
		matched = append(matched, r)
	}
	return matched, int64(len(matched)), nil
}

func (f *fakeModerationRepo) DeleteResolvedReportsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var kept []models.AbuseReport
	var deleted int64
	for _, r := range f.reports {
		if r.Status != models.ReportPending && r.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	f.reports = kept
	return deleted, nil
}

// fakeUserRepo serves a fixed user set
type fakeUserRepo struct {
	users []models.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// recordingSender captures outbound emails
type recordingSender struct {
	sent []string
}

func (r *recordingSender) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	r.sent = append(r.sent, toEmail)
	return nil
}

func newTestModerationService(businesses *fakeBusinessRepo, reviews *fakeReviewRepo, moderation *fakeModerationRepo, users *fakeUserRepo, sender EmailSender) *ModerationService {
	logger := testLogger()
	notifications := NewNotificationService(sender, "http://localhost:3000", logger)
	return NewModerationService(businesses, reviews, moderation, users, notifications, nil, nil, nil, logger)
}

func TestUpdateBusinessStatus_AppendsActionLog(t *testing.T) {
	owner := models.User{ID: uuid.New(), Email: "owner@example.com", Name: "Owner", Role: models.RoleBusinessOwner}
	biz := activeBusiness("Logged Biz", models.PlanBasic, time.Now())
	biz.Status = models.StatusPending
	biz.OwnerID = owner.ID

	businesses := &fakeBusinessRepo{businesses: []models.Business{biz}}
	moderation := &fakeModerationRepo{}
	svc := newTestModerationService(businesses, &fakeReviewRepo{}, moderation, &fakeUserRepo{users: []models.User{owner}}, nil)

	adminID := uuid.New()
	updated, err := svc.UpdateBusinessStatus(context.Background(), adminID, biz.ID, models.StatusActive, "approved")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, updated.Status)

	require.Len(t, moderation.actionLogs, 1)
	entry := moderation.actionLogs[0]
	assert.Equal(t, "BUSINESS_STATUS_CHANGE", entry.Action)
	assert.Equal(t, adminID, entry.AdminID)
	assert.Equal(t, "PENDING", entry.FromStatus)
	assert.Equal(t, "ACTIVE", entry.ToStatus)
	assert.Equal(t, "approved", entry.Notes)
}

func TestUpdateBusinessStatus_PermissiveTransitions(t *testing.T) {
	// Any status may follow any other, including reactivating a
	// rejected listing.
	biz := activeBusiness("Flexible Biz", models.PlanBasic, time.Now())
	biz.Status = models.StatusRejected

	businesses := &fakeBusinessRepo{businesses: []models.Business{biz}}
	svc := newTestModerationService(businesses, &fakeReviewRepo{}, &fakeModerationRepo{}, &fakeUserRepo{}, nil)

	updated, err := svc.UpdateBusinessStatus(context.Background(), uuid.New(), biz.ID, models.StatusActive, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, updated.Status)
}

func TestUpdateBusinessStatus_NotifiesOwnerOnLeavingActive(t *testing.T) {
	owner := models.User{ID: uuid.New(), Email: "owner@example.com", Name: "Owner"}
	biz := activeBusiness("Active Biz", models.PlanPro, time.Now())
	biz.OwnerID = owner.ID

	businesses := &fakeBusinessRepo{businesses: []models.Business{biz}}
	sender := &recordingSender{}
	svc := newTestModerationService(businesses, &fakeReviewRepo{}, &fakeModerationRepo{}, &fakeUserRepo{users: []models.User{owner}}, sender)

	_, err := svc.UpdateBusinessStatus(context.Background(), uuid.New(), biz.ID, models.StatusSuspended, "policy violation")
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "owner@example.com", sender.sent[0])
}

func TestUpdateBusinessStatus_NoNotificationBetweenInactiveStates(t *testing.T) {
	biz := activeBusiness("Pending Biz", models.PlanBasic, time.Now())
	biz.Status = models.StatusPending

	businesses := &fakeBusinessRepo{businesses: []models.Business{biz}}
	sender := &recordingSender{}
	svc := newTestModerationService(businesses, &fakeReviewRepo{}, &fakeModerationRepo{}, &fakeUserRepo{}, sender)

	_, err := svc.UpdateBusinessStatus(context.Background(), uuid.New(), biz.ID, models.StatusRejected, "")
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestUpdateBusinessStatus_RejectsUnknownStatus(t *testing.T) {
	svc := newTestModerationService(&fakeBusinessRepo{}, &fakeReviewRepo{}, &fakeModerationRepo{}, &fakeUserRepo{}, nil)

	_, err := svc.UpdateBusinessStatus(context.Background(), uuid.New(), uuid.New(), "ARCHIVED", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSetReviewVisibility_TogglesAndLogs(t *testing.T) {
	review := models.Review{ID: uuid.New(), BusinessID: uuid.New(), AuthorID: uuid.New(), Rating: 1, Hidden: false}
	reviews := &fakeReviewRepo{reviews: []models.Review{review}}
	moderation := &fakeModerationRepo{}
	svc := newTestModerationService(&fakeBusinessRepo{}, reviews, moderation, &fakeUserRepo{}, nil)

	updated, err := svc.SetReviewVisibility(context.Background(), uuid.New(), review.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Hidden)

	require.Len(t, moderation.actionLogs, 1)
	assert.Equal(t, "REVIEW_VISIBILITY_CHANGE", moderation.actionLogs[0].Action)
	assert.Equal(t, "VISIBLE", moderation.actionLogs[0].FromStatus)
	assert.Equal(t, "HIDDEN", moderation.actionLogs[0].ToStatus)
}

func TestHiddenReviewExcludedFromRating(t *testing.T) {
	// Hiding a review changes the derived rating because aggregation only
	// sees visible reviews.
	ratingsBefore, _ := DeriveRating([]int{5, 5, 1})
	ratingsAfter, _ := DeriveRating([]int{5, 5})
	assert.Equal(t, 3.7, ratingsBefore)
	assert.Equal(t, 5.0, ratingsAfter)
}

func TestResolveReport_SetsResolvedAt(t *testing.T) {
	moderation := &fakeModerationRepo{}
	report := &models.AbuseReport{TargetType: models.TargetBusiness, TargetID: uuid.New(), Reason: "spam"}
	svc := newTestModerationService(&fakeBusinessRepo{}, &fakeReviewRepo{}, moderation, &fakeUserRepo{}, nil)

	require.NoError(t, svc.SubmitReport(context.Background(), report))
	assert.Equal(t, models.ReportPending, report.Status)

	resolved, err := svc.ResolveReport(context.Background(), uuid.New(), report.ID, models.ReportResolved, "listing removed")
	require.NoError(t, err)
	assert.Equal(t, models.ReportResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	// Resolving also appends to the audit trail
	require.Len(t, moderation.actionLogs, 1)
	assert.Equal(t, "REPORT_RESOLVED", moderation.actionLogs[0].Action)
}

func TestResolveReport_RejectsPendingTarget(t *testing.T) {
	svc := newTestModerationService(&fakeBusinessRepo{}, &fakeReviewRepo{}, &fakeModerationRepo{}, &fakeUserRepo{}, nil)

	_, err := svc.ResolveReport(context.Background(), uuid.New(), uuid.New(), models.ReportPending, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitReport_RequiresReason(t *testing.T) {
	svc := newTestModerationService(&fakeBusinessRepo{}, &fakeReviewRepo{}, &fakeModerationRepo{}, &fakeUserRepo{}, nil)

	err := svc.SubmitReport(context.Background(), &models.AbuseReport{TargetType: models.TargetReview, TargetID: uuid.New()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
