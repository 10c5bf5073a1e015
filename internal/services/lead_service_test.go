package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tesseract-hub/directory-service/internal/models"
)

// fakeLeadRepo stores leads in memory
type fakeLeadRepo struct {
	leads []models.Lead
}

func (f *fakeLeadRepo) Create(ctx context.Context, lead *models.Lead) error {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	f.leads = append(f.leads, *lead)
	return nil
}

func (f *fakeLeadRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	for i := range f.leads {
		if f.leads[i].ID == id {
			l := f.leads[i]
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeLeadRepo) Update(ctx context.Context, lead *models.Lead) error {
	for i := range f.leads {
		if f.leads[i].ID == lead.ID {
			f.leads[i] = *lead
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeLeadRepo) List(ctx context.Context, filter *models.LeadFilter) ([]models.Lead, int64, error) {
	var matched []models.Lead
	for _, l := range f.leads {
		if filter.BusinessID != nil && l.BusinessID != *filter.BusinessID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		matched = append(matched, l)
	}
	return matched, int64(len(matched)), nil
}

func (f *fakeLeadRepo) StatsByBusiness(ctx context.Context, businessID uuid.UUID) (*models.LeadStats, error) {
	stats := &models.LeadStats{ByStatus: make(map[string]int64)}
	for _, l := range f.leads {
		if l.BusinessID != businessID {
			continue
		}
		stats.Total++
		stats.ByStatus[string(l.Status)]++
	}
	return stats, nil
}

func newTestLeadService(leads *fakeLeadRepo, businesses *fakeBusinessRepo) *LeadService {
	return NewLeadService(leads, businesses, nil, testLogger())
}

func TestCapture_ForcesNewStatusAndDefaultPriority(t *testing.T) {
	biz := activeBusiness("Lead Magnet", models.PlanBasic, time.Now())
	businesses := &fakeBusinessRepo{businesses: []models.Business{biz}}
	svc := newTestLeadService(&fakeLeadRepo{}, businesses)

	lead := &models.Lead{
		BusinessID: biz.ID,
		Name:       "Prospect",
		Email:      "prospect@example.com",
		Status:     models.LeadConverted, // caller-set status is ignored
	}
	if err := svc.Capture(context.Background(), lead); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if lead.Status != models.LeadNew {
		t.Errorf("Expected NEW status, got %q", lead.Status)
	}
	if lead.Priority != models.PriorityMedium {
		t.Errorf("Expected MEDIUM priority, got %q", lead.Priority)
	}
}

func TestCapture_RequiresNameAndEmail(t *testing.T) {
	biz := activeBusiness("Strict Biz", models.PlanBasic, time.Now())
	businesses := &fakeBusinessRepo{businesses: []models.Business{biz}}
	svc := newTestLeadService(&fakeLeadRepo{}, businesses)

	if err := svc.Capture(context.Background(), &models.Lead{BusinessID: biz.ID, Email: "x@example.com"}); err == nil {
		t.Error("Expected error for missing name")
	}
	if err := svc.Capture(context.Background(), &models.Lead{BusinessID: biz.ID, Name: "X"}); err == nil {
		t.Error("Expected error for missing email")
	}
}

func TestCapture_UnknownBusiness(t *testing.T) {
	svc := newTestLeadService(&fakeLeadRepo{}, &fakeBusinessRepo{})

	err := svc.Capture(context.Background(), &models.Lead{
		BusinessID: uuid.New(),
		Name:       "Prospect",
		Email:      "prospect@example.com",
	})
	if !IsNotFound(err) {
		t.Fatalf("Expected not-found error, got %v", err)
	}
}

func TestUpdateLeadStatus_AnyTransitionAllowed(t *testing.T) {
	leads := &fakeLeadRepo{}
	owner := uuid.New()
	biz := activeBusiness("Funnel Biz", models.PlanBasic, time.Now())
	biz.OwnerID = owner
	businesses := &fakeBusinessRepo{businesses: []models.Business{biz}}
	svc := newTestLeadService(leads, businesses)

	lead := &models.Lead{BusinessID: biz.ID, Name: "P", Email: "p@example.com"}
	if err := svc.Capture(context.Background(), lead); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// CONVERTED straight from NEW, then back to VIEWED: no transition
	// graph is enforced.
	if _, err := svc.UpdateStatus(context.Background(), owner, false, lead.ID, models.LeadConverted); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	updated, err := svc.UpdateStatus(context.Background(), owner, false, lead.ID, models.LeadViewed)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Status != models.LeadViewed {
		t.Errorf("Expected VIEWED, got %q", updated.Status)
	}
}

func TestUpdateLeadStatus_RejectsUnknownStatus(t *testing.T) {
	svc := newTestLeadService(&fakeLeadRepo{}, &fakeBusinessRepo{})

	if _, err := svc.UpdateStatus(context.Background(), uuid.New(), true, uuid.New(), "STALLED"); err == nil {
		t.Fatal("Expected error for unknown status")
	}
}

func TestLeadStats_CountsByStatus(t *testing.T) {
	owner := uuid.New()
	biz := activeBusiness("Busy Biz", models.PlanBasic, time.Now())
	biz.OwnerID = owner
	businesses := &fakeBusinessRepo{businesses: []models.Business{biz}}
	leads := &fakeLeadRepo{}
	svc := newTestLeadService(leads, businesses)

	for i := 0; i < 3; i++ {
		lead := &models.Lead{BusinessID: biz.ID, Name: "P", Email: "p@example.com"}
		if err := svc.Capture(context.Background(), lead); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	stats, err := svc.Stats(context.Background(), owner, false, biz.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("Expected 3 leads, got %d", stats.Total)
	}
	if stats.ByStatus["NEW"] != 3 {
		t.Errorf("Expected 3 NEW leads, got %d", stats.ByStatus["NEW"])
	}
}

// Leads carry contact details: only the business owner or staff may read
// or manage them. Another authenticated user gets a forbidden error and
// no lead data.
func TestLeads_DeniedForNonOwner(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	biz := activeBusiness("Private Funnel", models.PlanBasic, time.Now())
	biz.OwnerID = owner
	businesses := &fakeBusinessRepo{businesses: []models.Business{biz}}
	leads := &fakeLeadRepo{}
	svc := newTestLeadService(leads, businesses)

	lead := &models.Lead{BusinessID: biz.ID, Name: "Prospect", Email: "prospect@example.com", Phone: "555-0100"}
	if err := svc.Capture(context.Background(), lead); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	filter := &models.LeadFilter{BusinessID: &biz.ID, Limit: 20}

	rows, total, err := svc.List(context.Background(), stranger, false, filter)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("Expected forbidden error for non-owner, got %v", err)
	}
	if len(rows) != 0 || total != 0 {
		t.Errorf("Expected no lead data for non-owner, got %d rows", len(rows))
	}

	if _, err := svc.UpdateStatus(context.Background(), stranger, false, lead.ID, models.LeadContacted); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected forbidden error on status update, got %v", err)
	}
	if _, err := svc.UpdatePriority(context.Background(), stranger, false, lead.ID, models.PriorityHigh); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected forbidden error on priority update, got %v", err)
	}
	if _, err := svc.Stats(context.Background(), stranger, false, biz.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected forbidden error on stats, got %v", err)
	}
}

func TestLeads_OwnerAndStaffAllowed(t *testing.T) {
	owner := uuid.New()
	moderator := uuid.New()
	biz := activeBusiness("Shared Funnel", models.PlanBasic, time.Now())
	biz.OwnerID = owner
	businesses := &fakeBusinessRepo{businesses: []models.Business{biz}}
	leads := &fakeLeadRepo{}
	svc := newTestLeadService(leads, businesses)

	lead := &models.Lead{BusinessID: biz.ID, Name: "Prospect", Email: "prospect@example.com"}
	if err := svc.Capture(context.Background(), lead); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	filter := &models.LeadFilter{BusinessID: &biz.ID, Limit: 20}

	if _, total, err := svc.List(context.Background(), owner, false, filter); err != nil || total != 1 {
		t.Errorf("Expected owner to list 1 lead, got total %d, err %v", total, err)
	}
	if _, total, err := svc.List(context.Background(), moderator, true, filter); err != nil || total != 1 {
		t.Errorf("Expected staff to list 1 lead, got total %d, err %v", total, err)
	}
	if _, err := svc.UpdatePriority(context.Background(), moderator, true, lead.ID, models.PriorityHigh); err != nil {
		t.Errorf("Expected staff priority update to succeed, got %v", err)
	}
}
