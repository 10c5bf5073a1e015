package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tesseract-hub/directory-service/internal/models"
)

func newTestBusinessService(businesses *fakeBusinessRepo, categories *fakeCategoryRepo) *BusinessService {
	return NewBusinessService(businesses, categories, nil, nil, testLogger())
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Joe's Pizza & Pasta", "joe-s-pizza-pasta"},
		{"  Tidy  Cleaners  ", "tidy-cleaners"},
		{"CAFÉ 42", "caf-42"},
		{"already-slugged", "already-slugged"},
	}

	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRegister_SetsPendingStatusAndSlug(t *testing.T) {
	category := models.Category{ID: uuid.New(), Name: "Home Services", Slug: "home-services"}
	businesses := &fakeBusinessRepo{}
	svc := newTestBusinessService(businesses, &fakeCategoryRepo{categories: []models.Category{category}})

	business := &models.Business{
		Name:       "Fresh Start Cleaning",
		CategoryID: category.ID,
		OwnerID:    uuid.New(),
		Status:     models.StatusActive, // caller-set status is ignored
	}
	if err := svc.Register(context.Background(), business); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if business.Status != models.StatusPending {
		t.Errorf("Expected PENDING status, got %q", business.Status)
	}
	if business.Slug != "fresh-start-cleaning" {
		t.Errorf("Expected slug fresh-start-cleaning, got %q", business.Slug)
	}
}

func TestRegister_DeduplicatesSlug(t *testing.T) {
	category := models.Category{ID: uuid.New(), Name: "Automotive", Slug: "automotive"}
	businesses := &fakeBusinessRepo{
		businesses: []models.Business{
			{ID: uuid.New(), Slug: "city-garage", Status: models.StatusActive},
			{ID: uuid.New(), Slug: "city-garage-2", Status: models.StatusActive},
		},
	}
	svc := newTestBusinessService(businesses, &fakeCategoryRepo{categories: []models.Category{category}})

	business := &models.Business{Name: "City Garage", CategoryID: category.ID, OwnerID: uuid.New()}
	if err := svc.Register(context.Background(), business); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if business.Slug != "city-garage-3" {
		t.Errorf("Expected slug city-garage-3, got %q", business.Slug)
	}
}

func TestRegister_RejectsMissingCategory(t *testing.T) {
	svc := newTestBusinessService(&fakeBusinessRepo{}, &fakeCategoryRepo{})

	business := &models.Business{Name: "Orphan Biz", CategoryID: uuid.New(), OwnerID: uuid.New()}
	err := svc.Register(context.Background(), business)
	if err == nil {
		t.Fatal("Expected error for unknown category")
	}
}

func TestRegister_RejectsUnknownPlan(t *testing.T) {
	category := models.Category{ID: uuid.New(), Slug: "pets"}
	svc := newTestBusinessService(&fakeBusinessRepo{}, &fakeCategoryRepo{categories: []models.Category{category}})

	business := &models.Business{Name: "Plan Biz", CategoryID: category.ID, Plan: "PLATINUM"}
	err := svc.Register(context.Background(), business)
	if err == nil {
		t.Fatal("Expected error for unknown plan tier")
	}
}

func TestUpdate_RejectsForeignOwner(t *testing.T) {
	owner := uuid.New()
	biz := activeBusiness("Owned Biz", models.PlanBasic, time.Now())
	biz.OwnerID = owner

	businesses := &fakeBusinessRepo{businesses: []models.Business{biz}}
	svc := newTestBusinessService(businesses, &fakeCategoryRepo{})

	edited := biz
	edited.Name = "Taken Over"
	_, err := svc.Update(context.Background(), uuid.New(), &edited)
	if err == nil {
		t.Fatal("Expected error when updating another owner's business")
	}
}

func TestUpdate_PreservesStatusAndPlan(t *testing.T) {
	owner := uuid.New()
	biz := activeBusiness("Stable Biz", models.PlanVIP, time.Now())
	biz.OwnerID = owner

	businesses := &fakeBusinessRepo{businesses: []models.Business{biz}}
	svc := newTestBusinessService(businesses, &fakeCategoryRepo{})

	edited := biz
	edited.Name = "Stable Biz Renamed"
	edited.Status = models.StatusDraft
	edited.Plan = models.PlanFreeTrial

	updated, err := svc.Update(context.Background(), owner, &edited)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Name != "Stable Biz Renamed" {
		t.Errorf("Expected renamed business, got %q", updated.Name)
	}
	if updated.Status != models.StatusActive {
		t.Errorf("Expected status preserved as ACTIVE, got %q", updated.Status)
	}
	if updated.Plan != models.PlanVIP {
		t.Errorf("Expected plan preserved as VIP, got %q", updated.Plan)
	}
}

func TestPlanRankOrdering(t *testing.T) {
	if models.PlanVIP.Rank() <= models.PlanPro.Rank() {
		t.Error("Expected VIP to outrank PRO")
	}
	if models.PlanPro.Rank() <= models.PlanBasic.Rank() {
		t.Error("Expected PRO to outrank BASIC")
	}
	if models.PlanBasic.Rank() <= models.PlanFreeTrial.Rank() {
		t.Error("Expected BASIC to outrank FREE_TRIAL")
	}
}
