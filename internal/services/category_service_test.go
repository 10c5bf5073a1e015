package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tesseract-hub/directory-service/internal/cache"
	"github.com/tesseract-hub/directory-service/internal/models"
)

func newTestCategoryService(repo *fakeCategoryRepo) *CategoryService {
	directoryCache := cache.NewDirectoryCache(cache.Config{
		Logger: testLogger(),
		TTL:    time.Minute,
	})
	return NewCategoryService(repo, directoryCache, testLogger())
}

func TestCategoryList_ServedFromCache(t *testing.T) {
	repo := &fakeCategoryRepo{categories: []models.Category{
		{ID: uuid.New(), Name: "Restaurants & Food", Slug: "restaurants-food", SortOrder: 1},
		{ID: uuid.New(), Name: "Pets", Slug: "pets", SortOrder: 13},
	}}
	svc := newTestCategoryService(repo)
	ctx := context.Background()

	first, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(first))
	}

	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if repo.listCalls != 1 {
		t.Errorf("Expected second listing served from cache, repo was hit %d times", repo.listCalls)
	}
}

func TestCategoryList_InvalidateForcesReload(t *testing.T) {
	repo := &fakeCategoryRepo{categories: []models.Category{
		{ID: uuid.New(), Name: "Education", Slug: "education", SortOrder: 8},
	}}
	svc := newTestCategoryService(repo)
	ctx := context.Background()

	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	svc.Invalidate(ctx)
	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if repo.listCalls != 2 {
		t.Errorf("Expected reload after invalidation, repo was hit %d times", repo.listCalls)
	}
}

func TestCategoryGetBySlug_NotFound(t *testing.T) {
	svc := newTestCategoryService(&fakeCategoryRepo{})

	_, err := svc.GetBySlug(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Fatalf("Expected not-found error, got %v", err)
	}
}

func TestReviewSubmit_ValidatesRatingRange(t *testing.T) {
	biz := activeBusiness("Reviewed Biz", models.PlanBasic, time.Now())
	businesses := &fakeBusinessRepo{businesses: []models.Business{biz}}
	svc := NewReviewService(&fakeReviewRepo{}, businesses, nil, testLogger())

	for _, rating := range []int{0, 6, -1} {
		err := svc.Submit(context.Background(), &models.Review{BusinessID: biz.ID, AuthorID: uuid.New(), Rating: rating})
		if err == nil {
			t.Errorf("Expected error for rating %d", rating)
		}
	}

	err := svc.Submit(context.Background(), &models.Review{BusinessID: biz.ID, AuthorID: uuid.New(), Rating: 5})
	if err != nil {
		t.Errorf("Expected no error for rating 5, got %v", err)
	}
}
