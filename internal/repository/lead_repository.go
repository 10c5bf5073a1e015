package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tesseract-hub/directory-service/internal/models"
)

// LeadRepository handles database operations for leads
type LeadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Create persists a new lead
func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

// GetByID retrieves a lead by ID
func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.WithContext(ctx).First(&lead, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// Update persists changes to an existing lead. Status and priority are
// written directly; no transition graph is enforced.
func (r *LeadRepository) Update(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

// List retrieves leads with filtering and pagination, newest first
func (r *LeadRepository) List(ctx context.Context, filter *models.LeadFilter) ([]models.Lead, int64, error) {
	var leads []models.Lead
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Lead{})

	if filter != nil {
		if filter.BusinessID != nil {
			query = query.Where("business_id = ?", *filter.BusinessID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.Priority != "" {
			query = query.Where("priority = ?", filter.Priority)
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

	if err := query.Find(&leads).Error; err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

// StatsByBusiness returns per-status lead counts for a business
func (r *LeadRepository) StatsByBusiness(ctx context.Context, businessID uuid.UUID) (*models.LeadStats, error) {
	var counts []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Lead{}).
		Select("status, COUNT(*) as count").
		Where("business_id = ?", businessID).
		Group("status").
		Find(&counts).Error
	if err != nil {
		return nil, err
	}

	stats := &models.LeadStats{ByStatus: make(map[string]int64, len(counts))}
	for _, c := range counts {
		stats.ByStatus[c.Status] = c.Count
		stats.Total += c.Count
	}
	return stats, nil
}
