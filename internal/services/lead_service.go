package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/directory-service/internal/models"
	natsClient "github.com/tesseract-hub/directory-service/internal/nats"
	"github.com/tesseract-hub/directory-service/internal/repository"
)

// LeadService handles the lead funnel. Status and priority are plain
// fields with no transition graph or derivation rule.
type LeadService struct {
	leads      repository.LeadRepositoryInterface
	businesses repository.BusinessRepositoryInterface
	publisher  *natsClient.Publisher
	logger     *logrus.Logger
}

// NewLeadService creates a new lead service. The publisher may be nil.
func NewLeadService(leads repository.LeadRepositoryInterface, businesses repository.BusinessRepositoryInterface, publisher *natsClient.Publisher, logger *logrus.Logger) *LeadService {
	return &LeadService{
		leads:      leads,
		businesses: businesses,
		publisher:  publisher,
		logger:     logger,
	}
}

// Capture records a new inquiry against a business
func (s *LeadService) Capture(ctx context.Context, lead *models.Lead) error {
	if lead.Name == "" || lead.Email == "" {
		return fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}

	if _, err := s.businesses.GetByID(ctx, lead.BusinessID); err != nil {
		if IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to look up business: %w", err)
	}

	lead.Status = models.LeadNew
	if lead.Priority == "" {
		lead.Priority = models.PriorityMedium
	}

	if err := s.leads.Create(ctx, lead); err != nil {
		s.logger.WithError(err).WithField("business_id", lead.BusinessID).Error("Failed to create lead")
		return fmt.Errorf("failed to create lead: %w", err)
	}

	if s.publisher != nil {
		go func() {
			if err := s.publisher.Publish(context.Background(), natsClient.SubjectLeadCreated, lead); err != nil {
				s.logger.WithError(err).Warn("Failed to publish lead event")
			}
		}()
	}

	return nil
}

// authorizeBusiness verifies that the caller owns the business or is
// staff. Leads carry contact details, so non-owners never see them.
func (s *LeadService) authorizeBusiness(ctx context.Context, businessID, callerID uuid.UUID, staff bool) error {
	if staff {
		return nil
	}
	business, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		if IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to look up business: %w", err)
	}
	if business.OwnerID != callerID {
		return fmt.Errorf("%w: leads belong to the business owner", ErrForbidden)
	}
	return nil
}

// List returns a page of leads for a business the caller owns
func (s *LeadService) List(ctx context.Context, callerID uuid.UUID, staff bool, filter *models.LeadFilter) ([]models.Lead, int64, error) {
	if filter.BusinessID == nil {
		return nil, 0, fmt.Errorf("%w: business ID is required", ErrInvalidInput)
	}
	if err := s.authorizeBusiness(ctx, *filter.BusinessID, callerID, staff); err != nil {
		return nil, 0, err
	}

	leads, total, err := s.leads.List(ctx, filter)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list leads")
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, total, nil
}

// UpdateStatus writes the lead status directly; any status may follow
// any other
func (s *LeadService) UpdateStatus(ctx context.Context, callerID uuid.UUID, staff bool, id uuid.UUID, status models.LeadStatus) (*models.Lead, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown lead status %q", ErrInvalidInput, status)
	}

	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	if err := s.authorizeBusiness(ctx, lead.BusinessID, callerID, staff); err != nil {
		return nil, err
	}

	lead.Status = status
	if err := s.leads.Update(ctx, lead); err != nil {
		s.logger.WithError(err).WithField("lead_id", id).Error("Failed to update lead status")
		return nil, fmt.Errorf("failed to update lead status: %w", err)
	}
	return lead, nil
}

// UpdatePriority writes the lead priority directly
func (s *LeadService) UpdatePriority(ctx context.Context, callerID uuid.UUID, staff bool, id uuid.UUID, priority models.LeadPriority) (*models.Lead, error) {
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: unknown lead priority %q", ErrInvalidInput, priority)
	}

	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	if err := s.authorizeBusiness(ctx, lead.BusinessID, callerID, staff); err != nil {
		return nil, err
	}

	lead.Priority = priority
	if err := s.leads.Update(ctx, lead); err != nil {
		s.logger.WithError(err).WithField("lead_id", id).Error("Failed to update lead priority")
		return nil, fmt.Errorf("failed to update lead priority: %w", err)
	}
	return lead, nil
}

// Stats returns per-status lead counts for a business the caller owns
func (s *LeadService) Stats(ctx context.Context, callerID uuid.UUID, staff bool, businessID uuid.UUID) (*models.LeadStats, error) {
	if err := s.authorizeBusiness(ctx, businessID, callerID, staff); err != nil {
		return nil, err
	}

	stats, err := s.leads.StatsByBusiness(ctx, businessID)
	if err != nil {
		s.logger.WithError(err).WithField("business_id", businessID).Error("Failed to get lead stats")
		return nil, fmt.Errorf("failed to get lead stats: %w", err)
	}
	return stats, nil
}
