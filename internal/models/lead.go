package models

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus represents the position of a lead in the sales funnel.
// Any status may be written directly; no transition graph is enforced.
type LeadStatus string

const (
	LeadNew        LeadStatus = "NEW"
	LeadViewed     LeadStatus = "VIEWED"
	LeadContacted  LeadStatus = "CONTACTED"
	LeadQualified  LeadStatus = "QUALIFIED"
	LeadConverted  LeadStatus = "CONVERTED"
	LeadClosedLost LeadStatus = "CLOSED_LOST"
)

// IsValid checks whether the status is one of the funnel states
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadNew, LeadViewed, LeadContacted, LeadQualified, LeadConverted, LeadClosedLost:
		return true
	}
	return false
}

// LeadPriority represents lead priority. Independent of status; never
// derived from content or time.
type LeadPriority string

const (
	PriorityLow    LeadPriority = "LOW"
	PriorityMedium LeadPriority = "MEDIUM"
	PriorityHigh   LeadPriority = "HIGH"
	PriorityUrgent LeadPriority = "URGENT"
)

// IsValid checks whether the priority is one of the known levels
func (p LeadPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Lead represents a customer inquiry captured against a business
type Lead struct {
	ID         uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BusinessID uuid.UUID    `json:"businessId" gorm:"type:uuid;not null;index"`
	Name       string       `json:"name" gorm:"type:varchar(255);not null"`
	Email      string       `json:"email" gorm:"type:varchar(255);not null"`
	Phone      string       `json:"phone" gorm:"type:varchar(50)"`
	Message    string       `json:"message" gorm:"type:text"`
	Status     LeadStatus   `json:"status" gorm:"type:varchar(20);not null;default:'NEW';index"`
	Priority   LeadPriority `json:"priority" gorm:"type:varchar(20);not null;default:'MEDIUM'"`
	CreatedAt  time.Time    `json:"createdAt" gorm:"index"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// TableName specifies the table name
func (Lead) TableName() string {
	return "leads"
}

// LeadFilter represents filter criteria for listing leads
type LeadFilter struct {
	BusinessID *uuid.UUID   `json:"businessId"`
	Status     LeadStatus   `json:"status"`
	Priority   LeadPriority `json:"priority"`
	Limit      int          `json:"limit"`
	Offset     int          `json:"offset"`
}

// LeadStats holds per-business lead counts grouped by funnel status
type LeadStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
}
