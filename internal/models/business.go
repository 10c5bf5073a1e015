package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BusinessStatus represents the lifecycle state of a business listing
type BusinessStatus string

const (
	StatusDraft       BusinessStatus = "DRAFT"
	StatusPending     BusinessStatus = "PENDING"
	StatusActive      BusinessStatus = "ACTIVE"
	StatusSuspended   BusinessStatus = "SUSPENDED"
	StatusRejected    BusinessStatus = "REJECTED"
	StatusDeactivated BusinessStatus = "DEACTIVATED"

	// StatusAny is a filter sentinel meaning "all statuses". It is never
	// stored on a business.
	StatusAny BusinessStatus = "ANY"
)

// PlanTier represents the subscription level of a business
type PlanTier string

const (
	PlanFreeTrial PlanTier = "FREE_TRIAL"
	PlanBasic     PlanTier = "BASIC"
	PlanPro       PlanTier = "PRO"
	PlanVIP       PlanTier = "VIP"
)

// planRanks maps each tier to its ordinal rank for SQL-side ordering
var planRanks = map[PlanTier]int{
	PlanFreeTrial: 0,
	PlanBasic:     1,
	PlanPro:       2,
	PlanVIP:       3,
}

// Rank returns the ordinal rank of the plan tier (higher = better plan)
func (p PlanTier) Rank() int {
	return planRanks[p]
}

// IsValid checks whether the tier is one of the known plan levels
func (p PlanTier) IsValid() bool {
	_, ok := planRanks[p]
	return ok
}

// IsValid checks whether the status is one of the known lifecycle states
func (s BusinessStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusActive, StatusSuspended, StatusRejected, StatusDeactivated:
		return true
	}
	return false
}

// Business represents a business listing in the directory.
// Rating and review count are never stored; they are derived at read time
// from the associated visible reviews.
type Business struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Slug string    `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name string    `json:"name" gorm:"type:varchar(255);not null"`

	Description string `json:"description" gorm:"type:text"`
	Email       string `json:"email" gorm:"type:varchar(255)"`
	Phone       string `json:"phone" gorm:"type:varchar(50)"`
	Website     string `json:"website" gorm:"type:varchar(500)"`

	// Location
	Address    string   `json:"address" gorm:"type:varchar(500)"`
	City       string   `json:"city" gorm:"type:varchar(255);index"`
	State      string   `json:"state" gorm:"type:varchar(255)"`
	Country    string   `json:"country" gorm:"type:varchar(255)"`
	PostalCode string   `json:"postalCode" gorm:"type:varchar(20)"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`

	// Categorization
	CategoryID uuid.UUID `json:"categoryId" gorm:"type:uuid;not null;index"`
	Category   *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`

	// Subscription. PlanRank mirrors Plan as an integer so "plan tier
	// descending" is a plain ORDER BY; maintained by the BeforeSave hook.
	Plan     PlanTier `json:"plan" gorm:"type:varchar(20);not null;default:'FREE_TRIAL'"`
	PlanRank int      `json:"-" gorm:"not null;default:0;index"`

	Status  BusinessStatus `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	OwnerID uuid.UUID      `json:"ownerId" gorm:"type:uuid;not null;index"`

	Services     pq.StringArray    `json:"services" gorm:"type:text[]"`
	Tags         pq.StringArray    `json:"tags" gorm:"type:text[]"`
	WorkingHours datatypes.JSONMap `json:"workingHours" gorm:"type:jsonb"`

	Reviews []Review `json:"reviews,omitempty" gorm:"foreignKey:BusinessID"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Business) TableName() string {
	return "businesses"
}

// BeforeSave keeps PlanRank in sync with the plan tier
func (b *Business) BeforeSave(tx *gorm.DB) error {
	if b.Plan == "" {
		b.Plan = PlanFreeTrial
	}
	b.PlanRank = b.Plan.Rank()
	return nil
}

// IsActive reports whether the business is publicly visible
func (b *Business) IsActive() bool {
	return b.Status == StatusActive
}

// BusinessResult is a business enriched with its derived rating.
type BusinessResult struct {
	Business
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
}

// SortKey selects the ordering of directory search results
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
	SortReviews   SortKey = "reviews"
)

// IsValid checks whether the sort key is supported
func (k SortKey) IsValid() bool {
	switch k {
	case SortRelevance, SortRating, SortNewest, SortReviews:
		return true
	}
	return false
}

// BusinessFilter represents filter criteria for directory searches.
// All provided filters combine with logical AND.
type BusinessFilter struct {
	Query      string         `json:"query"`
	CategoryID *uuid.UUID     `json:"categoryId"`
	Location   string         `json:"location"`
	Status     BusinessStatus `json:"status"`
	Plan       PlanTier       `json:"plan"`
	OwnerID    *uuid.UUID     `json:"ownerId"`
	SortBy     SortKey        `json:"sortBy"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}

// SearchResult is one page of directory results with pagination metadata
type SearchResult struct {
	Businesses []BusinessResult `json:"businesses"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Pages      int              `json:"pages"`
	HasNext    bool             `json:"hasNext"`
	HasPrev    bool             `json:"hasPrev"`
}
