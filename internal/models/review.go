package models

import (
	"time"

	"github.com/google/uuid"
)

// Review represents a visitor review of a business. Hidden reviews are
// excluded from public listings and from derived rating aggregation.
type Review struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BusinessID uuid.UUID `json:"businessId" gorm:"type:uuid;not null;index"`
	AuthorID   uuid.UUID `json:"authorId" gorm:"type:uuid;not null;index"`
	Rating     int       `json:"rating" gorm:"not null"`
	Title      string    `json:"title" gorm:"type:varchar(255)"`
	Content    string    `json:"content" gorm:"type:text"`
	Hidden     bool      `json:"hidden" gorm:"not null;default:false;index"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Review) TableName() string {
	return "reviews"
}

// IsVisible reports whether the review counts toward public listings
func (r *Review) IsVisible() bool {
	return !r.Hidden
}
