package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a directory category. One level of nesting is
// supported via ParentID.
type Category struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string     `json:"name" gorm:"type:varchar(255);not null"`
	Slug      string     `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	ParentID  *uuid.UUID `json:"parentId" gorm:"type:uuid;index"`
	SortOrder int        `json:"sortOrder" gorm:"not null;default:0"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// TableName specifies the table name
func (Category) TableName() string {
	return "categories"
}

// CategoryWithCount is a category annotated with its number of active
// businesses (a database-side aggregate).
type CategoryWithCount struct {
	Category
	ActiveBusinessCount int64 `json:"activeBusinessCount"`
}
