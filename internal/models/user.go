package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents the role of a user within the directory
type UserRole string

const (
	RoleVisitor       UserRole = "VISITOR"
	RoleBusinessOwner UserRole = "BUSINESS_OWNER"
	RoleAdmin         UserRole = "ADMIN"
	RoleModerator     UserRole = "MODERATOR"
	RoleFinance       UserRole = "FINANCE"
	RoleSupport       UserRole = "SUPPORT"
)

// IsValid checks whether the role is one of the known roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleVisitor, RoleBusinessOwner, RoleAdmin, RoleModerator, RoleFinance, RoleSupport:
		return true
	}
	return false
}

// IsStaff reports whether the role grants access to moderation surfaces
func (r UserRole) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleFinance, RoleSupport:
		return true
	}
	return false
}

// User represents an account in the directory
type User struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email           string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name            string     `json:"name" gorm:"type:varchar(255)"`
	Role            UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'VISITOR';index"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// IsVerified reports whether the user's email address has been verified
func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}
