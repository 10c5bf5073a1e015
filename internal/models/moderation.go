package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReportTargetType identifies what kind of entity an abuse report is about
type ReportTargetType string

const (
	TargetBusiness ReportTargetType = "BUSINESS"
	TargetReview   ReportTargetType = "REVIEW"
)

// ReportStatus represents the moderation state of an abuse report
type ReportStatus string

const (
	ReportPending   ReportStatus = "PENDING"
	ReportResolved  ReportStatus = "RESOLVED"
	ReportDismissed ReportStatus = "DISMISSED"
)

// AbuseReport represents a user-submitted report against a business or review
type AbuseReport struct {
	ID         uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TargetType ReportTargetType `json:"targetType" gorm:"type:varchar(20);not null;index"`
	TargetID   uuid.UUID        `json:"targetId" gorm:"type:uuid;not null;index"`
	ReporterID *uuid.UUID       `json:"reporterId" gorm:"type:uuid;index"`
	Reason     string           `json:"reason" gorm:"type:varchar(100);not null"`
	Details    string           `json:"details" gorm:"type:text"`
	Status     ReportStatus     `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ResolvedAt *time.Time       `json:"resolvedAt"`
	CreatedAt  time.Time        `json:"createdAt" gorm:"index"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// TableName specifies the table name
func (AbuseReport) TableName() string {
	return "abuse_reports"
}

// AdminActionLog records a single moderation action. Write-mostly audit
// trail; every status transition and visibility toggle appends one row.
type AdminActionLog struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AdminID    uuid.UUID      `json:"adminId" gorm:"type:uuid;not null;index"`
	Action     string         `json:"action" gorm:"type:varchar(100);not null;index"`
	TargetType string         `json:"targetType" gorm:"type:varchar(50);not null;index"`
	TargetID   uuid.UUID      `json:"targetId" gorm:"type:uuid;not null;index"`
	FromStatus string         `json:"fromStatus" gorm:"type:varchar(50)"`
	ToStatus   string         `json:"toStatus" gorm:"type:varchar(50)"`
	Notes      string         `json:"notes" gorm:"type:text"`
	Metadata   datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt  time.Time      `json:"createdAt" gorm:"index"`
}

// TableName specifies the table name
func (AdminActionLog) TableName() string {
	return "admin_action_logs"
}

// BeforeCreate stamps the action time if the caller did not
func (l *AdminActionLog) BeforeCreate(tx *gorm.DB) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	return nil
}

// ActionLogFilter represents filter criteria for browsing the audit trail
type ActionLogFilter struct {
	AdminID    *uuid.UUID `json:"adminId"`
	Action     string     `json:"action"`
	TargetType string     `json:"targetType"`
	TargetID   *uuid.UUID `json:"targetId"`
	FromDate   *time.Time `json:"fromDate"`
	ToDate     *time.Time `json:"toDate"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}
