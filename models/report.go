package models

import "time"

type ReportStatus string

const (
	ReportStatusPending     ReportStatus = "pending"
	ReportStatusUnderReview ReportStatus = "under_review"
	ReportStatusResolved    ReportStatus = "resolved"
	ReportStatusDismissed   ReportStatus = "dismissed"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusUnderReview, ReportStatusResolved, ReportStatusDismissed:
		return true
	}
	return false
}

// Terminal report states are never exited.
func (s ReportStatus) Terminal() bool {
	return s == ReportStatusResolved || s == ReportStatusDismissed
}

type ReportType string

const (
	ReportTypeSpam           ReportType = "spam"
	ReportTypeHarassment     ReportType = "harassment"
	ReportTypeInappropriate  ReportType = "inappropriate"
	ReportTypeMisinformation ReportType = "misinformation"
	ReportTypeOther          ReportType = "other"
)

func (t ReportType) Valid() bool {
	switch t {
	case ReportTypeSpam, ReportTypeHarassment, ReportTypeInappropriate,
		ReportTypeMisinformation, ReportTypeOther:
		return true
	}
	return false
}

type ReportEntityType string

const (
	ReportEntityRegion  ReportEntityType = "region"
	ReportEntityPlace   ReportEntityType = "place"
	ReportEntityCheckin ReportEntityType = "checkin"
	ReportEntityUser    ReportEntityType = "user"
)

func (t ReportEntityType) Valid() bool {
	switch t {
	case ReportEntityRegion, ReportEntityPlace, ReportEntityCheckin, ReportEntityUser:
		return true
	}
	return false
}

// Report is a community complaint against an entity. One reporter may file at
// most one report per (entityType, entityID).
type Report struct {
	ID             string           `json:"id" gorm:"primaryKey;size:191"`
	ReporterUserID string           `json:"reporter_user_id" gorm:"not null;size:191;uniqueIndex:idx_reports_reporter_entity"`
	EntityType     ReportEntityType `json:"entity_type" gorm:"not null;size:20;uniqueIndex:idx_reports_reporter_entity;index:idx_reports_entity"`
	EntityID       string           `json:"entity_id" gorm:"not null;size:191;uniqueIndex:idx_reports_reporter_entity;index:idx_reports_entity"`
	Type           ReportType       `json:"type" gorm:"not null;size:30"`
	Reason         string           `json:"reason" gorm:"type:text"`
	Status         ReportStatus     `json:"status" gorm:"not null;default:'pending';size:20;index"`
	ReviewedBy     *string          `json:"reviewed_by" gorm:"size:191"`
	ReviewedAt     *time.Time       `json:"reviewed_at"`
	ReviewNotes    string           `json:"review_notes" gorm:"type:text"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	Reporter User `json:"-" gorm:"foreignKey:ReporterUserID"`
}

func (Report) TableName() string {
	return "reports"
}
