package models

import "time"

type CheckinStatus string

const (
	CheckinStatusActive  CheckinStatus = "active"
	CheckinStatusHidden  CheckinStatus = "hidden"
	CheckinStatusDeleted CheckinStatus = "deleted"
)

const (
	// Rating bounds for checkins, inclusive.
	MinRating = 1
	MaxRating = 5
)

// Checkin records a user's visit to a place.
type Checkin struct {
	ID            string        `json:"id" gorm:"primaryKey;size:191"`
	UserID        string        `json:"user_id" gorm:"not null;size:191;index"`
	PlaceID       string        `json:"place_id" gorm:"not null;size:191;index"`
	Comment       string        `json:"comment" gorm:"type:text"`
	Rating        *int          `json:"rating"` // 1..5 when set
	UserLatitude  *float64      `json:"user_latitude"`
	UserLongitude *float64      `json:"user_longitude"`
	Status        CheckinStatus `json:"status" gorm:"not null;default:'active';size:20;index"`
	IsPrivate     bool          `json:"is_private" gorm:"default:false"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	User   User           `json:"-" gorm:"foreignKey:UserID"`
	Place  Place          `json:"-" gorm:"foreignKey:PlaceID"`
	Photos []CheckinPhoto `json:"photos" gorm:"foreignKey:CheckinID"`
}

func (Checkin) TableName() string {
	return "checkins"
}

// CheckinPhoto belongs to exactly one checkin and is rendered by DisplayOrder.
type CheckinPhoto struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CheckinID    string    `json:"checkin_id" gorm:"not null;size:191;index"`
	URL          string    `json:"url" gorm:"not null;size:500"`
	DisplayOrder int       `json:"display_order" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
}
