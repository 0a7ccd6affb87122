package models

import "time"

// Region is a user-created geographic area that groups places.
type Region struct {
	ID               string        `json:"id" gorm:"primaryKey;size:191"`
	Name             string        `json:"name" gorm:"not null;size:255;index"`
	Description      string        `json:"description" gorm:"type:text"`
	ShortDescription string        `json:"short_description" gorm:"size:500"`
	Latitude         float64       `json:"latitude" gorm:"not null"`
	Longitude        float64       `json:"longitude" gorm:"not null"`
	Address          string        `json:"address" gorm:"size:500"`
	Status           ContentStatus `json:"status" gorm:"not null;default:'draft';size:20;index"`
	Reported         bool          `json:"reported" gorm:"default:false"`
	CreatedBy        string        `json:"created_by" gorm:"not null;size:191;index"` // immutable after create
	Images           StringSlice   `json:"images"`
	Tags             StringSlice   `json:"tags"`
	VisitCount       int           `json:"visit_count" gorm:"default:0"`
	FavoriteCount    int           `json:"favorite_count" gorm:"default:0"`
	PlaceCount       int           `json:"place_count" gorm:"default:0"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	Creator User `json:"-" gorm:"foreignKey:CreatedBy"`
}

func (Region) TableName() string {
	return "regions"
}

// RegionWithFavorite is the listing shape returned when the acting user's
// favorite state is joined in.
type RegionWithFavorite struct {
	Region
	IsFavorited bool `json:"is_favorited"`
}

// RegionFavorite marks a region as favorited by a user. At most one row per
// (user, region) pair.
type RegionFavorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:idx_region_favorites_user_region"`
	RegionID  string    `json:"region_id" gorm:"not null;size:191;uniqueIndex:idx_region_favorites_user_region"`
	CreatedAt time.Time `json:"created_at"`

	User   User   `json:"-" gorm:"foreignKey:UserID"`
	Region Region `json:"-" gorm:"foreignKey:RegionID"`
}

// RegionPin places a region on the user's pinned list at DisplayOrder.
// Orders for one user are a dense zero-based sequence.
type RegionPin struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:idx_region_pins_user_region"`
	RegionID     string    `json:"region_id" gorm:"not null;size:191;uniqueIndex:idx_region_pins_user_region"`
	DisplayOrder int       `json:"display_order" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User   User   `json:"-" gorm:"foreignKey:UserID"`
	Region Region `json:"-" gorm:"foreignKey:RegionID"`
}
