package models

import "time"

type PlaceCategory string

const (
	CategoryRestaurant PlaceCategory = "restaurant"
	CategoryCafe       PlaceCategory = "cafe"
	CategoryHotel      PlaceCategory = "hotel"
	CategoryBar        PlaceCategory = "bar"
	CategoryMuseum     PlaceCategory = "museum"
	CategoryPark       PlaceCategory = "park"
	CategoryShop       PlaceCategory = "shop"
	CategoryViewpoint  PlaceCategory = "viewpoint"
	CategoryOther      PlaceCategory = "other"
)

func (c PlaceCategory) Valid() bool {
	switch c {
	case CategoryRestaurant, CategoryCafe, CategoryHotel, CategoryBar,
		CategoryMuseum, CategoryPark, CategoryShop, CategoryViewpoint, CategoryOther:
		return true
	}
	return false
}

// Label is the human-readable category name, also matched by keyword search.
func (c PlaceCategory) Label() string {
	return string(c)
}

// Place is a point of interest inside a region.
type Place struct {
	ID            string        `json:"id" gorm:"primaryKey;size:191"`
	Name          string        `json:"name" gorm:"not null;size:255;index"`
	Description   string        `json:"description" gorm:"type:text"`
	Category      PlaceCategory `json:"category" gorm:"not null;size:50;index"`
	RegionID      string        `json:"region_id" gorm:"not null;size:191;index"`
	Latitude      float64       `json:"latitude" gorm:"not null"`
	Longitude     float64       `json:"longitude" gorm:"not null"`
	Address       string        `json:"address" gorm:"size:500"`
	Phone         string        `json:"phone" gorm:"size:50"`
	Website       string        `json:"website" gorm:"size:500"`
	Status        ContentStatus `json:"status" gorm:"not null;default:'draft';size:20;index"`
	Reported      bool          `json:"reported" gorm:"default:false"`
	CreatedBy     string        `json:"created_by" gorm:"not null;size:191;index"` // immutable after create
	Images        StringSlice   `json:"images"`
	Tags          StringSlice   `json:"tags"`
	BusinessHours string        `json:"business_hours" gorm:"size:500"`
	VisitCount    int           `json:"visit_count" gorm:"default:0"`
	FavoriteCount int           `json:"favorite_count" gorm:"default:0"`
	CheckinCount  int           `json:"checkin_count" gorm:"default:0"`
	AverageRating *float64      `json:"average_rating"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	Region  Region `json:"-" gorm:"foreignKey:RegionID"`
	Creator User   `json:"-" gorm:"foreignKey:CreatedBy"`
}

func (Place) TableName() string {
	return "places"
}

// PlaceWithFavorite is the listing shape with the acting user's favorite state.
type PlaceWithFavorite struct {
	Place
	IsFavorited bool `json:"is_favorited"`
}

// SharedPlace annotates a place with the capability flags granted to the
// viewing user, not the owner's.
type SharedPlace struct {
	Place
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

// PlaceFavorite marks a place as favorited by a user. At most one row per
// (user, place) pair.
type PlaceFavorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:idx_place_favorites_user_place"`
	PlaceID   string    `json:"place_id" gorm:"not null;size:191;uniqueIndex:idx_place_favorites_user_place"`
	CreatedAt time.Time `json:"created_at"`

	User  User  `json:"-" gorm:"foreignKey:UserID"`
	Place Place `json:"-" gorm:"foreignKey:PlaceID"`
}
