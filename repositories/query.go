package repositories

import "geovista-api/models"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination is the page/limit model shared by every list and search
// operation. Page numbers start at 1.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps a pagination request into the supported range.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Sort names a column and direction. Services validate the field against a
// per-aggregate whitelist before it reaches a repository.
type Sort struct {
	Field      string
	Descending bool
}

// DefaultSort is newest-created-first.
func DefaultSort() Sort {
	return Sort{Field: "created_at", Descending: true}
}

// Visibility restricts listings to what the acting user may see: published
// entities, plus the user's own drafts when ActingUserID is set.
type Visibility struct {
	ActingUserID string
}

// RegionFilter is the predicate set for region list/search. Zero values mean
// "no filter". A nil Visibility means an unrestricted internal listing.
type RegionFilter struct {
	Keyword    string
	Tag        string
	CreatedBy  string
	Statuses   []models.ContentStatus
	Reported   *bool
	Visibility *Visibility
}

// PlaceFilter is the predicate set for place list/search.
type PlaceFilter struct {
	Keyword    string
	Tag        string
	Category   models.PlaceCategory
	RegionID   string
	CreatedBy  string
	Statuses   []models.ContentStatus
	Reported   *bool
	Visibility *Visibility
}

// CheckinFilter selects checkins for listings. PrivateVisibleTo names the
// user whose private checkins may be included.
type CheckinFilter struct {
	PlaceID          string
	UserID           string
	Statuses         []models.CheckinStatus
	PrivateVisibleTo string
}

// ReportFilter selects reports for the moderation queue.
type ReportFilter struct {
	Status     models.ReportStatus
	EntityType models.ReportEntityType
	EntityID   string
	ReporterID string
}

// UserFilter selects users for admin listings.
type UserFilter struct {
	Role    models.UserRole
	Status  models.UserStatus
	Keyword string
}
