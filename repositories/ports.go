package repositories

import (
	"context"
	"time"

	"geovista-api/models"
)

// Repository port contracts. The service layer depends on these interfaces
// only; the gorm implementations in this package and the in-memory
// implementations in repositories/memory both satisfy them.
//
// Conventions shared by every port:
//   - FindByX returns (nil, nil) when no row matches. An error is reserved
//     for infrastructure failure.
//   - Write operations against a missing id return a NOT_FOUND errs.Error.
//   - Creates that violate a uniqueness invariant return a CONFLICT
//     errs.Error, detected at write time.
//   - List operations return the total count of the filtered set before
//     pagination is applied.

type RegionRepository interface {
	Create(ctx context.Context, region *models.Region) error
	FindByID(ctx context.Context, id string) (*models.Region, error)
	Update(ctx context.Context, region *models.Region) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter RegionFilter, sort Sort, page Pagination) ([]models.Region, int64, error)
	// Search returns the full filtered set in sorted order, without
	// pagination, so the caller can apply a distance filter before paging.
	Search(ctx context.Context, filter RegionFilter, sort Sort) ([]models.Region, error)
	// AdjustCounters applies deltas to the region counters; results are
	// clamped so counters never go negative.
	AdjustCounters(ctx context.Context, id string, visitDelta, favoriteDelta, placeDelta int) error
	SuggestNames(ctx context.Context, prefix string, limit int) ([]string, error)
}

type PlaceRepository interface {
	Create(ctx context.Context, place *models.Place) error
	FindByID(ctx context.Context, id string) (*models.Place, error)
	Update(ctx context.Context, place *models.Place) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PlaceFilter, sort Sort, page Pagination) ([]models.Place, int64, error)
	Search(ctx context.Context, filter PlaceFilter, sort Sort) ([]models.Place, error)
	AdjustCounters(ctx context.Context, id string, visitDelta, favoriteDelta, checkinDelta int) error
	SetAverageRating(ctx context.Context, id string, rating *float64) error
	SuggestNames(ctx context.Context, prefix string, limit int) ([]string, error)
}

type CheckinRepository interface {
	Create(ctx context.Context, checkin *models.Checkin) error
	FindByID(ctx context.Context, id string) (*models.Checkin, error)
	Update(ctx context.Context, checkin *models.Checkin) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter CheckinFilter, page Pagination) ([]models.Checkin, int64, error)
	// RatingStats returns the count and mean of ratings on active checkins
	// for a place. count == 0 means no rated checkins.
	RatingStats(ctx context.Context, placeID string) (count int64, average float64, err error)
}

type RegionFavoriteRepository interface {
	Create(ctx context.Context, favorite *models.RegionFavorite) error
	Find(ctx context.Context, userID, regionID string) (*models.RegionFavorite, error)
	Delete(ctx context.Context, userID, regionID string) error
	// ListByUser returns favorites most-recent-first. A nil limit means no
	// limit; a limit of 0 yields an empty list.
	ListByUser(ctx context.Context, userID string, limit *int) ([]models.RegionFavorite, error)
}

type PlaceFavoriteRepository interface {
	Create(ctx context.Context, favorite *models.PlaceFavorite) error
	Find(ctx context.Context, userID, placeID string) (*models.PlaceFavorite, error)
	Delete(ctx context.Context, userID, placeID string) error
	ListByUser(ctx context.Context, userID string, limit *int) ([]models.PlaceFavorite, error)
}

type RegionPinRepository interface {
	Create(ctx context.Context, pin *models.RegionPin) error
	Find(ctx context.Context, userID, regionID string) (*models.RegionPin, error)
	Delete(ctx context.Context, userID, regionID string) error
	// ListByUser returns the user's pins in ascending display order.
	ListByUser(ctx context.Context, userID string) ([]models.RegionPin, error)
	UpdateDisplayOrder(ctx context.Context, userID, regionID string, order int) error
}

type PermissionRepository interface {
	Create(ctx context.Context, permission *models.PlacePermission) error
	FindByID(ctx context.Context, id string) (*models.PlacePermission, error)
	Find(ctx context.Context, userID, placeID string) (*models.PlacePermission, error)
	Update(ctx context.Context, permission *models.PlacePermission) error
	Delete(ctx context.Context, id string) error
	ListByPlace(ctx context.Context, placeID string) ([]models.PlacePermission, error)
	// ListAcceptedByUser returns only grants whose AcceptedAt is set.
	ListAcceptedByUser(ctx context.Context, userID string) ([]models.PlacePermission, error)
}

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	FindByID(ctx context.Context, id string) (*models.Report, error)
	FindByReporterAndEntity(ctx context.Context, reporterID string, entityType models.ReportEntityType, entityID string) (*models.Report, error)
	Update(ctx context.Context, report *models.Report) error
	List(ctx context.Context, filter ReportFilter, page Pagination) ([]models.Report, int64, error)
}

// UserRepository treats soft-deleted accounts as absent in the single-entity
// lookups: FindByID and FindByEmail return (nil, nil) for them. List still
// matches deleted rows so the admin panel can audit closed accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter UserFilter, page Pagination) ([]models.User, int64, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Repos is the fixed bundle of every repository port. Services receive it at
// construction; the Transactor hands a transaction-bound copy to closures.
type Repos struct {
	Regions     RegionRepository
	Places      PlaceRepository
	Checkins    CheckinRepository
	RegionFavs  RegionFavoriteRepository
	PlaceFavs   PlaceFavoriteRepository
	Pins        RegionPinRepository
	Permissions PermissionRepository
	Reports     ReportRepository
	Users       UserRepository
	Sessions    SessionRepository
}

// Transactor scopes a unit of work. Every repository call inside fn must go
// through the Repos it receives; when fn returns an error the underlying
// storage transaction rolls back and the error is propagated unchanged.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(r *Repos) error) error
}
