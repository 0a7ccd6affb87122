package repositories

import (
	"context"

	"gorm.io/gorm"
)

// NewGormRepos builds the full port bundle bound to db, which may be either
// the root connection or a transaction handle.
func NewGormRepos(db *gorm.DB) *Repos {
	return &Repos{
		Regions:     NewGormRegionRepository(db),
		Places:      NewGormPlaceRepository(db),
		Checkins:    NewGormCheckinRepository(db),
		RegionFavs:  NewGormRegionFavoriteRepository(db),
		PlaceFavs:   NewGormPlaceFavoriteRepository(db),
		Pins:        NewGormRegionPinRepository(db),
		Permissions: NewGormPermissionRepository(db),
		Reports:     NewGormReportRepository(db),
		Users:       NewGormUserRepository(db),
		Sessions:    NewGormSessionRepository(db),
	}
}

// GormTransactor runs units of work inside a database transaction. Rollback
// on failure is the database's job; the coordinator only propagates errors.
type GormTransactor struct {
	db *gorm.DB
}

func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(r *Repos) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormRepos(tx))
	})
}
