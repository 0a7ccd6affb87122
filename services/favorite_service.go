package services

import (
	"context"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/repositories"
)

// FavoriteService toggles favorite membership for regions and places and
// keeps the aggregate favorite counters in step, transactionally.
type FavoriteService struct {
	repos *repositories.Repos
	tx    repositories.Transactor
}

func NewFavoriteService(repos *repositories.Repos, tx repositories.Transactor) *FavoriteService {
	return &FavoriteService{repos: repos, tx: tx}
}

// AddRegionFavorite records the (user, region) favorite. A second add for
// the same pair is a CONFLICT; the unique index backs the check at write
// time so a concurrent race still loses with CONFLICT.
func (s *FavoriteService) AddRegionFavorite(ctx context.Context, userID, regionID string) (err error) {
	defer recoverGuard(&err)

	region, err := s.repos.Regions.FindByID(ctx, regionID)
	if err != nil {
		return fetchErr("Failed to load region", err)
	}
	if region == nil {
		return errs.NotFound("Region not found")
	}

	existing, err := s.repos.RegionFavs.Find(ctx, userID, regionID)
	if err != nil {
		return fetchErr("Failed to check favorite", err)
	}
	if existing != nil {
		return errs.Conflict("Region is already in favorites")
	}

	return s.tx.WithinTransaction(ctx, func(r *repositories.Repos) error {
		favorite := &models.RegionFavorite{UserID: userID, RegionID: regionID}
		if err := r.RegionFavs.Create(ctx, favorite); err != nil {
			return writeErr("Failed to add favorite", err)
		}
		if err := r.Regions.AdjustCounters(ctx, regionID, 0, 1, 0); err != nil {
			return writeErr("Failed to update favorite count", err)
		}
		return nil
	})
}

// RemoveRegionFavorite deletes the favorite row; NOT_FOUND when none exists.
func (s *FavoriteService) RemoveRegionFavorite(ctx context.Context, userID, regionID string) (err error) {
	defer recoverGuard(&err)

	return s.tx.WithinTransaction(ctx, func(r *repositories.Repos) error {
		if err := r.RegionFavs.Delete(ctx, userID, regionID); err != nil {
			return writeErr("Failed to remove favorite", err)
		}
		if err := r.Regions.AdjustCounters(ctx, regionID, 0, -1, 0); err != nil {
			return writeErr("Failed to update favorite count", err)
		}
		return nil
	})
}

// ListFavoriteRegions joins the user's favorites (most recent first) to their
// regions. A limit of exactly 0 yields an empty list; nil means no limit.
func (s *FavoriteService) ListFavoriteRegions(ctx context.Context, userID string, limit *int) (result []models.RegionWithFavorite, err error) {
	defer recoverGuard(&err)

	favorites, err := s.repos.RegionFavs.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fetchErr("Failed to list favorites", err)
	}

	result = make([]models.RegionWithFavorite, 0, len(favorites))
	for _, favorite := range favorites {
		region, err := s.repos.Regions.FindByID(ctx, favorite.RegionID)
		if err != nil {
			return nil, fetchErr("Failed to load region", err)
		}
		if region == nil {
			continue
		}
		result = append(result, models.RegionWithFavorite{Region: *region, IsFavorited: true})
	}
	return result, nil
}

// AddPlaceFavorite is the place variant of AddRegionFavorite.
func (s *FavoriteService) AddPlaceFavorite(ctx context.Context, userID, placeID string) (err error) {
	defer recoverGuard(&err)

	place, err := s.repos.Places.FindByID(ctx, placeID)
	if err != nil {
		return fetchErr("Failed to load place", err)
	}
	if place == nil {
		return errs.NotFound("Place not found")
	}

	existing, err := s.repos.PlaceFavs.Find(ctx, userID, placeID)
	if err != nil {
		return fetchErr("Failed to check favorite", err)
	}
	if existing != nil {
		return errs.Conflict("Place is already in favorites")
	}

	return s.tx.WithinTransaction(ctx, func(r *repositories.Repos) error {
		favorite := &models.PlaceFavorite{UserID: userID, PlaceID: placeID}
		if err := r.PlaceFavs.Create(ctx, favorite); err != nil {
			return writeErr("Failed to add favorite", err)
		}
		if err := r.Places.AdjustCounters(ctx, placeID, 0, 1, 0); err != nil {
			return writeErr("Failed to update favorite count", err)
		}
		return nil
	})
}

// RemovePlaceFavorite is the place variant of RemoveRegionFavorite.
func (s *FavoriteService) RemovePlaceFavorite(ctx context.Context, userID, placeID string) (err error) {
	defer recoverGuard(&err)

	return s.tx.WithinTransaction(ctx, func(r *repositories.Repos) error {
		if err := r.PlaceFavs.Delete(ctx, userID, placeID); err != nil {
			return writeErr("Failed to remove favorite", err)
		}
		if err := r.Places.AdjustCounters(ctx, placeID, 0, -1, 0); err != nil {
			return writeErr("Failed to update favorite count", err)
		}
		return nil
	})
}

// ListFavoritePlaces is the place variant of ListFavoriteRegions.
func (s *FavoriteService) ListFavoritePlaces(ctx context.Context, userID string, limit *int) (result []models.PlaceWithFavorite, err error) {
	defer recoverGuard(&err)

	favorites, err := s.repos.PlaceFavs.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fetchErr("Failed to list favorites", err)
	}

	result = make([]models.PlaceWithFavorite, 0, len(favorites))
	for _, favorite := range favorites {
		place, err := s.repos.Places.FindByID(ctx, favorite.PlaceID)
		if err != nil {
			return nil, fetchErr("Failed to load place", err)
		}
		if place == nil {
			continue
		}
		result = append(result, models.PlaceWithFavorite{Place: *place, IsFavorited: true})
	}
	return result, nil
}
