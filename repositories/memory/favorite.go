package memory

import (
	"context"
	"sort"
	"time"

	"geovista-api/errs"
	"geovista-api/models"
)

type regionFavoriteRepo struct {
	s    *Store
	inTx bool
}

func (r *regionFavoriteRepo) Create(ctx context.Context, favorite *models.RegionFavorite) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	key := pairKey(favorite.UserID, favorite.RegionID)
	if _, ok := r.s.data.regionFavs[key]; ok {
		return errs.Conflict("Region is already in favorites")
	}
	favorite.ID = r.s.allocID()
	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = time.Now()
	}
	r.s.data.regionFavs[key] = *favorite
	return nil
}

func (r *regionFavoriteRepo) Find(ctx context.Context, userID, regionID string) (*models.RegionFavorite, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	favorite, ok := r.s.data.regionFavs[pairKey(userID, regionID)]
	if !ok {
		return nil, nil
	}
	return &favorite, nil
}

func (r *regionFavoriteRepo) Delete(ctx context.Context, userID, regionID string) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	key := pairKey(userID, regionID)
	if _, ok := r.s.data.regionFavs[key]; !ok {
		return errs.NotFound("Favorite not found")
	}
	delete(r.s.data.regionFavs, key)
	return nil
}

func (r *regionFavoriteRepo) ListByUser(ctx context.Context, userID string, limit *int) ([]models.RegionFavorite, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if limit != nil && *limit == 0 {
		return []models.RegionFavorite{}, nil
	}

	favorites := []models.RegionFavorite{}
	for _, favorite := range r.s.data.regionFavs {
		if favorite.UserID == userID {
			favorites = append(favorites, favorite)
		}
	}
	sort.SliceStable(favorites, func(i, j int) bool {
		if favorites[i].CreatedAt.Equal(favorites[j].CreatedAt) {
			return favorites[i].ID > favorites[j].ID
		}
		return favorites[i].CreatedAt.After(favorites[j].CreatedAt)
	})
	if limit != nil && len(favorites) > *limit {
		favorites = favorites[:*limit]
	}
	return favorites, nil
}

type placeFavoriteRepo struct {
	s    *Store
	inTx bool
}

func (r *placeFavoriteRepo) Create(ctx context.Context, favorite *models.PlaceFavorite) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	key := pairKey(favorite.UserID, favorite.PlaceID)
	if _, ok := r.s.data.placeFavs[key]; ok {
		return errs.Conflict("Place is already in favorites")
	}
	favorite.ID = r.s.allocID()
	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = time.Now()
	}
	r.s.data.placeFavs[key] = *favorite
	return nil
}

func (r *placeFavoriteRepo) Find(ctx context.Context, userID, placeID string) (*models.PlaceFavorite, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	favorite, ok := r.s.data.placeFavs[pairKey(userID, placeID)]
	if !ok {
		return nil, nil
	}
	return &favorite, nil
}

func (r *placeFavoriteRepo) Delete(ctx context.Context, userID, placeID string) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	key := pairKey(userID, placeID)
	if _, ok := r.s.data.placeFavs[key]; !ok {
		return errs.NotFound("Favorite not found")
	}
	delete(r.s.data.placeFavs, key)
	return nil
}

func (r *placeFavoriteRepo) ListByUser(ctx context.Context, userID string, limit *int) ([]models.PlaceFavorite, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if limit != nil && *limit == 0 {
		return []models.PlaceFavorite{}, nil
	}

	favorites := []models.PlaceFavorite{}
	for _, favorite := range r.s.data.placeFavs {
		if favorite.UserID == userID {
			favorites = append(favorites, favorite)
		}
	}
	sort.SliceStable(favorites, func(i, j int) bool {
		if favorites[i].CreatedAt.Equal(favorites[j].CreatedAt) {
			return favorites[i].ID > favorites[j].ID
		}
		return favorites[i].CreatedAt.After(favorites[j].CreatedAt)
	})
	if limit != nil && len(favorites) > *limit {
		favorites = favorites[:*limit]
	}
	return favorites, nil
}
