package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"geovista-api/errs"
	"geovista-api/models"
)

type GormRegionFavoriteRepository struct {
	db *gorm.DB
}

func NewGormRegionFavoriteRepository(db *gorm.DB) *GormRegionFavoriteRepository {
	return &GormRegionFavoriteRepository{db: db}
}

func (r *GormRegionFavoriteRepository) Create(ctx context.Context, favorite *models.RegionFavorite) error {
	if err := r.db.WithContext(ctx).Create(favorite).Error; err != nil {
		if isDuplicate(err) {
			return errs.Conflict("Region is already in favorites")
		}
		return err
	}
	return nil
}

func (r *GormRegionFavoriteRepository) Find(ctx context.Context, userID, regionID string) (*models.RegionFavorite, error) {
	var favorite models.RegionFavorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND region_id = ?", userID, regionID).
		First(&favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &favorite, nil
}

func (r *GormRegionFavoriteRepository) Delete(ctx context.Context, userID, regionID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND region_id = ?", userID, regionID).
		Delete(&models.RegionFavorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("Favorite not found")
	}
	return nil
}

func (r *GormRegionFavoriteRepository) ListByUser(ctx context.Context, userID string, limit *int) ([]models.RegionFavorite, error) {
	if limit != nil && *limit == 0 {
		return []models.RegionFavorite{}, nil
	}

	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit != nil {
		q = q.Limit(*limit)
	}

	var favorites []models.RegionFavorite
	if err := q.Find(&favorites).Error; err != nil {
		return nil, err
	}
	return favorites, nil
}

type GormPlaceFavoriteRepository struct {
	db *gorm.DB
}

func NewGormPlaceFavoriteRepository(db *gorm.DB) *GormPlaceFavoriteRepository {
	return &GormPlaceFavoriteRepository{db: db}
}

func (r *GormPlaceFavoriteRepository) Create(ctx context.Context, favorite *models.PlaceFavorite) error {
	if err := r.db.WithContext(ctx).Create(favorite).Error; err != nil {
		if isDuplicate(err) {
			return errs.Conflict("Place is already in favorites")
		}
		return err
	}
	return nil
}

func (r *GormPlaceFavoriteRepository) Find(ctx context.Context, userID, placeID string) (*models.PlaceFavorite, error) {
	var favorite models.PlaceFavorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND place_id = ?", userID, placeID).
		First(&favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &favorite, nil
}

func (r *GormPlaceFavoriteRepository) Delete(ctx context.Context, userID, placeID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND place_id = ?", userID, placeID).
		Delete(&models.PlaceFavorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("Favorite not found")
	}
	return nil
}

func (r *GormPlaceFavoriteRepository) ListByUser(ctx context.Context, userID string, limit *int) ([]models.PlaceFavorite, error) {
	if limit != nil && *limit == 0 {
		return []models.PlaceFavorite{}, nil
	}

	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit != nil {
		q = q.Limit(*limit)
	}

	var favorites []models.PlaceFavorite
	if err := q.Find(&favorites).Error; err != nil {
		return nil, err
	}
	return favorites, nil
}
