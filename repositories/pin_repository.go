package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"geovista-api/errs"
	"geovista-api/models"
)

type GormRegionPinRepository struct {
	db *gorm.DB
}

func NewGormRegionPinRepository(db *gorm.DB) *GormRegionPinRepository {
	return &GormRegionPinRepository{db: db}
}

func (r *GormRegionPinRepository) Create(ctx context.Context, pin *models.RegionPin) error {
	if err := r.db.WithContext(ctx).Create(pin).Error; err != nil {
		if isDuplicate(err) {
			return errs.Conflict("Region is already pinned")
		}
		return err
	}
	return nil
}

func (r *GormRegionPinRepository) Find(ctx context.Context, userID, regionID string) (*models.RegionPin, error) {
	var pin models.RegionPin
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND region_id = ?", userID, regionID).
		First(&pin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pin, nil
}

func (r *GormRegionPinRepository) Delete(ctx context.Context, userID, regionID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND region_id = ?", userID, regionID).
		Delete(&models.RegionPin{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("Pin not found")
	}
	return nil
}

func (r *GormRegionPinRepository) ListByUser(ctx context.Context, userID string) ([]models.RegionPin, error) {
	var pins []models.RegionPin
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("display_order ASC").
		Find(&pins).Error
	if err != nil {
		return nil, err
	}
	return pins, nil
}

func (r *GormRegionPinRepository) UpdateDisplayOrder(ctx context.Context, userID, regionID string, order int) error {
	res := r.db.WithContext(ctx).Model(&models.RegionPin{}).
		Where("user_id = ? AND region_id = ?", userID, regionID).
		Updates(map[string]interface{}{
			"display_order": order,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("Pin not found")
	}
	return nil
}
