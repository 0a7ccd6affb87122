package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"geovista-api/errs"
	"geovista-api/models"
)

type GormCheckinRepository struct {
	db *gorm.DB
}

func NewGormCheckinRepository(db *gorm.DB) *GormCheckinRepository {
	return &GormCheckinRepository{db: db}
}

func (r *GormCheckinRepository) Create(ctx context.Context, checkin *models.Checkin) error {
	// Photos are created through the association so they always belong to
	// exactly one checkin.
	return r.db.WithContext(ctx).Create(checkin).Error
}

func (r *GormCheckinRepository) FindByID(ctx context.Context, id string) (*models.Checkin, error) {
	var checkin models.Checkin
	err := r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&checkin, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &checkin, nil
}

func (r *GormCheckinRepository) Update(ctx context.Context, checkin *models.Checkin) error {
	existing, err := r.FindByID(ctx, checkin.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return errs.NotFound("Checkin not found")
	}
	return r.db.WithContext(ctx).Save(checkin).Error
}

func (r *GormCheckinRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Checkin{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("Checkin not found")
	}
	return nil
}

func (r *GormCheckinRepository) List(ctx context.Context, filter CheckinFilter, page Pagination) ([]models.Checkin, int64, error) {
	page = page.Normalize()
	q := r.db.WithContext(ctx).Model(&models.Checkin{})

	if filter.PlaceID != "" {
		q = q.Where("place_id = ?", filter.PlaceID)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.PrivateVisibleTo == "" {
		q = q.Where("is_private = ?", false)
	} else {
		q = q.Where("(is_private = ? OR user_id = ?)", false, filter.PrivateVisibleTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	checkins := make([]models.Checkin, 0, page.Limit)
	err := q.Preload("Photos", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC")
	}).Order("created_at DESC").Offset(page.Offset()).Limit(page.Limit).Find(&checkins).Error
	if err != nil {
		return nil, 0, err
	}
	return checkins, total, nil
}

func (r *GormCheckinRepository) RatingStats(ctx context.Context, placeID string) (int64, float64, error) {
	var stats struct {
		Count   int64
		Average float64
	}
	err := r.db.WithContext(ctx).Model(&models.Checkin{}).
		Select("COUNT(rating) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("place_id = ? AND status = ? AND rating IS NOT NULL", placeID, models.CheckinStatusActive).
		Scan(&stats).Error
	if err != nil {
		return 0, 0, err
	}
	return stats.Count, stats.Average, nil
}
