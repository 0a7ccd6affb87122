package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"geovista-api/errs"
	"geovista-api/models"
)

type GormPlaceRepository struct {
	db *gorm.DB
}

func NewGormPlaceRepository(db *gorm.DB) *GormPlaceRepository {
	return &GormPlaceRepository{db: db}
}

func (r *GormPlaceRepository) Create(ctx context.Context, place *models.Place) error {
	if err := r.db.WithContext(ctx).Create(place).Error; err != nil {
		if isDuplicate(err) {
			return errs.Conflict("Place already exists")
		}
		return err
	}
	return nil
}

func (r *GormPlaceRepository) FindByID(ctx context.Context, id string) (*models.Place, error) {
	var place models.Place
	err := r.db.WithContext(ctx).First(&place, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &place, nil
}

func (r *GormPlaceRepository) Update(ctx context.Context, place *models.Place) error {
	existing, err := r.FindByID(ctx, place.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return errs.NotFound("Place not found")
	}
	return r.db.WithContext(ctx).Save(place).Error
}

func (r *GormPlaceRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Place{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("Place not found")
	}
	return nil
}

func (r *GormPlaceRepository) List(ctx context.Context, filter PlaceFilter, sort Sort, page Pagination) ([]models.Place, int64, error) {
	page = page.Normalize()
	q := applyPlaceFilter(r.db.WithContext(ctx).Model(&models.Place{}), filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	places := make([]models.Place, 0, page.Limit)
	err := q.Order(orderClause(sort)).Offset(page.Offset()).Limit(page.Limit).Find(&places).Error
	if err != nil {
		return nil, 0, err
	}
	return places, total, nil
}

func (r *GormPlaceRepository) Search(ctx context.Context, filter PlaceFilter, sort Sort) ([]models.Place, error) {
	var places []models.Place
	q := applyPlaceFilter(r.db.WithContext(ctx).Model(&models.Place{}), filter)
	if err := q.Order(orderClause(sort)).Find(&places).Error; err != nil {
		return nil, err
	}
	return places, nil
}

func (r *GormPlaceRepository) AdjustCounters(ctx context.Context, id string, visitDelta, favoriteDelta, checkinDelta int) error {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errs.NotFound("Place not found")
	}

	updates := map[string]interface{}{}
	if visitDelta != 0 {
		updates["visit_count"] = gorm.Expr("GREATEST(visit_count + ?, 0)", visitDelta)
	}
	if favoriteDelta != 0 {
		updates["favorite_count"] = gorm.Expr("GREATEST(favorite_count + ?, 0)", favoriteDelta)
	}
	if checkinDelta != 0 {
		updates["checkin_count"] = gorm.Expr("GREATEST(checkin_count + ?, 0)", checkinDelta)
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Place{}).Where("id = ?", id).Updates(updates).Error
}

func (r *GormPlaceRepository) SetAverageRating(ctx context.Context, id string, rating *float64) error {
	res := r.db.WithContext(ctx).Model(&models.Place{}).Where("id = ?", id).
		Update("average_rating", rating)
	if res.Error != nil {
		return res.Error
	}
	return nil
}

func (r *GormPlaceRepository) SuggestNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&models.Place{}).
		Where("status = ?", models.ContentStatusPublished).
		Where("LOWER(name) LIKE ?", prefixPattern(prefix)).
		Distinct("name").
		Limit(limit).
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func applyPlaceFilter(q *gorm.DB, filter PlaceFilter) *gorm.DB {
	if filter.Keyword != "" {
		kw := likePattern(filter.Keyword)
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ? OR LOWER(category) LIKE ?)",
			kw, kw, kw, kw)
	}
	if filter.Tag != "" {
		q = q.Where("LOWER(tags) LIKE ?", likePattern(filter.Tag))
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.RegionID != "" {
		q = q.Where("region_id = ?", filter.RegionID)
	}
	if filter.CreatedBy != "" {
		q = q.Where("created_by = ?", filter.CreatedBy)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.Reported != nil {
		q = q.Where("reported = ?", *filter.Reported)
	}
	if filter.Visibility != nil {
		if filter.Visibility.ActingUserID == "" {
			q = q.Where("status = ?", models.ContentStatusPublished)
		} else {
			q = q.Where("(status = ? OR (status = ? AND created_by = ?))",
				models.ContentStatusPublished, models.ContentStatusDraft, filter.Visibility.ActingUserID)
		}
	}
	return q
}
