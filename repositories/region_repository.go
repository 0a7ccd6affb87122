package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"geovista-api/errs"
	"geovista-api/models"
)

type GormRegionRepository struct {
	db *gorm.DB
}

func NewGormRegionRepository(db *gorm.DB) *GormRegionRepository {
	return &GormRegionRepository{db: db}
}

func (r *GormRegionRepository) Create(ctx context.Context, region *models.Region) error {
	if err := r.db.WithContext(ctx).Create(region).Error; err != nil {
		if isDuplicate(err) {
			return errs.Conflict("Region already exists")
		}
		return err
	}
	return nil
}

func (r *GormRegionRepository) FindByID(ctx context.Context, id string) (*models.Region, error) {
	var region models.Region
	err := r.db.WithContext(ctx).First(&region, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &region, nil
}

func (r *GormRegionRepository) Update(ctx context.Context, region *models.Region) error {
	existing, err := r.FindByID(ctx, region.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return errs.NotFound("Region not found")
	}
	return r.db.WithContext(ctx).Save(region).Error
}

func (r *GormRegionRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Region{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("Region not found")
	}
	return nil
}

func (r *GormRegionRepository) List(ctx context.Context, filter RegionFilter, sort Sort, page Pagination) ([]models.Region, int64, error) {
	page = page.Normalize()
	q := applyRegionFilter(r.db.WithContext(ctx).Model(&models.Region{}), filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	regions := make([]models.Region, 0, page.Limit)
	err := q.Order(orderClause(sort)).Offset(page.Offset()).Limit(page.Limit).Find(&regions).Error
	if err != nil {
		return nil, 0, err
	}
	return regions, total, nil
}

func (r *GormRegionRepository) Search(ctx context.Context, filter RegionFilter, sort Sort) ([]models.Region, error) {
	var regions []models.Region
	q := applyRegionFilter(r.db.WithContext(ctx).Model(&models.Region{}), filter)
	if err := q.Order(orderClause(sort)).Find(&regions).Error; err != nil {
		return nil, err
	}
	return regions, nil
}

func (r *GormRegionRepository) AdjustCounters(ctx context.Context, id string, visitDelta, favoriteDelta, placeDelta int) error {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errs.NotFound("Region not found")
	}

	updates := map[string]interface{}{}
	if visitDelta != 0 {
		updates["visit_count"] = gorm.Expr("GREATEST(visit_count + ?, 0)", visitDelta)
	}
	if favoriteDelta != 0 {
		updates["favorite_count"] = gorm.Expr("GREATEST(favorite_count + ?, 0)", favoriteDelta)
	}
	if placeDelta != 0 {
		updates["place_count"] = gorm.Expr("GREATEST(place_count + ?, 0)", placeDelta)
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Region{}).Where("id = ?", id).Updates(updates).Error
}

func (r *GormRegionRepository) SuggestNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&models.Region{}).
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

func applyRegionFilter(q *gorm.DB, filter RegionFilter) *gorm.DB {
	if filter.Keyword != "" {
		kw := likePattern(filter.Keyword)
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?)", kw, kw, kw)
	}
	if filter.Tag != "" {
		q = q.Where("LOWER(tags) LIKE ?", likePattern(filter.Tag))
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
