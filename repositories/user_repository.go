package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"geovista-api/errs"
	"geovista-api/models"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return errs.Conflict("Email already registered")
		}
		return err
	}
	return nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("status <> ?", models.UserStatusDeleted).
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("status <> ?", models.UserStatusDeleted).
		First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	existing, err := r.FindByID(ctx, user.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return errs.NotFound("User not found")
	}
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *GormUserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("User not found")
	}
	return nil
}

func (r *GormUserRepository) List(ctx context.Context, filter UserFilter, page Pagination) ([]models.User, int64, error) {
	page = page.Normalize()
	q := r.db.WithContext(ctx).Model(&models.User{})

	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Keyword != "" {
		kw := likePattern(filter.Keyword)
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", kw, kw)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := make([]models.User, 0, page.Limit)
	err := q.Order("created_at DESC").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
