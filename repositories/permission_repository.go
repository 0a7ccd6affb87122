package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"geovista-api/errs"
	"geovista-api/models"
)

type GormPermissionRepository struct {
	db *gorm.DB
}

func NewGormPermissionRepository(db *gorm.DB) *GormPermissionRepository {
	return &GormPermissionRepository{db: db}
}

func (r *GormPermissionRepository) Create(ctx context.Context, permission *models.PlacePermission) error {
	if err := r.db.WithContext(ctx).Create(permission).Error; err != nil {
		if isDuplicate(err) {
			return errs.Conflict("Permission already exists for this user and place")
		}
		return err
	}
	return nil
}

func (r *GormPermissionRepository) FindByID(ctx context.Context, id string) (*models.PlacePermission, error) {
	var permission models.PlacePermission
	err := r.db.WithContext(ctx).First(&permission, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &permission, nil
}

func (r *GormPermissionRepository) Find(ctx context.Context, userID, placeID string) (*models.PlacePermission, error) {
	var permission models.PlacePermission
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND place_id = ?", userID, placeID).
		First(&permission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &permission, nil
}

func (r *GormPermissionRepository) Update(ctx context.Context, permission *models.PlacePermission) error {
	existing, err := r.FindByID(ctx, permission.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return errs.NotFound("Permission not found")
	}
	return r.db.WithContext(ctx).Save(permission).Error
}

func (r *GormPermissionRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.PlacePermission{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("Permission not found")
	}
	return nil
}

func (r *GormPermissionRepository) ListByPlace(ctx context.Context, placeID string) ([]models.PlacePermission, error) {
	var permissions []models.PlacePermission
	err := r.db.WithContext(ctx).
		Where("place_id = ?", placeID).
		Order("invited_at DESC").
		Find(&permissions).Error
	if err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *GormPermissionRepository) ListAcceptedByUser(ctx context.Context, userID string) ([]models.PlacePermission, error) {
	var permissions []models.PlacePermission
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND accepted_at IS NOT NULL", userID).
		Order("accepted_at DESC").
		Find(&permissions).Error
	if err != nil {
		return nil, err
	}
	return permissions, nil
}
