package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"geovista-api/errs"
	"geovista-api/models"
)

type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) Create(ctx context.Context, session *models.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		if isDuplicate(err) {
			return errs.Conflict("Session already exists")
		}
		return err
	}
	return nil
}

func (r *GormSessionRepository) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).First(&session, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *GormSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	res := r.db.WithContext(ctx).Delete(&models.Session{}, "token = ?", token)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("Session not found")
	}
	return nil
}

func (r *GormSessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&models.Session{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
