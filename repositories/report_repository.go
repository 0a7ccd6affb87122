package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"geovista-api/errs"
	"geovista-api/models"
)

type GormReportRepository struct {
	db *gorm.DB
}

func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

func (r *GormReportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		if isDuplicate(err) {
			return errs.Conflict("You have already reported this content")
		}
		return err
	}
	return nil
}

func (r *GormReportRepository) FindByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *GormReportRepository) FindByReporterAndEntity(ctx context.Context, reporterID string, entityType models.ReportEntityType, entityID string) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Where("reporter_user_id = ? AND entity_type = ? AND entity_id = ?", reporterID, entityType, entityID).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *GormReportRepository) Update(ctx context.Context, report *models.Report) error {
	existing, err := r.FindByID(ctx, report.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return errs.NotFound("Report not found")
	}
	return r.db.WithContext(ctx).Save(report).Error
}

func (r *GormReportRepository) List(ctx context.Context, filter ReportFilter, page Pagination) ([]models.Report, int64, error) {
	page = page.Normalize()
	q := r.db.WithContext(ctx).Model(&models.Report{})

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		q = q.Where("entity_id = ?", filter.EntityID)
	}
	if filter.ReporterID != "" {
		q = q.Where("reporter_user_id = ?", filter.ReporterID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	reports := make([]models.Report, 0, page.Limit)
	err := q.Order("created_at DESC").Offset(page.Offset()).Limit(page.Limit).Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}
