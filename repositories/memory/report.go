package memory

import (
	"context"
	"sort"
	"time"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/repositories"
)

type reportRepo struct {
	s    *Store
	inTx bool
}

func (r *reportRepo) Create(ctx context.Context, report *models.Report) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	for _, existing := range r.s.data.reports {
		if existing.ReporterUserID == report.ReporterUserID &&
			existing.EntityType == report.EntityType &&
			existing.EntityID == report.EntityID {
			return errs.Conflict("You have already reported this content")
		}
	}
	now := time.Now()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now
	r.s.data.reports[report.ID] = *report
	return nil
}

func (r *reportRepo) FindByID(ctx context.Context, id string) (*models.Report, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	report, ok := r.s.data.reports[id]
	if !ok {
		return nil, nil
	}
	return &report, nil
}

func (r *reportRepo) FindByReporterAndEntity(ctx context.Context, reporterID string, entityType models.ReportEntityType, entityID string) (*models.Report, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	for _, report := range r.s.data.reports {
		if report.ReporterUserID == reporterID && report.EntityType == entityType && report.EntityID == entityID {
			rep := report
			return &rep, nil
		}
	}
	return nil, nil
}

func (r *reportRepo) Update(ctx context.Context, report *models.Report) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.reports[report.ID]; !ok {
		return errs.NotFound("Report not found")
	}
	report.UpdatedAt = time.Now()
	r.s.data.reports[report.ID] = *report
	return nil
}

func (r *reportRepo) List(ctx context.Context, filter repositories.ReportFilter, page repositories.Pagination) ([]models.Report, int64, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	matched := []models.Report{}
	for _, report := range r.s.data.reports {
		if filter.Status != "" && report.Status != filter.Status {
			continue
		}
		if filter.EntityType != "" && report.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != "" && report.EntityID != filter.EntityID {
			continue
		}
		if filter.ReporterID != "" && report.ReporterUserID != filter.ReporterID {
			continue
		}
		matched = append(matched, report)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	start, end := paginateBounds(len(matched), page)
	return matched[start:end], total, nil
}
