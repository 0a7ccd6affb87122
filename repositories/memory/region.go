package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/repositories"
)

type regionRepo struct {
	s    *Store
	inTx bool
}

func (r *regionRepo) Create(ctx context.Context, region *models.Region) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.regions[region.ID]; ok {
		return errs.Conflict("Region already exists")
	}
	if region.CreatedAt.IsZero() {
		region.CreatedAt = time.Now()
	}
	region.UpdatedAt = region.CreatedAt
	r.s.data.regions[region.ID] = *region
	return nil
}

func (r *regionRepo) FindByID(ctx context.Context, id string) (*models.Region, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	region, ok := r.s.data.regions[id]
	if !ok {
		return nil, nil
	}
	return &region, nil
}

func (r *regionRepo) Update(ctx context.Context, region *models.Region) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.regions[region.ID]; !ok {
		return errs.NotFound("Region not found")
	}
	region.UpdatedAt = time.Now()
	r.s.data.regions[region.ID] = *region
	return nil
}

func (r *regionRepo) Delete(ctx context.Context, id string) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.regions[id]; !ok {
		return errs.NotFound("Region not found")
	}
	delete(r.s.data.regions, id)
	return nil
}

func (r *regionRepo) List(ctx context.Context, filter repositories.RegionFilter, sortSpec repositories.Sort, page repositories.Pagination) ([]models.Region, int64, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	matched := r.filtered(filter)
	sortRegions(matched, sortSpec)
	total := int64(len(matched))
	start, end := paginateBounds(len(matched), page)
	return matched[start:end], total, nil
}

func (r *regionRepo) Search(ctx context.Context, filter repositories.RegionFilter, sortSpec repositories.Sort) ([]models.Region, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	matched := r.filtered(filter)
	sortRegions(matched, sortSpec)
	return matched, nil
}

func (r *regionRepo) AdjustCounters(ctx context.Context, id string, visitDelta, favoriteDelta, placeDelta int) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	region, ok := r.s.data.regions[id]
	if !ok {
		return errs.NotFound("Region not found")
	}
	region.VisitCount = clampZero(region.VisitCount + visitDelta)
	region.FavoriteCount = clampZero(region.FavoriteCount + favoriteDelta)
	region.PlaceCount = clampZero(region.PlaceCount + placeDelta)
	region.UpdatedAt = time.Now()
	r.s.data.regions[id] = region
	return nil
}

func (r *regionRepo) SuggestNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	seen := make(map[string]bool)
	names := []string{}
	for _, region := range r.s.data.regions {
		if region.Status != models.ContentStatusPublished {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(region.Name), strings.ToLower(prefix)) {
			continue
		}
		if seen[region.Name] {
			continue
		}
		seen[region.Name] = true
		names = append(names, region.Name)
	}
	sort.Strings(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

func (r *regionRepo) filtered(filter repositories.RegionFilter) []models.Region {
	matched := []models.Region{}
	for _, region := range r.s.data.regions {
		if !regionMatches(region, filter) {
			continue
		}
		matched = append(matched, region)
	}
	return matched
}

func regionMatches(region models.Region, filter repositories.RegionFilter) bool {
	if filter.Keyword != "" {
		if !containsFold(region.Name, filter.Keyword) &&
			!containsFold(region.Description, filter.Keyword) &&
			!tagsMatch(region.Tags, filter.Keyword) {
			return false
		}
	}
	if filter.Tag != "" && !tagsMatch(region.Tags, filter.Tag) {
		return false
	}
	if filter.CreatedBy != "" && region.CreatedBy != filter.CreatedBy {
		return false
	}
	if len(filter.Statuses) > 0 && !statusIn(region.Status, filter.Statuses) {
		return false
	}
	if filter.Reported != nil && region.Reported != *filter.Reported {
		return false
	}
	if filter.Visibility != nil {
		if !contentVisible(region.Status, region.CreatedBy, filter.Visibility.ActingUserID) {
			return false
		}
	}
	return true
}

func sortRegions(regions []models.Region, spec repositories.Sort) {
	sort.SliceStable(regions, func(i, j int) bool {
		a, b := regions[i], regions[j]
		var less bool
		switch spec.Field {
		case "name":
			less = a.Name < b.Name
		case "updated_at":
			less = a.UpdatedAt.Before(b.UpdatedAt)
		case "visit_count":
			less = a.VisitCount < b.VisitCount
		case "favorite_count":
			less = a.FavoriteCount < b.FavoriteCount
		default:
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if spec.Descending {
			return !less && !regionEqualField(a, b, spec.Field)
		}
		return less
	})
}

func regionEqualField(a, b models.Region, field string) bool {
	switch field {
	case "name":
		return a.Name == b.Name
	case "updated_at":
		return a.UpdatedAt.Equal(b.UpdatedAt)
	case "visit_count":
		return a.VisitCount == b.VisitCount
	case "favorite_count":
		return a.FavoriteCount == b.FavoriteCount
	default:
		return a.CreatedAt.Equal(b.CreatedAt)
	}
}

func tagsMatch(tags models.StringSlice, keyword string) bool {
	for _, tag := range tags {
		if containsFold(tag, keyword) {
			return true
		}
	}
	return false
}

func statusIn(status models.ContentStatus, statuses []models.ContentStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// contentVisible applies the anonymous/owner visibility rule shared by
// regions and places.
func contentVisible(status models.ContentStatus, createdBy, actingUserID string) bool {
	if status == models.ContentStatusPublished {
		return true
	}
	return actingUserID != "" && status == models.ContentStatusDraft && createdBy == actingUserID
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
