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

type placeRepo struct {
	s    *Store
	inTx bool
}

func (r *placeRepo) Create(ctx context.Context, place *models.Place) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.places[place.ID]; ok {
		return errs.Conflict("Place already exists")
	}
	if place.CreatedAt.IsZero() {
		place.CreatedAt = time.Now()
	}
	place.UpdatedAt = place.CreatedAt
	r.s.data.places[place.ID] = *place
	return nil
}

func (r *placeRepo) FindByID(ctx context.Context, id string) (*models.Place, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	place, ok := r.s.data.places[id]
	if !ok {
		return nil, nil
	}
	return &place, nil
}

func (r *placeRepo) Update(ctx context.Context, place *models.Place) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.places[place.ID]; !ok {
		return errs.NotFound("Place not found")
	}
	place.UpdatedAt = time.Now()
	r.s.data.places[place.ID] = *place
	return nil
}

func (r *placeRepo) Delete(ctx context.Context, id string) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.places[id]; !ok {
		return errs.NotFound("Place not found")
	}
	delete(r.s.data.places, id)
	return nil
}

func (r *placeRepo) List(ctx context.Context, filter repositories.PlaceFilter, sortSpec repositories.Sort, page repositories.Pagination) ([]models.Place, int64, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	matched := r.filtered(filter)
	sortPlaces(matched, sortSpec)
	total := int64(len(matched))
	start, end := paginateBounds(len(matched), page)
	return matched[start:end], total, nil
}

func (r *placeRepo) Search(ctx context.Context, filter repositories.PlaceFilter, sortSpec repositories.Sort) ([]models.Place, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	matched := r.filtered(filter)
	sortPlaces(matched, sortSpec)
	return matched, nil
}

func (r *placeRepo) AdjustCounters(ctx context.Context, id string, visitDelta, favoriteDelta, checkinDelta int) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	place, ok := r.s.data.places[id]
	if !ok {
		return errs.NotFound("Place not found")
	}
	place.VisitCount = clampZero(place.VisitCount + visitDelta)
	place.FavoriteCount = clampZero(place.FavoriteCount + favoriteDelta)
	place.CheckinCount = clampZero(place.CheckinCount + checkinDelta)
	place.UpdatedAt = time.Now()
	r.s.data.places[id] = place
	return nil
}

func (r *placeRepo) SetAverageRating(ctx context.Context, id string, rating *float64) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	place, ok := r.s.data.places[id]
	if !ok {
		return errs.NotFound("Place not found")
	}
	place.AverageRating = rating
	place.UpdatedAt = time.Now()
	r.s.data.places[id] = place
	return nil
}

func (r *placeRepo) SuggestNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	seen := make(map[string]bool)
	names := []string{}
	for _, place := range r.s.data.places {
		if place.Status != models.ContentStatusPublished {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(place.Name), strings.ToLower(prefix)) {
			continue
		}
		if seen[place.Name] {
			continue
		}
		seen[place.Name] = true
		names = append(names, place.Name)
	}
	sort.Strings(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

func (r *placeRepo) filtered(filter repositories.PlaceFilter) []models.Place {
	matched := []models.Place{}
	for _, place := range r.s.data.places {
		if !placeMatches(place, filter) {
			continue
		}
		matched = append(matched, place)
	}
	return matched
}

func placeMatches(place models.Place, filter repositories.PlaceFilter) bool {
	if filter.Keyword != "" {
		if !containsFold(place.Name, filter.Keyword) &&
			!containsFold(place.Description, filter.Keyword) &&
			!containsFold(place.Category.Label(), filter.Keyword) &&
			!tagsMatch(place.Tags, filter.Keyword) {
			return false
		}
	}
	if filter.Tag != "" && !tagsMatch(place.Tags, filter.Tag) {
		return false
	}
	if filter.Category != "" && place.Category != filter.Category {
		return false
	}
	if filter.RegionID != "" && place.RegionID != filter.RegionID {
		return false
	}
	if filter.CreatedBy != "" && place.CreatedBy != filter.CreatedBy {
		return false
	}
	if len(filter.Statuses) > 0 && !statusIn(place.Status, filter.Statuses) {
		return false
	}
	if filter.Reported != nil && place.Reported != *filter.Reported {
		return false
	}
	if filter.Visibility != nil {
		if !contentVisible(place.Status, place.CreatedBy, filter.Visibility.ActingUserID) {
			return false
		}
	}
	return true
}

func sortPlaces(places []models.Place, spec repositories.Sort) {
	sort.SliceStable(places, func(i, j int) bool {
		a, b := places[i], places[j]
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
			return !less && !placeEqualField(a, b, spec.Field)
		}
		return less
	})
}

func placeEqualField(a, b models.Place, field string) bool {
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
