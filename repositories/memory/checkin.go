package memory

import (
	"context"
	"sort"
	"time"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/repositories"
)

type checkinRepo struct {
	s    *Store
	inTx bool
}

func (r *checkinRepo) Create(ctx context.Context, checkin *models.Checkin) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.checkins[checkin.ID]; ok {
		return errs.Conflict("Checkin already exists")
	}
	now := time.Now()
	if checkin.CreatedAt.IsZero() {
		checkin.CreatedAt = now
	}
	checkin.UpdatedAt = now
	for i := range checkin.Photos {
		checkin.Photos[i].ID = r.s.allocID()
		checkin.Photos[i].CheckinID = checkin.ID
		if checkin.Photos[i].CreatedAt.IsZero() {
			checkin.Photos[i].CreatedAt = now
		}
	}
	r.s.data.checkins[checkin.ID] = *checkin
	return nil
}

func (r *checkinRepo) FindByID(ctx context.Context, id string) (*models.Checkin, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	checkin, ok := r.s.data.checkins[id]
	if !ok {
		return nil, nil
	}
	return &checkin, nil
}

func (r *checkinRepo) Update(ctx context.Context, checkin *models.Checkin) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.checkins[checkin.ID]; !ok {
		return errs.NotFound("Checkin not found")
	}
	checkin.UpdatedAt = time.Now()
	r.s.data.checkins[checkin.ID] = *checkin
	return nil
}

func (r *checkinRepo) Delete(ctx context.Context, id string) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	if _, ok := r.s.data.checkins[id]; !ok {
		return errs.NotFound("Checkin not found")
	}
	delete(r.s.data.checkins, id)
	return nil
}

func (r *checkinRepo) List(ctx context.Context, filter repositories.CheckinFilter, page repositories.Pagination) ([]models.Checkin, int64, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	matched := []models.Checkin{}
	for _, checkin := range r.s.data.checkins {
		if filter.PlaceID != "" && checkin.PlaceID != filter.PlaceID {
			continue
		}
		if filter.UserID != "" && checkin.UserID != filter.UserID {
			continue
		}
		if len(filter.Statuses) > 0 && !checkinStatusIn(checkin.Status, filter.Statuses) {
			continue
		}
		if checkin.IsPrivate && checkin.UserID != filter.PrivateVisibleTo {
			continue
		}
		matched = append(matched, checkin)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	start, end := paginateBounds(len(matched), page)
	return matched[start:end], total, nil
}

func (r *checkinRepo) RatingStats(ctx context.Context, placeID string) (int64, float64, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	var count int64
	var sum float64
	for _, checkin := range r.s.data.checkins {
		if checkin.PlaceID != placeID || checkin.Status != models.CheckinStatusActive || checkin.Rating == nil {
			continue
		}
		count++
		sum += float64(*checkin.Rating)
	}
	if count == 0 {
		return 0, 0, nil
	}
	return count, sum / float64(count), nil
}

func checkinStatusIn(status models.CheckinStatus, statuses []models.CheckinStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
