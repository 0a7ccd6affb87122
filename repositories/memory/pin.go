package memory

import (
	"context"
	"sort"
	"time"

	"geovista-api/errs"
	"geovista-api/models"
)

type pinRepo struct {
	s    *Store
	inTx bool
}

func (r *pinRepo) Create(ctx context.Context, pin *models.RegionPin) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	key := pairKey(pin.UserID, pin.RegionID)
	if _, ok := r.s.data.pins[key]; ok {
		return errs.Conflict("Region is already pinned")
	}
	pin.ID = r.s.allocID()
	now := time.Now()
	if pin.CreatedAt.IsZero() {
		pin.CreatedAt = now
	}
	pin.UpdatedAt = now
	r.s.data.pins[key] = *pin
	return nil
}

func (r *pinRepo) Find(ctx context.Context, userID, regionID string) (*models.RegionPin, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	pin, ok := r.s.data.pins[pairKey(userID, regionID)]
	if !ok {
		return nil, nil
	}
	return &pin, nil
}

func (r *pinRepo) Delete(ctx context.Context, userID, regionID string) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	key := pairKey(userID, regionID)
	if _, ok := r.s.data.pins[key]; !ok {
		return errs.NotFound("Pin not found")
	}
	delete(r.s.data.pins, key)
	return nil
}

func (r *pinRepo) ListByUser(ctx context.Context, userID string) ([]models.RegionPin, error) {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	pins := []models.RegionPin{}
	for _, pin := range r.s.data.pins {
		if pin.UserID == userID {
			pins = append(pins, pin)
		}
	}
	sort.SliceStable(pins, func(i, j int) bool {
		return pins[i].DisplayOrder < pins[j].DisplayOrder
	})
	return pins, nil
}

func (r *pinRepo) UpdateDisplayOrder(ctx context.Context, userID, regionID string, order int) error {
	unlock := r.s.lock(r.inTx)
	defer unlock()

	key := pairKey(userID, regionID)
	pin, ok := r.s.data.pins[key]
	if !ok {
		return errs.NotFound("Pin not found")
	}
	pin.DisplayOrder = order
	pin.UpdatedAt = time.Now()
	r.s.data.pins[key] = pin
	return nil
}
