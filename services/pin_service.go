package services

import (
	"context"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/repositories"
)

// PinnedRegion is a region joined with its position on the user's pin list.
type PinnedRegion struct {
	models.Region
	DisplayOrder int `json:"display_order"`
}

// PinService maintains the per-user pinned-region list. Display orders for
// one user always form a dense zero-based sequence.
type PinService struct {
	repos *repositories.Repos
	tx    repositories.Transactor
}

func NewPinService(repos *repositories.Repos, tx repositories.Transactor) *PinService {
	return &PinService{repos: repos, tx: tx}
}

// PinRegion appends the region at the end of the user's list:
// max(existing order) + 1, or 0 when the list is empty.
func (s *PinService) PinRegion(ctx context.Context, userID, regionID string) (pin *models.RegionPin, err error) {
	defer recoverGuard(&err)

	region, err := s.repos.Regions.FindByID(ctx, regionID)
	if err != nil {
		return nil, fetchErr("Failed to load region", err)
	}
	if region == nil {
		return nil, errs.NotFound("Region not found")
	}

	existing, err := s.repos.Pins.Find(ctx, userID, regionID)
	if err != nil {
		return nil, fetchErr("Failed to check pin", err)
	}
	if existing != nil {
		return nil, errs.Conflict("Region is already pinned")
	}

	pins, err := s.repos.Pins.ListByUser(ctx, userID)
	if err != nil {
		return nil, fetchErr("Failed to list pins", err)
	}
	next := 0
	if len(pins) > 0 {
		next = pins[len(pins)-1].DisplayOrder + 1
	}

	pin = &models.RegionPin{UserID: userID, RegionID: regionID, DisplayOrder: next}
	if err := s.repos.Pins.Create(ctx, pin); err != nil {
		return nil, writeErr("Failed to pin region", err)
	}
	return pin, nil
}

// UnpinRegion removes the pin and re-packs the remaining orders so the
// sequence stays dense.
func (s *PinService) UnpinRegion(ctx context.Context, userID, regionID string) (err error) {
	defer recoverGuard(&err)

	return s.tx.WithinTransaction(ctx, func(r *repositories.Repos) error {
		if err := r.Pins.Delete(ctx, userID, regionID); err != nil {
			return writeErr("Failed to unpin region", err)
		}
		pins, err := r.Pins.ListByUser(ctx, userID)
		if err != nil {
			return fetchErr("Failed to list pins", err)
		}
		for i, pin := range pins {
			if pin.DisplayOrder == i {
				continue
			}
			if err := r.Pins.UpdateDisplayOrder(ctx, userID, pin.RegionID, i); err != nil {
				return writeErr("Failed to compact pin order", err)
			}
		}
		return nil
	})
}

// ListPinnedRegions returns the user's pinned regions in display order.
func (s *PinService) ListPinnedRegions(ctx context.Context, userID string) (result []PinnedRegion, err error) {
	defer recoverGuard(&err)

	pins, err := s.repos.Pins.ListByUser(ctx, userID)
	if err != nil {
		return nil, fetchErr("Failed to list pins", err)
	}

	result = make([]PinnedRegion, 0, len(pins))
	for _, pin := range pins {
		region, err := s.repos.Regions.FindByID(ctx, pin.RegionID)
		if err != nil {
			return nil, fetchErr("Failed to load region", err)
		}
		if region == nil {
			continue
		}
		result = append(result, PinnedRegion{Region: *region, DisplayOrder: pin.DisplayOrder})
	}
	return result, nil
}

// Reorder assigns displayOrder = index for each id in orderedRegionIDs as a
// single transaction. Pins not mentioned keep their relative order and are
// re-packed after the mentioned ones, so the result is always exactly
// 0..n-1 with no gaps or duplicates.
func (s *PinService) Reorder(ctx context.Context, userID string, orderedRegionIDs []string) (err error) {
	defer recoverGuard(&err)

	if len(orderedRegionIDs) == 0 {
		return errs.Validation("At least one region id is required")
	}
	seen := make(map[string]bool, len(orderedRegionIDs))
	for _, id := range orderedRegionIDs {
		if seen[id] {
			return errs.Validation("Duplicate region id in order list")
		}
		seen[id] = true
	}

	return s.tx.WithinTransaction(ctx, func(r *repositories.Repos) error {
		pins, err := r.Pins.ListByUser(ctx, userID)
		if err != nil {
			return fetchErr("Failed to list pins", err)
		}
		pinned := make(map[string]bool, len(pins))
		for _, pin := range pins {
			pinned[pin.RegionID] = true
		}
		for _, id := range orderedRegionIDs {
			if !pinned[id] {
				return errs.Validation("Region is not pinned: " + id)
			}
		}

		order := 0
		for _, id := range orderedRegionIDs {
			if err := r.Pins.UpdateDisplayOrder(ctx, userID, id, order); err != nil {
				return writeErr("Failed to reorder pins", err)
			}
			order++
		}
		// Unmentioned pins follow, keeping their previous relative order.
		for _, pin := range pins {
			if seen[pin.RegionID] {
				continue
			}
			if err := r.Pins.UpdateDisplayOrder(ctx, userID, pin.RegionID, order); err != nil {
				return writeErr("Failed to reorder pins", err)
			}
			order++
		}
		return nil
	})
}
