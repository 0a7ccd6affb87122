package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/repositories"
)

// PlaceService owns the place aggregate. Mutations are capability-gated: the
// owner always may, invited editors may when their accepted grant carries the
// matching flag.
type PlaceService struct {
	repos       *repositories.Repos
	tx          repositories.Transactor
	permissions *PermissionService
}

func NewPlaceService(repos *repositories.Repos, tx repositories.Transactor, permissions *PermissionService) *PlaceService {
	return &PlaceService{repos: repos, tx: tx, permissions: permissions}
}

type CreatePlaceInput struct {
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Category      models.PlaceCategory `json:"category"`
	RegionID      string               `json:"region_id"`
	Latitude      float64              `json:"latitude"`
	Longitude     float64              `json:"longitude"`
	Address       string               `json:"address"`
	Phone         string               `json:"phone"`
	Website       string               `json:"website"`
	BusinessHours string               `json:"business_hours"`
	Images        models.StringSlice   `json:"images"`
	Tags          models.StringSlice   `json:"tags"`
}

// UpdatePlaceInput carries partial updates; nil fields are untouched. Status
// and RegionID move through ModerationService and MovePlace respectively.
type UpdatePlaceInput struct {
	Name          *string               `json:"name"`
	Description   *string               `json:"description"`
	Category      *models.PlaceCategory `json:"category"`
	Latitude      *float64              `json:"latitude"`
	Longitude     *float64              `json:"longitude"`
	Address       *string               `json:"address"`
	Phone         *string               `json:"phone"`
	Website       *string               `json:"website"`
	BusinessHours *string               `json:"business_hours"`
	Images        *models.StringSlice   `json:"images"`
	Tags          *models.StringSlice   `json:"tags"`
}

// CreatePlace adds a draft place to a region and bumps the region's place
// counter in the same transaction.
func (s *PlaceService) CreatePlace(ctx context.Context, userID string, input CreatePlaceInput) (place *models.Place, err error) {
	defer recoverGuard(&err)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errs.Validation("Place name is required")
	}
	if !input.Category.Valid() {
		return nil, errs.Validation("Unknown place category")
	}
	if !IsValidLatitude(input.Latitude) || !IsValidLongitude(input.Longitude) {
		return nil, errs.Validation("Coordinates are out of range")
	}

	creator, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, fetchErr("Failed to load user", err)
	}
	if creator == nil || creator.Status != models.UserStatusActive {
		return nil, errs.PermissionRequired("An active account is required")
	}

	region, err := s.repos.Regions.FindByID(ctx, input.RegionID)
	if err != nil {
		return nil, fetchErr("Failed to load region", err)
	}
	if region == nil {
		return nil, errs.NotFound("Region not found")
	}

	place = &models.Place{
		ID:            uuid.New().String(),
		Name:          name,
		Description:   input.Description,
		Category:      input.Category,
		RegionID:      region.ID,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		Address:       input.Address,
		Phone:         input.Phone,
		Website:       input.Website,
		BusinessHours: input.BusinessHours,
		Status:        models.ContentStatusDraft,
		CreatedBy:     userID,
		Images:        input.Images,
		Tags:          input.Tags,
	}

	err = s.tx.WithinTransaction(ctx, func(r *repositories.Repos) error {
		if err := r.Places.Create(ctx, place); err != nil {
			return writeErr("Failed to create place", err)
		}
		if err := r.Regions.AdjustCounters(ctx, region.ID, 0, 0, 1); err != nil {
			return writeErr("Failed to update region counters", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return place, nil
}

// GetPlace returns a place the acting user may see: published for everyone,
// drafts for the owner, accepted editors, and admins.
func (s *PlaceService) GetPlace(ctx context.Context, actingUserID, placeID string) (place *models.Place, err error) {
	defer recoverGuard(&err)

	place, err = s.repos.Places.FindByID(ctx, placeID)
	if err != nil {
		return nil, fetchErr("Failed to load place", err)
	}
	if place == nil {
		return nil, errs.NotFound("Place not found")
	}
	if place.Status == models.ContentStatusPublished {
		return place, nil
	}
	if actingUserID == "" {
		return nil, errs.NotFound("Place not found")
	}
	if actingUserID == place.CreatedBy {
		return place, nil
	}
	actor, err := s.repos.Users.FindByID(ctx, actingUserID)
	if err != nil {
		return nil, fetchErr("Failed to load user", err)
	}
	if actor.IsActiveAdmin() {
		return place, nil
	}
	grant, err := s.repos.Permissions.Find(ctx, actingUserID, placeID)
	if err != nil {
		return nil, fetchErr("Failed to check permissions", err)
	}
	if grant != nil && grant.Accepted() {
		return place, nil
	}
	return nil, errs.NotFound("Place not found")
}

// ListPlaces returns places visible to the acting user with the caller's
// filter on top.
func (s *PlaceService) ListPlaces(ctx context.Context, actingUserID string, filter repositories.PlaceFilter, sortField string, descending bool, page repositories.Pagination) (places []models.Place, total int64, err error) {
	defer recoverGuard(&err)

	sort, err := resolveSort(sortField, descending)
	if err != nil {
		return nil, 0, err
	}
	filter.Visibility = &repositories.Visibility{ActingUserID: actingUserID}
	places, total, err = s.repos.Places.List(ctx, filter, sort, page.Normalize())
	if err != nil {
		return nil, 0, fetchErr("Failed to list places", err)
	}
	return places, total, nil
}

// UpdatePlace applies a partial update, gated by edit capability.
func (s *PlaceService) UpdatePlace(ctx context.Context, actorID, placeID string, input UpdatePlaceInput) (place *models.Place, err error) {
	defer recoverGuard(&err)

	ok, err := s.permissions.CheckEditPermission(ctx, placeID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.PermissionRequired("You do not have edit access to this place")
	}

	place, err = s.repos.Places.FindByID(ctx, placeID)
	if err != nil {
		return nil, fetchErr("Failed to load place", err)
	}
	if place == nil {
		return nil, errs.NotFound("Place not found")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, errs.Validation("Place name cannot be empty")
		}
		place.Name = name
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, errs.Validation("Unknown place category")
		}
		place.Category = *input.Category
	}
	if input.Latitude != nil {
		if !IsValidLatitude(*input.Latitude) {
			return nil, errs.Validation("Latitude is out of range")
		}
		place.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		if !IsValidLongitude(*input.Longitude) {
			return nil, errs.Validation("Longitude is out of range")
		}
		place.Longitude = *input.Longitude
	}
	if input.Description != nil {
		place.Description = *input.Description
	}
	if input.Address != nil {
		place.Address = *input.Address
	}
	if input.Phone != nil {
		place.Phone = *input.Phone
	}
	if input.Website != nil {
		place.Website = *input.Website
	}
	if input.BusinessHours != nil {
		place.BusinessHours = *input.BusinessHours
	}
	if input.Images != nil {
		place.Images = *input.Images
	}
	if input.Tags != nil {
		place.Tags = *input.Tags
	}

	if err := s.repos.Places.Update(ctx, place); err != nil {
		return nil, writeErr("Failed to update place", err)
	}
	return place, nil
}

// DeletePlace removes a place and decrements its region's place counter in
// one transaction. Gated by delete capability.
func (s *PlaceService) DeletePlace(ctx context.Context, actorID, placeID string) (err error) {
	defer recoverGuard(&err)

	ok, err := s.permissions.CheckDeletePermission(ctx, placeID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.PermissionRequired("You do not have delete access to this place")
	}

	place, err := s.repos.Places.FindByID(ctx, placeID)
	if err != nil {
		return fetchErr("Failed to load place", err)
	}
	if place == nil {
		return errs.NotFound("Place not found")
	}

	return s.tx.WithinTransaction(ctx, func(r *repositories.Repos) error {
		if err := r.Places.Delete(ctx, placeID); err != nil {
			return writeErr("Failed to delete place", err)
		}
		if err := r.Regions.AdjustCounters(ctx, place.RegionID, 0, 0, -1); err != nil {
			return writeErr("Failed to update region counters", err)
		}
		return nil
	})
}

// MovePlace reassigns a place to another region. The place row and both
// region counters change in a single transaction so no interleaving can
// observe the place counted twice or not at all.
func (s *PlaceService) MovePlace(ctx context.Context, actorID, placeID, targetRegionID string) (err error) {
	defer recoverGuard(&err)

	ok, err := s.permissions.CheckEditPermission(ctx, placeID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.PermissionRequired("You do not have edit access to this place")
	}

	place, err := s.repos.Places.FindByID(ctx, placeID)
	if err != nil {
		return fetchErr("Failed to load place", err)
	}
	if place == nil {
		return errs.NotFound("Place not found")
	}
	if place.RegionID == targetRegionID {
		return errs.Validation("Place is already in this region")
	}

	target, err := s.repos.Regions.FindByID(ctx, targetRegionID)
	if err != nil {
		return fetchErr("Failed to load region", err)
	}
	if target == nil {
		return errs.NotFound("Target region not found")
	}

	sourceRegionID := place.RegionID
	return s.tx.WithinTransaction(ctx, func(r *repositories.Repos) error {
		place.RegionID = targetRegionID
		if err := r.Places.Update(ctx, place); err != nil {
			return writeErr("Failed to move place", err)
		}
		if err := r.Regions.AdjustCounters(ctx, sourceRegionID, 0, 0, -1); err != nil {
			return writeErr("Failed to update source region counters", err)
		}
		if err := r.Regions.AdjustCounters(ctx, targetRegionID, 0, 0, 1); err != nil {
			return writeErr("Failed to update target region counters", err)
		}
		return nil
	})
}

// VisitPlace records a visit on a place the acting user can see.
func (s *PlaceService) VisitPlace(ctx context.Context, actingUserID, placeID string) (err error) {
	defer recoverGuard(&err)

	place, err := s.GetPlace(ctx, actingUserID, placeID)
	if err != nil {
		return err
	}
	if err := s.repos.Places.AdjustCounters(ctx, place.ID, 1, 0, 0); err != nil {
		return writeErr("Failed to record visit", err)
	}
	return nil
}
