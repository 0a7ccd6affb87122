package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/repositories"
)

// RegionService owns the region aggregate: creation, owner-gated mutation,
// visibility-aware reads, and visit tracking.
type RegionService struct {
	repos *repositories.Repos
	tx    repositories.Transactor
}

func NewRegionService(repos *repositories.Repos, tx repositories.Transactor) *RegionService {
	return &RegionService{repos: repos, tx: tx}
}

type CreateRegionInput struct {
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	ShortDescription string             `json:"short_description"`
	Latitude         float64            `json:"latitude"`
	Longitude        float64            `json:"longitude"`
	Address          string             `json:"address"`
	Images           models.StringSlice `json:"images"`
	Tags             models.StringSlice `json:"tags"`
}

// UpdateRegionInput carries partial updates; nil fields are left untouched.
// Status is deliberately absent, it only moves through ModerationService.
type UpdateRegionInput struct {
	Name             *string             `json:"name"`
	Description      *string             `json:"description"`
	ShortDescription *string             `json:"short_description"`
	Latitude         *float64            `json:"latitude"`
	Longitude        *float64            `json:"longitude"`
	Address          *string             `json:"address"`
	Images           *models.StringSlice `json:"images"`
	Tags             *models.StringSlice `json:"tags"`
}

// CreateRegion creates a new region in draft status owned by userID.
func (s *RegionService) CreateRegion(ctx context.Context, userID string, input CreateRegionInput) (region *models.Region, err error) {
	defer recoverGuard(&err)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errs.Validation("Region name is required")
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

	region = &models.Region{
		ID:               uuid.New().String(),
		Name:             name,
		Description:      input.Description,
		ShortDescription: input.ShortDescription,
		Latitude:         input.Latitude,
		Longitude:        input.Longitude,
		Address:          input.Address,
		Status:           models.ContentStatusDraft,
		CreatedBy:        userID,
		Images:           input.Images,
		Tags:             input.Tags,
	}
	if err := s.repos.Regions.Create(ctx, region); err != nil {
		return nil, writeErr("Failed to create region", err)
	}
	return region, nil
}

// GetRegion returns a region the acting user is allowed to see: published
// regions for everyone, drafts only for their owner or an admin.
func (s *RegionService) GetRegion(ctx context.Context, actingUserID, regionID string) (region *models.Region, err error) {
	defer recoverGuard(&err)

	region, err = s.repos.Regions.FindByID(ctx, regionID)
	if err != nil {
		return nil, fetchErr("Failed to load region", err)
	}
	if region == nil {
		return nil, errs.NotFound("Region not found")
	}
	if visible, err := s.visibleTo(ctx, region.Status, region.CreatedBy, actingUserID); err != nil {
		return nil, err
	} else if !visible {
		// Invisible content reads as absent, not forbidden.
		return nil, errs.NotFound("Region not found")
	}
	return region, nil
}

// ListRegions returns regions visible to the acting user with the caller's
// filter on top.
func (s *RegionService) ListRegions(ctx context.Context, actingUserID string, filter repositories.RegionFilter, sortField string, descending bool, page repositories.Pagination) (regions []models.Region, total int64, err error) {
	defer recoverGuard(&err)

	sort, err := resolveSort(sortField, descending)
	if err != nil {
		return nil, 0, err
	}
	filter.Visibility = &repositories.Visibility{ActingUserID: actingUserID}
	regions, total, err = s.repos.Regions.List(ctx, filter, sort, page.Normalize())
	if err != nil {
		return nil, 0, fetchErr("Failed to list regions", err)
	}
	return regions, total, nil
}

// ListMyRegions returns every region owned by userID regardless of status.
func (s *RegionService) ListMyRegions(ctx context.Context, userID string, page repositories.Pagination) (regions []models.Region, total int64, err error) {
	defer recoverGuard(&err)

	filter := repositories.RegionFilter{CreatedBy: userID}
	regions, total, err = s.repos.Regions.List(ctx, filter, repositories.DefaultSort(), page.Normalize())
	if err != nil {
		return nil, 0, fetchErr("Failed to list regions", err)
	}
	return regions, total, nil
}

// UpdateRegion applies a partial update. Only the owner or an admin may
// mutate a region; CreatedBy and the counters are never client-writable.
func (s *RegionService) UpdateRegion(ctx context.Context, actorID, regionID string, input UpdateRegionInput) (region *models.Region, err error) {
	defer recoverGuard(&err)

	region, err = s.repos.Regions.FindByID(ctx, regionID)
	if err != nil {
		return nil, fetchErr("Failed to load region", err)
	}
	if region == nil {
		return nil, errs.NotFound("Region not found")
	}
	if err := s.requireOwnerOrAdmin(ctx, actorID, region.CreatedBy); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, errs.Validation("Region name cannot be empty")
		}
		region.Name = name
	}
	if input.Description != nil {
		region.Description = *input.Description
	}
	if input.ShortDescription != nil {
		region.ShortDescription = *input.ShortDescription
	}
	if input.Latitude != nil {
		if !IsValidLatitude(*input.Latitude) {
			return nil, errs.Validation("Latitude is out of range")
		}
		region.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		if !IsValidLongitude(*input.Longitude) {
			return nil, errs.Validation("Longitude is out of range")
		}
		region.Longitude = *input.Longitude
	}
	if input.Images != nil {
		region.Images = *input.Images
	}
	if input.Tags != nil {
		region.Tags = *input.Tags
	}
	if input.Address != nil {
		region.Address = *input.Address
	}

	if err := s.repos.Regions.Update(ctx, region); err != nil {
		return nil, writeErr("Failed to update region", err)
	}
	return region, nil
}

// DeleteRegion removes a region. A region that still contains places cannot
// be deleted.
func (s *RegionService) DeleteRegion(ctx context.Context, actorID, regionID string) (err error) {
	defer recoverGuard(&err)

	region, err := s.repos.Regions.FindByID(ctx, regionID)
	if err != nil {
		return fetchErr("Failed to load region", err)
	}
	if region == nil {
		return errs.NotFound("Region not found")
	}
	if err := s.requireOwnerOrAdmin(ctx, actorID, region.CreatedBy); err != nil {
		return err
	}
	if region.PlaceCount > 0 {
		return errs.Conflict("Region still contains places")
	}

	if err := s.repos.Regions.Delete(ctx, regionID); err != nil {
		return writeErr("Failed to delete region", err)
	}
	return nil
}

// VisitRegion records a visit. Visits on published regions count for
// everyone; a draft only registers visits from its owner.
func (s *RegionService) VisitRegion(ctx context.Context, actingUserID, regionID string) (err error) {
	defer recoverGuard(&err)

	region, err := s.GetRegion(ctx, actingUserID, regionID)
	if err != nil {
		return err
	}
	if err := s.repos.Regions.AdjustCounters(ctx, region.ID, 1, 0, 0); err != nil {
		return writeErr("Failed to record visit", err)
	}
	return nil
}

func (s *RegionService) requireOwnerOrAdmin(ctx context.Context, actorID, ownerID string) error {
	actor, err := s.repos.Users.FindByID(ctx, actorID)
	if err != nil {
		return fetchErr("Failed to load user", err)
	}
	if actor == nil {
		return errs.NotFound("User not found")
	}
	if actor.IsActiveAdmin() {
		return nil
	}
	if actor.ID != ownerID || actor.Status != models.UserStatusActive {
		return errs.PermissionRequired("Only the owner can modify this region")
	}
	return nil
}

func (s *RegionService) visibleTo(ctx context.Context, status models.ContentStatus, ownerID, actingUserID string) (bool, error) {
	if status == models.ContentStatusPublished {
		return true, nil
	}
	if actingUserID == "" {
		return false, nil
	}
	if actingUserID == ownerID {
		return true, nil
	}
	actor, err := s.repos.Users.FindByID(ctx, actingUserID)
	if err != nil {
		return false, fetchErr("Failed to load user", err)
	}
	return actor.IsActiveAdmin(), nil
}
