package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/repositories"
)

// ModerationService owns the report lifecycle and the region/place content
// status state machine.
type ModerationService struct {
	repos *repositories.Repos
	tx    repositories.Transactor
}

func NewModerationService(repos *repositories.Repos, tx repositories.Transactor) *ModerationService {
	return &ModerationService{repos: repos, tx: tx}
}

type CreateReportInput struct {
	EntityType models.ReportEntityType `json:"entity_type"`
	EntityID   string                  `json:"entity_id"`
	Type       models.ReportType       `json:"type"`
	Reason     string                  `json:"reason"`
}

// CreateReport files a report and flags the target content as reported. The
// same reporter cannot file twice against one entity.
func (s *ModerationService) CreateReport(ctx context.Context, reporterID string, input CreateReportInput) (report *models.Report, err error) {
	defer recoverGuard(&err)

	if !input.EntityType.Valid() {
		return nil, errs.Validation("Unknown entity type")
	}
	if !input.Type.Valid() {
		return nil, errs.Validation("Unknown report type")
	}
	if input.EntityID == "" {
		return nil, errs.Validation("Entity id is required")
	}

	reporter, err := s.repos.Users.FindByID(ctx, reporterID)
	if err != nil {
		return nil, fetchErr("Failed to load user", err)
	}
	if reporter == nil || reporter.Status != models.UserStatusActive {
		return nil, errs.PermissionRequired("An active account is required to report content")
	}

	if err := s.entityExists(ctx, input.EntityType, input.EntityID); err != nil {
		return nil, err
	}

	existing, err := s.repos.Reports.FindByReporterAndEntity(ctx, reporterID, input.EntityType, input.EntityID)
	if err != nil {
		return nil, fetchErr("Failed to check existing report", err)
	}
	if existing != nil {
		return nil, errs.Conflict("You have already reported this content")
	}

	report = &models.Report{
		ID:             uuid.New().String(),
		ReporterUserID: reporterID,
		EntityType:     input.EntityType,
		EntityID:       input.EntityID,
		Type:           input.Type,
		Reason:         input.Reason,
		Status:         models.ReportStatusPending,
	}

	err = s.tx.WithinTransaction(ctx, func(r *repositories.Repos) error {
		if err := r.Reports.Create(ctx, report); err != nil {
			return writeErr("Failed to create report", err)
		}
		// The reported marker is informational; it never blocks other
		// status transitions but is surfaced in listings.
		return s.markReported(ctx, r, input.EntityType, input.EntityID)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ModerationService) entityExists(ctx context.Context, entityType models.ReportEntityType, entityID string) error {
	switch entityType {
	case models.ReportEntityRegion:
		region, err := s.repos.Regions.FindByID(ctx, entityID)
		if err != nil {
			return fetchErr("Failed to load region", err)
		}
		if region == nil {
			return errs.NotFound("Region not found")
		}
	case models.ReportEntityPlace:
		place, err := s.repos.Places.FindByID(ctx, entityID)
		if err != nil {
			return fetchErr("Failed to load place", err)
		}
		if place == nil {
			return errs.NotFound("Place not found")
		}
	case models.ReportEntityCheckin:
		checkin, err := s.repos.Checkins.FindByID(ctx, entityID)
		if err != nil {
			return fetchErr("Failed to load checkin", err)
		}
		if checkin == nil {
			return errs.NotFound("Checkin not found")
		}
	case models.ReportEntityUser:
		user, err := s.repos.Users.FindByID(ctx, entityID)
		if err != nil {
			return fetchErr("Failed to load user", err)
		}
		if user == nil {
			return errs.NotFound("User not found")
		}
	}
	return nil
}

func (s *ModerationService) markReported(ctx context.Context, r *repositories.Repos, entityType models.ReportEntityType, entityID string) error {
	switch entityType {
	case models.ReportEntityRegion:
		region, err := r.Regions.FindByID(ctx, entityID)
		if err != nil {
			return fetchErr("Failed to load region", err)
		}
		if region == nil {
			return errs.NotFound("Region not found")
		}
		if !region.Reported {
			region.Reported = true
			if err := r.Regions.Update(ctx, region); err != nil {
				return writeErr("Failed to flag region", err)
			}
		}
	case models.ReportEntityPlace:
		place, err := r.Places.FindByID(ctx, entityID)
		if err != nil {
			return fetchErr("Failed to load place", err)
		}
		if place == nil {
			return errs.NotFound("Place not found")
		}
		if !place.Reported {
			place.Reported = true
			if err := r.Places.Update(ctx, place); err != nil {
				return writeErr("Failed to flag place", err)
			}
		}
	}
	return nil
}

// UpdateReportStatus moves a report through pending → under_review →
// resolved|dismissed. Terminal states are never exited. Admin-gated.
func (s *ModerationService) UpdateReportStatus(ctx context.Context, actorID, reportID string, newStatus models.ReportStatus, notes string) (report *models.Report, err error) {
	defer recoverGuard(&err)

	if _, err := authorizeAdmin(ctx, s.repos.Users, actorID); err != nil {
		return nil, err
	}
	if !newStatus.Valid() {
		return nil, errs.Validation("Unknown report status")
	}

	report, err = s.repos.Reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, fetchErr("Failed to load report", err)
	}
	if report == nil {
		return nil, errs.NotFound("Report not found")
	}

	if err := validateReportTransition(report.Status, newStatus); err != nil {
		return nil, err
	}

	now := time.Now()
	report.Status = newStatus
	report.ReviewedBy = &actorID
	report.ReviewedAt = &now
	if notes != "" {
		report.ReviewNotes = notes
	}
	if err := s.repos.Reports.Update(ctx, report); err != nil {
		return nil, writeErr("Failed to update report", err)
	}
	return report, nil
}

func validateReportTransition(current, next models.ReportStatus) error {
	if current.Terminal() {
		return errs.Validation("Report is already closed")
	}
	switch current {
	case models.ReportStatusPending:
		if next != models.ReportStatusUnderReview {
			return errs.Validation("A pending report can only move to under_review")
		}
	case models.ReportStatusUnderReview:
		if next != models.ReportStatusResolved && next != models.ReportStatusDismissed {
			return errs.Validation("A report under review can only be resolved or dismissed")
		}
	}
	return nil
}

// ListReports returns the moderation queue. Admin-gated.
func (s *ModerationService) ListReports(ctx context.Context, actorID string, filter repositories.ReportFilter, page repositories.Pagination) (reports []models.Report, total int64, err error) {
	defer recoverGuard(&err)

	if _, err := authorizeAdmin(ctx, s.repos.Users, actorID); err != nil {
		return nil, 0, err
	}
	reports, total, err = s.repos.Reports.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fetchErr("Failed to list reports", err)
	}
	return reports, total, nil
}

// UpdateRegionStatus applies the content state machine to a region.
func (s *ModerationService) UpdateRegionStatus(ctx context.Context, actorID, regionID string, newStatus models.ContentStatus) (err error) {
	defer recoverGuard(&err)

	region, err := s.repos.Regions.FindByID(ctx, regionID)
	if err != nil {
		return fetchErr("Failed to load region", err)
	}
	if region == nil {
		return errs.NotFound("Region not found")
	}

	if err := s.authorizeContentTransition(ctx, actorID, region.CreatedBy, region.Status, newStatus); err != nil {
		return err
	}

	region.Status = newStatus
	if err := s.repos.Regions.Update(ctx, region); err != nil {
		return writeErr("Failed to update region status", err)
	}
	return nil
}

// UpdatePlaceStatus applies the content state machine to a place.
func (s *ModerationService) UpdatePlaceStatus(ctx context.Context, actorID, placeID string, newStatus models.ContentStatus) (err error) {
	defer recoverGuard(&err)

	place, err := s.repos.Places.FindByID(ctx, placeID)
	if err != nil {
		return fetchErr("Failed to load place", err)
	}
	if place == nil {
		return errs.NotFound("Place not found")
	}

	if err := s.authorizeContentTransition(ctx, actorID, place.CreatedBy, place.Status, newStatus); err != nil {
		return err
	}

	place.Status = newStatus
	if err := s.repos.Places.Update(ctx, place); err != nil {
		return writeErr("Failed to update place status", err)
	}
	return nil
}

// authorizeContentTransition enforces draft → published → archived, with an
// admin-only side channel to rejected from any non-terminal state. First
// publish (draft → published) is the one transition the content owner may
// perform without the admin role.
func (s *ModerationService) authorizeContentTransition(ctx context.Context, actorID, ownerID string, current, next models.ContentStatus) error {
	if !next.Valid() {
		return errs.Validation("Unknown content status")
	}
	if current.Terminal() {
		return errs.Validation("Content is in a terminal state")
	}

	actor, err := s.repos.Users.FindByID(ctx, actorID)
	if err != nil {
		return fetchErr("Failed to load user", err)
	}
	isAdmin := actor.IsActiveAdmin()
	isOwner := actor != nil && actor.ID == ownerID && actor.Status == models.UserStatusActive

	switch next {
	case models.ContentStatusPublished:
		if current != models.ContentStatusDraft {
			return errs.Validation("Only draft content can be published")
		}
		if !isAdmin && !isOwner {
			return errs.PermissionRequired("Only the owner or an admin can publish")
		}
	case models.ContentStatusArchived:
		if current != models.ContentStatusPublished {
			return errs.Validation("Only published content can be archived")
		}
		if !isAdmin {
			return errs.PermissionRequired("Admin access required")
		}
	case models.ContentStatusRejected:
		if !isAdmin {
			return errs.PermissionRequired("Admin access required")
		}
	case models.ContentStatusDraft:
		return errs.Validation("Content cannot return to draft")
	}
	return nil
}
