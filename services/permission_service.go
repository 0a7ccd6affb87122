package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/repositories"
)

// PermissionService manages place sharing: email invitations, acceptance,
// capability checks, and the shared-places listing.
type PermissionService struct {
	repos *repositories.Repos
	email EmailSender
	log   *logrus.Logger
}

func NewPermissionService(repos *repositories.Repos, email EmailSender, log *logrus.Logger) *PermissionService {
	return &PermissionService{repos: repos, email: email, log: log}
}

// Invite grants edit/delete capability on a place to the user behind email.
// Only the place owner may invite; a grant already existing for the
// (user, place) pair is a CONFLICT. The invitation starts unaccepted.
func (s *PermissionService) Invite(ctx context.Context, invitedBy, placeID, email string, canEdit, canDelete bool) (permission *models.PlacePermission, err error) {
	defer recoverGuard(&err)

	place, err := s.repos.Places.FindByID(ctx, placeID)
	if err != nil {
		return nil, fetchErr("Failed to load place", err)
	}
	if place == nil {
		return nil, errs.NotFound("Place not found")
	}
	if place.CreatedBy != invitedBy {
		return nil, errs.PermissionRequired("Only the place owner can share it")
	}

	invitee, err := s.repos.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fetchErr("Failed to look up user", err)
	}
	if invitee == nil {
		return nil, errs.NotFound("No user is registered with this email")
	}
	if invitee.ID == invitedBy {
		return nil, errs.Validation("You already own this place")
	}

	existing, err := s.repos.Permissions.Find(ctx, invitee.ID, placeID)
	if err != nil {
		return nil, fetchErr("Failed to check existing permission", err)
	}
	if existing != nil {
		return nil, errs.Conflict("Permission already exists for this user and place")
	}

	permission = &models.PlacePermission{
		ID:        uuid.New().String(),
		PlaceID:   placeID,
		UserID:    invitee.ID,
		CanEdit:   canEdit,
		CanDelete: canDelete,
		InvitedBy: invitedBy,
		InvitedAt: time.Now(),
	}
	if err := s.repos.Permissions.Create(ctx, permission); err != nil {
		return nil, writeErr("Failed to create permission", err)
	}

	// The invitation email is best-effort; a delivery failure never rolls
	// back the grant.
	if s.email != nil {
		if mailErr := s.email.SendEditorInvitationEmail(invitee.Email, invitee.Name, place.Name); mailErr != nil {
			s.log.WithError(mailErr).WithField("place_id", placeID).Warn("failed to send invitation email")
		}
	}
	return permission, nil
}

// Accept marks the invitation as accepted. Accepting twice re-sets the
// timestamp; that is not an error.
func (s *PermissionService) Accept(ctx context.Context, actorID, permissionID string) (err error) {
	defer recoverGuard(&err)

	permission, err := s.repos.Permissions.FindByID(ctx, permissionID)
	if err != nil {
		return fetchErr("Failed to load permission", err)
	}
	if permission == nil {
		return errs.NotFound("Permission not found")
	}
	if permission.UserID != actorID {
		return errs.PermissionRequired("This invitation belongs to another user")
	}

	now := time.Now()
	permission.AcceptedAt = &now
	if err := s.repos.Permissions.Update(ctx, permission); err != nil {
		return writeErr("Failed to accept permission", err)
	}
	return nil
}

// Revoke deletes a grant. Only the place owner may revoke.
func (s *PermissionService) Revoke(ctx context.Context, actorID, permissionID string) (err error) {
	defer recoverGuard(&err)

	permission, err := s.repos.Permissions.FindByID(ctx, permissionID)
	if err != nil {
		return fetchErr("Failed to load permission", err)
	}
	if permission == nil {
		return errs.NotFound("Permission not found")
	}

	place, err := s.repos.Places.FindByID(ctx, permission.PlaceID)
	if err != nil {
		return fetchErr("Failed to load place", err)
	}
	if place == nil || place.CreatedBy != actorID {
		return errs.PermissionRequired("Only the place owner can revoke sharing")
	}

	if err := s.repos.Permissions.Delete(ctx, permissionID); err != nil {
		return writeErr("Failed to revoke permission", err)
	}
	return nil
}

// CheckEditPermission reports whether userID may edit the place: the creator
// always may; otherwise an accepted grant with CanEdit is required. A
// pending invitation grants nothing.
func (s *PermissionService) CheckEditPermission(ctx context.Context, placeID, userID string) (ok bool, err error) {
	defer recoverGuard(&err)
	return s.checkCapability(ctx, placeID, userID, func(p *models.PlacePermission) bool { return p.CanEdit })
}

// CheckDeletePermission is the delete-capability variant.
func (s *PermissionService) CheckDeletePermission(ctx context.Context, placeID, userID string) (ok bool, err error) {
	defer recoverGuard(&err)
	return s.checkCapability(ctx, placeID, userID, func(p *models.PlacePermission) bool { return p.CanDelete })
}

func (s *PermissionService) checkCapability(ctx context.Context, placeID, userID string, capability func(*models.PlacePermission) bool) (bool, error) {
	place, err := s.repos.Places.FindByID(ctx, placeID)
	if err != nil {
		return false, fetchErr("Failed to load place", err)
	}
	if place == nil {
		return false, errs.NotFound("Place not found")
	}
	if place.CreatedBy == userID {
		return true, nil
	}

	permission, err := s.repos.Permissions.Find(ctx, userID, placeID)
	if err != nil {
		return false, fetchErr("Failed to load permission", err)
	}
	if permission == nil || !permission.Accepted() {
		return false, nil
	}
	return capability(permission), nil
}

// ListPlacePermissions returns every grant on a place, owner-only.
func (s *PermissionService) ListPlacePermissions(ctx context.Context, actorID, placeID string) (permissions []models.PlacePermission, err error) {
	defer recoverGuard(&err)

	place, err := s.repos.Places.FindByID(ctx, placeID)
	if err != nil {
		return nil, fetchErr("Failed to load place", err)
	}
	if place == nil {
		return nil, errs.NotFound("Place not found")
	}
	if place.CreatedBy != actorID {
		return nil, errs.PermissionRequired("Only the place owner can list sharing")
	}

	permissions, err = s.repos.Permissions.ListByPlace(ctx, placeID)
	if err != nil {
		return nil, fetchErr("Failed to list permissions", err)
	}
	return permissions, nil
}

// GetSharedPlaces returns every place the user holds an accepted grant for,
// annotated with the granted capability flags.
func (s *PermissionService) GetSharedPlaces(ctx context.Context, userID string) (shared []models.SharedPlace, err error) {
	defer recoverGuard(&err)

	permissions, err := s.repos.Permissions.ListAcceptedByUser(ctx, userID)
	if err != nil {
		return nil, fetchErr("Failed to list permissions", err)
	}

	shared = make([]models.SharedPlace, 0, len(permissions))
	for _, permission := range permissions {
		place, err := s.repos.Places.FindByID(ctx, permission.PlaceID)
		if err != nil {
			return nil, fetchErr("Failed to load place", err)
		}
		if place == nil {
			continue
		}
		shared = append(shared, models.SharedPlace{
			Place:     *place,
			CanEdit:   permission.CanEdit,
			CanDelete: permission.CanDelete,
		})
	}
	return shared, nil
}
