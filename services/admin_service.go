package services

import (
	"context"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/repositories"
)

// AdminService covers admin-only user management.
type AdminService struct {
	repos *repositories.Repos
}

func NewAdminService(repos *repositories.Repos) *AdminService {
	return &AdminService{repos: repos}
}

// authorizeAdmin loads the actor and verifies it is an active admin. The
// check order matters: a missing actor is NOT_FOUND, a non-admin actor is
// PERMISSION_REQUIRED, a suspended admin is PERMISSION_REQUIRED.
func authorizeAdmin(ctx context.Context, users repositories.UserRepository, actorID string) (*models.User, error) {
	actor, err := users.FindByID(ctx, actorID)
	if err != nil {
		return nil, fetchErr("Failed to load user", err)
	}
	if actor == nil {
		return nil, errs.NotFound("User not found")
	}
	if actor.Role != models.RoleAdmin {
		return nil, errs.PermissionRequired("Admin access required")
	}
	if actor.Status != models.UserStatusActive {
		return nil, errs.PermissionRequired("Account is not active")
	}
	return actor, nil
}

// loadTarget resolves the target user after the actor and self-guard checks
// have passed.
func (s *AdminService) loadTarget(ctx context.Context, targetID string) (*models.User, error) {
	target, err := s.repos.Users.FindByID(ctx, targetID)
	if err != nil {
		return nil, fetchErr("Failed to load user", err)
	}
	if target == nil {
		return nil, errs.NotFound("User not found")
	}
	return target, nil
}

// UpdateUserRole changes another user's role. Admins cannot change their own
// role.
func (s *AdminService) UpdateUserRole(ctx context.Context, actorID, targetID string, role models.UserRole) (err error) {
	defer recoverGuard(&err)

	if _, err := authorizeAdmin(ctx, s.repos.Users, actorID); err != nil {
		return err
	}
	if actorID == targetID {
		return errs.CannotModifySelf("You cannot change your own role")
	}
	target, err := s.loadTarget(ctx, targetID)
	if err != nil {
		return err
	}
	if !role.Valid() {
		return errs.Validation("Unknown role")
	}
	if target.Role == role {
		return nil
	}

	target.Role = role
	if err := s.repos.Users.Update(ctx, target); err != nil {
		return writeErr("Failed to update user", err)
	}
	return nil
}

// UpdateUserStatus suspends or reactivates another user. Admins cannot
// change their own status, and a deleted account cannot be revived here.
func (s *AdminService) UpdateUserStatus(ctx context.Context, actorID, targetID string, status models.UserStatus) (err error) {
	defer recoverGuard(&err)

	if _, err := authorizeAdmin(ctx, s.repos.Users, actorID); err != nil {
		return err
	}
	if actorID == targetID {
		return errs.CannotModifySelf("You cannot change your own status")
	}
	target, err := s.loadTarget(ctx, targetID)
	if err != nil {
		return err
	}
	if !status.Valid() {
		return errs.Validation("Unknown status")
	}
	if status == models.UserStatusDeleted {
		return errs.Validation("Use the delete operation to remove an account")
	}

	target.Status = status
	if err := s.repos.Users.Update(ctx, target); err != nil {
		return writeErr("Failed to update user", err)
	}
	return nil
}

// DeleteUser performs a soft delete by marking the account deleted. The
// account then reads as absent from every single-entity lookup; only admin
// listings still surface it. Admins cannot delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, targetID string) (err error) {
	defer recoverGuard(&err)

	if _, err := authorizeAdmin(ctx, s.repos.Users, actorID); err != nil {
		return err
	}
	if actorID == targetID {
		return errs.CannotModifySelf("You cannot delete your own account")
	}
	target, err := s.loadTarget(ctx, targetID)
	if err != nil {
		return err
	}

	target.Status = models.UserStatusDeleted
	if err := s.repos.Users.Update(ctx, target); err != nil {
		return writeErr("Failed to delete user", err)
	}
	return nil
}

// ListUsers returns accounts for the admin panel.
func (s *AdminService) ListUsers(ctx context.Context, actorID string, filter repositories.UserFilter, page repositories.Pagination) (users []models.User, total int64, err error) {
	defer recoverGuard(&err)

	if _, err := authorizeAdmin(ctx, s.repos.Users, actorID); err != nil {
		return nil, 0, err
	}
	users, total, err = s.repos.Users.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fetchErr("Failed to list users", err)
	}
	return users, total, nil
}
