package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/repositories"
	"geovista-api/services"
)

func adminEnv(t *testing.T) (*env, *services.AdminService) {
	t.Helper()
	e := newEnv(t)
	e.seedUser(t, "admin", models.RoleAdmin, models.UserStatusActive)
	e.seedUser(t, "alice", models.RoleVisitor, models.UserStatusActive)
	return e, services.NewAdminService(e.repos)
}

func TestUpdateUserRole(t *testing.T) {
	e, svc := adminEnv(t)

	require.NoError(t, svc.UpdateUserRole(context.Background(), "admin", "alice", models.RoleEditor))

	alice, err := e.repos.Users.FindByID(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, models.RoleEditor, alice.Role)

	// Assigning the same role again is a no-op, not an error.
	assert.NoError(t, svc.UpdateUserRole(context.Background(), "admin", "alice", models.RoleEditor))

	err = svc.UpdateUserRole(context.Background(), "admin", "alice", "superuser")
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestAdminCheckOrder(t *testing.T) {
	e, svc := adminEnv(t)
	e.seedUser(t, "suspended-admin", models.RoleAdmin, models.UserStatusSuspended)

	// Missing actor reads as NOT_FOUND, before any permission verdict.
	err := svc.UpdateUserRole(context.Background(), "ghost", "alice", models.RoleEditor)
	assert.True(t, errs.IsKind(err, errs.KindNotFound))

	// Non-admin and inactive-admin actors are both PERMISSION_REQUIRED.
	err = svc.UpdateUserRole(context.Background(), "alice", "admin", models.RoleVisitor)
	assert.True(t, errs.IsKind(err, errs.KindPermissionRequired))
	err = svc.UpdateUserRole(context.Background(), "suspended-admin", "alice", models.RoleEditor)
	assert.True(t, errs.IsKind(err, errs.KindPermissionRequired))

	// The self-guard fires before the target lookup: even a nonsense role
	// against yourself reports CANNOT_MODIFY_SELF.
	err = svc.UpdateUserRole(context.Background(), "admin", "admin", "superuser")
	assert.True(t, errs.IsKind(err, errs.KindCannotModifySelf))
	err = svc.DeleteUser(context.Background(), "admin", "admin")
	assert.True(t, errs.IsKind(err, errs.KindCannotModifySelf))
	err = svc.UpdateUserStatus(context.Background(), "admin", "admin", models.UserStatusSuspended)
	assert.True(t, errs.IsKind(err, errs.KindCannotModifySelf))

	// Missing target is NOT_FOUND.
	err = svc.UpdateUserRole(context.Background(), "admin", "ghost", models.RoleEditor)
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestUpdateUserStatus(t *testing.T) {
	e, svc := adminEnv(t)

	require.NoError(t, svc.UpdateUserStatus(context.Background(), "admin", "alice", models.UserStatusSuspended))
	alice, err := e.repos.Users.FindByID(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusSuspended, alice.Status)

	// Deletion goes through DeleteUser, not a status write.
	err = svc.UpdateUserStatus(context.Background(), "admin", "alice", models.UserStatusDeleted)
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	require.NoError(t, svc.UpdateUserStatus(context.Background(), "admin", "alice", models.UserStatusActive))
}

func TestDeleteUserIsSoft(t *testing.T) {
	e, svc := adminEnv(t)

	require.NoError(t, svc.DeleteUser(context.Background(), "admin", "alice"))

	// The account reads as absent from lookups...
	alice, err := e.repos.Users.FindByID(context.Background(), "alice")
	require.NoError(t, err)
	assert.Nil(t, alice)

	// ...but the row survives and admin listings can still audit it.
	users, total, err := svc.ListUsers(context.Background(), "admin", repositories.UserFilter{Status: models.UserStatusDeleted}, repositories.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].ID)

	// Deleting again or reviving through a status change both read as a
	// missing target now.
	err = svc.DeleteUser(context.Background(), "admin", "alice")
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
	err = svc.UpdateUserStatus(context.Background(), "admin", "alice", models.UserStatusActive)
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestListUsers(t *testing.T) {
	_, svc := adminEnv(t)

	_, _, err := svc.ListUsers(context.Background(), "alice", repositories.UserFilter{}, repositories.Pagination{})
	assert.True(t, errs.IsKind(err, errs.KindPermissionRequired))

	users, total, err := svc.ListUsers(context.Background(), "admin", repositories.UserFilter{Role: models.RoleVisitor}, repositories.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].ID)
}
