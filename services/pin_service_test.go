package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/services"
)

func pinAll(t *testing.T, e *env, svc *services.PinService, userID string, regionIDs ...string) {
	t.Helper()
	for _, id := range regionIDs {
		e.seedRegion(t, id, userID, models.ContentStatusPublished)
		_, err := svc.PinRegion(context.Background(), userID, id)
		require.NoError(t, err)
	}
}

func pinnedOrder(t *testing.T, svc *services.PinService, userID string) []string {
	t.Helper()
	pinned, err := svc.ListPinnedRegions(context.Background(), userID)
	require.NoError(t, err)
	ids := make([]string, len(pinned))
	for i, p := range pinned {
		assert.Equal(t, i, p.DisplayOrder)
		ids[i] = p.ID
	}
	return ids
}

func TestPinRegionAppends(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "alice", models.RoleVisitor, models.UserStatusActive)
	svc := services.NewPinService(e.repos, e.tx)

	pinAll(t, e, svc, "alice", "r1", "r2", "r3")
	assert.Equal(t, []string{"r1", "r2", "r3"}, pinnedOrder(t, svc, "alice"))

	// Double pin is a conflict, missing region NOT_FOUND.
	_, err := svc.PinRegion(context.Background(), "alice", "r2")
	assert.True(t, errs.IsKind(err, errs.KindConflict))
	_, err = svc.PinRegion(context.Background(), "alice", "ghost")
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestUnpinCompactsOrder(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "alice", models.RoleVisitor, models.UserStatusActive)
	svc := services.NewPinService(e.repos, e.tx)

	pinAll(t, e, svc, "alice", "r1", "r2", "r3")
	require.NoError(t, svc.UnpinRegion(context.Background(), "alice", "r2"))

	// No gap remains: r3 moves down to order 1.
	assert.Equal(t, []string{"r1", "r3"}, pinnedOrder(t, svc, "alice"))

	err := svc.UnpinRegion(context.Background(), "alice", "r2")
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestReorderPins(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "alice", models.RoleVisitor, models.UserStatusActive)
	svc := services.NewPinService(e.repos, e.tx)
	pinAll(t, e, svc, "alice", "r1", "r2", "r3", "r4")

	require.NoError(t, svc.Reorder(context.Background(), "alice", []string{"r4", "r1", "r3", "r2"}))
	assert.Equal(t, []string{"r4", "r1", "r3", "r2"}, pinnedOrder(t, svc, "alice"))
}

func TestReorderPartialListKeepsRelativeOrder(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "alice", models.RoleVisitor, models.UserStatusActive)
	svc := services.NewPinService(e.repos, e.tx)
	pinAll(t, e, svc, "alice", "r1", "r2", "r3", "r4")

	// Mentioned pins lead; the rest follow in their previous relative order.
	require.NoError(t, svc.Reorder(context.Background(), "alice", []string{"r3"}))
	assert.Equal(t, []string{"r3", "r1", "r2", "r4"}, pinnedOrder(t, svc, "alice"))
}

func TestReorderValidation(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "alice", models.RoleVisitor, models.UserStatusActive)
	svc := services.NewPinService(e.repos, e.tx)
	pinAll(t, e, svc, "alice", "r1", "r2")

	err := svc.Reorder(context.Background(), "alice", nil)
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	err = svc.Reorder(context.Background(), "alice", []string{"r1", "r1"})
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	err = svc.Reorder(context.Background(), "alice", []string{"r1", "never-pinned"})
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	// The failed reorder left the original order intact.
	assert.Equal(t, []string{"r1", "r2"}, pinnedOrder(t, svc, "alice"))
}
