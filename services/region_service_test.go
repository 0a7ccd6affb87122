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

func TestCreateRegion(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "alice", models.RoleVisitor, models.UserStatusActive)
	svc := services.NewRegionService(e.repos, e.tx)

	region, err := svc.CreateRegion(context.Background(), "alice", services.CreateRegionInput{
		Name:      "  Buda Hills  ",
		Latitude:  47.51,
		Longitude: 18.96,
		Tags:      models.StringSlice{"hiking"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Buda Hills", region.Name)
	assert.Equal(t, models.ContentStatusDraft, region.Status)
	assert.Equal(t, "alice", region.CreatedBy)
	assert.NotEmpty(t, region.ID)
}

func TestCreateRegionValidation(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "alice", models.RoleVisitor, models.UserStatusActive)
	e.seedUser(t, "banned", models.RoleVisitor, models.UserStatusSuspended)
	svc := services.NewRegionService(e.repos, e.tx)

	_, err := svc.CreateRegion(context.Background(), "alice", services.CreateRegionInput{Name: "   ", Latitude: 1, Longitude: 1})
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	_, err = svc.CreateRegion(context.Background(), "alice", services.CreateRegionInput{Name: "X", Latitude: 91, Longitude: 0})
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	_, err = svc.CreateRegion(context.Background(), "banned", services.CreateRegionInput{Name: "X", Latitude: 1, Longitude: 1})
	assert.True(t, errs.IsKind(err, errs.KindPermissionRequired))

	_, err = svc.CreateRegion(context.Background(), "ghost", services.CreateRegionInput{Name: "X", Latitude: 1, Longitude: 1})
	assert.True(t, errs.IsKind(err, errs.KindPermissionRequired))
}

func TestGetRegionVisibility(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "owner", models.RoleVisitor, models.UserStatusActive)
	e.seedUser(t, "stranger", models.RoleVisitor, models.UserStatusActive)
	e.seedUser(t, "admin", models.RoleAdmin, models.UserStatusActive)
	e.seedRegion(t, "draft-r", "owner", models.ContentStatusDraft)
	e.seedRegion(t, "pub-r", "owner", models.ContentStatusPublished)
	svc := services.NewRegionService(e.repos, e.tx)

	// Published is visible to everyone, anonymous included.
	for _, actor := range []string{"", "stranger", "owner", "admin"} {
		region, err := svc.GetRegion(context.Background(), actor, "pub-r")
		require.NoError(t, err)
		assert.Equal(t, "pub-r", region.ID)
	}

	// A draft reads as absent to strangers and anonymous users.
	_, err := svc.GetRegion(context.Background(), "stranger", "draft-r")
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
	_, err = svc.GetRegion(context.Background(), "", "draft-r")
	assert.True(t, errs.IsKind(err, errs.KindNotFound))

	// Owner and admin still see it.
	_, err = svc.GetRegion(context.Background(), "owner", "draft-r")
	assert.NoError(t, err)
	_, err = svc.GetRegion(context.Background(), "admin", "draft-r")
	assert.NoError(t, err)
}

func TestListRegionsHidesForeignDrafts(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "owner", models.RoleVisitor, models.UserStatusActive)
	e.seedRegion(t, "draft-r", "owner", models.ContentStatusDraft)
	e.seedRegion(t, "pub-r", "owner", models.ContentStatusPublished)
	svc := services.NewRegionService(e.repos, e.tx)

	regions, total, err := svc.ListRegions(context.Background(), "", repositories.RegionFilter{}, "", false, repositories.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, regions, 1)
	assert.Equal(t, "pub-r", regions[0].ID)

	regions, total, err = svc.ListRegions(context.Background(), "owner", repositories.RegionFilter{}, "", false, repositories.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, regions, 2)
}

func TestListRegionsRejectsUnknownSortField(t *testing.T) {
	e := newEnv(t)
	svc := services.NewRegionService(e.repos, e.tx)

	_, _, err := svc.ListRegions(context.Background(), "", repositories.RegionFilter{}, "password", true, repositories.Pagination{})
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestUpdateRegion(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "owner", models.RoleVisitor, models.UserStatusActive)
	e.seedUser(t, "stranger", models.RoleVisitor, models.UserStatusActive)
	e.seedUser(t, "admin", models.RoleAdmin, models.UserStatusActive)
	e.seedRegion(t, "r1", "owner", models.ContentStatusPublished)
	svc := services.NewRegionService(e.repos, e.tx)

	name := "Renamed"
	_, err := svc.UpdateRegion(context.Background(), "stranger", "r1", services.UpdateRegionInput{Name: &name})
	assert.True(t, errs.IsKind(err, errs.KindPermissionRequired))

	region, err := svc.UpdateRegion(context.Background(), "owner", "r1", services.UpdateRegionInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", region.Name)
	// Unset fields stay untouched.
	assert.Equal(t, 47.4979, region.Latitude)

	adminName := "Admin rename"
	region, err = svc.UpdateRegion(context.Background(), "admin", "r1", services.UpdateRegionInput{Name: &adminName})
	require.NoError(t, err)
	assert.Equal(t, "Admin rename", region.Name)

	bad := 123.0
	_, err = svc.UpdateRegion(context.Background(), "owner", "r1", services.UpdateRegionInput{Latitude: &bad})
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestDeleteRegionBlockedByPlaces(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "owner", models.RoleVisitor, models.UserStatusActive)
	e.seedRegion(t, "r1", "owner", models.ContentStatusPublished)
	e.seedPlace(t, "p1", "r1", "owner", models.ContentStatusPublished)
	svc := services.NewRegionService(e.repos, e.tx)

	err := svc.DeleteRegion(context.Background(), "owner", "r1")
	assert.True(t, errs.IsKind(err, errs.KindConflict))

	// Still there.
	region, findErr := e.repos.Regions.FindByID(context.Background(), "r1")
	require.NoError(t, findErr)
	assert.NotNil(t, region)
}

func TestDeleteEmptyRegion(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "owner", models.RoleVisitor, models.UserStatusActive)
	e.seedRegion(t, "r1", "owner", models.ContentStatusDraft)
	svc := services.NewRegionService(e.repos, e.tx)

	require.NoError(t, svc.DeleteRegion(context.Background(), "owner", "r1"))

	region, err := e.repos.Regions.FindByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Nil(t, region)
}

func TestVisitRegion(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "owner", models.RoleVisitor, models.UserStatusActive)
	e.seedRegion(t, "r1", "owner", models.ContentStatusPublished)
	svc := services.NewRegionService(e.repos, e.tx)

	require.NoError(t, svc.VisitRegion(context.Background(), "", "r1"))
	require.NoError(t, svc.VisitRegion(context.Background(), "owner", "r1"))

	assert.Equal(t, 2, e.region(t, "r1").VisitCount)
}

func TestListMyRegionsIncludesDrafts(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "owner", models.RoleVisitor, models.UserStatusActive)
	e.seedRegion(t, "draft-r", "owner", models.ContentStatusDraft)
	e.seedRegion(t, "pub-r", "owner", models.ContentStatusPublished)
	e.seedRegion(t, "foreign-r", "someone-else", models.ContentStatusPublished)
	svc := services.NewRegionService(e.repos, e.tx)

	regions, total, err := svc.ListMyRegions(context.Background(), "owner", repositories.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, regions, 2)
}
