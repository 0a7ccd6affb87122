package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/repositories"
)

func TestTransactorRollsBackOnError(t *testing.T) {
	store := NewStore()
	repos := store.Repos()
	ctx := context.Background()

	require.NoError(t, repos.Regions.Create(ctx, &models.Region{ID: "r1", Name: "Original", Status: models.ContentStatusPublished}))

	boom := errors.New("boom")
	err := store.Transactor().WithinTransaction(ctx, func(r *repositories.Repos) error {
		region, err := r.Regions.FindByID(ctx, "r1")
		require.NoError(t, err)
		region.Name = "Changed"
		if err := r.Regions.Update(ctx, region); err != nil {
			return err
		}
		if err := r.Regions.Create(ctx, &models.Region{ID: "r2", Name: "New"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Both the update and the insert rolled back.
	region, findErr := repos.Regions.FindByID(ctx, "r1")
	require.NoError(t, findErr)
	assert.Equal(t, "Original", region.Name)

	created, findErr := repos.Regions.FindByID(ctx, "r2")
	require.NoError(t, findErr)
	assert.Nil(t, created)
}

func TestTransactorCommits(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	err := store.Transactor().WithinTransaction(ctx, func(r *repositories.Repos) error {
		return r.Regions.Create(ctx, &models.Region{ID: "r1", Name: "Kept"})
	})
	require.NoError(t, err)

	region, err := store.Repos().Regions.FindByID(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, region)
	assert.Equal(t, "Kept", region.Name)
}

func TestAdjustCountersClampAtZero(t *testing.T) {
	store := NewStore()
	repos := store.Repos()
	ctx := context.Background()

	require.NoError(t, repos.Regions.Create(ctx, &models.Region{ID: "r1", Name: "R"}))
	require.NoError(t, repos.Regions.AdjustCounters(ctx, "r1", -5, -5, -5))

	region, err := repos.Regions.FindByID(ctx, "r1")
	require.NoError(t, err)
	assert.Zero(t, region.VisitCount)
	assert.Zero(t, region.FavoriteCount)
	assert.Zero(t, region.PlaceCount)
}

func TestFindReturnsCopies(t *testing.T) {
	store := NewStore()
	repos := store.Repos()
	ctx := context.Background()

	require.NoError(t, repos.Regions.Create(ctx, &models.Region{ID: "r1", Name: "Original"}))

	region, err := repos.Regions.FindByID(ctx, "r1")
	require.NoError(t, err)
	region.Name = "Mutated locally"

	// Mutating a returned value does not write through to the store.
	again, err := repos.Regions.FindByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Name)
}

func TestReportCreateRejectsDuplicateAtWriteTime(t *testing.T) {
	store := NewStore()
	repos := store.Repos()
	ctx := context.Background()

	first := &models.Report{
		ID:             "rep-1",
		ReporterUserID: "alice",
		EntityType:     models.ReportEntityRegion,
		EntityID:       "r1",
		Type:           models.ReportTypeSpam,
		Status:         models.ReportStatusPending,
	}
	require.NoError(t, repos.Reports.Create(ctx, first))

	// Same (reporter, entity) pair with a fresh id: the insert itself must
	// fail, so a racing second filer loses even without a prior lookup.
	second := &models.Report{
		ID:             "rep-2",
		ReporterUserID: "alice",
		EntityType:     models.ReportEntityRegion,
		EntityID:       "r1",
		Type:           models.ReportTypeHarassment,
		Status:         models.ReportStatusPending,
	}
	err := repos.Reports.Create(ctx, second)
	assert.True(t, errs.IsKind(err, errs.KindConflict))

	// A different reporter against the same entity is still fine.
	other := &models.Report{
		ID:             "rep-3",
		ReporterUserID: "bob",
		EntityType:     models.ReportEntityRegion,
		EntityID:       "r1",
		Type:           models.ReportTypeSpam,
		Status:         models.ReportStatusPending,
	}
	assert.NoError(t, repos.Reports.Create(ctx, other))
}
