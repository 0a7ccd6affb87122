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

func checkinEnv(t *testing.T) (*env, *services.CheckinService) {
	t.Helper()
	e := newEnv(t)
	e.seedUser(t, "alice", models.RoleVisitor, models.UserStatusActive)
	e.seedUser(t, "bob", models.RoleVisitor, models.UserStatusActive)
	e.seedUser(t, "admin", models.RoleAdmin, models.UserStatusActive)
	e.seedRegion(t, "r1", "alice", models.ContentStatusPublished)
	e.seedPlace(t, "p1", "r1", "alice", models.ContentStatusPublished)
	return e, services.NewCheckinService(e.repos, e.tx, services.NewLocationService())
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestCreateCheckin(t *testing.T) {
	e, svc := checkinEnv(t)

	checkin, err := svc.CreateCheckin(context.Background(), "bob", services.CreateCheckinInput{
		PlaceID:   "p1",
		Comment:   "great espresso",
		Rating:    intPtr(4),
		PhotoURLs: []string{"a.jpg", "b.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.CheckinStatusActive, checkin.Status)
	require.Len(t, checkin.Photos, 2)
	assert.Equal(t, 0, checkin.Photos[0].DisplayOrder)
	assert.Equal(t, 1, checkin.Photos[1].DisplayOrder)

	place := e.place(t, "p1")
	assert.Equal(t, 1, place.CheckinCount)
	require.NotNil(t, place.AverageRating)
	assert.InDelta(t, 4, *place.AverageRating, 1e-9)
}

func TestCreateCheckinRatingBounds(t *testing.T) {
	_, svc := checkinEnv(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.CreateCheckin(context.Background(), "bob", services.CreateCheckinInput{PlaceID: "p1", Rating: intPtr(rating)})
		assert.True(t, errs.IsKind(err, errs.KindValidation), "rating %d", rating)
	}

	// No rating at all is fine.
	_, err := svc.CreateCheckin(context.Background(), "bob", services.CreateCheckinInput{PlaceID: "p1"})
	assert.NoError(t, err)
}

func TestCreateCheckinProximity(t *testing.T) {
	e, svc := checkinEnv(t)

	// The place sits at 47.4979, 19.0402. ~1 km away passes.
	_, err := svc.CreateCheckin(context.Background(), "bob", services.CreateCheckinInput{
		PlaceID:       "p1",
		UserLatitude:  floatPtr(47.5079),
		UserLongitude: floatPtr(19.0402),
	})
	assert.NoError(t, err)

	// ~111 km away fails.
	_, err = svc.CreateCheckin(context.Background(), "alice", services.CreateCheckinInput{
		PlaceID:       "p1",
		UserLatitude:  floatPtr(48.4979),
		UserLongitude: floatPtr(19.0402),
	})
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	// One coordinate without the other is rejected.
	_, err = svc.CreateCheckin(context.Background(), "alice", services.CreateCheckinInput{
		PlaceID:      "p1",
		UserLatitude: floatPtr(47.4979),
	})
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	// Out-of-range coordinates are rejected before the distance check.
	_, err = svc.CreateCheckin(context.Background(), "alice", services.CreateCheckinInput{
		PlaceID:       "p1",
		UserLatitude:  floatPtr(95),
		UserLongitude: floatPtr(19),
	})
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	// The failed attempts left the counter at 1.
	assert.Equal(t, 1, e.place(t, "p1").CheckinCount)
}

func TestCreateCheckinOnDraftPlace(t *testing.T) {
	e, svc := checkinEnv(t)
	e.seedPlace(t, "draft-p", "r1", "alice", models.ContentStatusDraft)

	// Strangers cannot check in to an unpublished place.
	_, err := svc.CreateCheckin(context.Background(), "bob", services.CreateCheckinInput{PlaceID: "draft-p"})
	assert.True(t, errs.IsKind(err, errs.KindNotFound))

	// The owner can.
	_, err = svc.CreateCheckin(context.Background(), "alice", services.CreateCheckinInput{PlaceID: "draft-p"})
	assert.NoError(t, err)
}

func TestDeleteCheckinRecomputesRating(t *testing.T) {
	e, svc := checkinEnv(t)

	first, err := svc.CreateCheckin(context.Background(), "bob", services.CreateCheckinInput{PlaceID: "p1", Rating: intPtr(2)})
	require.NoError(t, err)
	_, err = svc.CreateCheckin(context.Background(), "alice", services.CreateCheckinInput{PlaceID: "p1", Rating: intPtr(4)})
	require.NoError(t, err)

	place := e.place(t, "p1")
	require.NotNil(t, place.AverageRating)
	assert.InDelta(t, 3, *place.AverageRating, 1e-9)

	// A stranger cannot delete someone else's checkin.
	err = svc.DeleteCheckin(context.Background(), "alice", first.ID)
	assert.True(t, errs.IsKind(err, errs.KindPermissionRequired))

	require.NoError(t, svc.DeleteCheckin(context.Background(), "bob", first.ID))

	place = e.place(t, "p1")
	assert.Equal(t, 1, place.CheckinCount)
	require.NotNil(t, place.AverageRating)
	assert.InDelta(t, 4, *place.AverageRating, 1e-9)

	// Deleting twice is NOT_FOUND.
	err = svc.DeleteCheckin(context.Background(), "bob", first.ID)
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestHideCheckin(t *testing.T) {
	e, svc := checkinEnv(t)

	checkin, err := svc.CreateCheckin(context.Background(), "bob", services.CreateCheckinInput{PlaceID: "p1", Rating: intPtr(5)})
	require.NoError(t, err)

	// Moderation only; the author cannot hide their own checkin.
	err = svc.HideCheckin(context.Background(), "bob", checkin.ID)
	assert.True(t, errs.IsKind(err, errs.KindPermissionRequired))

	require.NoError(t, svc.HideCheckin(context.Background(), "admin", checkin.ID))
	// Idempotent.
	require.NoError(t, svc.HideCheckin(context.Background(), "admin", checkin.ID))

	// A hidden rating no longer contributes to the average.
	assert.Nil(t, e.place(t, "p1").AverageRating)

	// Hidden checkins disappear from the public place feed but stay in the
	// author's own history.
	feed, _, err := svc.ListPlaceCheckins(context.Background(), "bob", "p1", repositories.Pagination{})
	require.NoError(t, err)
	assert.Empty(t, feed)

	mine, _, err := svc.ListUserCheckins(context.Background(), "bob", repositories.Pagination{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestPrivateCheckinVisibility(t *testing.T) {
	_, svc := checkinEnv(t)

	_, err := svc.CreateCheckin(context.Background(), "bob", services.CreateCheckinInput{PlaceID: "p1", IsPrivate: true})
	require.NoError(t, err)
	_, err = svc.CreateCheckin(context.Background(), "alice", services.CreateCheckinInput{PlaceID: "p1"})
	require.NoError(t, err)

	// Bob sees both (his private one and alice's public one).
	feed, total, err := svc.ListPlaceCheckins(context.Background(), "bob", "p1", repositories.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, feed, 2)

	// Alice and anonymous viewers see only the public checkin.
	feed, total, err = svc.ListPlaceCheckins(context.Background(), "alice", "p1", repositories.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	feed, total, err = svc.ListPlaceCheckins(context.Background(), "", "p1", repositories.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, feed, 1)
	assert.Equal(t, "alice", feed[0].UserID)
}
