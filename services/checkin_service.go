package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/repositories"
)

// maxCheckinDistanceKm bounds how far from a place a user may check in when
// they supply their location.
const maxCheckinDistanceKm = 5.0

// CheckinService records visits with optional ratings and photos and keeps
// the place's checkin counter and average rating in step.
type CheckinService struct {
	repos    *repositories.Repos
	tx       repositories.Transactor
	location LocationService
}

func NewCheckinService(repos *repositories.Repos, tx repositories.Transactor, location LocationService) *CheckinService {
	return &CheckinService{repos: repos, tx: tx, location: location}
}

type CreateCheckinInput struct {
	PlaceID       string   `json:"place_id"`
	Comment       string   `json:"comment"`
	Rating        *int     `json:"rating"`
	UserLatitude  *float64 `json:"user_latitude"`
	UserLongitude *float64 `json:"user_longitude"`
	IsPrivate     bool     `json:"is_private"`
	PhotoURLs     []string `json:"photo_urls"`
}

// CreateCheckin records a checkin. When the user supplies their location it
// must be within maxCheckinDistanceKm of the place. The place's checkin
// counter and average rating update in the same transaction as the insert.
func (s *CheckinService) CreateCheckin(ctx context.Context, userID string, input CreateCheckinInput) (checkin *models.Checkin, err error) {
	defer recoverGuard(&err)

	if input.Rating != nil && (*input.Rating < models.MinRating || *input.Rating > models.MaxRating) {
		return nil, errs.Validation(fmt.Sprintf("Rating must be between %d and %d", models.MinRating, models.MaxRating))
	}

	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, fetchErr("Failed to load user", err)
	}
	if user == nil || user.Status != models.UserStatusActive {
		return nil, errs.PermissionRequired("An active account is required")
	}

	place, err := s.repos.Places.FindByID(ctx, input.PlaceID)
	if err != nil {
		return nil, fetchErr("Failed to load place", err)
	}
	if place == nil {
		return nil, errs.NotFound("Place not found")
	}
	if place.Status != models.ContentStatusPublished && place.CreatedBy != userID {
		return nil, errs.NotFound("Place not found")
	}

	if input.UserLatitude != nil && input.UserLongitude != nil {
		if !s.location.ValidateUserLocation(*input.UserLatitude, *input.UserLongitude) {
			return nil, errs.Validation("Coordinates are out of range")
		}
		if !s.location.IsWithinRadius(*input.UserLatitude, *input.UserLongitude, place.Latitude, place.Longitude, maxCheckinDistanceKm) {
			return nil, errs.Validation("You are too far from this place to check in")
		}
	} else if input.UserLatitude != nil || input.UserLongitude != nil {
		return nil, errs.Validation("Both latitude and longitude are required")
	}

	checkin = &models.Checkin{
		ID:            uuid.New().String(),
		UserID:        userID,
		PlaceID:       place.ID,
		Comment:       input.Comment,
		Rating:        input.Rating,
		UserLatitude:  input.UserLatitude,
		UserLongitude: input.UserLongitude,
		Status:        models.CheckinStatusActive,
		IsPrivate:     input.IsPrivate,
	}
	for i, url := range input.PhotoURLs {
		checkin.Photos = append(checkin.Photos, models.CheckinPhoto{
			URL:          url,
			DisplayOrder: i,
		})
	}

	err = s.tx.WithinTransaction(ctx, func(r *repositories.Repos) error {
		if err := r.Checkins.Create(ctx, checkin); err != nil {
			return writeErr("Failed to create checkin", err)
		}
		if err := r.Places.AdjustCounters(ctx, place.ID, 0, 0, 1); err != nil {
			return writeErr("Failed to update place counters", err)
		}
		return s.refreshAverageRating(ctx, r, place.ID)
	})
	if err != nil {
		return nil, err
	}
	return checkin, nil
}

// DeleteCheckin soft-deletes the user's own checkin and rolls the place
// counters back.
func (s *CheckinService) DeleteCheckin(ctx context.Context, actorID, checkinID string) (err error) {
	defer recoverGuard(&err)

	checkin, err := s.repos.Checkins.FindByID(ctx, checkinID)
	if err != nil {
		return fetchErr("Failed to load checkin", err)
	}
	if checkin == nil || checkin.Status == models.CheckinStatusDeleted {
		return errs.NotFound("Checkin not found")
	}
	if checkin.UserID != actorID {
		actor, err := s.repos.Users.FindByID(ctx, actorID)
		if err != nil {
			return fetchErr("Failed to load user", err)
		}
		if !actor.IsActiveAdmin() {
			return errs.PermissionRequired("You can only delete your own checkins")
		}
	}

	return s.tx.WithinTransaction(ctx, func(r *repositories.Repos) error {
		checkin.Status = models.CheckinStatusDeleted
		if err := r.Checkins.Update(ctx, checkin); err != nil {
			return writeErr("Failed to delete checkin", err)
		}
		if err := r.Places.AdjustCounters(ctx, checkin.PlaceID, 0, 0, -1); err != nil {
			return writeErr("Failed to update place counters", err)
		}
		return s.refreshAverageRating(ctx, r, checkin.PlaceID)
	})
}

// HideCheckin moves a checkin to hidden; moderation only.
func (s *CheckinService) HideCheckin(ctx context.Context, actorID, checkinID string) (err error) {
	defer recoverGuard(&err)

	if _, err := authorizeAdmin(ctx, s.repos.Users, actorID); err != nil {
		return err
	}

	checkin, err := s.repos.Checkins.FindByID(ctx, checkinID)
	if err != nil {
		return fetchErr("Failed to load checkin", err)
	}
	if checkin == nil || checkin.Status == models.CheckinStatusDeleted {
		return errs.NotFound("Checkin not found")
	}
	if checkin.Status == models.CheckinStatusHidden {
		return nil
	}

	return s.tx.WithinTransaction(ctx, func(r *repositories.Repos) error {
		checkin.Status = models.CheckinStatusHidden
		if err := r.Checkins.Update(ctx, checkin); err != nil {
			return writeErr("Failed to hide checkin", err)
		}
		// Hidden checkins no longer contribute to the average.
		return s.refreshAverageRating(ctx, r, checkin.PlaceID)
	})
}

// ListPlaceCheckins returns the active checkins on a place. Private checkins
// are visible only to their author; hidden and deleted ones to nobody.
func (s *CheckinService) ListPlaceCheckins(ctx context.Context, actingUserID, placeID string, page repositories.Pagination) (checkins []models.Checkin, total int64, err error) {
	defer recoverGuard(&err)

	place, err := s.repos.Places.FindByID(ctx, placeID)
	if err != nil {
		return nil, 0, fetchErr("Failed to load place", err)
	}
	if place == nil {
		return nil, 0, errs.NotFound("Place not found")
	}

	filter := repositories.CheckinFilter{
		PlaceID:          placeID,
		Statuses:         []models.CheckinStatus{models.CheckinStatusActive},
		PrivateVisibleTo: actingUserID,
	}
	checkins, total, err = s.repos.Checkins.List(ctx, filter, page.Normalize())
	if err != nil {
		return nil, 0, fetchErr("Failed to list checkins", err)
	}
	return checkins, total, nil
}

// ListUserCheckins returns a user's own checkin history, private included.
func (s *CheckinService) ListUserCheckins(ctx context.Context, userID string, page repositories.Pagination) (checkins []models.Checkin, total int64, err error) {
	defer recoverGuard(&err)

	filter := repositories.CheckinFilter{
		UserID:           userID,
		Statuses:         []models.CheckinStatus{models.CheckinStatusActive, models.CheckinStatusHidden},
		PrivateVisibleTo: userID,
	}
	checkins, total, err = s.repos.Checkins.List(ctx, filter, page.Normalize())
	if err != nil {
		return nil, 0, fetchErr("Failed to list checkins", err)
	}
	return checkins, total, nil
}

// refreshAverageRating recomputes a place's average from its active rated
// checkins. No rated checkins clears the average rather than storing zero.
func (s *CheckinService) refreshAverageRating(ctx context.Context, r *repositories.Repos, placeID string) error {
	count, average, err := r.Checkins.RatingStats(ctx, placeID)
	if err != nil {
		return fetchErr("Failed to compute rating stats", err)
	}
	var rating *float64
	if count > 0 {
		rating = &average
	}
	if err := r.Places.SetAverageRating(ctx, placeID, rating); err != nil {
		return writeErr("Failed to update average rating", err)
	}
	return nil
}
