package services_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"geovista-api/models"
	"geovista-api/repositories"
	"geovista-api/repositories/memory"
	"geovista-api/services"
)

// env wires the service layer against the in-memory store so tests exercise
// the same transactional paths the gorm-backed repositories take.
type env struct {
	store *memory.Store
	repos *repositories.Repos
	tx    repositories.Transactor
	email *emailRecorder
	log   *logrus.Logger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &env{
		store: store,
		repos: store.Repos(),
		tx:    store.Transactor(),
		email: &emailRecorder{},
		log:   log,
	}
}

func (e *env) seedUser(t *testing.T, id string, role models.UserRole, status models.UserStatus) *models.User {
	t.Helper()
	user := &models.User{
		ID:       id,
		Name:     "User " + id,
		Email:    id + "@example.com",
		Password: "x",
		Role:     role,
		Status:   status,
	}
	require.NoError(t, e.repos.Users.Create(context.Background(), user))
	return user
}

func (e *env) seedRegion(t *testing.T, id, ownerID string, status models.ContentStatus) *models.Region {
	t.Helper()
	region := &models.Region{
		ID:        id,
		Name:      "Region " + id,
		Latitude:  47.4979,
		Longitude: 19.0402,
		Status:    status,
		CreatedBy: ownerID,
	}
	require.NoError(t, e.repos.Regions.Create(context.Background(), region))
	return region
}

func (e *env) seedPlace(t *testing.T, id, regionID, ownerID string, status models.ContentStatus) *models.Place {
	t.Helper()
	place := &models.Place{
		ID:        id,
		Name:      "Place " + id,
		Category:  models.CategoryCafe,
		RegionID:  regionID,
		Latitude:  47.4979,
		Longitude: 19.0402,
		Status:    status,
		CreatedBy: ownerID,
	}
	require.NoError(t, e.repos.Places.Create(context.Background(), place))
	if err := e.repos.Regions.AdjustCounters(context.Background(), regionID, 0, 0, 1); err != nil {
		t.Fatalf("adjust region counters: %v", err)
	}
	return place
}

func (e *env) region(t *testing.T, id string) *models.Region {
	t.Helper()
	region, err := e.repos.Regions.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, region)
	return region
}

func (e *env) place(t *testing.T, id string) *models.Place {
	t.Helper()
	place, err := e.repos.Places.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, place)
	return place
}

// emailRecorder captures outgoing mail instead of dialing SMTP. Setting
// failNext makes the next send return an error, for best-effort paths.
type emailRecorder struct {
	welcome     []string
	invitations []string
	failNext    bool
}

var _ services.EmailSender = (*emailRecorder)(nil)

func (r *emailRecorder) fail() error {
	if r.failNext {
		r.failNext = false
		return errors.New("smtp unreachable")
	}
	return nil
}

func (r *emailRecorder) SendVerificationEmail(email, name string) (string, error) {
	if err := r.fail(); err != nil {
		return "", err
	}
	return "000000", nil
}

func (r *emailRecorder) SendPasswordResetEmail(email, name string) (string, error) {
	if err := r.fail(); err != nil {
		return "", err
	}
	return "000000", nil
}

func (r *emailRecorder) SendWelcomeEmail(email, name string) error {
	if err := r.fail(); err != nil {
		return err
	}
	r.welcome = append(r.welcome, email)
	return nil
}

func (r *emailRecorder) SendEditorInvitationEmail(email, name, placeName string) error {
	if err := r.fail(); err != nil {
		return err
	}
	r.invitations = append(r.invitations, email)
	return nil
}
