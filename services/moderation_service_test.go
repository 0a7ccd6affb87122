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

func moderationEnv(t *testing.T) (*env, *services.ModerationService) {
	t.Helper()
	e := newEnv(t)
	e.seedUser(t, "alice", models.RoleVisitor, models.UserStatusActive)
	e.seedUser(t, "bob", models.RoleVisitor, models.UserStatusActive)
	e.seedUser(t, "admin", models.RoleAdmin, models.UserStatusActive)
	e.seedRegion(t, "r1", "alice", models.ContentStatusPublished)
	e.seedPlace(t, "p1", "r1", "alice", models.ContentStatusPublished)
	return e, services.NewModerationService(e.repos, e.tx)
}

func TestCreateReport(t *testing.T) {
	e, svc := moderationEnv(t)

	report, err := svc.CreateReport(context.Background(), "bob", services.CreateReportInput{
		EntityType: models.ReportEntityPlace,
		EntityID:   "p1",
		Type:       models.ReportTypeSpam,
		Reason:     "ad spam in the description",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusPending, report.Status)
	assert.Equal(t, "bob", report.ReporterUserID)

	// Filing sets the reported marker on the target.
	assert.True(t, e.place(t, "p1").Reported)

	// The same reporter cannot file twice against one entity.
	_, err = svc.CreateReport(context.Background(), "bob", services.CreateReportInput{
		EntityType: models.ReportEntityPlace,
		EntityID:   "p1",
		Type:       models.ReportTypeOther,
	})
	assert.True(t, errs.IsKind(err, errs.KindConflict))

	// A different reporter still can.
	_, err = svc.CreateReport(context.Background(), "alice", services.CreateReportInput{
		EntityType: models.ReportEntityPlace,
		EntityID:   "p1",
		Type:       models.ReportTypeOther,
	})
	assert.NoError(t, err)
}

func TestCreateReportValidation(t *testing.T) {
	_, svc := moderationEnv(t)

	cases := []struct {
		name  string
		input services.CreateReportInput
		kind  errs.Kind
	}{
		{"bad entity type", services.CreateReportInput{EntityType: "comment", EntityID: "x", Type: models.ReportTypeSpam}, errs.KindValidation},
		{"bad report type", services.CreateReportInput{EntityType: models.ReportEntityRegion, EntityID: "r1", Type: "boring"}, errs.KindValidation},
		{"missing entity id", services.CreateReportInput{EntityType: models.ReportEntityRegion, Type: models.ReportTypeSpam}, errs.KindValidation},
		{"missing entity", services.CreateReportInput{EntityType: models.ReportEntityRegion, EntityID: "ghost", Type: models.ReportTypeSpam}, errs.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateReport(context.Background(), "bob", tc.input)
			assert.True(t, errs.IsKind(err, tc.kind), "got %v", err)
		})
	}
}

func TestCreateReportRequiresActiveAccount(t *testing.T) {
	e, svc := moderationEnv(t)
	e.seedUser(t, "banned", models.RoleVisitor, models.UserStatusSuspended)

	_, err := svc.CreateReport(context.Background(), "banned", services.CreateReportInput{
		EntityType: models.ReportEntityRegion,
		EntityID:   "r1",
		Type:       models.ReportTypeSpam,
	})
	assert.True(t, errs.IsKind(err, errs.KindPermissionRequired))
}

// vanishedRegionRepo answers every lookup with "absent", standing in for a
// region that was deleted between the pre-insert check and the transaction.
type vanishedRegionRepo struct {
	repositories.RegionRepository
}

func (vanishedRegionRepo) FindByID(ctx context.Context, id string) (*models.Region, error) {
	return nil, nil
}

type swapTransactor struct {
	repos repositories.Repos
}

func (t *swapTransactor) WithinTransaction(ctx context.Context, fn func(*repositories.Repos) error) error {
	return fn(&t.repos)
}

func TestCreateReportEntityVanishedMidTransaction(t *testing.T) {
	e, _ := moderationEnv(t)

	inTx := *e.repos
	inTx.Regions = vanishedRegionRepo{e.repos.Regions}
	svc := services.NewModerationService(e.repos, &swapTransactor{repos: inTx})

	_, err := svc.CreateReport(context.Background(), "bob", services.CreateReportInput{
		EntityType: models.ReportEntityRegion,
		EntityID:   "r1",
		Type:       models.ReportTypeSpam,
	})
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
}

func TestReportStatusTransitions(t *testing.T) {
	_, svc := moderationEnv(t)

	report, err := svc.CreateReport(context.Background(), "bob", services.CreateReportInput{
		EntityType: models.ReportEntityRegion,
		EntityID:   "r1",
		Type:       models.ReportTypeMisinformation,
	})
	require.NoError(t, err)

	// Non-admins cannot touch the queue.
	_, err = svc.UpdateReportStatus(context.Background(), "bob", report.ID, models.ReportStatusUnderReview, "")
	assert.True(t, errs.IsKind(err, errs.KindPermissionRequired))

	// Pending can only move to under_review.
	_, err = svc.UpdateReportStatus(context.Background(), "admin", report.ID, models.ReportStatusResolved, "")
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	report, err = svc.UpdateReportStatus(context.Background(), "admin", report.ID, models.ReportStatusUnderReview, "looking")
	require.NoError(t, err)
	require.NotNil(t, report.ReviewedBy)
	assert.Equal(t, "admin", *report.ReviewedBy)
	assert.NotNil(t, report.ReviewedAt)
	assert.Equal(t, "looking", report.ReviewNotes)

	report, err = svc.UpdateReportStatus(context.Background(), "admin", report.ID, models.ReportStatusResolved, "content removed")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusResolved, report.Status)

	// Terminal states are never exited.
	_, err = svc.UpdateReportStatus(context.Background(), "admin", report.ID, models.ReportStatusUnderReview, "")
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestListReportsAdminGated(t *testing.T) {
	_, svc := moderationEnv(t)

	_, _, err := svc.ListReports(context.Background(), "bob", repositories.ReportFilter{}, repositories.Pagination{})
	assert.True(t, errs.IsKind(err, errs.KindPermissionRequired))

	_, err2 := svc.CreateReport(context.Background(), "bob", services.CreateReportInput{
		EntityType: models.ReportEntityUser,
		EntityID:   "alice",
		Type:       models.ReportTypeHarassment,
	})
	require.NoError(t, err2)

	reports, total, err := svc.ListReports(context.Background(), "admin", repositories.ReportFilter{Status: models.ReportStatusPending}, repositories.Pagination{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, reports, 1)
}

func TestContentLifecycle(t *testing.T) {
	e, svc := moderationEnv(t)
	e.seedRegion(t, "draft-r", "alice", models.ContentStatusDraft)

	// A stranger cannot publish someone else's draft.
	err := svc.UpdateRegionStatus(context.Background(), "bob", "draft-r", models.ContentStatusPublished)
	assert.True(t, errs.IsKind(err, errs.KindPermissionRequired))

	// The owner performs the first publish.
	require.NoError(t, svc.UpdateRegionStatus(context.Background(), "alice", "draft-r", models.ContentStatusPublished))
	assert.Equal(t, models.ContentStatusPublished, e.region(t, "draft-r").Status)

	// Publishing again is invalid; only drafts publish.
	err = svc.UpdateRegionStatus(context.Background(), "alice", "draft-r", models.ContentStatusPublished)
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	// Nothing returns to draft.
	err = svc.UpdateRegionStatus(context.Background(), "admin", "draft-r", models.ContentStatusDraft)
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	// Archiving is admin-only.
	err = svc.UpdateRegionStatus(context.Background(), "alice", "draft-r", models.ContentStatusArchived)
	assert.True(t, errs.IsKind(err, errs.KindPermissionRequired))
	require.NoError(t, svc.UpdateRegionStatus(context.Background(), "admin", "draft-r", models.ContentStatusArchived))

	// Archived is terminal.
	err = svc.UpdateRegionStatus(context.Background(), "admin", "draft-r", models.ContentStatusPublished)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestRejectSideChannel(t *testing.T) {
	e, svc := moderationEnv(t)
	e.seedPlace(t, "draft-p", "r1", "alice", models.ContentStatusDraft)

	// Rejection is admin-only, from any non-terminal state.
	err := svc.UpdatePlaceStatus(context.Background(), "alice", "draft-p", models.ContentStatusRejected)
	assert.True(t, errs.IsKind(err, errs.KindPermissionRequired))

	require.NoError(t, svc.UpdatePlaceStatus(context.Background(), "admin", "draft-p", models.ContentStatusRejected))
	assert.Equal(t, models.ContentStatusRejected, e.place(t, "draft-p").Status)

	// Published content can be rejected too.
	require.NoError(t, svc.UpdatePlaceStatus(context.Background(), "admin", "p1", models.ContentStatusRejected))

	// Rejected is terminal.
	err = svc.UpdatePlaceStatus(context.Background(), "admin", "draft-p", models.ContentStatusPublished)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}
