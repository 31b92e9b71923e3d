package report_test

import (
	"context"
	"errors"
	"testing"

	"farmhith/apperrors"
	reportModel "farmhith/models/report"
	"farmhith/repository"
	"farmhith/services/advisor"
	reportService "farmhith/services/report"
	reportTypes "farmhith/types/report"
	"farmhith/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdvisor struct {
	text string
	err  error
	crop string
}

func (s *stubAdvisor) DraftRecommendations(_ context.Context, _ *reportModel.SoilReport, cropType string) (string, error) {
	s.crop = cropType
	return s.text, s.err
}

func f64(v float64) *float64 { return &v }

func completedRequest() reportTypes.UpsertReportRequest {
	return reportTypes.UpsertReportRequest{
		TrackingID:    "FH12345678",
		Status:        "completed",
		PHLevel:       f64(6.8),
		Nitrogen:      f64(240),
		Phosphorus:    f64(22),
		Potassium:     f64(180),
		OrganicCarbon: f64(0.6),
	}
}

func newService(t *testing.T, adv advisor.Advisor) *reportService.Service {
	db := testutil.NewDB(t)
	return reportService.NewService(repository.NewGormReportRepository(db), repository.NewGormBookingRepository(db), adv)
}

func TestGetReportByTrackingID_NotFound(t *testing.T) {
	svc := newService(t, nil)

	_, err := svc.GetReportByTrackingID(context.Background(), "FHNOPE")
	require.Error(t, err)
	var nf *apperrors.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Report not found.", nf.Message)
}

func TestUpsertReport_CompletedNeedsResults(t *testing.T) {
	svc := newService(t, nil)
	req := completedRequest()
	req.Nitrogen = nil

	_, err := svc.UpsertReport(context.Background(), req)
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasField("nitrogen"))
}

func TestUpsertReport_RejectsOutOfRangePH(t *testing.T) {
	svc := newService(t, nil)
	req := completedRequest()
	req.PHLevel = f64(15)

	_, err := svc.UpsertReport(context.Background(), req)
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasField("ph_level"))
}

func TestUpsertReport_PendingThenCompleted(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	pending, err := svc.UpsertReport(ctx, reportTypes.UpsertReportRequest{TrackingID: "FH12345678", Status: "pending", PHLevel: f64(7)})
	require.NoError(t, err)
	assert.Nil(t, pending.PHLevel, "results are only kept on completed reports")

	done, err := svc.UpsertReport(ctx, completedRequest())
	require.NoError(t, err)
	assert.Equal(t, pending.ID, done.ID)
	assert.NotNil(t, done.CompletedAt)

	got, err := svc.GetReportByTrackingID(ctx, "FH12345678")
	require.NoError(t, err)
	assert.Equal(t, reportModel.StatusCompleted, got.Status)
	assert.True(t, got.HasResults())
}

func TestUpsertReport_DraftsRecommendations(t *testing.T) {
	adv := &stubAdvisor{text: "Add lime."}
	svc := newService(t, adv)
	req := completedRequest()
	req.DraftRecommendations = true

	r, err := svc.UpsertReport(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Add lime.", r.Recommendations)
}

func TestUpsertReport_AdvisorFailure(t *testing.T) {
	svc := newService(t, advisor.Disabled{})
	req := completedRequest()
	req.DraftRecommendations = true

	_, err := svc.UpsertReport(context.Background(), req)
	assert.True(t, apperrors.IsOperationFailed(err))
	assert.ErrorIs(t, err, advisor.ErrDisabled)
}

func TestDraftRecommendations_NeedsResults(t *testing.T) {
	svc := newService(t, &stubAdvisor{text: "x"})
	ctx := context.Background()

	_, err := svc.UpsertReport(ctx, reportTypes.UpsertReportRequest{TrackingID: "FH1", Status: "in_process"})
	require.NoError(t, err)

	_, err = svc.DraftRecommendations(ctx, "FH1")
	assert.True(t, apperrors.IsValidation(err))
}
