package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"farmhith/apperrors"
	bookingModel "farmhith/models/booking"
	bookingTypes "farmhith/types/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	calls int
	err   error
	got   bookingTypes.BookingSubmissionRequest
}

func (f *fakeSubmitter) SubmitBooking(_ context.Context, data bookingTypes.BookingSubmissionRequest, _ *string) (*bookingModel.Booking, error) {
	f.calls++
	f.got = data
	if f.err != nil {
		return nil, f.err
	}
	return &bookingModel.Booking{ID: "b1", TrackingID: data.TrackingID, Status: bookingModel.BookingStatusPending}, nil
}

var start = time.UnixMilli(1730000012345)

func filledToPayment(t *testing.T) *Wizard {
	w := New(start)
	require.NoError(t, w.SetFields(map[string]string{"package_id": "basic"}))
	require.NoError(t, w.Next())
	require.NoError(t, w.SetFields(map[string]string{
		"farmer_name": "Ramesh",
		"mobile":      "9876543210",
		"village":     "Rampur",
		"district":    "Karnal",
		"state":       "Haryana",
		"crop_type":   "Wheat",
	}))
	require.NoError(t, w.Next())
	require.NoError(t, w.SetField("pickup_type", "drop"))
	require.NoError(t, w.Next())
	require.Equal(t, StepPayment, w.Step)
	return w
}

func TestGenerateTrackingID(t *testing.T) {
	assert.Equal(t, "FH12345678", GenerateTrackingID(time.UnixMilli(1712345678)))
	assert.Equal(t, "FH00000042", GenerateTrackingID(time.UnixMilli(300000042)))
}

func TestNew_Defaults(t *testing.T) {
	w := New(start)
	assert.Equal(t, StepPackage, w.Step)
	assert.Equal(t, "pickup", w.Data.PickupType)
	assert.Equal(t, "online", w.Data.PaymentMethod)
	assert.Len(t, w.TrackingID, 10)
}

func TestNext_GatesStepOne(t *testing.T) {
	w := New(start)
	assert.False(t, w.CanProceed())

	err := w.Next()
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField("package_id"))
	assert.Equal(t, StepPackage, w.Step)
}

func TestNext_GatesStepTwo(t *testing.T) {
	w := New(start)
	require.NoError(t, w.SetField("package_id", "advanced"))
	require.NoError(t, w.Next())

	require.NoError(t, w.SetFields(map[string]string{"farmer_name": "Ramesh", "mobile": "9876543210"}))
	err := w.Next()
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepFarmer, w.Step)
	for _, f := range []string{"village", "district", "state", "crop_type"} {
		assert.True(t, verr.HasField(f), f)
	}
	assert.False(t, verr.HasField("farmer_name"))
}

func TestNext_PickupNeedsAddress(t *testing.T) {
	w := filledToPayment(t)
	w.Back()
	require.NoError(t, w.SetField("pickup_type", "pickup"))
	assert.Error(t, w.Next())

	require.NoError(t, w.SetField("address", "Near the temple"))
	assert.NoError(t, w.Next())
	assert.Equal(t, StepPayment, w.Step)
}

func TestNext_EarlierStepsStayRequired(t *testing.T) {
	w := filledToPayment(t)
	w.Back()
	require.Equal(t, StepCollection, w.Step)
	require.NoError(t, w.SetField("farmer_name", "  "))

	err := w.Next()
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField("farmer_name"))
	assert.Equal(t, StepCollection, w.Step)
	assert.False(t, w.CanProceed())
}

func TestSubmit_RechecksEarlierSteps(t *testing.T) {
	w := filledToPayment(t)
	require.NoError(t, w.SetField("village", ""))
	s := &fakeSubmitter{}

	_, err := w.Submit(context.Background(), s, nil)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField("village"))
	assert.Zero(t, s.calls)
	assert.Equal(t, StepPayment, w.Step)
}

func TestNextAndBack_Clamp(t *testing.T) {
	w := New(start)
	w.Back()
	assert.Equal(t, StepPackage, w.Step)

	w = filledToPayment(t)
	require.NoError(t, w.Next())
	assert.Equal(t, StepPayment, w.Step)
}

func TestSetFields_RejectsUnknownAndInvalid(t *testing.T) {
	w := New(start)
	err := w.SetFields(map[string]string{"package_id": "gold", "colour": "red", "payment_method": "upi"})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField("package_id"))
	assert.True(t, verr.HasField("colour"))
	assert.True(t, verr.HasField("payment_method"))
}

func TestSubmit_OnlyFromPaymentStep(t *testing.T) {
	w := New(start)
	s := &fakeSubmitter{}

	_, err := w.Submit(context.Background(), s, nil)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, s.calls)
}

func TestSubmit_CompletesOnSuccessOnly(t *testing.T) {
	w := filledToPayment(t)
	trackingID := w.TrackingID

	failing := &fakeSubmitter{err: apperrors.OperationFailed("submit booking", errors.New("db down"))}
	_, err := w.Submit(context.Background(), failing, nil)
	require.Error(t, err)
	assert.Equal(t, StepPayment, w.Step)
	assert.Nil(t, w.Booking)

	ok := &fakeSubmitter{}
	b, err := w.Submit(context.Background(), ok, nil)
	require.NoError(t, err)
	assert.Equal(t, StepComplete, w.Step)
	assert.Equal(t, trackingID, b.TrackingID)
	assert.Equal(t, trackingID, ok.got.TrackingID)
	assert.Equal(t, "drop", ok.got.PickupType)

	again, err := w.Submit(context.Background(), ok, nil)
	require.NoError(t, err)
	assert.Same(t, b, again)
	assert.Equal(t, 1, ok.calls)

	assert.Error(t, w.SetField("farmer_name", "Someone else"))
}

func TestSummary(t *testing.T) {
	w := New(start)
	_, ok := w.Summary()
	assert.False(t, ok)

	require.NoError(t, w.SetField("package_id", "crop_specific"))
	s, ok := w.Summary()
	require.True(t, ok)
	assert.Equal(t, "Crop-Specific Test", s.PackageName)
	assert.Equal(t, 799, s.Price)
	assert.Equal(t, 10, s.TurnaroundDays)
}

func TestMarshalLoad_RoundTripKeepsTrackingID(t *testing.T) {
	w := filledToPayment(t)
	raw, err := w.Marshal()
	require.NoError(t, err)

	restored, err := Load(raw)
	require.NoError(t, err)
	assert.Equal(t, w.TrackingID, restored.TrackingID)
	assert.Equal(t, StepPayment, restored.Step)
	assert.Equal(t, "Ramesh", restored.Data.FarmerName)

	_, err = Load([]byte(`{"step":9,"tracking_id":"FH1"}`))
	assert.Error(t, err)
}
