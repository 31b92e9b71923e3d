package export

import (
	"bytes"
	"testing"
	"time"

	bookingModel "farmhith/models/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteBookings(t *testing.T) {
	addr := "Near the temple"
	bookings := []bookingModel.Booking{
		{
			TrackingID:    "FH12345678",
			PackageID:     "advanced",
			FarmerName:    "Ramesh",
			Mobile:        "9876543210",
			Village:       "Rampur",
			District:      "Karnal",
			State:         "Haryana",
			CropType:      "Wheat",
			PickupType:    bookingModel.PickupTypePickup,
			Address:       &addr,
			PaymentMethod: bookingModel.PaymentMethodOnline,
			PaymentStatus: bookingModel.PaymentStatusPending,
			Status:        bookingModel.BookingStatusPending,
			CreatedAt:     time.Date(2025, 11, 1, 9, 30, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBookings(&buf, bookings))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(bookingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Tracking ID", rows[0][0])
	assert.Equal(t, "FH12345678", rows[1][0])
	assert.Equal(t, "2025-11-01 09:30", rows[1][1])
	assert.Equal(t, "Advanced Soil Test", rows[1][8])
	assert.Equal(t, "599", rows[1][9])
	assert.Equal(t, "Near the temple", rows[1][11])
}

func TestWriteBookings_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBookings(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(bookingsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
