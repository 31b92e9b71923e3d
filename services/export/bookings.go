// Package export renders admin spreadsheets.
package export

import (
	"fmt"
	"io"

	"farmhith/constants"
	bookingModel "farmhith/models/booking"

	"github.com/xuri/excelize/v2"
)

const bookingsSheet = "Bookings"

var bookingHeaders = []interface{}{
	"Tracking ID", "Created At", "Farmer Name", "Mobile", "Village", "District", "State",
	"Crop Type", "Package", "Price (INR)", "Collection", "Address", "Payment Method",
	"Payment Status", "Status",
}

// BookingsWorkbook builds a one-sheet workbook with a header row and one row per booking.
func BookingsWorkbook(bookings []bookingModel.Booking) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", bookingsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(bookingsSheet, "A1", &bookingHeaders); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2EFDA"}},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(bookingHeaders), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(bookingsSheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, b := range bookings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := bookingRow(b)
		if err := f.SetSheetRow(bookingsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(bookingsSheet, "A", "O", 18); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	return f, nil
}

// WriteBookings streams the bookings workbook as xlsx to w.
func WriteBookings(w io.Writer, bookings []bookingModel.Booking) error {
	f, err := BookingsWorkbook(bookings)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func bookingRow(b bookingModel.Booking) []interface{} {
	pkgName, price := b.PackageID, 0
	if pkg, ok := constants.FindPackage(b.PackageID); ok {
		pkgName, price = pkg.Name, pkg.Price
	}

	address := ""
	if b.Address != nil {
		address = *b.Address
	}

	return []interface{}{
		b.TrackingID,
		b.CreatedAt.Format("2006-01-02 15:04"),
		b.FarmerName,
		b.Mobile,
		b.Village,
		b.District,
		b.State,
		b.CropType,
		pkgName,
		price,
		string(b.PickupType),
		address,
		string(b.PaymentMethod),
		string(b.PaymentStatus),
		string(b.Status),
	}
}
