package booking

import (
	"farmhith/middleware"
	bookingService "farmhith/services/booking"
	"farmhith/types"
	bookingTypes "farmhith/types/booking"
	"farmhith/utils"

	"github.com/gofiber/fiber/v2"
)

// BookingController handles public booking requests
type BookingController struct {
	Service *bookingService.Service
}

func NewBookingController(service *bookingService.Service) *BookingController {
	return &BookingController{Service: service}
}

// Store creates a booking from a complete submission. Signed-in callers get the booking
// linked to their account.
func (bc *BookingController) Store(c *fiber.Ctx) error {
	var req bookingTypes.BookingSubmissionRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	var userID *string
	if sess := middleware.CurrentSession(c); sess != nil {
		userID = &sess.User.ID
	}

	b, err := bc.Service.SubmitBooking(c.UserContext(), req, userID)
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Booking created successfully",
		Data:    b,
	})
}

// Track looks a booking up by tracking ID and the mobile it was booked with.
func (bc *BookingController) Track(c *fiber.Ctx) error {
	var req bookingTypes.BookingLookupRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	b, err := bc.Service.GetBookingByTrackingID(c.UserContext(), req.TrackingID, req.Mobile)
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking fetched successfully",
		Data:    b,
	})
}
