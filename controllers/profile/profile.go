package profile

import (
	"farmhith/middleware"
	authService "farmhith/services/auth"
	bookingService "farmhith/services/booking"
	"farmhith/types"
	profileTypes "farmhith/types/profile"
	"farmhith/utils"

	"github.com/gofiber/fiber/v2"
)

// ProfileController serves the signed-in farmer's profile and bookings.
type ProfileController struct {
	Auth     *authService.Service
	Bookings *bookingService.Service
}

func NewProfileController(auth *authService.Service, bookings *bookingService.Service) *ProfileController {
	return &ProfileController{
		Auth:     auth,
		Bookings: bookings,
	}
}

func (pc *ProfileController) Show(c *fiber.Ctx) error {
	p, err := pc.Auth.GetCurrentUserProfile(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Profile fetched successfully",
		Data:    p,
	})
}

// Update creates the profile on first save. Phone is always taken from the session.
func (pc *ProfileController) Update(c *fiber.Ctx) error {
	var req profileTypes.ProfileRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	p, err := pc.Auth.CreateOrUpdateUserProfile(c.UserContext(), middleware.CurrentSession(c), req)
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Profile saved successfully",
		Data:    p,
	})
}

func (pc *ProfileController) MyBookings(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	bookings, err := pc.Bookings.ListForUser(c.UserContext(), sess.User.ID, sess.User.Phone)
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bookings fetched successfully",
		Data:    bookings,
	})
}
