package contact

import (
	contactService "farmhith/services/contact"
	"farmhith/types"
	contactTypes "farmhith/types/contact"
	"farmhith/utils"

	"github.com/gofiber/fiber/v2"
)

type ContactController struct {
	Service *contactService.Service
}

func NewContactController(service *contactService.Service) *ContactController {
	return &ContactController{Service: service}
}

// Store saves a contact form message.
func (cc *ContactController) Store(c *fiber.Ctx) error {
	var req contactTypes.ContactMessageRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	m, err := cc.Service.SubmitContactMessage(c.UserContext(), req)
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Message sent successfully",
		Data:    m,
	})
}
