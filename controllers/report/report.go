package report

import (
	reportService "farmhith/services/report"
	"farmhith/types"
	"farmhith/utils"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	Service *reportService.Service
}

func NewReportController(service *reportService.Service) *ReportController {
	return &ReportController{Service: service}
}

// Show returns the soil report for :trackingId.
func (rc *ReportController) Show(c *fiber.Ctx) error {
	r, err := rc.Service.GetReportByTrackingID(c.UserContext(), c.Params("trackingId"))
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Report fetched successfully",
		Data:    r,
	})
}
