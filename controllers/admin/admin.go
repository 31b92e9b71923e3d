// Package admin serves the back-office endpoints. Every route requires an admin session.
package admin

import (
	"fmt"
	"strings"
	"time"

	"farmhith/apperrors"
	"farmhith/logger"
	"farmhith/middleware"
	bookingModel "farmhith/models/booking"
	contactModel "farmhith/models/contact"
	otpModel "farmhith/models/otp"
	reportModel "farmhith/models/report"
	"farmhith/repository"
	bookingService "farmhith/services/booking"
	contactService "farmhith/services/contact"
	"farmhith/services/export"
	otpService "farmhith/services/otp"
	reportService "farmhith/services/report"
	"farmhith/types"
	bookingTypes "farmhith/types/booking"
	contactTypes "farmhith/types/contact"
	reportTypes "farmhith/types/report"
	"farmhith/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultLimit = 20
	maxLimit     = 100
	xlsxMIME     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type AdminController struct {
	Bookings *bookingService.Service
	Reports  *reportService.Service
	Contacts *contactService.Service
	OTP      *otpService.Service
}

func NewAdminController(
	bookings *bookingService.Service,
	reports *reportService.Service,
	contacts *contactService.Service,
	otp *otpService.Service,
) *AdminController {
	return &AdminController{
		Bookings: bookings,
		Reports:  reports,
		Contacts: contacts,
		OTP:      otp,
	}
}

// Paginated wraps a page of results.
type Paginated struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func pageFromQuery(c *fiber.Ctx) (repository.Page, int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return repository.Page{Limit: limit, Offset: (page - 1) * limit}, page, limit
}

func ok(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: message,
		Data:    data,
	})
}

func (ac *AdminController) ListBookings(c *fiber.Ctx) error {
	p, page, limit := pageFromQuery(c)
	filter := repository.BookingFilter{
		Status: bookingModel.BookingStatus(c.Query("status")),
		Search: strings.TrimSpace(c.Query("search")),
		Page:   p,
	}

	bookings, total, err := ac.Bookings.ListBookings(c.UserContext(), filter)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return ok(c, "Bookings fetched successfully", Paginated{Items: bookings, Total: total, Page: page, Limit: limit})
}

func (ac *AdminController) UpdateBookingStatus(c *fiber.Ctx) error {
	var req bookingTypes.UpdateBookingStatusRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	b, err := ac.Bookings.UpdateBookingStatus(c.UserContext(), c.Params("id"), req, middleware.CurrentSession(c).User.ID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return ok(c, "Booking status updated successfully", b)
}

func (ac *AdminController) BookingsSummary(c *fiber.Ctx) error {
	summary, err := ac.Bookings.BookingsSummary(c.UserContext())
	if err != nil {
		return utils.RespondError(c, err)
	}
	return ok(c, "Summary fetched successfully", summary)
}

// ExportBookings streams the filtered bookings as an xlsx file.
func (ac *AdminController) ExportBookings(c *fiber.Ctx) error {
	filter := repository.BookingFilter{
		Status: bookingModel.BookingStatus(c.Query("status")),
		Search: strings.TrimSpace(c.Query("search")),
	}

	bookings, err := ac.Bookings.ListAll(c.UserContext(), filter)
	if err != nil {
		return utils.RespondError(c, err)
	}

	c.Set(fiber.HeaderContentType, xlsxMIME)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="bookings_%s.xlsx"`, time.Now().Format("20060102")))
	if err := export.WriteBookings(c, bookings); err != nil {
		logger.Error("Failed to export bookings", err)
		return utils.RespondError(c, apperrors.OperationFailed("export bookings", err))
	}
	logger.Infow("Bookings exported", "count", len(bookings), "by", middleware.CurrentSession(c).User.ID)
	return nil
}

func (ac *AdminController) ListReports(c *fiber.Ctx) error {
	p, page, limit := pageFromQuery(c)
	filter := repository.ReportFilter{Status: reportModel.Status(c.Query("status")), Page: p}

	reports, total, err := ac.Reports.ListReports(c.UserContext(), filter)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return ok(c, "Reports fetched successfully", Paginated{Items: reports, Total: total, Page: page, Limit: limit})
}

func (ac *AdminController) UpsertReport(c *fiber.Ctx) error {
	var req reportTypes.UpsertReportRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	r, err := ac.Reports.UpsertReport(c.UserContext(), req)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return ok(c, "Report saved successfully", r)
}

// DraftRecommendations returns advisor text for a report without saving it.
func (ac *AdminController) DraftRecommendations(c *fiber.Ctx) error {
	text, err := ac.Reports.DraftRecommendations(c.UserContext(), c.Params("trackingId"))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return ok(c, "Recommendations drafted", fiber.Map{"recommendations": text})
}

func (ac *AdminController) ListContactMessages(c *fiber.Ctx) error {
	p, page, limit := pageFromQuery(c)
	filter := repository.ContactFilter{Status: contactModel.Status(c.Query("status")), Page: p}

	messages, total, err := ac.Contacts.ListContactMessages(c.UserContext(), filter)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return ok(c, "Messages fetched successfully", Paginated{Items: messages, Total: total, Page: page, Limit: limit})
}

func (ac *AdminController) UpdateContactStatus(c *fiber.Ctx) error {
	var req contactTypes.UpdateContactStatusRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	m, err := ac.Contacts.UpdateContactStatus(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return ok(c, "Message status updated successfully", m)
}

// OTPRetryInfo shows the login OTP state of ?phone=.
func (ac *AdminController) OTPRetryInfo(c *fiber.Ctx) error {
	phone := utils.NormalizePhone(c.Query("phone"))
	if phone == "" {
		return utils.RespondError(c, &apperrors.ValidationError{Fields: []apperrors.FieldError{{Field: "phone", Message: "Invalid mobile number"}}})
	}

	info, err := ac.OTP.GetOTPRetryInfo(c.UserContext(), phone, otpModel.OTPPurposeLogin)
	if err != nil {
		logger.Error("Failed to get OTP retry info", err)
		return utils.RespondError(c, apperrors.OperationFailed("get OTP retry info", err))
	}
	return ok(c, "OTP retry info fetched successfully", info)
}

type UnblockOTPRequest struct {
	Phone string `json:"phone"`
}

// UnblockOTP lifts a verification block on a phone before it expires.
func (ac *AdminController) UnblockOTP(c *fiber.Ctx) error {
	var req UnblockOTPRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	phone := utils.NormalizePhone(req.Phone)
	if phone == "" {
		return utils.RespondError(c, &apperrors.ValidationError{Fields: []apperrors.FieldError{{Field: "phone", Message: "Invalid mobile number"}}})
	}

	if err := ac.OTP.UnblockOTP(c.UserContext(), phone, otpModel.OTPPurposeLogin); err != nil {
		logger.Error("Failed to unblock OTP", err)
		return utils.RespondError(c, apperrors.OperationFailed("unblock OTP", err))
	}
	logger.Infow("OTP unblocked", "phone", phone, "by", middleware.CurrentSession(c).User.ID)
	return ok(c, "OTP unblocked successfully", nil)
}
