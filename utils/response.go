package utils

import (
	"errors"

	"farmhith/apperrors"
	"farmhith/logger"
	"farmhith/types"

	"github.com/gofiber/fiber/v2"
)

// ParseBody decodes the request body into out. A malformed body is reported as a
// validation failure so it maps to 400 like any other bad input.
func ParseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		logger.Error("Failed to parse request body", err)
		return &apperrors.ValidationError{Fields: []apperrors.FieldError{{Field: "body", Message: "Invalid request body"}}}
	}
	return nil
}

// RespondError maps a service error onto the ApiResponse envelope.
func RespondError(c *fiber.Ctx, err error) error {
	var (
		validationErr *apperrors.ValidationError
		notFoundErr   *apperrors.NotFoundError
		deniedErr     *apperrors.AccessDeniedError
		unauthErr     *apperrors.UnauthenticatedError
		limitedErr    *apperrors.RateLimitedError
		opErr         *apperrors.OperationFailedError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: validationErr.Error(),
			Data:    validationErr.Fields,
		})
	case errors.As(err, &notFoundErr):
		return respond(c, fiber.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &deniedErr):
		return respond(c, fiber.StatusForbidden, deniedErr.Error())
	case errors.As(err, &unauthErr):
		return respond(c, fiber.StatusUnauthorized, unauthErr.Error())
	case errors.As(err, &limitedErr):
		return respond(c, fiber.StatusTooManyRequests, limitedErr.Error())
	case errors.As(err, &opErr):
		return respond(c, fiber.StatusBadGateway, opErr.Error())
	default:
		logger.Error("Unhandled error", err)
		return respond(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

func respond(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: message,
	})
}
