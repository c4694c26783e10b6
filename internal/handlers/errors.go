package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/linkupapp/linkup-backend/internal/dto"
	"github.com/linkupapp/linkup-backend/internal/services"
)

// statusFor maps service sentinel errors onto the HTTP taxonomy:
// 400 validation, 401 auth, 403 forbidden, 404 not found, 409 conflict,
// 500 everything else.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrSelfSubscription),
		errors.Is(err, services.ErrNoAccess):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrCreatorNotFound),
		errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrSubscriberNotFound),
		errors.Is(err, services.ErrPostNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrCreatorExists),
		errors.Is(err, services.ErrDuplicatePending):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail translates a service error into a JSON error response. Internal
// errors are masked; everything else carries its own message.
func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "Internal server error"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}
