package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"voxrelay/internal/apperr"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Code    int      `json:"code,omitempty"`
	Kind    string   `json:"kind,omitempty"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// RespondWithError sends a JSON error response.
func RespondWithError(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(ErrorResponse{
		Success: false,
		Code:    statusCode,
		Message: message,
	})
}

// RespondWithAppError renders err with the status its kind maps to.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Code:    status,
		Kind:    string(kind),
		Message: err.Error(),
	})
}

// RespondWithValidationError sends a 400 listing each failed constraint.
func RespondWithValidationError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Success: false,
		Code:    fiber.StatusBadRequest,
		Message: "Validation failed",
		Details: FormatValidationErrors(err),
	})
}

// RespondWithJSON sends a JSON success response.
func RespondWithJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(data)
}

// FormatValidationErrors formats validation errors from validator/v10.
func FormatValidationErrors(err error) []string {
	var messages []string
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		if err != nil {
			messages = append(messages, err.Error())
		}
		return messages
	}
	for _, fe := range validationErrors {
		element := fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			element = fmt.Sprintf("%s (value: %s)", element, fe.Param())
		}
		messages = append(messages, element)
	}
	return messages
}
