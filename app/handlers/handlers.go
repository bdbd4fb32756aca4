// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/pulsecrm/pulse/app/dto"
	businessflow "github.com/pulsecrm/pulse/business_flow"
)

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "uuid":
		return err.Field() + " must be a valid UUID"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

func errorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func successResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// validateRequest runs struct validation and renders the standard 400
// response on failure. The bool reports whether handling should continue.
func validateRequest(c fiber.Ctx, v *validator.Validate, req any) (bool, error) {
	if err := v.Struct(req); err != nil {
		var validationErrors []string
		for _, fieldErr := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(fieldErr))
		}
		return false, errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}
	return true, nil
}

func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.RequestID = c.Get(businessflow.RequestIDKey)
	return metadata
}

// createRequestContext creates a context with request-scoped values for observability and timeout
func createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, "request_id", c.Get(businessflow.RequestIDKey))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel)

	return ctx
}
