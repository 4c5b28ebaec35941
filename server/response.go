package server

import (
	"errors"
	"strings"

	"github.com/bsthun/gut"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	errs "github.com/wippyai/wasm-radix/errors"
)

type SuccessResponse struct {
	Success *bool   `json:"success"`
	Message *string `json:"message,omitempty"`
	Data    any     `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success *bool   `json:"success"`
	Message *string `json:"message,omitempty"`
	Error   *string `json:"error,omitempty"`
}

func Success(data any) *SuccessResponse {
	return &SuccessResponse{
		Success: gut.Ptr(true),
		Data:    data,
	}
}

// StatusOf maps an error kind to an HTTP status.
func StatusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindInvalidInput, errs.KindDivisionByZero, errs.KindOverflow, errs.KindInvalidUTF8:
		return fiber.StatusBadRequest
	case errs.KindNotFound, errs.KindMissingExport:
		return fiber.StatusNotFound
	case errs.KindNotInitialized:
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func HandleError(c *fiber.Ctx, err error) error {
	// * case of `*fiber.Error`
	var fiberError *fiber.Error
	if errors.As(err, &fiberError) {
		return c.Status(fiberError.Code).JSON(&ErrorResponse{
			Success: gut.Ptr(false),
			Message: &fiberError.Message,
		})
	}

	// * case of `validator.ValidationErrors`
	var valErr validator.ValidationErrors
	if errors.As(err, &valErr) {
		var lists []string
		for _, err := range valErr {
			lists = append(lists, err.Field()+" ("+err.Tag()+")")
		}

		return c.Status(fiber.StatusBadRequest).JSON(&ErrorResponse{
			Success: gut.Ptr(false),
			Message: gut.Ptr("validation failed on " + strings.Join(lists, ", ")),
			Error:   gut.Ptr(valErr.Error()),
		})
	}

	// * case of `*errors.Error`
	var radixErr *errs.Error
	if errors.As(err, &radixErr) {
		return c.Status(StatusOf(radixErr.Kind)).JSON(&ErrorResponse{
			Success: gut.Ptr(false),
			Message: gut.Ptr(string(radixErr.Phase) + " failed: " + string(radixErr.Kind)),
			Error:   gut.Ptr(err.Error()),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(&ErrorResponse{
		Success: gut.Ptr(false),
		Message: gut.Ptr("unknown server error"),
		Error:   gut.Ptr(err.Error()),
	})
}
