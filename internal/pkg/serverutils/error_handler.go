package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"ai-briefbuilder-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		status, body := ToErrorResponse(err)
		return ctx.Status(status).JSON(body)
	}
}

func ToErrorResponse(err error) (int, ErrorResponse) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr.Status, ErrorResponse{
			Code:      string(appErr.Kind),
			Message:   appErr.Message,
			Retryable: appErr.Retryable(),
		}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			fields[toSnake(fe.Field())] = fmt.Sprintf("failed on '%s'", fe.Tag())
		}
		return fiber.StatusBadRequest, ErrorResponse{
			Code:    string(apperror.KindValidation),
			Message: "request validation failed",
			Fields:  fields,
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := "HTTP_ERROR"
		switch fiberErr.Code {
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			code = string(apperror.KindValidation)
		case fiber.StatusUnauthorized:
			code = "UNAUTHORIZED"
		case fiber.StatusNotFound:
			code = string(apperror.KindNotFound)
		}
		return fiberErr.Code, ErrorResponse{Code: code, Message: fiberErr.Message}
	}

	return fiber.StatusInternalServerError, ErrorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "internal server error",
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
