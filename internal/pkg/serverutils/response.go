// FILE: internal/pkg/serverutils/response.go
package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

func SuccessResponse(ctx *fiber.Ctx, message string, data interface{}) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    fiber.StatusOK,
		"message": message,
		"data":    data,
	})
}

func ErrorResponse(ctx *fiber.Ctx, code int, message string) error {
	return ctx.Status(code).JSON(fiber.Map{
		"success": false,
		"code":    code,
		"message": message,
	})
}

// ErrorHandlerMiddleware converts unhandled errors into the standard JSON
// envelope so controllers can just return them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		return ErrorResponse(ctx, code, message)
	}
}
