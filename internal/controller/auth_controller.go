// FILE: internal/controller/auth_controller.go
package controller

import (
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Post("/logout", c.Logout)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := validate.Struct(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}

	res, err := c.service.Register(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "User registered successfully",
		"data":    res,
	})
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := validate.Struct(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}

	res, err := c.service.Login(ctx.Context(), &req, ctx.IP(), ctx.Get("User-Agent"))
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"code":    401,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Login successful",
		"data":    res,
	})
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := c.service.Logout(ctx.Context(), req.RefreshToken); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    500,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Logged out",
		"data":    nil,
	})
}
