// FILE: internal/controller/oauth_controller.go
package controller

import (
	"fmt"
	"os"

	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service service.IOAuthService
}

func NewOAuthController(service service.IOAuthService) IOAuthController {
	return &oauthController{service: service}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	// e.g., /auth/google
	h := r.Group("/auth")
	h.Get("/:provider", c.Login)
	h.Get("/:provider/callback", c.Callback)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")

	url, err := c.service.GetLoginURL(provider)
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusBadRequest, err.Error())
	}

	// Redirect user to the provider's consent screen
	return ctx.Redirect(url)
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	code := ctx.Query("code")

	if code == "" {
		return serverutils.ErrorResponse(ctx, fiber.StatusBadRequest, "Missing code")
	}

	res, err := c.service.HandleCallback(ctx.Context(), provider, code)
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusInternalServerError, err.Error())
	}

	// Redirect to Frontend with Token in URL
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}

	redirectURL := fmt.Sprintf("%s/app?token=%s", frontendURL, res.AccessToken)
	return ctx.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}
