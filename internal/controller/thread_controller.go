// FILE: internal/controller/thread_controller.go
package controller

import (
	"errors"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IThreadController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	GetDetail(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SubmitFeedback(ctx *fiber.Ctx) error
}

type threadController struct {
	service service.IThreadService
}

func NewThreadController(service service.IThreadService) IThreadController {
	return &threadController{service: service}
}

func (c *threadController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/threads", serverutils.JwtMiddleware)
	h.Get("/", c.GetAll)
	h.Get("/:id", c.GetDetail)
	h.Delete("/:id", c.Delete)
	h.Post("/feedback", c.SubmitFeedback)
}

func (c *threadController) GetAll(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	threads, err := c.service.GetAllThreads(ctx.Context(), userId)
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return serverutils.SuccessResponse(ctx, "Threads retrieved", threads)
}

func (c *threadController) GetDetail(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	threadId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusBadRequest, "Invalid thread id")
	}

	detail, err := c.service.GetThreadDetail(ctx.Context(), userId, threadId)
	if err != nil {
		if errors.Is(err, service.ErrThreadNotFound) {
			return serverutils.ErrorResponse(ctx, fiber.StatusNotFound, "Thread not found")
		}
		return serverutils.ErrorResponse(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return serverutils.SuccessResponse(ctx, "Thread retrieved", detail)
}

func (c *threadController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	threadId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrorResponse(ctx, fiber.StatusBadRequest, "Invalid thread id")
	}

	if err := c.service.DeleteThread(ctx.Context(), userId, threadId); err != nil {
		if errors.Is(err, service.ErrThreadNotFound) {
			return serverutils.ErrorResponse(ctx, fiber.StatusNotFound, "Thread not found")
		}
		return serverutils.ErrorResponse(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return serverutils.SuccessResponse(ctx, "Thread deleted", nil)
}

func (c *threadController) SubmitFeedback(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.FeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.service.SubmitFeedback(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrThreadNotFound) {
			return serverutils.ErrorResponse(ctx, fiber.StatusNotFound, "Step not found")
		}
		return serverutils.ErrorResponse(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return serverutils.SuccessResponse(ctx, "Feedback recorded", res)
}
