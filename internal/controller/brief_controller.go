package controller

import (
	"ai-briefbuilder-be/internal/dto"
	"ai-briefbuilder-be/internal/pkg/serverutils"
	"ai-briefbuilder-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBriefController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Archive(ctx *fiber.Ctx) error
	Duplicate(ctx *fiber.Ctx) error
}

type briefController struct {
	service service.IBriefService
}

func NewBriefController(service service.IBriefService) IBriefController {
	return &briefController{service: service}
}

func (c *briefController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/brief/v1", jwtMiddleware)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Archive)
	h.Post(":id/duplicate", c.Duplicate)
}

func (c *briefController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.ListBriefsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.List(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all brief", res))
}

func (c *briefController) Show(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.UUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show brief", res))
}

func (c *briefController) Archive(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.UUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Archive(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Brief archived", nil))
}

func (c *briefController) Duplicate(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	id, err := serverutils.UUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Duplicate(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Brief duplicated", res))
}
