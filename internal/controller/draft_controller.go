package controller

import (
	"ai-briefbuilder-be/internal/dto"
	"ai-briefbuilder-be/internal/pkg/serverutils"
	"ai-briefbuilder-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDraftController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	Start(ctx *fiber.Ctx) error
	Resume(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	SelectProduct(ctx *fiber.Ctx) error
	AttachDocument(ctx *fiber.Ctx) error
	ExtractInsights(ctx *fiber.Ctx) error
	SelectInsight(ctx *fiber.Ctx) error
	SynthesizeStrategy(ctx *fiber.Ctx) error
	SetStrategy(ctx *fiber.Ctx) error
	GenerateFinalDocument(ctx *fiber.Ctx) error
	EditFinalDocument(ctx *fiber.Ctx) error
	Navigate(ctx *fiber.Ctx) error
	Decide(ctx *fiber.Ctx) error
	Complete(ctx *fiber.Ctx) error
}

type draftController struct {
	service service.IDraftService
}

func NewDraftController(service service.IDraftService) IDraftController {
	return &draftController{service: service}
}

func (c *draftController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/draft/v1", jwtMiddleware)
	h.Post("", c.Start)
	h.Post("resume/:briefId", c.Resume)
	h.Get(":key", c.Show)
	h.Post(":key/product", c.SelectProduct)
	h.Post(":key/document", c.AttachDocument)
	h.Post(":key/insights/extract", c.ExtractInsights)
	h.Put(":key/insights/selection", c.SelectInsight)
	h.Post(":key/strategy/synthesize", c.SynthesizeStrategy)
	h.Put(":key/strategy", c.SetStrategy)
	h.Post(":key/brief/generate", c.GenerateFinalDocument)
	h.Put(":key/brief", c.EditFinalDocument)
	h.Put(":key/step", c.Navigate)
	h.Post(":key/decision", c.Decide)
	h.Post(":key/complete", c.Complete)
}

// route resolves the caller and the draft key shared by every :key endpoint.
func route(ctx *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	key, err := serverutils.UUIDParam(ctx, "key")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userId, key, nil
}

func (c *draftController) Start(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Start(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Draft started", res))
}

func (c *draftController) Resume(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	briefId, err := serverutils.UUIDParam(ctx, "briefId")
	if err != nil {
		return err
	}

	res, err := c.service.LoadSession(ctx.Context(), userId, briefId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Draft resumed", res))
}

func (c *draftController) Show(ctx *fiber.Ctx) error {
	userId, key, err := route(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.Context(), userId, key)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show draft", res))
}

func (c *draftController) SelectProduct(ctx *fiber.Ctx) error {
	userId, key, err := route(ctx)
	if err != nil {
		return err
	}

	var req dto.SelectProductRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateSession(ctx.Context(), userId, key, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Product selected", res))
}

func (c *draftController) AttachDocument(ctx *fiber.Ctx) error {
	userId, key, err := route(ctx)
	if err != nil {
		return err
	}

	var req dto.AttachDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AttachDocument(ctx.Context(), userId, key, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Document attached", res))
}

func (c *draftController) ExtractInsights(ctx *fiber.Ctx) error {
	userId, key, err := route(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ExtractInsights(ctx.Context(), userId, key)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Insights extracted", res))
}

func (c *draftController) SelectInsight(ctx *fiber.Ctx) error {
	userId, key, err := route(ctx)
	if err != nil {
		return err
	}

	var req dto.SelectInsightRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SelectInsight(ctx.Context(), userId, key, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Insight selected", res))
}

func (c *draftController) SynthesizeStrategy(ctx *fiber.Ctx) error {
	userId, key, err := route(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.SynthesizeStrategy(ctx.Context(), userId, key)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Strategy synthesized", res))
}

func (c *draftController) SetStrategy(ctx *fiber.Ctx) error {
	userId, key, err := route(ctx)
	if err != nil {
		return err
	}

	var req dto.SetStrategyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SetStrategy(ctx.Context(), userId, key, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Strategy updated", res))
}

func (c *draftController) GenerateFinalDocument(ctx *fiber.Ctx) error {
	userId, key, err := route(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GenerateFinalDocument(ctx.Context(), userId, key)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Brief generated", res))
}

func (c *draftController) EditFinalDocument(ctx *fiber.Ctx) error {
	userId, key, err := route(ctx)
	if err != nil {
		return err
	}

	var req dto.EditFinalDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.service.EditFinalDocument(ctx.Context(), userId, key, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Brief updated", res))
}

func (c *draftController) Navigate(ctx *fiber.Ctx) error {
	userId, key, err := route(ctx)
	if err != nil {
		return err
	}

	var req dto.NavigateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Navigate(ctx.Context(), userId, key, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Step changed", res))
}

func (c *draftController) Decide(ctx *fiber.Ctx) error {
	userId, key, err := route(ctx)
	if err != nil {
		return err
	}

	var req dto.DecisionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Decide(ctx.Context(), userId, key, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Decision applied", res))
}

func (c *draftController) Complete(ctx *fiber.Ctx) error {
	userId, key, err := route(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.CompleteSession(ctx.Context(), userId, key)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Brief completed", res))
}
