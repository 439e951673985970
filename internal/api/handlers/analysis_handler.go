package handlers

import (
	"Snack-Tracker/domain"
	"Snack-Tracker/internal/api/presenters"
	"Snack-Tracker/pkg/coordinator"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	AnalysisHandler interface {
		AnalyzeImage(c *fiber.Ctx) error
		AnalyzeName(c *fiber.Ctx) error
		GetAnalysis(c *fiber.Ctx) error
		ResetAnalysis(c *fiber.Ctx) error
	}

	analysisHandler struct {
		coordinator *coordinator.Coordinator
		validator   *validator.Validate
	}
)

func NewAnalysisHandler(coord *coordinator.Coordinator, validator *validator.Validate) AnalysisHandler {
	return &analysisHandler{
		coordinator: coord,
		validator:   validator,
	}
}

func (h *analysisHandler) AnalyzeImage(c *fiber.Ctx) error {
	req := new(domain.ImageAnalysisRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRequestAnalysis, err)
	}
	return h.respond(c, h.coordinator.RequestImageClassification(c.Context(), req.ImageURL))
}

func (h *analysisHandler) AnalyzeName(c *fiber.Ctx) error {
	req := new(domain.NameAnalysisRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRequestAnalysis, err)
	}
	return h.respond(c, h.coordinator.RequestNameClassification(c.Context(), req.ProductName))
}

func (h *analysisHandler) GetAnalysis(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, h.coordinator.Analysis().Get().Response(), fiber.StatusOK, domain.MessageSuccessGetAnalysis)
}

func (h *analysisHandler) ResetAnalysis(c *fiber.Ctx) error {
	h.coordinator.ResetAnalysis()
	return presenters.SuccessResponse(c, h.coordinator.Analysis().Get().Response(), fiber.StatusOK, domain.MessageSuccessResetAnalysis)
}

// respond reports the analysis state after a request. Remote and parse
// failures are upstream problems, so they map to 502.
func (h *analysisHandler) respond(c *fiber.Ctx, err error) error {
	if err != nil {
		status := fiber.StatusBadGateway
		if errors.Is(err, coordinator.ErrEmptyInput) {
			status = fiber.StatusBadRequest
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedRequestAnalysis, err)
	}
	return presenters.SuccessResponse(c, h.coordinator.Analysis().Get().Response(), fiber.StatusOK, domain.MessageSuccessRequestAnalysis)
}
