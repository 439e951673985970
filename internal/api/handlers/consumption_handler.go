package handlers

import (
	"Snack-Tracker/domain"
	"Snack-Tracker/internal/api/presenters"
	"Snack-Tracker/pkg/coordinator"
	"Snack-Tracker/pkg/stats"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ConsumptionHandler interface {
		RecordConsumption(c *fiber.Ctx) error
		GetConsumptions(c *fiber.Ctx) error
		GetDailyTotals(c *fiber.Ctx) error
		GetDailyTotalsForDate(c *fiber.Ctx) error
	}

	consumptionHandler struct {
		coordinator *coordinator.Coordinator
		validator   *validator.Validate
	}
)

func NewConsumptionHandler(coord *coordinator.Coordinator, validator *validator.Validate) ConsumptionHandler {
	return &consumptionHandler{
		coordinator: coord,
		validator:   validator,
	}
}

func (h *consumptionHandler) RecordConsumption(c *fiber.Ctx) error {
	req := new(domain.RecordConsumptionRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRecordConsumption, err)
	}

	product, err := h.product(c, req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedRecordConsumption, err)
	}

	entry, err := h.coordinator.RecordConsumption(c.Context(), product)
	var partial *domain.PartialConsumptionError
	switch {
	case err == nil:
		return presenters.SuccessResponse(c, entry, fiber.StatusCreated, domain.MessageSuccessRecordConsumption)
	case errors.As(err, &partial):
		return presenters.PartialResponse(c, partial.Entry, domain.MessagePartialRecordConsumption, partial.Cause)
	case errors.Is(err, domain.ErrNotAuthenticated):
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedRecordConsumption, err)
	default:
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRecordConsumption, err)
	}
}

// product resolves the request to a catalog product, or builds one from the
// inline fields when no product id is given.
func (h *consumptionHandler) product(c *fiber.Ctx, req *domain.RecordConsumptionRequest) (domain.Product, error) {
	if req.ProductID == "" {
		return domain.Product{
			Name:     req.Name,
			Category: domain.Category(req.Category),
			Kcal:     req.Kcal,
			ImageURL: req.ImageURL,
		}, nil
	}

	if p, err := h.coordinator.Product(req.ProductID); err == nil {
		return p, nil
	}
	if err := h.coordinator.FetchProductCatalog(c.Context()); err != nil {
		return domain.Product{}, err
	}
	return h.coordinator.Product(req.ProductID)
}

func (h *consumptionHandler) GetConsumptions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.coordinator.FetchConsumptionLog(c.Context()); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedGetConsumptions, err)
	}
	entries := stats.FilterByUser(h.coordinator.ConsumptionLog().Get(), userID)
	return presenters.SuccessResponse(c, entries, fiber.StatusOK, domain.MessageSuccessGetConsumptions)
}

func (h *consumptionHandler) GetDailyTotals(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.coordinator.FetchAllDailyTotals(c.Context()); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedGetDailyTotals, err)
	}
	totals := []domain.DailyTotal{}
	for _, t := range h.coordinator.DailyTotals().Get() {
		if t.UserID == userID {
			totals = append(totals, t)
		}
	}
	return presenters.SuccessResponse(c, totals, fiber.StatusOK, domain.MessageSuccessGetDailyTotals)
}

func (h *consumptionHandler) GetDailyTotalsForDate(c *fiber.Ctx) error {
	err := h.coordinator.FetchDailyTotalsForDate(c.Context(), c.Params("date"))
	switch {
	case errors.Is(err, domain.ErrInvalidDate):
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDailyTotals, err)
	case errors.Is(err, domain.ErrNotAuthenticated):
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetDailyTotals, err)
	case err != nil:
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedGetDailyTotals, err)
	}
	return presenters.SuccessResponse(c, h.coordinator.DailyTotals().Get(), fiber.StatusOK, domain.MessageSuccessGetDailyTotals)
}
