package handlers

import (
	"Snack-Tracker/domain"
	"Snack-Tracker/internal/api/presenters"
	"Snack-Tracker/internal/utils/storage"
	"Snack-Tracker/pkg/coordinator"
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ProductHandler interface {
		GetProducts(c *fiber.Ctx) error
		SaveProduct(c *fiber.Ctx) error
		UploadProductImage(c *fiber.Ctx) error
	}

	productHandler struct {
		coordinator *coordinator.Coordinator
		validator   *validator.Validate
	}
)

func NewProductHandler(coord *coordinator.Coordinator, validator *validator.Validate) ProductHandler {
	return &productHandler{
		coordinator: coord,
		validator:   validator,
	}
}

func (h *productHandler) GetProducts(c *fiber.Ctx) error {
	if err := h.coordinator.FetchProductCatalog(c.Context()); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedGetProducts, err)
	}
	return presenters.SuccessResponse(c, h.coordinator.Catalog().Get(), fiber.StatusOK, domain.MessageSuccessGetProducts)
}

func (h *productHandler) SaveProduct(c *fiber.Ctx) error {
	req := new(domain.SaveProductRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInvalidProduct, err)
	}

	product, err := h.coordinator.SaveProduct(c.Context(), req.Product())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedSaveProduct, err)
	}
	return presenters.SuccessResponse(c, product, fiber.StatusCreated, domain.MessageSuccessSaveProduct)
}

func (h *productHandler) UploadProductImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	src, err := file.Open()
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}

	url, err := h.coordinator.UploadImage(c.Context(), data, file.Header.Get(fiber.HeaderContentType))
	if err != nil {
		status := fiber.StatusBadGateway
		if errors.Is(err, domain.ErrEmptyImage) || errors.Is(err, storage.ErrContentTypeNotAllowed) {
			status = fiber.StatusBadRequest
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedUploadImage, err)
	}
	return presenters.SuccessResponse(c, domain.UploadImageResponse{ImageURL: url}, fiber.StatusCreated, domain.MessageSuccessUploadImage)
}
