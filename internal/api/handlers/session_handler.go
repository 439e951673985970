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
	SessionHandler interface {
		SignUp(c *fiber.Ctx) error
		SignIn(c *fiber.Ctx) error
		SignOut(c *fiber.Ctx) error
		Current(c *fiber.Ctx) error
	}

	sessionHandler struct {
		coordinator *coordinator.Coordinator
		validator   *validator.Validate
	}
)

func NewSessionHandler(coord *coordinator.Coordinator, validator *validator.Validate) SessionHandler {
	return &sessionHandler{
		coordinator: coord,
		validator:   validator,
	}
}

func (h *sessionHandler) SignUp(c *fiber.Ctx) error {
	req := new(domain.CredentialsRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSignUp, err)
	}

	if err := h.coordinator.SignUp(c.Context(), req.Email, req.Password); err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, domain.ErrEmailTaken) {
			status = fiber.StatusConflict
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedSignUp, err)
	}
	return presenters.SuccessResponse(c, h.session(), fiber.StatusCreated, domain.MessageSuccessSignUp)
}

func (h *sessionHandler) SignIn(c *fiber.Ctx) error {
	req := new(domain.CredentialsRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSignIn, err)
	}

	if err := h.coordinator.SignIn(c.Context(), req.Email, req.Password); err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, domain.ErrInvalidCredentials) {
			status = fiber.StatusUnauthorized
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedSignIn, err)
	}
	return presenters.SuccessResponse(c, h.session(), fiber.StatusOK, domain.MessageSuccessSignIn)
}

func (h *sessionHandler) SignOut(c *fiber.Ctx) error {
	h.coordinator.SignOut()
	return presenters.SuccessResponse(c, domain.SessionResponse{}, fiber.StatusOK, domain.MessageSuccessSignOut)
}

func (h *sessionHandler) Current(c *fiber.Ctx) error {
	userID := h.coordinator.UserIdentity().Get()
	return presenters.SuccessResponse(c, domain.SessionResponse{
		UserID:        userID,
		Authenticated: userID != "",
	}, fiber.StatusOK, domain.MessageSuccessGetSession)
}

func (h *sessionHandler) session() domain.Session {
	return domain.Session{
		UserID: h.coordinator.UserIdentity().Get(),
		Token:  h.coordinator.Token(),
	}
}
