package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/model"
	"github.com/konselapp/konsel_backend/internal/service/consultation"
)

type ConsultationHandler struct {
	svc consultation.Service
}

func NewConsultationHandler(svc consultation.Service) *ConsultationHandler {
	return &ConsultationHandler{svc: svc}
}

func mapConsultationError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, consultation.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, consultation.ErrUnauthorized):
		return forbidden(c)
	case errors.Is(err, consultation.ErrAlreadyResolved):
		return conflict(c, err.Error())
	case errors.Is(err, consultation.ErrEmptyTitle),
		errors.Is(err, consultation.ErrEmptyDescription),
		errors.Is(err, consultation.ErrEmptyMessage),
		errors.Is(err, consultation.ErrInvalidStatus):
		return badRequest(c, err.Error())
	default:
		return mapCommonError(c, err)
	}
}

// POST /consultations
func (h *ConsultationHandler) Create(c fiber.Ctx) error {
	userID, _, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	cons, err := h.svc.Create(c.Context(), consultation.CreateRequest{
		StudentID:   userID,
		Title:       body.Title,
		Description: body.Description,
	})
	if err != nil {
		return mapConsultationError(c, err)
	}
	return created(c, cons)
}

// GET /consultations
func (h *ConsultationHandler) List(c fiber.Ctx) error {
	userID, role, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	rows, err := h.svc.List(c.Context(), userID, role)
	if err != nil {
		return mapConsultationError(c, err)
	}
	return ok(c, rows)
}

// GET /consultations/:id
func (h *ConsultationHandler) Get(c fiber.Ctx) error {
	userID, role, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	cons, err := h.svc.Get(c.Context(), c.Params("id"), userID, role)
	if err != nil {
		return mapConsultationError(c, err)
	}
	return ok(c, cons)
}

// GET /consultations/:id/messages
func (h *ConsultationHandler) ListMessages(c fiber.Ctx) error {
	userID, role, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	msgs, err := h.svc.ListMessages(c.Context(), c.Params("id"), userID, role)
	if err != nil {
		return mapConsultationError(c, err)
	}
	return ok(c, msgs)
}

// POST /consultations/:id/acknowledge
func (h *ConsultationHandler) Acknowledge(c fiber.Ctx) error {
	_, role, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	changed, err := h.svc.Acknowledge(c.Context(), c.Params("id"), role)
	if err != nil {
		return mapConsultationError(c, err)
	}
	return ok(c, fiber.Map{"acknowledged": changed})
}

// POST /consultations/:id/messages
func (h *ConsultationHandler) PostMessage(c fiber.Ctx) error {
	userID, role, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	msg, err := h.svc.PostMessage(c.Context(), consultation.PostMessageRequest{
		ConsultationID: c.Params("id"),
		SenderID:       userID,
		Role:           role,
		Message:        body.Message,
	})
	if err != nil {
		return mapConsultationError(c, err)
	}
	return created(c, msg)
}

// PATCH /consultations/:id/status
func (h *ConsultationHandler) OverrideStatus(c fiber.Ctx) error {
	_, role, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.svc.OverrideStatus(c.Context(), c.Params("id"), model.ConsultationStatus(body.Status), role); err != nil {
		return mapConsultationError(c, err)
	}
	return noContent(c)
}
