package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/service/behavior"
)

type BehaviorHandler struct {
	svc behavior.Service
}

func NewBehaviorHandler(svc behavior.Service) *BehaviorHandler {
	return &BehaviorHandler{svc: svc}
}

func mapBehaviorError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, behavior.ErrUnauthorized):
		return forbidden(c)
	case errors.Is(err, behavior.ErrEmptyStudent),
		errors.Is(err, behavior.ErrEmptyDescription),
		errors.Is(err, behavior.ErrInvalidSeverity):
		return badRequest(c, err.Error())
	default:
		return mapCommonError(c, err)
	}
}

// POST /behavior-records
func (h *BehaviorHandler) Create(c fiber.Ctx) error {
	userID, role, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	var body behavior.CreateInput
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	rec, err := h.svc.Create(c.Context(), userID, role, body)
	if err != nil {
		return mapBehaviorError(c, err)
	}
	return created(c, rec)
}

// GET /students/:id/behavior-records
func (h *BehaviorHandler) ListForStudent(c fiber.Ctx) error {
	_, role, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	rows, err := h.svc.ListForStudent(c.Context(), role, c.Params("id"))
	if err != nil {
		return mapBehaviorError(c, err)
	}
	return ok(c, rows)
}
