package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/model"
	"github.com/konselapp/konsel_backend/internal/service/schedule"
)

type ScheduleHandler struct {
	svc schedule.Service
}

func NewScheduleHandler(svc schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

func mapScheduleError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, schedule.ErrUnauthorized):
		return forbidden(c)
	case errors.Is(err, schedule.ErrEmptyStudent),
		errors.Is(err, schedule.ErrZeroTime),
		errors.Is(err, schedule.ErrInvalidStatus):
		return badRequest(c, err.Error())
	default:
		return mapCommonError(c, err)
	}
}

// POST /schedules
func (h *ScheduleHandler) Create(c fiber.Ctx) error {
	userID, role, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	var body struct {
		StudentID   string    `json:"student_id"`
		ScheduledAt time.Time `json:"scheduled_at"`
		Topic       string    `json:"topic"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	sched, err := h.svc.Create(c.Context(), userID, role, schedule.CreateInput{
		StudentID:   body.StudentID,
		ScheduledAt: body.ScheduledAt,
		Topic:       body.Topic,
	})
	if err != nil {
		return mapScheduleError(c, err)
	}
	return created(c, sched)
}

// GET /schedules
func (h *ScheduleHandler) List(c fiber.Ctx) error {
	userID, role, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	rows, err := h.svc.List(c.Context(), userID, role)
	if err != nil {
		return mapScheduleError(c, err)
	}
	return ok(c, rows)
}

// PATCH /schedules/:id/status
func (h *ScheduleHandler) UpdateStatus(c fiber.Ctx) error {
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

	if err := h.svc.UpdateStatus(c.Context(), role, c.Params("id"), model.ScheduleStatus(body.Status)); err != nil {
		return mapScheduleError(c, err)
	}
	return noContent(c)
}
