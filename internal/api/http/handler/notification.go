package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/service/notification"
)

type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func mapNotificationError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, notification.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, notification.ErrNoUser),
		errors.Is(err, notification.ErrEmptyTitle):
		return badRequest(c, err.Error())
	default:
		return mapCommonError(c, err)
	}
}

// GET /notifications
func (h *NotificationHandler) List(c fiber.Ctx) error {
	userID, _, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	var q struct {
		UnreadOnly bool `query:"unread_only"`
	}
	_ = c.Bind().Query(&q)

	rows, err := h.svc.List(c.Context(), userID, q.UnreadOnly)
	if err != nil {
		return mapNotificationError(c, err)
	}
	return ok(c, rows)
}

// PATCH /notifications/:id/read
func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	userID, _, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	if err := h.svc.MarkRead(c.Context(), userID, c.Params("id")); err != nil {
		return mapNotificationError(c, err)
	}
	return noContent(c)
}

// PATCH /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c fiber.Ctx) error {
	userID, _, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	n, err := h.svc.MarkAllRead(c.Context(), userID)
	if err != nil {
		return mapNotificationError(c, err)
	}
	return ok(c, fiber.Map{"updated": n})
}
