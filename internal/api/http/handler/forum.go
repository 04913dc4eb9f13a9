package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/service/forum"
)

type ForumHandler struct {
	svc forum.Service
}

func NewForumHandler(svc forum.Service) *ForumHandler {
	return &ForumHandler{svc: svc}
}

// POST /forum/topics
func (h *ForumHandler) Create(c fiber.Ctx) error {
	userID, _, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	var body forum.CreateInput
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	topic, err := h.svc.Create(c.Context(), userID, body)
	if err != nil {
		if errors.Is(err, forum.ErrEmptyTitle) || errors.Is(err, forum.ErrEmptyContent) {
			return badRequest(c, err.Error())
		}
		return mapCommonError(c, err)
	}
	return created(c, topic)
}

// GET /forum/topics
func (h *ForumHandler) List(c fiber.Ctx) error {
	if _, _, authOK := actor(c); !authOK {
		return unauthorized(c)
	}

	topics, err := h.svc.List(c.Context())
	if err != nil {
		return mapCommonError(c, err)
	}
	return ok(c, topics)
}
