package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/api/http/handler"
)

func (r *Router) registerForumRoutes(api fiber.Router, h *handler.ForumHandler, authRequired fiber.Handler) {
	group := api.Group("/forum/topics", authRequired)

	group.Get("/", h.List)
	group.Post("/", h.Create)
}
