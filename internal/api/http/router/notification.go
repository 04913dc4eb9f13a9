package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/api/http/handler"
)

func (r *Router) registerNotificationRoutes(api fiber.Router, h *handler.NotificationHandler, authRequired fiber.Handler) {
	group := api.Group("/notifications", authRequired)

	group.Get("/", h.List)
	group.Patch("/read-all", h.MarkAllRead)
	group.Patch("/:id/read", h.MarkRead)
}
