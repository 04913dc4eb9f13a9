package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/api/http/handler"
)

func (r *Router) registerTestRoutes(api fiber.Router, h *handler.TestHandler, authRequired fiber.Handler) {
	tests := api.Group("/tests", authRequired)
	tests.Get("/", h.ListTemplates)
	tests.Get("/:id", h.GetTemplate)
	tests.Post("/:id/sessions", h.StartSession)

	sessions := api.Group("/test-sessions", authRequired)
	sessions.Get("/", h.ListSessions)
	sessions.Get("/:id", h.GetSession)
	sessions.Post("/:id/answers", h.Answer)
	sessions.Post("/:id/submit", h.Submit)
	sessions.Get("/:id/interpretation", h.Interpret)
}
