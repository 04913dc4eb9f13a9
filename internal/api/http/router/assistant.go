package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/api/http/handler"
	"github.com/konselapp/konsel_backend/pkg/authorize"
)

func (r *Router) registerAssistantRoutes(
	api fiber.Router,
	h *handler.AssistantHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	// Versioned alias of /api/enhanced-ai-chat, same handler.
	api.Post("/assistant/chat", authRequired, requirePerm(authorize.ResourceAssistant, authorize.ActionExecute), h.Chat)

	// Offline responder; no provider credentials involved.
	api.Post("/assistant/fallback", authRequired, h.Fallback)
}
