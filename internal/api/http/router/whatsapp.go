package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/api/http/handler"
	"github.com/konselapp/konsel_backend/pkg/authorize"
)

func (r *Router) registerWhatsAppRoutes(
	api fiber.Router,
	h *handler.WhatsAppHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	group := api.Group("/whatsapp", authRequired)

	group.Get("/templates", requirePerm(authorize.ResourceWhatsAppTemplate, authorize.ActionList), h.ListTemplates)
	group.Post("/templates", requirePerm(authorize.ResourceWhatsAppTemplate, authorize.ActionCreate), h.CreateTemplate)
	group.Post("/dispatch", requirePerm(authorize.ResourceWhatsAppDispatch, authorize.ActionExecute), h.Dispatch)
}
