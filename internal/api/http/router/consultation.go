package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/api/http/handler"
	"github.com/konselapp/konsel_backend/pkg/authorize"
)

func (r *Router) registerConsultationRoutes(
	api fiber.Router,
	h *handler.ConsultationHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	group := api.Group("/consultations", authRequired)

	group.Post("/", requirePerm(authorize.ResourceConsultation, authorize.ActionCreate), h.Create)
	group.Get("/", requirePerm(authorize.ResourceConsultation, authorize.ActionList), h.List)
	group.Get("/:id", requirePerm(authorize.ResourceConsultation, authorize.ActionRead), h.Get)
	group.Get("/:id/messages", requirePerm(authorize.ResourceConsultationMessage, authorize.ActionList), h.ListMessages)
	group.Post("/:id/messages", requirePerm(authorize.ResourceConsultationMessage, authorize.ActionCreate), h.PostMessage)
	group.Post("/:id/acknowledge", requirePerm(authorize.ResourceConsultation, authorize.ActionAcknowledge), h.Acknowledge)
	group.Patch("/:id/status", requirePerm(authorize.ResourceConsultation, authorize.ActionUpdate), h.OverrideStatus)
}
