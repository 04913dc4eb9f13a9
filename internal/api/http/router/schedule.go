package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/api/http/handler"
	"github.com/konselapp/konsel_backend/pkg/authorize"
)

func (r *Router) registerScheduleRoutes(
	api fiber.Router,
	h *handler.ScheduleHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	group := api.Group("/schedules", authRequired)

	group.Get("/", requirePerm(authorize.ResourceSchedule, authorize.ActionList), h.List)
	group.Post("/", requirePerm(authorize.ResourceSchedule, authorize.ActionCreate), h.Create)
	group.Patch("/:id/status", requirePerm(authorize.ResourceSchedule, authorize.ActionUpdate), h.UpdateStatus)
}
