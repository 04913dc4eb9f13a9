package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/api/http/handler"
	"github.com/konselapp/konsel_backend/pkg/authorize"
)

func (r *Router) registerUserRoutes(
	api fiber.Router,
	uh *handler.UserHandler,
	bh *handler.BehaviorHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	users := api.Group("/users", authRequired)
	users.Post("/", requirePerm(authorize.ResourceUser, authorize.ActionCreate), uh.Create)
	users.Get("/:id", requirePerm(authorize.ResourceUser, authorize.ActionRead), uh.Get)
	users.Delete("/:id", requirePerm(authorize.ResourceUser, authorize.ActionDelete), uh.Delete)
	users.Patch("/:id/role", requirePerm(authorize.ResourceRBAC, authorize.ActionGrant), uh.UpdateRole)

	students := api.Group("/students", authRequired)
	students.Get("/", requirePerm(authorize.ResourceUser, authorize.ActionList), uh.ListStudents)
	students.Get("/:id/behavior-records", requirePerm(authorize.ResourceBehaviorRecord, authorize.ActionList), bh.ListForStudent)

	api.Post("/behavior-records", authRequired, requirePerm(authorize.ResourceBehaviorRecord, authorize.ActionCreate), bh.Create)
}
