package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/api/http/middleware"
	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
	pasetotoken "github.com/konselapp/konsel_backend/pkg/paseto"
)

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

func created(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func noContent(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}

func forbidden(c fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
}

func notFound(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}

func conflict(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msg})
}

func badGateway(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": msg})
}

func internalError(c fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// mapCommonError handles failure modes shared by every domain, currently
// just remote store outages.
func mapCommonError(c fiber.Ctx, err error) error {
	if errors.Is(err, gateway.ErrRemote) {
		return badGateway(c, "data store unavailable")
	}
	return internalError(c)
}

// actor resolves the authenticated user and role set by AuthRequired.
func actor(c fiber.Ctx) (string, model.Role, bool) {
	claims, ok := pasetotoken.ClaimsFromFiber(c)
	if !ok {
		return "", model.RoleUnknown, false
	}
	role, ok := middleware.RoleFromFiber(c)
	if !ok {
		return "", model.RoleUnknown, false
	}
	return claims.UserID.String(), role, true
}
