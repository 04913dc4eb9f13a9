package middleware

import (
	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/pkg/authorize"
	pasetotoken "github.com/konselapp/konsel_backend/pkg/paseto"
)

// RequirePermission checks the authenticated user's permission on a shared
// school resource. Superadmins pass regardless of domain.
func RequirePermission(auth authorize.IAuthorization, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return requireIn(auth, authorize.DomainSchool, resource, action)
}

// RequireSelfPermission checks a permission inside the caller's private
// user domain.
func RequireSelfPermission(auth authorize.IAuthorization, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, ok := pasetotoken.ClaimsFromFiber(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		domain := authorize.UserDomain(claims.UserID.String())
		return enforce(c, auth, domain, resource, action)
	}
}

func requireIn(auth authorize.IAuthorization, domain authorize.Domain, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		if _, ok := pasetotoken.ClaimsFromFiber(c); !ok {
			return fiber.ErrUnauthorized
		}
		return enforce(c, auth, domain, resource, action)
	}
}

func enforce(c fiber.Ctx, auth authorize.IAuthorization, domain authorize.Domain, resource authorize.Resource, action authorize.Action) error {
	claims, ok := pasetotoken.ClaimsFromFiber(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	subject := authorize.GroupSubject(claims.UserID.String())
	if err := auth.MustEnforce(c.Context(), subject, domain, resource, action); err != nil {
		if err == authorize.ErrForbidden {
			return fiber.ErrForbidden
		}
		return err
	}
	return c.Next()
}
