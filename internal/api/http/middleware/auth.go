package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/model"
	"github.com/konselapp/konsel_backend/internal/service/user"
	pasetotoken "github.com/konselapp/konsel_backend/pkg/paseto"
	"github.com/konselapp/konsel_backend/pkg/sessionmgr"
)

const LocalsSession = "auth.session"

// AuthRequired validates a Bearer PASETO access token and checks the server
// side session behind it. Validation refreshes the session's activity
// timestamp, so an idle session eventually expires even with a valid token.
// On success the claims and session are stored in locals.
func AuthRequired(mgr *pasetotoken.Manager, users user.Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		h := c.Get("Authorization")
		if h == "" {
			return fiber.ErrUnauthorized
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.ErrUnauthorized
		}

		claims, err := mgr.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.ErrUnauthorized
		}

		// Only access tokens are accepted on protected routes
		if claims.Type != pasetotoken.TokenTypeAccess {
			return fiber.ErrUnauthorized
		}

		if claims.SessionID == nil {
			return fiber.ErrUnauthorized
		}
		sess, err := users.ValidateSession(c.Context(), claims.SessionID.String())
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals(pasetotoken.CtxKeyClaims, claims)
		c.Locals(LocalsSession, sess)
		return c.Next()
	}
}

// SessionFromFiber retrieves the validated session stored by AuthRequired.
func SessionFromFiber(c fiber.Ctx) (sessionmgr.Session, bool) {
	v := c.Locals(LocalsSession)
	sess, ok := v.(sessionmgr.Session)
	return sess, ok
}

// RoleFromFiber resolves the authenticated user's role from the session.
func RoleFromFiber(c fiber.Ctx) (model.Role, bool) {
	sess, ok := SessionFromFiber(c)
	if !ok {
		return model.RoleUnknown, false
	}
	role, err := model.ParseRole(sess.Role)
	if err != nil {
		return model.RoleUnknown, false
	}
	return role, true
}
