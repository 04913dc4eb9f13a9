package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/service/user"
	pasetotoken "github.com/konselapp/konsel_backend/pkg/paseto"
)

type AuthHandler struct {
	svc user.Service
}

func NewAuthHandler(svc user.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func mapAuthError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrPasswordTooShort):
		return badRequest(c, err.Error())
	case errors.Is(err, user.ErrEmailExists):
		return conflict(c, err.Error())
	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrSessionNotFound):
		return unauthorized(c)
	default:
		return mapCommonError(c, err)
	}
}

// POST /auth/signup
func (h *AuthHandler) SignUp(c fiber.Ctx) error {
	var body user.SignUpInput
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	profile, err := h.svc.SignUp(c.Context(), body)
	if err != nil {
		return mapAuthError(c, err)
	}
	return created(c, profile)
}

// POST /auth/signin
func (h *AuthHandler) SignIn(c fiber.Ctx) error {
	var body user.SignInInput
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	tokens, err := h.svc.SignIn(c.Context(), body)
	if err != nil {
		return mapAuthError(c, err)
	}
	return ok(c, tokens)
}

// POST /auth/signout
func (h *AuthHandler) SignOut(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK || claims.SessionID == nil {
		return unauthorized(c)
	}

	if err := h.svc.SignOut(c.Context(), claims.SessionID.String()); err != nil {
		return mapAuthError(c, err)
	}
	return noContent(c)
}

// GET /auth/me
func (h *AuthHandler) Me(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	profile, err := h.svc.GetProfile(c.Context(), claims.UserID.String())
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c)
	}
	return ok(c, profile)
}
