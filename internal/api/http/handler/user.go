package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/service/user"
)

type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func mapUserError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, user.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, user.ErrUnauthorized):
		return forbidden(c)
	case errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrInvalidRole):
		return badRequest(c, err.Error())
	case errors.Is(err, user.ErrEmailExists):
		return conflict(c, err.Error())
	default:
		return mapCommonError(c, err)
	}
}

// POST /users
func (h *UserHandler) Create(c fiber.Ctx) error {
	_, role, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	var body user.CreateUserInput
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	profile, err := h.svc.CreateUser(c.Context(), role, body)
	if err != nil {
		return mapUserError(c, err)
	}
	return created(c, profile)
}

// DELETE /users/:id
func (h *UserHandler) Delete(c fiber.Ctx) error {
	_, role, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	if err := h.svc.DeleteUser(c.Context(), role, c.Params("id")); err != nil {
		return mapUserError(c, err)
	}
	return noContent(c)
}

// PATCH /users/:id/role
func (h *UserHandler) UpdateRole(c fiber.Ctx) error {
	_, role, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	profile, err := h.svc.UpdateRole(c.Context(), role, c.Params("id"), body.Role)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, profile)
}

// GET /users/:id
func (h *UserHandler) Get(c fiber.Ctx) error {
	if _, _, authOK := actor(c); !authOK {
		return unauthorized(c)
	}

	profile, err := h.svc.GetProfile(c.Context(), c.Params("id"))
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, profile)
}

// GET /students?q=<name or NIS>
func (h *UserHandler) ListStudents(c fiber.Ctx) error {
	if _, _, authOK := actor(c); !authOK {
		return unauthorized(c)
	}

	q := c.Query("q")
	var err error
	var students any
	if q == "" {
		students, err = h.svc.ListStudents(c.Context())
	} else {
		students, err = h.svc.SearchStudents(c.Context(), q)
	}
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, students)
}
