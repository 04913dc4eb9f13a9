package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/service/testsession"
)

type TestHandler struct {
	svc testsession.Service
}

func NewTestHandler(svc testsession.Service) *TestHandler {
	return &TestHandler{svc: svc}
}

func mapTestError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, testsession.ErrTemplateNotFound),
		errors.Is(err, testsession.ErrSessionNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, testsession.ErrUnauthorized):
		return forbidden(c)
	case errors.Is(err, testsession.ErrSessionCompleted):
		return conflict(c, err.Error())
	case errors.Is(err, testsession.ErrTemplateInactive),
		errors.Is(err, testsession.ErrQuestionNotFound),
		errors.Is(err, testsession.ErrAnswerOutOfRange):
		return badRequest(c, err.Error())
	default:
		return mapCommonError(c, err)
	}
}

// GET /tests
func (h *TestHandler) ListTemplates(c fiber.Ctx) error {
	if _, _, authOK := actor(c); !authOK {
		return unauthorized(c)
	}

	templates, err := h.svc.ListTemplates(c.Context())
	if err != nil {
		return mapTestError(c, err)
	}
	return ok(c, templates)
}

// GET /tests/:id
func (h *TestHandler) GetTemplate(c fiber.Ctx) error {
	if _, _, authOK := actor(c); !authOK {
		return unauthorized(c)
	}

	template, questions, err := h.svc.GetTemplate(c.Context(), c.Params("id"))
	if err != nil {
		return mapTestError(c, err)
	}
	return ok(c, fiber.Map{"template": template, "questions": questions})
}

// POST /tests/:id/sessions
func (h *TestHandler) StartSession(c fiber.Ctx) error {
	userID, _, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	sess, err := h.svc.StartSession(c.Context(), userID, c.Params("id"))
	if err != nil {
		return mapTestError(c, err)
	}
	return created(c, sess)
}

// GET /test-sessions
func (h *TestHandler) ListSessions(c fiber.Ctx) error {
	userID, _, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	sessions, err := h.svc.ListSessions(c.Context(), userID)
	if err != nil {
		return mapTestError(c, err)
	}
	return ok(c, sessions)
}

// GET /test-sessions/:id
func (h *TestHandler) GetSession(c fiber.Ctx) error {
	userID, role, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	sess, err := h.svc.GetSession(c.Context(), c.Params("id"), userID, role)
	if err != nil {
		return mapTestError(c, err)
	}
	return ok(c, sess)
}

// POST /test-sessions/:id/answers
func (h *TestHandler) Answer(c fiber.Ctx) error {
	userID, _, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	var body struct {
		QuestionID  string `json:"question_id"`
		OptionIndex int    `json:"option_index"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	sess, err := h.svc.Answer(c.Context(), testsession.AnswerRequest{
		SessionID:   c.Params("id"),
		UserID:      userID,
		QuestionID:  body.QuestionID,
		OptionIndex: body.OptionIndex,
	})
	if err != nil {
		return mapTestError(c, err)
	}
	return ok(c, sess)
}

// POST /test-sessions/:id/submit
func (h *TestHandler) Submit(c fiber.Ctx) error {
	userID, _, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	sess, err := h.svc.Submit(c.Context(), c.Params("id"), userID)
	if err != nil {
		return mapTestError(c, err)
	}
	return ok(c, sess)
}

// GET /test-sessions/:id/interpretation
func (h *TestHandler) Interpret(c fiber.Ctx) error {
	userID, role, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	interpretations, err := h.svc.InterpretSession(c.Context(), c.Params("id"), userID, role)
	if err != nil {
		return mapTestError(c, err)
	}
	return ok(c, interpretations)
}
