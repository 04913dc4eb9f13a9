package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/service/whatsapp"
)

type WhatsAppHandler struct {
	svc whatsapp.Service
}

func NewWhatsAppHandler(svc whatsapp.Service) *WhatsAppHandler {
	return &WhatsAppHandler{svc: svc}
}

func mapWhatsAppError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, whatsapp.ErrTemplateNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, whatsapp.ErrEmptyTemplate),
		errors.Is(err, whatsapp.ErrNoContacts):
		return badRequest(c, err.Error())
	default:
		return mapCommonError(c, err)
	}
}

// GET /whatsapp/templates
func (h *WhatsAppHandler) ListTemplates(c fiber.Ctx) error {
	if _, _, authOK := actor(c); !authOK {
		return unauthorized(c)
	}

	templates, err := h.svc.ListTemplates(c.Context())
	if err != nil {
		return mapWhatsAppError(c, err)
	}
	return ok(c, templates)
}

// POST /whatsapp/templates
func (h *WhatsAppHandler) CreateTemplate(c fiber.Ctx) error {
	if _, _, authOK := actor(c); !authOK {
		return unauthorized(c)
	}

	var body struct {
		Name            string `json:"name"`
		Subject         string `json:"subject"`
		MessageTemplate string `json:"message_template"`
		Category        string `json:"category"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	tpl, err := h.svc.CreateTemplate(c.Context(), whatsapp.CreateTemplateRequest{
		Name:            body.Name,
		Subject:         body.Subject,
		MessageTemplate: body.MessageTemplate,
		Category:        body.Category,
	})
	if err != nil {
		return mapWhatsAppError(c, err)
	}
	return created(c, tpl)
}

// POST /whatsapp/dispatch
func (h *WhatsAppHandler) Dispatch(c fiber.Ctx) error {
	if _, _, authOK := actor(c); !authOK {
		return unauthorized(c)
	}

	var body struct {
		TemplateID string             `json:"template_id"`
		Message    string             `json:"message"`
		Contacts   []whatsapp.Contact `json:"contacts"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := h.svc.Dispatch(c.Context(), whatsapp.DispatchRequest{
		TemplateID: body.TemplateID,
		Message:    body.Message,
		Contacts:   body.Contacts,
	})
	if err != nil {
		return mapWhatsAppError(c, err)
	}
	return ok(c, result)
}
