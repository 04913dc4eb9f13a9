package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/service/assistant"
	"github.com/konselapp/konsel_backend/pkg/llm"
)

type AssistantHandler struct {
	svc assistant.Service
}

func NewAssistantHandler(svc assistant.Service) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

// Chat serves POST /api/enhanced-ai-chat and its /api/v1 alias. Provider and
// search failures never surface as HTTP errors; the pipeline degrades to a
// usable reply instead.
func (h *AssistantHandler) Chat(c fiber.Ctx) error {
	userID, role, authOK := actor(c)
	if !authOK {
		return unauthorized(c)
	}

	var body struct {
		Message      string `json:"message"`
		EnableSearch bool   `json:"enableSearch"`
		EnableDB     bool   `json:"enableDatabase"`
		AIProvider   string `json:"aiProvider"`
		History      []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"history"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	history := make([]llm.Message, 0, len(body.History))
	for _, m := range body.History {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}

	resp, err := h.svc.Chat(c.Context(), assistant.ChatRequest{
		Message:      body.Message,
		UserID:       userID,
		Role:         role,
		History:      history,
		EnableSearch: body.EnableSearch,
		EnableDB:     body.EnableDB,
		Provider:     body.AIProvider,
	})
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyMessage) {
			return badRequest(c, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(resp)
}

// Fallback serves the deterministic rule-based responder. Clients call it
// when the chat pipeline is unreachable; it never touches a provider and
// always returns a non-empty reply.
func (h *AssistantHandler) Fallback(c fiber.Ctx) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	return c.JSON(fiber.Map{"response": h.svc.Fallback(body.Message)})
}
