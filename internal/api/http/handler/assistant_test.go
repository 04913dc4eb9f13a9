package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/service/assistant"
)

func TestAssistantFallbackRoute(t *testing.T) {
	svc := assistant.New(gateway.NewMemoryGateway(), nil, nil, assistant.Options{}, nil)
	h := NewAssistantHandler(svc)

	app := fiber.New()
	app.Post("/assistant/fallback", h.Fallback)

	tests := []struct {
		name string
		body string
	}{
		{"known topic", `{"message":"bagaimana cara memulai konsultasi?"}`},
		{"unknown topic", `{"message":"xyzzy"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/assistant/fallback", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			res, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer res.Body.Close()

			if res.StatusCode != fiber.StatusOK {
				t.Fatalf("status = %d, want 200", res.StatusCode)
			}
			var out struct {
				Response string `json:"response"`
			}
			if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if strings.TrimSpace(out.Response) == "" {
				t.Error("fallback response must never be empty")
			}
		})
	}
}
