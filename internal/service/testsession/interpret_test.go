package testsession

import (
	"context"
	"testing"

	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
)

func TestLevelThresholds(t *testing.T) {
	tests := []struct {
		average float64
		want    Level
	}{
		{5, LevelHigh},
		{4, LevelHigh},
		{3.9, LevelMedium},
		{3, LevelMedium},
		{2.9, LevelLow},
		{1, LevelLow},
	}
	for _, tt := range tests {
		if got := levelFor(tt.average); got != tt.want {
			t.Errorf("levelFor(%v) = %q, want %q", tt.average, got, tt.want)
		}
	}
}

func TestPolarity(t *testing.T) {
	tests := []struct {
		name  string
		kind  CategoryKind
		level Level
		want  bool
	}{
		{"high personality is a strength", KindPersonality, LevelHigh, false},
		{"low personality needs attention", KindPersonality, LevelLow, true},
		{"high mental health needs attention", KindMentalHealth, LevelHigh, true},
		{"low mental health is fine", KindMentalHealth, LevelLow, false},
		{"medium is never flagged", KindMentalHealth, LevelMedium, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := needsAttention(tt.kind, tt.level); got != tt.want {
				t.Errorf("needsAttention(%q, %q) = %v, want %v", tt.kind, tt.level, got, tt.want)
			}
		})
	}
}

func TestInterpretSessionBothPolarities(t *testing.T) {
	ctx := context.Background()

	run := func(t *testing.T, category string, optionIdx int) []Interpretation {
		t.Helper()
		gw := gateway.NewMemoryGateway()
		svc := New(gw)

		templateID := seedTemplate(t, gw, category, true, twoFocusQuestions())
		qids := questionIDs(t, gw, templateID)
		sess, err := svc.StartSession(ctx, "u-1", templateID)
		if err != nil {
			t.Fatalf("StartSession() error: %v", err)
		}
		for _, qid := range qids {
			if _, err := svc.Answer(ctx, AnswerRequest{
				SessionID: sess.ID, UserID: "u-1", QuestionID: qid, OptionIndex: optionIdx,
			}); err != nil {
				t.Fatalf("Answer() error: %v", err)
			}
		}
		if _, err := svc.Submit(ctx, sess.ID, "u-1"); err != nil {
			t.Fatalf("Submit() error: %v", err)
		}
		out, err := svc.InterpretSession(ctx, sess.ID, "u-1", model.RoleStudent)
		if err != nil {
			t.Fatalf("InterpretSession() error: %v", err)
		}
		return out
	}

	// Both answers at index 4 score 4 each: average 4, level high.
	t.Run("personality high is favorable", func(t *testing.T) {
		out := run(t, "personality", 4)
		if len(out) != 1 {
			t.Fatalf("got %d interpretations, want 1", len(out))
		}
		if out[0].Level != LevelHigh {
			t.Errorf("level = %q, want high", out[0].Level)
		}
		if out[0].NeedsAttention {
			t.Error("high personality score must not be flagged")
		}
	})

	t.Run("mental health high is flagged", func(t *testing.T) {
		out := run(t, "mental_health", 4)
		if len(out) != 1 {
			t.Fatalf("got %d interpretations, want 1", len(out))
		}
		if out[0].Level != LevelHigh {
			t.Errorf("level = %q, want high", out[0].Level)
		}
		if !out[0].NeedsAttention {
			t.Error("high mental-health score must be flagged")
		}
	})

	t.Run("average not raw sum drives the level", func(t *testing.T) {
		// Index 3 scores 3 on both questions: sum 6, average 3, medium.
		out := run(t, "personality", 3)
		if out[0].Score != 6 {
			t.Errorf("score = %d, want raw sum 6", out[0].Score)
		}
		if out[0].Level != LevelMedium {
			t.Errorf("level = %q, want medium for average 3", out[0].Level)
		}
	})
}
