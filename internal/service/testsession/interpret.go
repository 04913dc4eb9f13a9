package testsession

import (
	"sort"
	"strconv"

	"github.com/konselapp/konsel_backend/internal/model"
)

// CategoryKind controls the polarity of an interpretation. Personality
// inventories read high scores as strengths; mental-health screenings read
// high scores as flags.
type CategoryKind string

const (
	KindPersonality  CategoryKind = "personality"
	KindMentalHealth CategoryKind = "mental_health"
)

type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Interpretation is the per-category verdict for a completed session.
type Interpretation struct {
	Category       string  `json:"category"`
	Score          int     `json:"score"`
	Average        float64 `json:"average"`
	Level          Level   `json:"level"`
	NeedsAttention bool    `json:"needs_attention"`
}

// levelFor applies the threshold table: average >= 4 is high, >= 3 medium,
// anything lower is low.
func levelFor(average float64) Level {
	switch {
	case average >= 4:
		return LevelHigh
	case average >= 3:
		return LevelMedium
	default:
		return LevelLow
	}
}

// needsAttention applies polarity. A high mental-health score flags the
// student; a low personality score does.
func needsAttention(kind CategoryKind, level Level) bool {
	switch kind {
	case KindMentalHealth:
		return level == LevelHigh
	case KindPersonality:
		return level == LevelLow
	default:
		return false
	}
}

// InterpretResults turns raw category sums into leveled interpretations.
// Averages divide each category's sum by the number of questions answered
// into it, so partially answered tests are not punished.
func InterpretResults(kind CategoryKind, questions []model.TestQuestion, answers map[string]string, results model.TestResults) []Interpretation {
	answeredPerCategory := map[string]int{}
	for _, q := range questions {
		raw, ok := answers[q.ID]
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(raw)
		if err != nil || idx < 0 || idx >= len(q.Options) {
			continue
		}
		category := q.ScoringConfig.Category
		if category == "" {
			category = "general"
		}
		answeredPerCategory[category]++
	}

	out := make([]Interpretation, 0, len(results.CategoryScores))
	for _, category := range sortedCategories(results.CategoryScores) {
		sum := results.CategoryScores[category]
		count := answeredPerCategory[category]
		if count == 0 {
			continue
		}
		avg := float64(sum) / float64(count)
		level := levelFor(avg)
		out = append(out, Interpretation{
			Category:       category,
			Score:          sum,
			Average:        avg,
			Level:          level,
			NeedsAttention: needsAttention(kind, level),
		})
	}
	return out
}

func sortedCategories(scores map[string]int) []string {
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
