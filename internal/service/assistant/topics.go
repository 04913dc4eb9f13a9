package assistant

import "strings"

// Topic ties a name to the keyword list that routes a chat message to a
// database lookup. The table is configurable; the defaults cover the topics
// the app's students actually ask about, in Indonesian and English.
type Topic struct {
	Name     string
	Keywords []string
}

func DefaultTopics() []Topic {
	return []Topic{
		{
			Name: TopicConsultation,
			Keywords: []string{
				"konsultasi", "curhat", "masalah saya",
				"consultation", "counseling",
			},
		},
		{
			Name: TopicTestResults,
			Keywords: []string{
				"tes psikologi", "psikotes", "hasil tes", "kepribadian",
				"psychology test", "test result", "personality",
			},
		},
		{
			Name: TopicBehavior,
			Keywords: []string{
				"perilaku", "pelanggaran", "kedisiplinan", "catatan siswa",
				"behavior", "discipline", "violation",
			},
		},
		{
			Name: TopicSchedule,
			Keywords: []string{
				"jadwal", "janji temu", "bimbingan",
				"schedule", "appointment",
			},
		},
		// Last so that "catatan siswa" still routes to behavior.
		{
			Name: TopicStudents,
			Keywords: []string{
				"siswa", "data siswa", "murid", "daftar siswa",
				"student", "students",
			},
		},
	}
}

const (
	TopicStudents     = "students"
	TopicConsultation = "consultation"
	TopicTestResults  = "test_results"
	TopicBehavior     = "behavior"
	TopicSchedule     = "schedule"
)

// classifier matches messages against the topic table. First topic with a
// keyword hit wins; table order is priority order.
type classifier struct {
	topics []Topic
}

func newClassifier(topics []Topic) *classifier {
	if len(topics) == 0 {
		topics = DefaultTopics()
	}
	normalized := make([]Topic, 0, len(topics))
	for _, t := range topics {
		keywords := make([]string, 0, len(t.Keywords))
		for _, k := range t.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				keywords = append(keywords, k)
			}
		}
		if t.Name == "" || len(keywords) == 0 {
			continue
		}
		normalized = append(normalized, Topic{Name: t.Name, Keywords: keywords})
	}
	return &classifier{topics: normalized}
}

// Classify returns the matched topic name, or "" when the message matches
// nothing.
func (c *classifier) Classify(message string) string {
	lowered := strings.ToLower(message)
	for _, t := range c.topics {
		for _, k := range t.Keywords {
			if strings.Contains(lowered, k) {
				return t.Name
			}
		}
	}
	return ""
}
