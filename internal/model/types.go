package model

import "time"

// Collection names as the data gateway knows them.
const (
	CollectionProfiles             = "profiles"
	CollectionConsultations        = "consultations"
	CollectionConsultationMessages = "consultation_messages"
	CollectionCounselingSchedules  = "counseling_schedules"
	CollectionBehaviorRecords      = "behavior_records"
	CollectionTestTemplates        = "psychology_test_templates"
	CollectionTestQuestions        = "psychology_test_questions"
	CollectionTestSessions         = "psychology_test_sessions"
	CollectionForumTopics          = "forum_topics"
	CollectionWhatsAppTemplates    = "whatsapp_templates"
	CollectionNotifications        = "notifications"
)

type ConsultationStatus string

const (
	ConsultationPending  ConsultationStatus = "pending"
	ConsultationOngoing  ConsultationStatus = "ongoing"
	ConsultationResolved ConsultationStatus = "resolved"
)

// Rank orders statuses for the monotonic-progression check. Unknown
// statuses rank below pending.
func (s ConsultationStatus) Rank() int {
	switch s {
	case ConsultationPending:
		return 1
	case ConsultationOngoing:
		return 2
	case ConsultationResolved:
		return 3
	default:
		return 0
	}
}

func (s ConsultationStatus) Valid() bool {
	return s.Rank() > 0
}

type Consultation struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      ConsultationStatus `json:"status"`
	StudentID   string             `json:"student_id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type ConsultationMessage struct {
	ID             string    `json:"id"`
	ConsultationID string    `json:"consultation_id"`
	SenderID       string    `json:"sender_id"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}

type QuestionType string

const (
	QuestionLikert         QuestionType = "likert"
	QuestionYesNo          QuestionType = "yes_no"
	QuestionFrequency      QuestionType = "frequency"
	QuestionAgreement      QuestionType = "agreement"
	QuestionMultipleChoice QuestionType = "multiple_choice"
)

type TestTemplate struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	DurationMinutes int       `json:"duration_minutes"`
	Instructions    string    `json:"instructions"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// ScoringConfig ties a question to the named category its answer scores
// into.
type ScoringConfig struct {
	Category string `json:"category"`
}

type TestQuestion struct {
	ID             string        `json:"id"`
	TestTemplateID string        `json:"test_template_id"`
	QuestionText   string        `json:"question_text"`
	QuestionType   QuestionType  `json:"question_type"`
	Options        []string      `json:"options"`
	OrderIndex     int           `json:"order_index"`
	ScoringConfig  ScoringConfig `json:"scoring_config"`
}

type TestSessionStatus string

const (
	TestSessionInProgress TestSessionStatus = "in_progress"
	TestSessionCompleted  TestSessionStatus = "completed"
)

// TestResults is the scoring outcome stored on a completed session.
type TestResults struct {
	CategoryScores       map[string]int `json:"category_scores"`
	TotalQuestions       int            `json:"total_questions"`
	AnsweredQuestions    int            `json:"answered_questions"`
	CompletionPercentage float64        `json:"completion_percentage"`
}

type TestSession struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	TestTemplateID string            `json:"test_template_id"`
	Status         TestSessionStatus `json:"status"`
	// Answers maps question id to the chosen option index, stored as the
	// string the client sent.
	Answers     map[string]string `json:"answers"`
	Results     *TestResults      `json:"results,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

type WhatsAppTemplate struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Subject         string    `json:"subject"`
	MessageTemplate string    `json:"message_template"`
	Category        string    `json:"category"`
	CreatedAt       time.Time `json:"created_at"`
}

type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Metadata     string    `json:"metadata,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type BehaviorRecord struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	Category    string    `json:"category"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	RecordedBy  string    `json:"recorded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type ScheduleStatus string

const (
	ScheduleScheduled ScheduleStatus = "scheduled"
	ScheduleDone      ScheduleStatus = "done"
	ScheduleCancelled ScheduleStatus = "cancelled"
)

type CounselingSchedule struct {
	ID          string         `json:"id"`
	StudentID   string         `json:"student_id"`
	CounselorID string         `json:"counselor_id"`
	ScheduledAt time.Time      `json:"scheduled_at"`
	Topic       string         `json:"topic"`
	Status      ScheduleStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

type ForumTopic struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Data      string    `json:"data,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
