package testsession

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type AnswerRequest struct {
	SessionID   string
	UserID      string
	QuestionID  string
	OptionIndex int
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	ListTemplates(ctx context.Context) ([]model.TestTemplate, error)
	GetTemplate(ctx context.Context, id string) (*model.TestTemplate, []model.TestQuestion, error)

	StartSession(ctx context.Context, userID, templateID string) (*model.TestSession, error)
	GetSession(ctx context.Context, sessionID, userID string, role model.Role) (*model.TestSession, error)
	ListSessions(ctx context.Context, userID string) ([]model.TestSession, error)

	// Answer records one choice. Re-answering a question overwrites the
	// previous choice; every call persists the full answers snapshot.
	Answer(ctx context.Context, req AnswerRequest) (*model.TestSession, error)

	// Submit scores the session exactly once.
	Submit(ctx context.Context, sessionID, userID string) (*model.TestSession, error)

	// InterpretSession maps a completed session's category scores onto
	// interpretation levels.
	InterpretSession(ctx context.Context, sessionID, userID string, role model.Role) ([]Interpretation, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type service struct {
	gw  gateway.Gateway
	now func() time.Time
}

func New(gw gateway.Gateway) Service {
	return &service{gw: gw, now: time.Now}
}

func (s *service) ListTemplates(ctx context.Context) ([]model.TestTemplate, error) {
	var rows []model.TestTemplate
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionTestTemplates,
		Filters:    []gateway.Filter{gateway.Eq("is_active", true)},
		OrderBy:    "title",
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("list test templates: %w", err)
	}
	return rows, nil
}

func (s *service) GetTemplate(ctx context.Context, id string) (*model.TestTemplate, []model.TestQuestion, error) {
	tmpl, err := s.loadTemplate(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	questions, err := s.loadQuestions(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return tmpl, questions, nil
}

func (s *service) StartSession(ctx context.Context, userID, templateID string) (*model.TestSession, error) {
	tmpl, err := s.loadTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !tmpl.IsActive {
		return nil, ErrTemplateInactive
	}

	row := model.TestSession{
		UserID:         userID,
		TestTemplateID: templateID,
		Status:         model.TestSessionInProgress,
		Answers:        map[string]string{},
		StartedAt:      s.now().UTC(),
	}
	var created model.TestSession
	if err := s.gw.Insert(ctx, model.CollectionTestSessions, row, &created); err != nil {
		return nil, fmt.Errorf("create test session: %w", err)
	}
	return &created, nil
}

func (s *service) GetSession(ctx context.Context, sessionID, userID string, role model.Role) (*model.TestSession, error) {
	sess, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID && !role.Privileged() {
		return nil, ErrUnauthorized
	}
	return sess, nil
}

func (s *service) ListSessions(ctx context.Context, userID string) ([]model.TestSession, error) {
	var rows []model.TestSession
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionTestSessions,
		Filters:    []gateway.Filter{gateway.Eq("user_id", userID)},
		OrderBy:    "started_at",
		Descending: true,
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("list test sessions: %w", err)
	}
	return rows, nil
}

func (s *service) Answer(ctx context.Context, req AnswerRequest) (*model.TestSession, error) {
	sess, err := s.loadSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != req.UserID {
		return nil, ErrUnauthorized
	}
	if sess.Status == model.TestSessionCompleted {
		return nil, ErrSessionCompleted
	}

	question, err := s.loadQuestion(ctx, sess.TestTemplateID, req.QuestionID)
	if err != nil {
		return nil, err
	}
	if req.OptionIndex < 0 || req.OptionIndex >= len(question.Options) {
		return nil, ErrAnswerOutOfRange
	}

	if sess.Answers == nil {
		sess.Answers = map[string]string{}
	}
	sess.Answers[req.QuestionID] = strconv.Itoa(req.OptionIndex)

	// Write-through: every answer persists the full snapshot so an
	// interrupted session keeps everything recorded so far.
	_, err = s.gw.Update(ctx, model.CollectionTestSessions,
		[]gateway.Filter{gateway.Eq("id", req.SessionID)},
		map[string]any{"answers": sess.Answers},
	)
	if err != nil {
		return nil, fmt.Errorf("persist answers: %w", err)
	}
	return sess, nil
}

func (s *service) Submit(ctx context.Context, sessionID, userID string) (*model.TestSession, error) {
	sess, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, ErrUnauthorized
	}
	if sess.Status == model.TestSessionCompleted {
		return nil, ErrSessionCompleted
	}

	questions, err := s.loadQuestions(ctx, sess.TestTemplateID)
	if err != nil {
		return nil, err
	}

	results := score(questions, sess.Answers)
	completedAt := s.now().UTC()

	_, err = s.gw.Update(ctx, model.CollectionTestSessions,
		[]gateway.Filter{gateway.Eq("id", sessionID)},
		map[string]any{
			"status":       string(model.TestSessionCompleted),
			"results":      results,
			"completed_at": completedAt.Format(time.RFC3339Nano),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("complete test session: %w", err)
	}

	sess.Status = model.TestSessionCompleted
	sess.Results = &results
	sess.CompletedAt = &completedAt
	return sess, nil
}

func (s *service) InterpretSession(ctx context.Context, sessionID, userID string, role model.Role) ([]Interpretation, error) {
	sess, err := s.GetSession(ctx, sessionID, userID, role)
	if err != nil {
		return nil, err
	}
	if sess.Status != model.TestSessionCompleted || sess.Results == nil {
		return nil, ErrSessionNotFound
	}

	tmpl, err := s.loadTemplate(ctx, sess.TestTemplateID)
	if err != nil {
		return nil, err
	}
	questions, err := s.loadQuestions(ctx, sess.TestTemplateID)
	if err != nil {
		return nil, err
	}

	return InterpretResults(CategoryKind(tmpl.Category), questions, sess.Answers, *sess.Results), nil
}

// score computes raw per-category sums. The stored answer is the selected
// option index; it is added to the question's scoring category as-is.
func score(questions []model.TestQuestion, answers map[string]string) model.TestResults {
	results := model.TestResults{
		CategoryScores: map[string]int{},
		TotalQuestions: len(questions),
	}

	for _, q := range questions {
		raw, ok := answers[q.ID]
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(raw)
		if err != nil || idx < 0 || idx >= len(q.Options) {
			continue
		}
		results.AnsweredQuestions++

		category := q.ScoringConfig.Category
		if category == "" {
			category = "general"
		}
		results.CategoryScores[category] += idx
	}

	if results.TotalQuestions > 0 {
		results.CompletionPercentage = float64(results.AnsweredQuestions) / float64(results.TotalQuestions) * 100
	}
	return results
}

func (s *service) loadTemplate(ctx context.Context, id string) (*model.TestTemplate, error) {
	var rows []model.TestTemplate
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionTestTemplates,
		Filters:    []gateway.Filter{gateway.Eq("id", id)},
		Limit:      1,
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("get test template: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrTemplateNotFound
	}
	return &rows[0], nil
}

func (s *service) loadQuestions(ctx context.Context, templateID string) ([]model.TestQuestion, error) {
	var rows []model.TestQuestion
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionTestQuestions,
		Filters:    []gateway.Filter{gateway.Eq("test_template_id", templateID)},
		OrderBy:    "order_index",
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("list test questions: %w", err)
	}
	return rows, nil
}

func (s *service) loadQuestion(ctx context.Context, templateID, questionID string) (*model.TestQuestion, error) {
	var rows []model.TestQuestion
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionTestQuestions,
		Filters: []gateway.Filter{
			gateway.Eq("id", questionID),
			gateway.Eq("test_template_id", templateID),
		},
		Limit: 1,
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("get test question: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrQuestionNotFound
	}
	return &rows[0], nil
}

func (s *service) loadSession(ctx context.Context, id string) (*model.TestSession, error) {
	var rows []model.TestSession
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionTestSessions,
		Filters:    []gateway.Filter{gateway.Eq("id", id)},
		Limit:      1,
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("get test session: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrSessionNotFound
	}
	return &rows[0], nil
}
