package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
	"github.com/konselapp/konsel_backend/pkg/llm"
)

const (
	// maxContextRows caps how many rows a database lookup may feed into
	// the prompt.
	maxContextRows = 5

	defaultSystemInstruction = "Kamu adalah asisten bimbingan konseling sekolah. " +
		"Jawab dengan bahasa Indonesia yang ramah dan suportif. " +
		"Jangan memberikan diagnosis klinis; arahkan siswa ke guru BK untuk masalah serius."

	defaultNoCredentialReply = "Layanan AI belum dikonfigurasi. Silakan hubungi guru BK " +
		"melalui menu konsultasi untuk mendapatkan bantuan langsung."

	defaultProviderErrReply = "Maaf, asisten AI sedang tidak dapat dihubungi. " +
		"Silakan coba lagi nanti atau hubungi guru BK melalui menu konsultasi."
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ChatRequest struct {
	Message      string
	UserID       string
	Role         model.Role
	History      []llm.Message
	EnableSearch bool
	EnableDB     bool

	// Provider selects the preferred completion backend, "openai" or
	// "gemini". Empty means openai.
	Provider string
}

// ChatResponse mirrors the wire shape the web client expects.
type ChatResponse struct {
	Response      string             `json:"response"`
	SearchResults []llm.SearchResult `json:"searchResults"`
	DBOperations  []string           `json:"dbOperations"`
	AIProvider    string             `json:"aiProvider"`
}

// Options carries the configurable knobs; zero values fall back to the
// package defaults.
type Options struct {
	SystemInstruction string
	NoCredentialReply string
	ProviderErrReply  string
	Topics            []Topic
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Chat runs the full pipeline: search, database context, prompt
	// assembly, provider dispatch. It degrades instead of failing: the
	// returned response text is always usable.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// Fallback is the deterministic local responder exposed to clients.
	Fallback(message string) string
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type service struct {
	gw         gateway.Gateway
	providers  []llm.ChatProvider
	search     llm.SearchProvider
	classifier *classifier
	logger     *slog.Logger

	systemInstruction string
	noCredentialReply string
	providerErrReply  string
}

func New(gw gateway.Gateway, providers []llm.ChatProvider, search llm.SearchProvider, opts Options, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &service{
		gw:                gw,
		providers:         providers,
		search:            search,
		classifier:        newClassifier(opts.Topics),
		logger:            logger,
		systemInstruction: opts.SystemInstruction,
		noCredentialReply: opts.NoCredentialReply,
		providerErrReply:  opts.ProviderErrReply,
	}
	if s.systemInstruction == "" {
		s.systemInstruction = defaultSystemInstruction
	}
	if s.noCredentialReply == "" {
		s.noCredentialReply = defaultNoCredentialReply
	}
	if s.providerErrReply == "" {
		s.providerErrReply = defaultProviderErrReply
	}
	return s
}

func (s *service) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	resp := &ChatResponse{
		SearchResults: []llm.SearchResult{},
		DBOperations:  []string{},
	}

	// Step 1: optional web search. A failed search never aborts the chat.
	if req.EnableSearch && s.search != nil {
		results, err := s.search.Search(ctx, req.Message, maxContextRows)
		if err != nil {
			s.logger.Warn("assistant search failed", "error", err)
		} else {
			resp.SearchResults = results
		}
	}

	// Step 2: optional database context. Only counselors and admins get
	// database lookups; for anyone else the step is skipped silently.
	var dbContext string
	if req.EnableDB && req.Role.Privileged() {
		dbContext = s.collectDBContext(ctx, req, resp)
	}

	// Step 3: prompt assembly.
	prompt := s.assemblePrompt(req.Message, resp.SearchResults, dbContext)

	// Step 4: provider dispatch with fallback, preferred provider first.
	text, provider := s.dispatch(ctx, s.orderedProviders(req.Provider), req.History, prompt)
	resp.Response = text
	resp.AIProvider = provider
	return resp, nil
}

func (s *service) Fallback(message string) string {
	return LocalFallback(message)
}

// collectDBContext looks up rows relevant to the classified topic. Callers
// reaching this are already role-gated; lookup failures degrade to an empty
// context.
func (s *service) collectDBContext(ctx context.Context, req ChatRequest, resp *ChatResponse) string {
	topic := s.classifier.Classify(req.Message)
	if topic == "" {
		return ""
	}

	var sb strings.Builder
	record := func(op string, n int) {
		resp.DBOperations = append(resp.DBOperations, fmt.Sprintf("%s (%d rows)", op, n))
	}

	switch topic {
	case TopicStudents:
		var rows []model.Profile
		err := s.gw.Select(ctx, gateway.Query{
			Collection: model.CollectionProfiles,
			Filters:    []gateway.Filter{gateway.Eq("role", "student")},
			OrderBy:    "full_name",
			Limit:      maxContextRows,
		}, &rows)
		if err != nil {
			s.logger.Warn("assistant student lookup failed", "error", err)
			return ""
		}
		record("read profiles", len(rows))
		for _, p := range rows {
			fmt.Fprintf(&sb, "- Siswa %s (%s)\n", p.FullName, p.Email)
		}

	case TopicConsultation:
		var rows []model.Consultation
		err := s.gw.Select(ctx, gateway.Query{
			Collection: model.CollectionConsultations,
			OrderBy:    "created_at",
			Descending: true,
			Limit:      maxContextRows,
		}, &rows)
		if err != nil {
			s.logger.Warn("assistant consultation lookup failed", "error", err)
			return ""
		}
		record("read consultations", len(rows))
		for _, c := range rows {
			fmt.Fprintf(&sb, "- Konsultasi %q status %s\n", c.Title, c.Status)
		}

	case TopicTestResults:
		var rows []model.TestSession
		err := s.gw.Select(ctx, gateway.Query{
			Collection: model.CollectionTestSessions,
			OrderBy:    "started_at",
			Descending: true,
			Limit:      maxContextRows,
		}, &rows)
		if err != nil {
			s.logger.Warn("assistant test session lookup failed", "error", err)
			return ""
		}
		record("read psychology_test_sessions", len(rows))
		for _, sess := range rows {
			if sess.Results == nil {
				fmt.Fprintf(&sb, "- Sesi tes %s masih berjalan\n", sess.ID)
				continue
			}
			fmt.Fprintf(&sb, "- Sesi tes selesai, skor per kategori: %v\n", sess.Results.CategoryScores)
		}

	case TopicBehavior:
		var rows []model.BehaviorRecord
		err := s.gw.Select(ctx, gateway.Query{
			Collection: model.CollectionBehaviorRecords,
			OrderBy:    "created_at",
			Descending: true,
			Limit:      maxContextRows,
		}, &rows)
		if err != nil {
			s.logger.Warn("assistant behavior lookup failed", "error", err)
			return ""
		}
		record("read behavior_records", len(rows))
		for _, r := range rows {
			fmt.Fprintf(&sb, "- Catatan perilaku %s (%s): %s\n", r.Category, r.Severity, r.Description)
		}

	case TopicSchedule:
		var rows []model.CounselingSchedule
		err := s.gw.Select(ctx, gateway.Query{
			Collection: model.CollectionCounselingSchedules,
			OrderBy:    "scheduled_at",
			Limit:      maxContextRows,
		}, &rows)
		if err != nil {
			s.logger.Warn("assistant schedule lookup failed", "error", err)
			return ""
		}
		record("read counseling_schedules", len(rows))
		for _, r := range rows {
			fmt.Fprintf(&sb, "- Jadwal %q pada %s status %s\n", r.Topic, r.ScheduledAt.Format("2006-01-02 15:04"), r.Status)
		}
	}

	return sb.String()
}

func (s *service) assemblePrompt(message string, searchResults []llm.SearchResult, dbContext string) string {
	var sb strings.Builder

	if len(searchResults) > 0 {
		sb.WriteString("Informasi dari pencarian web:\n")
		for _, r := range searchResults {
			fmt.Fprintf(&sb, "- %s: %s\n", r.Title, r.Content)
		}
		sb.WriteString("\n")
	}
	if dbContext != "" {
		sb.WriteString("Data dari sistem bimbingan konseling:\n")
		sb.WriteString(dbContext)
		sb.WriteString("\n")
	}

	sb.WriteString("Pertanyaan: ")
	sb.WriteString(message)
	return sb.String()
}

// orderedProviders puts the requested provider first. Gemini answers only
// when the request asks for it; the default preference is openai.
func (s *service) orderedProviders(requested string) []llm.ChatProvider {
	if requested == "" {
		requested = "openai"
	}
	ordered := make([]llm.ChatProvider, 0, len(s.providers))
	for _, p := range s.providers {
		if p.Name() == requested {
			ordered = append(ordered, p)
		}
	}
	for _, p := range s.providers {
		if p.Name() != requested {
			ordered = append(ordered, p)
		}
	}
	return ordered
}

// dispatch tries providers in order and absorbs their failures into fixed
// replies, so the handler can always answer 200.
func (s *service) dispatch(ctx context.Context, providers []llm.ChatProvider, history []llm.Message, prompt string) (string, string) {
	anyAvailable := false
	for _, p := range providers {
		if !p.Available() {
			continue
		}
		anyAvailable = true

		text, err := p.Complete(ctx, s.systemInstruction, history, prompt)
		if err != nil {
			s.logger.Warn("assistant provider failed", "provider", p.Name(), "error", err)
			continue
		}
		return text, p.Name()
	}

	if !anyAvailable {
		return s.noCredentialReply, "none"
	}
	return s.providerErrReply, "error"
}
