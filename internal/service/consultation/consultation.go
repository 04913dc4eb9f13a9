package consultation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
)

// DefaultResolutionMarkers close a consultation when a privileged reply
// contains one of them.
var DefaultResolutionMarkers = []string{"[resolved]", "[selesai]"}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	StudentID   string
	Title       string
	Description string
}

type PostMessageRequest struct {
	ConsultationID string
	SenderID       string
	Role           model.Role
	Message        string
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*model.Consultation, error)
	Get(ctx context.Context, id, requesterID string, role model.Role) (*model.Consultation, error)
	List(ctx context.Context, requesterID string, role model.Role) ([]model.Consultation, error)

	// ListMessages is a side-effect-free read of the thread in ascending
	// created_at order.
	ListMessages(ctx context.Context, consultationID, requesterID string, role model.Role) ([]model.ConsultationMessage, error)

	// Acknowledge moves pending to ongoing when a counselor or admin opens
	// the consultation. It reports whether this call made the transition;
	// repeat calls and unprivileged callers are no-ops.
	Acknowledge(ctx context.Context, consultationID string, role model.Role) (bool, error)

	PostMessage(ctx context.Context, req PostMessageRequest) (*model.ConsultationMessage, error)

	// OverrideStatus is the administrative escape hatch and the only path
	// allowed to move status backwards.
	OverrideStatus(ctx context.Context, consultationID string, status model.ConsultationStatus, role model.Role) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type consultationService struct {
	gw      gateway.Gateway
	nc      *nats.Conn
	markers []string
	now     func() time.Time
}

func New(gw gateway.Gateway, nc *nats.Conn, resolutionMarkers []string) Service {
	markers := resolutionMarkers
	if len(markers) == 0 {
		markers = DefaultResolutionMarkers
	}
	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(m)
	}
	return &consultationService{
		gw:      gw,
		nc:      nc,
		markers: lowered,
		now:     time.Now,
	}
}

func (s *consultationService) Create(ctx context.Context, req CreateRequest) (*model.Consultation, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrEmptyDescription
	}

	row := model.Consultation{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.ConsultationPending,
		StudentID:   req.StudentID,
		UpdatedAt:   s.now().UTC(),
	}

	var created model.Consultation
	if err := s.gw.Insert(ctx, model.CollectionConsultations, row, &created); err != nil {
		return nil, fmt.Errorf("create consultation: %w", err)
	}
	return &created, nil
}

func (s *consultationService) Get(ctx context.Context, id, requesterID string, role model.Role) (*model.Consultation, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !role.Privileged() && c.StudentID != requesterID {
		return nil, ErrUnauthorized
	}
	return c, nil
}

func (s *consultationService) List(ctx context.Context, requesterID string, role model.Role) ([]model.Consultation, error) {
	q := gateway.Query{
		Collection: model.CollectionConsultations,
		OrderBy:    "created_at",
		Descending: true,
	}
	if !role.Privileged() {
		q.Filters = []gateway.Filter{gateway.Eq("student_id", requesterID)}
	}

	var rows []model.Consultation
	if err := s.gw.Select(ctx, q, &rows); err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	return rows, nil
}

func (s *consultationService) ListMessages(ctx context.Context, consultationID, requesterID string, role model.Role) ([]model.ConsultationMessage, error) {
	// Verify access
	if _, err := s.Get(ctx, consultationID, requesterID, role); err != nil {
		return nil, err
	}

	var msgs []model.ConsultationMessage
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionConsultationMessages,
		Filters:    []gateway.Filter{gateway.Eq("consultation_id", consultationID)},
		OrderBy:    "created_at",
	}, &msgs)
	if err != nil {
		return nil, fmt.Errorf("list consultation messages: %w", err)
	}
	return msgs, nil
}

func (s *consultationService) Acknowledge(ctx context.Context, consultationID string, role model.Role) (bool, error) {
	if !role.Privileged() {
		return false, nil
	}

	c, err := s.load(ctx, consultationID)
	if err != nil {
		return false, err
	}
	if c.Status != model.ConsultationPending {
		return false, nil
	}

	if err := s.setStatus(ctx, consultationID, model.ConsultationOngoing); err != nil {
		return false, err
	}
	s.publish("acknowledged", consultationID, consultationID)
	return true, nil
}

func (s *consultationService) PostMessage(ctx context.Context, req PostMessageRequest) (*model.ConsultationMessage, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	c, err := s.load(ctx, req.ConsultationID)
	if err != nil {
		return nil, err
	}
	if !req.Role.Privileged() && c.StudentID != req.SenderID {
		return nil, ErrUnauthorized
	}
	if c.Status == model.ConsultationResolved {
		return nil, ErrAlreadyResolved
	}

	row := model.ConsultationMessage{
		ConsultationID: req.ConsultationID,
		SenderID:       req.SenderID,
		Message:        req.Message,
	}
	var created model.ConsultationMessage
	if err := s.gw.Insert(ctx, model.CollectionConsultationMessages, row, &created); err != nil {
		return nil, fmt.Errorf("create consultation message: %w", err)
	}

	if req.Role.Privileged() && s.containsMarker(req.Message) {
		if err := s.setStatus(ctx, req.ConsultationID, model.ConsultationResolved); err != nil {
			return nil, err
		}
		s.publish("resolved", req.ConsultationID, req.ConsultationID)
	}

	s.publish("message", req.ConsultationID, created.ID)
	return &created, nil
}

func (s *consultationService) OverrideStatus(ctx context.Context, consultationID string, status model.ConsultationStatus, role model.Role) error {
	if role != model.RoleAdmin {
		return ErrUnauthorized
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}

	if _, err := s.load(ctx, consultationID); err != nil {
		return err
	}
	if err := s.setStatus(ctx, consultationID, status); err != nil {
		return err
	}
	s.publish("status_overridden", consultationID, string(status))
	return nil
}

func (s *consultationService) load(ctx context.Context, id string) (*model.Consultation, error) {
	var rows []model.Consultation
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionConsultations,
		Filters:    []gateway.Filter{gateway.Eq("id", id)},
		Limit:      1,
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (s *consultationService) setStatus(ctx context.Context, id string, status model.ConsultationStatus) error {
	_, err := s.gw.Update(ctx, model.CollectionConsultations,
		[]gateway.Filter{gateway.Eq("id", id)},
		map[string]any{
			"status":     string(status),
			"updated_at": s.now().UTC().Format(time.RFC3339Nano),
		},
	)
	if err != nil {
		return fmt.Errorf("update consultation status: %w", err)
	}
	return nil
}

func (s *consultationService) containsMarker(text string) bool {
	lowered := strings.ToLower(text)
	for _, m := range s.markers {
		if strings.Contains(lowered, m) {
			return true
		}
	}
	return false
}

func (s *consultationService) publish(event, consultationID, payload string) {
	if s.nc == nil {
		return
	}
	subject := fmt.Sprintf("konsel.consultation.%s.%s", event, consultationID)
	_ = s.nc.Publish(subject, []byte(payload))
}
