package consultation

import (
	"context"
	"errors"
	"testing"

	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
)

func newTestService(t *testing.T) (Service, *gateway.MemoryGateway) {
	t.Helper()
	gw := gateway.NewMemoryGateway()
	return New(gw, nil, nil), gw
}

func seedConsultation(t *testing.T, svc Service, studentID string) *model.Consultation {
	t.Helper()
	c, err := svc.Create(context.Background(), CreateRequest{
		StudentID:   studentID,
		Title:       "Sulit fokus belajar",
		Description: "Akhir-akhir ini saya sulit konsentrasi di kelas.",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	return c
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateRequest{StudentID: "s-1", Description: "x"}); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("empty title: got %v, want ErrEmptyTitle", err)
	}
	if _, err := svc.Create(ctx, CreateRequest{StudentID: "s-1", Title: "x", Description: "  "}); !errors.Is(err, ErrEmptyDescription) {
		t.Errorf("empty description: got %v, want ErrEmptyDescription", err)
	}

	c, err := svc.Create(ctx, CreateRequest{StudentID: "s-1", Title: "Judul", Description: "Isi"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if c.Status != model.ConsultationPending {
		t.Errorf("new consultation status = %q, want pending", c.Status)
	}
	if c.ID == "" {
		t.Error("expected assigned id")
	}
}

func TestListScoping(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedConsultation(t, svc, "s-1")
	seedConsultation(t, svc, "s-2")

	own, err := svc.List(ctx, "s-1", model.RoleStudent)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(own) != 1 || own[0].StudentID != "s-1" {
		t.Errorf("student list = %+v, want only own rows", own)
	}

	all, err := svc.List(ctx, "counselor-1", model.RoleCounselor)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("counselor sees %d rows, want 2", len(all))
	}
}

func TestGetAuthorization(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	c := seedConsultation(t, svc, "s-1")

	if _, err := svc.Get(ctx, c.ID, "s-2", model.RoleStudent); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("other student: got %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Get(ctx, c.ID, "counselor-1", model.RoleCounselor); err != nil {
		t.Errorf("counselor should read any consultation: %v", err)
	}
	if _, err := svc.Get(ctx, "missing", "s-1", model.RoleStudent); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}
}

func TestAcknowledgeExactlyOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	c := seedConsultation(t, svc, "s-1")

	// Student open never transitions.
	changed, err := svc.Acknowledge(ctx, c.ID, model.RoleStudent)
	if err != nil {
		t.Fatalf("Acknowledge() error: %v", err)
	}
	if changed {
		t.Error("student acknowledge must be a no-op")
	}

	// First privileged open flips pending to ongoing.
	changed, err = svc.Acknowledge(ctx, c.ID, model.RoleCounselor)
	if err != nil {
		t.Fatalf("Acknowledge() error: %v", err)
	}
	if !changed {
		t.Error("first counselor acknowledge should transition")
	}

	got, _ := svc.Get(ctx, c.ID, "counselor-1", model.RoleCounselor)
	if got.Status != model.ConsultationOngoing {
		t.Errorf("status = %q, want ongoing", got.Status)
	}

	// Second open is a no-op.
	changed, err = svc.Acknowledge(ctx, c.ID, model.RoleAdmin)
	if err != nil {
		t.Fatalf("Acknowledge() error: %v", err)
	}
	if changed {
		t.Error("repeat acknowledge must be a no-op")
	}
}

func TestListMessagesIsSideEffectFree(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	c := seedConsultation(t, svc, "s-1")

	if _, err := svc.ListMessages(ctx, c.ID, "counselor-1", model.RoleCounselor); err != nil {
		t.Fatalf("ListMessages() error: %v", err)
	}

	got, _ := svc.Get(ctx, c.ID, "s-1", model.RoleStudent)
	if got.Status != model.ConsultationPending {
		t.Errorf("reading messages changed status to %q", got.Status)
	}
}

func TestPostMessageOrderingAndValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	c := seedConsultation(t, svc, "s-1")

	if _, err := svc.PostMessage(ctx, PostMessageRequest{
		ConsultationID: c.ID, SenderID: "s-1", Role: model.RoleStudent, Message: "  ",
	}); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("empty message: got %v, want ErrEmptyMessage", err)
	}

	if _, err := svc.PostMessage(ctx, PostMessageRequest{
		ConsultationID: c.ID, SenderID: "s-2", Role: model.RoleStudent, Message: "hai",
	}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("foreign student post: got %v, want ErrUnauthorized", err)
	}

	for _, text := range []string{"Selamat pagi bu", "Saya ingin bercerita"} {
		if _, err := svc.PostMessage(ctx, PostMessageRequest{
			ConsultationID: c.ID, SenderID: "s-1", Role: model.RoleStudent, Message: text,
		}); err != nil {
			t.Fatalf("PostMessage() error: %v", err)
		}
	}

	msgs, err := svc.ListMessages(ctx, c.ID, "s-1", model.RoleStudent)
	if err != nil {
		t.Fatalf("ListMessages() error: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Message != "Selamat pagi bu" || msgs[1].Message != "Saya ingin bercerita" {
		t.Errorf("messages out of order: %q, %q", msgs[0].Message, msgs[1].Message)
	}
}

func TestResolutionMarkerClosesConsultation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	c := seedConsultation(t, svc, "s-1")

	// A student using the marker must not resolve anything.
	if _, err := svc.PostMessage(ctx, PostMessageRequest{
		ConsultationID: c.ID, SenderID: "s-1", Role: model.RoleStudent,
		Message: "sudah [resolved] kan?",
	}); err != nil {
		t.Fatalf("PostMessage() error: %v", err)
	}
	got, _ := svc.Get(ctx, c.ID, "s-1", model.RoleStudent)
	if got.Status == model.ConsultationResolved {
		t.Fatal("student marker must not resolve the consultation")
	}

	// Counselor reply with a marker resolves, case-insensitively.
	if _, err := svc.PostMessage(ctx, PostMessageRequest{
		ConsultationID: c.ID, SenderID: "counselor-1", Role: model.RoleCounselor,
		Message: "Baik, masalah ini [SELESAI] ya.",
	}); err != nil {
		t.Fatalf("PostMessage() error: %v", err)
	}
	got, _ = svc.Get(ctx, c.ID, "s-1", model.RoleStudent)
	if got.Status != model.ConsultationResolved {
		t.Errorf("status = %q, want resolved", got.Status)
	}

	// Resolved is terminal for PostMessage.
	if _, err := svc.PostMessage(ctx, PostMessageRequest{
		ConsultationID: c.ID, SenderID: "s-1", Role: model.RoleStudent, Message: "masih ada satu hal",
	}); !errors.Is(err, ErrAlreadyResolved) {
		t.Errorf("post to resolved: got %v, want ErrAlreadyResolved", err)
	}
}

func TestOverrideStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	c := seedConsultation(t, svc, "s-1")

	// Resolve through the normal path first.
	if _, err := svc.PostMessage(ctx, PostMessageRequest{
		ConsultationID: c.ID, SenderID: "admin-1", Role: model.RoleAdmin,
		Message: "kasus ditutup [resolved]",
	}); err != nil {
		t.Fatalf("PostMessage() error: %v", err)
	}

	// Counselors cannot override.
	if err := svc.OverrideStatus(ctx, c.ID, model.ConsultationOngoing, model.RoleCounselor); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("counselor override: got %v, want ErrUnauthorized", err)
	}

	// Admin may regress the status.
	if err := svc.OverrideStatus(ctx, c.ID, model.ConsultationOngoing, model.RoleAdmin); err != nil {
		t.Fatalf("OverrideStatus() error: %v", err)
	}
	got, _ := svc.Get(ctx, c.ID, "s-1", model.RoleStudent)
	if got.Status != model.ConsultationOngoing {
		t.Errorf("status = %q, want ongoing after override", got.Status)
	}

	if err := svc.OverrideStatus(ctx, c.ID, model.ConsultationStatus("archived"), model.RoleAdmin); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status: got %v, want ErrInvalidStatus", err)
	}
}
