package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/konselapp/konsel_backend/internal/gateway"
)

func TestCreateValidation(t *testing.T) {
	svc := New(gateway.NewMemoryGateway())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{UserID: "", Title: "Pesan baru"}); !errors.Is(err, ErrNoUser) {
		t.Errorf("missing user: error = %v, want ErrNoUser", err)
	}
	if _, err := svc.Create(ctx, CreateInput{UserID: "u1", Title: "   "}); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("blank title: error = %v, want ErrEmptyTitle", err)
	}

	n, err := svc.Create(ctx, CreateInput{UserID: "u1", Type: "consultation_message", Title: "Pesan baru"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if n.ID == "" {
		t.Error("created notification has no id")
	}
	if n.IsRead {
		t.Error("new notification must start unread")
	}
}

func TestListAndMarkRead(t *testing.T) {
	svc := New(gateway.NewMemoryGateway())
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{UserID: "u1", Title: "Satu"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{UserID: "u1", Title: "Dua"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{UserID: "u2", Title: "Milik orang lain"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	rows, err := svc.List(ctx, "u1", false)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("List() returned %d rows, want 2", len(rows))
	}
	if rows[0].Title != "Dua" {
		t.Errorf("newest first: got %q", rows[0].Title)
	}

	// A user cannot mark another user's notification.
	if err := svc.MarkRead(ctx, "u2", first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-user mark: error = %v, want ErrNotFound", err)
	}
	if err := svc.MarkRead(ctx, "u1", first.ID); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}

	unread, err := svc.List(ctx, "u1", true)
	if err != nil {
		t.Fatalf("List(unread) error = %v", err)
	}
	if len(unread) != 1 || unread[0].Title != "Dua" {
		t.Fatalf("unread list = %+v, want only Dua", unread)
	}

	n, err := svc.MarkAllRead(ctx, "u1")
	if err != nil {
		t.Fatalf("MarkAllRead() error = %v", err)
	}
	if n != 1 {
		t.Errorf("MarkAllRead() = %d, want 1", n)
	}
	unread, _ = svc.List(ctx, "u1", true)
	if len(unread) != 0 {
		t.Errorf("after MarkAllRead, %d unread remain", len(unread))
	}
}
