package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
)

func TestCreate(t *testing.T) {
	svc := New(gateway.NewMemoryGateway())
	ctx := context.Background()
	when := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)

	if _, err := svc.Create(ctx, "c1", model.RoleStudent, CreateInput{StudentID: "s1", ScheduledAt: when}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("student create: error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Create(ctx, "c1", model.RoleCounselor, CreateInput{ScheduledAt: when}); !errors.Is(err, ErrEmptyStudent) {
		t.Errorf("missing student: error = %v, want ErrEmptyStudent", err)
	}
	if _, err := svc.Create(ctx, "c1", model.RoleCounselor, CreateInput{StudentID: "s1"}); !errors.Is(err, ErrZeroTime) {
		t.Errorf("zero time: error = %v, want ErrZeroTime", err)
	}

	sched, err := svc.Create(ctx, "c1", model.RoleCounselor, CreateInput{
		StudentID:   "s1",
		ScheduledAt: when,
		Topic:       "Konsultasi rutin",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sched.Status != model.ScheduleScheduled {
		t.Errorf("status = %q, want scheduled", sched.Status)
	}
	if sched.CounselorID != "c1" {
		t.Errorf("counselor = %q, want c1", sched.CounselorID)
	}
}

func TestListScoping(t *testing.T) {
	svc := New(gateway.NewMemoryGateway())
	ctx := context.Background()

	later := time.Date(2025, 4, 3, 9, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	for _, c := range []struct {
		student string
		at      time.Time
	}{
		{"s1", later},
		{"s1", earlier},
		{"s2", earlier},
	} {
		if _, err := svc.Create(ctx, "c1", model.RoleCounselor, CreateInput{StudentID: c.student, ScheduledAt: c.at}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	own, err := svc.List(ctx, "s1", model.RoleStudent)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(own) != 2 {
		t.Fatalf("student sees %d rows, want 2", len(own))
	}
	if !own[0].ScheduledAt.Equal(earlier) {
		t.Errorf("soonest first: got %v", own[0].ScheduledAt)
	}

	all, err := svc.List(ctx, "c1", model.RoleCounselor)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("counselor sees %d rows, want 3", len(all))
	}
}

func TestUpdateStatus(t *testing.T) {
	svc := New(gateway.NewMemoryGateway())
	ctx := context.Background()

	sched, err := svc.Create(ctx, "c1", model.RoleCounselor, CreateInput{
		StudentID:   "s1",
		ScheduledAt: time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.UpdateStatus(ctx, model.RoleStudent, sched.ID, model.ScheduleDone); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("student update: error = %v, want ErrUnauthorized", err)
	}
	if err := svc.UpdateStatus(ctx, model.RoleCounselor, sched.ID, model.ScheduleStatus("ditunda")); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status: error = %v, want ErrInvalidStatus", err)
	}
	if err := svc.UpdateStatus(ctx, model.RoleCounselor, "tidak-ada", model.ScheduleDone); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing schedule: error = %v, want ErrNotFound", err)
	}

	if err := svc.UpdateStatus(ctx, model.RoleCounselor, sched.ID, model.ScheduleDone); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	rows, err := svc.List(ctx, "c1", model.RoleCounselor)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if rows[0].Status != model.ScheduleDone {
		t.Errorf("stored status = %q, want done", rows[0].Status)
	}
}
