package behavior

import (
	"context"
	"errors"
	"testing"

	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
)

func TestCreate(t *testing.T) {
	svc := New(gateway.NewMemoryGateway())
	ctx := context.Background()

	tests := []struct {
		name string
		role model.Role
		in   CreateInput
		want error
	}{
		{"student cannot record", model.RoleStudent, CreateInput{StudentID: "s1", Severity: "low", Description: "x"}, ErrUnauthorized},
		{"missing student", model.RoleCounselor, CreateInput{Severity: "low", Description: "x"}, ErrEmptyStudent},
		{"blank description", model.RoleCounselor, CreateInput{StudentID: "s1", Severity: "low", Description: "  "}, ErrEmptyDescription},
		{"unknown severity", model.RoleCounselor, CreateInput{StudentID: "s1", Severity: "parah", Description: "x"}, ErrInvalidSeverity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, "c1", tt.role, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("Create() error = %v, want %v", err, tt.want)
			}
		})
	}

	rec, err := svc.Create(ctx, "c1", model.RoleCounselor, CreateInput{
		StudentID:   "s1",
		Category:    "kedisiplinan",
		Severity:    "medium",
		Description: "Terlambat tiga hari berturut-turut",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.RecordedBy != "c1" {
		t.Errorf("RecordedBy = %q, want c1", rec.RecordedBy)
	}
}

func TestListForStudent(t *testing.T) {
	svc := New(gateway.NewMemoryGateway())
	ctx := context.Background()

	for _, d := range []string{"pertama", "kedua"} {
		if _, err := svc.Create(ctx, "c1", model.RoleCounselor, CreateInput{
			StudentID: "s1", Severity: "low", Description: d,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if _, err := svc.Create(ctx, "c1", model.RoleCounselor, CreateInput{
		StudentID: "s2", Severity: "high", Description: "lain",
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.ListForStudent(ctx, model.RoleStudent, "s1"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("student read: error = %v, want ErrUnauthorized", err)
	}

	rows, err := svc.ListForStudent(ctx, model.RoleCounselor, "s1")
	if err != nil {
		t.Fatalf("ListForStudent() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Description != "kedua" {
		t.Errorf("newest first: got %q", rows[0].Description)
	}
}
