// Package behavior manages counselor-recorded student behavior entries.
package behavior

import (
	"context"
	"errors"
	"strings"

	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
)

var (
	ErrUnauthorized     = errors.New("not authorized to record behavior")
	ErrEmptyStudent     = errors.New("student id is required")
	ErrEmptyDescription = errors.New("description is required")
	ErrInvalidSeverity  = errors.New("invalid severity")
)

// Severities counselors can assign, mildest first.
var Severities = []string{"low", "medium", "high"}

type CreateInput struct {
	StudentID   string `json:"student_id"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

type Service interface {
	Create(ctx context.Context, recordedBy string, actorRole model.Role, in CreateInput) (*model.BehaviorRecord, error)
	ListForStudent(ctx context.Context, actorRole model.Role, studentID string) ([]model.BehaviorRecord, error)
}

type service struct {
	gw gateway.Gateway
}

func New(gw gateway.Gateway) Service {
	return &service{gw: gw}
}

func (s *service) Create(ctx context.Context, recordedBy string, actorRole model.Role, in CreateInput) (*model.BehaviorRecord, error) {
	if !actorRole.Privileged() {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(in.StudentID) == "" {
		return nil, ErrEmptyStudent
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, ErrEmptyDescription
	}
	if !validSeverity(in.Severity) {
		return nil, ErrInvalidSeverity
	}

	row := model.BehaviorRecord{
		StudentID:   in.StudentID,
		Category:    strings.TrimSpace(in.Category),
		Severity:    in.Severity,
		Description: strings.TrimSpace(in.Description),
		RecordedBy:  recordedBy,
	}
	var created model.BehaviorRecord
	if err := s.gw.Insert(ctx, model.CollectionBehaviorRecords, row, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListForStudent returns the student's record, newest first. Behavior records
// are counselor-facing; students cannot read them, their own included.
func (s *service) ListForStudent(ctx context.Context, actorRole model.Role, studentID string) ([]model.BehaviorRecord, error) {
	if !actorRole.Privileged() {
		return nil, ErrUnauthorized
	}

	var rows []model.BehaviorRecord
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionBehaviorRecords,
		Filters:    []gateway.Filter{gateway.Eq("student_id", studentID)},
		OrderBy:    "created_at",
		Descending: true,
	}, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func validSeverity(s string) bool {
	for _, v := range Severities {
		if s == v {
			return true
		}
	}
	return false
}
