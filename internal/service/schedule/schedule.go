// Package schedule manages counseling appointments between a counselor and a
// student.
package schedule

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
)

var (
	ErrNotFound      = errors.New("schedule not found")
	ErrUnauthorized  = errors.New("not authorized for this schedule")
	ErrEmptyStudent  = errors.New("student id is required")
	ErrZeroTime      = errors.New("scheduled time is required")
	ErrInvalidStatus = errors.New("invalid schedule status")
)

type CreateInput struct {
	StudentID   string    `json:"student_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Topic       string    `json:"topic"`
}

type Service interface {
	Create(ctx context.Context, counselorID string, actorRole model.Role, in CreateInput) (*model.CounselingSchedule, error)
	List(ctx context.Context, actorID string, actorRole model.Role) ([]model.CounselingSchedule, error)
	UpdateStatus(ctx context.Context, actorRole model.Role, scheduleID string, status model.ScheduleStatus) error
}

type service struct {
	gw gateway.Gateway
}

func New(gw gateway.Gateway) Service {
	return &service{gw: gw}
}

func (s *service) Create(ctx context.Context, counselorID string, actorRole model.Role, in CreateInput) (*model.CounselingSchedule, error) {
	if !actorRole.Privileged() {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(in.StudentID) == "" {
		return nil, ErrEmptyStudent
	}
	if in.ScheduledAt.IsZero() {
		return nil, ErrZeroTime
	}

	row := model.CounselingSchedule{
		StudentID:   in.StudentID,
		CounselorID: counselorID,
		ScheduledAt: in.ScheduledAt,
		Topic:       strings.TrimSpace(in.Topic),
		Status:      model.ScheduleScheduled,
	}
	var created model.CounselingSchedule
	if err := s.gw.Insert(ctx, model.CollectionCounselingSchedules, row, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// List returns upcoming and past appointments. Students see only their own;
// counselors and admins see every schedule.
func (s *service) List(ctx context.Context, actorID string, actorRole model.Role) ([]model.CounselingSchedule, error) {
	var filters []gateway.Filter
	if !actorRole.Privileged() {
		filters = append(filters, gateway.Eq("student_id", actorID))
	}

	var rows []model.CounselingSchedule
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionCounselingSchedules,
		Filters:    filters,
		OrderBy:    "scheduled_at",
	}, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *service) UpdateStatus(ctx context.Context, actorRole model.Role, scheduleID string, status model.ScheduleStatus) error {
	if !actorRole.Privileged() {
		return ErrUnauthorized
	}
	switch status {
	case model.ScheduleScheduled, model.ScheduleDone, model.ScheduleCancelled:
	default:
		return ErrInvalidStatus
	}

	n, err := s.gw.Update(ctx, model.CollectionCounselingSchedules,
		[]gateway.Filter{gateway.Eq("id", scheduleID)},
		map[string]any{"status": string(status)},
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
