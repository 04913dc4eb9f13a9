// Package notification manages in-app notification rows. Rows are created
// directly by services or by the NATS worker reacting to consultation events.
package notification

import (
	"context"
	"errors"
	"strings"

	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
)

var (
	ErrNotFound   = errors.New("notification not found")
	ErrEmptyTitle = errors.New("notification title is required")
	ErrNoUser     = errors.New("notification user is required")
)

type CreateInput struct {
	UserID string `json:"user_id"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Data   string `json:"data"`
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (*model.Notification, error)
	List(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
}

type service struct {
	gw gateway.Gateway
}

func New(gw gateway.Gateway) Service {
	return &service{gw: gw}
}

func (s *service) Create(ctx context.Context, in CreateInput) (*model.Notification, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, ErrNoUser
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrEmptyTitle
	}

	row := model.Notification{
		UserID: in.UserID,
		Type:   in.Type,
		Title:  strings.TrimSpace(in.Title),
		Data:   in.Data,
		IsRead: false,
	}
	var created model.Notification
	if err := s.gw.Insert(ctx, model.CollectionNotifications, row, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *service) List(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	filters := []gateway.Filter{gateway.Eq("user_id", userID)}
	if unreadOnly {
		filters = append(filters, gateway.Eq("is_read", false))
	}

	var rows []model.Notification
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionNotifications,
		Filters:    filters,
		OrderBy:    "created_at",
		Descending: true,
	}, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkRead flags a single notification. The user filter keeps one user from
// flipping another user's rows.
func (s *service) MarkRead(ctx context.Context, userID, notificationID string) error {
	n, err := s.gw.Update(ctx, model.CollectionNotifications,
		[]gateway.Filter{gateway.Eq("id", notificationID), gateway.Eq("user_id", userID)},
		map[string]any{"is_read": true},
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return s.gw.Update(ctx, model.CollectionNotifications,
		[]gateway.Filter{gateway.Eq("user_id", userID), gateway.Eq("is_read", false)},
		map[string]any{"is_read": true},
	)
}
