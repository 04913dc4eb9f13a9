// Package forum manages the open discussion board. Any signed-in user can
// post a topic and read the full list.
package forum

import (
	"context"
	"errors"
	"strings"

	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
)

var (
	ErrEmptyTitle   = errors.New("topic title is required")
	ErrEmptyContent = errors.New("topic content is required")
)

type CreateInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Service interface {
	Create(ctx context.Context, authorID string, in CreateInput) (*model.ForumTopic, error)
	List(ctx context.Context) ([]model.ForumTopic, error)
}

type service struct {
	gw gateway.Gateway
}

func New(gw gateway.Gateway) Service {
	return &service{gw: gw}
}

func (s *service) Create(ctx context.Context, authorID string, in CreateInput) (*model.ForumTopic, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	row := model.ForumTopic{
		AuthorID: authorID,
		Title:    title,
		Content:  content,
	}
	var created model.ForumTopic
	if err := s.gw.Insert(ctx, model.CollectionForumTopics, row, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *service) List(ctx context.Context) ([]model.ForumTopic, error) {
	var rows []model.ForumTopic
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionForumTopics,
		OrderBy:    "created_at",
		Descending: true,
	}, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
