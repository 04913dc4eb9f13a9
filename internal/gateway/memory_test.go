package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/konselapp/konsel_backend/internal/model"
)

func TestMemoryInsertAssignsIdentity(t *testing.T) {
	g := NewMemoryGateway()
	fixed := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	g.SetClock(func() time.Time { return fixed })
	ctx := context.Background()

	var stored model.ForumTopic
	err := g.Insert(ctx, model.CollectionForumTopics, model.ForumTopic{
		AuthorID: "author-1",
		Title:    "Tips menghadapi ujian",
		Content:  "Bagaimana cara mengatur waktu belajar?",
	}, &stored)
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	if stored.ID == "" {
		t.Error("expected generated id")
	}
	if !stored.CreatedAt.Equal(fixed) {
		t.Errorf("created_at = %v, want %v", stored.CreatedAt, fixed)
	}
	if stored.Title != "Tips menghadapi ujian" {
		t.Errorf("title = %q", stored.Title)
	}
}

func TestMemorySelectFiltersAndOrders(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	for i, msg := range []string{"first", "second", "third"} {
		ts := base.Add(time.Duration(i) * time.Minute)
		g.SetClock(func() time.Time { return ts })
		err := g.Insert(ctx, model.CollectionConsultationMessages, model.ConsultationMessage{
			ConsultationID: "c-1",
			SenderID:       "s-1",
			Message:        msg,
		}, nil)
		if err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}
	// A row in another consultation must not match.
	if err := g.Insert(ctx, model.CollectionConsultationMessages, model.ConsultationMessage{
		ConsultationID: "c-2",
		SenderID:       "s-2",
		Message:        "other",
	}, nil); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	var msgs []model.ConsultationMessage
	err := g.Select(ctx, Query{
		Collection: model.CollectionConsultationMessages,
		Filters:    []Filter{Eq("consultation_id", "c-1")},
		OrderBy:    "created_at",
	}, &msgs)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}

	if len(msgs) != 3 {
		t.Fatalf("got %d rows, want 3", len(msgs))
	}
	for i, want := range []string{"first", "second", "third"} {
		if msgs[i].Message != want {
			t.Errorf("row %d = %q, want %q", i, msgs[i].Message, want)
		}
	}
}

func TestMemorySelectInAndLimit(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	for _, p := range []model.Profile{
		{ID: "p-1", FullName: "Andi", Role: "student"},
		{ID: "p-2", FullName: "Budi", Role: "counselor"},
		{ID: "p-3", FullName: "Citra", Role: "admin"},
	} {
		if err := g.Insert(ctx, model.CollectionProfiles, p, nil); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}

	var profiles []model.Profile
	err := g.Select(ctx, Query{
		Collection: model.CollectionProfiles,
		Filters:    []Filter{In("role", "counselor", "admin")},
		OrderBy:    "full_name",
	}, &profiles)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("got %d rows, want 2", len(profiles))
	}
	if profiles[0].FullName != "Budi" || profiles[1].FullName != "Citra" {
		t.Errorf("unexpected order: %q, %q", profiles[0].FullName, profiles[1].FullName)
	}

	var limited []model.Profile
	err = g.Select(ctx, Query{
		Collection: model.CollectionProfiles,
		Filters:    []Filter{In("role", "student", "counselor", "admin")},
		OrderBy:    "full_name",
		Limit:      1,
	}, &limited)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if len(limited) != 1 || limited[0].FullName != "Andi" {
		t.Errorf("limited select = %+v", limited)
	}
}

func TestMemoryContainsSearchesMetadata(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	if err := g.Insert(ctx, model.CollectionProfiles, model.Profile{
		ID:       "p-1",
		FullName: "Andi",
		Role:     "student",
		Metadata: `{"nis":"20240117","class":"XI IPA 2"}`,
	}, nil); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	if err := g.Insert(ctx, model.CollectionProfiles, model.Profile{
		ID:       "p-2",
		FullName: "Budi",
		Role:     "student",
		Metadata: `{"nis":"20240042"}`,
	}, nil); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	var hits []model.Profile
	err := g.Select(ctx, Query{
		Collection: model.CollectionProfiles,
		Filters:    []Filter{Contains("metadata", "20240117")},
	}, &hits)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "p-1" {
		t.Errorf("contains search = %+v", hits)
	}
}

func TestMemoryUpdateAndDelete(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	if err := g.Insert(ctx, model.CollectionConsultations, model.Consultation{
		ID:        "c-1",
		Title:     "Sulit fokus belajar",
		Status:    model.ConsultationPending,
		StudentID: "s-1",
	}, nil); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	n, err := g.Update(ctx, model.CollectionConsultations,
		[]Filter{Eq("id", "c-1")},
		map[string]any{"status": string(model.ConsultationOngoing)},
	)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if n != 1 {
		t.Errorf("updated %d rows, want 1", n)
	}

	var rows []model.Consultation
	if err := g.Select(ctx, Query{
		Collection: model.CollectionConsultations,
		Filters:    []Filter{Eq("id", "c-1")},
	}, &rows); err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if len(rows) != 1 || rows[0].Status != model.ConsultationOngoing {
		t.Errorf("after update: %+v", rows)
	}

	n, err = g.Delete(ctx, model.CollectionConsultations, []Filter{Eq("id", "c-1")})
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d rows, want 1", n)
	}

	n, err = g.Update(ctx, model.CollectionConsultations,
		[]Filter{Eq("id", "c-1")},
		map[string]any{"status": "resolved"},
	)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if n != 0 {
		t.Errorf("updated %d rows after delete, want 0", n)
	}

	if _, err := g.Delete(ctx, model.CollectionConsultations, nil); err == nil {
		t.Error("expected error for unfiltered delete")
	}
}

func TestMemoryValidateQuery(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	if err := g.Select(ctx, Query{}, nil); err == nil {
		t.Error("expected error for empty collection")
	}
	if err := g.Select(ctx, Query{
		Collection: "profiles",
		Filters:    []Filter{{Column: "role", Op: Op("gt"), Value: 1}},
	}, nil); err == nil {
		t.Error("expected error for unknown op")
	}
	if err := g.Select(ctx, Query{
		Collection: "profiles",
		Filters:    []Filter{{Column: "", Op: OpEq, Value: "x"}},
	}, nil); err == nil {
		t.Error("expected error for empty column")
	}
}
