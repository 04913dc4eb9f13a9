package whatsapp

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/konselapp/konsel_backend/internal/gateway"
)

func TestBuildMessage(t *testing.T) {
	template := "Yth. {parent_name}, kami mengundang Anda membahas perkembangan {student_name} di sekolah."
	got := BuildMessage(template, Contact{
		StudentName: "Andi Wijaya",
		ParentName:  "Bapak Wijaya",
	})
	want := "Yth. Bapak Wijaya, kami mengundang Anda membahas perkembangan Andi Wijaya di sekolah."
	if got != want {
		t.Errorf("BuildMessage() = %q, want %q", got, want)
	}

	// Repeated placeholders are all substituted.
	got = BuildMessage("{student_name} {student_name}", Contact{StudentName: "Andi"})
	if got != "Andi Andi" {
		t.Errorf("BuildMessage() = %q", got)
	}

	// Missing contact fields substitute as empty strings.
	got = BuildMessage("Halo {parent_name}", Contact{StudentName: "Andi"})
	if got != "Halo " {
		t.Errorf("BuildMessage() = %q", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"081234567890", "6281234567890"},
		{"0812-3456-7890", "6281234567890"},
		{"+62 812 3456 7890", "6281234567890"},
		{"6281234567890", "6281234567890"},
		{"(0812) 3456 789", "628123456789"},
		{"", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		if got := NormalizePhone(tt.in, "62"); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDispatchScenario(t *testing.T) {
	gw := gateway.NewMemoryGateway()

	var sleeps []time.Duration
	var sent []string
	svc := New(gw, "62", 500*time.Millisecond,
		func(d time.Duration) { sleeps = append(sleeps, d) },
		func(_ context.Context, link string) error {
			sent = append(sent, link)
			return nil
		},
		nil,
	)

	res, err := svc.Dispatch(context.Background(), DispatchRequest{
		Message: "Halo {parent_name}, ini info untuk {student_name}.",
		Contacts: []Contact{
			{StudentName: "Andi", ParentName: "Bapak Wijaya", Phone: "081234567890"},
			{StudentName: "", ParentName: "Ibu Sari", Phone: "0813000111"},   // no student name
			{StudentName: "Budi", ParentName: "Bapak Budi", Phone: "   "},    // no phone
			{StudentName: "Citra", ParentName: "Ibu Citra", Phone: "!!###"},  // no digits at all
			{StudentName: "Dewi", ParentName: "Ibu Dewi", Phone: "62811222333"},
		},
	})
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}

	if res.Dispatched != 2 {
		t.Errorf("dispatched = %d, want 2", res.Dispatched)
	}
	if res.Skipped != 3 {
		t.Errorf("skipped = %d, want 3", res.Skipped)
	}

	// The pinned normalization case.
	if res.Items[0].Phone != "6281234567890" {
		t.Errorf("normalized phone = %q, want 6281234567890", res.Items[0].Phone)
	}
	if !strings.HasPrefix(res.Items[0].Link, "https://wa.me/6281234567890?text=") {
		t.Errorf("link = %q", res.Items[0].Link)
	}

	// The message text survives the link encoding.
	u, err := url.Parse(res.Items[0].Link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	text := u.Query().Get("text")
	if text != "Halo Bapak Wijaya, ini info untuk Andi." {
		t.Errorf("decoded text = %q", text)
	}

	// One side effect per dispatched contact.
	if len(sent) != 2 {
		t.Errorf("sent %d links, want 2", len(sent))
	}

	// One pause between the two dispatched items, none before the first
	// or around skipped contacts.
	if len(sleeps) != 1 {
		t.Errorf("slept %d times, want 1", len(sleeps))
	}
	for _, d := range sleeps {
		if d != 500*time.Millisecond {
			t.Errorf("sleep = %v, want 500ms", d)
		}
	}
}

func TestDispatchSendFailureIsFireAndForget(t *testing.T) {
	gw := gateway.NewMemoryGateway()
	svc := New(gw, "62", time.Millisecond,
		func(time.Duration) {},
		func(context.Context, string) error { return errors.New("browser gone") },
		nil,
	)

	res, err := svc.Dispatch(context.Background(), DispatchRequest{
		Message: "Halo {student_name}",
		Contacts: []Contact{
			{StudentName: "Andi", Phone: "0811"},
			{StudentName: "Budi", Phone: "0812"},
		},
	})
	if err != nil {
		t.Fatalf("Dispatch() must absorb send failures: %v", err)
	}
	if res.Dispatched != 2 {
		t.Errorf("dispatched = %d, want 2 despite send failures", res.Dispatched)
	}
}

func TestDispatchTemplateLookup(t *testing.T) {
	gw := gateway.NewMemoryGateway()
	svc := New(gw, "62", time.Millisecond, func(time.Duration) {}, nil, nil)
	ctx := context.Background()

	tmpl, err := svc.CreateTemplate(ctx, CreateTemplateRequest{
		Name:            "panggilan-ortu",
		Subject:         "Undangan",
		MessageTemplate: "Yth. {parent_name}, mohon hadir membahas {student_name}.",
		Category:        "undangan",
	})
	if err != nil {
		t.Fatalf("CreateTemplate() error: %v", err)
	}

	res, err := svc.Dispatch(ctx, DispatchRequest{
		TemplateID: tmpl.ID,
		Contacts:   []Contact{{StudentName: "Andi", ParentName: "Bapak Wijaya", Phone: "0811"}},
	})
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if res.Dispatched != 1 {
		t.Fatalf("dispatched = %d, want 1", res.Dispatched)
	}
	if !strings.Contains(res.Items[0].Link, url.QueryEscape("Bapak Wijaya")) {
		t.Errorf("link missing substituted parent name: %q", res.Items[0].Link)
	}

	if _, err := svc.Dispatch(ctx, DispatchRequest{
		TemplateID: "missing",
		Contacts:   []Contact{{StudentName: "Andi", Phone: "0811"}},
	}); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("missing template: got %v, want ErrTemplateNotFound", err)
	}

	if _, err := svc.Dispatch(ctx, DispatchRequest{Message: "x"}); !errors.Is(err, ErrNoContacts) {
		t.Errorf("no contacts: got %v, want ErrNoContacts", err)
	}
	if _, err := svc.Dispatch(ctx, DispatchRequest{
		Contacts: []Contact{{StudentName: "Andi", Phone: "0811"}},
	}); !errors.Is(err, ErrEmptyTemplate) {
		t.Errorf("no template or message: got %v, want ErrEmptyTemplate", err)
	}
}
