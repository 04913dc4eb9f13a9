package whatsapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
)

const (
	// DefaultCountryCode replaces a single leading zero in local numbers.
	DefaultCountryCode = "62"

	// DefaultDispatchDelay staggers per-contact side effects.
	DefaultDispatchDelay = 500 * time.Millisecond
)

var nonDigits = regexp.MustCompile(`\D`)

// Sleeper lets tests run Dispatch without real waiting.
type Sleeper func(time.Duration)

// Sender performs the per-contact side effect with the built wa.me link.
// Dispatch is fire-and-forget per item; errors are logged, never returned.
type Sender func(ctx context.Context, link string) error

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type Contact struct {
	StudentName string `json:"student_name"`
	ParentName  string `json:"parent_name"`
	Phone       string `json:"phone"`
}

type DispatchRequest struct {
	TemplateID string
	// Message is used verbatim when TemplateID is empty.
	Message  string
	Contacts []Contact
}

type DispatchedItem struct {
	StudentName string `json:"student_name"`
	Phone       string `json:"phone"`
	Link        string `json:"link"`
}

type DispatchResult struct {
	Dispatched int              `json:"dispatched"`
	Skipped    int              `json:"skipped"`
	Items      []DispatchedItem `json:"items"`
}

type CreateTemplateRequest struct {
	Name            string
	Subject         string
	MessageTemplate string
	Category        string
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	ListTemplates(ctx context.Context) ([]model.WhatsAppTemplate, error)
	CreateTemplate(ctx context.Context, req CreateTemplateRequest) (*model.WhatsAppTemplate, error)

	// Dispatch builds one message per contact and fires the side effects,
	// pausing between items. Contacts without a name or phone are skipped.
	Dispatch(ctx context.Context, req DispatchRequest) (*DispatchResult, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type service struct {
	gw          gateway.Gateway
	countryCode string
	delay       time.Duration
	sleep       Sleeper
	send        Sender
	logger      *slog.Logger
}

func New(gw gateway.Gateway, countryCode string, delay time.Duration, sleep Sleeper, send Sender, logger *slog.Logger) Service {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	if delay <= 0 {
		delay = DefaultDispatchDelay
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		gw:          gw,
		countryCode: countryCode,
		delay:       delay,
		sleep:       sleep,
		send:        send,
		logger:      logger,
	}
}

func (s *service) ListTemplates(ctx context.Context) ([]model.WhatsAppTemplate, error) {
	var rows []model.WhatsAppTemplate
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionWhatsAppTemplates,
		OrderBy:    "name",
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("list whatsapp templates: %w", err)
	}
	return rows, nil
}

func (s *service) CreateTemplate(ctx context.Context, req CreateTemplateRequest) (*model.WhatsAppTemplate, error) {
	if strings.TrimSpace(req.MessageTemplate) == "" {
		return nil, ErrEmptyTemplate
	}

	row := model.WhatsAppTemplate{
		Name:            req.Name,
		Subject:         req.Subject,
		MessageTemplate: req.MessageTemplate,
		Category:        req.Category,
	}
	var created model.WhatsAppTemplate
	if err := s.gw.Insert(ctx, model.CollectionWhatsAppTemplates, row, &created); err != nil {
		return nil, fmt.Errorf("create whatsapp template: %w", err)
	}
	return &created, nil
}

func (s *service) Dispatch(ctx context.Context, req DispatchRequest) (*DispatchResult, error) {
	if len(req.Contacts) == 0 {
		return nil, ErrNoContacts
	}

	template := req.Message
	if req.TemplateID != "" {
		tmpl, err := s.loadTemplate(ctx, req.TemplateID)
		if err != nil {
			return nil, err
		}
		template = tmpl.MessageTemplate
	}
	if strings.TrimSpace(template) == "" {
		return nil, ErrEmptyTemplate
	}

	result := &DispatchResult{Items: []DispatchedItem{}}
	for _, contact := range req.Contacts {
		if contact.StudentName == "" || strings.TrimSpace(contact.Phone) == "" {
			result.Skipped++
			continue
		}

		number := NormalizePhone(contact.Phone, s.countryCode)
		if number == "" {
			result.Skipped++
			continue
		}
		s.validateAdvisory(number)

		message := BuildMessage(template, contact)
		link := BuildLink(number, message)

		// Stagger side effects: pause before every item after the first
		// that actually dispatches.
		if result.Dispatched > 0 {
			s.sleep(s.delay)
		}

		if s.send != nil {
			if err := s.send(ctx, link); err != nil {
				s.logger.Warn("whatsapp send failed",
					"student", contact.StudentName,
					"error", err,
				)
			}
		}

		result.Dispatched++
		result.Items = append(result.Items, DispatchedItem{
			StudentName: contact.StudentName,
			Phone:       number,
			Link:        link,
		})
	}
	return result, nil
}

func (s *service) loadTemplate(ctx context.Context, id string) (*model.WhatsAppTemplate, error) {
	var rows []model.WhatsAppTemplate
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionWhatsAppTemplates,
		Filters:    []gateway.Filter{gateway.Eq("id", id)},
		Limit:      1,
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("get whatsapp template: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrTemplateNotFound
	}
	return &rows[0], nil
}

// validateAdvisory runs libphonenumber over the normalized number. A number
// it dislikes is logged but still dispatched; normalization alone decides.
func (s *service) validateAdvisory(number string) {
	parsed, err := phonenumbers.Parse("+"+number, "")
	if err != nil {
		s.logger.Warn("whatsapp number failed advisory parse", "number", number, "error", err)
		return
	}
	if !phonenumbers.IsValidNumber(parsed) {
		s.logger.Warn("whatsapp number failed advisory validation", "number", number)
	}
}

// BuildMessage substitutes the {student_name} and {parent_name}
// placeholders.
func BuildMessage(template string, contact Contact) string {
	out := strings.ReplaceAll(template, "{student_name}", contact.StudentName)
	out = strings.ReplaceAll(out, "{parent_name}", contact.ParentName)
	return out
}

// NormalizePhone strips everything but digits and swaps a single leading
// zero for the country code: "081234567890" becomes "6281234567890".
func NormalizePhone(phone, countryCode string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, "0") {
		return countryCode + digits[1:]
	}
	return digits
}

// BuildLink renders the wa.me deep link with the encoded message.
func BuildLink(number, message string) string {
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(message)
}
