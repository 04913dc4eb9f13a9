// Package user covers account lifecycle and authentication: self sign-up for
// students, admin-provisioned accounts, PASETO token issuance, and the server
// side session state behind those tokens.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
	"github.com/konselapp/konsel_backend/pkg/authorize"
	"github.com/konselapp/konsel_backend/pkg/email"
	pasetotoken "github.com/konselapp/konsel_backend/pkg/paseto"
	"github.com/konselapp/konsel_backend/pkg/sessionmgr"
	"github.com/konselapp/konsel_backend/pkg/util/password"
)

const (
	minPasswordLength     = 8
	initialPasswordLength = 12
)

type SignUpInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	NIS      string `json:"nis"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateUserInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Metadata string `json:"metadata"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	SessionID    string `json:"session_id"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Service interface {
	SignUp(ctx context.Context, in SignUpInput) (*model.Profile, error)
	SignIn(ctx context.Context, in SignInInput) (*AuthTokens, error)
	SignOut(ctx context.Context, sessionID string) error
	ValidateSession(ctx context.Context, sessionID string) (sessionmgr.Session, error)

	CreateUser(ctx context.Context, actorRole model.Role, in CreateUserInput) (*model.Profile, error)
	DeleteUser(ctx context.Context, actorRole model.Role, userID string) error
	UpdateRole(ctx context.Context, actorRole model.Role, userID, newRole string) (*model.Profile, error)

	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	ListStudents(ctx context.Context) ([]model.Profile, error)
	SearchStudents(ctx context.Context, query string) ([]model.Profile, error)
}

type service struct {
	gw       gateway.Gateway
	sessions SessionStore
	policy   *sessionmgr.Manager
	tokens   *pasetotoken.Manager
	auth     authorize.IAuthorization
	mailer   *email.Client
	nc       *nats.Conn

	accessTTL time.Duration
	appName   string
	baseURL   string
	logger    *slog.Logger
}

// Options carries the optional collaborators. A nil mailer disables account
// emails; a nil NATS connection disables event publishing.
type Options struct {
	Mailer    *email.Client
	NATS      *nats.Conn
	AccessTTL time.Duration
	AppName   string
	BaseURL   string
	Logger    *slog.Logger
}

func New(gw gateway.Gateway, sessions SessionStore, policy *sessionmgr.Manager, tokens *pasetotoken.Manager, auth authorize.IAuthorization, opts Options) Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 15 * time.Minute
	}
	if opts.AppName == "" {
		opts.AppName = "Konsel"
	}
	return &service{
		gw:        gw,
		sessions:  sessions,
		policy:    policy,
		tokens:    tokens,
		auth:      auth,
		mailer:    opts.Mailer,
		nc:        opts.NATS,
		accessTTL: opts.AccessTTL,
		appName:   opts.AppName,
		baseURL:   opts.BaseURL,
		logger:    opts.Logger,
	}
}

// ---------------------------------------------------------------------------
// Authentication
// ---------------------------------------------------------------------------

func (s *service) SignUp(ctx context.Context, in SignUpInput) (*model.Profile, error) {
	addr := strings.TrimSpace(strings.ToLower(in.Email))
	if !validEmail(addr) {
		return nil, ErrInvalidEmail
	}
	if len(in.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if taken, err := s.emailTaken(ctx, addr); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailExists
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	metadata := ""
	if nis := strings.TrimSpace(in.NIS); nis != "" {
		metadata = fmt.Sprintf(`{"nis":%q}`, nis)
	}

	p, err := s.insertProfile(ctx, model.Profile{
		Email:        addr,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         model.RoleStudent.String(),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Metadata:     metadata,
	})
	if err != nil {
		return nil, err
	}

	s.grantRoles(ctx, p.ID, p.Role)
	s.publish("created", p.ID)

	p.PasswordHash = ""
	return p, nil
}

func (s *service) SignIn(ctx context.Context, in SignInInput) (*AuthTokens, error) {
	addr := strings.TrimSpace(strings.ToLower(in.Email))

	p, err := s.profileByEmail(ctx, addr)
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := password.Verify(p.PasswordHash, in.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	userID, err := uuid.Parse(p.ID)
	if err != nil {
		return nil, fmt.Errorf("malformed user id %q: %w", p.ID, err)
	}
	sessionID := uuid.Must(uuid.NewV7())

	sess := s.policy.Start(p.ID, p.Role)
	ttl := s.policy.ExpiresIn(sess)
	if err := s.sessions.Save(ctx, sessionID.String(), sess, ttl); err != nil {
		return nil, err
	}

	access, err := s.tokens.IssueAccess(userID, &sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(userID, &sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		SessionID:    sessionID.String(),
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *service) SignOut(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// ValidateSession checks the stored session against the lifetime policy and
// refreshes its activity timestamp. Expired sessions are removed from the
// store as a side effect.
func (s *service) ValidateSession(ctx context.Context, sessionID string) (sessionmgr.Session, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return sessionmgr.Session{}, err
	}

	touched, ok := s.policy.Touch(sess)
	if !ok {
		_ = s.sessions.Delete(ctx, sessionID)
		return sessionmgr.Session{}, ErrSessionNotFound
	}
	if err := s.sessions.Save(ctx, sessionID, touched, s.policy.ExpiresIn(touched)); err != nil {
		return sessionmgr.Session{}, err
	}
	return touched, nil
}

// ---------------------------------------------------------------------------
// Account administration
// ---------------------------------------------------------------------------

func (s *service) CreateUser(ctx context.Context, actorRole model.Role, in CreateUserInput) (*model.Profile, error) {
	if actorRole != model.RoleAdmin {
		return nil, ErrUnauthorized
	}
	addr := strings.TrimSpace(strings.ToLower(in.Email))
	if !validEmail(addr) {
		return nil, ErrInvalidEmail
	}
	role, err := model.ParseRole(in.Role)
	if err != nil {
		return nil, ErrInvalidRole
	}
	if taken, err := s.emailTaken(ctx, addr); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailExists
	}

	initial := password.Generate(initialPasswordLength)
	hash, err := password.Hash(initial)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	p, err := s.insertProfile(ctx, model.Profile{
		Email:        addr,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         role.String(),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Metadata:     in.Metadata,
	})
	if err != nil {
		return nil, err
	}

	s.grantRoles(ctx, p.ID, p.Role)
	s.publish("created", p.ID)

	if s.mailer != nil {
		msg := email.BuildAccountCreatedEmail(email.AccountEmailData{
			FullName: p.FullName,
			Email:    p.Email,
			Role:     p.Role,
			AppName:  s.appName,
			BaseURL:  s.baseURL,
		}, initial)
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.Warn("account email not sent", "user_id", p.ID, "error", err)
		}
	}

	p.PasswordHash = ""
	return p, nil
}

func (s *service) DeleteUser(ctx context.Context, actorRole model.Role, userID string) error {
	if actorRole != model.RoleAdmin {
		return ErrUnauthorized
	}
	p, err := s.profileByID(ctx, userID)
	if err != nil {
		return err
	}

	n, err := s.gw.Delete(ctx, model.CollectionProfiles, []gateway.Filter{gateway.Eq("id", userID)})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	if s.auth != nil {
		if err := authorize.RemoveSchoolRole(ctx, s.auth, userID, p.Role); err != nil {
			s.logger.Warn("role revoke failed", "user_id", userID, "error", err)
		}
	}
	s.publish("deleted", userID)
	return nil
}

func (s *service) UpdateRole(ctx context.Context, actorRole model.Role, userID, newRole string) (*model.Profile, error) {
	if actorRole != model.RoleAdmin {
		return nil, ErrUnauthorized
	}
	role, err := model.ParseRole(newRole)
	if err != nil {
		return nil, ErrInvalidRole
	}

	p, err := s.profileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.Role == role.String() {
		p.PasswordHash = ""
		return p, nil
	}

	if _, err := s.gw.Update(ctx, model.CollectionProfiles,
		[]gateway.Filter{gateway.Eq("id", userID)},
		map[string]any{"role": role.String()},
	); err != nil {
		return nil, err
	}

	if s.auth != nil {
		if err := authorize.RemoveSchoolRole(ctx, s.auth, userID, p.Role); err != nil {
			s.logger.Warn("role revoke failed", "user_id", userID, "error", err)
		}
		if err := authorize.AssignSchoolRole(ctx, s.auth, userID, role.String()); err != nil {
			s.logger.Warn("role grant failed", "user_id", userID, "error", err)
		}
	}

	p.Role = role.String()
	p.PasswordHash = ""
	s.publish("role_changed", userID)
	return p, nil
}

// ---------------------------------------------------------------------------
// Profiles
// ---------------------------------------------------------------------------

func (s *service) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.profileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.PasswordHash = ""
	return p, nil
}

func (s *service) ListStudents(ctx context.Context) ([]model.Profile, error) {
	var rows []model.Profile
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionProfiles,
		Filters:    []gateway.Filter{gateway.Eq("role", model.RoleStudent.String())},
		OrderBy:    "full_name",
	}, &rows)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].PasswordHash = ""
	}
	return rows, nil
}

// SearchStudents matches by name, or by NIS when the query is all digits.
// The NIS lives inside the profile metadata document.
func (s *service) SearchStudents(ctx context.Context, query string) ([]model.Profile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListStudents(ctx)
	}

	column := "full_name"
	if isDigits(query) {
		column = "metadata"
	}

	var rows []model.Profile
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionProfiles,
		Filters: []gateway.Filter{
			gateway.Eq("role", model.RoleStudent.String()),
			gateway.Contains(column, query),
		},
		OrderBy: "full_name",
	}, &rows)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].PasswordHash = ""
	}
	return rows, nil
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

func (s *service) profileByID(ctx context.Context, id string) (*model.Profile, error) {
	var rows []model.Profile
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionProfiles,
		Filters:    []gateway.Filter{gateway.Eq("id", id)},
		Limit:      1,
	}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (s *service) profileByEmail(ctx context.Context, addr string) (*model.Profile, error) {
	var rows []model.Profile
	err := s.gw.Select(ctx, gateway.Query{
		Collection: model.CollectionProfiles,
		Filters:    []gateway.Filter{gateway.Eq("email", addr)},
		Limit:      1,
	}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (s *service) emailTaken(ctx context.Context, addr string) (bool, error) {
	_, err := s.profileByEmail(ctx, addr)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) insertProfile(ctx context.Context, p model.Profile) (*model.Profile, error) {
	var created model.Profile
	if err := s.gw.Insert(ctx, model.CollectionProfiles, p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *service) grantRoles(ctx context.Context, userID, profileRole string) {
	if s.auth == nil {
		return
	}
	if err := authorize.AssignUserSelfRole(ctx, s.auth, userID); err != nil {
		s.logger.Warn("self role grant failed", "user_id", userID, "error", err)
	}
	if err := authorize.AssignSchoolRole(ctx, s.auth, userID, profileRole); err != nil {
		s.logger.Warn("school role grant failed", "user_id", userID, "error", err)
	}
}

func (s *service) publish(event, userID string) {
	if s.nc == nil {
		return
	}
	subject := fmt.Sprintf("konsel.user.%s.%s", event, userID)
	if err := s.nc.Publish(subject, []byte(userID)); err != nil {
		s.logger.Warn("event publish failed", "subject", subject, "error", err)
	}
}

func validEmail(addr string) bool {
	at := strings.Index(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return false
	}
	return !strings.ContainsAny(addr, " \t")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
