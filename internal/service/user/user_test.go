package user

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/konselapp/konsel_backend/internal/gateway"
	"github.com/konselapp/konsel_backend/internal/model"
	pasetotoken "github.com/konselapp/konsel_backend/pkg/paseto"
	"github.com/konselapp/konsel_backend/pkg/sessionmgr"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(t *testing.T) (Service, *gateway.MemoryGateway, *fakeClock) {
	t.Helper()

	tokens, err := pasetotoken.New(pasetotoken.Config{
		Mode:     pasetotoken.ModeLocal,
		Issuer:   "konsel-test",
		Audience: "konsel-api",
	}, pasetotoken.NewLocalKeys())
	if err != nil {
		t.Fatalf("paseto manager: %v", err)
	}

	clock := &fakeClock{now: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}
	gw := gateway.NewMemoryGateway()
	svc := New(gw, NewMemorySessionStore(), sessionmgr.New(24*time.Hour, 30*time.Minute, clock), tokens, nil, Options{
		AccessTTL: 15 * time.Minute,
	})
	return svc, gw, clock
}

func signUpStudent(t *testing.T, svc Service, email string) *model.Profile {
	t.Helper()
	p, err := svc.SignUp(context.Background(), SignUpInput{
		FullName: "Budi Santoso",
		Email:    email,
		Password: "rahasia-sekali",
		NIS:      "20240117",
	})
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	return p
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	p := signUpStudent(t, svc, "Budi@Sekolah.id")
	if p.Role != "student" {
		t.Errorf("new account role = %q, want student", p.Role)
	}
	if p.Email != "budi@sekolah.id" {
		t.Errorf("email not normalized: %q", p.Email)
	}
	if p.PasswordHash != "" {
		t.Error("SignUp() leaked the password hash")
	}
	if !strings.Contains(p.Metadata, "20240117") {
		t.Errorf("metadata missing NIS: %q", p.Metadata)
	}

	tokens, err := svc.SignIn(ctx, SignInInput{Email: "budi@sekolah.id", Password: "rahasia-sekali"})
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("SignIn() returned empty tokens")
	}
	if tokens.ExpiresIn != 900 {
		t.Errorf("ExpiresIn = %d, want 900", tokens.ExpiresIn)
	}

	sess, err := svc.ValidateSession(ctx, tokens.SessionID)
	if err != nil {
		t.Fatalf("ValidateSession() error = %v", err)
	}
	if sess.UserID != p.ID {
		t.Errorf("session user = %q, want %q", sess.UserID, p.ID)
	}
	if sess.Role != "student" {
		t.Errorf("session role = %q, want student", sess.Role)
	}
}

func TestSignUpValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	signUpStudent(t, svc, "ada@sekolah.id")

	tests := []struct {
		name string
		in   SignUpInput
		want error
	}{
		{"missing at sign", SignUpInput{Email: "bukan-email", Password: "cukuppanjang"}, ErrInvalidEmail},
		{"empty local part", SignUpInput{Email: "@sekolah.id", Password: "cukuppanjang"}, ErrInvalidEmail},
		{"short password", SignUpInput{Email: "b@sekolah.id", Password: "pendek"}, ErrPasswordTooShort},
		{"duplicate email", SignUpInput{Email: "ADA@sekolah.id", Password: "cukuppanjang"}, ErrEmailExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SignUp(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("SignUp() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSignInBadCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	signUpStudent(t, svc, "budi@sekolah.id")

	if _, err := svc.SignIn(ctx, SignInInput{Email: "budi@sekolah.id", Password: "salah-semua"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.SignIn(ctx, SignInInput{Email: "tidakada@sekolah.id", Password: "apapun-saja"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: error = %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateSessionIdleExpiry(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()
	signUpStudent(t, svc, "budi@sekolah.id")

	tokens, err := svc.SignIn(ctx, SignInInput{Email: "budi@sekolah.id", Password: "rahasia-sekali"})
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	clock.advance(20 * time.Minute)
	if _, err := svc.ValidateSession(ctx, tokens.SessionID); err != nil {
		t.Fatalf("session should survive 20m of idle: %v", err)
	}

	// The validation above refreshed activity, so another 20m stays alive.
	clock.advance(20 * time.Minute)
	if _, err := svc.ValidateSession(ctx, tokens.SessionID); err != nil {
		t.Fatalf("touched session expired early: %v", err)
	}

	clock.advance(31 * time.Minute)
	if _, err := svc.ValidateSession(ctx, tokens.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("idle session: error = %v, want ErrSessionNotFound", err)
	}
	// Expired sessions are removed, not just rejected.
	if _, err := svc.ValidateSession(ctx, tokens.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second lookup: error = %v, want ErrSessionNotFound", err)
	}
}

func TestSignOut(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	signUpStudent(t, svc, "budi@sekolah.id")

	tokens, err := svc.SignIn(ctx, SignInInput{Email: "budi@sekolah.id", Password: "rahasia-sekali"})
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if err := svc.SignOut(ctx, tokens.SessionID); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if _, err := svc.ValidateSession(ctx, tokens.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("after sign-out: error = %v, want ErrSessionNotFound", err)
	}
}

func TestCreateUserAdminOnly(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, model.RoleCounselor, CreateUserInput{
		FullName: "Ibu Wati", Email: "wati@sekolah.id", Role: "counselor",
	}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("counselor actor: error = %v, want ErrUnauthorized", err)
	}

	if _, err := svc.CreateUser(ctx, model.RoleAdmin, CreateUserInput{
		FullName: "Ibu Wati", Email: "wati@sekolah.id", Role: "kepala-sekolah",
	}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("bad role: error = %v, want ErrInvalidRole", err)
	}

	p, err := svc.CreateUser(ctx, model.RoleAdmin, CreateUserInput{
		FullName: "Ibu Wati", Email: "wati@sekolah.id", Role: "counselor",
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if p.Role != "counselor" {
		t.Errorf("role = %q, want counselor", p.Role)
	}
	if p.PasswordHash != "" {
		t.Error("CreateUser() leaked the password hash")
	}

	// The account exists with a generated password the caller never sees,
	// so only a lookup check is possible here.
	got, err := svc.GetProfile(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got.Email != "wati@sekolah.id" {
		t.Errorf("email = %q", got.Email)
	}
}

func TestUpdateRoleAndDelete(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	p := signUpStudent(t, svc, "budi@sekolah.id")

	if _, err := svc.UpdateRole(ctx, model.RoleCounselor, p.ID, "counselor"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("counselor actor: error = %v, want ErrUnauthorized", err)
	}

	got, err := svc.UpdateRole(ctx, model.RoleAdmin, p.ID, "counselor")
	if err != nil {
		t.Fatalf("UpdateRole() error = %v", err)
	}
	if got.Role != "counselor" {
		t.Errorf("role = %q, want counselor", got.Role)
	}
	reread, err := svc.GetProfile(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if reread.Role != "counselor" {
		t.Errorf("stored role = %q, want counselor", reread.Role)
	}

	if err := svc.DeleteUser(ctx, model.RoleStudent, p.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("student actor: error = %v, want ErrUnauthorized", err)
	}
	if err := svc.DeleteUser(ctx, model.RoleAdmin, p.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if _, err := svc.GetProfile(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: error = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteUser(ctx, model.RoleAdmin, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: error = %v, want ErrNotFound", err)
	}
}

func TestSearchStudents(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	signUpStudent(t, svc, "budi@sekolah.id")
	if _, err := svc.SignUp(ctx, SignUpInput{
		FullName: "Siti Rahma",
		Email:    "siti@sekolah.id",
		Password: "rahasia-sekali",
		NIS:      "20250042",
	}); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	byName, err := svc.SearchStudents(ctx, "siti")
	if err != nil {
		t.Fatalf("SearchStudents() error = %v", err)
	}
	if len(byName) != 1 || byName[0].FullName != "Siti Rahma" {
		t.Fatalf("name search = %+v, want only Siti Rahma", byName)
	}

	byNIS, err := svc.SearchStudents(ctx, "20240117")
	if err != nil {
		t.Fatalf("SearchStudents() error = %v", err)
	}
	if len(byNIS) != 1 || byNIS[0].FullName != "Budi Santoso" {
		t.Fatalf("NIS search = %+v, want only Budi Santoso", byNIS)
	}

	all, err := svc.SearchStudents(ctx, "")
	if err != nil {
		t.Fatalf("SearchStudents() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("blank query returned %d rows, want 2", len(all))
	}
	for _, p := range all {
		if p.PasswordHash != "" {
			t.Errorf("listing leaked password hash for %s", p.Email)
		}
	}
}
