package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/templui/portfolio/internal/ctxkeys"
	"github.com/templui/portfolio/internal/db/dbtest"
	"github.com/templui/portfolio/internal/repository"
	"github.com/templui/portfolio/internal/validation"
)

func newTestAuthService(t *testing.T, allowSignup bool) *AuthService {
	t.Helper()
	conn := dbtest.Open(t)
	return NewAuthService(repository.NewUserRepository(conn), "test-secret", time.Hour, false, allowSignup)
}

func TestEnsureOwnerAndSignIn(t *testing.T) {
	s := newTestAuthService(t, false)
	ctx := context.Background()

	owner, err := s.EnsureOwner(ctx, " Owner@Example.com ", "correct horse battery")
	if err != nil {
		t.Fatalf("EnsureOwner: %v", err)
	}
	again, err := s.EnsureOwner(ctx, "owner@example.com", "correct horse battery")
	if err != nil || again.ID != owner.ID {
		t.Fatalf("second EnsureOwner = %v, %v", again, err)
	}

	user, err := s.SignIn(ctx, "OWNER@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if user.ID != owner.ID {
		t.Errorf("signed in as %s, want %s", user.ID, owner.ID)
	}

	_, err = s.SignIn(ctx, "owner@example.com", "wrong password here")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	_, err = s.SignIn(ctx, "nobody@example.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v", err)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	s := newTestAuthService(t, true)
	ctx := context.Background()

	user, err := s.SignUp(ctx, "new@example.com", "a long enough secret")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	got, err := s.UserFromToken(ctx, token)
	if err != nil {
		t.Fatalf("UserFromToken: %v", err)
	}
	if got.ID != user.ID || got.PasswordHash != nil {
		t.Errorf("UserFromToken = %+v", got)
	}

	other := NewAuthService(nil, "different-secret", time.Hour, false, false)
	if _, err := other.VerifyJWT(token); err == nil {
		t.Error("token verified with the wrong secret")
	}
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()

	closed := newTestAuthService(t, false)
	if _, err := closed.SignUp(ctx, "x@example.com", "a long enough secret"); !errors.Is(err, ErrSignupDisabled) {
		t.Errorf("disabled SignUp err = %v", err)
	}

	open := newTestAuthService(t, true)
	if _, err := open.SignUp(ctx, "x@example.com", "short"); err == nil {
		t.Error("weak password accepted")
	}
	if _, err := open.SignUp(ctx, "x@example.com", "a long enough secret"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := open.SignUp(ctx, "x@example.com", "a long enough secret"); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("duplicate SignUp err = %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	conn := dbtest.Open(t)
	users := repository.NewUserRepository(conn)
	auth := NewAuthService(users, "test-secret", time.Hour, false, false)
	svc := NewUserService(users)

	owner, err := auth.EnsureOwner(context.Background(), "owner@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("EnsureOwner: %v", err)
	}
	ctx := ctxkeys.WithUser(context.Background(), owner)

	err = svc.ChangePassword(context.Background(), "correct horse battery", "another long secret")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous err = %v", err)
	}

	err = svc.ChangePassword(ctx, "wrong current one", "another long secret")
	if !errors.Is(err, ErrInvalidCurrentPassword) {
		t.Errorf("wrong current err = %v", err)
	}

	err = svc.ChangePassword(ctx, "correct horse battery", "short")
	var verrs *validation.Errors
	if !errors.As(err, &verrs) || verrs.Fields["new_password"] == "" {
		t.Errorf("weak password err = %v", err)
	}

	err = svc.ChangePassword(ctx, "correct horse battery", "another long secret")
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	_, err = auth.SignIn(context.Background(), "owner@example.com", "another long secret")
	if err != nil {
		t.Errorf("sign in with new password: %v", err)
	}
}
