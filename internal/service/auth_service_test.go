package service

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/jobops-service/internal/auth"
	"github.com/spec-kit/jobops-service/internal/config"
	"github.com/spec-kit/jobops-service/internal/domain"
	apperrors "github.com/spec-kit/jobops-service/pkg/util"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *domain.User) {
	t.Helper()
	users := newFakeUserRepo()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 15,
			BcryptCost:            testBcryptCost,
		},
	}
	svc := NewAuthService(cfg, users)

	hash, err := auth.HashPassword("s3cret", testBcryptCost)
	if err != nil {
		t.Fatal(err)
	}
	user := &domain.User{
		Username:     "jdoe",
		Email:        "jdoe@example.com",
		PasswordHash: hash,
		Role:         domain.RoleTechnician,
		Active:       true,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatal(err)
	}
	return svc, users, user
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _, seeded := newAuthFixture(t)

	user, token, exp, err := svc.Login(context.Background(), "jdoe@example.com", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != seeded.ID {
		t.Fatalf("expected user %s, got %s", seeded.ID, user.ID)
	}
	if token == "" || exp.IsZero() {
		t.Fatal("expected a signed token with expiry")
	}

	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != seeded.ID || claims.Role != domain.RoleTechnician {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginRejectsWrongPasswordAndUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	for _, attempt := range []struct{ email, password string }{
		{"jdoe@example.com", "wrong"},
		{"nobody@example.com", "s3cret"},
	} {
		_, _, _, err := svc.Login(context.Background(), attempt.email, attempt.password)
		var domainErr *apperrors.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != "UNAUTHORIZED" {
			t.Fatalf("expected UNAUTHORIZED for %s, got %v", attempt.email, err)
		}
	}
}

func TestLoginRejectsDeactivatedUser(t *testing.T) {
	svc, users, seeded := newAuthFixture(t)

	stored := users.users[seeded.ID]
	stored.Active = false
	users.users[seeded.ID] = stored

	if _, _, _, err := svc.Login(context.Background(), "jdoe@example.com", "s3cret"); err == nil {
		t.Fatal("deactivated users must not log in")
	}
}

func TestChangePasswordVerifiesOld(t *testing.T) {
	svc, _, seeded := newAuthFixture(t)

	if err := svc.ChangePassword(context.Background(), seeded.ID, "wrong", "newpass"); err == nil {
		t.Fatal("expected rejection with wrong old password")
	}
	if err := svc.ChangePassword(context.Background(), seeded.ID, "s3cret", "newpass"); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := svc.Login(context.Background(), "jdoe@example.com", "newpass"); err != nil {
		t.Fatalf("login with new password must succeed: %v", err)
	}
}
