package service

import (
	"context"
	"testing"

	"github.com/spec-kit/jobops-service/internal/auth"
	"github.com/spec-kit/jobops-service/internal/domain"
)

// bcrypt cost 4 keeps hashing fast in tests.
const testBcryptCost = 4

func TestCreateUserHashesPasswordAndDefaultsRole(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users, nil, testBcryptCost)

	user, err := svc.CreateUser(context.Background(), testActor, UserCreateInput{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatal(err)
	}
	if user.Role != domain.RoleTechnician {
		t.Fatalf("role must default to technician, got %s", user.Role)
	}
	if !user.Active {
		t.Fatal("new users must be active")
	}
	if user.PasswordHash == "s3cret" || user.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if err := auth.ComparePassword(user.PasswordHash, "s3cret"); err != nil {
		t.Fatalf("stored hash must verify: %v", err)
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users, nil, testBcryptCost)

	if _, err := svc.CreateUser(context.Background(), testActor, UserCreateInput{
		Username: "jdoe", Email: "jdoe@example.com", Password: "s3cret",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateUser(context.Background(), testActor, UserCreateInput{
		Username: "jdoe2", Email: "jdoe@example.com", Password: "s3cret",
	}); err == nil {
		t.Fatal("expected duplicate email rejection")
	}
}

func TestCreateUserRejectsInvalidRole(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil, testBcryptCost)

	if _, err := svc.CreateUser(context.Background(), testActor, UserCreateInput{
		Username: "jdoe", Email: "jdoe@example.com", Password: "s3cret", Role: domain.Role("manager"),
	}); err == nil {
		t.Fatal("expected invalid role rejection")
	}
}

func TestDeactivateUserIsSoftAndIdempotent(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users, nil, testBcryptCost)

	user, err := svc.CreateUser(context.Background(), testActor, UserCreateInput{
		Username: "jdoe", Email: "jdoe@example.com", Password: "s3cret",
	})
	if err != nil {
		t.Fatal(err)
	}

	deactivated, err := svc.DeactivateUser(context.Background(), testActor, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if deactivated.Active {
		t.Fatal("user must be inactive after deactivation")
	}
	if _, err := users.GetByID(context.Background(), user.ID); err != nil {
		t.Fatal("deactivation must not remove the record")
	}

	if _, err := svc.DeactivateUser(context.Background(), testActor, user.ID); err != nil {
		t.Fatalf("repeat deactivation must be a no-op: %v", err)
	}
}

func TestUpdateUserReassignsRole(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users, nil, testBcryptCost)

	user, err := svc.CreateUser(context.Background(), testActor, UserCreateInput{
		Username: "jdoe", Email: "jdoe@example.com", Password: "s3cret",
	})
	if err != nil {
		t.Fatal(err)
	}

	admin := domain.RoleAdmin
	updated, err := svc.UpdateUser(context.Background(), testActor, user.ID, UserUpdateInput{Role: &admin})
	if err != nil {
		t.Fatal(err)
	}
	if !updated.IsAdmin() {
		t.Fatalf("expected admin role, got %s", updated.Role)
	}
}
