package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/jobops-service/internal/auth"
	"github.com/spec-kit/jobops-service/internal/domain"
	"github.com/spec-kit/jobops-service/internal/events"
	"github.com/spec-kit/jobops-service/internal/repository"
	apperrors "github.com/spec-kit/jobops-service/pkg/util"
)

// UserService manages the user directory (admin surface).
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	bcryptCost int

	Now func() time.Time
}

// NewUserService constructs the service.
func NewUserService(userRepo repository.UserRepository, dispatcher events.Dispatcher, bcryptCost int) *UserService {
	return &UserService{
		users:      userRepo,
		dispatcher: dispatcher,
		bcryptCost: bcryptCost,
		Now:        time.Now,
	}
}

// UserCreateInput describes a new directory entry.
type UserCreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      domain.Role
	Phone     *string
}

// UserUpdateInput describes a partial update. Nil fields are unchanged.
type UserUpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
	Role      *domain.Role
	Phone     *string
	Active    *bool
}

// CreateUser registers a directory entry with a hashed password.
func (s *UserService) CreateUser(ctx context.Context, actor Actor, input UserCreateInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("username, email, password required", nil)
	}
	role := input.Role
	if role == "" {
		role = domain.RoleTechnician
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"field": "role"})
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidationError("email already registered", map[string]any{"field": "email"})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hash,
		Role:         role,
		Phone:        input.Phone,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(apperrors.TranslateIntegrity(err, "username or email already registered"))
	}
	s.publishEvent(ctx, actor, events.EventUserCreated, user.ID)
	return user, nil
}

// GetUser fetches a directory entry.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListUsers returns directory entries.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// UpdateUser applies a partial update, including role reassignment.
func (s *UserService) UpdateUser(ctx context.Context, actor Actor, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"field": "role"})
		}
		user.Role = *input.Role
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Active != nil {
		user.Active = *input.Active
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(apperrors.TranslateIntegrity(err, "username or email already registered"))
	}
	s.publishEvent(ctx, actor, events.EventUserUpdated, user.ID)
	return user, nil
}

// DeactivateUser soft-deactivates a directory entry. Users are never hard
// deleted.
func (s *UserService) DeactivateUser(ctx context.Context, actor Actor, id string) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return user, nil
	}
	user.Active = false
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, actor, events.EventUserDeactivated, user.ID)
	return user, nil
}

func (s *UserService) publishEvent(ctx context.Context, actor Actor, eventType events.EventType, entityID string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityType: "User",
		EntityID:   entityID,
		Actor:      events.Actor{UserID: actor.UserID, IP: actor.IP},
		Timestamp:  s.Now(),
	})
}
