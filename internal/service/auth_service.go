package service

import (
	"context"
	"strings"

	"ripple/internal/auth"
	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/validation"
)

type AuthService struct {
	userRepo repository.UserRepository
	hasher   auth.Hasher
	tokens   auth.TokenIssuer
	ids      auth.IDGenerator
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

func NewAuthService(
	userRepo repository.UserRepository,
	hasher auth.Hasher,
	tokens auth.TokenIssuer,
	ids auth.IDGenerator,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		ids:      ids,
	}
}

// Signup registers a new account and returns a credential token for it.
// Every account starts with the NORMAL role.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (string, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.ValidateName(name); err != nil {
		return "", err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return "", err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return "", err
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", models.NewValidationError("email is already registered")
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", err
	}

	user := &models.User{
		ID:       s.ids.New(),
		Name:     name,
		Email:    email,
		Password: digest,
		Role:     models.RoleNormal,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}

	return s.tokens.Issue(models.AuthPayload{ID: user.ID, Name: user.Name, Role: user.Role})
}

// Login verifies credentials and returns a fresh token. Unknown emails and
// wrong passwords produce the same authentication error so the response does
// not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", models.NewAuthenticationError("Invalid email or password")
	}
	if !s.hasher.Compare(in.Password, user.Password) {
		return "", models.NewAuthenticationError("Invalid email or password")
	}

	return s.tokens.Issue(models.AuthPayload{ID: user.ID, Name: user.Name, Role: user.Role})
}
