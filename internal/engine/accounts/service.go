package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"metricly/internal/pkg/validator"
	"metricly/internal/platform/auth"
	"metricly/internal/platform/database"
	"metricly/internal/platform/models"
	"metricly/internal/platform/repositories"
)

var (
	ErrEmailTaken         = errors.New("accounts: email already registered")
	ErrInvalidCredentials = errors.New("accounts: incorrect email or password")
)

// ValidationError reports unusable registration or login input.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

type RegisterInput struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	OrganizationName string `json:"organization_name"`
}

type Service struct {
	orgRepo  *repositories.OrganizationRepository
	userRepo *repositories.UserRepository
	hasher   *auth.Hasher
	tokenSvc *auth.TokenService
}

func NewService(orgRepo *repositories.OrganizationRepository, userRepo *repositories.UserRepository, hasher *auth.Hasher, tokenSvc *auth.TokenService) *Service {
	return &Service{
		orgRepo:  orgRepo,
		userRepo: userRepo,
		hasher:   hasher,
		tokenSvc: tokenSvc,
	}
}

// Register creates a new organization and its first admin user. Both rows
// are written in one transaction.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email, err := validator.NormalizeEmail(in.Email)
	if err != nil {
		return nil, &ValidationError{Field: "email", Err: err}
	}
	if err := validator.ValidatePassword(in.Password); err != nil {
		return nil, &ValidationError{Field: "password", Err: err}
	}
	if err := validator.ValidateOrganizationName(in.OrganizationName); err != nil {
		return nil, &ValidationError{Field: "organization_name", Err: err}
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	org := &models.Organization{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.OrganizationName),
		CreatedAt: now,
	}
	user := &models.User{
		ID:             uuid.NewString(),
		OrganizationID: org.ID,
		Email:          email,
		PasswordHash:   hash,
		Role:           models.RoleAdmin,
		IsActive:       true,
		CreatedAt:      now,
	}

	tx, err := s.orgRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.orgRepo.CreateTx(ctx, tx, org); err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}
	if err := s.userRepo.CreateTx(ctx, tx, user); err != nil {
		// Lost a race with a concurrent registration of the same email.
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Str("org_id", org.ID).Msg("organization registered")
	return user, nil
}

// Login checks the credentials and returns a signed access token for the
// user. Unknown email and wrong password are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if normalized, err := validator.NormalizeEmail(email); err == nil {
		email = normalized
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("lookup email: %w", err)
	}
	if user == nil || !s.hasher.Verify(password, user.PasswordHash) {
		log.Debug().Msg("login rejected")
		return "", ErrInvalidCredentials
	}

	return s.tokenSvc.Issue(user.ID, s.tokenSvc.DefaultTTL())
}
