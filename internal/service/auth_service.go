package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/faroemiliano/backBarberia1991/internal/auth"
	"github.com/faroemiliano/backBarberia1991/internal/models"
	"github.com/faroemiliano/backBarberia1991/internal/repository"
)

const minPasswordLen = 6

type TokenIssuer interface {
	Issue(userID uint, isAdmin bool) (string, error)
}

type AuthResult struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GoogleLogin(ctx context.Context, credential string) (*AuthResult, error)
	Me(ctx context.Context, userID uint) (*models.User, error)
	PromoteAdmin(ctx context.Context, email string) error
}

type authService struct {
	userRepo   repository.UserRepository
	tokens     TokenIssuer
	google     auth.GoogleVerifier
	adminEmail string
	logger     *slog.Logger
}

// NewAuthService wires identity. google may be nil to disable Google sign-in;
// adminEmail, when set, is made admin on its first Google sign-in.
func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer, google auth.GoogleVerifier, adminEmail string, logger *slog.Logger) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		userRepo:   userRepo,
		tokens:     tokens,
		google:     google,
		adminEmail: normalizeEmail(adminEmail),
		logger:     logger.With("component", "auth"),
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, minPasswordLen)
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: name, Email: email, PasswordHash: &hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	// Google-provisioned accounts have no password.
	if user.PasswordHash == nil || !auth.CheckPassword(*user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *authService) GoogleLogin(ctx context.Context, credential string) (*AuthResult, error) {
	if s.google == nil {
		return nil, auth.ErrGoogleDisabled
	}
	identity, err := s.google.Verify(ctx, credential)
	if err != nil {
		if errors.Is(err, auth.ErrGoogleDisabled) {
			return nil, err
		}
		s.logger.Warn("google sign-in rejected", "err", err)
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		if s.isAdminEmail(user.Email) && !user.IsAdmin {
			if err := s.userRepo.SetAdmin(ctx, user.Email, true); err != nil {
				return nil, fmt.Errorf("promote admin: %w", err)
			}
			user.IsAdmin = true
		}
	case repository.IsNotFound(err):
		user = &models.User{
			Name:    identity.Name,
			Email:   identity.Email,
			IsAdmin: s.isAdminEmail(identity.Email),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("provision user: %w", err)
		}
		s.logger.Info("user provisioned from google", "user_id", user.ID, "is_admin", user.IsAdmin)
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
	return s.issue(user)
}

func (s *authService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, nil, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *authService) PromoteAdmin(ctx context.Context, email string) error {
	if err := s.userRepo.SetAdmin(ctx, normalizeEmail(email), true); err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("promote admin: %w", err)
	}
	s.logger.Info("user promoted to admin", "email", normalizeEmail(email))
	return nil
}

func (s *authService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: token, User: user}, nil
}

func (s *authService) isAdminEmail(email string) bool {
	return s.adminEmail != "" && normalizeEmail(email) == s.adminEmail
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
