package service

import (
	"context"
	"strings"

	"github.com/notehq/notehub/internal/apperrors"
	"github.com/notehq/notehub/internal/domain/user"
	"github.com/notehq/notehub/internal/security"
)

// Consumer-side contracts; the postgres repos and the jwt manager satisfy
// them, tests fake them.

type UserStore interface {
	Create(ctx context.Context, email, username, passwordHash string) (user.User, error)
	FindByEmail(ctx context.Context, email string) (user.User, error)
	FindByID(ctx context.Context, id string) (user.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type UsernameGenerator interface {
	GenerateUnique(ctx context.Context, base string) (string, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID string) (string, error)
	GenerateRefreshToken(userID string) (string, error)
}

// AuthService composes the password policy, the username generator, the token
// manager and the credential store into signup / signin / refresh.
type AuthService struct {
	users     UserStore
	usernames UsernameGenerator
	tokens    TokenIssuer
}

func NewAuthService(users UserStore, usernames UsernameGenerator, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:     users,
		usernames: usernames,
		tokens:    tokens,
	}
}

// SignUp creates an account but does not log the user in: no tokens are
// issued. Duplicate email always conflicts, the operation is not idempotent.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (user.Public, error) {
	email = NormalizeEmail(email)

	if email == "" || password == "" {
		return user.Public{}, apperrors.New(apperrors.KindValidation, "email and password are required")
	}

	if security.IsBlockedEmailDomain(email) {
		return user.Public{}, apperrors.New(apperrors.KindValidation, "email domain not allowed")
	}

	if err := security.ValidateStrength(password); err != nil {
		return user.Public{}, err
	}

	exists, err := s.users.EmailExists(ctx, email)

	if err != nil {
		return user.Public{}, err
	}

	if exists {
		return user.Public{}, apperrors.New(apperrors.KindConflict, "user already exists")
	}

	localPart, _, _ := strings.Cut(email, "@")

	username, err := s.usernames.GenerateUnique(ctx, localPart)

	if err != nil {
		return user.Public{}, err
	}

	hash, err := security.HashPassword(password)

	if err != nil {
		return user.Public{}, err
	}

	// The unique constraints still guard the window between the EmailExists
	// check and this insert; Create maps a violation to a conflict.
	u, err := s.users.Create(ctx, email, username, hash)

	if err != nil {
		return user.Public{}, err
	}

	return u.Public(), nil
}

// SignIn verifies credentials and issues both tokens. Unknown email and wrong
// password produce the same error so callers cannot enumerate accounts.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (user.Public, string, string, error) {
	email = NormalizeEmail(email)

	if email == "" || password == "" {
		return user.Public{}, "", "", apperrors.New(apperrors.KindValidation, "email and password are required")
	}

	u, err := s.users.FindByEmail(ctx, email)

	if err != nil {
		return user.Public{}, "", "", apperrors.New(apperrors.KindAuthentication, "invalid credentials")
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return user.Public{}, "", "", apperrors.New(apperrors.KindAuthentication, "invalid credentials")
	}

	accessToken, err := s.tokens.GenerateAccessToken(u.ID)

	if err != nil {
		return user.Public{}, "", "", err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(u.ID)

	if err != nil {
		return user.Public{}, "", "", err
	}

	return u.Public(), accessToken, refreshToken, nil
}

// RefreshToken issues a new access token for a still-existing user. The
// refresh token itself is not rotated; it stays valid until its own expiry.
func (s *AuthService) RefreshToken(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", apperrors.New(apperrors.KindValidation, "user id is required")
	}

	// the account may have been deleted since the token was issued
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return "", err
	}

	return s.tokens.GenerateAccessToken(userID)
}

// ValidateUser confirms a decoded token subject still maps to a live account.
func (s *AuthService) ValidateUser(ctx context.Context, userID string) (user.Public, error) {
	if userID == "" {
		return user.Public{}, apperrors.New(apperrors.KindValidation, "user id is required")
	}

	u, err := s.users.FindByID(ctx, userID)

	if err != nil {
		return user.Public{}, err
	}

	return u.Public(), nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
