package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/mtlprog/agentdesk/internal/repository"
)

const minPasswordLength = 8

// Claims is the JWT payload of a session token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService registers users, checks credentials and issues session tokens.
type AuthService struct {
	userRepo *repository.UserRepository
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService creates a new AuthService signing HS256 tokens with secret.
func NewAuthService(userRepo *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", domain.ErrInvalidPasswordSpec
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("%w: email", domain.ErrRequiredField)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: email %q is not a valid address", domain.ErrRequiredField, email)
	}
	return email, nil
}

// Register creates an account.
func (s *AuthService) Register(ctx context.Context, email, password string, isAdmin bool) (*domain.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID, "is_admin", user.IsAdmin)

	return user, nil
}

// EnsureAdmin creates an admin account, or promotes and resets the password
// of an existing account with the same email.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return s.Register(ctx, email, password, true)
	}
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	existing.PasswordHash = hash
	existing.IsAdmin = true
	existing.IsActive = true
	if err := s.userRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	slog.Info("user promoted to admin", "user_id", existing.ID)

	return existing, nil
}

// Login checks credentials and returns a signed session token. With
// adminOnly set, non-admin accounts are refused.
func (s *AuthService) Login(ctx context.Context, email, password string, adminOnly bool) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", fmt.Errorf("%w: account is inactive", domain.ErrPermissionDenied)
	}
	if adminOnly && !user.IsAdmin {
		return "", fmt.Errorf("%w: not authorized as admin", domain.ErrPermissionDenied)
	}

	return s.IssueToken(user)
}

// IssueToken signs a session token for the user.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a session token and returns its principal.
func (s *AuthService) ParseToken(token string) (*domain.Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}

	return &domain.Principal{UserID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}

// UserPatch holds a partial user update. Password is plaintext and hashed
// before storage.
type UserPatch struct {
	Email    *string
	Password *string
	IsAdmin  *bool
	IsActive *bool
}

// UpdateUser applies a partial update to an account.
func (s *AuthService) UpdateUser(ctx context.Context, userID string, patch UserPatch) (*domain.User, error) {
	if patch.Email == nil && patch.Password == nil && patch.IsAdmin == nil && patch.IsActive == nil {
		return nil, domain.ErrNoFieldsToUpdate
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		if user.Email, err = normalizeEmail(*patch.Email); err != nil {
			return nil, err
		}
	}
	if patch.Password != nil {
		if user.PasswordHash, err = HashPassword(*patch.Password); err != nil {
			return nil, err
		}
	}
	if patch.IsAdmin != nil {
		user.IsAdmin = *patch.IsAdmin
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("user updated", "user_id", user.ID)

	return user, nil
}
