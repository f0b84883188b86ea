package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

const (
	defaultSessionTTL = 30 * 24 * time.Hour
	defaultResetTTL   = 30 * time.Second
)

// TokenIssuer mints signed tokens for a user.
type TokenIssuer interface {
	IssueSessionToken(user *domain.User) (string, error)
	IssueResetToken(user *domain.User) (string, error)
}

// AuthConfig holds the signing settings shared by every request.
type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
	ResetTTL   time.Duration
}

// AuthService implements login, registration and token issue/verification.
type AuthService struct {
	repo ports.UserRepository
	cfg  AuthConfig
	now  func() time.Time
}

func NewAuthService(repo ports.UserRepository, cfg AuthConfig) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = defaultResetTTL
	}
	return &AuthService{repo: repo, cfg: cfg, now: time.Now}
}

// ResetTTL is the lifetime of reset tokens minted by this service.
func (s *AuthService) ResetTTL() time.Duration {
	return s.cfg.ResetTTL
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	if name == "" || email == "" || password == "" {
		return "", nil, domain.ErrInvalidInput
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return "", nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return "", nil, fmt.Errorf("register: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return "", nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.IssueSessionToken(created)
	if err != nil {
		return "", nil, err
	}
	return token, created, nil
}

// Login checks the credentials and returns a session token. Unknown email
// and wrong password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.IssueSessionToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) IssueSessionToken(user *domain.User) (string, error) {
	return s.sign(user.ID, s.cfg.SessionTTL, s.cfg.JWTSecret)
}

// IssueResetToken signs a short-lived token with the user's reset secret.
func (s *AuthService) IssueResetToken(user *domain.User) (string, error) {
	return s.sign(user.ID, s.cfg.ResetTTL, user.ResetSecret())
}

// VerifySession validates a session token and loads the user it names.
func (s *AuthService) VerifySession(ctx context.Context, token string) (*domain.User, error) {
	id, err := s.parse(token, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("verify session: %w", err)
	}
	return user, nil
}

// VerifyReset loads userID and validates token against that user's current
// reset secret. The token must also name the same user.
func (s *AuthService) VerifyReset(ctx context.Context, userID, token string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("verify reset: %w", err)
	}

	id, err := s.parse(token, user.ResetSecret())
	if err != nil {
		return nil, err
	}
	if id != user.ID {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

func (s *AuthService) sign(userID string, ttl time.Duration, secret string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parse(token, secret string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid {
		return "", domain.ErrInvalidToken
	}

	id, _ := claims["id"].(string)
	if id == "" {
		return "", domain.ErrInvalidToken
	}
	return id, nil
}

func hashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.ErrInvalidInput
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
