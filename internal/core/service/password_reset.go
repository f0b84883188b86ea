package service

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

const resetMailSubject = "Ananses3m Wear account password reset"

var emailPattern = regexp.MustCompile(`^\S+@\S+$`)

type PasswordResetService struct {
	users    ports.UserRepository
	tokens   TokenIssuer
	mailer   ports.Mailer
	throttle ports.ResetThrottle
	linkBase string
	resetTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewPasswordResetService wires the reset flow. throttle may be nil.
func NewPasswordResetService(
	users ports.UserRepository,
	tokens TokenIssuer,
	mailer ports.Mailer,
	throttle ports.ResetThrottle,
	linkBase string,
	resetTTL time.Duration,
	logger zerolog.Logger,
) *PasswordResetService {
	if resetTTL <= 0 {
		resetTTL = defaultResetTTL
	}
	return &PasswordResetService{
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		throttle: throttle,
		linkBase: strings.TrimRight(linkBase, "/"),
		resetTTL: resetTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Request mints a reset token for email, queues the reset link and returns
// the token.
func (s *PasswordResetService) Request(ctx context.Context, email string) (string, error) {
	if email == "" || !emailPattern.MatchString(email) {
		return "", domain.ErrInvalidEmail
	}

	if s.throttle != nil {
		ok, err := s.throttle.Allow(ctx, email)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Msg("reset throttle unavailable, continuing")
		case !ok:
			return "", domain.ErrTooManyRequests
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.IssueResetToken(user)
	if err != nil {
		return "", err
	}

	link := fmt.Sprintf("%s/reset/%s/%s", s.linkBase, user.ID, token)
	msg := domain.Email{
		To:      user.Email,
		Subject: resetMailSubject,
		HTML:    resetMailBody(link, s.resetTTL),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("reset mail not queued")
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password reset requested")
	return token, nil
}

// Confirm sets a new password for a user whose reset token has already been
// verified and returns a fresh session token.
func (s *PasswordResetService) Confirm(ctx context.Context, user *domain.User, password string) (*domain.User, string, error) {
	if password == "" {
		return nil, "", domain.ErrInvalidInput
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now().UTC()

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.IssueSessionToken(updated)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("user_id", updated.ID).Msg("password reset completed")
	return updated, token, nil
}

func resetMailBody(link string, ttl time.Duration) string {
	return fmt.Sprintf(
		`<p>Click this <a href="%s">link</a> to set a new password.</p>`+
			`<p><strong>Please note that this link expires in %s.</strong></p>`,
		html.EscapeString(link), humanDuration(ttl),
	)
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
