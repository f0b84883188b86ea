package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	tokens TokenIssuer
	logger zerolog.Logger
	now    func() time.Time
}

func NewUserService(repo ports.UserRepository, tokens TokenIssuer, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, tokens: tokens, logger: logger, now: time.Now}
}

func (s *UserService) Profile(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile applies the non-empty fields of in to the user and returns
// the stored record with a fresh session token. The password is re-hashed
// only when a new one is supplied.
func (s *UserService) UpdateProfile(ctx context.Context, id string, in ports.UpdateProfileInput) (*domain.User, string, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if in.Password != "" {
		hash, err := hashPassword(in.Password)
		if err != nil {
			return nil, "", err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.IssueSessionToken(updated)
	if err != nil {
		return nil, "", err
	}
	return updated, token, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update is the admin edit. IsAdmin changes only when in.IsAdmin is set.
func (s *UserService) Update(ctx context.Context, id string, in ports.AdminUpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if in.IsAdmin != nil {
		user.IsAdmin = *in.IsAdmin
	}
	user.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", updated.ID).Bool("is_admin", updated.IsAdmin).Msg("user updated by admin")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user removed")
	return nil
}
