package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

// ProfileService is CRUD over user and authority profiles. Reads never carry
// the credential; that is enforced by the repositories' projections.
type ProfileService struct {
	users       ports.UserRepository
	authorities ports.AuthorityRepository
	cache       ports.Cache
	log         zerolog.Logger
}

func NewProfileService(users ports.UserRepository, authorities ports.AuthorityRepository, cache ports.Cache, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, authorities: authorities, cache: cache, log: log}
}

func (s *ProfileService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateUser merges the provided fields into the stored profile.
func (s *ProfileService) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	if patch.IsEmpty() {
		return nil, domain.Invalid("no fields to update")
	}
	if patch.FirstName != nil && strings.TrimSpace(*patch.FirstName) == "" {
		return nil, domain.Invalid("firstName cannot be empty")
	}
	if patch.Email != nil {
		email := normaliseEmail(*patch.Email)
		if email == "" {
			return nil, domain.Invalid("email cannot be empty")
		}
		taken, err := s.userEmailTaken(ctx, id, email)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		if taken {
			return nil, domain.ErrEmailExists
		}
		patch.Email = &email
	}

	u, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// userEmailTaken reports whether email belongs to an authority or to a
// citizen other than id.
func (s *ProfileService) userEmailTaken(ctx context.Context, id, email string) (bool, error) {
	if taken, err := s.authorities.EmailExists(ctx, email); err != nil || taken {
		return taken, err
	}
	u, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return u.ID != id, nil
}

func (s *ProfileService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *ProfileService) GetAuthority(ctx context.Context, id string) (*domain.Authority, error) {
	return s.authorities.FindByID(ctx, id)
}

func (s *ProfileService) UpdateAuthority(ctx context.Context, id string, patch domain.AuthorityPatch) (*domain.Authority, error) {
	if patch.IsEmpty() {
		return nil, domain.Invalid("no fields to update")
	}
	if patch.AuthorityName != nil && strings.TrimSpace(*patch.AuthorityName) == "" {
		return nil, domain.Invalid("authorityName cannot be empty")
	}
	if patch.Email != nil {
		email := normaliseEmail(*patch.Email)
		if email == "" {
			return nil, domain.Invalid("email cannot be empty")
		}
		taken, err := s.users.EmailExists(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("update authority: %w", err)
		}
		if taken {
			return nil, domain.ErrEmailExists
		}
		patch.Email = &email
	}

	a, err := s.authorities.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update authority: %w", err)
	}
	if patch.AuthorityName != nil || patch.District != nil {
		invalidate(ctx, s.cache, s.log, lookupCacheKey)
	}
	return a, nil
}

func (s *ProfileService) DeleteAuthority(ctx context.Context, id string) error {
	if err := s.authorities.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete authority: %w", err)
	}
	invalidate(ctx, s.cache, s.log, lookupCacheKey)
	s.log.Info().Str("authority_id", id).Msg("authority deleted")
	return nil
}
