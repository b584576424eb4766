package service

import (
	"context"
	"errors"

	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/repo"
	"github.com/szigetelo/backoffice/internal/pkg/utils/secrets"
	"github.com/szigetelo/backoffice/internal/pkg/utils/tokens"
	"gorm.io/gorm"
)

type UserService interface {
	// Identify resolves a bearer API token to its user.
	Identify(ctx context.Context, bearer string) (*model.User, error)
}

type TokenConfig struct {
	Prefix       string
	Pepper       string
	VerifyArgon2 bool
}

type userService struct {
	users repo.UserRepo
	cfg   TokenConfig
}

func NewUserService(users repo.UserRepo, cfg TokenConfig) UserService {
	return &userService{users: users, cfg: cfg}
}

func (s *userService) Identify(ctx context.Context, bearer string) (*model.User, error) {
	secret, ok := tokens.ParseToken(bearer, s.cfg.Prefix)
	if !ok || secret == "" {
		return nil, ErrUnauthorized
	}

	u, err := s.users.GetByTokenHMAC(ctx, tokens.HMAC256Hex(s.cfg.Pepper, secret))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if s.cfg.VerifyArgon2 {
		pass, err := secrets.VerifySecret(secret, s.cfg.Pepper, u.APITokenHash)
		if err != nil || !pass {
			return nil, ErrUnauthorized
		}
	}
	if u.Blocked {
		return nil, ErrUnauthorized
	}
	return u, nil
}

// IssueAPIToken creates a new bearer token for u and stores its lookup HMAC and hash.
// The returned token is shown once; only derived values are persisted.
func IssueAPIToken(ctx context.Context, users repo.UserRepo, u *model.User, cfg TokenConfig) (string, error) {
	secret, err := secrets.NewToken(32)
	if err != nil {
		return "", err
	}
	hash, err := secrets.HashSecret(secret, cfg.Pepper)
	if err != nil {
		return "", err
	}
	lookup := tokens.HMAC256Hex(cfg.Pepper, secret)
	u.APITokenHMAC = &lookup
	u.APITokenHash = hash
	if err := users.Save(ctx, u); err != nil {
		return "", err
	}
	return cfg.Prefix + secret, nil
}
