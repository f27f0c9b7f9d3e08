// Package users contains the account domain: the User model, the credential
// store Repository, and the Service orchestrating signup and login.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"telefeed/internal/common"
	"telefeed/internal/server/auth"
	"telefeed/internal/server/config"
)

// LoginResult bundles the issued token with the account summary returned to
// the client. It never carries the password hash.
type LoginResult struct {
	Token    string
	ID       string
	Username string
	Email    string
	Name     string
}

// RegisterParams are the validated signup inputs. Field-level validation
// (lengths, email format) happens at the HTTP boundary before the service
// is invoked.
type RegisterParams struct {
	Name     string
	Username string
	Email    string
	Password string
	Phone    string
}

type Service struct {
	repo                        Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Login verifies the credentials and issues a token for the username.
// A missing account and a wrong password both return
// common.ErrInvalidCredentials so the response cannot be used to enumerate
// accounts.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.Username, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{
		Token:    token,
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Name:     user.Name,
	}, nil
}

// Register creates a new account. The existence checks are a fast path; the
// insert may still fail on the unique constraints under concurrent signups,
// and that failure surfaces as the same Taken errors.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*User, error) {

	taken, err := s.repo.ExistsByUsername(ctx, p.Username)
	if err != nil {
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	if taken {
		return nil, common.ErrUsernameTaken
	}

	taken, err = s.repo.ExistsByEmail(ctx, p.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if taken {
		return nil, common.ErrEmailTaken
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &User{
		Name:         p.Name,
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: hash,
		Phone:        p.Phone,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrUsernameTaken) || errors.Is(err, common.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// GetByUsername resolves an account, used by the request authenticator to
// attach an identity after token validation.
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, username)
}
