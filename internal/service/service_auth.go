// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The flatnotes Authors

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mailguest/flatnotes/internal/config"
	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/internal/store"
	"github.com/mailguest/flatnotes/internal/utils"
	"github.com/mailguest/flatnotes/models"
)

// authService implements AuthService on top of a UserRepository, hashing
// passwords with bcrypt and issuing HMAC-SHA256 signed JWTs.
type authService struct {
	users store.UserRepository

	// tokenSignKey is the HMAC secret used to sign and verify tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	tokenIssuer string

	// tokenDuration controls how long a newly issued token remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an AuthService wired to the given repository and
// populated with token settings from cfg. The returned service is safe for
// concurrent use; all state is read-only after construction.
func NewAuthService(users store.UserRepository, cfg config.ServerAuth, logger *logger.Logger) AuthService {
	return &authService{
		users:         users,
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// RegisterUser creates a new account. The password is hashed with bcrypt
// before it reaches the repository; the plaintext is never stored.
//
// Returns ErrInvalidDataProvided for an empty login or password, or a
// wrapped storage error (see store.ErrUserExists for a taken login).
func (a *authService) RegisterUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if user.Login == "" || user.Password == "" {
		log.Error().Str("login", user.Login).Msg("invalid registration data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user.Password = ""
	user.PasswordHash = string(hash)

	registered, err := a.users.Create(ctx, user)
	if err != nil {
		log.Err(err).Str("login", user.Login).Msg("user creation failed")
		return models.User{}, fmt.Errorf("user creation failed: %w", err)
	}

	return registered, nil
}

// Login authenticates an existing account by comparing the supplied password
// against the stored bcrypt hash.
//
// Returns ErrInvalidDataProvided for empty credentials, a wrapped storage
// error for an unknown login, or ErrWrongPassword on a hash mismatch.
func (a *authService) Login(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if user.Login == "" || user.Password == "" {
		log.Error().Str("login", user.Login).Msg("invalid login data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	found, err := a.users.GetByLogin(ctx, user.Login)
	if err != nil {
		log.Err(err).Str("login", user.Login).Msg("user lookup failed")
		return models.User{}, fmt.Errorf("user lookup failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(user.Password)); err != nil {
		log.Warn().Str("login", user.Login).Msg("wrong password")
		return models.User{}, ErrWrongPassword
	}

	return found, nil
}

// CreateToken issues a signed JWT carrying the configured issuer claim and
// expiring after the configured duration.
func (a *authService) CreateToken(_ context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw token string, verifying the
// signature and the issuer claim. Every validation failure (expired, wrong
// issuer, malformed) is normalised to ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("token validation failed")
		return models.Token{}, errors.Join(ErrTokenIsExpiredOrInvalid, err)
	}

	return token, nil
}
