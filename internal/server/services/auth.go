// Package services contains server-side business logic. This file
// implements AuthService, which orchestrates registration, login, and
// token verification and owns the caller-visible error classification.
package services

import (
	"context"
	"errors"

	"github.com/authvault/authvault/internal/common"
	"github.com/authvault/authvault/internal/logging"
	"github.com/authvault/authvault/internal/server/hashing"
	"github.com/authvault/authvault/internal/server/models"
	"github.com/authvault/authvault/internal/server/repositories/users"
	"github.com/authvault/authvault/internal/server/token"
)

// UserView is the public projection of a user record. The password hash
// never appears here.
type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResult pairs a user view with a freshly minted token.
type AuthResult struct {
	User  UserView
	Token string
}

// AuthService provides the authentication operations:
//   - Register: create a user and mint its first token
//   - Login: verify credentials and mint a token
//   - VerifyToken: validate a token and re-issue a fresh one
//
// Every failure is classified into one of the common sentinel errors;
// collaborator error detail is logged here and never returned.
type AuthService struct {
	repo   users.Repository
	hasher *hashing.Hasher
	codec  *token.Codec
	logger logging.Logger
}

// NewAuthService constructs an AuthService from its collaborators.
func NewAuthService(repo users.Repository, hasher *hashing.Hasher, codec *token.Codec, logger logging.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		codec:  codec,
		logger: logger.With("module", "auth_service"),
	}
}

// Register creates a new user with the given name, email, and password.
// A taken email yields ErrAlreadyExists; any store or hashing failure
// yields ErrInternal with the cause logged. On success exactly one record
// is persisted and an AuthResult is returned.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrAlreadyExists
	}
	if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrInternal
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrInternal
	}

	user, err := s.repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		// Two concurrent registrations can both pass the lookup; the
		// store's unique index rejects the loser.
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		s.logger.Error(ctx, "user create failed", "error", err)
		return nil, common.ErrInternal
	}

	s.logger.Info(ctx, "user registered", "email", user.Email)
	return s.result(ctx, user)
}

// Login verifies the credentials and returns an AuthResult on success.
// An unknown email yields ErrNotFound, a password mismatch
// ErrInvalidCredentials. The user record is never mutated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.result(ctx, user)
}

// VerifyToken parses the token and, on success, re-issues a fresh one
// carrying the same claims, so every successful verification extends the
// caller's effective session. The store is deliberately not consulted:
// verification trusts the signed claims as-is, and a deleted user stays
// verifiable until the last issued token expires. Any failure yields
// ErrUnauthorized.
func (s *AuthService) VerifyToken(ctx context.Context, tok string) (*AuthResult, error) {
	claims, err := s.codec.Parse(tok)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	fresh, err := s.codec.Issue(*claims)
	if err != nil {
		s.logger.Error(ctx, "token re-issue failed", "error", err)
		return nil, common.ErrUnauthorized
	}

	return &AuthResult{
		User:  UserView{ID: claims.UserID, Name: claims.Name, Email: claims.Email},
		Token: fresh,
	}, nil
}

func (s *AuthService) result(ctx context.Context, user *models.User) (*AuthResult, error) {
	tok, err := s.codec.Issue(token.Claims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	})
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "error", err)
		return nil, common.ErrInternal
	}

	return &AuthResult{
		User:  UserView{ID: user.ID, Name: user.Name, Email: user.Email},
		Token: tok,
	}, nil
}
