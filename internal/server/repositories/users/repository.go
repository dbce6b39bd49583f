// Package users persists user records. The store owns email uniqueness:
// concurrent registrations for the same email race between lookup and
// insert, and the unique index is the backstop that rejects the loser.
package users

import (
	"context"

	"github.com/authvault/authvault/internal/server/models"
)

// Repository is the persistence contract consumed by the auth service.
type Repository interface {
	// FindByEmail returns the user with the given email, or
	// common.ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Create inserts a new user and returns it with the store-assigned
	// fields populated. A duplicate email yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
}
