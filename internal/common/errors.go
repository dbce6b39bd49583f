// Package common defines the sentinel errors shared across authvault
// layers. They form the whole caller-visible error taxonomy: repositories
// and services classify collaborator failures into one of these values,
// and transports map them to wire status codes. Callers should match with
// errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInternal           = errors.New("internal error")

	// Token errors (bad signature, malformed, or expired).
	ErrInvalidToken = errors.New("invalid token")
)
