// Package models contains the persisted entities of the authvault server.
package models

import "time"

// User is the persisted identity record, keyed by unique email.
// PasswordHash is opaque to everything except the hashing package and must
// never leave the server.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
