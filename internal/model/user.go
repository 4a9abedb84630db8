// Package model defines domain entities for the application.
package model

import "time"

// User is a registered account. Users own lost items but are never owned by them.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"created_at"`
}
