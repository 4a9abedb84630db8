// Package service provides business logic for the application.
package service

import "errors"

// Service errors. Handlers map these to HTTP statuses; anything else is internal.
var (
	ErrValidation              = errors.New("validation failed")
	ErrConflict                = errors.New("user already exists")
	ErrUserNotFound            = errors.New("user not found")
	ErrItemNotFound            = errors.New("lost item not found")
	ErrUnauthenticated         = errors.New("authentication required")
	ErrWrongPassword           = errors.New("invalid password")
	ErrForbidden               = errors.New("permission denied")
	ErrNoFile                  = errors.New("no file uploaded")
	ErrInvalidImage            = errors.New("invalid image")
	ErrInvalidSecurityQuestion = errors.New("invalid JSON format for securityQuestion")
	ErrIncorrectAnswer         = errors.New("incorrect answer")
)
