package user

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUnauthorized       = errors.New("not authorized for this operation")
	ErrSessionNotFound    = errors.New("session not found or expired")
)
