package consultation

import "errors"

var (
	ErrNotFound         = errors.New("consultation not found")
	ErrUnauthorized     = errors.New("not authorized to access this consultation")
	ErrEmptyTitle       = errors.New("consultation title is required")
	ErrEmptyDescription = errors.New("consultation description is required")
	ErrEmptyMessage     = errors.New("message text is required")
	ErrAlreadyResolved  = errors.New("consultation is already resolved")
	ErrInvalidStatus    = errors.New("invalid consultation status")
)
