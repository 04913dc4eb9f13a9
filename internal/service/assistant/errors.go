package assistant

import "errors"

var (
	ErrEmptyMessage = errors.New("chat message is required")
)
