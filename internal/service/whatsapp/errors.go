package whatsapp

import "errors"

var (
	ErrTemplateNotFound = errors.New("whatsapp template not found")
	ErrEmptyTemplate    = errors.New("message template is required")
	ErrNoContacts       = errors.New("no contacts to dispatch")
)
