package testsession

import "errors"

var (
	ErrTemplateNotFound = errors.New("psychology test template not found")
	ErrTemplateInactive = errors.New("psychology test template is not active")
	ErrSessionNotFound  = errors.New("psychology test session not found")
	ErrSessionCompleted = errors.New("psychology test session is already completed")
	ErrUnauthorized     = errors.New("not authorized to access this session")
	ErrQuestionNotFound = errors.New("question does not belong to this test")
	ErrAnswerOutOfRange = errors.New("answer option index out of range")
)
