package domain

import "errors"

// Domain errors
var (
	ErrNotReady        = errors.New("reader not ready")
	ErrPageOutOfRange  = errors.New("page out of range")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("comment belongs to another visitor")
	ErrBlankComment    = errors.New("comment text is blank")
	ErrLikeInFlight    = errors.New("like update already in progress")
	ErrPanelClosed     = errors.New("social panel closed")
	ErrNotConfigured   = errors.New("remote data service not configured")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
