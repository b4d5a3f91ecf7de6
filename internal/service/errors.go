package service

import "errors"

var (
	// ErrInvalidValue is returned for answer values outside the 5-level
	// ordinal set. The attempt is left unchanged.
	ErrInvalidValue = errors.New("answer value must be between -2 and 2")

	// ErrAttemptClosed is returned for writes after completion
	ErrAttemptClosed = errors.New("attempt is completed and read-only")

	// ErrIncompleteAnswers is returned when completion is requested
	// before every question has an answer
	ErrIncompleteAnswers = errors.New("all questions must be answered before completing")

	// ErrNotFound is returned for missing attempts, catalogs or buffers
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller does not own the attempt
	ErrForbidden = errors.New("attempt belongs to a different owner")

	// ErrInvalidCredentials is returned for failed logins
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken is returned for unparseable or expired tokens
	ErrInvalidToken = errors.New("invalid or expired token")
)
