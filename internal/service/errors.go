package service

import "errors"

var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrValidation is returned for malformed or out-of-range input
	ErrValidation = errors.New("validation failed")

	// ErrIllegalTransition is returned when a status change is not in the
	// transition table for the document's type and current status
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrEditLocked is returned when non-status fields of a non-draft
	// document are modified
	ErrEditLocked = errors.New("document is locked for editing")

	// ErrPreconditionFailed is returned when a conversion precondition
	// does not hold
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrConflict is returned when a concurrent writer won the race and
	// retrying did not help
	ErrConflict = errors.New("concurrent modification detected")

	// ErrInvalidCredentials is returned when authentication fails
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering an already-used email
	ErrEmailTaken = errors.New("email already registered")

	// ErrRateLimitExceeded is returned when rate limit is exceeded
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrAssistantDisabled is returned when no AI provider is configured
	ErrAssistantDisabled = errors.New("assistant is not configured")
)
