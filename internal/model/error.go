package model

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrPartNotFound      = errors.New("part not found")
	ErrBuildNotFound     = errors.New("build not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrStoreUnavailable  = errors.New("store unavailable")
	// ErrCommitTimeout means the initiating write outlived its deadline.
	// The write is not cancelled and may still land; callers must treat
	// this as ambiguous, not as a guaranteed abort.
	ErrCommitTimeout = errors.New("commit timed out")
)
