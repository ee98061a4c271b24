package usecase

import "errors"

// Sentinels shared by all services. Handlers translate them to HTTP statuses;
// everything else wraps them with %w and context.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("upstream dependency unavailable")
)
