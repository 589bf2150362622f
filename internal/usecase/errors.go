package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("resource already exists")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrUpstreamUnavailable covers network failures, non-2xx provider
	// statuses and an open circuit towards the football data provider.
	ErrUpstreamUnavailable = errors.New("football data provider unavailable")
	// ErrUpstreamInvalidResponse means the provider answered with a body
	// that is not a record list.
	ErrUpstreamInvalidResponse = errors.New("invalid football data provider response")
	ErrMissingRequiredField    = fmt.Errorf("%w: missing required field", ErrUpstreamInvalidResponse)
)
