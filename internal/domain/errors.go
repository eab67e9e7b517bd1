package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing booking code, negative profit).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would violate a uniqueness rule,
// such as recording a second sale under an existing booking code.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInvalidTransition is returned by the payable status machine when the
// requested move is not allowed from the line's current status, or when a
// required note is missing. The trip is left unmodified.
// Handlers should map this to HTTP 409.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrUnauthorized is returned when an operation requires administrator
// privilege and the acting user does not hold it.
// Handlers should map this to HTTP 403.
var ErrUnauthorized = errors.New("unauthorized")
