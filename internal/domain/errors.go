package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// trip, day, or catalog entry does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. malformed date text, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrCatalogUnavailable is returned while the content document has not been
// loaded successfully. Handlers should map this to HTTP 503 so the client can
// offer a retry instead of rendering a partial catalog.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// ErrSuperseded is returned when an asset probe run was replaced by a newer
// run for the same client slot before it finished. Its result must be
// discarded. Handlers should map this to HTTP 409.
var ErrSuperseded = errors.New("superseded by a newer request")
