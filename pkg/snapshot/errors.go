package snapshot

import "errors"

var (
	ErrNotFound      = errors.New("snapshot: not found")
	ErrClosed        = errors.New("snapshot: store is closed")
	ErrMarshal       = errors.New("snapshot: failed to marshal")
	ErrUnmarshal     = errors.New("snapshot: failed to unmarshal")
	ErrInvalidConfig = errors.New("snapshot: invalid configuration")
	ErrAccessDenied  = errors.New("snapshot: access denied")

	ErrEmptyConnectionURL = errors.New("snapshot: empty connection URL")
	ErrFailedToParseURL   = errors.New("snapshot: failed to parse connection URL")
	ErrConnectionFailed   = errors.New("snapshot: failed to establish connection")
	ErrMigrate            = errors.New("snapshot: failed to apply migrations")
	ErrHealthcheckFailed  = errors.New("snapshot: healthcheck failed")
)
