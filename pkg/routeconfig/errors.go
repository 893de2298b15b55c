package routeconfig

import "errors"

var (
	// ErrReadFile is returned when the route file cannot be read.
	ErrReadFile = errors.New("routeconfig: failed to read route file")

	// ErrInvalidFile is returned when the route file is malformed.
	ErrInvalidFile = errors.New("routeconfig: invalid route file")
)
