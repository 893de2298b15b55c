package routing

import (
	"errors"
	"strconv"
	"strings"
)

// Sentinel errors for routing operations.
var (
	// ErrPatternSyntax is returned when a route pattern cannot be compiled.
	ErrPatternSyntax = errors.New("routing: invalid route pattern")

	// ErrHierarchyViolation is returned when a route would change parent or become its own ancestor.
	ErrHierarchyViolation = errors.New("routing: route hierarchy violation")

	// ErrUnknownRoute is returned when a route name does not exist.
	ErrUnknownRoute = errors.New("routing: unknown route")

	// ErrUnknownCallback is returned when a route references a callback that was never registered.
	ErrUnknownCallback = errors.New("routing: unknown callback")

	// ErrInvalidSnapshot is returned when a snapshot cannot be imported.
	ErrInvalidSnapshot = errors.New("routing: invalid snapshot")
)

// Error describes a failed routing operation.
// It wraps one of the sentinel errors so callers can use errors.Is.
type Error struct {
	// Err is the sentinel (or underlying) error.
	Err error

	// Op is the operation that failed: "compile", "add", "gen", "import".
	Op string

	// Route is the route name involved, if any.
	Route string

	// Pattern is the route pattern involved, if any.
	Pattern string

	// Detail is an optional human readable explanation.
	Detail string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("routing: ")
	b.WriteString(e.Op)
	if e.Route != "" {
		b.WriteString(" route ")
		b.WriteString(strconv.Quote(e.Route))
	}
	if e.Pattern != "" {
		b.WriteString(" pattern ")
		b.WriteString(strconv.Quote(e.Pattern))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(strings.TrimPrefix(e.Err.Error(), "routing: "))
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsPatternSyntax reports whether err was caused by an invalid pattern.
func IsPatternSyntax(err error) bool {
	return errors.Is(err, ErrPatternSyntax)
}

// IsHierarchyViolation reports whether err was caused by an illegal tree change.
func IsHierarchyViolation(err error) bool {
	return errors.Is(err, ErrHierarchyViolation)
}

// IsUnknownRoute reports whether err was caused by a missing route name.
func IsUnknownRoute(err error) bool {
	return errors.Is(err, ErrUnknownRoute)
}
