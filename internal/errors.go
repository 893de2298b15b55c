package internal

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	// ErrNoRoutes is returned when neither a route file nor a router is configured.
	ErrNoRoutes = errors.New("pathway: no route file or router configured")

	// ErrReload is returned when the route file cannot be rebuilt.
	// The previous router stays active.
	ErrReload = errors.New("pathway: failed to reload routes")

	// ErrWatch is returned when the route file cannot be watched.
	ErrWatch = errors.New("pathway: failed to watch route file")
)

// HTTPError is an error rendered as a JSON response.
type HTTPError struct {
	// Err is the underlying error, logged but not exposed.
	Err error `json:"-"`

	// Message is the client facing message.
	Message string `json:"error"`

	// Route is the route the request referred to, if any.
	Route string `json:"route,omitempty"`

	Code int `json:"code"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status of the error.
func (e *HTTPError) StatusCode() int {
	return e.Code
}

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// WithRoute names the route the error refers to.
func WithRoute(route string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Route = route
	}
}

// WithError sets the underlying error.
func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// ErrBadRequest returns a 400 error.
func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	e := NewHTTPError(http.StatusBadRequest, message)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ErrNotFound returns a 404 error.
func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	e := NewHTTPError(http.StatusNotFound, message)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ErrInternal returns a 500 error.
func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	e := NewHTTPError(http.StatusInternalServerError, message)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AsHTTPError extracts the HTTPError from an error chain.
// Returns nil if there is none.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// IsHTTPError reports whether err carries an HTTPError.
func IsHTTPError(err error) bool {
	return AsHTTPError(err) != nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err as JSON. Errors that are not HTTPErrors become 500s.
func writeError(w http.ResponseWriter, err error) {
	httpErr := AsHTTPError(err)
	if httpErr == nil {
		httpErr = ErrInternal(http.StatusText(http.StatusInternalServerError), WithError(err))
	}
	writeJSON(w, httpErr.Code, httpErr)
}
