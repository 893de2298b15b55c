package routing

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
)

// Source provides named input values that routes can match against
// instead of the primary input.
type Source interface {
	// Lookup resolves a path below the source, e.g. ["HTTP_HOST"].
	Lookup(path []string) (string, bool)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(path []string) (string, bool)

// Lookup calls f(path).
func (f SourceFunc) Lookup(path []string) (string, bool) {
	return f(path)
}

// MapSource is a Source backed by nested maps and slices.
// Leaves are formatted with fmt.Sprint unless they are strings.
type MapSource map[string]any

// Lookup walks path through nested maps and slices; slices take decimal indexes.
func (m MapSource) Lookup(path []string) (string, bool) {
	var cur any = map[string]any(m)
	for _, key := range path {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[key]
			if !ok {
				return "", false
			}
			cur = v
		case MapSource:
			v, ok := node[key]
			if !ok {
				return "", false
			}
			cur = v
		case map[string]string:
			v, ok := node[key]
			if !ok {
				return "", false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return "", false
			}
			cur = node[i]
		case []string:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return "", false
			}
			cur = node[i]
		default:
			return "", false
		}
	}

	switch v := cur.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case map[string]any, MapSource, map[string]string, []any, []string:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

// EnvSource exposes the process environment.
func EnvSource() Source {
	return SourceFunc(func(path []string) (string, bool) {
		if len(path) != 1 {
			return "", false
		}
		return os.LookupEnv(path[0])
	})
}

// ServerSourceName is the name under which ServerSource is registered by Middleware.
const ServerSourceName = "_SERVER"

// ServerSource exposes request data as CGI-style server variables:
// HTTP_* headers, REQUEST_METHOD, REQUEST_URI, QUERY_STRING, PATH_INFO,
// SERVER_NAME, SERVER_PORT, SERVER_PROTOCOL, REMOTE_ADDR and HTTPS.
func ServerSource(r *http.Request) MapSource {
	vars := MapSource{
		"REQUEST_METHOD":  r.Method,
		"REQUEST_URI":     r.URL.RequestURI(),
		"PATH_INFO":       r.URL.Path,
		"QUERY_STRING":    r.URL.RawQuery,
		"SERVER_PROTOCOL": r.Proto,
		"REMOTE_ADDR":     r.RemoteAddr,
		"HTTP_HOST":       r.Host,
	}

	host, port, err := net.SplitHostPort(r.Host)
	if err != nil {
		host = r.Host
		port = "80"
		if r.TLS != nil {
			port = "443"
		}
	}
	vars["SERVER_NAME"] = host
	vars["SERVER_PORT"] = port
	if r.TLS != nil {
		vars["HTTPS"] = "on"
	}

	for name, values := range r.Header {
		key := "HTTP_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		vars[key] = strings.Join(values, ", ")
	}

	return vars
}

// splitSourcePath splits "name[a][b]" or "name.a.b" into its parts.
func splitSourcePath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool {
		return r == '[' || r == ']' || r == '.'
	})
}
