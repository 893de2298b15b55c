package routeconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/pathway/pkg/routing"
)

// File is a parsed route file.
type File struct {
	Routes []Route `yaml:"routes"`
	raw    []byte
}

// Route is one route declaration. Nested Routes are declared as children.
type Route struct {
	Pattern    *string           `yaml:"pattern"`
	Stop       *bool             `yaml:"stop,omitempty"`
	Imply      *bool             `yaml:"imply,omitempty"`
	Cut        *bool             `yaml:"cut,omitempty"`
	Parameters map[string]string `yaml:"parameters,omitempty"`
	Defaults   map[string]string `yaml:"defaults,omitempty"`

	Name       string `yaml:"name,omitempty"`
	OutputType string `yaml:"output_type,omitempty"`
	Module     string `yaml:"module,omitempty"`
	Action     string `yaml:"action,omitempty"`
	Locale     string `yaml:"locale,omitempty"`
	Callback   string `yaml:"callback,omitempty"`
	Source     string `yaml:"source,omitempty"`

	Methods StringList `yaml:"methods,omitempty"`
	Ignores StringList `yaml:"ignores,omitempty"`
	Routes  []Route    `yaml:"routes,omitempty"`
}

// StringList accepts either a YAML sequence or a scalar with
// space or comma separated items.
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = strings.FieldsFunc(node.Value, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list", node.Line)
	}
}

// Load reads and parses a route file from r.
func Load(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrReadFile, err)
	}
	return Parse(data)
}

// LoadFile reads and parses the route file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrReadFile, err)
	}
	return Parse(data)
}

// Parse parses a route file.
func Parse(data []byte) (*File, error) {
	f := &File{raw: bytes.Clone(data)}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrInvalidFile, err)
	}

	if err := validate(f.Routes, ""); err != nil {
		return nil, err
	}
	return f, nil
}

func validate(routes []Route, path string) error {
	for i, rt := range routes {
		at := fmt.Sprintf("%sroutes[%d]", path, i)
		if rt.Pattern == nil {
			return fmt.Errorf("%w: %s: missing pattern", ErrInvalidFile, at)
		}
		if err := validate(rt.Routes, at+"."); err != nil {
			return err
		}
	}
	return nil
}

// Checksum returns the hex encoded SHA-256 of the raw file.
// Identical files yield identical checksums, which makes it usable as a snapshot key.
func (f *File) Checksum() string {
	sum := sha256.Sum256(f.raw)
	return hex.EncodeToString(sum[:])
}

// Len returns the number of declared routes, nested ones included.
func (f *File) Len() int {
	return count(f.Routes)
}

func count(routes []Route) int {
	n := len(routes)
	for _, rt := range routes {
		n += count(rt.Routes)
	}
	return n
}

// Apply adds the declared routes to router, parents before their children.
func (f *File) Apply(router *routing.Router) error {
	return apply(router, f.Routes, "")
}

func apply(router *routing.Router, routes []Route, parent string) error {
	for _, rt := range routes {
		name, err := router.AddRoute(*rt.Pattern, rt.Options(), parent)
		if err != nil {
			label := rt.Name
			if label == "" {
				label = *rt.Pattern
			}
			return fmt.Errorf("routeconfig: route %q: %w", label, err)
		}
		if err := apply(router, rt.Routes, name); err != nil {
			return err
		}
	}
	return nil
}

// Options converts the declaration to routing options.
func (rt Route) Options() routing.RouteOptions {
	return routing.RouteOptions{
		Name:       rt.Name,
		Stop:       rt.Stop,
		Imply:      rt.Imply,
		Cut:        rt.Cut,
		Methods:    rt.Methods,
		OutputType: rt.OutputType,
		Module:     rt.Module,
		Action:     rt.Action,
		Locale:     rt.Locale,
		Parameters: rt.Parameters,
		Ignores:    rt.Ignores,
		Defaults:   rt.Defaults,
		Callback:   rt.Callback,
		Source:     rt.Source,
	}
}

// Build creates a router with opts and applies the file to it.
func (f *File) Build(opts ...routing.Option) (*routing.Router, error) {
	r := routing.New(opts...)
	if err := f.Apply(r); err != nil {
		return nil, err
	}
	return r, nil
}
