package routing

import "strings"

// Default is the fallback value of a route variable together with the
// literal text that surrounds it when the variable is rendered into a URL.
type Default struct {
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Value  string `json:"value,omitempty"  yaml:"value,omitempty"`
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
}

// String renders the default with its prefix and suffix.
func (d Default) String() string {
	return d.Prefix + d.Value + d.Suffix
}

// IsZero reports whether all parts are empty.
func (d Default) IsZero() bool {
	return d.Prefix == "" && d.Value == "" && d.Suffix == ""
}

// ParseDefault parses the "prefix{value}suffix" notation.
// Text without braces is taken as the bare value.
// The last "{...}" pair of the string delimits the value.
func ParseDefault(s string) Default {
	closing := strings.LastIndexByte(s, '}')
	if closing < 0 {
		return Default{Value: s}
	}
	opening := strings.LastIndexByte(s[:closing], '{')
	if opening < 0 {
		return Default{Value: s}
	}
	return Default{
		Prefix: s[:opening],
		Value:  s[opening+1 : closing],
		Suffix: s[closing+1:],
	}
}
