package locale

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"golang.org/x/text/language"
)

// maxHeaderLength bounds the Accept-Language header considered for negotiation.
const maxHeaderLength = 4096

var (
	ErrNoLocales     = errors.New("locale: no supported locales")
	ErrInvalidLocale = errors.New("locale: invalid locale")
)

// Negotiator picks the best supported locale for a request.
// It is immutable after New and safe for concurrent use.
type Negotiator struct {
	matcher   language.Matcher
	supported []string
}

// New creates a negotiator for the given locales. The first one is the
// fallback when nothing matches.
func New(supported ...string) (*Negotiator, error) {
	if len(supported) == 0 {
		return nil, ErrNoLocales
	}

	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidLocale, s, err)
		}
		tags = append(tags, tag)
	}

	return &Negotiator{
		matcher:   language.NewMatcher(tags),
		supported: slices.Clone(supported),
	}, nil
}

// Supported returns the configured locales as given to New.
func (n *Negotiator) Supported() []string {
	return slices.Clone(n.supported)
}

// Default returns the fallback locale.
func (n *Negotiator) Default() string {
	return n.supported[0]
}

// Negotiate returns the supported locale that best fits an Accept-Language
// header value, or the fallback.
func (n *Negotiator) Negotiate(header string) string {
	if len(header) > maxHeaderLength {
		header = header[:maxHeaderLength]
	}

	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return n.Default()
	}

	_, idx, conf := n.matcher.Match(desired...)
	if conf == language.No {
		return n.Default()
	}
	return n.supported[idx]
}

// FromRequest negotiates the locale of r from its Accept-Language header.
// Its signature fits routing.WithLocaleFallback.
func (n *Negotiator) FromRequest(r *http.Request) string {
	return n.Negotiate(r.Header.Get("Accept-Language"))
}

// Match reports the supported locale equal to or covering tag, such as
// "en" for "en-GB".
func (n *Negotiator) Match(tag string) (string, bool) {
	t, err := language.Parse(tag)
	if err != nil {
		return "", false
	}
	_, idx, conf := n.matcher.Match(t)
	if conf == language.No {
		return "", false
	}
	return n.supported[idx], true
}
