package locale_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pathway/pkg/locale"
)

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := locale.New()
	require.ErrorIs(t, err, locale.ErrNoLocales)

	_, err = locale.New("en", "not a tag!")
	require.ErrorIs(t, err, locale.ErrInvalidLocale)

	n, err := locale.New("en", "de")
	require.NoError(t, err)
	require.Equal(t, []string{"en", "de"}, n.Supported())
	require.Equal(t, "en", n.Default())
}

func TestNegotiator_Negotiate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		header    string
		supported []string
		want      string
	}{
		{name: "empty header", header: "", supported: []string{"en", "pl", "de"}, want: "en"},
		{name: "exact", header: "pl", supported: []string{"en", "pl", "de"}, want: "pl"},
		{name: "quality values", header: "de;q=0.5,pl;q=0.9,en;q=0.8", supported: []string{"en", "pl", "de"}, want: "pl"},
		{name: "region to base", header: "en-US", supported: []string{"en", "pl", "de"}, want: "en"},
		{name: "base to region", header: "en", supported: []string{"en-US", "pl"}, want: "en-US"},
		{name: "skips unsupported", header: "fr,en-US;q=0.9", supported: []string{"pl", "en"}, want: "en"},
		{name: "exact region", header: "pt-BR", supported: []string{"pt-PT", "pt-BR"}, want: "pt-BR"},
		{name: "no match", header: "ja", supported: []string{"en", "de"}, want: "en"},
		{name: "malformed", header: "!!!", supported: []string{"de", "en"}, want: "de"},
		{name: "oversized", header: strings.Repeat("x", 5000), supported: []string{"en"}, want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n, err := locale.New(tt.supported...)
			require.NoError(t, err)
			require.Equal(t, tt.want, n.Negotiate(tt.header))
		})
	}
}

func TestNegotiator_FromRequest(t *testing.T) {
	t.Parallel()

	n, err := locale.New("en", "de")
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	require.Equal(t, "en", n.FromRequest(r))

	r.Header.Set("Accept-Language", "de-AT,de;q=0.9")
	require.Equal(t, "de", n.FromRequest(r))
}

func TestNegotiator_Match(t *testing.T) {
	t.Parallel()

	n, err := locale.New("en", "de")
	require.NoError(t, err)

	got, ok := n.Match("de-CH")
	require.True(t, ok)
	require.Equal(t, "de", got)

	_, ok = n.Match("ja")
	require.False(t, ok)

	_, ok = n.Match("??")
	require.False(t, ok)
}
