package routing_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pathway/pkg/routing"
)

func TestCompile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pattern  string
		expr     string
		reverse  string
		anchor   routing.Anchor
		names    []string
		defaults map[string]routing.Default
	}{
		{
			name:     "literal only",
			pattern:  "/about.html",
			expr:     `/about\.html`,
			reverse:  "/about.html",
			anchor:   routing.AnchorNone,
			names:    []string{},
			defaults: map[string]routing.Default{},
		},
		{
			name:     "named capture",
			pattern:  `/blog/(id:\d+)`,
			expr:     `/blog/((?P<pv0>\d+))`,
			reverse:  "/blog/(:id:)",
			anchor:   routing.AnchorNone,
			names:    []string{"id"},
			defaults: map[string]routing.Default{},
		},
		{
			name:     "quantifier braces stay in the expression",
			pattern:  "^/(lang:[a-z]{2})",
			expr:     `^/((?P<pv0>[a-z]{2}))`,
			reverse:  "/(:lang:)",
			anchor:   routing.AnchorStart,
			names:    []string{"lang"},
			defaults: map[string]routing.Default{},
		},
		{
			name:     "escaped backslash after a group",
			pattern:  `/a(x:\d+)\\`,
			expr:     `/a((?P<pv0>\d+))\\`,
			reverse:  `/a(:x:)\`,
			anchor:   routing.AnchorNone,
			names:    []string{"x"},
			defaults: map[string]routing.Default{},
		},
		{
			name:     "optional group with prefix",
			pattern:  `/list(/{page:\d+})?$`,
			expr:     `/list(/(?P<pv0>\d+))?$`,
			reverse:  "/list(:page:)",
			anchor:   routing.AnchorEnd,
			names:    []string{"page"},
			defaults: map[string]routing.Default{"page": {Prefix: "/"}},
		},
		{
			name:     "literal default value",
			pattern:  "^/(section:news)$",
			expr:     `^/((?P<pv0>news))$`,
			reverse:  "/(:section:)",
			anchor:   routing.AnchorBoth,
			names:    []string{"section"},
			defaults: map[string]routing.Default{"section": {Value: "news"}},
		},
		{
			name:     "metacharacters blank default parts",
			pattern:  "(p-{name:foo}.html)",
			expr:     `(p-(?P<pv0>foo).html)`,
			reverse:  "(:name:)",
			anchor:   routing.AnchorNone,
			names:    []string{"name"},
			defaults: map[string]routing.Default{"name": {Prefix: "p-", Value: "foo"}},
		},
		{
			name:     "plain unnamed group joins the template",
			pattern:  "/(shop)/(x|y)",
			expr:     `/(shop)/(x|y)`,
			reverse:  "/shop/",
			anchor:   routing.AnchorNone,
			names:    []string{},
			defaults: map[string]routing.Default{},
		},
		{
			name:     "escaped parenthesis in literal text",
			pattern:  `/a\(b`,
			expr:     `/a\(b`,
			reverse:  "/a(b",
			anchor:   routing.AnchorNone,
			names:    []string{},
			defaults: map[string]routing.Default{},
		},
		{
			name:     "escaped parenthesis inside group",
			pattern:  `(x:a\)b)`,
			expr:     `((?P<pv0>a\)b))`,
			reverse:  "(:x:)",
			anchor:   routing.AnchorNone,
			names:    []string{"x"},
			defaults: map[string]routing.Default{},
		},
		{
			name:     "escaped question mark after group",
			pattern:  `(id:\d+)\?`,
			expr:     `((?P<pv0>\d+))\?`,
			reverse:  "(:id:)?",
			anchor:   routing.AnchorNone,
			names:    []string{"id"},
			defaults: map[string]routing.Default{},
		},
		{
			name:     "nested groups",
			pattern:  `(file:(a|b)+)`,
			expr:     `((?P<pv0>(a|b)+))`,
			reverse:  "(:file:)",
			anchor:   routing.AnchorNone,
			names:    []string{"file"},
			defaults: map[string]routing.Default{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := routing.Compile(tt.pattern)
			require.NoError(t, err)
			require.Equal(t, tt.pattern, p.Source())
			require.Equal(t, tt.expr, p.Expr())
			require.Equal(t, tt.reverse, p.Reverse())
			require.Equal(t, tt.anchor, p.Anchor())
			require.Equal(t, tt.names, p.Names())
			require.Equal(t, tt.defaults, p.Defaults())
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	patterns := []string{
		`/blog/(id:\d+`,
		`/a/(b/(c)`,
		`(x:[a-z)`,
		`(p{name:x)`,
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			t.Parallel()

			_, err := routing.Compile(pattern)
			require.Error(t, err)
			require.True(t, routing.IsPatternSyntax(err))

			var rerr *routing.Error
			require.ErrorAs(t, err, &rerr)
			require.Equal(t, pattern, rerr.Pattern)
		})
	}

	t.Run("MustCompile panics", func(t *testing.T) {
		t.Parallel()
		require.Panics(t, func() { routing.MustCompile("(") })
	})
}

func TestPattern_Match(t *testing.T) {
	t.Parallel()

	t.Run("binds named captures", func(t *testing.T) {
		t.Parallel()

		p := routing.MustCompile("/blog/(id:[0-9]+)")
		values, ok := p.Match("/blog/42")
		require.True(t, ok)
		require.Equal(t, map[string]string{"id": "42"}, values)
	})

	t.Run("skips groups that did not participate", func(t *testing.T) {
		t.Parallel()

		p := routing.MustCompile(`/list(/{page:\d+})?$`)

		values, ok := p.Match("/list")
		require.True(t, ok)
		require.Empty(t, values)

		values, ok = p.Match("/list/3")
		require.True(t, ok)
		require.Equal(t, map[string]string{"page": "3"}, values)
	})

	t.Run("respects anchors", func(t *testing.T) {
		t.Parallel()

		p := routing.MustCompile("^/a$")
		_, ok := p.Match("/a/b")
		require.False(t, ok)
		_, ok = p.Match("/a")
		require.True(t, ok)
	})

	t.Run("trailing escaped backslash after a group", func(t *testing.T) {
		t.Parallel()

		p := routing.MustCompile(`^/a(x:\d+)\\$`)
		_, ok := p.Match("/a7")
		require.False(t, ok)
		values, ok := p.Match(`/a7\`)
		require.True(t, ok)
		require.Equal(t, "7", values["x"])
	})

	t.Run("hyphenated variable names", func(t *testing.T) {
		t.Parallel()

		p := routing.MustCompile("/(user-id:[0-9]+)")
		values, ok := p.Match("/7")
		require.True(t, ok)
		require.Equal(t, "7", values["user-id"])
	})
}

func TestPattern_RoundTrip(t *testing.T) {
	t.Parallel()

	patterns := map[string]map[string]string{
		"^/(section:news)$":         nil,
		"/blog/(id:[0-9]+)":         {"id": "42"},
		`/list(/{page:\d+})?$`:      {"page": "3"},
		"^/(lang:[a-z]{2})/(shop)/": {"lang": "en"},
		"(p-{name:foo}-x)":          nil,
	}

	for pattern, values := range patterns {
		t.Run(pattern, func(t *testing.T) {
			t.Parallel()

			p := routing.MustCompile(pattern)
			out := p.Reverse()
			defaults := p.Defaults()
			for _, name := range p.Names() {
				v, ok := values[name]
				if !ok {
					v = defaults[name].Value
				}
				d := defaults[name]
				out = strings.ReplaceAll(out, "(:"+name+":)", d.Prefix+v+d.Suffix)
			}

			got, ok := p.Match(out)
			require.True(t, ok, "rendered %q must match %q", out, p.Expr())
			for name, want := range values {
				require.Equal(t, want, got[name])
			}
		})
	}
}

func TestParseDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want routing.Default
	}{
		{in: "en", want: routing.Default{Value: "en"}},
		{in: "/{1}", want: routing.Default{Prefix: "/", Value: "1"}},
		{in: "a{b}c", want: routing.Default{Prefix: "a", Value: "b", Suffix: "c"}},
		{in: "{}.html", want: routing.Default{Suffix: ".html"}},
		{in: "a{b}c{d}e", want: routing.Default{Prefix: "a{b}c", Value: "d", Suffix: "e"}},
	}

	require.Equal(t, "/page/1.html", routing.ParseDefault("/page/{1}.html").String())

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, routing.ParseDefault(tt.in))
		})
	}
}
