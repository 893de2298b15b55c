package routing_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pathway/pkg/routing"
)

func localeTree(t *testing.T, imply bool, opts ...routing.Option) *routing.Router {
	t.Helper()

	return newRouter(t, []routeDef{
		{pattern: "^/(lang:[a-z]{2})/", opts: routing.RouteOptions{
			Name:  "locale",
			Stop:  routing.Bool(false),
			Cut:   routing.Bool(true),
			Imply: routing.Bool(imply),
		}},
		{pattern: "blog/(id:[0-9]+)$", opts: routing.RouteOptions{Name: "blog", Module: "blog", Action: "show"}},
	}, opts...)
}

func TestRouter_Gen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("renders captures", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t, []routeDef{
			{pattern: "/blog/(id:[0-9]+)", opts: routing.RouteOptions{Name: "blog"}},
		})

		out, err := r.Gen(ctx, "blog", map[string]any{"id": 42})
		require.NoError(t, err)
		require.Equal(t, "/blog/42", out)

		res := r.Execute(ctx, out, "GET")
		require.Equal(t, "42", res.Param("id"))
	})

	t.Run("extra non-stopping sibling", func(t *testing.T) {
		t.Parallel()

		r := localeTree(t, false)

		out, err := r.Gen(ctx, "blog+locale", map[string]any{"id": 42, "lang": "en"})
		require.NoError(t, err)
		require.Equal(t, "/en/blog/42", out)

		out, err = r.Gen(ctx, "blog", map[string]any{"id": 42, "lang": "en"})
		require.NoError(t, err)
		require.Equal(t, "blog/42", out)

		res := r.Execute(ctx, "/en/blog/42", "GET")
		require.Equal(t, []string{"locale", "blog"}, res.Routes)
		require.Equal(t, "en", res.Param("lang"))
		require.Equal(t, "42", res.Param("id"))
	})

	t.Run("implied sibling", func(t *testing.T) {
		t.Parallel()

		r := localeTree(t, true)

		out, err := r.Gen(ctx, "blog", map[string]any{"id": 1, "lang": "de"})
		require.NoError(t, err)
		require.Equal(t, "/de/blog/1", out)

		names, err := r.AffectedRoutes(ctx, "blog")
		require.NoError(t, err)
		require.Equal(t, []string{"blog", "locale"}, names)
	})

	t.Run("unknown extra route", func(t *testing.T) {
		t.Parallel()

		out, err := localeTree(t, false).Gen(ctx, "blog+nope", map[string]any{"id": 1})
		require.NoError(t, err)
		require.Equal(t, "blog/1", out)

		_, err = localeTree(t, false, routing.WithStrictAffected(true)).Gen(ctx, "blog+nope", map[string]any{"id": 1})
		require.True(t, routing.IsUnknownRoute(err))
	})

	t.Run("unknown route", func(t *testing.T) {
		t.Parallel()

		_, err := routing.New().Gen(ctx, "missing", nil)
		require.True(t, routing.IsUnknownRoute(err))
	})

	t.Run("parents with children contribute their template", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t, []routeDef{
			{pattern: "/shop/(id:[0-9]+)", opts: routing.RouteOptions{Name: "shop"}},
			{pattern: "^/items$", parent: "shop", opts: routing.RouteOptions{Name: "items"}},
		})

		out, err := r.Gen(ctx, "items", map[string]any{"id": 42})
		require.NoError(t, err)
		require.Equal(t, "/shop/42/items", out)
	})

	t.Run("non-cutting parent contributes nothing", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t, []routeDef{
			{pattern: "^/v1", opts: routing.RouteOptions{Name: "api", Cut: routing.Bool(false)}},
			{pattern: "/v1/users$", parent: "api", opts: routing.RouteOptions{Name: "users"}},
		})

		out, err := r.Gen(ctx, "users", nil)
		require.NoError(t, err)
		require.Equal(t, "/v1/users", out)
	})

	t.Run("end-anchored parent is appended", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t, []routeDef{
			{pattern: `(ext:\.[a-z]+)$`, opts: routing.RouteOptions{Name: "format"}},
			{pattern: "^/page$", parent: "format", opts: routing.RouteOptions{Name: "page"}},
		})

		out, err := r.Gen(ctx, "page", map[string]any{"ext": ".json"})
		require.NoError(t, err)
		require.Equal(t, "/page.json", out)

		res := r.Execute(ctx, "/page.html", "GET")
		require.Equal(t, []string{"format", "page"}, res.Routes)
		require.Equal(t, ".html", res.Param("ext"))
	})

	t.Run("nested non-stopping siblings under a cutting parent", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t, []routeDef{
			{pattern: "^/shop", opts: routing.RouteOptions{Name: "shop", Cut: routing.Bool(true)}},
			{pattern: "^/(cur:[a-z]{3})", parent: "shop", opts: routing.RouteOptions{Name: "currency", Stop: routing.Bool(false), Cut: routing.Bool(true)}},
			{pattern: "^/cart$", parent: "shop", opts: routing.RouteOptions{Name: "cart"}},
		})

		out, err := r.Gen(ctx, "cart+currency", map[string]any{"cur": "eur"})
		require.NoError(t, err)
		require.Equal(t, "/shop/eur/cart", out)

		res := r.Execute(ctx, out, "GET")
		require.Equal(t, []string{"shop", "currency", "cart"}, res.Routes)
		require.Equal(t, "eur", res.Param("cur"))
	})

	t.Run("defaults and removal", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t, []routeDef{
			{pattern: `^/list(/{page:\d+})?$`, opts: routing.RouteOptions{Name: "list", Defaults: map[string]string{"page": "/{1}"}}},
		})

		out, err := r.Gen(ctx, "list", nil)
		require.NoError(t, err)
		require.Equal(t, "/list/1", out)

		out, err = r.Gen(ctx, "list", map[string]any{"page": 5})
		require.NoError(t, err)
		require.Equal(t, "/list/5", out)

		out, err = r.Gen(ctx, "list", map[string]any{"page": nil})
		require.NoError(t, err)
		require.Equal(t, "/list", out)
	})

	t.Run("inner defaults override outer ones", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t, []routeDef{
			{pattern: "^/p", opts: routing.RouteOptions{Name: "outer", Defaults: map[string]string{"x": "outer"}}},
			{pattern: "^/(x:[a-z]+)$", parent: "outer", opts: routing.RouteOptions{Name: "inner", Defaults: map[string]string{"x": "inner"}}},
		})

		out, err := r.Gen(ctx, "inner", nil)
		require.NoError(t, err)
		require.Equal(t, "/p/inner", out)
	})

	t.Run("source routes contribute nothing", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t, []routeDef{
			{pattern: "^(host:.+)$", opts: routing.RouteOptions{Name: "host", Stop: routing.Bool(false), Imply: routing.Bool(true), Source: "_SERVER[HTTP_HOST]"}},
			{pattern: "^/about$", opts: routing.RouteOptions{Name: "about"}},
		})

		out, err := r.Gen(ctx, "about", map[string]any{"host": "example.com"})
		require.NoError(t, err)
		require.Equal(t, "/about", out)
	})

	t.Run("prefix and escaping", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t, []routeDef{
			{pattern: "/tag/(tag:[^/]+)", opts: routing.RouteOptions{Name: "tag"}},
		}, routing.WithPrefix("/app"))

		out, err := r.Gen(ctx, "tag", map[string]any{"tag": "go lang"}, routing.WithEscaper(url.PathEscape))
		require.NoError(t, err)
		require.Equal(t, "/app/tag/go%20lang", out)

		out, err = r.Gen(ctx, "tag", map[string]any{"tag": "go"}, routing.WithoutPrefix())
		require.NoError(t, err)
		require.Equal(t, "/tag/go", out)
	})

	t.Run("generate hook rewrites defaults", func(t *testing.T) {
		t.Parallel()

		r := newRouter(t, []routeDef{
			{pattern: "^/(lang:[a-z]{2})/home$", opts: routing.RouteOptions{Name: "home", Callback: "lang", Defaults: map[string]string{"lang": "en"}}},
		}, routing.WithCallback("lang", routing.CallbackFuncs{
			Generate: func(_ context.Context, _ string, defaults map[string]routing.Default, _ map[string]any) map[string]routing.Default {
				defaults["lang"] = routing.Default{Value: "fr"}
				return defaults
			},
		}))

		out, err := r.Gen(ctx, "home", nil)
		require.NoError(t, err)
		require.Equal(t, "/fr/home", out)
	})
}

func TestResult_Gen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newRouter(t, []routeDef{
		{pattern: "^/user/(name:[a-z]+)", opts: routing.RouteOptions{Name: "user", Module: "user", Action: "show"}},
	})

	res := r.Execute(ctx, "/user/bob", "GET")
	require.Equal(t, "bob", res.Param("name"))

	out, err := res.Gen(ctx, "user", nil)
	require.NoError(t, err)
	require.Equal(t, "/user/bob", out, "captured values act as defaults within the execution")

	out, err = r.Gen(ctx, "user", nil)
	require.NoError(t, err)
	require.Equal(t, "/user/", out, "the tree itself is not modified")
}
