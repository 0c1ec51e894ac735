package site

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/cottonsite/internal/config"
	"git.home.luguber.info/inful/cottonsite/internal/paths"
	"git.home.luguber.info/inful/cottonsite/internal/routes"
)

func expand(t *testing.T, cfg *config.Config, fsys fstest.MapFS) []routes.PageRecord {
	t.Helper()
	reg, err := NewRegistry(cfg, fsys)
	require.NoError(t, err)
	pages, err := routes.Expand(context.Background(), reg, paths.NewResolver(reg.Root()))
	require.NoError(t, err)
	return pages
}

func TestNewRegistry_DefaultRoutes(t *testing.T) {
	fsys := fstest.MapFS{
		"pages/home.html":        {Data: []byte("home")},
		"components/alerts.html": {Data: []byte("alerts")},
		"components/cards.html":  {Data: []byte("cards")},
		"components/notes.txt":   {Data: []byte("skip")},
	}
	pages := expand(t, config.Default(), fsys)
	require.Len(t, pages, 3)

	home := pages[0]
	require.Equal(t, "home", home.Name)
	require.Equal(t, "index.html", home.OutputPath)
	require.Equal(t, "Home", home.Params["title"])

	alerts := pages[1]
	require.Equal(t, "components", alerts.Route)
	require.Equal(t, "alerts", alerts.Name)
	require.Equal(t, "alerts", alerts.VariantKey)
	require.Equal(t, "components/alerts.html", alerts.Template)
	require.Equal(t, "alerts/index.html", alerts.OutputPath)
	require.Equal(t, "Components", alerts.Params["section"])
	require.NotContains(t, alerts.Params, "title")

	require.Equal(t, "cards/index.html", pages[2].OutputPath)
}

func TestNewRegistry_ListVariants(t *testing.T) {
	cfg := config.Default()
	cfg.Routes.Definitions = append(cfg.Routes.Definitions, config.RouteConfig{
		Name:           "docs",
		Template:       "pages/doc.html",
		Variants:       &config.VariantsConfig{From: config.VariantsFromList, Keys: []string{"install", "usage"}},
		PagePerVariant: true,
	})
	pages := expand(t, cfg, fstest.MapFS{"pages/home.html": {Data: []byte("home")}})

	var names []string
	for _, p := range pages {
		names = append(names, p.Name)
	}
	// The empty components glob still yields the route itself.
	require.Equal(t, []string{"home", "components", "install", "usage"}, names)
	require.Equal(t, "pages/doc.html", pages[2].Template)
	require.Equal(t, "docs", pages[3].Params["route"])
}

func TestNewRegistry_SingleListKeyWithoutPerVariant(t *testing.T) {
	cfg := config.Default()
	cfg.Routes.Definitions = []config.RouteConfig{
		{Name: "home", Template: "pages/home.html"},
		{Name: "about", Template: "pages/about.html", Title: "About us",
			Variants: &config.VariantsConfig{From: config.VariantsFromList, Keys: []string{"only"}}},
	}
	pages := expand(t, cfg, fstest.MapFS{})
	require.Len(t, pages, 2)
	require.Equal(t, "about", pages[1].Name)
	require.Equal(t, "only", pages[1].VariantKey)
	require.Equal(t, "About us", pages[1].Params["title"])
}

func TestNewRegistry_Errors(t *testing.T) {
	t.Run("duplicate route", func(t *testing.T) {
		cfg := config.Default()
		cfg.Routes.Definitions = append(cfg.Routes.Definitions, config.RouteConfig{Name: "home", Template: "x.html"})
		_, err := NewRegistry(cfg, fstest.MapFS{})
		require.ErrorIs(t, err, routes.ErrDuplicateRoute)
	})

	t.Run("unknown variant source", func(t *testing.T) {
		cfg := config.Default()
		cfg.Routes.Definitions[1].Variants.From = "git"
		_, err := NewRegistry(cfg, fstest.MapFS{})
		require.ErrorContains(t, err, "unknown variant source")
	})
}
