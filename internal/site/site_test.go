package site

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/cottonsite/internal/assets"
	"git.home.luguber.info/inful/cottonsite/internal/config"
	"git.home.luguber.info/inful/cottonsite/internal/linkverify"
	"git.home.luguber.info/inful/cottonsite/internal/paths"
	"git.home.luguber.info/inful/cottonsite/internal/render"
	"git.home.luguber.info/inful/cottonsite/internal/routes"
	"git.home.luguber.info/inful/cottonsite/internal/templates"
)

func buildShowcase(t *testing.T, dest string) *render.Report {
	t.Helper()
	cfg := config.Default()
	tmpl := TemplatesFS(cfg)

	reg, err := NewRegistry(cfg, tmpl)
	require.NoError(t, err)
	pages, err := routes.Expand(context.Background(), reg, paths.NewResolver(reg.Root()))
	require.NoError(t, err)

	d := &render.Driver{
		Renderer: templates.New(tmpl),
		Assets:   assets.New(AssetSources(cfg)...),
		Site:     RenderSite(cfg),
	}
	report, err := d.RenderAll(context.Background(), pages, dest)
	require.NoError(t, err)
	return report
}

func TestEmbeddedShowcase_Layout(t *testing.T) {
	_, err := fs.Stat(Templates(), "layouts/base.html")
	require.NoError(t, err)
	_, err = fs.Stat(Static(), "css/site.css")
	require.NoError(t, err)

	components, err := fs.Glob(Templates(), "components/*.html")
	require.NoError(t, err)
	require.Contains(t, components, "components/alerts.html")
	require.Contains(t, components, "components/accordion.html")
}

func TestEmbeddedShowcase_BuildsAndLinksResolve(t *testing.T) {
	dest := t.TempDir()
	report := buildShowcase(t, dest)
	require.False(t, report.Failed())
	require.True(t, report.AssetsCollected)
	require.Contains(t, report.Written, "index.html")
	require.Contains(t, report.Written, "alerts/index.html")
	require.FileExists(t, filepath.Join(dest, "static", "css", "site.css"))
	require.FileExists(t, filepath.Join(dest, "static", "js", "site.js"))

	result, err := linkverify.Verify(context.Background(), dest)
	require.NoError(t, err)
	require.True(t, result.OK())
	require.Equal(t, len(report.Written), result.Pages)
}

func TestEmbeddedShowcase_RelativeLinks(t *testing.T) {
	dest := t.TempDir()
	buildShowcase(t, dest)

	home := readDoc(t, filepath.Join(dest, "index.html"))
	require.Equal(t, "Cotton BS5", home.Find("title").Text())
	require.Equal(t, "./", home.Find("a.navbar-brand").AttrOr("href", ""))
	require.Equal(t, "./static/css/site.css", home.Find(`link[href$="site.css"]`).AttrOr("href", ""))
	require.Equal(t, "./alerts/", home.Find(`nav a[href="./alerts/"]`).AttrOr("href", ""))
	require.Equal(t, "col-sm-6 col-lg-4", home.Find(".row.g-3 > div").First().AttrOr("class", ""))

	alerts := readDoc(t, filepath.Join(dest, "alerts", "index.html"))
	require.Equal(t, "Alerts | Cotton BS5", alerts.Find("title").Text())
	require.Equal(t, "../", alerts.Find("a.navbar-brand").AttrOr("href", ""))
	require.Equal(t, "../static/css/site.css", alerts.Find(`link[href$="site.css"]`).AttrOr("href", ""))
	require.Equal(t, "page", alerts.Find("nav a.active").AttrOr("aria-current", ""))
	require.Equal(t, 4, alerts.Find(`[data-sample="alerts/basic"] .code-sample-preview .alert`).Length())
	require.Equal(t, 1, alerts.Find(".alert-primary").Length())
	require.Contains(t, alerts.Find(`[data-sample="alerts/basic"] .code-sample-source code`).Text(), `prefix "alert"`)

	buttons := readDoc(t, filepath.Join(dest, "buttons", "index.html"))
	require.Equal(t, "../cards/", buttons.Find(`a[role="button"]`).AttrOr("href", ""))
}

func TestEmbeddedShowcase_Deterministic(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	buildShowcase(t, a)
	buildShowcase(t, b)

	first, err := os.ReadFile(filepath.Join(a, "accordion", "index.html"))
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(b, "accordion", "index.html"))
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))

	d := readDoc(t, filepath.Join(a, "accordion", "index.html"))
	parent := d.Find(".code-sample-preview .accordion").AttrOr("id", "")
	require.Regexp(t, `^accordion-[0-9a-f]{8}$`, parent)
	require.Equal(t, "#"+parent, d.Find(".accordion-collapse").First().AttrOr("data-bs-parent", ""))
}

func TestAssetSources_ConfiguredDirectoryLast(t *testing.T) {
	cfg := config.Default()
	require.Len(t, AssetSources(cfg), 1)

	cfg.Static.Directory = t.TempDir()
	sources := AssetSources(cfg)
	require.Len(t, sources, 2)
	require.Equal(t, "embedded", sources[0].Name)
	require.Equal(t, cfg.Static.Directory, sources[1].Name)
}

func readDoc(t *testing.T, path string) *goquery.Document {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	d, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return d
}
