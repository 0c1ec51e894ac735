package linkverify

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/cottonsite/internal/foundation/errors"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return root
}

func TestVerify_CleanSite(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.html":             `<a href="./">Home</a><a href="./alerts/">Alerts</a><link href="./static/css/site.css">`,
		"alerts/index.html":      `<a href="../">Home</a><a href="../alerts/#examples">Self</a><a href="https://example.com/">x</a><a href="#top">top</a>`,
		"static/css/site.css":    `body{}`,
		"static/docs/readme.txt": `not html`,
	})

	res, err := Verify(context.Background(), root)
	require.NoError(t, err)
	require.True(t, res.OK())
	require.Equal(t, 2, res.Pages)
	require.Equal(t, 5, res.Links)
}

func TestVerify_ReportsBrokenLinks(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.html":        `<a href="./carousel/">Carousel</a><img src="./static/missing.png">`,
		"alerts/index.html": `<a href="/alerts/">Abs</a><a href="../../outside/">Out</a><a href="../">Home</a>`,
		"empty/keep.txt":    ``,
		"badge/index.html":  `<a href="../empty">Dir</a>`,
	})

	res, err := Verify(context.Background(), root)
	require.ErrorIs(t, err, ErrBrokenLinks)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryLink))
	require.NotNil(t, res)
	require.Len(t, res.Broken, 5)

	reasons := map[string]string{}
	for _, b := range res.Broken {
		reasons[b.Page+" "+b.URL] = b.Reason
	}
	require.Equal(t, "missing carousel/index.html", reasons["index.html ./carousel/"])
	require.Equal(t, "missing static/missing.png", reasons["index.html ./static/missing.png"])
	require.Equal(t, "root-absolute link", reasons["alerts/index.html /alerts/"])
	require.Equal(t, "escapes site root", reasons["alerts/index.html ../../outside/"])
	require.Equal(t, "directory without index.html: empty", reasons["badge/index.html ../empty"])

	var out bytes.Buffer
	require.NoError(t, res.WriteSummary(&out))
	require.Contains(t, out.String(), "broken=5")
	require.Contains(t, out.String(), "BROKEN index.html: <a> ./carousel/")
}

func TestVerify_Canceled(t *testing.T) {
	root := writeTree(t, map[string]string{"index.html": `<a href="./">x</a>`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Verify(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}

func TestVerifyPages_OnlyListedPagesAreParsed(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.html":          `<a href="./alerts/">Alerts</a><link href="./static/css/site.css">`,
		"alerts/index.html":   `<a href="../">Home</a>`,
		"old/index.html":      `<a href="../removed/">Removed</a>`,
		"static/css/site.css": `body{}`,
	})

	res, err := VerifyPages(context.Background(), root, []string{"index.html", "alerts/index.html"})
	require.NoError(t, err)
	require.True(t, res.OK())
	require.Equal(t, 2, res.Pages)
	require.Equal(t, 3, res.Links)

	_, err = Verify(context.Background(), root)
	require.ErrorIs(t, err, ErrBrokenLinks)
}

func TestVerify_EscapedDirectoryNames(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.html":     `<a href="./c%23/">c#</a><a href="./q%3Fx/">q?x</a>`,
		"c#/index.html":  `<a href="../">Home</a>`,
		"q?x/index.html": `<a href="../c%23/">c#</a>`,
	})

	res, err := Verify(context.Background(), root)
	require.NoError(t, err)
	require.True(t, res.OK())
	require.Equal(t, 3, res.Pages)
}
