package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/cottonsite/internal/routes"
)

func TestWritePage_DotPrefixedNameStaysInside(t *testing.T) {
	dest := t.TempDir()
	p := routes.PageRecord{Name: "..foo", Location: routes.Location{OutputPath: "..foo/index.html", Depth: 1}}

	full, err := writePage(dest, p, []byte("ok"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dest, "..foo", "index.html"), full)

	data, err := os.ReadFile(full)
	require.NoError(t, err)
	require.Equal(t, "ok", string(data))
}

func TestWritePage_RejectsEscapingPaths(t *testing.T) {
	dest := t.TempDir()
	for _, out := range []string{"../index.html", "..", "a/../../index.html"} {
		p := routes.PageRecord{Name: "x", Location: routes.Location{OutputPath: out, Depth: 1}}
		_, err := writePage(dest, p, []byte("x"))
		require.Error(t, err, out)
		require.Contains(t, err.Error(), "output path must be relative", out)
	}
	require.NoFileExists(t, filepath.Join(filepath.Dir(dest), "index.html"))
}

func TestIsParentRef(t *testing.T) {
	sep := string(filepath.Separator)
	require.True(t, isParentRef(".."))
	require.True(t, isParentRef(".."+sep+"a"))
	require.False(t, isParentRef("..foo"))
	require.False(t, isParentRef("..foo"+sep+"index.html"))
	require.False(t, isParentRef("a"+sep+".."))
}
