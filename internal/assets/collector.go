// Package assets copies the site's shared static files into the destination
// tree.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/cottonsite/internal/logfields"
	"git.home.luguber.info/inful/cottonsite/internal/render"
)

var _ render.AssetCollector = (*Collector)(nil)

// Source is one named file tree of assets.
type Source struct {
	Name string
	FS   fs.FS
}

// Collector copies its sources into the static root in order; a file in a
// later source replaces the same path from an earlier one.
type Collector struct {
	Sources []Source

	// Copied is the number of files written by the last Collect call.
	Copied int
}

// New returns a Collector over sources.
func New(sources ...Source) *Collector {
	return &Collector{Sources: sources}
}

// Dir returns a Source reading from an on-disk directory.
func Dir(path string) Source {
	return Source{Name: path, FS: os.DirFS(path)}
}

// Collect copies every source into staticRoot, creating it if needed.
func (c *Collector) Collect(ctx context.Context, staticRoot string) error {
	c.Copied = 0
	if len(c.Sources) == 0 {
		return errors.New("no asset sources configured")
	}
	if info, err := os.Stat(staticRoot); err == nil && !info.IsDir() {
		return fmt.Errorf("static root %s exists and is not a directory", staticRoot)
	}
	if err := os.MkdirAll(staticRoot, 0o750); err != nil {
		return err
	}

	for _, src := range c.Sources {
		if src.FS == nil {
			return fmt.Errorf("asset source %q has no file system", src.Name)
		}
		n, err := copyTree(ctx, src.FS, staticRoot)
		if err != nil {
			return fmt.Errorf("copy %s: %w", src.Name, err)
		}
		c.Copied += n
		slog.Debug("Asset source copied", slog.String("source", src.Name), slog.Int("files", n), logfields.Destination(staticRoot))
	}
	return nil
}

// copyTree recursively copies fsys into dst and returns the number of files.
func copyTree(ctx context.Context, fsys fs.FS, dst string) (int, error) {
	copied := 0
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := copyFile(fsys, p, target); err != nil {
			return err
		}
		copied++
		return nil
	})
	return copied, err
}

// copyFile copies a single file from fsys to dst.
func copyFile(fsys fs.FS, src, dst string) error {
	srcFile, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	// #nosec G304 -- dst is joined under the static root.
	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	return dstFile.Close()
}
