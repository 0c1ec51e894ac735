package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/cottonsite/internal/paths"
	"git.home.luguber.info/inful/cottonsite/internal/routes"
)

// writePage writes content to p.OutputPath under destRoot and returns the full
// path written.
//
// The function ensures:
//   - The output path stays under destRoot (no path traversal)
//   - Parent directories are created if needed
//   - An existing page file is replaced atomically
//   - A file sitting where a page directory belongs is reported as an
//     output path collision instead of being removed
func writePage(destRoot string, p routes.PageRecord, content []byte) (string, error) {
	if destRoot == "" {
		return "", errors.New("destination directory is required")
	}
	if p.OutputPath == "" {
		return "", errors.New("output path is required")
	}

	cleanRel := filepath.Clean(filepath.FromSlash(p.OutputPath))
	if filepath.IsAbs(cleanRel) || isParentRef(cleanRel) {
		return "", errors.New("output path must be relative to the destination")
	}

	fullPath := filepath.Join(destRoot, cleanRel)
	rel, err := filepath.Rel(destRoot, fullPath)
	if err != nil || isParentRef(rel) {
		return "", errors.New("output path escapes the destination directory")
	}

	if holder := blockingFile(destRoot, filepath.Dir(cleanRel)); holder != "" {
		return "", paths.CollisionError(p.OutputPath, p.Name, holder)
	}
	if info, err := os.Stat(fullPath); err == nil && info.IsDir() {
		return "", paths.CollisionError(p.OutputPath, p.Name, "existing directory")
	}

	if err = os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	tmp := fullPath + ".tmp"
	// #nosec G306 -- pages are meant to be served.
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return "", fmt.Errorf("write output file: %w", err)
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("replace output file: %w", err)
	}
	return fullPath, nil
}

// isParentRef reports whether the cleaned relative path p leaves its base
// directory. Names such as "..foo" stay inside.
func isParentRef(p string) bool {
	return p == ".." || strings.HasPrefix(p, ".."+string(filepath.Separator))
}

// blockingFile returns the slash separated path of the first non-directory
// between destRoot and relDir, or "" if every existing element is a directory.
func blockingFile(destRoot, relDir string) string {
	if relDir == "." {
		return ""
	}
	cur := destRoot
	for _, part := range strings.Split(relDir, string(filepath.Separator)) {
		cur = filepath.Join(cur, part)
		info, err := os.Stat(cur)
		if err != nil {
			return ""
		}
		if !info.IsDir() {
			rel, _ := filepath.Rel(destRoot, cur)
			return filepath.ToSlash(rel)
		}
	}
	return ""
}
