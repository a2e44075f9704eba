package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Resolve joins requested onto baseDir, canonicalizes both (resolving ".",
// "..", and symlinks), and returns the absolute path if and only if it stays
// inside baseDir. The check tolerates the benign TOCTOU race: every consumer
// of the result is read-only.
func Resolve(baseDir, requested string) (string, error) {
	base, err := canonicalize(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolve base directory: %w", err)
	}

	joined := requested
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(base, joined)
	}

	// Lexical containment first: a ".." escape is rejected without touching
	// the filesystem, so nonexistent paths outside the base stay opaque.
	if !contained(base, filepath.Clean(joined)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, requested)
	}

	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, requested)
		}
		return "", err
	}

	// Re-check after symlink resolution; a link inside the base may point out.
	if !contained(base, resolved) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, requested)
	}
	return resolved, nil
}

func canonicalize(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func contained(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
