package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveBase canonicalizes the target directory and verifies it exists. The
// returned path is the immutable sandbox root for the whole session.
func ResolveBase(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve target directory: %w", err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", dir)
	}
	return resolved, nil
}
