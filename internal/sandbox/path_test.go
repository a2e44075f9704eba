package sandbox

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveInsideBase(t *testing.T) {
	base := t.TempDir()
	sub := filepath.Join(base, "docs")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	file := filepath.Join(sub, "notes.txt")
	if err := os.WriteFile(file, []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	resolved, err := Resolve(base, "docs/notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := filepath.EvalSymlinks(file)
	if resolved != want {
		t.Fatalf("expected %s, got %s", want, resolved)
	}
}

func TestResolveDotDotEscape(t *testing.T) {
	base := t.TempDir()
	_, err := Resolve(base, "../../etc/passwd")
	if !errors.Is(err, ErrPathEscape) {
		t.Fatalf("expected ErrPathEscape, got %v", err)
	}
}

func TestResolveAbsoluteOutside(t *testing.T) {
	base := t.TempDir()
	_, err := Resolve(base, "/etc/passwd")
	if !errors.Is(err, ErrPathEscape) {
		t.Fatalf("expected ErrPathEscape, got %v", err)
	}
}

func TestResolveSymlinkEscape(t *testing.T) {
	base := t.TempDir()
	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.txt")
	if err := os.WriteFile(secret, []byte("secret\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	link := filepath.Join(base, "innocent.txt")
	if err := os.Symlink(secret, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := Resolve(base, "innocent.txt")
	if !errors.Is(err, ErrPathEscape) {
		t.Fatalf("expected ErrPathEscape, got %v", err)
	}
}

func TestResolveNotFound(t *testing.T) {
	base := t.TempDir()
	_, err := Resolve(base, "missing.txt")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveEscapeBeforeExistence(t *testing.T) {
	// A ".." escape to a nonexistent target must report escape, not absence.
	base := t.TempDir()
	_, err := Resolve(base, "../does-not-exist-anywhere.txt")
	if !errors.Is(err, ErrPathEscape) {
		t.Fatalf("expected ErrPathEscape, got %v", err)
	}
}
