package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "internal", "discovery")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(sub, "index.go")
	if err := os.WriteFile(file, []byte("package discovery\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Canonicalize(file, root)
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	if got != "internal/discovery/index.go" {
		t.Errorf("expected internal/discovery/index.go, got %q", got)
	}
}

func TestCanonicalizeMissingFile(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "does", "not", "exist.md")

	got, err := Canonicalize(missing, root)
	if err != nil {
		t.Fatalf("missing files should canonicalize without error: %v", err)
	}
	if got != "does/not/exist.md" {
		t.Errorf("expected does/not/exist.md, got %q", got)
	}
}

func TestIsWithinRoot(t *testing.T) {
	root := t.TempDir()

	if !IsWithinRoot(filepath.Join(root, "README.md"), root) {
		t.Error("file under root should be within root")
	}
	if IsWithinRoot(filepath.Join(root, "..", "escape.md"), root) {
		t.Error("file outside root should not be within root")
	}
}

func TestJoin(t *testing.T) {
	got := Join("/repo", "docs/guide.md")
	expected := filepath.Join("/repo", "docs", "guide.md")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}
