package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func contains(paths []string, want string) bool {
	for _, p := range paths {
		if p == want {
			return true
		}
	}
	return false
}

func TestPatternMatcherInstallation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "setup.py", "from setuptools import setup")
	writeFile(t, root, "package.json", "{}")
	writeFile(t, root, "unrelated.go", "package main")

	m := NewPatternMatcher(root, "")
	results := m.Discover("Installation", "")

	if !contains(results, "setup.py") || !contains(results, "package.json") {
		t.Errorf("expected setup.py and package.json, got %v", results)
	}
	if contains(results, "unrelated.go") {
		t.Errorf("unrelated.go should not match installation patterns, got %v", results)
	}
}

func TestPatternMatcherExcludePath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "setup.py", "x")
	writeFile(t, root, "package.json", "{}")

	m := NewPatternMatcher(root, "setup.py")
	results := m.Discover("Installation", "")

	if contains(results, "setup.py") {
		t.Errorf("excluded path must never appear in results, got %v", results)
	}
	if !contains(results, "package.json") {
		t.Errorf("other matches should survive, got %v", results)
	}
}

func TestPatternMatcherKeywordSubstring(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Dockerfile", "FROM scratch")

	m := NewPatternMatcher(root, "")
	// "deployment" is a substring of the normalized heading.
	results := m.Discover("Production Deployment Guide", "")

	if !contains(results, "Dockerfile") {
		t.Errorf("expected Dockerfile for deployment heading, got %v", results)
	}
}

func TestPatternMatcherRecursiveGlob(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "internal/server/handler_test.go", "package server")

	m := NewPatternMatcher(root, "")
	results := m.Discover("Testing", "")

	if !contains(results, "internal/server/handler_test.go") {
		t.Errorf("** patterns should match nested files, got %v", results)
	}
}

func TestPatternMatcherNoKeyword(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "setup.py", "x")

	m := NewPatternMatcher(root, "")
	results := m.Discover("Random Thoughts", "")

	if len(results) != 0 {
		t.Errorf("heading without catalogue keywords should match nothing, got %v", results)
	}
}

func TestPatternMatcherDeterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "setup.py", "x")
	writeFile(t, root, "go.mod", "module x")
	writeFile(t, root, "Makefile", "all:")

	m := NewPatternMatcher(root, "")
	first := m.Discover("Installation", "")
	second := m.Discover("Installation", "")

	if len(first) != len(second) {
		t.Fatalf("result count changed between runs: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("result order changed between runs: %v vs %v", first, second)
		}
	}
}

func TestNormalizeHeading(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Installation", "installation"},
		{"API Reference", "api reference"},
		{"Getting-Started!", "getting started "},
		{"Config (v2)", "config  v2 "},
	}

	for _, tt := range tests {
		if got := normalizeHeading(tt.input); got != tt.expected {
			t.Errorf("normalizeHeading(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
