// Package paths normalizes file paths to repo-relative canonical form.
// All discovery results use forward slashes regardless of platform.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Canonicalize converts an absolute path to a root-relative canonical path:
// symlinks resolved, relative to root, forward slashes.
func Canonicalize(absolutePath string, root string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = root
		} else {
			return "", err
		}
	}

	rel, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// IsWithinRoot checks if a path is inside the project root.
func IsWithinRoot(path string, root string) bool {
	canonical, err := Canonicalize(path, root)
	if err != nil {
		return false
	}
	return canonical != ".." && !strings.HasPrefix(canonical, "../")
}

// Normalize converts backslashes to forward slashes.
func Normalize(path string) string {
	return filepath.ToSlash(path)
}

// Join joins a project root with a canonical relative path using
// OS-specific separators.
func Join(root string, canonicalPath string) string {
	parts := strings.Split(Normalize(canonicalPath), "/")
	return filepath.Join(append([]string{root}, parts...)...)
}
