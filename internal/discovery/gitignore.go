package discovery

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreMatcher applies a practical subset of .gitignore semantics: exact
// match, directory match (trailing slash), leading/trailing '*' wildcards,
// and a generic substring fallback.
type IgnoreMatcher struct {
	patterns []string
}

// LoadGitignore reads root/.gitignore if present. A missing or unreadable
// file yields an empty matcher.
func LoadGitignore(root string) *IgnoreMatcher {
	m := &IgnoreMatcher{}

	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return m
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		m.patterns = append(m.patterns, line)
	}
	return m
}

// Match reports whether a root-relative path (forward slashes) is ignored.
func (m *IgnoreMatcher) Match(relPath string) bool {
	base := relPath
	if idx := strings.LastIndex(relPath, "/"); idx >= 0 {
		base = relPath[idx+1:]
	}

	for _, pattern := range m.patterns {
		if matchPattern(pattern, relPath, base) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, relPath, base string) bool {
	// Directory pattern: "build/" ignores the directory and everything in it.
	if strings.HasSuffix(pattern, "/") {
		dir := strings.TrimSuffix(pattern, "/")
		dir = strings.TrimPrefix(dir, "/")
		return relPath == dir || strings.HasPrefix(relPath, dir+"/") ||
			strings.Contains(relPath, "/"+dir+"/")
	}

	pattern = strings.TrimPrefix(pattern, "/")

	leading := strings.HasPrefix(pattern, "*")
	trailing := strings.HasSuffix(pattern, "*")
	switch {
	case leading && trailing:
		inner := strings.Trim(pattern, "*")
		return inner != "" && strings.Contains(relPath, inner)
	case leading:
		suffix := strings.TrimPrefix(pattern, "*")
		return strings.HasSuffix(relPath, suffix) || strings.HasSuffix(base, suffix)
	case trailing:
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(relPath, prefix) || strings.HasPrefix(base, prefix)
	}

	// Exact match on the full path or any path component.
	if relPath == pattern || base == pattern {
		return true
	}
	if strings.HasPrefix(relPath, pattern+"/") || strings.Contains(relPath, "/"+pattern+"/") {
		return true
	}

	// Generic fallback: treat the pattern as a substring.
	return strings.Contains(relPath, pattern)
}
