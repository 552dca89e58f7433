package discovery

import (
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultCatalogue maps section-heading keywords to glob patterns. This is a
// high-recall, low-precision first pass: any catalogue key appearing as a
// substring of the normalized heading contributes its patterns. Constructed
// once; never mutated.
var defaultCatalogue = map[string][]string{
	"installation": {
		"setup.py", "setup.cfg", "pyproject.toml", "package.json",
		"requirements*.txt", "go.mod", "Cargo.toml", "Gemfile",
		"Makefile", "Dockerfile", "install*",
	},
	"getting started": {
		"setup.py", "package.json", "examples/**/*", "cmd/**/*", "main.*",
	},
	"quick start": {
		"examples/**/*", "cmd/**/*", "main.*",
	},
	"usage": {
		"examples/**/*", "cmd/**/*", "main.*", "docs/examples/**/*",
	},
	"api": {
		"api/**/*", "**/routes*.*", "**/handlers*.*", "**/endpoints*.*",
		"openapi*", "swagger*",
	},
	"configuration": {
		"config/**/*", "*.config.*", "*.toml", "*.yaml", "*.yml", "*.ini",
		".env.example", "settings*",
	},
	"config": {
		"config/**/*", "*.config.*", "*.toml", "*.yaml", "*.yml",
	},
	"architecture": {
		"src/**/*", "internal/**/*", "pkg/**/*", "lib/**/*", "ARCHITECTURE*",
	},
	"design": {
		"ARCHITECTURE*", "DESIGN*", "docs/design/**/*",
	},
	"contributing": {
		"CONTRIBUTING*", "CODE_OF_CONDUCT*", ".github/**/*", "Makefile",
	},
	"development": {
		"Makefile", ".github/**/*", "scripts/**/*",
	},
	"testing": {
		"test/**/*", "tests/**/*", "**/*_test.*", "**/*.test.*", "**/*.spec.*",
		"pytest.ini", "tox.ini", "jest.config.*",
	},
	"test": {
		"test/**/*", "tests/**/*", "**/*_test.*",
	},
	"deployment": {
		"Dockerfile*", "docker-compose*", ".github/workflows/**/*",
		"deploy/**/*", "k8s/**/*", "helm/**/*", "*.tf", "Procfile",
	},
	"docker": {
		"Dockerfile*", "docker-compose*", ".dockerignore",
	},
	"license": {
		"LICENSE*", "COPYING*", "NOTICE*",
	},
	"dependencies": {
		"go.mod", "go.sum", "package.json", "requirements*.txt",
		"Cargo.toml", "Gemfile*", "pom.xml", "build.gradle*",
	},
	"security": {
		"SECURITY*", ".github/dependabot*",
	},
}

// PatternMatcher resolves heading keywords to files via the glob catalogue.
type PatternMatcher struct {
	root        string
	excludePath string
	catalogue   map[string][]string
}

// NewPatternMatcher creates a matcher over the project root. excludePath (a
// root-relative path, may be empty) is always stripped from results so a
// document never cites itself as its own source.
func NewPatternMatcher(root string, excludePath string) *PatternMatcher {
	return &PatternMatcher{
		root:        root,
		excludePath: excludePath,
		catalogue:   defaultCatalogue,
	}
}

// Discover returns root-relative paths for every catalogue keyword found in
// the heading. An empty result is valid, not an error.
func (m *PatternMatcher) Discover(heading string, _ string) []string {
	normalized := normalizeHeading(heading)

	var patterns []string
	for keyword, globs := range m.catalogue {
		if strings.Contains(normalized, keyword) {
			patterns = append(patterns, globs...)
		}
	}
	if len(patterns) == 0 {
		return nil
	}

	fsys := os.DirFS(m.root)
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			continue
		}
		for _, match := range matches {
			if match == m.excludePath || seen[match] {
				continue
			}
			info, err := fs.Stat(fsys, match)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			seen[match] = true
		}
	}

	results := make([]string, 0, len(seen))
	for path := range seen {
		results = append(results, path)
	}
	sort.Strings(results)
	return results
}

// normalizeHeading lowercases and reduces a heading to alphanumerics and
// spaces so catalogue keys match regardless of punctuation.
func normalizeHeading(heading string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(heading) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return b.String()
}
