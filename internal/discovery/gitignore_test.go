package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadGitignoreMissing(t *testing.T) {
	m := LoadGitignore(t.TempDir())
	if m.Match("main.go") {
		t.Error("empty matcher should ignore nothing")
	}
}

func TestGitignoreRules(t *testing.T) {
	root := t.TempDir()
	gitignore := "# build output\nbuild/\n*.log\nsecret.txt\ntmp*\n*cache*\n"
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte(gitignore), 0644); err != nil {
		t.Fatal(err)
	}
	m := LoadGitignore(root)

	tests := []struct {
		path    string
		ignored bool
	}{
		// Directory pattern
		{"build/out.bin", true},
		{"sub/build/out.bin", true},
		{"builder.go", false},
		// Leading wildcard
		{"app.log", true},
		{"logs/app.log", true},
		{"app.login.go", false},
		// Exact match
		{"secret.txt", true},
		{"config/secret.txt", true}, // exact patterns also bind by basename
		// Trailing wildcard
		{"tmpfile.go", true},
		// Substring fallback via wrapped wildcard
		{"internal/cache/lru.go", true},
	}

	for _, tt := range tests {
		if got := m.Match(tt.path); got != tt.ignored {
			t.Errorf("Match(%q) = %v, expected %v", tt.path, got, tt.ignored)
		}
	}
}

func TestGitignoreBasenameExactMatch(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte(".env\n"), 0644); err != nil {
		t.Fatal(err)
	}
	m := LoadGitignore(root)

	if !m.Match(".env") {
		t.Error(".env should be ignored at root")
	}
	if !m.Match("deploy/.env") {
		t.Error(".env should be ignored by basename anywhere")
	}
}

func TestGitignoreSkipsCommentsAndNegations(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte("# comment\n\n!keep.log\n"), 0644); err != nil {
		t.Fatal(err)
	}
	m := LoadGitignore(root)

	if m.Match("# comment") || m.Match("keep.log") {
		t.Error("comments and negation lines must not become patterns")
	}
}
