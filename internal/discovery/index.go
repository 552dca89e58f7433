package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"docscout/internal/errors"
	"docscout/internal/logging"
)

// maxIndexedFileBytes caps how large a file the index will read.
const maxIndexedFileBytes = 1 << 20

// hardIgnoreDirs are always skipped regardless of .gitignore.
var hardIgnoreDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	".tox":         true,
	"dist":         true,
	"build":        true,
	"target":       true,
	".idea":        true,
	".vscode":      true,
	".docscout":    true,
	".cache":       true,
}

// textExtensions whitelists file types the lexical scorer will read.
var textExtensions = map[string]bool{
	".go": true, ".py": true, ".js": true, ".jsx": true, ".ts": true,
	".tsx": true, ".java": true, ".kt": true, ".rb": true, ".rs": true,
	".c": true, ".cc": true, ".cpp": true, ".h": true, ".hpp": true,
	".cs": true, ".swift": true, ".php": true, ".scala": true, ".sh": true,
	".bash": true, ".pl": true, ".lua": true, ".sql": true, ".html": true,
	".css": true, ".scss": true, ".md": true, ".rst": true, ".txt": true,
	".json": true, ".yaml": true, ".yml": true, ".toml": true, ".ini": true,
	".cfg": true, ".xml": true, ".proto": true, ".graphql": true, ".tf": true,
	".mod": true, ".sum": true, ".gradle": true, ".properties": true,
}

// textBasenames admits common extension-less files.
var textBasenames = map[string]bool{
	"Makefile":   true,
	"Dockerfile": true,
	"Rakefile":   true,
	"Gemfile":    true,
	"Procfile":   true,
	"LICENSE":    true,
	"NOTICE":     true,
}

// IndexedFile holds one file's lowercased content and term counts.
type IndexedFile struct {
	// Path is relative to the project root, forward slashes.
	Path string
	// Content is the full file text, lowercased.
	Content string
	// TermCounts maps each token (see Tokenize) to its occurrence count.
	TermCounts map[string]int
}

// FileIndex is a read-only content index over the project root. It is built
// once per Discoverer and shared across Discover calls; it is never mutated
// after construction.
type FileIndex struct {
	root  string
	files []*IndexedFile
}

// BuildIndex walks the project root, skipping ignored directories,
// non-text files, and the excluded path. Unreadable files are skipped,
// never fatal.
func BuildIndex(root string, excludePath string, logger *logging.Logger) (*FileIndex, error) {
	// Per-file read errors degrade to skips below, but a root that does not
	// exist or is not a directory must fail loudly, not yield an empty index.
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.New(errors.IndexFailed,
			fmt.Sprintf("cannot index project root %s", root), err)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.IndexFailed,
			fmt.Sprintf("project root %s is not a directory", root), nil)
	}

	ignore := LoadGitignore(root)
	idx := &FileIndex{root: root}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if hardIgnoreDirs[d.Name()] || ignore.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if rel == excludePath || ignore.Match(rel) || !isTextFile(d.Name()) {
			return nil
		}
		if info, err := d.Info(); err != nil || info.Size() > maxIndexedFileBytes {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}

		content := strings.ToLower(string(data))
		idx.files = append(idx.files, &IndexedFile{
			Path:       rel,
			Content:    content,
			TermCounts: Tokenize(content),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Debug("file index built", map[string]interface{}{
			"root":  root,
			"files": len(idx.files),
		})
	}
	return idx, nil
}

// Len returns the number of indexed files.
func (idx *FileIndex) Len() int {
	return len(idx.files)
}

// Files returns the indexed files in walk (lexical) order.
func (idx *FileIndex) Files() []*IndexedFile {
	return idx.files
}

func isTextFile(name string) bool {
	if textBasenames[name] {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	return textExtensions[ext]
}
