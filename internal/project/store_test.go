package project

import (
	"os"
	"testing"

	"docscout/internal/discovery"
	"docscout/internal/errors"
	"docscout/internal/outline"
)

func TestLoadMissingState(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load()
	if err == nil {
		t.Fatal("expected error for missing state file")
	}
	if !errors.IsCode(err, errors.ProjectNotFound) {
		t.Errorf("error code mismatch: %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)

	p := NewProject()
	if p.ID == "" {
		t.Fatal("expected generated project ID")
	}
	p.DocumentPath = "README.md"
	p.Outline = outline.Parse("# My Tool\n\n## Usage\n\nRun it.\n")
	p.SetSection("Usage", []discovery.ScoredResult{
		{Path: "main.go", RelevanceScore: 8, Confidence: "high", DiscoveryMethod: "lexical+llm_scored"},
	})

	if err := store.Save(p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("expected state file: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID != p.ID {
		t.Errorf("ID = %q, want %q", loaded.ID, p.ID)
	}
	if loaded.Outline == nil || loaded.Outline.Title != "My Tool" {
		t.Errorf("outline not preserved: %+v", loaded.Outline)
	}
	sources, ok := loaded.Section("Usage")
	if !ok || len(sources) != 1 || sources[0].Path != "main.go" {
		t.Errorf("section sources not preserved: %v (ok=%v)", sources, ok)
	}
	if loaded.UpdatedAt.Before(loaded.CreatedAt) {
		t.Error("UpdatedAt should not precede CreatedAt")
	}
}

func TestSetSectionReplaces(t *testing.T) {
	p := NewProject()
	p.SetSection("Usage", []discovery.ScoredResult{{Path: "old.go", RelevanceScore: 5}})
	p.SetSection("Usage", []discovery.ScoredResult{{Path: "new.go", RelevanceScore: 9}})

	sources, ok := p.Section("Usage")
	if !ok {
		t.Fatal("expected section")
	}
	if len(sources) != 1 || sources[0].Path != "new.go" {
		t.Errorf("sources = %v, want single new.go entry", sources)
	}
	if len(p.Sections) != 1 {
		t.Errorf("Sections count = %d, want 1", len(p.Sections))
	}
}

func TestSaveOverwritesExisting(t *testing.T) {
	store := NewStore(t.TempDir())

	p := NewProject()
	p.DocumentPath = "doc/v1.md"
	if err := store.Save(p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	p.DocumentPath = "doc/v2.md"
	if err := store.Save(p); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.DocumentPath != "doc/v2.md" {
		t.Errorf("DocumentPath = %q, want doc/v2.md", loaded.DocumentPath)
	}
}
