// Package project persists the state of a documentation run: the parsed
// outline plus the sources discovered for each section. State lives in
// .docscout/project.json under the repository root so repeated runs can
// resume and inspect previous results.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"docscout/internal/discovery"
	"docscout/internal/errors"
	"docscout/internal/outline"
)

const (
	stateDir  = ".docscout"
	stateFile = "project.json"
)

// SectionSources records the discovery outcome for one outline section.
type SectionSources struct {
	Heading string                   `json:"heading"`
	Sources []discovery.ScoredResult `json:"sources"`
}

// Project is the persisted state of a documentation run.
type Project struct {
	ID           string           `json:"id"`
	DocumentPath string           `json:"documentPath,omitempty"`
	Outline      *outline.Outline `json:"outline,omitempty"`
	Sections     []SectionSources `json:"sections,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// Store reads and writes project state under a repository root.
type Store struct {
	root string
}

// NewStore creates a store for the given repository root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Path returns the location of the state file.
func (s *Store) Path() string {
	return filepath.Join(s.root, stateDir, stateFile)
}

// NewProject creates a fresh project with a generated ID.
func NewProject() *Project {
	now := time.Now().UTC()
	return &Project{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Load reads the persisted project. Returns a ProjectNotFound error when no
// state file exists yet.
func (s *Store) Load() (*Project, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ProjectNotFound,
				fmt.Sprintf("no project state at %s; run init first", s.Path()), err)
		}
		return nil, fmt.Errorf("failed to read project state: %w", err)
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse project state: %w", err)
	}
	return &p, nil
}

// Save writes the project atomically, creating .docscout if needed.
func (s *Store) Save(p *Project) error {
	p.UpdatedAt = time.Now().UTC()

	dir := filepath.Join(s.root, stateDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project state: %w", err)
	}

	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write project state: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace project state: %w", err)
	}
	return nil
}

// SetSection replaces the stored sources for a heading, appending when the
// heading is new.
func (p *Project) SetSection(heading string, sources []discovery.ScoredResult) {
	for i := range p.Sections {
		if p.Sections[i].Heading == heading {
			p.Sections[i].Sources = sources
			return
		}
	}
	p.Sections = append(p.Sections, SectionSources{Heading: heading, Sources: sources})
}

// Section returns the stored sources for a heading, if any.
func (p *Project) Section(heading string) ([]discovery.ScoredResult, bool) {
	for i := range p.Sections {
		if p.Sections[i].Heading == heading {
			return p.Sections[i].Sources, true
		}
	}
	return nil, false
}
