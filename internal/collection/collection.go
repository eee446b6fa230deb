// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collection manages the persisted paper collection document:
// records, category taxonomy, and run metadata, stored as one YAML file.
// The document is loaded and saved as a single unit; every save is a
// whole-document replace, so an interrupt can never leave a half-written
// record behind an old one.
package collection

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/mzhao/paper-curator/pkg/types"
)

// Store holds the collection document in memory between Load and Save.
// A single logical owner (the process running the stage) holds it for the
// duration of the stage; there is no support for concurrent writers.
type Store struct {
	path string
	doc  *types.CollectionDoc
}

// Open loads the collection document from path. A missing file is fatal:
// stages must not silently start from an empty collection.
func Open(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("collection not found at %s: run `paper-curator collection init` first", path)
		}
		return nil, fmt.Errorf("reading collection: %w", err)
	}

	var doc types.CollectionDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing collection %s: %w", path, err)
	}

	return &Store{path: path, doc: &doc}, nil
}

// Init creates a new empty collection document at path. It refuses to
// overwrite an existing file.
func Init(path string, categories []types.Category) (*Store, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("collection already exists at %s", path)
	}

	s := &Store{
		path: path,
		doc: &types.CollectionDoc{
			Categories: categories,
			Metadata:   types.CollectionMetadata{LastUpdated: today()},
		},
	}
	if err := s.Save(); err != nil {
		return nil, err
	}
	return s, nil
}

// Doc exposes the loaded document.
func (s *Store) Doc() *types.CollectionDoc { return s.doc }

// Papers returns the paper records.
func (s *Store) Papers() []*types.PaperRecord { return s.doc.Papers }

// Get returns the paper with the given ID, or nil.
func (s *Store) Get(id string) *types.PaperRecord {
	for _, p := range s.doc.Papers {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// HasArxivID reports whether any record carries the given external ID.
// Ingestion uses this for duplicate detection.
func (s *Store) HasArxivID(arxivID string) bool {
	clean := stripVersion(arxivID)
	for _, p := range s.doc.Papers {
		if stripVersion(p.ArxivID) == clean {
			return true
		}
	}
	return false
}

// Save writes the whole document back to disk, refreshing run metadata.
func (s *Store) Save() error {
	s.doc.Metadata.LastUpdated = today()
	s.doc.Metadata.TotalPapers = len(s.doc.Papers)

	data, err := yaml.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("marshaling collection: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating collection directory: %w", err)
		}
	}
	// Write-then-rename so an interrupted save leaves the previous
	// document intact.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".papers-*.yaml")
	if err != nil {
		return fmt.Errorf("writing collection: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing collection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing collection: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing collection: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing collection: %w", err)
	}
	return nil
}

// BatchStar marks the given papers starred or unstarred and returns how
// many were found.
func (s *Store) BatchStar(paperIDs []string, starred bool) int {
	updated := 0
	for _, id := range paperIDs {
		if p := s.Get(id); p != nil {
			p.Starred = starred
			updated++
		}
	}
	return updated
}

// BatchAddCategory adds a taxonomy category to the given papers. Papers
// that already carry it are left alone.
func (s *Store) BatchAddCategory(paperIDs []string, category string) int {
	updated := 0
	for _, id := range paperIDs {
		p := s.Get(id)
		if p == nil || contains(p.Categories, category) {
			continue
		}
		p.Categories = append(p.Categories, category)
		updated++
	}
	return updated
}

// BatchAddNote appends a note line to the given papers. Existing notes are
// never overwritten, only appended to.
func (s *Store) BatchAddNote(paperIDs []string, note string) int {
	updated := 0
	for _, id := range paperIDs {
		p := s.Get(id)
		if p == nil {
			continue
		}
		if p.Notes != "" {
			p.Notes = p.Notes + "\n" + note
		} else {
			p.Notes = note
		}
		updated++
	}
	return updated
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func today() string {
	return time.Now().Format("2006-01-02")
}
