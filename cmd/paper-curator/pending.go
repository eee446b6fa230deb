// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mzhao/paper-curator/pkg/types"
)

// Pipeline hand-off files inside the pending directory.
const (
	candidatesFile = "candidates.json"
	filteredFile   = "filtered.json"
	summarizedFile = "summarized.json"
)

// writePending stores a stage's output in the pending directory.
func writePending(dir, name string, papers []types.Candidate) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating pending directory: %w", err)
	}
	file := types.CandidateFile{
		FetchedAt:   time.Now().UTC().Format(time.RFC3339),
		TotalPapers: len(papers),
		Papers:      papers,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// readPending loads a prior stage's output from the pending directory.
func readPending(dir, name string) ([]types.Candidate, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s not found: run the previous pipeline stage first", path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var file types.CandidateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return file.Papers, nil
}
