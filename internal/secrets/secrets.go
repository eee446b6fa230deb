// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Key file names the pipeline recognizes. Each also has an environment
// fallback (the upper-snake form with _API_KEY).
const (
	KeyGemini          = "gemini-api-key"
	KeyZhipu           = "zhipu-api-key"
	KeyOpenAI          = "openai-api-key"
	KeyAnthropic       = "anthropic-api-key"
	KeySemanticScholar = "semantic-scholar-api-key"
)

// envFallbacks maps key file names to the environment variable consulted
// when no secret file provides a value.
var envFallbacks = map[string]string{
	KeyGemini:          "GEMINI_API_KEY",
	KeyZhipu:           "ZHIPU_API_KEY",
	KeyOpenAI:          "OPENAI_API_KEY",
	KeyAnthropic:       "ANTHROPIC_API_KEY",
	KeySemanticScholar: "SEMANTIC_SCHOLAR_API_KEY",
}

// Store holds loaded secrets keyed by file name.
type Store map[string]string

// Load reads all files in dir into a Store. A missing directory or missing
// files are not errors; Load returns an empty store. Unreadable files
// produce a warning on stderr but do not abort.
func Load(dir string) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	store := make(Store)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			store[name] = value
		}
	}

	return store, nil
}

// Get returns the value for key, falling back to its environment variable
// when the secrets directory did not provide one.
func (s Store) Get(key string) string {
	if v := s[key]; v != "" {
		return v
	}
	return os.Getenv(envFallbacks[key])
}

// Names returns the sorted loaded key names, for startup logging.
func (s Store) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
