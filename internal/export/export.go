// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes resolved metadata records to YAML or JSON files
// for use outside the tool.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/devscholar/pkg/types"
)

// WriteYAML writes the records to path as a YAML document, sorted by
// cache key for stable output.
func WriteYAML(path string, records []types.Metadata) error {
	data, err := yaml.Marshal(sorted(records))
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return write(path, data)
}

// WriteJSON writes the records to path as indented JSON, sorted by
// cache key for stable output.
func WriteJSON(path string, records []types.Metadata) error {
	data, err := json.MarshalIndent(sorted(records), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return write(path, data)
}

// WriteSplitYAML writes one YAML file per record into dir, named after
// the record's cache key with filesystem-hostile characters replaced.
func WriteSplitYAML(dir string, records []types.Metadata) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	for _, m := range records {
		data, err := yaml.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshaling %s: %w", m.Key(), err)
		}
		path := filepath.Join(dir, fileName(m.Key())+".yaml")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// fileName maps a cache key to a safe file stem (DOIs contain slashes).
func fileName(key string) string {
	repl := strings.NewReplacer("/", "_", ":", "_", "\\", "_")
	return repl.Replace(key)
}

func sorted(records []types.Metadata) []types.Metadata {
	out := make([]types.Metadata, len(records))
	copy(out, records)
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

func write(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
