// Package artifact records produced installer files in a JSON manifest so
// that downstream pipeline stages can pick them up.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ManifestName is the manifest file written into the build directory.
const ManifestName = "artifacts.json"

// Entry describes one attached build artifact.
type Entry struct {
	// File is the absolute path of the produced file.
	File string `json:"file"`

	// Type is the artifact type, "exe" for installers.
	Type string `json:"type"`

	// Classifier distinguishes variants of the same artifact, empty for
	// the main one.
	Classifier string `json:"classifier,omitempty"`

	// BuiltAt is the attachment timestamp.
	BuiltAt time.Time `json:"builtAt"`
}

// Attach registers an entry in the manifest of buildDir, creating the
// manifest when missing. An entry for the same file and classifier is
// replaced rather than duplicated.
func Attach(buildDir string, entry Entry) error {
	if entry.BuiltAt.IsZero() {
		entry.BuiltAt = time.Now()
	}
	path := filepath.Join(buildDir, ManifestName)

	entries, err := readManifest(path)
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range entries {
		if existing.File == entry.File && existing.Classifier == entry.Classifier {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode artifact manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("unable to write artifact manifest %q: %w", path, err)
	}
	return nil
}

// Read returns the manifest entries of buildDir, or nil when no manifest
// exists yet.
func Read(buildDir string) ([]Entry, error) {
	return readManifest(filepath.Join(buildDir, ManifestName))
}

func readManifest(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read artifact manifest %q: %w", path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unable to parse artifact manifest %q: %w", path, err)
	}
	return entries, nil
}
