package nsis

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolvedOutputFile is the final installer location derived from the
// configured output path, the build directory and the classifier.
type ResolvedOutputFile struct {
	// Path is absolute.
	Path string

	// DirCreated reports whether the parent directory had to be created.
	DirCreated bool
}

// NormalizeClassifier trims the classifier and prefixes it with exactly
// one hyphen. It is idempotent: a classifier that already starts with a
// hyphen is not doubled. An empty or blank classifier stays empty.
func NormalizeClassifier(classifier string) string {
	classifier = strings.TrimSpace(classifier)
	if classifier == "" {
		return ""
	}
	if !strings.HasPrefix(classifier, "-") {
		classifier = "-" + classifier
	}
	return classifier
}

// ResolveOutputFile computes the absolute installer path and makes sure
// its parent directory exists before the compiler is launched, since
// makensis may write into it immediately. Relative outputFile values are
// resolved against buildDir; the classifier is inserted before the file
// extension.
func ResolveOutputFile(outputFile, buildDir, classifier string) (ResolvedOutputFile, error) {
	name := insertClassifier(outputFile, classifier)
	if !filepath.IsAbs(name) {
		name = filepath.Join(buildDir, name)
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return ResolvedOutputFile{}, fmt.Errorf("unable to resolve output file %q: %w", name, err)
	}

	resolved := ResolvedOutputFile{Path: abs}
	parent := filepath.Dir(abs)
	if _, err := os.Stat(parent); os.IsNotExist(err) {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return ResolvedOutputFile{}, fmt.Errorf("can't create output directory %q: %w", parent, err)
		}
		resolved.DirCreated = true
	} else if err != nil {
		return ResolvedOutputFile{}, fmt.Errorf("can't access output directory %q: %w", parent, err)
	}
	return resolved, nil
}

// insertClassifier places the normalized classifier in front of the file
// extension, or at the end of the name when there is none.
func insertClassifier(name, classifier string) string {
	classifier = NormalizeClassifier(classifier)
	if classifier == "" {
		return name
	}
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)] + classifier + ext
}
