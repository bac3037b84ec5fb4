package nsis

import (
	"bufio"
	"os"
	"strings"
)

// Script directives that collide with flags the command builder injects.
const (
	directiveOutFile       = "OutFile"
	directiveSetCompressor = "SetCompressor"
)

// checksFor derives the enabled preflight checks from the configuration:
// an output directive check only when an output file is configured, a
// compressor directive check only when compression is configured and
// marked final.
func checksFor(cfg *Config) []string {
	var checks []string
	if cfg.OutputFile != "" {
		checks = append(checks, directiveOutFile)
	}
	if cfg.Compression != nil && cfg.Compression.Final {
		checks = append(checks, directiveSetCompressor)
	}
	return checks
}

// Preflight scans the script for directives that would silently conflict
// with injected flags and fails fast with the 1-indexed line of the first
// hit. The script is read as UTF-8 regardless of platform. An unreadable
// script is not a preflight failure; the compiler will report it with its
// own diagnostics.
func Preflight(scriptPath string, directives []string) error {
	if len(directives) == 0 {
		return nil
	}
	f, err := os.Open(scriptPath)
	if err != nil {
		return nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimLeft(scanner.Text(), " \t")
		for _, directive := range directives {
			if matchesDirective(text, directive) {
				return &ConflictError{Path: scriptPath, Line: line, Directive: directive}
			}
		}
	}
	return nil
}

// matchesDirective reports whether the line starts with the directive
// token, case-sensitive, followed by a word boundary.
func matchesDirective(line, directive string) bool {
	if !strings.HasPrefix(line, directive) {
		return false
	}
	rest := line[len(directive):]
	if rest == "" {
		return true
	}
	c := rest[0]
	return !(c == '_' || c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z')
}
