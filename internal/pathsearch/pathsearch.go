// Package pathsearch locates executables by walking the directories of
// the OS search path, probing Windows executable extensions when needed.
package pathsearch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/haakonra/nsisbuild/internal/platform"
)

// Logger receives diagnostics from the search. A nil Logger is valid and
// discards everything.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}

// EnvFunc looks up an environment variable. It exists so that tests can
// run the search against a simulated environment; production callers pass
// os.Getenv.
type EnvFunc func(key string) string

// getwd is replaceable in tests.
var getwd = os.Getwd

// Search resolves a relative executable name against the OS search path
// and returns the first existing regular file, canonicalized.
//
// The candidate directory list is the current working directory followed
// by every PATH entry in order; blank entries are skipped with a warning.
// On Windows, when name carries no extension, each PATHEXT extension is
// probed across all directories before the next extension is tried, and
// the bare name is probed last of all. On other platforms no extensions
// are probed. The second return value is false when nothing matched.
func Search(name string, p platform.Kind, env EnvFunc, log Logger) (string, bool) {
	if log == nil {
		log = nopLogger{}
	}
	if env == nil {
		env = os.Getenv
	}
	if filepath.IsAbs(name) {
		if isRegularFile(name) {
			return canonicalize(name, log), true
		}
		return "", false
	}

	dirs := candidateDirs(p, env, log)
	exts := candidateExtensions(name, p, env)

	for _, ext := range exts {
		for _, dir := range dirs {
			candidate := filepath.Join(dir, name+ext)
			if isRegularFile(candidate) {
				log.Debugf("resolved %q from %q using the OS search path", candidate, name)
				return canonicalize(candidate, log), true
			}
		}
	}
	log.Debugf("failed to resolve %q using the OS search path", name)
	return "", false
}

// candidateDirs returns the working directory followed by the parsed PATH
// entries. Entries that are blank are skipped, not fatal.
func candidateDirs(p platform.Kind, env EnvFunc, log Logger) []string {
	var dirs []string
	if wd, err := getwd(); err == nil {
		dirs = append(dirs, wd)
	} else {
		log.Warnf("unable to determine the working directory, it will not be searched: %v", err)
	}
	for _, entry := range strings.Split(env("PATH"), p.ListSeparator()) {
		if strings.TrimSpace(entry) == "" {
			if entry != "" {
				log.Warnf("ignoring blank PATH entry")
			}
			continue
		}
		dirs = append(dirs, entry)
	}
	return dirs
}

// candidateExtensions returns the extensions to probe, each with a leading
// dot, ending with the empty extension as the last resort. Windows PATHEXT
// entries are normalized by stripping dots and lower-cased so that probing
// stays deterministic on case-sensitive file systems.
func candidateExtensions(name string, p platform.Kind, env EnvFunc) []string {
	var exts []string
	if p.IsWindows() && filepath.Ext(name) == "" {
		for _, e := range strings.Split(env("PATHEXT"), p.ListSeparator()) {
			e = strings.ToLower(strings.ReplaceAll(e, ".", ""))
			if strings.TrimSpace(e) == "" {
				continue
			}
			exts = append(exts, "."+e)
		}
	}
	return append(exts, "")
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// canonicalize resolves symlinks. When that fails the match is returned
// as-is with a warning rather than failing the search.
func canonicalize(path string, log Logger) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		log.Warnf("could not get the real path of %q: %v", path, err)
		return path
	}
	if abs, err := filepath.Abs(resolved); err == nil {
		return abs
	}
	return resolved
}
