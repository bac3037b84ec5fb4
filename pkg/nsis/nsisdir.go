package nsis

import (
	"os"
	"path/filepath"
)

// The environment variable makensis reads to locate its data directory
// (stubs, plugins, includes).
const nsisDirEnvVar = "NSISDIR"

// nsisDirMarkers are subdirectories whose presence identifies an NSIS
// data directory.
var nsisDirMarkers = []string{"Include", "Stubs", "Plugins"}

// DetectNSISDir locates the NSIS data directory for a resolved makensis
// binary. An explicit override always wins and skips detection. Otherwise
// the binary's own directory is probed first (the Windows install layout,
// where makensis.exe sits in the NSIS root), then ../share/nsis (the
// conventional Unix layout). Detection is best-effort; the second return
// value is false when nothing was found and the caller should continue
// without injecting the variable.
func DetectNSISDir(binPath, override string) (string, bool) {
	if override != "" {
		return override, true
	}
	if binPath == "" {
		return "", false
	}
	binDir := filepath.Dir(binPath)
	candidates := []string{
		binDir,
		filepath.Join(binDir, "..", "share", "nsis"),
	}
	for _, candidate := range candidates {
		if isNSISDir(candidate) {
			if abs, err := filepath.Abs(candidate); err == nil {
				return abs, true
			}
			return candidate, true
		}
	}
	return "", false
}

func isNSISDir(dir string) bool {
	for _, marker := range nsisDirMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
