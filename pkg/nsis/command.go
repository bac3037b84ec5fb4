package nsis

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/haakonra/nsisbuild/internal/platform"
)

// BuildCommand assembles the ordered makensis argument list. Token order
// is the wire contract with the compiler and is fixed: binary, include
// flag, output flag, no-change-directory flag, verbosity flag, compressor
// flags, extra arguments, script path last. Callers must have run
// Preflight on the script before building.
func BuildCommand(cfg *Config, resolved *ResolvedOutputFile, p platform.Kind) ([]string, error) {
	if cfg.MakensisPath == "" {
		return nil, fmt.Errorf("no makensis binary configured")
	}
	if cfg.ScriptFile == "" {
		return nil, fmt.Errorf("no script file configured")
	}

	pfx := p.OptPrefix()
	command := []string{cfg.MakensisPath}

	if cfg.InjectHeaderFile && fileExists(cfg.HeaderFile) {
		command = append(command, pfx+"X!include "+FormatArgument(cfg.HeaderFile, false, p))
	}
	if resolved != nil {
		command = append(command, pfx+"XOutFile "+FormatArgument(resolved.Path, false, p))
	}
	if cfg.WorkingFolder != "" {
		// The process runs in the configured folder; keep makensis from
		// changing into the script's directory on top of that.
		command = append(command, pfx+"NOCD")
	}
	command = append(command, fmt.Sprintf("%sV%d", pfx, ClampVerbosity(cfg.Verbosity)))

	if c := cfg.Compression; c != nil && c.emitsFlags() {
		var b strings.Builder
		b.WriteString(pfx)
		b.WriteString("XSetCompressor ")
		if c.Final {
			b.WriteString("/FINAL ")
		}
		if c.Solid {
			b.WriteString("/SOLID ")
		}
		b.WriteString(c.Type.String())
		command = append(command, b.String())
		if c.Type == Lzma && c.dictSize() != DefaultLzmaDictSizeKB {
			command = append(command, fmt.Sprintf("%sXSetCompressorDictSize %d", pfx, c.dictSize()))
		}
	}

	if cfg.ExtraArguments != "" {
		extra, err := shlex.Split(cfg.ExtraArguments)
		if err != nil {
			return nil, fmt.Errorf("splitting extra arguments: %w", err)
		}
		command = append(command, extra...)
	}

	// The script is passed positionally, never as a flag payload.
	return append(command, cfg.ScriptFile), nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
