// Package nsis builds makensis command lines and runs the compiler as a
// child process, streaming its console output line by line while waiting
// for the exit status.
package nsis

import (
	"fmt"
	"strings"
	"time"
)

// Compression identifies a makensis compressor algorithm.
type Compression int

const (
	// Zlib is the DEFLATE based default compressor.
	Zlib Compression = iota
	// Bzip2 is the Burrows-Wheeler based compressor.
	Bzip2
	// Lzma is the Lempel-Ziv-Markov chain compressor used by 7-zip.
	Lzma
)

// DefaultLzmaDictSizeKB is the dictionary size makensis assumes for lzma
// when none is given.
const DefaultLzmaDictSizeKB = 8

func (c Compression) String() string {
	switch c {
	case Bzip2:
		return "bzip2"
	case Lzma:
		return "lzma"
	default:
		return "zlib"
	}
}

// ParseCompression maps a configured compressor name to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zlib":
		return Zlib, nil
	case "bzip2":
		return Bzip2, nil
	case "lzma":
		return Lzma, nil
	default:
		return Zlib, fmt.Errorf("unsupported compression %q (supported: zlib, bzip2, lzma)", s)
	}
}

// CompressionSpec describes the compressor settings to inject into the
// compilation. The zero value with DictSizeKB 8 is the makensis default
// and produces no command line flags at all.
type CompressionSpec struct {
	Type       Compression
	Final      bool
	Solid      bool
	DictSizeKB int
}

// emitsFlags reports whether the settings differ from the all-defaults
// case and therefore have to appear on the command line.
func (s CompressionSpec) emitsFlags() bool {
	return s.Type != Zlib || s.Final || s.Solid
}

// dictSize returns the configured dictionary size with the default
// applied for unset values.
func (s CompressionSpec) dictSize() int {
	if s.DictSizeKB <= 0 {
		return DefaultLzmaDictSizeKB
	}
	return s.DictSizeKB
}

// Verbosity bounds accepted by makensis.
const (
	MinVerbosity = 0
	MaxVerbosity = 4
)

// DefaultVerbosity is used when no level is configured.
const DefaultVerbosity = 2

// ClampVerbosity corrects an out-of-range verbosity level instead of
// rejecting it.
func ClampVerbosity(v int) int {
	if v < MinVerbosity {
		return MinVerbosity
	}
	if v > MaxVerbosity {
		return MaxVerbosity
	}
	return v
}

// LineSink receives one decoded output line at a time. It is invoked on
// the output consumer's goroutine, not the caller's.
type LineSink func(line string)

// Logger receives diagnostics from resolution and detection steps. A nil
// Logger is valid and discards everything.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}

// Config describes a single makensis invocation. It is assembled once per
// invocation from external configuration and is not mutated by this
// package after validation.
type Config struct {
	// MakensisPath is the makensis binary to run. A relative name is
	// resolved through the OS search path before launch.
	MakensisPath string

	// ScriptFile is the .nsi script to compile, always the final
	// command line token.
	ScriptFile string

	// OutputFile is the installer file to produce. Relative paths are
	// resolved against BuildDir. Empty means the script decides.
	OutputFile string

	// BuildDir anchors relative output paths and receives the artifact
	// manifest.
	BuildDir string

	// Classifier is inserted into the output file name before its
	// extension, separated by exactly one hyphen.
	Classifier string

	// WorkingFolder, when set, becomes the child's working directory and
	// makes the builder pass the no-change-directory flag so makensis
	// does not switch to the script's own directory.
	WorkingFolder string

	// Verbosity is clamped to [MinVerbosity, MaxVerbosity] before it is
	// emitted.
	Verbosity int

	// Compression, when non-nil and different from the defaults, is
	// injected as compressor flags.
	Compression *CompressionSpec

	// InjectHeaderFile makes the builder include HeaderFile, provided it
	// exists on disk.
	InjectHeaderFile bool

	// HeaderFile is the generated project header to include.
	HeaderFile string

	// Environment is merged into the inherited process environment;
	// entries here win on key collision.
	Environment map[string]string

	// AutoDetectNSISDir enables best-effort detection of the NSIS data
	// directory from the resolved binary location.
	AutoDetectNSISDir bool

	// NSISDirOverride skips detection and is injected as NSISDIR
	// verbatim.
	NSISDirOverride string

	// ExtraArguments is a single string of additional makensis arguments,
	// split with POSIX shell word rules before the script token.
	ExtraArguments string

	// Encoding names the text encoding of the compiler's console output.
	// Empty selects the platform default: cp1252 on Windows, UTF-8
	// elsewhere.
	Encoding string

	// Sink receives each output line as it arrives, plus the final
	// elapsed-time line on success. Nil discards the transcript.
	Sink LineSink
}

// Result is the terminal outcome of one invocation.
type Result struct {
	// ExitCode is the compiler's exit status; -1 when the process was
	// terminated before reporting one.
	ExitCode int

	// Elapsed is the wall-clock time from launch to termination.
	Elapsed time.Duration

	// OutputFile is the resolved absolute installer path, recorded for
	// artifact hand-off. Empty when no output file was configured.
	OutputFile string
}
