package nsis

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/haakonra/nsisbuild/internal/platform"
)

func TestBuildCommand_MinimalTokenOrder(t *testing.T) {
	cfg := &Config{
		MakensisPath: "/usr/bin/makensis",
		ScriptFile:   "setup.nsi",
		Verbosity:    2,
	}
	got, err := BuildCommand(cfg, nil, platform.Linux)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"/usr/bin/makensis", "-V2", "setup.nsi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildCommand() = %q, want %q", got, want)
	}
}

// Exercises the full flag set: out-of-range verbosity is clamped, the
// compressor block carries /FINAL and the lzma dictionary size, and the
// output flag points at the resolved absolute path.
func TestBuildCommand_FullInvocation(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "app-setup.exe")
	cfg := &Config{
		MakensisPath: "makensis",
		ScriptFile:   "setup.nsi",
		Verbosity:    7,
		Compression: &CompressionSpec{
			Type:       Lzma,
			Final:      true,
			DictSizeKB: 64,
		},
	}
	resolved := &ResolvedOutputFile{Path: outPath}

	got, err := BuildCommand(cfg, resolved, platform.Linux)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"makensis",
		"-XOutFile " + outPath,
		"-V4",
		"-XSetCompressor /FINAL lzma",
		"-XSetCompressorDictSize 64",
		"setup.nsi",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildCommand() = %q, want %q", got, want)
	}
}

func TestBuildCommand_DefaultCompressionEmitsNothing(t *testing.T) {
	cfg := &Config{
		MakensisPath: "makensis",
		ScriptFile:   "setup.nsi",
		Compression:  &CompressionSpec{Type: Zlib, DictSizeKB: DefaultLzmaDictSizeKB},
	}
	got, err := BuildCommand(cfg, nil, platform.Linux)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"makensis", "-V0", "setup.nsi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildCommand() = %q, want %q: a no-op compression config must produce no compressor flags", got, want)
	}
}

func TestBuildCommand_DictSizeOnlyForNonDefaultLzma(t *testing.T) {
	cfg := &Config{
		MakensisPath: "makensis",
		ScriptFile:   "setup.nsi",
		Compression:  &CompressionSpec{Type: Lzma, DictSizeKB: DefaultLzmaDictSizeKB},
	}
	got, err := BuildCommand(cfg, nil, platform.Linux)
	if err != nil {
		t.Fatal(err)
	}
	for _, token := range got {
		if token == "-XSetCompressorDictSize 8" {
			t.Errorf("BuildCommand() emitted the default dictionary size: %q", got)
		}
	}

	cfg.Compression = &CompressionSpec{Type: Bzip2, DictSizeKB: 64}
	got, err = BuildCommand(cfg, nil, platform.Linux)
	if err != nil {
		t.Fatal(err)
	}
	for _, token := range got {
		if token == "-XSetCompressorDictSize 64" {
			t.Errorf("BuildCommand() emitted a dictionary size for bzip2: %q", got)
		}
	}
}

func TestBuildCommand_SolidCompressor(t *testing.T) {
	cfg := &Config{
		MakensisPath: "makensis",
		ScriptFile:   "setup.nsi",
		Compression:  &CompressionSpec{Type: Zlib, Solid: true},
	}
	got, err := BuildCommand(cfg, nil, platform.Linux)
	if err != nil {
		t.Fatal(err)
	}
	want := "-XSetCompressor /SOLID zlib"
	if got[1] != want {
		t.Errorf("compressor token = %q, want %q", got[1], want)
	}
}

func TestBuildCommand_WindowsPrefix(t *testing.T) {
	cfg := &Config{
		MakensisPath:  `C:\NSIS\makensis.exe`,
		ScriptFile:    "setup.nsi",
		WorkingFolder: `C:\build`,
		Verbosity:     3,
	}
	got, err := BuildCommand(cfg, nil, platform.Windows)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{`C:\NSIS\makensis.exe`, "/NOCD", "/V3", "setup.nsi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildCommand() = %q, want %q", got, want)
	}
}

func TestBuildCommand_NOCDOnlyWithWorkingFolder(t *testing.T) {
	cfg := &Config{MakensisPath: "makensis", ScriptFile: "setup.nsi"}
	got, err := BuildCommand(cfg, nil, platform.Linux)
	if err != nil {
		t.Fatal(err)
	}
	for _, token := range got {
		if token == "-NOCD" {
			t.Errorf("BuildCommand() emitted -NOCD without a working folder: %q", got)
		}
	}
}

func TestBuildCommand_HeaderIncludeOnlyWhenFileExists(t *testing.T) {
	header := filepath.Join(t.TempDir(), "project.nsh")

	cfg := &Config{
		MakensisPath:     "makensis",
		ScriptFile:       "setup.nsi",
		InjectHeaderFile: true,
		HeaderFile:       header,
	}

	got, err := BuildCommand(cfg, nil, platform.Linux)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("BuildCommand() = %q, want no include flag for a missing header", got)
	}

	if err := os.WriteFile(header, []byte("!define X \"y\"\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = BuildCommand(cfg, nil, platform.Linux)
	if err != nil {
		t.Fatal(err)
	}
	want := "-X!include " + header
	if got[1] != want {
		t.Errorf("include token = %q, want %q", got[1], want)
	}
}

func TestBuildCommand_ExtraArgumentsBeforeScript(t *testing.T) {
	cfg := &Config{
		MakensisPath:   "makensis",
		ScriptFile:     "setup.nsi",
		ExtraArguments: `-DFOO=bar "-DGREETING=hello world"`,
	}
	got, err := BuildCommand(cfg, nil, platform.Linux)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"makensis", "-V0", "-DFOO=bar", "-DGREETING=hello world", "setup.nsi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildCommand() = %q, want %q", got, want)
	}
}

func TestBuildCommand_MissingBinaryOrScript(t *testing.T) {
	if _, err := BuildCommand(&Config{ScriptFile: "setup.nsi"}, nil, platform.Linux); err == nil {
		t.Error("BuildCommand() with no binary succeeded, want error")
	}
	if _, err := BuildCommand(&Config{MakensisPath: "makensis"}, nil, platform.Linux); err == nil {
		t.Error("BuildCommand() with no script succeeded, want error")
	}
}
