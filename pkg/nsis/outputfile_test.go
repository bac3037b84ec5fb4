package nsis

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeClassifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"x64", "-x64"},
		{"-x64", "-x64"},
		{" x64 ", "-x64"},
	}

	for _, tt := range tests {
		if got := NormalizeClassifier(tt.in); got != tt.want {
			t.Errorf("NormalizeClassifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeClassifier_Idempotent(t *testing.T) {
	for _, in := range []string{"x64", "-x64", "setup-full", ""} {
		once := NormalizeClassifier(in)
		if twice := NormalizeClassifier(once); twice != once {
			t.Errorf("NormalizeClassifier(%q): once %q, twice %q", in, once, twice)
		}
	}
}

func TestResolveOutputFile_RelativeAgainstBuildDir(t *testing.T) {
	buildDir := t.TempDir()

	resolved, err := ResolveOutputFile("app-setup.exe", buildDir, "")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(buildDir, "app-setup.exe")
	if resolved.Path != want {
		t.Errorf("Path = %q, want %q", resolved.Path, want)
	}
	if resolved.DirCreated {
		t.Error("DirCreated = true for an existing directory")
	}
}

func TestResolveOutputFile_ClassifierBeforeExtension(t *testing.T) {
	buildDir := t.TempDir()

	tests := []struct {
		classifier string
		want       string
	}{
		{"x64", "app-setup-x64.exe"},
		{"-x64", "app-setup-x64.exe"},
		{"", "app-setup.exe"},
	}

	for _, tt := range tests {
		resolved, err := ResolveOutputFile("app-setup.exe", buildDir, tt.classifier)
		if err != nil {
			t.Fatal(err)
		}
		if got := filepath.Base(resolved.Path); got != tt.want {
			t.Errorf("classifier %q: file name %q, want %q", tt.classifier, got, tt.want)
		}
	}
}

func TestResolveOutputFile_NoExtension(t *testing.T) {
	buildDir := t.TempDir()
	resolved, err := ResolveOutputFile("installer", buildDir, "beta")
	if err != nil {
		t.Fatal(err)
	}
	if got := filepath.Base(resolved.Path); got != "installer-beta" {
		t.Errorf("file name = %q, want %q", got, "installer-beta")
	}
}

func TestResolveOutputFile_CreatesParentDirectory(t *testing.T) {
	buildDir := filepath.Join(t.TempDir(), "target", "nested")

	resolved, err := ResolveOutputFile("app.exe", buildDir, "")
	if err != nil {
		t.Fatal(err)
	}
	if !resolved.DirCreated {
		t.Error("DirCreated = false, want true for a missing directory")
	}
	if info, err := os.Stat(filepath.Dir(resolved.Path)); err != nil || !info.IsDir() {
		t.Errorf("parent directory was not created: %v", err)
	}
}

func TestResolveOutputFile_AbsoluteIgnoresBuildDir(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "out.exe")
	resolved, err := ResolveOutputFile(abs, t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Path != abs {
		t.Errorf("Path = %q, want %q", resolved.Path, abs)
	}
}
