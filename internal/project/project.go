// Package project reads the build descriptor that supplies project
// metadata and makensis settings.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultDescriptor is the descriptor file name looked for in the working
// directory when none is given.
const DefaultDescriptor = "nsisbuild.yaml"

// License names one project license.
type License struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Organization names the organization behind the project.
type Organization struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Compression mirrors the compressor settings of the descriptor.
type Compression struct {
	Type       string `yaml:"type"`
	Final      bool   `yaml:"final"`
	Solid      bool   `yaml:"solid"`
	DictSizeKB int    `yaml:"dictSizeKB"`
}

// Settings holds the makensis invocation settings of the descriptor.
type Settings struct {
	Disabled          bool              `yaml:"disabled"`
	Makensis          string            `yaml:"makensis"`
	ScriptFile        string            `yaml:"scriptFile"`
	OutputFile        string            `yaml:"outputFile"`
	WorkingFolder     string            `yaml:"workingFolder"`
	Verbosity         *int              `yaml:"verbosity"`
	Compression       *Compression      `yaml:"compression"`
	InjectHeaderFile  *bool             `yaml:"injectHeaderFile"`
	HeaderFile        string            `yaml:"headerFile"`
	Environment       map[string]string `yaml:"environment"`
	AutoDetectNSISDir *bool             `yaml:"autoDetectNSISDir"`
	NSISDir           string            `yaml:"nsisDir"`
	ExtraArguments    string            `yaml:"extraArguments"`
	Encoding          string            `yaml:"encoding"`
	Classifier        string            `yaml:"classifier"`
	AttachArtifact    *bool             `yaml:"attachArtifact"`
}

// Project is the parsed build descriptor. String values are read-only
// key/value metadata; the consumers never write back.
type Project struct {
	Name         string            `yaml:"name"`
	GroupID      string            `yaml:"groupId"`
	ArtifactID   string            `yaml:"artifactId"`
	Version      string            `yaml:"version"`
	Packaging    string            `yaml:"packaging"`
	URL          string            `yaml:"url"`
	BaseDir      string            `yaml:"baseDir"`
	BuildDir     string            `yaml:"buildDir"`
	FinalName    string            `yaml:"finalName"`
	Licenses     []License         `yaml:"licenses"`
	Organization *Organization     `yaml:"organization"`
	Defines      map[string]string `yaml:"defines"`
	NSIS         Settings          `yaml:"nsis"`
}

// Load reads and validates a descriptor, applying the defaults that are
// derived from the descriptor location and the project coordinates.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read project descriptor %q: %w", path, err)
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unable to parse project descriptor %q: %w", path, err)
	}
	if err := p.applyDefaults(path); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid project descriptor %q: %w", path, err)
	}
	return &p, nil
}

func (p *Project) applyDefaults(path string) error {
	if p.BaseDir == "" {
		abs, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return fmt.Errorf("unable to resolve project base directory: %w", err)
		}
		p.BaseDir = abs
	}
	if p.BuildDir == "" {
		p.BuildDir = filepath.Join(p.BaseDir, "target")
	}
	if p.FinalName == "" && p.ArtifactID != "" && p.Version != "" {
		p.FinalName = p.ArtifactID + "-" + p.Version
	}
	if p.Name == "" {
		p.Name = p.ArtifactID
	}
	if p.Packaging == "" {
		p.Packaging = "exe"
	}
	if p.NSIS.Makensis == "" {
		p.NSIS.Makensis = "makensis"
	}
	if p.NSIS.ScriptFile == "" {
		p.NSIS.ScriptFile = "setup.nsi"
	}
	if p.NSIS.OutputFile == "" {
		p.NSIS.OutputFile = p.FinalName + ".exe"
	}
	if p.NSIS.HeaderFile == "" {
		p.NSIS.HeaderFile = filepath.Join(p.BuildDir, "project.nsh")
	}
	return nil
}

func (p *Project) validate() error {
	if p.ArtifactID == "" {
		return fmt.Errorf("artifactId is required")
	}
	if p.Version == "" {
		return fmt.Errorf("version is required")
	}
	return nil
}

// VerbosityOr returns the configured verbosity or the given fallback.
func (s Settings) VerbosityOr(fallback int) int {
	if s.Verbosity == nil {
		return fallback
	}
	return *s.Verbosity
}

// AttachArtifactEnabled defaults to true when unset.
func (s Settings) AttachArtifactEnabled() bool {
	return s.AttachArtifact == nil || *s.AttachArtifact
}

// InjectHeaderFileEnabled defaults to true when unset.
func (s Settings) InjectHeaderFileEnabled() bool {
	return s.InjectHeaderFile == nil || *s.InjectHeaderFile
}

// AutoDetectNSISDirEnabled defaults to true when unset.
func (s Settings) AutoDetectNSISDirEnabled() bool {
	return s.AutoDetectNSISDir == nil || *s.AutoDetectNSISDir
}
