// Package headerfile generates the NSIS header file that exposes project
// metadata to the script as !define variables.
package headerfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/haakonra/nsisbuild/internal/project"
)

// NSIS expects CRLF line endings regardless of the platform the header is
// generated on.
const lineSeparator = "\r\n"

// now is replaceable in tests.
var now = time.Now

// Generate writes the project header file to path, creating the parent
// directory when needed. Variables whose value cannot be resolved are
// omitted. With multiple licenses the defines are numbered PROJECT_LICENSE<n>
// starting at 1.
func Generate(p *project.Project, path, classifier string) error {
	parent := filepath.Dir(path)
	if _, err := os.Stat(parent); os.IsNotExist(err) {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("couldn't create parent folder %q for header file %q: %w", parent, filepath.Base(path), err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("couldn't create header file %q: %w", path, err)
	}
	w := &headerWriter{w: bufio.NewWriter(f)}

	w.writeln("; Header file with project details for %s", p.Name)
	w.writeln("; Generated from %s version %s on %s", project.DefaultDescriptor, p.Version, now().Format("2006-01-02 15:04:05"))
	w.newline()

	w.define("PROJECT_BASEDIR", p.BaseDir)
	w.define("PROJECT_BUILD_DIR", p.BuildDir)
	w.define("PROJECT_FINAL_NAME", p.FinalName)
	if strings.TrimSpace(classifier) != "" {
		w.define("PROJECT_CLASSIFIER", classifier)
	}
	w.define("PROJECT_GROUP_ID", p.GroupID)
	w.define("PROJECT_ARTIFACT_ID", p.ArtifactID)
	w.define("PROJECT_NAME", p.Name)
	w.define("PROJECT_VERSION", p.Version)
	w.define("PROJECT_PACKAGING", p.Packaging)
	w.define("PROJECT_URL", p.URL)

	switch len(p.Licenses) {
	case 0:
	case 1:
		w.define("PROJECT_LICENSE", p.Licenses[0].Name)
		w.define("PROJECT_LICENSE_URL", p.Licenses[0].URL)
	default:
		for i, license := range p.Licenses {
			w.define(fmt.Sprintf("PROJECT_LICENSE%d", i+1), license.Name)
			w.define(fmt.Sprintf("PROJECT_LICENSE%d_URL", i+1), license.URL)
		}
	}

	if p.Organization == nil {
		w.writeln("; The project organization section is missing from your %s", project.DefaultDescriptor)
	} else {
		w.define("PROJECT_ORGANIZATION_NAME", p.Organization.Name)
		w.define("PROJECT_ORGANIZATION_URL", p.Organization.URL)
		w.define("PROJECT_REG_KEY", fmt.Sprintf("SOFTWARE\\%s\\%s\\%s", p.Organization.Name, p.Name, p.Version))
		w.define("PROJECT_REG_UNINSTALL_KEY", fmt.Sprintf("Software\\Microsoft\\Windows\\CurrentVersion\\Uninstall\\%s %s", p.Name, p.Version))
		w.define("PROJECT_STARTMENU_FOLDER", fmt.Sprintf("$SMPROGRAMS\\%s\\%s %s", p.Organization.Name, p.Name, p.Version))
	}

	for _, key := range sortedKeys(p.Defines) {
		w.define(strings.ToUpper(key), p.Defines[key])
	}

	if w.err != nil {
		f.Close()
		return fmt.Errorf("an error occurred while writing header file %q: %w", path, w.err)
	}
	if err := w.w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("an error occurred while writing header file %q: %w", path, err)
	}
	return f.Close()
}

// headerWriter emits CRLF terminated lines and remembers the first write
// error so call sites stay uncluttered.
type headerWriter struct {
	w   *bufio.Writer
	err error
}

func (h *headerWriter) writeln(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format+lineSeparator, args...)
}

func (h *headerWriter) newline() {
	if h.err != nil {
		return
	}
	_, h.err = h.w.WriteString(lineSeparator)
}

// define writes one !define line, omitting it entirely for blank values.
func (h *headerWriter) define(name, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	h.writeln("!define %s \"%s\"", name, value)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
