package internal

import (
	"fmt"
	"log"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Build-time variables, injected via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

var (
	projectFile string
	debug       bool
)

var rootCmd = &cobra.Command{
	Use:     "nsisbuild",
	Short:   "nsisbuild compiles NSIS installer scripts as part of a build pipeline",
	Long:    `nsisbuild reads a project descriptor, generates an NSIS header file with the project details and runs the makensis compiler with the configured settings.`,
	Version: fmt.Sprintf("%s (commit %s)", version, commit),
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectFile, "project", "p", "nsisbuild.yaml", "Path to the project descriptor")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}

// cliLogger adapts the stdlib logger to the Debugf/Warnf interface the
// resolution code expects.
type cliLogger struct{}

func (cliLogger) Debugf(format string, args ...any) {
	if debug {
		log.Printf("DEBUG "+format, args...)
	}
}

func (cliLogger) Warnf(format string, args ...any) {
	log.Printf("WARNING "+format, args...)
}

// transcriptTag returns the tag prepended to every compiler output line,
// colored when stdout is a terminal.
func transcriptTag() string {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return color.Cyan.Sprint("[MAKENSIS]")
	}
	return "[MAKENSIS]"
}
