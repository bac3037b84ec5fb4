package internal

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haakonra/nsisbuild/internal/headerfile"
	"github.com/haakonra/nsisbuild/internal/project"
)

var (
	headerFile       string
	headerClassifier string
)

var headerCmd = &cobra.Command{
	Use:   "header",
	Short: "Generate the NSIS header file with the project details",
	Long: `Header writes a .nsh file with !define variables for the project
metadata (base directory, coordinates, version, licenses, organization)
so the installer script can include it.`,
	RunE: runHeader,
}

func init() {
	headerCmd.Flags().StringVarP(&headerFile, "file", "f", "", "Path of the header file to generate (overrides the descriptor)")
	headerCmd.Flags().StringVar(&headerClassifier, "classifier", "", "Classifier exposed as PROJECT_CLASSIFIER")
	rootCmd.AddCommand(headerCmd)
}

func runHeader(cmd *cobra.Command, args []string) error {
	proj, err := project.Load(projectFile)
	if err != nil {
		return err
	}
	if proj.NSIS.Disabled {
		fmt.Fprintln(os.Stderr, "[nsisbuild] plugin is disabled, not doing anything")
		return nil
	}

	path := headerFile
	if path == "" {
		path = proj.NSIS.HeaderFile
	}
	classifier := headerClassifier
	if classifier == "" {
		classifier = proj.NSIS.Classifier
	}

	if err := headerfile.Generate(proj, path, classifier); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "[nsisbuild] generated header file %s\n", path)
	return nil
}
