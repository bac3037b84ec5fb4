package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haakonra/nsisbuild/internal/artifact"
	"github.com/haakonra/nsisbuild/internal/headerfile"
	"github.com/haakonra/nsisbuild/internal/platform"
	"github.com/haakonra/nsisbuild/internal/project"
	"github.com/haakonra/nsisbuild/pkg/nsis"
	"github.com/haakonra/nsisbuild/pkg/workerpool"
)

var (
	makeMakensis    string
	makeOutput      string
	makeClassifier  string
	makeVerbosity   int
	makeConcurrency int
	makeNoAttach    bool
)

var makeCmd = &cobra.Command{
	Use:   "make [script...]",
	Short: "Compile NSIS scripts into installer executables",
	Long: `Make runs the makensis compiler for each given script, or for the
script configured in the project descriptor when none is given. The
compiler output is streamed line by line as it arrives.`,
	RunE: runMake,
}

func init() {
	makeCmd.Flags().StringVar(&makeMakensis, "makensis", "", "The makensis binary to use (overrides the descriptor)")
	makeCmd.Flags().StringVarP(&makeOutput, "output", "o", "", "The installer file to produce (overrides the descriptor)")
	makeCmd.Flags().StringVar(&makeClassifier, "classifier", "", "Classifier appended to the installer name before its extension")
	makeCmd.Flags().IntVar(&makeVerbosity, "verbosity", -1, "makensis verbosity level, clamped to 0..4")
	makeCmd.Flags().IntVar(&makeConcurrency, "concurrency", 1, "Max concurrent compilations when several scripts are given")
	makeCmd.Flags().BoolVar(&makeNoAttach, "no-attach", false, "Do not record the produced installer in the artifact manifest")
	rootCmd.AddCommand(makeCmd)
}

func runMake(cmd *cobra.Command, args []string) error {
	proj, err := project.Load(projectFile)
	if err != nil {
		return err
	}
	if proj.NSIS.Disabled {
		fmt.Fprintln(os.Stderr, "[nsisbuild] plugin is disabled, not doing anything")
		return nil
	}

	p := platform.Current()
	logger := cliLogger{}

	classifier := makeClassifier
	if classifier == "" {
		classifier = proj.NSIS.Classifier
	}

	// The header is generated on demand so that a plain "make" works
	// without a separate header step.
	if proj.NSIS.InjectHeaderFileEnabled() {
		if _, err := os.Stat(proj.NSIS.HeaderFile); os.IsNotExist(err) {
			if err := headerfile.Generate(proj, proj.NSIS.HeaderFile, classifier); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "[nsisbuild] generated header file %s\n", proj.NSIS.HeaderFile)
		}
	}

	scripts := args
	if len(scripts) == 0 {
		scripts = []string{proj.NSIS.ScriptFile}
	}

	configs := make([]*nsis.Config, 0, len(scripts))
	for _, script := range scripts {
		cfg, err := buildConfig(proj, script, classifier)
		if err != nil {
			return err
		}
		configs = append(configs, cfg)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		fmt.Fprintf(os.Stderr, "\n[nsisbuild] received %s, stopping the compiler...\n", sig)
		cancel() // Kills the child processes via exec.CommandContext.
		if sig2, ok := <-sigCh; ok {
			fmt.Fprintf(os.Stderr, "[nsisbuild] received %s again, force exiting.\n", sig2)
			os.Exit(130)
		}
	}()

	// The executor captures the signal-aware context so a SIGINT kills
	// the running compilers.
	executor := func(_ context.Context, cfg *nsis.Config) (nsis.Result, error) {
		return nsis.Compile(ctx, cfg, p, logger)
	}

	pool := workerpool.NewPool(makeConcurrency, executor)
	go func() {
		for _, cfg := range configs {
			pool.Submit(cfg)
		}
		pool.Shutdown()
	}()

	var failed error
	for result := range pool.Results() {
		if result.Err != nil {
			var conflict *nsis.ConflictError
			if errors.As(result.Err, &conflict) {
				fmt.Fprintf(os.Stderr, "[nsisbuild] %v\n", conflict)
			} else {
				fmt.Fprintf(os.Stderr, "[nsisbuild] %s: %v\n", result.Config.ScriptFile, result.Err)
			}
			failed = result.Err
			continue
		}

		fmt.Fprintf(os.Stderr, "[nsisbuild] compiled %s in %s\n",
			result.Config.ScriptFile, result.Result.Elapsed.Round(time.Millisecond))

		if result.Result.OutputFile != "" && proj.NSIS.AttachArtifactEnabled() && !makeNoAttach {
			err := artifact.Attach(proj.BuildDir, artifact.Entry{
				File:       result.Result.OutputFile,
				Type:       "exe",
				Classifier: nsis.NormalizeClassifier(classifier),
			})
			if err != nil {
				return err
			}
		}
	}
	return failed
}

// buildConfig merges the descriptor settings with the command line
// overrides into one invocation config.
func buildConfig(proj *project.Project, script, classifier string) (*nsis.Config, error) {
	settings := proj.NSIS

	cfg := &nsis.Config{
		MakensisPath:      settings.Makensis,
		ScriptFile:        script,
		OutputFile:        settings.OutputFile,
		BuildDir:          proj.BuildDir,
		Classifier:        classifier,
		WorkingFolder:     settings.WorkingFolder,
		Verbosity:         settings.VerbosityOr(nsis.DefaultVerbosity),
		InjectHeaderFile:  settings.InjectHeaderFileEnabled(),
		HeaderFile:        settings.HeaderFile,
		Environment:       settings.Environment,
		AutoDetectNSISDir: settings.AutoDetectNSISDirEnabled(),
		NSISDirOverride:   settings.NSISDir,
		ExtraArguments:    settings.ExtraArguments,
		Encoding:          settings.Encoding,
	}
	if makeMakensis != "" {
		cfg.MakensisPath = makeMakensis
	}
	if makeOutput != "" {
		cfg.OutputFile = makeOutput
	}
	if makeVerbosity >= 0 {
		cfg.Verbosity = makeVerbosity
	}

	if c := settings.Compression; c != nil {
		compressionType, err := nsis.ParseCompression(c.Type)
		if err != nil {
			return nil, err
		}
		cfg.Compression = &nsis.CompressionSpec{
			Type:       compressionType,
			Final:      c.Final,
			Solid:      c.Solid,
			DictSizeKB: c.DictSizeKB,
		}
	}

	tag := transcriptTag()
	cfg.Sink = func(line string) {
		fmt.Printf("%s %s\n", tag, line)
	}
	return cfg, nil
}
