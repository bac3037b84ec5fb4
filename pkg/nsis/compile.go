package nsis

import (
	"context"
	"fmt"
	"os"

	"github.com/haakonra/nsisbuild/internal/pathsearch"
	"github.com/haakonra/nsisbuild/internal/platform"
)

// Compile performs one full compiler invocation: preflight validation of
// the script, binary and data directory resolution, command construction,
// launch, concurrent output draining and exit evaluation. All fatal
// conditions abort the invocation; nothing is retried.
func Compile(ctx context.Context, cfg *Config, p platform.Kind, log Logger) (Result, error) {
	if log == nil {
		log = nopLogger{}
	}

	// A script directive colliding with an injected flag fails fast,
	// before any process is launched.
	if err := Preflight(cfg.ScriptFile, checksFor(cfg)); err != nil {
		return Result{}, err
	}

	binPath, ok := pathsearch.Search(cfg.MakensisPath, p, os.Getenv, log)
	if !ok {
		return Result{}, fmt.Errorf("cannot find the makensis binary %q, make sure NSIS is installed and on the PATH", cfg.MakensisPath)
	}
	log.Debugf("using makensis binary %q", binPath)

	// Work on a copy so the caller's Config stays untouched.
	resolved := *cfg
	resolved.MakensisPath = binPath

	if cfg.NSISDirOverride != "" || cfg.AutoDetectNSISDir {
		if dir, found := DetectNSISDir(binPath, cfg.NSISDirOverride); found {
			env := make(map[string]string, len(cfg.Environment)+1)
			for k, v := range cfg.Environment {
				env[k] = v
			}
			if _, set := env[nsisDirEnvVar]; !set {
				env[nsisDirEnvVar] = dir
				log.Debugf("injecting %s=%q", nsisDirEnvVar, dir)
			}
			resolved.Environment = env
		} else {
			log.Warnf("could not detect the NSIS data directory from %q, continuing without %s", binPath, nsisDirEnvVar)
		}
	}

	var outFile *ResolvedOutputFile
	if cfg.OutputFile != "" {
		out, err := ResolveOutputFile(cfg.OutputFile, cfg.BuildDir, cfg.Classifier)
		if err != nil {
			return Result{}, err
		}
		outFile = &out
	}

	command, err := BuildCommand(&resolved, outFile, p)
	if err != nil {
		return Result{}, err
	}
	log.Debugf("makensis command: %q", command)

	result, err := Run(ctx, command, &resolved, p)
	if outFile != nil {
		result.OutputFile = outFile.Path
	}
	return result, err
}
