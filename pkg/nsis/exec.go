package nsis

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/haakonra/nsisbuild/internal/platform"
)

// Run launches the compiler with the given argument list and blocks until
// it terminates. stderr is merged into stdout at file descriptor level so
// the transcript preserves the interleaving the compiler emitted. The
// output is drained concurrently by a dedicated goroutine that pushes
// each decoded line into cfg.Sink; lines may still arrive after the exit
// status is known.
//
// Cancelling ctx kills the process, which is reported as a failed run,
// not as a cancellation of this call.
func Run(ctx context.Context, command []string, cfg *Config, p platform.Kind) (Result, error) {
	if len(command) == 0 {
		return Result{}, fmt.Errorf("empty command")
	}
	sink := cfg.Sink
	if sink == nil {
		sink = func(string) {}
	}

	encName := cfg.Encoding
	if encName == "" {
		encName = DefaultEncoding(p)
	}
	// Validate the encoding before anything is launched.
	if _, err := resolveEncoding(encName); err != nil && strings.ToLower(encName) != EncodingAuto {
		return Result{}, err
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	if cfg.WorkingFolder != "" {
		cmd.Dir = cfg.WorkingFolder
	}
	cmd.Env = mergeEnv(os.Environ(), cfg.Environment)

	pr, pw, err := os.Pipe()
	if err != nil {
		return Result{}, fmt.Errorf("failed to create output pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	start := time.Now()
	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return Result{}, &LaunchError{Path: command[0], Err: err}
	}
	// The child holds its own copy of the write end; drop ours so the
	// reader sees EOF once the child exits.
	pw.Close()

	go drainOutput(pr, encName, sink)

	waitErr := cmd.Wait()
	result := Result{Elapsed: time.Since(start)}

	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			// Covers non-zero exits and kill-on-cancel, where ExitCode
			// reports -1.
			result.ExitCode = exitErr.ExitCode()
			return result, &ExitError{Code: result.ExitCode}
		}
		result.ExitCode = -1
		return result, fmt.Errorf("makensis execution failed: %w", waitErr)
	}

	sink(fmt.Sprintf("Execution completed in %dms", result.Elapsed.Milliseconds()))
	return result, nil
}

// drainOutput line-buffers the merged stream and pushes every complete
// line into the sink before reading the next one. Read errors are
// deliberately swallowed: a broken pipe during shutdown is not a failure,
// the exit code is the authoritative signal.
func drainOutput(r io.ReadCloser, encName string, sink LineSink) {
	defer r.Close()
	decoded, err := newDecodingReader(r, encName)
	if err != nil {
		decoded = r
	}
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		sink(scanner.Text())
	}
}

// mergeEnv combines the inherited environment with the configured
// overrides. Overrides win on key collision instead of producing
// duplicate entries; new keys are appended in sorted order for
// deterministic command setup.
func mergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}
	merged := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(overrides))
	for _, entry := range base {
		key, _, ok := strings.Cut(entry, "=")
		if ok {
			if value, replaced := overrides[key]; replaced {
				merged = append(merged, key+"="+value)
				seen[key] = true
				continue
			}
		}
		merged = append(merged, entry)
	}
	added := make([]string, 0, len(overrides))
	for key, value := range overrides {
		if !seen[key] {
			added = append(added, key+"="+value)
		}
	}
	sort.Strings(added)
	return append(merged, added...)
}
