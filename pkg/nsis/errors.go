package nsis

import "fmt"

// ConflictError reports a script directive that would collide with a flag
// the command builder is about to inject.
type ConflictError struct {
	Path      string
	Line      int
	Directive string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"script %q contains a %q directive at line %d which conflicts with the configured settings; move it to the configuration",
		e.Path, e.Directive, e.Line,
	)
}

// LaunchError reports that the OS refused to start the compiler process.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("unable to execute makensis %q: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ExitError reports a compiler run that terminated unsuccessfully. The
// captured transcript holds the detail; the error itself only carries the
// numeric code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	if e.Code < 0 {
		return "execution of the makensis compiler was terminated, see the output above for details"
	}
	return fmt.Sprintf("execution of the makensis compiler failed with exit code %d, see the output above for details", e.Code)
}
