// Package platform classifies the host operating system into the OS
// families that matter when locating and invoking the makensis compiler.
package platform

import (
	"runtime"
	"strings"
)

// Kind is the detected OS family. Only three families influence how
// makensis is located and called; everything else maps to Other.
type Kind int

const (
	// Other covers every platform without dedicated handling.
	Other Kind = iota
	// Linux is the Linux family.
	Linux
	// MacOS is the macOS/Darwin family.
	MacOS
	// Windows is the Windows family.
	Windows
)

// Detect classifies an OS name string. Unrecognized names map to Other;
// there is no failure mode.
func Detect(osName string) Kind {
	name := strings.ToLower(osName)
	switch {
	case strings.HasPrefix(name, "linux"):
		return Linux
	case strings.HasPrefix(name, "darwin"), strings.HasPrefix(name, "mac"):
		return MacOS
	case strings.HasPrefix(name, "windows"):
		return Windows
	default:
		return Other
	}
}

// Current detects the platform the process is running on.
func Current() Kind {
	return Detect(runtime.GOOS)
}

func (k Kind) String() string {
	switch k {
	case Linux:
		return "linux"
	case MacOS:
		return "macos"
	case Windows:
		return "windows"
	default:
		return "other"
	}
}

// IsWindows reports whether the kind is the Windows family.
func (k Kind) IsWindows() bool {
	return k == Windows
}

// OptPrefix returns the option prefix makensis expects on this platform:
// "/" on Windows, "-" everywhere else.
func (k Kind) OptPrefix() string {
	if k == Windows {
		return "/"
	}
	return "-"
}

// ListSeparator returns the separator used in list-valued environment
// variables such as PATH and PATHEXT on this platform.
func (k Kind) ListSeparator() string {
	if k == Windows {
		return ";"
	}
	return ":"
}
