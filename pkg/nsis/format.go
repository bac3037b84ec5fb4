package nsis

import (
	"strings"
	"unicode"

	"github.com/haakonra/nsisbuild/internal/platform"
)

// needsQuotes reports whether a raw token contains characters that force
// quoting: whitespace, double or single quotes, or a backtick.
func needsQuotes(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '"' || r == '\'' || r == '`'
	}) >= 0
}

// FormatArgument turns a raw string into a command line token makensis
// will tokenize back to the original value. An empty input yields a
// quoted empty pair. Unless alwaysQuote is set, tokens without
// whitespace or quote characters pass through unchanged.
//
// The escape scheme is a contract with the makensis command line parser
// and differs per platform: on Windows the quote token is \" with
// backslashes doubled and embedded quotes written as $\\\"; elsewhere the
// quote token is a plain " and embedded quotes become $\".
func FormatArgument(s string, alwaysQuote bool, p platform.Kind) string {
	quote := `"`
	if p.IsWindows() {
		quote = `\"`
	}
	if s == "" {
		return quote + quote
	}
	if !alwaysQuote && !needsQuotes(s) {
		return s
	}
	if p.IsWindows() {
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `"`, `$\\\"`)
	} else {
		s = strings.ReplaceAll(s, `"`, `$\"`)
	}
	return quote + s + quote
}
