package nsis

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/haakonra/nsisbuild/internal/platform"
)

// Supported console output encodings. makensis writes its console output
// in the platform's default code page on Windows and UTF-8 elsewhere, so
// the default mirrors that asymmetry.
const (
	EncodingUTF8    = "utf8"
	EncodingCP1252  = "cp1252"
	EncodingCP850   = "cp850"
	EncodingUTF16LE = "utf16le"
	EncodingUTF16BE = "utf16be"
	EncodingAuto    = "auto"
)

// DefaultEncoding returns the output encoding assumed when none is
// configured: the Western Windows code page on Windows, UTF-8 elsewhere.
func DefaultEncoding(p platform.Kind) string {
	if p.IsWindows() {
		return EncodingCP1252
	}
	return EncodingUTF8
}

// resolveEncoding maps an encoding name to an x/text Encoding. A nil
// result with a nil error means the stream is already UTF-8.
func resolveEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EncodingUTF8, "utf-8":
		return nil, nil
	case EncodingCP1252, "windows-1252", "latin1":
		return charmap.Windows1252, nil
	case EncodingCP850, "ibm850":
		return charmap.CodePage850, nil
	case EncodingUTF16LE, "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case EncodingUTF16BE, "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	default:
		return nil, fmt.Errorf("unsupported output encoding %q (supported: utf8, cp1252, cp850, utf16le, utf16be, auto)", name)
	}
}

// newDecodingReader wraps the compiler's output stream so that it yields
// UTF-8 regardless of the console encoding. "auto" peeks for a byte order
// mark and falls back to UTF-8 passthrough when none is present.
func newDecodingReader(r io.Reader, name string) (io.Reader, error) {
	if strings.ToLower(strings.TrimSpace(name)) == EncodingAuto {
		return newBOMReader(r), nil
	}
	enc, err := resolveEncoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// newBOMReader selects the decoder from a leading byte order mark.
func newBOMReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, _ := br.Peek(2)
	if len(head) == 2 {
		switch {
		case head[0] == 0xFF && head[1] == 0xFE:
			return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
		case head[0] == 0xFE && head[1] == 0xFF:
			return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder())
		}
	}
	// No UTF-16 BOM: assume UTF-8. A UTF-8 BOM would otherwise leak into
	// the first line, so strip it.
	if head3, _ := br.Peek(3); len(head3) == 3 && head3[0] == 0xEF && head3[1] == 0xBB && head3[2] == 0xBF {
		br.Discard(3)
	}
	return br
}
