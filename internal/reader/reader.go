// Package reader loads the raw sales feed from disk. Legacy exports of
// the feed arrive in a mix of UTF-8 and single-byte Windows encodings, so
// the reader tries a configured list of encodings in order until one
// decodes cleanly.
package reader

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncodings is the fallback order used when the config does not
// override it.
var DefaultEncodings = []string{"utf-8", "latin-1", "cp1252"}

// ReadSalesData reads the file at path, decoding it with the first
// encoding in encodings that succeeds, then strips the header line and
// blank lines. It returns the remaining raw lines.
//
// A missing file or a file no encoding can decode is an error; the caller
// decides whether to degrade to an empty dataset.
func ReadSalesData(path string, encodings []string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ReadSalesData: %w", err)
	}

	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}

	text, err := decode(data, encodings)
	if err != nil {
		return nil, fmt.Errorf("ReadSalesData: %w", err)
	}

	return splitLines(text), nil
}

// decode tries each encoding in order and returns the first successful
// decoding of data.
func decode(data []byte, encodings []string) (string, error) {
	for _, name := range encodings {
		enc, err := lookupEncoding(name)
		if err != nil {
			return "", err
		}

		// UTF-8 needs an explicit validity check: the decoder would
		// otherwise substitute replacement runes instead of failing,
		// and the fallback encodings would never be tried.
		if enc == nil {
			if utf8.Valid(data) {
				return string(data), nil
			}
			continue
		}

		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		return string(decoded), nil
	}
	return "", fmt.Errorf("no supported encoding could decode the file (tried %s)", strings.Join(encodings, ", "))
}

// lookupEncoding maps a config name to a decoder. A nil encoding with a
// nil error means UTF-8, which is handled by validation rather than a
// transforming decoder.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return nil, nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "cp1252", "windows-1252":
		return charmap.Windows1252, nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// splitLines drops the header (first line) and any blank lines, returning
// the trimmed data lines in file order.
func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(raw) > 0 {
		raw = raw[1:] // header
	}

	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
