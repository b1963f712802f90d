package ntriples

import (
	"errors"

	"github.com/lszeremeta/sesame-rio-api/rio"
)

// DefaultMaxLineBytes bounds a single input line.
const DefaultMaxLineBytes = 1 << 20

var (
	// FailOnInvalidLines is the error condition for lines that are not a valid
	// statement. When tolerated the line is skipped.
	FailOnInvalidLines = rio.NewSetting("org.openrdf.rio.failonntriplesinvalidlines",
		"Stop parsing at the first invalid line", true)

	// MaxLineBytes limits the length of one line.
	MaxLineBytes = rio.NewValidatedSetting("org.openrdf.rio.ntriples.maxlinebytes",
		"Maximum accepted line length in bytes", DefaultMaxLineBytes, func(v int) error {
			if v <= 0 {
				return errors.New("line limit must be positive")
			}
			return nil
		})

	// EscapeUnicode makes the writer emit only ASCII, escaping everything else
	// as \uXXXX or \UXXXXXXXX.
	EscapeUnicode = rio.NewSetting("org.openrdf.rio.ntriples.escapeunicode",
		"Escape non-ASCII characters in output", false)
)
