package yars

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

const eof rune = -1

// scanner reads runes with one rune of lookahead and tracks the position of
// the next rune.
type scanner struct {
	r      *bufio.Reader
	line   int
	col    int
	peeked bool
	next   rune
	err    error
}

func newScanner(r io.Reader) *scanner {
	return &scanner{r: bufio.NewReader(r), line: 1, col: 1}
}

type syntaxError struct {
	line, col int
	msg       string
}

func (e *syntaxError) Error() string { return e.msg }

func (s *scanner) errorf(format string, args ...any) error {
	if s.err != nil {
		return s.err
	}
	return &syntaxError{line: s.line, col: s.col, msg: fmt.Sprintf(format, args...)}
}

func (s *scanner) peek() rune {
	if s.peeked {
		return s.next
	}
	r, _, err := s.r.ReadRune()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		r = eof
	}
	s.next, s.peeked = r, true
	return r
}

func (s *scanner) read() rune {
	r := s.peek()
	s.peeked = false
	switch r {
	case eof:
	case '\n':
		s.line++
		s.col = 1
	default:
		s.col++
	}
	return r
}

func (s *scanner) expect(want rune) error {
	if got := s.peek(); got != want {
		return s.errorf("expected %q, found %s", want, describe(got))
	}
	s.read()
	return nil
}

func (s *scanner) expectString(want string) error {
	for _, r := range want {
		if err := s.expect(r); err != nil {
			return err
		}
	}
	return nil
}

// skipSpace skips whitespace on the current line only.
func (s *scanner) skipSpace() {
	for r := s.peek(); r == ' ' || r == '\t' || r == '\r'; r = s.peek() {
		s.read()
	}
}

// skipTrivia skips whitespace, newlines and comments. Comment text is passed
// to onComment.
func (s *scanner) skipTrivia(onComment func(string) error) error {
	for {
		switch r := s.peek(); {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			s.read()
		case r == '#':
			s.read()
			text := s.restOfLine()
			if err := onComment(strings.TrimSpace(text)); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// restOfLine consumes up to and including the next newline and returns the text before it.
func (s *scanner) restOfLine() string {
	var b strings.Builder
	for r := s.peek(); r != eof && r != '\n'; r = s.peek() {
		b.WriteRune(s.read())
	}
	s.read()
	return b.String()
}

func (s *scanner) name() (string, error) {
	if !isNameStart(s.peek()) {
		return "", s.errorf("expected name, found %s", describe(s.peek()))
	}
	var b strings.Builder
	for isNameChar(s.peek()) {
		b.WriteRune(s.read())
	}
	return b.String(), nil
}

func (s *scanner) iriRef() (string, error) {
	if err := s.expect('<'); err != nil {
		return "", err
	}
	var b strings.Builder
	for {
		switch r := s.peek(); r {
		case '>':
			s.read()
			return b.String(), nil
		case eof, '\n', ' ', '<':
			return "", s.errorf("unterminated IRI")
		case '\\':
			s.read()
			r, err := s.uchar()
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
		default:
			b.WriteRune(s.read())
		}
	}
}

// uchar reads the rest of a \uXXXX or \UXXXXXXXX escape.
func (s *scanner) uchar() (rune, error) {
	width := 0
	switch s.read() {
	case 'u':
		width = 4
	case 'U':
		width = 8
	default:
		return 0, s.errorf("invalid escape in IRI")
	}
	var r rune
	for range width {
		d := s.read()
		switch {
		case d >= '0' && d <= '9':
			r = r*16 + d - '0'
		case d >= 'a' && d <= 'f':
			r = r*16 + d - 'a' + 10
		case d >= 'A' && d <= 'F':
			r = r*16 + d - 'A' + 10
		default:
			return 0, s.errorf("invalid unicode escape in IRI")
		}
	}
	if r > unicode.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
		return 0, s.errorf("invalid code point in IRI escape")
	}
	return r, nil
}

func (s *scanner) quoted() (string, error) {
	quote := s.read()
	var b strings.Builder
	for {
		r := s.read()
		switch r {
		case eof, '\n':
			return "", s.errorf("unterminated string")
		case quote:
			return b.String(), nil
		case '\\':
			esc := s.read()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '\'', '"':
				b.WriteRune(esc)
			default:
				return "", s.errorf("invalid escape \\%s", string(esc))
			}
		default:
			b.WriteRune(r)
		}
	}
}

func (s *scanner) langTag() string {
	var b strings.Builder
	for r := s.peek(); isAlnum(r) || r == '-'; r = s.peek() {
		b.WriteRune(s.read())
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isNameStart(r rune) bool { return isAlnum(r) || r == '_' }

func isNameChar(r rune) bool { return isNameStart(r) || r == '-' }

// IsName reports whether s can be written as a bare NAME.
func IsName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isNameStart(r) || !isNameChar(r) {
			return false
		}
	}
	return true
}

func describe(r rune) string {
	if r == eof {
		return "end of input"
	}
	return fmt.Sprintf("%q", r)
}
