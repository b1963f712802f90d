package turtle

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type syntaxError struct {
	pos int
	msg string
}

func (e *syntaxError) Error() string { return e.msg }

// cursor scans a whole document. Comments met while skipping whitespace are
// queued in comments until the parser drains them.
type cursor struct {
	input    string
	pos      int
	comments []string

	// loc cache
	locPos, locLine, locCol int
}

func newCursor(input string) *cursor {
	input = strings.TrimPrefix(input, "\uFEFF")
	return &cursor{input: input, locLine: 1, locCol: 1}
}

// loc returns the 1-based line and column of byte offset pos. Columns count runes.
func (c *cursor) loc(pos int) (line, col int) {
	if pos < c.locPos {
		c.locPos, c.locLine, c.locCol = 0, 1, 1
	}
	for c.locPos < pos && c.locPos < len(c.input) {
		r, n := utf8.DecodeRuneInString(c.input[c.locPos:])
		if r == '\n' {
			c.locLine++
			c.locCol = 1
		} else {
			c.locCol++
		}
		c.locPos += n
	}
	return c.locLine, c.locCol
}

func (c *cursor) errorf(format string, args ...any) error {
	return c.errorAt(c.pos, format, args...)
}

func (c *cursor) errorAt(pos int, format string, args ...any) error {
	return &syntaxError{pos: pos, msg: fmt.Sprintf(format, args...)}
}

func (c *cursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		case '#':
			end := strings.IndexAny(c.input[c.pos:], "\r\n")
			if end < 0 {
				end = len(c.input) - c.pos
			}
			c.comments = append(c.comments, strings.TrimSpace(c.input[c.pos+1:c.pos+end]))
			c.pos += end
		default:
			return
		}
	}
}

func (c *cursor) atEOF() bool { return c.pos >= len(c.input) }

func (c *cursor) peek() byte {
	if c.pos >= len(c.input) {
		return 0
	}
	return c.input[c.pos]
}

func (c *cursor) peekAt(offset int) byte {
	if c.pos+offset >= len(c.input) {
		return 0
	}
	return c.input[c.pos+offset]
}

// peekRune returns the rune at pos+offset, or 0 past the end.
func (c *cursor) peekRune(offset int) rune {
	if c.pos+offset >= len(c.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.input[c.pos+offset:])
	return r
}

func (c *cursor) consume(ch byte) bool {
	if c.peek() == ch {
		c.pos++
		return true
	}
	return false
}

func (c *cursor) expect(ch byte) error {
	if !c.consume(ch) {
		if c.atEOF() {
			return c.errorf("expected '%c', found end of document", ch)
		}
		return c.errorf("expected '%c', found '%c'", ch, c.peekRune(0))
	}
	return nil
}

// keyword reports whether word starts at pos as a whole token and consumes it.
func (c *cursor) keyword(word string, fold bool) bool {
	end := c.pos + len(word)
	if end > len(c.input) {
		return false
	}
	got := c.input[c.pos:end]
	if got != word && !(fold && strings.EqualFold(got, word)) {
		return false
	}
	if end < len(c.input) {
		next, _ := utf8.DecodeRuneInString(c.input[end:])
		if isPNChars(next) || next == ':' {
			return false
		}
	}
	c.pos = end
	return true
}

// iriRef reads IRIREF and returns its unescaped content.
func (c *cursor) iriRef() (string, error) {
	if err := c.expect('<'); err != nil {
		return "", err
	}
	var b strings.Builder
	for {
		if c.atEOF() {
			return "", c.errorf("unterminated IRI")
		}
		ch := c.input[c.pos]
		switch {
		case ch == '>':
			c.pos++
			return b.String(), nil
		case ch == '\\':
			if next := c.peekAt(1); next != 'u' && next != 'U' {
				return "", c.errorf("invalid escape in IRI")
			}
			r, err := c.uchar()
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
		case ch <= 0x20 || strings.IndexByte("<\"{}|^`", ch) >= 0:
			return "", c.errorf("invalid character '%c' in IRI", ch)
		default:
			b.WriteByte(ch)
			c.pos++
		}
	}
}

// uchar reads \uXXXX or \UXXXXXXXX at pos.
func (c *cursor) uchar() (rune, error) {
	size := 4
	if c.peekAt(1) == 'U' {
		size = 8
	}
	start := c.pos
	if c.pos+2+size > len(c.input) {
		return 0, c.errorf("truncated unicode escape")
	}
	var r rune
	for _, h := range c.input[c.pos+2 : c.pos+2+size] {
		d, ok := hexValue(h)
		if !ok {
			return 0, c.errorAt(start, "invalid unicode escape")
		}
		r = r<<4 | d
	}
	if r > utf8.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
		return 0, c.errorAt(start, "invalid code point U+%X", r)
	}
	c.pos += 2 + size
	return r, nil
}

func hexValue(h rune) (rune, bool) {
	switch {
	case h >= '0' && h <= '9':
		return h - '0', true
	case h >= 'a' && h <= 'f':
		return h - 'a' + 10, true
	case h >= 'A' && h <= 'F':
		return h - 'A' + 10, true
	}
	return 0, false
}

// prefixName reads PN_PREFIX? ':' and returns the prefix without the colon.
func (c *cursor) prefixName() (string, error) {
	start := c.pos
	end := c.scanName(isPNCharsBase)
	if c.input[end:] == "" || c.input[end] != ':' {
		return "", c.errorf("expected prefix name")
	}
	c.pos = end + 1
	return c.input[start:end], nil
}

// scanName returns the end of a name starting at pos whose first rune satisfies
// first and whose later runes are PN_CHARS or '.', without a trailing '.'.
func (c *cursor) scanName(first func(rune) bool) int {
	i, last := c.pos, c.pos
	for i < len(c.input) {
		r, n := utf8.DecodeRuneInString(c.input[i:])
		if i == c.pos {
			if !first(r) {
				break
			}
		} else if !isPNChars(r) && r != '.' {
			break
		}
		i += n
		if r != '.' {
			last = i
		}
	}
	return last
}

// prefixedName reads PNAME_NS or PNAME_LN and returns the prefix and the
// unescaped local name.
func (c *cursor) prefixedName() (prefix, local string, err error) {
	if prefix, err = c.prefixName(); err != nil {
		return "", "", err
	}
	var b strings.Builder
	goodPos, goodLen := c.pos, 0
	for first := true; c.pos < len(c.input); first = false {
		ch := c.input[c.pos]
		switch {
		case ch == '\\':
			if !isLocalEscape(c.peekAt(1)) {
				return "", "", c.errorf("invalid escape in local name")
			}
			b.WriteByte(c.input[c.pos+1])
			c.pos += 2
		case ch == '%':
			if _, ok := hexValue(rune(c.peekAt(1))); !ok {
				return "", "", c.errorf("invalid percent escape in local name")
			}
			if _, ok := hexValue(rune(c.peekAt(2))); !ok {
				return "", "", c.errorf("invalid percent escape in local name")
			}
			b.WriteString(c.input[c.pos : c.pos+3])
			c.pos += 3
		default:
			r, n := utf8.DecodeRuneInString(c.input[c.pos:])
			ok := isPNChars(r) || r == ':' || (!first && r == '.')
			if first {
				ok = isPNCharsU(r) || isDigit(r) || r == ':'
			}
			if !ok {
				c.pos, local = goodPos, b.String()[:goodLen]
				return prefix, local, nil
			}
			b.WriteString(c.input[c.pos : c.pos+n])
			c.pos += n
			if r == '.' {
				continue
			}
		}
		goodPos, goodLen = c.pos, b.Len()
	}
	c.pos = goodPos
	return prefix, b.String()[:goodLen], nil
}

// blankLabel reads BLANK_NODE_LABEL and returns the label without "_:".
func (c *cursor) blankLabel() (string, error) {
	if !strings.HasPrefix(c.input[c.pos:], "_:") {
		return "", c.errorf("expected blank node label")
	}
	c.pos += 2
	start := c.pos
	end := c.scanName(func(r rune) bool { return isPNCharsU(r) || isDigit(r) })
	if end == start {
		return "", c.errorf("empty blank node label")
	}
	c.pos = end
	return c.input[start:end], nil
}

// quotedString reads any of the four string forms and returns the unescaped body.
func (c *cursor) quotedString() (string, error) {
	q := c.peek()
	start := c.pos
	delim := string(q)
	long := strings.HasPrefix(c.input[c.pos:], strings.Repeat(delim, 3))
	if long {
		delim = strings.Repeat(delim, 3)
	}
	c.pos += len(delim)
	var b strings.Builder
	for {
		if c.atEOF() {
			return "", c.errorAt(start, "unterminated string")
		}
		ch := c.input[c.pos]
		switch {
		case ch == q && strings.HasPrefix(c.input[c.pos:], delim):
			c.pos += len(delim)
			return b.String(), nil
		case !long && (ch == '\n' || ch == '\r'):
			return "", c.errorf("line break in string")
		case ch == '\\':
			r, err := c.echar()
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
		default:
			b.WriteByte(ch)
			c.pos++
		}
	}
}

func (c *cursor) echar() (rune, error) {
	next := c.peekAt(1)
	if next == 'u' || next == 'U' {
		return c.uchar()
	}
	var r rune
	switch next {
	case 't':
		r = '\t'
	case 'b':
		r = '\b'
	case 'n':
		r = '\n'
	case 'r':
		r = '\r'
	case 'f':
		r = '\f'
	case '"', '\'', '\\':
		r = rune(next)
	default:
		return 0, c.errorf("invalid escape sequence")
	}
	c.pos += 2
	return r, nil
}

// langTag reads '@' LANGTAG and returns the tag.
func (c *cursor) langTag() (string, error) {
	c.pos++
	start := c.pos
	for c.pos < len(c.input) && isASCIILetter(c.input[c.pos]) {
		c.pos++
	}
	if c.pos == start {
		return "", c.errorf("empty language tag")
	}
	for c.peek() == '-' && isASCIIAlnum(c.peekAt(1)) {
		c.pos++
		for c.pos < len(c.input) && isASCIIAlnum(c.input[c.pos]) {
			c.pos++
		}
	}
	return c.input[start:c.pos], nil
}

// number reads INTEGER, DECIMAL or DOUBLE and returns its lexical form and datatype.
func (c *cursor) number() (lexical, datatype string, ok bool) {
	s, i := c.input, c.pos
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intStart := i
	i = skipDigits(s, i)
	digits := i > intStart
	datatype = xsdInteger
	if i < len(s) && s[i] == '.' {
		if j := skipDigits(s, i+1); j > i+1 {
			i, digits, datatype = j, true, xsdDecimal
		} else if digits {
			if e, ok := exponent(s, i+1); ok {
				i = e
				datatype = xsdDouble
				lexical, c.pos = s[c.pos:i], i
				return lexical, datatype, true
			}
		}
	}
	if !digits {
		return "", "", false
	}
	if e, ok := exponent(s, i); ok {
		i, datatype = e, xsdDouble
	}
	lexical, c.pos = s[c.pos:i], i
	return lexical, datatype, true
}

func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

func exponent(s string, i int) (int, bool) {
	if i >= len(s) || (s[i] != 'e' && s[i] != 'E') {
		return i, false
	}
	j := i + 1
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	end := skipDigits(s, j)
	return end, end > j
}

func isASCIILetter(ch byte) bool { return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' }

func isASCIIAlnum(ch byte) bool { return isASCIILetter(ch) || ch >= '0' && ch <= '9' }
