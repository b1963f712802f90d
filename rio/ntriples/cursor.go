package ntriples

import (
	"fmt"
	"strings"
)

type tokenKind uint8

const (
	tokenIRI tokenKind = iota + 1
	tokenBlank
	tokenLiteral
)

// token is one term as written in the input, before value construction.
type token struct {
	kind     tokenKind
	value    string // IRI, blank node label or unescaped lexical form
	lang     string
	datatype string
	col      int
}

type syntaxError struct {
	col int
	msg string
}

func (e *syntaxError) Error() string { return e.msg }

// cursor scans one line.
type cursor struct {
	input string
	pos   int
}

func (c *cursor) errorf(format string, args ...any) error {
	return &syntaxError{col: c.pos + 1, msg: fmt.Sprintf(format, args...)}
}

func (c *cursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *cursor) atEnd() bool {
	c.skipWS()
	return c.pos >= len(c.input)
}

func (c *cursor) peek() byte {
	if c.pos >= len(c.input) {
		return 0
	}
	return c.input[c.pos]
}

func (c *cursor) consume(ch byte) bool {
	c.skipWS()
	if c.peek() == ch {
		c.pos++
		return true
	}
	return false
}

// term scans an IRI, blank node or, when allowLiteral is set, a literal.
func (c *cursor) term(allowLiteral bool) (token, error) {
	c.skipWS()
	switch {
	case c.pos >= len(c.input):
		return token{}, c.errorf("unexpected end of line")
	case c.peek() == '<':
		return c.iri()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.blank()
	case c.peek() == '"':
		if !allowLiteral {
			return token{}, c.errorf("literal not allowed here")
		}
		return c.literal()
	default:
		return token{}, c.errorf("unexpected character %q", c.peek())
	}
}

func (c *cursor) iri() (token, error) {
	c.skipWS()
	col := c.pos + 1
	if !c.consume('<') {
		return token{}, c.errorf("expected IRI")
	}
	start := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != '>' {
		switch c.input[c.pos] {
		case ' ', '<', '"', '{', '}', '|', '^', '`':
			return token{}, c.errorf("invalid character %q in IRI", c.input[c.pos])
		}
		c.pos++
	}
	if c.pos >= len(c.input) {
		return token{}, c.errorf("unterminated IRI")
	}
	raw := c.input[start:c.pos]
	c.pos++
	value, err := unescape(raw)
	if err != nil {
		return token{}, &syntaxError{col: col, msg: err.Error()}
	}
	return token{kind: tokenIRI, value: value, col: col}, nil
}

func (c *cursor) blank() (token, error) {
	col := c.pos + 1
	c.pos += 2
	start := c.pos
	for c.pos < len(c.input) && !isLabelEnd(c.input[c.pos]) {
		c.pos++
	}
	// a trailing '.' belongs to the statement terminator
	for c.pos > start && c.input[c.pos-1] == '.' {
		c.pos--
	}
	if start == c.pos {
		return token{}, c.errorf("blank node label missing")
	}
	return token{kind: tokenBlank, value: c.input[start:c.pos], col: col}, nil
}

func (c *cursor) literal() (token, error) {
	col := c.pos + 1
	c.pos++
	start := c.pos
	for {
		if c.pos >= len(c.input) {
			return token{}, c.errorf("unterminated literal")
		}
		ch := c.input[c.pos]
		if ch == '\\' {
			c.pos += 2
			continue
		}
		if ch == '"' {
			break
		}
		c.pos++
	}
	lexical, err := unescape(c.input[start:c.pos])
	if err != nil {
		return token{}, &syntaxError{col: col, msg: err.Error()}
	}
	c.pos++
	tok := token{kind: tokenLiteral, value: lexical, col: col}
	switch {
	case c.peek() == '@':
		c.pos++
		langStart := c.pos
		for c.pos < len(c.input) && !isLangEnd(c.input[c.pos]) {
			c.pos++
		}
		if langStart == c.pos {
			return token{}, c.errorf("language tag missing")
		}
		tok.lang = c.input[langStart:c.pos]
	case strings.HasPrefix(c.input[c.pos:], "^^"):
		c.pos += 2
		dt, err := c.iri()
		if err != nil {
			return token{}, err
		}
		tok.datatype = dt.value
	}
	return tok, nil
}

func isLabelEnd(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '<', '"':
		return true
	}
	return false
}

func isLangEnd(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '.', '<', '_':
		return true
	}
	return false
}
