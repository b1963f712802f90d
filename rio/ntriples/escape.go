package ntriples

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	surrogateHighStart = 0xD800
	surrogateHighEnd   = 0xDBFF
	surrogateLowStart  = 0xDC00
	surrogateLowEnd    = 0xDFFF
)

// unescape decodes ECHAR and UCHAR escapes.
func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for pos := 0; pos < len(s); {
		ch := s[pos]
		if ch != '\\' {
			b.WriteByte(ch)
			pos++
			continue
		}
		if pos+1 >= len(s) {
			return "", fmt.Errorf("unterminated escape")
		}
		switch next := s[pos+1]; next {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '"', '\'', '\\':
			b.WriteByte(next)
		case 'u', 'U':
			width := 4
			if next == 'U' {
				width = 8
			}
			r, n, err := decodeUChar(s, pos, width)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			pos += n
			continue
		default:
			return "", fmt.Errorf("invalid escape sequence \\%c", next)
		}
		pos += 2
	}
	return b.String(), nil
}

func decodeUChar(s string, pos, width int) (rune, int, error) {
	if pos+2+width > len(s) {
		return 0, 0, fmt.Errorf("truncated unicode escape")
	}
	r, ok := hexValue(s[pos+2 : pos+2+width])
	if !ok {
		return 0, 0, fmt.Errorf("invalid unicode escape")
	}
	n := 2 + width
	if width == 4 && r >= surrogateHighStart && r <= surrogateHighEnd {
		if pos+n+6 > len(s) || s[pos+n] != '\\' || s[pos+n+1] != 'u' {
			return 0, 0, fmt.Errorf("unpaired surrogate in unicode escape")
		}
		low, ok := hexValue(s[pos+n+2 : pos+n+6])
		if !ok || low < surrogateLowStart || low > surrogateLowEnd {
			return 0, 0, fmt.Errorf("invalid low surrogate in unicode escape")
		}
		r = 0x10000 + (r-surrogateHighStart)<<10 + (low - surrogateLowStart)
		n += 6
	}
	if !utf8.ValidRune(r) {
		return 0, 0, fmt.Errorf("invalid code point U+%X", r)
	}
	return r, n, nil
}

func hexValue(hex string) (rune, bool) {
	var r rune
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		switch {
		case c >= '0' && c <= '9':
			r = r*16 + rune(c-'0')
		case c >= 'a' && c <= 'f':
			r = r*16 + rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			r = r*16 + rune(c-'A') + 10
		default:
			return 0, false
		}
	}
	return r, true
}

// escapeString writes s as the body of a quoted literal.
func escapeString(b *strings.Builder, s string, asciiOnly bool) {
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			writeRune(b, r, asciiOnly)
		}
	}
}

// escapeIRI writes an IRI body, escaping characters that IRIREF forbids.
func escapeIRI(b *strings.Builder, s string, asciiOnly bool) {
	for _, r := range s {
		switch {
		case r <= 0x20, r == '<', r == '>', r == '"', r == '{', r == '}', r == '|', r == '^', r == '`', r == '\\':
			fmt.Fprintf(b, `\u%04X`, r)
		default:
			writeRune(b, r, asciiOnly)
		}
	}
}

func writeRune(b *strings.Builder, r rune, asciiOnly bool) {
	switch {
	case r < 0x20 || r == 0x7F:
		fmt.Fprintf(b, `\u%04X`, r)
	case r < 0x80 || !asciiOnly:
		b.WriteRune(r)
	case r <= 0xFFFF:
		fmt.Fprintf(b, `\u%04X`, r)
	default:
		fmt.Fprintf(b, `\U%08X`, r)
	}
}
