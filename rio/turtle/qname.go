package turtle

import (
	"strings"
	"unicode/utf8"
)

// abbreviate returns the prefixed name for iri using the longest matching
// namespace whose remainder is a valid local name.
func abbreviate(iri string, prefixes map[string]string) (string, bool) {
	bestNS, bestPrefix, found := "", "", false
	for prefix, ns := range prefixes {
		if ns == "" || !strings.HasPrefix(iri, ns) || !isLocalName(iri[len(ns):]) {
			continue
		}
		if !found || len(ns) > len(bestNS) || (len(ns) == len(bestNS) && prefix < bestPrefix) {
			bestNS, bestPrefix, found = ns, prefix, true
		}
	}
	if !found {
		return "", false
	}
	return bestPrefix + ":" + iri[len(bestNS):], true
}

// isLocalName reports whether value can be written as PN_LOCAL without
// escapes. The empty local name is valid ("ex:").
func isLocalName(value string) bool {
	if value == "" {
		return true
	}
	for i, r := range value {
		if i == 0 {
			if !isPNCharsU(r) && !isDigit(r) && r != ':' {
				return false
			}
		} else if !isPNChars(r) && r != '.' && r != ':' {
			return false
		}
	}
	return !strings.HasSuffix(value, ".")
}

// isPrefixName reports whether prefix can be declared with @prefix.
func isPrefixName(prefix string) bool {
	if prefix == "" {
		return true
	}
	first, _ := utf8.DecodeRuneInString(prefix)
	if !isPNCharsBase(first) {
		return false
	}
	for _, r := range prefix {
		if !isPNChars(r) && r != '.' {
			return false
		}
	}
	return !strings.HasSuffix(prefix, ".")
}

// isBlankLabel reports whether id can be written as BLANK_NODE_LABEL.
func isBlankLabel(id string) bool {
	if id == "" {
		return false
	}
	for i, r := range id {
		if i == 0 {
			if !isPNCharsU(r) && !isDigit(r) {
				return false
			}
		} else if !isPNChars(r) && r != '.' {
			return false
		}
	}
	return !strings.HasSuffix(id, ".")
}

func isPNCharsBase(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return true
	case r >= 0xC0 && r <= 0xD6, r >= 0xD8 && r <= 0xF6, r >= 0xF8 && r <= 0x2FF:
		return true
	case r >= 0x370 && r <= 0x37D, r >= 0x37F && r <= 0x1FFF, r >= 0x200C && r <= 0x200D:
		return true
	case r >= 0x2070 && r <= 0x218F, r >= 0x2C00 && r <= 0x2FEF, r >= 0x3001 && r <= 0xD7FF:
		return true
	case r >= 0xF900 && r <= 0xFDCF, r >= 0xFDF0 && r <= 0xFFFD, r >= 0x10000 && r <= 0xEFFFF:
		return true
	}
	return false
}

func isPNCharsU(r rune) bool { return isPNCharsBase(r) || r == '_' }

func isPNChars(r rune) bool {
	return isPNCharsU(r) || isDigit(r) || r == '-' || r == 0xB7 ||
		(r >= 0x300 && r <= 0x36F) || (r >= 0x203F && r <= 0x2040)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// isLocalEscape reports whether ch may follow '\' in a local name.
func isLocalEscape(ch byte) bool {
	return strings.IndexByte("_~.-!$&'()*+,;=/?#@%", ch) >= 0
}
