package rdf

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveIRI resolves a relative IRI against a base IRI according to RFC 3986.
// An empty base returns the reference unchanged.
func ResolveIRI(base, ref string) string {
	if base == "" {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return concatIRI(base, ref)
	}
	relURL, err := url.Parse(ref)
	if err != nil {
		return concatIRI(base, ref)
	}
	// Absolute references are returned as-is.
	if relURL.Scheme != "" {
		return ref
	}
	return baseURL.ResolveReference(relURL).String()
}

func concatIRI(base, ref string) string {
	if strings.HasSuffix(base, "/") || strings.HasSuffix(base, "#") {
		return base + ref
	}
	if lastSlash := strings.LastIndex(base, "/"); lastSlash >= 0 {
		return base[:lastSlash+1] + ref
	}
	return base + "/" + ref
}

// ValidateIRI performs a basic RFC 3987 shape check: parseable, a scheme that starts
// with a letter when present, no control characters and no raw angle brackets.
func ValidateIRI(iri string) error {
	if iri == "" {
		return fmt.Errorf("empty IRI")
	}
	parsed, err := url.Parse(iri)
	if err != nil {
		return fmt.Errorf("invalid IRI syntax: %w", err)
	}
	if parsed.Scheme == "" {
		if strings.HasPrefix(iri, "//") {
			return fmt.Errorf("relative IRI without scheme: %s", iri)
		}
	} else {
		first := parsed.Scheme[0]
		if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
			return fmt.Errorf("scheme must start with a letter: %s", iri)
		}
	}
	for i, r := range iri {
		if r < 0x20 {
			return fmt.Errorf("invalid control character at position %d in IRI: %s", i, iri)
		}
		if r == '<' || r == '>' {
			return fmt.Errorf("invalid character '%c' at position %d in IRI (should be percent-encoded): %s", r, i, iri)
		}
	}
	return nil
}

// ValidLangTag reports whether tag has the BCP47 shape accepted by RDF 1.2,
// including an optional "--ltr"/"--rtl" direction suffix.
func ValidLangTag(tag string) bool {
	if tag == "" {
		return false
	}
	if strings.Contains(tag, "--") {
		if strings.Count(tag, "--") > 1 {
			return false
		}
		switch {
		case strings.HasSuffix(tag, "--ltr"):
			tag = strings.TrimSuffix(tag, "--ltr")
		case strings.HasSuffix(tag, "--rtl"):
			tag = strings.TrimSuffix(tag, "--rtl")
		default:
			return false
		}
	}
	parts := strings.Split(tag, "-")
	if len(parts[0]) < 1 || len(parts[0]) > 8 {
		return false
	}
	for i, part := range parts {
		if part == "" || len(part) > 8 {
			return false
		}
		for j := 0; j < len(part); j++ {
			ch := part[j]
			alpha := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
			digit := ch >= '0' && ch <= '9'
			if i == 0 && !alpha {
				return false
			}
			if !alpha && !digit {
				return false
			}
		}
	}
	return true
}
