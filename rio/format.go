package rio

import (
	"strings"
)

// Format describes one RDF serialization: its name, MIME types, file extensions,
// charset and capabilities. Formats are immutable and compare by name.
type Format struct {
	name               string
	mimeTypes          []string
	charset            string
	fileExtensions     []string
	supportsNamespaces bool
	supportsContexts   bool
}

// Capability flags for NewFormat and NewSimpleFormat.
const (
	SupportsNamespaces = true
	NoNamespaces       = false
	SupportsContexts   = true
	NoContexts         = false
)

// NewFormat builds a format from ordered MIME type and extension lists. The first
// element of each list is the default. The slices are copied.
func NewFormat(name string, mimeTypes []string, charset string, fileExtensions []string, supportsNamespaces, supportsContexts bool) Format {
	return Format{
		name:               name,
		mimeTypes:          cloneStrings(mimeTypes),
		charset:            charset,
		fileExtensions:     normalizeExtensions(fileExtensions),
		supportsNamespaces: supportsNamespaces,
		supportsContexts:   supportsContexts,
	}
}

// NewSimpleFormat builds a format with a single MIME type and file extension. An
// empty value yields an empty list.
func NewSimpleFormat(name, mimeType, charset, fileExtension string, supportsNamespaces, supportsContexts bool) Format {
	return NewFormat(name, single(mimeType), charset, single(fileExtension), supportsNamespaces, supportsContexts)
}

func single(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func normalizeExtensions(in []string) []string {
	out := cloneStrings(in)
	for i, ext := range out {
		out[i] = strings.TrimPrefix(ext, ".")
	}
	return out
}

// Name returns the canonical, case-sensitive format name.
func (f Format) Name() string { return f.name }

// MIMETypes returns all MIME types, default first.
func (f Format) MIMETypes() []string { return cloneStrings(f.mimeTypes) }

// DefaultMIMEType returns the preferred MIME type, or "" if there is none.
func (f Format) DefaultMIMEType() string {
	if len(f.mimeTypes) == 0 {
		return ""
	}
	return f.mimeTypes[0]
}

// HasMIMEType reports whether mimeType (parameters ignored) belongs to the format.
func (f Format) HasMIMEType(mimeType string) bool {
	mimeType = normalizeMIMEType(mimeType)
	for _, m := range f.mimeTypes {
		if strings.EqualFold(m, mimeType) {
			return true
		}
	}
	return false
}

// FileExtensions returns all file extensions without the leading dot, default first.
func (f Format) FileExtensions() []string { return cloneStrings(f.fileExtensions) }

// DefaultFileExtension returns the preferred extension, or "" if there is none.
func (f Format) DefaultFileExtension() string {
	if len(f.fileExtensions) == 0 {
		return ""
	}
	return f.fileExtensions[0]
}

// HasFileExtension reports whether ext (with or without a leading dot) belongs to the format.
func (f Format) HasFileExtension(ext string) bool {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	for _, e := range f.fileExtensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// Charset returns the canonical charset name, or "" for formats without a fixed encoding.
func (f Format) Charset() string { return f.charset }

// HasCharset reports whether the format declares a charset.
func (f Format) HasCharset() bool { return f.charset != "" }

// SupportsNamespaces reports whether the format can carry namespace declarations.
func (f Format) SupportsNamespaces() bool { return f.supportsNamespaces }

// SupportsContexts reports whether the format can tag statements with a context.
func (f Format) SupportsContexts() bool { return f.supportsContexts }

// IsZero reports whether f is the zero Format, used for "no format".
func (f Format) IsZero() bool { return f.name == "" }

// Equal compares formats by name.
func (f Format) Equal(o Format) bool { return f.name == o.name }

func (f Format) String() string {
	var b strings.Builder
	b.WriteString(f.name)
	b.WriteString(" (mimeTypes=")
	b.WriteString(strings.Join(f.mimeTypes, ", "))
	b.WriteString("; ext=")
	b.WriteString(strings.Join(f.fileExtensions, ", "))
	b.WriteByte(')')
	return b.String()
}

// Built-in formats.
var (
	RDFXML = NewFormat("RDF/XML", []string{"application/rdf+xml", "application/xml"}, "UTF-8",
		[]string{"rdf", "rdfs", "owl", "xml"}, SupportsNamespaces, NoContexts)

	NTriples = NewSimpleFormat("N-Triples", "text/plain", "US-ASCII", "nt", NoNamespaces, NoContexts)

	Turtle = NewFormat("Turtle", []string{"text/turtle", "application/x-turtle"}, "UTF-8",
		[]string{"ttl"}, SupportsNamespaces, NoContexts)

	YARS = NewFormat("YARS", []string{"text/yarsc", "application/x-yarsc"}, "UTF-8",
		[]string{"yarsc"}, NoNamespaces, NoContexts)

	N3 = NewFormat("N3", []string{"text/n3", "text/rdf+n3"}, "UTF-8",
		[]string{"n3"}, SupportsNamespaces, NoContexts)

	TriX = NewFormat("TriX", []string{"application/trix"}, "UTF-8",
		[]string{"xml", "trix"}, SupportsNamespaces, SupportsContexts)

	TriG = NewSimpleFormat("TriG", "application/x-trig", "UTF-8", "trig", SupportsNamespaces, SupportsContexts)

	BinaryRDF = NewSimpleFormat("BinaryRDF", "application/x-binary-rdf", "", "brf", SupportsNamespaces, SupportsContexts)

	NQuads = NewSimpleFormat("N-Quads", "text/x-nquads", "US-ASCII", "nq", NoNamespaces, SupportsContexts)

	JSONLD = NewSimpleFormat("JSON-LD", "application/ld+json", "UTF-8", "jsonld", SupportsNamespaces, SupportsContexts)

	RDFJSON = NewSimpleFormat("RDF/JSON", "application/rdf+json", "UTF-8", "rj", NoNamespaces, SupportsContexts)

	RDFa = NewFormat("RDFa", []string{"application/xhtml+xml", "application/html", "text/html"}, "UTF-8",
		[]string{"xhtml", "html"}, SupportsNamespaces, NoContexts)
)

var knownFormats = []Format{RDFXML, NTriples, Turtle, N3, TriX, TriG, BinaryRDF, NQuads, JSONLD, RDFJSON, RDFa, YARS}

// KnownFormats returns the built-in formats in declaration order.
func KnownFormats() []Format {
	out := make([]Format, len(knownFormats))
	copy(out, knownFormats)
	return out
}

// FormatByName looks up a built-in format by name, ignoring case.
func FormatByName(name string) (Format, bool) {
	name = strings.TrimSpace(name)
	for _, f := range knownFormats {
		if strings.EqualFold(f.name, name) {
			return f, true
		}
	}
	return Format{}, false
}

// FormatForMIMEType matches mimeType against the built-in formats.
func FormatForMIMEType(mimeType string, fallback Format) (Format, bool) {
	return MatchMIMEType(mimeType, knownFormats, fallback)
}

// FormatForFileName matches the extension of fileName against the built-in formats.
func FormatForFileName(fileName string, fallback Format) (Format, bool) {
	return MatchFileName(fileName, knownFormats, fallback)
}
