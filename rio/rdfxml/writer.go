package rdfxml

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
)

// Writer emits RDF/XML. Namespaces must be declared before the first statement
// and become xmlns attributes of rdf:RDF. Predicates outside every declared
// namespace get an ns<N> prefix declared on the property element. With
// PrettyPrint, consecutive statements about one subject share an indented
// rdf:Description; otherwise each statement is one line. Contexts are dropped.
type Writer struct {
	rio.WriterBase
	out      *bufio.Writer
	prefixes map[string]string
	nsToPref map[string]string
	autoSeq  int
	header   bool
	labels   *rio.BNodeLabels

	subject rdf.Term
	open    bool
}

// NewWriter returns an RDF/XML writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		WriterBase: rio.NewWriterBase(rio.RDFXML, false),
		out:        bufio.NewWriter(w),
		prefixes:   map[string]string{},
		nsToPref:   map[string]string{},
	}
}

// NewWriterFactory returns the RDF/XML writer factory.
func NewWriterFactory() rio.WriterFactory {
	return rio.NewWriterFactory(rio.RDFXML, func(w io.Writer) rio.Writer { return NewWriter(w) })
}

func (w *Writer) StartRDF() error {
	if err := w.BeginDocument(); err != nil {
		return err
	}
	w.labels = rio.NewBNodeLabels(isNCName)
	return nil
}

func (w *Writer) HandleNamespace(prefix, name string) error {
	if err := w.BeginNamespace(); err != nil {
		return err
	}
	if prefix == "rdf" || prefix == "" || !isNCName(prefix) || strings.HasPrefix(strings.ToLower(prefix), "xml") {
		rio.Logger().Debug().Str("prefix", prefix).Msg("rdfxml: skipping namespace prefix")
		return nil
	}
	if old, ok := w.prefixes[prefix]; ok {
		delete(w.nsToPref, old)
	}
	w.prefixes[prefix] = name
	if _, ok := w.nsToPref[name]; !ok {
		w.nsToPref[name] = prefix
	}
	return nil
}

func (w *Writer) HandleStatement(st rdf.Statement) error {
	if err := w.BeginStatement(); err != nil {
		return err
	}
	if st.Subject == nil || st.Predicate.Value == "" || st.Object == nil {
		return rio.HandlerErrorf("%s: incomplete statement %s", w.Format().Name(), st)
	}
	qname, decl, err := w.predicateQName(st.Predicate.Value)
	if err != nil {
		return err
	}
	subject, err := w.subjectAttr(st.Subject)
	if err != nil {
		return err
	}
	if err := w.writeHeader(); err != nil {
		return err
	}

	var b strings.Builder
	pretty := w.PrettyPrint()
	indent := ""
	if pretty {
		indent = "  "
		if !w.open || !rdf.TermsEqual(w.subject, st.Subject) {
			w.closeDescription(&b)
			b.WriteString("\n<rdf:Description " + subject + ">\n")
			w.subject, w.open = st.Subject, true
		}
	} else {
		b.WriteString("<rdf:Description " + subject + ">")
	}
	b.WriteString(indent + "<" + qname + decl)
	switch o := st.Object.(type) {
	case rdf.IRI:
		b.WriteString(` rdf:resource="` + escapeXML(o.Value) + `"/>`)
	case rdf.BlankNode:
		b.WriteString(` rdf:nodeID="` + w.labels.Label(o.ID) + `"/>`)
	case rdf.Literal:
		switch {
		case o.Lang != "":
			b.WriteString(` xml:lang="` + escapeXML(o.Lang) + `"`)
		case o.Datatype.Value != "":
			b.WriteString(` rdf:datatype="` + escapeXML(o.Datatype.Value) + `"`)
		}
		b.WriteString(">" + escapeText(o.Lexical) + "</" + qname + ">")
	default:
		return rio.HandlerErrorf("%s: unsupported object %s", w.Format().Name(), st.Object)
	}
	if pretty {
		b.WriteByte('\n')
	} else {
		b.WriteString("</rdf:Description>\n")
	}
	return w.write(b.String())
}

func (w *Writer) HandleComment(text string) error {
	if err := w.BeginComment(); err != nil {
		return err
	}
	if err := w.writeHeader(); err != nil {
		return err
	}
	var b strings.Builder
	w.closeDescription(&b)
	b.WriteString("<!-- " + strings.ReplaceAll(text, "--", "- -") + " -->\n")
	return w.write(b.String())
}

func (w *Writer) EndRDF() error {
	if err := w.FinishDocument(); err != nil {
		return err
	}
	if err := w.writeHeader(); err != nil {
		return err
	}
	var b strings.Builder
	if w.closeDescription(&b) {
		b.WriteByte('\n')
	}
	b.WriteString("</rdf:RDF>\n")
	if err := w.write(b.String()); err != nil {
		return err
	}
	return rio.IOError(w.Format().Name(), w.out.Flush())
}

func (w *Writer) closeDescription(b *strings.Builder) bool {
	if !w.open {
		return false
	}
	w.open = false
	b.WriteString("</rdf:Description>\n")
	return true
}

func (w *Writer) writeHeader() error {
	if w.header {
		return nil
	}
	w.header = true
	keys := make([]string, 0, len(w.prefixes))
	for key := range w.prefixes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rdf:RDF xmlns:rdf="` + rdfNS + `"`)
	for _, prefix := range keys {
		b.WriteString(` xmlns:` + prefix + `="` + escapeXML(w.prefixes[prefix]) + `"`)
	}
	b.WriteString(">\n")
	return w.write(b.String())
}

func (w *Writer) subjectAttr(t rdf.Term) (string, error) {
	switch v := t.(type) {
	case rdf.IRI:
		return `rdf:about="` + escapeXML(v.Value) + `"`, nil
	case rdf.BlankNode:
		return `rdf:nodeID="` + w.labels.Label(v.ID) + `"`, nil
	}
	return "", rio.HandlerErrorf("%s: unsupported subject %s", w.Format().Name(), t)
}

// predicateQName returns the element name for iri and, for a namespace not
// declared on the root, the xmlns attribute to put on the element.
func (w *Writer) predicateQName(iri string) (string, string, error) {
	ns, local, ok := splitIRIForQName(iri)
	if !ok {
		return "", "", rio.HandlerErrorf("%s: cannot write predicate %s as an XML name", w.Format().Name(), iri)
	}
	if ns == rdfNS {
		return "rdf:" + local, "", nil
	}
	if prefix, ok := w.nsToPref[ns]; ok && w.prefixes[prefix] == ns {
		return prefix + ":" + local, "", nil
	}
	prefix, ok := w.nsToPref[ns]
	if !ok {
		for {
			prefix = fmt.Sprintf("ns%d", w.autoSeq)
			w.autoSeq++
			if _, taken := w.prefixes[prefix]; !taken {
				break
			}
		}
		w.nsToPref[ns] = prefix
	}
	return prefix + ":" + local, ` xmlns:` + prefix + `="` + escapeXML(ns) + `"`, nil
}

// splitIRIForQName splits iri before its longest suffix that is an NCName.
func splitIRIForQName(iri string) (string, string, bool) {
	runes := []rune(iri)
	start := len(runes)
	for start > 0 && isNCNameChar(runes[start-1]) {
		start--
	}
	for start < len(runes) && !isNCNameStart(runes[start]) {
		start++
	}
	if start == 0 || start >= len(runes) {
		return "", "", false
	}
	return string(runes[:start]), string(runes[start:]), true
}

func isNCName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isNCNameStart(r) || !isNCNameChar(r) {
			return false
		}
	}
	return true
}

func isNCNameStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isNCNameChar(r rune) bool {
	return isNCNameStart(r) || unicode.IsDigit(r) || r == '-' || r == '.' || r == 0xB7 ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}

func (w *Writer) write(s string) error {
	_, err := w.out.WriteString(s)
	return rio.IOError(w.Format().Name(), err)
}

var (
	attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;", "\n", "&#xA;", "\r", "&#xD;", "\t", "&#x9;")
	textEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", "\r", "&#xD;")
)

func escapeXML(value string) string { return attrEscaper.Replace(value) }

func escapeText(value string) string { return textEscaper.Replace(value) }
