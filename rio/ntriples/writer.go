package ntriples

import (
	"bufio"
	"io"
	"strings"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
)

// Writer emits N-Triples, or N-Quads when created with NewNQuadsWriter.
// Namespaces are ignored; N-Triples output drops contexts.
type Writer struct {
	rio.WriterBase
	out   *bufio.Writer
	quads bool
	line  strings.Builder
}

// NewWriter returns an N-Triples writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{WriterBase: rio.NewWriterBase(rio.NTriples, true, EscapeUnicode), out: bufio.NewWriter(w)}
}

// NewNQuadsWriter returns an N-Quads writer on w.
func NewNQuadsWriter(w io.Writer) *Writer {
	return &Writer{WriterBase: rio.NewWriterBase(rio.NQuads, true, EscapeUnicode), out: bufio.NewWriter(w), quads: true}
}

// NewWriterFactory returns the N-Triples writer factory.
func NewWriterFactory() rio.WriterFactory {
	return rio.NewWriterFactory(rio.NTriples, func(w io.Writer) rio.Writer { return NewWriter(w) })
}

// NewNQuadsWriterFactory returns the N-Quads writer factory.
func NewNQuadsWriterFactory() rio.WriterFactory {
	return rio.NewWriterFactory(rio.NQuads, func(w io.Writer) rio.Writer { return NewNQuadsWriter(w) })
}

func (w *Writer) StartRDF() error { return w.BeginDocument() }

func (w *Writer) HandleNamespace(_, _ string) error { return w.BeginNamespace() }

func (w *Writer) HandleStatement(st rdf.Statement) error {
	if err := w.BeginStatement(); err != nil {
		return err
	}
	if st.Subject == nil || st.Predicate.Value == "" || st.Object == nil {
		return rio.HandlerErrorf("%s: incomplete statement %s", w.Format().Name(), st)
	}
	ascii := rio.Get(w.Config(), EscapeUnicode)
	w.line.Reset()
	writeTerm(&w.line, st.Subject, ascii)
	w.line.WriteByte(' ')
	writeTerm(&w.line, st.Predicate, ascii)
	w.line.WriteByte(' ')
	writeTerm(&w.line, st.Object, ascii)
	if w.quads && st.Context != nil {
		w.line.WriteByte(' ')
		writeTerm(&w.line, st.Context, ascii)
	}
	w.line.WriteString(" .\n")
	_, err := w.out.WriteString(w.line.String())
	return rio.IOError(w.Format().Name(), err)
}

func (w *Writer) HandleComment(text string) error {
	if err := w.BeginComment(); err != nil {
		return err
	}
	for _, line := range strings.Split(text, "\n") {
		if _, err := w.out.WriteString("# " + strings.TrimRight(line, "\r") + "\n"); err != nil {
			return rio.IOError(w.Format().Name(), err)
		}
	}
	return nil
}

func (w *Writer) EndRDF() error {
	if err := w.FinishDocument(); err != nil {
		return err
	}
	return rio.IOError(w.Format().Name(), w.out.Flush())
}

// FormatTerm renders a single term in N-Triples syntax.
func FormatTerm(t rdf.Term) string {
	var b strings.Builder
	writeTerm(&b, t, false)
	return b.String()
}

func writeTerm(b *strings.Builder, t rdf.Term, ascii bool) {
	switch v := t.(type) {
	case rdf.IRI:
		b.WriteByte('<')
		escapeIRI(b, v.Value, ascii)
		b.WriteByte('>')
	case rdf.BlankNode:
		b.WriteString("_:")
		b.WriteString(v.ID)
	case rdf.Literal:
		b.WriteByte('"')
		escapeString(b, v.Lexical, ascii)
		b.WriteByte('"')
		switch {
		case v.Lang != "":
			b.WriteByte('@')
			b.WriteString(v.Lang)
		case v.Datatype.Value != "":
			b.WriteString("^^<")
			escapeIRI(b, v.Datatype.Value, ascii)
			b.WriteByte('>')
		}
	}
}
