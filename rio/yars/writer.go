package yars

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
)

type property struct {
	pred  rdf.IRI
	value rdf.Literal
}

// Writer emits YARS. Consecutive literal statements about one subject share a
// node; resource objects become edges. Contexts and namespaces are dropped.
type Writer struct {
	rio.WriterBase
	out     *bufio.Writer
	subject rdf.Term
	props   []property
	started bool // an element has been written
	buf     strings.Builder
	labels  *rio.BNodeLabels
}

// NewWriter returns a YARS writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{WriterBase: rio.NewWriterBase(rio.YARS, true), out: bufio.NewWriter(w)}
}

// NewWriterFactory returns the YARS writer factory.
func NewWriterFactory() rio.WriterFactory {
	return rio.NewWriterFactory(rio.YARS, func(w io.Writer) rio.Writer { return NewWriter(w) })
}

func (w *Writer) StartRDF() error {
	if err := w.BeginDocument(); err != nil {
		return err
	}
	w.labels = rio.NewBNodeLabels(IsName)
	return nil
}

func (w *Writer) HandleNamespace(_, _ string) error { return w.BeginNamespace() }

func (w *Writer) HandleStatement(st rdf.Statement) error {
	if err := w.BeginStatement(); err != nil {
		return err
	}
	if !rdf.IsResource(st.Subject) || st.Predicate.Value == "" || st.Object == nil {
		return rio.HandlerErrorf("YARS: incomplete statement %s", st)
	}
	if lit, ok := st.Object.(rdf.Literal); ok {
		if w.subject != nil && !rdf.TermsEqual(w.subject, st.Subject) {
			if err := w.flush(); err != nil {
				return err
			}
		}
		w.subject = st.Subject
		w.props = append(w.props, property{pred: st.Predicate, value: lit})
		return nil
	}
	if err := w.flush(); err != nil {
		return err
	}
	w.buf.Reset()
	w.buf.WriteByte('(')
	w.writeIdent(&w.buf, st.Subject)
	w.buf.WriteString(")-[")
	w.writeIdent(&w.buf, st.Predicate)
	w.buf.WriteString("]->(")
	w.writeIdent(&w.buf, st.Object)
	w.buf.WriteByte(')')
	return w.element(w.buf.String())
}

func (w *Writer) HandleComment(text string) error {
	if err := w.BeginComment(); err != nil {
		return err
	}
	if err := w.flush(); err != nil {
		return err
	}
	if w.started {
		if err := w.write("\n"); err != nil {
			return err
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if err := w.write("# " + line + "\n"); err != nil {
			return err
		}
	}
	w.started = false
	return nil
}

func (w *Writer) EndRDF() error {
	if err := w.FinishDocument(); err != nil {
		return err
	}
	if err := w.flush(); err != nil {
		return err
	}
	if w.started && w.PrettyPrint() {
		if err := w.write("\n"); err != nil {
			return err
		}
	}
	return rio.IOError(rio.YARS.Name(), w.out.Flush())
}

// flush writes the pending node.
func (w *Writer) flush() error {
	if w.subject == nil {
		return nil
	}
	sep := ","
	if w.PrettyPrint() {
		sep = ", "
	}
	w.buf.Reset()
	w.buf.WriteByte('(')
	w.writeIdent(&w.buf, w.subject)
	w.buf.WriteByte('{')
	for i, prop := range w.props {
		if i > 0 {
			w.buf.WriteString(sep)
		}
		w.writeIdent(&w.buf, prop.pred)
		w.buf.WriteByte(':')
		w.writeLiteral(&w.buf, prop.value)
	}
	w.buf.WriteString("})")
	w.subject, w.props = nil, w.props[:0]
	return w.element(w.buf.String())
}

func (w *Writer) element(text string) error {
	if w.started {
		sep := " "
		if w.PrettyPrint() {
			sep = "\n"
		}
		if err := w.write(sep); err != nil {
			return err
		}
	}
	w.started = true
	return w.write(text)
}

func (w *Writer) write(s string) error {
	_, err := w.out.WriteString(s)
	return rio.IOError(rio.YARS.Name(), err)
}

func (w *Writer) writeIdent(b *strings.Builder, t rdf.Term) {
	switch v := t.(type) {
	case rdf.IRI:
		if IsName(v.Value) {
			b.WriteString(v.Value)
			return
		}
		b.WriteByte('<')
		for _, r := range v.Value {
			switch {
			case r <= 0x20, r == 0x7F, r == '<', r == '>', r == '\\':
				fmt.Fprintf(b, `\u%04X`, r)
			default:
				b.WriteRune(r)
			}
		}
		b.WriteByte('>')
	case rdf.BlankNode:
		b.WriteString("_:")
		b.WriteString(w.labels.Label(v.ID))
	}
}

func (w *Writer) writeLiteral(b *strings.Builder, l rdf.Literal) {
	b.WriteByte('\'')
	for _, r := range l.Lexical {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	switch {
	case l.Lang != "":
		b.WriteByte('@')
		b.WriteString(l.Lang)
	case l.Datatype.Value != "":
		b.WriteString("^^")
		w.writeIdent(b, l.Datatype)
	}
}
