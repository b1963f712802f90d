// Package turtle reads and writes Turtle and its named-graph extension TriG.
package turtle

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
	"github.com/lszeremeta/sesame-rio-api/rio/ntriples"
)

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Writer emits Turtle, or TriG when created with NewTriGWriter. Namespaces
// must be declared before the first statement and are written as a sorted
// @prefix header. With PrettyPrint, consecutive statements sharing a subject
// are grouped with ';' and repeated predicates with ','. Turtle drops contexts;
// TriG opens a new graph block whenever the context changes. Blank node labels
// that are not valid BLANK_NODE_LABELs are replaced.
type Writer struct {
	rio.WriterBase
	out      *bufio.Writer
	prefixes map[string]string
	header   bool
	labels   *rio.BNodeLabels

	graphs  bool
	inGraph bool
	graph   rdf.Term
	indent  string

	subject   rdf.Term
	predicate rdf.IRI
	open      bool
}

// NewWriter returns a Turtle writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		WriterBase: rio.NewWriterBase(rio.Turtle, false),
		out:        bufio.NewWriter(w),
		prefixes:   map[string]string{},
	}
}

// NewTriGWriter returns a TriG writer on w.
func NewTriGWriter(w io.Writer) *Writer {
	return &Writer{
		WriterBase: rio.NewWriterBase(rio.TriG, false),
		out:        bufio.NewWriter(w),
		prefixes:   map[string]string{},
		graphs:     true,
	}
}

// NewWriterFactory returns the Turtle writer factory.
func NewWriterFactory() rio.WriterFactory {
	return rio.NewWriterFactory(rio.Turtle, func(w io.Writer) rio.Writer { return NewWriter(w) })
}

// NewTriGWriterFactory returns the TriG writer factory.
func NewTriGWriterFactory() rio.WriterFactory {
	return rio.NewWriterFactory(rio.TriG, func(w io.Writer) rio.Writer { return NewTriGWriter(w) })
}

func (w *Writer) StartRDF() error {
	if err := w.BeginDocument(); err != nil {
		return err
	}
	w.labels = rio.NewBNodeLabels(isBlankLabel)
	return nil
}

func (w *Writer) HandleNamespace(prefix, name string) error {
	if err := w.BeginNamespace(); err != nil {
		return err
	}
	if !isPrefixName(prefix) {
		rio.Logger().Debug().Str("prefix", prefix).Msg("turtle: skipping namespace with invalid prefix")
		return nil
	}
	w.prefixes[prefix] = name
	return nil
}

func (w *Writer) HandleStatement(st rdf.Statement) error {
	if err := w.BeginStatement(); err != nil {
		return err
	}
	if st.Subject == nil || st.Predicate.Value == "" || st.Object == nil {
		return rio.HandlerErrorf("%s: incomplete statement %s", w.Format().Name(), st)
	}
	if err := w.writeHeader(); err != nil {
		return err
	}

	var line strings.Builder
	pretty := w.PrettyPrint()
	if w.graphs && (!w.inGraph || !rdf.TermsEqual(w.graph, st.Context)) {
		w.closeGraph(&line)
		if w.inGraph && pretty {
			line.WriteByte('\n')
		}
		if st.Context != nil {
			line.WriteString(w.term(st.Context))
			line.WriteByte(' ')
		}
		line.WriteString("{\n")
		w.graph, w.inGraph, w.indent = st.Context, true, "    "
	}
	switch {
	case pretty && w.open && rdf.TermsEqual(w.subject, st.Subject) && w.predicate == st.Predicate:
		line.WriteString(", ")
		line.WriteString(w.term(st.Object))
	case pretty && w.open && rdf.TermsEqual(w.subject, st.Subject):
		line.WriteString(" ;\n    ")
		line.WriteString(w.indent)
		line.WriteString(w.predicateName(st.Predicate))
		line.WriteByte(' ')
		line.WriteString(w.term(st.Object))
	default:
		if w.open {
			line.WriteString(" .\n")
			if pretty {
				line.WriteByte('\n')
			}
		}
		line.WriteString(w.indent)
		line.WriteString(w.term(st.Subject))
		line.WriteByte(' ')
		line.WriteString(w.predicateName(st.Predicate))
		line.WriteByte(' ')
		line.WriteString(w.term(st.Object))
	}
	w.subject, w.predicate, w.open = st.Subject, st.Predicate, true
	if !pretty {
		line.WriteString(" .\n")
		w.open = false
	}
	return w.write(line.String())
}

func (w *Writer) HandleComment(text string) error {
	if err := w.BeginComment(); err != nil {
		return err
	}
	if err := w.closeStatement(); err != nil {
		return err
	}
	for _, line := range strings.Split(text, "\n") {
		if err := w.write("# " + strings.TrimRight(line, "\r") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) EndRDF() error {
	if err := w.FinishDocument(); err != nil {
		return err
	}
	if err := w.writeHeader(); err != nil {
		return err
	}
	var tail strings.Builder
	w.closeGraph(&tail)
	if err := w.write(tail.String()); err != nil {
		return err
	}
	return rio.IOError(w.Format().Name(), w.out.Flush())
}

func (w *Writer) closeStatement() error {
	if !w.open {
		return nil
	}
	w.open = false
	return w.write(" .\n")
}

// closeGraph ends the open statement and graph block.
func (w *Writer) closeGraph(b *strings.Builder) {
	if w.open {
		b.WriteString(" .\n")
		w.open = false
	}
	if w.inGraph {
		b.WriteString("}\n")
	}
}

func (w *Writer) writeHeader() error {
	if w.header {
		return nil
	}
	w.header = true
	if len(w.prefixes) == 0 {
		return nil
	}
	keys := make([]string, 0, len(w.prefixes))
	for key := range w.prefixes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, prefix := range keys {
		if err := w.write("@prefix " + prefix + ": " + ntriples.FormatTerm(rdf.IRI{Value: w.prefixes[prefix]}) + " .\n"); err != nil {
			return err
		}
	}
	return w.write("\n")
}

func (w *Writer) predicateName(p rdf.IRI) string {
	if p.Value == rdfType {
		return "a"
	}
	return w.iri(p)
}

func (w *Writer) iri(i rdf.IRI) string {
	if qname, ok := abbreviate(i.Value, w.prefixes); ok {
		return qname
	}
	return ntriples.FormatTerm(i)
}

func (w *Writer) term(t rdf.Term) string {
	switch v := t.(type) {
	case rdf.IRI:
		return w.iri(v)
	case rdf.Literal:
		quoted := ntriples.FormatTerm(rdf.Literal{Lexical: v.Lexical})
		switch {
		case v.Lang != "":
			return quoted + "@" + v.Lang
		case v.Datatype.Value != "":
			return quoted + "^^" + w.iri(v.Datatype)
		}
		return quoted
	case rdf.BlankNode:
		return "_:" + w.labels.Label(v.ID)
	default:
		return ntriples.FormatTerm(t)
	}
}

func (w *Writer) write(s string) error {
	_, err := w.out.WriteString(s)
	return rio.IOError(w.Format().Name(), err)
}
