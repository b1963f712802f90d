package binary

import (
	"bufio"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
)

// Writer emits BinaryRDF. Namespaces may appear anywhere in the document and
// contexts are kept.
type Writer struct {
	rio.WriterBase
	out *bufio.Writer
	enc *cbor.Encoder
}

// NewWriter returns a BinaryRDF writer on w.
func NewWriter(w io.Writer) *Writer {
	out := bufio.NewWriter(w)
	return &Writer{WriterBase: rio.NewWriterBase(rio.BinaryRDF, true), out: out, enc: newEncoder(out)}
}

// NewWriterFactory returns the BinaryRDF writer factory.
func NewWriterFactory() rio.WriterFactory {
	return rio.NewWriterFactory(rio.BinaryRDF, func(w io.Writer) rio.Writer { return NewWriter(w) })
}

func (w *Writer) StartRDF() error {
	if err := w.BeginDocument(); err != nil {
		return err
	}
	return w.encode(header{Magic: magic, Version: version})
}

func (w *Writer) HandleNamespace(prefix, name string) error {
	if err := w.BeginNamespace(); err != nil {
		return err
	}
	return w.encode([]any{recordNamespace, prefix, name})
}

func (w *Writer) HandleStatement(st rdf.Statement) error {
	if err := w.BeginStatement(); err != nil {
		return err
	}
	if st.Subject == nil || st.Predicate.Value == "" || st.Object == nil {
		return rio.HandlerErrorf("%s: incomplete statement %s", w.Format().Name(), st)
	}
	var ctx *term
	if st.Context != nil {
		c := encodeTerm(st.Context)
		ctx = &c
	}
	return w.encode([]any{recordStatement, encodeTerm(st.Subject), encodeTerm(st.Predicate), encodeTerm(st.Object), ctx})
}

func (w *Writer) HandleComment(text string) error {
	if err := w.BeginComment(); err != nil {
		return err
	}
	return w.encode([]any{recordComment, text})
}

func (w *Writer) EndRDF() error {
	if err := w.FinishDocument(); err != nil {
		return err
	}
	if err := w.encode([]any{recordEnd}); err != nil {
		return err
	}
	return rio.IOError(w.Format().Name(), w.out.Flush())
}

func (w *Writer) encode(v any) error {
	return rio.IOError(w.Format().Name(), w.enc.Encode(v))
}

func encodeTerm(t rdf.Term) term {
	switch v := t.(type) {
	case rdf.IRI:
		return term{Kind: uint8(rdf.TermIRI), Value: v.Value}
	case rdf.BlankNode:
		return term{Kind: uint8(rdf.TermBlankNode), Value: v.ID}
	case rdf.Literal:
		return term{Kind: uint8(rdf.TermLiteral), Value: v.Lexical, Lang: v.Lang, Datatype: v.Datatype.Value}
	default:
		return term{Kind: uint8(t.Kind()), Value: t.String()}
	}
}
