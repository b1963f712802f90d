package jsonld

import (
	"bytes"
	"encoding/json"
	"io"

	ld "github.com/piprate/json-gold/ld"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
	"github.com/lszeremeta/sesame-rio-api/rio/ntriples"
)

// Writer buffers the document and renders it as JSON-LD on EndRDF. Namespaces
// become the @context of compacted and flattened output.
type Writer struct {
	rio.WriterBase
	out        io.Writer
	nquads     bytes.Buffer
	quads      *ntriples.Writer
	namespaces *rdf.Model
}

// NewWriter returns a JSON-LD writer on w.
func NewWriter(w io.Writer) *Writer {
	jw := &Writer{
		WriterBase: rio.NewWriterBase(rio.JSONLD, true, Mode, UseNativeTypes, UseRDFType),
		out:        w,
		namespaces: rdf.NewModel(),
	}
	jw.quads = ntriples.NewNQuadsWriter(&jw.nquads)
	return jw
}

// NewWriterFactory returns the JSON-LD writer factory.
func NewWriterFactory() rio.WriterFactory {
	return rio.NewWriterFactory(rio.JSONLD, func(w io.Writer) rio.Writer { return NewWriter(w) })
}

func (w *Writer) StartRDF() error {
	if err := w.BeginDocument(); err != nil {
		return err
	}
	return w.quads.StartRDF()
}

func (w *Writer) HandleNamespace(prefix, name string) error {
	if err := w.BeginNamespace(); err != nil {
		return err
	}
	w.namespaces.SetNamespace(prefix, name)
	return nil
}

func (w *Writer) HandleStatement(st rdf.Statement) error {
	if err := w.BeginStatement(); err != nil {
		return err
	}
	return w.quads.HandleStatement(st)
}

func (w *Writer) HandleComment(string) error { return w.BeginComment() }

func (w *Writer) EndRDF() error {
	if err := w.FinishDocument(); err != nil {
		return err
	}
	if err := w.quads.EndRDF(); err != nil {
		return err
	}
	doc, err := w.render()
	if err != nil {
		return &rio.Error{Code: rio.ErrCodeHandler, Format: w.Format().Name(), Msg: "render JSON-LD", Err: err}
	}
	var data []byte
	if w.PrettyPrint() {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return &rio.Error{Code: rio.ErrCodeHandler, Format: w.Format().Name(), Msg: "encode JSON-LD", Err: err}
	}
	data = append(data, '\n')
	_, err = w.out.Write(data)
	return rio.IOError(w.Format().Name(), err)
}

func (w *Writer) render() (any, error) {
	cfg := w.Config()
	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"
	opts.UseNativeTypes = rio.Get(cfg, UseNativeTypes)
	opts.UseRdfType = rio.Get(cfg, UseRDFType)

	expanded, err := proc.FromRDF(w.nquads.String(), opts)
	if err != nil {
		return nil, err
	}
	opts.Format = ""

	context := map[string]any{}
	for _, ns := range w.namespaces.Namespaces() {
		context[ns.Prefix] = ns.Name
	}
	switch rio.Get(cfg, Mode) {
	case ModeExpand:
		return expanded, nil
	case ModeFlatten:
		return proc.Flatten(expanded, map[string]any{"@context": context}, opts)
	default:
		return proc.Compact(expanded, map[string]any{"@context": context}, opts)
	}
}
