// Package pipeline is the entry point for reading and writing RDF. It owns the
// process-wide parser and writer registries and wires parsers, writers,
// collectors and configuration together for single calls.
package pipeline

import (
	"io"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
)

// Parse reads a document in format from r into a new model. Relative IRIs are
// resolved against baseURI. On failure the statements read so far are returned
// together with the error.
func Parse(r io.Reader, baseURI string, format rio.Format, opts ...ParseOption) (*rdf.Model, error) {
	options := defaultParseOptions()
	for _, opt := range opts {
		opt(&options)
	}
	model := rdf.NewModel()
	op := newOperation("parse", format.Name())

	parser, err := CreateParser(format)
	if err != nil {
		return model, op.finish(err)
	}
	op.advance(stateFormatResolved)

	cfg := options.config
	if cfg == nil {
		cfg = rio.NewParserConfig()
	}
	if err := parser.SetConfig(cfg); err != nil {
		return model, op.finish(err)
	}
	in, err := decodeInput(r, format, cfg)
	if err != nil {
		return model, op.finish(err)
	}
	parser.SetValueFactory(options.valueFactory)
	parser.SetErrorListener(options.errors)
	collector := rio.NewContextStatementCollector(model, options.valueFactory, options.contexts...)
	parser.SetHandler(newSink(op, collector, true))
	op.advance(stateConfigured)

	op.advance(stateStreaming)
	return model, op.finish(parser.Parse(in, baseURI))
}

// Write serializes src to w in format.
func Write(src rdf.StatementSource, w io.Writer, format rio.Format, opts ...WriteOption) error {
	var options writeOptions
	for _, opt := range opts {
		opt(&options)
	}
	op := newOperation("write", format.Name())

	writer, err := CreateWriter(format, w)
	if err != nil {
		return op.finish(err)
	}
	op.advance(stateFormatResolved)

	if options.config != nil {
		if err := writer.SetConfig(options.config); err != nil {
			return op.finish(err)
		}
	}
	op.advance(stateConfigured)

	op.advance(stateStreaming)
	return op.finish(Emit(src, newSink(op, writer, false)))
}

// Emit replays src into handler: StartRDF, the namespaces of src when it has
// any, every statement in order, then EndRDF. The first failure stops the
// replay.
func Emit(src rdf.StatementSource, handler rio.Handler) error {
	if err := handler.StartRDF(); err != nil {
		return rio.AsHandlerError(err)
	}
	if src != nil {
		if ns, ok := src.(rdf.NamespaceSource); ok {
			for _, n := range ns.Namespaces() {
				if err := handler.HandleNamespace(n.Prefix, n.Name); err != nil {
					return rio.AsHandlerError(err)
				}
			}
		}
		for st := range src.All() {
			if err := handler.HandleStatement(st); err != nil {
				return rio.AsHandlerError(err)
			}
		}
	}
	return rio.AsHandlerError(handler.EndRDF())
}

// Convert streams a document from r in format in to w in format out without
// building a model.
func Convert(r io.Reader, baseURI string, in rio.Format, w io.Writer, out rio.Format, opts ...ConvertOption) error {
	options := convertOptions{errors: rio.NewParseErrorLogger(nil)}
	for _, opt := range opts {
		opt(&options)
	}
	op := newOperation("convert", in.Name()+"->"+out.Name())

	parser, err := CreateParser(in)
	if err != nil {
		return op.finish(err)
	}
	writer, err := CreateWriter(out, w)
	if err != nil {
		return op.finish(err)
	}
	op.advance(stateFormatResolved)

	cfg := options.parserConfig
	if cfg == nil {
		cfg = rio.NewParserConfig()
	}
	if err := parser.SetConfig(cfg); err != nil {
		return op.finish(err)
	}
	if options.writerConfig != nil {
		if err := writer.SetConfig(options.writerConfig); err != nil {
			return op.finish(err)
		}
	}
	input, err := decodeInput(r, in, cfg)
	if err != nil {
		return op.finish(err)
	}
	parser.SetErrorListener(options.errors)
	parser.SetHandler(newSink(op, writer, false))
	op.advance(stateConfigured)

	op.advance(stateStreaming)
	return op.finish(parser.Parse(input, baseURI))
}
