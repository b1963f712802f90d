package pipeline

import (
	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
)

// ParseOption configures Parse.
type ParseOption func(*parseOptions)

type parseOptions struct {
	config       *rio.ParserConfig
	valueFactory rdf.ValueFactory
	errors       rio.ParseErrorListener
	contexts     []rdf.Term
}

func defaultParseOptions() parseOptions {
	return parseOptions{
		valueFactory: rdf.NewValueFactory(),
		errors:       rio.NewParseErrorLogger(nil),
	}
}

// WithParserConfig sets the parser configuration.
func WithParserConfig(cfg *rio.ParserConfig) ParseOption {
	return func(opts *parseOptions) { opts.config = cfg }
}

// WithValueFactory sets the factory used to create terms and statements.
func WithValueFactory(vf rdf.ValueFactory) ParseOption {
	return func(opts *parseOptions) {
		if vf != nil {
			opts.valueFactory = vf
		}
	}
}

// WithErrorListener sets the listener notified of parse problems.
func WithErrorListener(l rio.ParseErrorListener) ParseOption {
	return func(opts *parseOptions) { opts.errors = l }
}

// WithContexts stores every parsed statement once per given context instead
// of its own. A nil context stores the statement without one.
func WithContexts(contexts ...rdf.Term) ParseOption {
	return func(opts *parseOptions) { opts.contexts = append([]rdf.Term(nil), contexts...) }
}

// WriteOption configures Write.
type WriteOption func(*writeOptions)

type writeOptions struct {
	config *rio.WriterConfig
}

// WithWriterConfig sets the writer configuration.
func WithWriterConfig(cfg *rio.WriterConfig) WriteOption {
	return func(opts *writeOptions) { opts.config = cfg }
}

// ConvertOption configures Convert.
type ConvertOption func(*convertOptions)

type convertOptions struct {
	parserConfig *rio.ParserConfig
	writerConfig *rio.WriterConfig
	errors       rio.ParseErrorListener
}

// WithConvertParserConfig sets the configuration of the reading side.
func WithConvertParserConfig(cfg *rio.ParserConfig) ConvertOption {
	return func(opts *convertOptions) { opts.parserConfig = cfg }
}

// WithConvertWriterConfig sets the configuration of the writing side.
func WithConvertWriterConfig(cfg *rio.WriterConfig) ConvertOption {
	return func(opts *convertOptions) { opts.writerConfig = cfg }
}

// WithConvertErrorListener sets the listener notified of parse problems.
func WithConvertErrorListener(l rio.ParseErrorListener) ConvertOption {
	return func(opts *convertOptions) { opts.errors = l }
}
