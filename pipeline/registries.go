package pipeline

import (
	"io"
	"sync"

	"github.com/lszeremeta/sesame-rio-api/rio"
	"github.com/lszeremeta/sesame-rio-api/rio/binary"
	"github.com/lszeremeta/sesame-rio-api/rio/jsonld"
	"github.com/lszeremeta/sesame-rio-api/rio/ntriples"
	"github.com/lszeremeta/sesame-rio-api/rio/rdfxml"
	"github.com/lszeremeta/sesame-rio-api/rio/turtle"
	"github.com/lszeremeta/sesame-rio-api/rio/yars"
)

// BootstrapVersion identifies the built-in factory table. It changes whenever
// a built-in parser or writer is added or removed.
const BootstrapVersion = 2

var (
	parsersOnce sync.Once
	parsers     *rio.Registry[rio.ParserFactory]

	writersOnce sync.Once
	writers     *rio.Registry[rio.WriterFactory]
)

func builtinParsers() []rio.ParserFactory {
	return []rio.ParserFactory{
		ntriples.NewParserFactory(),
		ntriples.NewNQuadsParserFactory(),
		yars.NewParserFactory(),
		jsonld.NewParserFactory(),
		binary.NewParserFactory(),
		rdfxml.NewParserFactory(),
		turtle.NewParserFactory(),
		turtle.NewTriGParserFactory(),
	}
}

func builtinWriters() []rio.WriterFactory {
	return []rio.WriterFactory{
		ntriples.NewWriterFactory(),
		ntriples.NewNQuadsWriterFactory(),
		yars.NewWriterFactory(),
		jsonld.NewWriterFactory(),
		binary.NewWriterFactory(),
		turtle.NewWriterFactory(),
		turtle.NewTriGWriterFactory(),
		rdfxml.NewWriterFactory(),
	}
}

// ParserRegistry returns the process-wide parser registry, populated with the
// built-in parsers on first use.
func ParserRegistry() *rio.Registry[rio.ParserFactory] {
	parsersOnce.Do(func() {
		r := rio.NewRegistry[rio.ParserFactory]()
		for _, f := range builtinParsers() {
			r.Register(f.Format(), f)
		}
		parsers = r
		rio.Logger().Debug().Int("bootstrap", BootstrapVersion).Int("parsers", r.Len()).Msg("parser registry initialized")
	})
	return parsers
}

// WriterRegistry returns the process-wide writer registry, populated with the
// built-in writers on first use.
func WriterRegistry() *rio.Registry[rio.WriterFactory] {
	writersOnce.Do(func() {
		r := rio.NewRegistry[rio.WriterFactory]()
		for _, f := range builtinWriters() {
			r.Register(f.Format(), f)
		}
		writers = r
		rio.Logger().Debug().Int("bootstrap", BootstrapVersion).Int("writers", r.Len()).Msg("writer registry initialized")
	})
	return writers
}

// ParserFormatForMIMEType matches mimeType against the registered parser formats.
func ParserFormatForMIMEType(mimeType string, fallback rio.Format) (rio.Format, bool) {
	return ParserRegistry().MatchMIMEType(mimeType, fallback)
}

// ParserFormatForFileName matches fileName against the registered parser formats.
func ParserFormatForFileName(fileName string, fallback rio.Format) (rio.Format, bool) {
	return ParserRegistry().MatchFileName(fileName, fallback)
}

// WriterFormatForMIMEType matches mimeType against the registered writer formats.
func WriterFormatForMIMEType(mimeType string, fallback rio.Format) (rio.Format, bool) {
	return WriterRegistry().MatchMIMEType(mimeType, fallback)
}

// WriterFormatForFileName matches fileName against the registered writer formats.
func WriterFormatForFileName(fileName string, fallback rio.Format) (rio.Format, bool) {
	return WriterRegistry().MatchFileName(fileName, fallback)
}

// CreateParser returns a new parser for format.
func CreateParser(format rio.Format) (rio.Parser, error) {
	f, ok := ParserRegistry().Get(format)
	if !ok {
		return nil, rio.UnsupportedFormatError("parser", format)
	}
	return f.NewParser(), nil
}

// CreateWriter returns a new writer for format on w.
func CreateWriter(format rio.Format, w io.Writer) (rio.Writer, error) {
	f, ok := WriterRegistry().Get(format)
	if !ok {
		return nil, rio.UnsupportedFormatError("writer", format)
	}
	return f.NewWriter(w), nil
}
