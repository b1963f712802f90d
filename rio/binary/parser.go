package binary

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
)

// Parser reads BinaryRDF documents.
type Parser struct {
	rio.ParserBase
}

// NewParser returns a BinaryRDF parser.
func NewParser() *Parser {
	return &Parser{ParserBase: rio.NewParserBase(rio.BinaryRDF)}
}

// NewParserFactory returns the BinaryRDF parser factory.
func NewParserFactory() rio.ParserFactory {
	return rio.NewParserFactory(rio.BinaryRDF, func() rio.Parser { return NewParser() })
}

func (p *Parser) Parse(r io.Reader, baseURI string) error {
	p.BeginParse(baseURI)
	dec := newDecoder(r)

	var h header
	if err := dec.Decode(&h); err != nil {
		return p.decodeError(0, err)
	}
	if h.Magic != magic {
		return p.ReportFatal("not a BinaryRDF document", 0, 0)
	}
	if h.Version != version {
		return p.ReportFatal(fmt.Sprintf("unsupported BinaryRDF version %d", h.Version), 0, 0)
	}
	if err := p.StartRDF(); err != nil {
		return err
	}

	for n := 1; ; n++ {
		var rec []cbor.RawMessage
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				return p.ReportFatal("missing end of document record", 0, 0)
			}
			return p.decodeError(n, err)
		}
		if len(rec) == 0 {
			return p.recordError(n, "empty record")
		}
		var kind uint64
		if err := decMode.Unmarshal(rec[0], &kind); err != nil {
			return p.recordError(n, "invalid record kind")
		}
		done, err := p.record(n, kind, rec[1:])
		if err != nil {
			return err
		}
		if done {
			return p.EndRDF()
		}
	}
}

func (p *Parser) record(n int, kind uint64, fields []cbor.RawMessage) (bool, error) {
	switch kind {
	case recordEnd:
		return true, nil
	case recordNamespace:
		var prefix, name string
		if len(fields) != 2 || decMode.Unmarshal(fields[0], &prefix) != nil || decMode.Unmarshal(fields[1], &name) != nil {
			return false, p.recordError(n, "malformed namespace record")
		}
		return false, p.EmitNamespace(prefix, name)
	case recordStatement:
		if len(fields) != 4 {
			return false, p.recordError(n, "malformed statement record")
		}
		st, err := p.statement(n, fields)
		if err != nil {
			return false, err
		}
		return false, p.EmitStatement(st)
	case recordComment:
		var text string
		if len(fields) != 1 || decMode.Unmarshal(fields[0], &text) != nil {
			return false, p.recordError(n, "malformed comment record")
		}
		return false, p.EmitComment(text)
	default:
		return false, p.recordError(n, fmt.Sprintf("unknown record kind %d", kind))
	}
}

func (p *Parser) statement(n int, fields []cbor.RawMessage) (rdf.Statement, error) {
	var s, pred, o term
	var ctx *term
	for i, dst := range []any{&s, &pred, &o, &ctx} {
		if err := decMode.Unmarshal(fields[i], dst); err != nil {
			return rdf.Statement{}, p.recordError(n, "malformed term")
		}
	}
	subj, err := p.term(n, s)
	if err != nil {
		return rdf.Statement{}, err
	}
	if rdf.TermKind(pred.Kind) != rdf.TermIRI {
		return rdf.Statement{}, p.recordError(n, "predicate must be an IRI")
	}
	pv, err := p.CreateIRI(pred.Value, 0, 0)
	if err != nil {
		return rdf.Statement{}, err
	}
	obj, err := p.term(n, o)
	if err != nil {
		return rdf.Statement{}, err
	}
	var c rdf.Term
	if ctx != nil {
		if c, err = p.term(n, *ctx); err != nil {
			return rdf.Statement{}, err
		}
	}
	return p.ValueFactory().CreateStatement(subj, pv, obj, c), nil
}

func (p *Parser) term(n int, t term) (rdf.Term, error) {
	switch rdf.TermKind(t.Kind) {
	case rdf.TermIRI:
		return p.CreateIRI(t.Value, 0, 0)
	case rdf.TermBlankNode:
		return p.CreateBNode(t.Value), nil
	case rdf.TermLiteral:
		var dt rdf.IRI
		if t.Datatype != "" {
			dt = p.ValueFactory().CreateIRI(t.Datatype)
		}
		return p.CreateLiteral(t.Value, t.Lang, dt, 0, 0)
	default:
		return nil, p.recordError(n, fmt.Sprintf("unknown term kind %d", t.Kind))
	}
}

func (p *Parser) recordError(n int, msg string) error {
	return p.ReportFatal(fmt.Sprintf("record %d: %s", n, msg), 0, 0)
}

// decodeError separates malformed CBOR from failures of the underlying reader.
func (p *Parser) decodeError(n int, err error) error {
	var (
		syn *cbor.SyntaxError
		sem *cbor.SemanticError
		typ *cbor.UnmarshalTypeError
	)
	if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.As(err, &syn) || errors.As(err, &sem) || errors.As(err, &typ) {
		if n == 0 {
			return p.ReportFatal("invalid BinaryRDF header: "+err.Error(), 0, 0)
		}
		return p.recordError(n, err.Error())
	}
	return rio.IOError(p.Format().Name(), err)
}
