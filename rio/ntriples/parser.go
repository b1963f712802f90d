package ntriples

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
)

var errLineTooLong = errors.New("line exceeds configured limit")

// Parser reads N-Triples, or N-Quads when created with NewNQuadsParser.
// Each line holds one statement; '#' lines are reported as comments.
type Parser struct {
	rio.ParserBase
	quads bool
}

// NewParser returns an N-Triples parser.
func NewParser() *Parser {
	return &Parser{ParserBase: rio.NewParserBase(rio.NTriples, FailOnInvalidLines, MaxLineBytes)}
}

// NewNQuadsParser returns an N-Quads parser.
func NewNQuadsParser() *Parser {
	return &Parser{ParserBase: rio.NewParserBase(rio.NQuads, FailOnInvalidLines, MaxLineBytes), quads: true}
}

// NewParserFactory returns the N-Triples parser factory.
func NewParserFactory() rio.ParserFactory {
	return rio.NewParserFactory(rio.NTriples, func() rio.Parser { return NewParser() })
}

// NewNQuadsParserFactory returns the N-Quads parser factory.
func NewNQuadsParserFactory() rio.ParserFactory {
	return rio.NewParserFactory(rio.NQuads, func() rio.Parser { return NewNQuadsParser() })
}

func (p *Parser) Parse(r io.Reader, baseURI string) error {
	p.BeginParse(baseURI)
	if err := p.StartRDF(); err != nil {
		return err
	}
	reader := bufio.NewReader(r)
	limit := rio.Get(p.Config(), MaxLineBytes)
	for lineNo := 1; ; lineNo++ {
		line, err := readLine(reader, limit)
		if err == io.EOF {
			break
		}
		if errors.Is(err, errLineTooLong) {
			if rerr := p.ReportError(FailOnInvalidLines, err.Error(), lineNo, 0); rerr != nil {
				return rerr
			}
			continue
		}
		if err != nil {
			return rio.IOError(p.Format().Name(), err)
		}
		p.ReportLocation(lineNo, 1)
		if err := p.parseLine(line, lineNo); err != nil {
			return err
		}
	}
	return p.EndRDF()
}

func (p *Parser) parseLine(line string, lineNo int) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "#") {
		return p.EmitComment(strings.TrimSpace(trimmed[1:]))
	}
	st, err := p.statement(trimmed, lineNo)
	if err == nil {
		return p.EmitStatement(st)
	}
	var serr *syntaxError
	if errors.As(err, &serr) {
		return p.ReportError(FailOnInvalidLines, serr.msg, lineNo, serr.col)
	}
	return err
}

func (p *Parser) statement(line string, lineNo int) (rdf.Statement, error) {
	c := &cursor{input: line}
	subj, err := c.term(false)
	if err != nil {
		return rdf.Statement{}, err
	}
	pred, err := c.iri()
	if err != nil {
		return rdf.Statement{}, err
	}
	obj, err := c.term(true)
	if err != nil {
		return rdf.Statement{}, err
	}
	var graph *token
	if !c.consume('.') {
		if !p.quads {
			return rdf.Statement{}, c.errorf("expected '.' at end of statement")
		}
		g, err := c.term(false)
		if err != nil {
			return rdf.Statement{}, err
		}
		graph = &g
		if !c.consume('.') {
			return rdf.Statement{}, c.errorf("expected '.' at end of statement")
		}
	}
	if !c.atEnd() && c.peek() != '#' {
		return rdf.Statement{}, c.errorf("unexpected content after '.'")
	}

	s, err := p.value(subj, lineNo)
	if err != nil {
		return rdf.Statement{}, err
	}
	pv, err := p.value(pred, lineNo)
	if err != nil {
		return rdf.Statement{}, err
	}
	o, err := p.value(obj, lineNo)
	if err != nil {
		return rdf.Statement{}, err
	}
	var ctx rdf.Term
	if graph != nil {
		if ctx, err = p.value(*graph, lineNo); err != nil {
			return rdf.Statement{}, err
		}
	}
	return p.ValueFactory().CreateStatement(s, pv.(rdf.IRI), o, ctx), nil
}

func (p *Parser) value(tok token, lineNo int) (rdf.Term, error) {
	switch tok.kind {
	case tokenIRI:
		return p.ResolveIRI(tok.value, lineNo, tok.col)
	case tokenBlank:
		return p.CreateBNode(tok.value), nil
	default:
		var dt rdf.IRI
		if tok.datatype != "" {
			var err error
			if dt, err = p.ResolveIRI(tok.datatype, lineNo, tok.col); err != nil {
				return nil, err
			}
		}
		return p.CreateLiteral(tok.value, tok.lang, dt, lineNo, tok.col)
	}
}

// readLine reads up to and including '\n', failing with errLineTooLong once a
// line exceeds maxBytes. The rest of an oversized line is discarded.
func readLine(reader *bufio.Reader, maxBytes int) (string, error) {
	var buffer []byte
	for {
		part, err := reader.ReadSlice('\n')
		buffer = append(buffer, part...)
		if len(buffer) > maxBytes {
			if err == bufio.ErrBufferFull {
				discardLine(reader)
			}
			return "", errLineTooLong
		}
		switch {
		case err == nil:
			return string(buffer), nil
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && len(buffer) > 0:
			return string(buffer), nil
		default:
			return "", err
		}
	}
}

func discardLine(reader *bufio.Reader) {
	for {
		_, err := reader.ReadSlice('\n')
		if err != bufio.ErrBufferFull {
			return
		}
	}
}
