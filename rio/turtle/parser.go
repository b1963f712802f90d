package turtle

import (
	"errors"
	"io"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
)

const (
	rdfNS      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	rdfFirst   = rdfNS + "first"
	rdfRest    = rdfNS + "rest"
	rdfNil     = rdfNS + "nil"
	xsdNS      = "http://www.w3.org/2001/XMLSchema#"
	xsdInteger = xsdNS + "integer"
	xsdDecimal = xsdNS + "decimal"
	xsdDouble  = xsdNS + "double"
	xsdBoolean = xsdNS + "boolean"
)

// Parser reads Turtle, or TriG when created with NewTriGParser. The document
// is read into memory; statements are reported as soon as each one is complete,
// so the triples inside a blank node property list or collection precede the
// statement that refers to it.
type Parser struct {
	rio.ParserBase
	graphs bool

	c        *cursor
	prefixes map[string]string
	graph    rdf.Term
}

// NewParser returns a Turtle parser.
func NewParser() *Parser {
	return &Parser{ParserBase: rio.NewParserBase(rio.Turtle)}
}

// NewTriGParser returns a TriG parser.
func NewTriGParser() *Parser {
	return &Parser{ParserBase: rio.NewParserBase(rio.TriG), graphs: true}
}

// NewParserFactory returns the Turtle parser factory.
func NewParserFactory() rio.ParserFactory {
	return rio.NewParserFactory(rio.Turtle, func() rio.Parser { return NewParser() })
}

// NewTriGParserFactory returns the TriG parser factory.
func NewTriGParserFactory() rio.ParserFactory {
	return rio.NewParserFactory(rio.TriG, func() rio.Parser { return NewTriGParser() })
}

func (p *Parser) Parse(r io.Reader, baseURI string) error {
	p.BeginParse(baseURI)
	data, err := io.ReadAll(r)
	if err != nil {
		return rio.IOError(p.Format().Name(), err)
	}
	p.c = newCursor(string(data))
	p.prefixes = make(map[string]string)
	p.graph = nil
	if err := p.StartRDF(); err != nil {
		return err
	}
	if err := p.document(); err != nil {
		return p.fail(err)
	}
	if err := p.flushComments(); err != nil {
		return err
	}
	return p.EndRDF()
}

func (p *Parser) fail(err error) error {
	var serr *syntaxError
	if errors.As(err, &serr) {
		line, col := p.c.loc(serr.pos)
		return p.ReportFatal(serr.msg, line, col)
	}
	return err
}

func (p *Parser) document() error {
	for {
		p.c.skipWS()
		if err := p.flushComments(); err != nil {
			return err
		}
		if p.c.atEOF() {
			return nil
		}
		p.ReportLocation(p.c.loc(p.c.pos))
		var err error
		switch {
		case p.c.peek() == '@':
			err = p.atDirective()
		case p.c.keyword("PREFIX", true):
			err = p.prefixDirective(false)
		case p.c.keyword("BASE", true):
			err = p.baseDirective(false)
		case p.graphs:
			err = p.block()
		default:
			if err = p.triples(); err == nil {
				err = p.endStatement()
			}
		}
		if err != nil {
			return err
		}
	}
}

func (p *Parser) atDirective() error {
	start := p.c.pos
	p.c.pos++
	switch {
	case p.c.keyword("prefix", false):
		return p.prefixDirective(true)
	case p.c.keyword("base", false):
		return p.baseDirective(true)
	}
	return p.c.errorAt(start, "unknown directive")
}

func (p *Parser) prefixDirective(dotted bool) error {
	p.c.skipWS()
	prefix, err := p.c.prefixName()
	if err != nil {
		return err
	}
	p.c.skipWS()
	pos := p.c.pos
	ref, err := p.c.iriRef()
	if err != nil {
		return err
	}
	line, col := p.c.loc(pos)
	ns, err := p.ResolveIRI(ref, line, col)
	if err != nil {
		return err
	}
	p.prefixes[prefix] = ns.Value
	if err := p.EmitNamespace(prefix, ns.Value); err != nil {
		return err
	}
	if dotted {
		return p.endStatement()
	}
	return nil
}

func (p *Parser) baseDirective(dotted bool) error {
	p.c.skipWS()
	pos := p.c.pos
	ref, err := p.c.iriRef()
	if err != nil {
		return err
	}
	line, col := p.c.loc(pos)
	base, err := p.ResolveIRI(ref, line, col)
	if err != nil {
		return err
	}
	p.SetBaseURI(base.Value)
	if dotted {
		return p.endStatement()
	}
	return nil
}

func (p *Parser) endStatement() error {
	p.c.skipWS()
	return p.c.expect('.')
}

// block reads one TriG top-level unit: a graph block or a triples statement.
func (p *Parser) block() error {
	switch {
	case p.c.peek() == '{':
		return p.wrappedGraph(nil)
	case p.c.keyword("GRAPH", true):
		p.c.skipWS()
		label, err := p.graphLabel()
		if err != nil {
			return err
		}
		p.c.skipWS()
		return p.wrappedGraph(label)
	case p.c.peek() == '[' && p.anonAhead():
		subject := p.CreateBNode("")
		p.skipAnon()
		p.c.skipWS()
		if p.c.peek() == '{' {
			return p.wrappedGraph(subject)
		}
		if err := p.predicateObjectList(subject); err != nil {
			return err
		}
		return p.endStatement()
	case p.c.peek() == '[' || p.c.peek() == '(':
		if err := p.triples(); err != nil {
			return err
		}
		return p.endStatement()
	}
	label, err := p.graphLabel()
	if err != nil {
		return err
	}
	p.c.skipWS()
	if p.c.peek() == '{' {
		return p.wrappedGraph(label)
	}
	if err := p.predicateObjectList(label); err != nil {
		return err
	}
	return p.endStatement()
}

func (p *Parser) graphLabel() (rdf.Term, error) {
	switch {
	case p.c.peek() == '[' && p.anonAhead():
		p.skipAnon()
		return p.CreateBNode(""), nil
	case p.c.peek() == '_':
		return p.blankNode()
	}
	return p.iri()
}

// wrappedGraph reads '{' triples ('.' triples)* '.'? '}' into graph g.
func (p *Parser) wrappedGraph(g rdf.Term) error {
	if err := p.c.expect('{'); err != nil {
		return err
	}
	p.graph = g
	defer func() { p.graph = nil }()
	for {
		p.c.skipWS()
		if p.c.consume('}') {
			return nil
		}
		if p.c.atEOF() {
			return p.c.errorf("expected '}' at end of graph")
		}
		if ch := p.c.peek(); ch == '@' || ch == '{' {
			return p.c.errorf("'%c' is not allowed inside a graph", ch)
		}
		p.ReportLocation(p.c.loc(p.c.pos))
		if err := p.triples(); err != nil {
			return err
		}
		p.c.skipWS()
		if !p.c.consume('.') {
			return p.c.expect('}')
		}
	}
}

// anonAhead reports whether pos starts ANON, '[' followed only by whitespace and ']'.
func (p *Parser) anonAhead() bool {
	for i := p.c.pos + 1; i < len(p.c.input); i++ {
		switch p.c.input[i] {
		case ' ', '\t', '\r', '\n':
		case ']':
			return true
		default:
			return false
		}
	}
	return false
}

func (p *Parser) skipAnon() {
	p.c.pos++
	p.c.skipWS()
	p.c.pos++
}

func (p *Parser) triples() error {
	if p.c.peek() == '[' && !p.anonAhead() {
		subject, err := p.blankNodePropertyList()
		if err != nil {
			return err
		}
		p.c.skipWS()
		if ch := p.c.peek(); ch == '.' || ch == '}' || p.c.atEOF() {
			return nil
		}
		return p.predicateObjectList(subject)
	}
	subject, err := p.subject()
	if err != nil {
		return err
	}
	return p.predicateObjectList(subject)
}

func (p *Parser) subject() (rdf.Term, error) {
	p.c.skipWS()
	switch ch := p.c.peek(); {
	case ch == '<' || ch == ':' || isPNCharsBase(p.c.peekRune(0)):
		return p.iri()
	case ch == '_':
		return p.blankNode()
	case ch == '[':
		return p.blankNodePropertyList()
	case ch == '(':
		return p.collection()
	case ch == '"' || ch == '\'':
		return nil, p.c.errorf("literal not allowed as subject")
	case p.c.atEOF():
		return nil, p.c.errorf("expected subject, found end of document")
	}
	return nil, p.c.errorf("expected subject, found '%c'", p.c.peekRune(0))
}

func (p *Parser) predicateObjectList(subject rdf.Term) error {
	for {
		p.c.skipWS()
		predicate, err := p.verb()
		if err != nil {
			return err
		}
		if err := p.objectList(subject, predicate); err != nil {
			return err
		}
		p.c.skipWS()
		if !p.c.consume(';') {
			return nil
		}
		for p.c.skipWS(); p.c.consume(';'); p.c.skipWS() {
		}
		if ch := p.c.peek(); ch == '.' || ch == ']' || ch == '}' || p.c.atEOF() {
			return nil
		}
	}
}

func (p *Parser) verb() (rdf.IRI, error) {
	if p.c.keyword("a", false) {
		return p.ValueFactory().CreateIRI(rdfType), nil
	}
	switch ch := p.c.peek(); {
	case ch == '<' || ch == ':' || isPNCharsBase(p.c.peekRune(0)):
		return p.iri()
	case ch == '_' || ch == '[':
		return rdf.IRI{}, p.c.errorf("blank node not allowed as predicate")
	case ch == '"' || ch == '\'':
		return rdf.IRI{}, p.c.errorf("literal not allowed as predicate")
	case p.c.atEOF():
		return rdf.IRI{}, p.c.errorf("expected predicate, found end of document")
	}
	return rdf.IRI{}, p.c.errorf("expected predicate, found '%c'", p.c.peekRune(0))
}

func (p *Parser) objectList(subject rdf.Term, predicate rdf.IRI) error {
	for {
		p.c.skipWS()
		object, err := p.object()
		if err != nil {
			return err
		}
		if err := p.emit(subject, predicate, object); err != nil {
			return err
		}
		p.c.skipWS()
		if !p.c.consume(',') {
			return nil
		}
	}
}

func (p *Parser) object() (rdf.Term, error) {
	switch ch := p.c.peek(); {
	case ch == '<' || ch == ':':
		return p.iri()
	case ch == '_':
		return p.blankNode()
	case ch == '[':
		return p.blankNodePropertyList()
	case ch == '(':
		return p.collection()
	case ch == '"' || ch == '\'':
		return p.literal()
	case ch == '+' || ch == '-' || ch == '.' || (ch >= '0' && ch <= '9'):
		pos := p.c.pos
		lexical, datatype, ok := p.c.number()
		if !ok {
			return nil, p.c.errorf("invalid number")
		}
		return p.typed(lexical, datatype, pos)
	case p.c.keyword("true", false):
		return p.typed("true", xsdBoolean, p.c.pos-4)
	case p.c.keyword("false", false):
		return p.typed("false", xsdBoolean, p.c.pos-5)
	case isPNCharsBase(p.c.peekRune(0)):
		return p.iri()
	case p.c.atEOF():
		return nil, p.c.errorf("expected object, found end of document")
	}
	return nil, p.c.errorf("expected object, found '%c'", p.c.peekRune(0))
}

func (p *Parser) typed(lexical, datatype string, pos int) (rdf.Term, error) {
	line, col := p.c.loc(pos)
	return p.CreateLiteral(lexical, "", p.ValueFactory().CreateIRI(datatype), line, col)
}

// iri reads IRIREF or a prefixed name.
func (p *Parser) iri() (rdf.IRI, error) {
	pos := p.c.pos
	if p.c.peek() == '<' {
		ref, err := p.c.iriRef()
		if err != nil {
			return rdf.IRI{}, err
		}
		line, col := p.c.loc(pos)
		return p.ResolveIRI(ref, line, col)
	}
	prefix, local, err := p.c.prefixedName()
	if err != nil {
		return rdf.IRI{}, err
	}
	ns, ok := p.prefixes[prefix]
	if !ok {
		return rdf.IRI{}, p.c.errorAt(pos, "undefined prefix %q", prefix)
	}
	line, col := p.c.loc(pos)
	return p.CreateIRI(ns+local, line, col)
}

func (p *Parser) blankNode() (rdf.Term, error) {
	label, err := p.c.blankLabel()
	if err != nil {
		return nil, err
	}
	return p.CreateBNode(label), nil
}

func (p *Parser) literal() (rdf.Term, error) {
	pos := p.c.pos
	lexical, err := p.c.quotedString()
	if err != nil {
		return nil, err
	}
	line, col := p.c.loc(pos)
	switch {
	case p.c.peek() == '@':
		lang, err := p.c.langTag()
		if err != nil {
			return nil, err
		}
		return p.CreateLiteral(lexical, lang, rdf.IRI{}, line, col)
	case p.c.peek() == '^' && p.c.peekAt(1) == '^':
		p.c.pos += 2
		datatype, err := p.iri()
		if err != nil {
			return nil, err
		}
		return p.CreateLiteral(lexical, "", datatype, line, col)
	}
	return p.CreateLiteral(lexical, "", rdf.IRI{}, line, col)
}

// blankNodePropertyList reads '[' predicateObjectList? ']', reporting the
// nested statements, and returns the node they describe.
func (p *Parser) blankNodePropertyList() (rdf.Term, error) {
	if err := p.c.expect('['); err != nil {
		return nil, err
	}
	node := p.CreateBNode("")
	p.c.skipWS()
	if p.c.consume(']') {
		return node, nil
	}
	if err := p.predicateObjectList(node); err != nil {
		return nil, err
	}
	p.c.skipWS()
	if err := p.c.expect(']'); err != nil {
		return nil, err
	}
	return node, nil
}

// collection reads '(' object* ')' as an rdf:first/rdf:rest list and returns
// its head, rdf:nil for an empty list.
func (p *Parser) collection() (rdf.Term, error) {
	if err := p.c.expect('('); err != nil {
		return nil, err
	}
	vf := p.ValueFactory()
	first, rest, nilList := vf.CreateIRI(rdfFirst), vf.CreateIRI(rdfRest), vf.CreateIRI(rdfNil)
	var head, node rdf.Term = nilList, nil
	for {
		p.c.skipWS()
		if p.c.consume(')') {
			break
		}
		if p.c.atEOF() {
			return nil, p.c.errorf("expected ')' at end of collection")
		}
		item, err := p.object()
		if err != nil {
			return nil, err
		}
		next := p.CreateBNode("")
		if node == nil {
			head = next
		} else if err := p.emit(node, rest, next); err != nil {
			return nil, err
		}
		node = next
		if err := p.emit(node, first, item); err != nil {
			return nil, err
		}
	}
	if node != nil {
		if err := p.emit(node, rest, nilList); err != nil {
			return nil, err
		}
	}
	return head, nil
}

func (p *Parser) emit(subject rdf.Term, predicate rdf.IRI, object rdf.Term) error {
	if err := p.flushComments(); err != nil {
		return err
	}
	return p.EmitStatement(p.ValueFactory().CreateStatement(subject, predicate, object, p.graph))
}

func (p *Parser) flushComments() error {
	for len(p.c.comments) > 0 {
		text := p.c.comments[0]
		p.c.comments = p.c.comments[1:]
		if err := p.EmitComment(text); err != nil {
			return err
		}
	}
	return nil
}
