package yars

import (
	"errors"
	"io"
	"strings"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
)

// Parser reads the YARS graph notation:
//
//	@base <http://example.org/>
//	@prefix foaf: <http://xmlns.com/foaf/0.1/>
//	(alice{foaf:name:'Alice', age:'42'^^int})
//	(alice)-[knows]->(bob{name:'Bob'@en})
//
// Node properties become literal or resource statements about the node; an edge
// becomes one statement from the left node to the right node. A NAME followed by
// ':' and a declared prefix is read as a prefixed name, so a declared prefix
// shadows the bare NAME in front of a property value that is itself a NAME.
type Parser struct {
	rio.ParserBase
	s        *scanner
	prefixes map[string]string
}

// NewParser returns a YARS parser.
func NewParser() *Parser {
	return &Parser{ParserBase: rio.NewParserBase(rio.YARS, CaseInsensitiveDirectives, FailOnUnknownDirectives)}
}

// NewParserFactory returns the YARS parser factory.
func NewParserFactory() rio.ParserFactory {
	return rio.NewParserFactory(rio.YARS, func() rio.Parser { return NewParser() })
}

func (p *Parser) Parse(r io.Reader, baseURI string) error {
	p.BeginParse(baseURI)
	p.s = newScanner(r)
	p.prefixes = make(map[string]string)
	if err := p.StartRDF(); err != nil {
		return err
	}
	if err := p.document(); err != nil {
		return p.fail(err)
	}
	if p.s.err != nil {
		return rio.IOError(p.Format().Name(), p.s.err)
	}
	return p.EndRDF()
}

func (p *Parser) fail(err error) error {
	if p.s.err != nil {
		return rio.IOError(p.Format().Name(), p.s.err)
	}
	var serr *syntaxError
	if errors.As(err, &serr) {
		return p.ReportFatal(serr.msg, serr.line, serr.col)
	}
	return err
}

func (p *Parser) document() error {
	for {
		if err := p.s.skipTrivia(p.EmitComment); err != nil {
			return err
		}
		p.ReportLocation(p.s.line, p.s.col)
		switch r := p.s.peek(); r {
		case eof:
			return nil
		case '@':
			if err := p.directive(); err != nil {
				return err
			}
		case '(':
			if err := p.element(); err != nil {
				return err
			}
		default:
			return p.s.errorf("expected '(' or directive, found %s", describe(r))
		}
	}
}

func (p *Parser) directive() error {
	line, col := p.s.line, p.s.col
	p.s.read()
	keyword, err := p.s.name()
	if err != nil {
		return err
	}
	switch {
	case p.isKeyword(keyword, "base"):
		p.s.skipSpace()
		iri, err := p.s.iriRef()
		if err != nil {
			return err
		}
		p.SetBaseURI(rdf.ResolveIRI(p.BaseURI(), iri))
		return nil
	case p.isKeyword(keyword, "prefix"):
		return p.prefixDirective()
	}
	if err := p.ReportError(FailOnUnknownDirectives, "unknown directive @"+keyword, line, col); err != nil {
		return err
	}
	p.s.restOfLine()
	return nil
}

func (p *Parser) isKeyword(keyword, want string) bool {
	if keyword == want {
		return true
	}
	return rio.Get(p.Config(), CaseInsensitiveDirectives) && strings.EqualFold(keyword, want)
}

// prefixDirective parses "PREFIX? ':' IRIREF" after @prefix.
func (p *Parser) prefixDirective() error {
	p.s.skipSpace()
	var prefix string
	if p.s.peek() != ':' {
		name, err := p.s.name()
		if err != nil {
			return err
		}
		prefix = name
	}
	if err := p.s.expect(':'); err != nil {
		return err
	}
	p.s.skipSpace()
	iri, err := p.s.iriRef()
	if err != nil {
		return err
	}
	name := rdf.ResolveIRI(p.BaseURI(), iri)
	p.prefixes[prefix] = name
	return p.EmitNamespace(prefix, name)
}

func (p *Parser) element() error {
	subject, err := p.node()
	if err != nil {
		return err
	}
	p.s.skipSpace()
	if p.s.peek() != '-' {
		return nil
	}
	p.s.read()
	if err := p.s.expect('['); err != nil {
		return err
	}
	p.s.skipSpace()
	line, col := p.s.line, p.s.col
	pred, err := p.predicate()
	if err != nil {
		return err
	}
	p.s.skipSpace()
	if err := p.s.expectString("]->"); err != nil {
		return err
	}
	p.s.skipSpace()
	object, err := p.node()
	if err != nil {
		return err
	}
	p.ReportLocation(line, col)
	return p.EmitStatement(p.ValueFactory().CreateStatement(subject, pred, object, nil))
}

// node parses "(ident{props})" and emits the property statements.
func (p *Parser) node() (rdf.Term, error) {
	if err := p.s.expect('('); err != nil {
		return nil, err
	}
	p.s.skipSpace()
	subject, err := p.ident()
	if err != nil {
		return nil, err
	}
	p.s.skipSpace()
	if p.s.peek() == '{' {
		p.s.read()
		if err := p.props(subject); err != nil {
			return nil, err
		}
	}
	p.s.skipSpace()
	if err := p.s.expect(')'); err != nil {
		return nil, err
	}
	return subject, nil
}

func (p *Parser) props(subject rdf.Term) error {
	for {
		p.s.skipSpace()
		t, separated, err := p.qualifiedIdent()
		if err != nil {
			return err
		}
		pred, err := p.asPredicate(t)
		if err != nil {
			return err
		}
		if !separated {
			p.s.skipSpace()
			if err := p.s.expect(':'); err != nil {
				return err
			}
		}
		p.s.skipSpace()
		object, err := p.value()
		if err != nil {
			return err
		}
		if err := p.EmitStatement(p.ValueFactory().CreateStatement(subject, pred, object, nil)); err != nil {
			return err
		}
		p.s.skipSpace()
		switch r := p.s.read(); r {
		case ',':
		case '}':
			return nil
		default:
			return p.s.errorf("expected ',' or '}', found %s", describe(r))
		}
	}
}

func (p *Parser) predicate() (rdf.IRI, error) {
	t, err := p.ident()
	if err != nil {
		return rdf.IRI{}, err
	}
	return p.asPredicate(t)
}

func (p *Parser) asPredicate(t rdf.Term) (rdf.IRI, error) {
	iri, ok := t.(rdf.IRI)
	if !ok {
		return rdf.IRI{}, p.s.errorf("predicate must be an IRI, found %s", t)
	}
	return iri, nil
}

// ident parses NAME, PREFIX:NAME, <IRI> or _:label.
func (p *Parser) ident() (rdf.Term, error) {
	t, separated, err := p.qualifiedIdent()
	if err != nil {
		return nil, err
	}
	if separated {
		return nil, p.s.errorf("expected name after ':'")
	}
	return t, nil
}

// qualifiedIdent parses an ident. When NAME is a declared prefix but the ':'
// after it is not followed by a local name, the ':' is taken as the property
// separator and separated is true.
func (p *Parser) qualifiedIdent() (t rdf.Term, separated bool, err error) {
	line, col := p.s.line, p.s.col
	if p.s.peek() == '<' {
		iri, err := p.s.iriRef()
		if err != nil {
			return nil, false, err
		}
		t, err := p.ResolveIRI(iri, line, col)
		return t, false, err
	}
	if p.s.peek() == ':' {
		ns, ok := p.prefixes[""]
		if !ok {
			return nil, false, p.s.errorf("undeclared empty prefix")
		}
		p.s.read()
		local, err := p.s.name()
		if err != nil {
			return nil, false, err
		}
		t, err := p.CreateIRI(ns+local, line, col)
		return t, false, err
	}
	name, err := p.s.name()
	if err != nil {
		return nil, false, err
	}
	if name == "_" && p.s.peek() == ':' {
		p.s.read()
		label, err := p.s.name()
		if err != nil {
			return nil, false, err
		}
		return p.CreateBNode(label), false, nil
	}
	if ns, ok := p.prefixes[name]; ok && p.s.peek() == ':' {
		p.s.read()
		if !isNameStart(p.s.peek()) {
			t, err := p.ResolveIRI(name, line, col)
			return t, true, err
		}
		local, err := p.s.name()
		if err != nil {
			return nil, false, err
		}
		t, err := p.CreateIRI(ns+local, line, col)
		return t, false, err
	}
	t, err = p.ResolveIRI(name, line, col)
	return t, false, err
}

func (p *Parser) value() (rdf.Term, error) {
	if r := p.s.peek(); r != '\'' && r != '"' {
		return p.ident()
	}
	line, col := p.s.line, p.s.col
	lexical, err := p.s.quoted()
	if err != nil {
		return nil, err
	}
	var lang string
	var datatype rdf.IRI
	switch p.s.peek() {
	case '@':
		p.s.read()
		if lang = p.s.langTag(); lang == "" {
			return nil, p.s.errorf("language tag missing")
		}
	case '^':
		p.s.read()
		if err := p.s.expect('^'); err != nil {
			return nil, err
		}
		dt, err := p.ident()
		if err != nil {
			return nil, err
		}
		iri, ok := dt.(rdf.IRI)
		if !ok {
			return nil, p.s.errorf("datatype must be an IRI")
		}
		datatype = iri
	}
	return p.CreateLiteral(lexical, lang, datatype, line, col)
}
