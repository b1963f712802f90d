// Package rdfxml reads and writes RDF/XML.
package rdfxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
)

const (
	rdfNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	xmlNS  = "http://www.w3.org/XML/1998/namespace"
	xmlLit = rdfNS + "XMLLiteral"
)

type syntaxError struct {
	line, col int
	msg       string
}

func (e *syntaxError) Error() string { return e.msg }

// scope is the xml:base and xml:lang in effect for an element.
type scope struct {
	base string
	lang string
}

// Parser reads RDF/XML: node elements with rdf:about, rdf:ID or rdf:nodeID,
// typed node elements, property attributes, rdf:resource and rdf:nodeID
// objects, nested node elements, rdf:parseType Resource, Literal and
// Collection, rdf:li numbering and reification through rdf:ID on property
// elements. Namespace declarations are reported as they are met. Contexts are
// never produced.
type Parser struct {
	rio.ParserBase
	dec *xml.Decoder
	// namespace URI to the prefix last bound to it
	prefixOf map[string]string
}

// NewParser returns an RDF/XML parser.
func NewParser() *Parser {
	return &Parser{ParserBase: rio.NewParserBase(rio.RDFXML)}
}

// NewParserFactory returns the RDF/XML parser factory.
func NewParserFactory() rio.ParserFactory {
	return rio.NewParserFactory(rio.RDFXML, func() rio.Parser { return NewParser() })
}

func (p *Parser) Parse(r io.Reader, baseURI string) error {
	p.BeginParse(baseURI)
	p.dec = xml.NewDecoder(r)
	p.dec.CharsetReader = charsetReader
	p.prefixOf = map[string]string{xmlNS: "xml"}
	if err := p.StartRDF(); err != nil {
		return err
	}
	if err := p.document(scope{base: baseURI}); err != nil {
		return p.fail(err)
	}
	return p.EndRDF()
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	if rio.IsUTF8Compatible(label) {
		return input, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder().Reader(input), nil
}

func (p *Parser) fail(err error) error {
	var serr *syntaxError
	var xerr *xml.SyntaxError
	switch {
	case errors.As(err, &serr):
		return p.ReportFatal(serr.msg, serr.line, serr.col)
	case errors.As(err, &xerr):
		return p.ReportFatal(xerr.Msg, xerr.Line, 0)
	case errors.Is(err, io.ErrUnexpectedEOF):
		line, col := p.dec.InputPos()
		return p.ReportFatal("unexpected end of document", line, col)
	}
	var rerr *rio.Error
	if errors.As(err, &rerr) {
		return err
	}
	return rio.IOError(p.Format().Name(), err)
}

func (p *Parser) errorf(format string, args ...any) error {
	line, col := p.dec.InputPos()
	return &syntaxError{line: line, col: col, msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) document(sc scope) error {
	seenRoot := false
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			if !seenRoot {
				return p.errorf("no root element")
			}
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if seenRoot {
				return p.errorf("more than one root element")
			}
			seenRoot = true
			p.ReportLocation(p.dec.InputPos())
			if isRDF(t.Name, "RDF") {
				inner, err := p.enter(t, sc)
				if err != nil {
					return err
				}
				if err := p.nodeElementList(inner); err != nil {
					return err
				}
				continue
			}
			if _, err := p.nodeElement(t, sc); err != nil {
				return err
			}
		case xml.CharData:
			if seenRoot && !isWhitespace(t) {
				return p.errorf("text after root element")
			}
		}
	}
}

func (p *Parser) nodeElementList(sc scope) error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p.ReportLocation(p.dec.InputPos())
			if _, err := p.nodeElement(t, sc); err != nil {
				return err
			}
		case xml.CharData:
			if !isWhitespace(t) {
				return p.errorf("text not allowed in rdf:RDF")
			}
		case xml.EndElement:
			return nil
		}
	}
}

// enter applies the element's xml:base, xml:lang and namespace declarations.
func (p *Parser) enter(el xml.StartElement, sc scope) (scope, error) {
	for _, attr := range el.Attr {
		switch {
		case attr.Name.Space == "xmlns":
			p.prefixOf[attr.Value] = attr.Name.Local
			if err := p.EmitNamespace(attr.Name.Local, attr.Value); err != nil {
				return sc, err
			}
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			p.prefixOf[attr.Value] = ""
			if err := p.EmitNamespace("", attr.Value); err != nil {
				return sc, err
			}
		case isXML(attr.Name, "base"):
			sc.base = rdf.ResolveIRI(sc.base, attr.Value)
			if i := strings.IndexByte(sc.base, '#'); i >= 0 {
				sc.base = sc.base[:i]
			}
		case isXML(attr.Name, "lang"):
			sc.lang = attr.Value
		}
	}
	return sc, nil
}

// nodeElement reads a node element and its property elements and returns its subject.
func (p *Parser) nodeElement(el xml.StartElement, outer scope) (rdf.Term, error) {
	sc, err := p.enter(el, outer)
	if err != nil {
		return nil, err
	}
	if el.Name.Space == "" {
		return nil, p.errorf("node element %s has no namespace", el.Name.Local)
	}
	if isRDF(el.Name, "RDF") || isRDF(el.Name, "li") || isRDF(el.Name, "parseType") {
		return nil, p.errorf("rdf:%s is not allowed as a node element", el.Name.Local)
	}
	subject, err := p.subject(el, sc)
	if err != nil {
		return nil, err
	}
	if !isRDF(el.Name, "Description") {
		if err := p.emit(subject, rdf.IRI{Value: rdfNS + "type"}, p.ValueFactory().CreateIRI(el.Name.Space+el.Name.Local)); err != nil {
			return nil, err
		}
	}
	if err := p.propertyAttributes(el.Attr, subject, sc); err != nil {
		return nil, err
	}
	li := 0
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.propertyElement(t, subject, sc, &li); err != nil {
				return nil, err
			}
		case xml.CharData:
			if !isWhitespace(t) {
				return nil, p.errorf("text not allowed in node element %s", el.Name.Local)
			}
		case xml.EndElement:
			return subject, nil
		}
	}
}

func (p *Parser) subject(el xml.StartElement, sc scope) (rdf.Term, error) {
	about, hasAbout := attr(el.Attr, "about")
	id, hasID := attr(el.Attr, "ID")
	nodeID, hasNodeID := attr(el.Attr, "nodeID")
	count := 0
	for _, has := range []bool{hasAbout, hasID, hasNodeID} {
		if has {
			count++
		}
	}
	if count > 1 {
		return nil, p.errorf("rdf:about, rdf:ID and rdf:nodeID are mutually exclusive")
	}
	line, col := p.dec.InputPos()
	switch {
	case hasAbout:
		return p.resolve(sc, about, line, col)
	case hasID:
		return p.resolve(sc, "#"+id, line, col)
	case hasNodeID:
		return p.CreateBNode(nodeID), nil
	}
	return p.CreateBNode(""), nil
}

// propertyAttributes reports the non-syntax attributes of el as statements about subject.
func (p *Parser) propertyAttributes(attrs []xml.Attr, subject rdf.Term, sc scope) error {
	for _, a := range attrs {
		switch {
		case a.Name.Space == "xmlns", a.Name.Space == "" && a.Name.Local == "xmlns":
			continue
		case a.Name.Space == xmlNS || a.Name.Space == "xml":
			continue
		case a.Name.Space == "":
			line, col := p.dec.InputPos()
			p.ReportWarning("unqualified attribute "+a.Name.Local+" ignored", line, col)
			continue
		case a.Name.Space == rdfNS && isSyntaxAttr(a.Name.Local):
			continue
		}
		line, col := p.dec.InputPos()
		predicate := p.ValueFactory().CreateIRI(a.Name.Space + a.Name.Local)
		var object rdf.Term
		if a.Name.Space == rdfNS && a.Name.Local == "type" {
			iri, err := p.resolve(sc, a.Value, line, col)
			if err != nil {
				return err
			}
			object = iri
		} else {
			lit, err := p.CreateLiteral(a.Value, sc.lang, rdf.IRI{}, line, col)
			if err != nil {
				return err
			}
			object = lit
		}
		if err := p.emit(subject, predicate, object); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) propertyElement(el xml.StartElement, subject rdf.Term, outer scope, li *int) error {
	sc, err := p.enter(el, outer)
	if err != nil {
		return err
	}
	if el.Name.Space == "" {
		return p.errorf("property element %s has no namespace", el.Name.Local)
	}
	if isRDF(el.Name, "Description") || isRDF(el.Name, "RDF") {
		return p.errorf("rdf:%s is not allowed as a property element", el.Name.Local)
	}
	line, col := p.dec.InputPos()
	vf := p.ValueFactory()
	predicate := vf.CreateIRI(el.Name.Space + el.Name.Local)
	if isRDF(el.Name, "li") {
		*li++
		predicate = vf.CreateIRI(rdfNS + "_" + strconv.Itoa(*li))
	}
	var reifyAs rdf.Term
	if id, ok := attr(el.Attr, "ID"); ok {
		if reifyAs, err = p.resolve(sc, "#"+id, line, col); err != nil {
			return err
		}
	}
	parseType, hasParseType := attr(el.Attr, "parseType")
	resource, hasResource := attr(el.Attr, "resource")
	nodeID, hasNodeID := attr(el.Attr, "nodeID")
	if hasParseType && (hasResource || hasNodeID) {
		return p.errorf("rdf:parseType cannot be used with rdf:resource or rdf:nodeID")
	}
	if hasResource && hasNodeID {
		return p.errorf("rdf:resource and rdf:nodeID are mutually exclusive")
	}

	var object rdf.Term
	switch {
	case hasParseType && parseType == "Resource":
		node := p.CreateBNode("")
		if err := p.statement(subject, predicate, node, reifyAs); err != nil {
			return err
		}
		inner := 0
		for {
			tok, err := p.dec.Token()
			if err != nil {
				return err
			}
			switch t := tok.(type) {
			case xml.StartElement:
				if err := p.propertyElement(t, node, sc, &inner); err != nil {
					return err
				}
			case xml.CharData:
				if !isWhitespace(t) {
					return p.errorf("text not allowed with rdf:parseType=\"Resource\"")
				}
			case xml.EndElement:
				return nil
			}
		}
	case hasParseType && parseType == "Collection":
		return p.collection(subject, predicate, sc, reifyAs)
	case hasParseType:
		content, err := p.literalXML()
		if err != nil {
			return err
		}
		lit, err := p.CreateLiteral(content, "", vf.CreateIRI(xmlLit), line, col)
		if err != nil {
			return err
		}
		return p.statement(subject, predicate, lit, reifyAs)
	case hasResource:
		if object, err = p.resolve(sc, resource, line, col); err != nil {
			return err
		}
	case hasNodeID:
		object = p.CreateBNode(nodeID)
	}

	text, node, err := p.content(sc)
	if err != nil {
		return err
	}
	hasPropAttrs := hasPropertyAttributes(el.Attr)
	switch {
	case node != nil:
		if object != nil || hasPropAttrs {
			return p.errorf("property element %s has both attributes and a node element", el.Name.Local)
		}
		object = node
	case object == nil && text == "" && hasPropAttrs:
		object = p.CreateBNode("")
	case object == nil:
		datatype := rdf.IRI{}
		if dt, ok := attr(el.Attr, "datatype"); ok {
			iri, err := p.resolve(sc, dt, line, col)
			if err != nil {
				return err
			}
			datatype = iri
		}
		lang := sc.lang
		if datatype.Value != "" {
			lang = ""
		}
		lit, err := p.CreateLiteral(text, lang, datatype, line, col)
		if err != nil {
			return err
		}
		object = lit
	case !isWhitespace([]byte(text)):
		return p.errorf("property element %s with an object attribute must be empty", el.Name.Local)
	}
	if err := p.statement(subject, predicate, object, reifyAs); err != nil {
		return err
	}
	if hasPropAttrs && object.Kind() != rdf.TermLiteral {
		return p.propertyAttributes(el.Attr, object, sc)
	}
	return nil
}

// content reads a property element's body: either text or one node element.
// Whitespace around a node element is dropped.
func (p *Parser) content(sc scope) (string, rdf.Term, error) {
	var text strings.Builder
	var node rdf.Term
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return "", nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if node != nil {
				return "", nil, p.errorf("property element holds more than one node element")
			}
			if !isWhitespace([]byte(text.String())) {
				return "", nil, p.errorf("property element mixes text and elements")
			}
			if node, err = p.nodeElement(t, sc); err != nil {
				return "", nil, err
			}
			text.Reset()
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if node != nil {
				if !isWhitespace([]byte(text.String())) {
					return "", nil, p.errorf("property element mixes text and elements")
				}
				return "", node, nil
			}
			return text.String(), nil, nil
		}
	}
}

func (p *Parser) collection(subject rdf.Term, predicate rdf.IRI, sc scope, reifyAs rdf.Term) error {
	var items []rdf.Term
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			item, err := p.nodeElement(t, sc)
			if err != nil {
				return err
			}
			items = append(items, item)
		case xml.CharData:
			if !isWhitespace(t) {
				return p.errorf("text not allowed with rdf:parseType=\"Collection\"")
			}
		case xml.EndElement:
			return p.list(subject, predicate, items, reifyAs)
		}
	}
}

func (p *Parser) list(subject rdf.Term, predicate rdf.IRI, items []rdf.Term, reifyAs rdf.Term) error {
	vf := p.ValueFactory()
	var head rdf.Term = vf.CreateIRI(rdfNS + "nil")
	nodes := make([]rdf.Term, len(items))
	for i := range items {
		nodes[i] = p.CreateBNode("")
	}
	if len(nodes) > 0 {
		head = nodes[0]
	}
	if err := p.statement(subject, predicate, head, reifyAs); err != nil {
		return err
	}
	for i, item := range items {
		if err := p.emit(nodes[i], vf.CreateIRI(rdfNS+"first"), item); err != nil {
			return err
		}
		var rest rdf.Term = vf.CreateIRI(rdfNS + "nil")
		if i+1 < len(nodes) {
			rest = nodes[i+1]
		}
		if err := p.emit(nodes[i], vf.CreateIRI(rdfNS+"rest"), rest); err != nil {
			return err
		}
	}
	return nil
}

// literalXML reads the body of an rdf:parseType="Literal" element back into
// XML text, writing names with the prefixes the document bound them to.
func (p *Parser) literalXML() (string, error) {
	var b strings.Builder
	depth := 0
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					p.prefixOf[a.Value] = a.Name.Local
				}
			}
			b.WriteByte('<')
			b.WriteString(p.qname(t.Name))
			for _, a := range t.Attr {
				b.WriteByte(' ')
				b.WriteString(p.qname(a.Name))
				b.WriteString(`="`)
				b.WriteString(escapeXML(a.Value))
				b.WriteByte('"')
			}
			b.WriteByte('>')
		case xml.EndElement:
			if depth == 0 {
				return b.String(), nil
			}
			depth--
			b.WriteString("</" + p.qname(t.Name) + ">")
		case xml.CharData:
			b.WriteString(escapeText(string(t)))
		case xml.Comment:
			b.WriteString("<!--" + string(t) + "-->")
		case xml.ProcInst:
			b.WriteString("<?" + t.Target + " " + string(t.Inst) + "?>")
		}
	}
}

// statement emits the triple and, when reifyAs is set, its reification.
func (p *Parser) statement(subject rdf.Term, predicate rdf.IRI, object rdf.Term, reifyAs rdf.Term) error {
	if err := p.emit(subject, predicate, object); err != nil {
		return err
	}
	if reifyAs == nil {
		return nil
	}
	vf := p.ValueFactory()
	for _, st := range [][2]rdf.Term{
		{vf.CreateIRI(rdfNS + "type"), vf.CreateIRI(rdfNS + "Statement")},
		{vf.CreateIRI(rdfNS + "subject"), subject},
		{vf.CreateIRI(rdfNS + "predicate"), predicate},
		{vf.CreateIRI(rdfNS + "object"), object},
	} {
		if err := p.emit(reifyAs, st[0].(rdf.IRI), st[1]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) emit(subject rdf.Term, predicate rdf.IRI, object rdf.Term) error {
	return p.EmitStatement(p.ValueFactory().CreateStatement(subject, predicate, object, nil))
}

func (p *Parser) resolve(sc scope, ref string, line, col int) (rdf.IRI, error) {
	return p.CreateIRI(rdf.ResolveIRI(sc.base, ref), line, col)
}

func attr(attrs []xml.Attr, local string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Space == rdfNS && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func hasPropertyAttributes(attrs []xml.Attr) bool {
	for _, a := range attrs {
		switch {
		case a.Name.Space == "", a.Name.Space == "xmlns", a.Name.Space == xmlNS, a.Name.Space == "xml":
		case a.Name.Space == rdfNS && isSyntaxAttr(a.Name.Local):
		default:
			return true
		}
	}
	return false
}

func isSyntaxAttr(local string) bool {
	switch local {
	case "about", "ID", "nodeID", "resource", "datatype", "parseType", "aboutEach", "aboutEachPrefix", "bagID":
		return true
	}
	return false
}

func isRDF(name xml.Name, local string) bool { return name.Space == rdfNS && name.Local == local }

func isXML(name xml.Name, local string) bool {
	return (name.Space == xmlNS || name.Space == "xml") && name.Local == local
}

func isWhitespace(b []byte) bool { return strings.TrimSpace(string(b)) == "" }

func (p *Parser) qname(n xml.Name) string {
	switch n.Space {
	case "":
		return n.Local
	case "xmlns":
		return "xmlns:" + n.Local
	}
	if prefix := p.prefixOf[n.Space]; prefix != "" {
		return prefix + ":" + n.Local
	}
	return n.Local
}
