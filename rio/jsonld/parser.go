package jsonld

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	ld "github.com/piprate/json-gold/ld"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
	"github.com/lszeremeta/sesame-rio-api/rio/ntriples"
)

const xsdString = "http://www.w3.org/2001/XMLSchema#string"

// Parser reads a JSON-LD document. The document is expanded to RDF by
// json-gold; prefixes declared in the top-level @context are reported as
// namespaces.
type Parser struct {
	rio.ParserBase
}

// NewParser returns a JSON-LD parser.
func NewParser() *Parser {
	return &Parser{ParserBase: rio.NewParserBase(rio.JSONLD, ProcessingMode)}
}

// NewParserFactory returns the JSON-LD parser factory.
func NewParserFactory() rio.ParserFactory {
	return rio.NewParserFactory(rio.JSONLD, func() rio.Parser { return NewParser() })
}

func (p *Parser) Parse(r io.Reader, baseURI string) error {
	p.BeginParse(baseURI)
	data, err := io.ReadAll(r)
	if err != nil {
		return rio.IOError(p.Format().Name(), err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		line, col := 0, 0
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			line, col = position(data, syn.Offset)
		}
		return p.ReportFatal("invalid JSON: "+err.Error(), line, col)
	}

	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions(baseURI)
	opts.ProcessingMode = rio.Get(p.Config(), ProcessingMode)
	result, err := proc.ToRDF(doc, opts)
	if err != nil {
		return p.ReportFatal(err.Error(), 0, 0)
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return &rio.Error{Code: rio.ErrCodeInternal, Format: p.Format().Name(), Msg: fmt.Sprintf("unexpected ToRDF result %T", result)}
	}
	serialized, err := (&ld.NQuadRDFSerializer{}).Serialize(dataset)
	if err != nil {
		return p.ReportFatal(err.Error(), 0, 0)
	}
	nquads, ok := serialized.(string)
	if !ok {
		return &rio.Error{Code: rio.ErrCodeInternal, Format: p.Format().Name(), Msg: fmt.Sprintf("unexpected N-Quads result %T", serialized)}
	}

	if err := p.StartRDF(); err != nil {
		return err
	}
	for _, ns := range contextNamespaces(doc) {
		if err := p.EmitNamespace(ns.Prefix, ns.Name); err != nil {
			return err
		}
	}

	inner := ntriples.NewNQuadsParser()
	cfg := rio.NewParserConfig()
	rio.Set(cfg, rio.BasicParserSettings.PreserveBNodeIDs, true)
	rio.Set(cfg, rio.BasicParserSettings.VerifyLanguageTags, false)
	if err := inner.SetConfig(cfg); err != nil {
		return err
	}
	inner.SetHandler(&bridge{p: p})
	if err := inner.Parse(strings.NewReader(nquads), ""); err != nil {
		return err
	}
	return p.EndRDF()
}

// bridge re-creates the statements json-gold produced with the outer parser's
// blank node mapping and literal checks.
type bridge struct {
	rio.HandlerBase
	p *Parser
}

func (b *bridge) HandleStatement(st rdf.Statement) error {
	s := b.term(st.Subject)
	o := st.Object
	if lit, ok := o.(rdf.Literal); ok {
		dt := lit.Datatype
		if dt.Value == xsdString {
			dt = rdf.IRI{}
		}
		l, err := b.p.CreateLiteral(lit.Lexical, lit.Lang, dt, 0, 0)
		if err != nil {
			return err
		}
		o = l
	} else {
		o = b.term(o)
	}
	var ctx rdf.Term
	if st.Context != nil {
		ctx = b.term(st.Context)
	}
	return b.p.EmitStatement(b.p.ValueFactory().CreateStatement(s, st.Predicate, o, ctx))
}

func (b *bridge) term(t rdf.Term) rdf.Term {
	if bn, ok := t.(rdf.BlankNode); ok {
		return b.p.CreateBNode(bn.ID)
	}
	return t
}

// contextNamespaces returns the prefix definitions of the top-level @context
// whose value is an IRI ending in '/' or '#', sorted by prefix.
func contextNamespaces(doc any) []rdf.Namespace {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	found := map[string]string{}
	var collect func(ctx any)
	collect = func(ctx any) {
		switch v := ctx.(type) {
		case []any:
			for _, item := range v {
				collect(item)
			}
		case map[string]any:
			for prefix, value := range v {
				name, ok := value.(string)
				if !ok || strings.HasPrefix(prefix, "@") {
					continue
				}
				if strings.HasSuffix(name, "/") || strings.HasSuffix(name, "#") {
					found[prefix] = name
				}
			}
		}
	}
	collect(root["@context"])

	out := make([]rdf.Namespace, 0, len(found))
	for prefix, name := range found {
		out = append(out, rdf.Namespace{Prefix: prefix, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}

func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	prefix := data[:offset]
	line := bytes.Count(prefix, []byte{'\n'}) + 1
	col := int(offset) - bytes.LastIndexByte(prefix, '\n')
	return line, col
}
