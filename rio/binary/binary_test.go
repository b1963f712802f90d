package binary

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
)

func iri(v string) rdf.IRI { return rdf.IRI{Value: v} }

func sample() []rdf.Statement {
	s := iri("http://example.org/s")
	return []rdf.Statement{
		{Subject: s, Predicate: iri("http://example.org/p"), Object: iri("http://example.org/o")},
		{Subject: rdf.BlankNode{ID: "x"}, Predicate: iri("http://example.org/p"), Object: rdf.Literal{Lexical: "hi", Lang: "en"}, Context: iri("http://example.org/g")},
		{Subject: s, Predicate: iri("http://example.org/n"), Object: rdf.Literal{Lexical: "5", Datatype: iri("http://www.w3.org/2001/XMLSchema#int")}, Context: rdf.BlankNode{ID: "g2"}},
		{Subject: s, Predicate: iri("http://example.org/v"), Object: rdf.Literal{Lexical: "plain"}},
	}
}

func encode(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.StartRDF())
	require.NoError(t, w.HandleNamespace("ex", "http://example.org/"))
	for i, st := range sample() {
		require.NoError(t, w.HandleStatement(st))
		if i == 0 {
			require.NoError(t, w.HandleComment("after first"))
			require.NoError(t, w.HandleNamespace("xsd", "http://www.w3.org/2001/XMLSchema#"))
		}
	}
	require.NoError(t, w.EndRDF())
	return buf.Bytes()
}

type events struct {
	*rio.StatementCollector
	comments []string
}

func (e *events) HandleComment(text string) error {
	e.comments = append(e.comments, text)
	return nil
}

func decode(t *testing.T, data []byte) (*rdf.Model, []string, error) {
	t.Helper()
	p := NewParser()
	cfg := rio.NewParserConfig()
	rio.Set(cfg, rio.BasicParserSettings.PreserveBNodeIDs, true)
	require.NoError(t, p.SetConfig(cfg))
	h := &events{StatementCollector: rio.NewStatementCollector(nil)}
	p.SetHandler(h)
	err := p.Parse(bytes.NewReader(data), "")
	return h.Model(), h.comments, err
}

func TestRoundTrip(t *testing.T) {
	m, comments, err := decode(t, encode(t))
	require.NoError(t, err)
	require.Equal(t, sample(), m.Statements())
	require.Equal(t, []rdf.Namespace{
		{Prefix: "ex", Name: "http://example.org/"},
		{Prefix: "xsd", Name: "http://www.w3.org/2001/XMLSchema#"},
	}, m.Namespaces())
	require.Equal(t, []string{"after first"}, comments)
}

func TestDeterministicEncoding(t *testing.T) {
	require.Equal(t, encode(t), encode(t))
}

func TestRelabelBlankNodes(t *testing.T) {
	p := NewParser()
	c := rio.NewStatementCollector(nil)
	p.SetHandler(c)
	require.NoError(t, p.Parse(bytes.NewReader(encode(t)), ""))
	sts := c.Model().Statements()
	b, ok := sts[1].Subject.(rdf.BlankNode)
	require.True(t, ok)
	require.NotEqual(t, "x", b.ID)
}

func record(t *testing.T, items ...any) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := newEncoder(&buf)
	for _, it := range items {
		require.NoError(t, enc.Encode(it))
	}
	return buf.Bytes()
}

func TestParseErrors(t *testing.T) {
	hdr := header{Magic: magic, Version: version}
	iriTerm := term{Kind: uint8(rdf.TermIRI), Value: "http://e.org/x"}
	litTerm := term{Kind: uint8(rdf.TermLiteral), Value: "v"}
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty input", data: nil},
		{name: "bad magic", data: record(t, header{Magic: "XXXX", Version: 1})},
		{name: "bad version", data: record(t, header{Magic: magic, Version: 9})},
		{name: "missing end", data: record(t, hdr)},
		{name: "unknown record", data: record(t, hdr, []any{uint64(7)})},
		{name: "empty record", data: record(t, hdr, []any{})},
		{name: "short statement", data: record(t, hdr, []any{recordStatement, iriTerm})},
		{name: "literal predicate", data: record(t, hdr, []any{recordStatement, iriTerm, litTerm, iriTerm, nil}, []any{recordEnd})},
		{name: "unknown term kind", data: record(t, hdr, []any{recordStatement, term{Kind: 9}, iriTerm, iriTerm, nil}, []any{recordEnd})},
		{name: "truncated", data: encode(t)[:20]},
		{name: "not cbor", data: []byte{0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := decode(t, tt.data)
			require.ErrorIs(t, err, rio.ErrParse)
			var rerr *rio.Error
			require.ErrorAs(t, err, &rerr)
			require.Equal(t, "BinaryRDF", rerr.Format)
		})
	}
}

func TestMinimalDocument(t *testing.T) {
	m, _, err := decode(t, record(t, header{Magic: magic, Version: version}, []any{recordEnd}))
	require.NoError(t, err)
	require.Zero(t, m.Len())
}

func TestWriterHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.StartRDF())
	require.NoError(t, w.EndRDF())
	diag, rest, err := cbor.DiagnoseFirst(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, `["BRDF", 1]`, diag)
	require.Equal(t, []byte{0x81, 0x00}, rest)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriterErrors(t *testing.T) {
	w := NewWriter(failingWriter{})
	require.NoError(t, w.StartRDF())
	require.ErrorIs(t, w.EndRDF(), rio.ErrIO)

	w = NewWriter(&bytes.Buffer{})
	require.ErrorIs(t, w.HandleStatement(sample()[0]), rio.ErrHandler)
	require.NoError(t, w.StartRDF())
	require.ErrorIs(t, w.HandleStatement(rdf.Statement{}), rio.ErrHandler)
}

func TestFactories(t *testing.T) {
	require.True(t, NewParserFactory().NewParser().Format().Equal(rio.BinaryRDF))
	require.True(t, NewWriterFactory().NewWriter(&bytes.Buffer{}).Format().Equal(rio.BinaryRDF))
}
