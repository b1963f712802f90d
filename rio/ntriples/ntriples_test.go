package ntriples

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, p *Parser, input string) (*rdf.Model, error) {
	t.Helper()
	collector := rio.NewStatementCollector(nil)
	p.SetHandler(collector)
	err := p.Parse(strings.NewReader(input), "")
	return collector.Model(), err
}

func preserving() *rio.ParserConfig {
	cfg := rio.NewParserConfig()
	rio.Set(cfg, rio.BasicParserSettings.PreserveBNodeIDs, true)
	return cfg
}

func TestParseTerms(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.SetConfig(preserving()))
	input := `# leading comment
<http://example.org/s> <http://example.org/p> <http://example.org/o> .
_:b1 <http://example.org/p> "plain" .
_:b1 <http://example.org/p> "hi"@en-GB .
<http://example.org/s> <http://example.org/p> "1"^^<http://www.w3.org/2001/XMLSchema#integer> .

<http://example.org/s> <http://example.org/p> "tab\tquote\"\u00e9\U0001F600" . # trailing
`
	m, err := parseString(t, p, input)
	require.NoError(t, err)
	sts := m.Statements()
	require.Len(t, sts, 5)
	require.Equal(t, rdf.IRI{Value: "http://example.org/o"}, sts[0].Object)
	require.Equal(t, rdf.BlankNode{ID: "b1"}, sts[1].Subject)
	require.Equal(t, rdf.Literal{Lexical: "plain"}, sts[1].Object)
	require.Equal(t, rdf.Literal{Lexical: "hi", Lang: "en-GB"}, sts[2].Object)
	require.Equal(t, "http://www.w3.org/2001/XMLSchema#integer", sts[3].Object.(rdf.Literal).Datatype.Value)
	require.Equal(t, "tab\tquote\"é😀", sts[4].Object.(rdf.Literal).Lexical)
	for _, st := range sts {
		require.False(t, st.HasContext())
	}
}

func TestParseNQuadsContexts(t *testing.T) {
	p := NewNQuadsParser()
	require.NoError(t, p.SetConfig(preserving()))
	m, err := parseString(t, p, `<http://e.org/s> <http://e.org/p> "o" <http://e.org/g> .
<http://e.org/s> <http://e.org/p> "o" _:g .
<http://e.org/s> <http://e.org/p> "o" .
`)
	require.NoError(t, err)
	require.Equal(t, []rdf.Term{rdf.IRI{Value: "http://e.org/g"}, rdf.BlankNode{ID: "g"}}, m.Contexts())
	require.False(t, m.Statements()[2].HasContext())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		quads bool
		input string
		line  int
	}{
		{name: "missing dot", input: "<http://e.org/s> <http://e.org/p> <http://e.org/o>\n", line: 1},
		{name: "literal subject", input: "\"s\" <http://e.org/p> <http://e.org/o> .\n", line: 1},
		{name: "graph in n-triples", input: "<http://e.org/s> <http://e.org/p> <http://e.org/o> <http://e.org/g> .\n", line: 1},
		{name: "unterminated literal", input: "<http://e.org/s> <http://e.org/p> \"abc .\n", line: 1},
		{name: "bad escape", input: "<http://e.org/s> <http://e.org/p> \"a\\qb\" .\n", line: 1},
		{name: "second line", input: "<http://e.org/s> <http://e.org/p> <http://e.org/o> .\n<http://e.org/s> <p\n", line: 2},
		{name: "trailing junk", quads: true, input: "<http://e.org/s> <http://e.org/p> <http://e.org/o> <http://e.org/g> . x\n", line: 1},
		{name: "bad language tag", input: "<http://e.org/s> <http://e.org/p> \"x\"@123456789 .\n", line: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser()
			if tt.quads {
				p = NewNQuadsParser()
			}
			_, err := parseString(t, p, tt.input)
			require.ErrorIs(t, err, rio.ErrParse)
			var rerr *rio.Error
			require.ErrorAs(t, err, &rerr)
			require.Equal(t, tt.line, rerr.Line)
		})
	}
}

func TestInvalidLinesTolerated(t *testing.T) {
	cfg := rio.NewParserConfig()
	cfg.AddNonFatal(FailOnInvalidLines)
	p := NewParser()
	require.NoError(t, p.SetConfig(cfg))
	errs := rio.NewParseErrorCollector()
	p.SetErrorListener(errs)

	m, err := parseString(t, p, "garbage\n<http://e.org/s> <http://e.org/p> <http://e.org/o> .\n")
	require.NoError(t, err)
	require.Equal(t, 1, m.Len())
	require.Len(t, errs.Errors(), 1)

	cfg = rio.NewParserConfig()
	rio.Set(cfg, FailOnInvalidLines, false)
	require.NoError(t, p.SetConfig(cfg))
	errs.Reset()
	m, err = parseString(t, p, "garbage\n")
	require.NoError(t, err)
	require.Zero(t, m.Len())
	require.Len(t, errs.Warnings(), 1)
}

func TestMaxLineBytes(t *testing.T) {
	cfg := rio.NewParserConfig()
	rio.Set(cfg, MaxLineBytes, 32)
	p := NewParser()
	require.NoError(t, p.SetConfig(cfg))
	long := "<http://example.org/" + strings.Repeat("a", 64) + "> <http://e.org/p> <http://e.org/o> .\n"
	_, err := parseString(t, p, long)
	require.ErrorIs(t, err, rio.ErrParse)

	rio.Set(cfg, MaxLineBytes, 0)
	require.ErrorIs(t, p.SetConfig(cfg), rio.ErrConfiguration)
}

func TestBlankNodesRelabelledByDefault(t *testing.T) {
	m, err := parseString(t, NewParser(), "_:a <http://e.org/p> _:a .\n_:b <http://e.org/p> _:a .\n")
	require.NoError(t, err)
	sts := m.Statements()
	require.Equal(t, sts[0].Subject, sts[0].Object)
	require.Equal(t, sts[0].Subject, sts[1].Object)
	require.NotEqual(t, sts[0].Subject, sts[1].Subject)
	require.NotEqual(t, rdf.BlankNode{ID: "a"}, sts[0].Subject)
}

func TestCommentsReported(t *testing.T) {
	var comments []string
	p := NewParser()
	p.SetHandler(&commentHandler{comments: &comments})
	require.NoError(t, p.Parse(strings.NewReader("# one\n#two\n"), ""))
	require.Equal(t, []string{"one", "two"}, comments)
}

type commentHandler struct {
	rio.HandlerBase
	comments *[]string
}

func (h *commentHandler) HandleComment(text string) error {
	*h.comments = append(*h.comments, text)
	return nil
}

func writeAll(t *testing.T, w *Writer, sts []rdf.Statement) {
	t.Helper()
	require.NoError(t, w.StartRDF())
	require.NoError(t, w.HandleNamespace("ex", "http://example.org/"))
	for _, st := range sts {
		require.NoError(t, w.HandleStatement(st))
	}
	require.NoError(t, w.EndRDF())
}

func sampleStatements() []rdf.Statement {
	s := rdf.IRI{Value: "http://example.org/s"}
	p := rdf.IRI{Value: "http://example.org/p"}
	return []rdf.Statement{
		{Subject: s, Predicate: p, Object: rdf.IRI{Value: "http://example.org/o"}},
		{Subject: rdf.BlankNode{ID: "x1"}, Predicate: p, Object: rdf.Literal{Lexical: "line\nbreak \"quoted\" \\ é"}},
		{Subject: s, Predicate: p, Object: rdf.Literal{Lexical: "bonjour", Lang: "fr"}, Context: rdf.IRI{Value: "http://example.org/g"}},
		{Subject: s, Predicate: p, Object: rdf.Literal{Lexical: "5", Datatype: rdf.IRI{Value: "http://www.w3.org/2001/XMLSchema#int"}}, Context: rdf.BlankNode{ID: "g2"}},
	}
}

func TestNQuadsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	writeAll(t, NewNQuadsWriter(&buf), sampleStatements())

	p := NewNQuadsParser()
	require.NoError(t, p.SetConfig(preserving()))
	m, err := parseString(t, p, buf.String())
	require.NoError(t, err)
	require.Equal(t, sampleStatements(), m.Statements())
}

func TestNTriplesWriterDropsContexts(t *testing.T) {
	var buf bytes.Buffer
	writeAll(t, NewWriter(&buf), sampleStatements())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, `<http://example.org/s> <http://example.org/p> "bonjour"@fr .`, lines[2])
	require.Equal(t, `_:x1 <http://example.org/p> "line\nbreak \"quoted\" \\ é" .`, lines[1])
}

func TestWriterEscapeUnicode(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	cfg := rio.NewWriterConfig()
	rio.Set(cfg, EscapeUnicode, true)
	require.NoError(t, w.SetConfig(cfg))
	writeAll(t, w, []rdf.Statement{{
		Subject:   rdf.IRI{Value: "http://example.org/é"},
		Predicate: rdf.IRI{Value: "http://example.org/p"},
		Object:    rdf.Literal{Lexical: "😀"},
	}})
	require.Equal(t, "<http://example.org/\\u00E9> <http://example.org/p> \"\\U0001F600\" .\n", buf.String())
}

func TestWriterRejectsEventsOutOfOrder(t *testing.T) {
	w := NewWriter(&bytes.Buffer{})
	st := sampleStatements()[0]
	require.ErrorIs(t, w.HandleStatement(st), rio.ErrHandler)
	require.NoError(t, w.StartRDF())
	require.ErrorIs(t, w.StartRDF(), rio.ErrHandler)
	require.ErrorIs(t, w.HandleStatement(rdf.Statement{}), rio.ErrHandler)
}

func TestWriterComments(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.StartRDF())
	require.NoError(t, w.HandleComment("a\nb"))
	require.NoError(t, w.EndRDF())
	require.Equal(t, "# a\n# b\n", buf.String())
}

func TestFormatTerm(t *testing.T) {
	require.Equal(t, `"x"@en`, FormatTerm(rdf.Literal{Lexical: "x", Lang: "en"}))
	require.Equal(t, `<urn:a>`, FormatTerm(rdf.IRI{Value: "urn:a"}))
	require.Equal(t, `_:b`, FormatTerm(rdf.BlankNode{ID: "b"}))
}

func TestFactories(t *testing.T) {
	require.True(t, NewParserFactory().Format().Equal(rio.NTriples))
	require.True(t, NewNQuadsParserFactory().NewParser().Format().Equal(rio.NQuads))
	require.True(t, NewWriterFactory().NewWriter(&bytes.Buffer{}).Format().Equal(rio.NTriples))
	require.True(t, NewNQuadsWriterFactory().Format().Equal(rio.NQuads))
}
