package yars

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, p *Parser, input, base string) (*rdf.Model, error) {
	t.Helper()
	c := rio.NewStatementCollector(nil)
	p.SetHandler(c)
	err := p.Parse(strings.NewReader(input), base)
	return c.Model(), err
}

func iri(v string) rdf.IRI { return rdf.IRI{Value: v} }

func TestParseNodesAndEdges(t *testing.T) {
	m, err := parse(t, NewParser(), "(a{v:'1'}) (b{v:'2'}) (a)-[p]->(b)", "")
	require.NoError(t, err)
	require.Equal(t, []rdf.Statement{
		{Subject: iri("a"), Predicate: iri("v"), Object: rdf.Literal{Lexical: "1"}},
		{Subject: iri("b"), Predicate: iri("v"), Object: rdf.Literal{Lexical: "2"}},
		{Subject: iri("a"), Predicate: iri("p"), Object: iri("b")},
	}, m.Statements())
	require.Empty(t, m.Contexts())
}

func TestWriteThenReparse(t *testing.T) {
	input := "(a{v:'1'}) (b{v:'2'}) (a)-[p]->(b)"
	first, err := parse(t, NewParser(), input, "")
	require.NoError(t, err)

	for _, pretty := range []bool{true, false} {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		cfg := rio.NewWriterConfig()
		rio.Set(cfg, rio.BasicWriterSettings.PrettyPrint, pretty)
		require.NoError(t, w.SetConfig(cfg))
		require.NoError(t, w.StartRDF())
		for st := range first.All() {
			require.NoError(t, w.HandleStatement(st))
		}
		require.NoError(t, w.EndRDF())

		if pretty {
			require.Equal(t, "(a{v:'1'})\n(b{v:'2'})\n(a)-[p]->(b)\n", buf.String())
		} else {
			require.Equal(t, input, buf.String())
		}

		second, err := parse(t, NewParser(), buf.String(), "")
		require.NoError(t, err)
		require.Equal(t, first.Statements(), second.Statements())
	}
}

func TestParseValueForms(t *testing.T) {
	cfg := rio.NewParserConfig()
	rio.Set(cfg, rio.BasicParserSettings.PreserveBNodeIDs, true)
	p := NewParser()
	require.NoError(t, p.SetConfig(cfg))

	input := `# people
@base <http://example.org/>
(alice{name:"Alice \"A\"", greeting:'hi'@en, age:'42'^^<http://www.w3.org/2001/XMLSchema#integer>, home:paris})
(_:b1{<http://xmlns.com/foaf/0.1/name>:'anon'})
(alice)-[knows]->(_:b1)
`
	m, err := parse(t, p, input, "http://ignored.example/")
	require.NoError(t, err)
	alice := iri("http://example.org/alice")
	require.Equal(t, []rdf.Statement{
		{Subject: alice, Predicate: iri("http://example.org/name"), Object: rdf.Literal{Lexical: `Alice "A"`}},
		{Subject: alice, Predicate: iri("http://example.org/greeting"), Object: rdf.Literal{Lexical: "hi", Lang: "en"}},
		{Subject: alice, Predicate: iri("http://example.org/age"), Object: rdf.Literal{Lexical: "42", Datatype: iri("http://www.w3.org/2001/XMLSchema#integer")}},
		{Subject: alice, Predicate: iri("http://example.org/home"), Object: iri("http://example.org/paris")},
		{Subject: rdf.BlankNode{ID: "b1"}, Predicate: iri("http://xmlns.com/foaf/0.1/name"), Object: rdf.Literal{Lexical: "anon"}},
		{Subject: alice, Predicate: iri("http://example.org/knows"), Object: rdf.BlankNode{ID: "b1"}},
	}, m.Statements())
}

func TestBareNodeEmitsNothing(t *testing.T) {
	m, err := parse(t, NewParser(), "(a)\n(b{})", "")
	require.Error(t, err, "empty property block is a syntax error")
	require.Zero(t, m.Len())

	m, err = parse(t, NewParser(), "(a) (b)", "")
	require.NoError(t, err)
	require.Zero(t, m.Len())
}

func TestDirectives(t *testing.T) {
	t.Run("case sensitive by default", func(t *testing.T) {
		_, err := parse(t, NewParser(), "@BASE <http://e.org/>\n(a{v:'1'})", "")
		require.ErrorIs(t, err, rio.ErrParse)
		var rerr *rio.Error
		require.ErrorAs(t, err, &rerr)
		require.Equal(t, FailOnUnknownDirectives.Key(), rerr.Condition)
	})

	t.Run("case insensitive", func(t *testing.T) {
		cfg := rio.NewParserConfig()
		rio.Set(cfg, CaseInsensitiveDirectives, true)
		p := NewParser()
		require.NoError(t, p.SetConfig(cfg))
		m, err := parse(t, p, "@BASE <http://e.org/>\n(a{v:'1'})", "")
		require.NoError(t, err)
		require.Equal(t, iri("http://e.org/a"), m.Statements()[0].Subject)
	})

	t.Run("unknown directive tolerated", func(t *testing.T) {
		cfg := rio.NewParserConfig()
		cfg.AddNonFatal(FailOnUnknownDirectives)
		p := NewParser()
		require.NoError(t, p.SetConfig(cfg))
		errs := rio.NewParseErrorCollector()
		p.SetErrorListener(errs)
		m, err := parse(t, p, "@vocab <http://e.org/>\n(a{v:'1'})", "")
		require.NoError(t, err)
		require.Equal(t, 1, m.Len())
		require.Equal(t, []string{"unknown directive @vocab (1, 1)"}, errs.Errors())
	})

	t.Run("prefix", func(t *testing.T) {
		input := "@base <http://base.org/>\n@prefix foaf: <http://xmlns.com/foaf/0.1/>\n@prefix : <local#>\n" +
			"(foaf:me{foaf:name:'Me', foaf:'bare', :tag:foaf:Person})\n(foaf)-[:rel]->(foaf:you)"
		m, err := parse(t, NewParser(), input, "")
		require.NoError(t, err)
		me := iri("http://xmlns.com/foaf/0.1/me")
		require.Equal(t, []rdf.Statement{
			{Subject: me, Predicate: iri("http://xmlns.com/foaf/0.1/name"), Object: rdf.Literal{Lexical: "Me"}},
			{Subject: me, Predicate: iri("http://base.org/foaf"), Object: rdf.Literal{Lexical: "bare"}},
			{Subject: me, Predicate: iri("http://base.org/local#tag"), Object: iri("http://xmlns.com/foaf/0.1/Person")},
			{Subject: iri("http://base.org/foaf"), Predicate: iri("http://base.org/local#rel"), Object: iri("http://xmlns.com/foaf/0.1/you")},
		}, m.Statements())
		require.Equal(t, []rdf.Namespace{
			{Prefix: "foaf", Name: "http://xmlns.com/foaf/0.1/"},
			{Prefix: "", Name: "http://base.org/local#"},
		}, m.Namespaces())
	})

	t.Run("prefix keyword case", func(t *testing.T) {
		_, err := parse(t, NewParser(), "@PREFIX ex: <http://e.org/>", "")
		require.ErrorIs(t, err, rio.ErrParse)

		cfg := rio.NewParserConfig()
		rio.Set(cfg, CaseInsensitiveDirectives, true)
		p := NewParser()
		require.NoError(t, p.SetConfig(cfg))
		m, err := parse(t, p, "@PREFIX ex: <http://e.org/>\n(ex:a{ex:v:'1'})", "")
		require.NoError(t, err)
		require.Equal(t, iri("http://e.org/v"), m.Statements()[0].Predicate)
	})

	t.Run("undeclared empty prefix", func(t *testing.T) {
		_, err := parse(t, NewParser(), "(:a{v:'1'})", "")
		require.ErrorIs(t, err, rio.ErrParse)
	})
}

func TestWriterOutputReparses(t *testing.T) {
	cfg := rio.Set(rio.NewParserConfig(), rio.BasicParserSettings.PreserveBNodeIDs, true)
	tests := []struct {
		name string
		st   rdf.Statement
		want string
	}{
		{
			name: "blank node label outside NAME",
			st:   rdf.Statement{Subject: rdf.BlankNode{ID: "b.1"}, Predicate: iri("p"), Object: iri("o")},
			want: "(_:genid1)-[p]->(o)",
		},
		{
			name: "IRI with space",
			st:   rdf.Statement{Subject: iri("http://e.org/a b"), Predicate: iri("p"), Object: rdf.Literal{Lexical: "x"}},
			want: `(<http://e.org/a\u0020b>{p:'x'})`,
		},
		{
			name: "IRI with angle brackets",
			st:   rdf.Statement{Subject: iri("s"), Predicate: iri("urn:a>b<c"), Object: rdf.BlankNode{ID: "x:y"}},
			want: `(s)-[<urn:a\u003Eb\u003Cc>]->(_:genid1)`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			rio.Set(w.Config(), rio.BasicWriterSettings.PrettyPrint, false)
			require.NoError(t, w.StartRDF())
			require.NoError(t, w.HandleStatement(tt.st))
			require.NoError(t, w.EndRDF())
			require.Equal(t, tt.want, buf.String())

			p := NewParser()
			require.NoError(t, p.SetConfig(cfg))
			m, err := parse(t, p, buf.String(), "")
			require.NoError(t, err)
			require.Equal(t, 1, m.Len())
			got := m.Statements()[0]
			if _, ok := tt.st.Subject.(rdf.IRI); ok {
				require.Equal(t, tt.st.Subject, got.Subject)
			}
			require.Equal(t, tt.st.Predicate, got.Predicate)
			if _, ok := tt.st.Object.(rdf.BlankNode); !ok {
				require.Equal(t, tt.st.Object, got.Object)
			}
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{name: "stray token", input: "a", line: 1},
		{name: "unclosed node", input: "(a{v:'1'}", line: 1},
		{name: "unterminated string", input: "(a{v:'1})", line: 1},
		{name: "blank predicate", input: "(a)-[_:p]->(b)", line: 1},
		{name: "bad arrow", input: "(a)-[p]>(b)", line: 1},
		{name: "second line", input: "(a{v:'1'})\n(b{v})", line: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, NewParser(), tt.input, "")
			require.ErrorIs(t, err, rio.ErrParse)
			var rerr *rio.Error
			require.ErrorAs(t, err, &rerr)
			require.Equal(t, tt.line, rerr.Line)
			require.Equal(t, "YARS", rerr.Format)
		})
	}
}

func TestWriterGroupsAndQuotes(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.StartRDF())
	st := func(s rdf.Term, p string, o rdf.Term) rdf.Statement {
		return rdf.Statement{Subject: s, Predicate: iri(p), Object: o, Context: iri("urn:dropped")}
	}
	require.NoError(t, w.HandleStatement(st(iri("http://e.org/s"), "name", rdf.Literal{Lexical: "it's"})))
	require.NoError(t, w.HandleStatement(st(iri("http://e.org/s"), "label", rdf.Literal{Lexical: "x", Lang: "en"})))
	require.NoError(t, w.HandleStatement(st(rdf.BlankNode{ID: "n1"}, "name", rdf.Literal{Lexical: "y"})))
	require.NoError(t, w.HandleComment("done"))
	require.NoError(t, w.HandleNamespace("ex", "http://e.org/"))
	require.NoError(t, w.EndRDF())
	require.Equal(t, "(<http://e.org/s>{name:'it\\'s', label:'x'@en})\n(_:n1{name:'y'})\n# done\n", buf.String())
}

func TestWriterRejectsSecondStart(t *testing.T) {
	w := NewWriter(&bytes.Buffer{})
	require.NoError(t, w.StartRDF())
	require.ErrorIs(t, w.StartRDF(), rio.ErrHandler)
}

func TestIsName(t *testing.T) {
	require.True(t, IsName("a"))
	require.True(t, IsName("_x-1"))
	require.False(t, IsName("-x"))
	require.False(t, IsName("http://e.org/"))
	require.False(t, IsName(""))
}
