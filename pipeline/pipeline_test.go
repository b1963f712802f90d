package pipeline

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
	"github.com/lszeremeta/sesame-rio-api/rio/ntriples"
)

func iri(v string) rdf.IRI { return rdf.IRI{Value: v} }

const nquadsDoc = `<http://e.org/s> <http://e.org/p> "one" <http://e.org/g> .
<http://e.org/s> <http://e.org/p> <http://e.org/o> .
`

func TestParseKeepsContexts(t *testing.T) {
	m, err := Parse(strings.NewReader(nquadsDoc), "", rio.NQuads)
	require.NoError(t, err)
	require.Equal(t, []rdf.Statement{
		{Subject: iri("http://e.org/s"), Predicate: iri("http://e.org/p"), Object: rdf.Literal{Lexical: "one"}, Context: iri("http://e.org/g")},
		{Subject: iri("http://e.org/s"), Predicate: iri("http://e.org/p"), Object: iri("http://e.org/o")},
	}, m.Statements())
}

func TestParseContextFanOut(t *testing.T) {
	c1 := iri("http://e.org/c1")
	m, err := Parse(strings.NewReader(nquadsDoc), "", rio.NQuads, WithContexts(c1, nil))
	require.NoError(t, err)
	sts := m.Statements()
	require.Len(t, sts, 4)
	require.Equal(t, c1, sts[0].Context)
	require.Nil(t, sts[1].Context)
	require.Equal(t, c1, sts[2].Context)
	require.Nil(t, sts[3].Context)
	require.Equal(t, rdf.Literal{Lexical: "one"}, sts[1].Object)
	require.Equal(t, iri("http://e.org/o"), sts[3].Object)
}

func TestUnsupportedFormat(t *testing.T) {
	m, err := Parse(strings.NewReader("<a> <b> <c> ."), "", rio.N3)
	require.ErrorIs(t, err, rio.ErrUnsupportedFormat)
	require.Zero(t, m.Len())

	_, err = CreateWriter(rio.RDFa, &bytes.Buffer{})
	require.ErrorIs(t, err, rio.ErrUnsupportedFormat)

	_, err = CreateParser(rio.TriX)
	require.ErrorIs(t, err, rio.ErrUnsupportedFormat)

	err = Write(rdf.NewModel(), &bytes.Buffer{}, rio.N3)
	require.ErrorIs(t, err, rio.ErrUnsupportedFormat)

	err = Convert(strings.NewReader(""), "", rio.NTriples, &bytes.Buffer{}, rio.TriX)
	require.ErrorIs(t, err, rio.ErrUnsupportedFormat)
}

func TestFormatLookup(t *testing.T) {
	tests := []struct {
		name     string
		lookup   func(string, rio.Format) (rio.Format, bool)
		input    string
		fallback rio.Format
		want     rio.Format
		ok       bool
	}{
		{name: "parser extension", lookup: ParserFormatForFileName, input: "data.jsonld", want: rio.JSONLD, ok: true},
		{name: "unknown extension falls back", lookup: ParserFormatForFileName, input: "data.xyz", fallback: rio.NTriples, want: rio.NTriples, ok: true},
		{name: "unknown extension without fallback", lookup: ParserFormatForFileName, input: "data.xyz"},
		{name: "turtle parser", lookup: ParserFormatForFileName, input: "data.ttl", want: rio.Turtle, ok: true},
		{name: "rdfxml parser", lookup: ParserFormatForFileName, input: "schema.owl", want: rio.RDFXML, ok: true},
		{name: "trig writer", lookup: WriterFormatForFileName, input: "out.trig", want: rio.TriG, ok: true},
		{name: "no n3 parser", lookup: ParserFormatForFileName, input: "data.n3"},
		{name: "turtle writer", lookup: WriterFormatForFileName, input: "out.TTL", want: rio.Turtle, ok: true},
		{name: "parser mime", lookup: ParserFormatForMIMEType, input: "text/x-nquads; charset=US-ASCII", want: rio.NQuads, ok: true},
		{name: "writer mime", lookup: WriterFormatForMIMEType, input: "application/x-binary-rdf", want: rio.BinaryRDF, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.lookup(tt.input, tt.fallback)
			require.Equal(t, tt.ok, ok)
			require.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestBootstrapTables(t *testing.T) {
	names := func(formats []rio.Format) []string {
		out := make([]string, len(formats))
		for i, f := range formats {
			out[i] = f.Name()
		}
		return out
	}
	require.Equal(t, []string{"N-Triples", "N-Quads", "YARS", "JSON-LD", "BinaryRDF", "RDF/XML", "Turtle", "TriG"}, names(ParserRegistry().Keys()))
	require.Equal(t, []string{"N-Triples", "N-Quads", "YARS", "JSON-LD", "BinaryRDF", "Turtle", "TriG", "RDF/XML"}, names(WriterRegistry().Keys()))
}

func TestConcurrentBootstrap(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]*rio.Registry[rio.ParserFactory], 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ParserRegistry()
			_, err := CreateWriter(rio.NTriples, &bytes.Buffer{})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		require.Same(t, results[0], r)
	}
}

func TestDuplicateStartRDF(t *testing.T) {
	w, err := CreateWriter(rio.NTriples, &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, w.StartRDF())
	err = Emit(rdf.NewModel(), w)
	require.ErrorIs(t, err, rio.ErrHandler)
}

func sampleModel() *rdf.Model {
	m := rdf.NewModel()
	m.SetNamespace("ex", "http://example.org/")
	s := iri("http://example.org/s")
	m.AddAll(
		rdf.Statement{Subject: s, Predicate: iri("http://example.org/knows"), Object: iri("http://example.org/o")},
		rdf.Statement{Subject: s, Predicate: iri("http://example.org/name"), Object: rdf.Literal{Lexical: "Ann"}},
		rdf.Statement{Subject: s, Predicate: iri("http://example.org/label"), Object: rdf.Literal{Lexical: "hi", Lang: "en"}, Context: iri("http://example.org/g")},
		rdf.Statement{Subject: s, Predicate: iri("http://example.org/size"), Object: rdf.Literal{Lexical: "5", Datatype: iri("http://www.w3.org/2001/XMLSchema#int")}},
	)
	return m
}

func withoutContexts(sts []rdf.Statement) []rdf.Statement {
	out := make([]rdf.Statement, len(sts))
	for i, st := range sts {
		out[i] = st.WithContext(nil)
	}
	return out
}

func TestRoundTripAcrossFormats(t *testing.T) {
	src := sampleModel()
	tests := []struct {
		format  rio.Format
		ordered bool
	}{
		{format: rio.NTriples, ordered: true},
		{format: rio.NQuads, ordered: true},
		{format: rio.YARS, ordered: true},
		{format: rio.BinaryRDF, ordered: true},
		{format: rio.Turtle, ordered: true},
		{format: rio.TriG, ordered: true},
		{format: rio.RDFXML, ordered: true},
		// json-gold groups nodes by subject and sorts properties
		{format: rio.JSONLD},
	}
	for _, tt := range tests {
		t.Run(tt.format.Name(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(src, &buf, tt.format))
			m, err := Parse(&buf, "", tt.format)
			require.NoError(t, err)
			want := src.Statements()
			if !tt.format.SupportsContexts() {
				want = withoutContexts(want)
			}
			if tt.ordered {
				require.Equal(t, want, m.Statements())
			} else {
				require.ElementsMatch(t, want, m.Statements())
			}
		})
	}
}

func TestConvertToTurtle(t *testing.T) {
	var out bytes.Buffer
	cfg := rio.NewWriterConfig()
	rio.Set(cfg, rio.BasicWriterSettings.PrettyPrint, false)
	err := Convert(strings.NewReader(nquadsDoc), "", rio.NQuads, &out, rio.Turtle, WithConvertWriterConfig(cfg))
	require.NoError(t, err)
	require.Equal(t, "<http://e.org/s> <http://e.org/p> \"one\" .\n<http://e.org/s> <http://e.org/p> <http://e.org/o> .\n", out.String())
}

func TestConvertToleratesInvalidLines(t *testing.T) {
	cfg := rio.NewParserConfig()
	cfg.AddNonFatal(ntriples.FailOnInvalidLines)
	errs := rio.NewParseErrorCollector()
	var out bytes.Buffer
	err := Convert(strings.NewReader("garbage\n<http://e.org/s> <http://e.org/p> <http://e.org/o> .\n"), "",
		rio.NTriples, &out, rio.NQuads, WithConvertParserConfig(cfg), WithConvertErrorListener(errs))
	require.NoError(t, err)
	require.Len(t, errs.Errors(), 1)
	require.Equal(t, "<http://e.org/s> <http://e.org/p> <http://e.org/o> .\n", out.String())
}

func TestParseFailureReturnsPartialModel(t *testing.T) {
	errs := rio.NewParseErrorCollector()
	m, err := Parse(strings.NewReader("<http://e.org/s> <http://e.org/p> <http://e.org/o> .\nbroken\n"), "", rio.NTriples,
		WithErrorListener(errs))
	require.ErrorIs(t, err, rio.ErrParse)
	var rerr *rio.Error
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, 2, rerr.Line)
	require.Equal(t, 1, m.Len())
	require.Len(t, errs.FatalErrors(), 1)
}

func TestParseConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *rio.ParserConfig
	}{
		{name: "line limit", cfg: rio.Set(rio.NewParserConfig(), ntriples.MaxLineBytes, 0)},
		{name: "charset", cfg: rio.Set(rio.NewParserConfig(), rio.BasicParserSettings.InputCharset, "no-such-charset")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(""), "", rio.NTriples, WithParserConfig(tt.cfg))
			require.ErrorIs(t, err, rio.ErrConfiguration)
		})
	}
}

func TestInputCharset(t *testing.T) {
	cfg := rio.Set(rio.NewParserConfig(), rio.BasicParserSettings.InputCharset, "iso-8859-1")
	m, err := Parse(bytes.NewReader([]byte("<http://e.org/s> <http://e.org/p> \"caf\xe9\" .\n")), "", rio.NTriples, WithParserConfig(cfg))
	require.NoError(t, err)
	require.Equal(t, rdf.Literal{Lexical: "café"}, m.Statements()[0].Object)
}

type failingHandler struct {
	rio.HandlerBase
	calls int
}

func (h *failingHandler) HandleStatement(rdf.Statement) error {
	h.calls++
	return errors.New("boom")
}

func TestSinkFailures(t *testing.T) {
	st := rdf.Statement{Subject: iri("s"), Predicate: iri("p"), Object: iri("o")}

	h := &failingHandler{}
	s := newSink(newOperation("parse", "test"), h, true)
	err := s.HandleStatement(st)
	require.ErrorIs(t, err, rio.ErrInternal)
	require.Equal(t, rio.ErrCodeInternal, rio.Code(err))
	require.Equal(t, err, s.EndRDF(), "no events after failure")
	require.Equal(t, err, s.HandleStatement(st))
	require.Equal(t, 1, h.calls)

	s = newSink(newOperation("convert", "test"), &failingHandler{}, false)
	require.ErrorIs(t, s.HandleStatement(st), rio.ErrHandler)
}

func TestMetrics(t *testing.T) {
	counter := pipelineMetrics.OperationsTotal.WithLabelValues("parse", "N-Quads", outcomeOK)
	statements := pipelineMetrics.StatementsTotal.WithLabelValues("parse", "N-Quads")
	before, beforeStatements := testutil.ToFloat64(counter), testutil.ToFloat64(statements)

	_, err := Parse(strings.NewReader(nquadsDoc), "", rio.NQuads)
	require.NoError(t, err)
	require.Equal(t, before+1, testutil.ToFloat64(counter))
	require.Equal(t, beforeStatements+2, testutil.ToFloat64(statements))

	_, err = Parse(strings.NewReader(""), "", rio.N3)
	require.Error(t, err)
	require.GreaterOrEqual(t, testutil.ToFloat64(pipelineMetrics.OperationsTotal.WithLabelValues("parse", "N3", string(rio.ErrCodeUnsupportedFormat))), 1.0)

	families, err := MetricsGatherer().Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.Contains(t, names, "rio_operations_total")
	require.Contains(t, names, "rio_operation_duration_seconds")
}
