package rio

import (
	"testing"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/stretchr/testify/require"
)

func newTestBase(t *testing.T, cfg *ParserConfig) (*ParserBase, *ParseErrorCollector) {
	t.Helper()
	base := NewParserBase(NTriples)
	require.NoError(t, base.SetConfig(cfg))
	errs := NewParseErrorCollector()
	base.SetErrorListener(errs)
	base.BeginParse("http://example.org/doc")
	return &base, errs
}

func TestReportErrorPolicy(t *testing.T) {
	cond := BasicParserSettings.VerifyLanguageTags

	t.Run("disabled condition warns", func(t *testing.T) {
		cfg := NewParserConfig()
		Set(cfg, cond, false)
		p, errs := newTestBase(t, cfg)
		require.NoError(t, p.ReportError(cond, "bad tag", 1, 2))
		require.Equal(t, []string{"bad tag (1, 2)"}, errs.Warnings())
		require.Empty(t, errs.Errors())
		require.Empty(t, errs.FatalErrors())
	})

	t.Run("non-fatal condition continues", func(t *testing.T) {
		cfg := NewParserConfig()
		cfg.AddNonFatal(cond)
		p, errs := newTestBase(t, cfg)
		require.NoError(t, p.ReportError(cond, "bad tag", 1, 2))
		require.Equal(t, []string{"bad tag (1, 2)"}, errs.Errors())
		require.Empty(t, errs.FatalErrors())
	})

	t.Run("enabled condition is fatal", func(t *testing.T) {
		p, errs := newTestBase(t, nil)
		err := p.ReportError(cond, "bad tag", 4, 0)
		require.ErrorIs(t, err, ErrParse)
		var rerr *Error
		require.ErrorAs(t, err, &rerr)
		require.Equal(t, cond.Key(), rerr.Condition)
		require.Equal(t, 4, rerr.Line)
		require.Equal(t, "N-Triples", rerr.Format)
		require.Equal(t, []string{"bad tag (4, -1)"}, errs.FatalErrors())
	})
}

func TestCreateLiteralLanguageTags(t *testing.T) {
	cfg := NewParserConfig()
	Set(cfg, BasicParserSettings.NormalizeLanguageTags, true)
	p, _ := newTestBase(t, cfg)

	lit, err := p.CreateLiteral("hi", "EN-us", rdf.IRI{}, 1, 1)
	require.NoError(t, err)
	require.Equal(t, "en-us", lit.Lang)

	_, err = p.CreateLiteral("hi", "not a tag", rdf.IRI{}, 1, 1)
	require.ErrorIs(t, err, ErrParse)

	lit, err = p.CreateLiteral("1", "", rdf.IRI{Value: "http://www.w3.org/2001/XMLSchema#integer"}, 1, 1)
	require.NoError(t, err)
	require.Equal(t, "http://www.w3.org/2001/XMLSchema#integer", lit.Datatype.Value)
}

func TestCreateBNodeMapping(t *testing.T) {
	p, _ := newTestBase(t, nil)
	a := p.CreateBNode("x")
	require.Equal(t, a, p.CreateBNode("x"))
	require.NotEqual(t, "x", a.ID)
	require.NotEqual(t, a, p.CreateBNode("y"))
	require.NotEqual(t, p.CreateBNode(""), p.CreateBNode(""))

	p.BeginParse("")
	require.NotEqual(t, a, p.CreateBNode("x"), "mapping is per document")

	cfg := NewParserConfig()
	Set(cfg, BasicParserSettings.PreserveBNodeIDs, true)
	preserving, _ := newTestBase(t, cfg)
	require.Equal(t, rdf.BlankNode{ID: "x"}, preserving.CreateBNode("x"))
}

func TestResolveAndVerifyIRI(t *testing.T) {
	p, _ := newTestBase(t, nil)
	iri, err := p.ResolveIRI("other", 1, 1)
	require.NoError(t, err)
	require.Equal(t, "http://example.org/other", iri.Value)

	iri, err = p.CreateIRI("not an iri", 1, 1)
	require.NoError(t, err, "syntax checks are off by default")
	require.Equal(t, "not an iri", iri.Value)

	cfg := NewParserConfig()
	Set(cfg, BasicParserSettings.VerifyIRISyntax, true)
	strict, _ := newTestBase(t, cfg)
	_, err = strict.CreateIRI("http://example.org/<bad>", 2, 3)
	require.ErrorIs(t, err, ErrParse)
}

func TestSetConfigRejectsInvalidValues(t *testing.T) {
	base := NewParserBase(NTriples)
	cfg := NewParserConfig()
	Set(cfg, BasicParserSettings.InputCharset, "no-such-charset")
	err := base.SetConfig(cfg)
	require.ErrorIs(t, err, ErrConfiguration)
	require.NotSame(t, cfg, base.Config())
}

type recordingHandler struct {
	HandlerBase
	events []string
	fail   error
}

func (h *recordingHandler) HandleStatement(st rdf.Statement) error {
	h.events = append(h.events, st.Subject.String())
	return h.fail
}

func TestEmitNormalizesHandlerErrors(t *testing.T) {
	base := NewParserBase(NTriples)
	h := &recordingHandler{fail: ErrInternal}
	base.SetHandler(h)
	st := rdf.Statement{Subject: rdf.IRI{Value: "s"}, Predicate: rdf.IRI{Value: "p"}, Object: rdf.IRI{Value: "o"}}
	require.ErrorIs(t, base.EmitStatement(st), ErrInternal)

	h.fail = errTest
	require.ErrorIs(t, base.EmitStatement(st), ErrHandler)
	require.Equal(t, []string{"s", "s"}, h.events)

	var none ParserBase
	require.NoError(t, none.EmitStatement(st), "a missing handler discards events")
}

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "test" }
