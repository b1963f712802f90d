package rdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermKindsAndStrings(t *testing.T) {
	iri := IRI{Value: "http://example.org/s"}
	require.Equal(t, TermIRI, iri.Kind())
	require.Equal(t, "http://example.org/s", iri.String())

	blank := BlankNode{ID: "b1"}
	require.Equal(t, TermBlankNode, blank.Kind())
	require.Equal(t, "_:b1", blank.String())

	tests := []struct {
		name string
		lit  Literal
		want string
	}{
		{name: "plain", lit: Literal{Lexical: "plain"}, want: `"plain"`},
		{name: "lang", lit: Literal{Lexical: "hi", Lang: "en"}, want: `"hi"@en`},
		{name: "typed", lit: Literal{Lexical: "1", Datatype: IRI{Value: "http://example.org/int"}}, want: `"1"^^<http://example.org/int>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, TermLiteral, tt.lit.Kind())
			require.Equal(t, tt.want, tt.lit.String())
		})
	}
}

func TestStatementEqualAndContext(t *testing.T) {
	st := Statement{
		Subject:   IRI{Value: "http://example.org/s"},
		Predicate: IRI{Value: "http://example.org/p"},
		Object:    Literal{Lexical: "v"},
	}
	require.False(t, st.HasContext())

	tagged := st.WithContext(IRI{Value: "http://example.org/g"})
	require.True(t, tagged.HasContext())
	require.False(t, st.HasContext(), "WithContext must not mutate the receiver")
	require.False(t, st.Equal(tagged))
	require.True(t, tagged.Equal(st.WithContext(IRI{Value: "http://example.org/g"})))
	require.True(t, strings.HasSuffix(tagged.String(), "[http://example.org/g]"))
	require.True(t, strings.HasSuffix(st.String(), "[null]"))
}

func TestStatementIsZero(t *testing.T) {
	var st Statement
	require.True(t, st.IsZero())
	st.Subject = IRI{Value: "http://example.org/s"}
	require.False(t, st.IsZero())
}

func TestIsResource(t *testing.T) {
	assert.True(t, IsResource(IRI{Value: "x"}))
	assert.True(t, IsResource(BlankNode{ID: "x"}))
	assert.False(t, IsResource(Literal{Lexical: "x"}))
	assert.False(t, IsResource(nil))
}

func TestValueFactoryFreshBlankNodes(t *testing.T) {
	vf := NewValueFactory()
	a := vf.CreateBNode()
	b := vf.CreateBNode()
	require.NotEqual(t, a, b)
	require.NotContains(t, a.ID, "-")
	require.Equal(t, BlankNode{ID: "x"}, vf.CreateBNodeWithID("x"))

	st := vf.CreateStatement(a, vf.CreateIRI("http://example.org/p"), vf.CreateLangLiteral("v", "en"), nil)
	require.Equal(t, Literal{Lexical: "v", Lang: "en"}, st.Object)
	require.Nil(t, st.Context)
}
