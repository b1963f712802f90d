package rdf

import (
	"strings"

	"github.com/google/uuid"
)

// ValueFactory constructs terms and statements for parsers.
type ValueFactory interface {
	CreateIRI(value string) IRI
	// CreateBNode returns a blank node with a fresh identifier.
	CreateBNode() BlankNode
	CreateBNodeWithID(id string) BlankNode
	CreateLiteral(lexical string) Literal
	CreateLangLiteral(lexical, lang string) Literal
	CreateTypedLiteral(lexical string, datatype IRI) Literal
	CreateStatement(subject Term, predicate IRI, object Term, context Term) Statement
}

// NewValueFactory returns the default value factory. Fresh blank node identifiers
// are derived from random UUIDs and are unique across parses.
func NewValueFactory() ValueFactory { return valueFactory{} }

type valueFactory struct{}

func (valueFactory) CreateIRI(value string) IRI { return IRI{Value: value} }

func (valueFactory) CreateBNode() BlankNode {
	return BlankNode{ID: "b" + strings.ReplaceAll(uuid.NewString(), "-", "")}
}

func (valueFactory) CreateBNodeWithID(id string) BlankNode { return BlankNode{ID: id} }

func (valueFactory) CreateLiteral(lexical string) Literal { return Literal{Lexical: lexical} }

func (valueFactory) CreateLangLiteral(lexical, lang string) Literal {
	return Literal{Lexical: lexical, Lang: lang}
}

func (valueFactory) CreateTypedLiteral(lexical string, datatype IRI) Literal {
	return Literal{Lexical: lexical, Datatype: datatype}
}

func (valueFactory) CreateStatement(subject Term, predicate IRI, object Term, context Term) Statement {
	return Statement{Subject: subject, Predicate: predicate, Object: object, Context: context}
}
