package rdf

import (
	"fmt"
	"strings"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

func (k TermKind) String() string {
	switch k {
	case TermIRI:
		return "iri"
	case TermBlankNode:
		return "bnode"
	case TermLiteral:
		return "literal"
	default:
		return fmt.Sprintf("TermKind(%d)", uint8(k))
	}
}

// Term is a value that can appear in RDF statements.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents an RDF IRI.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode represents an RDF blank node.
type BlankNode struct {
	// ID is the blank node identifier.
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal represents an RDF literal.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI, if any.
	Datatype IRI
	// Lang is the language tag, if any.
	Lang string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns a string representation of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if l.Datatype.Value != "" {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype.Value)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// IsResource reports whether t may appear in subject or context position.
func IsResource(t Term) bool {
	if t == nil {
		return false
	}
	k := t.Kind()
	return k == TermIRI || k == TermBlankNode
}

// TermsEqual compares two terms by kind and value. Two nil terms are equal.
func TermsEqual(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}

// Statement is a subject-predicate-object triple with an optional context.
type Statement struct {
	// Subject is an IRI or a blank node.
	Subject Term
	// Predicate is the predicate IRI.
	Predicate IRI
	// Object is any term.
	Object Term
	// Context is the named graph, or nil when the statement has no context.
	Context Term
}

// HasContext reports whether the statement carries a context.
func (s Statement) HasContext() bool { return s.Context != nil }

// WithContext returns a copy of the statement tagged with c.
func (s Statement) WithContext(c Term) Statement {
	s.Context = c
	return s
}

// IsZero reports whether the statement has no subject/predicate/object.
func (s Statement) IsZero() bool {
	return s.Subject == nil && s.Predicate.Value == "" && s.Object == nil && s.Context == nil
}

// Equal compares all four positions.
func (s Statement) Equal(o Statement) bool {
	return TermsEqual(s.Subject, o.Subject) &&
		s.Predicate == o.Predicate &&
		TermsEqual(s.Object, o.Object) &&
		TermsEqual(s.Context, o.Context)
}

func (s Statement) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(termString(s.Subject))
	b.WriteString(", ")
	b.WriteString(s.Predicate.Value)
	b.WriteString(", ")
	b.WriteString(termString(s.Object))
	if s.Context != nil {
		b.WriteString(") [")
		b.WriteString(s.Context.String())
		b.WriteByte(']')
		return b.String()
	}
	b.WriteString(") [null]")
	return b.String()
}

func termString(t Term) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// Namespace binds a prefix to a namespace name.
type Namespace struct {
	Prefix string
	Name   string
}

func (n Namespace) String() string { return n.Prefix + " :: " + n.Name }
