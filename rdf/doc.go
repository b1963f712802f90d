// Package rdf provides the value model shared by the rio parsers and writers.
//
// Terms are small value types (IRI, BlankNode, Literal) that compare with ==.
// A Statement is a triple with an optional Context; a nil Context means the
// statement belongs to no named graph.
//
// Model is the in-memory sink used by the parse pipeline: it keeps statements in
// arrival order and a namespace table with last-write-wins semantics per prefix.
// Model implements both StatementSource and NamespaceSource, while Statements (a
// plain slice) is only a StatementSource. Writers use that difference to decide
// whether namespace declarations are emitted.
//
// Example:
//
//	m := rdf.NewModel()
//	m.SetNamespace("ex", "http://example.org/")
//	m.Add(rdf.Statement{
//	    Subject:   rdf.IRI{Value: "http://example.org/s"},
//	    Predicate: rdf.IRI{Value: "http://example.org/p"},
//	    Object:    rdf.Literal{Lexical: "v"},
//	})
package rdf
