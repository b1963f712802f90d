package rdf

import "iter"

// StatementSource yields statements in a stable order.
type StatementSource interface {
	All() iter.Seq[Statement]
}

// NamespaceSource exposes namespace declarations in a stable order.
type NamespaceSource interface {
	Namespaces() []Namespace
}

// Statements is a bare sequence of statements without namespace declarations.
type Statements []Statement

// All yields the statements in slice order.
func (s Statements) All() iter.Seq[Statement] {
	return func(yield func(Statement) bool) {
		for _, st := range s {
			if !yield(st) {
				return
			}
		}
	}
}

// Model is an ordered, append-only statement collection with a namespace table.
// It is not safe for concurrent mutation.
type Model struct {
	statements []Statement
	namespaces []Namespace
	prefixes   map[string]int
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{prefixes: make(map[string]int)}
}

// Add appends a statement.
func (m *Model) Add(st Statement) {
	m.statements = append(m.statements, st)
}

// AddAll appends statements in order.
func (m *Model) AddAll(sts ...Statement) {
	m.statements = append(m.statements, sts...)
}

// Len returns the number of statements.
func (m *Model) Len() int { return len(m.statements) }

// Statements returns a copy of the statements in insertion order.
func (m *Model) Statements() []Statement {
	out := make([]Statement, len(m.statements))
	copy(out, m.statements)
	return out
}

// All yields the statements in insertion order.
func (m *Model) All() iter.Seq[Statement] {
	return Statements(m.statements).All()
}

// SetNamespace binds prefix to name. Rebinding a prefix keeps its position.
func (m *Model) SetNamespace(prefix, name string) {
	if m.prefixes == nil {
		m.prefixes = make(map[string]int)
	}
	if idx, ok := m.prefixes[prefix]; ok {
		m.namespaces[idx].Name = name
		return
	}
	m.prefixes[prefix] = len(m.namespaces)
	m.namespaces = append(m.namespaces, Namespace{Prefix: prefix, Name: name})
}

// Namespace returns the name bound to prefix.
func (m *Model) Namespace(prefix string) (string, bool) {
	idx, ok := m.prefixes[prefix]
	if !ok {
		return "", false
	}
	return m.namespaces[idx].Name, true
}

// Namespaces returns the declarations in first-declared order.
func (m *Model) Namespaces() []Namespace {
	out := make([]Namespace, len(m.namespaces))
	copy(out, m.namespaces)
	return out
}

// Contexts returns the distinct contexts in first-seen order. Statements without a
// context are not represented.
func (m *Model) Contexts() []Term {
	var out []Term
	for _, st := range m.statements {
		if st.Context == nil {
			continue
		}
		seen := false
		for _, c := range out {
			if TermsEqual(c, st.Context) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, st.Context)
		}
	}
	return out
}
