package rio

import "github.com/lszeremeta/sesame-rio-api/rdf"

// StatementCollector appends every statement and namespace it receives to a Model.
type StatementCollector struct {
	HandlerBase
	model *rdf.Model
}

// NewStatementCollector collects into m, or into a new model when m is nil.
func NewStatementCollector(m *rdf.Model) *StatementCollector {
	if m == nil {
		m = rdf.NewModel()
	}
	return &StatementCollector{model: m}
}

// Model returns the collecting model.
func (c *StatementCollector) Model() *rdf.Model { return c.model }

func (c *StatementCollector) HandleNamespace(prefix, name string) error {
	c.model.SetNamespace(prefix, name)
	return nil
}

func (c *StatementCollector) HandleStatement(st rdf.Statement) error {
	c.model.Add(st)
	return nil
}

// ContextStatementCollector collects into a Model, optionally re-tagging each
// statement. With override contexts every incoming statement is stored once per
// context, in the order given; a nil override stores it without a context.
// Without overrides the statement keeps its own context.
type ContextStatementCollector struct {
	StatementCollector
	vf       rdf.ValueFactory
	contexts []rdf.Term
}

// NewContextStatementCollector collects into m using vf to build re-tagged statements.
func NewContextStatementCollector(m *rdf.Model, vf rdf.ValueFactory, contexts ...rdf.Term) *ContextStatementCollector {
	if vf == nil {
		vf = rdf.NewValueFactory()
	}
	return &ContextStatementCollector{
		StatementCollector: *NewStatementCollector(m),
		vf:                 vf,
		contexts:           append([]rdf.Term(nil), contexts...),
	}
}

func (c *ContextStatementCollector) HandleStatement(st rdf.Statement) error {
	if len(c.contexts) == 0 {
		c.model.Add(st)
		return nil
	}
	for _, ctx := range c.contexts {
		c.model.Add(c.vf.CreateStatement(st.Subject, st.Predicate, st.Object, ctx))
	}
	return nil
}
