package rio

import "github.com/lszeremeta/sesame-rio-api/rdf"

// Handler receives parse events in document order: StartRDF, then namespaces,
// statements and comments, then EndRDF. A returned error aborts the stream.
type Handler interface {
	StartRDF() error
	EndRDF() error
	HandleNamespace(prefix, name string) error
	HandleStatement(st rdf.Statement) error
	HandleComment(text string) error
}

// HandlerBase implements Handler with no-ops. Embed it to override only some events.
type HandlerBase struct{}

func (HandlerBase) StartRDF() error                     { return nil }
func (HandlerBase) EndRDF() error                       { return nil }
func (HandlerBase) HandleNamespace(_, _ string) error   { return nil }
func (HandlerBase) HandleStatement(rdf.Statement) error { return nil }
func (HandlerBase) HandleComment(string) error          { return nil }
