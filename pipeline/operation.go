package pipeline

import (
	"time"

	"github.com/lszeremeta/sesame-rio-api/rdf"
	"github.com/lszeremeta/sesame-rio-api/rio"
)

type state uint8

const (
	stateIdle state = iota
	stateFormatResolved
	stateConfigured
	stateStreaming
	stateCompleted
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateFormatResolved:
		return "format_resolved"
	case stateConfigured:
		return "configured"
	case stateStreaming:
		return "streaming"
	case stateCompleted:
		return "completed"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// operation tracks one Parse, Write or Convert call.
type operation struct {
	name       string
	format     string
	state      state
	started    time.Time
	statements int
}

func newOperation(name, format string) *operation {
	if format == "" {
		format = "none"
	}
	return &operation{name: name, format: format, started: time.Now()}
}

func (o *operation) advance(s state) {
	o.state = s
	rio.Logger().Debug().
		Str("op", o.name).
		Str("format", o.format).
		Stringer("state", s).
		Msg("pipeline state")
}

// finish moves the operation to its terminal state, records metrics and
// returns err unchanged.
func (o *operation) finish(err error) error {
	outcome := outcomeOK
	if err != nil {
		o.state = stateFailed
		outcome = string(rio.Code(err))
	} else {
		o.state = stateCompleted
	}
	duration := time.Since(o.started)
	pipelineMetrics.record(o.name, o.format, outcome, o.statements, duration)

	event := rio.Logger().Debug().
		Str("op", o.name).
		Str("format", o.format).
		Stringer("state", o.state).
		Int("statements", o.statements).
		Dur("duration", duration)
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("pipeline state")
	return err
}

// sink sits between a parser and its consumer. It counts statements and stops
// delivering events once the consumer has failed. Errors from an internal
// consumer, such as the collector behind Parse, are reported as internal.
type sink struct {
	op       *operation
	next     rio.Handler
	internal bool
	err      error
}

func newSink(op *operation, next rio.Handler, internal bool) *sink {
	return &sink{op: op, next: next, internal: internal}
}

func (s *sink) fail(err error) error {
	if err == nil {
		return nil
	}
	if s.internal {
		err = &rio.Error{Code: rio.ErrCodeInternal, Msg: "statement collector failed", Err: err}
	} else {
		err = rio.AsHandlerError(err)
	}
	s.err = err
	return err
}

func (s *sink) StartRDF() error {
	if s.err != nil {
		return s.err
	}
	return s.fail(s.next.StartRDF())
}

func (s *sink) EndRDF() error {
	if s.err != nil {
		return s.err
	}
	return s.fail(s.next.EndRDF())
}

func (s *sink) HandleNamespace(prefix, name string) error {
	if s.err != nil {
		return s.err
	}
	return s.fail(s.next.HandleNamespace(prefix, name))
}

func (s *sink) HandleStatement(st rdf.Statement) error {
	if s.err != nil {
		return s.err
	}
	if err := s.fail(s.next.HandleStatement(st)); err != nil {
		return err
	}
	s.op.statements++
	return nil
}

func (s *sink) HandleComment(text string) error {
	if s.err != nil {
		return s.err
	}
	return s.fail(s.next.HandleComment(text))
}
