package rio

import "strconv"

// Writer serializes handler events to an output stream. Events must follow
// document order; out-of-order events fail with ErrCodeHandler.
type Writer interface {
	Handler
	Format() Format
	SetConfig(cfg *WriterConfig) error
	Config() *WriterConfig
	SupportedSettings() []AnySetting
}

type writerState uint8

const (
	writerIdle writerState = iota
	writerStarted
	writerEnded
)

// WriterBase tracks the event order shared by writers. Embed it and call the
// Begin/Finish guards first in each Handler method.
type WriterBase struct {
	format         Format
	extra          []AnySetting
	config         *WriterConfig
	state          writerState
	wroteStatement bool
	lateNamespaces bool
}

// NewWriterBase returns a base for format. lateNamespaces allows namespace
// declarations after the first statement.
func NewWriterBase(format Format, lateNamespaces bool, extra ...AnySetting) WriterBase {
	return WriterBase{
		format:         format,
		extra:          extra,
		config:         NewWriterConfig(),
		lateNamespaces: lateNamespaces,
	}
}

func (w *WriterBase) Format() Format { return w.format }

func (w *WriterBase) SetConfig(cfg *WriterConfig) error {
	if cfg == nil {
		cfg = NewWriterConfig()
	}
	if err := cfg.Validate(w.format, w.SupportedSettings()); err != nil {
		return err
	}
	w.config = cfg
	return nil
}

func (w *WriterBase) Config() *WriterConfig {
	if w.config == nil {
		w.config = NewWriterConfig()
	}
	return w.config
}

func (w *WriterBase) SupportedSettings() []AnySetting {
	return append(WriterBaseSettings(), w.extra...)
}

// PrettyPrint reports the PrettyPrint setting.
func (w *WriterBase) PrettyPrint() bool {
	return Get(w.config, BasicWriterSettings.PrettyPrint)
}

// BeginDocument guards StartRDF.
func (w *WriterBase) BeginDocument() error {
	switch w.state {
	case writerStarted:
		return w.orderError("document already started")
	case writerEnded:
		return w.orderError("document already ended")
	}
	w.state = writerStarted
	return nil
}

// BeginNamespace guards HandleNamespace.
func (w *WriterBase) BeginNamespace() error {
	if err := w.requireStarted(); err != nil {
		return err
	}
	if w.wroteStatement && !w.lateNamespaces {
		return w.orderError("namespace declared after the first statement")
	}
	return nil
}

// BeginStatement guards HandleStatement.
func (w *WriterBase) BeginStatement() error {
	if err := w.requireStarted(); err != nil {
		return err
	}
	w.wroteStatement = true
	return nil
}

// BeginComment guards HandleComment.
func (w *WriterBase) BeginComment() error { return w.requireStarted() }

// FinishDocument guards EndRDF.
func (w *WriterBase) FinishDocument() error {
	if err := w.requireStarted(); err != nil {
		return err
	}
	w.state = writerEnded
	return nil
}

// WroteStatement reports whether a statement has been accepted.
func (w *WriterBase) WroteStatement() bool { return w.wroteStatement }

func (w *WriterBase) requireStarted() error {
	switch w.state {
	case writerIdle:
		return w.orderError("document not started")
	case writerEnded:
		return w.orderError("document already ended")
	}
	return nil
}

func (w *WriterBase) orderError(msg string) error {
	err := HandlerErrorf("%s", msg)
	err.Format = w.format.Name()
	return err
}

// BNodeLabels assigns output labels to blank nodes for one document.
// Identifiers accepted by valid are written as they are; any other identifier,
// or one that would collide with a label already handed out, gets a generated
// "genidN" label. The same identifier always gets the same label.
type BNodeLabels struct {
	valid    func(string) bool
	assigned map[string]string
	used     map[string]struct{}
	next     int
}

// NewBNodeLabels returns a labeller that keeps identifiers accepted by valid.
func NewBNodeLabels(valid func(string) bool) *BNodeLabels {
	return &BNodeLabels{
		valid:    valid,
		assigned: make(map[string]string),
		used:     make(map[string]struct{}),
	}
}

// Label returns the output label for the blank node identifier id.
func (l *BNodeLabels) Label(id string) string {
	if label, ok := l.assigned[id]; ok {
		return label
	}
	label := id
	_, taken := l.used[label]
	if taken || l.valid == nil || !l.valid(label) {
		for {
			l.next++
			label = "genid" + strconv.Itoa(l.next)
			if _, taken := l.used[label]; !taken {
				break
			}
		}
	}
	l.assigned[id] = label
	l.used[label] = struct{}{}
	return label
}
