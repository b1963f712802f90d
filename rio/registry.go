package rio

import (
	"io"
	"sync"
	"sync/atomic"
)

// ParserFactory creates fresh parsers for one format.
type ParserFactory interface {
	Format() Format
	NewParser() Parser
}

// WriterFactory creates writers for one format bound to an output stream.
type WriterFactory interface {
	Format() Format
	NewWriter(w io.Writer) Writer
}

type parserFactoryFunc struct {
	format Format
	fn     func() Parser
}

func (f parserFactoryFunc) Format() Format    { return f.format }
func (f parserFactoryFunc) NewParser() Parser { return f.fn() }

// NewParserFactory adapts fn into a ParserFactory for format.
func NewParserFactory(format Format, fn func() Parser) ParserFactory {
	return parserFactoryFunc{format: format, fn: fn}
}

type writerFactoryFunc struct {
	format Format
	fn     func(io.Writer) Writer
}

func (f writerFactoryFunc) Format() Format               { return f.format }
func (f writerFactoryFunc) NewWriter(w io.Writer) Writer { return f.fn(w) }

// NewWriterFactory adapts fn into a WriterFactory for format.
func NewWriterFactory(format Format, fn func(io.Writer) Writer) WriterFactory {
	return writerFactoryFunc{format: format, fn: fn}
}

type registryEntry[F any] struct {
	format  Format
	factory F
}

type registryState[F any] struct {
	entries []registryEntry[F]
	index   map[string]int
}

// Registry maps formats to factories. Entries are keyed by format name and kept in
// registration order; registering a name again replaces the entry in place. Reads
// never block and observe either the state before or after a concurrent Register.
type Registry[F any] struct {
	mu    sync.Mutex
	state atomic.Pointer[registryState[F]]
}

// NewRegistry returns an empty registry.
func NewRegistry[F any]() *Registry[F] {
	r := &Registry[F]{}
	r.state.Store(&registryState[F]{index: map[string]int{}})
	return r
}

func (r *Registry[F]) load() *registryState[F] {
	if st := r.state.Load(); st != nil {
		return st
	}
	return &registryState[F]{}
}

// Register stores factory under format.
func (r *Registry[F]) Register(format Format, factory F) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.load()
	next := &registryState[F]{
		entries: make([]registryEntry[F], len(old.entries), len(old.entries)+1),
		index:   make(map[string]int, len(old.index)+1),
	}
	copy(next.entries, old.entries)
	for k, v := range old.index {
		next.index[k] = v
	}
	entry := registryEntry[F]{format: format, factory: factory}
	if idx, ok := next.index[format.Name()]; ok {
		next.entries[idx] = entry
	} else {
		next.index[format.Name()] = len(next.entries)
		next.entries = append(next.entries, entry)
	}
	r.state.Store(next)
}

// Get returns the factory registered for format.
func (r *Registry[F]) Get(format Format) (F, bool) {
	st := r.load()
	if idx, ok := st.index[format.Name()]; ok {
		return st.entries[idx].factory, true
	}
	var zero F
	return zero, false
}

// Has reports whether a factory is registered for format.
func (r *Registry[F]) Has(format Format) bool {
	_, ok := r.load().index[format.Name()]
	return ok
}

// Keys returns the registered formats in registration order.
func (r *Registry[F]) Keys() []Format {
	st := r.load()
	out := make([]Format, len(st.entries))
	for i, e := range st.entries {
		out[i] = e.format
	}
	return out
}

// Len returns the number of registered formats.
func (r *Registry[F]) Len() int { return len(r.load().entries) }

// MatchMIMEType matches mimeType against the registered formats.
func (r *Registry[F]) MatchMIMEType(mimeType string, fallback Format) (Format, bool) {
	return MatchMIMEType(mimeType, r.Keys(), fallback)
}

// MatchFileName matches fileName against the registered formats.
func (r *Registry[F]) MatchFileName(fileName string, fallback Format) (Format, bool) {
	return MatchFileName(fileName, r.Keys(), fallback)
}
