package rio

import (
	"fmt"
	"maps"
	"slices"
)

// AnySetting is the untyped view of a Setting, used where settings of different
// value types are listed together.
type AnySetting interface {
	Key() string
	Description() string
	DefaultValue() any
	// Validate checks a stored value against the setting's type and validator.
	Validate(v any) error
}

// Setting is a typed, keyed configuration option with a default value. Settings
// are identified by key.
type Setting[T any] struct {
	key         string
	description string
	def         T
	validate    func(T) error
}

// NewSetting declares a setting with no validator.
func NewSetting[T any](key, description string, def T) *Setting[T] {
	return &Setting[T]{key: key, description: description, def: def}
}

// NewValidatedSetting declares a setting whose values must pass validate.
func NewValidatedSetting[T any](key, description string, def T, validate func(T) error) *Setting[T] {
	return &Setting[T]{key: key, description: description, def: def, validate: validate}
}

func (s *Setting[T]) Key() string         { return s.key }
func (s *Setting[T]) Description() string { return s.description }
func (s *Setting[T]) Default() T          { return s.def }
func (s *Setting[T]) DefaultValue() any   { return s.def }

func (s *Setting[T]) Validate(v any) error {
	tv, ok := v.(T)
	if !ok {
		return fmt.Errorf("%s: expected %T, got %T", s.key, s.def, v)
	}
	if s.validate != nil {
		return s.validate(tv)
	}
	return nil
}

func (s *Setting[T]) String() string { return s.key }

// Config maps settings to values and tracks which error conditions are non-fatal.
// A Config belongs to one parser or writer for the duration of a call and is not
// safe for concurrent mutation.
type Config struct {
	values   map[string]any
	settings map[string]AnySetting
	nonFatal map[string]struct{}
}

type (
	// ParserConfig configures a parser.
	ParserConfig = Config
	// WriterConfig configures a writer.
	WriterConfig = Config
)

// NewConfig returns an empty configuration.
func NewConfig() *Config {
	return &Config{
		values:   make(map[string]any),
		settings: make(map[string]AnySetting),
		nonFatal: make(map[string]struct{}),
	}
}

// NewParserConfig returns an empty parser configuration.
func NewParserConfig() *ParserConfig { return NewConfig() }

// NewWriterConfig returns an empty writer configuration.
func NewWriterConfig() *WriterConfig { return NewConfig() }

func (c *Config) init() {
	if c.values == nil {
		c.values = make(map[string]any)
		c.settings = make(map[string]AnySetting)
	}
	if c.nonFatal == nil {
		c.nonFatal = make(map[string]struct{})
	}
}

// Get returns the stored value for s, or its default. A nil config yields the default.
func Get[T any](c *Config, s *Setting[T]) T {
	if c == nil {
		return s.def
	}
	if v, ok := c.values[s.key]; ok {
		if tv, ok := v.(T); ok {
			return tv
		}
	}
	return s.def
}

// Set stores v for s, replacing any previous value, and returns c.
func Set[T any](c *Config, s *Setting[T], v T) *Config {
	c.init()
	c.values[s.key] = v
	c.settings[s.key] = s
	return c
}

// IsSet reports whether a value is stored for s.
func (c *Config) IsSet(s AnySetting) bool {
	if c == nil {
		return false
	}
	_, ok := c.values[s.Key()]
	return ok
}

// Unset removes the stored value for s.
func (c *Config) Unset(s AnySetting) {
	if c == nil {
		return
	}
	delete(c.values, s.Key())
	delete(c.settings, s.Key())
}

// Settings returns the settings with stored values, sorted by key.
func (c *Config) Settings() []AnySetting {
	if c == nil {
		return nil
	}
	keys := slices.Sorted(maps.Keys(c.settings))
	out := make([]AnySetting, 0, len(keys))
	for _, k := range keys {
		out = append(out, c.settings[k])
	}
	return out
}

// UseDefaults clears every stored value and the non-fatal set.
func (c *Config) UseDefaults() {
	if c == nil {
		return
	}
	c.values = make(map[string]any)
	c.settings = make(map[string]AnySetting)
	c.nonFatal = make(map[string]struct{})
}

// IsNonFatal reports whether the error condition s is tolerated.
func (c *Config) IsNonFatal(s AnySetting) bool {
	if c == nil {
		return false
	}
	_, ok := c.nonFatal[s.Key()]
	return ok
}

// AddNonFatal marks error conditions as tolerated.
func (c *Config) AddNonFatal(settings ...AnySetting) *Config {
	c.init()
	for _, s := range settings {
		c.nonFatal[s.Key()] = struct{}{}
	}
	return c
}

// AddNonFatalKeys marks error conditions as tolerated by key.
func (c *Config) AddNonFatalKeys(keys ...string) *Config {
	c.init()
	for _, k := range keys {
		c.nonFatal[k] = struct{}{}
	}
	return c
}

// RemoveNonFatal makes error conditions fatal again.
func (c *Config) RemoveNonFatal(settings ...AnySetting) *Config {
	c.init()
	for _, s := range settings {
		delete(c.nonFatal, s.Key())
	}
	return c
}

// SetNonFatalErrors replaces the non-fatal set.
func (c *Config) SetNonFatalErrors(settings ...AnySetting) *Config {
	c.init()
	clear(c.nonFatal)
	return c.AddNonFatal(settings...)
}

// NonFatalErrors returns the keys of tolerated error conditions, sorted.
func (c *Config) NonFatalErrors() []string {
	if c == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(c.nonFatal))
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	out := NewConfig()
	if c == nil {
		return out
	}
	maps.Copy(out.values, c.values)
	maps.Copy(out.settings, c.settings)
	maps.Copy(out.nonFatal, c.nonFatal)
	return out
}

// Validate checks every stored value against its setting and warns about stored
// settings that supported does not list.
func (c *Config) Validate(format Format, supported []AnySetting) error {
	if c == nil {
		return nil
	}
	known := make(map[string]struct{}, len(supported))
	for _, s := range supported {
		known[s.Key()] = struct{}{}
	}
	for _, key := range slices.Sorted(maps.Keys(c.values)) {
		if err := c.settings[key].Validate(c.values[key]); err != nil {
			cerr := ConfigurationError(key, err)
			cerr.Format = format.Name()
			return cerr
		}
		if _, ok := known[key]; !ok {
			Logger().Warn().
				Str("format", format.Name()).
				Str("setting", key).
				Msg("setting is not supported by this format and is ignored")
		}
	}
	return nil
}
