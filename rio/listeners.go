package rio

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ParseErrorLogger reports parse problems to a zerolog logger. It never fails a parse.
type ParseErrorLogger struct {
	log *zerolog.Logger
}

// NewParseErrorLogger logs to l, or to the package logger when l is nil.
func NewParseErrorLogger(l *zerolog.Logger) *ParseErrorLogger {
	return &ParseErrorLogger{log: l}
}

func (p *ParseErrorLogger) logger() *zerolog.Logger {
	if p == nil || p.log == nil {
		return Logger()
	}
	return p.log
}

func (p *ParseErrorLogger) Warning(msg string, line, col int) {
	p.logger().Warn().Int("line", line).Int("column", col).Msg(msg)
}

func (p *ParseErrorLogger) Error(msg string, line, col int) {
	p.logger().Error().Int("line", line).Int("column", col).Msg(msg)
}

func (p *ParseErrorLogger) FatalError(msg string, line, col int) {
	// Error level: zerolog's Fatal would exit the process.
	p.logger().Error().Bool("fatal", true).Int("line", line).Int("column", col).Msg(msg)
}

// ParseErrorCollector records parse problems by severity.
type ParseErrorCollector struct {
	mu       sync.Mutex
	warnings []string
	errors   []string
	fatals   []string
}

// NewParseErrorCollector returns an empty collector.
func NewParseErrorCollector() *ParseErrorCollector { return &ParseErrorCollector{} }

func (c *ParseErrorCollector) Warning(msg string, line, col int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, position(msg, line, col))
}

func (c *ParseErrorCollector) Error(msg string, line, col int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, position(msg, line, col))
}

func (c *ParseErrorCollector) FatalError(msg string, line, col int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fatals = append(c.fatals, position(msg, line, col))
}

// Warnings returns the recorded warnings.
func (c *ParseErrorCollector) Warnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.warnings...)
}

// Errors returns the recorded non-fatal errors.
func (c *ParseErrorCollector) Errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.errors...)
}

// FatalErrors returns the recorded fatal errors.
func (c *ParseErrorCollector) FatalErrors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.fatals...)
}

// Reset discards everything recorded.
func (c *ParseErrorCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings, c.errors, c.fatals = nil, nil, nil
}

func position(msg string, line, col int) string {
	switch {
	case line > 0 && col > 0:
		return fmt.Sprintf("%s (%d, %d)", msg, line, col)
	case line > 0:
		return fmt.Sprintf("%s (%d, -1)", msg, line)
	default:
		return msg
	}
}
