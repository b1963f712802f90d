package rio

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat indicates no parser or writer is registered for a format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeParse indicates malformed input.
	ErrCodeParse ErrorCode = "PARSE_ERROR"
	// ErrCodeHandler indicates a failure raised by a statement handler or writer.
	ErrCodeHandler ErrorCode = "HANDLER_ERROR"
	// ErrCodeIO indicates a read or write failure on the byte stream.
	ErrCodeIO ErrorCode = "IO_ERROR"
	// ErrCodeConfiguration indicates an invalid setting value.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeInternal indicates a component failed that is not allowed to.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Severity grades a parse problem.
type Severity uint8

const (
	SeverityWarning Severity = iota + 1
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return ""
	}
}

// Sentinels for errors.Is. Any *Error matches the sentinel of its code.
var (
	ErrUnsupportedFormat = &Error{Code: ErrCodeUnsupportedFormat, Msg: "unsupported RDF format"}
	ErrParse             = &Error{Code: ErrCodeParse, Msg: "parse error"}
	ErrHandler           = &Error{Code: ErrCodeHandler, Msg: "handler error"}
	ErrIO                = &Error{Code: ErrCodeIO, Msg: "i/o error"}
	ErrConfiguration     = &Error{Code: ErrCodeConfiguration, Msg: "configuration error"}
	ErrInternal          = &Error{Code: ErrCodeInternal, Msg: "internal error"}
)

// Error is the single error type returned by the rio packages.
type Error struct {
	Code      ErrorCode
	Severity  Severity // set for parse errors
	Format    string   // format name, if known
	Line      int      // 1-based line number (0 if unknown)
	Column    int      // 1-based column number (0 if unknown)
	Condition string   // setting key of the error condition that fired, if any
	Msg       string
	Err       error // underlying error
}

func (e *Error) Error() string {
	var msg strings.Builder
	if e.Format != "" {
		msg.WriteString(e.Format)
		if e.Line > 0 {
			if e.Column > 0 {
				fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
			} else {
				fmt.Fprintf(&msg, ":%d", e.Line)
			}
		}
		msg.WriteString(": ")
	} else if e.Line > 0 {
		fmt.Fprintf(&msg, "line %d: ", e.Line)
	}
	switch {
	case e.Msg != "" && e.Err != nil:
		msg.WriteString(e.Msg)
		msg.WriteString(": ")
		msg.WriteString(e.Err.Error())
	case e.Msg != "":
		msg.WriteString(e.Msg)
	case e.Err != nil:
		msg.WriteString(e.Err.Error())
	default:
		msg.WriteString(strings.ToLower(strings.ReplaceAll(string(e.Code), "_", " ")))
	}
	if e.Condition != "" {
		fmt.Fprintf(&msg, " [%s]", e.Condition)
	}
	return msg.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && isSentinel(t) && t.Code == e.Code
}

func isSentinel(e *Error) bool {
	switch e {
	case ErrUnsupportedFormat, ErrParse, ErrHandler, ErrIO, ErrConfiguration, ErrInternal:
		return true
	}
	return false
}

// Code returns the error code for an error, or ErrCodeInternal if the error is not
// a *Error. Returns empty string for nil errors or io.EOF.
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Code
	}
	return ErrCodeInternal
}

// NewParseError builds a fatal parse error at the given position.
func NewParseError(format string, line, column int, msg string) *Error {
	return &Error{Code: ErrCodeParse, Severity: SeverityFatal, Format: format, Line: line, Column: column, Msg: msg}
}

// UnsupportedFormatError reports that no factory is registered for format.
func UnsupportedFormatError(kind string, format Format) *Error {
	return &Error{
		Code:   ErrCodeUnsupportedFormat,
		Format: format.Name(),
		Msg:    "no " + kind + " registered for format",
	}
}

// ConfigurationError reports an invalid value for the setting key.
func ConfigurationError(key string, err error) *Error {
	return &Error{Code: ErrCodeConfiguration, Condition: key, Msg: "invalid setting value", Err: err}
}

// IOError wraps a stream failure.
func IOError(format string, err error) error {
	if err == nil {
		return nil
	}
	var rerr *Error
	if errors.As(err, &rerr) {
		return err
	}
	return &Error{Code: ErrCodeIO, Format: format, Err: err}
}

// AsHandlerError normalizes an error produced by a handler. *Error values pass
// through unchanged; anything else is wrapped with ErrCodeHandler.
func AsHandlerError(err error) error {
	if err == nil {
		return nil
	}
	var rerr *Error
	if errors.As(err, &rerr) {
		return err
	}
	return &Error{Code: ErrCodeHandler, Err: err}
}

// HandlerErrorf creates a handler error with a formatted message.
func HandlerErrorf(format string, args ...any) *Error {
	return &Error{Code: ErrCodeHandler, Msg: fmt.Sprintf(format, args...)}
}
