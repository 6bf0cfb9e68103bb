// Package errors provides sentinel and annotated errors that carry
// structured logging attributes and call-site information, so that
// slog output and errors.Is/As comparisons stay useful through
// multiple layers of wrapping.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

// Re-exported so callers depend on a single errors package.
var (
	Is   = errors.Is
	As   = errors.As
	Join = errors.Join
	New  = errors.New
)

// Unwrap returns the result of calling the Unwrap method on err, if any.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// sentinelError is a leaf error with no wrapped cause, suitable as a
// comparison target for errors.Is.
type sentinelError struct {
	msg    string
	caller string
}

func (e *sentinelError) Error() string { return e.msg }

// NewSentinel creates a leaf error carrying no wrapped cause.
func NewSentinel(msg string) error {
	return &sentinelError{msg: msg, caller: callSite()}
}

// annotatedError wraps a cause with a human-readable context and
// structured attributes for logging.
type annotatedError struct {
	context string
	cause   error
	attrs   []slog.Attr
	caller  string
}

func (e *annotatedError) Error() string {
	if e.cause == nil {
		return e.context
	}
	return e.context + ": " + e.cause.Error()
}

func (e *annotatedError) Unwrap() error { return e.cause }

// Wrap annotates err with a context message and optional structured
// attributes. The attributes surface only through SlogError, never in
// Error().
func Wrap(err error, context string, attrs ...slog.Attr) error {
	return &annotatedError{
		context: context,
		cause:   err,
		attrs:   attrs,
		caller:  callSite(),
	}
}

// DecoratePanic converts a recovered panic value into an error that
// carries the location where the panic was raised. Called outside a
// panicking stack, it falls back to its own call site.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	caller := callSite()
	pcs := make([]uintptr, 32)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(1, pcs)])
	afterPanic := false
	for {
		frame, more := frames.Next()
		if frame.Function == "runtime.gopanic" {
			afterPanic = true
		} else if afterPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			caller = fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
			break
		}
		if !more {
			break
		}
	}
	return &annotatedError{
		context: fmt.Sprintf("panic: %v", recovered),
		caller:  caller,
	}
}

// SlogError renders err, including any annotations and call-site
// information it carries, as a single grouped slog attribute. It never
// panics, including on a nil error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}

	fields := []slog.Attr{slog.String("message", err.Error())}

	var ae *annotatedError
	if errors.As(err, &ae) && ae != nil {
		if len(ae.attrs) > 0 {
			fields = append(fields, slog.Attr{Key: "annotations", Value: slog.GroupValue(ae.attrs...)})
		}
		if ae.caller != "" {
			fields = append(fields, slog.String("caller", ae.caller))
		}
	} else {
		var se *sentinelError
		if errors.As(err, &se) && se != nil && se.caller != "" {
			fields = append(fields, slog.String("caller", se.caller))
		}
	}

	return slog.Attr{Key: "error", Value: slog.GroupValue(fields...)}
}

// callSite returns "file:line" of the first stack frame outside this
// file, i.e. wherever NewSentinel/Wrap/DecoratePanic was actually
// called from.
func callSite() string {
	for i := 0; i < 32; i++ {
		_, file, line, ok := runtime.Caller(i)
		if !ok {
			return "unknown"
		}
		if filepath.Base(file) == "annotatederror.go" {
			continue
		}
		return fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return "unknown"
}
