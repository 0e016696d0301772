// Package diag collects the problems an assembly run finds in its input.
//
// Everything here is recoverable: the lexer and parser report a problem and
// keep scanning, so one pass surfaces every diagnostic in the file. Contract
// violations inside the assembler itself do not come through this package,
// they panic via core/invariant.
package diag

import (
	"fmt"

	"github.com/mica-lang/mica/core/token"
)

// Severity ranks a diagnostic.
type Severity uint8

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is one recorded problem tied to a byte range in the source.
// Line is 0-based, matching the lexer's line counter.
type Diagnostic struct {
	Severity Severity
	Line     int
	Span     token.Span
	Msg      string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d: %s: %s", d.Line+1, d.Severity, d.Msg)
}

// Reporter accumulates diagnostics for one source unit. The counters keep
// exact totals even after the storage cap drops the entries themselves.
type Reporter struct {
	diags    []Diagnostic
	errors   int
	warnings int
	limit    int // stored-entry cap; 0 means unlimited
}

// ReporterOpt configures a Reporter.
type ReporterOpt func(*Reporter)

// WithLimit caps how many diagnostics the reporter stores. Reports past the
// cap still count toward the totals.
func WithLimit(n int) ReporterOpt {
	return func(r *Reporter) { r.limit = n }
}

// NewReporter creates an empty reporter.
func NewReporter(opts ...ReporterOpt) *Reporter {
	r := &Reporter{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Errorf records an error at the given line and byte range.
func (r *Reporter) Errorf(line int, span token.Span, format string, args ...interface{}) {
	r.report(Error, line, span, format, args...)
}

// Warnf records a warning at the given line and byte range.
func (r *Reporter) Warnf(line int, span token.Span, format string, args ...interface{}) {
	r.report(Warning, line, span, format, args...)
}

func (r *Reporter) report(sev Severity, line int, span token.Span, format string, args ...interface{}) {
	switch sev {
	case Warning:
		r.warnings++
	default:
		r.errors++
	}
	if r.limit > 0 && len(r.diags) >= r.limit {
		return
	}
	r.diags = append(r.diags, Diagnostic{
		Severity: sev,
		Line:     line,
		Span:     span,
		Msg:      fmt.Sprintf(format, args...),
	})
}

// All returns the stored diagnostics in report order.
func (r *Reporter) All() []Diagnostic { return r.diags }

// ErrorCount returns the total number of errors reported, including any
// dropped by the storage cap.
func (r *Reporter) ErrorCount() int { return r.errors }

// WarningCount returns the total number of warnings reported.
func (r *Reporter) WarningCount() int { return r.warnings }

// HasErrors reports whether any error-severity diagnostic was recorded.
func (r *Reporter) HasErrors() bool { return r.errors > 0 }
