// Package session carries the state shared by one assembly run.
//
// There is no ambient global table anywhere in the assembler: everything
// that needs the interner or the diagnostic sink gets this object threaded
// through explicitly. One session per input unit; discard the whole thing
// when the run ends.
package session

import (
	"github.com/mica-lang/mica/core/diag"
	"github.com/mica-lang/mica/runtime/intern"
)

// Session owns the name table and diagnostic reporter for one assembly run.
type Session struct {
	Names *intern.Table
	Diags *diag.Reporter
}

// New creates a session with a fresh name table and reporter.
func New(opts ...diag.ReporterOpt) *Session {
	return &Session{
		Names: intern.New(),
		Diags: diag.NewReporter(opts...),
	}
}
