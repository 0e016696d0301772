package parser

import (
	"github.com/mica-lang/mica/core/token"
	"github.com/mica-lang/mica/runtime/intern"
	"github.com/mica-lang/mica/runtime/value"
)

// Label is one label declaration. Labels written on their own line belong
// to the next statement that carries a mnemonic.
type Label struct {
	Name  intern.Name
	Scope token.LabelScope
	Line  int
	Span  token.Span
}

// Operand is one operand expression, folded to a constant where the source
// allows it. Unresolved names leave Val absent.
type Operand struct {
	Val  value.Value
	Line int
	Span token.Span
}

// Statement is one source statement: its labels, its mnemonic, and its
// operands. Labels left dangling at end of input form a final statement
// with no mnemonic.
type Statement struct {
	Labels   []Label
	Mnemonic intern.Name
	Line     int
	Span     token.Span
	Operands []Operand
}
