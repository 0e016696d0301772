// Package value is the constant domain for operand folding. A Value is a
// tagged union: integer payloads are raw 64-bit words whose signedness is
// decided by each operator, strings carry their decoded bytes, and errors
// carry a message so evaluation never panics mid-fold.
package value

import (
	"fmt"
	"math/bits"
	"strconv"

	"github.com/mica-lang/mica/core/token"
)

// Kind tags the union.
type Kind uint8

const (
	// Absent marks a value that could not be resolved, such as a symbol
	// reference. Any operation over an Absent operand stays Absent: the
	// fold gives up quietly and the expression remains symbolic.
	Absent Kind = iota
	Int
	Str
	Err
)

func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Int:
		return "int"
	case Str:
		return "str"
	case Err:
		return "err"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a tagged union. Bits holds integer payloads; Text holds string
// payloads and error messages. The zero Value is Absent.
type Value struct {
	Kind Kind
	Bits uint64
	Text string
}

// MakeInt builds an integer value from a signed quantity.
func MakeInt(i int64) Value { return Value{Kind: Int, Bits: uint64(i)} }

// MakeUint builds an integer value from an unsigned quantity. The payload
// is the same 64 bits either way; signedness belongs to the operators.
func MakeUint(u uint64) Value { return Value{Kind: Int, Bits: u} }

// MakeStr builds a string value.
func MakeStr(s string) Value { return Value{Kind: Str, Text: s} }

// Errorf builds an error value.
func Errorf(format string, args ...any) Value {
	return Value{Kind: Err, Text: fmt.Sprintf(format, args...)}
}

// Int returns the payload read as a signed integer.
func (v Value) Int() int64 { return int64(v.Bits) }

// Uint returns the payload read as an unsigned integer.
func (v Value) Uint() uint64 { return v.Bits }

// IsErr reports whether v is an error value.
func (v Value) IsErr() bool { return v.Kind == Err }

func (v Value) String() string {
	switch v.Kind {
	case Absent:
		return "absent"
	case Int:
		return strconv.FormatInt(int64(v.Bits), 10)
	case Str:
		return strconv.Quote(v.Text)
	case Err:
		return "error: " + v.Text
	}
	return "Value(" + strconv.Itoa(int(v.Kind)) + ")"
}

func truth(b bool) Value {
	if b {
		return Value{Kind: Int, Bits: 1}
	}
	return Value{Kind: Int, Bits: 0}
}

// Apply evaluates a binary operator over two folded operands. Error values
// propagate, Absent operands make the result Absent, and anything else must
// be an integer. Arithmetic wraps modulo 2^64; shift and rotate counts use
// the low six bits of the right operand.
func Apply(op token.Kind, a, b Value) Value {
	if a.Kind == Err {
		return a
	}
	if b.Kind == Err {
		return b
	}
	if a.Kind == Absent || b.Kind == Absent {
		return Value{}
	}
	if a.Kind != Int || b.Kind != Int {
		return Errorf("operator %s needs integer operands", op)
	}

	x, y := a.Bits, b.Bits
	switch op {
	case token.PLUS:
		return MakeUint(x + y)
	case token.MINUS:
		return MakeUint(x - y)
	case token.STAR:
		return MakeUint(x * y)
	case token.DIV:
		if y == 0 {
			return Errorf("division by zero")
		}
		if int64(y) == -1 {
			// Division by -1 is negation; dividing directly panics on
			// the minimum value.
			return MakeUint(-x)
		}
		return MakeInt(int64(x) / int64(y))
	case token.DIV_U:
		if y == 0 {
			return Errorf("division by zero")
		}
		return MakeUint(x / y)
	case token.MOD:
		if y == 0 {
			return Errorf("modulo by zero")
		}
		if int64(y) == -1 {
			return MakeUint(0)
		}
		return MakeInt(int64(x) % int64(y))
	case token.MOD_U:
		if y == 0 {
			return Errorf("modulo by zero")
		}
		return MakeUint(x % y)
	case token.AMP:
		return MakeUint(x & y)
	case token.PIPE:
		return MakeUint(x | y)
	case token.CARET:
		return MakeUint(x ^ y)
	case token.SHL:
		return MakeUint(x << (y & 63))
	case token.SHR:
		return MakeInt(int64(x) >> (y & 63))
	case token.SHR_U:
		return MakeUint(x >> (y & 63))
	case token.ROL:
		return MakeUint(bits.RotateLeft64(x, int(y&63)))
	case token.ROR:
		return MakeUint(bits.RotateLeft64(x, -int(y&63)))
	case token.AND_AND:
		return truth(x != 0 && y != 0)
	case token.OR_OR:
		return truth(x != 0 || y != 0)
	case token.EQ_EQ:
		return truth(x == y)
	case token.NOT_EQ:
		return truth(x != y)
	case token.LT:
		return truth(int64(x) < int64(y))
	case token.LT_U:
		return truth(x < y)
	case token.LT_EQ:
		return truth(int64(x) <= int64(y))
	case token.LT_EQ_U:
		return truth(x <= y)
	case token.GT:
		return truth(int64(x) > int64(y))
	case token.GT_U:
		return truth(x > y)
	case token.GT_EQ:
		return truth(int64(x) >= int64(y))
	case token.GT_EQ_U:
		return truth(x >= y)
	}
	return Errorf("%s is not a binary operator", op)
}

// ApplyUnary evaluates a prefix operator over one folded operand, with the
// same propagation rules as Apply.
func ApplyUnary(op token.Kind, v Value) Value {
	if v.Kind == Err {
		return v
	}
	if v.Kind == Absent {
		return Value{}
	}
	if v.Kind != Int {
		return Errorf("operator %s needs an integer operand", op)
	}

	switch op {
	case token.MINUS:
		return MakeUint(-v.Bits)
	case token.TILDE:
		return MakeUint(^v.Bits)
	case token.NOT:
		return truth(v.Bits == 0)
	}
	return Errorf("%s is not a unary operator", op)
}
