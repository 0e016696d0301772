package value

import (
	"math"
	"testing"

	"github.com/mica-lang/mica/core/token"
)

func TestApplyArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   token.Kind
		a, b Value
		want Value
	}{
		{"plus", token.PLUS, MakeInt(2), MakeInt(3), MakeInt(5)},
		{"plus wraps", token.PLUS, MakeUint(math.MaxUint64), MakeInt(1), MakeUint(0)},
		{"minus wraps", token.MINUS, MakeInt(0), MakeInt(1), MakeInt(-1)},
		{"star", token.STAR, MakeInt(-3), MakeInt(4), MakeInt(-12)},
		{"star wraps", token.STAR, MakeUint(1 << 63), MakeInt(2), MakeUint(0)},

		{"div truncates toward zero", token.DIV, MakeInt(-7), MakeInt(2), MakeInt(-3)},
		{"div negative divisor", token.DIV, MakeInt(7), MakeInt(-2), MakeInt(-3)},
		{"div by minus one", token.DIV, MakeInt(42), MakeInt(-1), MakeInt(-42)},
		{"div minimum by minus one", token.DIV, MakeInt(math.MinInt64), MakeInt(-1), MakeInt(math.MinInt64)},
		{"div unsigned", token.DIV_U, MakeInt(-7), MakeInt(2), MakeUint(9223372036854775804)},
		{"mod", token.MOD, MakeInt(-7), MakeInt(2), MakeInt(-1)},
		{"mod negative divisor", token.MOD, MakeInt(7), MakeInt(-2), MakeInt(1)},
		{"mod minimum by minus one", token.MOD, MakeInt(math.MinInt64), MakeInt(-1), MakeInt(0)},
		{"mod unsigned", token.MOD_U, MakeUint(7), MakeUint(4), MakeUint(3)},

		{"div by zero", token.DIV, MakeInt(1), MakeInt(0), Errorf("division by zero")},
		{"div unsigned by zero", token.DIV_U, MakeInt(1), MakeInt(0), Errorf("division by zero")},
		{"mod by zero", token.MOD, MakeInt(1), MakeInt(0), Errorf("modulo by zero")},
		{"mod unsigned by zero", token.MOD_U, MakeInt(1), MakeInt(0), Errorf("modulo by zero")},

		{"and", token.AMP, MakeUint(0b1100), MakeUint(0b1010), MakeUint(0b1000)},
		{"or", token.PIPE, MakeUint(0b1100), MakeUint(0b1010), MakeUint(0b1110)},
		{"xor", token.CARET, MakeUint(0b1100), MakeUint(0b1010), MakeUint(0b0110)},

		{"shl", token.SHL, MakeInt(1), MakeInt(3), MakeInt(8)},
		{"shl count masked", token.SHL, MakeInt(1), MakeInt(64), MakeInt(1)},
		{"shl count masked past word", token.SHL, MakeInt(1), MakeInt(65), MakeInt(2)},
		{"shl negative count masks to 63", token.SHL, MakeInt(1), MakeInt(-1), MakeUint(1 << 63)},
		{"shr keeps sign", token.SHR, MakeInt(-8), MakeInt(1), MakeInt(-4)},
		{"shr sign fill", token.SHR, MakeInt(math.MinInt64), MakeInt(63), MakeInt(-1)},
		{"shr unsigned zero fill", token.SHR_U, MakeInt(math.MinInt64), MakeInt(63), MakeUint(1)},
		{"shr unsigned", token.SHR_U, MakeInt(-8), MakeInt(1), MakeUint(9223372036854775804)},

		{"rol", token.ROL, MakeUint(0x8000000000000001), MakeInt(1), MakeUint(3)},
		{"rol full turn", token.ROL, MakeUint(0xDEADBEEF), MakeInt(64), MakeUint(0xDEADBEEF)},
		{"ror", token.ROR, MakeUint(3), MakeInt(1), MakeUint(0x8000000000000001)},
		{"ror nibble", token.ROR, MakeUint(0x1F), MakeInt(4), MakeUint(0xF000000000000001)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.op, tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Apply(%v) = %#v, want %#v", tt.op, got, tt.want)
			}
		})
	}
}

func TestApplyComparisons(t *testing.T) {
	tests := []struct {
		name string
		op   token.Kind
		a, b Value
		want uint64
	}{
		{"lt signed", token.LT, MakeInt(-1), MakeInt(0), 1},
		{"lt unsigned sees max", token.LT_U, MakeInt(-1), MakeInt(0), 0},
		{"lt eq", token.LT_EQ, MakeInt(5), MakeInt(5), 1},
		{"lt eq unsigned", token.LT_EQ_U, MakeInt(-1), MakeInt(-1), 1},
		{"gt signed", token.GT, MakeInt(-1), MakeInt(0), 0},
		{"gt unsigned sees max", token.GT_U, MakeInt(-1), MakeInt(0), 1},
		{"gt eq signed", token.GT_EQ, MakeInt(math.MinInt64), MakeInt(math.MaxInt64), 0},
		{"gt eq unsigned", token.GT_EQ_U, MakeUint(1 << 63), MakeInt(math.MaxInt64), 1},
		{"eq ignores signedness", token.EQ_EQ, MakeInt(-1), MakeUint(math.MaxUint64), 1},
		{"not eq", token.NOT_EQ, MakeInt(1), MakeInt(2), 1},
		{"and and", token.AND_AND, MakeInt(2), MakeInt(3), 1},
		{"and and zero", token.AND_AND, MakeInt(0), MakeInt(5), 0},
		{"or or zero", token.OR_OR, MakeInt(0), MakeInt(0), 0},
		{"or or", token.OR_OR, MakeInt(0), MakeInt(9), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.op, tt.a, tt.b)
			if got != MakeUint(tt.want) {
				t.Errorf("Apply(%v) = %#v, want int %d", tt.op, got, tt.want)
			}
		})
	}
}

func TestApplyPropagation(t *testing.T) {
	tests := []struct {
		name string
		op   token.Kind
		a, b Value
		want Value
	}{
		{"left error wins", token.PLUS, Errorf("left"), Errorf("right"), Errorf("left")},
		{"error beats absent", token.PLUS, Value{}, Errorf("boom"), Errorf("boom")},
		{"absent poisons left", token.PLUS, Value{}, MakeInt(1), Value{}},
		{"absent poisons right", token.STAR, MakeInt(1), Value{}, Value{}},
		{"string operand", token.PLUS, MakeStr("a"), MakeInt(1), Errorf("operator PLUS needs integer operands")},
		{"strings do not compare", token.EQ_EQ, MakeStr("a"), MakeStr("a"), Errorf("operator EQ_EQ needs integer operands")},
		{"non operator kind", token.COMMA, MakeInt(1), MakeInt(2), Errorf("COMMA is not a binary operator")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.op, tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Apply(%v) = %#v, want %#v", tt.op, got, tt.want)
			}
		})
	}
}

func TestApplyUnary(t *testing.T) {
	tests := []struct {
		name string
		op   token.Kind
		v    Value
		want Value
	}{
		{"negate", token.MINUS, MakeInt(5), MakeInt(-5)},
		{"negate zero", token.MINUS, MakeInt(0), MakeInt(0)},
		{"negate minimum wraps", token.MINUS, MakeInt(math.MinInt64), MakeInt(math.MinInt64)},
		{"complement", token.TILDE, MakeInt(0), MakeInt(-1)},
		{"complement max", token.TILDE, MakeUint(math.MaxUint64), MakeUint(0)},
		{"not zero", token.NOT, MakeInt(0), MakeInt(1)},
		{"not nonzero", token.NOT, MakeInt(7), MakeInt(0)},

		{"error propagates", token.MINUS, Errorf("boom"), Errorf("boom")},
		{"absent propagates", token.MINUS, Value{}, Value{}},
		{"string operand", token.MINUS, MakeStr("a"), Errorf("operator MINUS needs an integer operand")},
		{"non operator kind", token.PLUS, MakeInt(1), Errorf("PLUS is not a unary operator")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyUnary(tt.op, tt.v)
			if got != tt.want {
				t.Errorf("ApplyUnary(%v) = %#v, want %#v", tt.op, got, tt.want)
			}
		})
	}
}

// Every operator the lexer can produce must land on a real case, not the
// trailing not-an-operator arm.
func TestApplyCoversOperatorCatalog(t *testing.T) {
	ops := []token.Kind{
		token.PLUS, token.MINUS, token.STAR,
		token.DIV, token.DIV_U, token.MOD, token.MOD_U,
		token.AMP, token.PIPE, token.CARET,
		token.SHL, token.SHR, token.SHR_U, token.ROL, token.ROR,
		token.AND_AND, token.OR_OR,
		token.EQ_EQ, token.NOT_EQ,
		token.LT, token.LT_U, token.LT_EQ, token.LT_EQ_U,
		token.GT, token.GT_U, token.GT_EQ, token.GT_EQ_U,
	}
	for _, op := range ops {
		if got := Apply(op, MakeInt(6), MakeInt(3)); got.Kind != Int {
			t.Errorf("Apply(%v, 6, 3) = %#v, want an integer", op, got)
		}
	}
	for _, op := range []token.Kind{token.MINUS, token.TILDE, token.NOT} {
		if got := ApplyUnary(op, MakeInt(6)); got.Kind != Int {
			t.Errorf("ApplyUnary(%v, 6) = %#v, want an integer", op, got)
		}
	}
}

func TestValueStrings(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"absent", Value{}, "absent"},
		{"int", MakeInt(-5), "-5"},
		{"str", MakeStr("hi"), `"hi"`},
		{"err", Errorf("x %d", 3), "error: x 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}

	kinds := map[Kind]string{Absent: "absent", Int: "int", Str: "str", Err: "err", Kind(9): "Kind(9)"}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", uint8(k), got, want)
		}
	}
}
