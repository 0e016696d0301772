// Package token defines the lexical vocabulary of Mica assembly.
package token

// Kind identifies a lexical token.
//
// Every kind fits in 7 bits; the memo encoding packs a kind and a tag bit
// into a single byte and breaks if this grows past 127.
type Kind uint8

const (
	// Special tokens
	EOF     Kind = iota // end of input
	ILLEGAL             // no token produced; never leaves the scanner
	EOS                 // end of statement: \n, \r or \r\n

	// Names and literals
	IDENT
	LABEL // sigil-prefixed label declaration or reference; scope is payload
	PARAM // \name or \1 macro parameter
	INT
	FLOAT
	STRING
	CHAR

	// Punctuation
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	LBRACE   // {
	RBRACE   // }
	COMMA    // ,
	COLON    // :

	// Operators. The _U forms are the unsigned variants selected by a +
	// prefix, e.g. +/ or +<=.
	PLUS    // +
	MINUS   // -
	STAR    // *
	DIV     // /
	DIV_U   // +/
	MOD     // %
	MOD_U   // +%
	AMP     // &
	PIPE    // |
	CARET   // ^
	TILDE   // ~
	NOT     // !
	SHL     // <<
	SHR     // >>
	SHR_U   // +>>
	ROL     // <<<
	ROR     // >>>
	AND_AND // &&
	OR_OR   // ||
	EQ_EQ   // ==
	NOT_EQ  // !=
	LT      // <
	LT_U    // +<
	LT_EQ   // <=
	LT_EQ_U // +<=
	GT      // >
	GT_U    // +>
	GT_EQ   // >=
	GT_EQ_U // +>=
	EQUALS  // =

	KindCount // number of kinds, not a token
)

// Variant maps a kind to its paired alternate form when sel is odd. Kinds
// without a paired variant map to themselves. The pairing is spelled out
// case by case so the token order above can change without silently
// remapping anything.
func (k Kind) Variant(sel uint32) Kind {
	if sel&1 == 0 {
		return k
	}
	switch k {
	case DIV:
		return DIV_U
	case MOD:
		return MOD_U
	case SHR:
		return SHR_U
	case LT:
		return LT_U
	case LT_EQ:
		return LT_EQ_U
	case GT:
		return GT_U
	case GT_EQ:
		return GT_EQ_U
	}
	return k
}

// String returns the token kind name for diagnostics and dumps.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case ILLEGAL:
		return "ILLEGAL"
	case EOS:
		return "EOS"
	case IDENT:
		return "IDENT"
	case LABEL:
		return "LABEL"
	case PARAM:
		return "PARAM"
	case INT:
		return "INT"
	case FLOAT:
		return "FLOAT"
	case STRING:
		return "STRING"
	case CHAR:
		return "CHAR"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case LBRACKET:
		return "LBRACKET"
	case RBRACKET:
		return "RBRACKET"
	case LBRACE:
		return "LBRACE"
	case RBRACE:
		return "RBRACE"
	case COMMA:
		return "COMMA"
	case COLON:
		return "COLON"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case STAR:
		return "STAR"
	case DIV:
		return "DIV"
	case DIV_U:
		return "DIV_U"
	case MOD:
		return "MOD"
	case MOD_U:
		return "MOD_U"
	case AMP:
		return "AMP"
	case PIPE:
		return "PIPE"
	case CARET:
		return "CARET"
	case TILDE:
		return "TILDE"
	case NOT:
		return "NOT"
	case SHL:
		return "SHL"
	case SHR:
		return "SHR"
	case SHR_U:
		return "SHR_U"
	case ROL:
		return "ROL"
	case ROR:
		return "ROR"
	case AND_AND:
		return "AND_AND"
	case OR_OR:
		return "OR_OR"
	case EQ_EQ:
		return "EQ_EQ"
	case NOT_EQ:
		return "NOT_EQ"
	case LT:
		return "LT"
	case LT_U:
		return "LT_U"
	case LT_EQ:
		return "LT_EQ"
	case LT_EQ_U:
		return "LT_EQ_U"
	case GT:
		return "GT"
	case GT_U:
		return "GT_U"
	case GT_EQ:
		return "GT_EQ"
	case GT_EQ_U:
		return "GT_EQ_U"
	case EQUALS:
		return "EQUALS"
	default:
		return "UNKNOWN"
	}
}

// LabelScope says how far a label declaration is visible. It rides along
// with a LABEL token as out-of-band payload.
type LabelScope uint8

const (
	ScopeLocal   LabelScope = iota // .name - assembler-local, never emitted
	ScopeHidden                    // ..name - file-wide, hidden from the linker
	ScopePrivate                   // $name - emitted, not exported
	ScopeWeak                      // $$name - emitted, overridable
	ScopePublic                    // @name - exported
)

// Sigil returns the source spelling that selects the scope.
func (s LabelScope) Sigil() string {
	switch s {
	case ScopeLocal:
		return "."
	case ScopeHidden:
		return ".."
	case ScopePrivate:
		return "$"
	case ScopeWeak:
		return "$$"
	case ScopePublic:
		return "@"
	default:
		return "?"
	}
}

func (s LabelScope) String() string {
	switch s {
	case ScopeLocal:
		return "local"
	case ScopeHidden:
		return "hidden"
	case ScopePrivate:
		return "private"
	case ScopeWeak:
		return "weak"
	case ScopePublic:
		return "public"
	default:
		return "unknown"
	}
}

// Span is a half-open [Start, End) byte range in the source.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }
