package lexer

import (
	"strings"

	"github.com/mica-lang/mica/core/invariant"
	"github.com/mica-lang/mica/core/token"
)

// Class is a logical character: an equivalence class of raw input bytes
// that receive identical treatment at a given point in scanning. Each
// scanner owns a 128-entry table mapping ASCII bytes to the classes it
// distinguishes; two classes are reserved and never appear in any table,
// because Classify synthesizes them itself: ClassHigh for any byte >= 0x80
// and ClassEOF for end of input.
type Class uint8

const (
	ClassOther Class = iota // no special meaning in the current table
	ClassEOF                // end of input (reserved)
	ClassHigh               // byte >= 0x80 (reserved)

	// Main scanner.
	ClassBlank     // space, tab
	ClassCR        // \r
	ClassLF        // \n
	ClassHash      // # comment opener
	ClassDigit     // 0-9 in the main table; a digit row 0-15 in the numeric table
	ClassLetter    // A-Z a-z _ in the main table; non-digit letters in the numeric table
	ClassDQuote    // "
	ClassSQuote    // '
	ClassDot       // . label sigil
	ClassDollar    // $ label sigil
	ClassAt        // @ label sigil
	ClassBackslash // \ macro parameter sigil, escape introducer
	ClassPunct     // ( ) [ ] { } , :
	ClassOp        // operator bytes

	// Numeric sublexer.
	ClassPoint // radix point
	ClassExp   // p P exponent marker
	ClassSign  // + -
	ClassSep   // _ cosmetic separator

	// Quoted sublexer.
	ClassContent // ordinary literal body byte

	classCount
)

// ClassTable maps each ASCII byte to its logical class. Lookup for bytes
// >= 0x80 and for end of input never reaches the table; Classify handles
// both with the reserved classes.
type ClassTable [128]Class

// ASCII classification tables, one per scanner, built once at startup.
// digitValue doubles as the digit decoder: 0-15 for a digit row, 0xFF for
// anything else.
var (
	mainClasses   ClassTable
	numClasses    ClassTable
	quotedClasses ClassTable
	digitValue    [128]uint8

	singleByteKind [128]token.Kind // punctuation byte -> its token
)

const (
	punctBytes    = "()[]{},:"
	operatorBytes = "+-*/%&|^~!<>="
)

func init() {
	for i := 0; i < 128; i++ {
		digitValue[i] = 0xFF
	}
	for b := byte('0'); b <= '9'; b++ {
		digitValue[b] = b - '0'
	}
	for b := byte('a'); b <= 'f'; b++ {
		digitValue[b] = 10 + b - 'a'
	}
	for b := byte('A'); b <= 'F'; b++ {
		digitValue[b] = 10 + b - 'A'
	}

	for i := 0; i < 128; i++ {
		b := byte(i)
		letter := ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || b == '_'

		switch {
		case b == ' ' || b == '\t':
			mainClasses[i] = ClassBlank
		case b == '\r':
			mainClasses[i] = ClassCR
		case b == '\n':
			mainClasses[i] = ClassLF
		case b == '#':
			mainClasses[i] = ClassHash
		case '0' <= b && b <= '9':
			mainClasses[i] = ClassDigit
		case letter:
			mainClasses[i] = ClassLetter
		case b == '"':
			mainClasses[i] = ClassDQuote
		case b == '\'':
			mainClasses[i] = ClassSQuote
		case b == '.':
			mainClasses[i] = ClassDot
		case b == '$':
			mainClasses[i] = ClassDollar
		case b == '@':
			mainClasses[i] = ClassAt
		case b == '\\':
			mainClasses[i] = ClassBackslash
		case strings.IndexByte(punctBytes, b) >= 0:
			mainClasses[i] = ClassPunct
		case strings.IndexByte(operatorBytes, b) >= 0:
			mainClasses[i] = ClassOp
		default:
			mainClasses[i] = ClassOther
		}

		switch {
		case b == 'p' || b == 'P':
			numClasses[i] = ClassExp
		case digitValue[i] != 0xFF:
			numClasses[i] = ClassDigit
		case b == '.':
			numClasses[i] = ClassPoint
		case b == '+' || b == '-':
			numClasses[i] = ClassSign
		case b == '_':
			numClasses[i] = ClassSep
		case letter:
			numClasses[i] = ClassLetter
		default:
			numClasses[i] = ClassOther
		}

		switch b {
		case '"':
			quotedClasses[i] = ClassDQuote
		case '\'':
			quotedClasses[i] = ClassSQuote
		case '\\':
			quotedClasses[i] = ClassBackslash
		case '\r':
			quotedClasses[i] = ClassCR
		case '\n':
			quotedClasses[i] = ClassLF
		default:
			quotedClasses[i] = ClassContent
		}
	}

	singleByteKind['('] = token.LPAREN
	singleByteKind[')'] = token.RPAREN
	singleByteKind['['] = token.LBRACKET
	singleByteKind[']'] = token.RBRACKET
	singleByteKind['{'] = token.LBRACE
	singleByteKind['}'] = token.RBRACE
	singleByteKind[','] = token.COMMA
	singleByteKind[':'] = token.COLON

	validateTable("main", &mainClasses,
		ClassOther, ClassBlank, ClassCR, ClassLF, ClassHash, ClassDigit,
		ClassLetter, ClassDQuote, ClassSQuote, ClassDot, ClassDollar,
		ClassAt, ClassBackslash, ClassPunct, ClassOp)
	validateTable("numeric", &numClasses,
		ClassOther, ClassDigit, ClassLetter, ClassPoint, ClassExp,
		ClassSign, ClassSep)
	validateTable("quoted", &quotedClasses,
		ClassContent, ClassDQuote, ClassSQuote, ClassBackslash, ClassCR,
		ClassLF)
}

// validateTable checks a table is total over 0-127 and only produces the
// classes its scanner has transitions for. The reserved classes never
// appear in a table.
func validateTable(name string, table *ClassTable, allowed ...Class) {
	var ok [classCount]bool
	for _, c := range allowed {
		ok[c] = true
	}
	for i, c := range table {
		invariant.Invariant(c < classCount, "%s table entry %d out of range", name, i)
		invariant.Invariant(c != ClassEOF && c != ClassHigh, "%s table entry %d uses a reserved class", name, i)
		invariant.Invariant(ok[c], "%s table entry %d produces class %d with no transition", name, i, c)
	}
}
