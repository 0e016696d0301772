package lexer

import (
	"unicode/utf8"

	"github.com/mica-lang/mica/core/token"
)

// Simple one-letter escapes. escKnown marks the letters the table defines,
// escValue gives the byte each produces; anything unmarked is an unknown
// escape.
var (
	escKnown [128]bool
	escValue [128]byte
)

func init() {
	set := func(c, v byte) {
		escKnown[c] = true
		escValue[c] = v
	}
	set('0', 0x00)
	set('a', 0x07)
	set('b', 0x08)
	set('t', 0x09)
	set('n', 0x0A)
	set('v', 0x0B)
	set('f', 0x0C)
	set('r', 0x0D)
	set('e', 0x1B)
	set('s', 0x20)
	set('"', '"')
	set('\'', '\'')
	set('\\', '\\')
	set('d', 0x7F)
}

// scanEscape decodes one escape sequence with the cursor just past the
// backslash and appends the result to l.text. Three failure shapes carry
// distinct diagnostics: a letter the table does not know (unknown), a
// numeric escape that completed but does not name a Unicode scalar
// (invalid), and input running out mid-sequence (incomplete). On failure
// the cursor sits after whatever the escape managed to consume.
func (l *Lexer) scanEscape() bool {
	escStart := l.rd.Pos() - 1
	cls, raw := l.rd.Classify(&quotedClasses)
	switch cls {
	case ClassEOF:
		l.diags.Errorf(l.nextLine, token.Span{Start: escStart, End: l.rd.Pos()}, "incomplete escape sequence")
		return false
	case ClassCR, ClassLF:
		// The newline stays in the body so the line count survives.
		l.diags.Errorf(l.nextLine, token.Span{Start: escStart, End: l.rd.Pos()}, "unknown escape sequence")
		return false
	}
	l.rd.Advance()
	switch raw {
	case 'x':
		return l.escapeHex(escStart)
	case 'u':
		return l.escapeUnicode(escStart)
	default:
		if raw < 0x80 && escKnown[raw] {
			l.text = append(l.text, escValue[raw])
			return true
		}
		l.diags.Errorf(l.nextLine, token.Span{Start: escStart, End: l.rd.Pos()}, "unknown escape sequence")
		return false
	}
}

// escapeHex scans the HH of \xHH: exactly two hex digits.
func (l *Lexer) escapeHex(escStart int) bool {
	var acc Accum
	for i := 0; i < 2; i++ {
		cls, raw := l.rd.Classify(&numClasses)
		if cls == ClassEOF {
			l.diags.Errorf(l.nextLine, token.Span{Start: escStart, End: l.rd.Pos()}, "incomplete escape sequence")
			return false
		}
		if cls != ClassDigit {
			l.diags.Errorf(l.nextLine, token.Span{Start: escStart, End: l.rd.Pos()}, "invalid escape sequence")
			return false
		}
		l.rd.Advance()
		acc.Digit(digitValue[raw], 16)
	}
	return l.emitScalar(escStart, acc.Value)
}

// escapeUnicode scans the {H...H} of \u{H...H}: one or more hex digits
// inside braces.
func (l *Lexer) escapeUnicode(escStart int) bool {
	cls, raw := l.rd.Classify(&quotedClasses)
	if cls == ClassEOF {
		l.diags.Errorf(l.nextLine, token.Span{Start: escStart, End: l.rd.Pos()}, "incomplete escape sequence")
		return false
	}
	if raw != '{' {
		l.diags.Errorf(l.nextLine, token.Span{Start: escStart, End: l.rd.Pos()}, "unknown escape sequence")
		return false
	}
	l.rd.Advance()
	acc := ScanInt(l.rd, 16)
	if cls, _ = l.rd.Classify(&quotedClasses); cls == ClassEOF {
		l.diags.Errorf(l.nextLine, token.Span{Start: escStart, End: l.rd.Pos()}, "incomplete escape sequence")
		return false
	}
	if !l.rd.AdvanceIf('}') {
		l.diags.Errorf(l.nextLine, token.Span{Start: escStart, End: l.rd.Pos()}, "invalid escape sequence")
		return false
	}
	if acc.Count() == 0 {
		// Empty braces, or an accumulation past 64 bits.
		l.diags.Errorf(l.nextLine, token.Span{Start: escStart, End: l.rd.Pos()}, "invalid escape sequence")
		return false
	}
	return l.emitScalar(escStart, acc.Value)
}

// emitScalar checks an accumulated code point names a Unicode scalar value
// and appends its UTF-8 encoding. Surrogates and values past U+10FFFF are
// not scalars.
func (l *Lexer) emitScalar(escStart int, v uint64) bool {
	if v > utf8.MaxRune || !utf8.ValidRune(rune(v)) {
		l.diags.Errorf(l.nextLine, token.Span{Start: escStart, End: l.rd.Pos()}, "invalid escape sequence")
		return false
	}
	l.text = utf8.AppendRune(l.text, rune(v))
	return true
}
