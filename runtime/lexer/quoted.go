package lexer

import (
	"unicode/utf8"

	"github.com/mica-lang/mica/core/token"
)

// scanString scans a double-quoted literal with the cursor on the opening
// quote. The decoded bytes land in l.text.
func (l *Lexer) scanString(start, line int) (token.Kind, bool) {
	if !l.scanQuoted('"', "string", start, line) {
		return token.ILLEGAL, false
	}
	return token.STRING, true
}

// scanChar scans a single-quoted literal and checks the decoded content is
// exactly one Unicode scalar, which lands in l.ch.
func (l *Lexer) scanChar(start, line int) (token.Kind, bool) {
	if !l.scanQuoted('\'', "character", start, line) {
		return token.ILLEGAL, false
	}
	span := token.Span{Start: start, End: l.rd.Pos()}
	switch n := utf8.RuneCount(l.text); {
	case n == 0:
		l.diags.Errorf(line, span, "empty character literal")
		return token.ILLEGAL, false
	case !utf8.Valid(l.text):
		l.diags.Errorf(line, span, "character literal is not valid UTF-8")
		return token.ILLEGAL, false
	case n > 1:
		l.diags.Errorf(line, span, "character literal holds %d characters", n)
		return token.ILLEGAL, false
	}
	r, _ := utf8.DecodeRune(l.text)
	l.ch = r
	return token.CHAR, true
}

// scanQuoted consumes a quoted literal body into l.text. Literals may span
// physical lines; embedded newlines count with the same CR/CRLF/LF folding
// as statement terminators, and the raw terminator bytes stay part of the
// content. Returns false without a token when the literal is unterminated
// or an escape inside it failed; the cursor still ends after everything
// the literal claimed, so scanning continues cleanly.
func (l *Lexer) scanQuoted(term byte, what string, start, line int) bool {
	l.text = l.text[:0]
	l.rd.Advance() // opening quote
	ok := true
	for {
		cls, raw := l.rd.Classify(&quotedClasses)
		switch cls {
		case ClassEOF:
			l.diags.Errorf(line, token.Span{Start: start, End: l.rd.Pos()}, "unterminated %s literal", what)
			return false
		case ClassDQuote, ClassSQuote:
			l.rd.Advance()
			if raw == term {
				return ok
			}
			l.text = append(l.text, raw)
		case ClassBackslash:
			l.rd.Advance()
			if !l.scanEscape() {
				ok = false
			}
		case ClassCR:
			l.rd.Advance()
			l.text = append(l.text, '\r')
			if l.rd.AdvanceIf('\n') {
				l.text = append(l.text, '\n')
			}
			l.nextLine++
		case ClassLF:
			l.rd.Advance()
			l.text = append(l.text, '\n')
			l.nextLine++
		default: // ClassContent, ClassHigh
			l.rd.Advance()
			l.text = append(l.text, raw)
		}
	}
}
