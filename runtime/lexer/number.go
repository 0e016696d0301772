package lexer

import (
	"math"
	"math/bits"

	"github.com/mica-lang/mica/core/invariant"
	"github.com/mica-lang/mica/core/token"
)

// Accum builds a numeric magnitude one byte at a time with overflow-checked
// 64-bit arithmetic. Every accepted byte folds in as value = value*scale +
// digit; a genuine digit uses the radix as scale and bumps the digit count,
// a cosmetic separator uses scale 1 and no digit, leaving the value alone.
// Overflow is sticky: once a multiply or add spills past 64 bits the flag
// stays set for the rest of the literal.
type Accum struct {
	Value    uint64
	Digits   uint32
	Overflow bool
}

// Digit folds one genuine digit under the given radix.
func (a *Accum) Digit(d uint8, radix uint32) {
	a.fold(uint64(d), uint64(radix))
	a.Digits++
}

// Separator folds a cosmetic separator: scale 1, no digit, no count.
func (a *Accum) Separator() {
	a.fold(0, 1)
}

func (a *Accum) fold(digit, scale uint64) {
	hi, lo := bits.Mul64(a.Value, scale)
	sum, carry := bits.Add64(lo, digit, 0)
	a.Value = sum
	if hi != 0 || carry != 0 {
		a.Overflow = true
	}
}

// Count returns the digit count, or 0 after any overflow. A zero count
// tells the caller there is no usable literal here: either nothing was a
// digit, or the value cannot be trusted.
func (a *Accum) Count() uint32 {
	if a.Overflow {
		return 0
	}
	return a.Digits
}

// ScanInt scans a run of digits and separators in the given radix. The
// scan consumes eagerly and hands the terminating byte back, so the
// remaining input begins exactly at the first byte that is neither a digit
// under the radix nor a separator. At end of input there is nothing to
// hand back.
func ScanInt(rd *Reader, radix uint32) Accum {
	var acc Accum
	for {
		cls, raw := rd.Classify(&numClasses)
		rd.Advance()
		switch {
		case cls == ClassDigit && uint32(digitValue[raw]) < radix:
			acc.Digit(digitValue[raw], radix)
		case cls == ClassSep:
			acc.Separator()
		default:
			rd.Unread()
			return acc
		}
	}
}

// Number is the out-of-band payload of an INT or FLOAT token. The lexer
// keeps it integral: significand, counts and exponent are reported as
// scanned, and whatever consumes the token decides how to combine them.
type Number struct {
	Value  uint64 // significand magnitude, all digits folded under Radix
	Digits uint32 // significand digit count
	Radix  uint32 // 2, 8, 10 or 16
	Float  bool   // a radix point or exponent marker was present
	Frac   uint32 // digits after the radix point
	Exp    int64  // exponent with its sign applied
}

// Numeric sublexer states. The invalid state is absorbing: once a byte
// breaks the literal grammar the scanner eats the rest of the blob
// (digits, letters, points, markers, separators) and reports a single
// error for all of it.
type numState uint8

const (
	numIntFirst   numState = iota // before the first significand digit
	numIntDigits                  // integer part
	numFracFirst                  // just after the radix point
	numFracDigits                 // fraction part
	numExpFirst                   // just after the exponent marker
	numExpSign                    // just after the exponent sign
	numExpDigits                  // exponent digits
	numInvalid                    // absorbing garbage run
	numStateCount
)

type numAction uint8

const (
	numUnset   numAction = iota // unfilled cell, rejected at startup
	numDigit                    // fold a genuine digit
	numSep                      // fold a cosmetic separator
	numPoint                    // consume the radix point
	numMark                     // consume the exponent marker
	numSign                     // consume the exponent sign
	numGarbage                  // absorb one byte of an invalid literal
	numStop                     // hand the byte back and finish
)

type numTransition struct {
	next numState
	act  numAction
}

// numProgram is the numeric DFA: state x logical class -> transition. Stop
// cells leave next at the current state; it is never read.
var numProgram = [numStateCount][classCount]numTransition{
	numIntFirst: {
		ClassDigit:  {numIntDigits, numDigit},
		ClassLetter: {numInvalid, numGarbage},
		ClassPoint:  {numFracFirst, numPoint},
		ClassExp:    {numExpFirst, numMark},
		ClassSign:   {numIntFirst, numStop},
		ClassSep:    {numIntFirst, numSep},
		ClassOther:  {numIntFirst, numStop},
		ClassHigh:   {numIntFirst, numStop},
		ClassEOF:    {numIntFirst, numStop},
	},
	numIntDigits: {
		ClassDigit:  {numIntDigits, numDigit},
		ClassLetter: {numInvalid, numGarbage},
		ClassPoint:  {numFracFirst, numPoint},
		ClassExp:    {numExpFirst, numMark},
		ClassSign:   {numIntDigits, numStop},
		ClassSep:    {numIntDigits, numSep},
		ClassOther:  {numIntDigits, numStop},
		ClassHigh:   {numIntDigits, numStop},
		ClassEOF:    {numIntDigits, numStop},
	},
	numFracFirst: {
		ClassDigit:  {numFracDigits, numDigit},
		ClassLetter: {numInvalid, numGarbage},
		ClassPoint:  {numInvalid, numGarbage},
		ClassExp:    {numExpFirst, numMark},
		ClassSign:   {numFracFirst, numStop},
		ClassSep:    {numFracFirst, numSep},
		ClassOther:  {numFracFirst, numStop},
		ClassHigh:   {numFracFirst, numStop},
		ClassEOF:    {numFracFirst, numStop},
	},
	numFracDigits: {
		ClassDigit:  {numFracDigits, numDigit},
		ClassLetter: {numInvalid, numGarbage},
		ClassPoint:  {numInvalid, numGarbage},
		ClassExp:    {numExpFirst, numMark},
		ClassSign:   {numFracDigits, numStop},
		ClassSep:    {numFracDigits, numSep},
		ClassOther:  {numFracDigits, numStop},
		ClassHigh:   {numFracDigits, numStop},
		ClassEOF:    {numFracDigits, numStop},
	},
	numExpFirst: {
		ClassDigit:  {numExpDigits, numDigit},
		ClassLetter: {numInvalid, numGarbage},
		ClassPoint:  {numInvalid, numGarbage},
		ClassExp:    {numInvalid, numGarbage},
		ClassSign:   {numExpSign, numSign},
		ClassSep:    {numExpFirst, numSep},
		ClassOther:  {numExpFirst, numStop},
		ClassHigh:   {numExpFirst, numStop},
		ClassEOF:    {numExpFirst, numStop},
	},
	numExpSign: {
		ClassDigit:  {numExpDigits, numDigit},
		ClassLetter: {numInvalid, numGarbage},
		ClassPoint:  {numInvalid, numGarbage},
		ClassExp:    {numInvalid, numGarbage},
		ClassSign:   {numExpSign, numStop},
		ClassSep:    {numExpSign, numSep},
		ClassOther:  {numExpSign, numStop},
		ClassHigh:   {numExpSign, numStop},
		ClassEOF:    {numExpSign, numStop},
	},
	numExpDigits: {
		ClassDigit:  {numExpDigits, numDigit},
		ClassLetter: {numInvalid, numGarbage},
		ClassPoint:  {numInvalid, numGarbage},
		ClassExp:    {numInvalid, numGarbage},
		ClassSign:   {numExpDigits, numStop},
		ClassSep:    {numExpDigits, numSep},
		ClassOther:  {numExpDigits, numStop},
		ClassHigh:   {numExpDigits, numStop},
		ClassEOF:    {numExpDigits, numStop},
	},
	numInvalid: {
		ClassDigit:  {numInvalid, numGarbage},
		ClassLetter: {numInvalid, numGarbage},
		ClassPoint:  {numInvalid, numGarbage},
		ClassExp:    {numInvalid, numGarbage},
		ClassSign:   {numInvalid, numStop},
		ClassSep:    {numInvalid, numGarbage},
		ClassOther:  {numInvalid, numStop},
		ClassHigh:   {numInvalid, numStop},
		ClassEOF:    {numInvalid, numStop},
	},
}

func init() {
	// The numeric table can only ever produce these classes; every state
	// must have a transition for each of them.
	producible := []Class{
		ClassDigit, ClassLetter, ClassPoint, ClassExp, ClassSign,
		ClassSep, ClassOther, ClassHigh, ClassEOF,
	}
	for st := numState(0); st < numStateCount; st++ {
		for _, cls := range producible {
			invariant.Invariant(numProgram[st][cls].act != numUnset,
				"numeric transition unset for state %d class %d", st, cls)
		}
	}
}

func inExponent(st numState) bool {
	return st == numExpFirst || st == numExpSign || st == numExpDigits
}

// scanNumber runs the numeric DFA with the cursor on the first digit. On
// success the payload lands in l.num; on failure a diagnostic is recorded
// and no token is produced, with the cursor just past the last byte that
// belonged to the broken literal.
func (l *Lexer) scanNumber(start, line int) (token.Kind, bool) {
	var sig, exp Accum
	radix := uint32(10)
	st := numIntFirst
	var fracDigits uint32
	var sawPoint, sawExp, expNeg bool

	// A leading 0 may introduce a base prefix. The prefix consumes the 0,
	// so the accumulator starts over behind it: a bare prefix ends with
	// zero digits and is reported as no literal at all.
	if _, raw := l.rd.Classify(&numClasses); raw == '0' {
		l.rd.Advance()
		sig.Digit(0, 10)
		st = numIntDigits
		_, p := l.rd.Classify(&numClasses)
		switch p {
		case 'b', 'B':
			radix = 2
		case 'o', 'O':
			radix = 8
		case 'x', 'X':
			radix = 16
		}
		if radix != 10 {
			l.rd.Advance()
			sig = Accum{}
			st = numIntFirst
		}
	}

scan:
	for {
		cls, raw := l.rd.Classify(&numClasses)
		if cls == ClassDigit {
			// Digit rows at or above the effective radix are ordinary
			// letters here. Exponents are always decimal.
			limit := radix
			if inExponent(st) {
				limit = 10
			}
			if uint32(digitValue[raw]) >= limit {
				cls = ClassLetter
			}
		}
		tr := numProgram[st][cls]
		l.rd.Advance()
		switch tr.act {
		case numDigit:
			if inExponent(st) {
				exp.Digit(digitValue[raw], 10)
			} else {
				sig.Digit(digitValue[raw], radix)
				if st == numFracFirst || st == numFracDigits {
					fracDigits++
				}
			}
		case numSep:
			if inExponent(st) {
				exp.Separator()
			} else {
				sig.Separator()
			}
		case numPoint:
			sawPoint = true
		case numMark:
			sawExp = true
		case numSign:
			expNeg = raw == '-'
		case numGarbage:
			// absorbing a broken literal
		case numStop:
			l.rd.Unread()
			break scan
		}
		st = tr.next
	}

	span := token.Span{Start: start, End: l.rd.Pos()}
	switch {
	case st == numInvalid:
		l.diags.Errorf(line, span, "invalid numeric literal")
		return token.ILLEGAL, false
	case sig.Overflow || exp.Overflow:
		l.diags.Errorf(line, span, "numeric literal overflow")
		return token.ILLEGAL, false
	case sig.Count() == 0:
		l.diags.Errorf(line, span, "invalid numeric literal")
		return token.ILLEGAL, false
	case sawExp && exp.Count() == 0:
		l.diags.Errorf(line, span, "invalid numeric literal")
		return token.ILLEGAL, false
	}

	var e int64
	switch {
	case !expNeg:
		if exp.Value > math.MaxInt64 {
			l.diags.Errorf(line, span, "numeric literal overflow")
			return token.ILLEGAL, false
		}
		e = int64(exp.Value)
	case exp.Value == 1<<63:
		e = math.MinInt64
	case exp.Value > 1<<63:
		l.diags.Errorf(line, span, "numeric literal overflow")
		return token.ILLEGAL, false
	default:
		e = -int64(exp.Value)
	}

	l.num = Number{
		Value:  sig.Value,
		Digits: sig.Count(),
		Radix:  radix,
		Float:  sawPoint || sawExp,
		Frac:   fracDigits,
		Exp:    e,
	}
	if l.num.Float {
		return token.FLOAT, true
	}
	return token.INT, true
}
