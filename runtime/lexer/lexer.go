// Package lexer turns assembly source bytes into a stream of tokens.
//
// The scanner is a two-state table-driven DFA over logical character
// classes. Multi-byte token families (numbers, quoted literals, names,
// operators) are finished by sublexers that read through the same cursor
// and hand back the byte that ended them. Every lexical problem is
// recoverable: the scanner records a diagnostic, skips what it must, and
// keeps producing tokens so one pass surfaces every error in the file.
package lexer

import (
	"log/slog"
	"os"

	"github.com/mica-lang/mica/core/diag"
	"github.com/mica-lang/mica/core/invariant"
	"github.com/mica-lang/mica/core/memo"
	"github.com/mica-lang/mica/core/token"
	"github.com/mica-lang/mica/runtime/intern"
	"github.com/mica-lang/mica/runtime/session"
)

// Scanner states. Comment lasts from a # to the next line terminator;
// everything else happens in Normal.
type state uint8

const (
	stNormal state = iota
	stComment
	stateCount
)

type action uint8

const (
	aUnset    action = iota // unfilled cell, rejected at startup
	aSkip                   // consume silently
	aLineLF                 // \n line terminator
	aLineCR                 // \r line terminator, folds a following \n
	aSingle                 // one-byte token from singleByteKind
	aNumber                 // numeric sublexer
	aIdent                  // identifier run
	aLabel                  // sigil-prefixed label
	aParam                  // backslash macro parameter
	aString                 // double-quoted literal
	aChar                   // single-quoted literal
	aOperator               // operator run
	aError                  // unrecognized byte: report, skip, continue
	aEof                    // end of input
)

// transitionID names one cell of the program table; the transitions table
// resolves it to its details. Built as explicit enumerations so nothing
// here leans on casting tricks between states, classes and table indexes.
type transitionID uint8

const (
	tNone transitionID = iota
	tBlank
	tLineLF
	tLineCR
	tEnterComment
	tCommentByte
	tSingle
	tNumber
	tIdent
	tLabel
	tParam
	tString
	tChar
	tOperator
	tError
	tEof
	transitionCount
)

// transition carries what a cell of the DFA does: where to go, what to do,
// and two bookkeeping flags that hold regardless of the action: does this
// transition start a new physical line, and does it complete a token.
type transition struct {
	next       state
	act        action
	startsLine bool
	endsToken  bool
}

var transitions = [transitionCount]transition{
	tBlank:        {next: stNormal, act: aSkip},
	tLineLF:       {next: stNormal, act: aLineLF, startsLine: true, endsToken: true},
	tLineCR:       {next: stNormal, act: aLineCR, startsLine: true, endsToken: true},
	tEnterComment: {next: stComment, act: aSkip},
	tCommentByte:  {next: stComment, act: aSkip},
	tSingle:       {next: stNormal, act: aSingle, endsToken: true},
	tNumber:       {next: stNormal, act: aNumber, endsToken: true},
	tIdent:        {next: stNormal, act: aIdent, endsToken: true},
	tLabel:        {next: stNormal, act: aLabel, endsToken: true},
	tParam:        {next: stNormal, act: aParam, endsToken: true},
	tString:       {next: stNormal, act: aString, endsToken: true},
	tChar:         {next: stNormal, act: aChar, endsToken: true},
	tOperator:     {next: stNormal, act: aOperator, endsToken: true},
	tError:        {next: stNormal, act: aError},
	tEof:          {next: stNormal, act: aEof, endsToken: true},
}

// program is the main DFA: state x logical class -> transition id. In
// Comment, everything except a line terminator or end of input is comment
// content, a second # included.
var program = [stateCount][classCount]transitionID{
	stNormal: {
		ClassBlank:     tBlank,
		ClassCR:        tLineCR,
		ClassLF:        tLineLF,
		ClassHash:      tEnterComment,
		ClassDigit:     tNumber,
		ClassLetter:    tIdent,
		ClassDQuote:    tString,
		ClassSQuote:    tChar,
		ClassDot:       tLabel,
		ClassDollar:    tLabel,
		ClassAt:        tLabel,
		ClassBackslash: tParam,
		ClassPunct:     tSingle,
		ClassOp:        tOperator,
		ClassOther:     tError,
		ClassHigh:      tError,
		ClassEOF:       tEof,
	},
	stComment: {
		ClassBlank:     tCommentByte,
		ClassCR:        tLineCR,
		ClassLF:        tLineLF,
		ClassHash:      tCommentByte,
		ClassDigit:     tCommentByte,
		ClassLetter:    tCommentByte,
		ClassDQuote:    tCommentByte,
		ClassSQuote:    tCommentByte,
		ClassDot:       tCommentByte,
		ClassDollar:    tCommentByte,
		ClassAt:        tCommentByte,
		ClassBackslash: tCommentByte,
		ClassPunct:     tCommentByte,
		ClassOp:        tCommentByte,
		ClassOther:     tCommentByte,
		ClassHigh:      tCommentByte,
		ClassEOF:       tEof,
	},
}

func init() {
	// Every class the main table can produce, plus the two reserved ones,
	// must resolve to a real transition in both states.
	producible := []Class{
		ClassBlank, ClassCR, ClassLF, ClassHash, ClassDigit, ClassLetter,
		ClassDQuote, ClassSQuote, ClassDot, ClassDollar, ClassAt,
		ClassBackslash, ClassPunct, ClassOp, ClassOther, ClassHigh,
		ClassEOF,
	}
	for st := state(0); st < stateCount; st++ {
		for _, cls := range producible {
			id := program[st][cls]
			invariant.Invariant(id != tNone, "no transition for state %d class %d", st, cls)
			invariant.Invariant(transitions[id].act != aUnset, "transition %d has no action", id)
		}
	}
}

// Lexer scans one source buffer. It is single-use and synchronous: create
// one per input, call Next until EOF.
type Lexer struct {
	rd    *Reader
	names *intern.Table
	diags *diag.Reporter
	log   *slog.Logger
	memo  *memo.Recorder

	state    state
	nextLine int  // line of the byte under the cursor
	sawToken bool // a token was produced since the last statement end

	// Payload of the most recently produced token. Overwritten by the
	// next call to Next.
	line  int
	span  token.Span
	name  intern.Name
	scope token.LabelScope
	num   Number
	text  []byte
	ch    rune
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithMemo records every produced token except EOF into rec, so the
// stream can be replayed later without re-scanning the bytes.
func WithMemo(rec *memo.Recorder) Option {
	return func(l *Lexer) { l.memo = rec }
}

// New creates a lexer over src. The session supplies the name table that
// identifiers, labels and parameters intern into, and the reporter that
// collects lexical errors. Set MICA_DEBUG_LEXER for a token-by-token
// trace on stderr.
func New(src []byte, sess *session.Session, opts ...Option) *Lexer {
	logLevel := slog.LevelInfo
	if os.Getenv("MICA_DEBUG_LEXER") != "" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Trace lines read better without timestamps and levels
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))

	l := &Lexer{
		rd:    NewReader(src),
		names: sess.Names,
		diags: sess.Diags,
		log:   logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Next scans and returns the next token. Payload travels out of band
// through Line, Span and the kind-specific accessors, and is valid only
// until the next call. After the input is exhausted Next returns EOF
// forever.
func (l *Lexer) Next() token.Kind {
	for {
		start := l.rd.Pos()
		startLine := l.nextLine
		cls, raw := l.rd.Classify(&mainClasses)
		tr := transitions[program[l.state][cls]]
		if tr.startsLine {
			l.nextLine++
		}

		kind := token.ILLEGAL
		produced := false
		switch tr.act {
		case aSkip:
			l.rd.Advance()
		case aLineLF:
			l.rd.Advance()
			if l.sawToken {
				kind, produced = token.EOS, true
			}
		case aLineCR:
			l.rd.Advance()
			if !l.rd.AdvanceIf('\n') {
				l.diags.Errorf(startLine, token.Span{Start: start, End: l.rd.Pos()}, "bare carriage return line ending")
			}
			if l.sawToken {
				kind, produced = token.EOS, true
			}
		case aSingle:
			l.rd.Advance()
			kind, produced = singleByteKind[raw], true
		case aNumber:
			kind, produced = l.scanNumber(start, startLine)
		case aIdent:
			kind, produced = l.scanIdent()
		case aLabel:
			kind, produced = l.scanLabel(start, startLine)
		case aParam:
			kind, produced = l.scanParam(start, startLine)
		case aString:
			kind, produced = l.scanString(start, startLine)
		case aChar:
			kind, produced = l.scanChar(start, startLine)
		case aOperator:
			kind, produced = l.scanOperator()
		case aError:
			l.rd.Advance()
			l.diags.Errorf(startLine, token.Span{Start: start, End: l.rd.Pos()}, "unrecognized byte 0x%02x", raw)
		case aEof:
			kind, produced = token.EOF, true
		}
		l.state = tr.next

		if !produced {
			// Blanks, comments, absorbed empty statements and failed
			// scans all land here: keep going until a real token.
			continue
		}
		l.line = startLine
		l.span = token.Span{Start: start, End: l.rd.Pos()}
		l.sawToken = kind != token.EOS && kind != token.EOF
		if l.memo != nil && kind != token.EOF {
			l.memo.Push(kind, l.line, l.span)
		}
		l.log.Debug("token", "kind", kind.String(), "line", l.line, "start", l.span.Start, "end", l.span.End)
		return kind
	}
}

// Line returns the 0-based line of the most recently produced token; a
// multi-line literal reports the line it opened on.
func (l *Lexer) Line() int { return l.line }

// Span returns the half-open byte range of the most recently produced
// token.
func (l *Lexer) Span() token.Span { return l.span }

// Name returns the interned name of an IDENT, LABEL or PARAM token.
func (l *Lexer) Name() intern.Name { return l.name }

// Scope returns the scope of a LABEL token.
func (l *Lexer) Scope() token.LabelScope { return l.scope }

// Num returns the numeric payload of an INT or FLOAT token.
func (l *Lexer) Num() Number { return l.num }

// Text returns the decoded bytes of a STRING token. The buffer is reused
// across tokens; copy it if it must outlive the next call to Next.
func (l *Lexer) Text() []byte { return l.text }

// Char returns the decoded scalar of a CHAR token.
func (l *Lexer) Char() rune { return l.ch }

// scanNameRun stages an identifier-continue run as a pending name and
// interns it. Count 0 means the run was empty and nothing was interned.
func (l *Lexer) scanNameRun() (intern.Name, int) {
	l.names.PendingReset()
	n := 0
	for {
		cls, raw := l.rd.Classify(&mainClasses)
		if cls != ClassLetter && cls != ClassDigit {
			break
		}
		l.names.PendingByte(raw)
		l.rd.Advance()
		n++
	}
	if n == 0 {
		l.names.PendingDiscard()
		return intern.EmptyName, 0
	}
	return l.names.PendingIntern(), n
}

func (l *Lexer) scanIdent() (token.Kind, bool) {
	name, _ := l.scanNameRun()
	l.name = name
	return token.IDENT, true
}

// scanLabel scans a sigil-prefixed label with the cursor on the sigil.
// The sigil picks the scope: . local, .. hidden, $ private, $$ weak,
// @ public. Scope and name ride out of band.
func (l *Lexer) scanLabel(start, line int) (token.Kind, bool) {
	_, sigil := l.rd.Classify(&mainClasses)
	l.rd.Advance()
	var scope token.LabelScope
	switch sigil {
	case '.':
		scope = token.ScopeLocal
		if l.rd.AdvanceIf('.') {
			scope = token.ScopeHidden
		}
	case '$':
		scope = token.ScopePrivate
		if l.rd.AdvanceIf('$') {
			scope = token.ScopeWeak
		}
	default:
		scope = token.ScopePublic
	}
	name, n := l.scanNameRun()
	if n == 0 {
		l.diags.Errorf(line, token.Span{Start: start, End: l.rd.Pos()}, "label missing a name")
		return token.ILLEGAL, false
	}
	l.name = name
	l.scope = scope
	return token.LABEL, true
}

// scanParam scans a \name or \1 macro parameter with the cursor on the
// backslash.
func (l *Lexer) scanParam(start, line int) (token.Kind, bool) {
	l.rd.Advance()
	name, n := l.scanNameRun()
	if n == 0 {
		l.diags.Errorf(line, token.Span{Start: start, End: l.rd.Pos()}, "macro parameter missing a name")
		return token.ILLEGAL, false
	}
	l.name = name
	return token.PARAM, true
}

// scanOperator scans one operator with the cursor on its first byte. A +
// introducing an operator that starts with / % < or > selects the
// unsigned variant of the result; where the result has no paired variant
// the mapping is the identity and the + is simply absorbed.
func (l *Lexer) scanOperator() (token.Kind, bool) {
	_, raw := l.rd.Classify(&mainClasses)
	l.rd.Advance()
	var sel uint32
	if raw == '+' {
		_, next := l.rd.Classify(&mainClasses)
		switch next {
		case '/', '%', '<', '>':
			raw = next
			sel = 1
			l.rd.Advance()
		default:
			return token.PLUS, true
		}
	}
	switch raw {
	case '-':
		return token.MINUS, true
	case '*':
		return token.STAR, true
	case '/':
		return token.DIV.Variant(sel), true
	case '%':
		return token.MOD.Variant(sel), true
	case '~':
		return token.TILDE, true
	case '^':
		return token.CARET, true
	case '&':
		if l.rd.AdvanceIf('&') {
			return token.AND_AND, true
		}
		return token.AMP, true
	case '|':
		if l.rd.AdvanceIf('|') {
			return token.OR_OR, true
		}
		return token.PIPE, true
	case '=':
		if l.rd.AdvanceIf('=') {
			return token.EQ_EQ, true
		}
		return token.EQUALS, true
	case '!':
		if l.rd.AdvanceIf('=') {
			return token.NOT_EQ, true
		}
		return token.NOT, true
	case '<':
		if l.rd.AdvanceIf('<') {
			if l.rd.AdvanceIf('<') {
				return token.ROL, true
			}
			return token.SHL, true
		}
		if l.rd.AdvanceIf('=') {
			return token.LT_EQ.Variant(sel), true
		}
		return token.LT.Variant(sel), true
	case '>':
		if l.rd.AdvanceIf('>') {
			if l.rd.AdvanceIf('>') {
				return token.ROR, true
			}
			return token.SHR.Variant(sel), true
		}
		if l.rd.AdvanceIf('=') {
			return token.GT_EQ.Variant(sel), true
		}
		return token.GT.Variant(sel), true
	}
	return token.ILLEGAL, false
}
