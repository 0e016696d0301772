// Package parser shapes the token stream into statements. It is a thin
// consumer of the lexer: labels attach to the statement that follows them,
// operand expressions fold to constants eagerly, and unresolved names stay
// symbolic instead of failing the parse.
package parser

import (
	"github.com/mica-lang/mica/core/diag"
	"github.com/mica-lang/mica/core/token"
	"github.com/mica-lang/mica/runtime/intern"
	"github.com/mica-lang/mica/runtime/lexer"
	"github.com/mica-lang/mica/runtime/session"
	"github.com/mica-lang/mica/runtime/value"
)

// directives are the built-in directive names the front end knows. Machine
// mnemonics are target business and pass through unchecked.
var directives = []string{
	"align", "ascii", "asciz", "byte", "data", "equ", "fill", "global",
	"half", "include", "org", "quad", "section", "space", "text", "word",
}

var directiveNames = make(map[string]bool, len(directives))

func init() {
	for _, d := range directives {
		directiveNames[d] = true
	}
}

// tok is one materialized token. The lexer reuses its payload buffers
// between calls, so the parser copies what it needs up front.
type tok struct {
	kind  token.Kind
	line  int
	span  token.Span
	name  intern.Name
	scope token.LabelScope
	num   lexer.Number
	text  string
	ch    rune
}

// Parse lexes src and parses the token stream into statements, reporting
// problems through the session's diagnostics.
func Parse(src []byte, sess *session.Session) []Statement {
	p := &parser{toks: scanAll(src, sess), sess: sess}
	return p.file()
}

// ParseString is a convenience wrapper for tests.
func ParseString(input string, sess *session.Session) []Statement {
	return Parse([]byte(input), sess)
}

// scanAll drains the lexer into a token buffer ending in Eof.
func scanAll(src []byte, sess *session.Session) []tok {
	lx := lexer.New(src, sess)

	// Rough density: one token per four bytes of source.
	toks := make([]tok, 0, len(src)/4+8)
	for {
		k := lx.Next()
		t := tok{kind: k, line: lx.Line(), span: lx.Span()}
		switch k {
		case token.IDENT, token.PARAM:
			t.name = lx.Name()
		case token.LABEL:
			t.name = lx.Name()
			t.scope = lx.Scope()
		case token.INT, token.FLOAT:
			t.num = lx.Num()
		case token.STRING:
			t.text = string(lx.Text())
		case token.CHAR:
			t.ch = lx.Char()
		}
		toks = append(toks, t)
		if k == token.EOF {
			return toks
		}
	}
}

type parser struct {
	toks []tok
	pos  int
	sess *session.Session
}

func (p *parser) cur() tok { return p.toks[p.pos] }

func (p *parser) at(k token.Kind) bool { return p.toks[p.pos].kind == k }

// advance moves past the current token. The Eof sentinel stays put.
func (p *parser) advance() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
}

// eat consumes the current token when it has the wanted kind.
func (p *parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// file parses `statement*` where a statement is `label* [mnemonic
// operand,*]` ended by Eos. Labels accumulate until a mnemonic shows up.
func (p *parser) file() []Statement {
	var stmts []Statement
	var pending []Label

	for !p.at(token.EOF) {
		switch {
		case p.eat(token.EOS):
		case p.at(token.LABEL):
			pending = append(pending, p.labelDecl())
		case p.at(token.IDENT):
			stmts = append(stmts, p.statement(pending))
			pending = nil
		default:
			t := p.cur()
			p.sess.Diags.Errorf(t.line, t.span, "expected a label or mnemonic, got %s", t.kind)
			p.syncToStatementEnd()
		}
	}

	if len(pending) > 0 {
		// Dangling labels still mark a position worth keeping.
		last := pending[len(pending)-1]
		stmts = append(stmts, Statement{
			Labels: pending,
			Line:   pending[0].Line,
			Span:   token.Span{Start: pending[0].Span.Start, End: last.Span.End},
		})
	}
	return stmts
}

// labelDecl consumes one label and its optional colon.
func (p *parser) labelDecl() Label {
	t := p.cur()
	p.advance()
	lab := Label{Name: t.name, Scope: t.scope, Line: t.line, Span: t.span}
	if p.eat(token.COLON) {
		return lab
	}
	if t.scope == token.ScopeLocal {
		// A dotted name with no colon is often a directive written in the
		// dotted style of other assemblers.
		name := p.sess.Names.String(t.name)
		if s := diag.Suggest(name, directives); s != "" {
			p.sess.Diags.Warnf(t.line, t.span,
				"label .%s looks like the %s directive, which is spelled without a dot", name, s)
		}
	}
	return lab
}

// statement parses `mnemonic operand,*` up to the statement end.
func (p *parser) statement(labels []Label) Statement {
	m := p.cur()
	p.advance()

	stmt := Statement{
		Labels:   labels,
		Mnemonic: m.name,
		Line:     m.line,
		Span:     m.span,
	}
	if len(labels) > 0 {
		stmt.Line = labels[0].Line
		stmt.Span.Start = labels[0].Span.Start
	}

	p.checkMnemonic(m)

	if !p.at(token.EOS) && !p.at(token.EOF) {
		for {
			stmt.Operands = append(stmt.Operands, p.operand())
			if !p.eat(token.COMMA) {
				break
			}
		}
		stmt.Span.End = stmt.Operands[len(stmt.Operands)-1].Span.End
	}

	if !p.eat(token.EOS) && !p.at(token.EOF) {
		t := p.cur()
		p.sess.Diags.Errorf(t.line, t.span, "expected a comma or end of statement, got %s", t.kind)
		p.syncToStatementEnd()
	}
	return stmt
}

// checkMnemonic flags names that look like misspelled directives. Names
// shorter than three bytes match too many directives by accident to be
// worth flagging.
func (p *parser) checkMnemonic(m tok) {
	name := p.sess.Names.String(m.name)
	if directiveNames[name] || len(name) < 3 {
		return
	}
	if s := diag.Suggest(name, directives); s != "" {
		p.sess.Diags.Warnf(m.line, m.span, "unknown directive %s, did you mean %s?", name, s)
	}
}

// syncToStatementEnd skips ahead to the next statement boundary.
func (p *parser) syncToStatementEnd() {
	for !p.at(token.EOS) && !p.at(token.EOF) {
		p.advance()
	}
	p.eat(token.EOS)
}

// operand parses one expression and reports a folding error once, at the
// expression's full extent.
func (p *parser) operand() Operand {
	line := p.cur().line
	v, span := p.expr(1)
	if v.IsErr() {
		p.sess.Diags.Errorf(line, span, "%s", v.Text)
	}
	return Operand{Val: v, Line: line, Span: span}
}

// expr folds a binary expression by precedence climbing. Every operator is
// left-associative.
func (p *parser) expr(minPrec int) (value.Value, token.Span) {
	v, span := p.unary()
	for {
		prec := binaryPrec(p.cur().kind)
		if prec < minPrec || prec == 0 {
			return v, span
		}
		op := p.cur().kind
		p.advance()
		rhs, rspan := p.expr(prec + 1)
		v = value.Apply(op, v, rhs)
		span.End = rspan.End
	}
}

func (p *parser) unary() (value.Value, token.Span) {
	switch k := p.cur().kind; k {
	case token.MINUS, token.TILDE, token.NOT:
		start := p.cur().span.Start
		p.advance()
		v, span := p.unary()
		return value.ApplyUnary(k, v), token.Span{Start: start, End: span.End}
	}
	return p.primary()
}

func (p *parser) primary() (value.Value, token.Span) {
	t := p.cur()
	switch t.kind {
	case token.INT:
		p.advance()
		return value.MakeUint(t.num.Value), t.span
	case token.FLOAT:
		// The fold domain is integral; float literals stay symbolic.
		p.advance()
		return value.Value{}, t.span
	case token.CHAR:
		p.advance()
		return value.MakeUint(uint64(t.ch)), t.span
	case token.STRING:
		p.advance()
		return value.MakeStr(t.text), t.span
	case token.IDENT, token.PARAM, token.LABEL:
		// Unresolved names poison the fold, not the parse.
		p.advance()
		return value.Value{}, t.span
	case token.LPAREN:
		p.advance()
		v, inner := p.expr(1)
		end := inner.End
		if p.at(token.RPAREN) {
			end = p.cur().span.End
			p.advance()
		} else {
			p.sess.Diags.Errorf(t.line, t.span, "unclosed parenthesis")
		}
		return v, token.Span{Start: t.span.Start, End: end}
	}

	p.sess.Diags.Errorf(t.line, t.span, "unexpected %s in an operand", t.kind)
	if !p.at(token.EOS) && !p.at(token.EOF) {
		p.advance()
	}
	return value.Value{}, t.span
}

// binaryPrec returns the binding strength of a binary operator, or zero
// for anything that cannot continue an expression.
func binaryPrec(k token.Kind) int {
	switch k {
	case token.OR_OR:
		return 1
	case token.AND_AND:
		return 2
	case token.PIPE:
		return 3
	case token.CARET:
		return 4
	case token.AMP:
		return 5
	case token.EQ_EQ, token.NOT_EQ:
		return 6
	case token.LT, token.LT_U, token.LT_EQ, token.LT_EQ_U,
		token.GT, token.GT_U, token.GT_EQ, token.GT_EQ_U:
		return 7
	case token.SHL, token.SHR, token.SHR_U, token.ROL, token.ROR:
		return 8
	case token.PLUS, token.MINUS:
		return 9
	case token.STAR, token.DIV, token.DIV_U, token.MOD, token.MOD_U:
		return 10
	}
	return 0
}
