package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/mica-lang/mica/core/diag"
	"github.com/mica-lang/mica/core/token"
	"github.com/mica-lang/mica/runtime/session"
)

func lexString(t *testing.T, src string) string {
	t.Helper()
	sess := session.New()
	lx := New([]byte(src), sess)
	require.Equal(t, token.STRING, lx.Next(), "source %q", src)
	text := string(lx.Text())
	require.Equal(t, token.EOF, lx.Next())
	require.False(t, sess.Diags.HasErrors(), "source %q: %v", src, sess.Diags.All())
	return text
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"plain", `"hello"`, "hello"},
		{"empty", `""`, ""},
		{"operators and punctuation are content", `"x+y,(z):w"`, "x+y,(z):w"},
		{"hash is content", `"# not a comment"`, "# not a comment"},
		{"single quote is content", `"'"`, "'"},
		{"high bytes pass through", "\"h\x80i\"", "h\x80i"},
		{"utf8 passes through", `"héllo 世界"`, "héllo 世界"},
		{
			"every simple escape",
			`"\0\a\b\t\n\v\f\r\e\s\"\'\\\d"`,
			"\x00\x07\x08\x09\x0a\x0b\x0c\x0d\x1b \"'\\\x7f",
		},
		{"hex escapes", `"\x41\x7a"`, "Az"},
		{"hex escape re-encodes as utf8", `"\xff"`, "ÿ"},
		{"unicode escape", `"\u{1F600}"`, "\U0001F600"},
		{"unicode escape smallest", `"\u{0}"`, "\x00"},
		{"unicode escape largest", `"\u{10FFFF}"`, "\U0010FFFF"},
		{"unicode escape with separators", `"\u{1_0000}"`, "\U00010000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, lexString(t, tt.src))
		})
	}
}

// A literal may span physical lines. The terminator bytes stay in the
// content verbatim, each terminator counts one line, and the token reports
// the line it opened on. No lone-\r diagnostic applies inside a literal.
func TestStringSpansLines(t *testing.T) {
	src := "\"a\nb\r\nc\rd\" x"
	sess := session.New()
	lx := New([]byte(src), sess)

	require.Equal(t, token.STRING, lx.Next())
	require.Equal(t, "a\nb\r\nc\rd", string(lx.Text()))
	require.Equal(t, 0, lx.Line())
	require.Equal(t, token.Span{Start: 0, End: 10}, lx.Span())

	require.Equal(t, token.IDENT, lx.Next())
	require.Equal(t, 3, lx.Line())
	require.Equal(t, token.Span{Start: 11, End: 12}, lx.Span())

	require.Equal(t, token.EOF, lx.Next())
	require.False(t, sess.Diags.HasErrors())
}

func TestUnterminatedLiterals(t *testing.T) {
	tests := []struct {
		src      string
		wantMsgs []string
	}{
		{`"abc`, []string{"unterminated string literal"}},
		{`'ab`, []string{"unterminated character literal"}},

		// Input ending mid-escape reports the escape first, then the
		// literal it was inside of.
		{`"\`, []string{"incomplete escape sequence", "unterminated string literal"}},
		{`"\x`, []string{"incomplete escape sequence", "unterminated string literal"}},
		{`"\x4`, []string{"incomplete escape sequence", "unterminated string literal"}},
		{`"\u`, []string{"incomplete escape sequence", "unterminated string literal"}},
		{`"\u{12`, []string{"incomplete escape sequence", "unterminated string literal"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			kinds, sess := lexKinds(t, tt.src)
			require.Equal(t, []token.Kind{token.EOF}, kinds)
			require.Equal(t, tt.wantMsgs, errorMessages(sess))
		})
	}
}

// A failed escape spoils the whole literal: the scan still runs to the
// terminator so positions stay right, but no token is produced and the
// only diagnostic is the escape's own.
func TestEscapeFailureSpoilsLiteral(t *testing.T) {
	tests := []struct {
		src       string
		wantKinds []token.Kind
		wantMsgs  []string
	}{
		{`"a\qb" x`, []token.Kind{token.IDENT, token.EOF}, []string{"unknown escape sequence"}},
		{`'\q'`, []token.Kind{token.EOF}, []string{"unknown escape sequence"}},
		{`"\u{D800}ok" y`, []token.Kind{token.IDENT, token.EOF}, []string{"invalid escape sequence"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			kinds, sess := lexKinds(t, tt.src)
			require.Equal(t, tt.wantKinds, kinds)
			require.Equal(t, tt.wantMsgs, errorMessages(sess))
		})
	}
}

func TestEscapeErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantMsgs []string
	}{
		{"unmapped letter", `"\q"`, []string{"unknown escape sequence"}},
		{"unmapped letter z", `"\z"`, []string{"unknown escape sequence"}},
		{"u without brace", `"\u12"`, []string{"unknown escape sequence"}},
		{"escaped newline", "\"\\\n\"", []string{"unknown escape sequence"}},

		{"hex first digit bad", `"\xg1"`, []string{"invalid escape sequence"}},
		{"hex second digit bad", `"\x4g"`, []string{"invalid escape sequence"}},
		{"empty braces", `"\u{}"`, []string{"invalid escape sequence"}},
		{"unclosed brace run", `"\u{12g}"`, []string{"invalid escape sequence"}},
		{"surrogate low bound", `"\u{D800}"`, []string{"invalid escape sequence"}},
		{"surrogate high bound", `"\u{DFFF}"`, []string{"invalid escape sequence"}},
		{"past max scalar", `"\u{110000}"`, []string{"invalid escape sequence"}},
		{"accumulator overflow", `"\u{1_0000_0000_0000_0000}"`, []string{"invalid escape sequence"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kinds, sess := lexKinds(t, tt.src)
			require.Equal(t, []token.Kind{token.EOF}, kinds)
			require.Equal(t, tt.wantMsgs, errorMessages(sess))
		})
	}
}

// An escape inside a multi-line literal reports on the physical line it
// sits on, not the line the literal opened on.
func TestEscapeDiagnosticLine(t *testing.T) {
	_, sess := lexAll(t, "\"a\n\\q\"")
	want := []diag.Diagnostic{
		{Severity: diag.Error, Line: 1, Span: token.Span{Start: 3, End: 5}, Msg: "unknown escape sequence"},
	}
	if diff := cmp.Diff(want, sess.Diags.All()); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestCharLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want rune
	}{
		{`'a'`, 'a'},
		{`' '`, ' '},
		{`'"'`, '"'},
		{`'\''`, '\''},
		{`'\n'`, '\n'},
		{`'\\'`, '\\'},
		{`'\x41'`, 'A'},
		{`'é'`, 'é'},
		{`'世'`, '世'},
		{`'\u{1F600}'`, '\U0001F600'},
		{`'\u{D7FF}'`, '퟿'},
		{`'\u{E000}'`, ''},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			sess := session.New()
			lx := New([]byte(tt.src), sess)
			require.Equal(t, token.CHAR, lx.Next())
			require.Equal(t, tt.want, lx.Char())
			require.Equal(t, token.EOF, lx.Next())
			require.False(t, sess.Diags.HasErrors())
		})
	}
}

// Single quotes must hold exactly one Unicode scalar.
func TestCharLiteralShapeErrors(t *testing.T) {
	tests := []struct {
		src      string
		wantMsgs []string
	}{
		{`''`, []string{"empty character literal"}},
		{`'ab'`, []string{"character literal holds 2 characters"}},
		{`'abc'`, []string{"character literal holds 3 characters"}},
		{`'\t\t'`, []string{"character literal holds 2 characters"}},
		{"'\x80'", []string{"character literal is not valid UTF-8"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			kinds, sess := lexKinds(t, tt.src)
			require.Equal(t, []token.Kind{token.EOF}, kinds)
			require.Equal(t, tt.wantMsgs, errorMessages(sess))
		})
	}
}

// The text buffer is reused between tokens; each produced literal sees
// only its own bytes.
func TestQuotedPayloadPerToken(t *testing.T) {
	sess := session.New()
	lx := New([]byte(`"longer text" "ab"`), sess)

	require.Equal(t, token.STRING, lx.Next())
	require.Equal(t, "longer text", string(lx.Text()))

	require.Equal(t, token.STRING, lx.Next())
	require.Equal(t, "ab", string(lx.Text()))

	require.Equal(t, token.EOF, lx.Next())
	require.False(t, sess.Diags.HasErrors())
}
