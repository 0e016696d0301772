// Package memo records a token stream compactly for later replay.
//
// A recorded stream reproduces the exact (kind, line, byte range) sequence
// the lexer produced without re-scanning the source. Items are single
// bytes, so re-lexing a region (a macro body, a speculative parse) costs a
// byte walk instead of a full scan.
package memo

import (
	"github.com/mica-lang/mica/core/invariant"
	"github.com/mica-lang/mica/core/token"
)

// Item encoding. Three families share one byte:
//
//	1kkkkkkk  yield: emit a token of kind k, span ending here
//	00000000  mark: the next token's span starts here
//	0Lnnnnnn  skip: advance n bytes, and one line when L is set
//
// A skip with n=0 and L=0 would collide with the mark, so the encoder never
// emits one; every byte decodes to exactly one family.
const (
	itemYield = 0x80 // high bit tags a yield
	itemLine  = 0x40 // line flag on skip items
	maxSkip   = 0x3f // byte-count cap per skip item; longer spans split
)

type itemKind uint8

const (
	itemSkip itemKind = iota
	itemMark
	itemTok
)

// item is the unpacked form of one encoded byte.
type item struct {
	kind  itemKind
	tok   token.Kind // itemTok
	bytes int        // itemSkip
	line  bool       // itemSkip
}

// decodeItem unpacks one packed item into its tagged form.
func decodeItem(b byte) item {
	switch {
	case b&itemYield != 0:
		return item{kind: itemTok, tok: token.Kind(b &^ itemYield)}
	case b == 0:
		return item{kind: itemMark}
	default:
		return item{kind: itemSkip, bytes: int(b & maxSkip), line: b&itemLine != 0}
	}
}

// Recorder packs a token stream into items as the lexer produces it.
type Recorder struct {
	items []byte
	count int
	line  int // line of the last push
	pos   int // byte position after the last pushed span
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Push appends one token. Tokens must arrive in scan order: line and span
// start may never decrease, and a kind must fit the 7-bit yield encoding.
// An out-of-order push is a caller bug and fails loudly.
func (r *Recorder) Push(kind token.Kind, line int, span token.Span) {
	invariant.Precondition(kind < 0x80, "token kind %d does not fit 7 bits", kind)
	invariant.Precondition(line >= r.line, "token line %d precedes recorded line %d", line, r.line)
	invariant.Precondition(span.Start >= r.pos, "span start %d precedes recorded position %d", span.Start, r.pos)
	invariant.Precondition(span.End >= span.Start, "span [%d, %d) runs backwards", span.Start, span.End)

	for l := line - r.line; l > 0; l-- {
		r.items = append(r.items, itemLine)
	}
	r.skipBytes(span.Start - r.pos)
	r.items = append(r.items, 0x00)
	r.skipBytes(span.End - span.Start)
	r.items = append(r.items, itemYield|byte(kind))

	r.line = line
	r.pos = span.End
	r.count++
}

// skipBytes emits skip items covering n bytes, splitting at the per-item cap.
func (r *Recorder) skipBytes(n int) {
	for n > maxSkip {
		r.items = append(r.items, maxSkip)
		n -= maxSkip
	}
	if n > 0 {
		r.items = append(r.items, byte(n))
	}
}

// Count returns the number of tokens recorded.
func (r *Recorder) Count() int { return r.count }

// Items returns the packed encoding. The slice aliases the recorder's
// storage; callers that outlive the recorder should copy it.
func (r *Recorder) Items() []byte { return r.items }

// Tokens returns a replay positioned at the start of the recording.
func (r *Recorder) Tokens() *Replay {
	return NewReplay(r.items)
}

// Replay walks a recorded stream, reproducing the pushed sequence. Past the
// last recorded token it yields EOF at the final position indefinitely.
type Replay struct {
	items []byte
	idx   int
	line  int
	pos   int
	start int // span start set by the most recent mark
}

// NewReplay wraps packed items, as returned by Recorder.Items or read back
// from a snapshot.
func NewReplay(items []byte) *Replay {
	return &Replay{items: items}
}

// Next returns the next recorded token with its line and byte range.
func (p *Replay) Next() (token.Kind, int, token.Span) {
	for p.idx < len(p.items) {
		it := decodeItem(p.items[p.idx])
		p.idx++

		switch it.kind {
		case itemSkip:
			if it.line {
				p.line++
			}
			p.pos += it.bytes
		case itemMark:
			p.start = p.pos
		case itemTok:
			return it.tok, p.line, token.Span{Start: p.start, End: p.pos}
		}
	}
	return token.EOF, p.line, token.Span{Start: p.pos, End: p.pos}
}
