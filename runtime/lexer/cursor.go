package lexer

import (
	"github.com/mica-lang/mica/core/invariant"
)

// Cursor is a forward-only reader over a fully materialized input buffer.
// It never reads past the end: Advance at end of input is a no-op, and
// Classify keeps yielding the end-of-input class forever.
type Cursor struct {
	src []byte
	pos int
}

// NewCursor wraps src without copying it.
func NewCursor(src []byte) *Cursor {
	return &Cursor{src: src}
}

// Classify returns the logical class and raw byte under the cursor without
// consuming anything. Call it before Advance to observe a byte. At end of
// input it returns (ClassEOF, 0); bytes outside ASCII are always ClassHigh
// regardless of the table.
func (c *Cursor) Classify(table *ClassTable) (Class, byte) {
	if c.pos >= len(c.src) {
		return ClassEOF, 0
	}
	b := c.src[c.pos]
	if b >= 0x80 {
		return ClassHigh, b
	}
	return table[b], b
}

// Advance consumes one byte. Once the input is exhausted it does nothing,
// so callers may advance unconditionally in a scan loop.
func (c *Cursor) Advance() {
	if c.pos < len(c.src) {
		c.pos++
	}
}

// AdvanceIf consumes the byte under the cursor only if it equals b. Used to
// fold a \n into a preceding \r without a second line count.
func (c *Cursor) AdvanceIf(b byte) bool {
	if c.pos < len(c.src) && c.src[c.pos] == b {
		c.pos++
		return true
	}
	return false
}

// Pos returns the count of bytes fully consumed so far.
func (c *Cursor) Pos() int { return c.pos }

// Reader is a Cursor that can additionally step back over the byte it most
// recently consumed and slice the buffer around its position. Sublexers use
// it to consume eagerly and hand back the terminating byte on exit.
type Reader struct {
	Cursor
	mark int
}

// NewReader wraps src without copying it.
func NewReader(src []byte) *Reader {
	return &Reader{Cursor: Cursor{src: src}}
}

// Advance consumes one byte and remembers where it stood, so a following
// Unread steps back exactly there. At end of input the mark lands on the
// current position, which makes Unread a no-op: there is nothing to hand
// back.
func (r *Reader) Advance() {
	r.mark = r.pos
	r.Cursor.Advance()
}

// AdvanceIf consumes the byte under the cursor only if it equals b. The
// mark moves only when a byte is actually consumed.
func (r *Reader) AdvanceIf(b byte) bool {
	if r.pos < len(r.src) && r.src[r.pos] == b {
		r.mark = r.pos
		r.pos++
		return true
	}
	return false
}

// Unread steps back over the most recently consumed byte. Calling it again
// without an intervening Advance has no further effect: the rewind depth is
// exactly one.
func (r *Reader) Unread() {
	r.pos = r.mark
}

// Preceding returns the n bytes ending at the current position. Asking for
// more bytes than have been consumed is a contract violation.
func (r *Reader) Preceding(n int) []byte {
	invariant.Precondition(n >= 0 && n <= r.pos, "preceding %d bytes requested with only %d consumed", n, r.pos)
	return r.src[r.pos-n : r.pos]
}

// Remaining returns the bytes not yet consumed.
func (r *Reader) Remaining() []byte {
	return r.src[r.pos:]
}
