// Package intern owns the name table for an assembly session.
//
// Every identifier, label and macro parameter the lexer meets is stored
// once and referred to by a small handle. Handles are cheap to copy and
// compare; the bytes live in append-only arena buffers that never move, so
// a handle dereferences to the same storage for the table's lifetime.
//
// Names are usually discovered byte by byte mid-scan, before the lexer can
// know whether the name is already known. The pending form stages bytes
// directly in the arena: committing a new name costs nothing beyond the
// bytes already written, and committing a duplicate truncates the staged
// region so no storage is consumed.
package intern

import (
	"github.com/mica-lang/mica/core/invariant"
)

// Name is a handle to an interned string. Equal strings always carry equal
// handles within one table. The zero handle is the empty string.
type Name uint32

// EmptyName is the handle of the empty string, pre-registered in every table.
const EmptyName Name = 0

const (
	// bufSize is the capacity of each shared arena buffer.
	bufSize = 4096

	// maxShort is the longest name kept in shared buffers. Anything longer
	// gets a dedicated allocation so it cannot starve the shared space.
	maxShort = 1024
)

// span locates one interned string inside the arena.
type span struct {
	buf int
	off int
	n   int
}

// Table interns strings for the lifetime of an assembly session.
type Table struct {
	lookup  map[string]Name
	entries []span
	bufs    [][]byte
	cur     int // index of the shared buffer taking new names

	// Pending name state. Staged bytes sit past the committed end of the
	// current shared buffer, or in pendingOwn once they outgrow it.
	pendingLive  bool
	pendingStart int
	pendingOwn   []byte
}

// New creates a table holding only the empty string.
func New() *Table {
	t := &Table{
		lookup: make(map[string]Name),
		bufs:   [][]byte{make([]byte, 0, bufSize)},
	}
	t.entries = append(t.entries, span{})
	t.lookup[""] = EmptyName
	return t
}

// Intern returns the handle for s, adding it if unseen.
func (t *Table) Intern(s []byte) Name {
	invariant.Precondition(!t.pendingLive, "Intern while a pending name is staged")
	if h, ok := t.lookup[string(s)]; ok {
		return h
	}
	t.PendingReset()
	t.PendingBytes(s)
	return t.PendingIntern()
}

// InternString is Intern for string inputs.
func (t *Table) InternString(s string) Name {
	invariant.Precondition(!t.pendingLive, "Intern while a pending name is staged")
	if h, ok := t.lookup[s]; ok {
		return h
	}
	t.PendingReset()
	for i := 0; i < len(s); i++ {
		t.PendingByte(s[i])
	}
	return t.PendingIntern()
}

// Lookup returns the interned bytes for n. The result aliases the table's
// arena and stays valid for the table's lifetime. The full slice expression
// keeps callers from appending into the arena.
func (t *Table) Lookup(n Name) []byte {
	invariant.Precondition(int(n) < len(t.entries), "name %d not in a table of %d entries", n, len(t.entries))
	e := t.entries[n]
	buf := t.bufs[e.buf]
	return buf[e.off : e.off+e.n : e.off+e.n]
}

// String returns a copy of the interned string for n.
func (t *Table) String(n Name) string {
	return string(t.Lookup(n))
}

// Len returns the number of interned strings, the empty string included.
func (t *Table) Len() int { return len(t.entries) }

// PendingReset begins staging a new name. Only one name may be staged at a
// time; the previous one must have been committed or discarded.
func (t *Table) PendingReset() {
	invariant.Precondition(!t.pendingLive, "pending name already staged")
	t.pendingLive = true
	t.pendingStart = len(t.bufs[t.cur])
	t.pendingOwn = nil
}

// PendingByte appends one byte to the staged name.
func (t *Table) PendingByte(c byte) {
	invariant.Precondition(t.pendingLive, "no pending name staged")

	if t.pendingOwn != nil {
		t.pendingOwn = append(t.pendingOwn, c)
		return
	}

	buf := t.bufs[t.cur]
	staged := len(buf) - t.pendingStart

	if staged >= maxShort {
		// Oversized name: move to dedicated storage
		t.pendingOwn = append(make([]byte, 0, 2*staged), buf[t.pendingStart:]...)
		t.pendingOwn = append(t.pendingOwn, c)
		t.bufs[t.cur] = buf[:t.pendingStart]
		return
	}

	if len(buf) < cap(buf) {
		t.bufs[t.cur] = append(buf, c)
		return
	}

	// Shared buffer full mid-name: restage in a fresh one. The old buffer
	// keeps its committed contents and is never written again.
	nb := make([]byte, 0, bufSize)
	nb = append(nb, buf[t.pendingStart:]...)
	nb = append(nb, c)
	t.bufs[t.cur] = buf[:t.pendingStart]
	t.bufs = append(t.bufs, nb)
	t.cur = len(t.bufs) - 1
	t.pendingStart = 0
}

// PendingBytes appends a run of bytes to the staged name.
func (t *Table) PendingBytes(p []byte) {
	for _, c := range p {
		t.PendingByte(c)
	}
}

// PendingLen returns the staged byte count.
func (t *Table) PendingLen() int {
	invariant.Precondition(t.pendingLive, "no pending name staged")
	if t.pendingOwn != nil {
		return len(t.pendingOwn)
	}
	return len(t.bufs[t.cur]) - t.pendingStart
}

// PendingIntern commits the staged name and returns its handle. If an equal
// string is already interned the staged bytes are dropped and the existing
// handle returned, so duplicates cost no storage.
func (t *Table) PendingIntern() Name {
	invariant.Precondition(t.pendingLive, "no pending name staged")
	t.pendingLive = false

	var staged []byte
	if t.pendingOwn != nil {
		staged = t.pendingOwn
	} else {
		staged = t.bufs[t.cur][t.pendingStart:]
	}

	if h, ok := t.lookup[string(staged)]; ok {
		t.drop()
		return h
	}

	h := Name(len(t.entries))
	if t.pendingOwn != nil {
		t.bufs = append(t.bufs, t.pendingOwn)
		t.entries = append(t.entries, span{buf: len(t.bufs) - 1, off: 0, n: len(staged)})
		t.pendingOwn = nil
	} else {
		t.entries = append(t.entries, span{buf: t.cur, off: t.pendingStart, n: len(staged)})
	}
	t.lookup[string(staged)] = h // map assignment copies the key
	return h
}

// PendingDiscard abandons the staged name.
func (t *Table) PendingDiscard() {
	invariant.Precondition(t.pendingLive, "no pending name staged")
	t.pendingLive = false
	t.drop()
}

func (t *Table) drop() {
	if t.pendingOwn != nil {
		t.pendingOwn = nil
		return
	}
	t.bufs[t.cur] = t.bufs[t.cur][:t.pendingStart]
}
