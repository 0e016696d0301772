package memofmt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/mica-lang/mica/core/memo"
)

// Snapshot is a decoded token-stream snapshot.
type Snapshot struct {
	Source string   // display name of the source the stream was scanned from
	Hash   [32]byte // BLAKE2b-256 of the source bytes
	Count  uint32   // number of recorded tokens
	Items  []byte   // packed memo items
}

// Read reads a snapshot from r. It validates the preamble and length caps
// but not the source binding; call Verify with the source bytes for that.
func Read(r io.Reader) (*Snapshot, error) {
	var preamble [20]byte
	if _, err := io.ReadFull(r, preamble[:]); err != nil {
		return nil, fmt.Errorf("read preamble: %w", err)
	}

	magic := string(preamble[0:4])
	if magic != Magic {
		return nil, fmt.Errorf("invalid magic: got %q, expected %q", magic, Magic)
	}

	version := binary.LittleEndian.Uint16(preamble[4:6])
	if version != Version {
		return nil, fmt.Errorf("unsupported version: got 0x%04x, expected 0x%04x", version, Version)
	}

	flags := Flags(binary.LittleEndian.Uint16(preamble[6:8]))
	if flags != 0 {
		return nil, fmt.Errorf("unsupported flags: 0x%04x (no flags are defined for version 0x%04x)", uint16(flags), Version)
	}

	headerLen := binary.LittleEndian.Uint32(preamble[8:12])
	bodyLen := binary.LittleEndian.Uint64(preamble[12:20])

	// Length caps bound allocation on corrupt or hostile input. The header
	// is hash + count + name; the body is one byte per item.
	const maxHeaderLen = 64 * 1024
	const maxBodyLen = 64 * 1024 * 1024

	if headerLen > maxHeaderLen {
		return nil, fmt.Errorf("header length %d exceeds maximum %d", headerLen, maxHeaderLen)
	}
	if bodyLen > maxBodyLen {
		return nil, fmt.Errorf("body length %d exceeds maximum %d", bodyLen, maxBodyLen)
	}

	headerBuf := make([]byte, headerLen)
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	snap, err := readHeader(bytes.NewReader(headerBuf))
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	snap.Items = make([]byte, bodyLen)
	if _, err := io.ReadFull(r, snap.Items); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return snap, nil
}

// readHeader decodes HASH(32) | COUNT(4) | NAME_LEN(2) | NAME
func readHeader(r io.Reader) (*Snapshot, error) {
	snap := &Snapshot{}

	if _, err := io.ReadFull(r, snap.Hash[:]); err != nil {
		return nil, fmt.Errorf("read source hash: %w", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &snap.Count); err != nil {
		return nil, fmt.Errorf("read token count: %w", err)
	}

	var nameLen uint16
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return nil, fmt.Errorf("read source name length: %w", err)
	}

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, fmt.Errorf("read source name: %w", err)
	}
	snap.Source = string(name)

	return snap, nil
}

// Verify checks that source is the exact input the snapshot was recorded
// from. A replay against different bytes would hand out spans into the
// wrong text, so callers must verify before trusting Tokens.
func (s *Snapshot) Verify(source []byte) error {
	hash := blake2b.Sum256(source)
	if hash != s.Hash {
		return fmt.Errorf("source hash mismatch: snapshot was recorded from different input (got %x, want %x)", hash[:8], s.Hash[:8])
	}
	return nil
}

// Tokens returns a replay over the snapshot's item stream.
func (s *Snapshot) Tokens() *memo.Replay {
	return memo.NewReplay(s.Items)
}
