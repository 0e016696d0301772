// Package memofmt stores recorded token streams on disk, bound to the
// source bytes they were scanned from.
//
// A snapshot is only trustworthy against the exact source it came from, so
// the header carries a BLAKE2b-256 hash of the source and readers verify it
// before replaying. Format:
//
//	MAGIC(4) | VERSION(2) | FLAGS(2) | HEADER_LEN(4) | BODY_LEN(8) | HEADER | BODY
//
// The header holds the source hash, token count and source name. The body
// is the raw memo item stream.
package memofmt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"golang.org/x/crypto/blake2b"

	"github.com/mica-lang/mica/core/invariant"
	"github.com/mica-lang/mica/core/memo"
)

const (
	// Magic is the file magic number "MICA" (4 bytes)
	Magic = "MICA"

	// Version is the format version (uint16, little-endian).
	// Breaking changes increment it; readers accept exactly one version.
	Version uint16 = 0x0001
)

// Flags is a bitmask for optional features. No flags are defined yet;
// readers reject any set bit so stale tools fail closed on future formats.
type Flags uint16

// validateUint16 checks that a length fits the 2-byte prefix it is written with.
func validateUint16(value int, fieldName string) error {
	if value > math.MaxUint16 {
		return fmt.Errorf("%s %d exceeds maximum %d", fieldName, value, math.MaxUint16)
	}
	return nil
}

// Write writes a snapshot of rec to w and returns the BLAKE2b-256 hash of
// the source bytes the recording came from. sourceName is display metadata,
// the hash is the binding.
func Write(w io.Writer, rec *memo.Recorder, sourceName string, source []byte) ([32]byte, error) {
	invariant.NotNil(rec, "recorder")

	hash := blake2b.Sum256(source)

	var headerBuf bytes.Buffer
	if err := writeHeader(&headerBuf, hash, rec.Count(), sourceName); err != nil {
		return [32]byte{}, err
	}

	body := rec.Items()

	var preambleBuf bytes.Buffer
	if err := writePreamble(&preambleBuf, uint32(headerBuf.Len()), uint64(len(body))); err != nil {
		return [32]byte{}, err
	}

	if _, err := w.Write(preambleBuf.Bytes()); err != nil {
		return [32]byte{}, err
	}
	if _, err := w.Write(headerBuf.Bytes()); err != nil {
		return [32]byte{}, err
	}
	if _, err := w.Write(body); err != nil {
		return [32]byte{}, err
	}

	return hash, nil
}

// writePreamble writes the fixed-size preamble (20 bytes)
func writePreamble(buf *bytes.Buffer, headerLen uint32, bodyLen uint64) error {
	if _, err := buf.WriteString(Magic); err != nil {
		return err
	}
	if err := binary.Write(buf, binary.LittleEndian, Version); err != nil {
		return err
	}

	flags := Flags(0)
	if err := binary.Write(buf, binary.LittleEndian, uint16(flags)); err != nil {
		return err
	}

	if err := binary.Write(buf, binary.LittleEndian, headerLen); err != nil {
		return err
	}

	return binary.Write(buf, binary.LittleEndian, bodyLen)
}

// writeHeader writes the snapshot header: HASH(32) | COUNT(4) | NAME_LEN(2) | NAME
func writeHeader(buf *bytes.Buffer, hash [32]byte, count int, sourceName string) error {
	if _, err := buf.Write(hash[:]); err != nil {
		return err
	}

	if count < 0 || count > math.MaxUint32 {
		return fmt.Errorf("token count %d does not fit uint32", count)
	}
	if err := binary.Write(buf, binary.LittleEndian, uint32(count)); err != nil {
		return err
	}

	if err := validateUint16(len(sourceName), "source name length"); err != nil {
		return err
	}
	nameLen := uint16(len(sourceName))
	if err := binary.Write(buf, binary.LittleEndian, nameLen); err != nil {
		return err
	}
	if _, err := buf.WriteString(sourceName); err != nil {
		return err
	}

	return nil
}
