// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package jxe

import (
	"encoding/binary"
	"errors"
)

// Errors returned while walking a JXE image.
var (
	// ErrOutsideBoundary is returned when a read or a scoped-cursor seek
	// targets a position outside the underlying byte buffer.
	ErrOutsideBoundary = errors.New("jxe: read outside image boundary")

	// ErrMissingTransform is returned when a bytecode operand references a
	// source constant-pool index with no corresponding target-pool entry.
	ErrMissingTransform = errors.New("jxe: bytecode operand has no constant-pool transform")

	// ErrUnsupportedForm is returned for constructs the source format can
	// produce but this converter intentionally cannot represent: a raw
	// invokeinterface not preceded by its alignment shim. Field and method
	// attribute lists are not parsed, so they never produce this error.
	ErrUnsupportedForm = errors.New("jxe: unsupported class-file form")
)

// Reader is a random-access cursor over an immutable little-endian byte
// buffer. It never copies the buffer; all reads slice into it directly.
type Reader struct {
	data []byte
	pos  uint32
}

// NewReader wraps data for little-endian, relative-pointer reads.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current cursor position.
func (r *Reader) Pos() uint32 { return r.pos }

// Len returns the total length of the underlying buffer.
func (r *Reader) Len() uint32 { return uint32(len(r.data)) }

// Bytes returns the full underlying buffer. Callers must not mutate it.
func (r *Reader) Bytes() []byte { return r.data }

// Seek moves the cursor to an absolute position. It does not itself bounds
// check past the end of the buffer; reads that run past the end fail.
func (r *Reader) Seek(pos uint32) {
	r.pos = pos
}

// ReadBytes returns the next n bytes and advances the cursor.
func (r *Reader) ReadBytes(n uint32) ([]byte, error) {
	if uint64(r.pos)+uint64(n) > uint64(len(r.data)) {
		return nil, ErrOutsideBoundary
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU8 reads an unsigned 8-bit little-endian integer.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads an unsigned 16-bit little-endian integer.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads an unsigned 32-bit little-endian integer.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadI8 reads a signed 8-bit little-endian integer.
func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// ReadI16 reads a signed 16-bit little-endian integer.
func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadI32 reads a signed 32-bit little-endian integer.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// AlignUp4 advances the cursor to the next 4-byte boundary, if it isn't
// already on one.
func (r *Reader) AlignUp4() {
	if rem := r.pos % 4; rem != 0 {
		r.pos += 4 - rem
	}
}

// ReadLengthPrefixedString reads a u16 byte length followed by that many
// UTF-8 bytes, as used throughout the JXE string region.
func (r *Reader) ReadLengthPrefixedString() (string, error) {
	n, err := r.ReadU16()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(uint32(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadRelativePointer reads a signed 32-bit offset and returns it resolved
// against the position the offset was read from (self-relative pointer).
func (r *Reader) ReadRelativePointer() (uint32, error) {
	base := r.pos
	off, err := r.ReadI32()
	if err != nil {
		return 0, err
	}
	return uint32(int64(base) + int64(off)), nil
}

// ReadStringRef reads a relative pointer, follows it under a scoped cursor,
// and reads a length-prefixed string at the target.
func (r *Reader) ReadStringRef() (string, error) {
	ptr, err := r.ReadRelativePointer()
	if err != nil {
		return "", err
	}
	var s string
	err = r.WithCursor(ptr, func() error {
		var rerr error
		s, rerr = r.ReadLengthPrefixedString()
		return rerr
	})
	return s, err
}

// WithCursor seeks to pos, saves the prior position, runs fn, and restores
// the prior position on any exit path — including when fn returns an error
// or panics. Scoped cursors may be nested; restoration follows a strict
// save/restore stack discipline. An out-of-range target is a fatal
// ErrOutsideBoundary, and the cursor is left untouched.
func (r *Reader) WithCursor(pos uint32, fn func() error) error {
	if pos > r.Len() {
		return ErrOutsideBoundary
	}
	saved := r.pos
	defer func() { r.pos = saved }()
	r.pos = pos
	return fn()
}
