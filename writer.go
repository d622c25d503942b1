// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package jxe

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Writer accumulates a class file's big-endian byte stream in memory. A
// standard class file is self-contained and written in one pass, unlike the
// relative-pointer JXE encoding it is rebuilt from.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.buf.Len() }

// WriteRawBytes appends data unchanged.
func (w *Writer) WriteRawBytes(data []byte) {
	w.buf.Write(data)
}

// WriteU8 writes an unsigned 8-bit integer.
func (w *Writer) WriteU8(v uint8) {
	w.buf.WriteByte(v)
}

// WriteU16 writes an unsigned 16-bit big-endian integer.
func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

// WriteU32 writes an unsigned 32-bit big-endian integer.
func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteI16 writes a signed 16-bit big-endian integer.
func (w *Writer) WriteI16(v int16) {
	w.WriteU16(uint16(v))
}

// WriteI32 writes a signed 32-bit big-endian integer.
func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Flush writes the accumulated buffer to sink in one call.
func (w *Writer) Flush(sink io.Writer) error {
	_, err := sink.Write(w.buf.Bytes())
	return err
}
