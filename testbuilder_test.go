// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package jxe

import "encoding/binary"

// builder assembles a little-endian JXE-shaped byte buffer for parser
// tests: reserve a rel32 placeholder where a self-relative pointer field
// belongs, append the pointed-to data wherever convenient, then patch the
// placeholder once the target's position is known.
type builder struct {
	buf []byte
}

func newBuilder() *builder { return &builder{} }

func (b *builder) pos() uint32 { return uint32(len(b.buf)) }

func (b *builder) u8(v byte) { b.buf = append(b.buf, v) }

func (b *builder) u16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *builder) u32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *builder) bytes(data []byte) { b.buf = append(b.buf, data...) }

// reserve appends n zero bytes and returns their starting offset, to be
// patched later once its target's position is known.
func (b *builder) reserve(n int) uint32 {
	at := b.pos()
	b.buf = append(b.buf, make([]byte, n)...)
	return at
}

// patchRel32 writes, at offset at, the signed self-relative offset a
// reader positioned at at would need to resolve to target.
func (b *builder) patchRel32(at, target uint32) {
	off := int64(target) - int64(at)
	binary.LittleEndian.PutUint32(b.buf[at:at+4], uint32(int32(off)))
}

// lengthPrefixedString appends a u16-length-prefixed string and returns its
// starting offset.
func (b *builder) lengthPrefixedString(s string) uint32 {
	at := b.pos()
	b.u16(uint16(len(s)))
	b.bytes([]byte(s))
	return at
}

// pendingStringRef is a rel32 placeholder awaiting its target string,
// recorded so the string payload can be appended later (in a separate tail
// region, after every fixed-layout field of the record has been written)
// without interleaving string bytes into the middle of the main stream.
type pendingStringRef struct {
	at uint32
	s  string
}

// stringRef reserves a rel32 placeholder for s and records it for later
// resolution via resolve. Call this once per pointer field while laying out
// a record's fixed fields; call resolve once, after the whole record (and
// anything that follows it in the main stream) has been written.
func (b *builder) stringRef(pending *[]pendingStringRef, s string) {
	at := b.reserve(4)
	*pending = append(*pending, pendingStringRef{at: at, s: s})
}

// resolve appends each pending string to the buffer's current tail and
// patches its placeholder to point at it.
func (b *builder) resolve(pending []pendingStringRef) {
	for _, p := range pending {
		strPos := b.lengthPrefixedString(p.s)
		b.patchRel32(p.at, strPos)
	}
}
