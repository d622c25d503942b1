// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package jxe

import (
	"encoding/binary"
	"strings"
)

// Target constant-pool entry tags, as defined by the JVM class-file format.
const (
	TagUtf8               = 1
	TagInteger            = 3
	TagFloat              = 4
	TagLong               = 5
	TagDouble             = 6
	TagClass              = 7
	TagString             = 8
	TagFieldRef           = 9
	TagMethodRef          = 10
	TagInterfaceMethodRef = 11
	TagNameAndType        = 12
)

// poolEntry is one already-encoded (big-endian, tag-indexed) target
// constant-pool entry. sentinel marks the unused successor slot that
// follows every Long/Double entry.
type poolEntry struct {
	tag      byte
	payload  []byte
	sentinel bool
}

// Transform is the target of a source-pool index in the transform map:
// the 0-based target-pool slot the source entry expanded to, and the
// target entry's tag (consulted by the bytecode transformer's ldc2_lw
// handling).
type Transform struct {
	NewIndex int
	Tag      byte
}

// Pool is the target (standard class-file) constant pool being built for
// one class, together with the transform map from source indices. It is
// constructed fresh per class: grounded on imports.go's pattern of
// expanding one compound descriptor (an import directory entry) into a
// chain of dependent table rows (DLL name, then each thunk's
// import-by-name) — here a source Ref similarly expands into a Class, a
// NameAndType, and up to three Utf8 entries, discovered breadth-first so
// every referenced Utf8 exists before its referrer is serialized.
type Pool struct {
	entries   []poolEntry
	transform map[int]Transform
	worklist  []workItem
}

type workKind int

const (
	workUtf8 workKind = iota
	workClass
	workNameAndType
)

// workItem is a pending pass-2 append: the referrer's payload still holds
// a placeholder, to be patched with the 1-based index of the entry this
// item appends. A FIFO worklist (not a fixed iterator snapshot) lets pass
// 2 enqueue further work — e.g. appending a Class enqueues its own Utf8 —
// while still draining to completion, per spec.md §9.
type workItem struct {
	kind  workKind
	slot  int // referrer's 0-based slot
	at    int // byte offset within the referrer's payload to patch
	str   string
	name  string
	desc  string
}

// NewPool returns an empty target pool.
func NewPool() *Pool {
	return &Pool{transform: make(map[int]Transform)}
}

// Len returns the number of entries, including sentinel slots.
func (p *Pool) Len() int { return len(p.entries) }

func (p *Pool) append(tag byte, payload []byte) int {
	slot := len(p.entries)
	p.entries = append(p.entries, poolEntry{tag: tag, payload: payload})
	return slot
}

func (p *Pool) appendSentinel() {
	p.entries = append(p.entries, poolEntry{sentinel: true})
}

func be16(v int) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(v))
	return b
}

// AddUtf8 appends a Utf8 entry for s, encoded as the JVM's modified
// UTF-8 (see modutf8.go), and returns its 1-based pool index.
func (p *Pool) AddUtf8(s string) int {
	encoded := encodeModifiedUTF8(s)
	payload := append(be16(len(encoded)), encoded...)
	return p.append(TagUtf8, payload) + 1
}

// AddClass appends a Utf8 for name followed by a Class entry referencing
// it, and returns the Class entry's 1-based pool index — the same
// two-entry idiom classic class-file authoring tools use for this-class,
// super-class, and interface entries (spec.md §4.3).
func (p *Pool) AddClass(name string) int {
	utf8Idx := p.AddUtf8(name)
	return p.append(TagClass, be16(utf8Idx)) + 1
}

// BuildPool runs the two-pass constant-pool rebuild over a class's source
// pool and returns the target pool plus its transform map. Pass 1 appends
// a placeholder target entry per source entry (so every source index maps
// to a stable target slot immediately); pass 2 drains the worklist that
// pass 1 scheduled, backfilling placeholders as their Utf8/Class/
// NameAndType dependencies are appended.
func BuildPool(src []Constant) *Pool {
	p := NewPool()

	for i, c := range src {
		switch c.Kind {
		case constInt:
			slot := p.append(TagInteger, append([]byte(nil), c.Raw...))
			p.transform[i] = Transform{NewIndex: slot, Tag: TagInteger}

		case constLong:
			reversed := reverseBytes(c.LongRaw)
			slot := p.append(TagDouble, reversed)
			p.appendSentinel()
			p.transform[i] = Transform{NewIndex: slot, Tag: TagDouble}

		case constString:
			slot := p.append(TagString, make([]byte, 2))
			p.worklist = append(p.worklist, workItem{kind: workUtf8, slot: slot, str: c.Str})
			p.transform[i] = Transform{NewIndex: slot, Tag: TagString}

		case constClass:
			slot := p.append(TagClass, make([]byte, 2))
			p.worklist = append(p.worklist, workItem{kind: workUtf8, slot: slot, str: c.Str})
			p.transform[i] = Transform{NewIndex: slot, Tag: TagClass}

		case constRef:
			tag := byte(TagFieldRef)
			if strings.Contains(c.RefDesc, "(") {
				tag = TagMethodRef
			}
			slot := p.append(tag, make([]byte, 4))
			p.worklist = append(p.worklist, workItem{kind: workClass, slot: slot, at: 0, str: c.RefClass})
			p.worklist = append(p.worklist, workItem{kind: workNameAndType, slot: slot, at: 2, name: c.RefName, desc: c.RefDesc})
			p.transform[i] = Transform{NewIndex: slot, Tag: tag}
		}
	}

	for qi := 0; qi < len(p.worklist); qi++ {
		item := p.worklist[qi]
		switch item.kind {
		case workUtf8:
			idx := p.AddUtf8(item.str)
			p.patch(item.slot, item.at, idx)

		case workClass:
			idx := p.AddUtf8(item.str)
			classSlot := p.append(TagClass, be16(idx))
			p.patch(item.slot, item.at, classSlot+1)

		case workNameAndType:
			nameIdx := p.AddUtf8(item.name)
			descIdx := p.AddUtf8(item.desc)
			natSlot := p.append(TagNameAndType, append(be16(nameIdx), be16(descIdx)...))
			p.patch(item.slot, item.at, natSlot+1)
		}
	}

	return p
}

// patch overwrites a 2-byte big-endian index at byte offset at within the
// payload of the entry at slot.
func (p *Pool) patch(slot, at, index int) {
	copy(p.entries[slot].payload[at:at+2], be16(index))
}

// ApplyTransform retags an already-appended entry, used by the bytecode
// transformer to switch a Double to Long (and back) and a MethodRef to
// InterfaceMethodRef. Payload bytes are left untouched; only the tag
// prefix changes, per spec.md §4.3.
func (p *Pool) ApplyTransform(index int, tag byte) {
	p.entries[index].tag = tag
}

// Transform returns the transform-map record for a source index, and
// whether one was recorded. Bytecode operand remapping must succeed — a
// missing transform for any family but ldc2_lw's documented fallback
// means the class is malformed (spec.md invariant 4).
func (p *Pool) Transform(srcIndex int) (Transform, bool) {
	t, ok := p.transform[srcIndex]
	return t, ok
}

// IsDouble reports whether the target entry at a 0-based index currently
// carries tag Double. This is the sole general-purpose query the retag
// helper performs in the source (check_transform's "\x06" check) — no
// broader semantics are implied.
func (p *Pool) IsDouble(index int) bool {
	return index >= 0 && index < len(p.entries) && p.entries[index].tag == TagDouble
}

// Write serializes the pool in standard class-file form: a u16 count
// (len+1, the 1-based convention) followed by each entry's tag byte and
// payload; sentinel slots following a Long/Double are skipped.
func (p *Pool) Write(w *Writer) {
	w.WriteU16(uint16(len(p.entries) + 1))
	for _, e := range p.entries {
		if e.sentinel {
			continue
		}
		w.WriteU8(e.tag)
		w.WriteRawBytes(e.payload)
	}
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
