// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package jxe

import (
	"encoding/binary"
	"strconv"
)

// Grounded on symbol.go's fixed-stride symbol-table walk (read N
// identically-shaped 8-byte records sequentially) and reloc.go's packed
// type+value relocation words — the ROM constant pool is the same shape:
// a flat array of 8-byte {value, type} records, some of which are
// themselves pointers that must be chased to recover a compound value.

// sourceConstKind mirrors J9ROMConstant's type discriminator (J9CONST in
// the original source).
type sourceConstKind int

const (
	constInt sourceConstKind = iota
	constString
	constClass
	// constLong never arises from a literal on-disk type word in this
	// source format — the parser reaches it only by downgrading a Ref
	// whose pointer arithmetic failed (spec.md §4.2's "sentinel type 3").
	// The resulting 8 raw bytes are carried as the constant's value and
	// reversed into a target Double payload exactly as a well-formed
	// Long would be, per ConstPool.py: nothing downstream distinguishes
	// "real" from downgraded Long entries.
	constLong
	constRef
)

// Constant is one entry of a class's source (JXE) constant pool.
type Constant struct {
	Kind sourceConstKind

	// Int: the raw little-endian 4-byte payload.
	Raw []byte

	// String, Class: the interned UTF-8 string.
	Str string

	// Long: the raw 8-byte payload (little-endian value word followed by
	// little-endian type word) reversed wholesale into the target Double
	// entry's bytes, per spec.md §4.3.
	LongRaw []byte

	// Ref: class name, member name, member descriptor. A descriptor
	// containing "(" is a method reference, else a field reference.
	RefClass, RefName, RefDesc string
}

// readConstantPool reads count 8-byte constant-pool entries starting at
// the reader's current position (poolBase). A single entry's read failure
// is caught and the entry dropped; every other failure is fatal, per
// spec.md §4.2 ("Empirically the pool may contain a few ill-formed
// trailing entries").
func readConstantPool(r *Reader, count uint32) ([]Constant, []string) {
	poolBase := r.Pos()
	var pool []Constant
	var warnings []string
	for i := uint32(0); i < count; i++ {
		c, err := readConstant(r, poolBase)
		if err != nil {
			warnings = append(warnings, "dropped malformed constant-pool entry "+strconv.Itoa(int(i)))
			continue
		}
		pool = append(pool, c)
	}
	return pool, warnings
}

// readConstant reads one 8-byte {value, type} record. type 0 is Int,
// {1,2} are String/Class (value reinterpreted as a signed self-relative
// offset to a length-prefixed string), anything else is attempted as a
// Ref: the class name lives at poolBase+8*value, and the name-and-type
// pair lives at type+entryStart+4 — both chased under a scoped cursor.
// A Ref whose pointer arithmetic is out of range is downgraded to a Long
// sentinel carrying the raw value+type words, per spec.md §4.2.
func readConstant(r *Reader, poolBase uint32) (Constant, error) {
	entryStart := r.Pos()
	value, err := r.ReadU32()
	if err != nil {
		return Constant{}, err
	}
	typ, err := r.ReadU32()
	if err != nil {
		return Constant{}, err
	}

	switch typ {
	case 0:
		raw := make([]byte, 4)
		binary.LittleEndian.PutUint32(raw, value)
		return Constant{Kind: constInt, Raw: raw}, nil

	case 1, 2:
		ptr := uint32(int64(entryStart) + int64(int32(value)))
		var s string
		err := r.WithCursor(ptr, func() error {
			var rerr error
			s, rerr = r.ReadLengthPrefixedString()
			return rerr
		})
		if err != nil {
			return Constant{}, err
		}
		kind := constString
		if typ == 2 {
			kind = constClass
		}
		return Constant{Kind: kind, Str: s}, nil

	default:
		classPtr := poolBase + 8*value
		var class, name, desc string
		err := r.WithCursor(classPtr, func() error {
			var rerr error
			class, rerr = r.ReadStringRef()
			return rerr
		})
		if err == nil {
			ntPtr := typ + entryStart + 4
			err = r.WithCursor(ntPtr, func() error {
				var rerr error
				if name, rerr = r.ReadStringRef(); rerr != nil {
					return rerr
				}
				desc, rerr = r.ReadStringRef()
				return rerr
			})
		}
		if err != nil {
			raw := make([]byte, 8)
			binary.LittleEndian.PutUint32(raw[0:4], value)
			binary.LittleEndian.PutUint32(raw[4:8], typ)
			return Constant{Kind: constLong, LongRaw: raw}, nil
		}
		return Constant{Kind: constRef, RefClass: class, RefName: name, RefDesc: desc}, nil
	}
}
