// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

// Package jxe converts a J9-style JXE ROM image into standard JVM class
// files. It parses the image's little-endian, relative-pointer metadata
// section (class directory, method/field tables, and a compressed
// per-class constant pool), then re-emits each class in the standard
// big-endian, tag-indexed class-file encoding, rewriting every embedded
// bytecode instruction to reference the newly built constant pool.
package jxe

// Image is a fully parsed JXE ROM image. It is built once per input file
// and is immutable thereafter; its Classes are independent of one another.
type Image struct {
	Signature    uint32
	FlagsVersion uint32
	ROMSize      uint32
	SymbolFileID [16]byte
	Classes      []*Class
}

// Class is one parsed class from the image's table of contents.
type Class struct {
	Minor, Major uint16
	Name         string
	SuperName    string
	AccessFlags  uint32
	Interfaces   []string
	Fields       []*Field
	Methods      []*Method
	ConstantPool []Constant

	// Warnings accumulates non-fatal oddities found while parsing this
	// class (currently: dropped malformed constant-pool entries). The
	// driver logs these and still emits the class. An ldc2_lw rewritten to
	// the index-0 fallback during bytecode transformation is not recorded
	// here.
	Warnings []string
}

// Field is a parsed field_info-equivalent from the ROM image.
type Field struct {
	Name        string
	Signature   string
	AccessFlags uint32
}

// CatchEntry is one row of a method's exception table.
type CatchEntry struct {
	Start, End, Handler uint32
	CatchType           uint32 // source constant-pool index, or 0 for finally
}

// Method is a parsed method_info-equivalent from the ROM image. Native
// methods (Modifier&0x100 != 0) carry no bytecode.
type Method struct {
	Name       string
	Signature  string
	Modifier   uint32
	MaxStack   uint16
	ArgCount   uint8
	TempCount  uint16
	Bytecode   []byte
	CatchTable []CatchEntry
	ThrowTable []string

	IsNative bool
}

// modifier bits inspected while parsing a ROM method record and field
// record. Names follow the source VM's own bit assignments; spec.md §4.2
// is the normative reference for each.
const (
	modifierNative           = 0x00000100
	modifierBytecodeSizeHigh = 0x00008000
	modifierAddFourBytecode  = 0x00010000
	modifierHasExceptionInfo = 0x00020000
	modifierNativeExtraWord  = 0x02000000
	modifierNativeDebugInfo  = 0x00020000

	// modifierTrailingWord gates one further 32-bit word after a
	// bytecoded method's catch/throw tables. spec.md's distillation of
	// the bytecoded method layout omits this word; it is present in the
	// original J9ROMMethod.read (guarded by the same bit as
	// fieldOptionalWord1) and is preserved here purely to keep the
	// cursor aligned for the next method record.
	modifierTrailingWord = 0x00400000

	fieldOptionalWord1 = 0x00400000
	fieldOptionalWord2 = 0x00040000
	fieldOptionalWord3 = 0x40000000
)
