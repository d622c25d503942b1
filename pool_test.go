// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package jxe

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildPoolInt(t *testing.T) {
	src := []Constant{{Kind: constInt, Raw: []byte{0x44, 0x33, 0x22, 0x11}}}
	p := BuildPool(src)

	tr, ok := p.Transform(0)
	if !ok {
		t.Fatalf("Transform(0) not found")
	}
	if tr.Tag != TagInteger {
		t.Fatalf("Tag = %d; want TagInteger", tr.Tag)
	}
	if diff := cmp.Diff(src[0].Raw, p.entries[tr.NewIndex].payload); diff != "" {
		t.Fatalf("Integer payload mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPoolLongReversesBytesAndAppendsSentinel(t *testing.T) {
	src := []Constant{{Kind: constLong, LongRaw: []byte{1, 2, 3, 4, 5, 6, 7, 8}}}
	p := BuildPool(src)

	tr, _ := p.Transform(0)
	if tr.Tag != TagDouble {
		t.Fatalf("Tag = %d; want TagDouble", tr.Tag)
	}
	want := []byte{8, 7, 6, 5, 4, 3, 2, 1}
	if diff := cmp.Diff(want, p.entries[tr.NewIndex].payload); diff != "" {
		t.Fatalf("Double payload mismatch (-want +got):\n%s", diff)
	}
	if p.Len() != 2 {
		t.Fatalf("Len() = %d; want 2 (Double entry + sentinel)", p.Len())
	}
	if !p.entries[tr.NewIndex+1].sentinel {
		t.Fatalf("entry following Double is not a sentinel")
	}
}

func TestBuildPoolStringAppendsUtf8Dependency(t *testing.T) {
	src := []Constant{{Kind: constString, Str: "hello"}}
	p := BuildPool(src)

	tr, _ := p.Transform(0)
	if tr.Tag != TagString {
		t.Fatalf("Tag = %d; want TagString", tr.Tag)
	}
	utf8Idx := int(p.entries[tr.NewIndex].payload[0])<<8 | int(p.entries[tr.NewIndex].payload[1])
	utf8Entry := p.entries[utf8Idx-1]
	if utf8Entry.tag != TagUtf8 {
		t.Fatalf("referenced entry tag = %d; want TagUtf8", utf8Entry.tag)
	}
	gotLen := int(utf8Entry.payload[0])<<8 | int(utf8Entry.payload[1])
	if got := string(utf8Entry.payload[2 : 2+gotLen]); got != "hello" {
		t.Fatalf("Utf8 payload = %q; want %q", got, "hello")
	}
}

func TestBuildPoolClassAppendsUtf8Dependency(t *testing.T) {
	src := []Constant{{Kind: constClass, Str: "P/Q"}}
	p := BuildPool(src)

	tr, _ := p.Transform(0)
	if tr.Tag != TagClass {
		t.Fatalf("Tag = %d; want TagClass", tr.Tag)
	}
	if p.Len() != 2 {
		t.Fatalf("Len() = %d; want 2 (Utf8 + Class)", p.Len())
	}
}

func TestBuildPoolRefFieldVsMethod(t *testing.T) {
	src := []Constant{
		{Kind: constRef, RefClass: "P/Q", RefName: "x", RefDesc: "I"},
		{Kind: constRef, RefClass: "P/Q", RefName: "m", RefDesc: "()V"},
	}
	p := BuildPool(src)

	fieldTr, _ := p.Transform(0)
	if fieldTr.Tag != TagFieldRef {
		t.Fatalf("field Tag = %d; want TagFieldRef", fieldTr.Tag)
	}
	methodTr, _ := p.Transform(1)
	if methodTr.Tag != TagMethodRef {
		t.Fatalf("method Tag = %d; want TagMethodRef", methodTr.Tag)
	}
}

func TestBuildPoolRefWorklistAppendsClassAndNameAndType(t *testing.T) {
	src := []Constant{{Kind: constRef, RefClass: "P/Q", RefName: "m", RefDesc: "()V"}}
	p := BuildPool(src)

	tr, _ := p.Transform(0)
	payload := p.entries[tr.NewIndex].payload
	classIdx := int(payload[0])<<8 | int(payload[1])
	natIdx := int(payload[2])<<8 | int(payload[3])

	classEntry := p.entries[classIdx-1]
	if classEntry.tag != TagClass {
		t.Fatalf("class ref tag = %d; want TagClass", classEntry.tag)
	}
	natEntry := p.entries[natIdx-1]
	if natEntry.tag != TagNameAndType {
		t.Fatalf("name-and-type tag = %d; want TagNameAndType", natEntry.tag)
	}
}

func TestApplyTransformRetagsEntry(t *testing.T) {
	src := []Constant{{Kind: constLong, LongRaw: make([]byte, 8)}}
	p := BuildPool(src)
	tr, _ := p.Transform(0)

	if !p.IsDouble(tr.NewIndex) {
		t.Fatalf("IsDouble() = false before retag; want true")
	}
	p.ApplyTransform(tr.NewIndex, TagLong)
	if p.IsDouble(tr.NewIndex) {
		t.Fatalf("IsDouble() = true after retag to Long; want false")
	}
}

func TestAddClassTwoEntryIdiom(t *testing.T) {
	p := NewPool()
	classIdx := p.AddClass("P/Q")
	if p.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", p.Len())
	}
	classEntry := p.entries[classIdx-1]
	if classEntry.tag != TagClass {
		t.Fatalf("tag = %d; want TagClass", classEntry.tag)
	}
	utf8Idx := int(classEntry.payload[0])<<8 | int(classEntry.payload[1])
	if p.entries[utf8Idx-1].tag != TagUtf8 {
		t.Fatalf("class's Utf8 dependency has tag %d; want TagUtf8", p.entries[utf8Idx-1].tag)
	}
}

func TestPoolWriteWritesOneBasedCountAndEntries(t *testing.T) {
	p := NewPool()
	p.AddClass("P/Q") // 2 entries: Utf8, Class

	w := NewWriter()
	p.Write(w)

	var sink bytes.Buffer
	if err := w.Flush(&sink); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	out := sink.Bytes()

	count := int(out[0])<<8 | int(out[1])
	if count != 3 {
		t.Fatalf("pool count = %d; want 3 (len+1)", count)
	}

	// first entry: Utf8 tag, 2-byte length, then "P/Q"
	if out[2] != TagUtf8 {
		t.Fatalf("first entry tag = %d; want TagUtf8", out[2])
	}
	strLen := int(out[3])<<8 | int(out[4])
	if strLen != 3 {
		t.Fatalf("Utf8 length = %d; want 3", strLen)
	}
	if got := string(out[5:8]); got != "P/Q" {
		t.Fatalf("Utf8 bytes = %q; want %q", got, "P/Q")
	}
	// second entry: Class tag, 2-byte index pointing at entry 1
	if out[8] != TagClass {
		t.Fatalf("second entry tag = %d; want TagClass", out[8])
	}
}

func TestPoolWriteSkipsDoubleSentinel(t *testing.T) {
	src := []Constant{{Kind: constLong, LongRaw: make([]byte, 8)}}
	p := BuildPool(src)

	w := NewWriter()
	p.Write(w)

	var sink bytes.Buffer
	if err := w.Flush(&sink); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	out := sink.Bytes()

	count := int(out[0])<<8 | int(out[1])
	if count != 3 {
		t.Fatalf("pool count = %d; want 3 (1 Double entry, sentinel counted but not serialized)", count)
	}
	// count header (2) + tag (1) + 8-byte payload = 11 total bytes written.
	if len(out) != 11 {
		t.Fatalf("len(out) = %d; want 11 (sentinel slot contributes no bytes)", len(out))
	}
}
