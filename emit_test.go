// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package jxe

import (
	"bytes"
	"testing"
)

// TestEmitClassMinimalNoMethodsOneInterface pins down the exact byte layout
// for the simplest possible class: P/Q extends java/lang/Object implements
// R/S, no fields or methods. The constant pool fills in this-class,
// super-class and the one interface via AddClass's Utf8-then-Class idiom,
// plus the "Code" attribute-name Utf8 that EmitClass always reserves even
// when no method ends up using it.
func TestEmitClassMinimalNoMethodsOneInterface(t *testing.T) {
	c := &Class{
		Minor:      0,
		Major:      46,
		Name:       "P/Q",
		SuperName:  "java/lang/Object",
		Interfaces: []string{"R/S"},
	}

	out, err := EmitClass(c)
	if err != nil {
		t.Fatalf("EmitClass() error = %v", err)
	}

	var want bytes.Buffer
	want.Write([]byte{0xCA, 0xFE, 0xBA, 0xBE}) // magic
	want.Write([]byte{0x00, 0x00})             // minor
	want.Write([]byte{0x00, 0x2E})             // major = 46

	want.Write([]byte{0x00, 0x08}) // pool count = 7 entries + 1

	want.Write([]byte{0x01, 0x00, 0x03, 'P', '/', 'Q'}) // #1 Utf8 "P/Q"
	want.Write([]byte{0x07, 0x00, 0x01})                // #2 Class -> #1
	want.Write(append([]byte{0x01, 0x00, 0x10}, []byte("java/lang/Object")...)) // #3 Utf8
	want.Write([]byte{0x07, 0x00, 0x03})                // #4 Class -> #3
	want.Write([]byte{0x01, 0x00, 0x03, 'R', '/', 'S'}) // #5 Utf8 "R/S"
	want.Write([]byte{0x07, 0x00, 0x05})                // #6 Class -> #5
	want.Write([]byte{0x01, 0x00, 0x04, 'C', 'o', 'd', 'e'})

	want.Write([]byte{0x00, 0x00}) // access_flags
	want.Write([]byte{0x00, 0x02}) // this_class -> #2
	want.Write([]byte{0x00, 0x04}) // super_class -> #4

	want.Write([]byte{0x00, 0x01}) // interfaces_count
	want.Write([]byte{0x00, 0x06}) // interfaces[0] -> #6

	want.Write([]byte{0x00, 0x00}) // fields_count
	want.Write([]byte{0x00, 0x00}) // methods_count
	want.Write([]byte{0x00, 0x00}) // attributes_count

	if !bytes.Equal(out, want.Bytes()) {
		t.Fatalf("EmitClass() =\n%x\nwant\n%x", out, want.Bytes())
	}
}

// TestEmitClassNarrowVsWideCodeAttributeLayout pins down the Code
// attribute's max_stack/max_locals/code_length triple in both its narrow
// (u8,u8,u16; major.minor < 45.3) and wide (u16,u16,u32) forms, for a class
// with one method compiling to a single transformed byte (return0 ->
// return).
func TestEmitClassNarrowVsWideCodeAttributeLayout(t *testing.T) {
	tests := []struct {
		name   string
		major  uint16
		minor  uint16
		narrow bool
	}{
		{"old major below 45", 44, 0, true},
		{"major 45 minor below 3", 45, 2, true},
		{"major 45 minor 3 is wide", 45, 3, false},
		{"modern major is wide", 52, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Class{
				Major:     tt.major,
				Minor:     tt.minor,
				Name:      "P/Q",
				SuperName: "java/lang/Object",
				Methods: []*Method{
					{Name: "m", Signature: "()V", MaxStack: 1, TempCount: 1, Bytecode: []byte{byte(opReturn0)}},
				},
			}
			out, err := EmitClass(c)
			if err != nil {
				t.Fatalf("EmitClass() error = %v", err)
			}

			var want bytes.Buffer
			want.Write([]byte{0xCA, 0xFE, 0xBA, 0xBE})
			want.Write([]byte{byte(tt.minor >> 8), byte(tt.minor)})
			want.Write([]byte{byte(tt.major >> 8), byte(tt.major)})

			want.Write([]byte{0x00, 0x08}) // pool count = 7 entries + 1
			want.Write([]byte{0x01, 0x00, 0x03, 'P', '/', 'Q'})
			want.Write([]byte{0x07, 0x00, 0x01})
			want.Write(append([]byte{0x01, 0x00, 0x10}, []byte("java/lang/Object")...))
			want.Write([]byte{0x07, 0x00, 0x03})
			want.Write([]byte{0x01, 0x00, 0x04, 'C', 'o', 'd', 'e'})
			want.Write([]byte{0x01, 0x00, 0x01, 'm'})
			want.Write([]byte{0x01, 0x00, 0x03, '(', ')', 'V'})

			want.Write([]byte{0x00, 0x00}) // access_flags
			want.Write([]byte{0x00, 0x02}) // this_class
			want.Write([]byte{0x00, 0x04}) // super_class
			want.Write([]byte{0x00, 0x00}) // interfaces_count
			want.Write([]byte{0x00, 0x00}) // fields_count

			want.Write([]byte{0x00, 0x01}) // methods_count
			want.Write([]byte{0x00, 0x00}) // method access_flags
			want.Write([]byte{0x00, 0x06}) // method name_index -> "m"
			want.Write([]byte{0x00, 0x07}) // method desc_index -> "()V"
			want.Write([]byte{0x00, 0x01}) // method attributes_count

			want.Write([]byte{0x00, 0x05}) // Code attribute name_index
			if tt.narrow {
				want.Write([]byte{0x00, 0x00, 0x00, 0x09}) // attr_length = 1 + 8*0 + 8
				want.Write([]byte{0x01})                   // max_stack (u8)
				want.Write([]byte{0x01})                   // max_locals (u8)
				want.Write([]byte{0x00, 0x01})             // code_length (u16)
			} else {
				want.Write([]byte{0x00, 0x00, 0x00, 0x0D}) // attr_length = 1 + 8*0 + 12
				want.Write([]byte{0x00, 0x01})             // max_stack (u16)
				want.Write([]byte{0x00, 0x01})             // max_locals (u16)
				want.Write([]byte{0x00, 0x00, 0x00, 0x01}) // code_length (u32)
			}
			want.Write([]byte{0xB1})       // code: return
			want.Write([]byte{0x00, 0x00}) // exception_table_length
			want.Write([]byte{0x00, 0x00}) // Code attribute's own attributes_count

			want.Write([]byte{0x00, 0x00}) // class attributes_count

			if !bytes.Equal(out, want.Bytes()) {
				t.Fatalf("EmitClass() =\n%x\nwant\n%x", out, want.Bytes())
			}
		})
	}
}

func TestEmitClassMethodUnsupportedBytecodeFailsWholeClass(t *testing.T) {
	c := &Class{
		Major:     52,
		Name:      "P/Q",
		SuperName: "java/lang/Object",
		Methods: []*Method{
			{Name: "m", Signature: "()V", Bytecode: []byte{byte(opInvokeinterface), 0, 1, 0, 0}},
		},
	}
	if _, err := EmitClass(c); err != ErrUnsupportedForm {
		t.Fatalf("EmitClass() error = %v; want ErrUnsupportedForm", err)
	}
}

func TestEmitClassNativeMethodSkipsBytecodeTransform(t *testing.T) {
	c := &Class{
		Major:     52,
		Name:      "P/Q",
		SuperName: "java/lang/Object",
		Methods: []*Method{
			{Name: "m", Signature: "()V", IsNative: true, Bytecode: nil},
		},
	}
	out, err := EmitClass(c)
	if err != nil {
		t.Fatalf("EmitClass() error = %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("EmitClass() returned empty output")
	}
}
