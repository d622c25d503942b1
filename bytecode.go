// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package jxe

import "encoding/binary"

// TransformBytecode rewrites one method's bytecode from the source's
// little-endian, quickened-opcode form into standard big-endian class-file
// form, remapping every constant-pool operand through pool's transform map.
// Retags the transformer schedules along the way (Double<->Long,
// MethodRef->InterfaceMethodRef) are applied to pool once the walk
// completes, mirroring transform_bytecode's own end-of-call apply step.
//
// Grounded on loadconfig.go's dispatch-by-flag-bits walk, generalized from
// a single fixed record to a variable-length instruction stream.
func TransformBytecode(pool *Pool, bytecode []byte) ([]byte, error) {
	out := make([]byte, 0, len(bytecode))
	retags := make(map[int]byte)

	i := 0
	for i < len(bytecode) {
		op := opcode(bytecode[i])
		start := i

		switch op {
		case opGetstatic, opPutstatic, opGetfield, opPutfield,
			opInvokevirtual, opInvokespecial, opInvokestatic,
			opNew, opAnewarray, opCheckcast, opInstanceof, opLdcW:
			if err := need(bytecode, i, 3); err != nil {
				return nil, err
			}
			srcIndex := binary.LittleEndian.Uint16(bytecode[i+1 : i+3])
			t, ok := pool.Transform(int(srcIndex))
			if !ok {
				return nil, ErrMissingTransform
			}
			out = append(out, byte(op))
			out = appendU16(out, uint16(t.NewIndex+1))
			i += 3

		case opLdc2Lw:
			if err := need(bytecode, i, 3); err != nil {
				return nil, err
			}
			srcIndex := binary.LittleEndian.Uint16(bytecode[i+1 : i+3])
			t, ok := pool.Transform(int(srcIndex))
			if ok && t.Tag == TagDouble {
				out = append(out, byte(opLdc2Lw))
				out = appendU16(out, uint16(t.NewIndex+1))
				retags[t.NewIndex] = TagLong
			} else {
				// The source entry was never a true 64-bit value at this
				// site; widen-down to ldc_w. A missing transform here is a
				// known corner case (spec.md §9): fall back to index 0
				// rather than aborting the class.
				newIndex := 0
				if ok {
					newIndex = t.NewIndex
				}
				out = append(out, byte(opLdcW))
				out = appendU16(out, uint16(newIndex+1))
			}
			i += 3

		case opLdc2Dw:
			if err := need(bytecode, i, 3); err != nil {
				return nil, err
			}
			srcIndex := binary.LittleEndian.Uint16(bytecode[i+1 : i+3])
			t, ok := pool.Transform(int(srcIndex))
			if !ok {
				return nil, ErrMissingTransform
			}
			out = append(out, byte(opLdc2Lw))
			out = appendU16(out, uint16(t.NewIndex+1))
			retags[t.NewIndex] = TagDouble
			i += 3

		case opIincW:
			if err := need(bytecode, i, 5); err != nil {
				return nil, err
			}
			o1 := binary.LittleEndian.Uint16(bytecode[i+1 : i+3])
			o2 := binary.LittleEndian.Uint16(bytecode[i+3 : i+5])
			out = append(out, byte(op))
			out = appendU16(out, o1)
			out = appendU16(out, o2)
			i += 5

		case opIloadW, opLloadW, opFloadW, opDloadW, opAloadW,
			opIstoreW, opLstoreW, opFstoreW, opDstoreW, opAstoreW:
			if err := need(bytecode, i, 3); err != nil {
				return nil, err
			}
			v := binary.LittleEndian.Uint16(bytecode[i+1 : i+3])
			out = append(out, byte(op))
			out = appendU16(out, v)
			i += 3

		case opSipush, opIfeq, opIfne, opIflt, opIfge, opIfgt, opIfle,
			opIfIcmpeq, opIfIcmpne, opIfIcmplt, opIfIcmpge, opIfIcmpgt, opIfIcmple,
			opIfAcmpeq, opIfAcmpne, opGoto, opJsr, opIfnull, opIfnonnull:
			if err := need(bytecode, i, 3); err != nil {
				return nil, err
			}
			v := binary.LittleEndian.Uint16(bytecode[i+1 : i+3])
			out = append(out, byte(op))
			out = appendU16(out, v)
			i += 3

		case opAload0Getfield:
			out = append(out, byte(opStdAload0))
			i++

		case opReturn0, opSyncReturn0:
			out = append(out, byte(opStdReturn))
			i++

		case opReturn1, opSyncReturn1:
			out = append(out, byte(opStdAreturn))
			i++

		case opInvokeinterface2:
			if err := need(bytecode, i, 5); err != nil {
				return nil, err
			}
			srcIndex := binary.LittleEndian.Uint16(bytecode[i+3 : i+5])
			t, ok := pool.Transform(int(srcIndex))
			if !ok {
				return nil, ErrMissingTransform
			}
			out = append(out, byte(opInvokeinterface))
			out = appendU16(out, uint16(t.NewIndex+1))
			out = append(out, 0, 0)
			retags[t.NewIndex] = TagInterfaceMethodRef
			i += 5

		case opInvokeinterface:
			return nil, ErrUnsupportedForm

		case opLdc:
			if err := need(bytecode, i, 2); err != nil {
				return nil, err
			}
			srcIndex := bytecode[i+1]
			t, ok := pool.Transform(int(srcIndex))
			if !ok {
				return nil, ErrMissingTransform
			}
			out = append(out, byte(op), byte(t.NewIndex+1))
			i += 2

		case opBipush, opNewarray, opIload, opLload, opFload, opDload, opAload,
			opIstore, opLstore, opFstore, opDstore, opAstore, opRet:
			if err := need(bytecode, i, 2); err != nil {
				return nil, err
			}
			out = append(out, byte(op), bytecode[i+1])
			i += 2

		case opIinc:
			if err := need(bytecode, i, 3); err != nil {
				return nil, err
			}
			out = append(out, byte(op), bytecode[i+1], bytecode[i+2])
			i += 3

		case opTableswitch:
			out = append(out, byte(op))
			pad := (start + 1) % 4
			if pad != 0 {
				pad = 4 - pad
			}
			for k := 0; k < pad; k++ {
				out = append(out, 0)
			}
			i = start + 1 + pad

			if err := need(bytecode, i, 12); err != nil {
				return nil, err
			}
			def := binary.LittleEndian.Uint32(bytecode[i : i+4])
			out = appendU32(out, def)
			i += 4
			low := int32(binary.LittleEndian.Uint32(bytecode[i : i+4]))
			out = appendI32(out, low)
			i += 4
			high := int32(binary.LittleEndian.Uint32(bytecode[i : i+4]))
			out = appendI32(out, high)
			i += 4

			for k := int64(0); k < int64(high)-int64(low)+1; k++ {
				if err := need(bytecode, i, 4); err != nil {
					return nil, err
				}
				v := binary.LittleEndian.Uint32(bytecode[i : i+4])
				out = appendU32(out, v)
				i += 4
			}

		case opLookupswitch:
			out = append(out, byte(op))
			pad := (start + 1) % 4
			if pad != 0 {
				pad = 4 - pad
			}
			for k := 0; k < pad; k++ {
				out = append(out, 0)
			}
			i = start + 1 + pad

			if err := need(bytecode, i, 8); err != nil {
				return nil, err
			}
			def := binary.LittleEndian.Uint32(bytecode[i : i+4])
			out = appendU32(out, def)
			i += 4
			n := binary.LittleEndian.Uint32(bytecode[i : i+4])
			out = appendU32(out, n)
			i += 4

			for k := uint32(0); k < n; k++ {
				if err := need(bytecode, i, 8); err != nil {
					return nil, err
				}
				key := binary.LittleEndian.Uint32(bytecode[i : i+4])
				off := binary.LittleEndian.Uint32(bytecode[i+4 : i+8])
				out = appendU32(out, key)
				out = appendU32(out, off)
				i += 8
			}

		case opMultianewarray:
			if err := need(bytecode, i, 4); err != nil {
				return nil, err
			}
			srcIndex := binary.LittleEndian.Uint16(bytecode[i+1 : i+3])
			t, ok := pool.Transform(int(srcIndex))
			if !ok {
				return nil, ErrMissingTransform
			}
			out = append(out, byte(op))
			out = appendU16(out, uint16(t.NewIndex+1))
			out = append(out, bytecode[i+3])
			i += 4

		case opGotoW:
			if err := need(bytecode, i, 5); err != nil {
				return nil, err
			}
			v := binary.LittleEndian.Uint32(bytecode[i+1 : i+5])
			out = append(out, byte(op))
			out = appendU32(out, v)
			i += 5

		default:
			out = append(out, byte(op))
			i++
		}
	}

	for index, tag := range retags {
		pool.ApplyTransform(index, tag)
	}

	return out, nil
}

func need(b []byte, at, n int) error {
	if at+n > len(b) {
		return ErrOutsideBoundary
	}
	return nil
}

func appendU16(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}

func appendU32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func appendI32(b []byte, v int32) []byte {
	return appendU32(b, uint32(v))
}
