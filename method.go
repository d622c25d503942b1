// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package jxe

// parseMethod reads one J9ROMMethod-equivalent record: a fixed 14-byte
// prefix (name ref, signature ref, modifier, max-stack), then branches on
// the native bit of the modifier. Grounded on loadconfig.go's
// version-gated variable layout (the same field read two different ways
// depending on a flag checked up front).
func parseMethod(r *Reader) (*Method, error) {
	name, err := r.ReadStringRef()
	if err != nil {
		return nil, err
	}
	signature, err := r.ReadStringRef()
	if err != nil {
		return nil, err
	}
	modifier, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	maxStack, err := r.ReadU16()
	if err != nil {
		return nil, err
	}

	m := &Method{Name: name, Signature: signature, Modifier: modifier, MaxStack: maxStack}

	if modifier&modifierNative != 0 {
		return parseNativeMethod(r, m)
	}
	return parseBytecodedMethod(r, m)
}

func parseNativeMethod(r *Reader, m *Method) (*Method, error) {
	m.IsNative = true

	argCount, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	tempCount, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadU8(); err != nil { // padding
		return nil, err
	}
	if _, err := r.ReadU8(); err != nil { // native arg count
		return nil, err
	}
	if _, err := r.ReadU8(); err != nil { // return type
		return nil, err
	}
	if _, err := r.ReadU8(); err != nil { // padding
		return nil, err
	}

	m.ArgCount = argCount
	m.TempCount = uint16(tempCount)

	for i := uint8(0); i < argCount; i++ {
		if _, err := r.ReadU32(); err != nil {
			return nil, err
		}
	}

	if m.Modifier&modifierNativeExtraWord != 0 {
		if _, err := r.ReadU32(); err != nil {
			return nil, err
		}
	}
	if m.Modifier&modifierNativeDebugInfo != 0 {
		a, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		b, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		discardLen := uint32(a)*16 + 4*uint32(b)
		if _, err := r.ReadBytes(discardLen); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func parseBytecodedMethod(r *Reader, m *Method) (*Method, error) {
	sizeLow, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	sizeHigh, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	argCount, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	tempCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}

	m.ArgCount = argCount
	m.TempCount = tempCount

	size := uint32(sizeLow)
	if m.Modifier&modifierBytecodeSizeHigh != 0 {
		size += uint32(sizeHigh) << 16
	}
	size *= 4
	if m.Modifier&modifierAddFourBytecode != 0 {
		size += 4
	}

	bytecode, err := r.ReadBytes(size)
	if err != nil {
		return nil, err
	}
	m.Bytecode = bytecode
	r.AlignUp4()

	if m.Modifier&modifierHasExceptionInfo != 0 {
		catchCount, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		throwCount, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		for i := uint16(0); i < catchCount; i++ {
			start, err := r.ReadU32()
			if err != nil {
				return nil, err
			}
			end, err := r.ReadU32()
			if err != nil {
				return nil, err
			}
			handler, err := r.ReadU32()
			if err != nil {
				return nil, err
			}
			catchType, err := r.ReadU32()
			if err != nil {
				return nil, err
			}
			m.CatchTable = append(m.CatchTable, CatchEntry{Start: start, End: end, Handler: handler, CatchType: catchType})
		}
		for i := uint16(0); i < throwCount; i++ {
			name, err := r.ReadStringRef()
			if err != nil {
				return nil, err
			}
			m.ThrowTable = append(m.ThrowTable, name)
		}
	}

	if m.Modifier&modifierTrailingWord != 0 {
		if _, err := r.ReadU32(); err != nil {
			return nil, err
		}
	}

	return m, nil
}
