// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package jxe

// Class-file emission. Grounded on richheader.go's pattern of assembling a
// derived on-disk structure field-by-field from an already-parsed model,
// generalized here to a model that must also be expanded (the constant
// pool) before it can be serialized.

// EmitClass rebuilds c's constant pool, transforms every non-native
// method's bytecode, and serializes the result as a standard big-endian
// class file. A bytecode transformation error (an unsupported form or a
// missing transform) fails the whole class; the caller is expected to
// catch this per class and skip it rather than abort the run. The parsed
// model carries no field or method attribute counts, so no attribute
// check is made: every field is written with zero attributes and every
// method with exactly one Code attribute.
func EmitClass(c *Class) ([]byte, error) {
	pool := BuildPool(c.ConstantPool)

	thisClass := pool.AddClass(c.Name)
	superClass := pool.AddClass(c.SuperName)

	interfaceIndices := make([]int, len(c.Interfaces))
	for i, name := range c.Interfaces {
		interfaceIndices[i] = pool.AddClass(name)
	}

	type fieldInfo struct {
		accessFlags uint32
		nameIndex   int
		descIndex   int
	}
	fields := make([]fieldInfo, len(c.Fields))
	for i, f := range c.Fields {
		fields[i] = fieldInfo{
			accessFlags: f.AccessFlags,
			nameIndex:   pool.AddUtf8(f.Name),
			descIndex:   pool.AddUtf8(f.Signature),
		}
	}

	codeAttrNameIndex := pool.AddUtf8("Code")

	type methodInfo struct {
		accessFlags uint32
		nameIndex   int
		descIndex   int
		maxStack    uint16
		maxLocals   uint16
		code        []byte
		catchTable  []CatchEntry
	}
	methods := make([]methodInfo, len(c.Methods))
	for i, m := range c.Methods {
		code := m.Bytecode
		if !m.IsNative {
			transformed, err := TransformBytecode(pool, m.Bytecode)
			if err != nil {
				return nil, err
			}
			code = transformed
		}
		methods[i] = methodInfo{
			accessFlags: m.Modifier,
			nameIndex:   pool.AddUtf8(m.Name),
			descIndex:   pool.AddUtf8(m.Signature),
			maxStack:    m.MaxStack,
			maxLocals:   m.TempCount,
			code:        code,
			catchTable:  m.CatchTable,
		}
	}

	w := &Writer{}
	w.WriteU32(ClassFileMagic)
	w.WriteU16(c.Minor)
	w.WriteU16(c.Major)

	pool.Write(w)

	w.WriteU16(uint16(c.AccessFlags & 0xFFFF))
	w.WriteU16(uint16(thisClass))
	w.WriteU16(uint16(superClass))

	w.WriteU16(uint16(len(interfaceIndices)))
	for _, idx := range interfaceIndices {
		w.WriteU16(uint16(idx))
	}

	w.WriteU16(uint16(len(fields)))
	for _, f := range fields {
		w.WriteU16(uint16(f.accessFlags & 0xFFFF))
		w.WriteU16(uint16(f.nameIndex))
		w.WriteU16(uint16(f.descIndex))
		w.WriteU16(0) // attributes_count; always zero, no source attributes are parsed
	}

	narrow := c.Major < 45 || (c.Major == 45 && c.Minor < 3)

	w.WriteU16(uint16(len(methods)))
	for _, m := range methods {
		w.WriteU16(uint16(m.accessFlags & 0xFFFF))
		w.WriteU16(uint16(m.nameIndex))
		w.WriteU16(uint16(m.descIndex))
		w.WriteU16(1) // attributes_count: exactly one Code attribute

		headerLen := 12
		if narrow {
			headerLen = 8
		}
		attrLen := len(m.code) + 8*len(m.catchTable) + headerLen

		w.WriteU16(uint16(codeAttrNameIndex))
		w.WriteU32(uint32(attrLen))
		if narrow {
			w.WriteU8(uint8(m.maxStack))
			w.WriteU8(uint8(m.maxLocals))
			w.WriteU16(uint16(len(m.code)))
		} else {
			w.WriteU16(m.maxStack)
			w.WriteU16(m.maxLocals)
			w.WriteU32(uint32(len(m.code)))
		}
		w.WriteRawBytes(m.code)

		w.WriteU16(uint16(len(m.catchTable)))
		for _, ex := range m.catchTable {
			catchType := ex.CatchType
			if catchType > 0 {
				catchType++
			}
			w.WriteU16(uint16(ex.Start))
			w.WriteU16(uint16(ex.End))
			w.WriteU16(uint16(ex.Handler))
			w.WriteU16(uint16(catchType))
		}
		w.WriteU16(0) // attributes_count on the Code attribute itself
	}

	w.WriteU16(0) // class-level attributes_count

	return w.Bytes(), nil
}
