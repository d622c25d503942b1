// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package jxe

// Header and table-of-contents parsing. Grounded on dosheader.go's pattern
// of a single fixed-layout struct read from the front of the buffer,
// followed by a pointer chase to a second structure (there, the NT header;
// here, the table of contents).

const imageHeaderSize = 48

// ParseImage parses the 48-byte ROM image header, follows its
// table-of-contents pointer, and parses each of the image's class_count
// class records. It never mutates data; every returned Class borrows
// strings copied out of it during parsing.
func ParseImage(data []byte) (*Image, error) {
	r := NewReader(data)

	if r.Len() < imageHeaderSize {
		return nil, ErrOutsideBoundary
	}

	signature, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	flagsVersion, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	romSize, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	classCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadRelativePointer(); err != nil { // jxe_ptr, unused downstream
		return nil, err
	}
	tocPtr, err := r.ReadRelativePointer()
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadRelativePointer(); err != nil { // first_class_ptr, unused downstream
		return nil, err
	}
	if _, err := r.ReadRelativePointer(); err != nil { // aot_ptr, unused downstream
		return nil, err
	}
	symbolFileIDBytes, err := r.ReadBytes(16)
	if err != nil {
		return nil, err
	}

	img := &Image{
		Signature:    signature,
		FlagsVersion: flagsVersion,
		ROMSize:      romSize,
	}
	copy(img.SymbolFileID[:], symbolFileIDBytes)

	r.Seek(tocPtr)
	for i := uint32(0); i < classCount; i++ {
		class, err := parseClass(r)
		if err != nil {
			return nil, err
		}
		img.Classes = append(img.Classes, class)
	}

	return img, nil
}

// parseClass reads one table-of-contents entry (a name reference and a
// self-relative class-body pointer) and, under a scoped cursor to the
// body pointer, the class's full fixed-layout header, its interface,
// method and field tables, and its constant pool.
func parseClass(r *Reader) (*Class, error) {
	// The TOC entry's own name reference is re-read (and overwritten) by
	// the body header below; only the pointer arithmetic here matters.
	if _, err := r.ReadStringRef(); err != nil {
		return nil, err
	}
	bodyPtr, err := r.ReadRelativePointer()
	if err != nil {
		return nil, err
	}

	class := &Class{}
	err = r.WithCursor(bodyPtr, func() error {
		if _, err := r.ReadU32(); err != nil { // rom_size
			return err
		}
		if _, err := r.ReadU32(); err != nil { // single_scalar_static_count
			return err
		}

		className, err := r.ReadStringRef()
		if err != nil {
			return err
		}
		superclassName, err := r.ReadStringRef()
		if err != nil {
			return err
		}
		accessFlags, err := r.ReadU32()
		if err != nil {
			return err
		}

		interfaceCount, err := r.ReadU32()
		if err != nil {
			return err
		}
		interfacesPtr, err := r.ReadRelativePointer()
		if err != nil {
			return err
		}
		var interfaces []string
		err = r.WithCursor(interfacesPtr, func() error {
			for i := uint32(0); i < interfaceCount; i++ {
				name, err := r.ReadStringRef()
				if err != nil {
					return err
				}
				interfaces = append(interfaces, name)
			}
			return nil
		})
		if err != nil {
			return err
		}

		methodCount, err := r.ReadU32()
		if err != nil {
			return err
		}
		methodsPtr, err := r.ReadRelativePointer()
		if err != nil {
			return err
		}
		var methods []*Method
		err = r.WithCursor(methodsPtr, func() error {
			for i := uint32(0); i < methodCount; i++ {
				m, err := parseMethod(r)
				if err != nil {
					return err
				}
				methods = append(methods, m)
			}
			return nil
		})
		if err != nil {
			return err
		}

		fieldCount, err := r.ReadU32()
		if err != nil {
			return err
		}
		fieldsPtr, err := r.ReadRelativePointer()
		if err != nil {
			return err
		}
		var fields []*Field
		err = r.WithCursor(fieldsPtr, func() error {
			for i := uint32(0); i < fieldCount; i++ {
				f, err := parseField(r)
				if err != nil {
					return err
				}
				fields = append(fields, f)
			}
			return nil
		})
		if err != nil {
			return err
		}

		if _, err := r.ReadU32(); err != nil { // object_static_count
			return err
		}
		if _, err := r.ReadU32(); err != nil { // double_scalar_static_count
			return err
		}
		if _, err := r.ReadU32(); err != nil { // ram_constant_pool_count
			return err
		}
		romConstantPoolCount, err := r.ReadU32()
		if err != nil {
			return err
		}
		if _, err := r.ReadU32(); err != nil { // crc
			return err
		}
		if _, err := r.ReadU32(); err != nil { // instance_size
			return err
		}
		if _, err := r.ReadU32(); err != nil { // instance_shape
			return err
		}
		if _, err := r.ReadRelativePointer(); err != nil { // cp_shape_description_pointer
			return err
		}
		if _, err := r.ReadRelativePointer(); err != nil { // outer_class_name
			return err
		}
		if _, err := r.ReadU32(); err != nil { // member_access_flags
			return err
		}
		if _, err := r.ReadU32(); err != nil { // inner_class_count
			return err
		}
		if _, err := r.ReadRelativePointer(); err != nil { // inner_classes_pointer
			return err
		}

		major, err := r.ReadU16()
		if err != nil {
			return err
		}
		minor, err := r.ReadU16()
		if err != nil {
			return err
		}
		optionalFlags, err := r.ReadU32()
		if err != nil {
			return err
		}
		optionalInfoPtr, err := r.ReadRelativePointer()
		if err != nil {
			return err
		}
		if optionalFlags&0x2000 == 0 {
			// Source-file name, generic signature, and the other optional
			// per-class records live here; none survive into a standard
			// class file (spec.md's emitter attaches no class attributes),
			// so only the pointer's validity is checked.
			if err := r.WithCursor(optionalInfoPtr, func() error { return nil }); err != nil {
				return err
			}
		}

		pool, warnings := readConstantPool(r, romConstantPoolCount)

		class.Minor = minor
		class.Major = major
		class.Name = className
		class.SuperName = superclassName
		class.AccessFlags = accessFlags
		class.Interfaces = interfaces
		class.Fields = fields
		class.Methods = methods
		class.ConstantPool = pool
		class.Warnings = warnings
		return nil
	})
	if err != nil {
		return nil, err
	}
	return class, nil
}
