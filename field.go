// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package jxe

// parseField reads one J9ROMField-equivalent record: a name reference, a
// signature reference, access flags, and up to three further 32-bit words
// gated by bits of those flags. Grounded on debug.go's variable-record
// dispatch (a fixed prefix followed by optional trailing fields keyed off
// a flags word).
func parseField(r *Reader) (*Field, error) {
	name, err := r.ReadStringRef()
	if err != nil {
		return nil, err
	}
	signature, err := r.ReadStringRef()
	if err != nil {
		return nil, err
	}
	accessFlags, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	if accessFlags&fieldOptionalWord1 != 0 {
		if _, err := r.ReadU32(); err != nil {
			return nil, err
		}
		if accessFlags&fieldOptionalWord2 != 0 {
			if _, err := r.ReadU32(); err != nil {
				return nil, err
			}
		}
	}
	if accessFlags&fieldOptionalWord3 != 0 {
		if _, err := r.ReadU32(); err != nil {
			return nil, err
		}
	}

	return &Field{Name: name, Signature: signature, AccessFlags: accessFlags}, nil
}
