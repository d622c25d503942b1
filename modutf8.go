// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package jxe

import (
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
)

// encodeModifiedUTF8 re-encodes s as the JVM's modified UTF-8: ordinary
// code points are UTF-8 as usual, but NUL is written as the two-byte
// sequence 0xC0 0x80 (so Utf8 entries never contain an embedded zero
// byte) and any supplementary-plane code point is written as a surrogate
// pair, each half CESU-8 encoded, rather than its single four-byte UTF-8
// form. s is first normalized through golang.org/x/text/encoding/unicode's
// UTF-8 codec so an input string carrying invalid byte sequences (e.g. a
// mis-decoded source field name) is sanitized the same way before the
// JVM-specific re-escaping runs; there is no ecosystem library for the
// JVM-specific half, which is unavoidably hand-rolled here.
func encodeModifiedUTF8(s string) []byte {
	clean, err := unicode.UTF8.NewEncoder().String(s)
	if err != nil {
		clean = s
	}

	out := make([]byte, 0, len(clean))
	for _, r := range clean {
		switch {
		case r == 0:
			out = append(out, 0xC0, 0x80)
		case r < 0x80:
			out = append(out, byte(r))
		case r < 0x800:
			out = append(out, byte(0xC0|(r>>6)), byte(0x80|(r&0x3F)))
		case r <= 0xFFFF:
			out = appendCESU8Triple(out, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			out = appendCESU8Triple(out, hi)
			out = appendCESU8Triple(out, lo)
		}
	}
	return out
}

func appendCESU8Triple(out []byte, r rune) []byte {
	return append(out,
		byte(0xE0|(r>>12)),
		byte(0x80|((r>>6)&0x3F)),
		byte(0x80|(r&0x3F)),
	)
}
