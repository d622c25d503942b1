// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package jxe

// Fuzz is the go-fuzz entrypoint (carried forward from the teacher's
// go-fuzz build, which targeted its own header parser) over the image
// parser: it should never panic on truncated or malformed input, only
// return an error.
func Fuzz(data []byte) int {
	if _, err := ParseImage(data); err != nil {
		return 0
	}
	return 1
}
