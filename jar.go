// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package jxe

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	jxelog "github.com/saferwall/jxe2jar/log"
)

// romClassesMember is the single ZIP entry a JXE container carries.
const romClassesMember = "rom.classes"

// ErrMissingROMClasses is returned when the input archive has no
// rom.classes member.
var ErrMissingROMClasses = errors.New("jxe: input archive has no rom.classes member")

// Options configures how a JXE container is opened and converted.
type Options struct {
	// Logger receives per-class diagnostics during Convert; a class-level
	// failure is logged here and the class is skipped (spec.md §7's
	// best-effort partial conversion policy). Defaults to a stderr logger
	// filtered to warnings and above.
	Logger jxelog.Logger
}

// JXE is an opened input container: the mmap-backed (or in-memory) raw
// bytes of the outer ZIP, and the parsed ROM image found at its
// rom.classes member. Grounded on file.go's File: a thin struct owning
// the backing buffer plus options and a logger, with New/NewBytes/Close
// entry points.
type JXE struct {
	data   mmap.MMap
	f      *os.File
	Image  *Image
	logger *jxelog.Helper
}

// Open memory-maps the named file and parses its rom.classes member.
func Open(name string, opts *Options) (*JXE, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	j, err := newFromBytes(data, opts)
	if err != nil {
		data.Unmap()
		f.Close()
		return nil, err
	}
	j.data = data
	j.f = f
	return j, nil
}

// OpenBytes parses an in-memory JXE container's rom.classes member.
func OpenBytes(data []byte, opts *Options) (*JXE, error) {
	return newFromBytes(data, opts)
}

func newFromBytes(data []byte, opts *Options) (*JXE, error) {
	romBytes, err := readROMClasses(data)
	if err != nil {
		return nil, err
	}
	image, err := ParseImage(romBytes)
	if err != nil {
		return nil, err
	}

	j := &JXE{Image: image}
	if opts != nil && opts.Logger != nil {
		j.logger = jxelog.NewHelper(opts.Logger)
	} else {
		logger := jxelog.NewStdLogger(os.Stderr)
		j.logger = jxelog.NewHelper(jxelog.NewFilter(logger, jxelog.FilterLevel(jxelog.LevelWarn)))
	}
	return j, nil
}

func readROMClasses(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		if f.Name != romClassesMember {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, ErrMissingROMClasses
}

// Close releases the mmap-backed file, if any.
func (j *JXE) Close() error {
	if j.data != nil {
		_ = j.data.Unmap()
	}
	if j.f != nil {
		return j.f.Close()
	}
	return nil
}

// Convert emits every class in the image into a new JAR at outPath. A
// class whose conversion fails is logged and skipped; the run itself
// only fails on I/O errors opening or writing the output archive,
// matching spec.md §7's propagation policy.
func (j *JXE) Convert(outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	for _, class := range j.Image.Classes {
		for _, warning := range class.Warnings {
			j.logger.Warnf("%s: %s", class.Name, warning)
		}

		body, err := EmitClass(class)
		if err != nil {
			j.logger.Warnf("skipping class %s: %v", class.Name, err)
			continue
		}

		w, err := zw.Create(fmt.Sprintf("%s.class", class.Name))
		if err != nil {
			return err
		}
		if _, err := w.Write(body); err != nil {
			return err
		}
	}

	return nil
}
