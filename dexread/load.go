package dexread

import (
	"io"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/mmap"
)

// LoadFile returns the full contents of path in a freshly allocated
// buffer of exactly the file's size. The mapping used to read it is
// released before returning.
func LoadFile(path string) ([]byte, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, ioError(err, "unable to open")
	}
	defer m.Close()

	size := m.Len()
	buf := make([]byte, size)
	if size == 0 {
		return buf, nil
	}
	n, err := m.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, ioError(err, "unable to read")
	}
	if n != size {
		return nil, ioError(io.ErrUnexpectedEOF, "expected %d bytes read %d", size, n)
	}
	return buf, nil
}
