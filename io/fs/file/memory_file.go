package file

import (
	"io"

	"github.com/pkg/errors"
)

var _ File = (*MemoryFile)(nil)

// MemoryFile is an in-memory File backed by a byte slice. Writes at the
// current position overwrite and extend the buffer like a regular file.
type MemoryFile struct {
	b   []byte
	pos int64
}

func NewMemoryFile(b []byte) *MemoryFile {
	return &MemoryFile{b: b}
}

func (f *MemoryFile) Write(p []byte) (int, error) {
	end := f.pos + int64(len(p))
	if end > int64(len(f.b)) {
		grown := make([]byte, end)
		copy(grown, f.b)
		f.b = grown
	}
	copy(f.b[f.pos:end], p)
	f.pos = end
	return len(p), nil
}

func (f *MemoryFile) Read(p []byte) (int, error) {
	if f.pos >= int64(len(f.b)) {
		return 0, io.EOF
	}
	n := copy(p, f.b[f.pos:])
	f.pos += int64(n)
	if f.pos >= int64(len(f.b)) {
		return n, io.EOF
	}
	return n, nil
}

func (f *MemoryFile) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.Wrap(ErrInvalidOffset, "negative offset")
	}
	if off >= int64(len(f.b)) {
		return 0, io.EOF
	}
	n := copy(p, f.b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *MemoryFile) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = f.pos
	case io.SeekEnd:
		base = int64(len(f.b))
	default:
		return 0, errors.Wrapf(ErrInvalidOffset, "whence %d", whence)
	}
	next := base + offset
	if next < 0 {
		return 0, errors.Wrap(ErrInvalidOffset, "seek before start")
	}
	f.pos = next
	return next, nil
}

func (f *MemoryFile) Close() error {
	return nil
}

// Bytes returns the backing buffer without copying.
func (f *MemoryFile) Bytes() []byte {
	return f.b
}

var ErrInvalidOffset = errors.New("invalid offset")
