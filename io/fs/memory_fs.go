package fs

import (
	"strings"

	"github.com/columnkit/arrowipc/common/errors"
	"github.com/columnkit/arrowipc/io/fs/file"
)

// MemoryFs keeps whole files in memory. Opening an existing path returns a
// fresh file seeded with the stored bytes; opening a new path stores and
// returns the same file, so writes through it persist.
type MemoryFs struct {
	files map[string]*file.MemoryFile
}

func (m *MemoryFs) OpenFile(path string) (file.File, error) {
	if f, ok := m.files[path]; ok {
		// Bytes does not copy, and handing the stored slice to a new
		// file would let writes through it mutate the stored copy.
		seed := make([]byte, len(f.Bytes()))
		copy(seed, f.Bytes())
		return file.NewMemoryFile(seed), nil
	}
	f := file.NewMemoryFile(nil)
	m.files[path] = f
	return f, nil
}

func (m *MemoryFs) Rename(src string, dst string) error {
	if _, ok := m.files[src]; !ok {
		return nil
	}
	m.files[dst] = m.files[src]
	delete(m.files, src)
	return nil
}

func (m *MemoryFs) DeleteFile(path string) error {
	delete(m.files, path)
	return nil
}

func (m *MemoryFs) CreateDir(path string) error {
	return nil
}

func (m *MemoryFs) List(prefix string) ([]FileEntry, error) {
	entries := make([]FileEntry, 0)
	for path := range m.files {
		if strings.HasPrefix(path, prefix) {
			entries = append(entries, FileEntry{Path: path})
		}
	}
	return entries, nil
}

func (m *MemoryFs) ReadFile(path string) ([]byte, error) {
	f, ok := m.files[path]
	if !ok {
		return nil, errors.ErrInvalidPath
	}
	return f.Bytes(), nil
}

func (m *MemoryFs) Exist(path string) (bool, error) {
	_, ok := m.files[path]
	return ok, nil
}

func NewMemoryFs() *MemoryFs {
	return &MemoryFs{
		files: make(map[string]*file.MemoryFile),
	}
}
