package fs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/columnkit/arrowipc/io/fs/file"
)

type LocalFS struct{}

func (l *LocalFS) OpenFile(path string) (file.File, error) {
	open, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return nil, err
	}
	return file.NewLocalFile(open), nil
}

func (l *LocalFS) Rename(src string, dst string) error {
	return os.Rename(src, dst)
}

func (l *LocalFS) DeleteFile(path string) error {
	return os.Remove(path)
}

func (l *LocalFS) CreateDir(path string) error {
	return os.MkdirAll(path, 0755)
}

func (l *LocalFS) List(path string) ([]FileEntry, error) {
	entries := make([]FileEntry, 0)
	err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			entries = append(entries, FileEntry{Path: strings.TrimPrefix(p, string(os.PathSeparator))})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (l *LocalFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (l *LocalFS) Exist(path string) (bool, error) {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func NewLocalFs() *LocalFS {
	return &LocalFS{}
}
