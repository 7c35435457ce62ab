package file

import "io"

// File is the byte destination and source handed to writers and readers.
// Seek(0, io.SeekCurrent) doubles as position reporting for file-mode
// writers that need to record batch offsets.
type File interface {
	io.Writer
	io.ReaderAt
	io.Seeker
	io.Reader
	io.Closer
}
