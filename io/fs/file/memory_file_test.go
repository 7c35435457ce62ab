package file

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileWriteRead(t *testing.T) {
	f := NewMemoryFile(nil)
	n, err := f.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	pos, err := f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	assert.EqualValues(t, 0, pos)

	buf := make([]byte, 5)
	n, err = f.Read(buf)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))
}

func TestMemoryFileOverwrite(t *testing.T) {
	f := NewMemoryFile([]byte("abcdef"))
	_, err := f.Seek(2, io.SeekStart)
	require.NoError(t, err)
	_, err = f.Write([]byte("XY"))
	require.NoError(t, err)
	assert.Equal(t, "abXYef", string(f.Bytes()))
}

func TestMemoryFileReadAt(t *testing.T) {
	f := NewMemoryFile([]byte("abcdef"))
	buf := make([]byte, 3)
	n, err := f.ReadAt(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "cde", string(buf))

	_, err = f.ReadAt(buf, 10)
	assert.Equal(t, io.EOF, err)
}

func TestMemoryFileTellViaSeek(t *testing.T) {
	f := NewMemoryFile(nil)
	_, err := f.Write([]byte("12345678"))
	require.NoError(t, err)
	pos, err := f.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.EqualValues(t, 8, pos)
}
