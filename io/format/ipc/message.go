package ipc

import (
	"encoding/binary"
	"io"

	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/pkg/errors"

	"github.com/columnkit/arrowipc/common/bitutil"
	"github.com/columnkit/arrowipc/common/constant"
)

// Message layout, repeated for the whole stream:
//
//	[int32 LE metadata_length][metadata][pad][body buffer][pad]...
//
// The metadata block is padded so prefix+metadata ends on the alignment
// boundary; every body buffer is padded the same way before the next one
// begins. End-of-stream is a message with metadata_length == 0.

var paddingBytes [64]byte

type messageWriter struct {
	w         io.Writer
	alignment int
	pos       int64
}

func newMessageWriter(w io.Writer, alignment int) *messageWriter {
	return &messageWriter{w: w, alignment: alignment}
}

func (m *messageWriter) writeRaw(p []byte) error {
	n, err := m.w.Write(p)
	m.pos += int64(n)
	if err != nil {
		return errors.Wrap(err, "writing to sink")
	}
	if n != len(p) {
		return errors.Errorf("short write: %d of %d bytes", n, len(p))
	}
	return nil
}

func (m *messageWriter) writePadding(n int64) error {
	for n > 0 {
		chunk := n
		if chunk > int64(len(paddingBytes)) {
			chunk = int64(len(paddingBytes))
		}
		if err := m.writeRaw(paddingBytes[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// writeMessage frames one message. body buffers must already be in their
// on-wire form (compressed when a codec is configured); each is padded to
// the alignment boundary. Returns the metadata length prefix value and the
// padded body length.
func (m *messageWriter) writeMessage(header []byte, body [][]byte) (int32, int64, error) {
	var prefix [constant.PrefixSize]byte
	metaLen := int32(len(header))
	binary.LittleEndian.PutUint32(prefix[:], uint32(metaLen))
	if err := m.writeRaw(prefix[:]); err != nil {
		return 0, 0, err
	}
	if err := m.writeRaw(header); err != nil {
		return 0, 0, err
	}
	align := int64(m.alignment)
	if err := m.writePadding(bitutil.PaddingFor(constant.PrefixSize+int64(metaLen), align)); err != nil {
		return 0, 0, err
	}

	var bodyLen int64
	for _, buf := range body {
		if len(buf) == 0 {
			continue
		}
		if err := m.writeRaw(buf); err != nil {
			return 0, 0, err
		}
		pad := bitutil.PaddingFor(int64(len(buf)), align)
		if err := m.writePadding(pad); err != nil {
			return 0, 0, err
		}
		bodyLen += int64(len(buf)) + pad
	}
	return metaLen, bodyLen, nil
}

// writeEOS emits the end-of-stream marker: a zero metadata length padded
// like any other metadata block.
func (m *messageWriter) writeEOS() error {
	var prefix [constant.PrefixSize]byte
	if err := m.writeRaw(prefix[:]); err != nil {
		return err
	}
	return m.writePadding(bitutil.PaddingFor(constant.PrefixSize, int64(m.alignment)))
}

type messageReader struct {
	r         io.Reader
	mem       memory.Allocator
	alignment int
}

func newMessageReader(r io.Reader, mem memory.Allocator) *messageReader {
	return &messageReader{r: r, mem: mem, alignment: constant.Alignment}
}

// next reads one framed message and returns its decoded header and raw body.
// It returns io.EOF at the end-of-stream marker.
func (m *messageReader) next() (*messageHeader, []byte, error) {
	var prefix [constant.PrefixSize]byte
	if _, err := io.ReadFull(m.r, prefix[:]); err != nil {
		return nil, nil, errors.Wrap(err, "reading message length prefix")
	}
	metaLen := int64(int32(binary.LittleEndian.Uint32(prefix[:])))
	if metaLen < 0 {
		return nil, nil, errors.New("negative metadata length")
	}
	pad := bitutil.PaddingFor(constant.PrefixSize+metaLen, int64(m.alignment))
	if metaLen == 0 {
		if err := m.skip(pad); err != nil {
			return nil, nil, err
		}
		return nil, nil, io.EOF
	}

	headerBuf := make([]byte, metaLen)
	if _, err := io.ReadFull(m.r, headerBuf); err != nil {
		return nil, nil, errors.Wrap(err, "reading message metadata")
	}
	if err := m.skip(pad); err != nil {
		return nil, nil, err
	}
	header, err := unmarshalHeader(headerBuf)
	if err != nil {
		return nil, nil, err
	}

	var body []byte
	if header.BodyLength > 0 {
		body = m.mem.Allocate(int(header.BodyLength))
		if _, err := io.ReadFull(m.r, body); err != nil {
			return nil, nil, errors.Wrap(err, "reading message body")
		}
	}
	return header, body, nil
}

func (m *messageReader) skip(n int64) error {
	if n <= 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, m.r, n); err != nil {
		return errors.Wrap(err, "skipping message padding")
	}
	return nil
}
