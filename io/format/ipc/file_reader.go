package ipc

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/pkg/errors"

	"github.com/columnkit/arrowipc/common/bitutil"
	"github.com/columnkit/arrowipc/common/constant"
	"github.com/columnkit/arrowipc/common/status"
	"github.com/columnkit/arrowipc/io/fs/file"
)

// FileReader opens file-mode output for random access: it locates the footer
// through the fixed trailer at the end of the sink and decodes any batch by
// its index entry, without scanning the stream.
type FileReader struct {
	r         io.ReaderAt
	footer    *footerPayload
	schema    *arrow.Schema
	cfg       *config
	alignment int
}

// NewFileReader reads the trailer and footer from the last bytes of r.
// size is the total length of the readable range.
func NewFileReader(r io.ReaderAt, size int64, opts ...Option) (*FileReader, error) {
	if r == nil {
		return nil, status.InvalidArgument("reader is nil")
	}
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	if size < int64(constant.TrailerSize) {
		return nil, status.ArrowError("sink shorter than the file trailer")
	}

	var trailer [constant.TrailerSize]byte
	if _, err := r.ReadAt(trailer[:], size-int64(constant.TrailerSize)); err != nil {
		return nil, status.IOError("reading file trailer").WithCause(err)
	}
	if !bytes.Equal(trailer[constant.PrefixSize:], []byte(constant.MagicMarker)) {
		return nil, status.ArrowError("magic marker not found, not a file-mode sink")
	}
	footerLen := int64(int32(binary.LittleEndian.Uint32(trailer[:constant.PrefixSize])))
	if footerLen <= 0 || footerLen > size-int64(constant.TrailerSize) {
		return nil, status.ArrowError("footer length out of range")
	}

	footerBuf := make([]byte, footerLen)
	if _, err := r.ReadAt(footerBuf, size-int64(constant.TrailerSize)-footerLen); err != nil {
		return nil, status.IOError("reading footer").WithCause(err)
	}
	footer, err := unmarshalFooter(footerBuf)
	if err != nil {
		return nil, err
	}
	schema, err := payloadToSchema(&footer.Schema)
	if err != nil {
		return nil, err
	}
	alignment := footer.Alignment
	if alignment <= 0 {
		alignment = constant.Alignment
	}
	return &FileReader{
		r:         r,
		footer:    footer,
		schema:    schema,
		cfg:       cfg,
		alignment: alignment,
	}, nil
}

// NewFileReaderFromFile sizes f by seeking to its end.
func NewFileReaderFromFile(f file.File, opts ...Option) (*FileReader, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, status.IOError("sizing file").WithCause(err)
	}
	return NewFileReader(f, size, opts...)
}

// Schema returns the schema decoded from the footer.
func (r *FileReader) Schema() *arrow.Schema {
	return r.schema
}

// NumRecordBatches returns the number of batches indexed by the footer.
func (r *FileReader) NumRecordBatches() int {
	return len(r.footer.Blocks)
}

// RecordBatch decodes batch i through its footer index entry. The caller
// releases the returned record.
func (r *FileReader) RecordBatch(i int) (arrow.Record, error) {
	if i < 0 || i >= len(r.footer.Blocks) {
		return nil, status.InvalidArgument(
			errors.Errorf("batch index %d out of range [0, %d)", i, len(r.footer.Blocks)).Error())
	}
	block := r.footer.Blocks[i]

	headerBuf := make([]byte, block.MetadataLength)
	if _, err := r.r.ReadAt(headerBuf, block.Offset+constant.PrefixSize); err != nil {
		return nil, status.IOError("reading batch metadata").WithCause(err)
	}
	header, err := unmarshalHeader(headerBuf)
	if err != nil {
		return nil, err
	}
	if header.Kind != kindRecordBatch {
		return nil, status.ArrowError("indexed message is not a record batch")
	}
	if header.BodyLength != block.BodyLength {
		return nil, status.ArrowError("footer body length disagrees with batch metadata")
	}

	var body []byte
	if block.BodyLength > 0 {
		bodyStart := block.Offset + bitutil.CeilTo(constant.PrefixSize+block.MetadataLength, int64(r.alignment))
		body = r.cfg.mem.Allocate(int(block.BodyLength))
		if _, err := r.r.ReadAt(body, bodyStart); err != nil {
			return nil, status.IOError("reading batch body").WithCause(err)
		}
	}
	return decodeBatch(r.schema, header, body)
}
