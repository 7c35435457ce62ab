package ipc

import (
	"errors"
	"io"

	"github.com/apache/arrow/go/v12/arrow"

	"github.com/columnkit/arrowipc/common/status"
)

// StreamReader consumes a stream start to end: the schema message at
// construction, then one record batch per Read until the end-of-stream
// marker, reported as io.EOF. Bytes after the marker (a file-mode footer,
// for instance) are left unread.
type StreamReader struct {
	mr     *messageReader
	schema *arrow.Schema
	cfg    *config
}

// NewStreamReader reads the schema message from r.
func NewStreamReader(r io.Reader, opts ...Option) (*StreamReader, error) {
	if r == nil {
		return nil, status.InvalidArgument("reader is nil")
	}
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	mr := newMessageReader(r, cfg.mem)
	header, _, err := mr.next()
	if err == io.EOF {
		return nil, status.ArrowError("stream ends before its schema message")
	}
	if err != nil {
		return nil, wrapReadErr(err)
	}
	if header.Kind != kindSchema || header.Schema == nil {
		return nil, status.ArrowError("stream does not begin with a schema message")
	}
	schema, err := payloadToSchema(header.Schema)
	if err != nil {
		return nil, err
	}
	if header.Schema.Alignment > 0 {
		mr.alignment = header.Schema.Alignment
	}
	return &StreamReader{
		mr:     mr,
		schema: schema,
		cfg:    cfg,
	}, nil
}

// Schema returns the schema decoded from the first message.
func (r *StreamReader) Schema() *arrow.Schema {
	return r.schema
}

// Read returns the next record batch, or io.EOF at the end-of-stream
// marker. The caller releases the returned record.
func (r *StreamReader) Read() (arrow.Record, error) {
	header, body, err := r.mr.next()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, wrapReadErr(err)
	}
	if header.Kind != kindRecordBatch {
		return nil, status.ArrowError("unexpected message kind " + header.Kind)
	}
	return decodeBatch(r.schema, header, body)
}

// wrapReadErr tags plain I/O failures from the message layer; decode
// failures already carry a status code and pass through.
func wrapReadErr(err error) error {
	var s *status.Status
	if errors.As(err, &s) {
		return err
	}
	return status.IOError("reading message").WithCause(err)
}
