package ipc

import (
	"encoding/binary"
	"io"

	"github.com/apache/arrow/go/v12/arrow"

	"github.com/columnkit/arrowipc/common/arrow_util"
	"github.com/columnkit/arrowipc/common/constant"
	"github.com/columnkit/arrowipc/common/errors"
	"github.com/columnkit/arrowipc/common/log"
	"github.com/columnkit/arrowipc/common/status"
	"github.com/columnkit/arrowipc/io/format"
)

var _ format.Writer = (*FileWriter)(nil)

// FileWriter composes a StreamWriter and records an index entry per batch.
// On Close it appends a footer (schema plus index) after the end-of-stream
// marker, then the fixed trailer: footer length prefix and magic marker.
// Output read by a stream reader that stops at the end-of-stream marker is
// still a valid stream.
//
// Index offsets are absolute sink positions, as reported by the sink at the
// time each batch message begins. The sink must support position reporting
// (Positioner or io.Seeker).
type FileWriter struct {
	stream *StreamWriter
	tell   func() (int64, error)
	blocks []blockPayload
}

// NewFileWriter binds a file-mode writer to sink and schema and emits the
// schema message.
func NewFileWriter(sink io.Writer, schema *arrow.Schema, opts ...Option) (*FileWriter, error) {
	if sink == nil {
		return nil, status.InvalidArgument("sink is nil").WithCause(errors.ErrSinkIsNil)
	}
	tell, ok := positionOf(sink)
	if !ok {
		return nil, status.UnsupportedSink("sink does not report its write position")
	}
	stream, err := NewStreamWriter(sink, schema, opts...)
	if err != nil {
		return nil, err
	}
	return &FileWriter{
		stream: stream,
		tell:   tell,
	}, nil
}

// Schema returns the schema bound at construction.
func (w *FileWriter) Schema() *arrow.Schema {
	return w.stream.schema
}

// Write serializes one record batch and records its footer index entry.
func (w *FileWriter) Write(rec arrow.Record) error {
	if err := w.stream.checkOpen(); err != nil {
		return err
	}
	if err := arrow_util.ValidateRecordSchema(w.stream.schema, rec); err != nil {
		return status.SchemaMismatch(err.Error()).WithCause(errors.ErrSchemaNotMatch)
	}
	offset, err := w.tell()
	if err != nil {
		w.stream.state = stateFailed
		return status.IOError("querying sink position").WithCause(err)
	}
	metaLen, bodyLen, err := w.stream.writeBatch(rec)
	if err != nil {
		return err
	}
	w.blocks = append(w.blocks, blockPayload{
		Offset:         offset,
		MetadataLength: int64(metaLen),
		BodyLength:     bodyLen,
	})
	return nil
}

// Count returns the total number of rows written so far.
func (w *FileWriter) Count() int64 {
	return w.stream.rows
}

// Close runs the stream close sequence, then appends the footer and trailer.
func (w *FileWriter) Close() error {
	if err := w.stream.Close(); err != nil {
		return err
	}
	blocks := w.blocks
	if blocks == nil {
		blocks = []blockPayload{}
	}
	footer, err := marshalFooter(&footerPayload{
		Version:   formatVersion,
		Schema:    *w.stream.schemaPay,
		Blocks:    blocks,
		Alignment: w.stream.cfg.alignment,
	})
	if err != nil {
		return err
	}
	if err := w.stream.mw.writeRaw(footer); err != nil {
		return status.IOError("writing footer").WithCause(err)
	}
	var trailer [constant.TrailerSize]byte
	binary.LittleEndian.PutUint32(trailer[:constant.PrefixSize], uint32(len(footer)))
	copy(trailer[constant.PrefixSize:], constant.MagicMarker)
	if err := w.stream.mw.writeRaw(trailer[:]); err != nil {
		return status.IOError("writing trailer").WithCause(err)
	}
	if err := flush(w.stream.mw.w); err != nil {
		return status.IOError("flushing sink").WithCause(err)
	}
	log.Debug("ipc file writer closed",
		log.String("session", w.stream.session),
		log.Int("blocks", len(w.blocks)),
		log.Int("footer_bytes", len(footer)))
	return nil
}
