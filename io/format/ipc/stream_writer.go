// Package ipc implements the columnar IPC wire format: length-prefixed
// framed messages carrying a schema, record batches, and an end-of-stream
// marker, with an optional random-access footer in file mode.
package ipc

import (
	"io"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/google/uuid"

	"github.com/columnkit/arrowipc/common/arrow_util"
	"github.com/columnkit/arrowipc/common/constant"
	"github.com/columnkit/arrowipc/common/errors"
	"github.com/columnkit/arrowipc/common/log"
	"github.com/columnkit/arrowipc/common/status"
	"github.com/columnkit/arrowipc/io/format"
)

type writerState int8

const (
	stateOpen writerState = iota
	stateClosed
	stateFailed
)

var _ format.Writer = (*StreamWriter)(nil)

// StreamWriter serializes record batches sharing one schema into an
// append-only sink: a schema message first, one message per batch, and an
// end-of-stream marker on Close. It never seeks, so any io.Writer serves as
// the sink. Not safe for concurrent use.
//
// After an I/O error the writer is failed: every further call returns an
// invalid state error without touching the sink again.
type StreamWriter struct {
	mw        *messageWriter
	schema    *arrow.Schema
	schemaPay *schemaPayload
	cfg       *config
	state     writerState
	rows      int64
	batches   int64
	session   string
}

// NewStreamWriter binds a writer to sink and schema and immediately emits
// the schema message. The schema is fixed for the writer's lifetime.
func NewStreamWriter(sink io.Writer, schema *arrow.Schema, opts ...Option) (*StreamWriter, error) {
	if sink == nil {
		return nil, status.InvalidArgument("sink is nil").WithCause(errors.ErrSinkIsNil)
	}
	if schema == nil {
		return nil, status.InvalidArgument("schema is nil").WithCause(errors.ErrSchemaIsNil)
	}
	if len(schema.Fields()) == 0 {
		return nil, status.InvalidArgument("schema has no fields").WithCause(errors.ErrSchemaIsEmpty)
	}
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	pay, err := schemaToPayload(schema, cfg.alignment)
	if err != nil {
		return nil, err
	}
	header, err := marshalHeader(&messageHeader{
		Version: formatVersion,
		Kind:    kindSchema,
		Schema:  pay,
	})
	if err != nil {
		return nil, err
	}

	// The schema message is always framed at the base alignment; readers
	// only learn a wider alignment from the schema payload, so it applies
	// from the second message on.
	w := &StreamWriter{
		mw:        newMessageWriter(sink, constant.Alignment),
		schema:    schema,
		schemaPay: pay,
		cfg:       cfg,
		session:   uuid.NewString(),
	}
	if _, _, err := w.mw.writeMessage(header, nil); err != nil {
		return nil, status.IOError("writing schema message").WithCause(err)
	}
	w.mw.alignment = cfg.alignment
	log.Debug("ipc stream writer opened",
		log.String("session", w.session),
		log.Int("fields", len(schema.Fields())),
		log.String("codec", cfg.codec.name()))
	return w, nil
}

// Schema returns the schema bound at construction.
func (w *StreamWriter) Schema() *arrow.Schema {
	return w.schema
}

// Write serializes one record batch. The batch must structurally match the
// bound schema; a mismatch is reported before any byte reaches the sink.
func (w *StreamWriter) Write(rec arrow.Record) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if err := arrow_util.ValidateRecordSchema(w.schema, rec); err != nil {
		return status.SchemaMismatch(err.Error()).WithCause(errors.ErrSchemaNotMatch)
	}
	_, _, err := w.writeBatch(rec)
	return err
}

// writeBatch frames one validated batch and returns the metadata length and
// padded body length for footer bookkeeping.
func (w *StreamWriter) writeBatch(rec arrow.Record) (int32, int64, error) {
	header, body, err := encodeBatch(rec, w.cfg)
	if err != nil {
		return 0, 0, err
	}
	metaLen, bodyLen, err := w.mw.writeMessage(header, body)
	if err != nil {
		w.state = stateFailed
		return 0, 0, status.IOError("writing record batch message").WithCause(err)
	}
	w.rows += rec.NumRows()
	w.batches++
	log.Debug("record batch written",
		log.String("session", w.session),
		log.Int64("rows", rec.NumRows()),
		log.Int64("body_bytes", bodyLen),
		log.Int64("buffer_bytes", arrow_util.RecordBufferSize(rec)))
	return metaLen, bodyLen, nil
}

// Count returns the total number of rows written so far.
func (w *StreamWriter) Count() int64 {
	return w.rows
}

// Close writes the end-of-stream marker and flushes the sink when it can
// flush. The sink itself stays open; it belongs to the caller.
func (w *StreamWriter) Close() error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if err := w.mw.writeEOS(); err != nil {
		w.state = stateFailed
		return status.IOError("writing end-of-stream marker").WithCause(err)
	}
	if err := flush(w.mw.w); err != nil {
		w.state = stateFailed
		return status.IOError("flushing sink").WithCause(err)
	}
	w.state = stateClosed
	log.Debug("ipc stream writer closed",
		log.String("session", w.session),
		log.Int64("batches", w.batches),
		log.Int64("rows", w.rows))
	return nil
}

func (w *StreamWriter) checkOpen() error {
	switch w.state {
	case stateClosed:
		return status.InvalidState("writer already closed").WithCause(errors.ErrWriterClosed)
	case stateFailed:
		return status.InvalidState("writer failed by previous io error").WithCause(errors.ErrWriterFailed)
	}
	return nil
}
