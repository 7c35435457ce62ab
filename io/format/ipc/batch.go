package ipc

import (
	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"

	"github.com/columnkit/arrowipc/common/bitutil"
	"github.com/columnkit/arrowipc/common/status"
)

// encodeBatch flattens a record batch into a message header and the body
// buffers to frame, in schema field order. It touches no sink: every
// validation failure here leaves no partial output.
func encodeBatch(rec arrow.Record, cfg *config) ([]byte, [][]byte, error) {
	batch := &batchPayload{
		NumRows: rec.NumRows(),
		Columns: make([]columnPayload, 0, rec.NumCols()),
		Codec:   cfg.codec.name(),
	}
	var body [][]byte
	var bodyLen int64

	for i := 0; i < int(rec.NumCols()); i++ {
		data := rec.Column(i).Data()
		if data.Offset() != 0 {
			return nil, nil, status.InvalidArgument(
				"sliced arrays are not supported, column " + rec.ColumnName(i))
		}
		col := columnPayload{
			Length:    int64(data.Len()),
			NullCount: int64(nullCountOf(data)),
		}
		for _, buf := range data.Buffers() {
			var raw []byte
			if buf != nil {
				raw = buf.Bytes()
			}
			wire, err := compressBuffer(cfg.codec, raw)
			if err != nil {
				return nil, nil, err
			}
			col.Buffers = append(col.Buffers, bufferPayload{
				Offset: bodyLen,
				Length: int64(len(wire)),
			})
			if len(wire) > 0 {
				body = append(body, wire)
				bodyLen = cfg.pad(bodyLen + int64(len(wire)))
			}
		}
		batch.Columns = append(batch.Columns, col)
	}

	header, err := marshalHeader(&messageHeader{
		Version:    formatVersion,
		Kind:       kindRecordBatch,
		Batch:      batch,
		BodyLength: bodyLen,
	})
	if err != nil {
		return nil, nil, err
	}
	return header, body, nil
}

func nullCountOf(data arrow.ArrayData) int {
	if n := data.NullN(); n != array.UnknownNullCount {
		return n
	}
	var validity []byte
	if bufs := data.Buffers(); len(bufs) > 0 && bufs[0] != nil {
		validity = bufs[0].Bytes()
	}
	return bitutil.NullCount(validity, data.Len())
}

// decodeBatch rebuilds a record batch from a decoded header and its body.
// Buffers are sliced from body without copying unless a codec is set.
func decodeBatch(schema *arrow.Schema, header *messageHeader, body []byte) (arrow.Record, error) {
	batch := header.Batch
	if batch == nil {
		return nil, status.ArrowError("message is not a record batch")
	}
	if len(batch.Columns) != len(schema.Fields()) {
		return nil, status.ArrowError("batch column count does not match schema")
	}

	cols := make([]arrow.Array, 0, len(batch.Columns))
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()

	for i, col := range batch.Columns {
		bufs := make([]*memory.Buffer, len(col.Buffers))
		for j, bp := range col.Buffers {
			if bp.Length == 0 {
				continue
			}
			if bp.Offset+bp.Length > int64(len(body)) {
				return nil, status.ArrowError("buffer range exceeds message body")
			}
			raw, err := decompressBuffer(batch.Codec, body[bp.Offset:bp.Offset+bp.Length])
			if err != nil {
				return nil, err
			}
			bufs[j] = memory.NewBufferBytes(raw)
		}
		data := array.NewData(schema.Field(i).Type, int(col.Length), bufs, nil, int(col.NullCount), 0)
		cols = append(cols, array.MakeFromData(data))
		data.Release()
	}

	return array.NewRecord(schema, cols, batch.NumRows), nil
}
