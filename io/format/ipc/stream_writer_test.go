package ipc

import (
	"bytes"
	"io"
	"testing"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/columnkit/arrowipc/common/status"
)

func testSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "a", Type: arrow.PrimitiveTypes.Int32},
		{Name: "b", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)
}

func testBatch(t *testing.T) arrow.Record {
	t.Helper()
	b := array.NewRecordBuilder(memory.DefaultAllocator, testSchema())
	defer b.Release()
	b.Field(0).(*array.Int32Builder).AppendValues([]int32{1, 2, 3}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"x", "y", "z"}, nil)
	return b.NewRecord()
}

// countMessages walks the raw frames of a stream, returning the number of
// messages before the end-of-stream marker.
func countMessages(t *testing.T, raw []byte) int {
	t.Helper()
	mr := newMessageReader(bytes.NewReader(raw), memory.DefaultAllocator)
	n := 0
	for {
		_, _, err := mr.next()
		if err == io.EOF {
			return n
		}
		require.NoError(t, err)
		n++
	}
}

func TestStreamWriterScenario(t *testing.T) {
	var sink bytes.Buffer
	w, err := NewStreamWriter(&sink, testSchema())
	require.NoError(t, err)

	rec := testBatch(t)
	defer rec.Release()
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())

	// schema message + 1 batch message before the end marker
	assert.Equal(t, 2, countMessages(t, sink.Bytes()))

	r, err := NewStreamReader(bytes.NewReader(sink.Bytes()))
	require.NoError(t, err)
	assert.True(t, r.Schema().Equal(testSchema()))

	got, err := r.Read()
	require.NoError(t, err)
	defer got.Release()
	assert.EqualValues(t, 3, got.NumRows())
	assert.True(t, array.RecordEqual(rec, got))

	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestStreamWriterMessageCount(t *testing.T) {
	var sink bytes.Buffer
	w, err := NewStreamWriter(&sink, testSchema())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		rec := testBatch(t)
		require.NoError(t, w.Write(rec))
		rec.Release()
	}
	require.NoError(t, w.Close())
	assert.EqualValues(t, 15, w.Count())
	assert.Equal(t, 6, countMessages(t, sink.Bytes()))
}

func TestStreamWriterInvalidArguments(t *testing.T) {
	var sink bytes.Buffer

	_, err := NewStreamWriter(nil, testSchema())
	assert.True(t, status.IsInvalidArgument(err))

	_, err = NewStreamWriter(&sink, nil)
	assert.True(t, status.IsInvalidArgument(err))

	_, err = NewStreamWriter(&sink, arrow.NewSchema(nil, nil))
	assert.True(t, status.IsInvalidArgument(err))

	_, err = NewStreamWriter(&sink, testSchema(), WithAlignment(12))
	assert.True(t, status.IsInvalidArgument(err))
}

func TestStreamWriterSchemaMismatch(t *testing.T) {
	var sink bytes.Buffer
	w, err := NewStreamWriter(&sink, testSchema())
	require.NoError(t, err)

	before := sink.Len()

	other := arrow.NewSchema([]arrow.Field{
		{Name: "a", Type: arrow.PrimitiveTypes.Int64},
	}, nil)
	b := array.NewRecordBuilder(memory.DefaultAllocator, other)
	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1}, nil)
	rec := b.NewRecord()
	b.Release()
	defer rec.Release()

	err = w.Write(rec)
	assert.True(t, status.IsSchemaMismatch(err))
	// a rejected batch must not touch the sink
	assert.Equal(t, before, sink.Len())

	require.NoError(t, w.Close())
}

func TestStreamWriterLifecycle(t *testing.T) {
	var sink bytes.Buffer
	w, err := NewStreamWriter(&sink, testSchema())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	err = w.Close()
	assert.True(t, status.IsInvalidState(err))

	rec := testBatch(t)
	defer rec.Release()
	err = w.Write(rec)
	assert.True(t, status.IsInvalidState(err))
}

// failingSink errors once the byte budget is spent.
type failingSink struct {
	budget int
}

func (s *failingSink) Write(p []byte) (int, error) {
	if len(p) > s.budget {
		n := s.budget
		s.budget = 0
		return n, assert.AnError
	}
	s.budget -= len(p)
	return len(p), nil
}

func TestStreamWriterPoisonedAfterIOError(t *testing.T) {
	// enough budget for the schema message, not for a batch
	w, err := NewStreamWriter(&failingSink{budget: 512}, testSchema(),
		WithAlignment(64))
	require.NoError(t, err)

	failed := false
	for i := 0; i < 16 && !failed; i++ {
		rec := testBatch(t)
		err = w.Write(rec)
		rec.Release()
		if err != nil {
			assert.True(t, status.IsIOError(err))
			failed = true
		}
	}
	require.True(t, failed, "sink budget never exhausted")

	rec := testBatch(t)
	defer rec.Release()
	err = w.Write(rec)
	assert.True(t, status.IsInvalidState(err))
	err = w.Close()
	assert.True(t, status.IsInvalidState(err))
}
