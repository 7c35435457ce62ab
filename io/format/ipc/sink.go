package ipc

import "io"

// Writers borrow their sink for the duration of the session and never close
// it; only io.Writer is required for stream mode. The two optional
// capabilities below are detected at construction time.

// Flusher is implemented by sinks that buffer writes. Close flushes through
// it when present.
type Flusher interface {
	Flush() error
}

// Positioner reports the sink's current write position. File-mode writers
// need it to record footer offsets; io.Seeker is accepted as a fallback.
type Positioner interface {
	Tell() (int64, error)
}

// positionOf resolves a position reporter for sink. The second return is
// false when the sink supports neither Tell nor Seek.
func positionOf(sink io.Writer) (func() (int64, error), bool) {
	if p, ok := sink.(Positioner); ok {
		return p.Tell, true
	}
	if s, ok := sink.(io.Seeker); ok {
		return func() (int64, error) {
			return s.Seek(0, io.SeekCurrent)
		}, true
	}
	return nil, false
}

func flush(sink io.Writer) error {
	if f, ok := sink.(Flusher); ok {
		return f.Flush()
	}
	return nil
}
