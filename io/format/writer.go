package format

import "github.com/apache/arrow/go/v12/arrow"

// Writer is implemented once per on-disk format.
type Writer interface {
	Write(record arrow.Record) error
	Count() int64
	Close() error
}
