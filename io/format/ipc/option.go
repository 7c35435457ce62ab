package ipc

import (
	"github.com/apache/arrow/go/v12/arrow/memory"

	"github.com/columnkit/arrowipc/common/bitutil"
	"github.com/columnkit/arrowipc/common/constant"
	"github.com/columnkit/arrowipc/common/status"
)

type config struct {
	mem       memory.Allocator
	alignment int
	codec     Compression
}

// Option configures writers and readers at construction time.
type Option func(*config)

// WithAllocator sets the allocator readers use for body buffers.
func WithAllocator(mem memory.Allocator) Option {
	return func(c *config) {
		c.mem = mem
	}
}

// WithAlignment overrides the message padding boundary. Must be a multiple
// of 8; the writer records it in the schema message so readers follow.
func WithAlignment(alignment int) Option {
	return func(c *config) {
		c.alignment = alignment
	}
}

// WithCompression enables body buffer compression.
func WithCompression(codec Compression) Option {
	return func(c *config) {
		c.codec = codec
	}
}

func newConfig(opts ...Option) (*config, error) {
	c := &config{
		mem:       memory.DefaultAllocator,
		alignment: constant.Alignment,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.alignment < constant.Alignment || c.alignment%constant.Alignment != 0 {
		return nil, status.InvalidArgument("alignment must be a positive multiple of 8")
	}
	if c.codec != CompressionNone && c.codec != CompressionZstd {
		return nil, status.InvalidArgument("unknown compression codec")
	}
	return c, nil
}

func (c *config) pad(n int64) int64 {
	return bitutil.CeilTo(n, int64(c.alignment))
}
