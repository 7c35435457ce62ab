package ipc

import (
	"encoding/binary"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/columnkit/arrowipc/common/status"
)

// Compression selects the optional body buffer codec. Each compressed buffer
// is prefixed with its little-endian int64 uncompressed length so readers can
// size the destination before decoding.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZstd
)

const codecNameZstd = "zstd"

func (c Compression) name() string {
	if c == CompressionZstd {
		return codecNameZstd
	}
	return ""
}

var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func zstdInit() {
	zstdOnce.Do(func() {
		zstdEncoder, _ = zstd.NewWriter(nil)
		zstdDecoder, _ = zstd.NewReader(nil)
	})
}

// compressBuffer returns src wrapped in the compressed buffer layout, or src
// unchanged when no codec is configured. Zero-length buffers pass through.
func compressBuffer(codec Compression, src []byte) ([]byte, error) {
	if codec == CompressionNone || len(src) == 0 {
		return src, nil
	}
	zstdInit()
	if zstdEncoder == nil {
		return nil, status.ArrowError("zstd encoder unavailable")
	}
	dst := make([]byte, 8, 8+len(src))
	binary.LittleEndian.PutUint64(dst, uint64(len(src)))
	return zstdEncoder.EncodeAll(src, dst), nil
}

// decompressBuffer reverses compressBuffer for a single body buffer.
func decompressBuffer(codecName string, src []byte) ([]byte, error) {
	if codecName == "" || len(src) == 0 {
		return src, nil
	}
	if codecName != codecNameZstd {
		return nil, status.ArrowError("unknown compression codec " + codecName)
	}
	if len(src) < 8 {
		return nil, status.ArrowError("compressed buffer shorter than its length prefix")
	}
	zstdInit()
	if zstdDecoder == nil {
		return nil, status.ArrowError("zstd decoder unavailable")
	}
	size := binary.LittleEndian.Uint64(src[:8])
	dst, err := zstdDecoder.DecodeAll(src[8:], make([]byte, 0, size))
	if err != nil {
		return nil, status.ArrowError("decompressing body buffer").WithCause(err)
	}
	if uint64(len(dst)) != size {
		return nil, status.ArrowError("decompressed length does not match buffer prefix")
	}
	return dst, nil
}
