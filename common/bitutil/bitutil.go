package bitutil

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bitset"
)

// CeilTo rounds n up to the next multiple of align. align must be positive.
func CeilTo(n int64, align int64) int64 {
	if rem := n % align; rem != 0 {
		return n + align - rem
	}
	return n
}

// PaddingFor returns the number of zero bytes needed to bring n up to the
// next multiple of align.
func PaddingFor(n int64, align int64) int64 {
	return CeilTo(n, align) - n
}

// CountSetBits counts the 1-bits among the first n bits of bitmap,
// least-significant bit first within each byte.
func CountSetBits(bitmap []byte, n int) int {
	if n <= 0 || len(bitmap) == 0 {
		return 0
	}
	nbytes := (n + 7) / 8
	if nbytes > len(bitmap) {
		nbytes = len(bitmap)
	}
	words := make([]uint64, (nbytes+7)/8)
	var chunk [8]byte
	for i := range words {
		start := i * 8
		end := start + 8
		if end > nbytes {
			end = nbytes
		}
		chunk = [8]byte{}
		copy(chunk[:], bitmap[start:end])
		words[i] = binary.LittleEndian.Uint64(chunk[:])
	}
	if rem := uint(n) % 64; rem != 0 {
		words[len(words)-1] &= (uint64(1) << rem) - 1
	}
	return int(bitset.From(words).Count())
}

// NullCount derives the null count of an array from its validity bitmap,
// where a set bit marks a valid value. A nil bitmap means no nulls.
func NullCount(validity []byte, n int) int {
	if validity == nil {
		return 0
	}
	return n - CountSetBits(validity, n)
}
