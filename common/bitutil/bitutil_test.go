package bitutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCeilTo(t *testing.T) {
	assert.EqualValues(t, 0, CeilTo(0, 8))
	assert.EqualValues(t, 8, CeilTo(1, 8))
	assert.EqualValues(t, 8, CeilTo(8, 8))
	assert.EqualValues(t, 16, CeilTo(9, 8))
	assert.EqualValues(t, 64, CeilTo(33, 64))
}

func TestPaddingFor(t *testing.T) {
	assert.EqualValues(t, 0, PaddingFor(0, 8))
	assert.EqualValues(t, 7, PaddingFor(1, 8))
	assert.EqualValues(t, 0, PaddingFor(16, 8))
	assert.EqualValues(t, 3, PaddingFor(13, 8))
}

func TestCountSetBits(t *testing.T) {
	assert.Equal(t, 0, CountSetBits(nil, 10))
	assert.Equal(t, 0, CountSetBits([]byte{0x00}, 8))
	assert.Equal(t, 8, CountSetBits([]byte{0xFF}, 8))
	// trailing bits beyond n are ignored
	assert.Equal(t, 3, CountSetBits([]byte{0xFF}, 3))
	// multi-word bitmap
	bm := make([]byte, 16)
	for i := range bm {
		bm[i] = 0xFF
	}
	assert.Equal(t, 128, CountSetBits(bm, 128))
	assert.Equal(t, 100, CountSetBits(bm, 100))
}

func TestNullCount(t *testing.T) {
	assert.Equal(t, 0, NullCount(nil, 5))
	// bits 0 and 2 valid out of 3 rows
	assert.Equal(t, 1, NullCount([]byte{0b00000101}, 3))
	assert.Equal(t, 8, NullCount([]byte{0x00}, 8))
}
