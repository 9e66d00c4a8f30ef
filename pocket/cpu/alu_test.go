package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdd8Flags(t *testing.T) {
	tests := []struct {
		name          string
		a, b          uint8
		result        uint8
		z, n, h, c    bool
	}{
		{"no carry", 0x02, 0x03, 0x05, false, false, false, false},
		{"half carry", 0x0F, 0x01, 0x10, false, false, true, false},
		{"full carry", 0xFF, 0x01, 0x00, true, false, true, true},
		{"zero without carry", 0x00, 0x00, 0x00, true, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, z, n, h, c := add8(tt.a, tt.b)
			assert.Equal(t, tt.result, result)
			assert.Equal(t, tt.z, z, "Z")
			assert.Equal(t, tt.n, n, "N")
			assert.Equal(t, tt.h, h, "H")
			assert.Equal(t, tt.c, c, "C")
		})
	}
}

func TestSub8Flags(t *testing.T) {
	result, z, n, h, c := sub8(0x10, 0x01)
	assert.Equal(t, uint8(0x0F), result)
	assert.False(t, z)
	assert.True(t, n)
	assert.True(t, h)
	assert.False(t, c)

	result, z, n, h, c = sub8(0x01, 0x01)
	assert.Equal(t, uint8(0x00), result)
	assert.True(t, z)
	assert.True(t, n)
	assert.False(t, h)
	assert.False(t, c)
}

func TestIncDecPreserveNoCarryOutput(t *testing.T) {
	result, z, n, h := inc8(0xFF)
	assert.Equal(t, uint8(0x00), result)
	assert.True(t, z)
	assert.False(t, n)
	assert.True(t, h)

	result, z, n, h = dec8(0x00)
	assert.Equal(t, uint8(0xFF), result)
	assert.False(t, z)
	assert.True(t, n)
	assert.True(t, h)
}

func TestAddHL16HalfAndFullCarry(t *testing.T) {
	result, n, h, c := addHL16(0x0FFF, 0x0001)
	assert.Equal(t, uint16(0x1000), result)
	assert.False(t, n)
	assert.True(t, h)
	assert.False(t, c)

	result, _, _, c = addHL16(0xFFFF, 0x0001)
	assert.Equal(t, uint16(0x0000), result)
	assert.True(t, c)
}

func TestRotateAndShiftOps(t *testing.T) {
	result, z, c := rlc(0x80)
	assert.Equal(t, uint8(0x01), result)
	assert.False(t, z)
	assert.True(t, c)

	result, z, c = rrc(0x01)
	assert.Equal(t, uint8(0x80), result)
	assert.False(t, z)
	assert.True(t, c)

	result, z, c = sra(0x81)
	assert.Equal(t, uint8(0xC0), result)
	assert.False(t, z)
	assert.True(t, c)

	result, z, c = srl(0x01)
	assert.Equal(t, uint8(0x00), result)
	assert.True(t, z)
	assert.True(t, c)
}

func TestSwap8(t *testing.T) {
	result, z := swap8(0xAB)
	assert.Equal(t, uint8(0xBA), result)
	assert.False(t, z)

	result, z = swap8(0x00)
	assert.Equal(t, uint8(0x00), result)
	assert.True(t, z)
}

func TestBitTest(t *testing.T) {
	assert.True(t, bitTest(0x00, 3))
	assert.False(t, bitTest(0x08, 3))
}
