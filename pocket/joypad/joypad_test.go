package joypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewJoypadHasEveryKeyReleased(t *testing.T) {
	j := New()
	j.Write(0x00) // select both groups
	assert.Equal(t, uint8(0xCF), j.Read())
}

func TestDownSelectsCorrectNibble(t *testing.T) {
	j := New()
	j.Down(A)
	j.Down(Right)

	j.Write(0x20) // P14=0 (bit 4 clear) -> d-pad group selected
	assert.Equal(t, uint8(0xEE), j.Read(), "Right pressed clears bit 0 of the d-pad nibble")

	j.Write(0x10) // P15=0 (bit 5 clear) -> button group selected
	assert.Equal(t, uint8(0xDE), j.Read(), "A pressed clears bit 0 of the button nibble")
}

func TestDownRaisesInterruptOnlyOnPressEdge(t *testing.T) {
	j := New()
	assert.False(t, j.PendingInterrupt())

	j.Down(Start)
	assert.True(t, j.PendingInterrupt())

	j.Clear()
	assert.False(t, j.PendingInterrupt())

	j.Down(Start) // already pressed: no new edge
	assert.False(t, j.PendingInterrupt())
}

func TestUpNeverRaisesInterrupt(t *testing.T) {
	j := New()
	j.Down(B)
	j.Clear()

	j.Up(B)
	assert.False(t, j.PendingInterrupt())
}

func TestWriteOnlyAffectsSelectBits(t *testing.T) {
	j := New()
	j.Write(0xFF)
	assert.Equal(t, uint8(0x30), j.selectP1)
}
