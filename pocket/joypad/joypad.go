// Package joypad implements the key-matrix latch: an 8-bit "pressed" bitmap
// (inverted on the wire), a 2-bit select register, and the falling-edge
// Joypad interrupt raised on button-down transitions.
package joypad

import "github.com/wrl-retro/pocketcore/pocket/bit"

// Key identifies one of the eight matrix lines, matching the bit layout
// of the internal "active" byte (Right=1, Left=2, Up=4, Down=8, A=16, B=32,
// Select=64, Start=128).
type Key uint8

const (
	Right  Key = 1 << 0
	Left   Key = 1 << 1
	Up     Key = 1 << 2
	Down   Key = 1 << 3
	A      Key = 1 << 4
	B      Key = 1 << 5
	Select Key = 1 << 6
	Start  Key = 1 << 7
)

const selectMask uint8 = 0x30 // bits 4-5 of P1: bit 4 low selects the d-pad group, bit 5 low selects the buttons group

// Joypad is the latch behind the P1 (0xFF00) register.
type Joypad struct {
	active uint8 // 1 = released, 0 = pressed, one bit per Key
	selectP1 uint8 // raw select bits as last written to P1 (bits 4-5)
	pendingInt bool
}

// New returns a Joypad with every key released.
func New() *Joypad {
	return &Joypad{active: 0xFF}
}

// Down presses a key: clears its bit in the active byte and, when this is a
// 1→0 transition (the key was not already pressed), raises the Joypad
// interrupt.
func (j *Joypad) Down(k Key) {
	if j.active&uint8(k) != 0 {
		j.pendingInt = true
	}
	j.active = bit.Reset(bitIndex(k), j.active)
}

// Up releases a key: sets its bit in the active byte. Releasing never
// raises an interrupt (only the press edge does).
func (j *Joypad) Up(k Key) {
	j.active = bit.Set(bitIndex(k), j.active)
}

func bitIndex(k Key) uint8 {
	idx := uint8(0)
	for v := uint8(k); v > 1; v >>= 1 {
		idx++
	}
	return idx
}

// Read returns the value of P1: select bits as last written, OR'd with bits
// 6-7 (always 1 on hardware), combined with whichever nibble of the active
// state the selection addresses.
func (j *Joypad) Read() uint8 {
	result := uint8(0xC0) | j.selectP1

	selectDpad := !bit.IsSet(4, j.selectP1)
	selectButtons := !bit.IsSet(5, j.selectP1)

	switch {
	case selectButtons && !selectDpad:
		result |= (j.active >> 4) & 0x0F
	case selectDpad && !selectButtons:
		result |= j.active & 0x0F
	case selectButtons && selectDpad:
		result |= (j.active & 0x0F) & ((j.active >> 4) & 0x0F)
	default:
		result |= 0x0F
	}

	return result
}

// Write updates the select bits; only bits 4-5 of P1 are writable.
func (j *Joypad) Write(value uint8) {
	j.selectP1 = value & selectMask
}

// PendingInterrupt reports whether a Joypad interrupt has been latched since
// the last Clear call.
func (j *Joypad) PendingInterrupt() bool { return j.pendingInt }

// Clear acknowledges the pending interrupt, called by the bus once it has
// folded the mask into IF.
func (j *Joypad) Clear() { j.pendingInt = false }
