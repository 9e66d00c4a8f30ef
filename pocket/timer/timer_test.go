package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDivIsUpperByteOfSystemCounter(t *testing.T) {
	tm := New()
	tm.Tick(0x0200)
	assert.Equal(t, uint8(0x02), tm.Read(AddrDIV))
}

func TestWriteDivResetsSystemCounter(t *testing.T) {
	tm := New()
	tm.Tick(0x0300)
	tm.Write(AddrDIV, 0x99) // value written is irrelevant, any write resets to zero
	assert.Equal(t, uint8(0x00), tm.Read(AddrDIV))
}

func TestTacFrequencySelectBitMapping(t *testing.T) {
	tests := []struct {
		name     string
		tac      uint8
		ticksFor int // cycles to the first falling edge of the selected bit
	}{
		{"bit 9 (4096 Hz)", 0x04, 1024},
		{"bit 3 (262144 Hz)", 0x05, 16},
		{"bit 5 (65536 Hz)", 0x06, 64},
		{"bit 7 (16384 Hz)", 0x07, 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := New()
			tm.Write(AddrTAC, tt.tac)
			tm.Write(AddrTIMA, 0x00)
			tm.Tick(tt.ticksFor - 1)
			assert.Equal(t, uint8(0x00), tm.Read(AddrTIMA), "no edge yet")
			tm.Tick(1)
			assert.Equal(t, uint8(0x01), tm.Read(AddrTIMA), "edge lands exactly on the selected cycle")
		})
	}
}

// TestTimaOverflowReloadsFromTmaImmediately drives TAC=0x05 (bit 3, enabled)
// with TIMA one increment from overflow and confirms TMA reload and the
// Timer interrupt both land on the overflow edge itself.
func TestTimaOverflowReloadsFromTmaImmediately(t *testing.T) {
	tm := New()
	tm.Write(AddrTAC, 0x05)
	tm.Write(AddrTMA, 0x80)
	tm.Write(AddrTIMA, 0xFF)

	assert.True(t, tm.Tick(16), "the overflow edge reports the interrupt immediately")
	assert.Equal(t, uint8(0x80), tm.Read(AddrTIMA), "TIMA reloads from TMA on the same tick")

	assert.False(t, tm.Tick(1), "no interrupt again until the next overflow")
}

func TestDisabledTimerNeverIncrementsTima(t *testing.T) {
	tm := New()
	tm.Write(AddrTAC, 0x00) // enable bit clear
	tm.Tick(10_000)
	assert.Equal(t, uint8(0x00), tm.Read(AddrTIMA))
}
