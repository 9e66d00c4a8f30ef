package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFramePeriodIsExactly70224CyclesAndLYWraps(t *testing.T) {
	p := New()
	seenLY := map[uint8]bool{}

	for i := 0; i < 70224; i++ {
		p.Tick(1)
		seenLY[p.ReadRegister(AddrLY)] = true
	}

	// One full frame later the PPU is back at the start of line 0, having
	// visited every LY value from 0 to 153.
	assert.Equal(t, uint8(0), p.ReadRegister(AddrLY))
	assert.Equal(t, ModeSearchOAM, p.mode)
	for ly := 0; ly <= 153; ly++ {
		assert.True(t, seenLY[uint8(ly)], "LY=%d should have been visited", ly)
	}
}

func TestModeSequencePerVisibleLine(t *testing.T) {
	p := New()

	assert.Equal(t, ModeSearchOAM, p.mode)
	p.Tick(80)
	assert.Equal(t, ModeRenderLine, p.mode)
	p.Tick(172)
	assert.Equal(t, ModeHblank, p.mode)
	p.Tick(204)
	assert.Equal(t, ModeSearchOAM, p.mode)
	assert.Equal(t, uint8(1), p.ReadRegister(AddrLY))
}

func TestVBlankEntryAfter144Lines(t *testing.T) {
	p := New()
	for line := 0; line < 144; line++ {
		p.Tick(80)
		p.Tick(172)
		p.Tick(204)
	}
	assert.Equal(t, ModeVblank, p.mode)
	assert.Equal(t, uint8(144), p.ReadRegister(AddrLY))
}

func TestLcdOffFreezesTheStateMachine(t *testing.T) {
	p := New()
	p.WriteRegister(AddrLCDC, 0x00) // power bit clear
	p.Tick(100000)
	assert.Equal(t, uint8(0), p.ReadRegister(AddrLY))
	assert.Equal(t, ModeSearchOAM, p.mode)
}

func TestLycCoincidenceRaisesStatBit(t *testing.T) {
	p := New()
	p.WriteRegister(AddrLYC, 1)
	p.WriteRegister(AddrSTAT, 0x40) // enable the LYC=LY STAT interrupt source

	p.Tick(80)
	p.Tick(172)
	p.Tick(204) // advances LY from 0 to 1

	assert.Equal(t, uint8(1), p.ReadRegister(AddrLY))
	assert.NotZero(t, p.ReadRegister(AddrSTAT)&(1<<statLycEqual))
	assert.NotZero(t, p.PendingInterrupts()&intLCD)
}

func TestBackgroundDisabledRendersPalette0(t *testing.T) {
	p := New()
	p.WriteRegister(AddrLCDC, 0x80) // power on, everything else off
	p.WriteRegister(AddrBGP, 0xE4)  // standard 3-2-1-0 ramp

	p.Tick(80)
	p.Tick(172) // through render-line for LY=0

	want := paletteLookup(0xE4, 0)
	for x := 0; x < Width; x++ {
		assert.Equal(t, want, colorIndexAt(p.fb, x, 0))
	}
}

// colorIndexAt looks a packed frame-buffer pixel back up to its palette
// index, for tests that only care about the logical color, not the RGB.
func colorIndexAt(fb *FrameBuffer, x, y int) uint8 {
	pixel := fb.pixels[y*Width+x]
	for i, c := range palette {
		if c == pixel {
			return uint8(i)
		}
	}
	return 0xFF
}
