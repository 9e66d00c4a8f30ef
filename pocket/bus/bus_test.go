package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrl-retro/pocketcore/pocket/cart"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	rom := make([]byte, 0x8000)
	rom[0x0147] = 0x00 // ROM ONLY
	rom[0x0148] = 0x00 // 2 banks (32 KiB), matching the rom slice above
	rom[0x0149] = 0x00

	header, err := cart.ParseHeader(rom)
	require.NoError(t, err)
	mbc, err := cart.New(header, rom, nil)
	require.NoError(t, err)

	return New(mbc)
}

func TestEchoRAMAliasesWorkRAM(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC010, 0x42)
	assert.Equal(t, uint8(0x42), b.Read(0xE010))

	b.Write(0xFDA0, 0x24)
	assert.Equal(t, uint8(0x24), b.Read(0xDDA0))
}

func TestIFReadAlwaysHasUpperBitsSet(t *testing.T) {
	b := newTestBus(t)
	b.Write(AddrIF, 0x00)
	assert.Equal(t, uint8(0xE0), b.Read(AddrIF))

	b.Write(AddrIF, 0xFF)
	assert.Equal(t, uint8(0xFF), b.Read(AddrIF))
}

func TestDMACopiesOAMFromSourcePage(t *testing.T) {
	b := newTestBus(t)
	for i := uint16(0); i < 160; i++ {
		b.Write(0xC100+i, uint8(i))
	}

	b.Write(AddrDMA, 0xC1)

	for i := uint16(0); i < 160; i++ {
		assert.Equal(t, uint8(i), b.Read(0xFE00+i))
	}
}

func TestHRAMReadWrite(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF80, 0x11)
	b.Write(0xFFFD, 0x22)
	assert.Equal(t, uint8(0x11), b.Read(0xFF80))
	assert.Equal(t, uint8(0x22), b.Read(0xFFFD))
}

func TestUnusedOAMShadowReadsHighAndDropsWrites(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFEA0, 0x55) // dropped
	assert.Equal(t, uint8(0xFF), b.Read(0xFEA0))
}

func TestTickFoldsTimerOverflowIntoIF(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF07, 0x05) // TAC enabled, bit 3 (period 16)
	b.Write(0xFF06, 0x00) // TMA
	b.Write(0xFF05, 0xFF) // TIMA one tick from overflow

	b.Tick(16) // overflow edge: TIMA reloads from TMA and the interrupt latches immediately

	assert.NotZero(t, b.Read(AddrIF)&(1<<2))
}
