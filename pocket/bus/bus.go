// Package bus implements the memory-mapped address decode that ties the
// cartridge, PPU, timer, and joypad into the single 16-bit address space the
// CPU sees, plus the registers the bus owns outright: DMA, IF, and IE.
package bus

import (
	"github.com/wrl-retro/pocketcore/pocket/cart"
	"github.com/wrl-retro/pocketcore/pocket/joypad"
	"github.com/wrl-retro/pocketcore/pocket/timer"
	"github.com/wrl-retro/pocketcore/pocket/video"
)

const (
	AddrP1  uint16 = 0xFF00
	AddrDMA uint16 = 0xFF46
	AddrIF  uint16 = 0xFF0F
	AddrIE  uint16 = 0xFFFF
)

// Bus owns every piece of state reachable by address: one cartridge, one
// PPU, one timer, one joypad, internal RAM, an I/O scratch block for
// registers this core only stores passively, and the two interrupt bytes.
type Bus struct {
	mbc cart.MBC
	PPU *video.PPU
	Timer *timer.Timer
	Joypad *joypad.Joypad

	wram [0x2000]uint8 // 0xC000-0xDFFF; 0xE000-0xFDFF echoes into this same array
	hram [0x7F]uint8   // 0xFF80-0xFFFE
	io   [0x80]uint8   // passive backing store for sound/unmapped 0xFF00-0xFF7F registers

	ifReg, ieReg uint8
}

// New wires a bus to the given cartridge controller and fresh peripherals.
func New(mbc cart.MBC) *Bus {
	return &Bus{
		mbc:    mbc,
		PPU:    video.New(),
		Timer:  timer.New(),
		Joypad: joypad.New(),
	}
}

func (b *Bus) Read(address uint16) uint8 {
	switch {
	case address <= 0x7FFF:
		return b.mbc.ReadROM(address)
	case address <= 0x9FFF:
		return b.PPU.ReadVRAM(address - 0x8000)
	case address <= 0xBFFF:
		return b.mbc.ReadRAM(address)
	case address <= 0xDFFF:
		return b.wram[address-0xC000]
	case address <= 0xFDFF:
		return b.wram[address-0xE000]
	case address <= 0xFE9F:
		return b.PPU.ReadOAM(address - 0xFE00)
	case address <= 0xFEFF:
		return 0xFF // unused OAM-shadow area
	case address == AddrP1:
		return b.Joypad.Read()
	case address >= timer.AddrDIV && address <= timer.AddrTAC:
		return b.Timer.Read(address)
	case address == AddrDMA:
		return 0 // DMA register always reads as 0
	case address >= video.AddrLCDC && address <= video.AddrWX:
		return b.PPU.ReadRegister(address)
	case address == AddrIF:
		return b.ifReg | 0xE0 // upper 3 bits unused, always read 1
	case address == AddrIE:
		return b.ieReg
	case address >= 0xFF80 && address <= 0xFFFE:
		return b.hram[address-0xFF80]
	default:
		return b.io[address-0xFF00]
	}
}

func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address <= 0x7FFF:
		b.mbc.WriteROM(address, value)
	case address <= 0x9FFF:
		b.PPU.WriteVRAM(address-0x8000, value)
	case address <= 0xBFFF:
		b.mbc.WriteRAM(address, value)
	case address <= 0xDFFF:
		b.wram[address-0xC000] = value
	case address <= 0xFDFF:
		b.wram[address-0xE000] = value
	case address <= 0xFE9F:
		b.PPU.WriteOAM(address-0xFE00, value)
	case address <= 0xFEFF:
		// unused OAM-shadow area, writes dropped
	case address == AddrP1:
		b.Joypad.Write(value)
	case address >= timer.AddrDIV && address <= timer.AddrTAC:
		b.Timer.Write(address, value)
	case address == AddrDMA:
		b.runDMA(value)
	case address >= video.AddrLCDC && address <= video.AddrWX:
		b.PPU.WriteRegister(address, value)
	case address == AddrIF:
		b.ifReg = value & 0x1F
	case address == AddrIE:
		b.ieReg = value
	case address >= 0xFF80 && address <= 0xFFFE:
		b.hram[address-0xFF80] = value
	default:
		b.io[address-0xFF00] = value
	}
}

// runDMA copies 160 bytes from value*0x100 into OAM in a single tick, per
// this core's instantaneous DMA model.
func (b *Bus) runDMA(value uint8) {
	source := uint16(value) << 8
	for i := uint16(0); i < 160; i++ {
		b.PPU.WriteOAM(i, b.Read(source+i))
	}
}

// Tick advances every ticked peripheral by the elapsed cycle count and
// folds their pending-interrupt masks into IF, masked by nothing here (IE
// masking happens when the CPU reads IF&IE) — peripherals expose mask/clear,
// the bus is the single aggregator, per the interrupt-plumbing design note.
func (b *Bus) Tick(cycles int) {
	b.PPU.Tick(cycles)
	timerFired := b.Timer.Tick(cycles)

	mask := b.PPU.PendingInterrupts()
	b.PPU.Clear()

	if timerFired {
		mask |= 1 << 2
	}
	if b.Joypad.PendingInterrupt() {
		mask |= 1 << 4
		b.Joypad.Clear()
	}

	b.ifReg |= mask
}
