package cart

// RomOnly is the no-banking case: the whole ROM (up to 32 KiB) sits directly
// at 0x0000-0x7FFF and there is no external RAM. Writes to the ROM window
// are dropped rather than mutating the image, per retail hardware behavior.
type RomOnly struct {
	rom []byte
}

func (m *RomOnly) ReadROM(address uint16) uint8 { return m.rom[address] }
func (m *RomOnly) WriteROM(address uint16, value uint8) {}
func (m *RomOnly) ReadRAM(address uint16) uint8 { return 0xFF }
func (m *RomOnly) WriteRAM(address uint16, value uint8) {}

// MBC1 supports up to 125 ROM banks and 4 RAM banks, with a banking-mode
// toggle that trades ROM-bank range for RAM-bank range.
type MBC1 struct {
	rom []byte
	ram []byte

	romBank     uint8
	ramBank     uint8
	ramEnabled  bool
	bankingMode uint8 // 0 = ROM banking mode, 1 = RAM banking mode
}

func (m *MBC1) ReadROM(address uint16) uint8 {
	if address <= 0x3FFF {
		bank := uint32(0)
		if m.bankingMode == 1 {
			bank = uint32(m.romBank) &^ 0x1F // upper bits only apply to the fixed bank in RAM mode
		}
		offset := bank * 0x4000
		if len(m.rom) > 0 {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(address)]
	}

	offset := uint32(m.romBank) * 0x4000
	if len(m.rom) > 0 {
		offset %= uint32(len(m.rom))
	}
	return m.rom[offset+uint32(address-0x4000)]
}

func (m *MBC1) WriteROM(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = m.romBank&0x60 | bank
	case address <= 0x5FFF:
		if m.bankingMode == 0 {
			m.romBank = m.romBank&0x1F | (value&0x03)<<5
		} else {
			m.ramBank = value & 0x03
		}
	case address <= 0x7FFF:
		m.bankingMode = value & 0x01
		if m.bankingMode == 1 {
			m.romBank &= 0x1F
		}
	}
}

func (m *MBC1) ReadRAM(address uint16) uint8 {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0xFF
	}
	bank := uint32(0)
	if m.bankingMode == 1 {
		bank = uint32(m.ramBank)
	}
	offset := (bank*0x2000 + uint32(address-0xA000)) % uint32(len(m.ram))
	return m.ram[offset]
}

func (m *MBC1) WriteRAM(address uint16, value uint8) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return
	}
	bank := uint32(0)
	if m.bankingMode == 1 {
		bank = uint32(m.ramBank)
	}
	offset := (bank*0x2000 + uint32(address-0xA000)) % uint32(len(m.ram))
	m.ram[offset] = value
}

// MBC2 has a fixed 512x4-bit RAM built into the cartridge chip itself; only
// the low nibble of each stored byte is meaningful.
type MBC2 struct {
	rom []byte
	ram []byte

	romBank    uint8
	ramEnabled bool
}

func (m *MBC2) ReadROM(address uint16) uint8 {
	if address <= 0x3FFF {
		return m.rom[address]
	}
	offset := uint32(m.romBank) * 0x4000
	if len(m.rom) > 0 {
		offset %= uint32(len(m.rom))
	}
	return m.rom[offset+uint32(address-0x4000)]
}

func (m *MBC2) WriteROM(address uint16, value uint8) {
	switch {
	case address <= 0x3FFF:
		// Bit 8 of the address selects RAM-enable vs ROM-bank-select.
		if address&0x0100 == 0 {
			m.ramEnabled = value&0x0F == 0x0A
		} else {
			bank := value & 0x0F
			if bank == 0 {
				bank = 1
			}
			m.romBank = bank
		}
	}
}

func (m *MBC2) ReadRAM(address uint16) uint8 {
	if !m.ramEnabled {
		return 0xFF
	}
	return m.ram[(address-0xA000)%512] | 0xF0
}

func (m *MBC2) WriteRAM(address uint16, value uint8) {
	if !m.ramEnabled {
		return
	}
	m.ram[(address-0xA000)%512] = value & 0x0F
}

// rtcRegisters are the five latched RTC bytes: seconds, minutes, hours,
// day-counter low byte, and day-counter high bit plus halt/carry flags.
type rtcRegisters struct {
	seconds, minutes, hours, dayLow, flags uint8
}

const (
	rtcFlagDayMSB = 1 << 0
	rtcFlagHalt   = 1 << 6
	rtcFlagCarry  = 1 << 7
)

// MBC3 adds a real-time clock: five RTC registers derived from a free-running
// internal tick counter and latched into place on a 0->1 transition written
// to 0x6000-0x7FFF.
type MBC3 struct {
	rom []byte
	ram []byte

	romBank    uint8
	ramBank    uint8
	ramEnabled bool
	hasRTC     bool

	rtcMapped   bool
	mappedReg   uint8 // which of the five RTC registers 0x08-0x0C selects
	latchByte   uint8 // last value written to 0x6000-0x7FFF, for edge detection
	ticks       uint64 // free-running counter, advances once per second of wall-clock ticks fed in
	latched     rtcRegisters
}

func (m *MBC3) ReadROM(address uint16) uint8 {
	if address <= 0x3FFF {
		return m.rom[address]
	}
	offset := uint32(m.romBank) * 0x4000
	if len(m.rom) > 0 {
		offset %= uint32(len(m.rom))
	}
	return m.rom[offset+uint32(address-0x4000)]
}

func (m *MBC3) WriteROM(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case address <= 0x5FFF:
		if m.hasRTC && value >= 0x08 && value <= 0x0C {
			m.rtcMapped = true
			m.mappedReg = value
		} else {
			m.rtcMapped = false
			m.ramBank = value & 0x03
		}
	case address <= 0x7FFF:
		if m.hasRTC && m.latchByte == 0 && value == 1 {
			m.latchTicks()
		}
		m.latchByte = value
	}
}

// latchTicks converts the free-running tick counter into the five RTC
// registers; halt freezes the counter, day overflow sets the carry bit.
func (m *MBC3) latchTicks() {
	if m.latched.flags&rtcFlagHalt != 0 {
		return
	}

	total := m.ticks
	seconds := total % 60
	total /= 60
	minutes := total % 60
	total /= 60
	hours := total % 24
	total /= 24
	days := total

	flags := m.latched.flags &^ (rtcFlagDayMSB | rtcFlagCarry)
	if days > 0x1FF {
		flags |= rtcFlagCarry
		days %= 0x200
	}
	if days&0x100 != 0 {
		flags |= rtcFlagDayMSB
	}

	m.latched = rtcRegisters{
		seconds: uint8(seconds),
		minutes: uint8(minutes),
		hours:   uint8(hours),
		dayLow:  uint8(days),
		flags:   flags,
	}
}

// TickRTC advances the free-running counter by whole seconds; callers feed
// it wall-clock seconds elapsed (the emulated CPU clock itself is too fast
// to use directly for a real-time clock).
func (m *MBC3) TickRTC(seconds uint64) {
	if m.latched.flags&rtcFlagHalt == 0 {
		m.ticks += seconds
	}
}

func (m *MBC3) ReadRAM(address uint16) uint8 {
	if !m.ramEnabled {
		return 0xFF
	}
	if m.rtcMapped {
		switch m.mappedReg {
		case 0x08:
			return m.latched.seconds
		case 0x09:
			return m.latched.minutes
		case 0x0A:
			return m.latched.hours
		case 0x0B:
			return m.latched.dayLow
		case 0x0C:
			return m.latched.flags
		default:
			return 0xFF
		}
	}
	if len(m.ram) == 0 {
		return 0xFF
	}
	offset := (uint32(m.ramBank)*0x2000 + uint32(address-0xA000)) % uint32(len(m.ram))
	return m.ram[offset]
}

func (m *MBC3) WriteRAM(address uint16, value uint8) {
	if !m.ramEnabled {
		return
	}
	if m.rtcMapped {
		switch m.mappedReg {
		case 0x08:
			m.latched.seconds = value
		case 0x09:
			m.latched.minutes = value
		case 0x0A:
			m.latched.hours = value
		case 0x0B:
			m.latched.dayLow = value
		case 0x0C:
			m.latched.flags = value
		}
		return
	}
	if len(m.ram) == 0 {
		return
	}
	offset := (uint32(m.ramBank)*0x2000 + uint32(address-0xA000)) % uint32(len(m.ram))
	m.ram[offset] = value
}

// MBC5 is the simplest of the banked controllers: a full 9-bit ROM bank
// number (up to 512 banks) and no banking-mode quirks.
type MBC5 struct {
	rom []byte
	ram []byte

	romBank    uint16
	ramBank    uint8
	ramEnabled bool
	hasRumble  bool
}

func (m *MBC5) ReadROM(address uint16) uint8 {
	if address <= 0x3FFF {
		return m.rom[address]
	}
	offset := uint32(m.romBank) * 0x4000
	if len(m.rom) > 0 {
		offset %= uint32(len(m.rom))
	}
	return m.rom[offset+uint32(address-0x4000)]
}

func (m *MBC5) WriteROM(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x2FFF:
		m.romBank = m.romBank&0x100 | uint16(value)
	case address <= 0x3FFF:
		m.romBank = m.romBank&0x0FF | uint16(value&0x01)<<8
	case address <= 0x5FFF:
		// Bit 3 selects the rumble motor on cartridges that have one, so it
		// is masked out of the stored bank index there; on other cartridges
		// it is a RAM bank bit (rumble itself is out of this core's scope,
		// per the audio/host-collaborator boundary).
		bank := value & 0x0F
		if m.hasRumble {
			bank &= 0x07
		}
		m.ramBank = bank
	}
}

func (m *MBC5) ReadRAM(address uint16) uint8 {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0xFF
	}
	offset := (uint32(m.ramBank)*0x2000 + uint32(address-0xA000)) % uint32(len(m.ram))
	return m.ram[offset]
}

func (m *MBC5) WriteRAM(address uint16, value uint8) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return
	}
	offset := (uint32(m.ramBank)*0x2000 + uint32(address-0xA000)) % uint32(len(m.ram))
	m.ram[offset] = value
}
