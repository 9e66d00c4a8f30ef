// Package cart implements cartridge header parsing and the memory-bank
// controller (MBC) state machine that decides which 16 KiB ROM window and
// 8 KiB RAM window the bus sees at any moment.
package cart

import (
	"fmt"
	"log/slog"
)

// Header field offsets, per the cartridge layout the boot ROM itself reads.
const (
	offsetTitle     = 0x0134
	offsetTitleEnd  = 0x0143
	offsetCGBFlag   = 0x0143
	offsetSGBFlag   = 0x0146
	offsetType      = 0x0147
	offsetROMSize   = 0x0148
	offsetRAMSize   = 0x0149
)

// Type identifies the memory-bank-controller family a cartridge uses.
type Type uint8

const (
	TypeRomOnly Type = iota
	TypeMBC1
	TypeMBC2
	TypeMBC3
	TypeMBC5
)

// HeaderError reports a cartridge header that declares a configuration this
// emulator cannot map to a known MBC.
type HeaderError struct {
	Field string
	Value uint8
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("cart: unsupported header field %s=0x%02X", e.Field, e.Value)
}

// Header holds the subset of the cartridge header the engine consults.
type Header struct {
	Title        string
	CGBFlag      uint8
	SGBFlag      uint8
	Type         Type
	HasRAM       bool
	HasBattery   bool
	HasRTC       bool
	HasRumble    bool
	ROMBankCount int
	RAMSize      int // bytes
}

// romBankCounts maps header byte 0x148 to a bank count; values outside this
// table are rejected as an unsupported configuration.
var romBankCounts = map[uint8]int{
	0x00: 2, 0x01: 4, 0x02: 8, 0x03: 16, 0x04: 32,
	0x05: 64, 0x06: 128, 0x52: 72, 0x53: 80, 0x54: 96,
}

// ramSizes maps header byte 0x149 to a RAM size in bytes. 0x01 is the odd
// one out at 2 KiB rather than a full 8 KiB bank.
var ramSizes = map[uint8]int{
	0x00: 0, 0x01: 2 * 1024, 0x02: 8 * 1024, 0x03: 32 * 1024,
	0x04: 128 * 1024, 0x05: 64 * 1024,
}

// cartridgeTypeInfo describes the MBC family and feature bits encoded by one
// cartridge-type byte (0x0147).
type cartridgeTypeInfo struct {
	mbc        Type
	hasRAM     bool
	hasBattery bool
	hasRTC     bool
	hasRumble  bool
}

var cartridgeTypes = map[uint8]cartridgeTypeInfo{
	0x00: {mbc: TypeRomOnly},
	0x08: {mbc: TypeRomOnly, hasRAM: true},
	0x09: {mbc: TypeRomOnly, hasRAM: true, hasBattery: true},
	0x01: {mbc: TypeMBC1},
	0x02: {mbc: TypeMBC1, hasRAM: true},
	0x03: {mbc: TypeMBC1, hasRAM: true, hasBattery: true},
	0x05: {mbc: TypeMBC2},
	0x06: {mbc: TypeMBC2, hasBattery: true},
	0x0F: {mbc: TypeMBC3, hasRTC: true, hasBattery: true},
	0x10: {mbc: TypeMBC3, hasRAM: true, hasBattery: true, hasRTC: true},
	0x11: {mbc: TypeMBC3},
	0x12: {mbc: TypeMBC3, hasRAM: true},
	0x13: {mbc: TypeMBC3, hasRAM: true, hasBattery: true},
	0x19: {mbc: TypeMBC5},
	0x1A: {mbc: TypeMBC5, hasRAM: true},
	0x1B: {mbc: TypeMBC5, hasRAM: true, hasBattery: true},
	0x1C: {mbc: TypeMBC5, hasRumble: true},
	0x1D: {mbc: TypeMBC5, hasRAM: true, hasRumble: true},
	0x1E: {mbc: TypeMBC5, hasRAM: true, hasBattery: true, hasRumble: true},
}

// ParseHeader reads the fixed header fields out of a ROM image. The image
// length must already be validated by the caller as a multiple of 16 KiB.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < 0x150 {
		return nil, &HeaderError{Field: "length", Value: 0}
	}

	typeByte := rom[offsetType]
	info, ok := cartridgeTypes[typeByte]
	if !ok {
		return nil, &HeaderError{Field: "type", Value: typeByte}
	}

	romSizeByte := rom[offsetROMSize]
	romBanks, ok := romBankCounts[romSizeByte]
	if !ok {
		return nil, &HeaderError{Field: "rom_size", Value: romSizeByte}
	}

	ramSizeByte := rom[offsetRAMSize]
	ramSize, ok := ramSizes[ramSizeByte]
	if !ok {
		return nil, &HeaderError{Field: "ram_size", Value: ramSizeByte}
	}

	if info.mbc == TypeMBC2 {
		// MBC2's RAM is a fixed 512x4-bit block built into the chip, never
		// sized by the header.
		ramSize = 0
	}

	title := make([]byte, 0, offsetTitleEnd-offsetTitle)
	for i := offsetTitle; i < offsetTitleEnd; i++ {
		if rom[i] == 0 {
			break
		}
		title = append(title, rom[i])
	}

	return &Header{
		Title:        string(title),
		CGBFlag:      rom[offsetCGBFlag],
		SGBFlag:      rom[offsetSGBFlag],
		Type:         info.mbc,
		HasRAM:       info.hasRAM,
		HasBattery:   info.hasBattery,
		HasRTC:       info.hasRTC,
		HasRumble:    info.hasRumble,
		ROMBankCount: romBanks,
		RAMSize:      ramSize,
	}, nil
}

// MBC is the shared read/write surface every bank-controller variant
// implements; the bus dispatches through this interface without knowing
// which concrete variant it's holding.
type MBC interface {
	ReadROM(address uint16) uint8
	WriteROM(address uint16, value uint8)
	ReadRAM(address uint16) uint8
	WriteRAM(address uint16, value uint8)
}

// New constructs the MBC variant named by the header, wiring in the ROM
// image and a freshly allocated (or restored) RAM buffer.
func New(h *Header, rom []byte, ram []byte) (MBC, error) {
	if ram == nil {
		ram = make([]byte, h.RAMSize)
	}

	slog.Debug("MBC selected", "type", h.Type, "rom_banks", h.ROMBankCount, "ram_size", h.RAMSize, "battery", h.HasBattery, "rtc", h.HasRTC)

	switch h.Type {
	case TypeRomOnly:
		return &RomOnly{rom: rom}, nil
	case TypeMBC1:
		return &MBC1{rom: rom, ram: ram, romBank: 1}, nil
	case TypeMBC2:
		if len(ram) < 512 {
			ram = make([]byte, 512)
		}
		return &MBC2{rom: rom, ram: ram, romBank: 1}, nil
	case TypeMBC3:
		return &MBC3{rom: rom, ram: ram, romBank: 1, hasRTC: h.HasRTC}, nil
	case TypeMBC5:
		return &MBC5{rom: rom, ram: ram, romBank: 1, hasRumble: h.HasRumble}, nil
	default:
		return nil, &HeaderError{Field: "type", Value: uint8(h.Type)}
	}
}
