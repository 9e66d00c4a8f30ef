// Package cpu implements the Z80-derived interpreter: register file, ALU
// helpers, the primary and CB-prefixed opcode tables, and the fetch/decode/
// execute/interrupt-dispatch step loop.
package cpu

import (
	"fmt"
	"log/slog"
)

// Memory is the bus surface the CPU needs: byte-addressable read/write over
// the full 16-bit space, including the memory-mapped IF/IE registers. The
// CPU never special-cases those addresses; it reads and writes them like any
// other byte, exactly as the real hardware does.
type Memory interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

const (
	addrIF uint16 = 0xFF0F
	addrIE uint16 = 0xFFFF
)

// interruptSource describes one of the five maskable interrupts, in priority order.
type interruptSource struct {
	bit    uint8
	vector uint16
}

var interruptPriority = [5]interruptSource{
	{bit: 0, vector: 0x40}, // V-Blank
	{bit: 1, vector: 0x48}, // LCD STAT
	{bit: 2, vector: 0x50}, // Timer
	{bit: 3, vector: 0x58}, // Serial
	{bit: 4, vector: 0x60}, // Joypad
}

// BadOpcodeError is returned when the decoder encounters an opcode with no
// handler (the eleven genuinely undefined primary-table bytes).
type BadOpcodeError struct {
	Opcode uint8
	CB     bool
	PC     uint16
}

func (e *BadOpcodeError) Error() string {
	if e.CB {
		return fmt.Sprintf("cpu: undefined CB opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
	}
	return fmt.Sprintf("cpu: undefined opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
}

// CPU is the register file plus the fetch/decode/execute loop. It borrows the
// bus exactly once per Step call and holds no other shared state.
type CPU struct {
	Registers

	mem Memory
}

// New returns a CPU wired to the given bus, with registers at their
// power-on-reset values for the DMG model. Callers that need a different
// hardware model should call Reset with the model's A value afterwards.
func New(mem Memory) *CPU {
	c := &CPU{mem: mem}
	c.Reset(0x01)
	return c
}

func (c *CPU) fetch8() uint8 {
	v := c.mem.Read(c.PC())
	if !c.haltBug {
		c.SetPC(c.PC() + 1)
	}
	c.haltBug = false
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push16(v uint16) {
	c.SetSP(c.SP() - 1)
	c.mem.Write(c.SP(), bitHigh(v))
	c.SetSP(c.SP() - 1)
	c.mem.Write(c.SP(), bitLow(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.mem.Read(c.SP())
	c.SetSP(c.SP() + 1)
	hi := c.mem.Read(c.SP())
	c.SetSP(c.SP() + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func bitHigh(v uint16) uint8 { return uint8(v >> 8) }
func bitLow(v uint16) uint8  { return uint8(v) }

// pendingInterrupts returns the set of bits that are both requested (IF) and
// enabled (IE).
func (c *CPU) pendingInterrupts() uint8 {
	return c.mem.Read(addrIF) & c.mem.Read(addrIE)
}

// Step advances the CPU by exactly one instruction (or one interrupt
// dispatch, or one halted tick) and returns the number of cycles elapsed, in
// the same 4-per-bus-cycle unit the opcode tables report.
//
// Ordering follows the decoder spec precisely: interrupt check, then (if
// still running) fetch/decode/execute, with the EI-delayed enable applied
// after the instruction that follows EI itself.
func (c *CPU) Step() (int, error) {
	if cycles, handled := c.serviceInterrupt(); handled {
		return cycles, nil
	}

	if c.halted {
		return 4, nil
	}

	enableAfter := c.imePending
	c.imePending = false

	opcode := c.fetch8()

	var handler opFunc
	if opcode == 0xCB {
		cbOpcode := c.fetch8()
		handler = cbTable[cbOpcode]
		if handler == nil {
			return 0, &BadOpcodeError{Opcode: cbOpcode, CB: true, PC: c.PC() - 2}
		}
	} else {
		handler = primaryTable[opcode]
		if handler == nil {
			return 0, &BadOpcodeError{Opcode: opcode, CB: false, PC: c.PC() - 1}
		}
	}

	cycles := handler(c)

	if enableAfter {
		c.ime = true
	}

	if cycles == 0 {
		cycles = 4
	}
	return cycles, nil
}

// serviceInterrupt implements §4.8 step 1: interrupt dispatch takes priority
// over instruction execution, and a HALT with IME=0 wakes on any pending
// line without entering the ISR.
func (c *CPU) serviceInterrupt() (cycles int, handled bool) {
	pending := c.pendingInterrupts()

	if c.halted && pending != 0 && !c.ime {
		c.halted = false
		return 0, false
	}

	if !c.ime || pending == 0 {
		return 0, false
	}

	c.halted = false

	for _, src := range interruptPriority {
		if pending&(1<<src.bit) == 0 {
			continue
		}

		iflags := c.mem.Read(addrIF)
		c.mem.Write(addrIF, iflags&^(1<<src.bit))

		c.ime = false
		slog.Debug("interrupt dispatch", "bit", src.bit, "vector", src.vector, "pc", c.PC())
		c.push16(c.PC())
		c.SetPC(src.vector)
		return 20, true
	}

	return 0, false
}

// halt implements the HALT opcode, including the documented hardware quirk:
// executing HALT while IME=0 with an interrupt already pending causes the
// very next fetch to read the same byte twice (PC does not advance on it).
func (c *CPU) halt() {
	pending := c.pendingInterrupts()
	if !c.ime && pending != 0 {
		c.haltBug = true
		return
	}
	c.halted = true
}
