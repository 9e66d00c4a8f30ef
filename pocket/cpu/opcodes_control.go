package cpu

// buildIrregularOpcodes fills every primary-table slot that doesn't fit one
// of the regular grids: control flow, stack/interrupt control, and the
// handful of single-purpose accumulator/flag opcodes.
func buildIrregularOpcodes() {
	primaryTable[0x00] = func(c *CPU) int { return 4 } // NOP
	primaryTable[0x10] = func(c *CPU) int { // STOP
		c.fetch8() // STOP is followed by one (ignored, in this model) byte
		return 4
	}

	primaryTable[0xF3] = func(c *CPU) int { c.SetIME(false); return 4 }    // DI
	primaryTable[0xFB] = func(c *CPU) int { c.RequestDelayedEnable(); return 4 } // EI

	primaryTable[0x07] = func(c *CPU) int { // RLCA
		result, _, cf := rlc(c.A())
		c.SetA(result)
		c.applyFlags(false, false, false, cf)
		return 4
	}
	primaryTable[0x17] = func(c *CPU) int { // RLA
		result, _, cf := rl(c.A(), c.Flag(FlagC))
		c.SetA(result)
		c.applyFlags(false, false, false, cf)
		return 4
	}
	primaryTable[0x0F] = func(c *CPU) int { // RRCA
		result, _, cf := rrc(c.A())
		c.SetA(result)
		c.applyFlags(false, false, false, cf)
		return 4
	}
	primaryTable[0x1F] = func(c *CPU) int { // RRA
		result, _, cf := rr(c.A(), c.Flag(FlagC))
		c.SetA(result)
		c.applyFlags(false, false, false, cf)
		return 4
	}

	primaryTable[0x2F] = func(c *CPU) int { // CPL
		c.SetA(c.A() ^ 0xFF)
		c.SetFlag(FlagN, true)
		c.SetFlag(FlagH, true)
		return 4
	}
	primaryTable[0x37] = func(c *CPU) int { // SCF
		c.SetFlag(FlagN, false)
		c.SetFlag(FlagH, false)
		c.SetFlag(FlagC, true)
		return 4
	}
	primaryTable[0x3F] = func(c *CPU) int { // CCF
		c.SetFlag(FlagN, false)
		c.SetFlag(FlagH, false)
		c.SetFlag(FlagC, !c.Flag(FlagC))
		return 4
	}
	primaryTable[0x27] = func(c *CPU) int { // DAA
		a := c.A()
		adjust := uint8(0)
		carry := c.Flag(FlagC)

		if c.Flag(FlagH) || (!c.Flag(FlagN) && a&0xF > 9) {
			adjust |= 0x06
		}
		if carry || (!c.Flag(FlagN) && a > 0x99) {
			adjust |= 0x60
			carry = true
		}

		if c.Flag(FlagN) {
			a -= adjust
		} else {
			a += adjust
		}

		c.SetA(a)
		c.SetFlag(FlagZ, a == 0)
		c.SetFlag(FlagH, false)
		c.SetFlag(FlagC, carry)
		return 4
	}

	primaryTable[0xE8] = func(c *CPU) int { // ADD SP,e8
		e := int8(c.fetch8())
		result, h, cf := addSPSigned(c.SP(), e)
		c.SetSP(result)
		c.applyFlags(false, false, h, cf)
		return 16
	}

	buildJumps()
	buildCallsAndReturns()
}

type condition uint8

const (
	condNZ condition = iota
	condZ
	condNC
	condC
)

func (c *CPU) check(cond condition) bool {
	switch cond {
	case condNZ:
		return !c.Flag(FlagZ)
	case condZ:
		return c.Flag(FlagZ)
	case condNC:
		return !c.Flag(FlagC)
	case condC:
		return c.Flag(FlagC)
	default:
		return false
	}
}

func buildJumps() {
	primaryTable[0xC3] = func(c *CPU) int { c.SetPC(c.fetch16()); return 16 } // JP nn
	primaryTable[0xE9] = func(c *CPU) int { c.SetPC(c.HL()); return 4 }       // JP (HL)

	condJP := map[uint8]condition{0xC2: condNZ, 0xCA: condZ, 0xD2: condNC, 0xDA: condC}
	for opcode, cond := range condJP {
		cond := cond
		primaryTable[opcode] = func(c *CPU) int {
			target := c.fetch16()
			if c.check(cond) {
				c.SetPC(target)
				return 16
			}
			return 12
		}
	}

	primaryTable[0x18] = func(c *CPU) int { // JR e8
		e := int8(c.fetch8())
		c.SetPC(uint16(int32(c.PC()) + int32(e)))
		return 12
	}
	condJR := map[uint8]condition{0x20: condNZ, 0x28: condZ, 0x30: condNC, 0x38: condC}
	for opcode, cond := range condJR {
		cond := cond
		primaryTable[opcode] = func(c *CPU) int {
			e := int8(c.fetch8())
			if c.check(cond) {
				c.SetPC(uint16(int32(c.PC()) + int32(e)))
				return 12
			}
			return 8
		}
	}
}

func buildCallsAndReturns() {
	primaryTable[0xCD] = func(c *CPU) int { // CALL nn
		target := c.fetch16()
		c.push16(c.PC())
		c.SetPC(target)
		return 24
	}
	condCALL := map[uint8]condition{0xC4: condNZ, 0xCC: condZ, 0xD4: condNC, 0xDC: condC}
	for opcode, cond := range condCALL {
		cond := cond
		primaryTable[opcode] = func(c *CPU) int {
			target := c.fetch16()
			if c.check(cond) {
				c.push16(c.PC())
				c.SetPC(target)
				return 24
			}
			return 12
		}
	}

	primaryTable[0xC9] = func(c *CPU) int { c.SetPC(c.pop16()); return 16 } // RET
	primaryTable[0xD9] = func(c *CPU) int { // RETI
		c.SetPC(c.pop16())
		c.SetIME(true)
		return 16
	}
	condRET := map[uint8]condition{0xC0: condNZ, 0xC8: condZ, 0xD0: condNC, 0xD8: condC}
	for opcode, cond := range condRET {
		cond := cond
		primaryTable[opcode] = func(c *CPU) int {
			if c.check(cond) {
				c.SetPC(c.pop16())
				return 20
			}
			return 8
		}
	}

	for i := 0; i < 8; i++ {
		vector := uint16(i * 8)
		opcode := uint8(0xC7 + i*0x08)
		primaryTable[opcode] = func(c *CPU) int {
			c.push16(c.PC())
			c.SetPC(vector)
			return 16
		}
	}
}
