package cpu

// buildLoadGrid fills the 0x40-0x7F LD r,r' block (8x8 grid minus the 0x76
// slot, which HALT occupies instead of "LD (HL),(HL)"), plus the scattered
// LD r,n / LD rr,nn / LD (rr),A family and the handful of irregular
// memory-indirect loads (LDH, LD (nn),SP, etc).
func buildLoadGrid() {
	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		if opcode == 0x76 {
			primaryTable[opcode] = opHalt
			continue
		}

		dst := r8Operands[(opcode>>3)&0x7]
		src := r8Operands[opcode&0x7]
		cycles := 4
		if dst == RegHLInd || src == RegHLInd {
			cycles = 8
		}

		primaryTable[opcode] = func(c *CPU) int {
			setR8(c, dst, getR8(c, src))
			return cycles
		}
	}

	// LD r,n  (8-bit immediate loads)
	immOpcodes := map[uint8]RegID{
		0x06: RegB, 0x0E: RegC,
		0x16: RegD, 0x1E: RegE,
		0x26: RegH, 0x2E: RegL,
		0x36: RegHLInd, 0x3E: RegA,
	}
	for opcode, dst := range immOpcodes {
		dst := dst
		cycles := 8
		if dst == RegHLInd {
			cycles = 12
		}
		primaryTable[opcode] = func(c *CPU) int {
			n := c.fetch8()
			setR8(c, dst, n)
			return cycles
		}
	}

	// LD rr,nn (16-bit immediate loads)
	rr16 := map[uint8]RegID{0x01: RegBC, 0x11: RegDE, 0x21: RegHL, 0x31: RegSP}
	for opcode, dst := range rr16 {
		dst := dst
		primaryTable[opcode] = func(c *CPU) int {
			c.Set16(dst, c.fetch16())
			return 12
		}
	}

	primaryTable[0x02] = func(c *CPU) int { c.mem.Write(c.BC(), c.A()); return 8 }
	primaryTable[0x12] = func(c *CPU) int { c.mem.Write(c.DE(), c.A()); return 8 }
	primaryTable[0x0A] = func(c *CPU) int { c.SetA(c.mem.Read(c.BC())); return 8 }
	primaryTable[0x1A] = func(c *CPU) int { c.SetA(c.mem.Read(c.DE())); return 8 }

	primaryTable[0x22] = func(c *CPU) int { // LD (HL+),A
		c.mem.Write(c.HL(), c.A())
		c.SetHL(c.HL() + 1)
		return 8
	}
	primaryTable[0x32] = func(c *CPU) int { // LD (HL-),A
		c.mem.Write(c.HL(), c.A())
		c.SetHL(c.HL() - 1)
		return 8
	}
	primaryTable[0x2A] = func(c *CPU) int { // LD A,(HL+)
		c.SetA(c.mem.Read(c.HL()))
		c.SetHL(c.HL() + 1)
		return 8
	}
	primaryTable[0x3A] = func(c *CPU) int { // LD A,(HL-)
		c.SetA(c.mem.Read(c.HL()))
		c.SetHL(c.HL() - 1)
		return 8
	}

	primaryTable[0x08] = func(c *CPU) int { // LD (nn),SP
		addr := c.fetch16()
		c.mem.Write(addr, bitLow(c.SP()))
		c.mem.Write(addr+1, bitHigh(c.SP()))
		return 20
	}

	primaryTable[0xEA] = func(c *CPU) int { // LD (nn),A
		c.mem.Write(c.fetch16(), c.A())
		return 16
	}
	primaryTable[0xFA] = func(c *CPU) int { // LD A,(nn)
		c.SetA(c.mem.Read(c.fetch16()))
		return 16
	}

	primaryTable[0xE0] = func(c *CPU) int { // LDH (n),A
		c.mem.Write(0xFF00+uint16(c.fetch8()), c.A())
		return 12
	}
	primaryTable[0xF0] = func(c *CPU) int { // LDH A,(n)
		c.SetA(c.mem.Read(0xFF00 + uint16(c.fetch8())))
		return 12
	}
	primaryTable[0xE2] = func(c *CPU) int { // LD (C),A
		c.mem.Write(0xFF00+uint16(c.C()), c.A())
		return 8
	}
	primaryTable[0xF2] = func(c *CPU) int { // LD A,(C)
		c.SetA(c.mem.Read(0xFF00 + uint16(c.C())))
		return 8
	}

	primaryTable[0xF9] = func(c *CPU) int { // LD SP,HL
		c.SetSP(c.HL())
		return 8
	}

	primaryTable[0xF8] = func(c *CPU) int { // LD HL,SP+e8
		e := int8(c.fetch8())
		result, h, cf := addSPSigned(c.SP(), e)
		c.SetHL(result)
		c.SetFlag(FlagZ, false)
		c.SetFlag(FlagN, false)
		c.SetFlag(FlagH, h)
		c.SetFlag(FlagC, cf)
		return 12
	}

	// PUSH/POP use the BC,DE,HL,AF grid (distinct from the BC,DE,HL,SP grid
	// used by 16-bit LD/INC/DEC/ADD HL).
	pushPop := [4]RegID{RegBC, RegDE, RegHL, RegAF}
	for i, rp := range pushPop {
		rp := rp
		primaryTable[uint8(0xC5+i*0x10)] = func(c *CPU) int { // PUSH rr
			c.push16(c.Get16(rp))
			return 16
		}
		primaryTable[uint8(0xC1+i*0x10)] = func(c *CPU) int { // POP rr
			c.Set16(rp, c.pop16())
			return 12
		}
	}
}

func opHalt(c *CPU) int {
	c.halt()
	return 4
}
