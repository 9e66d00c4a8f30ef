package cpu

// buildCBGrid fills the full 256-entry 0xCB-prefixed extension table: the
// rotate/shift/swap grid (0x00-0x3F), then BIT (0x40-0x7F), RES (0x80-0xBF),
// and SET (0xC0-0xFF), each an 8 (operation or bit) x 8 (r8 operand) grid.
func buildCBGrid() {
	rotOps := [8]func(c *CPU, v uint8) (uint8, bool, bool){
		func(c *CPU, v uint8) (uint8, bool, bool) { return rlc(v) },
		func(c *CPU, v uint8) (uint8, bool, bool) { return rrc(v) },
		func(c *CPU, v uint8) (uint8, bool, bool) { return rl(v, c.Flag(FlagC)) },
		func(c *CPU, v uint8) (uint8, bool, bool) { return rr(v, c.Flag(FlagC)) },
		func(c *CPU, v uint8) (uint8, bool, bool) { return sla(v) },
		func(c *CPU, v uint8) (uint8, bool, bool) { return sra(v) },
		func(c *CPU, v uint8) (uint8, bool, bool) {
			result, z := swap8(v)
			return result, z, false
		},
		func(c *CPU, v uint8) (uint8, bool, bool) { return srl(v) },
	}

	for opcode := 0x00; opcode <= 0x3F; opcode++ {
		op := rotOps[(opcode>>3)&0x7]
		src := r8Operands[opcode&0x7]
		cycles := 8
		if src == RegHLInd {
			cycles = 16
		}
		cbTable[opcode] = func(c *CPU) int {
			result, z, cf := op(c, getR8(c, src))
			setR8(c, src, result)
			c.SetFlag(FlagZ, z)
			c.SetFlag(FlagN, false)
			c.SetFlag(FlagH, false)
			c.SetFlag(FlagC, cf)
			return cycles
		}
	}

	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		bitIndex := uint8((opcode >> 3) & 0x7)
		src := r8Operands[opcode&0x7]
		cycles := 8
		if src == RegHLInd {
			cycles = 12
		}
		cbTable[opcode] = func(c *CPU) int {
			z := bitTest(getR8(c, src), bitIndex)
			c.SetFlag(FlagZ, z)
			c.SetFlag(FlagN, false)
			c.SetFlag(FlagH, true)
			return cycles
		}
	}

	for opcode := 0x80; opcode <= 0xBF; opcode++ {
		bitIndex := uint8((opcode >> 3) & 0x7)
		src := r8Operands[opcode&0x7]
		cycles := 8
		if src == RegHLInd {
			cycles = 16
		}
		cbTable[opcode] = func(c *CPU) int {
			v := getR8(c, src) &^ (1 << bitIndex)
			setR8(c, src, v)
			return cycles
		}
	}

	for opcode := 0xC0; opcode <= 0xFF; opcode++ {
		bitIndex := uint8((opcode >> 3) & 0x7)
		src := r8Operands[opcode&0x7]
		cycles := 8
		if src == RegHLInd {
			cycles = 16
		}
		cbTable[opcode] = func(c *CPU) int {
			v := getR8(c, src) | (1 << bitIndex)
			setR8(c, src, v)
			return cycles
		}
	}
}
