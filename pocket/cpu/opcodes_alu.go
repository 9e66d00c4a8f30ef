package cpu

// buildALUGrid fills the 0x80-0xBF 8-bit ALU-against-register block and the
// matching 0xC6/CE/D6/DE/E6/EE/F6/FE ALU-against-immediate opcodes.
func buildALUGrid() {
	ops := [8]func(c *CPU, operand uint8){
		aluAdd, aluAdc, aluSub, aluSbc, aluAnd, aluXor, aluOr, aluCp,
	}

	for opcode := 0x80; opcode <= 0xBF; opcode++ {
		op := ops[(opcode>>3)&0x7]
		src := r8Operands[opcode&0x7]
		cycles := 4
		if src == RegHLInd {
			cycles = 8
		}
		primaryTable[opcode] = func(c *CPU) int {
			op(c, getR8(c, src))
			return cycles
		}
	}

	immOps := map[uint8]func(c *CPU, operand uint8){
		0xC6: aluAdd, 0xCE: aluAdc, 0xD6: aluSub, 0xDE: aluSbc,
		0xE6: aluAnd, 0xEE: aluXor, 0xF6: aluOr, 0xFE: aluCp,
	}
	for opcode, op := range immOps {
		op := op
		primaryTable[opcode] = func(c *CPU) int {
			op(c, c.fetch8())
			return 8
		}
	}
}

func (c *CPU) applyFlags(z, n, h, cf bool) {
	c.SetFlag(FlagZ, z)
	c.SetFlag(FlagN, n)
	c.SetFlag(FlagH, h)
	c.SetFlag(FlagC, cf)
}

func aluAdd(c *CPU, operand uint8) {
	result, z, n, h, cf := add8(c.A(), operand)
	c.SetA(result)
	c.applyFlags(z, n, h, cf)
}

func aluAdc(c *CPU, operand uint8) {
	result, z, n, h, cf := adc8(c.A(), operand, c.Flag(FlagC))
	c.SetA(result)
	c.applyFlags(z, n, h, cf)
}

func aluSub(c *CPU, operand uint8) {
	result, z, n, h, cf := sub8(c.A(), operand)
	c.SetA(result)
	c.applyFlags(z, n, h, cf)
}

func aluSbc(c *CPU, operand uint8) {
	result, z, n, h, cf := sbc8(c.A(), operand, c.Flag(FlagC))
	c.SetA(result)
	c.applyFlags(z, n, h, cf)
}

func aluAnd(c *CPU, operand uint8) {
	result, z, n, h, cf := and8(c.A(), operand)
	c.SetA(result)
	c.applyFlags(z, n, h, cf)
}

func aluXor(c *CPU, operand uint8) {
	result, z, n, h, cf := xor8(c.A(), operand)
	c.SetA(result)
	c.applyFlags(z, n, h, cf)
}

func aluOr(c *CPU, operand uint8) {
	result, z, n, h, cf := or8(c.A(), operand)
	c.SetA(result)
	c.applyFlags(z, n, h, cf)
}

// aluCp is SUB without storing the result, used for comparisons.
func aluCp(c *CPU, operand uint8) {
	_, z, n, h, cf := sub8(c.A(), operand)
	c.applyFlags(z, n, h, cf)
}

// buildIncDecGrid fills the 8-bit INC r / DEC r opcodes, which preserve C.
func buildIncDecGrid() {
	for i, reg := range r8Operands {
		reg := reg
		cyclesInc, cyclesDec := 4, 4
		if reg == RegHLInd {
			cyclesInc, cyclesDec = 12, 12
		}

		incOpcode := uint8(8*i + 4)
		decOpcode := uint8(8*i + 5)

		primaryTable[incOpcode] = func(c *CPU) int {
			result, z, n, h := inc8(getR8(c, reg))
			setR8(c, reg, result)
			c.SetFlag(FlagZ, z)
			c.SetFlag(FlagN, n)
			c.SetFlag(FlagH, h)
			return cyclesInc
		}
		primaryTable[decOpcode] = func(c *CPU) int {
			result, z, n, h := dec8(getR8(c, reg))
			setR8(c, reg, result)
			c.SetFlag(FlagZ, z)
			c.SetFlag(FlagN, n)
			c.SetFlag(FlagH, h)
			return cyclesDec
		}
	}
}
