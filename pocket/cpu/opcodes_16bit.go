package cpu

// build16BitGrid fills 16-bit INC/DEC/ADD HL,rr for the BC,DE,HL,SP grid.
func build16BitGrid() {
	rp := [4]RegID{RegBC, RegDE, RegHL, RegSP}

	for i, id := range rp {
		id := id
		incOpcode := uint8(0x03 + i*0x10)
		decOpcode := uint8(0x0B + i*0x10)
		addOpcode := uint8(0x09 + i*0x10)

		primaryTable[incOpcode] = func(c *CPU) int {
			c.Set16(id, c.Get16(id)+1)
			return 8
		}
		primaryTable[decOpcode] = func(c *CPU) int {
			c.Set16(id, c.Get16(id)-1)
			return 8
		}
		primaryTable[addOpcode] = func(c *CPU) int {
			result, n, h, cf := addHL16(c.HL(), c.Get16(id))
			c.SetHL(result)
			c.SetFlag(FlagN, n)
			c.SetFlag(FlagH, h)
			c.SetFlag(FlagC, cf)
			return 8
		}
	}
}
