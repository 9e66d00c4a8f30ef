package cpu

// opFunc is a single opcode handler. It executes the instruction against the
// CPU (which owns the bus reference) and returns the elapsed cycle count.
type opFunc func(c *CPU) int

// primaryTable and cbTable are the two flat 256-entry dispatch arrays called
// for by the decoder design note, built once in init() below. Building the
// regular grids (LD r,r / ALU r / rotate-shift r / BIT-RES-SET b,r) with
// small loops avoids ~200 near-identical hand-written functions while still
// giving every opcode its own table slot.
var primaryTable [256]opFunc
var cbTable [256]opFunc

// r8 operand encoding, shared by the LD grid, the ALU grid, and the CB table.
var r8Operands = [8]RegID{RegB, RegC, RegD, RegE, RegH, RegL, RegHLInd, RegA}

// getR8 reads the r8 operand, fetching through (HL) when the slot selects it.
func getR8(c *CPU, id RegID) uint8 {
	if id == RegHLInd {
		return c.mem.Read(c.HL())
	}
	return c.Get8(id)
}

// setR8 writes the r8 operand, writing through (HL) when the slot selects it.
func setR8(c *CPU, id RegID, v uint8) {
	if id == RegHLInd {
		c.mem.Write(c.HL(), v)
		return
	}
	c.Set8(id, v)
}

func init() {
	buildLoadGrid()
	buildALUGrid()
	buildIncDecGrid()
	build16BitGrid()
	buildIrregularOpcodes()
	buildCBGrid()
}
