package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReg16HighLowRoundTrip(t *testing.T) {
	var r reg16
	r.set(0xABCD)

	assert.Equal(t, uint8(0xAB), r.high())
	assert.Equal(t, uint8(0xCD), r.low())

	r.setHigh(0x12)
	assert.Equal(t, uint16(0x12CD), r.get())

	r.setLow(0x34)
	assert.Equal(t, uint16(0x1234), r.get())
}

func TestRegistersBCAliasesHighLow(t *testing.T) {
	var r Registers
	r.SetB(0x11)
	r.SetC(0x22)

	assert.Equal(t, uint16(0x1122), r.BC())

	r.SetBC(0x3344)
	assert.Equal(t, uint8(0x33), r.B())
	assert.Equal(t, uint8(0x44), r.C())
}

func TestSetFLowNibbleAlwaysZero(t *testing.T) {
	var r Registers
	r.SetF(0xFF)
	assert.Equal(t, uint8(0xF0), r.F())

	r.SetAF(0x12FF)
	assert.Equal(t, uint16(0x12F0), r.AF())
}

func TestFlagSetAndClearIndividually(t *testing.T) {
	var r Registers
	r.SetFlag(FlagZ, true)
	r.SetFlag(FlagC, true)

	assert.True(t, r.Flag(FlagZ))
	assert.False(t, r.Flag(FlagN))
	assert.False(t, r.Flag(FlagH))
	assert.True(t, r.Flag(FlagC))

	r.SetFlag(FlagZ, false)
	assert.False(t, r.Flag(FlagZ))
	assert.True(t, r.Flag(FlagC))
}

func TestGet8Set8RoundTripForEveryOperand(t *testing.T) {
	var r Registers
	ids := []RegID{RegB, RegC, RegD, RegE, RegH, RegL, RegA}
	for i, id := range ids {
		v := uint8(i*16 + 1)
		r.Set8(id, v)
		assert.Equal(t, v, r.Get8(id), "register id %d", id)
	}
}

func TestGet8PanicsOnRegHLInd(t *testing.T) {
	var r Registers
	assert.Panics(t, func() { r.Get8(RegHLInd) })
}

func TestResetSetsModelDependentAAndFixedDefaults(t *testing.T) {
	var r Registers
	r.Reset(0x11)

	assert.Equal(t, uint8(0x11), r.A())
	assert.Equal(t, uint16(0x0013), r.BC())
	assert.Equal(t, uint16(0x00D8), r.DE())
	assert.Equal(t, uint16(0x014D), r.HL())
	assert.Equal(t, uint16(0xFFFE), r.SP())
	assert.Equal(t, uint16(0x0100), r.PC())
	assert.False(t, r.IME())
}

func TestRequestDelayedEnableDoesNotSetIMEImmediately(t *testing.T) {
	var r Registers
	r.RequestDelayedEnable()
	assert.False(t, r.IME())
}
