package pocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrl-retro/pocketcore/pocket/video"
)

// newLoopingROM builds a minimal valid RomOnly header with an infinite
// "JR -2" self-loop at the entry point, so Step/RunUntilFrame can be driven
// indefinitely without ever executing header bytes as opcodes.
func newLoopingROM(t *testing.T) []byte {
	t.Helper()
	rom := make([]byte, 0x8000)
	rom[0x0100] = 0x18 // JR e8
	rom[0x0101] = 0xFE // -2: jump back to 0x0100
	rom[0x0147] = 0x00 // ROM ONLY
	rom[0x0148] = 0x00 // 2 banks (32 KiB)
	rom[0x0149] = 0x00 // no RAM
	return rom
}

func TestNewRejectsROMLengthNotAMultipleOf16KiB(t *testing.T) {
	_, err := New(Config{Model: ModelDMG}, make([]byte, 100), nil)
	require.Error(t, err)
	var emuErr *EmulationError
	require.ErrorAs(t, err, &emuErr)
	assert.Equal(t, KindCartridge, emuErr.Kind)
}

func TestNewRejectsROMLengthMismatchingHeaderBankCount(t *testing.T) {
	rom := newLoopingROM(t)
	rom[0x0148] = 0x01 // header claims 4 banks (64 KiB), rom is only 32 KiB
	_, err := New(Config{Model: ModelDMG}, rom, nil)
	require.Error(t, err)
	var emuErr *EmulationError
	require.ErrorAs(t, err, &emuErr)
	assert.Equal(t, KindCartridge, emuErr.Kind)
}

func TestNewResetsRegistersForRequestedModel(t *testing.T) {
	rom := newLoopingROM(t)

	dmg, err := New(Config{Model: ModelDMG}, rom, nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), dmg.cpu.A())
	cycles, err := dmg.Step()
	require.NoError(t, err)
	assert.NotZero(t, cycles)

	cgb, err := New(Config{Model: ModelCGB}, rom, nil)
	require.NoError(t, err)
	assert.NotNil(t, cgb)
	assert.Equal(t, uint8(0x11), cgb.cpu.A())
}

func TestStepAccumulatesInstructionAndCycleCounts(t *testing.T) {
	e, err := New(Config{Model: ModelDMG}, newLoopingROM(t), nil)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := e.Step()
		require.NoError(t, err)
	}

	assert.Equal(t, uint64(10), e.InstructionCount())
	assert.NotZero(t, e.CycleCount())
}

func TestRunUntilFrameAdvancesAFullFrameOfCycles(t *testing.T) {
	e, err := New(Config{Model: ModelDMG}, newLoopingROM(t), nil)
	require.NoError(t, err)

	require.NoError(t, e.RunUntilFrame())

	assert.Equal(t, uint64(1), e.FrameCount())
	assert.GreaterOrEqual(t, e.CycleCount(), uint64(70224))
}

func TestFlushCopiesOutTheFrameBuffer(t *testing.T) {
	e, err := New(Config{Model: ModelDMG}, newLoopingROM(t), nil)
	require.NoError(t, err)

	dst := make([]uint32, video.Size)
	e.Flush(dst)
	assert.Len(t, dst, video.Size)
}

func TestDebuggerPauseStopsRunUntilFrame(t *testing.T) {
	e, err := New(Config{Model: ModelDMG}, newLoopingROM(t), nil)
	require.NoError(t, err)

	e.Pause()
	require.NoError(t, e.RunUntilFrame())
	assert.Equal(t, uint64(0), e.FrameCount())

	e.Resume()
	require.NoError(t, e.RunUntilFrame())
	assert.Equal(t, uint64(1), e.FrameCount())
}
