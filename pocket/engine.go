// Package pocket is the engine aggregate: it owns the cartridge, bus, and
// CPU for the lifetime of an emulation run and exposes the driver-facing
// step/flush/input surface. Everything peripheral to the CORE — windowing,
// ROM/RAM file I/O, audio synthesis, configuration parsing, and
// disassembly/logging presentation — is the caller's responsibility.
package pocket

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wrl-retro/pocketcore/pocket/bus"
	"github.com/wrl-retro/pocketcore/pocket/cart"
	"github.com/wrl-retro/pocketcore/pocket/cpu"
	"github.com/wrl-retro/pocketcore/pocket/joypad"
	"github.com/wrl-retro/pocketcore/pocket/video"
)

// cyclesPerFrame is the machine-cycle budget of one 160x144 frame at
// 4.194304 MHz / 59.7 Hz: 80+172+204 per visible line * 144 lines, plus ten
// 456-cycle V-blank lines.
const cyclesPerFrame = 70224

// DebuggerState mirrors the run/pause/step control surface a host UI can
// drive independently of the emulation loop.
type DebuggerState int

const (
	DebuggerRunning DebuggerState = iota
	DebuggerPaused
	DebuggerStep
	DebuggerStepFrame
)

// Engine is the root aggregate: cartridge, bus, and CPU for one run.
type Engine struct {
	cpu *cpu.CPU
	bus *bus.Bus

	debuggerMutex    sync.RWMutex
	debuggerState    DebuggerState
	stepRequested    bool
	frameRequested   bool
	instructionCount uint64
	frameCount       uint64
	cycleCount       uint64
}

// New parses the cartridge header out of romBytes, constructs the matching
// MBC (with ramBytes as its backing RAM, or a fresh buffer if nil), and
// returns an engine with the CPU reset for the given hardware model.
func New(config Config, romBytes []byte, ramBytes []byte) (*Engine, error) {
	if len(romBytes) == 0 || len(romBytes)%0x4000 != 0 {
		return nil, newError(KindCartridge, fmt.Sprintf("ROM length %d is not a multiple of 16 KiB", len(romBytes)), nil)
	}

	header, err := cart.ParseHeader(romBytes)
	if err != nil {
		return nil, newError(KindCartridge, "invalid cartridge header", err)
	}

	if len(romBytes) != header.ROMBankCount*0x4000 {
		return nil, newError(KindCartridge, fmt.Sprintf("ROM length %d does not match header bank count %d", len(romBytes), header.ROMBankCount), nil)
	}
	if ramBytes != nil && len(ramBytes) != header.RAMSize {
		return nil, newError(KindCartridge, fmt.Sprintf("RAM length %d does not match header size %d", len(ramBytes), header.RAMSize), nil)
	}

	mbc, err := cart.New(header, romBytes, ramBytes)
	if err != nil {
		return nil, newError(KindCartridge, "unsupported MBC configuration", err)
	}

	slog.Info("cartridge loaded", "title", header.Title, "type", header.Type, "rom_banks", header.ROMBankCount)

	b := bus.New(mbc)
	c := cpu.New(b)
	c.Reset(config.Model.resetA())

	return &Engine{cpu: c, bus: b}, nil
}

// Step runs exactly one CPU instruction (or interrupt dispatch, or halted
// tick), advances every peripheral by the elapsed cycle count, and returns
// that count.
func (e *Engine) Step() (int, error) {
	cycles, err := e.cpu.Step()
	if err != nil {
		var badOp *cpu.BadOpcodeError
		if errors.As(err, &badOp) {
			emuErr := newError(KindBadOpcode, fmt.Sprintf("opcode 0x%02X", badOp.Opcode), err)
			emuErr.Cycles = e.cycleCount
			return 0, emuErr
		}
		emuErr := newError(KindIo, "cpu step failed", err)
		emuErr.Cycles = e.cycleCount
		return 0, emuErr
	}

	e.bus.Tick(cycles)
	e.instructionCount++
	e.cycleCount += uint64(cycles)
	return cycles, nil
}

// Flush copies the current frame buffer into dst, which must be at least
// video.Width*video.Height entries long.
func (e *Engine) Flush(dst []uint32) {
	e.bus.PPU.FrameBuffer().CopyInto(dst)
}

// Down presses a key: a 1->0 transition on its matrix line raises the
// Joypad interrupt.
func (e *Engine) Down(key joypad.Key) { e.bus.Joypad.Down(key) }

// Up releases a key.
func (e *Engine) Up(key joypad.Key) { e.bus.Joypad.Up(key) }

// RunUntilFrame advances the engine until a full frame's worth of cycles has
// elapsed, honoring the current debugger state.
func (e *Engine) RunUntilFrame() error {
	e.debuggerMutex.RLock()
	state := e.debuggerState
	e.debuggerMutex.RUnlock()

	switch state {
	case DebuggerPaused:
		return nil
	case DebuggerStep:
		e.debuggerMutex.Lock()
		requested := e.stepRequested
		e.stepRequested = false
		e.debuggerMutex.Unlock()
		if !requested {
			return nil
		}
		if _, err := e.Step(); err != nil {
			return err
		}
		e.SetDebuggerState(DebuggerPaused)
		return nil
	case DebuggerStepFrame:
		e.debuggerMutex.Lock()
		requested := e.frameRequested
		e.frameRequested = false
		e.debuggerMutex.Unlock()
		if !requested {
			return nil
		}
		if err := e.runFrame(); err != nil {
			return err
		}
		e.SetDebuggerState(DebuggerPaused)
		return nil
	default:
		return e.runFrame()
	}
}

func (e *Engine) runFrame() error {
	total := 0
	for total < cyclesPerFrame {
		cycles, err := e.Step()
		if err != nil {
			return err
		}
		total += cycles
	}
	e.frameCount++
	return nil
}

// SetDebuggerState changes the debugger mode; safe to call from a goroutine
// other than the one driving Step/RunUntilFrame.
func (e *Engine) SetDebuggerState(state DebuggerState) {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.debuggerState = state
}

func (e *Engine) GetDebuggerState() DebuggerState {
	e.debuggerMutex.RLock()
	defer e.debuggerMutex.RUnlock()
	return e.debuggerState
}

func (e *Engine) Pause()  { e.SetDebuggerState(DebuggerPaused) }
func (e *Engine) Resume() { e.SetDebuggerState(DebuggerRunning) }

func (e *Engine) StepInstruction() {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.stepRequested = true
	e.debuggerState = DebuggerStep
}

func (e *Engine) StepFrame() {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.frameRequested = true
	e.debuggerState = DebuggerStepFrame
}

func (e *Engine) InstructionCount() uint64 { return e.instructionCount }
func (e *Engine) FrameCount() uint64       { return e.frameCount }
func (e *Engine) CycleCount() uint64       { return e.cycleCount }

// FrameBuffer exposes the PPU's frame buffer directly, for callers that
// don't need the Flush copy-out.
func (e *Engine) FrameBuffer() *video.FrameBuffer { return e.bus.PPU.FrameBuffer() }
