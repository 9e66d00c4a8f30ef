// Package render is the terminal front end: it draws the engine's frame
// buffer into a tcell screen using half-block characters (two emulated
// scanlines per terminal row) and turns key events into joypad input. None
// of this is part of the CORE — it is the outer front-end glue the engine's
// Config/Engine surface is built to be driven by.
package render

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/wrl-retro/pocketcore/pocket"
	"github.com/wrl-retro/pocketcore/pocket/joypad"
	"github.com/wrl-retro/pocketcore/pocket/video"
)

const (
	frameTime = time.Second / 60

	minTermWidth  = video.Width
	minTermHeight = video.Height/2 + 1
)

// shadeColors maps a 2-bit Game Boy color index to the four grayscale tcell
// colors the renderer draws with.
var shadeColors = [4]tcell.Color{
	tcell.ColorBlack,
	tcell.ColorGray,
	tcell.ColorSilver,
	tcell.ColorWhite,
}

// shadeFor maps a packed 0x00RRGGBB frame buffer pixel back to the palette
// index it came from, so the renderer can pick a half-block glyph without
// caring about the exact RGB values in video.palette.
func shadeFor(pixel uint32) int {
	switch pixel {
	case 0x081820:
		return 0
	case 0x346856:
		return 1
	case 0x88C070:
		return 2
	default:
		return 3
	}
}

// Terminal drives a tcell screen from an *pocket.Engine at 60 Hz, translating
// arrow keys / a / s / Enter / Space into joypad presses.
type Terminal struct {
	screen tcell.Screen
	engine *pocket.Engine
	frame  [video.Size]uint32
	quit   chan struct{}
}

// New queries the terminal size via golang.org/x/term before touching
// tcell, so a terminal smaller than the half-block canvas fails with a clear
// error. When stdout is not a terminal the size check is skipped and tcell's
// own initialization decides whether New succeeds.
func New(engine *pocket.Engine) (*Terminal, error) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if w < minTermWidth || h < minTermHeight {
				return nil, fmt.Errorf("render: terminal %dx%d is smaller than the minimum %dx%d", w, h, minTermWidth, minTermHeight)
			}
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("render: failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("render: failed to initialize terminal: %w", err)
	}

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	return &Terminal{screen: screen, engine: engine, quit: make(chan struct{})}, nil
}

// Run drives the frame loop at 60Hz until the user quits or the process
// receives an interrupt/terminate signal.
func (t *Terminal) Run() error {
	defer t.screen.Fini()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go t.pollInput()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for {
		select {
		case <-signals:
			return nil
		case <-t.quit:
			return nil
		case <-ticker.C:
			if err := t.engine.RunUntilFrame(); err != nil {
				return err
			}
			t.draw()
			t.screen.Show()
		}
	}
}

func (t *Terminal) pollInput() {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if !t.handleKey(ev) {
				close(t.quit)
				return
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

// handleKey applies a joypad press/release for the given key and returns
// false when the key requests the renderer quit.
func (t *Terminal) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		t.engine.Down(joypad.Start)
	case tcell.KeyRight:
		t.engine.Down(joypad.Right)
	case tcell.KeyLeft:
		t.engine.Down(joypad.Left)
	case tcell.KeyUp:
		t.engine.Down(joypad.Up)
	case tcell.KeyDown:
		t.engine.Down(joypad.Down)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'a':
			t.engine.Down(joypad.A)
		case 's':
			t.engine.Down(joypad.B)
		case ' ':
			t.engine.Down(joypad.Select)
		}
	}
	return true
}

func (t *Terminal) draw() {
	t.engine.Flush(t.frame[:])

	for y := 0; y < video.Height; y += 2 {
		for x := 0; x < video.Width; x++ {
			topShade := shadeFor(t.frame[y*video.Width+x])
			bottomShade := 3
			if y+1 < video.Height {
				bottomShade = shadeFor(t.frame[(y+1)*video.Width+x])
			}

			char, fg, bg := halfBlockGlyph(topShade, bottomShade)
			t.screen.SetContent(x, y/2, char, nil, tcell.StyleDefault.Foreground(fg).Background(bg))
		}
	}
}

// halfBlockGlyph picks a full block when both scanline shades match and an
// upper-half block (top shade as foreground, bottom shade as background)
// otherwise, so that a single terminal cell can show two distinct scanline
// shades at once.
func halfBlockGlyph(topShade, bottomShade int) (rune, tcell.Color, tcell.Color) {
	top, bottom := shadeColors[topShade], shadeColors[bottomShade]

	if topShade == bottomShade {
		return '█', top, tcell.ColorDefault
	}
	return '▀', top, bottom
}
