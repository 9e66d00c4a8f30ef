// Package video implements the picture processing unit: the four-mode
// scanline state machine, VRAM/OAM storage, and the background/window/sprite
// rasterizer that fills a 160x144 frame buffer one line at a time.
package video

import "log/slog"

// Mode is the PPU's current rendering stage; its numeric value is exactly
// what STAT bits 1-0 report.
type Mode uint8

const (
	ModeHblank     Mode = 0
	ModeVblank     Mode = 1
	ModeSearchOAM  Mode = 2
	ModeRenderLine Mode = 3
)

const (
	cyclesSearchOAM  = 80
	cyclesRenderLine = 172
	cyclesHblank     = 204
	cyclesVblankLine = 456
	vblankLines      = 10
)

// STAT bit positions.
const (
	statLycIrq    = 6
	statOamIrq    = 5
	statVblankIrq = 4
	statHblankIrq = 3
	statLycEqual  = 2
)

// LCDC bit positions.
const (
	lcdcPower          = 7
	lcdcWindowTileMap  = 6
	lcdcWindowEnable   = 5
	lcdcTileData       = 4
	lcdcBgTileMap      = 3
	lcdcSpriteSize     = 2
	lcdcSpriteEnable   = 1
	lcdcBgEnable       = 0
)

// pending interrupt bits, matching the bus's IF bit layout.
const (
	intVBlank uint8 = 1 << 0
	intLCD    uint8 = 1 << 1
)

// PPU owns VRAM, OAM, every LCD-control register, and the frame buffer.
type PPU struct {
	vram [0x2000]uint8
	oam  [160]uint8

	lcdc, stat, scy, scx, ly, lyc, bgp, obp0, obp1, wy, wx uint8

	mode       Mode
	modeCycles int
	vblankLine int
	windowLine int

	fb       *FrameBuffer
	bgIndex  [Size]uint8 // per-pixel BG/window color index, consulted by sprite "behind BG" priority
	priority spritePriorityBuffer

	pendingInt uint8
}

// New returns a PPU powered on, parked at the start of a frame.
func New() *PPU {
	p := &PPU{
		fb:    NewFrameBuffer(),
		lcdc:  0x91,
		bgp:   0xFC,
		obp0:  0xFF,
		obp1:  0xFF,
		mode:  ModeSearchOAM,
	}
	slog.Debug("PPU initialized", "LCDC", p.lcdc, "BGP", p.bgp)
	return p
}

// FrameBuffer exposes the current frame for presentation.
func (p *PPU) FrameBuffer() *FrameBuffer { return p.fb }

func bit(v uint8, pos uint8) bool { return v&(1<<pos) != 0 }

// Tick advances the PPU by the given number of machine cycles, running the
// scanline state machine. If LCDC's power bit is clear the PPU is idle and
// the mode/LY/cycle counters are frozen.
func (p *PPU) Tick(cycles int) {
	if !bit(p.lcdc, lcdcPower) {
		return
	}

	p.modeCycles += cycles

	switch p.mode {
	case ModeSearchOAM:
		if p.modeCycles >= cyclesSearchOAM {
			p.modeCycles -= cyclesSearchOAM
			p.mode = ModeRenderLine
		}
	case ModeRenderLine:
		if p.modeCycles >= cyclesRenderLine {
			p.modeCycles -= cyclesRenderLine
			p.renderLine()
			if bit(p.stat, statHblankIrq) {
				p.pendingInt |= intLCD
			}
			p.mode = ModeHblank
		}
	case ModeHblank:
		if p.modeCycles >= cyclesHblank {
			p.modeCycles -= cyclesHblank
			p.ly++
			p.updateCoincidence()

			if p.ly == 144 {
				p.mode = ModeVblank
				p.vblankLine = 0
				p.pendingInt |= intVBlank
				if bit(p.stat, statVblankIrq) {
					p.pendingInt |= intLCD
				}
			} else {
				p.mode = ModeSearchOAM
				if bit(p.stat, statOamIrq) {
					p.pendingInt |= intLCD
				}
			}
		}
	case ModeVblank:
		if p.modeCycles >= cyclesVblankLine {
			p.modeCycles -= cyclesVblankLine
			p.ly++
			p.vblankLine++
			if p.ly > 153 {
				p.ly = 0
			}
			p.updateCoincidence()

			if p.vblankLine >= vblankLines {
				p.mode = ModeSearchOAM
				p.windowLine = 0
				if bit(p.stat, statOamIrq) {
					p.pendingInt |= intLCD
				}
			}
		}
	}

	p.stat = p.stat&0xFC | uint8(p.mode)
}

func (p *PPU) updateCoincidence() {
	if p.ly == p.lyc {
		p.stat |= 1 << statLycEqual
		if bit(p.stat, statLycIrq) {
			p.pendingInt |= intLCD
		}
	} else {
		p.stat &^= 1 << statLycEqual
	}
}

// PendingInterrupts returns the (V-Blank, LCD-STAT) bits raised since the
// last Clear call, in IF-compatible bit positions.
func (p *PPU) PendingInterrupts() uint8 { return p.pendingInt }

// Clear acknowledges the interrupts the bus has folded into IF.
func (p *PPU) Clear() { p.pendingInt = 0 }

func (p *PPU) renderLine() {
	if p.ly >= Height {
		return
	}

	p.drawBackground()
	p.drawWindow()
	p.drawSprites()
}

func (p *PPU) readTile(tileIndex uint8, rowWithinTile int, signedAddressing bool) (lo, hi uint8) {
	var base int
	if signedAddressing {
		base = 0x1000 + int(int8(tileIndex))*16
	} else {
		base = int(tileIndex) * 16
	}
	offset := base + rowWithinTile*2
	return p.vram[offset], p.vram[offset+1]
}

func paletteLookup(palette, colorID uint8) uint8 {
	return (palette >> (colorID * 2)) & 0x03
}

func (p *PPU) drawBackground() {
	lineBase := int(p.ly) * Width

	if !bit(p.lcdc, lcdcBgEnable) {
		color := paletteLookup(p.bgp, 0)
		for x := 0; x < Width; x++ {
			p.fb.set(x, int(p.ly), color)
			p.bgIndex[int(lineBase)+x] = 0
		}
		return
	}

	signed := !bit(p.lcdc, lcdcTileData)
	tileMapBase := uint16(0x1800)
	if bit(p.lcdc, lcdcBgTileMap) {
		tileMapBase = 0x1C00
	}

	scrolledY := (int(p.ly) + int(p.scy)) & 0xFF
	tileRow := (scrolledY / 8) * 32
	rowWithinTile := scrolledY % 8

	for x := 0; x < Width; x++ {
		scrolledX := (x + int(p.scx)) & 0xFF
		tileCol := scrolledX / 8
		colWithinTile := scrolledX % 8

		tileIndex := p.vram[tileMapBase+uint16(tileRow+tileCol)]
		lo, hi := p.readTile(tileIndex, rowWithinTile, signed)

		pixelBit := uint8(7 - colWithinTile)
		colorID := uint8(0)
		if bit(lo, pixelBit) {
			colorID |= 1
		}
		if bit(hi, pixelBit) {
			colorID |= 2
		}

		color := paletteLookup(p.bgp, colorID)
		p.fb.set(x, int(p.ly), color)
		p.bgIndex[int(lineBase)+x] = colorID
	}
}

func (p *PPU) drawWindow() {
	if !bit(p.lcdc, lcdcWindowEnable) {
		return
	}
	if int(p.wy) > int(p.ly) {
		return
	}

	wx := int(p.wx) - 7
	if wx >= Width {
		return
	}

	signed := !bit(p.lcdc, lcdcTileData)
	tileMapBase := uint16(0x1800)
	if bit(p.lcdc, lcdcWindowTileMap) {
		tileMapBase = 0x1C00
	}

	tileRow := (p.windowLine / 8) * 32
	rowWithinTile := p.windowLine % 8
	lineBase := int(p.ly) * Width

	for x := 0; x < Width; x++ {
		screenX := wx + x
		if screenX < 0 || screenX >= Width {
			continue
		}

		tileCol := x / 8
		colWithinTile := x % 8

		tileIndex := p.vram[tileMapBase+uint16(tileRow+tileCol)]
		lo, hi := p.readTile(tileIndex, rowWithinTile, signed)

		pixelBit := uint8(7 - colWithinTile)
		colorID := uint8(0)
		if bit(lo, pixelBit) {
			colorID |= 1
		}
		if bit(hi, pixelBit) {
			colorID |= 2
		}

		color := paletteLookup(p.bgp, colorID)
		p.fb.set(screenX, int(p.ly), color)
		p.bgIndex[int(lineBase)+screenX] = colorID
	}

	p.windowLine++
}

func (p *PPU) drawSprites() {
	if !bit(p.lcdc, lcdcSpriteEnable) {
		return
	}

	spriteHeight := 8
	if bit(p.lcdc, lcdcSpriteSize) {
		spriteHeight = 16
	}

	var visible []int
	for i := 0; i < 40; i++ {
		y := int(p.oam[i*4]) - 16
		if int(p.ly) < y || int(p.ly) >= y+spriteHeight {
			continue
		}
		visible = append(visible, i)
		if len(visible) >= 10 {
			break
		}
	}

	p.priority.clear()
	for _, i := range visible {
		x := int(p.oam[i*4+1]) - 8
		for dx := 0; dx < 8; dx++ {
			p.priority.tryClaim(x+dx, i, x)
		}
	}

	lineBase := int(p.ly) * Width

	for _, i := range visible {
		y := int(p.oam[i*4]) - 16
		x := int(p.oam[i*4+1]) - 8
		tileIndex := p.oam[i*4+2]
		attrs := p.oam[i*4+3]

		hasOwnedPixel := false
		for dx := 0; dx < 8; dx++ {
			if p.priority.owner(x+dx) == i {
				hasOwnedPixel = true
				break
			}
		}
		if !hasOwnedPixel {
			continue
		}

		flipX := bit(attrs, 5)
		flipY := bit(attrs, 6)
		aboveBG := !bit(attrs, 7)
		obp := p.obp0
		if bit(attrs, 4) {
			obp = p.obp1
		}

		rowInSprite := int(p.ly) - y
		if flipY {
			rowInSprite = spriteHeight - 1 - rowInSprite
		}

		effectiveTile := tileIndex
		if spriteHeight == 16 {
			effectiveTile &^= 0x01
		}
		tileOffset := int(effectiveTile) * 16
		if spriteHeight == 16 && rowInSprite >= 8 {
			tileOffset += 16
			rowInSprite -= 8
		}
		lo := p.vram[tileOffset+rowInSprite*2]
		hi := p.vram[tileOffset+rowInSprite*2+1]

		for dx := 0; dx < 8; dx++ {
			screenX := x + dx
			if p.priority.owner(screenX) != i {
				continue
			}

			pixelBit := uint8(dx)
			if !flipX {
				pixelBit = uint8(7 - dx)
			}

			colorID := uint8(0)
			if bit(lo, pixelBit) {
				colorID |= 1
			}
			if bit(hi, pixelBit) {
				colorID |= 2
			}
			if colorID == 0 {
				continue
			}

			if !aboveBG && p.bgIndex[lineBase+screenX] != 0 {
				continue
			}

			color := paletteLookup(obp, colorID)
			p.fb.set(screenX, int(p.ly), color)
		}
	}
}
