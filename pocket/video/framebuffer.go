package video

const (
	Width  = 160
	Height = 144
	Size   = Width * Height
)

// palette is the fixed 4-entry DMG color ramp, packed 0x00RRGGBB, darkest
// first. Index comes straight out of a 2-bit palette register (BGP/OBP0/OBP1).
var palette = [4]uint32{0x081820, 0x346856, 0x88C070, 0xE0F8D0}

// colorForIndex maps a 2-bit palette index to its packed RGB color.
func colorForIndex(index uint8) uint32 {
	return palette[index&0x03]
}

// FrameBuffer is the 160x144 pixel grid the PPU rasterizes into.
type FrameBuffer struct {
	pixels [Size]uint32
}

// NewFrameBuffer returns a frame buffer cleared to the lightest palette entry.
func NewFrameBuffer() *FrameBuffer {
	fb := &FrameBuffer{}
	fb.Clear()
	return fb
}

// Clear fills the buffer with the lightest palette color (an LCD-off screen
// is blank/white, not black).
func (fb *FrameBuffer) Clear() {
	c := colorForIndex(3)
	for i := range fb.pixels {
		fb.pixels[i] = c
	}
}

func (fb *FrameBuffer) set(x, line int, colorIndex uint8) {
	fb.pixels[line*Width+x] = colorForIndex(colorIndex)
}

// CopyInto copies the current frame into dst, which must be Width*Height long.
func (fb *FrameBuffer) CopyInto(dst []uint32) {
	copy(dst, fb.pixels[:])
}
