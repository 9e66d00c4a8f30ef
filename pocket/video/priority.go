package video

// spritePriorityBuffer resolves per-pixel sprite ownership for one scanline:
// the sprite with the lowest X wins, ties broken by lowest OAM index. See
// https://gbdev.io/pandocs/OAM.html#drawing-priority for the DMG rule this
// implements without needing to sort the scanline's sprite list.
type spritePriorityBuffer struct {
	ownerIndex [Width]int
	ownerX     [Width]int
}

func (s *spritePriorityBuffer) clear() {
	for i := range s.ownerIndex {
		s.ownerIndex[i] = -1
		s.ownerX[i] = 0xFF
	}
}

// tryClaim attempts to give pixelX to spriteIndex (at spriteX); reports
// whether the claim succeeded.
func (s *spritePriorityBuffer) tryClaim(pixelX, spriteIndex, spriteX int) bool {
	if pixelX < 0 || pixelX >= Width {
		return false
	}

	owner := s.ownerIndex[pixelX]
	if owner == -1 {
		s.ownerIndex[pixelX] = spriteIndex
		s.ownerX[pixelX] = spriteX
		return true
	}

	ownerX := s.ownerX[pixelX]
	if spriteX < ownerX || (spriteX == ownerX && spriteIndex < owner) {
		s.ownerIndex[pixelX] = spriteIndex
		s.ownerX[pixelX] = spriteX
		return true
	}

	return false
}

func (s *spritePriorityBuffer) owner(pixelX int) int {
	if pixelX < 0 || pixelX >= Width {
		return -1
	}
	return s.ownerIndex[pixelX]
}
