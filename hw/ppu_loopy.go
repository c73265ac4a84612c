package hw

// loopy is a VRAM address register (v or t), laid out as:
//
//	yyy NN YYYYY XXXXX
//	||| || ||||| +++++-- coarse X scroll
//	||| || +++++-------- coarse Y scroll
//	||| ++-------------- nametable select
//	+++----------------- fine Y scroll
type loopy uint16

func (l loopy) val() uint16 { return uint16(l) & 0x7FFF }

func (l loopy) coarsex() uint16   { return uint16(l) & 0x1F }
func (l loopy) coarsey() uint16   { return (uint16(l) >> 5) & 0x1F }
func (l loopy) nametable() uint16 { return (uint16(l) >> 10) & 0x03 }
func (l loopy) finey() uint16     { return (uint16(l) >> 12) & 0x07 }

// high returns the 6 bits set by the first write to PPUADDR.
func (l loopy) high() uint16 { return (uint16(l) >> 8) & 0x3F }

// low returns the 8 bits set by the second write to PPUADDR.
func (l loopy) low() uint16 { return uint16(l) & 0xFF }

func (l *loopy) setCoarsex(v uint16)   { *l = *l&^0x001F | loopy(v&0x1F) }
func (l *loopy) setCoarsey(v uint16)   { *l = *l&^0x03E0 | loopy(v&0x1F)<<5 }
func (l *loopy) setNametable(v uint16) { *l = *l&^0x0C00 | loopy(v&0x03)<<10 }
func (l *loopy) setFiney(v uint16)     { *l = *l&^0x7000 | loopy(v&0x07)<<12 }
func (l *loopy) setHigh(v uint16)      { *l = *l&^0x7F00 | loopy(v&0x3F)<<8 }
func (l *loopy) setLow(v uint16)       { *l = *l&^0x00FF | loopy(v&0xFF) }

// incX increments coarse X, switching horizontal nametable on wrap.
func (l *loopy) incX() {
	if l.coarsex() == 31 {
		l.setCoarsex(0)
		*l ^= 0x0400
	} else {
		*l++
	}
}

// incY increments fine Y, overflowing into coarse Y which switches vertical
// nametable after row 29.
func (l *loopy) incY() {
	if l.finey() < 7 {
		l.setFiney(l.finey() + 1)
		return
	}
	l.setFiney(0)
	switch y := l.coarsey(); y {
	case 29:
		l.setCoarsey(0)
		*l ^= 0x0800
	case 31:
		// Out of bounds rows (attribute data) wrap without switching.
		l.setCoarsey(0)
	default:
		l.setCoarsey(y + 1)
	}
}

// copyX transfers the horizontal position from t.
func (l *loopy) copyX(t loopy) {
	*l = *l&^0x041F | t&0x041F
}

// copyY transfers the vertical position from t.
func (l *loopy) copyY(t loopy) {
	*l = *l&^0x7BE0 | t&0x7BE0
}
