package hw

import "math/bits"

/* background */

type bgPipeline struct {
	// latches
	nt, at, lo, hi uint8

	// shift registers, high byte is the tile being drawn.
	patLo, patHi   uint16
	attrLo, attrHi uint16
}

// load transfers the latched tile into the low byte of the shift registers.
func (bg *bgPipeline) load() {
	bg.patLo = bg.patLo&0xFF00 | uint16(bg.lo)
	bg.patHi = bg.patHi&0xFF00 | uint16(bg.hi)
	bg.attrLo = bg.attrLo&0xFF00 | fill8(bg.at&0b01 != 0)
	bg.attrHi = bg.attrHi&0xFF00 | fill8(bg.at&0b10 != 0)
}

func (bg *bgPipeline) shift() {
	bg.patLo <<= 1
	bg.patHi <<= 1
	bg.attrLo <<= 1
	bg.attrHi <<= 1
}

func fill8(b bool) uint16 {
	if b {
		return 0xFF
	}
	return 0
}

func bit16(v uint16) uint8 {
	if v != 0 {
		return 1
	}
	return 0
}

// fetchAttribute returns the 2 palette bits of the tile at v.
func (p *PPU) fetchAttribute() uint8 {
	v := p.v
	at := p.read(0x23C0 | v.nametable()<<10 | (v.coarsey()>>2)<<3 | v.coarsex()>>2)
	if v.coarsey()&0x02 != 0 {
		at >>= 4
	}
	if v.coarsex()&0x02 != 0 {
		at >>= 2
	}
	return at & 0x03
}

func (p *PPU) bgTileAddr() uint16 {
	var table uint16
	if p.ctrl&ctrlBgTable != 0 {
		table = 0x1000
	}
	return table | uint16(p.bg.nt)<<4 | p.v.finey()
}

/* sprites */

// spriteUnit is one of the 8 sprite output units.
type spriteUnit struct {
	lo, hi uint8 // pattern shift registers
	attr   uint8
	x      uint8 // x counter, the sprite is drawn when it reaches 0
}

type evalState uint8

const (
	evalCopyY evalState = iota
	evalCopyRest
	evalOverflow
	evalWait
)

type spriteEval struct {
	state evalState
	n     int // primary OAM sprite index
	m     int // byte index in the sprite
	count int // sprites copied into secondary OAM
	zero  bool
}

func (p *PPU) inRange(y uint8) bool {
	row := p.Scanline - int(y)
	return row >= 0 && row < p.spriteHeight()
}

// evalSprites runs one step of the evaluation of the sprites of the next line.
func (p *PPU) evalSprites() {
	e := &p.eval

	switch e.state {
	case evalCopyY:
		y := p.OAM[e.n*4]
		p.secOAM[e.count*4] = y
		if p.inRange(y) {
			if e.n == 0 {
				e.zero = true
			}
			e.m = 1
			e.state = evalCopyRest
			return
		}
		e.next()

	case evalCopyRest:
		p.secOAM[e.count*4+e.m] = p.OAM[e.n*4+e.m]
		e.m++
		if e.m < 4 {
			return
		}
		e.m = 0
		e.count++
		e.next()
		if e.state == evalCopyY && e.count == 8 {
			e.state = evalOverflow
		}

	case evalOverflow:
		// With 8 sprites found, the hardware increments both n and m when
		// looking for a 9th one, reading 'y' from the wrong byte.
		if p.inRange(p.OAM[e.n*4+e.m]) {
			p.status |= statusOverflow
			e.state = evalWait
			return
		}
		e.m = (e.m + 1) & 3
		e.n++
		if e.n == 64 {
			e.state = evalWait
		}

	case evalWait:
	}
}

func (e *spriteEval) next() {
	e.n++
	if e.n == 64 {
		e.state = evalWait
		return
	}
	e.state = evalCopyY
}

// fetchSprite loads the pattern of the i-th sprite of secondary OAM into its
// output unit.
func (p *PPU) fetchSprite(i int) {
	u := &p.sprites[i]
	if i >= p.eval.count {
		*u = spriteUnit{x: 0xFF}
		return
	}

	y, tile, attr, x := p.secOAM[i*4], p.secOAM[i*4+1], p.secOAM[i*4+2], p.secOAM[i*4+3]
	h := p.spriteHeight()
	row := p.Scanline - int(y)
	if attr&0x80 != 0 {
		row = h - 1 - row // vertical flip
	}

	var addr uint16
	if h == 16 {
		table := uint16(tile&1) * 0x1000
		idx := uint16(tile &^ 1)
		if row >= 8 {
			idx++
			row -= 8
		}
		addr = table | idx<<4 | uint16(row)
	} else {
		var table uint16
		if p.ctrl&ctrlSpriteTable != 0 {
			table = 0x1000
		}
		addr = table | uint16(tile)<<4 | uint16(row)
	}

	lo, hi := p.read(addr), p.read(addr+8)
	if attr&0x40 != 0 { // horizontal flip
		lo, hi = bits.Reverse8(lo), bits.Reverse8(hi)
	}
	*u = spriteUnit{lo: lo, hi: hi, attr: attr, x: x}
}

func (p *PPU) shiftSprites() {
	for i := range p.sprites {
		u := &p.sprites[i]
		if u.x > 0 {
			u.x--
		} else {
			u.lo <<= 1
			u.hi <<= 1
		}
	}
}

/* compositing */

// draw outputs the pixel at (x, y).
func (p *PPU) draw(x, y int) {
	var bgPix, bgPal uint8
	if p.mask&maskBg != 0 && (x >= 8 || p.mask&maskBgLeft != 0) {
		mux := uint16(0x8000) >> p.finex
		bgPix = bit16(p.bg.patHi&mux)<<1 | bit16(p.bg.patLo&mux)
		bgPal = bit16(p.bg.attrHi&mux)<<1 | bit16(p.bg.attrLo&mux)
	}

	var fgPix, fgPal uint8
	var fgFront bool
	if p.mask&maskSprites != 0 && (x >= 8 || p.mask&maskSpritesLeft != 0) {
		for i := range p.sprites {
			u := &p.sprites[i]
			if u.x != 0 {
				continue
			}
			pix := (u.hi>>7)<<1 | u.lo>>7
			if pix == 0 {
				continue
			}
			if i == 0 && p.spriteZeroLine && bgPix != 0 && x != 255 {
				p.status |= statusSprite0
			}
			fgPix = pix
			fgPal = u.attr&0x03 | 0x04
			fgFront = u.attr&0x20 == 0
			break
		}
	}

	var pix, pal uint8
	switch {
	case bgPix == 0 && fgPix == 0:
	case bgPix == 0:
		pix, pal = fgPix, fgPal
	case fgPix == 0:
		pix, pal = bgPix, bgPal
	case fgFront:
		pix, pal = fgPix, fgPal
	default:
		pix, pal = bgPix, bgPal
	}

	addr := uint16(0x3F00)
	if pix != 0 {
		addr |= uint16(pal)<<2 | uint16(pix)
	}
	idx := p.read(addr) & 0x3F
	if p.mask&maskGreyscale != 0 {
		idx &= 0x30
	}
	p.frame.Set(x, y, Palette[idx])
}
