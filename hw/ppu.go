package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

const (
	NumScanlines = 262 // Number of scanlines per frame.
	NumCycles    = 341 // Number of PPU cycles per scanline.

	preRenderLine  = -1
	postRenderLine = 240
	vblankLine     = 241
	lastLine       = 260
)

// CPU-exposed memory-mapped PPU registers, mirrored up to $3FFF.
const (
	PPUCTRL   = 0x2000
	PPUMASK   = 0x2001
	PPUSTATUS = 0x2002
	OAMADDR   = 0x2003
	OAMDATA   = 0x2004
	PPUSCROLL = 0x2005
	PPUADDR   = 0x2006
	PPUDATA   = 0x2007
)

const (
	// PPUCTRL bits

	// Base nametable address
	// (0 = $2000; 1 = $2400; 2 = $2800; 3 = $2C00)
	ctrlNametable = 0b11

	// VRAM address increment per CPU read/write of PPUDATA
	// (0: add 1, going across; 1: add 32, going down)
	ctrlIncr32 = 1 << 2

	// Sprite pattern table address for 8x8 sprites
	// (0: $0000; 1: $1000; ignored in 8x16 mode)
	ctrlSpriteTable = 1 << 3

	// Background pattern table address (0: $0000; 1: $1000)
	ctrlBgTable = 1 << 4

	// Sprite size (0: 8x8 pixels; 1: 8x16 pixels)
	ctrlSprite16 = 1 << 5

	// Generate an NMI at the start of the
	// vertical blanking interval (0: off; 1: on)
	ctrlNMI = 1 << 7
)

const (
	// PPUMASK bits
	maskGreyscale   = 1 << 0
	maskBgLeft      = 1 << 1 // show background in leftmost 8 pixels
	maskSpritesLeft = 1 << 2 // show sprites in leftmost 8 pixels
	maskBg          = 1 << 3
	maskSprites     = 1 << 4
)

const (
	// PPUSTATUS bits

	// Sprite overflow. Set during sprite evaluation, with the hardware
	// bug, and cleared at dot 1 of the pre-render line.
	statusOverflow = 1 << 5

	// Sprite 0 Hit. Set when a nonzero pixel of sprite 0 overlaps
	// a nonzero background pixel; cleared at dot 1 of the pre-render
	// line.
	statusSprite0 = 1 << 6

	// Vertical blank has started. Set at dot 1 of line 241; cleared
	// after reading $2002 and at dot 1 of the pre-render line.
	statusVBlank = 1 << 7
)

type PPU struct {
	bus Mapper
	mem *hwio.Arena
	io  *IORegs
	cpu *CPU // NMI line

	Cycle    int    // Current cycle/pixel in scanline
	Scanline int    // Current scanline being drawn
	Frames   uint64 // Number of frames completed
	oddFrame bool

	ctrl, mask, status uint8

	OAM     [oamSize]byte
	oamAddr uint8
	secOAM  [32]byte

	// VRAM read/write
	v, t    loopy
	finex   uint8
	w       bool // write toggle
	readBuf uint8

	bg      bgPipeline
	sprites [8]spriteUnit
	eval    spriteEval

	// sprite 0 is in the sprite units for the current line.
	spriteZeroLine bool

	frameDone bool
	frame     Frame
}

func NewPPU(bus Mapper) *PPU {
	p := &PPU{bus: bus}
	if bus != nil {
		p.mem = bus.Memory()
		p.io = bus.IORegs()
	}
	p.Reset()
	return p
}

func (p *PPU) Reset() {
	if p == nil {
		return
	}
	p.Cycle = 0
	p.Scanline = preRenderLine
	p.oddFrame = false
	p.ctrl = 0
	p.mask = 0
	p.oamAddr = 0
	p.v, p.t = 0, 0
	p.finex = 0
	p.w = false
	p.readBuf = 0
	p.bg = bgPipeline{}
	p.eval = spriteEval{}
	p.spriteZeroLine = false
	for i := range p.sprites {
		p.sprites[i] = spriteUnit{x: 0xFF}
	}
	p.frameDone = false
}

// Frame returns the output pixel buffer. It's complete and stable during
// vertical blank.
func (p *PPU) Frame() *Frame { return &p.frame }

// FrameComplete reports whether vertical blank started since the last call.
func (p *PPU) FrameComplete() bool {
	if p == nil {
		return false
	}
	done := p.frameDone
	p.frameDone = false
	return done
}

// Run processes the CPU accesses to the PPU registers since the last call
// then advances the PPU by the given number of cycles.
func (p *PPU) Run(ticks int) {
	if p == nil || p.bus == nil {
		return
	}
	p.pollRegisters()
	for range ticks {
		p.tick()
	}
	p.refreshRegs()
}

func (p *PPU) read(addr uint16) uint8 {
	return p.mem.Read8(p.bus.Get(PPUBus, addr&0x3FFF))
}

func (p *PPU) write(addr uint16, val uint8) {
	p.mem.Write8(p.bus.Get(PPUBus, addr&0x3FFF), val)
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskBg|maskSprites) != 0
}

func (p *PPU) spriteHeight() int {
	if p.ctrl&ctrlSprite16 != 0 {
		return 16
	}
	return 8
}

func (p *PPU) writeOAM(val uint8) {
	if p == nil {
		return
	}
	p.OAM[p.oamAddr] = val
	p.oamAddr++
}

/* registers */

func (p *PPU) pollRegisters() {
	for addr := uint16(PPUCTRL); addr <= PPUDATA; addr++ {
		switch p.io.Ack(addr) {
		case hwio.AccessRead:
			p.readReg(addr)
		case hwio.AccessWrite:
			p.writeReg(addr, p.io.Peek(addr))
		}
	}
}

// refreshRegs presents the values the CPU reads from the readable registers.
func (p *PPU) refreshRegs() {
	p.io.Poke(PPUSTATUS, p.status)
	p.io.Poke(OAMDATA, p.OAM[p.oamAddr])

	addr := p.v.val() & 0x3FFF
	if addr >= 0x3F00 {
		// Palette reads are not buffered.
		p.io.Poke(PPUDATA, p.read(addr)&0x3F)
	} else {
		p.io.Poke(PPUDATA, p.readBuf)
	}
}

func (p *PPU) readReg(addr uint16) {
	switch addr {
	case PPUSTATUS:
		p.status &^= statusVBlank
		p.w = false
	case PPUDATA:
		vaddr := p.v.val() & 0x3FFF
		if vaddr >= 0x3F00 {
			// The buffer gets the nametable byte 'under' the palette.
			p.readBuf = p.read(vaddr - 0x1000)
		} else {
			p.readBuf = p.read(vaddr)
		}
		p.incVRAMaddr()
	}
}

func (p *PPU) writeReg(addr uint16, val uint8) {
	log.ModPPU.DebugZ("register write").Hex16("addr", addr).Hex8("val", val).End()

	switch addr {
	case PPUCTRL:
		prev := p.ctrl
		p.ctrl = val
		p.t.setNametable(uint16(val & ctrlNametable))

		// Enabling NMI during vblank raises it immediately.
		if prev&ctrlNMI == 0 && val&ctrlNMI != 0 && p.status&statusVBlank != 0 {
			p.cpu.Raise(IntNMI)
		}
	case PPUMASK:
		p.mask = val
	case OAMADDR:
		p.oamAddr = val
	case OAMDATA:
		p.writeOAM(val)
	case PPUSCROLL:
		if !p.w { // first write
			p.finex = val & 0b111
			p.t.setCoarsex(uint16(val >> 3))
		} else { // second write
			p.t.setFiney(uint16(val))
			p.t.setCoarsey(uint16(val >> 3))
		}
		p.w = !p.w
	case PPUADDR:
		if !p.w { // first write, also clears bit 14.
			p.t.setHigh(uint16(val))
		} else { // second write
			p.t.setLow(uint16(val))
			p.v = p.t
		}
		p.w = !p.w
	case PPUDATA:
		p.write(p.v.val(), val)
		p.incVRAMaddr()
	}
}

// After each i/o on PPUDATA, the VRAM address is incremented.
func (p *PPU) incVRAMaddr() {
	if p.ctrl&ctrlIncr32 != 0 {
		p.v += 32
	} else {
		p.v++
	}
	p.v &= 0x7FFF
}

/* timing */

func (p *PPU) tick() {
	rendering := p.renderingEnabled()

	if p.Scanline < postRenderLine {
		if p.Scanline == preRenderLine && p.Cycle == 1 {
			p.status &^= statusVBlank | statusSprite0 | statusOverflow
			p.eval = spriteEval{}
		}
		if rendering {
			p.renderTick()
		}
		if p.Scanline >= 0 && p.Cycle >= 1 && p.Cycle <= Width {
			p.draw(p.Cycle-1, p.Scanline)
		}
	}

	if p.Scanline == vblankLine && p.Cycle == 1 {
		p.status |= statusVBlank
		p.frameDone = true
		p.Frames++
		if p.ctrl&ctrlNMI != 0 {
			p.cpu.Raise(IntNMI)
		}
	}

	p.Cycle++
	if p.Scanline == preRenderLine && p.Cycle == NumCycles-1 && p.oddFrame && rendering {
		// Odd frames skip the last cycle of the pre-render line.
		p.Cycle = NumCycles
	}
	if p.Cycle >= NumCycles {
		p.Cycle = 0
		p.Scanline++
		if p.Scanline > lastLine {
			p.Scanline = preRenderLine
			p.oddFrame = !p.oddFrame
		}
	}
}

// renderTick runs the fetch pipelines, for the pre-render and visible lines.
func (p *PPU) renderTick() {
	c := p.Cycle

	if (c >= 2 && c < 258) || (c >= 321 && c < 338) {
		p.bg.shift()
		if c < 258 {
			p.shiftSprites()
		}

		switch (c - 1) % 8 {
		case 0:
			p.bg.load()
			p.bg.nt = p.read(0x2000 | p.v.val()&0x0FFF)
		case 2:
			p.bg.at = p.fetchAttribute()
		case 4:
			p.bg.lo = p.read(p.bgTileAddr())
		case 6:
			p.bg.hi = p.read(p.bgTileAddr() + 8)
		case 7:
			p.v.incX()
		}
	}

	switch {
	case c == 256:
		p.v.incY()
	case c == 257:
		p.bg.load()
		p.v.copyX(p.t)
	case c == 338 || c == 340:
		// unused nametable fetches
		p.bg.nt = p.read(0x2000 | p.v.val()&0x0FFF)
	}

	if p.Scanline == preRenderLine && c >= 280 && c < 305 {
		p.v.copyY(p.t)
	}

	// Sprites for the next line.
	if p.Scanline >= 0 {
		switch {
		case c >= 1 && c <= 64:
			if c%2 == 0 {
				p.secOAM[c/2-1] = 0xFF
			}
		case c >= 65 && c <= 256:
			if c == 65 {
				p.eval = spriteEval{}
			}
			p.evalSprites()
		}
	}

	if c >= 257 && c <= 320 {
		if c == 257 {
			p.oamAddr = 0
			p.spriteZeroLine = p.eval.zero
		}
		if (c-257)%8 == 7 {
			p.fetchSprite((c - 257) / 8)
		}
	}
}
