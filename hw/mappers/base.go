package mappers

import (
	"fmt"

	"nescore/hw"
	"nescore/hw/hwio"
	"nescore/ines"
)

const (
	ramSize     = 0x800
	paletteSize = 0x20
	ntSize      = 0x400
)

// base implements the parts of the memory map common to all mappers: RAM,
// register window, save RAM, nametables and palette.
type base struct {
	desc MapperDesc
	rom  *ines.Rom

	mem *hwio.Arena
	io  *hw.IORegs

	ram, sram hwio.Region
	prg, chr  hwio.Region
	nt, pal   hwio.Region

	prgMask   uint32
	mirroring ines.NTMirroring
}

func ispow2(n int) bool {
	return n&(n-1) == 0
}

func newbase(desc MapperDesc, rom *ines.Rom) (*base, error) {
	if !ispow2(len(rom.PRGROM)) {
		return nil, fmt.Errorf("only support PRGROM with power of 2 size, got %d", len(rom.PRGROM))
	}

	mem := hwio.NewArena()
	b := &base{
		desc:      desc,
		rom:       rom,
		mem:       mem,
		io:        hw.NewIORegs(mem),
		mirroring: rom.Mirroring(),
	}
	b.ram = mem.Alloc("ram", ramSize, hwio.MemFlagReadWrite)
	b.sram = mem.Alloc("sram", rom.PRGRAMSize(), hwio.MemFlagReadWrite)
	b.pal = mem.Alloc("palette", paletteSize, hwio.MemFlagReadWrite)

	nts := 2
	if b.mirroring == ines.FourScreen {
		nts = 4
	}
	b.nt = mem.Alloc("nametables", nts*ntSize, hwio.MemFlagReadWrite)

	if len(rom.Trainer) != 0 {
		// The trainer is loaded at $7000.
		data := mem.Data(b.sram)
		copy(data[0x1000:], rom.Trainer)
	}
	return b, nil
}

func (b *base) load() error {
	return b.desc.Load(b)
}

// loadCHR loads the CHR ROM, or allocates CHR RAM if the cartridge has none.
func (b *base) loadCHR() {
	if len(b.rom.CHRROM) == 0 {
		b.chr = b.mem.Alloc("chrram", int(b.desc.CHRROMbanksz), hwio.MemFlagReadWrite)
		return
	}
	b.chr = b.mem.Load("chrrom", b.rom.CHRROM, hwio.MemFlag8ReadOnly)
}

func (b *base) Name() string                { return b.desc.Name }
func (b *base) Memory() *hwio.Arena         { return b.mem }
func (b *base) IORegs() *hw.IORegs          { return b.io }
func (b *base) Release()                    { b.mem.Release() }
func (b *base) Ack(addr uint16) hwio.Access { return b.io.Ack(addr) }

func (b *base) Get(space hw.Space, addr uint16) hwio.Cell {
	if space == hw.PPUBus {
		return b.ppuCell(addr)
	}

	switch {
	case addr < 0x2000:
		return hwio.Cell{Region: b.ram, Off: uint32(addr) % ramSize}
	case b.io.InRange(addr):
		switch space {
		case hw.CPURead:
			return b.io.Get(hwio.AccessRead, addr)
		case hw.CPUWrite:
			return b.io.Get(hwio.AccessWrite, addr)
		}
		return b.io.Get(hwio.AccessNone, addr)
	case addr >= 0x6000 && addr < 0x8000:
		return hwio.Cell{Region: b.sram, Off: uint32(addr-0x6000) % uint32(b.mem.Size(b.sram))}
	case addr >= 0x8000:
		return hwio.Cell{Region: b.prg, Off: uint32(addr-0x8000) & b.prgMask}
	}
	// $4020-$5FFF: expansion area, unmapped.
	return hwio.DummyCell
}

func (b *base) ppuCell(addr uint16) hwio.Cell {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return hwio.Cell{Region: b.chr, Off: uint32(addr)}
	case addr < 0x3F00:
		return hwio.Cell{Region: b.nt, Off: b.ntOffset(addr)}
	}
	return hwio.Cell{Region: b.pal, Off: paletteOffset(addr)}
}

// ntOffset returns the offset in nametable memory of addr, in $2000-$3EFF,
// according to the nametable mirroring mode.
func (b *base) ntOffset(addr uint16) uint32 {
	table := (addr >> 10) & 3
	off := uint32(addr & (ntSize - 1))

	var phys uint16
	switch b.mirroring {
	case ines.HorzMirroring:
		phys = table >> 1
	case ines.VertMirroring:
		phys = table & 1
	case ines.FourScreen:
		phys = table
	case ines.OnlyAScreen:
		phys = 0
	case ines.OnlyBScreen:
		phys = 1
	}
	return uint32(phys)*ntSize + off
}

// paletteOffset maps addr, in $3F00-$3FFF, to one of the 32 palette entries.
// Entry 0 of each sprite palette mirrors the matching background entry.
func paletteOffset(addr uint16) uint32 {
	idx := addr & 0x1F
	if idx&0x13 == 0x10 {
		idx &^= 0x10
	}
	return uint32(idx)
}
