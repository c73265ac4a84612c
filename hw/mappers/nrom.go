package mappers

import "nescore/hw/hwio"

// NROM has no bank switching: 16 or 32 KiB of PRG ROM, 8 KiB of CHR ROM (or
// RAM) and a fixed nametable mirroring.
var NROM = MapperDesc{
	Name:         "NROM",
	Load:         loadNROM,
	PRGROMbanksz: 0x4000,
	CHRROMbanksz: 0x2000,
}

func loadNROM(b *base) error {
	// CPU mapping.

	// A single 16 KiB bank is mirrored at $C000.
	b.prg = b.mem.Load("prgrom", b.rom.PRGROM, hwio.MemFlag8ReadOnly)
	b.prgMask = uint32(len(b.rom.PRGROM)) - 1
	if limit := 2*b.desc.PRGROMbanksz - 1; b.prgMask > limit {
		b.prgMask = limit
	}

	// PPU mapping.
	b.loadCHR()
	return nil
}
