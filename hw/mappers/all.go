// Package mappers implements cartridge mappers, which own the memory of the
// system and translate bus addresses into memory cells.
package mappers

import (
	"errors"
	"fmt"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/ines"
)

var ErrUnsupported = errors.New("unsupported mapper")

// Load creates the mapper of rom, with all backing storage allocated and the
// rom contents loaded.
func Load(rom *ines.Rom) (hw.Mapper, error) {
	desc, ok := All[rom.Mapper()]
	if !ok {
		return nil, fmt.Errorf("mapper %d: %w", rom.Mapper(), ErrUnsupported)
	}
	b, err := newbase(desc, rom)
	if err != nil {
		return nil, fmt.Errorf("mapper initialization failed: %w", err)
	}
	if err := b.load(); err != nil {
		b.Release()
		return nil, fmt.Errorf("failed to load mapper %s: %w", desc.Name, err)
	}

	log.ModMapper.InfoZ("mapper loaded").
		String("name", desc.Name).
		Int("prg", len(rom.PRGROM)).
		Int("chr", len(rom.CHRROM)).
		Stringer("mirroring", b.mirroring).
		End()
	return b, nil
}

type MapperDesc struct {
	Name string
	Load func(*base) error

	// Bank sizes. PRGROMbanksz is also the size of the CPU window at $8000
	// divided by 2, CHRROMbanksz the size of the CHR RAM.
	PRGROMbanksz uint32
	CHRROMbanksz uint32
}

var All = map[uint8]MapperDesc{
	0: NROM,
}
