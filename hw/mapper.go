// Package hw implements the NES hardware: the 6502 CPU, the PPU, the
// joypads and the register window bridging them to the cartridge mapper.
package hw

import "nescore/hw/hwio"

// Space identifies the bus an address is resolved on.
type Space uint8

//go:generate go tool stringer -type=Space

const (
	CPURead  Space = iota // CPU read cycle
	CPUWrite              // CPU write cycle
	PPUBus                // PPU bus (14-bit addresses)
	Loader                // side-effect free CPU view (loading, disassembly)
)

// A Mapper translates addresses into memory cells. It owns all the addressable
// backing storage of the system: RAM, save RAM, PRG ROM, CHR ROM/RAM,
// nametables and palettes.
type Mapper interface {
	Name() string

	// Get resolves addr in the given space into a memory cell. CPU accesses
	// to the register window are acknowledged, Loader ones are not.
	Get(space Space, addr uint16) hwio.Cell

	// Ack returns, and clears, the last access made by the CPU to addr.
	Ack(addr uint16) hwio.Access

	Memory() *hwio.Arena
	IORegs() *IORegs

	// Release frees all backing storage. Cells previously returned by Get
	// resolve to the dummy cell afterwards.
	Release()
}

func read8(m Mapper, space Space, addr uint16) uint8 {
	return m.Memory().Read8(m.Get(space, addr))
}

func write8(m Mapper, addr uint16, val uint8) {
	m.Memory().Write8(m.Get(CPUWrite, addr), val)
}

// Peek8 reads the byte at addr on the CPU bus, without side effects.
func Peek8(m Mapper, addr uint16) uint8 {
	return read8(m, Loader, addr)
}

// Peek16 reads the little-endian word at addr on the CPU bus, without side
// effects.
func Peek16(m Mapper, addr uint16) uint16 {
	lo := Peek8(m, addr)
	hi := Peek8(m, addr+1)
	return uint16(hi)<<8 | uint16(lo)
}

// Poke8 writes val at addr on the CPU bus, without side effects and
// regardless of the write protection of the underlying memory.
func Poke8(m Mapper, addr uint16, val uint8) {
	m.Memory().Poke(m.Get(Loader, addr), val)
}
