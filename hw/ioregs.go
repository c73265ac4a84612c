package hw

import (
	"fmt"

	"nescore/emu/log"
	"nescore/hw/hwio"
)

const (
	numPPURegs = 8
	numIORegs  = 0x20
	numAcks    = numPPURegs + numIORegs
)

// IO register addresses handled outside of the PPU.
const (
	OAMDMA = 0x4014
	JOY1   = 0x4016
	JOY2   = 0x4017
)

// IORegs is the register window of the CPU address space. It maps $2000-$3FFF
// (the 8 PPU registers, mirrored) and $4000-$401F (APU and IO registers) to
// memory cells, and records the last CPU access to each register.
//
// Components owning registers poll Ack once per step to detect CPU accesses
// that happened since their last check.
type IORegs struct {
	mem  *hwio.Arena
	ppu  [numPPURegs]hwio.Cell
	io   [numIORegs]hwio.Cell
	acks [numAcks]hwio.Access

	connected bool
}

// NewIORegs creates a register window whose registers are all unconnected.
func NewIORegs(mem *hwio.Arena) *IORegs {
	r := &IORegs{mem: mem}
	for i := range r.ppu {
		r.ppu[i] = hwio.DummyCell
	}
	for i := range r.io {
		r.io[i] = hwio.DummyCell
	}
	return r
}

// Connect wires the PPU registers, the OAM DMA register and the joypad
// registers to their owning components. Unconnected registers (APU) keep
// resolving to the dummy cell.
func (r *IORegs) Connect(cpu *CPU, ppu *PPU, ctrl *Controller) error {
	switch {
	case r == nil || r.mem == nil:
		return fmt.Errorf("io registers: memory %w", ErrNotConnected)
	case cpu == nil:
		return fmt.Errorf("io registers: cpu %w", ErrNotConnected)
	case ppu == nil:
		return fmt.Errorf("io registers: ppu %w", ErrNotConnected)
	case ctrl == nil:
		return fmt.Errorf("io registers: controller %w", ErrNotConnected)
	}

	if !r.connected {
		ppuregs := r.mem.Alloc("ppuregs", numPPURegs, hwio.MemFlagReadWrite)
		for i := range r.ppu {
			r.ppu[i] = hwio.Cell{Region: ppuregs, Off: uint32(i)}
		}
		ioregs := r.mem.Alloc("ioregs", 3, hwio.MemFlagReadWrite)
		r.io[OAMDMA-0x4000] = hwio.Cell{Region: ioregs, Off: 0}
		r.io[JOY1-0x4000] = hwio.Cell{Region: ioregs, Off: 1}
		r.io[JOY2-0x4000] = hwio.Cell{Region: ioregs, Off: 2}
		r.connected = true
	}

	cpu.io = r
	cpu.ppu = ppu
	ppu.io = r
	ppu.cpu = cpu
	ctrl.io = r

	log.ModHwIo.InfoZ("io registers connected").End()
	return nil
}

// index returns the acknowledgment slot of addr.
func index(addr uint16) (int, bool) {
	switch {
	case addr >= 0x2000 && addr < 0x4000:
		return int(addr & 7), true
	case addr >= 0x4000 && addr < 0x4020:
		return numPPURegs + int(addr-0x4000), true
	}
	return 0, false
}

// InRange reports whether addr lies in the register window.
func (r *IORegs) InRange(addr uint16) bool {
	_, ok := index(addr)
	return ok
}

// Get records an access of the given type to the register at addr and
// returns its cell. AccessNone only resolves the cell.
func (r *IORegs) Get(acc hwio.Access, addr uint16) hwio.Cell {
	if r == nil {
		return hwio.DummyCell
	}
	idx, ok := index(addr)
	if !ok {
		return hwio.DummyCell
	}
	if acc != hwio.AccessNone {
		r.acks[idx] = acc
	}
	if idx < numPPURegs {
		return r.ppu[idx]
	}
	return r.io[idx-numPPURegs]
}

// Ack returns and clears the last access made to the register at addr.
func (r *IORegs) Ack(addr uint16) hwio.Access {
	if r == nil {
		return hwio.AccessNone
	}
	idx, ok := index(addr)
	if !ok {
		return hwio.AccessNone
	}
	acc := r.acks[idx]
	r.acks[idx] = hwio.AccessNone
	return acc
}

// Peek returns the current value of the register at addr, without recording
// an access.
func (r *IORegs) Peek(addr uint16) uint8 {
	if r == nil {
		return 0
	}
	return r.mem.Read8(r.Get(hwio.AccessNone, addr))
}

// Poke sets the value of the register at addr, without recording an access.
// Owners use it to present the value the CPU reads next.
func (r *IORegs) Poke(addr uint16, val uint8) {
	if r == nil {
		return
	}
	r.mem.Poke(r.Get(hwio.AccessNone, addr), val)
}
