package hw

import (
	"fmt"
	"testing"

	"nescore/hw/hwio"
)

/* general testing helpers */

func tcheck(tb testing.TB, err error) {
	if err == nil {
		return
	}

	tb.Helper()
	tb.Fatalf("fatal error:\n\n%s\n", err)
}

func tcheckf(tb testing.TB, err error, format string, args ...any) {
	if err == nil {
		return
	}

	tb.Helper()
	tb.Fatalf("fatal error:\n\n%s: %s\n", fmt.Sprintf(format, args...), err)
}

// testMapper maps the whole CPU space to 64KB of RAM, except for the
// register window when enabled, and the PPU space to 16KB of VRAM.
type testMapper struct {
	mem    *hwio.Arena
	io     *IORegs
	ram    hwio.Region
	vram   hwio.Region
	window bool
}

func newTestMapper(window bool) *testMapper {
	m := &testMapper{mem: hwio.NewArena(), window: window}
	m.ram = m.mem.Alloc("ram", 0x10000, hwio.MemFlagReadWrite)
	m.vram = m.mem.Alloc("vram", 0x4000, hwio.MemFlagReadWrite)
	m.io = NewIORegs(m.mem)
	return m
}

func (m *testMapper) Name() string                { return "test" }
func (m *testMapper) Memory() *hwio.Arena         { return m.mem }
func (m *testMapper) IORegs() *IORegs             { return m.io }
func (m *testMapper) Release()                    { m.mem.Release() }
func (m *testMapper) Ack(addr uint16) hwio.Access { return m.io.Ack(addr) }

func (m *testMapper) Get(space Space, addr uint16) hwio.Cell {
	switch space {
	case PPUBus:
		addr &= 0x3FFF
		if addr >= 0x3F00 {
			addr &= 0x3F1F
			if addr&0x13 == 0x10 {
				addr &^= 0x10
			}
		}
		return hwio.Cell{Region: m.vram, Off: uint32(addr)}
	}

	if m.window && m.io.InRange(addr) {
		switch space {
		case CPURead:
			return m.io.Get(hwio.AccessRead, addr)
		case CPUWrite:
			return m.io.Get(hwio.AccessWrite, addr)
		default:
			return m.io.Get(hwio.AccessNone, addr)
		}
	}
	return hwio.Cell{Region: m.ram, Off: uint32(addr)}
}

// load copies data at addr in CPU space.
func (m *testMapper) load(addr uint16, data ...uint8) {
	for i, b := range data {
		Poke8(m, addr+uint16(i), b)
	}
}

// newTestCPU returns a CPU that skipped its reset sequence, with PC at pc.
func newTestCPU(m *testMapper, pc uint16) *CPU {
	cpu := NewCPU(m)
	cpu.pending = 0
	cpu.SP = 0xFD
	cpu.P = Unused | IntDisable
	cpu.PC = pc
	return cpu
}

// newTestSystem returns a connected CPU, PPU and controller.
func newTestSystem(tb testing.TB) (*testMapper, *CPU, *PPU, *Controller) {
	tb.Helper()

	m := newTestMapper(true)
	cpu := newTestCPU(m, 0x8000)
	ppu := NewPPU(m)
	ctrl := NewController()
	tcheck(tb, m.io.Connect(cpu, ppu, ctrl))
	return m, cpu, ppu, ctrl
}
