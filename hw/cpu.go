package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFC) // Reset
	IRQVector   = uint16(0xFFFE) // Interrupt Request
)

const stackPage = 0x0100

// Interrupt is a set of pending interrupt lines.
type Interrupt uint8

const (
	IntReset Interrupt = 1 << iota
	IntNMI
	IntIRQ
)

type CPU struct {
	bus Mapper
	mem *hwio.Arena
	io  *IORegs
	ppu *PPU // target of OAM DMA, non-nil once connected.

	// cpu registers
	A, X, Y, SP uint8
	PC          uint16
	P           P

	Cycles int64 // CPU cycles since power up

	pending Interrupt

	dma struct {
		active bool
		page   uint8
	}

	halted bool
	err    error

	// Non-nil when execution tracing is enabled.
	tracer *tracer
}

// NewCPU creates a new CPU at power-up state, accessing memory through bus.
func NewCPU(bus Mapper) *CPU {
	c := &CPU{bus: bus}
	if bus != nil {
		c.mem = bus.Memory()
		c.io = bus.IORegs()
	}
	c.Reset(false)
	return c
}

// Reset raises the reset line. A hard reset also clears registers, as done at
// power up. In both cases the reset sequence happens at the next call to
// Execute.
func (c *CPU) Reset(soft bool) {
	if c == nil {
		return
	}
	if !soft {
		c.A = 0x00
		c.X = 0x00
		c.Y = 0x00
		c.SP = 0x00
		c.P = Unused
		c.Cycles = 0
		c.pending = 0
	}
	c.dma.active = false
	c.halted = false
	c.err = nil
	c.Raise(IntReset)
}

// Raise sets the given interrupt lines as pending.
func (c *CPU) Raise(i Interrupt) {
	if c == nil {
		return
	}
	c.pending |= i
}

// Pending returns the set of pending interrupts.
func (c *CPU) Pending() Interrupt { return c.pending }

// IsHalted reports whether the CPU stopped on a decode error.
func (c *CPU) IsHalted() bool { return c.halted }

func (c *CPU) read8(addr uint16) uint8 {
	return c.mem.Read8(c.bus.Get(CPURead, addr))
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := c.read8(addr)
	hi := c.read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) write8(addr uint16, val uint8) {
	c.mem.Write8(c.bus.Get(CPUWrite, addr), val)
}

/* stack operations */

func (c *CPU) push8(val uint8) {
	c.write8(stackPage|uint16(c.SP), val)
	c.SP--
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val & 0xff))
}

func (c *CPU) pull8() uint8 {
	c.SP++
	return c.read8(stackPage | uint16(c.SP))
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}

// Execute runs one CPU step and returns the number of cycles it took: the
// servicing of a pending interrupt, then either an OAM DMA transfer or the
// execution of one instruction.
//
// An undefined opcode halts the CPU: Execute returns a *DecodeError and keeps
// returning it until Reset.
func (c *CPU) Execute() (int, error) {
	if c == nil || c.bus == nil {
		return 0, nil
	}
	if c.halted {
		return 0, c.err
	}

	cycles := c.interrupts()
	if c.dma.active {
		cycles += c.oamDMA(c.Cycles + int64(cycles))
	} else {
		n, err := c.step()
		if err != nil {
			c.halted = true
			c.err = err
			log.ModCPU.WarnZ("CPU halted").
				Hex16("PC", c.PC).
				Error("err", err).
				End()
			return 0, err
		}
		cycles += n
	}

	c.Cycles += int64(cycles)
	return cycles, nil
}

// step fetches, decodes and executes one instruction.
func (c *CPU) step() (int, error) {
	if c.tracer != nil {
		c.tracer.write(c.state())
	}

	pc := c.PC
	in := instruction{opcode: c.read8(pc)}
	oc := opcodes[in.opcode]
	if !oc.Defined() {
		return 0, &DecodeError{PC: pc, Opcode: in.opcode}
	}
	in.op = oc.op
	in.mode = oc.mode
	c.PC++
	for i := range in.mode.NumArgs() {
		in.args[i] = c.read8(c.PC)
		c.PC++
	}

	c.resolve(&in)
	cycles := int(oc.cycles)
	if oc.penalty && in.crossed {
		cycles++
	}
	cycles += c.exec(&in)

	if c.io.Ack(OAMDMA) == hwio.AccessWrite {
		c.dma.active = true
		c.dma.page = c.io.Peek(OAMDMA)
	}
	return cycles, nil
}

/* interrupt handling */

// interrupts services at most one pending interrupt, by priority order, and
// returns the number of cycles it took. A masked IRQ stays pending.
func (c *CPU) interrupts() int {
	switch {
	case c.pending&IntReset != 0:
		// The reset sequence goes through the pushes, without writing.
		c.SP -= 3
		c.PC = c.read16(ResetVector)
		c.P |= IntDisable
		c.pending &^= IntReset
		log.ModCPU.DebugZ("reset").Hex16("PC", c.PC).End()
		return 7

	case c.pending&IntNMI != 0:
		c.interrupt(NMIVector)
		c.pending &^= IntNMI
		return 7

	case c.pending&IntIRQ != 0 && !c.P.has(IntDisable):
		c.interrupt(IRQVector)
		c.pending &^= IntIRQ
		return 7
	}
	return 0
}

func (c *CPU) interrupt(vector uint16) {
	prevpc := c.PC
	c.push16(c.PC)
	// Only the stacked copy has B cleared.
	c.push8(uint8((c.P | Unused) &^ Break))
	c.P |= IntDisable
	c.PC = c.read16(vector)

	log.ModCPU.DebugZ("interrupt").
		Hex16("vector", vector).
		Hex16("from", prevpc).
		Hex16("to", c.PC).
		End()
}

/* DMA */

const (
	oamDMACycles = 513
	oamSize      = 256
)

// oamDMA copies one page of CPU memory into the PPU OAM. It takes an extra
// cycle when it starts on an odd CPU cycle.
func (c *CPU) oamDMA(cycle int64) int {
	base := uint16(c.dma.page) << 8
	for i := range uint16(oamSize) {
		c.ppu.writeOAM(c.read8(base + i))
	}
	c.dma.active = false

	cycles := oamDMACycles
	if cycle&1 == 1 {
		cycles++
	}
	log.ModDMA.DebugZ("OAM DMA").
		Hex8("page", c.dma.page).
		Int("cycles", cycles).
		End()
	return cycles
}

// state returns a copy of the CPU state for the execution trace.
func (c *CPU) state() cpuState {
	state := cpuState{
		A:     c.A,
		X:     c.X,
		Y:     c.Y,
		P:     c.P,
		SP:    c.SP,
		Clock: c.Cycles,
		PC:    c.PC,
	}
	if c.ppu != nil {
		state.PPUCycle = c.ppu.Cycle
		state.Scanline = c.ppu.Scanline
	}
	return state
}
