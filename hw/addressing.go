package hw

import "nescore/hw/hwio"

// An instruction being executed. It only lives for the duration of a CPU step.
type instruction struct {
	opcode uint8
	op     Op
	mode   Mode
	args   [2]uint8

	addr    uint16 // effective address
	crossed bool   // page crossed while computing addr
}

func (in *instruction) arg16() uint16 {
	return uint16(in.args[1])<<8 | uint16(in.args[0])
}

// resolve computes the effective address of the instruction operand. PC must
// point to the next instruction. Only indexed absolute and indirect indexed
// modes report page crossing.
func (c *CPU) resolve(in *instruction) {
	switch in.mode {
	case IMM:
		in.addr = c.PC - 1
	case ZPG:
		in.addr = uint16(in.args[0])
	case ZPX:
		in.addr = uint16(in.args[0] + c.X)
	case ZPY:
		in.addr = uint16(in.args[0] + c.Y)
	case IZX:
		in.addr = c.zpread16(in.args[0] + c.X)
	case IZY:
		base := c.zpread16(in.args[0])
		in.addr = base + uint16(c.Y)
		in.crossed = hwio.PageCrossed(base, in.addr)
	case ABS:
		in.addr = in.arg16()
	case ABX:
		base := in.arg16()
		in.addr = base + uint16(c.X)
		in.crossed = hwio.PageCrossed(base, in.addr)
	case ABY:
		base := in.arg16()
		in.addr = base + uint16(c.Y)
		in.crossed = hwio.PageCrossed(base, in.addr)
	case IND:
		// The high byte is fetched without carry into the pointer high byte.
		ptr := in.arg16()
		lo := c.read8(ptr)
		hi := c.read8(ptr&0xFF00 | uint16(uint8(ptr)+1))
		in.addr = uint16(hi)<<8 | uint16(lo)
	case REL:
		in.addr = c.PC + uint16(int8(in.args[0]))
	}
}

// zpread16 reads a pointer in zero page, wrapping around.
func (c *CPU) zpread16(zp uint8) uint16 {
	lo := c.read8(uint16(zp))
	hi := c.read8(uint16(zp + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// load returns the operand of the instruction.
func (c *CPU) load(in *instruction) uint8 {
	switch in.mode {
	case IMM:
		return in.args[0]
	case ACC:
		return c.A
	}
	return c.read8(in.addr)
}

// store writes the result of the instruction to its operand.
func (c *CPU) store(in *instruction, val uint8) {
	if in.mode == ACC {
		c.A = val
		return
	}
	c.write8(in.addr, val)
}
