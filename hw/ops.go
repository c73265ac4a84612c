package hw

import "nescore/hw/hwio"

// exec executes the operation of a decoded instruction and returns the
// cycles it took on top of the opcode base cost.
func (c *CPU) exec(in *instruction) int {
	if in == nil {
		return 0
	}

	switch in.op {
	// load/store
	case LDA:
		c.A = c.load(in)
		c.P.checkNZ(c.A)
	case LDX:
		c.X = c.load(in)
		c.P.checkNZ(c.X)
	case LDY:
		c.Y = c.load(in)
		c.P.checkNZ(c.Y)
	case STA:
		c.store(in, c.A)
	case STX:
		c.store(in, c.X)
	case STY:
		c.store(in, c.Y)

	// transfers
	case TAX:
		c.X = c.A
		c.P.checkNZ(c.X)
	case TAY:
		c.Y = c.A
		c.P.checkNZ(c.Y)
	case TSX:
		c.X = c.SP
		c.P.checkNZ(c.X)
	case TXA:
		c.A = c.X
		c.P.checkNZ(c.A)
	case TXS:
		c.SP = c.X
	case TYA:
		c.A = c.Y
		c.P.checkNZ(c.A)

	// stack
	case PHA:
		c.push8(c.A)
	case PHP:
		c.push8(uint8(c.P | Break | Unused))
	case PLA:
		c.A = c.pull8()
		c.P.checkNZ(c.A)
	case PLP:
		c.P = P(c.pull8())&^Break | Unused

	// logic and arithmetic
	case AND:
		c.A &= c.load(in)
		c.P.checkNZ(c.A)
	case ORA:
		c.A |= c.load(in)
		c.P.checkNZ(c.A)
	case EOR:
		c.A ^= c.load(in)
		c.P.checkNZ(c.A)
	case BIT:
		val := c.load(in)
		c.P.set(Zero, c.A&val == 0)
		c.P.set(Overflow, val&0x40 != 0)
		c.P.set(Negative, sign(val))
	case ADC:
		c.adc(c.load(in))
	case SBC:
		c.adc(^c.load(in))
	case CMP:
		c.compare(c.A, c.load(in))
	case CPX:
		c.compare(c.X, c.load(in))
	case CPY:
		c.compare(c.Y, c.load(in))

	// increments, decrements
	case INC:
		c.P.checkNZ(c.rmw(in, func(v uint8) uint8 { return v + 1 }))
	case DEC:
		c.P.checkNZ(c.rmw(in, func(v uint8) uint8 { return v - 1 }))
	case INX:
		c.X++
		c.P.checkNZ(c.X)
	case INY:
		c.Y++
		c.P.checkNZ(c.Y)
	case DEX:
		c.X--
		c.P.checkNZ(c.X)
	case DEY:
		c.Y--
		c.P.checkNZ(c.Y)

	// shifts
	case ASL:
		c.rmw(in, c.asl)
	case LSR:
		c.rmw(in, c.lsr)
	case ROL:
		c.rmw(in, c.rol)
	case ROR:
		c.rmw(in, c.ror)

	// jumps and calls
	case JMP:
		c.PC = in.addr
	case JSR:
		c.push16(c.PC - 1)
		c.PC = in.addr
	case RTS:
		c.PC = c.pull16() + 1
	case RTI:
		c.P = P(c.pull8())&^Break | Unused
		c.PC = c.pull16()
	case BRK:
		c.push16(c.PC + 1)
		c.push8(uint8(c.P | Break | Unused))
		c.P |= IntDisable
		c.PC = c.read16(IRQVector)

	// branches
	case BCC:
		return c.branch(in, !c.P.has(Carry))
	case BCS:
		return c.branch(in, c.P.has(Carry))
	case BNE:
		return c.branch(in, !c.P.has(Zero))
	case BEQ:
		return c.branch(in, c.P.has(Zero))
	case BPL:
		return c.branch(in, !c.P.has(Negative))
	case BMI:
		return c.branch(in, c.P.has(Negative))
	case BVC:
		return c.branch(in, !c.P.has(Overflow))
	case BVS:
		return c.branch(in, c.P.has(Overflow))

	// flags
	case CLC:
		c.P &^= Carry
	case CLD:
		c.P &^= Decimal
	case CLI:
		c.P &^= IntDisable
	case CLV:
		c.P &^= Overflow
	case SEC:
		c.P |= Carry
	case SED:
		c.P |= Decimal
	case SEI:
		c.P |= IntDisable

	case NOP:
		if in.mode != IMP && in.mode != IMM {
			// Unofficial NOPs still read their operand.
			c.load(in)
		}

	// unofficial
	case LAX:
		c.A = c.load(in)
		c.X = c.A
		c.P.checkNZ(c.A)
	case SAX:
		c.store(in, c.A&c.X)
	case DCP:
		c.compare(c.A, c.rmw(in, func(v uint8) uint8 { return v - 1 }))
	case ISB:
		c.adc(^c.rmw(in, func(v uint8) uint8 { return v + 1 }))
	case SLO:
		c.A |= c.rmw(in, c.asl)
		c.P.checkNZ(c.A)
	case RLA:
		c.A &= c.rmw(in, c.rol)
		c.P.checkNZ(c.A)
	case SRE:
		c.A ^= c.rmw(in, c.lsr)
		c.P.checkNZ(c.A)
	case RRA:
		c.adc(c.rmw(in, c.ror))
	case ANC:
		c.A &= c.load(in)
		c.P.checkNZ(c.A)
		c.P.set(Carry, sign(c.A))
	case ALR:
		c.A = c.lsr(c.A & c.load(in))
	case ARR:
		c.A = (c.A&c.load(in))>>1 | c.P.carry()<<7
		c.P.checkNZ(c.A)
		c.P.set(Carry, c.A&0x40 != 0)
		c.P.set(Overflow, (c.A>>6^c.A>>5)&1 != 0)
	case AXS:
		val := c.load(in)
		ax := c.A & c.X
		c.P.set(Carry, ax >= val)
		c.X = ax - val
		c.P.checkNZ(c.X)
	}
	return 0
}

// rmw applies f to the operand and stores the result back.
func (c *CPU) rmw(in *instruction, f func(uint8) uint8) uint8 {
	val := f(c.load(in))
	c.store(in, val)
	return val
}

func (c *CPU) adc(val uint8) {
	sum := uint16(c.A) + uint16(val) + uint16(c.P.carry())
	c.P.checkCV(c.A, val, sum)
	c.A = uint8(sum)
	c.P.checkNZ(c.A)
}

func (c *CPU) compare(reg, val uint8) {
	c.P.set(Carry, reg >= val)
	c.P.checkNZ(reg - val)
}

func (c *CPU) asl(val uint8) uint8 {
	c.P.set(Carry, sign(val))
	val <<= 1
	c.P.checkNZ(val)
	return val
}

func (c *CPU) lsr(val uint8) uint8 {
	c.P.set(Carry, val&1 != 0)
	val >>= 1
	c.P.checkNZ(val)
	return val
}

func (c *CPU) rol(val uint8) uint8 {
	carry := c.P.carry()
	c.P.set(Carry, sign(val))
	val = val<<1 | carry
	c.P.checkNZ(val)
	return val
}

func (c *CPU) ror(val uint8) uint8 {
	carry := c.P.carry()
	c.P.set(Carry, val&1 != 0)
	val = val>>1 | carry<<7
	c.P.checkNZ(val)
	return val
}

// branch jumps to the relative target if cond holds. A taken branch costs 1
// cycle, 2 if the target is on another page.
func (c *CPU) branch(in *instruction, cond bool) int {
	if !cond {
		return 0
	}
	extra := 1
	if hwio.PageCrossed(c.PC, in.addr) {
		extra++
	}
	c.PC = in.addr
	return extra
}
