package hw

// P is the processor status register.
type P uint8

const (
	Carry P = 1 << iota
	Zero
	IntDisable
	Decimal
	Break
	Unused
	Overflow
	Negative
)

func (p P) String() string {
	const bits = "nvubdizcNVUBDIZC"

	s := make([]byte, 8)
	for i := 0; i < 8; i++ {
		ibit := (uint8(p) & (1 << (7 - i))) >> (7 - i)
		s[i] = bits[i+int(8*ibit)]
	}
	return string(s)
}

func (p P) has(flag P) bool {
	return p&flag == flag
}

// set sets or clears flag according to cond.
func (p *P) set(flag P, cond bool) {
	if cond {
		*p |= flag
	} else {
		*p &^= flag
	}
}

// carry returns the carry flag as a bit.
func (p P) carry() uint8 {
	return uint8(p & Carry)
}

// sign returns whether v is negative, in two's complement.
func sign(v uint8) bool { return v&0x80 != 0 }

func (p *P) checkNZ(v uint8) {
	p.set(Negative, sign(v))
	p.set(Zero, v == 0)
}

// checkCV sets the carry and overflow flags for the 9-bit sum of x and y.
func (p *P) checkCV(x, y uint8, sum uint16) {
	// forward carry or unsigned overflow.
	p.set(Carry, sum > 0xFF)

	// signed overflow, can only happen if the sign of the sum differs
	// from that of both operands.
	v := (uint16(x) ^ sum) & (uint16(y) ^ sum) & 0x80
	p.set(Overflow, v != 0)
}
