package hw

import (
	"fmt"
	"strings"
)

type DisasmOp struct {
	Opcode string
	Oper   string
	Buf    []byte
	PC     uint16
}

func (d DisasmOp) String() string {
	if d.Oper == "" {
		return d.Opcode
	}
	return d.Opcode + " " + d.Oper
}

// Bytes returns the representation of a DisasmOp used in the execution trace:
// address, raw bytes, then the instruction.
func (d DisasmOp) Bytes() []byte {
	const totalLen = 48
	buf := make([]byte, 6, totalLen)

	hexEncode(buf[0:], byte(d.PC>>8))
	hexEncode(buf[2:], byte(d.PC))
	buf[4] = ' '
	buf[5] = ' '

	for _, b := range d.Buf {
		buf = append(buf, 0, 0, ' ')
		hexEncode(buf[len(buf)-3:], b)
	}
	for len(buf) < 16 {
		buf = append(buf, ' ')
	}

	buf = append(buf, d.Opcode...)
	buf = append(buf, ' ')
	buf = append(buf, d.Oper...)
	if len(buf) >= totalLen {
		return append(buf, ' ')
	}
	for len(buf) < totalLen {
		buf = append(buf, ' ')
	}
	return buf
}

var addressLabels = map[uint16]string{
	0x2000: "PpuControl_2000",
	0x2001: "PpuMask_2001",
	0x2002: "PpuStatus_2002",
	0x2003: "OamAddr_2003",
	0x2004: "OamData_2004",
	0x2005: "PpuScroll_2005",
	0x2006: "PpuAddr_2006",
	0x2007: "PpuData_2007",
	0x4014: "SpriteDma_4014",
	0x4015: "ApuStatus_4015",
	0x4016: "Ctrl1_4016",
	0x4017: "Ctrl2_FrameCtr_4017",
}

func formatAddr(addr uint16) string {
	if label, ok := addressLabels[addr]; ok {
		return label
	}
	return fmt.Sprintf("$%04X", addr)
}

// Disasm disassembles the instruction at pc. Memory is read through the
// loader space so disassembling has no side effects.
func (c *CPU) Disasm(pc uint16) DisasmOp {
	return Disasm(c.bus, pc)
}

// Disasm disassembles the instruction at pc on the CPU bus of m.
func Disasm(m Mapper, pc uint16) DisasmOp {
	opcode := Peek8(m, pc)
	oc := opcodes[opcode]
	if !oc.Defined() {
		return DisasmOp{
			Opcode: "???",
			Oper:   fmt.Sprintf("$%02X", opcode),
			Buf:    []byte{opcode},
			PC:     pc,
		}
	}

	nargs := oc.mode.NumArgs()
	buf := make([]byte, 1+nargs)
	buf[0] = opcode
	for i := range nargs {
		buf[1+i] = Peek8(m, pc+1+uint16(i))
	}
	var a8 uint8
	var a16 uint16
	if nargs > 0 {
		a8 = buf[1]
		a16 = uint16(a8)
	}
	if nargs > 1 {
		a16 |= uint16(buf[2]) << 8
	}

	var oper string
	switch oc.mode {
	case ACC:
		oper = "A"
	case IMM:
		oper = fmt.Sprintf("#$%02X", a8)
	case ZPG:
		oper = fmt.Sprintf("$%02X", a8)
	case ZPX:
		oper = fmt.Sprintf("$%02X,X", a8)
	case ZPY:
		oper = fmt.Sprintf("$%02X,Y", a8)
	case IZX:
		oper = fmt.Sprintf("($%02X,X)", a8)
	case IZY:
		oper = fmt.Sprintf("($%02X),Y", a8)
	case ABS:
		oper = formatAddr(a16)
	case ABX:
		oper = formatAddr(a16) + ",X"
	case ABY:
		oper = formatAddr(a16) + ",Y"
	case IND:
		oper = "(" + formatAddr(a16) + ")"
	case REL:
		oper = fmt.Sprintf("$%04X", pc+2+uint16(int8(a8)))
	}

	name := oc.op.String()
	if !official(opcode) {
		name = "*" + name
	}
	return DisasmOp{
		Opcode: name,
		Oper:   oper,
		Buf:    buf,
		PC:     pc,
	}
}

// official reports whether opcode is part of the documented instruction set.
func official(opcode uint8) bool {
	switch oc := opcodes[opcode]; oc.op {
	case NOP:
		return opcode == 0xEA
	case SBC:
		return opcode != 0xEB
	default:
		return oc.op < ALR
	}
}

// DisasmRange disassembles count instructions from pc, one per line.
func DisasmRange(m Mapper, pc uint16, count int) string {
	var sb strings.Builder
	for range count {
		op := Disasm(m, pc)
		fmt.Fprintf(&sb, "%04X  %s\n", op.PC, op.String())
		pc += uint16(len(op.Buf))
	}
	return sb.String()
}
