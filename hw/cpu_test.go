package hw

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type regs struct {
	A, X, Y, SP uint8
	P           P
	PC          uint16
}

func regsOf(c *CPU) regs {
	return regs{A: c.A, X: c.X, Y: c.Y, SP: c.SP, P: c.P, PC: c.PC}
}

func TestInterruptReset(t *testing.T) {
	m := newTestMapper(false)
	cpu := newTestCPU(m, 0xFEDC)
	cpu.P = 0xFB
	cpu.SP = 0xA3
	m.load(ResetVector, 0xC9, 0x5D)
	cpu.pending = IntReset

	if cycles := cpu.interrupts(); cycles != 7 {
		t.Errorf("cycles = %d, want 7", cycles)
	}
	want := regs{PC: 0x5DC9, P: 0xFF, SP: 0xA0}
	if diff := cmp.Diff(want, regsOf(cpu)); diff != "" {
		t.Errorf("registers mismatch (-want +got):\n%s", diff)
	}
	if cpu.Pending()&IntReset != 0 {
		t.Errorf("reset still pending")
	}
	// No pushes happened.
	for addr := uint16(0x1A1); addr <= 0x1A3; addr++ {
		if v := Peek8(m, addr); v != 0 {
			t.Errorf("stack[$%04X] = $%02X, want $00", addr, v)
		}
	}
}

func TestInterruptNMI(t *testing.T) {
	m := newTestMapper(false)
	cpu := newTestCPU(m, 0xFEDC)
	cpu.P = 0xFB
	cpu.SP = 0xA3
	m.load(NMIVector, 0xC9, 0x5D)
	cpu.pending = IntNMI

	if cycles := cpu.interrupts(); cycles != 7 {
		t.Errorf("cycles = %d, want 7", cycles)
	}
	want := regs{PC: 0x5DC9, P: 0xFF, SP: 0xA0}
	if diff := cmp.Diff(want, regsOf(cpu)); diff != "" {
		t.Errorf("registers mismatch (-want +got):\n%s", diff)
	}
	if cpu.Pending() != 0 {
		t.Errorf("pending = %02b, want 0", cpu.Pending())
	}

	stack := map[uint16]uint8{
		0x1A3: 0xFE, // PCH
		0x1A2: 0xDC, // PCL
		0x1A1: 0xEB, // P, with B cleared
	}
	for addr, want := range stack {
		if got := Peek8(m, addr); got != want {
			t.Errorf("stack[$%04X] = $%02X, want $%02X", addr, got, want)
		}
	}
}

func TestInterruptIRQMasked(t *testing.T) {
	m := newTestMapper(false)
	cpu := newTestCPU(m, 0xFEDC)
	cpu.P = 0xFF
	cpu.SP = 0xA3
	m.load(IRQVector, 0xC9, 0x5D)
	cpu.pending = IntIRQ

	before := regsOf(cpu)
	if cycles := cpu.interrupts(); cycles != 0 {
		t.Errorf("cycles = %d, want 0", cycles)
	}
	if diff := cmp.Diff(before, regsOf(cpu)); diff != "" {
		t.Errorf("registers mismatch (-want +got):\n%s", diff)
	}
	if cpu.Pending() != IntIRQ {
		t.Errorf("pending = %02b, want %02b", cpu.Pending(), IntIRQ)
	}

	// Once unmasked, the IRQ is serviced.
	cpu.P = 0xFB
	if cycles := cpu.interrupts(); cycles != 7 {
		t.Errorf("cycles = %d, want 7", cycles)
	}
	if cpu.PC != 0x5DC9 {
		t.Errorf("PC = $%04X, want $5DC9", cpu.PC)
	}
}

func TestInterruptPriority(t *testing.T) {
	m := newTestMapper(false)
	cpu := newTestCPU(m, 0x8000)
	cpu.P = Unused
	m.load(NMIVector, 0x00, 0x90)
	m.load(IRQVector, 0x00, 0xA0)
	cpu.pending = IntNMI | IntIRQ

	cpu.interrupts()
	if cpu.PC != 0x9000 {
		t.Errorf("PC = $%04X, want $9000", cpu.PC)
	}
	if cpu.Pending() != IntIRQ {
		t.Errorf("pending = %02b, want %02b", cpu.Pending(), IntIRQ)
	}
	// The NMI handler starts with interrupts disabled.
	if cycles := cpu.interrupts(); cycles != 0 {
		t.Errorf("cycles = %d, want 0", cycles)
	}
}

func TestADC(t *testing.T) {
	tests := []struct {
		a, src uint8
		want   uint8
		flags  P
	}{
		{a: 0xAA, src: 0x11, want: 0xBB, flags: Negative},
		{a: 0xFF, src: 0x01, want: 0x00, flags: Carry | Zero},
		{a: 0x7F, src: 0x01, want: 0x80, flags: Negative | Overflow},
	}
	for _, tt := range tests {
		m := newTestMapper(false)
		cpu := newTestCPU(m, 0x8000)
		cpu.P = Unused
		cpu.A = tt.a
		m.load(0x8000, 0x69, tt.src) // ADC #src

		cycles, err := cpu.Execute()
		tcheck(t, err)
		if cycles != 2 {
			t.Errorf("%02X+%02X: cycles = %d, want 2", tt.a, tt.src, cycles)
		}
		if cpu.A != tt.want {
			t.Errorf("%02X+%02X: A = $%02X, want $%02X", tt.a, tt.src, cpu.A, tt.want)
		}
		if want := Unused | tt.flags; cpu.P != want {
			t.Errorf("%02X+%02X: P = %s, want %s", tt.a, tt.src, cpu.P, want)
		}
	}
}

func TestBranches(t *testing.T) {
	tests := []struct {
		name   string
		pc     uint16
		off    uint8
		taken  bool
		wantPC uint16
		cycles int
	}{
		{"not taken", 0x8000, 0x10, false, 0x8002, 2},
		{"taken", 0x8000, 0x10, true, 0x8012, 3},
		{"taken backward", 0x8010, 0xF0, true, 0x8002, 3},
		{"taken page cross", 0x80F0, 0x20, true, 0x8112, 4},
		{"taken backward page cross", 0x8000, 0xF0, true, 0x7FF2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMapper(false)
			cpu := newTestCPU(m, tt.pc)
			cpu.P = Unused
			if !tt.taken {
				cpu.P |= Zero
			}
			m.load(tt.pc, 0xD0, tt.off) // BNE

			cycles, err := cpu.Execute()
			tcheck(t, err)
			if cycles != tt.cycles {
				t.Errorf("cycles = %d, want %d", cycles, tt.cycles)
			}
			if cpu.PC != tt.wantPC {
				t.Errorf("PC = $%04X, want $%04X", cpu.PC, tt.wantPC)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	type result struct {
		Addr    uint16
		Crossed bool
	}
	tests := []struct {
		name string
		mode Mode
		args [2]uint8
		x, y uint8
		mem  map[uint16]uint8
		want result
	}{
		{name: "zpg", mode: ZPG, args: [2]uint8{0x42}, want: result{0x0042, false}},
		{name: "zpx wrap", mode: ZPX, args: [2]uint8{0xF0}, x: 0x20, want: result{0x0010, false}},
		{name: "zpy", mode: ZPY, args: [2]uint8{0x10}, y: 0x05, want: result{0x0015, false}},
		{name: "abs", mode: ABS, args: [2]uint8{0x34, 0x12}, want: result{0x1234, false}},
		{name: "abx", mode: ABX, args: [2]uint8{0x34, 0x12}, x: 0x10, want: result{0x1244, false}},
		{name: "abx cross", mode: ABX, args: [2]uint8{0xF0, 0x12}, x: 0x20, want: result{0x1310, true}},
		{name: "aby cross", mode: ABY, args: [2]uint8{0xFF, 0x12}, y: 0x01, want: result{0x1300, true}},
		{
			name: "izx", mode: IZX, args: [2]uint8{0x10}, x: 0x05,
			mem:  map[uint16]uint8{0x15: 0x34, 0x16: 0x12},
			want: result{0x1234, false},
		},
		{
			name: "izx wrap", mode: IZX, args: [2]uint8{0xFE}, x: 0x01,
			mem:  map[uint16]uint8{0xFF: 0x34, 0x00: 0x12},
			want: result{0x1234, false},
		},
		{
			name: "izy", mode: IZY, args: [2]uint8{0x10}, y: 0x10,
			mem:  map[uint16]uint8{0x10: 0x34, 0x11: 0x12},
			want: result{0x1244, false},
		},
		{
			name: "izy cross", mode: IZY, args: [2]uint8{0x10}, y: 0x20,
			mem:  map[uint16]uint8{0x10: 0xF0, 0x11: 0x12},
			want: result{0x1310, true},
		},
		{
			name: "ind page wrap", mode: IND, args: [2]uint8{0xFF, 0x02},
			mem:  map[uint16]uint8{0x02FF: 0x34, 0x0200: 0x12, 0x0300: 0x56},
			want: result{0x1234, false},
		},
		{name: "rel", mode: REL, args: [2]uint8{0xFE}, want: result{0x8000, false}},
		{name: "rel cross", mode: REL, args: [2]uint8{0x80}, want: result{0x7F82, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMapper(false)
			for addr, v := range tt.mem {
				m.load(addr, v)
			}
			cpu := newTestCPU(m, 0x8002)
			cpu.X = tt.x
			cpu.Y = tt.y

			in := instruction{mode: tt.mode, args: tt.args}
			cpu.resolve(&in)
			got := result{in.addr, in.crossed}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("resolve mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPageCrossPenalty(t *testing.T) {
	tests := []struct {
		name   string
		code   []uint8
		x      uint8
		cycles int
	}{
		{"LDA abs,X", []uint8{0xBD, 0x10, 0x12}, 0x20, 4},
		{"LDA abs,X cross", []uint8{0xBD, 0xF0, 0x12}, 0x20, 5},
		{"STA abs,X", []uint8{0x9D, 0x10, 0x12}, 0x20, 5},
		{"STA abs,X cross", []uint8{0x9D, 0xF0, 0x12}, 0x20, 5},
		{"ASL abs,X cross", []uint8{0x1E, 0xF0, 0x12}, 0x20, 7},
		{"NOP abs,X cross", []uint8{0x1C, 0xF0, 0x12}, 0x20, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMapper(false)
			cpu := newTestCPU(m, 0x8000)
			cpu.X = tt.x
			m.load(0x8000, tt.code...)

			cycles, err := cpu.Execute()
			tcheck(t, err)
			if cycles != tt.cycles {
				t.Errorf("cycles = %d, want %d", cycles, tt.cycles)
			}
		})
	}
}

func TestOps(t *testing.T) {
	tests := []struct {
		name   string
		before regs
		code   []uint8
		mem    map[uint16]uint8
		want   regs
		wmem   map[uint16]uint8
		cycles int
	}{
		{
			name:   "SBC borrow",
			before: regs{A: 0x50, P: Unused | Carry},
			code:   []uint8{0xE9, 0xF0},
			want:   regs{A: 0x60, P: Unused},
			cycles: 2,
		},
		{
			name:   "CMP equal",
			before: regs{A: 0x42, P: Unused},
			code:   []uint8{0xC9, 0x42},
			want:   regs{A: 0x42, P: Unused | Zero | Carry},
			cycles: 2,
		},
		{
			name:   "BIT",
			before: regs{A: 0x01, P: Unused},
			code:   []uint8{0x24, 0x10},
			mem:    map[uint16]uint8{0x10: 0xC0},
			want:   regs{A: 0x01, P: Unused | Zero | Overflow | Negative},
			cycles: 3,
		},
		{
			name:   "ROR A",
			before: regs{A: 0x01, P: Unused | Carry},
			code:   []uint8{0x6A},
			want:   regs{A: 0x80, P: Unused | Carry | Negative},
			cycles: 2,
		},
		{
			name:   "INC zp",
			before: regs{P: Unused},
			code:   []uint8{0xE6, 0x10},
			mem:    map[uint16]uint8{0x10: 0xFF},
			want:   regs{P: Unused | Zero},
			wmem:   map[uint16]uint8{0x10: 0x00},
			cycles: 5,
		},
		{
			name:   "PHP",
			before: regs{SP: 0xFD, P: Unused | Carry},
			code:   []uint8{0x08},
			want:   regs{SP: 0xFC, P: Unused | Carry},
			wmem:   map[uint16]uint8{0x1FD: 0x31},
			cycles: 3,
		},
		{
			name:   "PLP",
			before: regs{SP: 0xFC, P: Unused},
			code:   []uint8{0x28},
			mem:    map[uint16]uint8{0x1FD: 0xFF},
			want:   regs{SP: 0xFD, P: 0xEF},
			cycles: 4,
		},
		{
			name:   "LAX zp",
			before: regs{P: Unused},
			code:   []uint8{0xA7, 0x10},
			mem:    map[uint16]uint8{0x10: 0x80},
			want:   regs{A: 0x80, X: 0x80, P: Unused | Negative},
			cycles: 3,
		},
		{
			name:   "SAX zp",
			before: regs{A: 0xF0, X: 0x3C, P: Unused},
			code:   []uint8{0x87, 0x10},
			want:   regs{A: 0xF0, X: 0x3C, P: Unused},
			wmem:   map[uint16]uint8{0x10: 0x30},
			cycles: 3,
		},
		{
			name:   "DCP zp",
			before: regs{A: 0x41, P: Unused},
			code:   []uint8{0xC7, 0x10},
			mem:    map[uint16]uint8{0x10: 0x42},
			want:   regs{A: 0x41, P: Unused | Zero | Carry},
			wmem:   map[uint16]uint8{0x10: 0x41},
			cycles: 5,
		},
		{
			name:   "ISB zp",
			before: regs{A: 0x10, P: Unused | Carry},
			code:   []uint8{0xE7, 0x10},
			mem:    map[uint16]uint8{0x10: 0x04},
			want:   regs{A: 0x0B, P: Unused | Carry},
			wmem:   map[uint16]uint8{0x10: 0x05},
			cycles: 5,
		},
		{
			name:   "SLO zp",
			before: regs{A: 0x01, P: Unused},
			code:   []uint8{0x07, 0x10},
			mem:    map[uint16]uint8{0x10: 0x81},
			want:   regs{A: 0x03, P: Unused | Carry},
			wmem:   map[uint16]uint8{0x10: 0x02},
			cycles: 5,
		},
		{
			name:   "AXS",
			before: regs{A: 0x0F, X: 0xFF, P: Unused},
			code:   []uint8{0xCB, 0x01},
			want:   regs{A: 0x0F, X: 0x0E, P: Unused | Carry},
			cycles: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMapper(false)
			for addr, v := range tt.mem {
				m.load(addr, v)
			}
			m.load(0x8000, tt.code...)
			cpu := newTestCPU(m, 0x8000)
			cpu.A, cpu.X, cpu.Y, cpu.P = tt.before.A, tt.before.X, tt.before.Y, tt.before.P
			if tt.before.SP != 0 {
				cpu.SP = tt.before.SP
			}

			cycles, err := cpu.Execute()
			tcheck(t, err)
			if cycles != tt.cycles {
				t.Errorf("cycles = %d, want %d", cycles, tt.cycles)
			}

			want := tt.want
			want.PC = 0x8000 + uint16(len(tt.code))
			if want.SP == 0 {
				want.SP = cpu.SP
			}
			if diff := cmp.Diff(want, regsOf(cpu)); diff != "" {
				t.Errorf("registers mismatch (-want +got):\n%s", diff)
			}
			for addr, v := range tt.wmem {
				if got := Peek8(m, addr); got != v {
					t.Errorf("mem[$%04X] = $%02X, want $%02X", addr, got, v)
				}
			}
		})
	}
}

func TestJSRRTS(t *testing.T) {
	m := newTestMapper(false)
	cpu := newTestCPU(m, 0x8000)
	m.load(0x8000, 0x20, 0x00, 0x90) // JSR $9000
	m.load(0x9000, 0x60)             // RTS

	cycles, err := cpu.Execute()
	tcheck(t, err)
	if cycles != 6 || cpu.PC != 0x9000 || cpu.SP != 0xFB {
		t.Fatalf("after JSR: cycles=%d PC=$%04X SP=$%02X", cycles, cpu.PC, cpu.SP)
	}
	if hi, lo := Peek8(m, 0x1FD), Peek8(m, 0x1FC); hi != 0x80 || lo != 0x02 {
		t.Errorf("return address = $%02X%02X, want $8002", hi, lo)
	}

	_, err = cpu.Execute()
	tcheck(t, err)
	if cpu.PC != 0x8003 || cpu.SP != 0xFD {
		t.Errorf("after RTS: PC=$%04X SP=$%02X, want PC=$8003 SP=$FD", cpu.PC, cpu.SP)
	}
}

func TestBRKRTI(t *testing.T) {
	m := newTestMapper(false)
	cpu := newTestCPU(m, 0x8000)
	cpu.P = Unused | Carry
	m.load(IRQVector, 0x00, 0x90)
	m.load(0x8000, 0x00, 0xFF) // BRK + padding byte
	m.load(0x9000, 0x40)       // RTI

	cycles, err := cpu.Execute()
	tcheck(t, err)
	if cycles != 7 || cpu.PC != 0x9000 {
		t.Fatalf("after BRK: cycles=%d PC=$%04X", cycles, cpu.PC)
	}
	if p := Peek8(m, 0x1FB); p != 0x31 {
		t.Errorf("stacked P = $%02X, want $31", p)
	}
	if !cpu.P.has(IntDisable) {
		t.Errorf("I flag not set")
	}

	_, err = cpu.Execute()
	tcheck(t, err)
	if cpu.PC != 0x8002 || cpu.P != Unused|Carry {
		t.Errorf("after RTI: PC=$%04X P=%s", cpu.PC, cpu.P)
	}
}

func TestDecodeError(t *testing.T) {
	m := newTestMapper(false)
	cpu := newTestCPU(m, 0x8000)
	m.load(0x8000, 0x02) // JAM

	cycles, err := cpu.Execute()
	if cycles != 0 {
		t.Errorf("cycles = %d, want 0", cycles)
	}
	if !errors.Is(err, ErrInvalidOpcode) {
		t.Fatalf("err = %v, want %v", err, ErrInvalidOpcode)
	}
	var derr *DecodeError
	if !errors.As(err, &derr) || derr.PC != 0x8000 || derr.Opcode != 0x02 {
		t.Errorf("err = %#v", err)
	}
	if !cpu.IsHalted() {
		t.Errorf("CPU should be halted")
	}

	// Halted until reset.
	if _, err2 := cpu.Execute(); err2 != err {
		t.Errorf("second Execute: err = %v, want %v", err2, err)
	}
	cpu.Reset(true)
	if cpu.IsHalted() {
		t.Errorf("CPU should not be halted after reset")
	}
}

func TestNilCPU(t *testing.T) {
	var cpu *CPU
	cycles, err := cpu.Execute()
	if cycles != 0 || err != nil {
		t.Errorf("Execute() = %d, %v, want 0, nil", cycles, err)
	}
	if got := cpu.exec(nil); got != 0 {
		t.Errorf("exec(nil) = %d, want 0", got)
	}
}

func TestPowerUp(t *testing.T) {
	m := newTestMapper(false)
	m.load(ResetVector, 0x00, 0xC0)
	m.load(0xC000, 0xEA) // NOP
	cpu := NewCPU(m)

	cycles, err := cpu.Execute()
	tcheck(t, err)
	want := regs{PC: 0xC001, SP: 0xFD, P: 0x24}
	if diff := cmp.Diff(want, regsOf(cpu)); diff != "" {
		t.Errorf("registers mismatch (-want +got):\n%s", diff)
	}
	// reset sequence + NOP
	if cycles != 7+2 {
		t.Errorf("cycles = %d, want 9", cycles)
	}
}

func TestOAMDMA(t *testing.T) {
	m, cpu, ppu, _ := newTestSystem(t)
	for i := range 256 {
		m.load(0x0200+uint16(i), uint8(i))
	}
	m.load(0x8000,
		0xA9, 0x02, // LDA #$02
		0x8D, 0x14, 0x40, // STA $4014
		0xEA, // NOP
	)

	tcheck(t, run(cpu, 2))
	if !cpu.dma.active {
		t.Fatalf("DMA should be active")
	}

	cycles, err := cpu.Execute()
	tcheck(t, err)
	want := 513
	if (cpu.Cycles-int64(cycles))&1 == 1 {
		want++
	}
	if cycles != want {
		t.Errorf("DMA cycles = %d, want %d", cycles, want)
	}
	for i := range 256 {
		if ppu.OAM[i] != uint8(i) {
			t.Fatalf("OAM[%d] = %d, want %d", i, ppu.OAM[i], i)
		}
	}
	if cpu.PC != 0x8005 {
		t.Errorf("PC = $%04X, want $8005", cpu.PC)
	}
}

func TestOAMDMAOddCycle(t *testing.T) {
	_, cpu, _, _ := newTestSystem(t)
	cpu.dma.active = true
	cpu.Cycles = 1
	if cycles, _ := cpu.Execute(); cycles != 514 {
		t.Errorf("DMA cycles = %d, want 514", cycles)
	}
}

func TestTraceOutput(t *testing.T) {
	m := newTestMapper(false)
	cpu := newTestCPU(m, 0x8000)
	m.load(0x8000, 0xA9, 0x32, 0xEA)

	var buf bytes.Buffer
	cpu.SetTraceOutput(&buf, TraceText)
	tcheck(t, run(cpu, 2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d trace lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "8000  A9 32     LDA #$32") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "8002  EA        NOP") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestDisasm(t *testing.T) {
	m := newTestMapper(false)
	m.load(0x8000,
		0xA9, 0x32, // LDA #$32
		0x8D, 0x00, 0x20, // STA $2000
		0xD0, 0xFE, // BNE *
		0xA7, 0x10, // LAX $10
		0x6C, 0xFC, 0xFF, // JMP ($FFFC)
		0x02, // JAM
	)

	want := `8000  LDA #$32
8002  STA PpuControl_2000
8005  BNE $8005
8007  *LAX $10
8009  JMP ($FFFC)
800C  ??? $02
`
	if got := DisasmRange(m, 0x8000, 6); got != want {
		t.Errorf("disassembly mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func run(cpu *CPU, n int) error {
	for range n {
		if _, err := cpu.Execute(); err != nil {
			return err
		}
	}
	return nil
}
