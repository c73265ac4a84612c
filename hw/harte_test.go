package hw

import (
	"fmt"
	"path/filepath"
	"testing"

	"nescore/tests"
)

// TestProcessorTests runs the Tom Harte single step tests, for the documented
// opcodes.
func TestProcessorTests(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long test")
	}

	dir := tests.TomHarteProcTestsPath(t)
	for opcode := range 256 {
		if !official(uint8(opcode)) {
			continue
		}
		opstr := fmt.Sprintf("%02x", opcode)
		t.Run(opstr, func(t *testing.T) {
			t.Parallel()

			procTests, err := tests.LoadProcTests(filepath.Join(dir, opstr+".json"))
			tcheck(t, err)
			for _, pt := range procTests {
				runProcTest(t, pt)
			}
		})
	}
}

// B and U are not physical flags, they only exist on the stack.
const stackOnly = Break | Unused

func runProcTest(t *testing.T, pt tests.ProcTest) {
	t.Helper()

	m := newTestMapper(false)
	defer m.Release()

	for _, cell := range pt.Initial.RAM {
		Poke8(m, cell[0], uint8(cell[1]))
	}
	cpu := newTestCPU(m, pt.Initial.PC)
	cpu.SP = pt.Initial.S
	cpu.A = pt.Initial.A
	cpu.X = pt.Initial.X
	cpu.Y = pt.Initial.Y
	cpu.P = P(pt.Initial.P)

	cycles, err := cpu.Execute()
	if err != nil {
		t.Errorf("%s: %s", pt.Name, err)
		return
	}

	want := regs{
		A:  pt.Final.A,
		X:  pt.Final.X,
		Y:  pt.Final.Y,
		SP: pt.Final.S,
		PC: pt.Final.PC,
		P:  P(pt.Final.P) &^ stackOnly,
	}
	got := regsOf(cpu)
	got.P &^= stackOnly
	if got != want {
		t.Errorf("%s: registers\ngot  %+v\nwant %+v", pt.Name, got, want)
	}
	if cycles != pt.Cycles {
		t.Errorf("%s: %d cycles, want %d", pt.Name, cycles, pt.Cycles)
	}
	for _, cell := range pt.Final.RAM {
		if got := Peek8(m, cell[0]); got != uint8(cell[1]) {
			t.Errorf("%s: ram[$%04X] = $%02X, want $%02X", pt.Name, cell[0], got, cell[1])
		}
	}
}
