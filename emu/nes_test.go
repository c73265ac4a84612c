package emu

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nescore/hw"
	"nescore/ines"
	"nescore/tests"
)

func TestPowerUp(t *testing.T) {
	nes := powerUp(t, nmiCounter)

	if nes.Mapper.Name() != "NROM" {
		t.Errorf("mapper = %s, want NROM", nes.Mapper.Name())
	}
	if nes.CPU.Pending()&hw.IntReset == 0 {
		t.Errorf("reset should be pending after power up")
	}
	if nes.PPU.Scanline != -1 || nes.PPU.Cycle != 0 {
		t.Errorf("PPU at %d,%d, want -1,0", nes.PPU.Scanline, nes.PPU.Cycle)
	}
}

func TestPowerUpUnsupportedMapper(t *testing.T) {
	rom := nmiCounter.rom(t)
	raw := rom.Raw()
	raw[6] |= 0x10 // mapper 1

	buf := append(raw[:], rom.PRGROM...)
	buf = append(buf, rom.CHRROM...)
	path := filepath.Join(t.TempDir(), "mmc1.nes")
	tcheck(t, os.WriteFile(path, buf, 0644))

	rom, err := ines.Open(path)
	tcheck(t, err)
	if _, err := PowerUp(rom); err == nil {
		t.Fatalf("PowerUp should fail with mapper 1")
	}
}

func TestRunOneFrame(t *testing.T) {
	nes := powerUp(t, nmiCounter)

	const nframes = 5
	var start int64
	for i := range nframes {
		tcheck(t, nes.RunOneFrame())
		if i == 0 {
			start = nes.CPU.Cycles
		}
	}
	if nes.PPU.Frames != nframes {
		t.Errorf("PPU frames = %d, want %d", nes.PPU.Frames, nframes)
	}
	// The NMI of the last frame is still pending.
	if got := hw.Peek8(nes.Mapper, 0x00); got != nframes-1 {
		t.Errorf("NMI count = %d, want %d", got, nframes-1)
	}

	// A NTSC frame is 29780.67 CPU cycles.
	// The first frame starts at the pre-render line, measure the others.
	perFrame := (nes.CPU.Cycles - start) / (nframes - 1)
	if perFrame < 29700 || perFrame > 29800 {
		t.Errorf("cycles per frame = %d, want ~29781", perFrame)
	}
}

func TestSetButtons(t *testing.T) {
	nes := powerUp(t, nmiCounter)

	nes.SetButtons(uint8(hw.ButtonA), 0)
	for range 3 {
		tcheck(t, nes.RunOneFrame())
	}
	if got := hw.Peek8(nes.Mapper, 0x01); got != 1 {
		t.Errorf("A button = %d, want 1", got)
	}

	nes.SetButtons(uint8(hw.ButtonB), uint8(hw.ButtonA))
	if got := nes.Ctrl.Keys(); got != 0x0102 {
		t.Errorf("keys = $%04X, want $0102", got)
	}
	for range 2 {
		tcheck(t, nes.RunOneFrame())
	}
	if got := hw.Peek8(nes.Mapper, 0x01); got != 0 {
		t.Errorf("A button = %d, want 0", got)
	}
}

func TestRunOneFrameHalt(t *testing.T) {
	nes := powerUp(t, program{
		0x8000: {0xEA, 0xEA, 0x02}, // NOP NOP JAM
	})

	err := nes.RunOneFrame()
	var derr *hw.DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("RunOneFrame() error = %v, want a decode error", err)
	}
	if derr.PC != 0x8002 {
		t.Errorf("decode error at $%04X, want $8002", derr.PC)
	}
	if !nes.CPU.IsHalted() {
		t.Errorf("CPU should be halted")
	}

	nes.Reset(true)
	if nes.CPU.IsHalted() {
		t.Errorf("CPU should run again after reset")
	}
}

func TestSoftReset(t *testing.T) {
	nes := powerUp(t, nmiCounter)
	for range 3 {
		tcheck(t, nes.RunOneFrame())
	}

	nes.Reset(true)
	if nes.CPU.Pending()&hw.IntReset == 0 {
		t.Errorf("reset should be pending")
	}
	// RAM survives a reset.
	if got := hw.Peek8(nes.Mapper, 0x00); got != 2 {
		t.Errorf("NMI count = %d after reset, want 2", got)
	}
	tcheck(t, nes.RunOneFrame())
	if nes.CPU.P&hw.IntDisable == 0 {
		t.Errorf("I flag should be set after reset")
	}
}

func TestNestest(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test requiring test roms in short mode")
	}

	rom, err := ines.Open(filepath.Join(tests.RomsPath(t), "other", "nestest.nes"))
	tcheck(t, err)
	nes, err := PowerUp(rom)
	tcheck(t, err)
	defer nes.Close()

	// Run the reset sequence and the first instruction, then start the automated mode at $C000, with
	// the state nestest.log shows.
	_, err = nes.CPU.Execute()
	tcheck(t, err)
	nes.CPU.PC = 0xC000
	nes.CPU.A, nes.CPU.X, nes.CPU.Y = 0, 0, 0
	nes.CPU.SP = 0xFD
	nes.CPU.P = hw.P(0x24)

	if testing.Verbose() {
		f, err := os.Create(filepath.Join(t.TempDir(), "nestest.log"))
		tcheck(t, err)
		defer f.Close()
		nes.CPU.SetTraceOutput(f, hw.TraceText)
	}

	const endPC = 0xC66E
	for i := 0; nes.CPU.PC != endPC; i++ {
		if i > 10000 {
			t.Fatalf("nestest did not complete, PC = $%04X", nes.CPU.PC)
		}
		cycles, err := nes.CPU.Execute()
		tcheckf(t, err, "instruction %d", i)
		nes.PPU.Run(3 * cycles)
	}

	// Results of official and unofficial opcodes tests.
	if res := hw.Peek16(nes.Mapper, 0x02); res != 0 {
		t.Errorf("nestest failed with result $%04X", res)
	}
}
