package emu

import (
	"fmt"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/hw/mappers"
	"nescore/ines"
)

// Number of PPU cycles per CPU cycle (NTSC).
const ppuCyclesPerCPU = 3

// NES owns and wires the hardware components of the console.
type NES struct {
	Mapper hw.Mapper
	CPU    *hw.CPU
	PPU    *hw.PPU
	Ctrl   *hw.Controller
	Rom    *ines.Rom
}

// PowerUp creates a console with rom inserted, in its power up state.
func PowerUp(rom *ines.Rom) (*NES, error) {
	m, err := mappers.Load(rom)
	if err != nil {
		return nil, err
	}

	nes := &NES{
		Mapper: m,
		CPU:    hw.NewCPU(m),
		PPU:    hw.NewPPU(m),
		Ctrl:   hw.NewController(),
		Rom:    rom,
	}
	if err := m.IORegs().Connect(nes.CPU, nes.PPU, nes.Ctrl); err != nil {
		m.Release()
		return nil, fmt.Errorf("failed to connect hardware: %w", err)
	}

	nes.Reset(false)
	return nes, nil
}

// Reset resets the console. A soft reset is the reset button, which keeps
// the CPU registers and the memory contents.
func (nes *NES) Reset(soft bool) {
	log.ModEmu.InfoZ("reset").Bool("soft", soft).End()
	nes.PPU.Reset()
	nes.CPU.Reset(soft)
}

// RunOneFrame runs the console until the PPU completes a frame, that is until
// the start of the next vertical blank.
func (nes *NES) RunOneFrame() error {
	for {
		cycles, err := nes.CPU.Execute()
		if err != nil {
			return err
		}
		nes.PPU.Run(ppuCyclesPerCPU * cycles)
		nes.Ctrl.Step()
		if nes.PPU.FrameComplete() {
			return nil
		}
	}
}

// SetButtons sets the state of the buttons of both joypads, as a combination
// of hw.Button values.
func (nes *NES) SetButtons(pad1, pad2 uint8) {
	nes.Ctrl.SetKeys(uint16(pad2)<<8 | uint16(pad1))
}

// Frame returns the last frame rendered by the PPU.
func (nes *NES) Frame() *hw.Frame {
	return nes.PPU.Frame()
}

// Close releases all the memory of the console.
func (nes *NES) Close() {
	nes.Mapper.Release()
}
