package emu

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/ines"
)

// Output presents the frames produced by the emulator and provides the
// joypads state.
type Output interface {
	// Poll processes pending events and returns the state of both joypads,
	// pad 1 in the low byte. It returns false when the user asked to quit.
	Poll() (keys uint16, ok bool)

	// Present displays a complete frame.
	Present(*hw.Frame)

	Close() error
}

// headless is the Output used when running without a window.
type headless struct{}

func (headless) Poll() (uint16, bool) { return 0, true }
func (headless) Present(*hw.Frame)    {}
func (headless) Close() error         { return nil }

type Emulator struct {
	NES *NES
	out Output
	cfg EmulationConfig

	// These are accessed concurrently by the emulator loop and the UI.
	quit    atomic.Bool
	paused  atomic.Bool
	reset   atomic.Bool
	restart atomic.Bool

	frames     int
	screenshot string
}

// Launch powers up the console and plugs it to out. A nil Output runs the
// emulator headless. It doesn't start the emulation loop, call Run() for that.
func Launch(rom *ines.Rom, cfg Config, out Output) (*Emulator, error) {
	cfg.check()

	nes, err := PowerUp(rom)
	if err != nil {
		return nil, fmt.Errorf("power up failed: %w", err)
	}

	if out == nil {
		out = headless{}
	}

	// CPU execution trace setup.
	if cfg.TraceOut != nil {
		nes.CPU.SetTraceOutput(cfg.TraceOut, cfg.TraceFormat)
	}

	return &Emulator{
		NES: nes,
		out: out,
		cfg: cfg.Emulation,
	}, nil
}

// SetScreenshot sets the path of the PNG file where the last frame is
// written when the emulation loop exits.
func (e *Emulator) SetScreenshot(path string) { e.screenshot = path }

// Frames returns the number of frames run so far.
func (e *Emulator) Frames() int { return e.frames }

// RunOneFrame runs the console for one frame, with the joypads state
// given by the output, then presents it.
func (e *Emulator) RunOneFrame() (bool, error) {
	keys, ok := e.out.Poll()
	if !ok {
		return false, nil
	}
	e.NES.SetButtons(uint8(keys), uint8(keys>>8))
	if err := e.NES.RunOneFrame(); err != nil {
		return false, err
	}
	e.frames++
	e.out.Present(e.NES.Frame())
	return true, nil
}

func (e *Emulator) loop() error {
	for {
		if e.isPaused() {
			// Don't burn cpu while paused.
			if _, ok := e.out.Poll(); !ok {
				return nil
			}
			time.Sleep(100 * time.Millisecond)
		} else {
			ok, err := e.RunOneFrame()
			if err != nil || !ok {
				return err
			}
		}
		if e.shouldStop() {
			return nil
		}
		e.handleReset()
	}
}

// Run runs the emulation loop until the output is closed, the frame limit is
// reached, Stop is called or the CPU halts.
func (e *Emulator) Run() error {
	err := e.loop()
	if err != nil {
		log.ModEmu.ErrorZ("Emulation stopped").Error("err", err).End()
	} else {
		log.ModEmu.InfoZ("Emulation loop exited").Int("frames", e.frames).End()
	}

	if e.screenshot != "" {
		if serr := e.saveScreenshot(); serr != nil {
			log.ModEmu.WarnZ("Failed to save screenshot").
				String("path", e.screenshot).
				Error("err", serr).
				End()
		}
	}

	if cerr := e.out.Close(); err == nil {
		err = cerr
	}
	e.NES.Close()
	return err
}

func (e *Emulator) saveScreenshot() error {
	f, err := os.Create(e.screenshot)
	if err != nil {
		return err
	}
	if err := e.NES.Frame().WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SetPause, Stop, Reset and Restart allows to control
// the emulator loop in a concurrent-safe way.

func (e *Emulator) SetPause(pause bool) { e.paused.CompareAndSwap(!pause, pause) }
func (e *Emulator) Reset()              { e.reset.Store(true) }
func (e *Emulator) Restart()            { e.restart.Store(true) }
func (e *Emulator) Stop() {
	e.quit.Store(true)
}

func (e *Emulator) isPaused() bool {
	return e.paused.Load()
}

func (e *Emulator) shouldStop() bool {
	if e.cfg.Frames > 0 && e.frames >= e.cfg.Frames {
		return true
	}
	return e.quit.Load() || e.NES.CPU.IsHalted()
}

func (e *Emulator) handleReset() {
	if e.reset.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing soft reset").End()
		e.NES.Reset(true)
	} else if e.restart.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing hard reset").End()
		e.NES.Reset(false)
	}
}
