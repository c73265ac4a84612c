package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/sync/errgroup"

	"nescore/emu"
	"nescore/hw"
	"nescore/ines"
	"nescore/ui"
)

// emuMain runs the emulator with the given rom and returns the process exit
// code.
func emuMain(args Run, cfg emu.Config) int {
	rom, err := ines.Open(args.RomPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading ROM: %s\n", err)
		return 1
	}

	if args.Trace != nil {
		cfg.TraceOut = args.Trace
		if args.TraceFormat == "json" {
			cfg.TraceFormat = hw.TraceJSON
		}
		defer args.Trace.Close()
	}
	if args.Frames >= 0 {
		cfg.Emulation.Frames = args.Frames
	}

	if args.CPUProfile != "" {
		f, err := os.Create(args.CPUProfile)
		checkf(err, "failed to create cpu profile file")
		checkf(pprof.StartCPUProfile(f), "failed to start cpu profile")
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
			fmt.Println("CPU profile written to", args.CPUProfile)
		}()
	}

	if args.Headless {
		return runEmulator(rom, cfg, nil, args.Screenshot)
	}

	var exitcode int
	sdl.Main(func() {
		title := "nescore - " + filepath.Base(args.RomPath)
		screen, err := ui.NewScreen(title, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open window: %s\n", err)
			exitcode = 1
			return
		}
		exitcode = runEmulator(rom, cfg, screen, args.Screenshot)
	})
	return exitcode
}

func runEmulator(rom *ines.Rom, cfg emu.Config, out emu.Output, screenshot string) int {
	emulator, err := emu.Launch(rom, cfg, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start emulator: %s\n", err)
		if out != nil {
			out.Close()
		}
		return 1
	}

	emulator.SetScreenshot(screenshot)
	if err := emulator.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "emulation error: %s\n", err)
		return 1
	}
	return 0
}

// checkMain loads and runs each rom headless, for a few frames, and reports
// the ones that failed.
func checkMain(args Check) {
	errs := make([]error, len(args.RomPaths))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range args.RomPaths {
		g.Go(func() error {
			errs[i] = checkRom(path, args.Frames)
			return nil
		})
	}
	g.Wait()

	nfailed := 0
	for i, err := range errs {
		if err != nil {
			nfailed++
			fmt.Printf("FAIL %s: %s\n", args.RomPaths[i], err)
		} else {
			fmt.Printf("ok   %s\n", args.RomPaths[i])
		}
	}
	if nfailed != 0 {
		fatalf("%d/%d roms failed", nfailed, len(args.RomPaths))
	}
}

func checkRom(path string, frames int) error {
	rom, err := ines.Open(path)
	if err != nil {
		return err
	}

	nes, err := emu.PowerUp(rom)
	if err != nil {
		return err
	}
	defer nes.Close()

	for i := range frames {
		if err := nes.RunOneFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}
