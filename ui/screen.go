// Package ui implements the emulator output: an SDL window showing the frames
// and a keyboard mapping for both joypads.
//
// The SDL calls are serialized on the main thread with sdl.Do, so the program
// must run inside sdl.Main.
package ui

import (
	"fmt"
	"image"

	"github.com/veandco/go-sdl2/sdl"

	"nescore/emu"
	"nescore/emu/log"
	"nescore/hw"
)

// Screen is an emu.Output backed by an SDL window.
type Screen struct {
	win  *window
	keys [2][8]sdl.Scancode
	img  *image.RGBA

	// keyboard state, indexed by scancode, updated by sdl.PollEvent.
	kbstate []uint8
	quit    bool
}

// NewScreen opens the emulator window.
func NewScreen(title string, cfg emu.Config) (*Screen, error) {
	s := &Screen{img: image.NewRGBA(image.Rect(0, 0, hw.Width, hw.Height))}

	var err error
	sdl.Do(func() {
		s.win, err = newWindow(windowConfig{
			title: title,
			texw:  hw.Width,
			texh:  hw.Height,
			scale: cfg.Video.Scale,
			vsync: !cfg.Video.DisableVSync,
		})
		if err != nil {
			return
		}
		s.kbstate = sdl.GetKeyboardState()
		s.keys[0], err = scancodes(cfg.Input.Pad1)
		if err != nil {
			return
		}
		s.keys[1], err = scancodes(cfg.Input.Pad2)
	})
	if err != nil {
		if s.win != nil {
			sdl.Do(func() { s.win.Close() })
		}
		return nil, err
	}
	return s, nil
}

// scancodes maps the key names found in the configuration to SDL scancodes.
func scancodes(pc emu.PadConfig) ([8]sdl.Scancode, error) {
	var codes [8]sdl.Scancode
	buttons := hw.Buttons()
	for i, name := range pc.Keys() {
		if name == "" {
			continue
		}
		code := sdl.GetScancodeFromName(name)
		if code == sdl.SCANCODE_UNKNOWN {
			return codes, fmt.Errorf("unknown key name %q for button %s", name, buttons[i])
		}
		codes[i] = code
	}
	return codes, nil
}

// Poll implements emu.Output.
func (s *Screen) Poll() (uint16, bool) {
	var keys uint16
	sdl.Do(func() {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				s.quit = true
			case *sdl.KeyboardEvent:
				if e.Type == sdl.KEYDOWN && e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					s.quit = true
				}
			case *sdl.WindowEvent:
				if e.Event == sdl.WINDOWEVENT_RESIZED {
					s.win.resize(e.Data1, e.Data2)
				}
			}
		}
		keys = uint16(s.padState(1))<<8 | uint16(s.padState(0))
	})
	return keys, !s.quit
}

func (s *Screen) padState(idx int) uint8 {
	var state uint8
	for i, code := range s.keys[idx] {
		if code != sdl.SCANCODE_UNKNOWN && s.kbstate[code] != 0 {
			state |= 1 << i
		}
	}
	return state
}

// Present implements emu.Output.
func (s *Screen) Present(f *hw.Frame) {
	f.RGBA(s.img)
	sdl.Do(func() { s.win.draw(s.img.Pix) })
}

// Close implements emu.Output.
func (s *Screen) Close() error {
	var err error
	sdl.Do(func() { err = s.win.Close() })
	log.ModEmu.DebugZ("window closed").End()
	return err
}
