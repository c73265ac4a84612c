package emu

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"nescore/emu/log"
	"nescore/hw"
)

type Config struct {
	Input     InputConfig     `toml:"input"`
	Video     VideoConfig     `toml:"video"`
	Emulation EmulationConfig `toml:"emulation"`

	TraceOut    io.WriteCloser `toml:"-"`
	TraceFormat hw.TraceFormat `toml:"-"`
}

type InputConfig struct {
	Pad1 PadConfig `toml:"pad1"`
	Pad2 PadConfig `toml:"pad2"`
}

// PadConfig holds the key names mapped to the buttons of a joypad. Names are
// those of SDL keys. An empty name leaves the button unmapped.
type PadConfig struct {
	A      string `toml:"a"`
	B      string `toml:"b"`
	Select string `toml:"select"`
	Start  string `toml:"start"`
	Up     string `toml:"up"`
	Down   string `toml:"down"`
	Left   string `toml:"left"`
	Right  string `toml:"right"`
}

// Keys returns the key names in button order.
func (pc PadConfig) Keys() [8]string {
	return [8]string{pc.A, pc.B, pc.Select, pc.Start, pc.Up, pc.Down, pc.Left, pc.Right}
}

type VideoConfig struct {
	Scale        int  `toml:"scale"`
	DisableVSync bool `toml:"disable_vsync"`
}

type EmulationConfig struct {
	// Number of frames to run before exiting, 0 means no limit.
	Frames int `toml:"frames"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Input: InputConfig{
			Pad1: PadConfig{
				A:      "X",
				B:      "Z",
				Select: "Right Shift",
				Start:  "Return",
				Up:     "Up",
				Down:   "Down",
				Left:   "Left",
				Right:  "Right",
			},
		},
		Video: VideoConfig{
			Scale: 2,
		},
	}
}

func (cfg *Config) check() {
	if cfg.Video.Scale < 1 || cfg.Video.Scale > 8 {
		log.ModEmu.Warnf("Invalid video scale %d, fallback to 2", cfg.Video.Scale)
		cfg.Video.Scale = 2
	}
	if cfg.Emulation.Frames < 0 {
		cfg.Emulation.Frames = 0
	}
}

const cfgFilename = "config.toml"

// ConfigPath returns the path of the configuration file in the user
// configuration directory, creating the directory if needed.
func ConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "nescore")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return filepath.Join(dir, cfgFilename), nil
}

// LoadConfigOrDefault loads the configuration at path, or from the user
// configuration directory if path is empty. Missing settings keep their
// default value, and the whole default configuration is returned if the file
// can't be read.
func LoadConfigOrDefault(path string) Config {
	cfg := DefaultConfig()
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			log.ModEmu.WarnZ("No configuration directory").Error("err", err).End()
			return cfg
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.ModEmu.WarnZ("Invalid configuration, using defaults").
				String("path", path).
				Error("err", err).
				End()
		}
		return DefaultConfig()
	}
	cfg.check()
	return cfg
}

// SaveConfig writes cfg at path, or in the user configuration directory if path
// is empty.
func SaveConfig(cfg Config, path string) error {
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return err
		}
	}

	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}
