// Package ines implements a reader for roms in the iNES file format, used for
// the distribution of NES binary programs.
package ines

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const Magic = "NES\x1a"

const (
	HeaderSize  = 16
	TrainerSize = 512
	PRGBankSize = 0x4000 // 16 KiB units
	CHRBankSize = 0x2000 // 8 KiB units
	RAMBankSize = 0x2000 // 8 KiB units
)

var (
	ErrBadMagic  = errors.New("invalid magic number")
	ErrRipped    = errors.New("non-standard header (bytes 10-15 not zero)")
	ErrTruncated = errors.New("truncated rom")
	ErrNoPRG     = errors.New("rom has no PRG bank")
)

type Rom struct {
	header
	Trainer []byte // Trainer, 512 bytes if present, or empty.
	PRGROM  []byte // PRG ROM data (length is multiple of 16k)
	CHRROM  []byte // CHR ROM data (length is multiple of 8k), empty for CHR-RAM
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom interface.
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	// header
	var off int
	if err := rom.decode(buf); err != nil {
		return 0, fmt.Errorf("failed to decode header: %w", err)
	}
	off += HeaderSize

	// trainer
	if rom.HasTrainer() {
		if len(buf) < off+TrainerSize {
			return 0, fmt.Errorf("incomplete TRAINER section: %w", ErrTruncated)
		}
		rom.Trainer = buf[off : off+TrainerSize]
		off += TrainerSize
	}

	// PRG rom data
	if len(buf) < off+rom.prgsz {
		return 0, fmt.Errorf("incomplete PRG section: %w", ErrTruncated)
	}
	rom.PRGROM = buf[off : off+rom.prgsz]
	off += rom.prgsz

	// CHR rom data
	if len(buf) < off+rom.chrsz {
		return 0, fmt.Errorf("incomplete CHR section: %w", ErrTruncated)
	}
	rom.CHRROM = buf[off : off+rom.chrsz]
	off += rom.chrsz

	return int64(off), nil
}

type header struct {
	raw   [HeaderSize]byte
	prgsz int
	chrsz int
}

func (hdr *header) decode(p []byte) error {
	if len(p) < HeaderSize {
		return fmt.Errorf("too small, needs %d bytes: %w", HeaderSize, ErrTruncated)
	}
	if string(p[:4]) != Magic {
		return ErrBadMagic
	}
	for _, b := range p[10:HeaderSize] {
		if b != 0 {
			return ErrRipped
		}
	}
	copy(hdr.raw[:], p[:HeaderSize])

	hdr.prgsz = int(hdr.raw[4]) * PRGBankSize
	hdr.chrsz = int(hdr.raw[5]) * CHRBankSize
	if hdr.prgsz == 0 {
		return ErrNoPRG
	}
	return nil
}

// Raw returns a copy of the 16-byte header.
func (hdr *header) Raw() [HeaderSize]byte {
	return hdr.raw
}

// PRGBanks returns the number of 16 KiB PRG ROM banks.
func (hdr *header) PRGBanks() int { return int(hdr.raw[4]) }

// CHRBanks returns the number of 8 KiB CHR ROM banks. 0 means the cartridge
// uses CHR RAM.
func (hdr *header) CHRBanks() int { return int(hdr.raw[5]) }

// Mirroring returns the nametable mirroring mode wired in the cartridge.
func (hdr *header) Mirroring() NTMirroring {
	if hdr.raw[6]&0x08 != 0 {
		return FourScreen
	}
	if hdr.raw[6]&0x01 != 0 {
		return VertMirroring
	}
	return HorzMirroring
}

// HasPersistent indicates the presence of battery-backed save RAM.
func (hdr *header) HasPersistent() bool { return hdr.raw[6]&0x02 != 0 }

// HasTrainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool { return hdr.raw[6]&0x04 != 0 }

// Mapper returns the mapper number.
func (hdr *header) Mapper() uint8 { return hdr.raw[7]&0xF0 | hdr.raw[6]>>4 }

// IsVSSystem reports whether the rom targets the VS Unisystem.
func (hdr *header) IsVSSystem() bool { return hdr.raw[7]&0x01 != 0 }

// IsPlaychoice reports whether the rom targets the PlayChoice-10.
func (hdr *header) IsPlaychoice() bool { return hdr.raw[7]&0x02 != 0 }

// IsNES20 reports whether the header uses the NES 2.0 extension.
func (hdr *header) IsNES20() bool { return hdr.raw[7]&0x0C == 0x08 }

// PRGRAMSize returns the size of the save RAM, in bytes. A value of 0 in the
// header implies 8 KiB for compatibility.
func (hdr *header) PRGRAMSize() int {
	return max(1, int(hdr.raw[8])) * RAMBankSize
}

// TVSystem returns the television system the rom targets.
func (hdr *header) TVSystem() TVSystem {
	return TVSystem(hdr.raw[9] & 0x01)
}

type NTMirroring uint8

const (
	HorzMirroring NTMirroring = iota
	VertMirroring
	FourScreen
	OnlyAScreen
	OnlyBScreen
)

func (m NTMirroring) String() string {
	switch m {
	case HorzMirroring:
		return "horizontal"
	case VertMirroring:
		return "vertical"
	case FourScreen:
		return "four-screen"
	case OnlyAScreen:
		return "single-screen A"
	case OnlyBScreen:
		return "single-screen B"
	}
	return fmt.Sprintf("NTMirroring(%d)", uint8(m))
}

type TVSystem uint8

const (
	NTSC TVSystem = iota
	PAL
)

func (tv TVSystem) String() string {
	if tv == PAL {
		return "PAL"
	}
	return "NTSC"
}
