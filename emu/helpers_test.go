package emu

import (
	"bytes"
	"fmt"
	"testing"

	"nescore/ines"
)

func tcheck(tb testing.TB, err error) {
	if err == nil {
		return
	}

	tb.Helper()
	tb.Fatalf("fatal error:\n\n%s\n", err)
}

func tcheckf(tb testing.TB, err error, format string, args ...any) {
	if err == nil {
		return
	}

	tb.Helper()
	tb.Fatalf("fatal error:\n\n%s: %s\n", fmt.Sprintf(format, args...), err)
}

// program is a memory image of a 16KiB NROM cartridge, mapped at $8000 and
// $C000.
type program map[uint16][]byte

// rom assembles p into an iNES rom. The reset vector points at $8000, the NMI
// vector at $8100 and the IRQ vector at $8200.
func (p program) rom(tb testing.TB) *ines.Rom {
	tb.Helper()

	prg := make([]byte, ines.PRGBankSize)
	for addr, code := range p {
		copy(prg[addr&0x3FFF:], code)
	}
	copy(prg[0x3FFA:], []byte{0x00, 0x81, 0x00, 0x80, 0x00, 0x82})

	buf := []byte(ines.Magic)
	buf = append(buf, 1, 1, 0, 0)
	buf = append(buf, make([]byte, 8)...)
	buf = append(buf, prg...)
	buf = append(buf, make([]byte, ines.CHRBankSize)...)

	rom := new(ines.Rom)
	_, err := rom.ReadFrom(bytes.NewReader(buf))
	tcheckf(tb, err, "bad test rom")
	return rom
}

// nmiCounter enables NMI then loops forever. Each NMI increments $00 and
// stores the A button state of joypad 1 in $01.
var nmiCounter = program{
	0x8000: {
		0x78,             // SEI
		0xD8,             // CLD
		0xA9, 0x80,       // LDA #$80
		0x8D, 0x00, 0x20, // STA $2000
		0x4C, 0x07, 0x80, // JMP $8007
	},
	0x8100: {
		0xE6, 0x00, // INC $00
		0xA9, 0x01, // LDA #$01
		0x8D, 0x16, 0x40, // STA $4016
		0xA9, 0x00, // LDA #$00
		0x8D, 0x16, 0x40, // STA $4016
		0xAD, 0x16, 0x40, // LDA $4016
		0x29, 0x01, // AND #$01
		0x85, 0x01, // STA $01
		0x40, // RTI
	},
}

func powerUp(tb testing.TB, p program) *NES {
	tb.Helper()

	nes, err := PowerUp(p.rom(tb))
	tcheck(tb, err)
	tb.Cleanup(nes.Close)
	return nes
}
