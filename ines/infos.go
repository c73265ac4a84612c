package ines

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/go-faster/jx"
)

// PrintInfos writes a human readable summary of the rom header.
func (rom *Rom) PrintInfos(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "PRG ROM:\t%d x 16KiB\n", rom.PRGBanks())
	if rom.CHRBanks() == 0 {
		fmt.Fprintf(tw, "CHR ROM:\tnone (CHR RAM)\n")
	} else {
		fmt.Fprintf(tw, "CHR ROM:\t%d x 8KiB\n", rom.CHRBanks())
	}
	fmt.Fprintf(tw, "Mapper:\t%03d\n", rom.Mapper())
	fmt.Fprintf(tw, "Mirroring:\t%s\n", rom.Mirroring())
	fmt.Fprintf(tw, "Battery:\t%t\n", rom.HasPersistent())
	fmt.Fprintf(tw, "Trainer:\t%t\n", rom.HasTrainer())
	fmt.Fprintf(tw, "PRG RAM:\t%d KiB\n", rom.PRGRAMSize()/1024)
	fmt.Fprintf(tw, "VS System:\t%t\n", rom.IsVSSystem())
	fmt.Fprintf(tw, "PlayChoice:\t%t\n", rom.IsPlaychoice())
	fmt.Fprintf(tw, "TV system:\t%s\n", rom.TVSystem())
	tw.Flush()
}

// EncodeJSON encodes the rom header summary as a JSON object.
func (rom *Rom) EncodeJSON(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("prg_banks", func(e *jx.Encoder) { e.Int(rom.PRGBanks()) })
		e.Field("chr_banks", func(e *jx.Encoder) { e.Int(rom.CHRBanks()) })
		e.Field("mapper", func(e *jx.Encoder) { e.UInt8(rom.Mapper()) })
		e.Field("mirroring", func(e *jx.Encoder) { e.Str(rom.Mirroring().String()) })
		e.Field("battery", func(e *jx.Encoder) { e.Bool(rom.HasPersistent()) })
		e.Field("trainer", func(e *jx.Encoder) { e.Bool(rom.HasTrainer()) })
		e.Field("prg_ram_size", func(e *jx.Encoder) { e.Int(rom.PRGRAMSize()) })
		e.Field("vs_system", func(e *jx.Encoder) { e.Bool(rom.IsVSSystem()) })
		e.Field("playchoice", func(e *jx.Encoder) { e.Bool(rom.IsPlaychoice()) })
		e.Field("tv_system", func(e *jx.Encoder) { e.Str(rom.TVSystem().String()) })
	})
}

// MarshalJSON implements json.Marshaler.
func (rom *Rom) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	rom.EncodeJSON(&e)
	return e.Bytes(), nil
}
