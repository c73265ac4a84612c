package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"nescore/emu"
	"nescore/ines"
)

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case romInfosMode:
		romInfosMain(cli.RomInfos)
	case checkMode:
		checkMain(cli.Check)
	case versionMode:
		fmt.Println("nescore", version())
	default:
		cfg := emu.LoadConfigOrDefault(cli.Config)
		os.Exit(emuMain(cli.Run, cfg))
	}
}

func romInfosMain(args RomInfos) {
	rom, err := ines.Open(args.RomPath)
	checkf(err, "failed to open rom")

	if args.JSON {
		buf, err := rom.MarshalJSON()
		checkf(err, "failed to encode rom infos")
		fmt.Printf("%s\n", buf)
		return
	}
	rom.PrintInfos(os.Stdout)
}

func version() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" {
		return "(devel)"
	}
	return bi.Main.Version
}
