// Package hwio provides the memory model shared by the emulated components.
//
// All addressable storage lives in an Arena, as a set of flat byte regions.
// Components never hold pointers into that storage: they resolve addresses to
// Cells, which are (region, offset) pairs, and access the Arena through them.
package hwio

import (
	"fmt"

	"nescore/emu/log"
)

// Region identifies a memory region inside an Arena.
type Region uint8

// Dummy is the shared region every unconnected address resolves to. It always
// exists and holds a single byte.
const Dummy Region = 0

// A Cell is a reference to a single byte of an Arena.
type Cell struct {
	Region Region
	Off    uint32
}

// DummyCell is the zero Cell.
var DummyCell = Cell{}

func (c Cell) String() string {
	return fmt.Sprintf("%d:%04X", c.Region, c.Off)
}

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlag8ReadOnly MemFlags = (1 << iota) // read-only, writes logged as errors
	MemFlagNoROLog                          // read-only, writes silently ignored
)

type region struct {
	name  string
	data  []byte
	flags MemFlags
}

// Arena owns the backing storage of all memory regions of a machine.
type Arena struct {
	regions []region
}

func NewArena() *Arena {
	a := &Arena{}
	a.regions = append(a.regions, region{name: "dummy", data: make([]byte, 1)})
	return a
}

// Alloc allocates a zeroed region of the given size.
func (a *Arena) Alloc(name string, size int, flags MemFlags) Region {
	return a.Load(name, make([]byte, size), flags)
}

// Load creates a region holding a copy of data.
func (a *Arena) Load(name string, data []byte, flags MemFlags) Region {
	if len(a.regions) > 0xFF {
		panic("too many memory regions")
	}
	if len(data) == 0 {
		panic(fmt.Sprintf("empty memory region %q", name))
	}
	buf := make([]byte, len(data))
	copy(buf, data)

	id := Region(len(a.regions))
	a.regions = append(a.regions, region{name: name, data: buf, flags: flags})

	log.ModHwIo.DebugZ("allocated region").
		String("name", name).
		Int("size", len(buf)).
		Uint8("id", uint8(id)).
		End()
	return id
}

// Release frees all regions. Any subsequent access resolves to the dummy cell.
func (a *Arena) Release() {
	a.regions = a.regions[:1]
	a.regions[0].data[0] = 0
}

func (a *Arena) get(c Cell) *region {
	if int(c.Region) >= len(a.regions) {
		return &a.regions[0]
	}
	return &a.regions[c.Region]
}

func (a *Arena) Read8(c Cell) uint8 {
	r := a.get(c)
	return r.data[c.Off%uint32(len(r.data))]
}

// Write8 writes val at c. It reports false, leaving memory untouched, if the
// region is read-only.
func (a *Arena) Write8(c Cell, val uint8) bool {
	r := a.get(c)
	switch r.flags {
	case MemFlag8ReadOnly:
		log.ModHwIo.ErrorZ("Write8 to readonly memory").
			String("area", r.name).
			Hex32("off", c.Off).
			Hex8("val", val).
			End()
		return false
	case MemFlagNoROLog:
		return false
	}
	r.data[c.Off%uint32(len(r.data))] = val
	return true
}

// Poke writes val at c, ignoring read-only protection.
func (a *Arena) Poke(c Cell, val uint8) {
	r := a.get(c)
	r.data[c.Off%uint32(len(r.data))] = val
}

// Data returns the backing buffer of a region.
func (a *Arena) Data(id Region) []byte {
	return a.get(Cell{Region: id}).data
}

// Name returns the name of a region.
func (a *Arena) Name(id Region) string {
	return a.get(Cell{Region: id}).name
}

// Size returns the size of a region, in bytes.
func (a *Arena) Size(id Region) int {
	return len(a.get(Cell{Region: id}).data)
}

// NumRegions returns the number of allocated regions, including Dummy.
func (a *Arena) NumRegions() int {
	return len(a.regions)
}
