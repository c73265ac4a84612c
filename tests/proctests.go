package tests

import (
	"fmt"
	"os"

	"github.com/go-faster/jx"
)

// ProcTest is a single step test of the Tom Harte processor tests suite.
type ProcTest struct {
	Name    string
	Initial ProcState
	Final   ProcState
	Cycles  int // number of bus cycles of the instruction
}

// ProcState is the CPU and memory state before or after a ProcTest.
type ProcState struct {
	PC      uint16
	S, A, X uint8
	Y, P    uint8
	RAM     [][2]uint16 // address, value
}

// LoadProcTests decodes a JSON file of the Tom Harte processor tests.
func LoadProcTests(path string) ([]ProcTest, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tests []ProcTest
	d := jx.DecodeBytes(buf)
	err = d.Arr(func(d *jx.Decoder) error {
		var pt ProcTest
		if err := pt.decode(d); err != nil {
			return err
		}
		tests = append(tests, pt)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tests, nil
}

func (pt *ProcTest) decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			s, err := d.Str()
			pt.Name = s
			return err
		case "initial":
			return pt.Initial.decode(d)
		case "final":
			return pt.Final.decode(d)
		case "cycles":
			return d.Arr(func(d *jx.Decoder) error {
				pt.Cycles++
				return d.Skip()
			})
		}
		return d.Skip()
	})
}

func decodeUint(d *jx.Decoder, hi int) (int, error) {
	v, err := d.Int()
	if err != nil {
		return 0, err
	}
	if v < 0 || v > hi {
		return 0, fmt.Errorf("value %d out of range [0, %d]", v, hi)
	}
	return v, nil
}

func (ps *ProcState) decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var reg *uint8
		switch key {
		case "pc":
			v, err := decodeUint(d, 0xFFFF)
			ps.PC = uint16(v)
			return err
		case "s":
			reg = &ps.S
		case "a":
			reg = &ps.A
		case "x":
			reg = &ps.X
		case "y":
			reg = &ps.Y
		case "p":
			reg = &ps.P
		case "ram":
			return d.Arr(func(d *jx.Decoder) error {
				var (
					cell [2]uint16
					i    int
				)
				err := d.Arr(func(d *jx.Decoder) error {
					if i >= len(cell) {
						return fmt.Errorf("ram entry has more than %d values", len(cell))
					}
					v, err := decodeUint(d, 0xFFFF)
					cell[i] = uint16(v)
					i++
					return err
				})
				ps.RAM = append(ps.RAM, cell)
				return err
			})
		default:
			return d.Skip()
		}

		v, err := decodeUint(d, 0xFF)
		*reg = uint8(v)
		return err
	})
}
