package hw

import (
	"fmt"
	"io"

	"github.com/go-faster/jx"
)

// TraceFormat selects the format of the execution trace.
type TraceFormat uint8

const (
	TraceText TraceFormat = iota // one nestest-like line per instruction
	TraceJSON                    // one JSON object per line
)

// cpuState stores the CPU state for the execution trace.
type cpuState struct {
	A, X, Y uint8
	P       P
	SP      uint8
	PC      uint16

	Clock    int64
	PPUCycle int
	Scanline int
}

type disasmer interface {
	Disasm(pc uint16) DisasmOp
}

type tracer struct {
	d      disasmer
	w      io.Writer
	format TraceFormat

	buf []byte
	enc jx.Encoder
}

// SetTraceOutput enables the execution trace, written to w before each
// instruction. A nil writer disables it.
func (c *CPU) SetTraceOutput(w io.Writer, format TraceFormat) {
	if w == nil {
		c.tracer = nil
		return
	}
	c.tracer = &tracer{d: c, w: w, format: format}
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

// appendReg appends "name:XX ".
func appendReg(buf []byte, name byte, v uint8) []byte {
	buf = append(buf, name, ':', 0, 0, ' ')
	hexEncode(buf[len(buf)-3:], v)
	return buf
}

// write the execution trace for current instruction.
func (t *tracer) write(state cpuState) {
	dis := t.d.Disasm(state.PC)
	if t.format == TraceJSON {
		t.writeJSON(dis, state)
		return
	}

	const regsCol = 49

	buf := append(t.buf[:0], dis.Bytes()...)
	for len(buf) < regsCol {
		buf = append(buf, ' ')
	}
	buf = appendReg(buf, 'A', state.A)
	buf = appendReg(buf, 'X', state.X)
	buf = appendReg(buf, 'Y', state.Y)
	buf = appendReg(buf, 'P', uint8(state.P))
	buf = appendReg(buf, 'S', state.SP)
	buf = fmt.Appendf(buf, "PPU:%-3d,%-3d %d\n", state.Scanline, state.PPUCycle, state.Clock)

	t.buf = buf
	t.w.Write(buf)
}

func (t *tracer) writeJSON(dis DisasmOp, state cpuState) {
	e := &t.enc
	e.Reset()
	e.Obj(func(e *jx.Encoder) {
		e.Field("pc", func(e *jx.Encoder) { e.UInt16(state.PC) })
		e.Field("op", func(e *jx.Encoder) { e.Str(dis.String()) })
		e.Field("a", func(e *jx.Encoder) { e.UInt8(state.A) })
		e.Field("x", func(e *jx.Encoder) { e.UInt8(state.X) })
		e.Field("y", func(e *jx.Encoder) { e.UInt8(state.Y) })
		e.Field("p", func(e *jx.Encoder) { e.UInt8(uint8(state.P)) })
		e.Field("sp", func(e *jx.Encoder) { e.UInt8(state.SP) })
		e.Field("scanline", func(e *jx.Encoder) { e.Int(state.Scanline) })
		e.Field("dot", func(e *jx.Encoder) { e.Int(state.PPUCycle) })
		e.Field("cycles", func(e *jx.Encoder) { e.Int64(state.Clock) })
	})
	t.buf = append(append(t.buf[:0], e.Bytes()...), '\n')
	t.w.Write(t.buf)
}
