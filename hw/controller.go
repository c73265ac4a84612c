package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// Button is a joypad button, as a bit of the 8-bit state of a single pad.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

var buttonNames = [8]string{"A", "B", "Select", "Start", "Up", "Down", "Left", "Right"}

func (b Button) String() string {
	for i, name := range buttonNames {
		if b == 1<<i {
			return name
		}
	}
	return "Button(?)"
}

// Buttons returns the names of all buttons, in shift order.
func Buttons() []string { return buttonNames[:] }

// Joypad is the shift register of a standard controller.
type Joypad struct {
	reg     uint8
	shift   uint8 // shift position, 1-10
	polling bool
}

// Latch loads the button state into the shift register and returns the first
// bit the CPU will read.
func (jp *Joypad) Latch(state uint8) uint8 {
	jp.reg = state
	jp.polling = true
	jp.shift = 1
	return jp.reg & 1
}

// Shift consumes the bit the CPU just read and returns it. The first 8 shifts
// return the latched buttons, least significant first, the 9th returns 1 and the
// 10th ends the polling sequence. Outside of a polling sequence Shift always
// returns 1.
func (jp *Joypad) Shift() uint8 {
	if !jp.polling {
		return 1
	}

	var bit uint8 = 1
	switch {
	case jp.shift <= 8:
		bit = jp.reg & 1
		jp.reg >>= 1
		jp.shift++
	case jp.shift == 9:
		jp.shift++
	default:
		jp.polling = false
		jp.reg = 0
		jp.shift = 1
	}
	return bit
}

// Next returns the bit the CPU reads next, without shifting.
func (jp *Joypad) Next() uint8 {
	if !jp.polling || jp.shift > 8 {
		return 1
	}
	return jp.reg & 1
}

// Polling reports whether the joypad is in a polling sequence.
func (jp *Joypad) Polling() bool { return jp.polling }

// Controller drives the 2 joypads from the CPU accesses to $4016/$4017.
type Controller struct {
	io   *IORegs
	Pads [2]Joypad

	keys       uint16 // pad 1 state in the low byte, pad 2 in the high byte
	strobe     bool
	lastStrobe bool
}

func NewController() *Controller {
	return &Controller{}
}

// SetKeys sets the combined state of both joypads, pad 1 in the low byte.
func (c *Controller) SetKeys(keys uint16) {
	if c == nil {
		return
	}
	c.keys = keys
}

// Keys returns the combined joypad state last set.
func (c *Controller) Keys() uint16 { return c.keys }

func (c *Controller) latch() {
	c.Pads[0].Latch(uint8(c.keys))
	c.Pads[1].Latch(uint8(c.keys >> 8))
}

// Step processes the CPU accesses to the joypad registers since the last call.
func (c *Controller) Step() {
	if c == nil || c.io == nil {
		return
	}

	switch c.io.Ack(JOY1) {
	case hwio.AccessWrite:
		c.strobe = c.io.Peek(JOY1)&1 != 0
		if c.lastStrobe && !c.strobe {
			c.latch()
			log.ModInput.DebugZ("joypads latched").Hex16("keys", c.keys).End()
		}
		c.lastStrobe = c.strobe
	case hwio.AccessRead:
		if c.strobe {
			// While strobe is high, the shift registers are continuously
			// reloaded: reads keep returning the A button.
			c.latch()
		} else {
			c.Pads[0].Shift()
		}
	}

	if c.io.Ack(JOY2) == hwio.AccessRead {
		if c.strobe {
			c.latch()
		} else {
			c.Pads[1].Shift()
		}
	}

	if c.strobe {
		c.latch()
	}

	// Upper bits are open bus, usually the high byte of the register address.
	c.io.Poke(JOY1, 0x40|c.Pads[0].Next())
	c.io.Poke(JOY2, 0x40|c.Pads[1].Next())
}
