// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lcd emulates an HD44780-compatible 16x2 character display wired
// to a 6522 VIA in the classic breadboard arrangement: the eight data lines
// on port B and the control lines on the top three bits of port A. The
// controller watches the port pins and latches a transfer on the falling
// edge of the enable line.
package lcd

// Control line assignments on VIA port A.
const (
	lineRS = 0x20 // register select: 0 = command, 1 = data
	lineRW = 0x40 // read/write: 0 = write
	lineE  = 0x80 // enable: transfers latch on the falling edge
)

// Display geometry.
const (
	Rows = 2
	Cols = 16
)

// Power-on register defaults: 8-bit bus with two lines, increment cursor,
// display on with cursor and blink off.
const (
	defaultFunctionSet    = 0x38
	defaultEntryMode      = 0x06
	defaultDisplayControl = 0x0c
)

// Controller models the display's instruction decoder and DDRAM.
type Controller struct {
	rows           [Rows][Cols]byte
	cursorRow      int
	cursorCol      int
	displayOn      bool
	cursorOn       bool
	blinkOn        bool
	functionSet    byte
	entryMode      byte
	displayControl byte
	shift          byte
	prevE          bool
}

// State is a snapshot of the display.
type State struct {
	Rows           [Rows]string // display contents, one string per row
	CursorRow      int
	CursorCol      int
	DisplayOn      bool
	CursorOn       bool
	BlinkOn        bool
	Busy           bool
	FunctionSet    byte
	EntryMode      byte
	DisplayControl byte
}

// New creates a display controller in its power-on state.
func New() *Controller {
	c := &Controller{}
	c.Reset()
	return c
}

// Reset restores the power-on state: blank rows, cursor home, display on
// with cursor and blink off.
func (c *Controller) Reset() {
	c.clear()
	c.displayOn = true
	c.cursorOn = false
	c.blinkOn = false
	c.functionSet = defaultFunctionSet
	c.entryMode = defaultEntryMode
	c.displayControl = defaultDisplayControl
	c.shift = 0
	c.prevE = false
}

// Observe examines the VIA port pins after a port write. A transfer is
// latched when the enable line falls while R/W is low; the data lines are
// then committed as a command (RS low) or a character (RS high).
func (c *Controller) Observe(portB, portA byte) {
	e := portA&lineE != 0
	fallingEdge := c.prevE && !e
	c.prevE = e

	if !fallingEdge || portA&lineRW != 0 {
		return
	}

	if portA&lineRS != 0 {
		c.writeData(portB)
	} else {
		c.command(portB)
	}
}

// Dispatch a command byte by its highest set bit.
func (c *Controller) command(v byte) {
	switch {
	case v&0x80 != 0:
		c.setDDRAMAddress(v & 0x7f)
	case v&0x40 != 0:
		// CGRAM addressing: custom glyphs are not rendered.
	case v&0x20 != 0:
		c.functionSet = v
	case v&0x10 != 0:
		c.shift = v
	case v&0x08 != 0:
		c.displayControl = v
		c.displayOn = v&0x04 != 0
		c.cursorOn = v&0x02 != 0
		c.blinkOn = v&0x01 != 0
	case v&0x04 != 0:
		c.entryMode = v
	case v&0x02 != 0:
		c.cursorRow = 0
		c.cursorCol = 0
	case v&0x01 != 0:
		c.clear()
	}
}

// Map a DDRAM address onto the visible 16x2 window. Row 0 occupies
// addresses $00-$0F and row 1 occupies $40-$4F; addresses outside the
// window are ignored.
func (c *Controller) setDDRAMAddress(addr byte) {
	switch {
	case addr <= 0x0f:
		c.cursorRow = 0
		c.cursorCol = int(addr)
	case addr >= 0x40 && addr <= 0x4f:
		c.cursorRow = 1
		c.cursorCol = int(addr - 0x40)
	}
}

// Write a character at the cursor and advance it per the entry mode.
func (c *Controller) writeData(v byte) {
	c.rows[c.cursorRow][c.cursorCol] = v

	if c.entryMode&0x02 != 0 {
		c.cursorCol++
		if c.cursorCol >= Cols {
			c.cursorCol = 0
			c.cursorRow = 1 - c.cursorRow
		}
	} else {
		c.cursorCol--
		if c.cursorCol < 0 {
			c.cursorCol = Cols - 1
			c.cursorRow = 1 - c.cursorRow
		}
	}
}

func (c *Controller) clear() {
	for r := 0; r < Rows; r++ {
		for col := 0; col < Cols; col++ {
			c.rows[r][col] = ' '
		}
	}
	c.cursorRow = 0
	c.cursorCol = 0
}

// Snapshot captures the current display state. The emulated controller is
// never busy; the busy flag is reported for completeness.
func (c *Controller) Snapshot() State {
	return State{
		Rows: [Rows]string{
			string(c.rows[0][:]),
			string(c.rows[1][:]),
		},
		CursorRow:      c.cursorRow,
		CursorCol:      c.cursorCol,
		DisplayOn:      c.displayOn,
		CursorOn:       c.cursorOn,
		BlinkOn:        c.blinkOn,
		Busy:           false,
		FunctionSet:    c.functionSet,
		EntryMode:      c.entryMode,
		DisplayControl: c.displayControl,
	}
}
