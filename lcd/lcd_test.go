package lcd_test

import (
	"testing"

	"github.com/beevik/emu65/lcd"
)

const (
	ctrlRS = 0x20
	ctrlRW = 0x40
	ctrlE  = 0x80
)

// pulse drives a full enable pulse carrying one command or data byte: raise
// E with the value on the data lines, then drop E to latch it.
func pulse(c *lcd.Controller, ctrl, v byte) {
	c.Observe(v, ctrl|ctrlE)
	c.Observe(v, ctrl)
}

func command(c *lcd.Controller, v byte) {
	pulse(c, 0, v)
}

func data(c *lcd.Controller, v byte) {
	pulse(c, ctrlRS, v)
}

func expectRow(t *testing.T, c *lcd.Controller, row int, exp string) {
	t.Helper()
	got := c.Snapshot().Rows[row]
	if got != exp {
		t.Errorf("Row %d incorrect. exp: %q, got: %q", row, exp, got)
	}
}

func expectCursor(t *testing.T, c *lcd.Controller, row, col int) {
	t.Helper()
	s := c.Snapshot()
	if s.CursorRow != row || s.CursorCol != col {
		t.Errorf("Cursor incorrect. exp: (%d,%d), got: (%d,%d)",
			row, col, s.CursorRow, s.CursorCol)
	}
}

func TestPowerOnState(t *testing.T) {
	c := lcd.New()
	s := c.Snapshot()

	if !s.DisplayOn || s.CursorOn || s.BlinkOn {
		t.Errorf("power-on flags incorrect: display=%v cursor=%v blink=%v",
			s.DisplayOn, s.CursorOn, s.BlinkOn)
	}
	if s.FunctionSet != 0x38 || s.EntryMode != 0x06 || s.DisplayControl != 0x0c {
		t.Errorf("power-on registers incorrect: fs=$%02X em=$%02X dc=$%02X",
			s.FunctionSet, s.EntryMode, s.DisplayControl)
	}
	expectRow(t, c, 0, "                ")
	expectRow(t, c, 1, "                ")
	expectCursor(t, c, 0, 0)
}

func TestEnableEdgeProtocol(t *testing.T) {
	c := lcd.New()

	// A rising edge alone must not latch anything.
	c.Observe('H', ctrlRS|ctrlE)
	expectRow(t, c, 0, "                ")

	// The falling edge commits the transfer.
	c.Observe('H', ctrlRS)
	expectRow(t, c, 0, "H               ")

	// With E held low, further port writes are ignored.
	c.Observe('X', ctrlRS)
	expectRow(t, c, 0, "H               ")

	data(c, 'I')
	expectRow(t, c, 0, "HI              ")
}

func TestReadIgnored(t *testing.T) {
	c := lcd.New()

	// R/W high marks a read; nothing is committed.
	c.Observe('H', ctrlRS|ctrlRW|ctrlE)
	c.Observe('H', ctrlRS|ctrlRW)
	expectRow(t, c, 0, "                ")
}

func TestClearDisplay(t *testing.T) {
	c := lcd.New()

	data(c, 'A')
	data(c, 'B')
	command(c, 0x01)

	expectRow(t, c, 0, "                ")
	expectRow(t, c, 1, "                ")
	expectCursor(t, c, 0, 0)
}

func TestReturnHome(t *testing.T) {
	c := lcd.New()

	data(c, 'A')
	data(c, 'B')
	command(c, 0x02)

	expectCursor(t, c, 0, 0)
	expectRow(t, c, 0, "AB              ")
}

func TestDDRAMAddressing(t *testing.T) {
	c := lcd.New()

	command(c, 0x80|0x40) // row 1, column 0
	data(c, 'W')
	expectRow(t, c, 1, "W               ")

	command(c, 0x80|0x05) // row 0, column 5
	data(c, 'Q')
	expectRow(t, c, 0, "     Q          ")

	// Addresses outside the 16x2 window are ignored.
	command(c, 0x80|0x27)
	expectCursor(t, c, 0, 6)
}

func TestRowWrap(t *testing.T) {
	c := lcd.New()

	command(c, 0x80|0x0f) // row 0, last column
	data(c, 'X')
	expectCursor(t, c, 1, 0)

	command(c, 0x80|0x4f) // row 1, last column
	data(c, 'Y')
	expectCursor(t, c, 0, 0)
}

func TestDecrementEntryMode(t *testing.T) {
	c := lcd.New()

	command(c, 0x04) // entry mode: decrement, no shift
	command(c, 0x80|0x02)
	data(c, 'C')
	data(c, 'B')
	data(c, 'A')

	expectRow(t, c, 0, "ABC             ")
	expectCursor(t, c, 1, 15)
}

func TestDisplayControl(t *testing.T) {
	c := lcd.New()

	command(c, 0x08 | 0x02 | 0x01) // display off, cursor on, blink on
	s := c.Snapshot()
	if s.DisplayOn || !s.CursorOn || !s.BlinkOn {
		t.Errorf("display control flags incorrect: display=%v cursor=%v blink=%v",
			s.DisplayOn, s.CursorOn, s.BlinkOn)
	}
	if s.DisplayControl != 0x0b {
		t.Errorf("display control register incorrect. exp: $0B, got: $%02X",
			s.DisplayControl)
	}
}

func TestHelloSequence(t *testing.T) {
	c := lcd.New()

	// The canonical breadboard init sequence followed by a message.
	command(c, 0x38) // 8-bit bus, two lines
	command(c, 0x0c) // display on, cursor off
	command(c, 0x01) // clear
	command(c, 0x06) // increment, no shift

	for _, ch := range []byte("HELLO, WORLD!") {
		data(c, ch)
	}

	expectRow(t, c, 0, "HELLO, WORLD!   ")
	expectRow(t, c, 1, "                ")
	expectCursor(t, c, 0, 13)
}
