package emu65_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/beevik/emu65"
)

// VIA register addresses as wired on the breadboard.
const (
	portB = 0x6000
	portA = 0x6001
	ddrB  = 0x6002
	ddrA  = 0x6003
)

// LCD control lines on port A.
const (
	ctrlRS = 0x20
	ctrlE  = 0x80
)

// lcdProgram generates machine code that initializes the LCD and bit-bangs
// a message through the VIA, ending in a jump-to-self loop.
func lcdProgram(origin uint16, msg string) []byte {
	var p []byte

	sta := func(addr uint16) {
		p = append(p, 0x8d, byte(addr), byte(addr>>8))
	}
	lda := func(v byte) {
		p = append(p, 0xa9, v)
	}
	send := func(ctrl, v byte) {
		lda(v)
		sta(portB)
		lda(ctrl | ctrlE)
		sta(portA)
		lda(ctrl)
		sta(portA)
	}

	// Configure both VIA ports as outputs.
	lda(0xff)
	sta(ddrB)
	lda(0xe0)
	sta(ddrA)

	// The canonical init sequence.
	send(0, 0x38) // 8-bit bus, two lines
	send(0, 0x0c) // display on, cursor off
	send(0, 0x01) // clear
	send(0, 0x06) // increment, no shift

	for i := 0; i < len(msg); i++ {
		send(ctrlRS, msg[i])
	}

	// JMP to self.
	loop := origin + uint16(len(p))
	p = append(p, 0x4c, byte(loop), byte(loop>>8))
	return p
}

func newEmulator(t *testing.T, cfg emu65.Config) *emu65.Emulator {
	t.Helper()
	e, err := emu65.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestConfigValidation(t *testing.T) {
	_, err := emu65.New(emu65.Config{ClockFrequency: -1})
	if !errors.Is(err, emu65.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	_, err = emu65.New(emu65.Config{MaxInstructions: -1})
	if !errors.Is(err, emu65.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	e := newEmulator(t, emu65.Config{})
	if e.ClockFrequency() != 1e6 {
		t.Errorf("default clock incorrect. exp: 1e6, got: %g", e.ClockFrequency())
	}
}

func TestLoadAndReset(t *testing.T) {
	e := newEmulator(t, emu65.Config{})

	if err := e.LoadProgram([]byte{0xa9, 0x42}, 0x2000); err != nil {
		t.Fatal(err)
	}
	e.Reset()

	s := e.CPUState()
	if s.PC != 0x2000 {
		t.Errorf("PC incorrect after reset. exp: $2000, got: $%04X", s.PC)
	}
	if s.SP != 0xfd {
		t.Errorf("SP incorrect after reset. exp: $FD, got: $%02X", s.SP)
	}
	if s.Cycles != 0 {
		t.Errorf("Cycles incorrect after reset. exp: 0, got: %d", s.Cycles)
	}

	// Loading an empty program still installs the reset vector.
	if err := e.LoadProgram(nil, 0x3000); err != nil {
		t.Fatal(err)
	}
	e.Reset()
	if pc := e.CPUState().PC; pc != 0x3000 {
		t.Errorf("PC incorrect after reset. exp: $3000, got: $%04X", pc)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	e := newEmulator(t, emu65.Config{})

	e.WriteByte(0x1234, 0xab)
	if got := e.ReadByte(0x1234); got != 0xab {
		t.Errorf("Memory at $1234 incorrect. exp: $AB, got: $%02X", got)
	}

	tx := e.BusState()
	if tx.Addr != 0x1234 || !tx.Read {
		t.Errorf("bus transaction incorrect: %+v", tx)
	}
}

func TestROMProtection(t *testing.T) {
	e := newEmulator(t, emu65.Config{})

	if err := e.LoadROM([]byte{0xea, 0xea}, 0x8000); err != nil {
		t.Fatal(err)
	}

	e.WriteByte(0x8000, 0xff)
	if got := e.ReadByte(0x8000); got != 0xea {
		t.Errorf("ROM overwritten. exp: $EA, got: $%02X", got)
	}
}

func TestStepAndCycles(t *testing.T) {
	e := newEmulator(t, emu65.Config{})

	if err := e.LoadProgram([]byte{0xa9, 0x42, 0x8d, 0x00, 0x20}, 0x1000); err != nil {
		t.Fatal(err)
	}
	e.Reset()

	cycles, err := e.Step() // LDA #$42
	if err != nil {
		t.Fatal(err)
	}
	if cycles != 2 {
		t.Errorf("LDA cycles incorrect. exp: 2, got: %d", cycles)
	}

	cycles, err = e.Step() // STA $2000
	if err != nil {
		t.Fatal(err)
	}
	if cycles != 4 {
		t.Errorf("STA cycles incorrect. exp: 4, got: %d", cycles)
	}

	s := e.CPUState()
	if s.A != 0x42 || s.Cycles != 6 {
		t.Errorf("CPU state incorrect: %+v", s)
	}
	if got := e.ReadByte(0x2000); got != 0x42 {
		t.Errorf("Memory at $2000 incorrect. exp: $42, got: $%02X", got)
	}
}

func TestRunHaltsOnJumpToSelf(t *testing.T) {
	e := newEmulator(t, emu65.Config{})

	// LDA #$01; JMP self
	if err := e.LoadProgram([]byte{0xa9, 0x01, 0x4c, 0x02, 0x10}, 0x1000); err != nil {
		t.Fatal(err)
	}
	e.Reset()

	steps, err := e.Run(1000)
	if err != nil {
		t.Fatal(err)
	}
	if steps != 2 {
		t.Errorf("steps incorrect. exp: 2, got: %d", steps)
	}
	if pc := e.CPUState().PC; pc != 0x1002 {
		t.Errorf("halt PC incorrect. exp: $1002, got: $%04X", pc)
	}
}

func TestRunStepLimit(t *testing.T) {
	e := newEmulator(t, emu65.Config{MaxInstructions: 5})

	// INX forever.
	prog := bytes.Repeat([]byte{0xe8}, 64)
	if err := e.LoadProgram(prog, 0x1000); err != nil {
		t.Fatal(err)
	}
	e.Reset()

	steps, err := e.Run(0) // falls back to MaxInstructions
	if err != nil {
		t.Fatal(err)
	}
	if steps != 5 {
		t.Errorf("steps incorrect. exp: 5, got: %d", steps)
	}
}

func TestHelloWorld(t *testing.T) {
	e := newEmulator(t, emu65.Config{})

	prog := lcdProgram(0x8000, "HELLO, WORLD!")
	if err := e.LoadROM(prog, 0x8000); err != nil {
		t.Fatal(err)
	}
	e.Reset()

	if _, err := e.Run(10000); err != nil {
		t.Fatal(err)
	}

	s := e.LCDState()
	if s.Rows[0] != "HELLO, WORLD!   " {
		t.Errorf("LCD row 0 incorrect. exp: %q, got: %q", "HELLO, WORLD!   ", s.Rows[0])
	}
	if s.Rows[1] != "                " {
		t.Errorf("LCD row 1 incorrect. exp: blank, got: %q", s.Rows[1])
	}
	if !s.DisplayOn || s.CursorOn {
		t.Errorf("LCD flags incorrect: display=%v cursor=%v", s.DisplayOn, s.CursorOn)
	}

	v := e.VIAState()
	if v.DDRB != 0xff || v.DDRA != 0xe0 {
		t.Errorf("VIA data direction incorrect: DDRB=$%02X DDRA=$%02X", v.DDRB, v.DDRA)
	}
}

func TestTraceExecution(t *testing.T) {
	var buf bytes.Buffer
	e := newEmulator(t, emu65.Config{TraceExecution: true, TraceWriter: &buf})

	if err := e.LoadProgram([]byte{0xa9, 0x5e, 0xea}, 0x1000); err != nil {
		t.Fatal(err)
	}
	e.Reset()

	if _, err := e.Step(); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Step(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "LDA #$5E") {
		t.Errorf("trace missing LDA line: %q", out)
	}
	if !strings.Contains(out, "1000-") {
		t.Errorf("trace missing address prefix: %q", out)
	}
}

func TestDebugModeTracesBus(t *testing.T) {
	var buf bytes.Buffer
	e := newEmulator(t, emu65.Config{DebugMode: true, TraceWriter: &buf})

	e.WriteByte(0x2000, 0x7f)
	if !strings.Contains(buf.String(), "W 2000 7F") {
		t.Errorf("bus trace missing store: %q", buf.String())
	}
}

func TestClose(t *testing.T) {
	e := newEmulator(t, emu65.Config{})

	e.Close()
	e.Close() // idempotent

	if _, err := e.Step(); !errors.Is(err, emu65.ErrClosed) {
		t.Errorf("expected ErrClosed from Step, got %v", err)
	}
	if _, err := e.Run(10); !errors.Is(err, emu65.ErrClosed) {
		t.Errorf("expected ErrClosed from Run, got %v", err)
	}
	if err := e.LoadProgram(nil, 0); !errors.Is(err, emu65.ErrClosed) {
		t.Errorf("expected ErrClosed from LoadProgram, got %v", err)
	}
}

func TestDecimalModeConfig(t *testing.T) {
	run := func(decimal bool) byte {
		e := newEmulator(t, emu65.Config{DecimalMode: decimal})
		// SED; CLC; LDA #$19; ADC #$01; JMP self
		prog := []byte{0xf8, 0x18, 0xa9, 0x19, 0x69, 0x01, 0x4c, 0x06, 0x10}
		if err := e.LoadProgram(prog, 0x1000); err != nil {
			t.Fatal(err)
		}
		e.Reset()
		if _, err := e.Run(100); err != nil {
			t.Fatal(err)
		}
		return e.CPUState().A
	}

	if got := run(true); got != 0x20 {
		t.Errorf("BCD add incorrect. exp: $20, got: $%02X", got)
	}
	if got := run(false); got != 0x1a {
		t.Errorf("binary add incorrect. exp: $1A, got: $%02X", got)
	}
}
