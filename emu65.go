// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package emu65 emulates a small 6502 computer in the style of the classic
// breadboard build: a 6502 CPU on a 64KB bus, a 6522 VIA at $6000, and an
// HD44780-compatible 16x2 LCD driven through the VIA's ports. The Emulator
// type ties the pieces together and exposes program loading, stepped
// execution, and state snapshots.
package emu65

import (
	"errors"
	"fmt"
	"io"

	"github.com/beevik/emu65/bus"
	"github.com/beevik/emu65/cpu"
	"github.com/beevik/emu65/disasm"
	"github.com/beevik/emu65/lcd"
	"github.com/beevik/emu65/via"
)

// Errors returned by the emulator.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrClosed        = errors.New("emulator closed")
)

// The default clock frequency is the 1 MHz of the original hardware.
const defaultClockFrequency = 1e6

// When neither the caller nor the configuration bounds a run, stop after
// this many instructions.
const defaultRunLimit = 1000000

// Config holds the emulator's construction parameters. The zero value is
// valid: a 1 MHz clock with all optional behavior disabled.
type Config struct {
	// ClockFrequency is the emulated clock rate in Hz, used to relate cycle
	// counts to wall time. Zero selects the default of 1 MHz.
	ClockFrequency float64

	// DecimalMode enables binary-coded-decimal arithmetic for ADC and SBC
	// when the CPU's D flag is set.
	DecimalMode bool

	// DebugMode writes every bus transaction to TraceWriter.
	DebugMode bool

	// TraceExecution writes a disassembled line to TraceWriter before each
	// instruction executes.
	TraceExecution bool

	// MaxInstructions bounds Run when the caller passes no limit of its
	// own. Zero means unbounded.
	MaxInstructions int

	// TraceWriter receives trace output. If nil, traces are discarded.
	TraceWriter io.Writer
}

// Emulator is a complete 6502 machine: CPU, bus, VIA and LCD.
type Emulator struct {
	cfg    Config
	cpu    *cpu.CPU
	bus    *bus.Bus
	via    *via.VIA
	lcd    *lcd.Controller
	closed bool
}

// CPUState is a snapshot of the CPU registers and cycle counter. The status
// byte is packed in NV-BDIZC order with the break bit clear.
type CPUState struct {
	PC     uint16
	A      byte
	X      byte
	Y      byte
	SP     byte
	Status byte
	Cycles uint64
}

// New creates an emulator from the given configuration. The machine powers
// on with empty memory; load a program and call Reset before stepping.
func New(cfg Config) (*Emulator, error) {
	if cfg.ClockFrequency < 0 {
		return nil, fmt.Errorf("%w: clock frequency %g", ErrInvalidConfig, cfg.ClockFrequency)
	}
	if cfg.MaxInstructions < 0 {
		return nil, fmt.Errorf("%w: max instructions %d", ErrInvalidConfig, cfg.MaxInstructions)
	}
	if cfg.ClockFrequency == 0 {
		cfg.ClockFrequency = defaultClockFrequency
	}

	e := &Emulator{
		cfg: cfg,
		via: via.New(),
		lcd: lcd.New(),
	}
	e.bus = bus.New(e.via, e.lcd)
	e.cpu = cpu.NewCPU(e.bus)
	e.cpu.BCDEnabled = cfg.DecimalMode

	if cfg.DebugMode && cfg.TraceWriter != nil {
		e.bus.OnTransaction(func(tx bus.Transaction) {
			rw := "W"
			if tx.Read {
				rw = "R"
			}
			fmt.Fprintf(cfg.TraceWriter, "%s %04X %02X\n", rw, tx.Addr, tx.Data)
		})
	}

	return e, nil
}

// Reset pulls the CPU's reset line: registers return to their power-on
// values and the PC is loaded from the reset vector. Memory and peripheral
// state are left intact.
func (e *Emulator) Reset() {
	e.cpu.Reset()
}

// Step executes a single instruction and returns the number of clock
// cycles it consumed.
func (e *Emulator) Step() (int, error) {
	if e.closed {
		return 0, ErrClosed
	}
	if e.cfg.TraceExecution && e.cfg.TraceWriter != nil {
		line, _ := disasm.Disassemble(e.bus, e.cpu.Reg.PC)
		fmt.Fprintf(e.cfg.TraceWriter, "%04X- %-12s %s C=%d\n",
			e.cpu.Reg.PC, line, disasm.GetRegisterString(&e.cpu.Reg), e.cpu.Cycles)
	}
	return e.cpu.Step(), nil
}

// Run executes instructions until the program halts on a jump-to-self loop
// or the step limit is reached. A maxSteps of zero or less falls back to
// Config.MaxInstructions, and failing that to a built-in limit. It returns
// the number of instructions executed.
func (e *Emulator) Run(maxSteps int) (int, error) {
	if e.closed {
		return 0, ErrClosed
	}

	limit := maxSteps
	if limit <= 0 {
		limit = e.cfg.MaxInstructions
	}
	if limit <= 0 {
		limit = defaultRunLimit
	}

	for n := 0; n < limit; n++ {
		pc := e.cpu.Reg.PC
		if _, err := e.Step(); err != nil {
			return n, err
		}
		if e.cpu.Reg.PC == pc {
			// The program spun in place; treat it as a halt.
			return n + 1, nil
		}
	}
	return limit, nil
}

// LoadProgram places a program image in memory at the given address and
// points the reset vector at it. Call Reset to begin execution there.
func (e *Emulator) LoadProgram(data []byte, addr uint16) error {
	if e.closed {
		return ErrClosed
	}
	if err := e.bus.Load(data, addr); err != nil {
		return fmt.Errorf("load program: %w", err)
	}
	return nil
}

// LoadROM installs a ROM image at the given address, write-protecting the
// upper half of the address space, and points the reset vector at it.
func (e *Emulator) LoadROM(data []byte, addr uint16) error {
	if e.closed {
		return ErrClosed
	}
	if err := e.bus.LoadROM(data, addr); err != nil {
		return fmt.Errorf("load rom: %w", err)
	}
	return nil
}

// ReadByte returns the byte at the given address, going through the same
// bus routing the CPU uses.
func (e *Emulator) ReadByte(addr uint16) byte {
	return e.bus.LoadByte(addr)
}

// WriteByte stores a byte at the given address, going through the same bus
// routing the CPU uses.
func (e *Emulator) WriteByte(addr uint16, v byte) {
	e.bus.StoreByte(addr, v)
}

// CPUState captures the CPU registers and cycle counter.
func (e *Emulator) CPUState() CPUState {
	r := &e.cpu.Reg
	return CPUState{
		PC:     r.PC,
		A:      r.A,
		X:      r.X,
		Y:      r.Y,
		SP:     r.SP,
		Status: r.SavePS(false),
		Cycles: e.cpu.Cycles,
	}
}

// BusState returns the most recent bus transaction.
func (e *Emulator) BusState() bus.Transaction {
	return e.bus.LastTransaction()
}

// VIAState captures the VIA's register contents.
func (e *Emulator) VIAState() via.State {
	return e.via.Snapshot()
}

// LCDState captures the LCD's display contents and flags.
func (e *Emulator) LCDState() lcd.State {
	return e.lcd.Snapshot()
}

// ClockFrequency returns the configured clock rate in Hz.
func (e *Emulator) ClockFrequency() float64 {
	return e.cfg.ClockFrequency
}

// CPU returns the emulated CPU for tooling that needs direct access, such
// as debuggers.
func (e *Emulator) CPU() *cpu.CPU {
	return e.cpu
}

// Memory returns the system bus for tooling that needs direct access.
func (e *Emulator) Memory() *bus.Bus {
	return e.bus
}

// Close shuts the emulator down. Further calls to Step or Run return
// ErrClosed. Closing an already-closed emulator has no effect.
func (e *Emulator) Close() {
	e.closed = true
}
