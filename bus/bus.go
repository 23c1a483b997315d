// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bus routes CPU memory accesses across a 64KB address space with
// three regions: RAM, a 6522 VIA register window at $6000-$600F, and ROM
// from $8000 up. An attached LCD controller observes the VIA's port pins
// after every write into the window, so peripheral side effects land in the
// same store that caused them.
package bus

import (
	"errors"

	"github.com/beevik/emu65/cpu"
	"github.com/beevik/emu65/lcd"
	"github.com/beevik/emu65/via"
)

// Address space regions.
const (
	viaBase   = 0x6000 // first address of the VIA register window
	viaLimit  = 0x600f // last address of the VIA register window
	romBase   = 0x8000 // first ROM address
	vectorRST = 0xfffc // reset vector location
)

// ErrLoadOverflow is returned when a load would run past the end of the
// 64KB address space.
var ErrLoadOverflow = errors.New("load exceeds address space")

// A Transaction records a single byte access on the bus.
type Transaction struct {
	Addr uint16 // address accessed
	Data byte   // byte transferred
	Read bool   // true for a load, false for a store
}

// Bus is the system's 64KB address router. It implements the cpu.Memory
// interface.
type Bus struct {
	ram       [64 * 1024]byte
	via       *via.VIA
	lcd       *lcd.Controller
	romLoaded bool
	last      Transaction
	trace     func(Transaction)
}

// Compile-time check that the bus satisfies the CPU's memory interface.
var _ cpu.Memory = (*Bus)(nil)

// New creates a bus with the given peripherals attached. Either peripheral
// may be nil, in which case its window behaves as plain RAM.
func New(v *via.VIA, l *lcd.Controller) *Bus {
	return &Bus{via: v, lcd: l}
}

// OnTransaction installs a hook called after every byte access. A nil
// hook disables tracing.
func (b *Bus) OnTransaction(fn func(Transaction)) {
	b.trace = fn
}

// LastTransaction returns the most recent byte access on the bus.
func (b *Bus) LastTransaction() Transaction {
	return b.last
}

func (b *Bus) record(addr uint16, data byte, read bool) {
	b.last = Transaction{Addr: addr, Data: data, Read: read}
	if b.trace != nil {
		b.trace(b.last)
	}
}

func (b *Bus) inVIAWindow(addr uint16) bool {
	return b.via != nil && addr >= viaBase && addr <= viaLimit
}

// LoadByte loads a single byte from the address and returns it.
func (b *Bus) LoadByte(addr uint16) byte {
	var v byte
	if b.inVIAWindow(addr) {
		v = b.via.Read(byte(addr - viaBase))
	} else {
		v = b.ram[addr]
	}
	b.record(addr, v, true)
	return v
}

// LoadBytes loads multiple bytes from the address and stores them into
// the buffer 'b'.
func (b *Bus) LoadBytes(addr uint16, buf []byte) {
	for i := range buf {
		buf[i] = b.LoadByte(addr + uint16(i))
	}
}

// LoadAddress loads a 16-bit address value from the requested address and
// returns it.
//
// When the address spans two pages (i.e., the address ends in 0xff), the
// high byte is loaded from a page-wrapped address, mimicking NMOS 6502
// behavior.
func (b *Bus) LoadAddress(addr uint16) uint16 {
	lo := b.LoadByte(addr)
	var hi byte
	if (addr & 0xff) == 0xff {
		hi = b.LoadByte(addr - 0xff)
	} else {
		hi = b.LoadByte(addr + 1)
	}
	return uint16(lo) | uint16(hi)<<8
}

// StoreByte stores a byte to the requested address. Once a ROM image has
// been installed, stores into the ROM region are silently dropped. Stores
// into the VIA window update the VIA and give the LCD controller a chance
// to latch the port pins.
func (b *Bus) StoreByte(addr uint16, v byte) {
	b.record(addr, v, false)

	switch {
	case b.inVIAWindow(addr):
		b.via.Write(byte(addr-viaBase), v)
		if b.lcd != nil {
			b.lcd.Observe(b.via.PortB(), b.via.PortA())
		}
	case addr >= romBase && b.romLoaded:
		// ROM is write-protected.
	default:
		b.ram[addr] = v
	}
}

// StoreBytes stores multiple bytes to the requested address.
func (b *Bus) StoreBytes(addr uint16, buf []byte) {
	for i, v := range buf {
		b.StoreByte(addr+uint16(i), v)
	}
}

// StoreAddress stores a 16-bit address value to the requested address, with
// the same page-wrapping quirk as LoadAddress.
func (b *Bus) StoreAddress(addr uint16, v uint16) {
	b.StoreByte(addr, byte(v))
	if (addr & 0xff) == 0xff {
		b.StoreByte(addr-0xff, byte(v>>8))
	} else {
		b.StoreByte(addr+1, byte(v>>8))
	}
}

// Load places a program image at the given address and points the reset
// vector at it. The image is stored through the bus, so it observes the
// same region rules as CPU stores; the reset vector itself is always
// installed, even for an empty image.
func (b *Bus) Load(data []byte, addr uint16) error {
	if int(addr)+len(data) > 0x10000 {
		return ErrLoadOverflow
	}
	for i, v := range data {
		b.StoreByte(addr+uint16(i), v)
	}
	b.setResetVector(addr)
	return nil
}

// LoadROM copies a ROM image directly into the address space, points the
// reset vector at it, and turns on write protection for the ROM region.
func (b *Bus) LoadROM(data []byte, addr uint16) error {
	if int(addr)+len(data) > 0x10000 {
		return ErrLoadOverflow
	}
	copy(b.ram[addr:], data)
	b.setResetVector(addr)
	b.romLoaded = true
	return nil
}

// The reset vector lives in the ROM region, so it is installed with direct
// writes.
func (b *Bus) setResetVector(addr uint16) {
	b.ram[vectorRST] = byte(addr)
	b.ram[vectorRST+1] = byte(addr >> 8)
}
