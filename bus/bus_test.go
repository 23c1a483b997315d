package bus_test

import (
	"errors"
	"testing"

	"github.com/beevik/emu65/bus"
	"github.com/beevik/emu65/lcd"
	"github.com/beevik/emu65/via"
)

func newBus() (*bus.Bus, *via.VIA, *lcd.Controller) {
	v := via.New()
	l := lcd.New()
	return bus.New(v, l), v, l
}

func expectByte(t *testing.T, b *bus.Bus, addr uint16, exp byte) {
	t.Helper()
	got := b.LoadByte(addr)
	if got != exp {
		t.Errorf("Memory at $%04X incorrect. exp: $%02X, got: $%02X", addr, exp, got)
	}
}

func TestRAMRoundTrip(t *testing.T) {
	b, _, _ := newBus()

	b.StoreByte(0x0000, 0x11)
	b.StoreByte(0x5fff, 0x22)
	b.StoreByte(0x6010, 0x33)
	b.StoreByte(0x7fff, 0x44)

	expectByte(t, b, 0x0000, 0x11)
	expectByte(t, b, 0x5fff, 0x22)
	expectByte(t, b, 0x6010, 0x33)
	expectByte(t, b, 0x7fff, 0x44)
}

func TestVIAWindowDelegation(t *testing.T) {
	b, v, _ := newBus()

	b.StoreByte(0x6002, 0xff) // DDRB
	if v.DDRB() != 0xff {
		t.Errorf("DDRB incorrect. exp: $FF, got: $%02X", v.DDRB())
	}

	// The window read comes from the VIA, not RAM.
	expectByte(t, b, 0x6002, 0xff)

	// IER honors its set/clear protocol through the bus.
	b.StoreByte(0x600e, 0x83)
	expectByte(t, b, 0x600e, 0x83)
	b.StoreByte(0x600e, 0x01)
	expectByte(t, b, 0x600e, 0x82)
}

func TestLCDObservesVIAWrites(t *testing.T) {
	b, _, l := newBus()

	// Bit-bang one character transfer through the VIA ports.
	b.StoreByte(0x6000, 'H')       // data lines on port B
	b.StoreByte(0x6001, 0x20|0x80) // RS + E high
	b.StoreByte(0x6001, 0x20)      // E falls: latch

	got := l.Snapshot().Rows[0]
	if got != "H               " {
		t.Errorf("LCD row incorrect. exp: %q, got: %q", "H               ", got)
	}
}

func TestROMWriteProtection(t *testing.T) {
	b, _, _ := newBus()

	// Before a ROM image is installed, the upper region is writable.
	b.StoreByte(0x9000, 0x55)
	expectByte(t, b, 0x9000, 0x55)

	if err := b.LoadROM([]byte{0xa9, 0x01}, 0x8000); err != nil {
		t.Fatal(err)
	}

	b.StoreByte(0x8000, 0xff)
	b.StoreByte(0xffff, 0xff)
	expectByte(t, b, 0x8000, 0xa9)
	expectByte(t, b, 0xffff, 0x00)
}

func TestLoadInstallsResetVector(t *testing.T) {
	b, _, _ := newBus()

	if err := b.Load([]byte{0xea, 0xea}, 0x1234); err != nil {
		t.Fatal(err)
	}

	expectByte(t, b, 0x1234, 0xea)
	if got := b.LoadAddress(0xfffc); got != 0x1234 {
		t.Errorf("Reset vector incorrect. exp: $1234, got: $%04X", got)
	}

	// An empty image still installs the vector.
	if err := b.Load(nil, 0x4000); err != nil {
		t.Fatal(err)
	}
	if got := b.LoadAddress(0xfffc); got != 0x4000 {
		t.Errorf("Reset vector incorrect. exp: $4000, got: $%04X", got)
	}
}

func TestLoadOverflow(t *testing.T) {
	b, _, _ := newBus()

	data := make([]byte, 0x200)
	err := b.Load(data, 0xff00)
	if !errors.Is(err, bus.ErrLoadOverflow) {
		t.Errorf("expected ErrLoadOverflow, got %v", err)
	}

	err = b.LoadROM(data, 0xff00)
	if !errors.Is(err, bus.ErrLoadOverflow) {
		t.Errorf("expected ErrLoadOverflow, got %v", err)
	}

	// A load that exactly fills the top of memory is fine.
	if err := b.Load(data, 0xfe00); err != nil {
		t.Error(err)
	}
}

func TestLoadAddressPageWrap(t *testing.T) {
	b, _, _ := newBus()

	b.StoreByte(0x12ff, 0x34)
	b.StoreByte(0x1200, 0x12)
	b.StoreByte(0x1300, 0x99)

	if got := b.LoadAddress(0x12ff); got != 0x1234 {
		t.Errorf("Page-wrapped address incorrect. exp: $1234, got: $%04X", got)
	}
}

func TestLastTransaction(t *testing.T) {
	b, _, _ := newBus()

	b.StoreByte(0x2000, 0x7e)
	tx := b.LastTransaction()
	if tx.Addr != 0x2000 || tx.Data != 0x7e || tx.Read {
		t.Errorf("store transaction incorrect: %+v", tx)
	}

	b.LoadByte(0x2000)
	tx = b.LastTransaction()
	if tx.Addr != 0x2000 || tx.Data != 0x7e || !tx.Read {
		t.Errorf("load transaction incorrect: %+v", tx)
	}
}

func TestTransactionHook(t *testing.T) {
	b, _, _ := newBus()

	var seen []bus.Transaction
	b.OnTransaction(func(tx bus.Transaction) {
		seen = append(seen, tx)
	})

	b.StoreByte(0x1000, 0x01)
	b.LoadByte(0x1000)

	if len(seen) != 2 {
		t.Fatalf("transaction count incorrect. exp: 2, got: %d", len(seen))
	}
	if seen[0].Read || !seen[1].Read {
		t.Errorf("transaction order incorrect: %+v", seen)
	}
}

func TestNilPeripherals(t *testing.T) {
	b := bus.New(nil, nil)

	// With no VIA attached the window behaves as RAM.
	b.StoreByte(0x6000, 0x42)
	expectByte(t, b, 0x6000, 0x42)
}
