package via_test

import (
	"testing"

	"github.com/beevik/emu65/via"
)

func expectReg(t *testing.T, v *via.VIA, offset, exp byte) {
	t.Helper()
	got := v.Read(offset)
	if got != exp {
		t.Errorf("Register $%X incorrect. exp: $%02X, got: $%02X", offset, exp, got)
	}
}

func TestStorageRoundTrip(t *testing.T) {
	v := via.New()

	v.Write(via.RegORB, 0x5a)
	v.Write(via.RegORA, 0xa5)
	v.Write(via.RegDDRB, 0xff)
	v.Write(via.RegDDRA, 0xe0)
	v.Write(via.RegSR, 0x12)
	v.Write(via.RegACR, 0x34)
	v.Write(via.RegPCR, 0x56)

	expectReg(t, v, via.RegORB, 0x5a)
	expectReg(t, v, via.RegORA, 0xa5)
	expectReg(t, v, via.RegDDRB, 0xff)
	expectReg(t, v, via.RegDDRA, 0xe0)
	expectReg(t, v, via.RegSR, 0x12)
	expectReg(t, v, via.RegACR, 0x34)
	expectReg(t, v, via.RegPCR, 0x56)

	if v.PortB() != 0x5a || v.PortA() != 0xa5 {
		t.Errorf("port accessors incorrect. got B=$%02X A=$%02X", v.PortB(), v.PortA())
	}
	if v.DDRB() != 0xff || v.DDRA() != 0xe0 {
		t.Errorf("DDR accessors incorrect. got B=$%02X A=$%02X", v.DDRB(), v.DDRA())
	}
}

func TestORANoHandshakeAlias(t *testing.T) {
	v := via.New()

	v.Write(via.RegORAN, 0x77)
	expectReg(t, v, via.RegORA, 0x77)

	v.Write(via.RegORA, 0x88)
	expectReg(t, v, via.RegORAN, 0x88)
}

func TestTimer1LatchLoad(t *testing.T) {
	v := via.New()

	v.Write(via.RegT1LL, 0x34)
	v.Write(via.RegT1CH, 0x12)

	// Writing the high counter byte copies the low latch into the counter.
	expectReg(t, v, via.RegT1CL, 0x34)
	expectReg(t, v, via.RegT1CH, 0x12)
	expectReg(t, v, via.RegT1LH, 0x12)

	s := v.Snapshot()
	if s.T1C != 0x1234 {
		t.Errorf("T1 counter incorrect. exp: $1234, got: $%04X", s.T1C)
	}
}

func TestIFRWriteOneToClear(t *testing.T) {
	v := via.New()

	// Flags cannot be set by direct writes, only cleared.
	v.Write(via.RegIFR, 0x7f)
	expectReg(t, v, via.RegIFR, 0x00)
}

func TestIERSetClearProtocol(t *testing.T) {
	v := via.New()

	// Bit 7 set: enable the bits written as ones.
	v.Write(via.RegIER, 0x82)
	expectReg(t, v, via.RegIER, 0x82) // reads with bit 7 set

	v.Write(via.RegIER, 0x81)
	expectReg(t, v, via.RegIER, 0x83)

	// Bit 7 clear: disable the bits written as ones.
	v.Write(via.RegIER, 0x02)
	expectReg(t, v, via.RegIER, 0x81)
}

func TestOffsetMasking(t *testing.T) {
	v := via.New()

	// Only the low four offset bits are significant.
	v.Write(0x10|via.RegORB, 0x42)
	expectReg(t, v, via.RegORB, 0x42)
}

func TestReset(t *testing.T) {
	v := via.New()

	v.Write(via.RegORB, 0xff)
	v.Write(via.RegDDRB, 0xff)
	v.Write(via.RegIER, 0x85)
	v.Reset()

	expectReg(t, v, via.RegORB, 0x00)
	expectReg(t, v, via.RegDDRB, 0x00)
	expectReg(t, v, via.RegIER, 0x80)
}
