// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package via emulates the register file of a 6522 Versatile Interface
// Adapter. The sixteen registers behave as addressable storage with the
// special cases the chip defines: the interrupt flag register clears bits
// written as ones, the interrupt enable register uses a set/clear protocol,
// and writing a timer's high-order counter byte copies the latch into the
// counter. Timers do not tick and no interrupts are generated.
package via

// Register offsets within the VIA's 16-byte window.
const (
	RegORB  = 0x0 // output register B
	RegORA  = 0x1 // output register A
	RegDDRB = 0x2 // data direction register B
	RegDDRA = 0x3 // data direction register A
	RegT1CL = 0x4 // timer 1 counter low
	RegT1CH = 0x5 // timer 1 counter high
	RegT1LL = 0x6 // timer 1 latch low
	RegT1LH = 0x7 // timer 1 latch high
	RegT2CL = 0x8 // timer 2 counter low
	RegT2CH = 0x9 // timer 2 counter high
	RegSR   = 0xa // shift register
	RegACR  = 0xb // auxiliary control register
	RegPCR  = 0xc // peripheral control register
	RegIFR  = 0xd // interrupt flag register
	RegIER  = 0xe // interrupt enable register
	RegORAN = 0xf // output register A, no handshake
)

// VIA models a single 6522 interface adapter.
type VIA struct {
	reg [16]byte
}

// State is a snapshot of the VIA's registers.
type State struct {
	ORB  byte
	ORA  byte
	DDRB byte
	DDRA byte
	T1C  uint16
	T1L  uint16
	T2C  uint16
	SR   byte
	ACR  byte
	PCR  byte
	IFR  byte
	IER  byte
}

// New creates a 6522 VIA with all registers zeroed.
func New() *VIA {
	return &VIA{}
}

// Reset returns every register to its power-on value of zero.
func (v *VIA) Reset() {
	v.reg = [16]byte{}
}

// Read returns the value of the register at the given offset. Only the low
// four bits of the offset are significant. The IER reads with bit 7 set, as
// on real hardware. Offset $F aliases ORA.
func (v *VIA) Read(offset byte) byte {
	offset &= 0x0f
	switch offset {
	case RegIER:
		return v.reg[RegIER] | 0x80
	case RegORAN:
		return v.reg[RegORA]
	default:
		return v.reg[offset]
	}
}

// Write stores a value to the register at the given offset. Only the low
// four bits of the offset are significant.
func (v *VIA) Write(offset, value byte) {
	offset &= 0x0f
	switch offset {
	case RegT1CH:
		// Writing the high counter byte loads the counter from the latch.
		v.reg[RegT1LH] = value
		v.reg[RegT1CL] = v.reg[RegT1LL]
		v.reg[RegT1CH] = value
	case RegT2CH:
		v.reg[RegT2CH] = value
	case RegIFR:
		// Writing a one clears the corresponding flag bit.
		v.reg[RegIFR] &^= value & 0x7f
	case RegIER:
		// Bit 7 selects set or clear for the bits written as ones.
		if value&0x80 != 0 {
			v.reg[RegIER] |= value & 0x7f
		} else {
			v.reg[RegIER] &^= value & 0x7f
		}
	case RegORAN:
		v.reg[RegORA] = value
	default:
		v.reg[offset] = value
	}
}

// PortB returns the current contents of output register B.
func (v *VIA) PortB() byte {
	return v.reg[RegORB]
}

// PortA returns the current contents of output register A.
func (v *VIA) PortA() byte {
	return v.reg[RegORA]
}

// DDRB returns the port B data direction register.
func (v *VIA) DDRB() byte {
	return v.reg[RegDDRB]
}

// DDRA returns the port A data direction register.
func (v *VIA) DDRA() byte {
	return v.reg[RegDDRA]
}

// Snapshot captures the current register contents.
func (v *VIA) Snapshot() State {
	return State{
		ORB:  v.reg[RegORB],
		ORA:  v.reg[RegORA],
		DDRB: v.reg[RegDDRB],
		DDRA: v.reg[RegDDRA],
		T1C:  uint16(v.reg[RegT1CL]) | uint16(v.reg[RegT1CH])<<8,
		T1L:  uint16(v.reg[RegT1LL]) | uint16(v.reg[RegT1LH])<<8,
		T2C:  uint16(v.reg[RegT2CL]) | uint16(v.reg[RegT2CH])<<8,
		SR:   v.reg[RegSR],
		ACR:  v.reg[RegACR],
		PCR:  v.reg[RegPCR],
		IFR:  v.reg[RegIFR],
		IER:  v.reg[RegIER],
	}
}
