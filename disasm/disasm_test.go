package disasm_test

import (
	"testing"

	"github.com/beevik/emu65/cpu"
	"github.com/beevik/emu65/disasm"
)

func disassemble(code []byte, addr uint16) (string, uint16) {
	mem := cpu.NewFlatMemory()
	mem.StoreBytes(addr, code)
	return disasm.Disassemble(mem, addr)
}

func TestDisassemble(t *testing.T) {
	cases := []struct {
		code []byte
		addr uint16
		line string
		next uint16
	}{
		{[]byte{0xa9, 0x5e}, 0x1000, "LDA #$5E", 0x1002},
		{[]byte{0x8d, 0x00, 0x60}, 0x1000, "STA $6000", 0x1003},
		{[]byte{0xbd, 0x34, 0x12}, 0x1000, "LDA $1234,X", 0x1003},
		{[]byte{0x91, 0x06}, 0x1000, "STA ($06),Y", 0x1002},
		{[]byte{0x6c, 0xff, 0x12}, 0x1000, "JMP ($12FF)", 0x1003},
		{[]byte{0xea}, 0x1000, "NOP ", 0x1001},
		{[]byte{0x4c, 0x00, 0x10}, 0x1000, "JMP $1000", 0x1003},
	}

	for _, c := range cases {
		line, next := disassemble(c.code, c.addr)
		if line != c.line {
			t.Errorf("Disassembly incorrect. exp: %q, got: %q", c.line, line)
		}
		if next != c.next {
			t.Errorf("Next address incorrect. exp: $%04X, got: $%04X", c.next, next)
		}
	}
}

func TestDisassembleBranch(t *testing.T) {
	// Branch targets are rendered as absolute addresses.
	line, _ := disassemble([]byte{0x90, 0x05}, 0x1000) // BCC +5
	if line != "BCC $1007" {
		t.Errorf("Disassembly incorrect. exp: %q, got: %q", "BCC $1007", line)
	}

	line, _ = disassemble([]byte{0xd0, 0xfb}, 0x1100) // BNE -5
	if line != "BNE $10FD" {
		t.Errorf("Disassembly incorrect. exp: %q, got: %q", "BNE $10FD", line)
	}
}
