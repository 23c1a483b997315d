// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// lineReader reads commands one line at a time.
type lineReader struct {
	scanner *bufio.Scanner
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{scanner: bufio.NewScanner(r)}
}

func (r *lineReader) getLine() (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if r.scanner.Err() != nil {
		return "", r.scanner.Err()
	}
	return "", io.EOF
}

// lineWriter buffers monitor output until flushed.
type lineWriter struct {
	w *bufio.Writer
}

func newLineWriter(w io.Writer) *lineWriter {
	return &lineWriter{w: bufio.NewWriter(w)}
}

func (lw *lineWriter) Write(p []byte) (int, error) {
	return lw.w.Write(p)
}

func (lw *lineWriter) flush() {
	lw.w.Flush()
}

// parseAddr converts a numeric monitor argument to a 16-bit value. Values
// may be prefixed with '$' or '0x' for hexadecimal; otherwise they are
// decimal. "." means the current program counter.
func (h *Host) parseAddr(s string) (uint16, error) {
	if s == "." {
		return h.cpu.Reg.PC, nil
	}

	base := 10
	switch {
	case strings.HasPrefix(s, "$"):
		s, base = s[1:], 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	}

	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid value '%s'", s)
	}
	return uint16(v), nil
}

func codeString(b []byte) string {
	switch len(b) {
	case 1:
		return fmt.Sprintf("%02X", b[0])
	case 2:
		return fmt.Sprintf("%02X %02X", b[0], b[1])
	case 3:
		return fmt.Sprintf("%02X %02X %02X", b[0], b[1], b[2])
	default:
		return ""
	}
}

func stringToBool(s string) (bool, error) {
	s = strings.ToLower(s)
	switch s {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value '%s'", s)
	}
}

var hexString = "0123456789ABCDEF"

func addrToBuf(addr uint16, b []byte) {
	b[0] = hexString[(addr>>12)&0xf]
	b[1] = hexString[(addr>>8)&0xf]
	b[2] = hexString[(addr>>4)&0xf]
	b[3] = hexString[addr&0xf]
}

func byteToBuf(v byte, b []byte) {
	b[0] = hexString[(v>>4)&0xf]
	b[1] = hexString[v&0xf]
}

func toPrintableChar(v byte) byte {
	switch {
	case v >= 32 && v < 127:
		return v
	case v >= 160 && v < 255:
		return v - 128
	default:
		return '.'
	}
}

// indentWrap word-wraps a string to 80 columns, indenting each line by the
// requested number of spaces.
func indentWrap(indent int, s string) string {
	width := 80 - indent
	pad := strings.Repeat(" ", indent)

	var lines []string
	words := strings.Fields(s)
	line := ""
	for _, w := range words {
		switch {
		case line == "":
			line = w
		case len(line)+1+len(w) > width:
			lines = append(lines, line)
			line = w
		default:
			line += " " + w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}

	return pad + strings.Join(lines, "\n"+pad)
}
