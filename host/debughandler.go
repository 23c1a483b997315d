// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/emu65/cpu"

// debugHandler forwards CPU breakpoint notifications to the host without
// exposing the handler methods on the Host's public interface.
type debugHandler struct {
	h *Host
}

func (d debugHandler) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	d.h.onBreakpoint(c, b)
}

func (d debugHandler) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	d.h.onDataBreakpoint(c, b)
}
