// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"time"

	"github.com/moonshot-labs/vgastream/display"
)

const (
	demoCols = 80
	demoRows = 25

	attrBanner = 0x1E // yellow on blue
	attrClock  = 0x0F // bright white on black
	attrBody   = 0x07 // default
)

var bannerText = "   *** VGASTREAM DEMO SERVER ***   welcome to the text-mode stream   "

// demoSource is a simulated display.VideoSource: a scrolling banner on
// row 0, a live clock on row 1, and a static body below, standing in
// for a real VGA emulator's character memory.
type demoSource struct {
	mem      []byte
	scrollAt int
}

func newDemoSource() *demoSource {
	d := &demoSource{mem: make([]byte, demoCols*demoRows*2)}
	d.fillBlank()
	d.paintBody()
	return d
}

func (d *demoSource) fillBlank() {
	for i := 0; i < len(d.mem); i += 2 {
		d.mem[i], d.mem[i+1] = ' ', attrBody
	}
}

func (d *demoSource) paintBody() {
	lines := []string{
		"",
		"",
		"  This terminal is being driven by a simulated VideoSource, not a",
		"  real VGA emulator. Connect a client to watch it update live.",
		"",
		"  Each full-screen redraw and differential update exercises the",
		"  same render path a real emulator integration would use.",
	}
	for row, line := range lines {
		if row == 0 || row == 1 {
			continue // reserved for banner/clock
		}
		d.writeRow(row, line, attrBody)
	}
}

func (d *demoSource) writeRow(row int, text string, attr byte) {
	if row < 0 || row >= demoRows {
		return
	}
	for col := 0; col < demoCols; col++ {
		ch := byte(' ')
		if col < len(text) {
			ch = text[col]
		}
		addr := (row*demoCols + col) * 2
		d.mem[addr], d.mem[addr+1] = ch, attr
	}
}

// advance mutates the simulated memory for one vsync tick: scrolls the
// banner one character and refreshes the clock.
func (d *demoSource) advance(now time.Time) {
	d.scrollAt = (d.scrollAt + 1) % len(bannerText)
	scrolled := bannerText[d.scrollAt:] + bannerText[:d.scrollAt]
	d.writeRow(0, scrolled, attrBanner)
	d.writeRow(1, fmt.Sprintf("  %s", now.Format("15:04:05")), attrClock)
}

func (d *demoSource) Mode() display.Mode { return display.ModeText }

func (d *demoSource) CRTCRegisters() display.CRTC {
	return display.CRTC{
		Offset:             demoCols / 2,
		MaximumScanLine:    15,
		VerticalDisplayEnd: uint16(demoRows*16 - 1),
		CursorStart:        0x20, // cursor hidden — the demo has no caret
	}
}

func (d *demoSource) DisplayStart() uint32 { return 0 }

func (d *demoSource) ReadMemory(address uint32) byte {
	if int(address) >= len(d.mem) {
		return 0
	}
	return d.mem[address]
}

var _ display.VideoSource = (*demoSource)(nil)
