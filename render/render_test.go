// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"bytes"
	"testing"

	"github.com/moonshot-labs/vgastream/display"
)

func blankEngine(cols, rows int) *display.Engine {
	var e display.Engine
	e.Current.Cols, e.Current.Rows = cols, rows
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			e.Current.Set(row, col, display.Cell{Character: ' ', Attribute: 0x07})
		}
	}
	e.Commit() // Previous now matches Current: both blank 0x07
	return &e
}

func TestInvalidateForcesFullRedrawPrologue(t *testing.T) {
	r := NewRenderer()
	e := blankEngine(80, 25)
	out := r.Render(e, nil)
	want := []byte(seqHideCursor + seqClear + seqHome)
	if !bytes.HasPrefix(out, want) {
		t.Errorf("full redraw prologue = %q, want prefix %q", out, want)
	}
}

func TestNoChangeProducesNoOutput(t *testing.T) {
	r := NewRenderer()
	e := blankEngine(80, 25)
	r.Render(e, nil) // consume the forced full redraw
	e.Commit()

	out := r.Render(e, nil)
	if len(out) != 0 {
		t.Errorf("identical snapshot should emit nothing, got %q", out)
	}
}

func TestSingleCellDiffEmitsMoveSetCharacter(t *testing.T) {
	r := NewRenderer()
	e := blankEngine(80, 25)
	r.Render(e, nil)
	e.Commit()

	e.Current.Set(0, 0, display.Cell{Character: 'A', Attribute: 0x1F})
	out := r.Render(e, nil)

	want := "\x1b[1;1H" + "\x1b[0;97;44m" + "A"
	if string(out) != want {
		t.Errorf("diff = %q, want %q", out, want)
	}
}

func TestAttributeElidedWhenUnchanged(t *testing.T) {
	r := NewRenderer()
	e := blankEngine(80, 25)
	r.Render(e, nil)
	e.Commit()

	e.Current.Set(0, 0, display.Cell{Character: 'A', Attribute: 0x07})
	e.Current.Set(0, 1, display.Cell{Character: 'B', Attribute: 0x07})
	out := r.Render(e, nil)

	// Only one move (to 0,0); 0,1 follows the writer's implicit
	// position so no second move and no repeated SGR (attribute
	// unchanged from the full redraw's trailing 0x07).
	want := "\x1b[1;1H" + "AB"
	if string(out) != want {
		t.Errorf("diff = %q, want %q", out, want)
	}
}

func TestForcedRefreshEvery120Ticks(t *testing.T) {
	r := NewRenderer()
	e := blankEngine(80, 25)
	r.Render(e, nil) // tick 1: forced by Invalidate
	e.Commit()

	var lastFull []byte
	for i := 2; i <= ForceFullRefreshInterval; i++ {
		lastFull = r.Render(e, nil)
		e.Commit()
	}
	if !bytes.HasPrefix(lastFull, []byte(seqHideCursor)) {
		t.Errorf("tick %d should be a forced full redraw, got %q", ForceFullRefreshInterval, lastFull)
	}
}

func TestCursorMoveThenShowOrdering(t *testing.T) {
	r := NewRenderer()
	e := blankEngine(80, 25)
	r.Render(e, nil)
	e.Commit()

	e.Cursor = display.Cursor{Row: 3, Col: 4, Visible: true}
	out := r.Render(e, nil)
	want := "\x1b[4;5H" + seqShowCursor
	if string(out) != want {
		t.Errorf("cursor update = %q, want %q", out, want)
	}
}
