// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package display

// Engine owns the current/previous snapshot pair and the cursor state
// needed to detect changes between vsync ticks. It has no knowledge of
// the wire protocol; [render.Renderer.Render] consumes its
// Current/Previous fields.
type Engine struct {
	Current, Previous Screen
	Cursor, PrevCursor Cursor

	// DimensionsChanged is set by Sample whenever Cols or Rows differed
	// from the previous sample; stream.Stream's OnVSync uses it to
	// decide whether to re-send a MODE_TEXT notification.
	DimensionsChanged bool
}

// Sample reads geometry, character memory, and the cursor from src into
// Current and Cursor. It does not advance Previous/PrevCursor — the
// caller does that (via [Engine.Commit]) only after the diff for this
// tick has been generated, so the diff always compares "what just
// changed" against "what the terminal still shows".
func (e *Engine) Sample(src VideoSource) {
	crtc := src.CRTCRegisters()

	cols := 80
	if crtc.Offset > 0 {
		cols = int(crtc.Offset) * 2
	}
	if cols > MaxCols {
		cols = MaxCols
	}

	rows := 25
	if maxScanLine := crtc.MaximumScanLine & 0x1F; maxScanLine > 0 {
		rows = int(crtc.VerticalDisplayEnd+1) / (int(maxScanLine) + 1)
	}
	if rows > MaxRows {
		rows = MaxRows
	}
	if rows < 24 {
		rows = MinRows
	}

	e.DimensionsChanged = cols != e.Current.Cols || rows != e.Current.Rows
	e.Current.Cols, e.Current.Rows = cols, rows

	base := src.DisplayStart() * 2
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			addr := base + uint32((row*cols+col)*2)
			e.Current.Set(row, col, Cell{
				Character: src.ReadMemory(addr),
				Attribute: src.ReadMemory(addr + 1),
			})
		}
	}

	pos := uint16(crtc.CursorLocationHigh)<<8 | uint16(crtc.CursorLocationLow)
	var row, col uint16
	if cols > 0 {
		row, col = pos/uint16(cols), pos%uint16(cols)
	}
	e.Cursor = Cursor{Row: row, Col: col, Visible: crtc.CursorStart&0x20 == 0}
}

// Commit copies Current/Cursor into Previous/PrevCursor, making this
// tick's snapshot the baseline for the next diff.
func (e *Engine) Commit() {
	e.Previous.CopyFrom(&e.Current)
	e.PrevCursor = e.Cursor
}
