// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package render

import "github.com/moonshot-labs/vgastream/display"

// ForceFullRefreshInterval is how many vsync ticks elapse between
// unconditional full redraws, resynchronizing a remote terminal even
// if no diff was detected (guarding against a terminal that was
// resized or cleared out-of-band).
const ForceFullRefreshInterval = 120

// Renderer produces TEXT_OUT payload bytes from consecutive
// [display.Engine] snapshots. It is not safe for concurrent use; exactly
// one goroutine (the vsync caller) drives it per connection.
type Renderer struct {
	writer   writerState
	fullNext bool
	ticks    int
}

// NewRenderer returns a Renderer that performs a full redraw on its
// first Render call.
func NewRenderer() *Renderer {
	r := &Renderer{}
	r.Invalidate()
	return r
}

// Invalidate discards the writer's belief about terminal state and
// schedules a full redraw on the next Render call. Callers invoke this
// after a new client connects, after its HELLO, after a REFRESH control
// message, and when the display mode or geometry changes.
func (r *Renderer) Invalidate() {
	r.writer.invalidate()
	r.fullNext = true
}

// Render appends the update sequence for the current tick to buf and
// returns the extended slice. buf may be nil; the caller is expected to
// send the result as a single TEXT_OUT frame (or send nothing if the
// result is empty).
func (r *Renderer) Render(e *display.Engine, buf []byte) []byte {
	r.ticks++
	full := r.fullNext || r.ticks%ForceFullRefreshInterval == 0
	r.fullNext = false

	if full {
		buf = r.renderFull(&e.Current, buf)
	} else {
		buf = r.renderDiff(&e.Current, &e.Previous, buf)
	}
	prevCursor := e.PrevCursor
	if full {
		// The full redraw hid the cursor; compare against a hidden one so
		// a visible cursor is positioned and shown again.
		prevCursor.Visible = false
	}
	buf = r.renderCursor(e.Cursor, prevCursor, buf)
	return buf
}

func (r *Renderer) renderFull(screen *display.Screen, buf []byte) []byte {
	buf = appendClearScreen(buf)
	// Reset to the default attribute unconditionally: this runs on the
	// forced-refresh path too (render.go's ticks%ForceFullRefreshInterval
	// check), where the writer's belief about the terminal's attribute
	// may be stale relative to what actually happened out-of-band. The
	// per-cell appendSetAttributeIfNeeded calls below may legitimately
	// elide; this one may not.
	buf = appendSetAttribute(buf, display.DefaultAttribute)
	r.writer.attr = int(display.DefaultAttribute)

	for row := 0; row < screen.Rows; row++ {
		if row > 0 {
			if r.writer.attr != int(display.DefaultAttribute) {
				buf = r.writer.appendSetAttributeIfNeeded(buf, display.DefaultAttribute)
			}
			buf = append(buf, '\r', '\n')
		}

		lastCol := screen.Cols - 1
		for lastCol >= 0 && screen.At(row, lastCol).IsDefaultBackgroundSpace() {
			lastCol--
		}

		for col := 0; col <= lastCol; col++ {
			cell := screen.At(row, col)
			buf = r.writer.appendSetAttributeIfNeeded(buf, cell.Attribute)
			buf = appendCharacter(buf, screen.Cols, &r.writer, cell.Character)
		}

		if r.writer.attr != int(display.DefaultAttribute) && lastCol < screen.Cols-1 {
			buf = r.writer.appendSetAttributeIfNeeded(buf, display.DefaultAttribute)
		}
	}

	// Trailing blanks are elided, so where the terminal's cursor ended up
	// is not tracked: mark the position unknown so the next diff moves
	// explicitly.
	r.writer.row, r.writer.col = -1, -1
	return buf
}

func (r *Renderer) renderDiff(current, previous *display.Screen, buf []byte) []byte {
	for row := 0; row < current.Rows; row++ {
		for col := 0; col < current.Cols; col++ {
			curr := current.At(row, col)
			if curr == previous.At(row, col) {
				continue
			}
			if row != r.writer.row || col != r.writer.col {
				buf = r.writer.appendMoveCursor(buf, row, col)
				r.writer.row, r.writer.col = row, col
			}
			buf = r.writer.appendSetAttributeIfNeeded(buf, curr.Attribute)
			buf = appendCharacter(buf, current.Cols, &r.writer, curr.Character)
		}
	}
	return buf
}

func (r *Renderer) renderCursor(cursor, prev display.Cursor, buf []byte) []byte {
	if cursor == prev {
		return buf
	}
	if cursor.Visible {
		buf = r.writer.appendMoveCursor(buf, int(cursor.Row), int(cursor.Col))
		r.writer.row, r.writer.col = int(cursor.Row), int(cursor.Col)
	}
	if cursor.Visible != prev.Visible {
		if cursor.Visible {
			buf = append(buf, seqShowCursor...)
		} else {
			buf = append(buf, seqHideCursor...)
		}
	}
	return buf
}
