// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"strconv"

	"github.com/moonshot-labs/vgastream/cp437"
)

// unknownAttr marks writerState.attr as "we don't know what attribute
// the terminal is currently in", forcing the next cell written to emit
// an explicit SGR sequence regardless of its value.
const unknownAttr = -1

// writerState tracks what a remote terminal currently shows, so the
// diff engine can elide attribute-set and cursor-move sequences the
// terminal doesn't need. It is reset to "unknown" by invalidate
// whenever an assumption about terminal state can no longer hold.
type writerState struct {
	attr     int // unknownAttr, or the last emitted VGA attribute byte
	row, col int // -1, -1 when position is unknown
}

func (w *writerState) invalidate() {
	w.attr = unknownAttr
	w.row, w.col = -1, -1
}

func (w *writerState) appendSetAttributeIfNeeded(buf []byte, attr byte) []byte {
	if int(attr) == w.attr {
		return buf
	}
	w.attr = int(attr)
	return appendSetAttribute(buf, attr)
}

func (w *writerState) appendMoveCursor(buf []byte, row, col int) []byte {
	buf = append(buf, "\x1b["...)
	buf = strconv.AppendInt(buf, int64(row+1), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(col+1), 10)
	return append(buf, 'H')
}

func appendCharacter(buf []byte, cols int, w *writerState, ch byte) []byte {
	buf = cp437.AppendUTF8(buf, ch)
	w.col++
	if w.col >= cols {
		w.col = 0
		w.row++
	}
	return buf
}

const (
	seqHideCursor = "\x1b[?25l"
	seqShowCursor = "\x1b[?25h"
	seqClear      = "\x1b[2J"
	seqHome       = "\x1b[H"
)

func appendClearScreen(buf []byte) []byte {
	buf = append(buf, seqHideCursor...)
	buf = append(buf, seqClear...)
	return append(buf, seqHome...)
}
