// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

// Package render turns consecutive [display.Engine] snapshots into the
// minimal ANSI/UTF-8 byte sequence that brings a remote terminal up to
// date: a full redraw after an invalidation, or a differential update
// tracking the writer's belief about what the terminal currently shows.
package render

import "strconv"

// ansiForeground maps a 4-bit VGA foreground index to its ANSI SGR
// color code (30-37 for the low-intensity half, 90-97 for the
// high-intensity half).
var ansiForeground = [16]int{30, 34, 32, 36, 31, 35, 33, 37, 90, 94, 92, 96, 91, 95, 93, 97}

// ansiBackground maps a 3-bit VGA background index to its ANSI SGR
// background color code.
var ansiBackground = [8]int{40, 44, 42, 46, 41, 45, 43, 47}

// appendSetAttribute appends the SGR sequence that sets the terminal to
// the given VGA attribute byte. The leading "0;" resets any prior SGR
// state so attributes never accumulate across calls.
func appendSetAttribute(buf []byte, attr byte) []byte {
	fg := ansiForeground[attr&0x0F]
	bg := ansiBackground[(attr>>4)&0x07]
	buf = append(buf, "\x1b[0;"...)
	buf = strconv.AppendInt(buf, int64(fg), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(bg), 10)
	if attr&0x80 != 0 {
		buf = append(buf, ";5"...)
	}
	return append(buf, 'm')
}
