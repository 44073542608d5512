// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

// Package keyboard turns the byte stream a VT-class terminal sends for
// keystrokes into 16-bit PC BIOS keycodes and delivers them to a [Sink].
package keyboard

// asciiToScancode maps ASCII 0x00-0x7F to its PC/XT keyboard scancode
// (the "make" code), independent of shift state. Index 0 is unused.
var asciiToScancode = [128]byte{
	0x00, 0x1E, 0x30, 0x2E, 0x20, 0x12, 0x21, 0x22, 0x0E, 0x0F, 0x1C, 0x25, 0x26, 0x1C, 0x31, 0x18,
	0x19, 0x10, 0x13, 0x1F, 0x14, 0x16, 0x2F, 0x11, 0x2D, 0x15, 0x2C, 0x01, 0x2B, 0x1B, 0x07, 0x0C,
	0x39, 0x02, 0x28, 0x04, 0x05, 0x06, 0x08, 0x28, 0x0A, 0x0B, 0x09, 0x0D, 0x33, 0x0C, 0x34, 0x35,
	0x0B, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x27, 0x27, 0x33, 0x0D, 0x34, 0x35,
	0x03, 0x1E, 0x30, 0x2E, 0x20, 0x12, 0x21, 0x22, 0x23, 0x17, 0x24, 0x25, 0x26, 0x32, 0x31, 0x18,
	0x19, 0x10, 0x13, 0x1F, 0x14, 0x16, 0x2F, 0x11, 0x2D, 0x15, 0x2C, 0x1A, 0x2B, 0x1B, 0x07, 0x0C,
	0x29, 0x1E, 0x30, 0x2E, 0x20, 0x12, 0x21, 0x22, 0x23, 0x17, 0x24, 0x25, 0x26, 0x32, 0x31, 0x18,
	0x19, 0x10, 0x13, 0x1F, 0x14, 0x16, 0x2F, 0x11, 0x2D, 0x15, 0x2C, 0x1A, 0x2B, 0x1B, 0x29, 0x0E,
}

// Scancodes the parser emits directly. The extended keys (arrows,
// editing keys, F1-F12) are sent with ascii 0x00 (the "extended" bit of
// InjectKey in the original design notes); Esc, Backspace, Tab, and
// Enter are sent with their ASCII control byte.
const (
	scanUp       = 0x48
	scanDown     = 0x50
	scanRight    = 0x4D
	scanLeft     = 0x4B
	scanHome     = 0x47
	scanEnd      = 0x4F
	scanInsert   = 0x52
	scanDelete   = 0x53
	scanPageUp   = 0x49
	scanPageDown = 0x51
	scanF1       = 0x3B
	scanF2       = 0x3C
	scanF3       = 0x3D
	scanF4       = 0x3E
	scanF5       = 0x3F
	scanF6       = 0x40
	scanF7       = 0x41
	scanF8       = 0x42
	scanF9       = 0x43
	scanF10      = 0x44
	scanF11      = 0x85
	scanF12      = 0x86
	scanEsc      = 0x01
	scanBackspace = 0x0E
	scanTab      = 0x0F
	scanEnter    = 0x1C
)

// Code forms a 16-bit BIOS keycode from a scancode and an ASCII value.
func Code(scancode, ascii byte) uint16 {
	return uint16(scancode)<<8 | uint16(ascii)
}

// ExtendedCode forms a 16-bit BIOS keycode for a key with no ASCII
// representation (arrows, function keys, editing keys).
func ExtendedCode(scancode byte) uint16 {
	return uint16(scancode) << 8
}
