// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package display

// Mode identifies the emulator's current video mode at the level of
// detail the text-stream needs: is it a text mode, a graphics mode the
// stream could (eventually) capture, or something it has no story for.
type Mode int

const (
	ModeText Mode = iota
	ModeGraphics
	ModeUnsupported
)

// CRTC mirrors the subset of the VGA CRT-controller register file the
// snapshot engine reads to determine display geometry and cursor
// position. Field names follow the hardware register names rather than
// a Go-idiomatic rewrite, since they are a direct, well-known external
// contract (see [VideoSource]).
type CRTC struct {
	// Offset is the CRTC "offset" register; Cols = 2*Offset when
	// Offset > 0.
	Offset uint8

	// MaximumScanLine's low 5 bits give scan lines per character row
	// minus one; Rows derives from (VerticalDisplayEnd+1) / (this+1).
	MaximumScanLine uint8

	// VerticalDisplayEnd is the last displayed scan line.
	VerticalDisplayEnd uint16

	// CursorStart's bit 5 set means the cursor is hidden.
	CursorStart uint8

	// CursorLocationHigh/Low form a 16-bit linear cursor position in
	// character cells: row*Cols + col.
	CursorLocationHigh uint8
	CursorLocationLow  uint8
}

// VideoSource is the read-only external collaborator the snapshot
// engine samples on every vsync tick: the emulator's video subsystem.
// Implementations must be safe to call from the emulator's render
// thread only — [Engine.Sample] is never called concurrently with
// itself, so VideoSource need not be safe for concurrent use either.
type VideoSource interface {
	// Mode returns the current display mode.
	Mode() Mode

	// CRTCRegisters returns the current CRT-controller register
	// values used to compute geometry and cursor position.
	CRTCRegisters() CRTC

	// DisplayStart returns the character-cell offset (not bytes) of
	// the first on-screen row into the character memory addressed by
	// ReadMemory, mirroring the VGA "display start" register.
	DisplayStart() uint32

	// ReadMemory reads one byte of character/attribute memory at a
	// linear address, where address 0 corresponds to the base of text
	// memory (0xB8000 on real VGA hardware; the offset is an
	// implementation detail the source hides from the snapshot
	// engine).
	ReadMemory(address uint32) byte
}
