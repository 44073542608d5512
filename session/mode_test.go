// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bytes"
	"testing"

	"github.com/moonshot-labs/vgastream/display"
	"github.com/moonshot-labs/vgastream/wire"
)

func TestModeNotificationText80x25(t *testing.T) {
	got := ModeNotification(display.ModeText, 80, 25)
	want := []byte{0x10, 0x00, 0x50, 0x00, 0x19}
	if !bytes.Equal(got, want) {
		t.Errorf("ModeNotification(text,80,25) = % x, want % x", got, want)
	}
}

func TestModeNotificationGraphicsAndUnsupported(t *testing.T) {
	if got := ModeNotification(display.ModeGraphics, 0, 0); got[0] != byte(wire.OpModeGraphics) {
		t.Errorf("graphics notification opcode = %#02x", got[0])
	}
	if got := ModeNotification(display.ModeUnsupported, 0, 0); got[0] != byte(wire.OpModeUnsupported) {
		t.Errorf("unsupported notification opcode = %#02x", got[0])
	}
}
