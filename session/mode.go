// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"github.com/moonshot-labs/vgastream/display"
	"github.com/moonshot-labs/vgastream/wire"
)

// ModeNotification builds the control payload announcing the
// emulator's current mode: MODE_TEXT with geometry for a text mode,
// MODE_GRAPHICS or MODE_UNSUPPORTED (empty bodies) otherwise.
func ModeNotification(mode display.Mode, cols, rows int) []byte {
	switch mode {
	case display.ModeText:
		return wire.EncodeModeText(uint16(cols), uint16(rows))
	case display.ModeGraphics:
		return wire.EncodeSimple(wire.OpModeGraphics)
	default:
		return wire.EncodeSimple(wire.OpModeUnsupported)
	}
}
