// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package wire

// Channel identifies the logical stream a frame belongs to. Values
// outside the recognized set are accepted by Read (they round-trip
// faithfully) but are rejected by consumers such as [stream.Stream],
// which logs and drops them.
type Channel byte

const (
	ChannelControl      Channel = 0x00
	ChannelTextOut      Channel = 0x01
	ChannelKeyboardIn   Channel = 0x02
	ChannelMouseIn      Channel = 0x03
	ChannelGraphicsRaw  Channel = 0x40
	ChannelGraphicsPNG  Channel = 0x41
	ChannelGraphicsJPG  Channel = 0x42
	ChannelGraphicsH264 Channel = 0x43
	ChannelAudioPCM     Channel = 0x50
	ChannelAudioOpus    Channel = 0x51
)

// Known reports whether c is one of the channel IDs recognized by this
// version of the protocol.
func (c Channel) Known() bool {
	switch c {
	case ChannelControl, ChannelTextOut, ChannelKeyboardIn, ChannelMouseIn,
		ChannelGraphicsRaw, ChannelGraphicsPNG, ChannelGraphicsJPG, ChannelGraphicsH264,
		ChannelAudioPCM, ChannelAudioOpus:
		return true
	default:
		return false
	}
}

// String returns a short human-readable name, used in log lines.
func (c Channel) String() string {
	switch c {
	case ChannelControl:
		return "control"
	case ChannelTextOut:
		return "text-out"
	case ChannelKeyboardIn:
		return "keyboard-in"
	case ChannelMouseIn:
		return "mouse-in"
	case ChannelGraphicsRaw:
		return "graphics-raw"
	case ChannelGraphicsPNG:
		return "graphics-png"
	case ChannelGraphicsJPG:
		return "graphics-jpeg"
	case ChannelGraphicsH264:
		return "graphics-h264"
	case ChannelAudioPCM:
		return "audio-pcm"
	case ChannelAudioOpus:
		return "audio-opus"
	default:
		return "unknown"
	}
}
