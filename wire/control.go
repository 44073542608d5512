// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"encoding/binary"
	"fmt"
)

// ControlOp is the first byte of a ChannelControl payload.
type ControlOp byte

const (
	OpHello         ControlOp = 0x01
	OpGoodbye       ControlOp = 0x02
	OpModeText      ControlOp = 0x10
	OpModeGraphics  ControlOp = 0x11
	OpModeUnsupported ControlOp = 0x12
	OpRefresh       ControlOp = 0x20
	OpResize        ControlOp = 0x21
	OpCapsQuery     ControlOp = 0x30
	OpCapsReply     ControlOp = 0x31
)

// Capability is one optional feature a peer may advertise in HELLO.
type Capability byte

const (
	CapTextOutput   Capability = 0x01
	CapKeyboardInput Capability = 0x02
	CapMouseInput   Capability = 0x03
	CapGraphicsPNG  Capability = 0x10
	CapGraphicsJPEG Capability = 0x11
	CapGraphicsH264 Capability = 0x12
	CapAudioPCM     Capability = 0x20
	CapAudioOpus    Capability = 0x21
)

// ProtocolVersion is the single version this implementation speaks.
const ProtocolVersion uint16 = 0x0001

// Hello is the payload of a HELLO control message.
type Hello struct {
	Version      uint16
	Capabilities []Capability
}

// EncodeHello builds a HELLO payload: [op][version hi][version lo][count][cap...].
func EncodeHello(h Hello) []byte {
	payload := make([]byte, 0, 4+len(h.Capabilities))
	payload = append(payload, byte(OpHello))
	var v [2]byte
	binary.BigEndian.PutUint16(v[:], h.Version)
	payload = append(payload, v[0], v[1])
	payload = append(payload, byte(len(h.Capabilities)))
	for _, c := range h.Capabilities {
		payload = append(payload, byte(c))
	}
	return payload
}

// DecodeHello parses a HELLO payload with the leading opcode byte
// stripped (pass payload[1:] from the frame). Per §4.3, a payload
// shorter than 3 bytes (version + count) is rejected and the session
// stays in its pre-handshake state.
func DecodeHello(body []byte) (Hello, error) {
	if len(body) < 3 {
		return Hello{}, fmt.Errorf("wire: hello body too short: %d bytes", len(body))
	}
	version := binary.BigEndian.Uint16(body[0:2])
	count := int(body[2])
	if len(body) < 3+count {
		return Hello{}, fmt.Errorf("wire: hello declares %d capabilities but body has %d bytes", count, len(body)-3)
	}
	caps := make([]Capability, count)
	for i := 0; i < count; i++ {
		caps[i] = Capability(body[3+i])
	}
	return Hello{Version: version, Capabilities: caps}, nil
}

// EncodeModeText builds a MODE_TEXT payload: [op][cols hi][cols lo][rows hi][rows lo].
func EncodeModeText(cols, rows uint16) []byte {
	payload := make([]byte, 5)
	payload[0] = byte(OpModeText)
	binary.BigEndian.PutUint16(payload[1:3], cols)
	binary.BigEndian.PutUint16(payload[3:5], rows)
	return payload
}

// DecodeModeText parses a MODE_TEXT body (opcode stripped).
func DecodeModeText(body []byte) (cols, rows uint16, err error) {
	if len(body) != 4 {
		return 0, 0, fmt.Errorf("wire: mode-text body must be 4 bytes, got %d", len(body))
	}
	return binary.BigEndian.Uint16(body[0:2]), binary.BigEndian.Uint16(body[2:4]), nil
}

// EncodeSimple builds a payload consisting of just an opcode, used for
// GOODBYE, MODE_GRAPHICS, MODE_UNSUPPORTED, REFRESH, and CAPS_QUERY.
func EncodeSimple(op ControlOp) []byte {
	return []byte{byte(op)}
}

// EncodeResize builds a RESIZE payload: [op][cols hi][cols lo][rows hi][rows lo].
func EncodeResize(cols, rows uint16) []byte {
	payload := make([]byte, 5)
	payload[0] = byte(OpResize)
	binary.BigEndian.PutUint16(payload[1:3], cols)
	binary.BigEndian.PutUint16(payload[3:5], rows)
	return payload
}

// DecodeResize parses a RESIZE body (opcode stripped).
func DecodeResize(body []byte) (cols, rows uint16, err error) {
	if len(body) != 4 {
		return 0, 0, fmt.Errorf("wire: resize body must be 4 bytes, got %d", len(body))
	}
	return binary.BigEndian.Uint16(body[0:2]), binary.BigEndian.Uint16(body[2:4]), nil
}

// EncodeCapsReply builds a CAPS_REPLY payload: [op][count][cap...].
func EncodeCapsReply(caps []Capability) []byte {
	payload := make([]byte, 0, 2+len(caps))
	payload = append(payload, byte(OpCapsReply))
	payload = append(payload, byte(len(caps)))
	for _, c := range caps {
		payload = append(payload, byte(c))
	}
	return payload
}

// DecodeCapsReply parses a CAPS_REPLY body (opcode stripped).
func DecodeCapsReply(body []byte) ([]Capability, error) {
	if len(body) < 1 {
		return nil, fmt.Errorf("wire: caps-reply body empty")
	}
	count := int(body[0])
	if len(body) < 1+count {
		return nil, fmt.Errorf("wire: caps-reply declares %d capabilities but body has %d bytes", count, len(body)-1)
	}
	caps := make([]Capability, count)
	for i := 0; i < count; i++ {
		caps[i] = Capability(body[1+i])
	}
	return caps, nil
}
