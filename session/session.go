// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

// Package session implements the per-connection capability handshake
// and control-channel dispatch: HELLO negotiation, mode notifications,
// and the REFRESH/RESIZE/GOODBYE/CAPS_QUERY control messages.
package session

import (
	"fmt"

	"github.com/moonshot-labs/vgastream/wire"
)

// Resize carries the dimensions from a client RESIZE message. Per the
// design notes it is informational only: the server's own geometry is
// always derived from the video source, never from a client request.
type Resize struct {
	Cols, Rows uint16
}

// Result reports what a Controller wants the caller to do after
// processing one inbound control-channel frame.
type Result struct {
	// Reply, if non-nil, is a control payload (opcode + body) the
	// caller should send back on ChannelControl.
	Reply []byte

	// Ready becomes true the instant the client's HELLO is accepted;
	// the caller should invalidate the renderer and send a mode
	// notification.
	Ready bool

	// Refresh is true on a REFRESH request; the caller should
	// invalidate the renderer.
	Refresh bool

	// Goodbye is true on a GOODBYE request; the caller should close
	// the connection and revert to listening.
	Goodbye bool

	// Resize is non-nil on a RESIZE request.
	Resize *Resize
}

// Controller owns one connection's handshake state and wants_* flags.
// It is not safe for concurrent use; the stream package's single I/O
// goroutine owns it for the life of a connection.
type Controller struct {
	serverCaps []wire.Capability

	ready                                bool
	wantsText, wantsGraphics, wantsAudio bool
}

// NewController returns a Controller that will advertise serverCaps in
// its HELLO and CAPS_REPLY responses.
func NewController(serverCaps []wire.Capability) *Controller {
	return &Controller{serverCaps: serverCaps}
}

// Reset clears handshake state for a freshly accepted connection.
func (c *Controller) Reset() {
	c.ready = false
	c.wantsText, c.wantsGraphics, c.wantsAudio = false, false, false
}

// Ready reports whether the client HELLO has been received and
// accepted.
func (c *Controller) Ready() bool { return c.ready }

// WantsText, WantsGraphics, WantsAudio report the capability groups the
// connected client asked for in its HELLO.
func (c *Controller) WantsText() bool     { return c.wantsText }
func (c *Controller) WantsGraphics() bool { return c.wantsGraphics }
func (c *Controller) WantsAudio() bool    { return c.wantsAudio }

// HelloPayload returns the server's own HELLO control payload, to be
// sent immediately after accepting a connection, before any client
// message has arrived.
func (c *Controller) HelloPayload() []byte {
	return wire.EncodeHello(wire.Hello{Version: wire.ProtocolVersion, Capabilities: c.serverCaps})
}

// HandleControl processes one CONTROL-channel payload (opcode byte
// included) and reports the resulting Result. An error indicates a
// malformed payload for a recognized opcode; the frame is dropped and
// session state is left unchanged. An unrecognized opcode is reported
// via the returned error as well, for the caller to log at Warn and
// otherwise ignore — it is not fatal to the connection.
func (c *Controller) HandleControl(payload []byte) (Result, error) {
	if len(payload) < 1 {
		return Result{}, fmt.Errorf("session: empty control payload")
	}
	op := wire.ControlOp(payload[0])
	body := payload[1:]

	switch op {
	case wire.OpHello:
		hello, err := wire.DecodeHello(body)
		if err != nil {
			return Result{}, fmt.Errorf("session: %w", err)
		}
		c.applyCapabilities(hello.Capabilities)
		c.ready = true
		return Result{Ready: true}, nil

	case wire.OpGoodbye:
		return Result{Goodbye: true}, nil

	case wire.OpRefresh:
		return Result{Refresh: true}, nil

	case wire.OpResize:
		cols, rows, err := wire.DecodeResize(body)
		if err != nil {
			return Result{}, fmt.Errorf("session: %w", err)
		}
		return Result{Resize: &Resize{Cols: cols, Rows: rows}}, nil

	case wire.OpCapsQuery:
		return Result{Reply: wire.EncodeCapsReply(c.serverCaps)}, nil

	default:
		return Result{}, fmt.Errorf("session: unrecognized control opcode %#02x", byte(op))
	}
}

func (c *Controller) applyCapabilities(caps []wire.Capability) {
	for _, capability := range caps {
		switch capability {
		case wire.CapGraphicsPNG, wire.CapGraphicsJPEG, wire.CapGraphicsH264:
			c.wantsGraphics = true
		case wire.CapAudioPCM, wire.CapAudioOpus:
			c.wantsAudio = true
		case wire.CapTextOutput:
			c.wantsText = true
		}
	}
}
