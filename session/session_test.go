// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bytes"
	"testing"

	"github.com/moonshot-labs/vgastream/wire"
)

func serverCaps() []wire.Capability {
	return []wire.Capability{wire.CapTextOutput, wire.CapKeyboardInput, wire.CapMouseInput}
}

func TestHelloPayloadMatchesHandshakeVector(t *testing.T) {
	c := NewController(serverCaps())
	got := c.HelloPayload()
	want := []byte{0x01, 0x00, 0x01, 0x03, 0x01, 0x02, 0x03}
	if !bytes.Equal(got, want) {
		t.Errorf("HelloPayload = % x, want % x", got, want)
	}
}

func TestClientHelloMarksReady(t *testing.T) {
	c := NewController(serverCaps())
	if c.Ready() {
		t.Fatal("controller should not start ready")
	}
	clientHello := wire.EncodeHello(wire.Hello{Version: 1, Capabilities: []wire.Capability{wire.CapTextOutput}})
	result, err := c.HandleControl(clientHello)
	if err != nil {
		t.Fatalf("HandleControl: %v", err)
	}
	if !result.Ready {
		t.Error("result.Ready should be true after a valid HELLO")
	}
	if !c.Ready() || !c.WantsText() {
		t.Errorf("controller state after HELLO: ready=%v wantsText=%v", c.Ready(), c.WantsText())
	}
}

func TestSecondHelloReparsesWithoutCorruption(t *testing.T) {
	c := NewController(serverCaps())
	first := wire.EncodeHello(wire.Hello{Version: 1, Capabilities: []wire.Capability{wire.CapTextOutput}})
	if _, err := c.HandleControl(first); err != nil {
		t.Fatalf("first HandleControl: %v", err)
	}
	second := wire.EncodeHello(wire.Hello{Version: 1, Capabilities: []wire.Capability{wire.CapTextOutput, wire.CapGraphicsPNG}})
	result, err := c.HandleControl(second)
	if err != nil {
		t.Fatalf("second HandleControl: %v", err)
	}
	if !result.Ready || !c.WantsGraphics() {
		t.Errorf("second HELLO should re-apply capabilities: result=%+v graphics=%v", result, c.WantsGraphics())
	}
}

func TestUndersizedHelloLeavesStatePreHandshake(t *testing.T) {
	c := NewController(serverCaps())
	if _, err := c.HandleControl([]byte{byte(wire.OpHello), 0x00}); err == nil {
		t.Fatal("undersized HELLO body should return an error")
	}
	if c.Ready() {
		t.Error("controller should remain not-ready after a rejected HELLO")
	}
}

func TestRefreshGoodbyeResize(t *testing.T) {
	c := NewController(serverCaps())
	if r, err := c.HandleControl(wire.EncodeSimple(wire.OpRefresh)); err != nil || !r.Refresh {
		t.Errorf("REFRESH result = %+v, err=%v", r, err)
	}
	if r, err := c.HandleControl(wire.EncodeSimple(wire.OpGoodbye)); err != nil || !r.Goodbye {
		t.Errorf("GOODBYE result = %+v, err=%v", r, err)
	}
	r, err := c.HandleControl(wire.EncodeResize(132, 43))
	if err != nil {
		t.Fatalf("RESIZE: %v", err)
	}
	if r.Resize == nil || r.Resize.Cols != 132 || r.Resize.Rows != 43 {
		t.Errorf("RESIZE result = %+v", r)
	}
}

func TestCapsQueryReplies(t *testing.T) {
	c := NewController(serverCaps())
	result, err := c.HandleControl(wire.EncodeSimple(wire.OpCapsQuery))
	if err != nil {
		t.Fatalf("CAPS_QUERY: %v", err)
	}
	caps, err := wire.DecodeCapsReply(result.Reply[1:])
	if err != nil {
		t.Fatalf("DecodeCapsReply: %v", err)
	}
	if len(caps) != 3 {
		t.Errorf("caps reply = %v, want 3 capabilities", caps)
	}
	// CAPS_QUERY must not itself complete the handshake.
	if c.Ready() {
		t.Error("CAPS_QUERY should not mark the session ready")
	}
}

func TestUnknownOpcodeReturnsError(t *testing.T) {
	if _, err := NewController(serverCaps()).HandleControl([]byte{0x7F}); err == nil {
		t.Fatal("unknown opcode should return an error")
	}
}
