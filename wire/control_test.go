// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"bytes"
	"testing"
)

func TestEncodeHelloMatchesHandshakeVector(t *testing.T) {
	// Scenario 1 from the design notes: version 0x0001, 3 capabilities.
	got := EncodeHello(Hello{
		Version:      0x0001,
		Capabilities: []Capability{CapTextOutput, CapKeyboardInput, CapMouseInput},
	})
	want := []byte{0x01, 0x00, 0x01, 0x03, 0x01, 0x02, 0x03}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeHello = % x, want % x", got, want)
	}
}

func TestDecodeHelloRoundTrip(t *testing.T) {
	encoded := EncodeHello(Hello{Version: 7, Capabilities: []Capability{CapTextOutput}})
	decoded, err := DecodeHello(encoded[1:])
	if err != nil {
		t.Fatalf("DecodeHello: %v", err)
	}
	if decoded.Version != 7 || len(decoded.Capabilities) != 1 || decoded.Capabilities[0] != CapTextOutput {
		t.Errorf("DecodeHello = %+v", decoded)
	}
}

func TestDecodeHelloRejectsUndersizedBody(t *testing.T) {
	if _, err := DecodeHello([]byte{0x00}); err == nil {
		t.Fatal("DecodeHello with 1-byte body should fail")
	}
	if _, err := DecodeHello(nil); err == nil {
		t.Fatal("DecodeHello with empty body should fail")
	}
}

func TestDecodeHelloRejectsTruncatedCapabilities(t *testing.T) {
	// Declares 5 capabilities but supplies none.
	if _, err := DecodeHello([]byte{0x00, 0x01, 0x05}); err == nil {
		t.Fatal("DecodeHello should reject a short capability list")
	}
}

func TestEncodeModeTextMatches80x25Vector(t *testing.T) {
	got := EncodeModeText(80, 25)
	want := []byte{0x10, 0x00, 0x50, 0x00, 0x19}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeModeText(80,25) = % x, want % x", got, want)
	}
	cols, rows, err := DecodeModeText(got[1:])
	if err != nil || cols != 80 || rows != 25 {
		t.Errorf("DecodeModeText round trip = (%d,%d,%v)", cols, rows, err)
	}
}

func TestEncodeResizeRoundTrip(t *testing.T) {
	got := EncodeResize(132, 60)
	cols, rows, err := DecodeResize(got[1:])
	if err != nil || cols != 132 || rows != 60 {
		t.Errorf("DecodeResize round trip = (%d,%d,%v)", cols, rows, err)
	}
}

func TestEncodeCapsReplyRoundTrip(t *testing.T) {
	caps := []Capability{CapTextOutput, CapKeyboardInput}
	got := EncodeCapsReply(caps)
	decoded, err := DecodeCapsReply(got[1:])
	if err != nil {
		t.Fatalf("DecodeCapsReply: %v", err)
	}
	if len(decoded) != 2 || decoded[0] != CapTextOutput || decoded[1] != CapKeyboardInput {
		t.Errorf("DecodeCapsReply = %v", decoded)
	}
}

func TestEncodeSimplePayloads(t *testing.T) {
	for _, op := range []ControlOp{OpGoodbye, OpModeGraphics, OpModeUnsupported, OpRefresh, OpCapsQuery} {
		got := EncodeSimple(op)
		if len(got) != 1 || got[0] != byte(op) {
			t.Errorf("EncodeSimple(%v) = % x", op, got)
		}
	}
}
