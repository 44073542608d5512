// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/moonshot-labs/vgastream/display"
	"github.com/moonshot-labs/vgastream/keyboard"
	"github.com/moonshot-labs/vgastream/wire"
)

type fakeVideo struct {
	mode display.Mode
	crtc display.CRTC
	mem  []byte
}

func (f *fakeVideo) Mode() display.Mode          { return f.mode }
func (f *fakeVideo) CRTCRegisters() display.CRTC { return f.crtc }
func (f *fakeVideo) DisplayStart() uint32        { return 0 }
func (f *fakeVideo) ReadMemory(addr uint32) byte {
	if int(addr) >= len(f.mem) {
		return 0
	}
	return f.mem[addr]
}

func newFakeVideo80x25() *fakeVideo {
	mem := make([]byte, 80*25*2)
	for i := 0; i < len(mem); i += 2 {
		mem[i], mem[i+1] = ' ', 0x07
	}
	return &fakeVideo{
		mode: display.ModeText,
		crtc: display.CRTC{Offset: 40, MaximumScanLine: 15, VerticalDisplayEnd: 399},
		mem:  mem,
	}
}

type collectingSink struct{ codes []uint16 }

func (c *collectingSink) InjectKey(code uint16) { c.codes = append(c.codes, code) }

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestListenAcceptHandshake(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vgastream.sock")
	video := newFakeVideo80x25()
	sink := &collectingSink{}
	s := New(Config{SocketPath: path}, video, sink)
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer s.Close()

	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	serverHello, err := wire.Read(conn)
	if err != nil {
		t.Fatalf("read server hello: %v", err)
	}
	if serverHello.Channel != wire.ChannelControl || wire.ControlOp(serverHello.Payload[0]) != wire.OpHello {
		t.Fatalf("unexpected server frame: %+v", serverHello)
	}

	clientHello := wire.EncodeHello(wire.Hello{Version: wire.ProtocolVersion, Capabilities: []wire.Capability{wire.CapTextOutput, wire.CapKeyboardInput}})
	if err := wire.Write(conn, wire.Frame{Channel: wire.ChannelControl, Payload: clientHello}); err != nil {
		t.Fatalf("write client hello: %v", err)
	}

	waitUntil(t, time.Second, func() bool { return s.ready.Load() })

	s.OnVSync()
	modeFrame, err := wire.Read(conn)
	if err != nil {
		t.Fatalf("read mode notification: %v", err)
	}
	if modeFrame.Channel != wire.ChannelControl || wire.ControlOp(modeFrame.Payload[0]) != wire.OpModeText {
		t.Fatalf("expected MODE_TEXT, got %+v", modeFrame)
	}
	cols, rows, err := wire.DecodeModeText(modeFrame.Payload[1:])
	if err != nil || cols != 80 || rows != 25 {
		t.Fatalf("mode text geometry = (%d,%d,%v)", cols, rows, err)
	}

	textFrame, err := wire.Read(conn)
	if err != nil {
		t.Fatalf("read first text-out frame: %v", err)
	}
	if textFrame.Channel != wire.ChannelTextOut {
		t.Fatalf("expected text-out frame, got channel %v", textFrame.Channel)
	}
}

func TestKeyboardInputReachesSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vgastream.sock")
	video := newFakeVideo80x25()
	sink := &collectingSink{}
	s := New(Config{SocketPath: path}, video, sink)
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer s.Close()

	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if _, err := wire.Read(conn); err != nil { // server hello
		t.Fatalf("read server hello: %v", err)
	}

	arrowUp := []byte{0x1B, '[', 'A'}
	if err := wire.Write(conn, wire.Frame{Channel: wire.ChannelKeyboardIn, Payload: arrowUp}); err != nil {
		t.Fatalf("write keyboard frame: %v", err)
	}

	waitUntil(t, time.Second, func() bool { return len(sink.codes) == 1 })
	if sink.codes[0] != keyboard.ExtendedCode(0x48) {
		t.Errorf("injected code = %#04x, want %#04x", sink.codes[0], keyboard.ExtendedCode(0x48))
	}
}

func TestGoodbyeReturnsToListening(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vgastream.sock")
	video := newFakeVideo80x25()
	sink := &collectingSink{}
	s := New(Config{SocketPath: path}, video, sink)
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer s.Close()

	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if _, err := wire.Read(conn); err != nil {
		t.Fatalf("read server hello: %v", err)
	}
	if err := wire.Write(conn, wire.Frame{Channel: wire.ChannelControl, Payload: wire.EncodeSimple(wire.OpGoodbye)}); err != nil {
		t.Fatalf("write goodbye: %v", err)
	}
	conn.Close()

	waitUntil(t, time.Second, func() bool { return !s.connected.Load() })

	// A fresh dial should see a new handshake.
	conn2, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("second Dial: %v", err)
	}
	defer conn2.Close()
	frame, err := wire.Read(conn2)
	if err != nil {
		t.Fatalf("read server hello on reconnect: %v", err)
	}
	if frame.Channel != wire.ChannelControl || wire.ControlOp(frame.Payload[0]) != wire.OpHello {
		t.Fatalf("expected HELLO on reconnect, got %+v", frame)
	}
}
