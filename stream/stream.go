// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

// Package stream wires together the wire, session, keyboard, display,
// and render packages into the public control surface a host
// application uses: Listen, Close, OnVSync, Invalidate, SetEnabled.
//
//   - stream.go: Stream type, public control surface (C9)
//   - iodriver.go: background accept/read/dispatch task (C7)
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"

	"github.com/moonshot-labs/vgastream/display"
	"github.com/moonshot-labs/vgastream/keyboard"
	"github.com/moonshot-labs/vgastream/lib/clock"
	"github.com/moonshot-labs/vgastream/render"
	"github.com/moonshot-labs/vgastream/session"
	"github.com/moonshot-labs/vgastream/wire"
)

// Config holds the parameters a Stream is constructed with. Fields left
// zero get the documented default.
type Config struct {
	// SocketPath is the filesystem path for the primary Unix-domain
	// stream socket.
	SocketPath string

	// BulkPath is accepted for forward compatibility with a reserved
	// secondary socket (graphics/audio) but is never bound; see
	// DESIGN.md for why no component in this version uses it.
	BulkPath string

	// ServerCapabilities lists what this server advertises in its
	// HELLO and CAPS_REPLY. Defaults to TextOutput+KeyboardInput+MouseInput.
	ServerCapabilities []wire.Capability

	// Logger receives structured diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// Clock abstracts the idle-sleep pacing in the background I/O
	// task for deterministic tests. Defaults to clock.Real().
	Clock clock.Clock
}

func (c Config) withDefaults() Config {
	if c.ServerCapabilities == nil {
		c.ServerCapabilities = []wire.Capability{wire.CapTextOutput, wire.CapKeyboardInput, wire.CapMouseInput}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Clock == nil {
		c.Clock = clock.Real()
	}
	return c
}

// Stream owns the listening socket, the accepted connection, the
// background I/O task, and the snapshot/render/session state for one
// streamed display. Create one with New, bind it with Listen, drive it
// from the host's vsync callback with OnVSync, and dispose it with
// Close.
type Stream struct {
	cfg   Config
	video display.VideoSource
	keys  keyboard.Sink

	listener *net.UnixListener

	writeMu sync.Mutex
	conn    *net.UnixConn // guarded by writeMu

	session  *session.Controller
	parser   *keyboard.Parser
	renderer *render.Renderer
	engine   display.Engine
	tracker  display.Tracker

	enabled    atomic.Bool
	connected  atomic.Bool
	ready      atomic.Bool // mirrors session.Controller.Ready(), readable from the vsync goroutine
	invalidate atomic.Bool // set by the I/O goroutine, consumed by OnVSync on the vsync goroutine

	running atomic.Bool
	wg      sync.WaitGroup
}

// New constructs a Stream that samples video and injects keystrokes
// into keys. The Stream starts enabled (SetEnabled(false) pauses
// OnVSync) and is unbound until Listen succeeds.
func New(cfg Config, video display.VideoSource, keys keyboard.Sink) *Stream {
	cfg = cfg.withDefaults()
	s := &Stream{
		cfg:      cfg,
		video:    video,
		keys:     keys,
		session:  session.NewController(cfg.ServerCapabilities),
		renderer: render.NewRenderer(),
	}
	s.parser = keyboard.NewParser(keys)
	s.enabled.Store(true)
	return s
}

// Listen binds the primary Unix-domain socket and starts the
// background I/O task. It removes any stale socket file left behind by
// a prior unclean shutdown before binding. Returns an error (never
// panics) on any bind/listen failure, matching the "fatal to Listen
// only" error policy.
func (s *Stream) Listen() error {
	addr, err := net.ResolveUnixAddr("unix", s.cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("stream: resolve socket path: %w", err)
	}

	_ = removeStaleSocket(s.cfg.SocketPath)

	listener, err := net.ListenUnix("unix", addr)
	if err != nil {
		return fmt.Errorf("stream: listen on %s: %w", s.cfg.SocketPath, err)
	}
	s.listener = listener
	s.running.Store(true)

	s.wg.Add(1)
	go s.ioLoop()

	s.cfg.Logger.Info("vgastream listening",
		slog.String("path", s.cfg.SocketPath),
		slog.Int("protocol_version", int(wire.ProtocolVersion)))
	return nil
}

// Close stops the background task, closes any open connection and the
// listener, and removes the socket file. Close is idempotent.
func (s *Stream) Close() error {
	s.running.Store(false)
	s.wg.Wait()

	s.writeMu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.writeMu.Unlock()

	var err error
	if s.listener != nil {
		err = s.listener.Close()
		s.listener = nil
	}
	removeStaleSocket(s.cfg.SocketPath)
	s.connected.Store(false)
	s.ready.Store(false)
	return err
}

// SetEnabled toggles whether OnVSync does any work. A disabled Stream
// still accepts connections in the background (so a client reconnect
// attempt isn't refused) but never samples or sends video.
func (s *Stream) SetEnabled(enabled bool) { s.enabled.Store(enabled) }

// IsConnected reports whether a client is currently connected.
func (s *Stream) IsConnected() bool { return s.connected.Load() }

// Invalidate forces the next OnVSync to perform a full redraw. Safe to
// call from the vsync goroutine only (it touches renderer state that
// OnVSync also owns).
func (s *Stream) Invalidate() { s.renderer.Invalidate() }

// OnVSync samples the video source, renders an update, and sends it on
// ChannelTextOut. It is a no-op unless the stream is enabled, a client
// is connected, and the handshake has completed — exactly the
// conditions under which sending would make sense. OnVSync must be
// called from the same goroutine every time (the host's render thread);
// it is not safe for concurrent use with itself.
func (s *Stream) OnVSync() {
	if !s.enabled.Load() || !s.connected.Load() || !s.ready.Load() {
		return
	}

	if s.invalidate.Swap(false) {
		s.renderer.Invalidate()
	}

	mode := s.video.Mode()
	modeChanged := s.tracker.Observe(mode)
	if modeChanged {
		s.renderer.Invalidate()
	}

	if mode != display.ModeText {
		if modeChanged {
			s.sendControl(session.ModeNotification(mode, 0, 0))
		}
		return // graphics/audio capture is not part of this version
	}

	s.engine.Sample(s.video)
	if modeChanged || s.engine.DimensionsChanged {
		s.renderer.Invalidate()
		s.sendControl(session.ModeNotification(mode, s.engine.Current.Cols, s.engine.Current.Rows))
	}

	payload := s.renderer.Render(&s.engine, nil)
	s.engine.Commit()
	if len(payload) == 0 {
		return
	}
	if s.cfg.Logger.Enabled(context.Background(), slog.LevelDebug) {
		s.cfg.Logger.Debug("vgastream: text-out frame", slog.String("plain_text_preview", previewText(payload)))
	}
	if err := s.writeFrame(wire.Frame{Channel: wire.ChannelTextOut, Payload: payload}); err != nil {
		s.cfg.Logger.Warn("vgastream: text-out write failed", slog.Any("error", err))
	}
}

// previewText strips ANSI escape sequences from a rendered TEXT_OUT
// payload and truncates it, for debug log lines where a reader wants
// to see roughly what changed without the raw escape codes.
func previewText(payload []byte) string {
	plain := ansi.Strip(string(payload))
	const maxPreview = 120
	if len(plain) > maxPreview {
		plain = plain[:maxPreview] + "..."
	}
	return plain
}

// connectionID returns a correlation identifier for a newly accepted
// connection, attached to the "client connected" log line. The
// handshake and disconnect log lines do not carry it.
func connectionID() string {
	return uuid.NewString()
}
