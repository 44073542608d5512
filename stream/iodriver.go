// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"errors"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/moonshot-labs/vgastream/lib/netutil"
	"github.com/moonshot-labs/vgastream/wire"
)

// acceptPollInterval bounds how long an idle accept attempt blocks.
// A short listener deadline makes AcceptUnix return a queued connection
// at once, or a timeout error when none arrives in time — the Go
// equivalent of the original's non-blocking accept(). The deadline must
// lie in the future: an already-expired one fails every accept, even
// with a connection waiting.
const acceptPollInterval = 10 * time.Millisecond

// readPollInterval bounds how long a read blocks before the loop
// re-checks the running flag, matching the original's poll(..., 10).
const readPollInterval = 10 * time.Millisecond

// idleSleep is how long the loop waits before retrying when no client
// is connected, matching the original's 50ms idle sleep.
const idleSleep = 50 * time.Millisecond

// ioLoop is the single background task that owns all socket reading:
// accept, poll-with-timeout read, and dispatch. It runs until Close
// clears the running flag.
func (s *Stream) ioLoop() {
	defer s.wg.Done()

	for s.running.Load() {
		if !s.connected.Load() {
			s.tryAccept()
			continue
		}
		s.pollAndDispatch()
	}
}

func (s *Stream) tryAccept() {
	if err := s.listener.SetDeadline(time.Now().Add(acceptPollInterval)); err != nil {
		s.cfg.Clock.Sleep(idleSleep)
		return
	}
	conn, err := s.listener.AcceptUnix()
	if err != nil {
		if !isTimeout(err) && s.running.Load() {
			s.cfg.Logger.Warn("vgastream: accept failed", slog.Any("error", err))
		}
		s.cfg.Clock.Sleep(idleSleep)
		return
	}
	s.handleAccept(conn)
}

func (s *Stream) handleAccept(conn *net.UnixConn) {
	id := connectionID()
	s.writeMu.Lock()
	s.conn = conn
	s.writeMu.Unlock()

	s.session.Reset()
	s.ready.Store(false)
	s.connected.Store(true)
	s.invalidate.Store(true)

	s.cfg.Logger.Info("vgastream: client connected", slog.String("connection_id", id))

	if err := s.writeFrame(wire.Frame{Channel: wire.ChannelControl, Payload: s.session.HelloPayload()}); err != nil {
		s.cfg.Logger.Warn("vgastream: hello write failed", slog.Any("error", err))
	}
}

func (s *Stream) pollAndDispatch() {
	s.writeMu.Lock()
	conn := s.conn
	s.writeMu.Unlock()
	if conn == nil {
		return
	}
	if err := conn.SetReadDeadline(time.Now().Add(readPollInterval)); err != nil {
		s.disconnect(err)
		return
	}

	frame, err := wire.Read(conn)
	if err != nil {
		if isTimeout(err) {
			return
		}
		s.disconnect(err)
		return
	}
	s.dispatch(frame)
}

func (s *Stream) dispatch(frame wire.Frame) {
	switch frame.Channel {
	case wire.ChannelControl:
		s.dispatchControl(frame.Payload)
	case wire.ChannelKeyboardIn:
		s.parser.FeedAll(frame.Payload)
	case wire.ChannelMouseIn:
		// Mouse input has no sink in this version; see DESIGN.md.
	default:
		s.cfg.Logger.Debug("vgastream: dropping frame on unrecognized channel", slog.String("channel", frame.Channel.String()))
	}
}

func (s *Stream) dispatchControl(payload []byte) {
	result, err := s.session.HandleControl(payload)
	if err != nil {
		s.cfg.Logger.Warn("vgastream: malformed control message", slog.Any("error", err))
		return
	}
	if result.Reply != nil {
		if err := s.writeFrame(wire.Frame{Channel: wire.ChannelControl, Payload: result.Reply}); err != nil {
			s.cfg.Logger.Warn("vgastream: control reply write failed", slog.Any("error", err))
		}
	}
	if result.Ready {
		s.ready.Store(true)
		s.invalidate.Store(true)
		s.cfg.Logger.Info("vgastream: handshake complete",
			slog.Bool("wants_graphics", s.session.WantsGraphics()),
			slog.Bool("wants_audio", s.session.WantsAudio()))
	}
	if result.Refresh {
		s.invalidate.Store(true)
	}
	if result.Resize != nil {
		s.cfg.Logger.Debug("vgastream: client resize notice (informational only)",
			slog.Int("cols", int(result.Resize.Cols)), slog.Int("rows", int(result.Resize.Rows)))
	}
	if result.Goodbye {
		s.disconnect(nil)
	}
}

func (s *Stream) disconnect(cause error) {
	s.writeMu.Lock()
	conn := s.conn
	s.conn = nil
	s.writeMu.Unlock()

	if conn != nil {
		conn.Close()
	}
	s.connected.Store(false)
	s.ready.Store(false)

	switch {
	case cause == nil:
		s.cfg.Logger.Info("vgastream: client sent goodbye")
	case netutil.IsExpectedCloseError(cause):
		s.cfg.Logger.Info("vgastream: client disconnected")
	default:
		s.cfg.Logger.Warn("vgastream: client connection error", slog.Any("error", cause))
	}
}

// sendControl sends a CONTROL frame, logging (not propagating) any
// write failure — per the error-handling design, no network fault may
// escape to the vsync caller.
func (s *Stream) sendControl(payload []byte) {
	if err := s.writeFrame(wire.Frame{Channel: wire.ChannelControl, Payload: payload}); err != nil {
		s.cfg.Logger.Warn("vgastream: control write failed", slog.Any("error", err))
	}
}

// writeFrame serializes concurrent writers (the vsync goroutine and the
// I/O goroutine both send CONTROL/TEXT_OUT frames) behind one mutex, so
// a frame's header and payload are never interleaved with another
// frame's bytes.
func (s *Stream) writeFrame(frame wire.Frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.conn == nil {
		return nil
	}
	return wire.Write(s.conn, frame)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func removeStaleSocket(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
