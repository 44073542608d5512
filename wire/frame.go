// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire implements the channel-multiplexed frame protocol that
// carries text output, keyboard and mouse input, and control messages
// over a single stream-socket connection.
//
//   - frame.go: frame header constants and Read/Write helpers
//   - channel.go: channel ID constants
//
// Every frame is [channel:1][length:3 big-endian][payload:length]. A
// single mutex-style discipline at the caller level (see [stream.Stream])
// keeps concurrent writers from interleaving header and payload bytes.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// headerLength is the fixed size of a frame header: 1 byte channel + 3
// bytes big-endian payload length.
const headerLength = 4

// MaxPayloadLength is the largest payload a frame can carry: 2^24-1
// bytes, the limit of the 3-byte length field.
const MaxPayloadLength = 1<<24 - 1

// Frame is a single channel-tagged message on the wire.
type Frame struct {
	Channel Channel
	Payload []byte
}

// ErrFrameTooLarge is returned by Write when the payload exceeds
// [MaxPayloadLength]. The caller drops the frame; the next diff cycle
// (for text output) or the next poll (for control traffic) recovers.
var ErrFrameTooLarge = fmt.Errorf("wire: payload exceeds %s", humanize.Bytes(MaxPayloadLength))

// Write encodes frame and writes it to w as a single header, then a
// single payload write. It does not serialize concurrent callers; hold
// an external lock around Write if more than one goroutine may write to
// the same w.
func Write(w io.Writer, frame Frame) error {
	if len(frame.Payload) > MaxPayloadLength {
		return ErrFrameTooLarge
	}
	var header [headerLength]byte
	header[0] = byte(frame.Channel)
	putUint24(header[1:4], uint32(len(frame.Payload)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("wire: write header: %w", err)
	}
	if len(frame.Payload) > 0 {
		if _, err := w.Write(frame.Payload); err != nil {
			return fmt.Errorf("wire: write payload: %w", err)
		}
	}
	return nil
}

// Read reads and returns one frame from r, blocking with full-read
// retry (via io.ReadFull) until the header and declared payload length
// are both satisfied. A short read or EOF at any point fails the frame
// and returns the underlying error unwrapped-comparable via errors.Is.
func Read(r io.Reader) (Frame, error) {
	var header [headerLength]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Frame{}, err
	}
	length := getUint24(header[1:4])
	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Frame{}, fmt.Errorf("wire: read payload: %w", err)
		}
	}
	return Frame{Channel: Channel(header[0]), Payload: payload}, nil
}

func putUint24(b []byte, v uint32) {
	var full [4]byte
	binary.BigEndian.PutUint32(full[:], v)
	copy(b, full[1:4])
}

func getUint24(b []byte) uint32 {
	var full [4]byte
	copy(full[1:4], b)
	return binary.BigEndian.Uint32(full[:])
}
