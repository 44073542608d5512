// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	cases := []Frame{
		{Channel: ChannelControl, Payload: nil},
		{Channel: ChannelTextOut, Payload: []byte("hello")},
		{Channel: ChannelKeyboardIn, Payload: bytes.Repeat([]byte{0x41}, 1000)},
	}
	for _, want := range cases {
		var buf bytes.Buffer
		if err := Write(&buf, want); err != nil {
			t.Fatalf("Write: %v", err)
		}
		got, err := Read(&buf)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if got.Channel != want.Channel {
			t.Errorf("channel = %v, want %v", got.Channel, want.Channel)
		}
		if !bytes.Equal(got.Payload, want.Payload) {
			t.Errorf("payload = %v, want %v", got.Payload, want.Payload)
		}
	}
}

func TestWriteRejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer
	frame := Frame{Channel: ChannelTextOut, Payload: make([]byte, MaxPayloadLength+1)}
	if err := Write(&buf, frame); !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("Write = %v, want ErrFrameTooLarge", err)
	}
	if buf.Len() != 0 {
		t.Errorf("oversized frame should not write any bytes, got %d", buf.Len())
	}
}

func TestReadShortHeaderFails(t *testing.T) {
	buf := bytes.NewReader([]byte{0x01, 0x00})
	if _, err := Read(buf); err == nil {
		t.Fatal("Read with truncated header should fail")
	}
}

func TestReadShortPayloadFails(t *testing.T) {
	buf := bytes.NewReader([]byte{0x01, 0x00, 0x00, 0x05, 'a', 'b'})
	if _, err := Read(buf); err == nil {
		t.Fatal("Read with truncated payload should fail")
	}
}

func TestReadEOFAtHeaderBoundary(t *testing.T) {
	buf := bytes.NewReader(nil)
	if _, err := Read(buf); !errors.Is(err, io.EOF) {
		t.Fatalf("Read on empty stream = %v, want io.EOF", err)
	}
}

func TestHeaderEncodesLengthBigEndian24(t *testing.T) {
	var buf bytes.Buffer
	payload := make([]byte, 0x10203)
	if err := Write(&buf, Frame{Channel: ChannelTextOut, Payload: payload}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	header := buf.Bytes()[:4]
	want := []byte{byte(ChannelTextOut), 0x01, 0x02, 0x03}
	if !bytes.Equal(header, want) {
		t.Errorf("header = %v, want %v", header, want)
	}
}
