// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

// vgastream-client is a reference terminal client for the stream
// protocol: it dials a server's Unix socket, completes the HELLO
// handshake, copies TEXT_OUT payloads straight to stdout (they are
// already ANSI escape sequences), and forwards raw stdin bytes as
// KEYBOARD_IN frames for the server's keyboard.Parser to decode.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/moonshot-labs/vgastream/wire"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vgastream-client: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var socketPath string
	flagSet := pflag.NewFlagSet("vgastream-client", pflag.ContinueOnError)
	flagSet.StringVar(&socketPath, "socket", "/run/vgastream/display.sock", "server socket path to connect to")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", socketPath, err)
	}
	defer conn.Close()

	serverHello, err := wire.Read(conn)
	if err != nil {
		return fmt.Errorf("reading server hello: %w", err)
	}
	if serverHello.Channel != wire.ChannelControl || wire.ControlOp(serverHello.Payload[0]) != wire.OpHello {
		return fmt.Errorf("unexpected first frame from server: channel %v", serverHello.Channel)
	}

	clientHello := wire.EncodeHello(wire.Hello{
		Version:      wire.ProtocolVersion,
		Capabilities: []wire.Capability{wire.CapTextOutput, wire.CapKeyboardInput},
	})
	if err := wire.Write(conn, wire.Frame{Channel: wire.ChannelControl, Payload: clientHello}); err != nil {
		return fmt.Errorf("sending client hello: %w", err)
	}

	stdinFd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(stdinFd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer term.Restore(stdinFd, oldState)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sendResize(conn)
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	go watchResize(ctx, conn, winch)

	readDone := make(chan error, 1)
	go func() { readDone <- copyFramesToStdout(conn) }()

	writeDone := make(chan error, 1)
	go func() { writeDone <- copyStdinToKeyboard(conn) }()

	select {
	case <-ctx.Done():
		sendGoodbye(conn)
		return nil
	case err := <-readDone:
		return err
	case err := <-writeDone:
		return err
	}
}

// copyFramesToStdout reads frames until the connection closes, writing
// TEXT_OUT payloads straight through (they are already a complete ANSI
// escape stream) and ignoring everything else.
func copyFramesToStdout(conn net.Conn) error {
	for {
		frame, err := wire.Read(conn)
		if err != nil {
			return err
		}
		if frame.Channel != wire.ChannelTextOut {
			continue
		}
		if _, err := os.Stdout.Write(frame.Payload); err != nil {
			return err
		}
	}
}

// copyStdinToKeyboard forwards raw stdin bytes as KEYBOARD_IN frames.
// The server's keyboard.Parser decodes the ANSI input sequences; the
// client does no interpretation of its own.
func copyStdinToKeyboard(conn net.Conn) error {
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			payload := append([]byte(nil), buf[:n]...)
			if writeErr := wire.Write(conn, wire.Frame{Channel: wire.ChannelKeyboardIn, Payload: payload}); writeErr != nil {
				return writeErr
			}
		}
		if err != nil {
			return err
		}
	}
}

func sendResize(conn net.Conn) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return
	}
	payload := wire.EncodeResize(uint16(cols), uint16(rows))
	_ = wire.Write(conn, wire.Frame{Channel: wire.ChannelControl, Payload: payload})
}

func watchResize(ctx context.Context, conn net.Conn, winch <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-winch:
			sendResize(conn)
		}
	}
}

func sendGoodbye(conn net.Conn) {
	_ = wire.Write(conn, wire.Frame{Channel: wire.ChannelControl, Payload: wire.EncodeSimple(wire.OpGoodbye)})
}
