// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

// vgastream-server is a standalone demo harness for the stream
// package: it drives a Stream with a simulated 80x25 text-mode
// VideoSource (a scrolling banner and a clock) instead of a real
// emulator, so the wire protocol and render pipeline can be exercised
// and a reference client pointed at it without building a full VGA
// emulator.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/moonshot-labs/vgastream/keyboard"
	"github.com/moonshot-labs/vgastream/lib/config"
	"github.com/moonshot-labs/vgastream/stream"
	"github.com/moonshot-labs/vgastream/wire"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vgastream-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		socketPath string
		logLevel   string
		showVer    bool
	)

	flagSet := pflag.NewFlagSet("vgastream-server", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", os.Getenv("VGASTREAM_CONFIG"), "path to vgastream.yaml config file")
	flagSet.StringVar(&socketPath, "socket", "", "override the configured primary socket path")
	flagSet.StringVar(&logLevel, "log-level", "", "override the configured log level")
	flagSet.BoolVar(&showVer, "version", false, "print version and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	if showVer {
		fmt.Println("vgastream-server (demo harness)")
		return nil
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if socketPath != "" {
		cfg.Socket.Path = socketPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.Log.Level)}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	video := newDemoSource()
	keys := keyboard.NewRing(cfg.Input.KeyRingSize)

	s := stream.New(stream.Config{
		SocketPath:         cfg.Socket.Path,
		BulkPath:           cfg.Socket.BulkPath,
		ServerCapabilities: []wire.Capability{wire.CapTextOutput, wire.CapKeyboardInput, wire.CapMouseInput},
		Logger:             logger,
	}, video, keys)

	if err := s.Listen(); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer s.Close()

	logger.Info("vgastream-server running", "socket", cfg.Socket.Path, "target_fps", cfg.Render.TargetFPS)

	ticker := time.NewTicker(time.Second / time.Duration(max(cfg.Render.TargetFPS, 1)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case tick := <-ticker.C:
			video.advance(tick)
			s.OnVSync()
			for _, code := range keys.Drain() {
				logger.Debug("vgastream-server: key injected", slog.String("code", fmt.Sprintf("%#04x", code)))
			}
		}
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
