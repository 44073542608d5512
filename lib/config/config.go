// Copyright 2026 The VGAStream Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// Environment selects which of a config file's override sections, if
// any, is applied on top of its base values.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Config is the complete configuration for a vgastream server.
type Config struct {
	Environment Environment `yaml:"environment"`

	// Socket configures the Unix-domain socket(s) the stream listens on.
	Socket SocketConfig `yaml:"socket"`

	// Render configures the snapshot/render loop's pacing and fallback behavior.
	Render RenderConfig `yaml:"render"`

	// Input configures the keyboard/mouse ingestion path.
	Input InputConfig `yaml:"input"`

	// Log configures structured log output.
	Log LogConfig `yaml:"log"`

	// Development, Staging, and Production each patch the base config
	// above when Environment selects them; see applyEnvironmentOverrides.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides holds the subset of Config an environment section may
// patch. A nil field leaves its corresponding Config section untouched;
// a non-nil field's own zero-valued subfields are likewise left alone
// (see each type's mergeInto).
type ConfigOverrides struct {
	Socket *SocketConfig `yaml:"socket,omitempty"`
	Render *RenderConfig `yaml:"render,omitempty"`
	Input  *InputConfig  `yaml:"input,omitempty"`
	Log    *LogConfig    `yaml:"log,omitempty"`
}

// SocketConfig configures the Unix-domain sockets a stream binds.
type SocketConfig struct {
	// Path is the primary socket carrying CONTROL, TEXT_OUT, KEYBOARD_IN,
	// and MOUSE_IN frames.
	// Default: /run/vgastream/display.sock
	Path string `yaml:"path"`

	// BulkPath is a reserved secondary socket path for future
	// graphics/audio channels. It is never bound in this version; see
	// DESIGN.md for why no component uses it yet.
	BulkPath string `yaml:"bulk_path"`
}

func (o *SocketConfig) mergeInto(c *SocketConfig) {
	if o.Path != "" {
		c.Path = o.Path
	}
	if o.BulkPath != "" {
		c.BulkPath = o.BulkPath
	}
}

func (s SocketConfig) validate() error {
	if s.Path == "" {
		return errors.New("socket.path is required")
	}
	return nil
}

// RenderConfig configures the snapshot/render loop.
type RenderConfig struct {
	// ForceFullRefreshInterval is loaded and validated (it must be
	// positive) but is not passed to the stream: the renderer always
	// uses render.ForceFullRefreshInterval (120 ticks), whatever this
	// value is.
	// Default: 120
	ForceFullRefreshInterval int `yaml:"force_full_refresh_interval"`

	// TargetFPS is advisory: it documents the rate at which the host
	// application is expected to call OnVSync. The stream itself never
	// schedules a ticker; the demo server (cmd/vgastream-server) uses
	// this value to pace its own vsync ticker.
	// Default: 60
	TargetFPS int `yaml:"target_fps"`
}

func (o *RenderConfig) mergeInto(c *RenderConfig) {
	if o.ForceFullRefreshInterval != 0 {
		c.ForceFullRefreshInterval = o.ForceFullRefreshInterval
	}
	if o.TargetFPS != 0 {
		c.TargetFPS = o.TargetFPS
	}
}

func (r RenderConfig) validate() error {
	if r.ForceFullRefreshInterval <= 0 {
		return errors.New("render.force_full_refresh_interval must be positive")
	}
	return nil
}

// InputConfig configures keyboard/mouse ingestion.
type InputConfig struct {
	// KeyRingSize bounds the number of pending injected keycodes a host
	// application's consumer may buffer before it must drain them.
	// Default: 256
	KeyRingSize int `yaml:"key_ring_size"`

	// MouseRingSize is reserved for a future mouse-event ring buffer;
	// MOUSE_IN frames are accepted on the wire but currently dropped
	// with no sink. See DESIGN.md.
	// Default: 64
	MouseRingSize int `yaml:"mouse_ring_size"`
}

func (o *InputConfig) mergeInto(c *InputConfig) {
	if o.KeyRingSize != 0 {
		c.KeyRingSize = o.KeyRingSize
	}
	if o.MouseRingSize != 0 {
		c.MouseRingSize = o.MouseRingSize
	}
}

func (i InputConfig) validate() error {
	if i.KeyRingSize <= 0 {
		return errors.New("input.key_ring_size must be positive")
	}
	return nil
}

// LogConfig configures structured log output.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: info
	Level string `yaml:"level"`
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

func (o *LogConfig) mergeInto(c *LogConfig) {
	if o.Level != "" {
		c.Level = o.Level
	}
}

func (l LogConfig) validate() error {
	if !slices.Contains(validLogLevels, l.Level) {
		return fmt.Errorf("log.level must be one of: %v", validLogLevels)
	}
	return nil
}

// Default returns the configuration every Config starts from before a
// file is read, giving every field a sane value. Load and LoadFile both
// require a file; a caller with no file (such as cmd/vgastream-server
// without --config) can use Default on its own.
func Default() *Config {
	return &Config{
		Environment: Development,
		Socket: SocketConfig{
			Path:     "/run/vgastream/display.sock",
			BulkPath: "/run/vgastream/bulk.sock",
		},
		Render: RenderConfig{
			ForceFullRefreshInterval: 120,
			TargetFPS:                60,
		},
		Input: InputConfig{
			KeyRingSize:   256,
			MouseRingSize: 64,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the file named by the VGASTREAM_CONFIG environment
// variable. It is an error for that variable to be unset — there is no
// implicit search path, so a caller that wants a specific file should
// use LoadFile directly instead of setting the environment just to call
// Load.
func Load() (*Config, error) {
	path, ok := os.LookupEnv("VGASTREAM_CONFIG")
	if !ok || path == "" {
		return nil, fmt.Errorf("VGASTREAM_CONFIG environment variable not set; " +
			"set it to the path of your vgastream.yaml config file, or use --config flag")
	}
	return LoadFile(path)
}

// LoadFile reads path as YAML on top of Default, applies the
// environment section matching the result's Environment, and expands
// ${VAR} references in socket paths. Environment variables never
// override values the file sets explicitly.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	return cfg, nil
}

// applyEnvironmentOverrides patches the base config with the section
// matching c.Environment. Production gets a quieter default log level
// when the file carries no explicit production section at all.
func (c *Config) applyEnvironmentOverrides() {
	overrides := c.selectedOverrides()
	if overrides == nil {
		return
	}
	if overrides.Socket != nil {
		overrides.Socket.mergeInto(&c.Socket)
	}
	if overrides.Render != nil {
		overrides.Render.mergeInto(&c.Render)
	}
	if overrides.Input != nil {
		overrides.Input.mergeInto(&c.Input)
	}
	if overrides.Log != nil {
		overrides.Log.mergeInto(&c.Log)
	}
}

func (c *Config) selectedOverrides() *ConfigOverrides {
	switch c.Environment {
	case Development:
		return c.Development
	case Staging:
		return c.Staging
	case Production:
		if c.Production != nil {
			return c.Production
		}
		return &ConfigOverrides{Log: &LogConfig{Level: "warn"}}
	default:
		return nil
	}
}

// varRef matches ${NAME} and ${NAME:-default}.
var varRef = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVariables resolves ${VAR} references in every socket path,
// consulting os.Getenv for anything not already in the config.
func (c *Config) expandVariables() {
	vars := map[string]string{"HOME": os.Getenv("HOME")}
	c.Socket.Path = expandVars(c.Socket.Path, vars)
	c.Socket.BulkPath = expandVars(c.Socket.BulkPath, vars)
}

// expandVars replaces each ${NAME} or ${NAME:-default} reference in s:
// first by looking NAME up in vars, then in the process environment,
// then falling back to the literal default (empty string if none was
// given). It walks varRef's matches in a single pass rather than
// re-matching each substring, so a reference can't be misparsed twice.
func expandVars(s string, vars map[string]string) string {
	matches := varRef.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}

	var out []byte
	last := 0
	for _, m := range matches {
		out = append(out, s[last:m[0]]...)
		name := s[m[2]:m[3]]
		hasDefault := m[4] >= 0
		var fallback string
		if hasDefault {
			fallback = s[m[4]:m[5]]
		}
		out = append(out, resolveVar(name, fallback, vars)...)
		last = m[1]
	}
	out = append(out, s[last:]...)
	return string(out)
}

func resolveVar(name, fallback string, vars map[string]string) string {
	if value, ok := vars[name]; ok && value != "" {
		return value
	}
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// Validate aggregates every rule each section defines for itself: an
// invalid environment name, an empty socket path, a non-positive
// render interval or key-ring size, or an unrecognized log level. A
// section's own validate method is the single place that knows what
// makes it valid, so adding a rule to one section never means editing
// this function.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateEnvironment(),
		c.Socket.validate(),
		c.Render.validate(),
		c.Input.validate(),
		c.Log.validate(),
	)
}

func (c *Config) validateEnvironment() error {
	switch c.Environment {
	case Development, Staging, Production:
		return nil
	default:
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}
}
