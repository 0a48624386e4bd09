// Package config loads decoder tuning parameters from JSON. Fields are
// pointers so partial configs are safe: anything omitted falls back to the
// Get* defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DecoderConfig is the tuning surface for the DTMF decoder. The same JSON
// shape is used for the daemon config file and the dev-mode overrides.
type DecoderConfig struct {
	// Frequency is the rtl_fm tuning frequency in MHz, e.g. "147.575".
	Frequency *string `json:"frequency,omitempty"`

	// ChunkBytes is the audio chunk size in bytes (two bytes per sample).
	// Must be even.
	ChunkBytes *int `json:"chunk_bytes,omitempty"`

	// SampleRate is the demodulated audio rate in Hz.
	SampleRate *int `json:"sample_rate,omitempty"`

	// SNRThreshold gates tone detection.
	SNRThreshold *int `json:"snr_threshold,omitempty"`

	// EnableSequence turns on command-sequence accumulation.
	EnableSequence *bool `json:"enable_sequence,omitempty"`

	// CodeTimeout is the maximum gap between keypresses in one sequence,
	// as a duration string like "10s".
	CodeTimeout *string `json:"code_timeout,omitempty"`

	// Terminator is the single keypad symbol that completes a sequence.
	Terminator *string `json:"terminator,omitempty"`

	// KillCode is the sequence that shuts the decoder down, e.g. "999".
	KillCode *string `json:"kill_code,omitempty"`

	// ReadTimeout bounds a single chunk read, as a duration string.
	// "0s" blocks indefinitely.
	ReadTimeout *string `json:"read_timeout,omitempty"`

	// SerialPort selects the serial PCM source instead of rtl_fm when set.
	SerialPort *string `json:"serial_port,omitempty"`

	// SerialBaud is the serial source baud rate.
	SerialBaud *int `json:"serial_baud,omitempty"`
}

// Helper functions to create pointers
func ptrInt(v int) *int          { return &v }
func ptrBool(v bool) *bool       { return &v }
func ptrString(v string) *string { return &v }

// DefaultDecoderConfig returns a config populated with the stock tuning
// values.
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		ChunkBytes:     ptrInt(3600),
		SampleRate:     ptrInt(24000),
		SNRThreshold:   ptrInt(9),
		EnableSequence: ptrBool(false),
		CodeTimeout:    ptrString("10s"),
		Terminator:     ptrString("#"),
		KillCode:       ptrString(""),
		ReadTimeout:    ptrString("0s"),
	}
}

// LoadDecoderConfig loads a DecoderConfig from a JSON file. Fields omitted
// from the file retain their defaults, so partial configs are safe.
func LoadDecoderConfig(path string) (*DecoderConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &DecoderConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable. Band-geometry
// validation (chunk size vs sample rate) belongs to the engine, which owns
// that computation.
func (c *DecoderConfig) Validate() error {
	if c.ChunkBytes != nil {
		if *c.ChunkBytes <= 0 || *c.ChunkBytes%2 != 0 {
			return fmt.Errorf("chunk_bytes must be a positive even number, got %d", *c.ChunkBytes)
		}
	}

	if c.SampleRate != nil && *c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", *c.SampleRate)
	}

	if c.SNRThreshold != nil && *c.SNRThreshold < 0 {
		return fmt.Errorf("snr_threshold must be non-negative, got %d", *c.SNRThreshold)
	}

	if c.Terminator != nil && len(*c.Terminator) > 1 {
		return fmt.Errorf("terminator must be a single symbol, got %q", *c.Terminator)
	}

	if c.CodeTimeout != nil && *c.CodeTimeout != "" {
		if _, err := time.ParseDuration(*c.CodeTimeout); err != nil {
			return fmt.Errorf("invalid code_timeout '%s': %w", *c.CodeTimeout, err)
		}
	}

	if c.ReadTimeout != nil && *c.ReadTimeout != "" {
		if _, err := time.ParseDuration(*c.ReadTimeout); err != nil {
			return fmt.Errorf("invalid read_timeout '%s': %w", *c.ReadTimeout, err)
		}
	}

	if c.SerialBaud != nil && *c.SerialBaud <= 0 {
		return fmt.Errorf("serial_baud must be positive, got %d", *c.SerialBaud)
	}

	return nil
}

// GetFrequency returns the tuning frequency, empty when unset.
func (c *DecoderConfig) GetFrequency() string {
	if c.Frequency == nil {
		return ""
	}
	return *c.Frequency
}

// GetChunkBytes returns the chunk_bytes value or the default.
func (c *DecoderConfig) GetChunkBytes() int {
	if c.ChunkBytes == nil {
		return 3600
	}
	return *c.ChunkBytes
}

// GetSampleRate returns the sample_rate value or the default.
func (c *DecoderConfig) GetSampleRate() int {
	if c.SampleRate == nil {
		return 24000
	}
	return *c.SampleRate
}

// GetSNRThreshold returns the snr_threshold value or the default.
func (c *DecoderConfig) GetSNRThreshold() int {
	if c.SNRThreshold == nil {
		return 9
	}
	return *c.SNRThreshold
}

// GetEnableSequence returns the enable_sequence value or the default.
func (c *DecoderConfig) GetEnableSequence() bool {
	if c.EnableSequence == nil {
		return false
	}
	return *c.EnableSequence
}

// GetCodeTimeout parses and returns the CodeTimeout as a time.Duration.
func (c *DecoderConfig) GetCodeTimeout() time.Duration {
	if c.CodeTimeout == nil || *c.CodeTimeout == "" {
		return 10 * time.Second
	}
	d, err := time.ParseDuration(*c.CodeTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetTerminator returns the terminator symbol, zero when unset.
func (c *DecoderConfig) GetTerminator() byte {
	if c.Terminator == nil || *c.Terminator == "" {
		return '#'
	}
	return (*c.Terminator)[0]
}

// GetKillCode returns the kill_code value or the default (disabled).
func (c *DecoderConfig) GetKillCode() string {
	if c.KillCode == nil {
		return ""
	}
	return *c.KillCode
}

// GetReadTimeout parses and returns the ReadTimeout as a time.Duration.
func (c *DecoderConfig) GetReadTimeout() time.Duration {
	if c.ReadTimeout == nil || *c.ReadTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(*c.ReadTimeout)
	if err != nil {
		return 0
	}
	return d
}

// GetSerialPort returns the serial device path, empty when rtl_fm is used.
func (c *DecoderConfig) GetSerialPort() string {
	if c.SerialPort == nil {
		return ""
	}
	return *c.SerialPort
}

// GetSerialBaud returns the serial_baud value or the default.
func (c *DecoderConfig) GetSerialBaud() int {
	if c.SerialBaud == nil {
		return 115200
	}
	return *c.SerialBaud
}
