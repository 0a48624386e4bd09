package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultDecoderConfig(t *testing.T) {
	cfg := DefaultDecoderConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.GetChunkBytes() != 3600 {
		t.Errorf("GetChunkBytes() = %d", cfg.GetChunkBytes())
	}
	if cfg.GetSampleRate() != 24000 {
		t.Errorf("GetSampleRate() = %d", cfg.GetSampleRate())
	}
	if cfg.GetSNRThreshold() != 9 {
		t.Errorf("GetSNRThreshold() = %d", cfg.GetSNRThreshold())
	}
	if cfg.GetEnableSequence() {
		t.Error("sequence mode on by default")
	}
	if cfg.GetCodeTimeout() != 10*time.Second {
		t.Errorf("GetCodeTimeout() = %v", cfg.GetCodeTimeout())
	}
	if cfg.GetTerminator() != '#' {
		t.Errorf("GetTerminator() = %q", cfg.GetTerminator())
	}
	if cfg.GetKillCode() != "" {
		t.Errorf("GetKillCode() = %q", cfg.GetKillCode())
	}
	if cfg.GetReadTimeout() != 0 {
		t.Errorf("GetReadTimeout() = %v", cfg.GetReadTimeout())
	}
	if cfg.GetSerialPort() != "" || cfg.GetSerialBaud() != 115200 {
		t.Errorf("serial defaults = %q, %d", cfg.GetSerialPort(), cfg.GetSerialBaud())
	}
}

func TestGettersOnEmptyConfig(t *testing.T) {
	cfg := &DecoderConfig{}
	if cfg.GetFrequency() != "" {
		t.Errorf("GetFrequency() = %q", cfg.GetFrequency())
	}
	if cfg.GetChunkBytes() != 3600 || cfg.GetSampleRate() != 24000 {
		t.Errorf("geometry defaults = %d, %d", cfg.GetChunkBytes(), cfg.GetSampleRate())
	}
	if cfg.GetTerminator() != '#' {
		t.Errorf("GetTerminator() = %q", cfg.GetTerminator())
	}
	if cfg.GetCodeTimeout() != 10*time.Second {
		t.Errorf("GetCodeTimeout() = %v", cfg.GetCodeTimeout())
	}
}

func TestLoadDecoderConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decoder.json")
	body := `{
		"frequency": "147.575",
		"snr_threshold": 12,
		"enable_sequence": true,
		"code_timeout": "5s",
		"kill_code": "999"
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadDecoderConfig(path)
	if err != nil {
		t.Fatalf("LoadDecoderConfig: %v", err)
	}
	if cfg.GetFrequency() != "147.575" {
		t.Errorf("GetFrequency() = %q", cfg.GetFrequency())
	}
	if cfg.GetSNRThreshold() != 12 {
		t.Errorf("GetSNRThreshold() = %d", cfg.GetSNRThreshold())
	}
	if !cfg.GetEnableSequence() {
		t.Error("enable_sequence not loaded")
	}
	if cfg.GetCodeTimeout() != 5*time.Second {
		t.Errorf("GetCodeTimeout() = %v", cfg.GetCodeTimeout())
	}
	if cfg.GetKillCode() != "999" {
		t.Errorf("GetKillCode() = %q", cfg.GetKillCode())
	}

	// omitted fields keep their defaults
	if cfg.GetChunkBytes() != 3600 || cfg.GetSampleRate() != 24000 {
		t.Errorf("geometry = %d, %d", cfg.GetChunkBytes(), cfg.GetSampleRate())
	}
}

func TestLoadDecoderConfigErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadDecoderConfig(filepath.Join(dir, "decoder.yaml")); err == nil {
		t.Error("non-JSON extension accepted")
	}
	if _, err := LoadDecoderConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing file accepted")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDecoderConfig(bad); err == nil {
		t.Error("malformed JSON accepted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     DecoderConfig
		wantErr bool
	}{
		{"empty", DecoderConfig{}, false},
		{"odd chunk", DecoderConfig{ChunkBytes: ptrInt(3601)}, true},
		{"negative chunk", DecoderConfig{ChunkBytes: ptrInt(-2)}, true},
		{"zero rate", DecoderConfig{SampleRate: ptrInt(0)}, true},
		{"negative threshold", DecoderConfig{SNRThreshold: ptrInt(-1)}, true},
		{"multi-byte terminator", DecoderConfig{Terminator: ptrString("##")}, true},
		{"empty terminator", DecoderConfig{Terminator: ptrString("")}, false},
		{"bad code timeout", DecoderConfig{CodeTimeout: ptrString("ten seconds")}, true},
		{"bad read timeout", DecoderConfig{ReadTimeout: ptrString("-")}, true},
		{"zero baud", DecoderConfig{SerialBaud: ptrInt(0)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBadDurationsFallBackToDefaults(t *testing.T) {
	cfg := &DecoderConfig{
		CodeTimeout: ptrString("bogus"),
		ReadTimeout: ptrString("bogus"),
	}
	if cfg.GetCodeTimeout() != 10*time.Second {
		t.Errorf("GetCodeTimeout() = %v", cfg.GetCodeTimeout())
	}
	if cfg.GetReadTimeout() != 0 {
		t.Errorf("GetReadTimeout() = %v", cfg.GetReadTimeout())
	}
}
