// ABOUTME: Tests for configuration loading
// ABOUTME: Tests defaults, overrides, unknown keys and joined validation errors
package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Resonate-Protocol/scribe-go/internal/config"
)

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()
	if err := config.Validate(config.Default()); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestLoadFromReader_Empty(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty config should load defaults, got: %v", err)
	}
	if cfg.Capture.SampleRate != 44100 || cfg.Capture.Channels != 1 {
		t.Errorf("expected default capture 44100/1, got %d/%d", cfg.Capture.SampleRate, cfg.Capture.Channels)
	}
	if cfg.API.URL != "http://localhost:8000" {
		t.Errorf("expected default API URL, got %q", cfg.API.URL)
	}
}

func TestLoadFromReader_OverridesDefaults(t *testing.T) {
	t.Parallel()
	yaml := `
api:
  url: https://stt.example.com
  timeout: 90s
capture:
  backend: ffmpeg
  max_duration: 10m
  input_format: avfoundation
  input_device: ":1"
normalize:
  target_sample_rate: 16000
metrics:
  addr: ":9464"
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.URL != "https://stt.example.com" {
		t.Errorf("api.url = %q", cfg.API.URL)
	}
	if cfg.API.Timeout != 90*time.Second {
		t.Errorf("api.timeout = %v, want 90s", cfg.API.Timeout)
	}
	if cfg.API.Retries != 2 {
		t.Errorf("api.retries default lost, got %d", cfg.API.Retries)
	}
	if cfg.Capture.Backend != config.BackendFFmpeg {
		t.Errorf("capture.backend = %q", cfg.Capture.Backend)
	}
	if cfg.Capture.MaxDuration != 10*time.Minute {
		t.Errorf("capture.max_duration = %v, want 10m", cfg.Capture.MaxDuration)
	}
	if cfg.Capture.SampleRate != 44100 {
		t.Errorf("capture.sample_rate default lost, got %d", cfg.Capture.SampleRate)
	}
	if cfg.Capture.InputDevice != ":1" {
		t.Errorf("capture.input_device = %q", cfg.Capture.InputDevice)
	}
	if cfg.Normalize.TargetSampleRate != 16000 {
		t.Errorf("normalize.target_sample_rate = %d", cfg.Normalize.TargetSampleRate)
	}
	if !cfg.Normalize.FFmpeg {
		t.Error("normalize.ffmpeg default lost")
	}
	if cfg.Metrics.Addr != ":9464" {
		t.Errorf("metrics.addr = %q", cfg.Metrics.Addr)
	}
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	t.Parallel()
	yaml := `
capture:
  sample_rte: 48000
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
	if !strings.Contains(err.Error(), "sample_rte") {
		t.Errorf("error should mention the unknown field, got: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Parallel()
	yaml := `
api:
  url: ""
  retries: -1
capture:
  backend: alsa
  sample_rate: 0
  channels: 6
normalize:
  target_sample_rate: -1
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	for _, want := range []string{
		"api.url is required",
		"api.retries",
		"capture.backend \"alsa\"",
		"capture.sample_rate",
		"capture.channels",
		"normalize.target_sample_rate",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %q, got: %v", want, err)
		}
	}
}

func TestValidate_DiscoverWithoutURL(t *testing.T) {
	t.Parallel()
	yaml := `
api:
  url: ""
  discover: true
`
	if _, err := config.LoadFromReader(strings.NewReader(yaml)); err != nil {
		t.Fatalf("discovery without URL should be valid, got: %v", err)
	}
}

func TestValidate_RelativeURL(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.API.URL = "localhost:8000/api"
	if err := config.Validate(cfg); err == nil {
		t.Fatal("expected error for URL without scheme")
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "scribe.yaml")
	if err := os.WriteFile(path, []byte("ui:\n  enabled: false\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.UI.Enabled {
		t.Error("expected ui.enabled=false from file")
	}

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
