// ABOUTME: YAML configuration loading and validation
// ABOUTME: Decodes config files over the defaults and reports every invalid field
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Backends lists the supported capture backends
var Backends = []string{BackendMalgo, BackendPortAudio, BackendFFmpeg}

// Load reads the YAML configuration file at path and returns a validated [Config].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over [Default] and validates the result.
// Unknown keys are rejected.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// API
	if cfg.API.URL == "" && !cfg.API.Discover {
		errs = append(errs, errors.New("api.url is required unless api.discover is enabled"))
	}
	if cfg.API.URL != "" {
		if u, err := url.Parse(cfg.API.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("api.url %q is not an absolute URL", cfg.API.URL))
		}
	}
	if cfg.API.Retries < 0 {
		errs = append(errs, fmt.Errorf("api.retries %d must not be negative", cfg.API.Retries))
	}
	if cfg.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout %v must not be negative", cfg.API.Timeout))
	}

	// Capture
	if !slices.Contains(Backends, cfg.Capture.Backend) {
		errs = append(errs, fmt.Errorf("capture.backend %q is invalid; valid values: malgo, portaudio, ffmpeg", cfg.Capture.Backend))
	}
	if cfg.Capture.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("capture.sample_rate %d must be positive", cfg.Capture.SampleRate))
	}
	if cfg.Capture.Channels < 1 || cfg.Capture.Channels > 2 {
		errs = append(errs, fmt.Errorf("capture.channels %d is out of range [1, 2]", cfg.Capture.Channels))
	}
	if cfg.Capture.MaxDuration < 0 {
		errs = append(errs, fmt.Errorf("capture.max_duration %v must not be negative", cfg.Capture.MaxDuration))
	}

	// Normalize
	if cfg.Normalize.TargetSampleRate < 0 {
		errs = append(errs, fmt.Errorf("normalize.target_sample_rate %d must not be negative", cfg.Normalize.TargetSampleRate))
	}

	return errors.Join(errs...)
}
