// ABOUTME: Configuration schema for the scribe client
// ABOUTME: Defines YAML-backed settings and their defaults
package config

import "time"

// Capture backends
const (
	BackendMalgo     = "malgo"
	BackendPortAudio = "portaudio"
	BackendFFmpeg    = "ffmpeg"
)

// Config is the root configuration
type Config struct {
	API       APIConfig       `yaml:"api"`
	Capture   CaptureConfig   `yaml:"capture"`
	Normalize NormalizeConfig `yaml:"normalize"`
	Output    OutputConfig    `yaml:"output"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	UI        UIConfig        `yaml:"ui"`
}

// APIConfig locates the transcription service
type APIConfig struct {
	// URL is the service base URL
	URL string `yaml:"url"`

	// Discover looks the service up via mDNS first and uses URL only when
	// nothing answers
	Discover bool `yaml:"discover"`

	// DiscoverTimeout bounds the mDNS lookup
	DiscoverTimeout time.Duration `yaml:"discover_timeout"`

	Timeout time.Duration `yaml:"timeout"`
	Retries int           `yaml:"retries"`
}

// CaptureConfig selects and tunes the input device
type CaptureConfig struct {
	Backend     string        `yaml:"backend"`
	SampleRate  int           `yaml:"sample_rate"`
	Channels    int           `yaml:"channels"`
	MaxDuration time.Duration `yaml:"max_duration"`

	// ffmpeg backend settings
	FFmpegPath  string `yaml:"ffmpeg_path"`
	InputFormat string `yaml:"input_format"`
	InputDevice string `yaml:"input_device"`
}

// NormalizeConfig tunes conversion to WAV
type NormalizeConfig struct {
	// TargetSampleRate resamples converted audio; 0 keeps the source rate
	TargetSampleRate int `yaml:"target_sample_rate"`

	// FFmpeg enables the ffmpeg decoder for WebM and MP4
	FFmpeg     bool   `yaml:"ffmpeg"`
	FFmpegPath string `yaml:"ffmpeg_path"`
}

// OutputConfig controls where artifacts are saved
type OutputConfig struct {
	TranscriptPath string `yaml:"transcript_path"`
	ClipPath       string `yaml:"clip_path"`
}

// LogConfig controls log output
type LogConfig struct {
	File string `yaml:"file"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	// Addr serves /metrics when non-empty
	Addr string `yaml:"addr"`
}

// UIConfig controls the terminal interface
type UIConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			URL:             "http://localhost:8000",
			DiscoverTimeout: 3 * time.Second,
			Timeout:         5 * time.Minute,
			Retries:         2,
		},
		Capture: CaptureConfig{
			Backend:    BackendMalgo,
			SampleRate: 44100,
			Channels:   1,
		},
		Normalize: NormalizeConfig{
			FFmpeg: true,
		},
		Output: OutputConfig{
			TranscriptPath: "transcription.txt",
		},
		Log: LogConfig{
			File: "scribe.log",
		},
		UI: UIConfig{
			Enabled: true,
		},
	}
}
