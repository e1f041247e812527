// ABOUTME: ffmpeg-backed decoder for containers without a native decoder
// ABOUTME: Probes the stream with ffprobe and converts it to raw float PCM
package decode

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
)

const codecFFmpeg = "ffmpeg"

// DefaultFFmpegTimeout bounds a single probe or conversion
const DefaultFFmpegTimeout = 2 * time.Minute

// FFmpegDecoder shells out to ffmpeg for WebM, MP4, AAC and similar containers
type FFmpegDecoder struct {
	ffmpegPath  string
	ffprobePath string
	Timeout     time.Duration
}

// NewFFmpeg creates an ffmpeg decoder. An empty path looks ffmpeg and
// ffprobe up on PATH; otherwise ffprobe is expected next to ffmpeg.
func NewFFmpeg(path string) *FFmpegDecoder {
	d := &FFmpegDecoder{
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
		Timeout:     DefaultFFmpegTimeout,
	}
	if path != "" {
		d.ffmpegPath = path
		d.ffprobePath = filepath.Join(filepath.Dir(path), "ffprobe")
	}
	return d
}

type probeResult struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// Decode writes the payload to a temporary file and converts it with ffmpeg.
// A temporary file is used because MP4 containers are not seekable on a pipe.
func (d *FFmpegDecoder) Decode(data []byte) (*audio.Decoded, error) {
	codec := Detect(data)
	if codec == "" {
		codec = codecFFmpeg
	}
	if len(data) == 0 {
		return nil, decodeErr(codec, ErrEmpty)
	}

	ffmpeg, err := exec.LookPath(d.ffmpegPath)
	if err != nil {
		return nil, decodeErr(codec, fmt.Errorf("ffmpeg not found: %w", err))
	}
	ffprobe, err := exec.LookPath(d.ffprobePath)
	if err != nil {
		return nil, decodeErr(codec, fmt.Errorf("ffprobe not found: %w", err))
	}

	tmp, err := os.CreateTemp("", "scribe-decode-*")
	if err != nil {
		return nil, decodeErr(codec, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, decodeErr(codec, fmt.Errorf("failed to write temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return nil, decodeErr(codec, err)
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultFFmpegTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sampleRate, channels, err := probe(ctx, ffprobe, tmp.Name())
	if err != nil {
		return nil, decodeErr(codec, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffmpeg,
		"-hide_banner",
		"-loglevel", "error",
		"-i", tmp.Name(),
		"-vn",
		"-f", "f32le",
		"-acodec", "pcm_f32le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, decodeErr(codec, fmt.Errorf("ffmpeg failed: %w: %s", err, bytes.TrimSpace(stderr.Bytes())))
	}

	raw := stdout.Bytes()
	interleaved := make([]float32, len(raw)/4)
	for i := range interleaved {
		interleaved[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}

	return finish(codec, audio.Deinterleave(interleaved, sampleRate, channels))
}

// Close releases decoder resources
func (d *FFmpegDecoder) Close() error {
	return nil
}

func probe(ctx context.Context, ffprobe, path string) (int, int, error) {
	out, err := exec.CommandContext(ctx, ffprobe,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_type,sample_rate,channels",
		"-of", "json",
		path).Output()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbe(out)
}

func parseProbe(out []byte) (int, int, error) {
	var result probeResult
	if err := json.Unmarshal(out, &result); err != nil {
		return 0, 0, fmt.Errorf("invalid ffprobe output: %w", err)
	}
	for _, s := range result.Streams {
		if s.CodecType != "" && s.CodecType != "audio" {
			continue
		}
		rate, err := strconv.Atoi(s.SampleRate)
		if err != nil || rate <= 0 {
			return 0, 0, fmt.Errorf("invalid sample rate %q", s.SampleRate)
		}
		if s.Channels <= 0 {
			return 0, 0, fmt.Errorf("invalid channel count %d", s.Channels)
		}
		return rate, s.Channels, nil
	}
	return 0, 0, errors.New("no audio stream found")
}
