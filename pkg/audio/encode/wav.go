// ABOUTME: WAV container encoder
// ABOUTME: Writes the 44-byte header and interleaved 16-bit PCM samples
package encode

import (
	"encoding/binary"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
)

const (
	// HeaderSize is the size of the canonical WAV header in bytes
	HeaderSize = 44

	bitsPerSample  = 16
	bytesPerSample = bitsPerSample / 8
	formatPCM      = 1
	fmtChunkSize   = 16
)

// WAVSize returns the encoded size for the given number of frames and channels
func WAVSize(frames, channels int) int {
	return HeaderSize + frames*channels*bytesPerSample
}

// WAVHeader builds the canonical 44-byte header for 16-bit PCM data
func WAVHeader(sampleRate, channels, frames int) []byte {
	dataSize := frames * channels * bytesPerSample
	header := make([]byte, HeaderSize)
	putHeader(header, sampleRate, channels, dataSize)
	return header
}

// putHeader writes header fields into buf[0:44]
func putHeader(buf []byte, sampleRate, channels, dataSize int) {
	blockAlign := channels * bytesPerSample
	byteRate := sampleRate * blockAlign

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(HeaderSize+dataSize-8))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(buf[20:22], formatPCM)
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))
}

// WAV encodes decoded audio into the canonical container.
// Frames are written in order, channels interleaved within each frame.
// A channel shorter than the first one is padded with silence.
func WAV(d *audio.Decoded) []byte {
	frames := d.Frames()
	channels := d.ChannelCount()

	out := make([]byte, WAVSize(frames, channels))
	putHeader(out, d.SampleRate, channels, frames*channels*bytesPerSample)

	offset := HeaderSize
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			var sample float32
			if i < len(d.Channels[ch]) {
				sample = d.Channels[ch][i]
			}
			binary.LittleEndian.PutUint16(out[offset:], uint16(audio.FloatToInt16(sample)))
			offset += bytesPerSample
		}
	}

	return out
}

// PCM16 converts float samples to little-endian 16-bit PCM bytes
func PCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*bytesPerSample)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(out[i*bytesPerSample:], uint16(audio.FloatToInt16(sample)))
	}
	return out
}
