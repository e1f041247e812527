// ABOUTME: Container sniffing from leading magic bytes
// ABOUTME: Maps payload signatures to codec names
package decode

import "bytes"

// Detect returns the codec name for a payload based on its magic bytes.
// Returns "" when the container is not recognised.
func Detect(data []byte) string {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return CodecWAV
	case bytes.HasPrefix(data, []byte("fLaC")):
		return CodecFLAC
	case bytes.HasPrefix(data, []byte("OggS")):
		if bytes.Contains(data[:min(len(data), 512)], []byte("OpusHead")) {
			return CodecOpus
		}
		return ""
	case bytes.HasPrefix(data, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return CodecWebM
	case len(data) >= 8 && string(data[4:8]) == "ftyp":
		return CodecMP4
	case bytes.HasPrefix(data, []byte("ID3")):
		return CodecMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// MPEG audio frame sync; layer bits of zero mean ADTS AAC
		if (data[1]>>1)&0x03 == 0 {
			return CodecAAC
		}
		return CodecMP3
	}
	return ""
}
