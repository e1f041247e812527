// ABOUTME: Sample conversion helpers
// ABOUTME: Converts between float samples, 16-bit PCM and packed 24-bit PCM
package audio

import "math"

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// FloatToInt16 converts a float sample to signed 16-bit PCM.
// The sample is clamped to [-1, 1]; negative values scale by 32768 and
// non-negative values by 32767, then truncate toward zero.
func FloatToInt16(sample float32) int16 {
	if sample != sample { // NaN
		return 0
	}
	s := math.Max(-1, math.Min(1, float64(sample)))
	if s < 0 {
		return int16(s * 0x8000)
	}
	return int16(s * 0x7FFF)
}

// Int16ToFloat converts signed 16-bit PCM to a float sample in [-1, 1).
// Re-encoding with FloatToInt16 reproduces the input within one step.
func Int16ToFloat(sample int16) float32 {
	return float32(sample) / 0x8000
}

// IntToFloat scales a signed integer sample of the given bit depth to [-1, 1]
func IntToFloat(sample int32, bitDepth int) float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		return 0
	}
	full := float64(int64(1) << uint(bitDepth-1))
	return float32(float64(sample) / full)
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}
