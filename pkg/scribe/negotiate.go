// ABOUTME: Recording container negotiation
// ABOUTME: Picks the best container a device can record from a fixed ladder
package scribe

import "github.com/Resonate-Protocol/scribe-go/pkg/audio"

// Probe answers whether the platform can record a container
type Probe func(mimeType string) bool

// FormatChoice is the container selected for one recording
type FormatChoice struct {
	MimeType       string
	IsCanonicalPCM bool
}

// preferred lists recording containers from most to least preferred
var preferred = []string{
	audio.MimeWAV,
	audio.MimeWebMPCM,
	audio.MimeWebM,
}

// fallbackMime is used when the probe supports none of the preferred containers
const fallbackMime = audio.MimeMP4

// SelectFormat returns the first preferred container the probe supports.
// It always returns a choice: a nil probe, or one that panics, is treated
// as supporting nothing and yields the MP4 fallback.
func SelectFormat(p Probe) FormatChoice {
	for _, mime := range preferred {
		if supports(p, mime) {
			return FormatChoice{
				MimeType:       mime,
				IsCanonicalPCM: mime == audio.MimeWAV,
			}
		}
	}
	return FormatChoice{MimeType: fallbackMime}
}

func supports(p Probe, mime string) (ok bool) {
	if p == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return p(mime)
}
