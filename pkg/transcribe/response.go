// ABOUTME: Transcription response parsing
// ABOUTME: Picks the best available text from the service's response shapes
package transcribe

import "encoding/json"

// Response is the transcription service reply
type Response struct {
	RawTranscription       string    `json:"raw_transcription"`
	FormattedTranscription Formatted `json:"formatted_transcription"`
}

// Formatted holds the formatted transcription. Text is either a plain
// string or an object with text and raw_text fields.
type Formatted struct {
	Text json.RawMessage `json:"text"`
}

type formattedText struct {
	Text    string `json:"text"`
	RawText string `json:"raw_text"`
}

// Text returns the formatted text when present, otherwise the raw transcription
func (r *Response) Text() string {
	if r == nil {
		return ""
	}

	raw := r.FormattedTranscription.Text
	if len(raw) > 0 {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s != "" {
				return s
			}
		} else {
			var obj formattedText
			if err := json.Unmarshal(raw, &obj); err == nil {
				if obj.Text != "" {
					return obj.Text
				}
				if obj.RawText != "" {
					return obj.RawText
				}
			}
		}
	}
	return r.RawTranscription
}
