// ABOUTME: HTTP handler for the development transcription server
// ABOUTME: Accepts the multipart upload and echoes facts about the WAV it carries
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/scribe-go/pkg/transcribe"
)

// maxUpload bounds the multipart body held in memory
const maxUpload = 64 << 20

// echoReply mirrors the response shape of the real service
type echoReply struct {
	RawTranscription       string        `json:"raw_transcription"`
	FormattedTranscription echoFormatted `json:"formatted_transcription"`
	Audio                  *audioFacts   `json:"audio,omitempty"`
}

type echoFormatted struct {
	Text string `json:"text"`
}

type audioFacts struct {
	Name       string  `json:"name"`
	Bytes      int     `json:"bytes"`
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Frames     int     `json:"frames"`
	Seconds    float64 `json:"seconds"`
}

type echoHandler struct {
	decoder decode.Decoder
}

func newEchoHandler() *echoHandler {
	return &echoHandler{decoder: decode.NewWAV()}
}

func (h *echoHandler) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+transcribe.Endpoint, h.transcribe)
	return mux
}

func (h *echoHandler) transcribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	file, header, err := r.FormFile(transcribe.FieldName)
	if err != nil {
		http.Error(w, fmt.Sprintf("missing %q part: %v", transcribe.FieldName, err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	decoded, err := h.decoder.Decode(data)
	if err != nil {
		log.Printf("Rejected %s (%d bytes): %v", header.Filename, len(data), err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	facts := &audioFacts{
		Name:       header.Filename,
		Bytes:      len(data),
		SampleRate: decoded.SampleRate,
		Channels:   decoded.ChannelCount(),
		Frames:     decoded.Frames(),
		Seconds:    decoded.Duration().Seconds(),
	}
	text := fmt.Sprintf("Received %s: %.2fs, %d Hz, %d channel(s), %d bytes",
		facts.Name, facts.Seconds, facts.SampleRate, facts.Channels, facts.Bytes)

	log.Printf("%s", text)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(echoReply{
		RawTranscription:       text,
		FormattedTranscription: echoFormatted{Text: text},
		Audio:                  facts,
	}); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
