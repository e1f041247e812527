// ABOUTME: Tests for the echo transcription handler
// ABOUTME: Posts multipart uploads built by the transcribe package
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Resonate-Protocol/scribe-go/pkg/audio"
	"github.com/Resonate-Protocol/scribe-go/pkg/audio/encode"
	"github.com/Resonate-Protocol/scribe-go/pkg/transcribe"
)

func TestEchoTranscribe(t *testing.T) {
	srv := httptest.NewServer(newEchoHandler().routes())
	defer srv.Close()

	wav := encode.WAV(audio.NewDecoded(16000, 2, 32000))
	client := transcribe.NewClient(transcribe.Config{BaseURL: srv.URL, Retries: -1})

	resp, err := client.Transcribe(context.Background(), audio.Clip{
		Data:     wav,
		MimeType: audio.MimeWAV,
		Name:     "memo.wav",
	})
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	text := resp.Text()
	for _, want := range []string{"memo.wav", "2.00s", "16000 Hz", "2 channel(s)"} {
		if !strings.Contains(text, want) {
			t.Errorf("reply %q missing %q", text, want)
		}
	}
}

func TestEchoReplyFacts(t *testing.T) {
	srv := httptest.NewServer(newEchoHandler().routes())
	defer srv.Close()

	wav := encode.WAV(audio.NewDecoded(44100, 1, 4410))
	req, err := transcribe.NewRequest(context.Background(), srv.URL, audio.Clip{Data: wav, Name: "clip.webm"})
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var reply echoReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if reply.Audio == nil {
		t.Fatal("expected audio facts")
	}
	if reply.Audio.Name != "audio.wav" {
		t.Errorf("expected normalized upload name audio.wav, got %s", reply.Audio.Name)
	}
	if reply.Audio.Bytes != len(wav) {
		t.Errorf("expected %d bytes, got %d", len(wav), reply.Audio.Bytes)
	}
	if reply.Audio.Frames != 4410 || reply.Audio.SampleRate != 44100 || reply.Audio.Channels != 1 {
		t.Errorf("unexpected facts %+v", reply.Audio)
	}
}

func TestEchoRejects(t *testing.T) {
	srv := httptest.NewServer(newEchoHandler().routes())
	defer srv.Close()

	tests := []struct {
		name   string
		req    func() *http.Request
		status int
	}{
		{
			name: "missing file part",
			req: func() *http.Request {
				r, _ := http.NewRequest(http.MethodPost, srv.URL+transcribe.Endpoint, strings.NewReader(""))
				return r
			},
			status: http.StatusBadRequest,
		},
		{
			name: "not a wav",
			req: func() *http.Request {
				r, _ := transcribe.NewRequest(context.Background(), srv.URL, audio.Clip{Data: []byte("not audio"), Name: "x.wav"})
				return r
			},
			status: http.StatusUnprocessableEntity,
		},
		{
			name: "wrong method",
			req: func() *http.Request {
				r, _ := http.NewRequest(http.MethodGet, srv.URL+transcribe.Endpoint, nil)
				return r
			},
			status: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := srv.Client().Do(tt.req())
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}
