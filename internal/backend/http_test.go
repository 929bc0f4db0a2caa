package backend

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPTransportSendsMultipartWAV(t *testing.T) {
	replyAudio := []byte("fake-mp3-bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("not a multipart request: %v", err)
		}

		file, header, err := r.FormFile("audio")
		if err != nil {
			t.Fatalf("missing audio part: %v", err)
		}
		defer file.Close()
		if header.Filename != "capture.wav" {
			t.Errorf("expected capture.wav, got %s", header.Filename)
		}

		magic := make([]byte, 4)
		file.Read(magic)
		if string(magic) != "RIFF" {
			t.Errorf("audio part is not WAV, got %q", magic)
		}

		if got := r.FormValue("sample_rate"); got != "44100" {
			t.Errorf("expected sample_rate 44100, got %s", got)
		}
		if got := r.FormValue("duration"); got != "1.5" {
			t.Errorf("expected duration 1.5, got %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"transcript": "who built this temple", "reply_text": "Ramses II did", "reply_audio": %q}`,
			base64.StdEncoding.EncodeToString(replyAudio))
	}))
	defer srv.Close()

	transport := NewHTTPTransport(srv.URL)

	wav := append([]byte("RIFF"), make([]byte, 40)...)
	reply, err := transport.Send(context.Background(), wav, Clip{SampleRate: 44100, Duration: 1.5})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if reply.Transcript != "who built this temple" {
		t.Errorf("unexpected transcript %q", reply.Transcript)
	}
	if reply.ReplyText != "Ramses II did" {
		t.Errorf("unexpected reply text %q", reply.ReplyText)
	}
	if string(reply.ReplyAudio) != string(replyAudio) {
		t.Errorf("reply audio not decoded from base64")
	}
}

func TestHTTPTransportReportsBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	transport := NewHTTPTransport(srv.URL)
	_, err := transport.Send(context.Background(), []byte("RIFF"), Clip{SampleRate: 16000})
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error should mention status code, got %v", err)
	}
}
