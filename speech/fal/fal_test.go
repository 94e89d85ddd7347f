package fal

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/newscast/models"
)

type recorded struct {
	path string
	auth string
	body request
}

func newFalServer(t *testing.T, status int, reply string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&rec.body); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newClient(t *testing.T, base string) *Client {
	t.Helper()
	c, err := New(Options{
		APIKey:         "fal-key",
		SingleEndpoint: base + "/fal-ai/playai/tts/v3",
		DialogEndpoint: base + "/fal-ai/playai/tts/dialog",
		Voice:          "Jennifer (English (US)/American)",
		DebateVoices:   []string{"Jennifer (English (US)/American)", "Furio (English (IT)/Italian)"},
		Timeout:        time.Second,
		Logger:         log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestSynthesizeSingleVoice(t *testing.T) {
	srv, rec := newFalServer(t, http.StatusOK, `{"audio":{"url":"https://cdn.fal/a.mp3"}}`)
	c := newClient(t, srv.URL)

	url, err := c.Synthesize(context.Background(), "Today in news", false)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if url != "https://cdn.fal/a.mp3" {
		t.Fatalf("unexpected url %q", url)
	}
	if rec.path != "/fal-ai/playai/tts/v3" {
		t.Fatalf("expected single-voice endpoint, got %s", rec.path)
	}
	if rec.auth != "Key fal-key" {
		t.Fatalf("unexpected auth %q", rec.auth)
	}
	if rec.body.Voice != "Jennifer (English (US)/American)" || len(rec.body.Voices) != 0 || rec.body.ResponseFormat != "url" {
		t.Fatalf("unexpected payload %+v", rec.body)
	}
}

func TestSynthesizeDialogBindsVoicesToSpeakerPrefixes(t *testing.T) {
	srv, rec := newFalServer(t, http.StatusOK, `{"audio":{"url":"https://cdn.fal/d.mp3"}}`)
	c := newClient(t, srv.URL)

	if _, err := c.Synthesize(context.Background(), "Alice: yes.\nBob: no.", true); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !strings.HasSuffix(rec.path, "/dialog") {
		t.Fatalf("expected dialog endpoint, got %s", rec.path)
	}
	if rec.body.Voice != "" || len(rec.body.Voices) != 2 {
		t.Fatalf("unexpected payload %+v", rec.body)
	}
	speakers := models.DebateSpeakers()
	for i, v := range rec.body.Voices {
		if v.TurnPrefix != speakers[i].Prefix {
			t.Fatalf("voice %d bound to %q, want %q", i, v.TurnPrefix, speakers[i].Prefix)
		}
	}
	if rec.body.Voices[1].Voice != "Furio (English (IT)/Italian)" {
		t.Fatalf("second speaker voice mismatch: %+v", rec.body.Voices[1])
	}
}

func TestSynthesizeErrorStatus(t *testing.T) {
	srv, _ := newFalServer(t, http.StatusBadGateway, `upstream down`)
	c := newClient(t, srv.URL)

	if _, err := c.Synthesize(context.Background(), "text", false); err == nil {
		t.Fatalf("expected error on non-200")
	}
}

func TestSynthesizeMissingURL(t *testing.T) {
	srv, _ := newFalServer(t, http.StatusOK, `{"audio":{}}`)
	c := newClient(t, srv.URL)

	if _, err := c.Synthesize(context.Background(), "text", false); err == nil {
		t.Fatalf("expected error when audio url is missing")
	}
}

func TestNewRequiresOneVoicePerSpeaker(t *testing.T) {
	if _, err := New(Options{DebateVoices: []string{"solo"}}); err == nil {
		t.Fatalf("expected error for a single debate voice")
	}
}
