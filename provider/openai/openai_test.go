package openai_provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/newscast/models"
)

var testArticles = []models.Article{
	{Title: "Rover finds water", Summary: "Ice under the crater rim."},
	{Title: "Launch delayed", Summary: "Weather pushes the window."},
}

func TestBuildPromptPlain(t *testing.T) {
	prompt := BuildPrompt(testArticles, false, 450)
	if !strings.HasPrefix(prompt, "You are an AI news reporter. Create a concise news report (max 450 words") {
		t.Fatalf("unexpected prompt head: %q", prompt[:80])
	}
	if !strings.Contains(prompt, "Title: Rover finds water\nSummary: Ice under the crater rim.\n\nTitle: Launch delayed") {
		t.Fatalf("articles not laid out as title/summary blocks:\n%s", prompt)
	}
	if !strings.HasSuffix(prompt, "Keep it engaging and structured.") {
		t.Fatalf("plain prompt must not carry debate instructions:\n%s", prompt)
	}
}

func TestBuildPromptDebateNamesBothSpeakers(t *testing.T) {
	prompt := BuildPrompt(testArticles, true, 450)
	for _, want := range []string{
		"A debate between Alice and Bob (max 300 words total)",
		"**Alice** argues FOR the topic",
		"**Bob** argues AGAINST the topic",
		"At least 3 rounds of exchange.",
		"Use 'Alice: ' and 'Bob: ' prefixes.",
		"A neutral summary (max 150 words).",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("debate prompt missing %q:\n%s", want, prompt)
		}
	}
	for _, s := range models.DebateSpeakers() {
		if !strings.Contains(prompt, "'"+s.Prefix+"'") {
			t.Fatalf("prompt does not request turn prefix %q", s.Prefix)
		}
	}
}

func TestGenerateReportRequestShape(t *testing.T) {
	var got request
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"Today in space..."}}]}`)
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "k", Endpoint: srv.URL, Model: "mistral-tiny", Timeout: time.Second, Logger: log.New(io.Discard, "", 0)})
	text, err := c.GenerateReport(context.Background(), testArticles, false)
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if text != "Today in space..." {
		t.Fatalf("unexpected text %q", text)
	}
	if auth != "Bearer k" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if got.Model != "mistral-tiny" || len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestGenerateReportNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Options{Endpoint: srv.URL, Model: "m", Timeout: time.Second, Logger: log.New(io.Discard, "", 0)})
	_, err := c.GenerateReport(context.Background(), testArticles, false)
	var genErr *models.ReportGenerationError
	if !errors.As(err, &genErr) || genErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected ReportGenerationError with status, got %v", err)
	}
	if genErr.Error() != "Failed to generate report" {
		t.Fatalf("unexpected message %q", genErr.Error())
	}
}

func TestGenerateReportNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	c := NewClient(Options{Endpoint: srv.URL, Model: "m", Timeout: time.Second, Logger: log.New(io.Discard, "", 0)})
	_, err := c.GenerateReport(context.Background(), testArticles, true)
	var genErr *models.ReportGenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected ReportGenerationError, got %v", err)
	}
}
