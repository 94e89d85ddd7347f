package fal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mohammad-safakhou/newscast/internal/helpers"
	"github.com/mohammad-safakhou/newscast/models"
)

// VoiceTurn binds a voice to the prefix that opens each of its turns in the input text.
type VoiceTurn struct {
	Voice      string `json:"voice"`
	TurnPrefix string `json:"turn_prefix"`
}

type request struct {
	Input          string      `json:"input"`
	ResponseFormat string      `json:"response_format"`
	Voice          string      `json:"voice,omitempty"`
	Voices         []VoiceTurn `json:"voices,omitempty"`
}

type response struct {
	Audio struct {
		URL         string `json:"url"`
		ContentType string `json:"content_type"`
	} `json:"audio"`
}

// Client calls the fal.ai PlayAI text-to-speech endpoints.
type Client struct {
	apiKey         string
	singleEndpoint string
	dialogEndpoint string
	voice          string
	dialogVoices   []VoiceTurn
	httpClient     *http.Client
	logger         *log.Logger
}

// Options configures the fal client. DebateVoices is matched to models.DebateSpeakers by position.
type Options struct {
	APIKey         string
	SingleEndpoint string
	DialogEndpoint string
	Voice          string
	DebateVoices   []string
	Timeout        time.Duration
	Logger         *log.Logger
}

// New builds a client. The dialog voices are bound to the debate speaker prefixes so
// every turn of the generated script is read by the voice of its speaker.
func New(opts Options) (*Client, error) {
	speakers := models.DebateSpeakers()
	if len(opts.DebateVoices) != len(speakers) {
		return nil, fmt.Errorf("fal: need %d debate voices, got %d", len(speakers), len(opts.DebateVoices))
	}
	turns := make([]VoiceTurn, len(speakers))
	for i, s := range speakers {
		turns[i] = VoiceTurn{Voice: opts.DebateVoices[i], TurnPrefix: s.Prefix}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[TTS] ", log.LstdFlags)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:         opts.APIKey,
		singleEndpoint: opts.SingleEndpoint,
		dialogEndpoint: opts.DialogEndpoint,
		voice:          opts.Voice,
		dialogVoices:   turns,
		httpClient:     &http.Client{Timeout: timeout},
		logger:         logger,
	}, nil
}

// DialogVoices returns the voice/prefix bindings used in debate mode.
func (c *Client) DialogVoices() []VoiceTurn {
	out := make([]VoiceTurn, len(c.dialogVoices))
	copy(out, c.dialogVoices)
	return out
}

// Synthesize renders text to speech and returns the hosted audio URL. Debate mode uses
// the dialog endpoint with one voice per speaker.
func (c *Client) Synthesize(ctx context.Context, text string, debate bool) (string, error) {
	endpoint := c.singleEndpoint
	payload := request{Input: text, ResponseFormat: "url"}
	if debate {
		endpoint = c.dialogEndpoint
		payload.Voices = c.dialogVoices
	} else {
		payload.Voice = c.voice
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b := helpers.ErrorBody(resp.Body)
		c.logger.Printf("fal TTS error - status: %s, body: %s", resp.Status, b)
		return "", fmt.Errorf("fal returned status: %d", resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if out.Audio.URL == "" {
		return "", errors.New("response carried no audio url")
	}
	return out.Audio.URL, nil
}
