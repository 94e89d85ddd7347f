package openai_provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mohammad-safakhou/newscast/internal/helpers"
	"github.com/mohammad-safakhou/newscast/models"
)

// client talks to any OpenAI compatible chat completion endpoint (Mistral, OpenAI).
type client struct {
	apiKey      string
	endpoint    string
	model       string
	temperature float64
	maxTokens   int
	maxWords    int
	httpClient  *http.Client
	logger      *log.Logger
}

// Message represents a message in a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request represents a chat completion request
type request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// response represents a chat completion response
type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Options configures the chat completion client.
type Options struct {
	APIKey      string
	Endpoint    string
	Model       string
	Temperature float64
	MaxTokens   int
	MaxWords    int
	Timeout     time.Duration
	Logger      *log.Logger
}

// NewClient creates a new chat completion client
func NewClient(opts Options) *client {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[LLM] ", log.LstdFlags)
	}
	maxWords := opts.MaxWords
	if maxWords <= 0 {
		maxWords = models.MaxReportWords
	}
	return &client{
		apiKey:      opts.APIKey,
		endpoint:    opts.Endpoint,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		maxWords:    maxWords,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		logger:      logger,
	}
}

// GenerateReport asks the model for a news report built from the given articles.
func (c *client) GenerateReport(ctx context.Context, articles []models.Article, debate bool) (string, error) {
	prompt := BuildPrompt(articles, debate, c.maxWords)
	return c.sendRequest(ctx, []Message{{Role: "user", Content: prompt}})
}

// sendRequest sends a request to the chat completion API
func (c *client) sendRequest(ctx context.Context, messages []Message) (string, error) {
	requestBody := request{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", &models.ReportGenerationError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &models.ReportGenerationError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Printf("sending chat request model=%s messages=%d", c.model, len(messages))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &models.ReportGenerationError{Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := helpers.ErrorBody(resp.Body)
		c.logger.Printf("chat completion error - status: %s, body: %s", resp.Status, body)
		return "", &models.ReportGenerationError{StatusCode: resp.StatusCode, Err: fmt.Errorf("API returned status: %d", resp.StatusCode)}
	}

	var chatResp response
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &models.ReportGenerationError{Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if len(chatResp.Choices) == 0 {
		return "", &models.ReportGenerationError{Err: fmt.Errorf("no choices in response")}
	}

	return chatResp.Choices[0].Message.Content, nil
}
