package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/mohammad-safakhou/newscast/config"
	"github.com/mohammad-safakhou/newscast/internal/helpers"
	"github.com/mohammad-safakhou/newscast/models"
)

type article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}

type response struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
}

// NewsAPI fetches articles from the newsapi.org "everything" endpoint.
type NewsAPI struct {
	APIKey          string
	Endpoint        string
	Language        string
	MaxResults      int
	SummaryMaxChars int
	httpClient      *http.Client
	logger          *log.Logger
}

// New builds a client from configuration. The timeout bounds every search call.
func New(cfg config.NewsAPIConfig, logger *log.Logger) *NewsAPI {
	if logger == nil {
		logger = log.New(log.Writer(), "[NEWS] ", log.LstdFlags)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	return &NewsAPI{
		APIKey:          cfg.APIKey,
		Endpoint:        cfg.Endpoint,
		Language:        cfg.Language,
		MaxResults:      maxResults,
		SummaryMaxChars: cfg.SummaryMaxChars,
		httpClient:      &http.Client{Timeout: timeout},
		logger:          logger,
	}
}

// FetchNews searches for query and returns at most MaxResults articles in upstream order.
// With a non-empty area only articles mentioning it in the title or summary are kept.
func (n *NewsAPI) FetchNews(ctx context.Context, query, area string) ([]models.Article, error) {
	articles, err := n.search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(articles) > n.MaxResults {
		articles = articles[:n.MaxResults]
	}
	if len(articles) == 0 {
		return nil, &models.NoArticlesError{Query: query}
	}
	if area == "" {
		return articles, nil
	}
	filtered := FilterByArea(articles, area)
	if len(filtered) == 0 {
		return nil, &models.NoArticlesInAreaError{Query: query, Area: area}
	}
	return filtered, nil
}

func (n *NewsAPI) search(ctx context.Context, query string) ([]models.Article, error) {
	params := url.Values{}
	params.Add("q", query)
	if n.Language != "" {
		params.Add("language", n.Language)
	}

	reqURL := fmt.Sprintf("%s?%s", n.Endpoint, params.Encode())
	n.logger.Printf("fetching news for query %q", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &models.UpstreamFetchError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("X-Api-Key", n.APIKey)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, &models.UpstreamFetchError{Err: fmt.Errorf("failed to fetch news: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := helpers.ErrorBody(resp.Body)
		n.logger.Printf("newsapi error - status: %s, body: %s", resp.Status, body)
		return nil, &models.UpstreamFetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("newsapi error: %s", resp.Status)}
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &models.UpstreamFetchError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	out := make([]models.Article, 0, len(result.Articles))
	for _, a := range result.Articles {
		out = append(out, models.Article{
			Title:   helpers.PlainText(a.Title),
			Summary: helpers.TruncateRunes(helpers.PlainText(a.Description), n.SummaryMaxChars),
		})
	}
	return out, nil
}

// FilterByArea keeps the articles whose title or summary contains area, ignoring case.
func FilterByArea(articles []models.Article, area string) []models.Article {
	fold := cases.Fold()
	needle := fold.String(area)
	var out []models.Article
	for _, a := range articles {
		if strings.Contains(fold.String(a.Title), needle) || strings.Contains(fold.String(a.Summary), needle) {
			out = append(out, a)
		}
	}
	return out
}
