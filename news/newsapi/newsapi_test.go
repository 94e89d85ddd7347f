package newsapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/newscast/config"
	"github.com/mohammad-safakhou/newscast/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *NewsAPI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.NewsAPIConfig{
		APIKey:          "secret",
		Endpoint:        srv.URL + "/v2/everything",
		Language:        "en",
		MaxResults:      5,
		SummaryMaxChars: 500,
		Timeout:         2 * time.Second,
	}, log.New(io.Discard, "", 0))
}

func articlesJSON(titles ...string) string {
	var parts []string
	for _, title := range titles {
		parts = append(parts, fmt.Sprintf(`{"title":%q,"description":"about %s"}`, title, title))
	}
	return `{"status":"ok","totalResults":` + fmt.Sprint(len(titles)) + `,"articles":[` + strings.Join(parts, ",") + `]}`
}

func TestFetchNewsSendsQueryAndKey(t *testing.T) {
	var gotQuery, gotLang, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLang = r.URL.Query().Get("language")
		gotKey = r.Header.Get("X-Api-Key")
		_, _ = io.WriteString(w, articlesJSON("one"))
	})

	if _, err := client.FetchNews(context.Background(), "mars rover", ""); err != nil {
		t.Fatalf("FetchNews: %v", err)
	}
	if gotQuery != "mars rover" || gotLang != "en" {
		t.Fatalf("unexpected query params q=%q language=%q", gotQuery, gotLang)
	}
	if gotKey != "secret" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
}

func TestFetchNewsTruncatesToFiveInOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, articlesJSON("a1", "a2", "a3", "a4", "a5", "a6", "a7"))
	})

	got, err := client.FetchNews(context.Background(), "q", "")
	if err != nil {
		t.Fatalf("FetchNews: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 articles, got %d", len(got))
	}
	for i, a := range got {
		if want := fmt.Sprintf("a%d", i+1); a.Title != want {
			t.Fatalf("article %d: expected %s, got %s", i, want, a.Title)
		}
	}
}

func TestFetchNewsNonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"status":"error","code":"apiKeyInvalid"}`)
	})

	_, err := client.FetchNews(context.Background(), "q", "")
	var fetchErr *models.UpstreamFetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected UpstreamFetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusUnauthorized || fetchErr.Error() != "Failed to fetch news" {
		t.Fatalf("unexpected error %+v (%s)", fetchErr, fetchErr.Error())
	}
}

func TestFetchNewsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, articlesJSON())
	})

	_, err := client.FetchNews(context.Background(), "q", "")
	var noArticles *models.NoArticlesError
	if !errors.As(err, &noArticles) {
		t.Fatalf("expected NoArticlesError, got %v", err)
	}
}

func TestFetchNewsAreaFilter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ok","articles":[
			{"title":"Floods hit KERALA coast","description":"heavy rain"},
			{"title":"Storm update","description":null},
			{"title":"Relief","description":"Camps open across kerala districts"}
		]}`)
	})

	got, err := client.FetchNews(context.Background(), "floods", "Kerala")
	if err != nil {
		t.Fatalf("FetchNews: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Floods hit KERALA coast" || got[1].Title != "Relief" {
		t.Fatalf("unexpected filtered set: %+v", got)
	}
}

func TestFetchNewsAreaNoMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, articlesJSON("Tokyo markets", "Osaka expo"))
	})

	_, err := client.FetchNews(context.Background(), "markets", "Lagos")
	if err == nil || err.Error() != "No news found for markets in Lagos" {
		t.Fatalf("expected area error, got %v", err)
	}
}

func TestFetchNewsStripsMarkupAndBoundsSummary(t *testing.T) {
	long := strings.Repeat("x", 800)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, `{"status":"ok","articles":[{"title":"<b>Bold</b> move","description":"<p>%s</p>"}]}`, long)
	})

	got, err := client.FetchNews(context.Background(), "q", "")
	if err != nil {
		t.Fatalf("FetchNews: %v", err)
	}
	if got[0].Title != "Bold move" {
		t.Fatalf("expected markup stripped, got %q", got[0].Title)
	}
	if len(got[0].Summary) != 500 {
		t.Fatalf("expected summary cut to 500 chars, got %d", len(got[0].Summary))
	}
}

func TestFetchNewsTransportError(t *testing.T) {
	client := New(config.NewsAPIConfig{Endpoint: "http://127.0.0.1:1/v2/everything", Timeout: time.Second}, log.New(io.Discard, "", 0))

	_, err := client.FetchNews(context.Background(), "q", "")
	var fetchErr *models.UpstreamFetchError
	if !errors.As(err, &fetchErr) || fetchErr.StatusCode != 0 {
		t.Fatalf("expected transport UpstreamFetchError, got %v", err)
	}
	if !strings.HasPrefix(fetchErr.Error(), "Error fetching news: ") {
		t.Fatalf("unexpected message %q", fetchErr.Error())
	}
}
