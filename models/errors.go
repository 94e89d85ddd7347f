package models

import (
	"errors"
	"fmt"
)

// ValidationError is a user-correctable problem with the request itself.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrMissingTopic is returned when the topic parameter is empty or absent.
var ErrMissingTopic = &ValidationError{Message: "Please enter a topic."}

// UpstreamFetchError reports a failed call to the news search API. StatusCode is zero
// when the request never produced a response (network, timeout, decode).
type UpstreamFetchError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamFetchError) Error() string {
	if e.StatusCode != 0 || e.Err == nil {
		return "Failed to fetch news"
	}
	return "Error fetching news: " + e.Err.Error()
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// NoArticlesError means the search returned an empty result set.
type NoArticlesError struct {
	Query string
}

func (e *NoArticlesError) Error() string { return "No relevant articles found" }

// NoArticlesInAreaError means no fetched article mentioned the requested area.
type NoArticlesInAreaError struct {
	Query string
	Area  string
}

func (e *NoArticlesInAreaError) Error() string {
	return fmt.Sprintf("No news found for %s in %s", e.Query, e.Area)
}

// ReportGenerationError reports a failed call to the text generation API.
type ReportGenerationError struct {
	StatusCode int
	Err        error
}

func (e *ReportGenerationError) Error() string {
	if e.StatusCode != 0 || e.Err == nil {
		return "Failed to generate report"
	}
	return "Failed to generate report: " + e.Err.Error()
}

func (e *ReportGenerationError) Unwrap() error { return e.Err }

// ClientMessage converts a pipeline error into the message placed in the response body.
func ClientMessage(err error) string {
	var (
		validation *ValidationError
		fetch      *UpstreamFetchError
		noArticles *NoArticlesError
		noArea     *NoArticlesInAreaError
		generation *ReportGenerationError
	)
	switch {
	case errors.As(err, &validation):
		return validation.Error()
	case errors.As(err, &fetch):
		return fetch.Error()
	case errors.As(err, &noArticles):
		return noArticles.Error()
	case errors.As(err, &noArea):
		return noArea.Error()
	case errors.As(err, &generation):
		return generation.Error()
	default:
		return "Error fetching news: " + err.Error()
	}
}
