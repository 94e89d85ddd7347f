package models

import (
	"encoding/json"
	"strings"
)

// MaxReportWords is the word budget of a generated report (~3 minutes at 150 wpm).
const MaxReportWords = 450

// TruncationMarker is appended to a report cut down to MaxReportWords.
const TruncationMarker = " [Truncated to 3 minutes]"

// ReportRequest is the input of a single news report run. An empty Area means no locality filter.
type ReportRequest struct {
	Topic  string `json:"topic"`
	Debate bool   `json:"debate"`
	Area   string `json:"area,omitempty"`
}

// Article is one upstream search hit reduced to what the prompt needs.
type Article struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Report is the generated text after the word budget has been applied.
type Report struct {
	Text      string
	Truncated bool
}

// WordCount counts whitespace separated words, excluding the truncation marker.
func (r Report) WordCount() int {
	text := r.Text
	if r.Truncated {
		text = strings.TrimSuffix(text, TruncationMarker)
	}
	return len(strings.Fields(text))
}

// ReportResponse is the payload returned by /news_report. Either Report or Error is set.
type ReportResponse struct {
	Report   string  `json:"report,omitempty"`
	AudioURL *string `json:"audio_url,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// NewReportResponse builds a successful response; an empty audioURL encodes as null.
func NewReportResponse(report, audioURL string) ReportResponse {
	resp := ReportResponse{Report: report}
	if audioURL != "" {
		resp.AudioURL = &audioURL
	}
	return resp
}

// NewErrorResponse builds a failed response carrying only the message.
func NewErrorResponse(message string) ReportResponse {
	return ReportResponse{Error: message}
}

// Failed reports whether the response carries an error instead of a report.
func (r ReportResponse) Failed() bool { return r.Error != "" }

// MarshalJSON keeps the wire shape stable: {report, audio_url} or {error}.
// audio_url is always present on success, as null when no audio is available.
func (r ReportResponse) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: r.Error})
	}
	return json.Marshal(struct {
		Report   string  `json:"report"`
		AudioURL *string `json:"audio_url"`
	}{Report: r.Report, AudioURL: r.AudioURL})
}

// Speaker is one voice of a debate. Prefix starts each of the speaker's turns in the
// generated text and is the turn_prefix the dialog synthesizer binds a voice to.
type Speaker struct {
	Name   string
	Prefix string
	Stance string
}

var (
	SpeakerFor     = Speaker{Name: "Alice", Prefix: "Alice: ", Stance: "FOR"}
	SpeakerAgainst = Speaker{Name: "Bob", Prefix: "Bob: ", Stance: "AGAINST"}
)

// DebateSpeakers returns both debate speakers in turn order.
func DebateSpeakers() []Speaker {
	return []Speaker{SpeakerFor, SpeakerAgainst}
}
