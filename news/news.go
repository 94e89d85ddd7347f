package news

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/mohammad-safakhou/newscast/cache"
	"github.com/mohammad-safakhou/newscast/internal/helpers"
	"github.com/mohammad-safakhou/newscast/models"
	"github.com/mohammad-safakhou/newscast/provider"
)

// Stage names one step of the report pipeline.
type Stage string

const (
	StageValidating   Stage = "validating"
	StageCacheCheck   Stage = "cache_check"
	StageFetching     Stage = "fetching"
	StageGenerating   Stage = "generating"
	StageSynthesizing Stage = "synthesizing"
)

// Fetcher returns the articles a report is built from.
type Fetcher interface {
	FetchNews(ctx context.Context, query, area string) ([]models.Article, error)
}

// AudioSynthesizer turns report text into a hosted audio URL. ok is false when no
// audio could be produced; that never fails a report.
type AudioSynthesizer interface {
	Synthesize(ctx context.Context, text string, debate bool) (url string, ok bool)
}

// Reporter runs the news report pipeline: cache, fetch, generate, synthesize.
type Reporter struct {
	NewsClient       Fetcher
	ProviderClient   provider.Provider
	Speech           AudioSynthesizer
	Cache            cache.Store
	MaxWords         int
	FallbackAudioURL string

	flights *singleflight.Group
	logger  *log.Logger
	tracer  trace.Tracer
}

// Options configures a Reporter.
type Options struct {
	MaxWords         int
	FallbackAudioURL string
	// SingleFlight collapses concurrent misses for the same key into one pipeline run.
	SingleFlight bool
	Logger       *log.Logger
}

// NewReporter creates a new report pipeline
func NewReporter(newsClient Fetcher, llm provider.Provider, speech AudioSynthesizer, store cache.Store, opts Options) *Reporter {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[NEWS] ", log.LstdFlags)
	}
	maxWords := opts.MaxWords
	if maxWords <= 0 {
		maxWords = models.MaxReportWords
	}
	r := &Reporter{
		NewsClient:       newsClient,
		ProviderClient:   llm,
		Speech:           speech,
		Cache:            store,
		MaxWords:         maxWords,
		FallbackAudioURL: opts.FallbackAudioURL,
		logger:           logger,
		tracer:           otel.Tracer("newscast/news"),
	}
	if opts.SingleFlight {
		r.flights = &singleflight.Group{}
	}
	return r
}

// Report produces the response for req. Failures are reported in the response body;
// the returned value always holds either a report or an error message. The pipeline is
// detached from ctx cancellation so upstream calls complete once started.
func (r *Reporter) Report(ctx context.Context, req models.ReportRequest) models.ReportResponse {
	ctx = context.WithoutCancel(ctx)
	ctx, span := r.tracer.Start(ctx, "news_report", trace.WithAttributes(
		attribute.Bool("report.debate", req.Debate),
		attribute.Bool("report.area", req.Area != ""),
	))
	defer span.End()

	if req.Topic == "" {
		recordRequest(ctx, "invalid")
		span.SetAttributes(attribute.String("report.stage", string(StageValidating)))
		return models.NewErrorResponse(models.ClientMessage(models.ErrMissingTopic))
	}

	key := cache.Key(req)
	if resp, ok := r.lookup(ctx, key); ok {
		recordCacheLookup(ctx, true)
		recordRequest(ctx, "cached")
		span.SetAttributes(attribute.Bool("report.cached", true), attribute.String("report.stage", string(StageCacheCheck)))
		return resp
	}
	recordCacheLookup(ctx, false)

	if r.flights == nil {
		return r.run(ctx, key, req)
	}
	v, _, shared := r.flights.Do(key, func() (interface{}, error) {
		// a flight that finished between our lookup and Do already stored the result
		if resp, ok := r.lookup(ctx, key); ok {
			return resp, nil
		}
		return r.run(ctx, key, req), nil
	})
	span.SetAttributes(attribute.Bool("report.shared", shared))
	return v.(models.ReportResponse)
}

func (r *Reporter) lookup(ctx context.Context, key string) (models.ReportResponse, bool) {
	if r.Cache == nil {
		return models.ReportResponse{}, false
	}
	resp, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.logger.Printf("cache get %s: %v", key, err)
		return models.ReportResponse{}, false
	}
	return resp, ok
}

func (r *Reporter) run(ctx context.Context, key string, req models.ReportRequest) models.ReportResponse {
	resp, err := r.produce(ctx, req)
	if err != nil {
		r.logger.Printf("Error in news_report (topic=%q debate=%t area=%q): %v", req.Topic, req.Debate, req.Area, err)
		recordRequest(ctx, "failed")
		return models.NewErrorResponse(models.ClientMessage(err))
	}
	if r.Cache != nil {
		if err := r.Cache.Set(ctx, key, resp); err != nil {
			r.logger.Printf("cache set %s: %v", key, err)
		}
	}
	recordRequest(ctx, "ok")
	return resp
}

func (r *Reporter) produce(ctx context.Context, req models.ReportRequest) (models.ReportResponse, error) {
	query := NormalizeQuery(req.Topic)

	var articles []models.Article
	err := r.stage(ctx, StageFetching, func(ctx context.Context) error {
		var err error
		articles, err = r.NewsClient.FetchNews(ctx, query, req.Area)
		return err
	})
	if err != nil {
		return models.ReportResponse{}, err
	}

	var report models.Report
	err = r.stage(ctx, StageGenerating, func(ctx context.Context) error {
		text, err := r.ProviderClient.GenerateReport(ctx, articles, req.Debate)
		if err != nil {
			return err
		}
		report.Text, report.Truncated = helpers.LimitWords(text, r.MaxWords, models.TruncationMarker)
		return nil
	})
	if err != nil {
		return models.ReportResponse{}, err
	}
	r.logger.Printf("Generated report (%d words, truncated=%t) for %q", report.WordCount(), report.Truncated, query)

	audioURL := r.FallbackAudioURL
	_ = r.stage(ctx, StageSynthesizing, func(ctx context.Context) error {
		if r.Speech == nil {
			return nil
		}
		if url, ok := r.Speech.Synthesize(ctx, report.Text, req.Debate); ok {
			audioURL = url
			return nil
		}
		recordSpeechDegraded(ctx, req.Debate)
		trace.SpanFromContext(ctx).SetAttributes(attribute.Bool("speech.degraded", true))
		return nil
	})

	return models.NewReportResponse(report.Text, audioURL), nil
}

// stage runs fn inside its own span and records latency and failure metrics.
func (r *Reporter) stage(ctx context.Context, stage Stage, fn func(ctx context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, "news_report."+string(stage))
	defer span.End()
	started := time.Now()
	err := fn(ctx)
	recordStage(ctx, string(stage), started, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
