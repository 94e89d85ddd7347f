package news

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
)

var (
	reportMetricsOnce   sync.Once
	reportRequests      otelmetric.Int64Counter
	reportCacheLookups  otelmetric.Int64Counter
	reportStageDuration otelmetric.Float64Histogram
	reportStageFailures otelmetric.Int64Counter
	speechDegraded      otelmetric.Int64Counter
)

func initReportMetrics() {
	meter := otel.Meter("newscast/news")
	var err error
	reportRequests, err = meter.Int64Counter(
		"report_requests_total",
		otelmetric.WithDescription("News report requests by outcome"),
	)
	if err != nil {
		log.Printf("report metrics init: report_requests_total: %v", err)
	}
	reportCacheLookups, err = meter.Int64Counter(
		"report_cache_lookups_total",
		otelmetric.WithDescription("Report cache lookups by result"),
	)
	if err != nil {
		log.Printf("report metrics init: report_cache_lookups_total: %v", err)
	}
	reportStageDuration, err = meter.Float64Histogram(
		"report_stage_duration_seconds",
		otelmetric.WithDescription("Latency of each pipeline stage"),
		otelmetric.WithUnit("s"),
	)
	if err != nil {
		log.Printf("report metrics init: report_stage_duration_seconds: %v", err)
	}
	reportStageFailures, err = meter.Int64Counter(
		"report_stage_failures_total",
		otelmetric.WithDescription("Pipeline stage failures"),
	)
	if err != nil {
		log.Printf("report metrics init: report_stage_failures_total: %v", err)
	}
	speechDegraded, err = meter.Int64Counter(
		"speech_degraded_total",
		otelmetric.WithDescription("Reports served without synthesized audio"),
	)
	if err != nil {
		log.Printf("report metrics init: speech_degraded_total: %v", err)
	}
}

func recordRequest(ctx context.Context, outcome string) {
	reportMetricsOnce.Do(initReportMetrics)
	if reportRequests != nil {
		reportRequests.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func recordCacheLookup(ctx context.Context, hit bool) {
	reportMetricsOnce.Do(initReportMetrics)
	result := "miss"
	if hit {
		result = "hit"
	}
	if reportCacheLookups != nil {
		reportCacheLookups.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("result", result)))
	}
}

func recordStage(ctx context.Context, stage string, started time.Time, err error) {
	reportMetricsOnce.Do(initReportMetrics)
	attrs := otelmetric.WithAttributes(attribute.String("stage", stage))
	if reportStageDuration != nil {
		reportStageDuration.Record(ctx, time.Since(started).Seconds(), attrs)
	}
	if err != nil && reportStageFailures != nil {
		reportStageFailures.Add(ctx, 1, attrs)
	}
}

func recordSpeechDegraded(ctx context.Context, debate bool) {
	reportMetricsOnce.Do(initReportMetrics)
	if speechDegraded != nil {
		speechDegraded.Add(ctx, 1, otelmetric.WithAttributes(attribute.Bool("debate", debate)))
	}
}
