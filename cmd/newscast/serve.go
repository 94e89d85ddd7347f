package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mohammad-safakhou/newscast/cache"
	"github.com/mohammad-safakhou/newscast/config"
	"github.com/mohammad-safakhou/newscast/internal/runtime"
	srv "github.com/mohammad-safakhou/newscast/internal/server"
	"github.com/mohammad-safakhou/newscast/news"
	"github.com/mohammad-safakhou/newscast/news/newsapi"
	"github.com/mohammad-safakhou/newscast/provider"
	"github.com/mohammad-safakhou/newscast/speech"
	"github.com/mohammad-safakhou/newscast/web"
	"github.com/spf13/cobra"
)

func serveCMD() *cobra.Command {
	var serveAddr string
	var cfgPath string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if serveAddr != "" {
				cfg.Server.Address = serveAddr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.address and PORT)")
	serve.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "optional JSON config file")

	return serve
}

func run(ctx context.Context, cfg *config.Config) error {
	tel, err := runtime.SetupTelemetry(ctx, cfg.Telemetry, runtime.TelemetryOptions{ServiceVersion: version})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	store, closeStore, err := cache.NewStore(ctx, cfg.Cache, cfg.Storage.Redis, log.New(log.Writer(), "[CACHE] ", log.LstdFlags))
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer closeStore()

	llm, err := provider.NewProvider(cfg.LLM, log.New(log.Writer(), "[LLM] ", log.LstdFlags))
	if err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	speechLogger := log.New(log.Writer(), "[TTS] ", log.LstdFlags)
	backend, err := speech.NewBackend(cfg.Speech, speechLogger)
	if err != nil {
		return fmt.Errorf("speech: %w", err)
	}

	reporter := news.NewReporter(
		newsapi.New(cfg.Sources.NewsAPI, log.New(log.Writer(), "[NEWSAPI] ", log.LstdFlags)),
		llm,
		speech.NewSynthesizer(backend, speechLogger),
		store,
		news.Options{
			MaxWords:         cfg.LLM.MaxWords,
			FallbackAudioURL: cfg.Speech.FallbackAudioURL,
			SingleFlight:     cfg.Cache.SingleFlight,
		},
	)

	e := srv.New(srv.Options{
		Reporter:    reporter,
		Assets:      web.Assets(),
		Metrics:     tel.MetricsHandler(),
		ServiceName: cfg.Telemetry.ServiceName,
	})
	return srv.Run(ctx, e, cfg.Server.Addr(), cfg.Server.ShutdownTimeout)
}
