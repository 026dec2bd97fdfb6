package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ElMonstro/Lean/internal/application/port"
	"github.com/ElMonstro/Lean/internal/application/portfolio"
	"github.com/ElMonstro/Lean/internal/application/usecase/framework"
	"github.com/ElMonstro/Lean/internal/infrastructure/config"
	"github.com/ElMonstro/Lean/internal/infrastructure/container"
	"github.com/ElMonstro/Lean/internal/infrastructure/feed/wsfeed"
	"github.com/ElMonstro/Lean/internal/infrastructure/logger"
	"github.com/ElMonstro/Lean/internal/infrastructure/metrics"
	"github.com/ElMonstro/Lean/internal/interfaces/console"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the framework host until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts)
		},
	}
}

func run(ctx context.Context, opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", opts.configPath, err)
	}

	level := cfg.App.LogLevel
	if opts.verbose {
		level = "debug"
	}
	logger.SetupWith(os.Stdout, level)

	model, err := portfolio.New(cfg.Portfolio.Model)
	if err != nil {
		return err
	}

	var feeds []port.InsightFeed
	if cfg.Feed.Enabled {
		feeds = append(feeds, wsfeed.New("ws", cfg.Feed.WsURL, cfg.Feed.Streams))
	} else {
		log.Warn().Msg("feed disabled by config")
	}
	if len(feeds) == 0 {
		return framework.ErrNoFeeds
	}

	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	var recorder port.Metrics
	if cfg.Metrics.Enabled {
		rec := metrics.New()
		recorder = rec
		srv := serveMetrics(cfg.Metrics.Addr, rec.Handler())
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	svc, err := framework.NewService(framework.ServiceDeps{
		Feeds:     feeds,
		Host:      framework.NewHost(cfg.App.Name, nil),
		Model:     model,
		ModelName: cfg.Portfolio.Model,
		Repo:      c.Repository(),
		Sink:      console.NewSink(),
		Metrics:   recorder,
		Formatter: framework.NewFormatter(cfg.App.Color),
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("config", opts.configPath).
		Str("algorithm", cfg.App.Name).
		Str("model", cfg.Portfolio.Model).
		Int("feeds", len(feeds)).
		Bool("metrics", cfg.Metrics.Enabled).
		Msg("lean started")

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Warn().Msg("exit")
	return nil
}

func serveMetrics(addr string, h http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", addr).Msg("metrics listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		}
	}()
	return srv
}
