package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/urfave/cli/v2"

	"github.com/gekatateam/loggate/config"
	"github.com/gekatateam/loggate/logger"
	"github.com/gekatateam/loggate/metrics"
	"github.com/gekatateam/loggate/registry"
	"github.com/gekatateam/loggate/relay/api"
	"github.com/gekatateam/loggate/relay/listener"
	"github.com/gekatateam/loggate/relay/service"
	"github.com/gekatateam/loggate/server"
)

func run(cCtx *cli.Context) error {
	cfg, err := config.ReadConfig(cCtx.String("config"))
	if err != nil {
		return fmt.Errorf("error reading configuration file: %v", err.Error())
	}

	if err := logger.Init(cfg.Common); err != nil {
		return fmt.Errorf("logger initialization failed: %v", err.Error())
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	wg := &sync.WaitGroup{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	levels, err := registry.FromConfig(cfg.Registry)
	if err != nil {
		return fmt.Errorf("registry initialization failed: %v", err.Error())
	}

	s, err := service.Build(cfg, levels, logger.Default.With(
		slog.Group("service",
			"kind", "internal",
		),
	))
	if err != nil {
		return fmt.Errorf("gates initialization failed: %v", err.Error())
	}
	metrics.CollectGates(s.Stats)

	// daemon lifecycle events pass through gates like any other category
	daemonLog := logger.NewCategoryLogger("loggate.daemon", levels, s)

	restApi := api.Rest(s, s, levels, logger.Default.With(
		slog.Group("controller",
			"kind", "rest",
		),
	))

	httpServer, err := server.Http(cfg.Common)
	if err != nil {
		s.Close()
		return err
	}
	httpServer.Route("/api/v1", func(r chi.Router) {
		r.Mount("/gates", restApi.GatesRouter())
		r.Mount("/events", restApi.EventsRouter())
	})

	if err := s.StartConfigured(cfg.Gates); err != nil {
		s.Close()
		return err
	}

	if len(cfg.Redis.Servers) > 0 {
		redisListener := listener.Redis(cfg.Redis, s, logger.Default.With(
			slog.Group("controller",
				"kind", "redis",
			),
		))

		if err := redisListener.Init(); err != nil {
			s.Close()
			return fmt.Errorf("redis listener initialization failed: %v", err.Error())
		}
		defer redisListener.Close()

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := redisListener.Serve(ctx); err != nil {
				logger.Default.Error("redis listener stopped",
					"error", err,
				)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := httpServer.Serve(); err != nil {
			logger.Default.Error("http server startup failed",
				"error", err,
			)
			os.Exit(1)
		}
	}()

	daemonLog.Info("daemon started", "version", Version, "http_addr", cfg.Common.HttpAddr)

	<-quit
	daemonLog.Info("daemon stopping")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Default.Warn("http server stopped with error",
			"error", err,
		)
	}

	cancel()
	wg.Wait()

	if err := s.Close(); err != nil {
		logger.Default.Warn("gates closed with error",
			"error", err,
		)
	}

	logger.Default.Info("we're done here")
	return nil
}
