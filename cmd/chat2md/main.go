package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/api"
	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/config"
	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/events"
	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/ingest"
	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to TOML config file")
		inPath     = flag.String("in", "", "input export file or directory")
		outDir     = flag.String("out", "", "output directory for Markdown files")
		modeFlag   = flag.String("mode", "", "grouping mode: chat, month or year")
		watch      = flag.Bool("watch", false, "watch the input directory for new exports")
		serve      = flag.Bool("serve", false, "start the HTTP conversion API")
		port       = flag.Int("port", 0, "HTTP API port")
		force      = flag.Bool("force", false, "reconvert files recorded in state")
	)
	flag.Parse()

	cfg := config.Load(*configPath)
	if *inPath != "" {
		cfg.InputDir = *inPath
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if *modeFlag != "" {
		cfg.ExportMode = *modeFlag
	}
	if *port != 0 {
		cfg.Port = *port
	}

	setupLogging(cfg.LogLevel)

	mode, err := model.ParseExportMode(cfg.ExportMode)
	if err != nil {
		slog.Error("invalid export mode", "error", err)
		os.Exit(1)
	}

	slog.Info("chat2md starting", "mode", mode.String(), "output_dir", cfg.OutputDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Archive store (optional: chat2md runs standalone without Postgres)
	var db *store.Store
	if cfg.DatabaseURL != "" {
		db, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database connected")
	}

	// Run announcements over NATS (optional)
	var ev *events.Client
	if cfg.NatsURL != "" {
		ev, err = events.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer ev.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	}

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down")
		cancel()
	}()

	// HTTP API
	if *serve {
		srv := api.NewServer(cfg.Port)
		go func() {
			if err := srv.Start(); err != nil {
				slog.Error("HTTP server error", "error", err)
				os.Exit(1)
			}
		}()
		if !*watch {
			slog.Info("chat2md ready", "port", cfg.Port)
			<-ctx.Done()
			slog.Info("chat2md stopped")
			return
		}
	}

	if cfg.InputDir == "" {
		slog.Error("no input given, pass -in or set input_dir in the config")
		os.Exit(1)
	}

	runCfg := ingest.Config{
		OutputDir: cfg.OutputDir,
		Mode:      mode,
		StatePath: cfg.StateFile,
		Force:     *force,
	}
	if info, err := os.Stat(cfg.InputDir); err == nil && !info.IsDir() {
		runCfg.SingleFile = cfg.InputDir
	} else {
		runCfg.InputDir = cfg.InputDir
	}

	runner := ingest.NewRunner(runCfg, db, ev, slog.Default())

	if *watch {
		if runCfg.InputDir == "" {
			slog.Error("watch mode needs a directory, not a file", "path", cfg.InputDir)
			os.Exit(1)
		}
		if err := runner.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("watch failed", "error", err)
			os.Exit(1)
		}
	} else {
		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("conversion failed", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("chat2md stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
