package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/use-agent/articlereader/api"
	"github.com/use-agent/articlereader/api/handler"
	"github.com/use-agent/articlereader/cleaner"
	"github.com/use-agent/articlereader/config"
	"github.com/use-agent/articlereader/engine"
	"github.com/use-agent/articlereader/firecrawl"
	"github.com/use-agent/articlereader/scraper"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	closeLog := initLogger(cfg.Log)
	defer closeLog()
	slog.Info("articlereader starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"navTimeout", cfg.Reader.NavigationTimeout,
		"httpFirst", cfg.Engine.HTTPFirst,
	)
	if cfg.Fallback.APIKey == "" {
		slog.Warn("FIRECRAWL_API_KEY is not set; challenge pages will fail")
	}

	// ── 3. Initialise scraper (launches browser) ────────────────────
	sc, err := scraper.NewScraper(cfg.Browser, cfg.Reader)
	if err != nil {
		slog.Error("failed to initialise scraper", "error", err)
		os.Exit(1)
	}
	defer sc.Close()

	// ── 3b. Optional HTTP-first dispatcher ──────────────────────────
	var primary handler.PrimaryFetcher = sc
	if cfg.Engine.HTTPFirst {
		// engine/ never imports scraper/; the browser is handed over as a func.
		engines := []engine.Engine{
			engine.NewHTTPEngine(cfg.Engine.HTTPTimeout),
			engine.NewRodEngine(scraper.EngineName, sc.Fetch),
		}
		primary = engine.NewDispatcher(engines, cfg.Engine.EscalationDelays)
		slog.Info("http-first dispatcher enabled",
			"engines", len(engines),
			"delays", cfg.Engine.EscalationDelays,
		)
	}

	// ── 4. Fallback client & cleaner ────────────────────────────────
	fc := firecrawl.New(cfg.Fallback, nil)
	cl := cleaner.NewCleaner()

	// ── 5. Setup router ─────────────────────────────────────────────
	router := api.NewRouter(api.Deps{
		Primary:  primary,
		Fallback: fc,
		Sessions: sc,
		Cleaner:  cl,
	}, cfg, time.Now())

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// sc.Close() runs via defer and kills Chrome.
	slog.Info("articlereader stopped")
}

// initLogger configures slog based on the LogConfig. The returned func
// flushes and closes the log file, if any.
func initLogger(cfg config.LogConfig) func() {
	out, closer := logOutput(cfg, os.Stdout)
	slog.SetDefault(slog.New(newLogHandler(cfg, out)))
	return func() {
		if closer != nil {
			_ = closer.Close()
		}
	}
}

func newLogHandler(cfg config.LogConfig, out io.Writer) slog.Handler {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}

// logOutput tees console output into a size-rotated file when cfg.File is set.
func logOutput(cfg config.LogConfig, console io.Writer) (io.Writer, io.Closer) {
	if cfg.File == "" {
		return console, nil
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return io.MultiWriter(console, rotator), rotator
}
