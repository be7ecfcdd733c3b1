package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/cc-statement-parser/internal/api"
	"github.com/insightdelivered/cc-statement-parser/internal/categorize"
	"github.com/insightdelivered/cc-statement-parser/internal/config"
	"github.com/insightdelivered/cc-statement-parser/internal/extractor"
	"github.com/insightdelivered/cc-statement-parser/internal/extractor/fitz"
	"github.com/insightdelivered/cc-statement-parser/internal/issuer"
	"github.com/insightdelivered/cc-statement-parser/internal/metrics"
	"github.com/insightdelivered/cc-statement-parser/internal/models"
	"github.com/insightdelivered/cc-statement-parser/internal/statement"
	"github.com/insightdelivered/cc-statement-parser/internal/writer"
)

const version = "2.0.0"

// Exit codes.
const (
	exitOK       = 0
	exitError    = 1
	exitDocument = 2 // the input statement is at fault
)

// exitCode maps a parse failure to an exit code. Unreadable, unsupported
// and incomplete statements are problems with the input document.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, models.ErrUnreadableDocument),
		errors.Is(err, models.ErrUnsupportedIssuer),
		errors.Is(err, models.ErrExtractionIncomplete):
		return exitDocument
	default:
		return exitError
	}
}

const usageHeader = `Credit Card Statement PDF Parser
by Insight Delivered (QEA AutoLens)

Converts HDFC, ICICI, Axis, Chase and IDFC FIRST credit card statement PDFs
into JSON or CSV, or serves the same over HTTP with --serve.

Usage:
  cc-statement-parser [flags] <statement.pdf> [statement2.pdf ...]
  cc-statement-parser --serve [--addr :8080]

Examples:
  cc-statement-parser feb.pdf
  cc-statement-parser --format=csv --output-dir=out jan.pdf feb.pdf mar.pdf
  cc-statement-parser --issuer=hdfc statement.pdf

`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, usage, err := config.Load(args, ".env")
	if errors.Is(err, ff.ErrHelp) {
		fmt.Fprint(os.Stderr, usageHeader, usage, "\n")
		return exitOK
	}
	if err != nil {
		fmt.Fprint(os.Stderr, usageHeader, usage, "\n")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitError
	}
	if cfg.Version {
		fmt.Printf("cc-statement-parser v%s\n", version)
		return exitOK
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	reg, err := issuer.Default()
	if err != nil {
		log.Error().Err(err).Msg("loading issuer profiles")
		return exitError
	}
	cat, err := categorize.Default()
	if err != nil {
		log.Error().Err(err).Msg("loading category rules")
		return exitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	if cfg.Serve {
		return serve(ctx, cfg, reg, cat)
	}

	if len(cfg.Files) == 0 {
		fmt.Fprint(os.Stderr, usageHeader, usage, "\n")
		return exitOK
	}
	p := statement.New(reg, cat, statement.WithExtractor(extractor.New(extractor.WithBackend(fitz.Backend{}))))
	return convertAll(ctx, p, cfg)
}

func serve(ctx context.Context, cfg *config.Config, reg *issuer.Registry, cat *categorize.Engine) int {
	rec := metrics.New()
	p := statement.New(reg, cat,
		statement.WithExtractor(extractor.New(extractor.WithBackend(fitz.Backend{}))),
		statement.WithObserver(rec),
	)
	app := api.New(p, api.Options{
		Version:   version,
		BodyLimit: cfg.MaxUploadBytes(),
		Metrics:   rec,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Strs("issuers", reg.Supported()).Msg("listening")
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("server stopped")
		return exitError
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown")
		return exitError
	}
	return exitOK
}

// convertAll converts every input concurrently, bounded by --workers. One
// failing file does not stop the others; the exit code reflects the worst
// failure.
func convertAll(ctx context.Context, p *statement.Parser, cfg *config.Config) int {
	w, err := writer.For(cfg.Format)
	if err != nil {
		log.Error().Err(err).Msg("output format")
		return exitError
	}
	if csvW, ok := w.(*writer.CSVWriter); ok {
		csvW.IncludeHeader = cfg.Header
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			log.Error().Err(err).Str("dir", cfg.OutputDir).Msg("creating output directory")
			return exitError
		}
	}

	codes := make([]int, len(cfg.Files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, path := range cfg.Files {
		g.Go(func() error {
			codes[i] = convertFile(gctx, p, cfg, w, path)
			return nil
		})
	}
	_ = g.Wait()

	code := exitOK
	for _, c := range codes {
		if c == exitDocument || (c == exitError && code == exitOK) {
			code = c
		}
	}
	return code
}

func convertFile(ctx context.Context, p *statement.Parser, cfg *config.Config, w writer.Writer, path string) int {
	logger := log.With().Str("file", path).Logger()

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		logger.Error().Str("ext", ext).Msg("expected a .pdf file")
		return exitError
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error().Err(err).Msg("reading input")
		return exitError
	}

	res, err := p.ParseBytesAs(logger.WithContext(ctx), data, cfg.Issuer)
	if err != nil {
		logger.Error().Err(err).Msg("parsing failed")
		return exitCode(err)
	}

	out := writer.OutputPath(path, cfg.OutputDir, w)
	if err := writer.WriteToFile(w, out, res); err != nil {
		logger.Error().Err(err).Msg("writing output")
		return exitError
	}

	ev := logger.Info().
		Str("issuer", res.Issuer).
		Int("transactions", len(res.Transactions)).
		Str("total_due", res.TotalDue.Display()).
		Float64("confidence", res.Provenance.Confidence).
		Str("output", out)
	if len(res.Transactions) == 0 {
		ev = ev.Bool("empty", true)
	}
	ev.Msg("converted")
	for _, warn := range res.Provenance.Warnings {
		logger.Warn().Str("code", warn.Code).Msg(warn.Message)
	}
	return exitOK
}
