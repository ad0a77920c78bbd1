package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdfqa/internal/answer"
	"pdfqa/internal/api"
	"pdfqa/internal/config"
	"pdfqa/internal/documents"
	"pdfqa/internal/logging"
	"pdfqa/internal/providers"
	"pdfqa/internal/storage"
	"pdfqa/internal/util"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("pdfqa api stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if err := util.EnsureDir(cfg.PDFDir); err != nil {
		return err
	}

	pm, err := providers.NewManager(cfg, logger)
	if err != nil {
		return err
	}

	var storeOpts []documents.StoreOption
	if cfg.TextCache {
		cache := documents.NewTextCache()
		storeOpts = append(storeOpts, documents.WithCache(cache))
		w, err := documents.NewWatcher(cfg.PDFDir, cache, logger)
		if err != nil {
			logger.Warn("pdf watcher disabled", zap.Error(err))
		} else {
			defer func() { _ = w.Close() }()
			go w.Run(ctx)
		}
	}
	store := documents.NewStore(cfg.PDFDir, documents.NewPDFExtractor(), logger, storeOpts...)

	resolverOpts := []answer.Option{answer.WithUnauthorizedPolicy(cfg.OnUnauthorized)}
	if cfg.PostgresURL != "" {
		dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		db, err := storage.NewDB(dbCtx, cfg.PostgresURL)
		if err == nil {
			err = storage.EnsureSchema(dbCtx, db.Pool)
		}
		cancel()
		if err != nil {
			return err
		}
		defer db.Close()
		resolverOpts = append(resolverOpts, answer.WithAuditor(storage.NewLLMAuditRepo(db.Pool)))
	}
	resolver := answer.NewResolver(pm.Candidates(), logger, resolverOpts...)

	names, err := store.Names(ctx)
	if err != nil {
		logger.Warn("initial pdf listing failed", zap.Error(err))
	}
	primary, _ := pm.Primary()
	logger.Info("pdfqa api starting",
		zap.String("addr", cfg.Addr()),
		zap.String("pdf_dir", cfg.PDFDir),
		zap.Int("pdf_count", len(names)),
		zap.Bool("api_key_configured", primary.KeyConfigured),
		zap.String("api_key_prefix", logging.KeyPrefix(cfg.APIKey(primary.Ref.Name))),
		zap.String("primary_model", primary.Ref.Model),
		zap.Int("candidates", pm.Count()),
		zap.String("on_unauthorized", resolver.Policy()),
		zap.Bool("text_cache", cfg.TextCache),
		zap.Bool("audit", cfg.PostgresURL != ""),
	)

	srv := api.NewServer(cfg, api.Deps{
		Store:     store,
		Assembler: documents.NewAssembler(store, logger),
		Resolver:  resolver,
		Providers: pm,
		Logger:    logger,
	})
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
