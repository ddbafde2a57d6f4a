package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/PabloGalante/farum-journal/internal/adapters/http"
	"github.com/PabloGalante/farum-journal/internal/adapters/inference"
	firestorestore "github.com/PabloGalante/farum-journal/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/farum-journal/internal/adapters/storage/memory"
	sqlitestore "github.com/PabloGalante/farum-journal/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/farum-journal/internal/app/analysis"
	"github.com/PabloGalante/farum-journal/internal/app/journal"
	"github.com/PabloGalante/farum-journal/internal/config"
	"github.com/PabloGalante/farum-journal/internal/domain"
	"github.com/PabloGalante/farum-journal/internal/observability"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	observability.Init(observability.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer observability.Sync()
	log := observability.Logger()

	ctx := context.Background()

	store, closeStore, err := newJournalStore(ctx, cfg)
	if err != nil {
		log.Fatalw("error initializing journal store", "backend", cfg.StorageBackend, "error", err)
	}
	defer closeStore.Close()

	classifier, err := newClassifier(ctx, cfg)
	if err != nil {
		log.Fatalw("error initializing classifier", "provider", cfg.Inference.Provider, "error", err)
	}

	inferenceClient := inference.NewClient(inference.Config{
		SentimentURL: cfg.Inference.SentimentURL,
		EmotionURL:   cfg.Inference.EmotionURL,
		Credential:   cfg.Inference.Credential,
		Timeout:      cfg.Inference.Timeout,
	}, classifier, log.With("component", "inference"))

	if cfg.Inference.Credential == "" {
		log.Warnw("no inference credential configured, analysis will use neutral defaults")
	}

	journalSvc := journal.NewService(store)
	analysisSvc := analysis.NewService(inferenceClient, store)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpadapter.NewServer(journalSvc, analysisSvc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Farum journal API listening",
			"port", cfg.Port,
			"mode", cfg.Mode,
			"storage", cfg.StorageBackend,
			"inference", cfg.Inference.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newJournalStore(ctx context.Context, cfg *config.Config) (domain.JournalStore, io.Closer, error) {
	switch cfg.StorageBackend {
	case config.StorageFirestore:
		observability.Logger().Infow("using Firestore storage", "project", cfg.GCPProjectID)
		s, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	case config.StorageSQLite:
		observability.Logger().Infow("using SQLite storage", "path", cfg.SQLitePath)
		s, err := sqlitestore.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	default:
		observability.Logger().Infow("using in-memory storage")
		return memstore.NewJournalStore(), nopCloser{}, nil
	}
}

func newClassifier(ctx context.Context, cfg *config.Config) (domain.Classifier, error) {
	ic := cfg.Inference

	switch ic.Provider {
	case config.ProviderHTTP:
		return inference.NewHTTPClassifier(inference.Config{
			SentimentURL: ic.SentimentURL,
			EmotionURL:   ic.EmotionURL,
			Credential:   ic.Credential,
		}, nil), nil

	case config.ProviderVertex:
		return inference.NewVertexClassifier(ctx, cfg.GCPProjectID, cfg.GCPLocation, ic.Model)

	case config.ProviderOpenAI:
		return inference.NewOpenAIClassifier(ic.Credential, "", ic.Model), nil

	default:
		return inference.NewMockClassifier(), nil
	}
}
