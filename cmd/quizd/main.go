package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/mind-engage/mindengage-quiz/internal/api/http"
	"github.com/mind-engage/mindengage-quiz/internal/config"
	"github.com/mind-engage/mindengage-quiz/internal/db"
	"github.com/mind-engage/mindengage-quiz/internal/grading"
	"github.com/mind-engage/mindengage-quiz/internal/ingest"
	"github.com/mind-engage/mindengage-quiz/internal/session"
	storage "github.com/mind-engage/mindengage-quiz/internal/storage"
	syncx "github.com/mind-engage/mindengage-quiz/internal/sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	dropBlobs := func(id string) {
		if err := api.DropSessionBlobs(bs, id); err != nil {
			log.Printf("drop blobs for %s: %v", id, err)
		}
	}

	// --- Sessions ---
	policy := session.Policy{TTL: cfg.SessionTTL, MaxSessions: cfg.SessionMax}
	var (
		store  session.Store
		events syncx.Log
		dbh    *sql.DB
	)
	switch {
	case cfg.UsesDB():
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		dbh, err = db.Open(ctx, db.Driver(cfg.SessionDriver), cfg.DBDSN)
		cancel()
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		defer dbh.Close()
		store = session.NewSQLStore(dbh, policy, session.WithOnRemove(dropBlobs))
		events = syncx.NewEventRepo(dbh, cfg.SiteID)
	case cfg.SessionDriver == "memory":
		store = session.NewMemoryStore(policy, session.WithOnRemove(dropBlobs))
	default:
		log.Fatalf("unsupported SESSION_DRIVER %q", cfg.SessionDriver)
	}

	grader := grading.NewGrader(
		grading.WithTolerance(cfg.ScoreTolerance),
		grading.WithIntegerTruncation(cfg.ScoreTruncateIntegers),
	)
	builder := &ingest.Builder{Extractor: ingest.PDFToText{Bin: cfg.PDFToText}}
	if cfg.RenderFigures {
		builder.Renderer = ingest.PDFToPPM{Bin: cfg.PDFToPPM, DPI: cfg.FigureDPI}
		builder.Blobs = bs
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api.Mount(r, api.Deps{
		Store:          store,
		Grader:         grader,
		Builder:        builder,
		Blobs:          bs,
		Events:         events,
		MaxUploadBytes: cfg.MaxUploadMB << 20,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SessionSweepInterval > 0 {
		go session.RunSweeper(ctx, store, cfg.SessionSweepInterval)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	log.Printf("listening on %s (sessions=%s, ttl=%s, max=%d)", cfg.HTTPAddr, cfg.SessionDriver, cfg.SessionTTL, cfg.SessionMax)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
