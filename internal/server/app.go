// Package server initializes and runs the main application server. It opens
// the database, applies migrations, wires the services to the analysis
// client, cache and archive, and serves the HTTP API until a shutdown signal
// arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	gocache "github.com/patrickmn/go-cache"

	"github.com/truthlens/truthlens/internal/llm"
	"github.com/truthlens/truthlens/internal/logging"
	"github.com/truthlens/truthlens/internal/server/archive"
	"github.com/truthlens/truthlens/internal/server/config"
	"github.com/truthlens/truthlens/internal/server/httpapi"
	"github.com/truthlens/truthlens/internal/server/repositories/repomanager"
	"github.com/truthlens/truthlens/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	client, err := llm.NewClient(llm.Config{
		Provider: cfg.AnalysisProvider,
		Model:    cfg.AnalysisModel,
		APIKey:   cfg.AnalysisAPIKey,
		BaseURL:  cfg.AnalysisBaseURL,
		Timeout:  cfg.AnalysisTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis client error: %w", err)
	}

	var cache *gocache.Cache
	if cfg.AnalysisCacheTTL > 0 {
		cache = gocache.New(cfg.AnalysisCacheTTL, 2*cfg.AnalysisCacheTTL)
	}

	var archiver services.Archiver
	if cfg.ArchiveEnabled {
		archiver = archive.NewS3Archiver(archive.Config{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	}

	sentenceService := services.NewSentenceService(db, rm, logger)
	documentService := services.NewDocumentService(db, rm, sentenceService, logger)
	analysisService := services.NewAnalysisService(db, rm, sentenceService, client, cache, archiver, logger)
	correctionService := services.NewCorrectionService(db, rm, sentenceService, logger)
	userService := services.NewUserService(db, rm, cfg)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		JWTSecret:   []byte(cfg.SecretKey),
		CORSOrigins: cfg.CORSOrigins,
		Users:       httpapi.NewUserHandler(userService),
		Documents:   httpapi.NewDocumentHandler(documentService, sentenceService, analysisService),
		Corrections: httpapi.NewCorrectionHandler(correctionService),
		Health:      httpapi.NewHealthHandler(db, client),
	})

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		router: httpapi.NewServer(cfg.EndpointAddrHTTP, router, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.router.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
