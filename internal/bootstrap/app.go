package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"algomate-backend/internal/analyses"
	"algomate-backend/internal/extract"
	"algomate-backend/internal/fetch"
	"algomate-backend/internal/llm"
	"algomate-backend/internal/llm/gemini"
	"algomate-backend/internal/ocr"
	"algomate-backend/internal/queue"
	"algomate-backend/internal/shared/config"
	"algomate-backend/internal/shared/server"
	"algomate-backend/internal/shared/storage/db"
	"algomate-backend/internal/shared/storage/object"
	localstore "algomate-backend/internal/shared/storage/object/local"
	s3store "algomate-backend/internal/shared/storage/object/s3"
)

const fetchTimeout = 30 * time.Second

// App holds the wired dependency graph shared by the API server and the
// queue worker.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	AnalysesRepo    analyses.Repo
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		AnalysisHandler: app.AnalysisHandler,
		DBConnected:     app.DB != nil,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.SQSQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func buildServices(app *App) error {
	var repo analyses.Repo
	if app.DB != nil {
		repo = &analyses.PGRepo{DB: app.DB}
	} else {
		repo = analyses.NewMemoryRepo()
	}

	var llmClient llm.Client = llm.Unconfigured{}
	if app.Config.AIConfigured() {
		client, err := gemini.NewClient(app.Config.GeminiAPIKey, app.Config.GeminiModel)
		if err != nil {
			return err
		}
		llmClient = client
	} else {
		if app.Config.Env == "production" {
			return fmt.Errorf("GEMINI_API_KEY is required in production")
		}
		log.Printf("bootstrap: GEMINI_API_KEY empty; analyses use the heuristic fallback")
	}

	var engine ocr.Engine
	if app.Config.OCRConfigured() {
		httpEngine, err := ocr.NewHTTPEngine(app.Config.OCREndpoint, app.Config.OCRAPIKey)
		if err != nil {
			return err
		}
		engine = httpEngine
	} else {
		log.Printf("bootstrap: OCR_ENDPOINT empty; image uploads will fail extraction")
	}

	extractor := &extract.Extractor{
		Fetch: fetch.NewClient(fetchTimeout),
		OCR:   engine,
		Store: app.Store,
	}

	svc := analyses.NewService(repo, extractor, analyses.NewOrchestrator(llmClient), app.Queue)

	app.AnalysesRepo = repo
	app.AnalysesService = svc
	app.AnalysisHandler = analyses.NewHandler(svc)
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
