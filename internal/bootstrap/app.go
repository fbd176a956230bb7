package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"portal-backend/internal/credentials"
	"portal-backend/internal/ingestion"
	"portal-backend/internal/profiles"
	"portal-backend/internal/provider"
	"portal-backend/internal/shared/config"
	"portal-backend/internal/shared/server"
	"portal-backend/internal/shared/storage/db"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	ProfilesRepo     profiles.Repo
	ProfilesService  *profiles.Service
	IngestionService *ingestion.Service

	ProfileHandler *profiles.Handler
	IngestHandler  *ingestion.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		IngestHandler:  app.IngestHandler,
		ProfileHandler: app.ProfileHandler,
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
	return sqlDB, nil
}

func buildServices(app *App) {
	var repo profiles.Repo
	if app.DB != nil {
		repo = &profiles.PGRepo{DB: app.DB}
	} else {
		repo = profiles.NewMemoryRepo()
	}

	resolver := buildResolver(app)

	cfg := app.Config
	ingestSvc := &ingestion.Service{
		Repo:     repo,
		Resolver: resolver,
		NewDirect: func(credential string) ingestion.DirectParser {
			client := provider.NewClient(cfg.ParserBaseURL, cfg.ParserCollection, credential, cfg.ParserTimeout)
			if client == nil {
				return nil
			}
			return client
		},
		Notifier: ingestion.TelemetryNotifier{},
	}
	if proxy := provider.NewProxyClient(cfg.EdgeParseURL, cfg.EdgeTimeout); proxy != nil {
		ingestSvc.Proxy = proxy
	}

	profileSvc := profiles.NewService(repo)

	app.ProfilesRepo = repo
	app.ProfilesService = profileSvc
	app.IngestionService = ingestSvc
	app.ProfileHandler = profiles.NewHandler(profileSvc)
	app.IngestHandler = ingestion.NewHandler(ingestSvc)
}

// buildResolver assembles the credential chain: explicit override, the
// configured primary secret, the database-stored secret, and last the
// non-production fallback.
func buildResolver(app *App) *credentials.Resolver {
	sources := []credentials.Source{
		credentials.NewStaticSource("override", app.Config.ParserKeyOverride),
		credentials.NewStaticSource("config", app.Config.ParserAPIKey),
	}
	if app.DB != nil {
		sources = append(sources, credentials.NewPGSource(app.DB))
	}
	if strings.TrimSpace(app.Config.ParserFallbackKey) != "" {
		sources = append(sources, credentials.NewFallbackSource(app.Config.ParserFallbackKey))
	}
	return credentials.NewResolver(sources...)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
