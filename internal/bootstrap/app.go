package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/account"
	"resume-builder/internal/analyses"
	"resume-builder/internal/applications"
	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/contacts"
	"resume-builder/internal/coverletters"
	"resume-builder/internal/documents"
	"resume-builder/internal/extract"
	"resume-builder/internal/jobs"
	"resume-builder/internal/llm"
	"resume-builder/internal/llm/gemini"
	"resume-builder/internal/llm/openai"
	"resume-builder/internal/pdfexport"
	"resume-builder/internal/profiles"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/cache"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/object"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/usage"
	"resume-builder/internal/users"
)

// App holds the wired services. Commands reuse the services without the router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Cache  *cache.Redis
	LLM    llm.Client

	Profiles     *profiles.Service
	Usage        *usage.Service
	Analyses     *analyses.Service
	CoverLetters *coverletters.Service
	Documents    *documents.Service
	PDF          *pdfexport.Service
	Jobs         *jobs.Service
	Applications *applications.Service
	Contacts     *contacts.Service
	Users        *users.Service
	GoogleAuth   *googleauth.GoogleService
	Account      *account.Service
	Health       *health.Service
}

// Build connects storage, picks the LLM provider and wires every handler.
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
	client, err := BuildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Cache:  cache.NewRedis(ctx, cfg.RedisURL, cfg.JobsCacheTTL),
		LLM:    client,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config: cfg,
		Routes: []server.RouteRegistrar{
			app.GoogleAuth,
			users.NewHandler(app.Users),
			profiles.NewHandler(app.Profiles),
			analyses.NewHandler(app.Analyses, app.Profiles),
			coverletters.NewHandler(app.CoverLetters, app.Profiles),
			extract.NewHandler(),
			documents.NewHandler(app.Documents, app.Profiles),
			pdfexport.NewHandler(app.PDF, app.Profiles),
			jobs.NewHandler(app.Jobs, app.Profiles),
			applications.NewHandler(app.Applications),
			contacts.NewHandler(app.Contacts),
			usage.NewHandler(app.Usage),
			account.NewHandler(app.Account),
		},
		DevRoutes: []func(*gin.RouterGroup){usage.NewHandler(app.Usage).RegisterDevRoutes},
		Health:    app.Health.Status,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultLambdaOptions()))
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	}
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, s3store.Options{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			KMSKeyID:        cfg.SSEKMSKeyID,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// BuildLLM returns the configured provider wrapped with retries and metrics.
// Missing credentials fall back to a client that reports llm_unavailable in
// dev-like environments and fail startup elsewhere.
func BuildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	var (
		base llm.Client
		err  error
	)
	switch cfg.LLMProvider {
	case "openai":
		base, err = openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	case "gemini":
		base, err = gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	default:
		return llm.PlaceholderClient{}, nil
	}
	if err != nil {
		if !config.IsDevLike(cfg.Env) {
			return nil, fmt.Errorf("llm provider %s: %w", cfg.LLMProvider, err)
		}
		telemetry.Warn("bootstrap.llm_unavailable", map[string]any{"provider": cfg.LLMProvider, "error": err})
		return llm.PlaceholderClient{}, nil
	}
	return llm.Instrument(llm.WithRetry(base), cfg.LLMProvider, cfg.LLMModel), nil
}

func buildServices(app *App) {
	cfg := app.Config

	var (
		profileRepo     profiles.Repo
		analysisRepo    analyses.Repo
		documentRepo    documents.Repo
		applicationRepo applications.Repo
		contactRepo     contacts.Repo
		userRepo        users.Repo
	)
	if app.DB != nil {
		profileRepo = &profiles.PGRepo{DB: app.DB}
		analysisRepo = &analyses.PGRepo{DB: app.DB}
		documentRepo = &documents.PGRepo{DB: app.DB}
		applicationRepo = &applications.PGRepo{DB: app.DB}
		contactRepo = &contacts.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
		app.Usage = usage.NewPostgresService(app.DB, cfg.UsageLimit)
		app.Account = &account.Service{DB: app.DB}
	} else {
		memProfiles := profiles.NewMemoryRepo()
		memAnalyses := analyses.NewMemoryRepo()
		memDocuments := documents.NewMemoryRepo()
		memApplications := applications.NewMemoryRepo()
		memContacts := contacts.NewMemoryRepo()
		profileRepo, analysisRepo, documentRepo = memProfiles, memAnalyses, memDocuments
		applicationRepo, contactRepo = memApplications, memContacts
		userRepo = users.NewMemoryRepo()
		app.Usage = usage.NewService(cfg.UsageLimit)
		app.Account = &account.Service{
			Documents:    memDocuments,
			Analyses:     memAnalyses,
			Applications: memApplications,
			Contacts:     memContacts,
			Profile:      memProfiles,
		}
	}

	runner := &analyses.Runner{LLM: app.LLM, Usage: app.Usage}
	app.Profiles = profiles.NewService(profileRepo)
	app.Analyses = &analyses.Service{
		Runner:   runner,
		Repo:     analysisRepo,
		Provider: cfg.LLMProvider,
		Model:    cfg.LLMModel,
	}
	app.CoverLetters = coverletters.NewService(runner)
	app.Documents = &documents.Service{
		Store:           app.Store,
		StorageProvider: cfg.ObjectStoreType,
		Repo:            documentRepo,
		Analyses:        app.Analyses,
	}

	app.PDF = &pdfexport.Service{Printer: pdfexport.NewChromePrinter(cfg.ChromePath, cfg.PDFTimeout)}
	if cfg.StoreExports {
		app.PDF.Store = app.Store
	}

	app.Contacts = contacts.NewService(contactRepo)
	app.Applications = applications.NewService(applicationRepo)
	app.Jobs = &jobs.Service{
		Providers: []jobs.Provider{
			jobs.NewRemotive(cfg.RemotiveBaseURL, nil),
			jobs.NewTheirStack(cfg.TheirStackBaseURL, cfg.TheirStackToken, nil),
		},
		Cache:       app.Cache,
		CacheTTL:    cfg.JobsCacheTTL,
		Connections: app.Contacts,
		Scraper:     &jobs.Scraper{},
	}

	app.Users = users.NewService(userRepo)
	app.GoogleAuth = googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		app.Users,
	)
	app.Health = &health.Service{
		DB:          app.DB,
		Cache:       app.Cache,
		LLMProvider: cfg.LLMProvider,
		Storage:     cfg.ObjectStoreType,
	}
}
