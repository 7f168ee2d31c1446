package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/templui/portfolio/internal/cache"
	"github.com/templui/portfolio/internal/config"
	"github.com/templui/portfolio/internal/db"
	"github.com/templui/portfolio/internal/markdown"
	"github.com/templui/portfolio/internal/realtime"
	"github.com/templui/portfolio/internal/repository"
	"github.com/templui/portfolio/internal/service"
	"github.com/templui/portfolio/internal/storage"
)

type App struct {
	Cfg     *config.Config
	DB      *sqlx.DB
	Storage storage.Storage
	Cache   cache.Store
	Bus     realtime.Bus
	Hub     *realtime.Hub

	AuthService        *service.AuthService
	UserService        *service.UserService
	ProfileService     *service.ProfileService
	ProjectService     *service.ProjectService
	CertificateService *service.CertificateService
	DSAProblemService  *service.DSAProblemService
	PortfolioService   *service.PortfolioService
	ContactService     *service.ContactService
	EmailService       *service.EmailService
	FileService        *service.FileService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(context.Background(), database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Build(cfg, database, fileStorage, newStore(cfg), newBus(cfg)), nil
}

// Build wires repositories and services on top of already opened backends.
func Build(cfg *config.Config, database *sqlx.DB, fileStorage storage.Storage, store cache.Store, bus realtime.Bus) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	projectRepository := repository.NewProjectRepository(database)
	certificateRepository := repository.NewCertificateRepository(database)
	problemRepository := repository.NewDSAProblemRepository(database)

	query := cache.NewQuery(store, cfg.CacheTTL)

	// Services
	emailService := service.NewEmailService(cfg.ResendAPIKey, cfg.IsDevelopment())
	fileService := service.NewFileService(fileStorage)
	authService := service.NewAuthService(
		userRepository,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.IsProduction(),
		cfg.AllowSignup,
	)
	userService := service.NewUserService(userRepository)
	profileService := service.NewProfileService(profileRepository, fileService, query, bus)
	projectService := service.NewProjectService(projectRepository, fileService, query, bus)
	certificateService := service.NewCertificateService(certificateRepository, fileService, query, bus)
	problemService := service.NewDSAProblemService(problemRepository, query, bus)
	portfolioService := service.NewPortfolioService(profileService, projectService, certificateService, problemService, markdown.NewParser())
	contactService := service.NewContactService(emailService, cfg.EmailFrom, cfg.ContactOwnerEmail, cfg.ContactOwnerName)

	return &App{
		Cfg:     cfg,
		DB:      database,
		Storage: fileStorage,
		Cache:   store,
		Bus:     bus,
		Hub:     realtime.NewHub(),

		AuthService:        authService,
		UserService:        userService,
		ProfileService:     profileService,
		ProjectService:     projectService,
		CertificateService: certificateService,
		DSAProblemService:  problemService,
		PortfolioService:   portfolioService,
		ContactService:     contactService,
		EmailService:       emailService,
		FileService:        fileService,
	}
}

func newStore(cfg *config.Config) cache.Store {
	if cfg.RedisAddr == "" {
		return cache.NewMemory()
	}
	return cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
}

func newBus(cfg *config.Config) realtime.Bus {
	if cfg.RedisAddr == "" {
		return realtime.NewLocalBus()
	}

	bus, err := realtime.NewRedisBus(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisChannel)
	if err != nil {
		slog.Warn("redis bus unavailable, realtime stays in process", "error", err)
		return realtime.NewLocalBus()
	}
	return bus
}

// Start ensures the site owner exists and runs the realtime fan-out until ctx
// is cancelled.
func (a *App) Start(ctx context.Context) error {
	owner, err := a.AuthService.EnsureOwner(ctx, a.Cfg.SiteOwnerEmail, a.Cfg.SiteOwnerPassword)
	if err != nil {
		return fmt.Errorf("failed to bootstrap site owner: %w", err)
	}

	defaultOwner := owner.ID
	if a.Cfg.SiteOwnerID != "" {
		defaultOwner = a.Cfg.SiteOwnerID
	}
	a.ProfileService.SetDefaultOwner(defaultOwner)
	slog.Info("site owner ready", "user_id", owner.ID, "default_profile", defaultOwner)

	go a.Hub.Run(ctx)

	err = a.Bus.StartForwarder(ctx, a.Hub.Broadcast)
	if err != nil {
		return fmt.Errorf("failed to start realtime forwarder: %w", err)
	}

	return nil
}

func (a *App) Close() error {
	var errs []error

	if a.Bus != nil {
		errs = append(errs, a.Bus.Close())
	}
	if closer, ok := a.Cache.(interface{ Close() error }); ok {
		errs = append(errs, closer.Close())
	}
	if a.DB != nil {
		errs = append(errs, db.Close(a.DB))
	}

	return errors.Join(errs...)
}
