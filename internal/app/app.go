package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/murmurlabs/murmur/internal/config"
	"github.com/murmurlabs/murmur/internal/db"
	"github.com/murmurlabs/murmur/internal/repository"
	"github.com/murmurlabs/murmur/internal/service"
	"github.com/murmurlabs/murmur/internal/storage"
)

// App is the explicit composition root: every collaborator is constructed
// here and handed down, no package-level client handles.
type App struct {
	Cfg *config.Config
	DB  *sqlx.DB

	UserRepository    repository.UserRepository
	ProfileRepository repository.ProfileRepository

	AuthService      *service.AuthService
	ProfileService   *service.ProfileService
	JournalService   *service.JournalService
	AccessService    *service.AccessService
	RecordingService *service.RecordingService
	SummaryService   *service.SummaryService
	EmailService     *service.EmailService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	kvRepository := repository.NewKVRepository(database)

	// Audio storage
	audioStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio storage: %v", err)
	}

	// Services
	authService := service.NewAuthService(userRepository, profileRepository, cfg.JWTSecret, cfg.JWTExpiry)
	profileService := service.NewProfileService(profileRepository)
	journalService := service.NewJournalService(kvRepository)
	accessService := service.NewAccessService(profileRepository)
	transcriberService := service.NewTranscriberService(cfg.TranscriberURL, cfg.TranscriberAPIKey, cfg.IsDevelopment())
	recordingService := service.NewRecordingService(journalService, accessService, transcriberService, audioStorage)
	summaryService := service.NewSummaryService(kvRepository, journalService)
	emailService := service.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppName, cfg.IsDevelopment())

	return &App{
		Cfg:               cfg,
		DB:                database,
		UserRepository:    userRepository,
		ProfileRepository: profileRepository,
		AuthService:       authService,
		ProfileService:    profileService,
		JournalService:    journalService,
		AccessService:     accessService,
		RecordingService:  recordingService,
		SummaryService:    summaryService,
		EmailService:      emailService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
