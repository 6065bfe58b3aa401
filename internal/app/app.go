package app

import (
	"time"

	"painlog/config"
	"painlog/internal/access"
	"painlog/internal/database"
	"painlog/internal/events"
	"painlog/internal/handlers/middleware"
	"painlog/internal/logger"
	"painlog/internal/repositories"
	"painlog/internal/services"

	analyticsController "painlog/internal/controllers/analytics"
	caregiverController "painlog/internal/controllers/caregiver"
	medicationController "painlog/internal/controllers/medication"
	painEntryController "painlog/internal/controllers/painEntry"
	therapyController "painlog/internal/controllers/therapy"
	voiceController "painlog/internal/controllers/voice"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	EventBus   *events.EventBus
	Config     config.Config

	// Services
	TransactionService *services.TransactionService
	TrendCacheService  *services.TrendCacheService
	AccessModel        *access.Model

	// Repositories
	PainEntryRepo       repositories.PainEntryRepository
	MedicationRepo      repositories.MedicationRepository
	TherapyRepo         repositories.TherapyRepository
	CaregiverAccessRepo repositories.CaregiverAccessRepository

	// Controllers
	PainEntryController  *painEntryController.PainEntryController
	MedicationController *medicationController.MedicationController
	TherapyController    *therapyController.TherapyController
	CaregiverController  *caregiverController.CaregiverController
	AnalyticsController  *analyticsController.AnalyticsController
	VoiceController      *voiceController.VoiceController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	logger.SetupDefault(config.LogLevel, config.LogFormat)

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	app, err := NewWithDatabase(config, db)
	if err != nil {
		_ = db.Close()
		return &App{}, err
	}

	return app, nil
}

// NewWithDatabase wires the application around an already opened database.
func NewWithDatabase(config config.Config, db database.DB) (*App, error) {
	log := logger.New("app").Function("NewWithDatabase")

	eventBus := events.New(db.Cache.Events, config)

	// Initialize services
	transactionService := services.NewTransactionService(db)
	trendCacheService := services.NewTrendCacheService(
		db.Cache.General,
		time.Duration(config.CacheTrendsTTLSeconds)*time.Second,
	)

	// Initialize repositories
	painEntryRepo := repositories.NewPainEntry(db)
	medicationRepo := repositories.NewMedication(db)
	therapyRepo := repositories.NewTherapy(db)
	caregiverAccessRepo := repositories.NewCaregiverAccess(db)

	accessModel := access.New(caregiverAccessRepo)

	// Initialize controllers with repositories and services
	painEntries := painEntryController.New(
		painEntryRepo,
		accessModel,
		transactionService,
		trendCacheService,
		eventBus,
	)

	app := &App{
		Database:             db,
		Config:               config,
		Middleware:           middleware.New(config),
		EventBus:             eventBus,
		TransactionService:   transactionService,
		TrendCacheService:    trendCacheService,
		AccessModel:          accessModel,
		PainEntryRepo:        painEntryRepo,
		MedicationRepo:       medicationRepo,
		TherapyRepo:          therapyRepo,
		CaregiverAccessRepo:  caregiverAccessRepo,
		PainEntryController:  painEntries,
		MedicationController: medicationController.New(medicationRepo, accessModel, transactionService, eventBus),
		TherapyController:    therapyController.New(therapyRepo, accessModel, transactionService, eventBus),
		CaregiverController:  caregiverController.New(caregiverAccessRepo, accessModel, transactionService, eventBus),
		AnalyticsController:  analyticsController.New(painEntryRepo, accessModel, trendCacheService),
		VoiceController:      voiceController.New(painEntries, accessModel, eventBus),
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []struct {
		name  string
		isNil bool
	}{
		{"EventBus", a.EventBus == nil},
		{"TransactionService", a.TransactionService == nil},
		{"TrendCacheService", a.TrendCacheService == nil},
		{"AccessModel", a.AccessModel == nil},
		{"PainEntryRepo", a.PainEntryRepo == nil},
		{"MedicationRepo", a.MedicationRepo == nil},
		{"TherapyRepo", a.TherapyRepo == nil},
		{"CaregiverAccessRepo", a.CaregiverAccessRepo == nil},
		{"PainEntryController", a.PainEntryController == nil},
		{"MedicationController", a.MedicationController == nil},
		{"TherapyController", a.TherapyController == nil},
		{"CaregiverController", a.CaregiverController == nil},
		{"AnalyticsController", a.AnalyticsController == nil},
		{"VoiceController", a.VoiceController == nil},
	}

	for _, check := range nilChecks {
		if check.isNil {
			return log.Error("nil check failed", "component", check.name)
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
