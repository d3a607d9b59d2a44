package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/config"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/database"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/events"
	adminsettings "github.com/FoxxDev-Collab/pricefeed-app/internal/handlers/admin/settings"
	adminuser "github.com/FoxxDev-Collab/pricefeed-app/internal/handlers/admin/user"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/handlers/auth"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/handlers/public"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/repository"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/routes"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/services"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/jwt"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/secret"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Initialize debug package first with default settings
	debug.Reinitialize()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			debug.Warning("No .env file found, using environment variables")
		}
	}

	// Reinitialize debug package with environment variables
	debug.Reinitialize()

	appConfig := config.NewConfig()
	if err := appConfig.Validate(); err != nil {
		debug.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	sqlDB, err := database.Connect(appConfig.Database)
	if err != nil {
		debug.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB.DB); err != nil {
		debug.Error("Failed to run migrations: %v", err)
		os.Exit(1)
	}

	box, err := secret.NewBox(appConfig.SettingsKey)
	if err != nil {
		debug.Error("Failed to initialize settings encryption: %v", err)
		os.Exit(1)
	}

	settingsRepo := repository.NewSystemSettingsRepository(sqlDB)
	userRepo := repository.NewUserRepository(sqlDB)

	// Missing defaults are inserted; existing values are left alone.
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), appConfig.SettingsReloadTimeout)
	if _, err := database.SeedDefaults(seedCtx, settingsRepo); err != nil {
		debug.Warning("Failed to seed default settings: %v", err)
	}
	cancelSeed()

	store := settings.New(settingsRepo, appConfig.SettingsOptions())
	defer store.Close()

	// The server starts even when the first load fails; reads retry.
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), appConfig.SettingsReloadTimeout)
	if err := store.Warm(warmCtx); err != nil {
		debug.Warning("Initial settings load failed, will retry on demand: %v", err)
	}
	cancelWarm()

	var publisher events.Publisher = &events.NoopPublisher{}
	if appConfig.NATSURL != "" {
		natsPub, err := events.NewNATSPublisher(appConfig.NATSURL)
		if err != nil {
			debug.Error("Failed to connect publisher to NATS: %v", err)
			os.Exit(1)
		}
		publisher = natsPub

		sub, err := events.NewNATSSubscriber(appConfig.NATSURL)
		if err != nil {
			debug.Error("Failed to connect subscriber to NATS: %v", err)
			os.Exit(1)
		}
		defer sub.Close()

		stop, err := events.ListenForInvalidations(sub, appConfig.InstanceID, store)
		if err != nil {
			debug.Error("Failed to subscribe to settings invalidations: %v", err)
			os.Exit(1)
		}
		defer stop()
		debug.Info("Settings invalidations shared over NATS as instance %s", appConfig.InstanceID)
	}
	defer publisher.Close()

	lockoutService := services.NewLockoutService(userRepo, store, settings.SystemClock{}, appConfig.CounterTimeout)
	reputationService := services.NewReputationService(userRepo, store, appConfig.CounterTimeout)
	priceService := services.NewPriceTrustService(store, settings.SystemClock{})
	settingsService := services.NewSettingsService(settingsRepo, store, publisher, box, appConfig.InstanceID)

	jobs := services.NewMaintenanceJobs(userRepo, store, settings.SystemClock{}, 0)
	if err := jobs.Schedule(appConfig.LockoutSweepSchedule, appConfig.SettingsWarmSchedule); err != nil {
		debug.Error("Failed to schedule maintenance jobs: %v", err)
		os.Exit(1)
	}
	jobs.Start()

	router := mux.NewRouter()
	routes.SetupRoutes(router, routes.Dependencies{
		Config:         store,
		Validator:      jwt.NewValidator(appConfig.JWTSecret),
		FallbackOrigin: appConfig.CORSOrigin,
		Settings:       adminsettings.NewSettingsHandler(settingsService),
		Users:          adminuser.NewUserHandler(lockoutService, reputationService),
		Public:         public.NewHandler(reputationService, priceService),
		Auth:           auth.NewHandler(lockoutService),
	})

	httpServer := &http.Server{
		Addr:              appConfig.GetAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to wait for server errors
	serverErr := make(chan error, 1)
	go func() {
		debug.Info("Starting HTTP server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		debug.Error("Server error: %v", err)
	case sig := <-sigChan:
		debug.Info("Received signal: %v", sig)
	}

	debug.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), appConfig.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		debug.Error("Error during HTTP server shutdown: %v", err)
	}
	jobs.Stop(ctx)
	debug.Info("Server shutdown complete")
}
