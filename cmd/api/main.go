package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/config"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/settings"
	appHTTP "github.com/cmlabs-hris/hourbank-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/notify"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/repository/sqlite"
	hourBankService "github.com/cmlabs-hris/hourbank-backend-go/internal/service/hourbank"
	punchService "github.com/cmlabs-hris/hourbank-backend-go/internal/service/punch"
	reportService "github.com/cmlabs-hris/hourbank-backend-go/internal/service/report"
	settingsService "github.com/cmlabs-hris/hourbank-backend-go/internal/service/settings"
)

type repositories struct {
	punch    punch.PunchRepository
	hourBank hourbank.HourBankRepository
	settings settings.SettingsRepository
	close    func()
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &repositories{
			punch:    sqlite.NewPunchRepository(db),
			hourBank: sqlite.NewHourBankRepository(db),
			settings: sqlite.NewSettingsRepository(db),
			close:    func() { db.Close() },
		}, nil
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, err
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &repositories{
			punch:    postgresql.NewPunchRepository(db),
			hourBank: postgresql.NewHourBankRepository(db),
			settings: postgresql.NewSettingsRepository(db),
			close:    db.Close,
		}, nil
	}
}

// prepareSettings seeds the default work hours and imports the holiday calendar when
// configured to.
func prepareSettings(ctx context.Context, cfg *config.Config, svc settings.SettingsService) error {
	if cfg.App.SeedDefaultSettings {
		seeded, err := svc.SeedDefaults(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed default settings: %w", err)
		}
		if seeded {
			slog.Info("Seeded default work hours")
		}
	}

	if cfg.Schedule.HolidaysFile != "" {
		f, err := os.Open(cfg.Schedule.HolidaysFile)
		if err != nil {
			return fmt.Errorf("failed to open holidays file: %w", err)
		}
		defer f.Close()

		count, err := svc.ImportHolidays(ctx, f)
		if err != nil {
			return fmt.Errorf("failed to import holidays: %w", err)
		}
		slog.Info("Imported holidays", "file", cfg.Schedule.HolidaysFile, "count", count)
	}

	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer repos.close()

	m := metrics.New()

	publisher, err := events.NewPublisher(events.Config{
		Enabled: cfg.Kafka.Enabled,
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	if err != nil {
		slog.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	notifier := notify.New(notify.SlackConfig{
		BotToken:  cfg.Slack.BotToken,
		ChannelID: cfg.Slack.ChannelID,
	})

	settingsSvc := settingsService.NewSettingsService(repos.settings)
	if err := prepareSettings(ctx, cfg, settingsSvc); err != nil {
		slog.Error("Failed to prepare settings", "error", err)
		os.Exit(1)
	}

	reportSvc := reportService.NewReportService(repos.punch, repos.hourBank, settingsSvc)
	punchSvc := punchService.NewPunchService(repos.punch, settingsSvc, publisher, m)
	hourBankSvc := hourBankService.NewHourBankService(repos.hourBank, repos.punch, reportSvc, settingsSvc, publisher, m)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppName:        cfg.App.Name,
			Version:        cfg.App.Version,
			Env:            cfg.App.Env,
			LogLevel:       cfg.SlogLevel(),
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		JWTService,
		m,
		appHTTP.NewPunchHandler(punchSvc),
		appHTTP.NewReportHandler(reportSvc),
		appHTTP.NewHourBankHandler(hourBankSvc),
		appHTTP.NewSettingsHandler(settingsSvc),
	)

	scheduler := cron.NewScheduler()
	cron.NewHourBankJobs(hourBankSvc, settingsSvc, notifier, cfg.Schedule.CloseInterval, cfg.Schedule.CloseHour).
		RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
