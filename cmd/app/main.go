package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"shipping/cmd"
	httpserver "shipping/internal/adapters/in/http"
	postgresadapter "shipping/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	configs := getConfigs()

	gormDB := mustConnectDB(configs)
	if err := postgresadapter.Migrate(gormDB); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		logger.Error("failed to start jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		RoutingAPIURL:  goDotEnvVariable("ROUTING_API_URL"),
		RoutingAPIKey:  goDotEnvVariable("ROUTING_API_KEY"),
		RoutingProfile: goDotEnvVariable("ROUTING_PROFILE"),

		OptimizerURL:    goDotEnvVariable("OPTIMIZER_URL"),
		OptimizerAPIKey: goDotEnvVariable("OPTIMIZER_API_KEY"),

		ConfirmWindow:      durationEnvVariable("CONFIRM_WINDOW", 48*time.Hour),
		ReminderDelay:      durationEnvVariable("REMINDER_DELAY", time.Hour),
		MaxSessionDuration: durationEnvVariable("MAX_SESSION_DURATION", 16*time.Hour),
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func durationEnvVariable(key string, fallback time.Duration) time.Duration {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid duration in %s: %s", key, raw)
	}
	return d
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	// TranslateError maps unique violations to gorm.ErrDuplicatedKey, which
	// the repositories rely on for the concurrency guarantees.
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	server := httpserver.NewServer(
		app.CreateScanParcelCommandHandler(),
		app.CreateStartSessionCommandHandler(),
		app.CreateRecordOutcomeCommandHandler(),
		app.CreatePostponeAssignmentCommandHandler(),
		app.CreateTransferParcelCommandHandler(),
		app.CreateAcceptTransferCommandHandler(),
		app.CreateFailSessionCommandHandler(),
		app.CreateAutoAssignCommandHandler(),
		app.CreateGetSessionQueryHandler(),
		app.CreateGetActiveSessionQueryHandler(),
	)

	e := echo.New()
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
