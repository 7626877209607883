package app

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/sodiqa/dropwallet/internal/config"
	"github.com/sodiqa/dropwallet/internal/env"
	"github.com/sodiqa/dropwallet/internal/errHandler"
	"github.com/sodiqa/dropwallet/internal/helper"
	"github.com/sodiqa/dropwallet/internal/repository"
	"github.com/sodiqa/dropwallet/internal/service"
	"github.com/sodiqa/dropwallet/internal/session"
	"github.com/sodiqa/dropwallet/internal/smtp"
	"github.com/sodiqa/dropwallet/internal/stream"
	"github.com/sodiqa/dropwallet/internal/telegram"

	"github.com/joho/godotenv"
)

// Essential services and resources are exposed to the application
// this makes it possible for methods to have access to these items and when they need them
type Application struct {
	Config            config.Config
	DB                *repository.DB
	Logger            *slog.Logger
	Mailer            *smtp.Mailer
	WG                sync.WaitGroup
	ErrorHandler      *errHandler.ErrorHandler
	Helper            *helper.HelperRepository
	Kafka             *stream.KafkaStream
	Sessions          *session.RedisStore
	Notifier          telegram.Notifier
	AccountRepo       repository.AccountRepository
	WithdrawalRepo    repository.WithdrawalRepository
	AccountService    *service.AccountService
	WithdrawalService *service.WithdrawalService
}

func NewApplication(logger *slog.Logger) (*Application, error) {
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", "error", err)
	}

	var cfg config.Config

	// config values are loaded from the .env file
	// Default values are provided for these items and these should strictly be values for development mode only
	// make sure no production-level value is exposed as default value here
	cfg.BaseURL = env.GetString("BASE_URL", "http://localhost:4444")
	cfg.HttpPort = env.GetInt("HTTP_PORT", 4444)
	cfg.BotUsername = env.GetString("BOT_USERNAME", "YourBotUsername")

	cfg.Db.Dsn = env.GetString("DB_DSN", "user:pass@localhost:5432/db")
	cfg.Db.Automigrate = env.GetBool("DB_AUTOMIGRATE", true)

	cfg.Admin.ApiKey = env.GetString("ADMIN_API_KEY", "ajf5nx3qmp6zquevllxocxqvyz42ypuo")
	cfg.Bot.Token = env.GetString("BOT_TOKEN", "")

	cfg.RedisServer = env.GetString("REDIS_SERVER", "localhost:6379")

	// server errors won't be sent via email if the NOTIFICATIONS_EMAIL wasn't set in the .env file
	cfg.Notifications.Email = env.GetString("NOTIFICATIONS_EMAIL", "")

	cfg.Smtp.Host = env.GetString("SMTP_HOST", "example.smtp.host")
	cfg.Smtp.Port = env.GetInt("SMTP_PORT", 25)
	cfg.Smtp.Username = env.GetString("SMTP_USERNAME", "example_username")
	cfg.Smtp.Password = env.GetString("SMTP_PASSWORD", "pa55word")
	cfg.Smtp.From = env.GetString("SMTP_FROM", "Example Name <no_reply@example.org>")

	cfg.KafkaServers = env.GetString("KAFKA_SERVERS", "localhost:9092")

	db, err := repository.New(cfg.Db.Dsn, cfg.Db.Automigrate)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	mailer, err := smtp.NewMailer(cfg.Smtp.Host, cfg.Smtp.Port, cfg.Smtp.Username, cfg.Smtp.Password, cfg.Smtp.From)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	errorHandler := errHandler.New(cfg.Notifications.Email, cfg.BaseURL, mailer, logger)

	app := &Application{
		Config:       cfg,
		DB:           db,
		Logger:       logger,
		Mailer:       mailer,
		ErrorHandler: errorHandler,
	}

	app.Helper = helper.New(&cfg.BaseURL, cfg.BotUsername, &app.WG, errorHandler)
	app.Kafka = stream.New(cfg.KafkaServers)
	app.Sessions = session.New(cfg.RedisServer, 0)
	app.Notifier = telegram.New(cfg.Bot.Token)

	app.AccountRepo = repository.NewAccountRepository(db)
	app.WithdrawalRepo = repository.NewWithdrawalRepository(db)

	app.AccountService = service.NewAccountService(app.AccountRepo, app.Helper)
	app.WithdrawalService = service.NewWithdrawalService(app.AccountRepo, app.WithdrawalRepo, app.Kafka, app.Helper)

	return app, nil
}
