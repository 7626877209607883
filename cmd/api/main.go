package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/sodiqa/dropwallet/internal/app"
	"github.com/sodiqa/dropwallet/internal/version"
	"github.com/sodiqa/dropwallet/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	showVersion := flag.Bool("version", false, "display version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	application, err := app.NewApplication(logger)
	if err != nil {
		return err
	}
	defer application.DB.Close()
	defer application.Sessions.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wk := worker.New(&worker.Worker{
		KafkaStream:       application.Kafka,
		Notifier:          application.Notifier,
		Mailer:            application.Mailer,
		Helper:            application.Helper,
		Ctx:               ctx,
		NotificationEmail: application.Config.Notifications.Email,
		BaseURL:           application.Config.BaseURL,
	})

	go wk.PayoutAlertWorker()
	go wk.ResolutionNoticeWorker()

	return application.ServeHTTP()
}
