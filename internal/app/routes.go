package app

import (
	"net/http"

	"github.com/sodiqa/dropwallet/internal/handler"
	"github.com/sodiqa/dropwallet/internal/middleware"
)

func (app *Application) routes() http.Handler {
	mux := http.NewServeMux()

	middlewareRepo := middleware.New(app.ErrorHandler, app.Logger, &app.Config)

	healthHandler := handler.NewHealthCheckHandler(app.ErrorHandler)

	botHandler := handler.NewBotHandler(&handler.BotHandler{
		AccountService:    app.AccountService,
		WithdrawalService: app.WithdrawalService,
		Sessions:          app.Sessions,
		Notifier:          app.Notifier,
		ErrHandler:        app.ErrorHandler,
	})

	adminHandler := handler.NewAdminHandler(&handler.AdminHandler{
		AccountRepo:       app.AccountRepo,
		WithdrawalRepo:    app.WithdrawalRepo,
		WithdrawalService: app.WithdrawalService,
		ErrHandler:        app.ErrorHandler,
	})

	mux.HandleFunc("GET /status", healthHandler.HandleHealthCheck)

	mux.HandleFunc("POST /bot/updates", botHandler.HandleUpdate)

	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET /admin/users", adminHandler.HandleListUsers)
	adminMux.HandleFunc("GET /admin/withdrawals", adminHandler.HandleListWithdrawals)
	adminMux.HandleFunc("PUT /admin/withdrawals/{id}/status", adminHandler.HandleUpdateWithdrawalStatus)

	mux.Handle("/admin/", middlewareRepo.AuthenticateAdmin(adminMux))

	return middlewareRepo.LogAccess(middlewareRepo.RecoverPanic(mux))
}
