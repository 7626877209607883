package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sodiqa/dropwallet/internal/errHandler"
	"github.com/sodiqa/dropwallet/internal/repository"
	"github.com/sodiqa/dropwallet/internal/request"
	"github.com/sodiqa/dropwallet/internal/response"
	"github.com/sodiqa/dropwallet/internal/service"
	"github.com/sodiqa/dropwallet/internal/validator"
)

type AdminHandler struct {
	AccountRepo       repository.AccountRepository
	WithdrawalRepo    repository.WithdrawalRepository
	WithdrawalService *service.WithdrawalService
	ErrHandler        *errHandler.ErrorHandler
}

func NewAdminHandler(handler *AdminHandler) *AdminHandler {
	return &AdminHandler{
		AccountRepo:       handler.AccountRepo,
		WithdrawalRepo:    handler.WithdrawalRepo,
		WithdrawalService: handler.WithdrawalService,
		ErrHandler:        handler.ErrHandler,
	}
}

type AccountResponseData struct {
	ChatID        int64  `json:"chat_id"`
	Username      string `json:"username"`
	Balance       string `json:"balance"`
	WalletAddress string `json:"wallet_address"`
}

type WithdrawalResponseData struct {
	ID            int64     `json:"id"`
	ChatID        int64     `json:"chat_id"`
	Amount        string    `json:"amount"`
	WalletAddress string    `json:"wallet_address"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	queryValues := retrieveListQueryValues(r)

	accounts, err := h.AccountRepo.List(queryValues.Skip, queryValues.Limit)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := make([]AccountResponseData, 0, len(accounts))
	for _, account := range accounts {
		data = append(data, AccountResponseData{
			ChatID:        account.ChatID,
			Username:      account.Username.String,
			Balance:       account.Balance.String(),
			WalletAddress: account.WalletAddress.String,
		})
	}

	err = response.JSONOkResponse(w, data, "", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *AdminHandler) HandleListWithdrawals(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = repository.WithdrawalStatusPending
	}

	requests, err := h.WithdrawalRepo.List(status)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := make([]WithdrawalResponseData, 0, len(requests))
	for _, req := range requests {
		data = append(data, WithdrawalResponseData{
			ID:            req.ID,
			ChatID:        req.ChatID,
			Amount:        req.Amount.String(),
			WalletAddress: req.WalletAddress,
			Status:        req.Status,
			CreatedAt:     req.CreatedAt,
		})
	}

	err = response.JSONOkResponse(w, data, "", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *AdminHandler) HandleUpdateWithdrawalStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.ErrHandler.NotFound(w, r)
		return
	}

	var input struct {
		NewStatus string              `json:"new_status"`
		Validator validator.Validator `json:"-"`
	}

	err = request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.NewStatus), "New status is required")
	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	err = h.WithdrawalService.Resolve(id, input.NewStatus)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			h.ErrHandler.BadRequest(w, r, err)
		case errors.Is(err, repository.ErrNotFound):
			h.ErrHandler.NotFound(w, r)
		case errors.Is(err, repository.ErrInvalidTransition):
			h.ErrHandler.Conflict(w, r, err)
		default:
			h.ErrHandler.ServerError(w, r, err)
		}
		return
	}

	data := map[string]any{
		"ID":     id,
		"Status": input.NewStatus,
	}

	err = response.JSONOkResponse(w, data, "Withdrawal request updated", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
