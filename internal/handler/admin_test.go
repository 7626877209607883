package handler

import (
	"bytes"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sodiqa/dropwallet/internal/errHandler"
	"github.com/sodiqa/dropwallet/internal/helper"
	"github.com/sodiqa/dropwallet/internal/mocks"
	"github.com/sodiqa/dropwallet/internal/repository"
	"github.com/sodiqa/dropwallet/internal/service"
	"github.com/stretchr/testify/require"
)

func newTestErrHandler() *errHandler.ErrorHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return errHandler.New("", "http://localhost", &mocks.MockMailer{}, logger)
}

func newTestAdminHandler(accountRepo *mocks.MockAccountRepo, withdrawalRepo *mocks.MockWithdrawalRepo) *AdminHandler {
	var baseURL = "http://localhost"
	var wg sync.WaitGroup
	testHelper := helper.New(&baseURL, "TestRewardsBot", &wg, &mocks.MockErrorHandler{})

	withdrawalService := service.NewWithdrawalService(accountRepo, withdrawalRepo, &mocks.MockStream{}, testHelper)

	return NewAdminHandler(&AdminHandler{
		AccountRepo:       accountRepo,
		WithdrawalRepo:    withdrawalRepo,
		WithdrawalService: withdrawalService,
		ErrHandler:        newTestErrHandler(),
	})
}

func TestHandleListUsers(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepo)
	withdrawalRepo := new(mocks.MockWithdrawalRepo)

	accounts := []repository.Account{
		{
			ChatID:        42,
			Username:      sql.NullString{String: "bob", Valid: true},
			Balance:       decimal.RequireFromString("25.5"),
			WalletAddress: sql.NullString{String: "0x1234567890abcdefABCDEF1234567890abcdefAB", Valid: true},
		},
	}
	accountRepo.On("List", 5, 2).Return(accounts, nil)

	h := newTestAdminHandler(accountRepo, withdrawalRepo)

	r := httptest.NewRequest(http.MethodGet, "/admin/users?skip=5&limit=2", nil)
	w := httptest.NewRecorder()

	h.HandleListUsers(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"chat_id": 42`)
	require.Contains(t, w.Body.String(), `"username": "bob"`)
	accountRepo.AssertExpectations(t)
}

func TestHandleListWithdrawals_DefaultsToPending(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepo)
	withdrawalRepo := new(mocks.MockWithdrawalRepo)

	requests := []repository.WithdrawalRequest{
		{
			ID:            9,
			ChatID:        42,
			Amount:        decimal.RequireFromString("150"),
			WalletAddress: "0x1234567890abcdefABCDEF1234567890abcdefAB",
			Status:        repository.WithdrawalStatusPending,
		},
	}
	withdrawalRepo.On("List", repository.WithdrawalStatusPending).Return(requests, nil)

	h := newTestAdminHandler(accountRepo, withdrawalRepo)

	r := httptest.NewRequest(http.MethodGet, "/admin/withdrawals", nil)
	w := httptest.NewRecorder()

	h.HandleListWithdrawals(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status": "PENDING"`)
	withdrawalRepo.AssertExpectations(t)
}

func performStatusUpdate(h *AdminHandler, id, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPut, "/admin/withdrawals/"+id+"/status", bytes.NewReader([]byte(body)))
	r.SetPathValue("id", id)
	w := httptest.NewRecorder()

	h.HandleUpdateWithdrawalStatus(w, r)
	return w
}

func TestHandleUpdateWithdrawalStatus_Paid(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepo)
	withdrawalRepo := new(mocks.MockWithdrawalRepo)

	settled := &repository.WithdrawalRequest{
		ID:     9,
		ChatID: 42,
		Amount: decimal.RequireFromString("150"),
		Status: repository.WithdrawalStatusPaid,
	}
	withdrawalRepo.On("UpdateStatus", int64(9), repository.WithdrawalStatusPaid).Return(nil)
	withdrawalRepo.On("GetOne", int64(9)).Return(settled, true, nil)

	h := newTestAdminHandler(accountRepo, withdrawalRepo)

	w := performStatusUpdate(h, "9", `{"new_status": "PAID"}`)

	require.Equal(t, http.StatusOK, w.Code)
	withdrawalRepo.AssertExpectations(t)
}

func TestHandleUpdateWithdrawalStatus_InvalidValue(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepo)
	withdrawalRepo := new(mocks.MockWithdrawalRepo)

	h := newTestAdminHandler(accountRepo, withdrawalRepo)

	w := performStatusUpdate(h, "9", `{"new_status": "CANCELLED"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	withdrawalRepo.AssertNotCalled(t, "UpdateStatus", int64(9), "CANCELLED")
}

func TestHandleUpdateWithdrawalStatus_NotFound(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepo)
	withdrawalRepo := new(mocks.MockWithdrawalRepo)

	withdrawalRepo.On("UpdateStatus", int64(99), repository.WithdrawalStatusPaid).Return(repository.ErrNotFound)

	h := newTestAdminHandler(accountRepo, withdrawalRepo)

	w := performStatusUpdate(h, "99", `{"new_status": "PAID"}`)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleUpdateWithdrawalStatus_AlreadySettled(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepo)
	withdrawalRepo := new(mocks.MockWithdrawalRepo)

	withdrawalRepo.On("UpdateStatus", int64(9), repository.WithdrawalStatusRejected).Return(repository.ErrInvalidTransition)

	h := newTestAdminHandler(accountRepo, withdrawalRepo)

	w := performStatusUpdate(h, "9", `{"new_status": "REJECTED"}`)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleUpdateWithdrawalStatus_MissingBody(t *testing.T) {
	accountRepo := new(mocks.MockAccountRepo)
	withdrawalRepo := new(mocks.MockWithdrawalRepo)

	h := newTestAdminHandler(accountRepo, withdrawalRepo)

	w := performStatusUpdate(h, "9", ``)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
