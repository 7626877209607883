package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sodiqa/dropwallet/internal/helper"
	"github.com/sodiqa/dropwallet/internal/mocks"
	"github.com/sodiqa/dropwallet/internal/repository"
	"github.com/sodiqa/dropwallet/internal/service"
	"github.com/sodiqa/dropwallet/internal/session"
	"github.com/stretchr/testify/require"
)

type botTestDeps struct {
	accountRepo    *mocks.MockAccountRepo
	withdrawalRepo *mocks.MockWithdrawalRepo
	sessions       *mocks.FakeSessionStore
	notifier       *mocks.MockNotifier
	wg             *sync.WaitGroup
}

func newTestBotHandler() (*BotHandler, *botTestDeps) {
	deps := &botTestDeps{
		accountRepo:    new(mocks.MockAccountRepo),
		withdrawalRepo: new(mocks.MockWithdrawalRepo),
		sessions:       mocks.NewFakeSessionStore(),
		notifier:       new(mocks.MockNotifier),
		wg:             &sync.WaitGroup{},
	}

	var baseURL = "http://localhost"
	testHelper := helper.New(&baseURL, "TestRewardsBot", deps.wg, &mocks.MockErrorHandler{})

	accountService := service.NewAccountService(deps.accountRepo, testHelper)
	withdrawalService := service.NewWithdrawalService(deps.accountRepo, deps.withdrawalRepo, &mocks.MockStream{}, testHelper)

	h := NewBotHandler(&BotHandler{
		AccountService:    accountService,
		WithdrawalService: withdrawalService,
		Sessions:          deps.sessions,
		Notifier:          deps.notifier,
		ErrHandler:        newTestErrHandler(),
	})

	return h, deps
}

func performUpdate(t *testing.T, h *BotHandler, update Update) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(update)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/bot/updates", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleUpdate(w, r)
	return w
}

func textUpdate(chatID int64, text string) Update {
	return Update{
		Message: &Message{
			Chat: Chat{ID: chatID},
			From: &ChatUser{Username: "bob", FirstName: "Bob"},
			Text: text,
		},
	}
}

func testAccount(chatID int64) *repository.Account {
	return &repository.Account{
		ChatID:       chatID,
		ReferralCode: "ab12cd34ef",
		Balance:      decimal.RequireFromString("25.5"),
		InviteCount:  3,
	}
}

func testAccountWithWallet(chatID int64) *repository.Account {
	account := testAccount(chatID)
	account.WalletAddress = sql.NullString{String: "0x1234567890abcdefABCDEF1234567890abcdefAB", Valid: true}
	return account
}

func TestHandleUpdate_StartWithReferralCode(t *testing.T) {
	h, deps := newTestBotHandler()

	deps.accountRepo.On("GetOrCreate", int64(42), "bob", "Bob").Return(testAccount(42), nil)
	deps.accountRepo.On("AttributeReferral", int64(42), "ffeeddccbb", service.ReferralBonus).Return(nil)

	w := performUpdate(t, h, textUpdate(42, "/start ffeeddccbb"))

	require.Equal(t, http.StatusOK, w.Code)
	deps.accountRepo.AssertExpectations(t)

	last := deps.notifier.LastMessage()
	require.NotNil(t, last)
	require.Equal(t, welcomeText, last.Text)
	require.Equal(t, continueKeyboard, last.Markup)
}

func TestHandleUpdate_StartSelfReferralStillWelcomes(t *testing.T) {
	h, deps := newTestBotHandler()

	deps.accountRepo.On("GetOrCreate", int64(42), "bob", "Bob").Return(testAccount(42), nil)
	deps.accountRepo.On("AttributeReferral", int64(42), "ab12cd34ef", service.ReferralBonus).Return(repository.ErrSelfReferral)

	w := performUpdate(t, h, textUpdate(42, "/start ab12cd34ef"))

	require.Equal(t, http.StatusOK, w.Code)

	last := deps.notifier.LastMessage()
	require.NotNil(t, last)
	require.Equal(t, welcomeText, last.Text)
}

func TestHandleUpdate_RepeatedReferralAttributedOnce(t *testing.T) {
	h, deps := newTestBotHandler()

	deps.accountRepo.On("GetOrCreate", int64(42), "bob", "Bob").Return(testAccount(42), nil)
	deps.accountRepo.On("AttributeReferral", int64(42), "ffeeddccbb", service.ReferralBonus).
		Return(nil).Once()
	deps.accountRepo.On("AttributeReferral", int64(42), "ffeeddccbb", service.ReferralBonus).
		Return(repository.ErrAlreadyReferred)

	// the second submission of the same code surfaces AlreadyReferred from
	// the store and the user still gets a normal welcome
	for i := 0; i < 2; i++ {
		w := performUpdate(t, h, textUpdate(42, "/start ffeeddccbb"))
		require.Equal(t, http.StatusOK, w.Code)
	}

	deps.accountRepo.AssertNumberOfCalls(t, "AttributeReferral", 2)
}

func TestHandleUpdate_VerifyCallback(t *testing.T) {
	h, deps := newTestBotHandler()

	update := Update{
		CallbackQuery: &CallbackQuery{
			From:    &ChatUser{Username: "bob"},
			Message: &Message{Chat: Chat{ID: 42}},
			Data:    verifyCallbackData,
		},
	}

	w := performUpdate(t, h, update)

	require.Equal(t, http.StatusOK, w.Code)

	last := deps.notifier.LastMessage()
	require.NotNil(t, last)
	require.Equal(t, verifiedText, last.Text)
	require.Equal(t, mainKeyboard, last.Markup)
}

func TestHandleUpdate_BalanceButton(t *testing.T) {
	h, deps := newTestBotHandler()

	deps.accountRepo.On("GetOrCreate", int64(42), "bob", "Bob").Return(testAccount(42), nil)

	w := performUpdate(t, h, textUpdate(42, balanceButton))

	require.Equal(t, http.StatusOK, w.Code)

	last := deps.notifier.LastMessage()
	require.NotNil(t, last)
	require.Contains(t, last.Text, "25.5")
	require.Contains(t, last.Text, "Not set")
	require.Contains(t, last.Text, "https://t.me/TestRewardsBot?start=ab12cd34ef")
}

func TestHandleUpdate_ReferralButton(t *testing.T) {
	h, deps := newTestBotHandler()

	deps.accountRepo.On("GetOrCreate", int64(42), "bob", "Bob").Return(testAccount(42), nil)

	w := performUpdate(t, h, textUpdate(42, referralButton))

	require.Equal(t, http.StatusOK, w.Code)

	last := deps.notifier.LastMessage()
	require.NotNil(t, last)
	require.Contains(t, last.Text, "Friends Invited: 3")
}

func TestSetWalletFlow(t *testing.T) {
	h, deps := newTestBotHandler()

	address := "0x1234567890abcdefABCDEF1234567890abcdefAB"
	deps.accountRepo.On("GetOrCreate", int64(42), "bob", "Bob").Return(testAccount(42), nil)
	deps.accountRepo.On("SetWallet", int64(42), address).Return(nil)

	w := performUpdate(t, h, textUpdate(42, setWalletButton))
	require.Equal(t, http.StatusOK, w.Code)

	state, err := deps.sessions.Get(42)
	require.NoError(t, err)
	require.Equal(t, session.StateAwaitingWallet, state)

	w = performUpdate(t, h, textUpdate(42, address))
	require.Equal(t, http.StatusOK, w.Code)

	state, err = deps.sessions.Get(42)
	require.NoError(t, err)
	require.Equal(t, session.StateIdle, state)

	last := deps.notifier.LastMessage()
	require.NotNil(t, last)
	require.Contains(t, last.Text, "Wallet updated")
	deps.accountRepo.AssertExpectations(t)
}

func TestSetWalletFlow_InvalidAddressReprompts(t *testing.T) {
	h, deps := newTestBotHandler()

	deps.accountRepo.On("GetOrCreate", int64(42), "bob", "Bob").Return(testAccount(42), nil)

	performUpdate(t, h, textUpdate(42, setWalletButton))
	w := performUpdate(t, h, textUpdate(42, "not-an-address"))

	require.Equal(t, http.StatusOK, w.Code)

	// still waiting for a valid address
	state, err := deps.sessions.Get(42)
	require.NoError(t, err)
	require.Equal(t, session.StateAwaitingWallet, state)

	last := deps.notifier.LastMessage()
	require.NotNil(t, last)
	require.Equal(t, invalidWalletText, last.Text)
}

func TestWithdrawFlow_Success(t *testing.T) {
	h, deps := newTestBotHandler()

	account := testAccountWithWallet(42)
	account.Balance = decimal.RequireFromString("150.0")

	amount := decimal.RequireFromString("150")
	created := &repository.WithdrawalRequest{
		ID:            1,
		ChatID:        42,
		Amount:        amount,
		WalletAddress: account.WalletAddress.String,
		Status:        repository.WithdrawalStatusPending,
	}

	deps.accountRepo.On("GetOrCreate", int64(42), "bob", "Bob").Return(account, nil)
	deps.accountRepo.On("DebitForWithdrawal", int64(42), amount).Return(created, nil)

	performUpdate(t, h, textUpdate(42, withdrawButton))

	state, err := deps.sessions.Get(42)
	require.NoError(t, err)
	require.Equal(t, session.StateAwaitingAmount, state)

	w := performUpdate(t, h, textUpdate(42, "150"))
	require.Equal(t, http.StatusOK, w.Code)

	state, err = deps.sessions.Get(42)
	require.NoError(t, err)
	require.Equal(t, session.StateIdle, state)

	last := deps.notifier.LastMessage()
	require.NotNil(t, last)
	require.Equal(t, withdrawSuccessText, last.Text)

	deps.wg.Wait()
	deps.accountRepo.AssertExpectations(t)
}

func TestWithdrawFlow_NoWallet(t *testing.T) {
	h, deps := newTestBotHandler()

	deps.accountRepo.On("GetOrCreate", int64(42), "bob", "Bob").Return(testAccount(42), nil)

	w := performUpdate(t, h, textUpdate(42, withdrawButton))
	require.Equal(t, http.StatusOK, w.Code)

	state, err := deps.sessions.Get(42)
	require.NoError(t, err)
	require.Equal(t, session.StateIdle, state)

	last := deps.notifier.LastMessage()
	require.NotNil(t, last)
	require.Equal(t, noWalletText, last.Text)
}

func TestWithdrawFlow_BelowMinimumReprompts(t *testing.T) {
	h, deps := newTestBotHandler()

	deps.accountRepo.On("GetOrCreate", int64(42), "bob", "Bob").Return(testAccountWithWallet(42), nil)

	performUpdate(t, h, textUpdate(42, withdrawButton))
	w := performUpdate(t, h, textUpdate(42, "50"))

	require.Equal(t, http.StatusOK, w.Code)

	state, err := deps.sessions.Get(42)
	require.NoError(t, err)
	require.Equal(t, session.StateAwaitingAmount, state)

	last := deps.notifier.LastMessage()
	require.NotNil(t, last)
	require.Equal(t, belowMinimumText, last.Text)
}

func TestWithdrawFlow_InsufficientBalanceReprompts(t *testing.T) {
	h, deps := newTestBotHandler()

	amount := decimal.RequireFromString("100")
	deps.accountRepo.On("GetOrCreate", int64(42), "bob", "Bob").Return(testAccountWithWallet(42), nil)
	deps.accountRepo.On("DebitForWithdrawal", int64(42), amount).Return(nil, repository.ErrInsufficientBalance)

	performUpdate(t, h, textUpdate(42, withdrawButton))
	w := performUpdate(t, h, textUpdate(42, "100"))

	require.Equal(t, http.StatusOK, w.Code)

	state, err := deps.sessions.Get(42)
	require.NoError(t, err)
	require.Equal(t, session.StateAwaitingAmount, state)

	last := deps.notifier.LastMessage()
	require.NotNil(t, last)
	require.Equal(t, insufficientText, last.Text)
}

func TestWithdrawFlow_InvalidAmountReprompts(t *testing.T) {
	h, deps := newTestBotHandler()

	deps.accountRepo.On("GetOrCreate", int64(42), "bob", "Bob").Return(testAccountWithWallet(42), nil)

	performUpdate(t, h, textUpdate(42, withdrawButton))
	w := performUpdate(t, h, textUpdate(42, "a lot"))

	require.Equal(t, http.StatusOK, w.Code)

	last := deps.notifier.LastMessage()
	require.NotNil(t, last)
	require.Equal(t, invalidAmountText, last.Text)
}

func TestCancelReturnsToIdle(t *testing.T) {
	h, deps := newTestBotHandler()

	deps.accountRepo.On("GetOrCreate", int64(42), "bob", "Bob").Return(testAccountWithWallet(42), nil)

	performUpdate(t, h, textUpdate(42, withdrawButton))
	w := performUpdate(t, h, textUpdate(42, "/cancel"))

	require.Equal(t, http.StatusOK, w.Code)

	state, err := deps.sessions.Get(42)
	require.NoError(t, err)
	require.Equal(t, session.StateIdle, state)

	last := deps.notifier.LastMessage()
	require.NotNil(t, last)
	require.Equal(t, cancelledText, last.Text)
}
