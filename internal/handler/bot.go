package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sodiqa/dropwallet/internal/errHandler"
	"github.com/sodiqa/dropwallet/internal/repository"
	"github.com/sodiqa/dropwallet/internal/request"
	"github.com/sodiqa/dropwallet/internal/response"
	"github.com/sodiqa/dropwallet/internal/service"
	"github.com/sodiqa/dropwallet/internal/session"
	"github.com/sodiqa/dropwallet/internal/telegram"
)

// Keyboard button labels double as the routing keys for plain-text messages.
const (
	balanceButton   = "🥇 💰 Balance"
	bonusButton     = "🥈 🎊 Bonus"
	referralButton  = "🥉 💑 Referral"
	withdrawButton  = "4️⃣ 📤 Withdraw"
	setWalletButton = "5️⃣ 💼 Set Wallet"
)

const (
	welcomeText = "👋 Welcome!\nJoin our channels to unlock rewards & updates 🚀\n\n✅ After joining, tap Continue to start!"

	verifiedText = "✅ You are now verified!\nChoose an option below ⬇"

	// display-only claim, never touches the ledger
	bonusText = "🎉 Congratulations! You just received 13.3 USDT 💸"

	withdrawPromptText  = "❗ Minimum Withdraw Is 100 USDT\n\n💳 Enter the amount you want to withdraw:"
	withdrawSuccessText = "✅ Withdrawal request received. Status: PENDING\n⏳ Your withdrawal will be processed within 24 hours."

	noWalletText       = "⚠️ Please set your wallet address first using '5️⃣ 💼 Set Wallet'."
	invalidWalletText  = "❌ Invalid BEP20 address format. Please try again."
	invalidAmountText  = "❌ Invalid amount. Please enter a number."
	belowMinimumText   = "❌ Minimum withdrawal is 100 USDT."
	insufficientText   = "❌ Insufficient balance."
	cancelledText      = "Operation cancelled."
	verifyCallbackData = "verify_user"
)

var mainKeyboard = &telegram.ReplyKeyboardMarkup{
	Keyboard: [][]telegram.KeyboardButton{
		{{Text: balanceButton}},
		{{Text: bonusButton}},
		{{Text: referralButton}},
		{{Text: withdrawButton}},
		{{Text: setWalletButton}},
	},
	ResizeKeyboard: true,
}

var continueKeyboard = &telegram.InlineKeyboardMarkup{
	InlineKeyboard: [][]telegram.InlineKeyboardButton{
		{{Text: "✅ Continue", CallbackData: verifyCallbackData}},
	},
}

// Update mirrors the subset of the Telegram webhook payload the bot needs.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

type Message struct {
	Chat Chat      `json:"chat"`
	From *ChatUser `json:"from"`
	Text string    `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type ChatUser struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

type CallbackQuery struct {
	From    *ChatUser `json:"from"`
	Message *Message  `json:"message"`
	Data    string    `json:"data"`
}

type BotHandler struct {
	AccountService    *service.AccountService
	WithdrawalService *service.WithdrawalService
	Sessions          session.Store
	Notifier          telegram.Notifier
	ErrHandler        *errHandler.ErrorHandler
}

func NewBotHandler(handler *BotHandler) *BotHandler {
	return &BotHandler{
		AccountService:    handler.AccountService,
		WithdrawalService: handler.WithdrawalService,
		Sessions:          handler.Sessions,
		Notifier:          handler.Notifier,
		ErrHandler:        handler.ErrHandler,
	}
}

// HandleUpdate is the webhook entry point. User-facing failures go back over
// the chat; only transport and store problems surface as HTTP errors.
func (h *BotHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var update Update

	err := request.DecodeJSON(w, r, &update)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	switch {
	case update.CallbackQuery != nil:
		err = h.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		err = h.handleMessage(update.Message)
	}

	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	err = response.JSONOkResponse(w, nil, "", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *BotHandler) handleCallback(callback *CallbackQuery) error {
	if callback.Data != verifyCallbackData || callback.Message == nil {
		return nil
	}

	return h.Notifier.SendMessageWithMarkup(callback.Message.Chat.ID, verifiedText, mainKeyboard)
}

func (h *BotHandler) handleMessage(message *Message) error {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	var username, firstName string
	if message.From != nil {
		username = message.From.Username
		firstName = message.From.FirstName
	}

	account, err := h.AccountService.EnsureAccount(chatID, username, firstName)
	if err != nil {
		return err
	}

	if strings.HasPrefix(text, "/start") {
		return h.handleStart(account, text)
	}

	if text == "/cancel" {
		if err := h.Sessions.Clear(chatID); err != nil {
			return err
		}
		return h.Notifier.SendMessageWithMarkup(chatID, cancelledText, mainKeyboard)
	}

	state, err := h.Sessions.Get(chatID)
	if err != nil {
		return err
	}

	switch state {
	case session.StateAwaitingWallet:
		return h.handleWalletInput(chatID, text)
	case session.StateAwaitingAmount:
		return h.handleAmountInput(chatID, text)
	}

	switch text {
	case balanceButton:
		view := h.AccountService.BalanceView(account)
		return h.Notifier.SendMessage(chatID, balanceText(view))

	case bonusButton:
		return h.Notifier.SendMessage(chatID, bonusText)

	case referralButton:
		view := h.AccountService.BalanceView(account)
		return h.Notifier.SendMessage(chatID, referralText(view))

	case setWalletButton:
		if err := h.Sessions.Set(chatID, session.StateAwaitingWallet); err != nil {
			return err
		}
		return h.Notifier.SendMessage(chatID, setWalletPrompt(account))

	case withdrawButton:
		if !account.WalletAddress.Valid {
			return h.Notifier.SendMessage(chatID, noWalletText)
		}
		if err := h.Sessions.Set(chatID, session.StateAwaitingAmount); err != nil {
			return err
		}
		return h.Notifier.SendMessage(chatID, withdrawPromptText)
	}

	return nil
}

func (h *BotHandler) handleStart(account *repository.Account, text string) error {
	args := strings.Fields(text)
	if len(args) > 1 {
		// A referral error (self-referral, already referred, unknown code)
		// never blocks onboarding; the deep link just yields no bonus.
		err := h.AccountService.AttributeReferral(account.ChatID, args[1])
		if err != nil && !isReferralError(err) {
			return err
		}
	}

	return h.Notifier.SendMessageWithMarkup(account.ChatID, welcomeText, continueKeyboard)
}

func (h *BotHandler) handleWalletInput(chatID int64, text string) error {
	err := h.AccountService.SetWallet(chatID, text)
	if err != nil {
		if errors.Is(err, service.ErrInvalidWallet) {
			return h.Notifier.SendMessage(chatID, invalidWalletText)
		}
		return err
	}

	if err := h.Sessions.Clear(chatID); err != nil {
		return err
	}

	return h.Notifier.SendMessage(chatID, fmt.Sprintf("✅ Wallet updated to: %s", text))
}

func (h *BotHandler) handleAmountInput(chatID int64, text string) error {
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return h.Notifier.SendMessage(chatID, invalidAmountText)
	}

	_, err = h.WithdrawalService.Request(chatID, amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBelowMinimum):
			return h.Notifier.SendMessage(chatID, belowMinimumText)
		case errors.Is(err, repository.ErrInsufficientBalance):
			return h.Notifier.SendMessage(chatID, insufficientText)
		case errors.Is(err, repository.ErrNoWallet):
			if clearErr := h.Sessions.Clear(chatID); clearErr != nil {
				return clearErr
			}
			return h.Notifier.SendMessage(chatID, noWalletText)
		default:
			return err
		}
	}

	if err := h.Sessions.Clear(chatID); err != nil {
		return err
	}

	return h.Notifier.SendMessage(chatID, withdrawSuccessText)
}

func isReferralError(err error) bool {
	return errors.Is(err, repository.ErrSelfReferral) ||
		errors.Is(err, repository.ErrAlreadyReferred) ||
		errors.Is(err, repository.ErrUnknownCode)
}

func balanceText(view service.BalanceView) string {
	wallet := view.Wallet
	if wallet == "" {
		wallet = "Not set"
	}

	return fmt.Sprintf("💎 My Balance\n━━━━━━━━━━━━━━━━\n💰 USDT: %s ≈ $%s\n\n💳 Wallet: %s\n\n🔗 Your Invite Link:\n%s",
		view.Balance, view.Balance, wallet, view.ReferralLink)
}

func referralText(view service.BalanceView) string {
	return fmt.Sprintf("💸 Get 10 USDT for Every Friend!\n\n📊 Friends Invited: %d\n\n🔗 Your Referral Link:\n%s",
		view.InviteCount, view.ReferralLink)
}

func setWalletPrompt(account *repository.Account) string {
	current := "Not set"
	if account.WalletAddress.Valid {
		current = account.WalletAddress.String
	}

	return fmt.Sprintf("💡 Your current wallet: %s\n\n✍️ Please send your new BEP20 wallet address.", current)
}
