package service

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sodiqa/dropwallet/internal/helper"
	"github.com/sodiqa/dropwallet/internal/repository"
	"github.com/sodiqa/dropwallet/internal/validator"
)

// ReferralBonus is credited to the referrer exactly once per referred
// account, inside the same transaction that records the attribution.
var ReferralBonus = decimal.NewFromFloat(10.0)

var ErrInvalidWallet = errors.New("invalid BEP20 wallet address")

type AccountService struct {
	AccountRepo repository.AccountRepository
	Helper      *helper.HelperRepository
}

func NewAccountService(accountRepo repository.AccountRepository, helper *helper.HelperRepository) *AccountService {
	return &AccountService{
		AccountRepo: accountRepo,
		Helper:      helper,
	}
}

// EnsureAccount returns the account for chatID, creating it on first contact.
// Calling it repeatedly for the same chat is safe and returns the same row.
func (s *AccountService) EnsureAccount(chatID int64, username, firstName string) (*repository.Account, error) {
	return s.AccountRepo.GetOrCreate(chatID, username, firstName)
}

func (s *AccountService) AttributeReferral(chatID int64, code string) error {
	return s.AccountRepo.AttributeReferral(chatID, code, ReferralBonus)
}

type BalanceView struct {
	Balance      decimal.Decimal
	Wallet       string
	InviteCount  int
	ReferralLink string
}

func (s *AccountService) BalanceView(account *repository.Account) BalanceView {
	view := BalanceView{
		Balance:      account.Balance,
		InviteCount:  account.InviteCount,
		ReferralLink: s.Helper.ReferralLink(account.ReferralCode),
	}

	if account.WalletAddress.Valid {
		view.Wallet = account.WalletAddress.String
	}

	return view
}

// SetWallet validates the address before touching the store; a bad address
// leaves the account untouched.
func (s *AccountService) SetWallet(chatID int64, address string) error {
	if !validator.Matches(address, validator.RgxBEP20Address) {
		return ErrInvalidWallet
	}

	return s.AccountRepo.SetWallet(chatID, address)
}
