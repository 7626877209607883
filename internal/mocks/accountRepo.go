package mocks

import (
	"github.com/shopspring/decimal"
	"github.com/sodiqa/dropwallet/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) GetOrCreate(chatID int64, username, firstName string) (*repository.Account, error) {
	args := m.Called(chatID, username, firstName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Account), args.Error(1)
}

func (m *MockAccountRepo) GetOne(chatID int64) (*repository.Account, bool, error) {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*repository.Account), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepo) GetByReferralCode(code string) (*repository.Account, bool, error) {
	return nil, false, nil
}

func (m *MockAccountRepo) AttributeReferral(chatID int64, code string, bonus decimal.Decimal) error {
	args := m.Called(chatID, code, bonus)
	return args.Error(0)
}

func (m *MockAccountRepo) SetWallet(chatID int64, address string) error {
	args := m.Called(chatID, address)
	return args.Error(0)
}

func (m *MockAccountRepo) DebitForWithdrawal(chatID int64, amount decimal.Decimal) (*repository.WithdrawalRequest, error) {
	args := m.Called(chatID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.WithdrawalRequest), args.Error(1)
}

func (m *MockAccountRepo) List(skip, limit int) ([]repository.Account, error) {
	args := m.Called(skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.Account), args.Error(1)
}
