package mocks

import (
	"github.com/sodiqa/dropwallet/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockWithdrawalRepo struct {
	mock.Mock
}

func (m *MockWithdrawalRepo) GetOne(id int64) (*repository.WithdrawalRequest, bool, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*repository.WithdrawalRequest), args.Bool(1), args.Error(2)
}

func (m *MockWithdrawalRepo) List(status string) ([]repository.WithdrawalRequest, error) {
	args := m.Called(status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepo) UpdateStatus(id int64, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}
