package service

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sodiqa/dropwallet/internal/helper"
	"github.com/sodiqa/dropwallet/internal/repository"
)

// MinWithdrawal is the smallest amount a user may request. The check runs
// before any balance work, so a too-small request never opens a transaction.
var MinWithdrawal = decimal.NewFromFloat(100.0)

var (
	ErrBelowMinimum  = errors.New("amount is below the minimum withdrawal")
	ErrInvalidStatus = errors.New("status must be PAID or REJECTED")
)

const (
	// WithdrawalRequestedTopic carries freshly created PENDING requests so
	// the ops team can be alerted out of band.
	WithdrawalRequestedTopic = "withdrawal.requested"

	// WithdrawalResolvedTopic carries settled requests so the user can be
	// notified of the outcome.
	WithdrawalResolvedTopic = "withdrawal.resolved"
)

// WithdrawalEvent is the payload produced on both withdrawal topics.
type WithdrawalEvent struct {
	RequestID     int64  `json:"request_id"`
	ChatID        int64  `json:"chat_id"`
	Amount        string `json:"amount"`
	WalletAddress string `json:"wallet_address"`
	Status        string `json:"status"`
}

type streamProducer interface {
	ProduceMessage(topic, message string) error
}

type WithdrawalService struct {
	AccountRepo    repository.AccountRepository
	WithdrawalRepo repository.WithdrawalRepository
	Stream         streamProducer
	Helper         *helper.HelperRepository
}

func NewWithdrawalService(accountRepo repository.AccountRepository, withdrawalRepo repository.WithdrawalRepository, stream streamProducer, helper *helper.HelperRepository) *WithdrawalService {
	return &WithdrawalService{
		AccountRepo:    accountRepo,
		WithdrawalRepo: withdrawalRepo,
		Stream:         stream,
		Helper:         helper,
	}
}

// Request reserves the amount and creates a PENDING withdrawal request.
// The balance check and debit happen atomically in the store under a row
// lock, so two racing requests for the same account cannot both spend the
// same balance.
func (s *WithdrawalService) Request(chatID int64, amount decimal.Decimal) (*repository.WithdrawalRequest, error) {
	if amount.LessThan(MinWithdrawal) {
		return nil, ErrBelowMinimum
	}

	request, err := s.AccountRepo.DebitForWithdrawal(chatID, amount)
	if err != nil {
		return nil, err
	}

	s.produceEvent(WithdrawalRequestedTopic, request)

	return request, nil
}

// Resolve settles a PENDING request as PAID or REJECTED. Both outcomes are
// terminal. A REJECTED request does not refund the reserved balance; the
// amount is forfeited at request time.
func (s *WithdrawalService) Resolve(id int64, outcome string) error {
	if outcome != repository.WithdrawalStatusPaid && outcome != repository.WithdrawalStatusRejected {
		return ErrInvalidStatus
	}

	err := s.WithdrawalRepo.UpdateStatus(id, outcome)
	if err != nil {
		return err
	}

	request, found, err := s.WithdrawalRepo.GetOne(id)
	if err == nil && found {
		s.produceEvent(WithdrawalResolvedTopic, request)
	}

	return nil
}

// produceEvent pushes the event off the request path; a broker outage must
// not fail a withdrawal that has already committed.
func (s *WithdrawalService) produceEvent(topic string, request *repository.WithdrawalRequest) {
	event := WithdrawalEvent{
		RequestID:     request.ID,
		ChatID:        request.ChatID,
		Amount:        request.Amount.String(),
		WalletAddress: request.WalletAddress,
		Status:        request.Status,
	}

	message, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.Helper.BackgroundTask(nil, func() error {
		return s.Stream.ProduceMessage(topic, string(message))
	})
}
