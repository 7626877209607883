package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalRequest struct {
	ID            int64           `db:"id"`
	ChatID        int64           `db:"chat_id"`
	Amount        decimal.Decimal `db:"amount"`
	WalletAddress string          `db:"wallet_address"`
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
}

const (
	// WithdrawalStatusPending is the only non-terminal status. Every request
	// starts here, with the amount already debited from the account balance.
	WithdrawalStatusPending = "PENDING"

	// WithdrawalStatusPaid indicates an admin settled the request and the
	// payout went out.
	WithdrawalStatusPaid = "PAID"

	// WithdrawalStatusRejected indicates an admin declined the request.
	WithdrawalStatusRejected = "REJECTED"
)

type WithdrawalRepository interface {
	GetOne(id int64) (*WithdrawalRequest, bool, error)
	List(status string) ([]WithdrawalRequest, error)
	UpdateStatus(id int64, status string) error
}

type WithdrawalRepositoryImpl struct {
	db *DB
}

func NewWithdrawalRepository(db *DB) WithdrawalRepository {
	return &WithdrawalRepositoryImpl{db: db}
}

func (repo *WithdrawalRepositoryImpl) GetOne(id int64) (*WithdrawalRequest, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var request WithdrawalRequest

	query := `SELECT * FROM withdrawal_requests WHERE id = $1`

	err := repo.db.GetContext(ctx, &request, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &request, true, err
}

func (repo *WithdrawalRepositoryImpl) List(status string) ([]WithdrawalRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	requests := []WithdrawalRequest{}

	query := `SELECT * FROM withdrawal_requests WHERE status = $1 ORDER BY created_at ASC`

	err := repo.db.SelectContext(ctx, &requests, query, status)
	if err != nil {
		return nil, err
	}

	return requests, nil
}

// UpdateStatus moves a PENDING request into a terminal status. The guard on
// the current status keeps transitions monotone: a request that has already
// been settled stays settled, whichever admin call got there first.
func (repo *WithdrawalRepositoryImpl) UpdateStatus(id int64, status string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE withdrawal_requests SET status = $1 WHERE id = $2 AND status = $3`

	result, err := repo.db.ExecContext(ctx, query, status, id, WithdrawalStatusPending)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	// no row updated: either the id is unknown or the request is terminal
	_, found, err := repo.GetOne(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	return ErrInvalidTransition
}
