package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Account struct {
	ID            string          `db:"id"`
	ChatID        int64           `db:"chat_id"`
	Username      sql.NullString  `db:"username"`
	FirstName     sql.NullString  `db:"first_name"`
	WalletAddress sql.NullString  `db:"wallet_address"`
	Balance       decimal.Decimal `db:"balance"`
	ReferralCode  string          `db:"referral_code"`
	ReferredBy    sql.NullInt64   `db:"referred_by"`
	InviteCount   int             `db:"invite_count"`
	CreatedAt     time.Time       `db:"created_at"`
}

type AccountRepository interface {
	GetOrCreate(chatID int64, username, firstName string) (*Account, error)
	GetOne(chatID int64) (*Account, bool, error)
	GetByReferralCode(code string) (*Account, bool, error)
	AttributeReferral(chatID int64, code string, bonus decimal.Decimal) error
	SetWallet(chatID int64, address string) error
	DebitForWithdrawal(chatID int64, amount decimal.Decimal) (*WithdrawalRequest, error)
	List(skip, limit int) ([]Account, error)
}

type AccountRepositoryImpl struct {
	db *DB
}

func NewAccountRepository(db *DB) AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// pqUniqueViolation is the Postgres error code for unique-constraint violations.
const pqUniqueViolation = "23505"

func generateReferralCode() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:10]
}

func (repo *AccountRepositoryImpl) GetOrCreate(chatID int64, username, firstName string) (*Account, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	account, found, err := repo.GetOne(chatID)
	if err != nil {
		return nil, err
	}
	if found {
		return account, nil
	}

	query := `
		INSERT INTO accounts (chat_id, username, first_name, referral_code)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chat_id) DO NOTHING
		RETURNING *`

	// A referral code collision is a generation artifact, not a caller error,
	// so we regenerate and retry exactly once.
	for attempt := 0; attempt < 2; attempt++ {
		var inserted Account
		err = repo.db.GetContext(ctx, &inserted, query,
			chatID,
			nullString(username),
			nullString(firstName),
			generateReferralCode(),
		)
		if err == nil {
			return &inserted, nil
		}

		if errors.Is(err, sql.ErrNoRows) {
			// a concurrent first contact won the insert race; the row exists now
			account, _, err = repo.GetOne(chatID)
			return account, err
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			continue
		}

		return nil, err
	}

	return nil, err
}

func (repo *AccountRepositoryImpl) GetOne(chatID int64) (*Account, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var account Account

	query := `SELECT * FROM accounts WHERE chat_id = $1`

	err := repo.db.GetContext(ctx, &account, query, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &account, true, err
}

func (repo *AccountRepositoryImpl) GetByReferralCode(code string) (*Account, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var account Account

	query := `SELECT * FROM accounts WHERE referral_code = $1`

	err := repo.db.GetContext(ctx, &account, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &account, true, err
}

// AttributeReferral links chatID's account to the owner of code and credits
// the referrer's balance with the bonus. All three mutations (referred_by,
// invite_count, balance) happen in one transaction so a crash can't leave a
// partial credit behind.
func (repo *AccountRepositoryImpl) AttributeReferral(chatID int64, code string, bonus decimal.Decimal) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var account Account

	query := `SELECT * FROM accounts WHERE chat_id = $1 FOR UPDATE`

	err = tx.GetContext(ctx, &account, query, chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if account.ReferredBy.Valid {
		return ErrAlreadyReferred
	}

	var referrer Account

	query = `SELECT * FROM accounts WHERE referral_code = $1 FOR UPDATE`

	err = tx.GetContext(ctx, &referrer, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnknownCode
		}
		return err
	}

	if referrer.ChatID == account.ChatID {
		return ErrSelfReferral
	}

	query = `UPDATE accounts SET referred_by = $1 WHERE chat_id = $2`

	_, err = tx.ExecContext(ctx, query, referrer.ChatID, account.ChatID)
	if err != nil {
		return err
	}

	query = `UPDATE accounts SET invite_count = invite_count + 1, balance = balance + $1 WHERE chat_id = $2`

	_, err = tx.ExecContext(ctx, query, bonus, referrer.ChatID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (repo *AccountRepositoryImpl) SetWallet(chatID int64, address string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE accounts SET wallet_address = $1 WHERE chat_id = $2`

	result, err := repo.db.ExecContext(ctx, query, address, chatID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// DebitForWithdrawal reserves amount from the account's balance and creates a
// PENDING withdrawal request carrying a snapshot of the current wallet
// address. The balance check and debit run under a row lock so two racing
// requests for the same account serialize; the loser observes the
// post-debit balance.
func (repo *AccountRepositoryImpl) DebitForWithdrawal(chatID int64, amount decimal.Decimal) (*WithdrawalRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var account Account

	query := `SELECT * FROM accounts WHERE chat_id = $1 FOR UPDATE`

	err = tx.GetContext(ctx, &account, query, chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !account.WalletAddress.Valid {
		return nil, ErrNoWallet
	}

	if account.Balance.LessThan(amount) {
		return nil, ErrInsufficientBalance
	}

	query = `UPDATE accounts SET balance = balance - $1 WHERE chat_id = $2`

	_, err = tx.ExecContext(ctx, query, amount, chatID)
	if err != nil {
		return nil, err
	}

	var request WithdrawalRequest

	query = `
		INSERT INTO withdrawal_requests (chat_id, amount, wallet_address)
		VALUES ($1, $2, $3)
		RETURNING *`

	err = tx.GetContext(ctx, &request, query, chatID, amount, account.WalletAddress.String)
	if err != nil {
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, err
	}

	return &request, nil
}

func (repo *AccountRepositoryImpl) List(skip, limit int) ([]Account, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	accounts := []Account{}

	query := `SELECT * FROM accounts ORDER BY created_at ASC OFFSET $1 LIMIT $2`

	err := repo.db.SelectContext(ctx, &accounts, query, skip, limit)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
