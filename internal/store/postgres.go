package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tradestack/market-sim/internal/model"
)

// PostgresStore implements Store using PostgreSQL as the source of truth.
// Balance is stored as NUMERIC for exact decimal precision; portfolio,
// watchlist, and history are JSONB documents updated atomically with the
// balance in a single row write.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const accountColumns = `id, external_id, name, email, avatar, iban,
	balance::TEXT, portfolio, watchlist, history, created_at`

func (s *PostgresStore) CreateAccount(ctx context.Context, a *model.Account) error {
	portfolio, watchlist, history, err := marshalDocs(a)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO accounts (id, external_id, name, email, avatar, iban, balance, portfolio, watchlist, history, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::NUMERIC, $8, $9, $10, $11)`,
		a.ID, a.ExternalID, a.Name, a.Email, a.Avatar, a.IBAN,
		a.Balance.String(), portfolio, watchlist, history, a.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}

func (s *PostgresStore) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	return s.getBy(ctx, "id", id)
}

func (s *PostgresStore) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	return s.getBy(ctx, "email", email)
}

func (s *PostgresStore) GetAccountByExternalID(ctx context.Context, externalID string) (*model.Account, error) {
	return s.getBy(ctx, "external_id", externalID)
}

func (s *PostgresStore) getBy(ctx context.Context, column, value string) (*model.Account, error) {
	var a model.Account
	var balance string
	var portfolio, watchlist, history []byte

	err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM accounts WHERE %s = $1`, accountColumns, column), value).
		Scan(&a.ID, &a.ExternalID, &a.Name, &a.Email, &a.Avatar, &a.IBAN,
			&balance, &portfolio, &watchlist, &history, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account by %s: %w", column, err)
	}

	a.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("parse balance for account %s: %w", a.ID, err)
	}
	if err := unmarshalDocs(&a, portfolio, watchlist, history); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) SaveAccount(ctx context.Context, a *model.Account) error {
	portfolio, watchlist, history, err := marshalDocs(a)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE accounts
		 SET external_id = $2, name = $3, avatar = $4,
		     balance = $5::NUMERIC, portfolio = $6, watchlist = $7, history = $8
		 WHERE id = $1`,
		a.ID, a.ExternalID, a.Name, a.Avatar,
		a.Balance.String(), portfolio, watchlist, history,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteAccount(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalDocs(a *model.Account) (portfolio, watchlist, history []byte, err error) {
	if portfolio, err = json.Marshal(a.Portfolio); err != nil {
		return nil, nil, nil, err
	}
	if watchlist, err = json.Marshal(a.Watchlist); err != nil {
		return nil, nil, nil, err
	}
	if history, err = json.Marshal(a.History); err != nil {
		return nil, nil, nil, err
	}
	return portfolio, watchlist, history, nil
}

func unmarshalDocs(a *model.Account, portfolio, watchlist, history []byte) error {
	if len(portfolio) > 0 {
		if err := json.Unmarshal(portfolio, &a.Portfolio); err != nil {
			return err
		}
	}
	if len(watchlist) > 0 {
		if err := json.Unmarshal(watchlist, &a.Watchlist); err != nil {
			return err
		}
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &a.History); err != nil {
			return err
		}
	}
	return nil
}
