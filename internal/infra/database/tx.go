package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/buyerleads/internal/entity"
	"github.com/xavierca1/buyerleads/internal/usecase"
)

// Store hands out repositories bound either to the pool or to a transaction.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) Buyers() entity.BuyerRepository {
	return NewBuyerRepository(s.DB)
}

func (s *Store) History() entity.HistoryRepository {
	return NewHistoryRepository(s.DB)
}

// RunInTx commits only when fn returns nil; any error, panic or cancelled
// context rolls back.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx usecase.Tx) error) (err error) {
	sqlTx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	if err = fn(ctx, &txRepos{tx: sqlTx}); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txRepos struct {
	tx *sql.Tx
}

func (t *txRepos) Buyers() entity.BuyerRepository    { return NewBuyerRepository(t.tx) }
func (t *txRepos) History() entity.HistoryRepository { return NewHistoryRepository(t.tx) }

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}
