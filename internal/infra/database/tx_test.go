package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/buyerleads/internal/entity"
	"github.com/xavierca1/buyerleads/internal/usecase"
)

func TestRunInTx_CommitsBothWrites(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewStore(db)

	b := sampleBuyer(time.Now().UTC())
	entry, err := entity.NewHistoryEntry(b.ID, b.OwnerID, entity.DiffCreated, b.BuyerFields, b.UpdatedAt)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO buyers`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO buyer_history`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = store.RunInTx(context.Background(), func(ctx context.Context, tx usecase.Tx) error {
		if err := tx.Buyers().Create(ctx, b); err != nil {
			return err
		}
		return tx.History().Append(ctx, entry)
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_RollsBackWhenHistoryFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewStore(db)

	b := sampleBuyer(time.Now().UTC())
	entry, err := entity.NewHistoryEntry(b.ID, b.OwnerID, entity.DiffCreated, b.BuyerFields, b.UpdatedAt)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO buyers`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO buyer_history`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err = store.RunInTx(context.Background(), func(ctx context.Context, tx usecase.Tx) error {
		if err := tx.Buyers().Create(ctx, b); err != nil {
			return err
		}
		return tx.History().Append(ctx, entry)
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_BeginFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewStore(db)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err = store.RunInTx(context.Background(), func(ctx context.Context, tx usecase.Tx) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}
