package usecase_test

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/buyerleads/internal/entity"
	"github.com/xavierca1/buyerleads/internal/infra/memory"
	"github.com/xavierca1/buyerleads/internal/usecase"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishBuyerEvent(ctx context.Context, event entity.BuyerEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockImportNotifier struct {
	mock.Mock
}

func (m *MockImportNotifier) SendImportSummary(to string, imported, total, failed int) error {
	args := m.Called(to, imported, total, failed)
	return args.Error(0)
}

var errStorage = errors.New("storage unavailable")

// faultyStore wraps the in-memory store and fails selected writes inside
// transactions, so rollback behaviour can be observed on the real state.
type faultyStore struct {
	*memory.Store
	failHistory bool
	failBatch   bool
}

func (s *faultyStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx usecase.Tx) error) error {
	return s.Store.RunInTx(ctx, func(ctx context.Context, tx usecase.Tx) error {
		return fn(ctx, &faultyTx{Tx: tx, store: s})
	})
}

type faultyTx struct {
	usecase.Tx
	store *faultyStore
}

func (t *faultyTx) Buyers() entity.BuyerRepository {
	return &faultyBuyers{BuyerRepository: t.Tx.Buyers(), store: t.store}
}

func (t *faultyTx) History() entity.HistoryRepository {
	return &faultyHistory{HistoryRepository: t.Tx.History(), store: t.store}
}

type faultyBuyers struct {
	entity.BuyerRepository
	store *faultyStore
}

func (b *faultyBuyers) CreateBatch(ctx context.Context, buyers []*entity.BuyerLead) error {
	if b.store.failBatch {
		return errStorage
	}
	return b.BuyerRepository.CreateBatch(ctx, buyers)
}

type faultyHistory struct {
	entity.HistoryRepository
	store *faultyStore
}

func (h *faultyHistory) Append(ctx context.Context, e *entity.HistoryEntry) error {
	if h.store.failHistory {
		return errStorage
	}
	return h.HistoryRepository.Append(ctx, e)
}
