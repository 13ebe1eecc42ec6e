package memory

import (
	"context"
	"sync"

	"github.com/xavierca1/buyerleads/internal/entity"
	"github.com/xavierca1/buyerleads/internal/usecase"
)

type state struct {
	buyers  map[string]*entity.BuyerLead
	history []*entity.HistoryEntry
}

func (s *state) clone() *state {
	next := &state{
		buyers:  make(map[string]*entity.BuyerLead, len(s.buyers)),
		history: make([]*entity.HistoryEntry, len(s.history)),
	}
	for id, b := range s.buyers {
		next.buyers[id] = b
	}
	copy(next.history, s.history)
	return next
}

// Store keeps leads and history in process memory. Transactions are
// serialized and work on a private copy that replaces the live state only on
// commit, so a failed unit leaves nothing behind.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *state
}

func NewStore() *Store {
	return &Store{data: &state{buyers: make(map[string]*entity.BuyerLead)}}
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

func (s *Store) commit(ctx context.Context, fn func(st *state) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	next := s.data.clone()
	s.mu.RUnlock()

	if err := fn(next); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = next
	s.mu.Unlock()
	return nil
}

func (s *Store) Buyers() entity.BuyerRepository {
	return &BuyerRepo{
		read:  s.read,
		write: func(fn func(*state) error) error { return s.commit(context.Background(), fn) },
	}
}

func (s *Store) History() entity.HistoryRepository {
	return &HistoryRepo{
		read:  s.read,
		write: func(fn func(*state) error) error { return s.commit(context.Background(), fn) },
	}
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx usecase.Tx) error) error {
	return s.commit(ctx, func(st *state) error {
		direct := func(f func(*state) error) error { return f(st) }
		return fn(ctx, &txView{
			buyers:  &BuyerRepo{read: direct, write: direct},
			history: &HistoryRepo{read: direct, write: direct},
		})
	})
}

type txView struct {
	buyers  *BuyerRepo
	history *HistoryRepo
}

func (t *txView) Buyers() entity.BuyerRepository    { return t.buyers }
func (t *txView) History() entity.HistoryRepository { return t.history }
