package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/buyerleads/internal/entity"
)

// Tx exposes repositories bound to a single unit of work.
type Tx interface {
	Buyers() entity.BuyerRepository
	History() entity.HistoryRepository
}

// TxRunner executes fn atomically: either every write inside fn is committed
// or none is. A non-nil error from fn rolls the unit back.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Reader serves reads that need no transaction.
type Reader interface {
	Buyers() entity.BuyerRepository
	History() entity.HistoryRepository
}

// Store is what the use cases need from persistence.
type Store interface {
	Reader
	TxRunner
}

type BuyerEventPublisher interface {
	PublishBuyerEvent(ctx context.Context, event entity.BuyerEvent) error
}

type ImportNotifier interface {
	SendImportSummary(to string, imported, total, failed int) error
}

// Clock is swapped in tests.
type Clock func() time.Time
