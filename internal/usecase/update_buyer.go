package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xavierca1/buyerleads/internal/entity"
	"go.uber.org/zap"
)

type UpdateBuyerUseCase struct {
	Store     Store
	Validator *Validator
	Events    BuyerEventPublisher
	Logger    *zap.Logger
	Now       Clock
}

func NewUpdateBuyerUseCase(store Store, events BuyerEventPublisher, logger *zap.Logger) *UpdateBuyerUseCase {
	return &UpdateBuyerUseCase{
		Store:     store,
		Validator: NewValidator(),
		Events:    events,
		Logger:    orNop(logger),
		Now:       time.Now,
	}
}

// ParseVersion reads the version token a client echoes back. An empty token
// means the caller did not ask for a concurrency check.
func ParseVersion(token string) (*time.Time, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, token)
	if err != nil {
		return nil, validationFailed([]ValidationError{{"updatedAt", "must be an RFC 3339 timestamp"}})
	}
	return &t, nil
}

// Execute replaces the editable fields of lead id. When expected is set it
// must equal the stored version, otherwise the call fails with CONFLICT and
// nothing is written.
func (uc *UpdateBuyerUseCase) Execute(ctx context.Context, id string, input BuyerInput, expected *time.Time) (*entity.BuyerLead, error) {
	result := uc.Validator.Validate(input)
	if !result.OK() {
		return nil, validationFailed(result.Errors)
	}

	var buyer *entity.BuyerLead
	tx := NewTransaction(uc.Store)
	tx.AddOperation("update_buyer", func(ctx context.Context, tx Tx) error {
		current, err := tx.Buyers().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if expected != nil && !expected.Equal(current.UpdatedAt) {
			return entity.ErrVersionConflict
		}

		prev := current.UpdatedAt
		current.Apply(*result.Payload, current.NextVersion(uc.Now()))
		if err := tx.Buyers().Update(ctx, current, prev); err != nil {
			return err
		}
		buyer = current
		return nil
	})
	tx.AddOperation("append_history", func(ctx context.Context, tx Tx) error {
		// The ledger records the owner of record, not the editor.
		entry, err := entity.NewHistoryEntry(buyer.ID, buyer.OwnerID, entity.DiffUpdated, buyer.BuyerFields, buyer.UpdatedAt)
		if err != nil {
			return err
		}
		return tx.History().Append(ctx, entry)
	})

	if err := tx.Execute(ctx); err != nil {
		switch {
		case errors.Is(err, entity.ErrBuyerNotFound):
			return nil, notFound()
		case errors.Is(err, entity.ErrVersionConflict):
			uc.Logger.Info("stale update rejected", zap.String("buyer_id", id))
			return nil, conflict()
		}
		uc.Logger.Error("update buyer failed", zap.String("buyer_id", id), zap.Error(err))
		return nil, internal("failed to update buyer", err)
	}

	publishEvent(ctx, uc.Events, uc.Logger, entity.BuyerEvent{
		Type:       entity.EventBuyerUpdated,
		BuyerID:    buyer.ID,
		OwnerID:    buyer.OwnerID,
		OccurredAt: buyer.UpdatedAt,
	})
	return buyer, nil
}
