package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/buyerleads/internal/entity"
	"go.uber.org/zap"
)

type CreateBuyerUseCase struct {
	Store     Store
	Validator *Validator
	Events    BuyerEventPublisher
	Logger    *zap.Logger
	Now       Clock
}

func NewCreateBuyerUseCase(store Store, events BuyerEventPublisher, logger *zap.Logger) *CreateBuyerUseCase {
	return &CreateBuyerUseCase{
		Store:     store,
		Validator: NewValidator(),
		Events:    events,
		Logger:    orNop(logger),
		Now:       time.Now,
	}
}

func (uc *CreateBuyerUseCase) Execute(ctx context.Context, input BuyerInput, ownerID string) (*entity.BuyerLead, error) {
	if ownerID == "" {
		return nil, unauthorized()
	}

	result := uc.Validator.Validate(input)
	if !result.OK() {
		return nil, validationFailed(result.Errors)
	}

	now := uc.Now().UTC().Truncate(time.Microsecond)
	buyer := entity.NewBuyerLead(uuid.New().String(), *result.Payload, ownerID, now)

	tx := NewTransaction(uc.Store)
	tx.AddOperation("insert_buyer", func(ctx context.Context, tx Tx) error {
		return tx.Buyers().Create(ctx, buyer)
	})
	tx.AddOperation("append_history", func(ctx context.Context, tx Tx) error {
		entry, err := entity.NewHistoryEntry(buyer.ID, ownerID, entity.DiffCreated, buyer.BuyerFields, now)
		if err != nil {
			return err
		}
		return tx.History().Append(ctx, entry)
	})
	if err := tx.Execute(ctx); err != nil {
		uc.Logger.Error("create buyer failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, internal("failed to create buyer", err)
	}

	uc.Logger.Info("buyer created", zap.String("buyer_id", buyer.ID), zap.String("owner_id", ownerID))
	publishEvent(ctx, uc.Events, uc.Logger, entity.BuyerEvent{
		Type:       entity.EventBuyerCreated,
		BuyerID:    buyer.ID,
		OwnerID:    ownerID,
		OccurredAt: now,
	})
	return buyer, nil
}
