package usecase

import (
	"context"

	"github.com/xavierca1/buyerleads/internal/entity"
	"go.uber.org/zap"
)

// publishEvent is best effort: the mutation is already committed.
func publishEvent(ctx context.Context, events BuyerEventPublisher, logger *zap.Logger, event entity.BuyerEvent) {
	if events == nil {
		return
	}
	if err := events.PublishBuyerEvent(ctx, event); err != nil {
		logger.Warn("failed to publish buyer event",
			zap.String("type", event.Type),
			zap.String("buyer_id", event.BuyerID),
			zap.Error(err),
		)
	}
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
