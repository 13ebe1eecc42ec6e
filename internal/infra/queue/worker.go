package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/buyerleads/internal/entity"
	"go.uber.org/zap"
)

// EventHandler processes one event. An error dead-letters the message.
type EventHandler func(ctx context.Context, event entity.BuyerEvent) error

type Worker struct {
	Channel *amqp.Channel
	Handle  EventHandler
	Logger  *zap.Logger
}

func NewWorker(ch *amqp.Channel, handle EventHandler, logger *zap.Logger) *Worker {
	return &Worker{Channel: ch, Handle: handle, Logger: logger}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx, queueName, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	w.Logger.Info("worker consuming", zap.String("queue", queueName))
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.process(ctx, d)
		}
	}
}

func (w *Worker) process(ctx context.Context, d amqp.Delivery) {
	var event entity.BuyerEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.Logger.Warn("discarding malformed event", zap.String("routing_key", d.RoutingKey), zap.Error(err))
		d.Nack(false, false)
		return
	}

	if err := w.Handle(ctx, event); err != nil {
		w.Logger.Error("event handler failed",
			zap.String("type", event.Type),
			zap.String("buyer_id", event.BuyerID),
			zap.Error(err),
		)
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}
