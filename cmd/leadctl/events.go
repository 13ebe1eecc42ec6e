package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/xavierca1/buyerleads/internal/entity"
	"github.com/xavierca1/buyerleads/internal/infra/queue"
)

func newEventsCmd(a *app) *cobra.Command {
	var queueName string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Consume buyer events and print them as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.RabbitMQ.URL == "" {
				return errors.New("RABBITMQ_URL is not set")
			}
			rabbitMQ, err := queue.NewRabbitMQ(a.cfg.RabbitMQ.URL)
			if err != nil {
				return err
			}
			defer rabbitMQ.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			worker := queue.NewWorker(rabbitMQ.Ch, func(_ context.Context, e entity.BuyerEvent) error {
				return enc.Encode(e)
			}, a.log)
			return worker.Start(cmd.Context(), queueName)
		},
	}

	cmd.Flags().StringVar(&queueName, "queue", queue.QueueName, "Queue to consume")
	return cmd
}
