package usecase

import (
	"context"
	"fmt"
)

// Transaction groups named operations that must commit together. The
// TxRunner provides atomicity, so a failed operation needs no compensation:
// returning its error rolls back everything done before it.
type Transaction struct {
	runner     TxRunner
	operations []Operation
}

type Operation struct {
	Name string
	Fn   func(ctx context.Context, tx Tx) error
}

func NewTransaction(runner TxRunner) *Transaction {
	return &Transaction{
		runner:     runner,
		operations: []Operation{},
	}
}

func (t *Transaction) AddOperation(name string, fn func(ctx context.Context, tx Tx) error) {
	t.operations = append(t.operations, Operation{name, fn})
}

func (t *Transaction) Execute(ctx context.Context) error {
	return t.runner.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		for _, op := range t.operations {
			if err := op.Fn(ctx, tx); err != nil {
				return fmt.Errorf("operation '%s' failed: %w", op.Name, err)
			}
		}
		return nil
	})
}
