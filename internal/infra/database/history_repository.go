package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xavierca1/buyerleads/internal/entity"
)

// HistoryRepository is insert-only.
type HistoryRepository struct {
	DB querier
}

func NewHistoryRepository(db querier) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

func (r *HistoryRepository) Append(ctx context.Context, e *entity.HistoryEntry) error {
	diff, err := json.Marshal(e.Diff)
	if err != nil {
		return fmt.Errorf("encode history diff: %w", err)
	}

	query := `
		INSERT INTO buyer_history (id, buyer_id, changed_by, changed_at, diff)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.DB.ExecContext(ctx, query, e.ID, e.BuyerID, e.ChangedBy, e.ChangedAt, string(diff)); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func (r *HistoryRepository) RecentFor(ctx context.Context, buyerID string, limit int) ([]*entity.HistoryEntry, error) {
	query := `
		SELECT id, buyer_id, changed_by, changed_at, diff
		FROM buyer_history
		WHERE buyer_id = $1
		ORDER BY changed_at DESC
		LIMIT $2
	`
	rows, err := r.DB.QueryContext(ctx, query, buyerID, limit)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()

	entries := []*entity.HistoryEntry{}
	for rows.Next() {
		var (
			e    entity.HistoryEntry
			diff []byte
		)
		if err := rows.Scan(&e.ID, &e.BuyerID, &e.ChangedBy, &e.ChangedAt, &diff); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if err := json.Unmarshal(diff, &e.Diff); err != nil {
			return nil, fmt.Errorf("decode history diff: %w", err)
		}
		e.ChangedAt = e.ChangedAt.UTC()
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	return entries, nil
}
