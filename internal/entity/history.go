package entity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	DiffCreated = "created"
	DiffUpdated = "updated"
)

// HistoryEntry is an immutable audit record of a lead mutation.
type HistoryEntry struct {
	ID        string         `json:"id"`
	BuyerID   string         `json:"buyerId"`
	ChangedBy string         `json:"changedBy"`
	ChangedAt time.Time      `json:"changedAt"`
	Diff      map[string]any `json:"diff"`
}

// NewHistoryEntry records the post-change payload tagged with marker
// (DiffCreated or DiffUpdated).
func NewHistoryEntry(buyerID, changedBy, marker string, fields BuyerFields, at time.Time) (*HistoryEntry, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	diff := map[string]any{}
	if err := json.Unmarshal(raw, &diff); err != nil {
		return nil, err
	}
	diff[marker] = true

	return &HistoryEntry{
		ID:        uuid.New().String(),
		BuyerID:   buyerID,
		ChangedBy: changedBy,
		ChangedAt: at,
		Diff:      diff,
	}, nil
}

// HistoryRepository is append-only: there is no update or delete.
type HistoryRepository interface {
	Append(ctx context.Context, entry *HistoryEntry) error
	RecentFor(ctx context.Context, buyerID string, limit int) ([]*HistoryEntry, error)
}
