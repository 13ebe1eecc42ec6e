package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/xavierca1/buyerleads/internal/entity"
)

type HistoryRepo struct {
	read  func(fn func(st *state) error) error
	write func(fn func(st *state) error) error
}

func (r *HistoryRepo) Append(ctx context.Context, entry *entity.HistoryEntry) error {
	return r.write(func(st *state) error {
		if _, ok := st.buyers[entry.BuyerID]; !ok {
			return fmt.Errorf("history for unknown buyer %s", entry.BuyerID)
		}
		c := *entry
		st.history = append(st.history, &c)
		return nil
	})
}

func (r *HistoryRepo) RecentFor(ctx context.Context, buyerID string, limit int) ([]*entity.HistoryEntry, error) {
	out := []*entity.HistoryEntry{}
	err := r.read(func(st *state) error {
		// Walk backwards so equal timestamps keep newest-appended first.
		for i := len(st.history) - 1; i >= 0; i-- {
			if st.history[i].BuyerID == buyerID {
				c := *st.history[i]
				out = append(out, &c)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ChangedAt.After(out[j].ChangedAt)
		})
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}
