package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xavierca1/buyerleads/internal/entity"
)

type BuyerRepo struct {
	read  func(fn func(st *state) error) error
	write func(fn func(st *state) error) error
}

// Stored leads are never shared with callers.
func cloneBuyer(b *entity.BuyerLead) *entity.BuyerLead {
	c := *b
	c.Tags = append([]string{}, b.Tags...)
	if b.BudgetMin != nil {
		v := *b.BudgetMin
		c.BudgetMin = &v
	}
	if b.BudgetMax != nil {
		v := *b.BudgetMax
		c.BudgetMax = &v
	}
	return &c
}

func (r *BuyerRepo) Create(ctx context.Context, b *entity.BuyerLead) error {
	return r.write(func(st *state) error {
		if _, ok := st.buyers[b.ID]; ok {
			return fmt.Errorf("buyer %s already exists", b.ID)
		}
		st.buyers[b.ID] = cloneBuyer(b)
		return nil
	})
}

func (r *BuyerRepo) CreateBatch(ctx context.Context, buyers []*entity.BuyerLead) error {
	return r.write(func(st *state) error {
		for _, b := range buyers {
			if _, ok := st.buyers[b.ID]; ok {
				return fmt.Errorf("buyer %s already exists", b.ID)
			}
			st.buyers[b.ID] = cloneBuyer(b)
		}
		return nil
	})
}

func (r *BuyerRepo) FindByID(ctx context.Context, id string) (*entity.BuyerLead, error) {
	var found *entity.BuyerLead
	err := r.read(func(st *state) error {
		b, ok := st.buyers[id]
		if !ok {
			return entity.ErrBuyerNotFound
		}
		found = cloneBuyer(b)
		return nil
	})
	return found, err
}

// FindByIDForUpdate needs no row lock here: transactions are serialized.
func (r *BuyerRepo) FindByIDForUpdate(ctx context.Context, id string) (*entity.BuyerLead, error) {
	return r.FindByID(ctx, id)
}

func (r *BuyerRepo) Update(ctx context.Context, b *entity.BuyerLead, expected time.Time) error {
	return r.write(func(st *state) error {
		current, ok := st.buyers[b.ID]
		if !ok {
			return entity.ErrBuyerNotFound
		}
		if !current.UpdatedAt.Equal(expected) {
			return entity.ErrVersionConflict
		}
		st.buyers[b.ID] = cloneBuyer(b)
		return nil
	})
}

func (r *BuyerRepo) List(ctx context.Context, filter entity.BuyerFilter, limit, offset int) ([]*entity.BuyerLead, error) {
	var out []*entity.BuyerLead
	err := r.read(func(st *state) error {
		matched := matching(st, filter)
		sort.Slice(matched, func(i, j int) bool {
			if !matched[i].UpdatedAt.Equal(matched[j].UpdatedAt) {
				return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
			}
			return matched[i].ID < matched[j].ID
		})
		if offset >= len(matched) {
			out = []*entity.BuyerLead{}
			return nil
		}
		end := offset + limit
		if end > len(matched) {
			end = len(matched)
		}
		out = make([]*entity.BuyerLead, 0, end-offset)
		for _, b := range matched[offset:end] {
			out = append(out, cloneBuyer(b))
		}
		return nil
	})
	return out, err
}

func (r *BuyerRepo) Count(ctx context.Context, filter entity.BuyerFilter) (int, error) {
	var n int
	err := r.read(func(st *state) error {
		n = len(matching(st, filter))
		return nil
	})
	return n, err
}

func matching(st *state, filter entity.BuyerFilter) []*entity.BuyerLead {
	out := make([]*entity.BuyerLead, 0, len(st.buyers))
	for _, b := range st.buyers {
		if filter.Match(b) {
			out = append(out, b)
		}
	}
	return out
}
