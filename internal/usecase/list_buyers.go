package usecase

import (
	"context"

	"github.com/xavierca1/buyerleads/internal/entity"
)

const PageSize = 10

type ListBuyersUseCase struct {
	Store Reader
}

func NewListBuyersUseCase(store Reader) *ListBuyersUseCase {
	return &ListBuyersUseCase{Store: store}
}

// Execute returns one page of leads, newest first. Pages start at 1; anything
// lower is treated as the first page.
func (uc *ListBuyersUseCase) Execute(ctx context.Context, filter entity.BuyerFilter, page int) (*entity.BuyerPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := uc.Store.Buyers().Count(ctx, filter)
	if err != nil {
		return nil, internal("failed to count buyers", err)
	}

	buyers, err := uc.Store.Buyers().List(ctx, filter, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, internal("failed to list buyers", err)
	}
	if buyers == nil {
		buyers = []*entity.BuyerLead{}
	}

	return &entity.BuyerPage{
		Buyers:     buyers,
		Page:       page,
		PageSize:   PageSize,
		Total:      total,
		TotalPages: (total + PageSize - 1) / PageSize,
	}, nil
}
