package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/buyerleads/internal/entity"
)

const recentHistoryLimit = 5

type GetBuyerUseCase struct {
	Store Reader
}

func NewGetBuyerUseCase(store Reader) *GetBuyerUseCase {
	return &GetBuyerUseCase{Store: store}
}

func (uc *GetBuyerUseCase) Execute(ctx context.Context, id string) (*BuyerDetail, error) {
	buyer, err := uc.Store.Buyers().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrBuyerNotFound) {
			return nil, notFound()
		}
		return nil, internal("failed to load buyer", err)
	}

	history, err := uc.Store.History().RecentFor(ctx, id, recentHistoryLimit)
	if err != nil {
		return nil, internal("failed to load history", err)
	}
	if history == nil {
		history = []*entity.HistoryEntry{}
	}
	return &BuyerDetail{Buyer: buyer, History: history}, nil
}
