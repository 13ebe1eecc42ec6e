package entity

import "time"

const (
	EventBuyerCreated   = "buyer.created"
	EventBuyerUpdated   = "buyer.updated"
	EventBuyersImported = "buyers.imported"
)

// BuyerEvent is emitted after a mutation has been committed.
type BuyerEvent struct {
	Type       string    `json:"type"`
	BuyerID    string    `json:"buyerId,omitempty"`
	OwnerID    string    `json:"ownerId"`
	Count      int       `json:"count,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
