// Package domain defines the core types and store interfaces for the silent
// auction backend. It has no dependencies on transport or storage packages.
package domain

import (
	"encoding/json"
	"time"
)

// Item is a single auctionable item. CurrentBid is monotonically
// non-decreasing and always equals the amount of the most recently accepted
// bid, or StartingBid when no bid has been accepted yet.
type Item struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	StartingBid float64 `json:"starting_bid"`
	CurrentBid  float64 `json:"current_bid"`
	ImageURL    *string `json:"image_url"`
}

// Bid is an accepted bid. Bids are immutable and append-only; they are never
// updated or deleted for the lifetime of the auction.
type Bid struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	Amount    float64   `json:"amount"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

// ItemWithBids is an Item together with its bid history, most recent first.
type ItemWithBids struct {
	Item
	Bids []Bid `json:"bids"`
}

// BidReceipt is returned to the bidder after a successful admission and is
// also the payload broadcast to every live WebSocket subscriber.
type BidReceipt struct {
	ItemID     int64   `json:"item_id"`
	ItemName   string  `json:"item_name"`
	CurrentBid float64 `json:"current_bid"`
	BidID      int64   `json:"bid_id"`
}

// MarshalEvent renders the receipt as the wire payload sent to subscribers
// and mirrored on the signal bus.
func (r BidReceipt) MarshalEvent() ([]byte, error) {
	return json.Marshal(r)
}
