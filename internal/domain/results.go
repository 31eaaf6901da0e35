package domain

// WinningBid identifies the current winner of an item: the most recently
// accepted bid, whose amount always matches the item's CurrentBid.
type WinningBid struct {
	Amount  float64 `json:"amount"`
	Contact string  `json:"contact"`
}

// ItemResult is the per-item section of the final results dump.
type ItemResult struct {
	ItemID      int64       `json:"item_id"`
	Name        string      `json:"name"`
	StartingBid float64     `json:"starting_bid"`
	CurrentBid  float64     `json:"current_bid"`
	TotalBids   int         `json:"total_bids"`
	Winner      *WinningBid `json:"winner,omitempty"`
	Bids        []Bid       `json:"bids"`
}

// AuctionResults is a point-in-time snapshot of the whole auction.
type AuctionResults struct {
	TotalItems       int64        `json:"total_items"`
	ItemsWithBids    int64        `json:"items_with_bids"`
	ItemsWithoutBids int64        `json:"items_without_bids"`
	Items            []ItemResult `json:"items"`
}
