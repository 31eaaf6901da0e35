package auction

import (
	"context"
	"fmt"

	"github.com/cedarhall/gavelhouse/internal/domain"
)

// Compiler produces the final results dump: per-item winner and history plus
// auction-wide counts. It is read-only and takes no locks beyond normal read
// consistency; results are a point-in-time snapshot and do not observe bids
// committed after compilation starts.
type Compiler struct {
	items domain.ItemLedger
	bids  domain.BidStore
}

// NewCompiler creates a Compiler over the given stores.
func NewCompiler(items domain.ItemLedger, bids domain.BidStore) *Compiler {
	return &Compiler{items: items, bids: bids}
}

// Compile aggregates results for every item. The winner is the most recently
// accepted bid, which by the ledger invariant carries the item's current bid
// amount; items with zero bids have no winner.
func (c *Compiler) Compile(ctx context.Context) (domain.AuctionResults, error) {
	items, err := c.items.List(ctx)
	if err != nil {
		return domain.AuctionResults{}, fmt.Errorf("results: list items: %w", err)
	}

	results := domain.AuctionResults{
		TotalItems: int64(len(items)),
		Items:      make([]domain.ItemResult, 0, len(items)),
	}

	for _, it := range items {
		bids, err := c.bids.ListByItem(ctx, it.ID)
		if err != nil {
			return domain.AuctionResults{}, fmt.Errorf("results: list bids for item %d: %w", it.ID, err)
		}

		res := domain.ItemResult{
			ItemID:      it.ID,
			Name:        it.Name,
			StartingBid: it.StartingBid,
			CurrentBid:  it.CurrentBid,
			TotalBids:   len(bids),
			Bids:        bids,
		}
		if len(bids) > 0 {
			// Bids are ordered most recent first.
			res.Winner = &domain.WinningBid{
				Amount:  bids[0].Amount,
				Contact: bids[0].Contact,
			}
			results.ItemsWithBids++
		} else {
			results.ItemsWithoutBids++
		}

		results.Items = append(results.Items, res)
	}

	return results, nil
}
