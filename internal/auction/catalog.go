package auction

import (
	"context"
	"fmt"

	"github.com/cedarhall/gavelhouse/internal/domain"
)

// Catalog is the read side of the item ledger: items with their bid history,
// for display. It never mutates anything.
type Catalog struct {
	items domain.ItemLedger
	bids  domain.BidStore
}

// NewCatalog creates a Catalog over the given stores.
func NewCatalog(items domain.ItemLedger, bids domain.BidStore) *Catalog {
	return &Catalog{items: items, bids: bids}
}

// ListItems returns every item in stable id order with bids most recent first.
func (c *Catalog) ListItems(ctx context.Context) ([]domain.ItemWithBids, error) {
	items, err := c.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list items: %w", err)
	}

	out := make([]domain.ItemWithBids, 0, len(items))
	for _, it := range items {
		bids, err := c.bids.ListByItem(ctx, it.ID)
		if err != nil {
			return nil, fmt.Errorf("catalog: list bids for item %d: %w", it.ID, err)
		}
		out = append(out, domain.ItemWithBids{Item: it, Bids: bids})
	}
	return out, nil
}

// GetItem returns a single item with its bid history, or domain.ErrNotFound.
func (c *Catalog) GetItem(ctx context.Context, id int64) (domain.ItemWithBids, error) {
	it, err := c.items.GetByID(ctx, id)
	if err != nil {
		return domain.ItemWithBids{}, err
	}
	bids, err := c.bids.ListByItem(ctx, id)
	if err != nil {
		return domain.ItemWithBids{}, fmt.Errorf("catalog: list bids for item %d: %w", id, err)
	}
	return domain.ItemWithBids{Item: it, Bids: bids}, nil
}
