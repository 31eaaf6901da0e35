package domain

import (
	"context"
	"io"
	"time"
)

// AdmitFunc decides the fate of a bid while its item is exclusively locked.
// It receives the item as currently committed and returns the normalized
// amount to record, or an error to reject. The implementation guarantees that
// no other admission on the same item can observe or commit state between the
// read and the write.
type AdmitFunc func(item Item) (amount float64, err error)

// ItemLedger is the durable store of items and their running prices. The only
// mutation paths are InsertBatch (seed time) and AdmitBid; the price invariant
// is preserved by funnelling every write through AdmitBid.
type ItemLedger interface {
	// List returns every item in stable id order.
	List(ctx context.Context) ([]Item, error)
	// GetByID returns a single item or ErrNotFound.
	GetByID(ctx context.Context, id int64) (Item, error)
	// Count returns the total number of items.
	Count(ctx context.Context) (int64, error)
	// InsertBatch inserts items for seeding. CurrentBid is initialized to
	// StartingBid.
	InsertBatch(ctx context.Context, items []Item) error
	// AdmitBid locks the target item, calls decide with its committed state,
	// and, iff decide returns nil, atomically appends a bid for contact and
	// advances the item price before releasing the lock. Bids on different
	// items never contend. Returns ErrNotFound when no such item exists;
	// decide errors are returned unchanged with no state mutated.
	AdmitBid(ctx context.Context, itemID int64, decide AdmitFunc, contact string) (Bid, Item, error)
}

// BidStore reads the append-only bid history.
type BidStore interface {
	// ListByItem returns an item's bids, most recent first.
	ListByItem(ctx context.Context, itemID int64) ([]Bid, error)
}

// SignalBus publishes and subscribes to ephemeral event channels. Used to
// mirror accepted-bid events for external ops tooling.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// RateLimiter answers whether a request identified by key is allowed under a
// sliding-window limit.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// BlobWriter uploads an object to blob storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}
