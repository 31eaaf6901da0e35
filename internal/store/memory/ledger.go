// Package memory implements the domain store interfaces in process memory.
// Per-item mutual exclusion uses a mutex keyed by item id, so admissions on
// the same item serialize while admissions on different items run in
// parallel. It backs the core tests and is behaviorally interchangeable with
// the PostgreSQL store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cedarhall/gavelhouse/internal/domain"
)

// itemRecord is one item plus its own admission lock and bid history. The
// lock spans the read-validate-write of a single admission; the record's
// fields are only touched while it is held (or while the table lock is held
// during seeding).
type itemRecord struct {
	mu   sync.Mutex
	item domain.Item
	bids []domain.Bid // append order; oldest first
}

// Ledger implements domain.ItemLedger and domain.BidStore in memory.
type Ledger struct {
	mu      sync.RWMutex // guards the maps and id counters, not item state
	items   map[int64]*itemRecord
	nextID  int64
	nextBid int64
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{items: make(map[int64]*itemRecord)}
}

// InsertBatch inserts items for seeding, assigning sequential ids and
// initializing the current bid to the starting bid.
func (l *Ledger) InsertBatch(_ context.Context, items []domain.Item) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range items {
		l.nextID++
		it.ID = l.nextID
		it.CurrentBid = it.StartingBid
		l.items[it.ID] = &itemRecord{item: it}
	}
	return nil
}

// List returns every item in stable id order.
func (l *Ledger) List(_ context.Context) ([]domain.Item, error) {
	l.mu.RLock()
	records := make([]*itemRecord, 0, len(l.items))
	for _, rec := range l.items {
		records = append(records, rec)
	}
	l.mu.RUnlock()

	items := make([]domain.Item, 0, len(records))
	for _, rec := range records {
		rec.mu.Lock()
		items = append(items, rec.item)
		rec.mu.Unlock()
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// GetByID returns a single item or domain.ErrNotFound.
func (l *Ledger) GetByID(_ context.Context, id int64) (domain.Item, error) {
	l.mu.RLock()
	rec, ok := l.items[id]
	l.mu.RUnlock()
	if !ok {
		return domain.Item{}, domain.ErrNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.item, nil
}

// Count returns the total number of items.
func (l *Ledger) Count(_ context.Context) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return int64(len(l.items)), nil
}

// AdmitBid locks the single target item, runs decide against its current
// state, and on acceptance appends the bid and advances the price before
// unlocking. No two admissions on the same item can interleave between the
// read and the write, and admissions on different items never contend.
func (l *Ledger) AdmitBid(_ context.Context, itemID int64, decide domain.AdmitFunc, contact string) (domain.Bid, domain.Item, error) {
	l.mu.RLock()
	rec, ok := l.items[itemID]
	l.mu.RUnlock()
	if !ok {
		return domain.Bid{}, domain.Item{}, domain.ErrNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	amount, err := decide(rec.item)
	if err != nil {
		return domain.Bid{}, domain.Item{}, err
	}

	l.mu.Lock()
	l.nextBid++
	bidID := l.nextBid
	l.mu.Unlock()

	bid := domain.Bid{
		ID:        bidID,
		ItemID:    itemID,
		Amount:    amount,
		Contact:   contact,
		CreatedAt: time.Now().UTC(),
	}
	rec.bids = append(rec.bids, bid)
	rec.item.CurrentBid = amount

	return bid, rec.item, nil
}

// ListByItem returns an item's bids, most recent first.
func (l *Ledger) ListByItem(_ context.Context, itemID int64) ([]domain.Bid, error) {
	l.mu.RLock()
	rec, ok := l.items[itemID]
	l.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]domain.Bid, len(rec.bids))
	for i, b := range rec.bids {
		out[len(rec.bids)-1-i] = b
	}
	return out, nil
}

// Compile-time interface checks.
var (
	_ domain.ItemLedger = (*Ledger)(nil)
	_ domain.BidStore   = (*Ledger)(nil)
)
